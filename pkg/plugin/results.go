// SPDX-License-Identifier: MIT

package plugin

import (
	"fmt"
	"sort"
	"strings"
)

// Results accumulates the values published by plugins during a dispatch.
//
// Values are stored under (owner, key) rather than key alone. Two plugins
// publishing the same key is a latent configuration bug, not a precedence
// question, so Flatten refuses to pick a winner and reports the collision
// instead. An owner overwriting its own key is fine.
type Results struct {
	owners []string
	values map[string]map[string]any
}

// NewResults creates an empty result set.
func NewResults() *Results {
	return &Results{values: make(map[string]map[string]any)}
}

// Put records a single value published by owner.
func (r *Results) Put(owner, key string, value any) {
	m, ok := r.values[owner]
	if !ok {
		m = make(map[string]any)
		r.values[owner] = m
		r.owners = append(r.owners, owner)
	}
	m[key] = value
}

// PutAll records every entry of values under owner. A nil or empty map
// records nothing.
func (r *Results) PutAll(owner string, values map[string]any) {
	for key, value := range values {
		r.Put(owner, key, value)
	}
}

// Get returns the value owner published under key.
func (r *Results) Get(owner, key string) (any, bool) {
	m, ok := r.values[owner]
	if !ok {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}

// Owners returns every owner that published at least one value, in first-put
// order.
func (r *Results) Owners() []string {
	out := make([]string, len(r.owners))
	copy(out, r.owners)
	return out
}

// Len returns the total number of (owner, key) entries.
func (r *Results) Len() int {
	n := 0
	for _, m := range r.values {
		n += len(m)
	}
	return n
}

// Merge copies every entry of other into r.
func (r *Results) Merge(other *Results) {
	if other == nil {
		return
	}
	for _, owner := range other.owners {
		r.PutAll(owner, other.values[owner])
	}
}

// Flatten exposes the results as a plain key-to-value map. It fails with a
// *ConflictError when two different owners published the same key.
func (r *Results) Flatten() (map[string]any, error) {
	flat := make(map[string]any, r.Len())
	owner := make(map[string]string, r.Len())
	var conflict *ConflictError

	for _, o := range r.owners {
		for key, value := range r.values[o] {
			prev, taken := owner[key]
			if taken && prev != o {
				if conflict == nil {
					conflict = &ConflictError{Conflicts: make(map[string][]string)}
				}
				if len(conflict.Conflicts[key]) == 0 {
					conflict.Conflicts[key] = append(conflict.Conflicts[key], prev)
				}
				conflict.Conflicts[key] = append(conflict.Conflicts[key], o)
				continue
			}
			owner[key] = o
			flat[key] = value
		}
	}

	if conflict != nil {
		return nil, conflict
	}
	return flat, nil
}

// ConflictError reports result keys that were published by more than one
// plugin. It maps each colliding key to the owners that wrote it.
type ConflictError struct {
	Conflicts map[string][]string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	keys := make([]string, 0, len(e.Conflicts))
	for key := range e.Conflicts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var msg strings.Builder
	msg.WriteString("conflicting plugin results:")
	for _, key := range keys {
		fmt.Fprintf(&msg, " %q (from %s)", key, strings.Join(e.Conflicts[key], ", "))
	}
	return msg.String()
}
