// SPDX-License-Identifier: MIT

// Package plugin implements the registry the regice tools use to discover
// and drive optional modules.
//
// A regice module contributes command-line flags and post-parse processing
// through a fixed two-operation interface. Modules are registered explicitly
// at startup; there is no ambient discovery, so dispatch order is simply
// registration order. Callers must not rely on that order being meaningful —
// it is documented so tests can pin it down, not so plugins can depend on
// each other.
package plugin

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Device is the opaque target handle produced by the libregice plugin during
// bootstrap. The registry stores and forwards it without inspecting it.
type Device = any

// Plugin is implemented by every regice module that participates in argument
// setup and processing.
type Plugin interface {
	// Name returns the module name used to select the plugin.
	Name() string

	// InitArgs adds the plugin's flags to the shared flag set. It must not
	// parse anything.
	InitArgs(dev Device, flags *pflag.FlagSet)

	// ProcessArgs consumes the parsed flags and returns the values the
	// plugin publishes, keyed by name. The map may be empty or nil.
	ProcessArgs(dev Device, flags *pflag.FlagSet) (map[string]any, error)
}

// CompatibilityChecker is an optional capability for plugins that can claim
// support for a target by name.
type CompatibilityChecker interface {
	IsCompatibleWith(name string) bool
}

// Registry is an explicit, ordered table of plugins.
type Registry struct {
	plugins []Plugin
	byName  map[string]Plugin
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Plugin)}
}

// Register adds a plugin to the registry. A second plugin with the same name
// is rejected.
func (r *Registry) Register(p Plugin) error {
	name := p.Name()
	if name == "" {
		return fmt.Errorf("register plugin: empty name")
	}
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("register plugin: %q already registered", name)
	}
	r.plugins = append(r.plugins, p)
	r.byName[name] = p
	return nil
}

// Get returns the plugin registered under name.
func (r *Registry) Get(name string) (Plugin, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Names returns the registered plugin names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.plugins))
	for _, p := range r.plugins {
		out = append(out, p.Name())
	}
	return out
}

// CompatibleModule returns the first registered plugin that claims
// compatibility with the given target name. Plugins that do not implement
// CompatibilityChecker never match.
func (r *Registry) CompatibleModule(name string) (Plugin, bool) {
	for _, p := range r.plugins {
		c, ok := p.(CompatibilityChecker)
		if ok && c.IsCompatibleWith(name) {
			return p, true
		}
	}
	return nil, false
}

// InitModulesArgs dispatches InitArgs to every registered plugin whose name
// appears in modules. An empty module list is a no-op. Names in modules that
// match no registered plugin are ignored; a caller may request modules that
// are simply not installed.
func (r *Registry) InitModulesArgs(dev Device, flags *pflag.FlagSet, modules []string) {
	if len(modules) == 0 {
		return
	}
	wanted := toSet(modules)
	for _, p := range r.plugins {
		if wanted[p.Name()] {
			p.InitArgs(dev, flags)
		}
	}
}

// ProcessModulesArgs dispatches ProcessArgs to every registered plugin whose
// name appears in modules, accumulating all published values into a Results.
// The first plugin error aborts the dispatch.
func (r *Registry) ProcessModulesArgs(dev Device, flags *pflag.FlagSet, modules []string) (*Results, error) {
	results := NewResults()
	if len(modules) == 0 {
		return results, nil
	}
	wanted := toSet(modules)
	for _, p := range r.plugins {
		if !wanted[p.Name()] {
			continue
		}
		values, err := p.ProcessArgs(dev, flags)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
		results.PutAll(p.Name(), values)
	}
	return results, nil
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// Default is the process-wide registry. It is populated explicitly at
// startup by the known providers; nothing in this module registers from an
// init function.
var Default = NewRegistry()
