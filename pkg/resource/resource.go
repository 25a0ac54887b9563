// SPDX-License-Identifier: MIT

// Package resource locates files bundled with regice modules.
//
// The regice tools are split across several modules, and some of them ship
// data files (SVD documents, register fixtures) alongside their code. Each
// module exposes its bundled files as an fs.FS (typically via go:embed) and
// registers it here under the module's name. Lookups then work by name, or,
// when the owning module is unknown, by searching every provider whose name
// looks like a regice module.
package resource

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"
)

// ErrNotFound is returned when no registered provider has a matching
// resource. It wraps fs.ErrNotExist so callers can test with errors.Is.
var ErrNotFound = fmt.Errorf("resource not found: %w", fs.ErrNotExist)

// Registry maps provider names to their bundled filesystems. Providers are
// enumerated in registration order.
type Registry struct {
	names     []string
	providers map[string]fs.FS
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]fs.FS)}
}

// Register associates a provider name with its bundled filesystem.
// Registering the same name again replaces the previous filesystem.
func (r *Registry) Register(name string, fsys fs.FS) {
	if _, ok := r.providers[name]; !ok {
		r.names = append(r.names, name)
	}
	r.providers[name] = fsys
}

// Providers returns the registered provider names in registration order.
func (r *Registry) Providers() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Open opens the first resource matching fname.
//
// With a non-empty module name, fname is treated as a pattern and matched
// against the module's resource list as ".*" + fname; the first match is
// opened. With an empty module name, every provider whose name contains
// "regice" (case-insensitive) is tried in turn and the first successful
// lookup wins. Providers that fail to open are skipped.
func (r *Registry) Open(module, fname string) (fs.File, error) {
	if module == "" {
		for _, name := range r.names {
			if !strings.Contains(strings.ToLower(name), "regice") {
				continue
			}
			f, err := r.Open(name, fname)
			if err != nil {
				continue
			}
			return f, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, fname)
	}

	fsys, ok := r.providers[module]
	if !ok {
		return nil, fmt.Errorf("%w: unknown provider %s", ErrNotFound, module)
	}
	files, err := r.List(module, ".", ".*"+fname)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrNotFound, fname, module)
	}
	return fsys.Open(files[0])
}

// List returns every file under root in the module's resource tree,
// recursively. A non-empty pattern keeps only paths it matches; the match is
// anchored at the start of the path but not at the end. Directories are
// recursed into, never listed. The order follows the underlying directory
// listing.
func (r *Registry) List(module, root, pattern string) ([]string, error) {
	fsys, ok := r.providers[module]
	if !ok {
		return nil, fmt.Errorf("%w: unknown provider %s", ErrNotFound, module)
	}

	var re *regexp.Regexp
	if pattern != "" {
		var err error
		re, err = regexp.Compile("^(?:" + pattern + ")")
		if err != nil {
			return nil, fmt.Errorf("bad resource pattern %q: %w", pattern, err)
		}
	}

	root = normalizeRoot(root)
	return listDir(fsys, root, re)
}

func listDir(fsys fs.FS, dir string, re *regexp.Regexp) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		return nil, err
	}

	var out []string
	for _, entry := range entries {
		p := path.Join(dir, entry.Name())
		if entry.IsDir() {
			sub, err := listDir(fsys, p, re)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
			continue
		}
		if re == nil || re.MatchString(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// normalizeRoot maps the conventional "/" root and the empty string onto the
// fs.FS root.
func normalizeRoot(root string) string {
	root = strings.TrimPrefix(root, "/")
	if root == "" {
		return "."
	}
	return path.Clean(root)
}

// Default is the process-wide provider registry. Modules register their
// bundled filesystems here at startup.
var Default = NewRegistry()

// Register adds a provider to the default registry.
func Register(name string, fsys fs.FS) {
	Default.Register(name, fsys)
}

// Open opens a resource from the default registry.
func Open(module, fname string) (fs.File, error) {
	return Default.Open(module, fname)
}

// List lists resources from the default registry.
func List(module, root, pattern string) ([]string, error) {
	return Default.List(module, root, pattern)
}
