package pkgmgr

import "fmt"

// Registry holds the closed set of manager adapters, keyed by Manager.
// Dispatch by hint replaces open-ended plugin lookup: dockup only ever
// knows these four managers.
type Registry struct {
	adapters map[Manager]Adapter
}

// NewRegistry builds a registry over the default adapters.
func NewRegistry() *Registry {
	return NewRegistryWith(NewHomebrew(), NewMacPorts(), NewNpm(), NewPip())
}

// NewRegistryWith builds a registry over the given adapters. Used by tests
// to substitute fakes.
func NewRegistryWith(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[Manager]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Manager()] = a
	}
	return r
}

// Lookup returns the adapter for the given manager hint.
func (r *Registry) Lookup(m Manager) (Adapter, error) {
	a, ok := r.adapters[m]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrManagerNotFound, m)
	}
	return a, nil
}

// Available returns the adapters whose executables resolve on this host,
// in a fixed order (Homebrew, MacPorts, npm, pip).
func (r *Registry) Available() []Adapter {
	var available []Adapter
	for _, m := range []Manager{Homebrew, MacPorts, Npm, Pip} {
		if a, ok := r.adapters[m]; ok && a.IsAvailable() {
			available = append(available, a)
		}
	}
	return available
}
