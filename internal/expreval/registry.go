package expreval

import (
	"maps"
	"slices"
)

// SelectionRegistry maps extra-selection names to selection strings. The
// configuration's extra_selections mapping seeds it; Register is the
// extension point for named selections that need code to build, so new
// categories do not require branching in the composer.
type SelectionRegistry struct {
	names      []string
	selections map[string]string
}

// NewSelectionRegistry builds a registry seeded from the configuration
// mapping. Seed entries register in name order so the registry contents are
// deterministic.
func NewSelectionRegistry(seed map[string]string) *SelectionRegistry {
	r := &SelectionRegistry{selections: make(map[string]string, len(seed))}
	for _, name := range slices.Sorted(maps.Keys(seed)) {
		r.Register(name, seed[name])
	}
	return r
}

// Register adds or replaces a named selection.
func (r *SelectionRegistry) Register(name, selection string) {
	if _, ok := r.selections[name]; !ok {
		r.names = append(r.names, name)
	}
	r.selections[name] = selection
}

// Lookup returns the selection string registered under name.
func (r *SelectionRegistry) Lookup(name string) (string, bool) {
	sel, ok := r.selections[name]
	return sel, ok
}

// Names lists the registered selection names in registration order.
func (r *SelectionRegistry) Names() []string {
	return slices.Clone(r.names)
}
