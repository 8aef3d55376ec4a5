// Package scope implements the per-node Environment used by the
// Definer and Name Lookup passes: an insertion-order-preserving
// mapping from simple name to Definition, chained to a parent scope.
//
// This package knows nothing about the AST; Definition is the minimal
// interface a declaration node must satisfy to be installed in an
// Environment, which lets ast.Definition embed it without a cycle.
package scope

import "github.com/jai2033shankar/polygen/token"

// Definition is the minimal shape of anything installable in an
// Environment: a name and a position for diagnostics.
type Definition interface {
	DefName() string
	DefPos() token.Pos
}

// Environment is one lexical scope: file, package, class, or callable.
// Entries preserve insertion order (§5's ordering guarantee: "emitters
// must rely only on this deterministic order").
type Environment struct {
	Parent *Environment

	names   map[string]Definition
	order   []string
}

// New creates an environment chained to parent. parent may be nil for
// the outermost scope.
func New(parent *Environment) *Environment {
	return &Environment{Parent: parent, names: map[string]Definition{}}
}

// Lookup returns the definition bound to name in this environment
// only (no parent walk — callers that need the lexical chain use
// resolve.Lookup instead).
func (e *Environment) Lookup(name string) (Definition, bool) {
	if e == nil {
		return nil, false
	}
	d, ok := e.names[name]
	return d, ok
}

// Has reports whether name is bound directly in this environment.
func (e *Environment) Has(name string) bool {
	_, ok := e.names[name]
	return ok
}

// Insert binds name to def, overwriting any previous binding but
// preserving the name's original position in iteration order. Callers
// that need duplicate detection check for an existing binding first
// (internal/define does so with Lookup).
func (e *Environment) Insert(name string, def Definition) {
	if _, exists := e.names[name]; !exists {
		e.order = append(e.order, name)
	}
	e.names[name] = def
}

// Names returns the bound names in insertion order.
func (e *Environment) Names() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Definitions returns the bound definitions in insertion order —
// the order every emitter must rely on per §5.
func (e *Environment) Definitions() []Definition {
	out := make([]Definition, 0, len(e.order))
	for _, n := range e.order {
		out = append(out, e.names[n])
	}
	return out
}

// Merge appends other's bindings after this environment's own, used
// when a Package is re-opened: the canonical environment accumulates
// entries from every occurrence in first-appearance order (§8's
// "re-opening a package" boundary case).
func (e *Environment) Merge(other *Environment) {
	for _, n := range other.order {
		e.Insert(n, other.names[n])
	}
}
