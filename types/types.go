// Package types implements the Type Expressions and Checker (C4): the
// instantiated-type representation TypeExpr (called Instance here to
// avoid colliding with ast.TypeExpr, the marker interface Instance
// implements) plus supertype walking, attribute access, assignment
// compatibility with user-defined coercions, and call/constructor
// argument checking.
package types

import (
	"strings"

	"github.com/jai2033shankar/polygen/ast"
)

// CoercionPrefix is the only implicit-conversion method naming scheme
// this checker recognizes (distilled spec §9 Open Question #1,
// resolved in DESIGN.md: no configurable table, just this literal
// prefix).
const CoercionPrefix = "__to_"

// Bindings maps a class's TypeParam to the concrete Instance bound to
// it in some instantiation.
type Bindings map[*ast.TypeParam]*Instance

// Instance is the canonical instantiated-type representation: a
// Definition paired with Bindings for its type parameters. It
// implements ast.TypeExpr so it can be stored directly in a node's
// Info().Resolved slot.
type Instance struct {
	Def      ast.Definition
	Bindings Bindings
}

var _ ast.TypeExpr = (*Instance)(nil)

// TypeExprString implements ast.TypeExpr.
func (i *Instance) TypeExprString() string { return i.ID() }

// Self returns the unparameterized instance of def: (def, {}). This is
// what the Definer seeds into a leaf definition's Resolved slot.
func Self(def ast.Definition) *Instance {
	return &Instance{Def: def, Bindings: Bindings{}}
}

// Texpr merges zero or more additional binding maps into t, left to
// right (later maps override earlier ones for the same key), then
// collapses the result transitively so that a chain of TypeParam ->
// TypeParam bindings resolves to its final concrete Instance,
// cycle-safely. Texpr is idempotent: Texpr(Texpr(t, b)) == Texpr(t, b).
func Texpr(t *Instance, extra ...Bindings) *Instance {
	merged := Bindings{}
	for k, v := range t.Bindings {
		merged[k] = v
	}
	for _, b := range extra {
		for k, v := range b {
			merged[k] = v
		}
	}
	out := Bindings{}
	for k := range merged {
		out[k] = chase(merged, k)
	}
	return &Instance{Def: t.Def, Bindings: out}
}

// chase follows a binding chain X -> Y -> … until it reaches a value
// whose own Def is not itself a bound TypeParam, guarding against
// cycles with a visited set.
func chase(b Bindings, start *ast.TypeParam) *Instance {
	visited := map[*ast.TypeParam]bool{}
	cur := start
	result := b[start]
	for {
		if visited[cur] {
			return result
		}
		visited[cur] = true
		v, ok := b[cur]
		if !ok {
			return result
		}
		result = v
		tp, ok := v.Def.(*ast.TypeParam)
		if !ok {
			return result
		}
		cur = tp
	}
}

// substitute replaces any TypeParam appearing (possibly nested) in
// inst's own Def/Bindings tree with its binding in outer, used when
// walking from a generic instantiation into one of its supertypes
// (outer bindings override the class's own formal type params).
func substitute(inst *Instance, outer Bindings) *Instance {
	if inst == nil {
		return nil
	}
	if tp, ok := inst.Def.(*ast.TypeParam); ok {
		if repl, ok := outer[tp]; ok {
			return repl
		}
	}
	nb := Bindings{}
	for k, v := range inst.Bindings {
		nb[k] = substitute(v, outer)
	}
	return &Instance{Def: inst.Def, Bindings: nb}
}

// typeParams returns the formal type parameters of a Class/Interface
// Definition, or nil for any other kind.
func typeParams(def ast.Definition) []*ast.TypeParam {
	switch d := def.(type) {
	case *ast.ClassDecl:
		return d.TypeParams
	case *ast.InterfaceDecl:
		return d.TypeParams
	default:
		return nil
	}
}

// bases returns the syntactic base types of a Class/Interface
// Definition, or nil for any other kind (which has only the implicit
// Object supertype).
func bases(def ast.Definition) []*ast.TypeRef {
	switch d := def.(type) {
	case *ast.ClassDecl:
		return d.Bases
	case *ast.InterfaceDecl:
		return d.Bases
	default:
		return nil
	}
}

// FromTypeRef converts a syntactic TypeRef, already resolved by the
// use pass (its Info().Def set), into an Instance. It returns nil if
// the TypeRef was never resolved (an upstream error already recorded
// it as unresolved; C4 stays tolerant of nulls per §4.4/§7).
func FromTypeRef(tr *ast.TypeRef) *Instance {
	if tr == nil {
		return nil
	}
	def := tr.Info().Def
	if def == nil {
		return nil
	}
	params := typeParams(def)
	b := Bindings{}
	for i, p := range params {
		if i >= len(tr.Args) {
			break
		}
		if arg := FromTypeRef(tr.Args[i]); arg != nil {
			b[p] = arg
		}
	}
	return &Instance{Def: def, Bindings: b}
}

// ID renders the dotted definition id, with a parametric tail <…>
// resolving each of the definition's own TypeParams against the
// current bindings. Two instances are the same instantiated type iff
// their ID is equal.
func (i *Instance) ID() string {
	if i == nil || i.Def == nil {
		return "<unresolved>"
	}
	base := i.Def.Info().ID
	params := typeParams(i.Def)
	if len(params) == 0 {
		return base
	}
	parts := make([]string, 0, len(params))
	for _, p := range params {
		arg, ok := i.Bindings[p]
		if !ok {
			parts = append(parts, "?")
			continue
		}
		parts = append(parts, arg.ID())
	}
	return base + "<" + strings.Join(parts, ", ") + ">"
}

// Pretty is an alias for ID kept for call sites that read better
// naming a print operation explicitly.
func (i *Instance) Pretty() string { return i.ID() }
