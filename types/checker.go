package types

import (
	"github.com/jai2033shankar/polygen/ast"
	"github.com/jai2033shankar/polygen/errors"
	"github.com/jai2033shankar/polygen/scope"
	"github.com/jai2033shankar/polygen/token"
)

// World carries the builtin definitions the checker needs but that no
// single Instance can derive on its own (Object as the universal base,
// Void for return-type checks). Passed explicitly to every operation
// rather than kept as package state, per the "pass explicitly rather
// than relying on ambient state" design note.
type World struct {
	Object ast.Definition
	Void   ast.Definition
}

// AsInstance recovers the concrete *Instance behind an ast.TypeExpr
// slot, or nil if te is nil or not one of ours.
func AsInstance(te ast.TypeExpr) *Instance {
	i, _ := te.(*Instance)
	return i
}

// IsVoid reports whether inst is exactly the builtin void type, by
// comparing inst's definition with w.Void.
func (w *World) IsVoid(inst *Instance) bool {
	return inst != nil && inst.Def == w.Void
}

// Supertypes yields self, then every transitive base, composing outer
// bindings over inner ones as it walks. A class without bases yields
// the builtin Object; a TypeParam yields itself then Object.
func (w *World) Supertypes(inst *Instance) []*Instance {
	var out []*Instance
	seen := map[string]bool{}
	var walk func(cur *Instance)
	walk = func(cur *Instance) {
		if cur == nil {
			return
		}
		id := cur.ID()
		if seen[id] {
			return
		}
		seen[id] = true
		out = append(out, cur)

		if cur.Def == w.Object {
			return
		}
		if _, ok := cur.Def.(*ast.TypeParam); ok {
			walk(Self(w.Object))
			return
		}
		bs := bases(cur.Def)
		if len(bs) == 0 {
			walk(Self(w.Object))
			return
		}
		for _, b := range bs {
			baseInst := FromTypeRef(b)
			if baseInst == nil {
				continue
			}
			walk(substitute(baseInst, cur.Bindings))
		}
	}
	walk(inst)
	return out
}

// AssignableFrom reports whether some supertype of other carries the
// same id as self (reflexive via Supertypes always including self,
// transitive via the supertype walk). Null is handled by callers
// before reaching here: it is always assignable to any reference type.
func (w *World) AssignableFrom(self, other *Instance) bool {
	if self == nil || other == nil {
		return false
	}
	selfID := self.ID()
	for _, s := range w.Supertypes(other) {
		if s.ID() == selfID {
			return true
		}
	}
	return false
}

// Environments yields the scope chain used for attribute lookup: for a
// Package, its own environment; for a Class/Interface, its own
// environment followed by each base's (bindings composed); for a
// TypeParam, the Object's environment.
func (w *World) Environments(inst *Instance) []*scope.Environment {
	var out []*scope.Environment
	seen := map[string]bool{}
	var walk func(cur *Instance)
	walk = func(cur *Instance) {
		if cur == nil || cur.Def == nil {
			return
		}
		id := cur.ID()
		if seen[id] {
			return
		}
		seen[id] = true
		if env := cur.Def.Info().Env; env != nil {
			out = append(out, env)
		}
		if _, ok := cur.Def.(*ast.TypeParam); ok {
			walk(Self(w.Object))
			return
		}
		bs := bases(cur.Def)
		if len(bs) == 0 && cur.Def != w.Object {
			walk(Self(w.Object))
			return
		}
		for _, b := range bs {
			baseInst := FromTypeRef(b)
			if baseInst == nil {
				continue
			}
			walk(substitute(baseInst, cur.Bindings))
		}
	}
	walk(inst)
	return out
}

// Get scans inst's environments for attr, returning the attribute's
// own type (its declared type for a Field/Param/local, or itself as a
// value for a callable/type name), composed with inst's bindings. It
// appends an unresolved-attribute diagnostic and returns nil if attr
// is bound nowhere in inst's environments.
func (w *World) Get(inst *Instance, attr string, pos token.Pos, errs *errors.List) *Instance {
	for _, env := range w.Environments(inst) {
		if def, ok := env.Lookup(attr); ok {
			if d, ok := def.(ast.Definition); ok {
				return TypeOf(d, inst.Bindings)
			}
		}
	}
	errs.AddNewf(errors.Type, pos, "%s has no such attribute %s", inst.ID(), attr)
	return nil
}

// TypeOf is the one place that maps a Definition to "the type you get
// when you refer to it": a Field/Param/local's own declared type
// (substituted against bindings), a DeclStmt's declared or inferred
// type, or — for everything else (Class/Interface/Primitive/
// TypeParam/Package/the five Callable kinds) — the definition's own
// self type, composed with bindings. Shared by Get (attribute access)
// and the Type Checker's Ident resolution (a bare variable reference
// is exactly an attribute lookup rooted at the enclosing scope).
func TypeOf(d ast.Definition, bindings Bindings) *Instance {
	switch x := d.(type) {
	case *ast.FieldDecl:
		return substitute(FromTypeRef(x.Type), bindings)
	case *ast.Param:
		return substitute(FromTypeRef(x.Type), bindings)
	case *ast.DeclStmt:
		if x.Type != nil {
			return substitute(FromTypeRef(x.Type), bindings)
		}
		if inst, ok := x.Info().Resolved.(*Instance); ok {
			return inst
		}
		return nil
	case *ast.SelfDecl:
		if inst, ok := x.Info().Resolved.(*Instance); ok {
			return inst
		}
		return nil
	default:
		return Texpr(Self(d), bindings)
	}
}

// Invoke dispatches a call on inst: a Callable checks arity/arguments
// against its own params and yields its return type; a Class invokes
// its constructor (or enforces zero args if it declares none) and
// yields the class's own instance type.
func (w *World) Invoke(inst *Instance, call *ast.CallExpr, errs *errors.List) *Instance {
	if inst == nil {
		return nil
	}
	switch d := inst.Def.(type) {
	case ast.Callable:
		sig := d.Signature()
		w.Check(sig.Params, call.Args, errs, inst.Bindings)
		if sig.ReturnType == nil {
			return Self(w.Void)
		}
		rt := FromTypeRef(sig.ReturnType)
		if rt == nil {
			return nil
		}
		return substitute(rt, inst.Bindings)

	case *ast.ClassDecl:
		ctor := d.Constructor()
		if ctor == nil {
			if len(call.Args) != 0 {
				errs.AddNewf(errors.Type, call.Pos(),
					"%s takes no arguments but %d were given", inst.ID(), len(call.Args))
			}
			return inst
		}
		w.Check(ctor.Params, call.Args, errs, inst.Bindings)
		return inst

	default:
		errs.AddNewf(errors.Type, call.Pos(), "%s is not callable", inst.ID())
		return nil
	}
}

// Check zips formals against actuals under bindings (the receiver's
// own bindings, so a formal type referencing a class TypeParam
// resolves to the concrete argument type) and applies Assign to each
// pair. An empty formals list with non-empty actuals is always an
// arity error (§4.4 edge case), independent of the general length
// mismatch check.
func (w *World) Check(params []*ast.Param, args []ast.Expr, errs *errors.List, bindings Bindings) {
	if len(params) == 0 && len(args) > 0 {
		errs.AddNewf(errors.Type, args[0].Pos(), "expected no arguments but got %d", len(args))
		return
	}
	if len(params) != len(args) {
		var pos token.Pos
		if len(args) > 0 {
			pos = args[0].Pos()
		} else if len(params) > 0 {
			pos = params[0].Pos()
		}
		errs.AddNewf(errors.Type, pos, "expected %d arguments, got %d", len(params), len(args))
		return
	}
	for i, p := range params {
		formal := substitute(FromTypeRef(p.Type), bindings)
		w.Assign(formal, args[i], errs)
	}
}

// Assign applies the assignment discipline shared by argument
// checking, plain assignment, declaration initializers, and return
// statements: Null is always assignable without coercion; an explicit
// Cast or a List/Map literal matching the formal's own container
// class narrows the expression's resolved type to the formal type;
// otherwise the actual type must be assignable, or the checker looks
// for a zero-arg __to_<Formal> coercion method and records it on
// expr.Info().Coercion.
func (w *World) Assign(formal *Instance, expr ast.Expr, errs *errors.List) bool {
	if formal == nil || expr == nil {
		return false
	}
	if _, ok := expr.(*ast.NullLit); ok {
		return true
	}

	actual := AsInstance(expr.Info().Resolved)
	if actual == nil {
		return false // upstream failure already recorded; stay tolerant (§7)
	}

	if cast, ok := expr.(*ast.CastExpr); ok {
		_ = cast
		expr.Info().Resolved = formal
		return true
	}
	if narrowsContainer(expr, formal, actual) {
		expr.Info().Resolved = formal
		return true
	}

	if w.AssignableFrom(formal, actual) {
		return true
	}

	if m := w.findCoercion(actual, formal); m != nil {
		expr.Info().Coercion = m
		return true
	}

	errs.AddNewf(errors.Type, expr.Pos(), "cannot use value of type %s as %s", actual.ID(), formal.ID())
	return false
}

// narrowsContainer reports whether expr is a List/Map literal whose
// container kind already matches the formal's. Only the container
// class is compared; the literal's elements are not checked against
// the formal's type arguments.
func narrowsContainer(expr ast.Expr, formal, actual *Instance) bool {
	switch expr.(type) {
	case *ast.ListLit, *ast.MapLit:
		return formal.Def == actual.Def
	default:
		return false
	}
}

// findCoercion looks for a zero-parameter __to_<Formal> method in
// actual's environments whose return type, substituted against
// actual's own bindings, is assignable to formal.
func (w *World) findCoercion(actual, formal *Instance) *ast.MethodDecl {
	name := CoercionPrefix + formal.Def.DefName()
	for _, env := range w.Environments(actual) {
		def, ok := env.Lookup(name)
		if !ok {
			continue
		}
		m, ok := def.(*ast.MethodDecl)
		if !ok || len(m.Params) != 0 || m.ReturnType == nil {
			continue
		}
		ret := substitute(FromTypeRef(m.ReturnType), actual.Bindings)
		if w.AssignableFrom(formal, ret) {
			return m
		}
	}
	return nil
}

// SuperType resolves the `super` expression's type: the class's first
// declared base, substituted against bindings. It is nil if the class
// declares no base at all, the condition internal/typecheck reports
// as a type error.
func (w *World) SuperType(class *ast.ClassDecl, bindings Bindings) *Instance {
	if len(class.Bases) == 0 {
		return nil
	}
	inst := FromTypeRef(class.Bases[0])
	if inst == nil {
		return nil
	}
	return substitute(inst, bindings)
}

// CheckReturn enforces §4.4's void/non-void return rules: a bare
// return in a non-void callable, or a valued return in a void
// callable, is a type error.
func (w *World) CheckReturn(sig *ast.CallableInfo, ret *ast.ReturnStmt, errs *errors.List) {
	void := sig.ReturnType == nil
	switch {
	case void && ret.Value != nil:
		errs.AddNewf(errors.Type, ret.Pos(), "cannot return a value from a void callable")
	case !void && ret.Value == nil:
		errs.AddNewf(errors.Type, ret.Pos(), "missing return value")
	}
}
