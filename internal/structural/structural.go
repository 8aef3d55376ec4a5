// Package structural implements the Structural Checks (C5): rules
// that depend on the fully resolved tree but aren't themselves type
// compatibility checks — no field shadowing across the inheritance
// chain, a mandatory explicit super-constructor call when the base
// constructor takes arguments, and `super` appearing only as a
// method/constructor-call receiver.
package structural

import (
	"github.com/jai2033shankar/polygen/ast"
	"github.com/jai2033shankar/polygen/errors"
	"github.com/jai2033shankar/polygen/types"
)

// Run walks every file of root and appends a diagnostic for each
// violation found. It never stops early; the driver raises the
// aggregate.
func Run(root *ast.Root, w *types.World, errs *errors.List) {
	for _, f := range root.Files {
		ast.Walk(f, func(n ast.Node) bool {
			checkNode(n, w, errs)
			return true
		}, nil)
	}
}

func checkNode(n ast.Node, w *types.World, errs *errors.List) {
	switch x := n.(type) {
	case *ast.ClassDecl:
		checkFieldShadowing(x, w, errs)
		checkSuperCall(x, errs)
	case *ast.SuperExpr:
		checkSuperPosition(x, errs)
	}
}

// checkFieldShadowing rejects a class field whose name also names a
// field on any transitive base.
func checkFieldShadowing(class *ast.ClassDecl, w *types.World, errs *errors.List) {
	self := types.Self(class)
	supers := w.Supertypes(self)
	for _, field := range class.Fields() {
		for _, s := range supers {
			base, ok := s.Def.(*ast.ClassDecl)
			if !ok || base == class {
				continue
			}
			for _, bf := range base.Fields() {
				if bf.Name == field.Name {
					errs.AddNewf(errors.Structural, field.Pos(),
						"field %s shadows field declared by base class %s", field.Name, base.Name)
				}
			}
		}
	}
}

// checkSuperCall enforces that when the class's base declares a
// constructor taking parameters, this class's own constructor
// syntactically contains a `super(...)` call.
func checkSuperCall(class *ast.ClassDecl, errs *errors.List) {
	if len(class.Bases) == 0 {
		return
	}
	baseDef := class.Bases[0].Info().Def
	base, ok := baseDef.(*ast.ClassDecl)
	if !ok {
		return
	}
	baseCtor := base.Constructor()
	if baseCtor == nil || len(baseCtor.Params) == 0 {
		return
	}

	ctor := class.Constructor()
	if ctor == nil || ctor.Body == nil {
		errs.AddNewf(errors.Structural, class.Pos(),
			"%s must define a constructor that calls super(...): base class %s has a required constructor", class.Name, base.Name)
		return
	}
	if !containsSuperCall(ctor.Body) {
		errs.AddNewf(errors.Structural, ctor.Pos(),
			"constructor of %s must call super(...): base class %s has a required constructor", class.Name, base.Name)
	}
}

func containsSuperCall(body *ast.BlockStmt) bool {
	found := false
	ast.Inspect(body, func(n ast.Node) bool {
		if found {
			return false
		}
		if call, ok := n.(*ast.CallExpr); ok {
			if _, ok := call.Fun.(*ast.SuperExpr); ok {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// checkSuperPosition rejects a `super` expression anywhere other than
// the receiver of an Attr or Call expression.
func checkSuperPosition(s *ast.SuperExpr, errs *errors.List) {
	switch parent := s.Info().Parent.(type) {
	case *ast.AttrExpr:
		if parent.Recv == ast.Expr(s) {
			return
		}
	case *ast.CallExpr:
		if parent.Fun == ast.Expr(s) {
			return
		}
	}
	errs.AddNewf(errors.Structural, s.Pos(), "super may only appear as the receiver of an attribute or call expression")
}
