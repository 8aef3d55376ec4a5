// Package typecheck drives the Type Expressions and Checker (C4) over
// a fully name-resolved tree: it walks every expression bottom-up,
// filling each node's Info().Resolved via the types.World operations,
// and applies the assignment/return coercion discipline of §4.4 at
// every declaration, assignment, field initializer, and return.
package typecheck

import (
	"github.com/jai2033shankar/polygen/ast"
	"github.com/jai2033shankar/polygen/errors"
	"github.com/jai2033shankar/polygen/types"
)

// Run walks every file of root in post-order, so a node's operands are
// always resolved before the node itself.
func Run(root *ast.Root, w *types.World, errs *errors.List) {
	for _, f := range root.Files {
		ast.Walk(f, nil, func(n ast.Node) {
			checkNode(n, w, errs)
		})
	}
}

func checkNode(n ast.Node, w *types.World, errs *errors.List) {
	switch x := n.(type) {
	case *ast.Ident:
		if x.Info().Def != nil {
			x.Info().Resolved = types.TypeOf(x.Info().Def, types.Bindings{})
		}

	case *ast.TypeRefExpr:
		x.Info().Resolved = types.FromTypeRef(x.Type)

	case *ast.CastExpr:
		x.Info().Resolved = types.FromTypeRef(x.Type)

	case *ast.SuperExpr:
		if c := x.Info().Class; c != nil {
			if len(c.Bases) == 0 {
				errs.AddNewf(errors.Type, x.Pos(), "super used in class %s, which has no base class", c.Name)
			} else {
				x.Info().Resolved = w.SuperType(c, types.Bindings{})
			}
		}

	case *ast.AttrExpr:
		if recv := types.AsInstance(x.Recv.Info().Resolved); recv != nil {
			x.Info().Resolved = w.Get(recv, x.Name, x.Pos(), errs)
		}

	case *ast.CallExpr:
		if fun := types.AsInstance(x.Fun.Info().Resolved); fun != nil {
			x.Info().Resolved = w.Invoke(fun, x, errs)
		}

	case *ast.DeclStmt:
		checkDecl(x, w, errs)

	case *ast.AssignStmt:
		if target := types.AsInstance(x.Target.Info().Resolved); target != nil {
			w.Assign(target, x.Value, errs)
		}

	case *ast.ReturnStmt:
		checkReturn(x, w, errs)

	case *ast.FieldDecl:
		if x.Init != nil {
			formal := types.FromTypeRef(x.Type)
			if formal != nil {
				w.Assign(formal, x.Init, errs)
			}
		}
	}
}

func checkDecl(x *ast.DeclStmt, w *types.World, errs *errors.List) {
	var formal *types.Instance
	if x.Type != nil {
		formal = types.FromTypeRef(x.Type)
	}

	switch {
	case formal != nil && x.Init != nil:
		w.Assign(formal, x.Init, errs)
		x.Info().Resolved = formal
	case formal != nil:
		x.Info().Resolved = formal
	case x.Init != nil:
		x.Info().Resolved = x.Init.Info().Resolved
	}
}

func checkReturn(x *ast.ReturnStmt, w *types.World, errs *errors.List) {
	callable := x.Info().Callable
	if callable == nil {
		return
	}
	sig := callable.Signature()
	w.CheckReturn(sig, x, errs)
	if x.Value == nil || sig.ReturnType == nil {
		return
	}
	formal := types.FromTypeRef(sig.ReturnType)
	if formal != nil {
		w.Assign(formal, x.Value, errs)
	}
}
