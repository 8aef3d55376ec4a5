// Package resolve implements the Name Lookup / Use Pass (C3): the
// single dispatcher of §4.3 that walks the lexical chain and imported
// packages to bind every Var, Type path, and Import to its Definition,
// plus the literal-expression typing ("Number/String/Bool/Null/List/
// Map resolve their class name against the built-in package") that the
// same section assigns to this pass.
package resolve

import (
	"strings"

	"github.com/jai2033shankar/polygen/ast"
	"github.com/jai2033shankar/polygen/errors"
	"github.com/jai2033shankar/polygen/internal/builtin"
	"github.com/jai2033shankar/polygen/types"
)

type infoNode interface {
	ast.Node
	Info() *ast.Info
}

// Lookup resolves name starting at n, per §4.3: aliases in n's own
// imports take precedence, then n's own environment, then the
// (non-lexically-chained) contents of n's remaining imports, before
// ascending to n's parent. It returns nil, never raising, so callers
// can decide how to report an unresolved name.
func Lookup(n ast.Node, name string) ast.Definition {
	var cur ast.Node = n
	for cur != nil {
		in, ok := cur.(infoNode)
		if !ok {
			return nil
		}
		info := in.Info()
		tried := map[*ast.ImportDecl]bool{}

		for _, imp := range info.Imports {
			if imp.DefName() == name {
				tried[imp] = true
				if def := resolveImportTarget(imp); def != nil {
					return def
				}
			}
		}

		if info.Env != nil {
			if def, ok := info.Env.Lookup(name); ok {
				if d, ok := def.(ast.Definition); ok {
					return d
				}
			}
		}

		for _, imp := range info.Imports {
			if tried[imp] {
				continue
			}
			target := resolveImportTarget(imp)
			pkg, ok := target.(*ast.Package)
			if !ok || pkg.Info().Env == nil {
				continue
			}
			if def, ok := pkg.Info().Env.Lookup(name); ok {
				if d, ok := def.(ast.Definition); ok {
					return d
				}
			}
		}

		cur = info.Parent
	}
	return nil
}

// resolveImportTarget follows an import's dotted path: the first
// segment is looked up lexically from the import's own position, each
// subsequent segment is looked up directly in the previous segment's
// environment (§4.3: "consuming the first segment as a top-level
// name, then walking env chains for subsequent segments").
func resolveImportTarget(imp *ast.ImportDecl) ast.Definition {
	if len(imp.Path) == 0 {
		return nil
	}
	def := Lookup(imp, imp.Path[0])
	for _, seg := range imp.Path[1:] {
		if def == nil {
			return nil
		}
		env := def.Info().Env
		if env == nil {
			return nil
		}
		next, ok := env.Lookup(seg)
		if !ok {
			return nil
		}
		d, ok := next.(ast.Definition)
		if !ok {
			return nil
		}
		def = d
	}
	return def
}

// resolveTypePath resolves a TypeRef's dotted Path the same way as an
// import target, rooted at the TypeRef's own position (§4.3: "Types
// are resolved the same way but rooted at the most-specific enclosing
// class/package/file, then descended").
func resolveTypePath(tr *ast.TypeRef) ast.Definition {
	if len(tr.Path) == 0 {
		return nil
	}
	def := Lookup(tr, tr.Path[0])
	for _, seg := range tr.Path[1:] {
		if def == nil {
			return nil
		}
		env := def.Info().Env
		if env == nil {
			return nil
		}
		next, ok := env.Lookup(seg)
		if !ok {
			return nil
		}
		d, ok := next.(ast.Definition)
		if !ok {
			return nil
		}
		def = d
	}
	return def
}

// Run walks every file of root in post-order (so a literal's
// sub-expressions and a TypeRef's arguments are resolved before the
// node that contains them) and resolves every Ident, TypeRef, Import,
// and literal expression. Unresolved references are appended to errs
// as Unresolved diagnostics; the pass itself never stops early.
func Run(root *ast.Root, b *builtin.Set, errs *errors.List) {
	for _, f := range root.Files {
		ast.Walk(f, nil, func(n ast.Node) {
			resolveNode(n, b, errs)
		})
	}
}

func resolveNode(n ast.Node, b *builtin.Set, errs *errors.List) {
	switch x := n.(type) {
	case *ast.Ident:
		if def := Lookup(x, x.Name); def != nil {
			x.Info().Def = def
		} else {
			errs.AddNewf(errors.Unresolved, x.Pos(), "undefined: %s", x.Name)
		}

	case *ast.TypeRef:
		if def := resolveTypePath(x); def != nil {
			x.Info().Def = def
		} else {
			errs.AddNewf(errors.Unresolved, x.Pos(), "undefined type: %s", x.Name())
		}

	case *ast.ImportDecl:
		if def := resolveImportTarget(x); def != nil {
			x.Info().Def = def
		} else {
			errs.AddNewf(errors.Unresolved, x.Pos(), "undefined import: %s", x.Target())
		}

	case *ast.NumberLit:
		if strings.Contains(x.Raw, ".") {
			x.Info().Resolved = types.Self(b.FloatDecl)
		} else {
			x.Info().Resolved = types.Self(b.IntDecl)
		}

	case *ast.StringLit:
		x.Info().Resolved = types.Self(b.StringDecl)

	case *ast.BoolLit:
		x.Info().Resolved = types.Self(b.BoolDecl)

	case *ast.NullLit:
		x.Info().Resolved = types.Self(b.ObjectDecl) // "Null's type is Object"

	case *ast.ListLit:
		inst := types.Self(b.ListDecl)
		if len(x.Elems) > 0 {
			if elemType, ok := x.Elems[0].Info().Resolved.(*types.Instance); ok {
				inst = &types.Instance{Def: b.ListDecl, Bindings: types.Bindings{b.ListDecl.TypeParams[0]: elemType}}
			}
		}
		x.Info().Resolved = inst

	case *ast.MapLit:
		inst := types.Self(b.MapDecl)
		if len(x.Entries) > 0 {
			kt, kok := x.Entries[0].Key.Info().Resolved.(*types.Instance)
			vt, vok := x.Entries[0].Value.Info().Resolved.(*types.Instance)
			if kok && vok {
				inst = &types.Instance{
					Def: b.MapDecl,
					Bindings: types.Bindings{
						b.MapDecl.TypeParams[0]: kt,
						b.MapDecl.TypeParams[1]: vt,
					},
				}
			}
		}
		x.Info().Resolved = inst
	}
}
