// Package define implements the Definer (C2): for each visited
// definition node it installs the declaration into its owning scope's
// environment, flagging duplicates per the rules of §4.2, and seeds
// `self` plus leaf self-type slots.
package define

import (
	"github.com/jai2033shankar/polygen/ast"
	"github.com/jai2033shankar/polygen/errors"
	"github.com/jai2033shankar/polygen/scope"
	"github.com/jai2033shankar/polygen/types"
)

// Run walks every file of root and populates environments, returning
// the aggregate of every duplicate-definition diagnostic raised.
func Run(root *ast.Root) errors.Error {
	var errs errors.List
	for _, f := range root.Files {
		ast.Walk(f, func(n ast.Node) bool {
			defineNode(n, &errs)
			return true
		}, nil)
	}
	return errs.Err()
}

// define installs name -> def into env. If name is already bound and
// dup(existing) reports true, a Duplicate diagnostic is appended. leaf
// additionally seeds def's Resolved slot with def's own (unparameterized)
// self type, per "If leaf is true: set node.resolved = TypeExpr(node, {})".
func define(errs *errors.List, env *scope.Environment, def ast.Definition, leaf bool, dup func(existing scope.Definition) bool) {
	name := def.DefName()
	if name == "" {
		return
	}
	if existing, ok := env.Lookup(name); ok {
		if existing == scope.Definition(def) {
			return // already installed by an earlier run over the same tree
		}
		if dup == nil || dup(existing) {
			errs.AddNewf(errors.Duplicate, def.Pos(),
				"%s is already defined at %s", def.Info().ID, existing.DefPos())
			return
		}
	}
	env.Insert(name, def)
	if leaf {
		def.Info().Resolved = types.Self(def)
	}
}

func defineNode(n ast.Node, errs *errors.List) {
	in, ok := n.(interface{ Info() *ast.Info })
	if !ok {
		return
	}
	env := declareEnv(n, in.Info())

	switch x := n.(type) {
	case *ast.Package:
		define(errs, env, x, false, neverDup)

	case *ast.TypeParam:
		define(errs, env, x, true, alwaysDup)

	case *ast.ClassDecl:
		define(errs, env, x, true, alwaysDup)

	case *ast.InterfaceDecl:
		define(errs, env, x, true, alwaysDup)

	case *ast.PrimitiveDecl:
		define(errs, env, x, true, alwaysDup)

	case *ast.FunctionDecl:
		define(errs, env, x, false, functionDup())

	case *ast.MethodDecl:
		// Installed by name only when it declares a return type;
		// `self` is always installed regardless (§4.2).
		if x.ReturnType != nil {
			define(errs, env, x, false, alwaysDup)
		}
		defineSelf(x.Info().Env, x.Info().Class)

	case *ast.MacroDecl:
		define(errs, env, x, false, alwaysDup)

	case *ast.MethodMacroDecl:
		define(errs, env, x, false, alwaysDup)
		defineSelf(x.Info().Env, x.Info().Class)

	case *ast.ConstructorDecl:
		// nameless for lookup; nothing to install by name.

	case *ast.FieldDecl:
		define(errs, env, x, false, alwaysDup)

	case *ast.Param:
		define(errs, env, x, false, alwaysDup)

	case *ast.DeclStmt:
		define(errs, env, x, false, alwaysDup)
	}
}

// declareEnv returns the environment a definition should be installed
// into. For a leaf (Field/Param/TypeParam/DeclStmt) that is simply the
// node's own Info().Env: crosswire never gives these their own child
// scope, so their Env is still the enclosing one it was stamped with.
// Package/Class/Interface and the five Callable kinds replace their
// own Info().Env with a fresh scope for their members, so the scope
// they should be declared INTO has to be read off their parent
// instead — otherwise a class would register itself as its own
// member rather than as a sibling its enclosing scope can find.
func declareEnv(n ast.Node, info *ast.Info) *scope.Environment {
	switch n.(type) {
	case *ast.Package, *ast.ClassDecl, *ast.InterfaceDecl,
		*ast.FunctionDecl, *ast.MethodDecl, *ast.MacroDecl, *ast.MethodMacroDecl:
		if pn, ok := info.Parent.(interface{ Info() *ast.Info }); ok {
			return pn.Info().Env
		}
		return nil
	default:
		return info.Env
	}
}

func defineSelf(env *scope.Environment, class *ast.ClassDecl) {
	if env == nil || class == nil {
		return
	}
	if _, ok := env.Lookup("self"); ok {
		return
	}
	self := &ast.SelfDecl{Class: class}
	self.Info().Env = env
	self.Info().Resolved = types.Self(class)
	env.Insert("self", self)
}

func neverDup(scope.Definition) bool  { return false }
func alwaysDup(scope.Definition) bool { return true }

// functionDup implements the forward-declaration rule (§4.2, §8):
// colliding with a non-function, or with a function that already has
// a body, is a duplicate; colliding with a body-less function is not
// (it is the forward declaration being fulfilled).
func functionDup() func(scope.Definition) bool {
	return func(existing scope.Definition) bool {
		oldFn, ok := existing.(*ast.FunctionDecl)
		if !ok {
			return true
		}
		return oldFn.HasBody()
	}
}
