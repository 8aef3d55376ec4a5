// Package annotate implements the Tree Annotator ("crosswire", C1):
// the one-shot pass that walks a file's AST and stamps every node with
// its linkage slots (parent/file/package/class/callable), a
// deterministic sibling index and dotted id, a (possibly shared)
// environment, and clears the resolution slots the later passes fill
// in. It is re-run, file by file, whenever the Annotation Rewriter
// (C6) or the Reflector (C7) mutates or injects a subtree.
package annotate

import (
	"strconv"

	"github.com/jai2033shankar/polygen/ast"
	"github.com/jai2033shankar/polygen/scope"
)

// infoNode is satisfied by every concrete node via its embedded base.
type infoNode interface {
	ast.Node
	Info() *ast.Info
}

// File crosswires one file into root at the given use-depth (0 for the
// user's entry point, >0 for a transitively `use`d dependency). It may
// be called again for the same file after C6/C7 mutate or append to
// its Decls; Uses/Includes/Imports are rebuilt from scratch each time,
// matching "File clears and installs its own uses, includes, depth".
func File(root *ast.Root, file *ast.File, depth int) {
	file.Depth = depth
	file.Uses = map[string]*ast.UseDecl{}
	file.Includes = map[string]*ast.IncludeDecl{}
	file.Info().Imports = nil
	file.Info().ID = file.Filename

	env := scope.New(nil)
	file.Info().Env = env

	count := 0
	ctx := context{root: root, file: file, env: env}
	for _, d := range file.Imports {
		stamp(ctx, d, file, &count)
	}
	for _, d := range file.Decls {
		stamp(ctx, d, file, &count)
	}
}

// context carries the ambient linkage that accumulates as crosswire
// descends: the enclosing file/package/class/callable and the current
// (possibly shared) environment.
type context struct {
	root     *ast.Root
	file     *ast.File
	pkg      *ast.Package
	class    *ast.ClassDecl
	callable ast.Callable
	env      *scope.Environment
}

func idFor(parent ast.Node, name string, index int) string {
	parentID := ""
	if pn, ok := parent.(infoNode); ok {
		parentID = pn.Info().ID
	}
	seg := name
	if seg == "" {
		seg = strconv.Itoa(index)
	}
	if parentID == "" {
		return seg
	}
	return parentID + "." + seg
}

// definitionName returns the natural id segment for a node, or "" if
// the node is anonymous (falls back to its sibling index).
func definitionName(n ast.Node) string {
	switch x := n.(type) {
	case *ast.File:
		return x.Filename
	case *ast.Package:
		return x.Name
	case *ast.ImportDecl:
		return "import." + x.DefName()
	case *ast.UseDecl:
		return "use"
	case *ast.IncludeDecl:
		return "include"
	case *ast.ClassDecl:
		return x.Name
	case *ast.InterfaceDecl:
		return x.Name
	case *ast.PrimitiveDecl:
		return x.Name
	case *ast.TypeParam:
		return x.Name
	case *ast.FunctionDecl:
		return x.Name
	case *ast.MethodDecl:
		return x.Name
	case *ast.MacroDecl:
		return x.Name
	case *ast.MethodMacroDecl:
		return x.Name
	case *ast.ConstructorDecl:
		return "constructor"
	case *ast.FieldDecl:
		return x.Name
	case *ast.Param:
		return x.Name
	case *ast.SelfDecl:
		return "self"
	case *ast.DeclStmt:
		return x.Name
	default:
		return ""
	}
}

// stamp annotates n (and recurses into its children) given the
// ambient context, assigning n the next sibling index in *count.
func stamp(ctx context, n ast.Node, parent ast.Node, count *int) {
	in, ok := n.(infoNode)
	if !ok {
		return
	}
	index := *count
	*count++

	info := in.Info()
	info.Parent = parent
	info.File = ctx.file
	info.Package = ctx.pkg
	info.Class = ctx.class
	info.Callable = ctx.callable
	info.Index = index
	info.ID = idFor(parent, definitionName(n), index)
	info.Env = ctx.env
	info.Imports = nil
	info.Def = nil
	info.Resolved = nil
	info.Coercion = nil

	switch x := n.(type) {
	case *ast.ImportDecl:
		if pn, ok := parent.(infoNode); ok {
			pn.Info().Imports = append(pn.Info().Imports, x)
		}

	case *ast.UseDecl:
		ctx.file.Uses[x.URL] = x

	case *ast.IncludeDecl:
		ctx.file.Includes[x.URL] = x

	case *ast.Package:
		qname := x.QualifiedName()
		canonical, ok := ctx.root.Packages[qname]
		var env *scope.Environment
		if !ok {
			ctx.root.Packages[qname] = x
			env = scope.New(nil)
		} else {
			env = canonical.Info().Env
		}
		info.Env = env
		// A package's id is its qualified name, not its enclosing
		// file's name: reopening the same package from a second file
		// must assign every member the same dotted id regardless of
		// which file declared it.
		info.ID = qname
		sub := ctx
		sub.pkg = x
		sub.env = env
		c := 0
		for _, d := range x.Decls {
			stamp(sub, d, x, &c)
		}

	case *ast.ClassDecl:
		env := scope.New(ctx.env)
		info.Env = env
		sub := ctx
		sub.class = x
		sub.env = env
		c := 0
		for _, a := range x.Annotations {
			stamp(sub, a, x, &c)
		}
		for _, tp := range x.TypeParams {
			stamp(sub, tp, x, &c)
		}
		for _, b := range x.Bases {
			stamp(ctx, b, x, &c)
		}
		for _, d := range x.Decls {
			stamp(sub, d, x, &c)
		}

	case *ast.InterfaceDecl:
		env := scope.New(ctx.env)
		info.Env = env
		sub := ctx
		sub.class = nil
		sub.env = env
		c := 0
		for _, a := range x.Annotations {
			stamp(sub, a, x, &c)
		}
		for _, tp := range x.TypeParams {
			stamp(sub, tp, x, &c)
		}
		for _, b := range x.Bases {
			stamp(ctx, b, x, &c)
		}
		for _, d := range x.Decls {
			stamp(sub, d, x, &c)
		}

	case *ast.FunctionDecl:
		stampCallable(ctx, x, x.Annotations, &x.CallableInfo, count)
	case *ast.MacroDecl:
		stampCallable(ctx, x, x.Annotations, &x.CallableInfo, count)
	case *ast.MethodDecl:
		stampCallable(ctx, x, x.Annotations, &x.CallableInfo, count)
	case *ast.MethodMacroDecl:
		stampCallable(ctx, x, x.Annotations, &x.CallableInfo, count)
	case *ast.ConstructorDecl:
		stampCallable(ctx, x, x.Annotations, &x.CallableInfo, count)

	case *ast.FieldDecl:
		c := 0
		for _, a := range x.Annotations {
			stamp(ctx, a, x, &c)
		}
		if x.Type != nil {
			stamp(ctx, x.Type, x, &c)
		}
		if x.Init != nil {
			stamp(ctx, x.Init, x, &c)
		}

	case *ast.TypeRef:
		c := 0
		for _, a := range x.Args {
			stamp(ctx, a, x, &c)
		}

	case *ast.Annotation:
		c := 0
		for _, a := range x.Args {
			stamp(ctx, a, x, &c)
		}

	case *ast.Param:
		if x.Type != nil {
			c := 0
			stamp(ctx, x.Type, x, &c)
		}

	case *ast.ListLit:
		c := 0
		for _, e := range x.Elems {
			stamp(ctx, e, x, &c)
		}

	case *ast.MapLit:
		c := 0
		for _, e := range x.Entries {
			stamp(ctx, e.Key, x, &c)
			stamp(ctx, e.Value, x, &c)
		}

	case *ast.AttrExpr:
		c := 0
		stamp(ctx, x.Recv, x, &c)

	case *ast.CallExpr:
		c := 0
		stamp(ctx, x.Fun, x, &c)
		for _, a := range x.Args {
			stamp(ctx, a, x, &c)
		}

	case *ast.TypeRefExpr:
		c := 0
		stamp(ctx, x.Type, x, &c)

	case *ast.CastExpr:
		c := 0
		stamp(ctx, x.Type, x, &c)
		stamp(ctx, x.Value, x, &c)

	case *ast.DeclStmt:
		c := 0
		if x.Type != nil {
			stamp(ctx, x.Type, x, &c)
		}
		if x.Init != nil {
			stamp(ctx, x.Init, x, &c)
		}

	case *ast.AssignStmt:
		c := 0
		stamp(ctx, x.Target, x, &c)
		stamp(ctx, x.Value, x, &c)

	case *ast.ExprStmt:
		c := 0
		stamp(ctx, x.X, x, &c)

	case *ast.IfStmt:
		c := 0
		stamp(ctx, x.Cond, x, &c)
		stamp(ctx, x.Then, x, &c)
		if x.Else != nil {
			stamp(ctx, x.Else, x, &c)
		}

	case *ast.WhileStmt:
		c := 0
		stamp(ctx, x.Cond, x, &c)
		stamp(ctx, x.Body, x, &c)

	case *ast.ReturnStmt:
		if x.Value != nil {
			c := 0
			stamp(ctx, x.Value, x, &c)
		}

	case *ast.BlockStmt:
		c := 0
		for _, s := range x.Stmts {
			stamp(ctx, s, x, &c)
		}
	}
}

func stampCallable(ctx context, self ast.Callable, anns []*ast.Annotation, c *ast.CallableInfo, _ *int) {
	env := scope.New(ctx.env)
	self.Info().Env = env
	sub := ctx
	sub.callable = self
	sub.env = env
	n := 0
	for _, a := range anns {
		stamp(sub, a, self, &n)
	}
	for _, p := range c.Params {
		stamp(sub, p, self, &n)
	}
	if c.ReturnType != nil {
		stamp(sub, c.ReturnType, self, &n)
	}
	if c.Body != nil {
		stamp(sub, c.Body, self, &n)
	}
}
