package ast

// Walk traverses the tree in depth-first, pre/post order: it calls
// before(node); if before returns true (or is nil), Walk recurses into
// node's children, then calls after(node). Both may be nil.
//
// This is the traversal every pass (C1's crosswire, C3's use pass, C6's
// rewriter, C7's reflector) drives itself, in document order, per the
// deterministic-order guarantee of §5.
func Walk(node Node, before func(Node) bool, after func(Node)) {
	if node == nil {
		return
	}
	if before != nil && !before(node) {
		return
	}

	switch n := node.(type) {
	case *Root:
		for _, f := range n.Files {
			Walk(f, before, after)
		}

	case *File:
		for _, d := range n.Imports {
			Walk(d, before, after)
		}
		for _, d := range n.Decls {
			Walk(d, before, after)
		}

	case *Package:
		for _, d := range n.Decls {
			Walk(d, before, after)
		}

	case *ImportDecl, *UseDecl, *IncludeDecl, *PrimitiveDecl, *TypeParam:
		// leaves

	case *TypeRef:
		for _, a := range n.Args {
			Walk(a, before, after)
		}

	case *Annotation:
		for _, a := range n.Args {
			Walk(a, before, after)
		}

	case *ClassDecl:
		for _, a := range n.Annotations {
			Walk(a, before, after)
		}
		for _, tp := range n.TypeParams {
			Walk(tp, before, after)
		}
		for _, b := range n.Bases {
			Walk(b, before, after)
		}
		for _, d := range n.Decls {
			Walk(d, before, after)
		}

	case *InterfaceDecl:
		for _, a := range n.Annotations {
			Walk(a, before, after)
		}
		for _, tp := range n.TypeParams {
			Walk(tp, before, after)
		}
		for _, b := range n.Bases {
			Walk(b, before, after)
		}
		for _, d := range n.Decls {
			Walk(d, before, after)
		}

	case *FunctionDecl:
		walkCallable(n.Annotations, &n.CallableInfo, before, after)
	case *MethodDecl:
		walkCallable(n.Annotations, &n.CallableInfo, before, after)
	case *MacroDecl:
		walkCallable(n.Annotations, &n.CallableInfo, before, after)
	case *MethodMacroDecl:
		walkCallable(n.Annotations, &n.CallableInfo, before, after)
	case *ConstructorDecl:
		walkCallable(n.Annotations, &n.CallableInfo, before, after)

	case *Param:
		if n.Type != nil {
			Walk(n.Type, before, after)
		}

	case *FieldDecl:
		for _, a := range n.Annotations {
			Walk(a, before, after)
		}
		if n.Type != nil {
			Walk(n.Type, before, after)
		}
		if n.Init != nil {
			Walk(n.Init, before, after)
		}

	case *SelfDecl:
		// leaf

	case *Ident, *NumberLit, *StringLit, *BoolLit, *NullLit, *SuperExpr:
		// leaves

	case *ListLit:
		for _, e := range n.Elems {
			Walk(e, before, after)
		}

	case *MapLit:
		for _, e := range n.Entries {
			Walk(e.Key, before, after)
			Walk(e.Value, before, after)
		}

	case *AttrExpr:
		Walk(n.Recv, before, after)

	case *CallExpr:
		Walk(n.Fun, before, after)
		for _, a := range n.Args {
			Walk(a, before, after)
		}

	case *TypeRefExpr:
		Walk(n.Type, before, after)

	case *CastExpr:
		Walk(n.Type, before, after)
		Walk(n.Value, before, after)

	case *DeclStmt:
		if n.Type != nil {
			Walk(n.Type, before, after)
		}
		if n.Init != nil {
			Walk(n.Init, before, after)
		}

	case *AssignStmt:
		Walk(n.Target, before, after)
		Walk(n.Value, before, after)

	case *ExprStmt:
		Walk(n.X, before, after)

	case *IfStmt:
		Walk(n.Cond, before, after)
		Walk(n.Then, before, after)
		if n.Else != nil {
			Walk(n.Else, before, after)
		}

	case *WhileStmt:
		Walk(n.Cond, before, after)
		Walk(n.Body, before, after)

	case *BreakStmt, *ContinueStmt:
		// leaves

	case *ReturnStmt:
		if n.Value != nil {
			Walk(n.Value, before, after)
		}

	case *BlockStmt:
		for _, s := range n.Stmts {
			Walk(s, before, after)
		}
	}

	if after != nil {
		after(node)
	}
}

func walkCallable(anns []*Annotation, c *CallableInfo, before func(Node) bool, after func(Node)) {
	for _, a := range anns {
		Walk(a, before, after)
	}
	for _, p := range c.Params {
		Walk(p, before, after)
	}
	if c.ReturnType != nil {
		Walk(c.ReturnType, before, after)
	}
	if c.Body != nil {
		Walk(c.Body, before, after)
	}
}

// Inspect calls f(node) for each node in depth-first order, starting
// with node itself. If f returns false, Inspect skips node's children.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, f, nil)
}
