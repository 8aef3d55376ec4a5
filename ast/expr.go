package ast

// Ident is a variable/type-path reference (the source's "Var").
// After the use pass, Info().Def points at its declaration, or the
// reference is recorded in the pass's unresolved set.
type Ident struct {
	base
	Name string
}

func (*Ident) exprNode() {}

// NumberLit is a numeric literal.
type NumberLit struct {
	base
	Value float64
	Raw   string
}

func (*NumberLit) exprNode() {}

// StringLit is a string literal.
type StringLit struct {
	base
	Value string
}

func (*StringLit) exprNode() {}

// BoolLit is `true` or `false`.
type BoolLit struct {
	base
	Value bool
}

func (*BoolLit) exprNode() {}

// NullLit is `null`; its resolved type is always the built-in Object.
type NullLit struct {
	base
}

func (*NullLit) exprNode() {}

// ListLit is a list literal; its parametric element type is
// specialized from the first element once that element is resolved.
type ListLit struct {
	base
	Elems []Expr
}

func (*ListLit) exprNode() {}

// MapEntry is one key/value pair of a MapLit.
type MapEntry struct {
	Key   Expr
	Value Expr
}

// MapLit is a map literal; its parametric key/value types are
// specialized from the first entry once resolved.
type MapLit struct {
	base
	Entries []*MapEntry
}

func (*MapLit) exprNode() {}

// AttrExpr is `e.x`: attribute access on the receiver expression.
type AttrExpr struct {
	base
	Recv Expr
	Name string
}

func (*AttrExpr) exprNode() {}

// CallExpr is a call or construction: `f(args…)`. When Fun resolves
// to a Class, the checker dispatches to its constructor (§4.4).
type CallExpr struct {
	base
	Fun  Expr
	Args []Expr
}

func (*CallExpr) exprNode() {}

// TypeRefExpr wraps a syntactic TypeRef used in expression position,
// e.g. the receiver of `List<int>.get(0)`.
type TypeRefExpr struct {
	base
	Type *TypeRef
}

func (*TypeRefExpr) exprNode() {}

// SuperExpr is the `super` keyword. It is only legal as the receiver
// of an AttrExpr or CallExpr; internal/structural enforces that.
type SuperExpr struct {
	base
}

func (*SuperExpr) exprNode() {}

// CastExpr is an explicit `(T) e` / `e as T` cast.
type CastExpr struct {
	base
	Type  *TypeRef
	Value Expr
}

func (*CastExpr) exprNode() {}
