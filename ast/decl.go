package ast

import "github.com/jai2033shankar/polygen/token"

// TypeParam is a formal type parameter of a class or interface.
type TypeParam struct {
	base
	Name string
}

func (*TypeParam) declNode()           {}
func (*TypeParam) definitionNode()     {}
func (p *TypeParam) DefName() string   { return p.Name }
func (p *TypeParam) DefPos() token.Pos { return p.Pos() }

// TypeRef is a syntactic type reference: a dotted path plus optional
// instantiation parameters, each itself a TypeRef (e.g. `List<int>`,
// `Map<string, Foo>`).
type TypeRef struct {
	base
	Path []string
	Args []*TypeRef
}

func (*TypeRef) declNode() {} // TypeRef can appear as a Decl's Type field; it is never installed in scope itself.

// Name returns the dotted path joined with ".".
func (t *TypeRef) Name() string {
	s := ""
	for i, p := range t.Path {
		if i > 0 {
			s += "."
		}
		s += p
	}
	return s
}

// CallableInfo is embedded by every Callable definition: the shared
// shape of parameters, return type, and body.
type CallableInfo struct {
	Params     []*Param
	ReturnType *TypeRef // nil for constructors
	Body       *BlockStmt
}

func (c *CallableInfo) Signature() *CallableInfo { return c }

// Param is a formal parameter. It satisfies scope.Definition so the
// Definer can install it directly in the callable's environment.
type Param struct {
	base
	Name string
	Type *TypeRef
}

func (*Param) declNode()           {}
func (*Param) definitionNode()     {}
func (p *Param) DefName() string   { return p.Name }
func (p *Param) DefPos() token.Pos { return p.Pos() }

// ClassDecl is a class definition: type parameters, base types, and a
// body of fields/methods/constructors/nested classes.
type ClassDecl struct {
	base
	Annotatable
	Name       string
	TypeParams []*TypeParam
	Bases      []*TypeRef
	Decls      []Decl
}

func (*ClassDecl) declNode()          {}
func (c *ClassDecl) DefName() string  { return c.Name }
func (c *ClassDecl) DefPos() token.Pos { return c.Pos() }
func (c *ClassDecl) definitionNode() {}

// Constructor returns the class's declared constructor, or nil if it
// has none (per §4.4, a class without a constructor takes zero
// arguments).
func (c *ClassDecl) Constructor() *ConstructorDecl {
	for _, d := range c.Decls {
		if ctor, ok := d.(*ConstructorDecl); ok {
			return ctor
		}
	}
	return nil
}

// Fields returns the class's own (non-inherited) field declarations.
func (c *ClassDecl) Fields() []*FieldDecl {
	var out []*FieldDecl
	for _, d := range c.Decls {
		if f, ok := d.(*FieldDecl); ok {
			out = append(out, f)
		}
	}
	return out
}

// InterfaceDecl is an interface definition: base interfaces and member
// signatures (no field storage, no constructor).
type InterfaceDecl struct {
	base
	Annotatable
	Name       string
	TypeParams []*TypeParam
	Bases      []*TypeRef
	Decls      []Decl
}

func (*InterfaceDecl) declNode()          {}
func (i *InterfaceDecl) DefName() string  { return i.Name }
func (i *InterfaceDecl) DefPos() token.Pos { return i.Pos() }
func (i *InterfaceDecl) definitionNode() {}

// PrimitiveDecl declares a built-in primitive type (int, bool, …).
// Primitives have no bases other than the implicit Object and carry
// no fields or methods of their own in source form; the checker still
// treats them as ordinary Definitions for assignability purposes.
type PrimitiveDecl struct {
	base
	Name string
}

func (*PrimitiveDecl) declNode()          {}
func (p *PrimitiveDecl) DefName() string  { return p.Name }
func (p *PrimitiveDecl) DefPos() token.Pos { return p.Pos() }
func (p *PrimitiveDecl) definitionNode() {}

// FunctionDecl is a free function. A body-less FunctionDecl is a
// forward declaration; see internal/define for the duplicate rule
// that makes this legal exactly once.
type FunctionDecl struct {
	base
	Annotatable
	CallableInfo
	Name string
}

func (*FunctionDecl) declNode()          {}
func (f *FunctionDecl) DefName() string  { return f.Name }
func (f *FunctionDecl) DefPos() token.Pos { return f.Pos() }
func (f *FunctionDecl) definitionNode() {}

// HasBody reports whether the function has a body (is not a forward
// declaration).
func (f *FunctionDecl) HasBody() bool { return f.Body != nil }

// MethodDecl is a class method. Methods are only installed by name in
// the class environment when they declare a return type (§4.2);
// regardless, every method installs `self` in its own environment.
type MethodDecl struct {
	base
	Annotatable
	CallableInfo
	Name string
}

func (*MethodDecl) declNode()          {}
func (m *MethodDecl) DefName() string  { return m.Name }
func (m *MethodDecl) DefPos() token.Pos { return m.Pos() }
func (m *MethodDecl) definitionNode() {}

// MacroDecl is a free macro: like a function but expanded by the
// annotation/rewrite machinery rather than emitted directly.
type MacroDecl struct {
	base
	Annotatable
	CallableInfo
	Name string
}

func (*MacroDecl) declNode()          {}
func (m *MacroDecl) DefName() string  { return m.Name }
func (m *MacroDecl) DefPos() token.Pos { return m.Pos() }
func (m *MacroDecl) definitionNode() {}

// MethodMacroDecl is a class-scoped macro; like MethodDecl it installs
// `self` in its own environment.
type MethodMacroDecl struct {
	base
	Annotatable
	CallableInfo
	Name string
}

func (*MethodMacroDecl) declNode()          {}
func (m *MethodMacroDecl) DefName() string  { return m.Name }
func (m *MethodMacroDecl) DefPos() token.Pos { return m.Pos() }
func (m *MethodMacroDecl) definitionNode() {}

// ConstructorDecl is a class constructor. Constructors are nameless
// for lookup purposes (DefName returns "" and they are never installed
// in the class environment by name).
type ConstructorDecl struct {
	base
	Annotatable
	CallableInfo
}

func (*ConstructorDecl) declNode()          {}
func (c *ConstructorDecl) DefName() string  { return "" }
func (c *ConstructorDecl) DefPos() token.Pos { return c.Pos() }
func (c *ConstructorDecl) definitionNode() {}

// FieldDecl is a class field.
type FieldDecl struct {
	base
	Annotatable
	Name string
	Type *TypeRef
	Init Expr // optional
}

func (*FieldDecl) declNode()          {}
func (f *FieldDecl) DefName() string  { return f.Name }
func (f *FieldDecl) DefPos() token.Pos { return f.Pos() }
func (f *FieldDecl) definitionNode() {}

// SelfDecl is the synthetic `self` binding the Definer installs in
// every method and method-macro environment (§4.2). Its resolved type
// is the enclosing class, bound via internal/define.
type SelfDecl struct {
	base
	Class *ClassDecl
}

func (*SelfDecl) declNode()          {}
func (s *SelfDecl) DefName() string  { return "self" }
func (s *SelfDecl) DefPos() token.Pos { return s.Pos() }
