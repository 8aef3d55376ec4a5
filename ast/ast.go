// Package ast declares the syntax tree produced by the Parser
// collaborator and mutated in place by every pass of the compiler:
// the Tree Annotator stamps linkage slots, the Definer and Name
// Lookup passes populate Env/Def, and the Type Checker fills in
// Resolved/Coercion. See the Info type for the full slot set.
package ast

import (
	"fmt"

	"github.com/jai2033shankar/polygen/scope"
	"github.com/jai2033shankar/polygen/token"
)

// A Node is any node in the tree.
type Node interface {
	Pos() token.Pos
	End() token.Pos
}

// An Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
	// Info returns the node's mutable annotation slots.
	Info() *Info
}

// A Decl is implemented by every node that can appear in a File,
// Package, or class/interface body.
type Decl interface {
	Node
	declNode()
	Info() *Info
}

// A Stmt is implemented by every statement node inside a callable body.
type Stmt interface {
	Node
	stmtNode()
	Info() *Info
}

// A Definition is a named, scoped declaration: the sum type from §3 of
// the data model (Class, Interface, Primitive, Function, Method, Macro,
// MethodMacro, Field, Constructor). It satisfies scope.Definition so
// Environments never need to import this package.
type Definition interface {
	Decl
	scope.Definition
	definitionNode()
}

// A Callable is any definition that owns parameters and a body:
// Function, Method, Macro, MethodMacro, Constructor.
type Callable interface {
	Definition
	Signature() *CallableInfo
}

// TypeExpr is the marker interface implemented by the resolved,
// instantiated type representation (types.Instance). It lives here,
// not in package types, so ast.Info can hold a Resolved slot without
// ast importing types (which itself must import ast for Definition).
type TypeExpr interface {
	TypeExprString() string
}

// Info carries every mutable annotation slot a node acquires as the
// pipeline runs: linkage (parent/file/package/class/callable), a
// deterministic index and dotted id, the node's environment, the
// resolved Definition for references, the resolved TypeExpr for
// expressions, the coercion method applied at an assignment/call site,
// and the Trace chain left by annotation rewriting.
//
// Every concrete node holds an Info value in its embedded base type
// (below), reached through the promoted Info() method, so the slots
// can be read and written uniformly by every pass without a type
// switch.
type Info struct {
	Parent   Node
	File     *File
	Package  *Package
	Class    *ClassDecl
	Callable Callable
	Index    int
	ID       string

	Env     *scope.Environment
	Imports []*ImportDecl // imports appended directly under this node, checked before ascending (§4.1, §4.3)

	Def      Definition // set by the use pass for resolvable references
	Resolved TypeExpr   // set by the type checker for every expression
	Coercion Definition // set by the checker when a __to_T coercion applies

	Trace *Trace // set by the annotation rewriter on replacement subtrees
}

// Trace is a linked record of the annotation handler chain that
// produced a rewritten subtree, used to point diagnostics at both the
// generated and original source.
type Trace struct {
	Handler string
	Text    string
	Prev    *Trace
}

// base is embedded by every node to supply Info() and the position
// pair derived from the node's own Start/EndPos fields.
type base struct {
	StartPos token.Pos
	EndPos   token.Pos
	info     Info
}

func (b *base) Pos() token.Pos  { return b.StartPos }
func (b *base) End() token.Pos  { return b.EndPos }
func (b *base) Info() *Info     { return &b.info }

// SetPos records the node's source range. Parsers live outside this
// package (see internal/langparser) and can't name the unexported
// base type to set StartPos/EndPos via a composite literal, so this
// promoted method is the supported way to stamp position after
// construction.
func (b *base) SetPos(start, end token.Pos) {
	b.StartPos = start
	b.EndPos = end
}

// Annotatable is embedded by definitions that can carry `@name(args)`
// annotations processed by the rewriter (C6).
type Annotatable struct {
	Annotations []*Annotation
}

// HasAnnotation reports whether name appears among the node's annotations.
func (a *Annotatable) HasAnnotation(name string) bool {
	for _, an := range a.Annotations {
		if an.Name == name {
			return true
		}
	}
	return false
}

// Annotation is a `@name(args…)` attached to a declaration.
type Annotation struct {
	base
	Name string
	Args []Expr
}

func (*Annotation) declNode() {}

// Root is the program: every File ever compiled (direct or transitive
// via `use`), the process-wide package environment keyed by dotted
// name, and the native include payloads keyed by URL.
type Root struct {
	base
	Files    []*File
	Packages map[string]*Package       // canonical package env owner, by dotted name
	Includes map[string][]byte         // native include payloads, by URL (depth 0 only)
	Parsed   map[string]bool           // memoized URL -> already parsed, breaks `use` cycles
}

// NewRoot creates an empty Root ready to receive Files.
func NewRoot() *Root {
	return &Root{
		Packages: map[string]*Package{},
		Includes: map[string][]byte{},
		Parsed:   map[string]bool{},
	}
}

func (*Root) declNode() {}

// File owns the top-level Decls parsed from one source unit.
type File struct {
	base
	Filename string
	Depth    int // 0 = user entry point, >0 = transitively used
	Decls    []Decl
	Imports  []*ImportDecl
	Uses     map[string]*UseDecl     // keyed by URL, insertion order not required (directive, not a scope)
	Includes map[string]*IncludeDecl // keyed by URL
}

func (*File) declNode() {}

// Package is a named, possibly re-opened scope. Name is the package's
// own local segment (e.g. `namespace A { namespace B { … } }` yields
// two Package nodes, "A" and "B"). Every Package node whose fully
// qualified name (QualifiedName) is identical shares one Environment;
// see Root.Packages.
type Package struct {
	base
	Name  string
	Decls []Decl
}

func (*Package) declNode()       {}
func (*Package) definitionNode() {}

// DefName / DefPos implement scope.Definition so packages can be
// looked up the same way any other named declaration is.
func (p *Package) DefName() string   { return p.Name }
func (p *Package) DefPos() token.Pos { return p.Pos() }

// QualifiedName walks the chain of enclosing Package nodes (set by C1
// on Info().Package) and returns the dotted fully-qualified name.
func (p *Package) QualifiedName() string {
	if p.Info().Package != nil {
		return p.Info().Package.QualifiedName() + "." + p.Name
	}
	return p.Name
}

// ImportDecl is a lexical import: `import A.B[.C] [as X]`.
type ImportDecl struct {
	base
	Path  []string // dotted path segments
	Alias string   // "" if none given; DefName() uses the last path segment then
}

func (*ImportDecl) declNode() {}

// Target returns the dotted path joined with ".".
func (d *ImportDecl) Target() string {
	s := ""
	for i, p := range d.Path {
		if i > 0 {
			s += "."
		}
		s += p
	}
	return s
}

// DefName returns the alias if present, else the last path segment —
// the name this import brings into lexical scope.
func (d *ImportDecl) DefName() string {
	if d.Alias != "" {
		return d.Alias
	}
	if len(d.Path) == 0 {
		return ""
	}
	return d.Path[len(d.Path)-1]
}

func (d *ImportDecl) DefPos() token.Pos { return d.Pos() }

// UseDecl fetches another source unit as a compilation dependency.
type UseDecl struct {
	base
	URL string
}

func (*UseDecl) declNode() {}

// IncludeDecl brings in a language source (inline, same depth) or a
// native verbatim payload (depth 0 only).
type IncludeDecl struct {
	base
	URL    string
	Native bool // true if URL does not end in the language's source suffix
}

func (*IncludeDecl) declNode() {}

func (n *Info) String() string {
	return fmt.Sprintf("%s", n.ID)
}
