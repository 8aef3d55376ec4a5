// Package builtin constructs the canonical built-in package that C3
// resolves literal expressions against and every user program
// implicitly extends: Object, Void, the numeric-literal split of
// int/float (distilled spec §8 boundary cases resolve a Number
// literal's class name to one or the other, never to a single numeric
// type — see original_source/quark/compiler.py's visit_Number, which
// dispatches on whether the literal text contains a "."), the other
// primitive literal types, and the generic List/Map container
// classes. Rather than hand-stamping Info slots, it builds an ordinary
// File, appends it to the caller's Root, and runs it through the real
// C1/C2 passes, so the built-in package obeys exactly the same
// invariants as user code.
package builtin

import (
	"github.com/jai2033shankar/polygen/ast"
	"github.com/jai2033shankar/polygen/errors"
	"github.com/jai2033shankar/polygen/internal/annotate"
	"github.com/jai2033shankar/polygen/internal/define"
)

// Names of the builtin definitions, as they appear in source. Int and
// Float are deliberately lowercase: the distilled spec's own worked
// examples (§8 boundary case "Generic instantiation", scenario 5)
// spell the resolved ids "builtin.int"/"builtin.List<builtin.int>",
// matching quark's own lowercase primitive names.
const (
	Object = "Object"
	Void   = "Void"
	Int    = "int"
	Float  = "float"
	String = "String"
	Bool   = "Bool"
	List   = "List"
	Map    = "Map"
)

// Set holds handles to every builtin Definition, resolved once at
// startup and threaded explicitly through the pipeline (types.World
// embeds the two it needs; the resolve pass needs the rest for
// literal-expression typing).
type Set struct {
	Package *ast.Package

	ObjectDecl *ast.ClassDecl
	VoidDecl   *ast.PrimitiveDecl
	IntDecl    *ast.PrimitiveDecl
	FloatDecl  *ast.PrimitiveDecl
	StringDecl *ast.PrimitiveDecl
	BoolDecl   *ast.PrimitiveDecl
	ListDecl   *ast.ClassDecl
	MapDecl    *ast.ClassDecl
}

// New builds the builtin File/Package, appends it to root at depth 0,
// and crosswires + defines it. The builtin package can never contain
// a duplicate definition, so a non-nil error here indicates a bug in
// this constructor, not user input.
func New(root *ast.Root) (*Set, errors.Error) {
	object := &ast.ClassDecl{Name: Object}
	void := &ast.PrimitiveDecl{Name: Void}
	intDecl := &ast.PrimitiveDecl{Name: Int}
	floatDecl := &ast.PrimitiveDecl{Name: Float}
	str := &ast.PrimitiveDecl{Name: String}
	boolean := &ast.PrimitiveDecl{Name: Bool}

	listParam := &ast.TypeParam{Name: "T"}
	list := &ast.ClassDecl{Name: List, TypeParams: []*ast.TypeParam{listParam}}

	mapKey := &ast.TypeParam{Name: "K"}
	mapVal := &ast.TypeParam{Name: "V"}
	mapDecl := &ast.ClassDecl{Name: Map, TypeParams: []*ast.TypeParam{mapKey, mapVal}}

	pkg := &ast.Package{
		Name: "builtin",
		Decls: []ast.Decl{
			object, void, intDecl, floatDecl, str, boolean, list, mapDecl,
		},
	}
	file := &ast.File{
		Filename: "<builtin>",
		Decls:    []ast.Decl{pkg},
	}

	root.Files = append(root.Files, file)
	annotate.File(root, file, 0)
	if err := define.Run(root); err != nil {
		return nil, err
	}

	return &Set{
		Package:    pkg,
		ObjectDecl: object,
		VoidDecl:   void,
		IntDecl:    intDecl,
		FloatDecl:  floatDecl,
		StringDecl: str,
		BoolDecl:   boolean,
		ListDecl:   list,
		MapDecl:    mapDecl,
	}, nil
}
