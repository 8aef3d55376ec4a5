package compiler

import (
	"fmt"

	"github.com/jai2033shankar/polygen/ast"
	"github.com/jai2033shankar/polygen/target"
)

// DefaultBackend is the minimal Backend every registered Emitter can
// share: it visits every top-level Definition in the compiled Root,
// resolves its target identity through the model, and writes one
// declaration line per definition into that identity's file. Real
// per-language code generation is a Backend implementation detail
// left to whoever wires a richer one in; this is the fixture the
// Compiler Driver is exercised against (§6: "produces text into its
// file buffers" names the contract, not a specific rendering).
type DefaultBackend struct{}

func (DefaultBackend) Visit(root *ast.Root, model *target.Model) error {
	for _, f := range root.Files {
		for _, d := range f.Decls {
			visitDecl(d, model)
		}
	}
	return nil
}

func visitDecl(d ast.Decl, model *target.Model) {
	if pkg, ok := d.(*ast.Package); ok {
		for _, member := range pkg.Decls {
			visitDecl(member, model)
		}
		return
	}
	def, ok := d.(ast.Definition)
	if !ok {
		return
	}
	td := model.Define(def)
	filename := model.Filename(def)
	model.Write(filename, fmt.Sprintf("// %s -> %s.%s", def.DefName(), td.Namespace, td.Name))

	switch x := d.(type) {
	case *ast.ClassDecl:
		for _, member := range x.Decls {
			visitDecl(member, model)
		}
	case *ast.InterfaceDecl:
		for _, member := range x.Decls {
			visitDecl(member, model)
		}
	}
}
