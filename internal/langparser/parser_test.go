package langparser

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/jai2033shankar/polygen/ast"
	"github.com/jai2033shankar/polygen/token"
)

func newParser(t *testing.T) *Parser {
	t.Helper()
	return New(token.NewFileSet())
}

func TestParseFileClassWithFieldAndMethod(t *testing.T) {
	p := newParser(t)
	src := `
class Foo extends Bar {
  int x;
  int getX() { return x; }
}
`
	f, err := p.ParseFile("a.pg", src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(f.Decls, 1))

	class, ok := f.Decls[0].(*ast.ClassDecl)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(class.Name, "Foo"))
	qt.Assert(t, qt.HasLen(class.Bases, 1))
	qt.Assert(t, qt.Equals(class.Bases[0].Name(), "Bar"))
	qt.Assert(t, qt.HasLen(class.Decls, 2))

	field, ok := class.Decls[0].(*ast.FieldDecl)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(field.Name, "x"))
	qt.Assert(t, qt.Equals(field.Type.Name(), "int"))

	method, ok := class.Decls[1].(*ast.MethodDecl)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(method.Name, "getX"))
	qt.Assert(t, qt.Not(qt.IsNil(method.Body)))
	qt.Assert(t, qt.HasLen(method.Body.Stmts, 1))
}

func TestParseFileFunctionForwardDeclaration(t *testing.T) {
	p := newParser(t)
	f, err := p.ParseFile("a.pg", "int f(int n);")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(f.Decls, 1))

	fn, ok := f.Decls[0].(*ast.FunctionDecl)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(fn.Name, "f"))
	qt.Assert(t, qt.IsFalse(fn.HasBody()))
	qt.Assert(t, qt.HasLen(fn.Params, 1))
}

func TestParseFileImportUseInclude(t *testing.T) {
	p := newParser(t)
	src := `
import pkg.Foo as F;
use "https://example.test/a.pg";
include "https://example.test/data.bin";
`
	f, err := p.ParseFile("a.pg", src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(f.Imports, 1))
	qt.Assert(t, qt.DeepEquals(f.Imports[0].Path, []string{"pkg", "Foo"}))
	qt.Assert(t, qt.Equals(f.Imports[0].Alias, "F"))

	qt.Assert(t, qt.HasLen(f.Uses, 1))
	use, ok := f.Uses["https://example.test/a.pg"]
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(use.URL, "https://example.test/a.pg"))

	qt.Assert(t, qt.HasLen(f.Includes, 1))
	inc, ok := f.Includes["https://example.test/data.bin"]
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsTrue(inc.Native))
}

func TestParseFileIfWhileAndNewExpr(t *testing.T) {
	p := newParser(t)
	src := `
function void run() {
  var Foo f = new Foo(1, 2);
  if (f.x) {
    return;
  } else {
    while (f.x) {
      break;
    }
  }
}
`
	f, err := p.ParseFile("a.pg", src)
	qt.Assert(t, qt.IsNil(err))
	fn, ok := f.Decls[0].(*ast.FunctionDecl)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(fn.Body.Stmts, 2))

	decl, ok := fn.Body.Stmts[0].(*ast.DeclStmt)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(decl.Name, "f"))
	qt.Assert(t, qt.Equals(decl.Type.Name(), "Foo"))
	call, ok := decl.Init.(*ast.CallExpr)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(call.Args, 2))

	ifStmt, ok := fn.Body.Stmts[1].(*ast.IfStmt)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Not(qt.IsNil(ifStmt.Else)))
}

func TestParseDeclFieldRule(t *testing.T) {
	p := newParser(t)
	d, err := p.ParseDecl("field", "int x;")
	qt.Assert(t, qt.IsNil(err))
	field, ok := d.(*ast.FieldDecl)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(field.Name, "x"))
}

func TestParseDeclMethodRule(t *testing.T) {
	p := newParser(t)
	d, err := p.ParseDecl("method", "int area() { return 1; }")
	qt.Assert(t, qt.IsNil(err))
	m, ok := d.(*ast.MethodDecl)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(m.Name, "area"))
}

func TestParseDeclDefaultRuleUsesTopDecl(t *testing.T) {
	p := newParser(t)
	d, err := p.ParseDecl("function", "int f() { return 1; }")
	qt.Assert(t, qt.IsNil(err))
	_, ok := d.(*ast.FunctionDecl)
	qt.Assert(t, qt.IsTrue(ok))
}

func TestParseFileSyntaxErrorIsWrapped(t *testing.T) {
	p := newParser(t)
	_, err := p.ParseFile("bad.pg", "class {")
	qt.Assert(t, qt.Not(qt.IsNil(err)))
}
