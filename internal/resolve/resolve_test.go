package resolve

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/jai2033shankar/polygen/ast"
	"github.com/jai2033shankar/polygen/errors"
	"github.com/jai2033shankar/polygen/internal/annotate"
	"github.com/jai2033shankar/polygen/internal/builtin"
	"github.com/jai2033shankar/polygen/internal/define"
)

func setup(t *testing.T, file *ast.File) (*ast.Root, *builtin.Set) {
	t.Helper()
	root := ast.NewRoot()
	b, err := builtin.New(root)
	qt.Assert(t, qt.IsNil(err))

	root.Files = append(root.Files, file)
	annotate.File(root, file, len(root.Files)-1)
	qt.Assert(t, qt.IsNil(define.Run(root)))
	return root, b
}

func TestRunResolvesIdentToLexicalBinding(t *testing.T) {
	param := &ast.Param{Name: "n"}
	id := &ast.Ident{Name: "n"}
	fn := &ast.FunctionDecl{
		Name: "identity",
		CallableInfo: ast.CallableInfo{
			Params: []*ast.Param{param},
			Body:   &ast.BlockStmt{Stmts: []ast.Stmt{&ast.ExprStmt{X: id}}},
		},
	}
	file := &ast.File{Filename: "a.pg", Decls: []ast.Decl{fn}}
	root, b := setup(t, file)

	var errs errors.List
	Run(root, b, &errs)
	qt.Assert(t, qt.HasLen(errs, 0))
	qt.Assert(t, qt.Equals(id.Info().Def, ast.Definition(param)))
}

func TestRunUnresolvedIdentRecordsError(t *testing.T) {
	id := &ast.Ident{Name: "nope"}
	fn := &ast.FunctionDecl{
		Name: "f",
		CallableInfo: ast.CallableInfo{
			Body: &ast.BlockStmt{Stmts: []ast.Stmt{&ast.ExprStmt{X: id}}},
		},
	}
	file := &ast.File{Filename: "a.pg", Decls: []ast.Decl{fn}}
	root, b := setup(t, file)

	var errs errors.List
	Run(root, b, &errs)
	qt.Assert(t, qt.HasLen(errs, 1))
	qt.Assert(t, qt.Equals(errs[0].Kind(), errors.Unresolved))
}

func TestRunResolvesLiteralTypes(t *testing.T) {
	intLit := &ast.NumberLit{Value: 1, Raw: "1"}
	floatLit := &ast.NumberLit{Value: 1.5, Raw: "1.5"}
	str := &ast.StringLit{Value: "x"}
	fn := &ast.FunctionDecl{
		Name: "f",
		CallableInfo: ast.CallableInfo{
			Body: &ast.BlockStmt{Stmts: []ast.Stmt{
				&ast.ExprStmt{X: intLit},
				&ast.ExprStmt{X: floatLit},
				&ast.ExprStmt{X: str},
			}},
		},
	}
	file := &ast.File{Filename: "a.pg", Decls: []ast.Decl{fn}}
	root, b := setup(t, file)

	var errs errors.List
	Run(root, b, &errs)
	qt.Assert(t, qt.HasLen(errs, 0))

	intInst, ok := intLit.Info().Resolved.(interface{ TypeExprString() string })
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(intInst.TypeExprString(), b.IntDecl.Info().ID))

	floatInst, ok := floatLit.Info().Resolved.(interface{ TypeExprString() string })
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(floatInst.TypeExprString(), b.FloatDecl.Info().ID))
}

func TestRunResolvesTypeRefPath(t *testing.T) {
	class := &ast.ClassDecl{Name: "Foo"}
	tr := &ast.TypeRef{Path: []string{"Foo"}}
	field := &ast.FieldDecl{Name: "f", Type: tr}
	class2 := &ast.ClassDecl{Name: "Bar", Decls: []ast.Decl{field}}
	file := &ast.File{Filename: "a.pg", Decls: []ast.Decl{class, class2}}
	root, b := setup(t, file)

	var errs errors.List
	Run(root, b, &errs)
	qt.Assert(t, qt.HasLen(errs, 0))
	qt.Assert(t, qt.Equals(tr.Info().Def, ast.Definition(class)))
}

func TestRunResolvesImportTarget(t *testing.T) {
	other := &ast.ClassDecl{Name: "Other"}
	pkgOther := &ast.Package{Name: "pkgo", Decls: []ast.Decl{other}}

	imp := &ast.ImportDecl{Path: []string{"pkgo", "Other"}}
	file := &ast.File{Filename: "a.pg", Decls: []ast.Decl{pkgOther}, Imports: []*ast.ImportDecl{imp}}
	root, b := setup(t, file)

	var errs errors.List
	Run(root, b, &errs)
	qt.Assert(t, qt.HasLen(errs, 0))
	qt.Assert(t, qt.Equals(imp.Info().Def, ast.Definition(other)))
}
