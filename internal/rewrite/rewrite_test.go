package rewrite

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/jai2033shankar/polygen/ast"
	"github.com/jai2033shankar/polygen/errors"
)

func TestNewRegistryPreSeedsDelegate(t *testing.T) {
	r := NewRegistry()
	qt.Assert(t, qt.DeepEquals(r.order, []string{"delegate"}))
	qt.Assert(t, qt.HasLen(r.handlersFor("delegate"), 1))
}

func TestRegisterAppendsInOrder(t *testing.T) {
	r := NewRegistry()
	first := func(ast.Decl, *ast.Annotation) (Output, bool) { return Output{}, false }
	second := func(ast.Decl, *ast.Annotation) (Output, bool) { return Output{}, false }
	r.Register("tag", first)
	r.Register("tag", second)

	qt.Assert(t, qt.HasLen(r.handlersFor("tag"), 2))
	qt.Assert(t, qt.DeepEquals(r.order, []string{"delegate", "tag"}))
}

func TestDelegateHandlerGeneratesFunctionStub(t *testing.T) {
	fn := &ast.FunctionDecl{
		Name: "area",
		CallableInfo: ast.CallableInfo{
			Params:     []*ast.Param{{Name: "w", Type: &ast.TypeRef{Path: []string{"int"}}}},
			ReturnType: &ast.TypeRef{Path: []string{"int"}},
		},
	}
	ann := &ast.Annotation{Name: "delegate", Args: []ast.Expr{&ast.StringLit{Value: "helper"}}}

	out, ok := DelegateHandler(fn, ann)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(out.Text, "function int area(w int) { return (int) helper(area, w); }"))
}

func TestDelegateHandlerSkipsBodiedFunction(t *testing.T) {
	fn := &ast.FunctionDecl{Name: "f", CallableInfo: ast.CallableInfo{Body: &ast.BlockStmt{}}}
	ann := &ast.Annotation{Name: "delegate", Args: []ast.Expr{&ast.StringLit{Value: "helper"}}}

	_, ok := DelegateHandler(fn, ann)
	qt.Assert(t, qt.IsFalse(ok))
}

func TestDelegateHandlerVoidMethodStub(t *testing.T) {
	m := &ast.MethodDecl{Name: "log"}
	ann := &ast.Annotation{Name: "delegate", Args: []ast.Expr{&ast.StringLit{Value: "helper"}}}

	out, ok := DelegateHandler(m, ann)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(out.Text, "method log() { helper(log); }"))
}

func TestDelegateHandlerRequiresStringHelperArg(t *testing.T) {
	fn := &ast.FunctionDecl{Name: "f"}
	ann := &ast.Annotation{Name: "delegate", Args: []ast.Expr{&ast.NumberLit{Value: 1}}}

	_, ok := DelegateHandler(fn, ann)
	qt.Assert(t, qt.IsFalse(ok))
}

func TestDelegateHandlerNoArgsIsNoop(t *testing.T) {
	fn := &ast.FunctionDecl{Name: "f"}
	ann := &ast.Annotation{Name: "delegate"}

	_, ok := DelegateHandler(fn, ann)
	qt.Assert(t, qt.IsFalse(ok))
}

// nodeHandler returns a handler that replaces any decl carrying ann
// "tag" with a fixed, annotation-free replacement node.
func nodeHandler(replacement ast.Decl) Handler {
	return func(node ast.Decl, ann *ast.Annotation) (Output, bool) {
		if ann.Name != "tag" {
			return Output{}, false
		}
		return Output{Node: replacement}, true
	}
}

func TestRunReplacesDeclViaNodeOutput(t *testing.T) {
	original := &ast.FunctionDecl{
		Name:        "f",
		Annotatable: ast.Annotatable{Annotations: []*ast.Annotation{{Name: "tag"}}},
	}
	replacement := &ast.FunctionDecl{Name: "f"}

	class := &ast.ClassDecl{Name: "C", Decls: []ast.Decl{original}}
	file := &ast.File{Filename: "a.pg", Decls: []ast.Decl{class}}
	root := ast.NewRoot()
	root.Files = []*ast.File{file}
	original.Info().Parent = class

	reg := NewRegistry()
	reg.Register("tag", nodeHandler(replacement))

	var errs errors.List
	Run(root, reg, nil, &errs)

	qt.Assert(t, qt.HasLen(errs, 0))
	qt.Assert(t, qt.Equals(class.Decls[0], ast.Decl(replacement)))
	qt.Assert(t, qt.Not(qt.IsNil(replacement.Info().Trace)))
	qt.Assert(t, qt.Equals(replacement.Info().Trace.Handler, "tag"))
}

// fakeParser implements GrammarParser by returning a canned decl
// regardless of the rule/text requested.
type fakeParser struct {
	decl ast.Decl
	err  error
}

func (p *fakeParser) ParseDecl(rule, text string) (ast.Decl, error) {
	return p.decl, p.err
}

func TestRunUsesParserForTextOutput(t *testing.T) {
	original := &ast.FunctionDecl{
		Name: "f",
		Annotatable: ast.Annotatable{Annotations: []*ast.Annotation{
			{Name: "delegate", Args: []ast.Expr{&ast.StringLit{Value: "helper"}}},
		}},
	}

	replacement := &ast.FunctionDecl{Name: "f", CallableInfo: ast.CallableInfo{Body: &ast.BlockStmt{}}}
	parser := &fakeParser{decl: replacement}

	class := &ast.ClassDecl{Name: "C", Decls: []ast.Decl{original}}
	file := &ast.File{Filename: "a.pg", Decls: []ast.Decl{class}}
	root := ast.NewRoot()
	root.Files = []*ast.File{file}
	original.Info().Parent = class

	reg := NewRegistry()

	var errs errors.List
	Run(root, reg, parser, &errs)

	qt.Assert(t, qt.HasLen(errs, 0))
	qt.Assert(t, qt.Equals(class.Decls[0], ast.Decl(replacement)))
	qt.Assert(t, qt.Equals(replacement.Info().Trace.Text,
		"function f() { helper(f); }"))
}

func TestRunErrorsWhenTextOutputHasNoParser(t *testing.T) {
	original := &ast.FunctionDecl{
		Name: "f",
		Annotatable: ast.Annotatable{Annotations: []*ast.Annotation{
			{Name: "delegate", Args: []ast.Expr{&ast.StringLit{Value: "helper"}}},
		}},
	}

	class := &ast.ClassDecl{Name: "C", Decls: []ast.Decl{original}}
	file := &ast.File{Filename: "a.pg", Decls: []ast.Decl{class}}
	root := ast.NewRoot()
	root.Files = []*ast.File{file}
	original.Info().Parent = class

	reg := NewRegistry()

	var errs errors.List
	Run(root, reg, nil, &errs)

	qt.Assert(t, qt.HasLen(errs, 1))
	qt.Assert(t, qt.Equals(errs[0].Kind(), errors.Structural))
}

func TestReplaceInParentHandlesFileLevelDecl(t *testing.T) {
	original := &ast.FunctionDecl{Name: "f"}
	replacement := &ast.FunctionDecl{Name: "f2"}
	file := &ast.File{Filename: "a.pg", Decls: []ast.Decl{original}}

	ok := replaceInParent(file, original, replacement)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(file.Decls[0], ast.Decl(replacement)))
}

func TestAnnotationsOfUnsupportedKindIsNil(t *testing.T) {
	qt.Assert(t, qt.HasLen(annotationsOf(&ast.DeclStmt{}), 0))
}

func TestGrammarRuleMapping(t *testing.T) {
	qt.Assert(t, qt.Equals(grammarRule(&ast.ClassDecl{}), "class"))
	qt.Assert(t, qt.Equals(grammarRule(&ast.FieldDecl{}), "field"))
	qt.Assert(t, qt.Equals(grammarRule(&ast.DeclStmt{}), "decl"))
}
