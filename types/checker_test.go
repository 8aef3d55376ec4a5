package types

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/jai2033shankar/polygen/ast"
	"github.com/jai2033shankar/polygen/errors"
	"github.com/jai2033shankar/polygen/scope"
)

func classRef(to *ast.ClassDecl) *ast.TypeRef {
	tr := &ast.TypeRef{}
	tr.Info().Def = to
	return tr
}

func worldFixture() (*World, *ast.ClassDecl, *ast.ClassDecl, *ast.ClassDecl) {
	object := idOf("Object")
	animal := idOf("Animal")
	animal.Bases = []*ast.TypeRef{classRef(object)}
	dog := idOf("Dog")
	dog.Bases = []*ast.TypeRef{classRef(animal)}

	w := &World{Object: object, Void: idOf("void")}
	return w, object, animal, dog
}

func TestSupertypesWalksChainToObject(t *testing.T) {
	w, object, animal, dog := worldFixture()

	sup := w.Supertypes(Self(dog))
	var ids []string
	for _, s := range sup {
		ids = append(ids, s.ID())
	}
	qt.Assert(t, qt.DeepEquals(ids, []string{"Dog", "Animal", "Object"}))
	_ = object
	_ = animal
}

func TestSupertypesClasslessYieldsObject(t *testing.T) {
	w, object, _, _ := worldFixture()
	plain := idOf("Plain")

	sup := w.Supertypes(Self(plain))
	qt.Assert(t, qt.HasLen(sup, 2))
	qt.Assert(t, qt.Equals(sup[1].Def, ast.Definition(object)))
}

func TestAssignableFromReflexiveAndTransitive(t *testing.T) {
	w, object, animal, dog := worldFixture()

	qt.Assert(t, qt.IsTrue(w.AssignableFrom(Self(dog), Self(dog))))
	qt.Assert(t, qt.IsTrue(w.AssignableFrom(Self(animal), Self(dog))))
	qt.Assert(t, qt.IsTrue(w.AssignableFrom(Self(object), Self(dog))))
	qt.Assert(t, qt.IsFalse(w.AssignableFrom(Self(dog), Self(animal))))
}

func TestAssignableFromNilIsFalse(t *testing.T) {
	w, _, _, dog := worldFixture()
	qt.Assert(t, qt.IsFalse(w.AssignableFrom(nil, Self(dog))))
	qt.Assert(t, qt.IsFalse(w.AssignableFrom(Self(dog), nil)))
}

func TestCheckArityMismatch(t *testing.T) {
	w, _, _, _ := worldFixture()
	var errs errors.List
	w.Check(nil, []ast.Expr{&ast.NullLit{}}, &errs, Bindings{})
	qt.Assert(t, qt.HasLen(errs, 1))
	qt.Assert(t, qt.Equals(errs[0].Kind(), errors.Type))
}

func TestCheckLengthMismatch(t *testing.T) {
	w, _, _, _ := worldFixture()
	params := []*ast.Param{{Name: "a"}}
	var errs errors.List
	w.Check(params, nil, &errs, Bindings{})
	qt.Assert(t, qt.HasLen(errs, 1))
}

func TestAssignNullAlwaysOk(t *testing.T) {
	w, _, _, dog := worldFixture()
	var errs errors.List
	ok := w.Assign(Self(dog), &ast.NullLit{}, &errs)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(errs, 0))
}

func TestAssignUpstreamFailureStaysTolerant(t *testing.T) {
	w, _, _, dog := worldFixture()
	expr := &ast.Ident{} // Info().Resolved left nil: an upstream error already fired.
	var errs errors.List
	ok := w.Assign(Self(dog), expr, &errs)
	qt.Assert(t, qt.IsFalse(ok))
	qt.Assert(t, qt.HasLen(errs, 0))
}

func TestAssignUnrelatedTypesFail(t *testing.T) {
	w, _, _, dog := worldFixture()
	cat := idOf("Cat")
	expr := &ast.Ident{}
	expr.Info().Resolved = Self(cat)
	var errs errors.List
	ok := w.Assign(Self(dog), expr, &errs)
	qt.Assert(t, qt.IsFalse(ok))
	qt.Assert(t, qt.HasLen(errs, 1))
}

func TestAssignViaCoercion(t *testing.T) {
	w, _, _, dog := worldFixture()
	cat := idOf("Cat")

	coerce := &ast.MethodDecl{Name: "__to_Dog"}
	coerce.ReturnType = classRef(dog)
	env := scope.New(nil)
	env.Insert(coerce.Name, coerce)
	cat.Info().Env = env

	expr := &ast.Ident{}
	expr.Info().Resolved = Self(cat)
	var errs errors.List
	ok := w.Assign(Self(dog), expr, &errs)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(errs, 0))
	qt.Assert(t, qt.Equals(expr.Info().Coercion, ast.Definition(coerce)))
}

func TestCheckReturnVoidWithValueIsError(t *testing.T) {
	w, _, _, _ := worldFixture()
	sig := &ast.CallableInfo{}
	ret := &ast.ReturnStmt{Value: &ast.NullLit{}}
	var errs errors.List
	w.CheckReturn(sig, ret, &errs)
	qt.Assert(t, qt.HasLen(errs, 1))
}

func TestCheckReturnNonVoidMissingValueIsError(t *testing.T) {
	w, _, _, dog := worldFixture()
	sig := &ast.CallableInfo{ReturnType: classRef(dog)}
	ret := &ast.ReturnStmt{}
	var errs errors.List
	w.CheckReturn(sig, ret, &errs)
	qt.Assert(t, qt.HasLen(errs, 1))
}

func TestCheckReturnOkCases(t *testing.T) {
	w, _, _, dog := worldFixture()

	var errs errors.List
	w.CheckReturn(&ast.CallableInfo{}, &ast.ReturnStmt{}, &errs)
	qt.Assert(t, qt.HasLen(errs, 0))

	errs = nil
	w.CheckReturn(&ast.CallableInfo{ReturnType: classRef(dog)}, &ast.ReturnStmt{Value: &ast.NullLit{}}, &errs)
	qt.Assert(t, qt.HasLen(errs, 0))
}

func TestSuperTypeNoBaseIsNil(t *testing.T) {
	w, _, _, _ := worldFixture()
	lone := idOf("Lone")
	qt.Assert(t, qt.IsNil(w.SuperType(lone, Bindings{})))
}

func TestSuperTypeFirstBase(t *testing.T) {
	w, _, animal, dog := worldFixture()
	got := w.SuperType(dog, Bindings{})
	qt.Assert(t, qt.Equals(got.Def, ast.Definition(animal)))
}

func TestIsVoid(t *testing.T) {
	w, _, _, dog := worldFixture()
	qt.Assert(t, qt.IsTrue(w.IsVoid(Self(w.Void.(*ast.ClassDecl)))))
	qt.Assert(t, qt.IsFalse(w.IsVoid(Self(dog))))
}
