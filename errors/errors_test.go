package errors

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/jai2033shankar/polygen/token"
)

func TestListErr(t *testing.T) {
	var l List
	qt.Assert(t, qt.IsNil(l.Err()))

	e1 := Newf(Unresolved, token.NoPos, "missing %s", "x")
	l.Add(e1)
	qt.Assert(t, qt.Equals(l.Err(), e1))

	e2 := Newf(Type, token.NoPos, "bad type")
	l.Add(e2)
	got := l.Err()
	gl, ok := got.(List)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(gl, 2))
}

func TestListAddFlattensNestedList(t *testing.T) {
	var inner List
	inner.Add(Newf(Parse, token.NoPos, "a"))
	inner.Add(Newf(Parse, token.NoPos, "b"))

	var outer List
	outer.AddNewf(Parse, token.NoPos, "zero")
	outer.Add(inner.Err())
	qt.Assert(t, qt.HasLen(outer, 3))
}

func TestListAddNil(t *testing.T) {
	var l List
	l.Add(nil)
	qt.Assert(t, qt.HasLen(l, 0))
}

func TestKindString(t *testing.T) {
	qt.Assert(t, qt.Equals(Duplicate.String(), "duplicate definition"))
	qt.Assert(t, qt.Equals(Kind(99).String(), "error"))
}

func TestSortOrdersByPositionThenPath(t *testing.T) {
	fset := token.NewFileSet()
	f := fset.AddFile("a.pg", 100)

	e1 := NewfPath(Unresolved, f.Pos(10), []string{"b"}, "e1")
	e2 := NewfPath(Unresolved, f.Pos(5), []string{"a"}, "e2")
	e3 := Newf(Unresolved, token.NoPos, "e3")

	l := List{e1, e2, e3}
	l.Sort()

	qt.Assert(t, qt.Equals(l[0], e3))
	qt.Assert(t, qt.Equals(l[1], e2))
	qt.Assert(t, qt.Equals(l[2], e1))
}

func TestAppend(t *testing.T) {
	e1 := Newf(Parse, token.NoPos, "one")
	e2 := Newf(Parse, token.NoPos, "two")

	got := Append(nil, e1)
	qt.Assert(t, qt.Equals(got, e1))

	got = Append(got, e2)
	gl, ok := got.(List)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(gl, 2))

	got = Append(got, nil)
	qt.Assert(t, qt.HasLen(got.(List), 2))
}

func TestOfFiltersByKind(t *testing.T) {
	l := List{
		Newf(Warning, token.NoPos, "w"),
		Newf(Type, token.NoPos, "t"),
	}
	only := Of(l.Err(), Warning)
	qt.Assert(t, qt.HasLen(only, 1))
	qt.Assert(t, qt.Equals(only[0].Kind(), Warning))

	all := Of(l.Err())
	qt.Assert(t, qt.HasLen(all, 2))

	qt.Assert(t, qt.IsNil(Of(nil)))
}
