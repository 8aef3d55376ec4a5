// Package errors defines the diagnostic types shared by every pass of
// the compiler. Passes never fail fast: they collect into a List and
// the driver raises the aggregate at the end of a pass (see compiler).
package errors

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/jai2033shankar/polygen/token"
)

// Kind classifies a diagnostic per the error taxonomy.
type Kind int

const (
	// Parse is a surface-syntax failure reported by the Parser collaborator.
	Parse Kind = iota
	// Duplicate is a duplicate definition in one environment.
	Duplicate
	// Unresolved is a name with no binding after the use pass.
	Unresolved
	// Type is an arity/assignability/attribute/super error.
	Type
	// Structural is a field-shadowing/missing-super/misplaced-super error.
	Structural
	// IO is a failure to read a URL.
	IO
	// Warning is a non-fatal diagnostic (e.g. a resolved Open Question).
	Warning
)

func (k Kind) String() string {
	switch k {
	case Parse:
		return "parse error"
	case Duplicate:
		return "duplicate definition"
	case Unresolved:
		return "unresolved reference"
	case Type:
		return "type error"
	case Structural:
		return "structural error"
	case IO:
		return "I/O error"
	case Warning:
		return "warning"
	default:
		return "error"
	}
}

// Error is the common diagnostic interface. All passes report through
// this interface so the driver can collect, sort, and print a uniform
// report regardless of which component raised it.
type Error interface {
	error
	// Position returns the primary source location of the error.
	Position() token.Pos
	// Path returns the dotted-id path into the tree, if known.
	Path() []string
	// Kind reports the taxonomy bucket this error belongs to.
	Kind() Kind
	// Msg returns the unformatted message and its arguments.
	Msg() (format string, args []interface{})
}

// New is a convenience wrapper around the standard library's errors.New
// for callers that don't need position information.
func New(msg string) error { return errors.New(msg) }

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain assignable to target.
func As(err error, target interface{}) bool { return errors.As(err, target) }

type posError struct {
	pos    token.Pos
	path   []string
	kind   Kind
	format string
	args   []interface{}
}

func (e *posError) Error() string        { return fmt.Sprintf(e.format, e.args...) }
func (e *posError) Position() token.Pos  { return e.pos }
func (e *posError) Path() []string       { return e.path }
func (e *posError) Kind() Kind           { return e.kind }
func (e *posError) Msg() (string, []interface{}) { return e.format, e.args }

// Newf creates a positional diagnostic of the given kind.
func Newf(kind Kind, p token.Pos, format string, args ...interface{}) Error {
	return &posError{pos: p, kind: kind, format: format, args: args}
}

// NewfPath is like Newf but also records the dotted-id path the error
// occurred under, per the Path() contract of Error.
func NewfPath(kind Kind, p token.Pos, path []string, format string, args ...interface{}) Error {
	return &posError{pos: p, path: path, kind: kind, format: format, args: args}
}

// List is an ordered collection of Errors that itself implements error.
// The zero value is ready to use.
type List []Error

func (p List) Error() string {
	switch len(p) {
	case 0:
		return "no errors"
	case 1:
		return p[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more errors)", p[0].Error(), len(p)-1)
	}
}

// Add appends err to the list, flattening nested Lists.
func (p *List) Add(err Error) {
	if err == nil {
		return
	}
	if l, ok := err.(List); ok {
		*p = append(*p, l...)
		return
	}
	*p = append(*p, err)
}

// AddNewf is a convenience wrapper combining Newf and Add.
func (p *List) AddNewf(kind Kind, pos token.Pos, format string, args ...interface{}) {
	p.Add(Newf(kind, pos, format, args...))
}

// Err returns nil if the list is empty, the sole element if it holds
// exactly one error, or the list itself otherwise. This is the shape
// every pass should return to its caller.
func (p List) Err() Error {
	switch len(p) {
	case 0:
		return nil
	case 1:
		return p[0]
	default:
		return p
	}
}

// Sort orders the list by position, then path, then message, placing
// entries with no position first.
func (p List) Sort() {
	slices.SortFunc(p, func(a, b Error) int {
		if c := comparePos(a.Position(), b.Position()); c != 0 {
			return c
		}
		if c := slices.Compare(a.Path(), b.Path()); c != 0 {
			return c
		}
		return cmp.Compare(a.Error(), b.Error())
	})
}

func comparePos(a, b token.Pos) int {
	av, bv := a.IsValid(), b.IsValid()
	switch {
	case !av && !bv:
		return 0
	case !av:
		return -1
	case !bv:
		return 1
	}
	pa, pb := a.Position(), b.Position()
	if pa.Filename != pb.Filename {
		return cmp.Compare(pa.Filename, pb.Filename)
	}
	if pa.Line != pb.Line {
		return cmp.Compare(pa.Line, pb.Line)
	}
	return cmp.Compare(pa.Column, pb.Column)
}

// Append combines two errors (either of which may be nil or a List)
// preserving order, the way every pass accumulates its collector.
func Append(a, b Error) Error {
	switch x := a.(type) {
	case nil:
		return b
	case List:
		x.Add(b)
		return x.Err()
	default:
		l := List{x}
		l.Add(b)
		return l.Err()
	}
}

// Of filters err's constituents down to the given kinds. Useful for a
// driver that wants to, say, report Warning-kind diagnostics to a
// logger instead of failing the pass.
func Of(err Error, kinds ...Kind) List {
	var out List
	want := func(k Kind) bool {
		if len(kinds) == 0 {
			return true
		}
		return slices.Contains(kinds, k)
	}
	switch x := err.(type) {
	case nil:
		return nil
	case List:
		for _, e := range x {
			if want(e.Kind()) {
				out.Add(e)
			}
		}
	default:
		if want(x.Kind()) {
			out.Add(x)
		}
	}
	return out
}
