package langparser

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestLexIdentifiersAndKeywords(t *testing.T) {
	toks, err := lex("class Foo extends Bar")
	qt.Assert(t, qt.IsNil(err))

	var kinds []tokenKind
	var texts []string
	for _, tk := range toks {
		kinds = append(kinds, tk.kind)
		texts = append(texts, tk.text)
	}
	qt.Assert(t, qt.DeepEquals(texts, []string{"class", "Foo", "extends", "Bar", ""}))
	qt.Assert(t, qt.DeepEquals(kinds, []tokenKind{tKeyword, tIdent, tKeyword, tIdent, tEOF}))
}

func TestLexNumber(t *testing.T) {
	toks, err := lex("3.14")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(toks[0].kind, tNumber))
	qt.Assert(t, qt.Equals(toks[0].text, "3.14"))
}

func TestLexStringWithEscape(t *testing.T) {
	toks, err := lex(`"a\"b"`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(toks[0].kind, tString))
	qt.Assert(t, qt.Equals(toks[0].text, `a"b`))
}

func TestLexUnterminatedStringIsError(t *testing.T) {
	_, err := lex(`"abc`)
	qt.Assert(t, qt.Not(qt.IsNil(err)))
}

func TestLexUnexpectedCharacterIsError(t *testing.T) {
	_, err := lex("#")
	qt.Assert(t, qt.Not(qt.IsNil(err)))
}

func TestLexSkipsLineComments(t *testing.T) {
	toks, err := lex("foo // a comment\nbar")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(toks[0].text, "foo"))
	qt.Assert(t, qt.Equals(toks[1].text, "bar"))
}

func TestLexMultiCharPunct(t *testing.T) {
	toks, err := lex("== != <= >= =")
	qt.Assert(t, qt.IsNil(err))
	var texts []string
	for _, tk := range toks {
		if tk.kind != tEOF {
			texts = append(texts, tk.text)
		}
	}
	qt.Assert(t, qt.DeepEquals(texts, []string{"==", "!=", "<=", ">=", "="}))
}
