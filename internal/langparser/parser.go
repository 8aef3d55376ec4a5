package langparser

import (
	"fmt"

	"github.com/jai2033shankar/polygen/ast"
	"github.com/jai2033shankar/polygen/token"
)

// Parser is the fixture implementation of the Parser collaborator
// (§6): parse(text) -> File, rule(name, text) -> Node.
type Parser struct {
	fset *token.FileSet
}

// New returns a Parser that registers every parsed file in fset.
func New(fset *token.FileSet) *Parser {
	return &Parser{fset: fset}
}

// ParseFile implements compiler.Parser / reflector.FileParser.
func (p *Parser) ParseFile(filename, source string) (*ast.File, error) {
	file := p.fset.AddFile(filename, len(source))
	registerLines(file, source)
	toks, err := lex(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	ps := &parseState{toks: toks, file: file}
	f, err := ps.parseFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return f, nil
}

// ParseDecl implements compiler.Parser / rewrite.GrammarParser: it
// reparses a handler's string output under one declaration rule.
func (p *Parser) ParseDecl(rule, text string) (ast.Decl, error) {
	name := fmt.Sprintf("<rewrite:%s>", rule)
	file := p.fset.AddFile(name, len(text))
	registerLines(file, text)
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	ps := &parseState{toks: toks, file: file}
	switch rule {
	case "method", "methodmacro", "constructor", "field":
		return ps.parseClassMember()
	default:
		return ps.parseTopDecl()
	}
}

func registerLines(file *token.File, src string) {
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			file.AddLine(i + 1)
		}
	}
}

// positioner is implemented by every ast.Node via its promoted
// SetPos method; parser code lives outside package ast and so can't
// name its unexported base type to set positions via a literal.
type positioner interface {
	SetPos(start, end token.Pos)
}

func stamp[T positioner](n T, start, end token.Pos) T {
	n.SetPos(start, end)
	return n
}

type parseState struct {
	toks []lexeme
	pos  int
	file *token.File
}

func (s *parseState) cur() lexeme {
	return s.toks[s.pos]
}

func (s *parseState) advance() lexeme {
	t := s.toks[s.pos]
	if s.pos < len(s.toks)-1 {
		s.pos++
	}
	return t
}

func (s *parseState) atEOF() bool { return s.cur().kind == tEOF }

func (s *parseState) atKeyword(kw string) bool {
	t := s.cur()
	return t.kind == tKeyword && t.text == kw
}

func (s *parseState) atPunct(p string) bool {
	t := s.cur()
	return t.kind == tPunct && t.text == p
}

func (s *parseState) eatKeyword(kw string) error {
	if !s.atKeyword(kw) {
		return s.errorf("expected %q, got %q", kw, s.cur().text)
	}
	s.advance()
	return nil
}

func (s *parseState) eatPunct(p string) error {
	if !s.atPunct(p) {
		return s.errorf("expected %q, got %q", p, s.cur().text)
	}
	s.advance()
	return nil
}

func (s *parseState) expectIdent() (string, token.Pos, error) {
	t := s.cur()
	if t.kind != tIdent {
		return "", token.NoPos, s.errorf("expected identifier, got %q", t.text)
	}
	s.advance()
	return t.text, s.posAt(t), nil
}

func (s *parseState) posAt(t lexeme) token.Pos { return offsetToPos(s.file, t.pos) }
func (s *parseState) curPos() token.Pos        { return s.posAt(s.cur()) }

func (s *parseState) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s", s.curPos(), fmt.Sprintf(format, args...))
}

// -- File / top-level -------------------------------------------------

func (s *parseState) parseFile(filename string) (*ast.File, error) {
	start := s.curPos()
	f := &ast.File{Filename: filename, Uses: map[string]*ast.UseDecl{}, Includes: map[string]*ast.IncludeDecl{}}
	for !s.atEOF() {
		switch {
		case s.atKeyword("import"):
			imp, err := s.parseImport()
			if err != nil {
				return nil, err
			}
			f.Imports = append(f.Imports, imp)
		case s.atKeyword("use"):
			use, err := s.parseUse()
			if err != nil {
				return nil, err
			}
			f.Uses[use.URL] = use
			f.Decls = append(f.Decls, use)
		case s.atKeyword("include"):
			inc, err := s.parseInclude()
			if err != nil {
				return nil, err
			}
			f.Includes[inc.URL] = inc
			f.Decls = append(f.Decls, inc)
		default:
			d, err := s.parseTopDecl()
			if err != nil {
				return nil, err
			}
			f.Decls = append(f.Decls, d)
		}
	}
	f.SetPos(start, s.curPos())
	return f, nil
}

func (s *parseState) parseImport() (*ast.ImportDecl, error) {
	start := s.curPos()
	if err := s.eatKeyword("import"); err != nil {
		return nil, err
	}
	var path []string
	name, _, err := s.expectIdent()
	if err != nil {
		return nil, err
	}
	path = append(path, name)
	for s.atPunct(".") {
		s.advance()
		name, _, err := s.expectIdent()
		if err != nil {
			return nil, err
		}
		path = append(path, name)
	}
	alias := ""
	if s.atKeyword("as") {
		s.advance()
		alias, _, err = s.expectIdent()
		if err != nil {
			return nil, err
		}
	}
	if s.atPunct(";") {
		s.advance()
	}
	return stamp(&ast.ImportDecl{Path: path, Alias: alias}, start, s.curPos()), nil
}

func (s *parseState) parseUse() (*ast.UseDecl, error) {
	start := s.curPos()
	if err := s.eatKeyword("use"); err != nil {
		return nil, err
	}
	t := s.cur()
	if t.kind != tString {
		return nil, s.errorf("expected URL string after use")
	}
	s.advance()
	if s.atPunct(";") {
		s.advance()
	}
	return stamp(&ast.UseDecl{URL: t.text}, start, s.curPos()), nil
}

func (s *parseState) parseInclude() (*ast.IncludeDecl, error) {
	start := s.curPos()
	if err := s.eatKeyword("include"); err != nil {
		return nil, err
	}
	t := s.cur()
	if t.kind != tString {
		return nil, s.errorf("expected URL string after include")
	}
	s.advance()
	if s.atPunct(";") {
		s.advance()
	}
	native := len(t.text) < 2 || t.text[len(t.text)-2:] != ".q"
	return stamp(&ast.IncludeDecl{URL: t.text, Native: native}, start, s.curPos()), nil
}

func (s *parseState) parseAnnotations() ([]*ast.Annotation, error) {
	var out []*ast.Annotation
	for s.atPunct("@") {
		start := s.curPos()
		s.advance()
		name, _, err := s.expectIdent()
		if err != nil {
			return nil, err
		}
		var args []ast.Expr
		if s.atPunct("(") {
			s.advance()
			for !s.atPunct(")") {
				e, err := s.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, e)
				if s.atPunct(",") {
					s.advance()
				}
			}
			s.advance()
		}
		out = append(out, stamp(&ast.Annotation{Name: name, Args: args}, start, s.curPos()))
	}
	return out, nil
}

func (s *parseState) parseTopDecl() (ast.Decl, error) {
	anns, err := s.parseAnnotations()
	if err != nil {
		return nil, err
	}
	switch {
	case s.atKeyword("namespace"):
		return s.parsePackage()
	case s.atKeyword("class"):
		return s.parseClass(anns)
	case s.atKeyword("interface"):
		return s.parseInterface(anns)
	case s.atKeyword("primitive"):
		return s.parsePrimitive()
	case s.atKeyword("macro"):
		return s.parseMacro(anns)
	case s.atKeyword("function"):
		s.advance()
		return s.parseFunction(anns)
	default:
		return s.parseFunction(anns)
	}
}

func (s *parseState) parsePackage() (*ast.Package, error) {
	start := s.curPos()
	if err := s.eatKeyword("namespace"); err != nil {
		return nil, err
	}
	name, _, err := s.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := s.eatPunct("{"); err != nil {
		return nil, err
	}
	var decls []ast.Decl
	for !s.atPunct("}") {
		d, err := s.parseTopDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	s.advance()
	return stamp(&ast.Package{Name: name, Decls: decls}, start, s.curPos()), nil
}

func (s *parseState) parseTypeParams() ([]*ast.TypeParam, error) {
	var out []*ast.TypeParam
	if !s.atPunct("<") {
		return nil, nil
	}
	s.advance()
	for !s.atPunct(">") {
		start := s.curPos()
		name, _, err := s.expectIdent()
		if err != nil {
			return nil, err
		}
		out = append(out, stamp(&ast.TypeParam{Name: name}, start, s.curPos()))
		if s.atPunct(",") {
			s.advance()
		}
	}
	s.advance()
	return out, nil
}

func (s *parseState) parseBases() ([]*ast.TypeRef, error) {
	var out []*ast.TypeRef
	if !s.atKeyword("extends") && !s.atKeyword("implements") {
		return nil, nil
	}
	s.advance()
	for {
		tr, err := s.parseTypeRef()
		if err != nil {
			return nil, err
		}
		out = append(out, tr)
		if s.atPunct(",") {
			s.advance()
			continue
		}
		break
	}
	return out, nil
}

func (s *parseState) parseTypeRef() (*ast.TypeRef, error) {
	start := s.curPos()
	var path []string
	name, _, err := s.expectIdent()
	if err != nil {
		return nil, err
	}
	path = append(path, name)
	for s.atPunct(".") {
		s.advance()
		name, _, err := s.expectIdent()
		if err != nil {
			return nil, err
		}
		path = append(path, name)
	}
	var args []*ast.TypeRef
	if s.atPunct("<") {
		s.advance()
		for !s.atPunct(">") {
			a, err := s.parseTypeRef()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if s.atPunct(",") {
				s.advance()
			}
		}
		s.advance()
	}
	return stamp(&ast.TypeRef{Path: path, Args: args}, start, s.curPos()), nil
}

func (s *parseState) parseClass(anns []*ast.Annotation) (*ast.ClassDecl, error) {
	start := s.curPos()
	if err := s.eatKeyword("class"); err != nil {
		return nil, err
	}
	name, _, err := s.expectIdent()
	if err != nil {
		return nil, err
	}
	tparams, err := s.parseTypeParams()
	if err != nil {
		return nil, err
	}
	bases, err := s.parseBases()
	if err != nil {
		return nil, err
	}
	if err := s.eatPunct("{"); err != nil {
		return nil, err
	}
	var decls []ast.Decl
	for !s.atPunct("}") {
		d, err := s.parseClassMember()
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	s.advance()
	cd := &ast.ClassDecl{
		Annotatable: ast.Annotatable{Annotations: anns},
		Name:        name, TypeParams: tparams, Bases: bases, Decls: decls,
	}
	return stamp(cd, start, s.curPos()), nil
}

func (s *parseState) parseInterface(anns []*ast.Annotation) (*ast.InterfaceDecl, error) {
	start := s.curPos()
	if err := s.eatKeyword("interface"); err != nil {
		return nil, err
	}
	name, _, err := s.expectIdent()
	if err != nil {
		return nil, err
	}
	tparams, err := s.parseTypeParams()
	if err != nil {
		return nil, err
	}
	bases, err := s.parseBases()
	if err != nil {
		return nil, err
	}
	if err := s.eatPunct("{"); err != nil {
		return nil, err
	}
	var decls []ast.Decl
	for !s.atPunct("}") {
		d, err := s.parseClassMember()
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	s.advance()
	id := &ast.InterfaceDecl{
		Annotatable: ast.Annotatable{Annotations: anns},
		Name:        name, TypeParams: tparams, Bases: bases, Decls: decls,
	}
	return stamp(id, start, s.curPos()), nil
}

func (s *parseState) parsePrimitive() (*ast.PrimitiveDecl, error) {
	start := s.curPos()
	if err := s.eatKeyword("primitive"); err != nil {
		return nil, err
	}
	name, _, err := s.expectIdent()
	if err != nil {
		return nil, err
	}
	if s.atPunct(";") {
		s.advance()
	}
	return stamp(&ast.PrimitiveDecl{Name: name}, start, s.curPos()), nil
}

// parseClassMember parses one member inside a class/interface body:
// a field, constructor, method, or method-macro.
func (s *parseState) parseClassMember() (ast.Decl, error) {
	anns, err := s.parseAnnotations()
	if err != nil {
		return nil, err
	}
	switch {
	case s.atKeyword("constructor"):
		return s.parseConstructor(anns)
	case s.atKeyword("macro"):
		return s.parseMethodMacro(anns)
	default:
		return s.parseFieldOrMethod(anns)
	}
}

func (s *parseState) parseParams() ([]*ast.Param, error) {
	if err := s.eatPunct("("); err != nil {
		return nil, err
	}
	var out []*ast.Param
	for !s.atPunct(")") {
		start := s.curPos()
		tr, err := s.parseTypeRef()
		if err != nil {
			return nil, err
		}
		name, _, err := s.expectIdent()
		if err != nil {
			return nil, err
		}
		out = append(out, stamp(&ast.Param{Name: name, Type: tr}, start, s.curPos()))
		if s.atPunct(",") {
			s.advance()
		}
	}
	s.advance()
	return out, nil
}

func (s *parseState) parseConstructor(anns []*ast.Annotation) (*ast.ConstructorDecl, error) {
	start := s.curPos()
	if err := s.eatKeyword("constructor"); err != nil {
		return nil, err
	}
	params, err := s.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := s.parseBlock()
	if err != nil {
		return nil, err
	}
	cd := &ast.ConstructorDecl{
		Annotatable:  ast.Annotatable{Annotations: anns},
		CallableInfo: ast.CallableInfo{Params: params, Body: body},
	}
	return stamp(cd, start, s.curPos()), nil
}

func (s *parseState) parseMethodMacro(anns []*ast.Annotation) (*ast.MethodMacroDecl, error) {
	start := s.curPos()
	if err := s.eatKeyword("macro"); err != nil {
		return nil, err
	}
	name, _, err := s.expectIdent()
	if err != nil {
		return nil, err
	}
	params, err := s.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := s.parseOptionalBlock()
	if err != nil {
		return nil, err
	}
	md := &ast.MethodMacroDecl{
		Annotatable:  ast.Annotatable{Annotations: anns},
		Name:         name,
		CallableInfo: ast.CallableInfo{Params: params, Body: body},
	}
	return stamp(md, start, s.curPos()), nil
}

func (s *parseState) parseMacro(anns []*ast.Annotation) (*ast.MacroDecl, error) {
	start := s.curPos()
	if err := s.eatKeyword("macro"); err != nil {
		return nil, err
	}
	name, _, err := s.expectIdent()
	if err != nil {
		return nil, err
	}
	params, err := s.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := s.parseOptionalBlock()
	if err != nil {
		return nil, err
	}
	md := &ast.MacroDecl{
		Annotatable:  ast.Annotatable{Annotations: anns},
		Name:         name,
		CallableInfo: ast.CallableInfo{Params: params, Body: body},
	}
	return stamp(md, start, s.curPos()), nil
}

// parseFieldOrMethod disambiguates a field from a method/function: both
// start with a return/field type (or `void`) followed by a name; a
// method's name is followed by `(`.
func (s *parseState) parseFieldOrMethod(anns []*ast.Annotation) (ast.Decl, error) {
	start := s.curPos()
	var ret *ast.TypeRef
	if s.atKeyword("void") {
		s.advance()
	} else {
		tr, err := s.parseTypeRef()
		if err != nil {
			return nil, err
		}
		ret = tr
	}
	name, _, err := s.expectIdent()
	if err != nil {
		return nil, err
	}
	if s.atPunct("(") {
		params, err := s.parseParams()
		if err != nil {
			return nil, err
		}
		body, err := s.parseOptionalBlock()
		if err != nil {
			return nil, err
		}
		md := &ast.MethodDecl{
			Annotatable:  ast.Annotatable{Annotations: anns},
			Name:         name,
			CallableInfo: ast.CallableInfo{Params: params, ReturnType: ret, Body: body},
		}
		return stamp(md, start, s.curPos()), nil
	}

	var init ast.Expr
	if s.atPunct("=") {
		s.advance()
		e, err := s.parseExpr()
		if err != nil {
			return nil, err
		}
		init = e
	}
	if s.atPunct(";") {
		s.advance()
	}
	fd := &ast.FieldDecl{
		Annotatable: ast.Annotatable{Annotations: anns},
		Name:        name, Type: ret, Init: init,
	}
	return stamp(fd, start, s.curPos()), nil
}

// parseFunction parses a top-level function: same shape as a method
// but never anonymous to a class.
func (s *parseState) parseFunction(anns []*ast.Annotation) (*ast.FunctionDecl, error) {
	start := s.curPos()
	var ret *ast.TypeRef
	if s.atKeyword("void") {
		s.advance()
	} else {
		tr, err := s.parseTypeRef()
		if err != nil {
			return nil, err
		}
		ret = tr
	}
	name, _, err := s.expectIdent()
	if err != nil {
		return nil, err
	}
	params, err := s.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := s.parseOptionalBlock()
	if err != nil {
		return nil, err
	}
	fd := &ast.FunctionDecl{
		Annotatable:  ast.Annotatable{Annotations: anns},
		Name:         name,
		CallableInfo: ast.CallableInfo{Params: params, ReturnType: ret, Body: body},
	}
	return stamp(fd, start, s.curPos()), nil
}

func (s *parseState) parseOptionalBlock() (*ast.BlockStmt, error) {
	if s.atPunct(";") {
		s.advance()
		return nil, nil
	}
	return s.parseBlock()
}

// -- Statements -------------------------------------------------------

func (s *parseState) parseBlock() (*ast.BlockStmt, error) {
	start := s.curPos()
	if err := s.eatPunct("{"); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for !s.atPunct("}") {
		st, err := s.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	s.advance()
	return stamp(&ast.BlockStmt{Stmts: stmts}, start, s.curPos()), nil
}

func (s *parseState) parseStmt() (ast.Stmt, error) {
	start := s.curPos()
	switch {
	case s.atKeyword("var"):
		s.advance()
		var tr *ast.TypeRef
		// `var name = expr;` (inferred) vs `var Type name = expr;`
		savedPos := s.pos
		if !s.isIdentFollowedByAssignOrSemi() {
			t, err := s.parseTypeRef()
			if err != nil {
				s.pos = savedPos
			} else {
				tr = t
			}
		}
		name, _, err := s.expectIdent()
		if err != nil {
			return nil, err
		}
		var init ast.Expr
		if s.atPunct("=") {
			s.advance()
			e, err := s.parseExpr()
			if err != nil {
				return nil, err
			}
			init = e
		}
		if s.atPunct(";") {
			s.advance()
		}
		return stamp(&ast.DeclStmt{Name: name, Type: tr, Init: init}, start, s.curPos()), nil

	case s.atKeyword("if"):
		return s.parseIf()

	case s.atKeyword("while"):
		s.advance()
		if err := s.eatPunct("("); err != nil {
			return nil, err
		}
		cond, err := s.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := s.eatPunct(")"); err != nil {
			return nil, err
		}
		body, err := s.parseBlock()
		if err != nil {
			return nil, err
		}
		return stamp(&ast.WhileStmt{Cond: cond, Body: body}, start, s.curPos()), nil

	case s.atKeyword("break"):
		s.advance()
		if s.atPunct(";") {
			s.advance()
		}
		return stamp(&ast.BreakStmt{}, start, s.curPos()), nil

	case s.atKeyword("continue"):
		s.advance()
		if s.atPunct(";") {
			s.advance()
		}
		return stamp(&ast.ContinueStmt{}, start, s.curPos()), nil

	case s.atKeyword("return"):
		s.advance()
		var val ast.Expr
		if !s.atPunct(";") {
			e, err := s.parseExpr()
			if err != nil {
				return nil, err
			}
			val = e
		}
		if s.atPunct(";") {
			s.advance()
		}
		return stamp(&ast.ReturnStmt{Value: val}, start, s.curPos()), nil

	case s.atPunct("{"):
		return s.parseBlock()

	default:
		e, err := s.parseExpr()
		if err != nil {
			return nil, err
		}
		if s.atPunct("=") {
			s.advance()
			v, err := s.parseExpr()
			if err != nil {
				return nil, err
			}
			if s.atPunct(";") {
				s.advance()
			}
			return stamp(&ast.AssignStmt{Target: e, Value: v}, start, s.curPos()), nil
		}
		if s.atPunct(";") {
			s.advance()
		}
		return stamp(&ast.ExprStmt{X: e}, start, s.curPos()), nil
	}
}

// isIdentFollowedByAssignOrSemi detects the `var name = …;` inferred
// form by lookahead, without consuming tokens.
func (s *parseState) isIdentFollowedByAssignOrSemi() bool {
	if s.cur().kind != tIdent {
		return false
	}
	next := s.toks[s.pos+1]
	return next.kind == tPunct && (next.text == "=" || next.text == ";")
}

func (s *parseState) parseIf() (ast.Stmt, error) {
	start := s.curPos()
	if err := s.eatKeyword("if"); err != nil {
		return nil, err
	}
	if err := s.eatPunct("("); err != nil {
		return nil, err
	}
	cond, err := s.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := s.eatPunct(")"); err != nil {
		return nil, err
	}
	then, err := s.parseBlock()
	if err != nil {
		return nil, err
	}
	var els ast.Stmt
	if s.atKeyword("else") {
		s.advance()
		if s.atKeyword("if") {
			e, err := s.parseIf()
			if err != nil {
				return nil, err
			}
			els = e
		} else {
			e, err := s.parseBlock()
			if err != nil {
				return nil, err
			}
			els = e
		}
	}
	return stamp(&ast.IfStmt{Cond: cond, Then: then, Else: els}, start, s.curPos()), nil
}

// -- Expressions --------------------------------------------------------

func (s *parseState) parseExpr() (ast.Expr, error) {
	e, err := s.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case s.atPunct("."):
			s.advance()
			name, _, err := s.expectIdent()
			if err != nil {
				return nil, err
			}
			e = stamp(&ast.AttrExpr{Recv: e, Name: name}, e.Pos(), s.curPos())

		case s.atPunct("("):
			args, err := s.parseArgs()
			if err != nil {
				return nil, err
			}
			e = stamp(&ast.CallExpr{Fun: e, Args: args}, e.Pos(), s.curPos())

		case s.atKeyword("as"):
			s.advance()
			tr, err := s.parseTypeRef()
			if err != nil {
				return nil, err
			}
			e = stamp(&ast.CastExpr{Type: tr, Value: e}, e.Pos(), s.curPos())

		default:
			return e, nil
		}
	}
}

func (s *parseState) parseArgs() ([]ast.Expr, error) {
	if err := s.eatPunct("("); err != nil {
		return nil, err
	}
	var out []ast.Expr
	for !s.atPunct(")") {
		e, err := s.parseExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if s.atPunct(",") {
			s.advance()
		}
	}
	s.advance()
	return out, nil
}

func (s *parseState) parsePrimary() (ast.Expr, error) {
	start := s.curPos()
	t := s.cur()

	switch {
	case t.kind == tNumber:
		s.advance()
		v, err := parseNumber(t.text)
		if err != nil {
			return nil, s.errorf("invalid number %q: %v", t.text, err)
		}
		return stamp(&ast.NumberLit{Value: v, Raw: t.text}, start, s.curPos()), nil

	case t.kind == tString:
		s.advance()
		return stamp(&ast.StringLit{Value: t.text}, start, s.curPos()), nil

	case s.atKeyword("true"), s.atKeyword("false"):
		s.advance()
		return stamp(&ast.BoolLit{Value: t.text == "true"}, start, s.curPos()), nil

	case s.atKeyword("null"):
		s.advance()
		return stamp(&ast.NullLit{}, start, s.curPos()), nil

	case s.atKeyword("super"):
		s.advance()
		return stamp(&ast.SuperExpr{}, start, s.curPos()), nil

	case s.atKeyword("self"):
		s.advance()
		return stamp(&ast.Ident{Name: "self"}, start, s.curPos()), nil

	case s.atKeyword("new"):
		s.advance()
		tr, err := s.parseTypeRef()
		if err != nil {
			return nil, err
		}
		args, err := s.parseArgs()
		if err != nil {
			return nil, err
		}
		fn := stamp(&ast.TypeRefExpr{Type: tr}, start, s.curPos())
		return stamp(&ast.CallExpr{Fun: fn, Args: args}, start, s.curPos()), nil

	case s.atPunct("("):
		s.advance()
		e, err := s.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := s.eatPunct(")"); err != nil {
			return nil, err
		}
		return e, nil

	case s.atPunct("["):
		s.advance()
		var elems []ast.Expr
		for !s.atPunct("]") {
			e, err := s.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if s.atPunct(",") {
				s.advance()
			}
		}
		s.advance()
		return stamp(&ast.ListLit{Elems: elems}, start, s.curPos()), nil

	case s.atPunct("{"):
		s.advance()
		var entries []*ast.MapEntry
		for !s.atPunct("}") {
			k, err := s.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := s.eatPunct(":"); err != nil {
				return nil, err
			}
			v, err := s.parseExpr()
			if err != nil {
				return nil, err
			}
			entries = append(entries, &ast.MapEntry{Key: k, Value: v})
			if s.atPunct(",") {
				s.advance()
			}
		}
		s.advance()
		return stamp(&ast.MapLit{Entries: entries}, start, s.curPos()), nil

	case t.kind == tIdent:
		s.advance()
		return stamp(&ast.Ident{Name: t.text}, start, s.curPos()), nil

	default:
		return nil, s.errorf("unexpected token %q", t.text)
	}
}
