// Package reflector implements the Reflector (C7): it walks the fully
// resolved program looking for classes that opted in to reflection
// (an `@reflect` annotation), appends getter/setter methods for any
// field that doesn't already have one, and synthesizes source text for
// a companion metadata class exposing field/method name accessors.
// Classes can't be reopened (duplicate definition), so the accessors
// are spliced directly into the class's own Decls; only the wholly new
// metadata class goes through the text/parse round-trip and the
// driver's re-entry into C1-C5 (§3's "C7 creates a synthetic file ...
// it must obey the same invariants").
package reflector

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jai2033shankar/polygen/ast"
	"github.com/jai2033shankar/polygen/errors"
)

// FileParser parses a complete synthesized source unit into a File,
// the same collaborator the Compiler Driver uses for user source.
type FileParser interface {
	ParseFile(filename, source string) (*ast.File, error)
}

const reflectAnnotation = "reflect"

// Run scans every class in root for the reflect annotation, mutates
// matched classes in place with generated accessors, and returns one
// new metadata *ast.File per match (already appended to root.Files).
// Callers owe every file in root a fresh crosswire and a full C2-C5
// re-run afterward — both the mutated classes and the new files.
func Run(root *ast.Root, parser FileParser, errs *errors.List) []*ast.File {
	var produced []*ast.File
	for _, f := range root.Files {
		ast.Inspect(f, func(n ast.Node) bool {
			class, ok := n.(*ast.ClassDecl)
			if !ok || !class.HasAnnotation(reflectAnnotation) {
				return true
			}
			for _, field := range class.Fields() {
				class.Decls = append(class.Decls, buildAccessors(class, field)...)
			}

			name := fmt.Sprintf("<reflect:%s:%s>", class.Name, uuid.NewString())
			nf, err := parser.ParseFile(name, synthesizeMetadata(class))
			if err != nil {
				errs.AddNewf(errors.Parse, class.Pos(), "synthesizing reflection metadata for %s: %v", class.Name, err)
				return true
			}
			nf.Filename = name
			root.Files = append(root.Files, nf)
			produced = append(produced, nf)
			return true
		})
	}
	return produced
}

// buildAccessors returns a get<Field>/set<Field> MethodDecl pair for
// field, skipping either one the class already declares by hand.
func buildAccessors(class *ast.ClassDecl, field *ast.FieldDecl) []ast.Decl {
	var out []ast.Decl

	getterName := "get" + capitalize(field.Name)
	if !hasMethod(class, getterName) {
		out = append(out, &ast.MethodDecl{
			Name: getterName,
			CallableInfo: ast.CallableInfo{
				ReturnType: cloneTypeRef(field.Type),
				Body: &ast.BlockStmt{Stmts: []ast.Stmt{
					&ast.ReturnStmt{Value: &ast.AttrExpr{Recv: &ast.Ident{Name: "self"}, Name: field.Name}},
				}},
			},
		})
	}

	setterName := "set" + capitalize(field.Name)
	if !hasMethod(class, setterName) {
		out = append(out, &ast.MethodDecl{
			Name: setterName,
			CallableInfo: ast.CallableInfo{
				Params: []*ast.Param{{Name: "value", Type: cloneTypeRef(field.Type)}},
				Body: &ast.BlockStmt{Stmts: []ast.Stmt{
					&ast.AssignStmt{
						Target: &ast.AttrExpr{Recv: &ast.Ident{Name: "self"}, Name: field.Name},
						Value:  &ast.Ident{Name: "value"},
					},
				}},
			},
		})
	}

	return out
}

// synthesizeMetadata builds the metadata class's source: zero-arg
// fieldNames()/methodNames() methods returning List<String> literals.
func synthesizeMetadata(class *ast.ClassDecl) string {
	var b strings.Builder
	fmt.Fprintf(&b, "class %sMetadata {\n", class.Name)
	fmt.Fprintf(&b, "  List<String> fieldNames() { return %s; }\n", stringListLiteral(fieldNames(class)))
	fmt.Fprintf(&b, "  List<String> methodNames() { return %s; }\n", stringListLiteral(methodNames(class)))
	b.WriteString("}\n")
	return b.String()
}

func fieldNames(class *ast.ClassDecl) []string {
	var out []string
	for _, f := range class.Fields() {
		out = append(out, f.Name)
	}
	return out
}

func methodNames(class *ast.ClassDecl) []string {
	var out []string
	for _, d := range class.Decls {
		if m, ok := d.(*ast.MethodDecl); ok {
			out = append(out, m.Name)
		}
	}
	return out
}

func hasMethod(class *ast.ClassDecl, name string) bool {
	for _, d := range class.Decls {
		if m, ok := d.(*ast.MethodDecl); ok && m.Name == name {
			return true
		}
	}
	return false
}

func cloneTypeRef(tr *ast.TypeRef) *ast.TypeRef {
	if tr == nil {
		return nil
	}
	args := make([]*ast.TypeRef, len(tr.Args))
	for i, a := range tr.Args {
		args[i] = cloneTypeRef(a)
	}
	return &ast.TypeRef{Path: append([]string(nil), tr.Path...), Args: args}
}

func stringListLiteral(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
