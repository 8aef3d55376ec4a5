// Package rewrite implements the Annotation Rewriter (C6): an ordered
// registry of handlers keyed by annotation name, applied to every
// annotated declaration until no handler fires on the tree. A handler
// yields either replacement source text (re-parsed under the node's
// own grammar rule) or a ready-made replacement node; either way the
// replacement is stamped with a Trace back to the handler and text
// that produced it, and the file is re-crosswired (C1) before the next
// round.
package rewrite

import (
	"fmt"

	"github.com/jai2033shankar/polygen/ast"
	"github.com/jai2033shankar/polygen/errors"
	"github.com/jai2033shankar/polygen/internal/annotate"
)

// GrammarParser re-parses a handler's string output under one of the
// grammar's declaration rules. The Compiler Driver's Parser
// collaborator implements this.
type GrammarParser interface {
	ParseDecl(rule string, text string) (ast.Decl, error)
}

// Output is a handler's verdict: either Text (re-parsed under the
// replaced declaration's grammar rule) or a ready Node, never both.
type Output struct {
	Text string
	Node ast.Decl
}

// Handler inspects node and returns its rewrite, or ok=false if it
// does not apply.
type Handler func(node ast.Decl, ann *ast.Annotation) (Output, bool)

// Registry is the driver's ordered map from annotation name to the
// ordered list of handlers registered for it.
type Registry struct {
	order    []string
	handlers map[string][]Handler
}

// NewRegistry returns an empty registry, pre-seeded with the built-in
// delegate handler (§4.5).
func NewRegistry() *Registry {
	r := &Registry{handlers: map[string][]Handler{}}
	r.Register("delegate", DelegateHandler)
	return r
}

// Register appends h to the ordered list of handlers for name.
func (r *Registry) Register(name string, h Handler) {
	if _, ok := r.handlers[name]; !ok {
		r.order = append(r.order, name)
	}
	r.handlers[name] = append(r.handlers[name], h)
}

func (r *Registry) handlersFor(name string) []Handler {
	return r.handlers[name]
}

// Run applies the registry to every file of root until a full pass
// finds nothing left to rewrite, re-crosswiring (C1) after each
// mutation so ids/envs stay consistent for the next round.
func Run(root *ast.Root, reg *Registry, parser GrammarParser, errs *errors.List) {
	for _, f := range root.Files {
		runFile(root, f, reg, parser, errs)
	}
}

func runFile(root *ast.Root, f *ast.File, reg *Registry, parser GrammarParser, errs *errors.List) {
	for {
		mutated := false
		ast.Inspect(f, func(n ast.Node) bool {
			if mutated {
				return false
			}
			decl, ok := n.(ast.Decl)
			if !ok {
				return true
			}
			anns := annotationsOf(decl)
			if len(anns) == 0 {
				return true
			}
			for _, ann := range anns {
				replacement, ok := tryHandlers(decl, ann, reg, parser, errs)
				if !ok {
					continue
				}
				parent, ok := decl.Info().Parent.(ast.Node)
				if !ok || !replaceInParent(parent, decl, replacement) {
					errs.AddNewf(errors.Structural, decl.Pos(),
						"annotation rewrite on %s produced a replacement with no addressable parent slot", decl.Info().ID)
					continue
				}
				mutated = true
				return false
			}
			return true
		})
		if !mutated {
			return
		}
		annotate.File(root, f, f.Depth)
	}
}

func tryHandlers(decl ast.Decl, ann *ast.Annotation, reg *Registry, parser GrammarParser, errs *errors.List) (ast.Decl, bool) {
	for _, h := range reg.handlersFor(ann.Name) {
		out, applied := h(decl, ann)
		if !applied {
			continue
		}
		if out.Node != nil {
			stampTrace(out.Node, ann.Name, "", decl)
			return out.Node, true
		}
		if parser == nil {
			errs.AddNewf(errors.Structural, decl.Pos(),
				"handler %s produced text but no grammar parser is configured", ann.Name)
			return nil, false
		}
		replacement, err := parser.ParseDecl(grammarRule(decl), out.Text)
		if err != nil {
			errs.AddNewf(errors.Parse, decl.Pos(), "rewriting %s via %s: %v", decl.Info().ID, ann.Name, err)
			return nil, false
		}
		stampTrace(replacement, ann.Name, out.Text, decl)
		return replacement, true
	}
	return nil, false
}

func stampTrace(n ast.Decl, handler, text string, original ast.Decl) {
	n.Info().Trace = &ast.Trace{Handler: handler, Text: text, Prev: original.Info().Trace}
}

// annotationsOf returns the Annotations slice of any Annotatable decl
// kind, or nil.
func annotationsOf(n ast.Decl) []*ast.Annotation {
	switch x := n.(type) {
	case *ast.ClassDecl:
		return x.Annotations
	case *ast.InterfaceDecl:
		return x.Annotations
	case *ast.FunctionDecl:
		return x.Annotations
	case *ast.MethodDecl:
		return x.Annotations
	case *ast.MacroDecl:
		return x.Annotations
	case *ast.MethodMacroDecl:
		return x.Annotations
	case *ast.ConstructorDecl:
		return x.Annotations
	case *ast.FieldDecl:
		return x.Annotations
	default:
		return nil
	}
}

// grammarRule names the declaration rule a handler's text output must
// be re-parsed under, matching the node kind it replaces.
func grammarRule(n ast.Decl) string {
	switch n.(type) {
	case *ast.ClassDecl:
		return "class"
	case *ast.InterfaceDecl:
		return "interface"
	case *ast.FunctionDecl:
		return "function"
	case *ast.MethodDecl:
		return "method"
	case *ast.MacroDecl:
		return "macro"
	case *ast.MethodMacroDecl:
		return "methodmacro"
	case *ast.ConstructorDecl:
		return "constructor"
	case *ast.FieldDecl:
		return "field"
	default:
		return "decl"
	}
}

// replaceInParent finds decl in parent's Decls slice and overwrites it
// with replacement, reporting whether parent owned decl directly.
func replaceInParent(parent ast.Node, decl, replacement ast.Decl) bool {
	var slice *[]ast.Decl
	switch p := parent.(type) {
	case *ast.File:
		slice = &p.Decls
	case *ast.Package:
		slice = &p.Decls
	case *ast.ClassDecl:
		slice = &p.Decls
	case *ast.InterfaceDecl:
		slice = &p.Decls
	default:
		return false
	}
	for i, d := range *slice {
		if d == decl {
			(*slice)[i] = replacement
			return true
		}
	}
	return false
}

// DelegateHandler is the built-in `delegate` handler (§4.5): it turns
// a body-less method or function into a stub that forwards to a named
// helper, passing the callable's own name, its parameters, and the
// annotation's own arguments. A non-void callable's stub returns a
// cast of the helper call to the declared return type; a void
// callable's stub just evaluates the call.
func DelegateHandler(node ast.Decl, ann *ast.Annotation) (Output, bool) {
	if len(ann.Args) == 0 {
		return Output{}, false
	}
	helper, ok := ann.Args[0].(*ast.StringLit)
	if !ok {
		return Output{}, false
	}

	switch x := node.(type) {
	case *ast.FunctionDecl:
		if x.HasBody() {
			return Output{}, false
		}
		return Output{Text: delegateStub("function", x.Name, x.Params, x.ReturnType, helper.Value, ann.Args[1:])}, true
	case *ast.MethodDecl:
		if x.Body != nil {
			return Output{}, false
		}
		return Output{Text: delegateStub("method", x.Name, x.Params, x.ReturnType, helper.Value, ann.Args[1:])}, true
	default:
		return Output{}, false
	}
}

func delegateStub(kind, name string, params []*ast.Param, ret *ast.TypeRef, helper string, extra []ast.Expr) string {
	sig := ""
	for i, p := range params {
		if i > 0 {
			sig += ", "
		}
		sig += p.Name
		if p.Type != nil {
			sig += " " + p.Type.Name()
		}
	}
	args := name
	for _, p := range params {
		args += ", " + p.Name
	}
	for _, e := range extra {
		if s, ok := e.(*ast.StringLit); ok {
			args += fmt.Sprintf(", %q", s.Value)
		}
	}
	call := fmt.Sprintf("%s(%s)", helper, args)
	if ret == nil {
		return fmt.Sprintf("%s %s(%s) { %s; }", kind, name, sig, call)
	}
	return fmt.Sprintf("%s %s %s(%s) { return (%s) %s; }", kind, ret.Name(), name, sig, ret.Name(), call)
}
