// Package compiler implements the Compiler Driver (C8): it owns the
// Root, drives a freshly parsed file through C1 (crosswire) and C6
// (annotation rewrite to a fixed point) as it's added, then runs
// C2->C3->C4->C5 over the whole Root, re-enters C1->C5 for whatever
// C7 (Reflector) produces, and finally hands the compiled Root to
// every registered backend. Each pass boundary collects its own
// errors.List and raises one aggregated error if it's non-empty,
// abandoning the compilation unit rather than continuing on a
// partially-resolved tree (§4.8, §5).
package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jai2033shankar/polygen/ast"
	"github.com/jai2033shankar/polygen/errors"
	"github.com/jai2033shankar/polygen/internal/annotate"
	"github.com/jai2033shankar/polygen/internal/builtin"
	"github.com/jai2033shankar/polygen/internal/define"
	"github.com/jai2033shankar/polygen/internal/reflector"
	"github.com/jai2033shankar/polygen/internal/resolve"
	"github.com/jai2033shankar/polygen/internal/rewrite"
	"github.com/jai2033shankar/polygen/internal/structural"
	"github.com/jai2033shankar/polygen/internal/typecheck"
	"github.com/jai2033shankar/polygen/target"
	"github.com/jai2033shankar/polygen/types"
)

// Parser is the collaborator contract from §6: a complete source unit
// and a single declaration fragment (for C6's reparse path).
type Parser interface {
	ParseFile(filename, source string) (*ast.File, error)
	ParseDecl(rule, text string) (ast.Decl, error)
}

// URLReader fetches the text behind a `use`/`include` URL.
type URLReader interface {
	Read(url string) (string, error)
}

// Emitter is one registered backend: a naming policy paired with the
// directory its files should be written under.
type Emitter struct {
	Name   string
	Policy target.Policy
	Dir    string
}

// Backend is the collaborator §6 names: given the compiled Root and
// its own Target Name Model, it visits every definition and writes
// text into the model's buffers. Driver.Compile calls Visit once per
// registered Emitter before collecting Files().
type Backend interface {
	Visit(root *ast.Root, model *target.Model) error
}

// Driver is one compilation: the Root it accumulates files into, the
// registered Parser/URLReader collaborators, the rewrite handler
// registry, and the set of registered output emitters.
type Driver struct {
	Parser Parser
	Reader URLReader
	Rewrite *rewrite.Registry
	Backend Backend

	root     *ast.Root
	builtin  *builtin.Set
	world    *types.World
	emitters []Emitter
}

// New returns a Driver ready to parse its first file. backend visits
// the compiled Root for every registered Emitter; a nil backend is
// valid for drivers that only exercise C1-C7 (e.g. most tests).
func New(parser Parser, reader URLReader, backend Backend) *Driver {
	return &Driver{
		Parser:  parser,
		Reader:  reader,
		Rewrite: rewrite.NewRegistry(),
		Backend: backend,
		root:    ast.NewRoot(),
	}
}

// Root returns the driver's accumulated program, valid once the first
// Parse call has returned.
func (d *Driver) Root() *ast.Root { return d.root }

// Emit registers a backend naming policy with its output location
// (§4.8's `emitter(backend, target)`).
func (d *Driver) Emit(name string, policy target.Policy, dir string) {
	d.emitters = append(d.emitters, Emitter{Name: name, Policy: policy, Dir: dir})
}

const builtinImport = "builtin"

// Parse implements §4.8's `parse(name, text)`: parse, silently import
// the builtin package (and, for the very first file, materialize it),
// crosswire, rewrite annotations to a fixed point, and add the result
// to Root.
func (d *Driver) Parse(name, text string) (*ast.File, error) {
	if d.builtin == nil {
		bset, berr := builtin.New(d.root)
		if berr != nil {
			return nil, fmt.Errorf("constructing builtin package: %w", berr)
		}
		d.builtin = bset
		d.world = &types.World{Object: bset.ObjectDecl, Void: bset.VoidDecl}
	}

	f, err := d.Parser.ParseFile(name, text)
	if err != nil {
		return nil, err
	}
	f.Imports = append([]*ast.ImportDecl{{Path: []string{builtinImport}}}, f.Imports...)
	// Files already parsed, not counting the builtin file at index 0.
	depth := len(d.root.Files) - 1
	d.root.Files = append(d.root.Files, f)
	f.Depth = depth
	annotate.File(d.root, f, depth)

	errs := &errors.List{}
	rewrite.Run(d.root, d.Rewrite, d.Parser, errs)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return f, nil
}

// URLParse implements §4.8's `url_parse(url, depth)`: fetch, parse,
// and recurse into every `use` (depth+1, a compilation dependency)
// and language `include` (same depth); native includes are stored
// verbatim on Root but only at depth 0, per §4.8's boundary rule.
func (d *Driver) URLParse(url string, depth int) (*ast.File, error) {
	if d.root.Parsed[url] {
		return nil, nil
	}
	d.root.Parsed[url] = true

	text, err := d.Reader.Read(url)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	f, err := d.Parse(url, text)
	if err != nil {
		return nil, err
	}
	f.Depth = depth

	for u := range f.Uses {
		if _, err := d.URLParse(u, depth+1); err != nil {
			return nil, err
		}
	}
	for u, inc := range f.Includes {
		if inc.Native {
			if depth == 0 {
				payload, err := d.Reader.Read(u)
				if err != nil {
					return nil, fmt.Errorf("reading native include %s: %w", u, err)
				}
				d.root.Includes[u] = []byte(payload)
			}
			continue
		}
		if _, err := d.URLParse(u, depth); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Compile implements §4.8's `compile()`: run C2->C3->C4->C5 over the
// accumulated Root, run C7 and re-enter C1-C5 for whatever it
// produces, then hand the result to every registered emitter.
func (d *Driver) Compile() error {
	if d.world == nil {
		return fmt.Errorf("compile: no file was ever parsed")
	}

	if err := define.Run(d.root); err != nil {
		return err
	}

	errs := &errors.List{}
	resolve.Run(d.root, d.builtin, errs)
	if err := errs.Err(); err != nil {
		return err
	}

	errs = &errors.List{}
	typecheck.Run(d.root, d.world, errs)
	if err := errs.Err(); err != nil {
		return err
	}

	errs = &errors.List{}
	structural.Run(d.root, d.world, errs)
	if err := errs.Err(); err != nil {
		return err
	}

	reflectErrs := &errors.List{}
	produced := reflector.Run(d.root, d.Parser, reflectErrs)
	if err := reflectErrs.Err(); err != nil {
		return err
	}
	if len(produced) > 0 {
		for _, f := range d.root.Files {
			annotate.File(d.root, f, f.Depth)
		}
		if err := define.Run(d.root); err != nil {
			return err
		}
		errs = &errors.List{}
		resolve.Run(d.root, d.builtin, errs)
		if err := errs.Err(); err != nil {
			return err
		}
		errs = &errors.List{}
		typecheck.Run(d.root, d.world, errs)
		if err := errs.Err(); err != nil {
			return err
		}
		errs = &errors.List{}
		structural.Run(d.root, d.world, errs)
		if err := errs.Err(); err != nil {
			return err
		}
	}

	if d.Backend == nil {
		return nil
	}
	for _, e := range d.emitters {
		model := target.NewModel(e.Policy)
		if err := d.Backend.Visit(d.root, model); err != nil {
			return fmt.Errorf("emitter %s: %w", e.Name, err)
		}
		if err := writeFiles(e.Dir, model.Files()); err != nil {
			return fmt.Errorf("emitter %s: %w", e.Name, err)
		}
	}
	return nil
}

// writeFiles materializes a backend's finished file buffers under
// dir, creating parent directories as needed.
func writeFiles(dir string, files map[string]string) error {
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}
