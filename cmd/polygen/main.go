// Command polygen reads one or more source URLs, runs them through
// the compiler's full C1-C9 pipeline, and writes each registered
// backend's output to its configured directory.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jai2033shankar/polygen/compiler"
	"github.com/jai2033shankar/polygen/internal/langparser"
	"github.com/jai2033shankar/polygen/target"
	"github.com/jai2033shankar/polygen/target/gostyle"
	"github.com/jai2033shankar/polygen/target/javastyle"
	"github.com/jai2033shankar/polygen/target/pythonstyle"
	"github.com/jai2033shankar/polygen/target/rubystyle"
	"github.com/jai2033shankar/polygen/token"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var emitFlags []string
	var configPath string

	cmd := &cobra.Command{
		Use:   "polygen <source-url>...",
		Short: "Compile polygen sources and emit target-language bindings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args, emitFlags, configPath)
		},
	}
	addEmitFlags(cmd.Flags(), &emitFlags, &configPath)
	return cmd
}

// addEmitFlags registers this command's flags directly against a
// *pflag.FlagSet, the way the teacher's own addGlobalFlags/addOutFlags
// helpers do, rather than going through cobra's StringVar wrappers.
func addEmitFlags(f *pflag.FlagSet, emit *[]string, config *string) {
	f.StringArrayVar(emit, "emit", nil, "backend=dir pair, repeatable (e.g. --emit java=out/java)")
	f.StringVar(config, "config", "", "path to a polygen.yaml listing emitters")
}

func run(sources, emitFlags []string, configPath string) error {
	emitters, err := resolveEmitters(emitFlags, configPath)
	if err != nil {
		return err
	}

	fset := token.NewFileSet()
	parser := langparser.New(fset)
	reader := newFileReader()
	driver := compiler.New(parser, reader, compiler.DefaultBackend{})

	for _, e := range emitters {
		driver.Emit(e.name, e.policy, e.dir)
	}

	for _, src := range sources {
		if _, err := driver.URLParse(src, 0); err != nil {
			return fmt.Errorf("parsing %s: %w", src, err)
		}
	}

	return driver.Compile()
}

type resolvedEmitter struct {
	name   string
	policy target.Policy
	dir    string
}

func resolveEmitters(emitFlags []string, configPath string) ([]resolvedEmitter, error) {
	var specs []compiler.EmitterConfig
	for _, f := range emitFlags {
		backend, dir, ok := splitPair(f)
		if !ok {
			return nil, fmt.Errorf("invalid --emit value %q, want backend=dir", f)
		}
		specs = append(specs, compiler.EmitterConfig{Backend: backend, Dir: dir})
	}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg, err := compiler.LoadConfig(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", configPath, err)
		}
		specs = append(specs, cfg.Emitters...)
	}

	out := make([]resolvedEmitter, 0, len(specs))
	for _, s := range specs {
		policy, err := backendPolicy(s.Backend)
		if err != nil {
			return nil, err
		}
		out = append(out, resolvedEmitter{name: s.Backend, policy: policy, dir: s.Dir})
	}
	return out, nil
}

func backendPolicy(name string) (target.Policy, error) {
	switch name {
	case "java":
		return javastyle.New()
	case "python":
		return pythonstyle.New()
	case "ruby":
		return rubystyle.New()
	case "go":
		return gostyle.New()
	default:
		return nil, fmt.Errorf("unknown backend %q (want java, python, ruby, or go)", name)
	}
}

func splitPair(s string) (key, value string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}
