package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Octavi-Broken-Lab/android-system-tools-hidl/internal/annotations"
	"github.com/Octavi-Broken-Lab/android-system-tools-hidl/internal/diagnostics"
	"github.com/Octavi-Broken-Lab/android-system-tools-hidl/internal/formatter"
	"github.com/Octavi-Broken-Lab/android-system-tools-hidl/internal/parser"
)

func main() {
	var (
		exprFlag       = flag.String("e", "", "Process an annotation fragment given on the command line")
		verboseFlag    = flag.Bool("verbose", false, "Enable verbose output")
		quietFlag      = flag.Bool("quiet", false, "Only show errors")
		skipSchemaFlag = flag.Bool("skip-schema", false, "Skip schema validation of known annotations")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [files...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Parses IDL annotation fragments, evaluates constant expressions,\n")
		fmt.Fprintf(os.Stderr, "validates against the built-in annotation schemas, and prints the\n")
		fmt.Fprintf(os.Stderr, "canonical form of each annotation.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -e '@callflow(next={\"open\", \"close\"})'\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -e '@export(name=\"Flags\", value_prefix=\"FLAG_\")'\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s annotations.txt      # one or more fragments per file\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -                    # read from stdin\n", os.Args[0])
	}

	flag.Parse()

	var diag *diagnostics.Diagnostics
	switch {
	case *quietFlag:
		diag = diagnostics.NewQuiet()
	case *verboseFlag:
		diag = diagnostics.NewVerbose()
	default:
		diag = diagnostics.New(diagnostics.Info)
	}

	diag.Section("hidl-annotate")

	p := parser.New()
	var reg annotations.Registry
	if !*skipSchemaFlag {
		reg = annotations.DefaultRegistry()
	}

	failed := false

	if *exprFlag != "" {
		if err := process(p, reg, diag, os.Stdout, "<arg>", *exprFlag); err != nil {
			diag.Error("%v", err)
			failed = true
		}
	} else {
		args := flag.Args()
		if len(args) == 0 {
			flag.Usage()
			os.Exit(1)
		}
		for _, path := range args {
			input, name, err := readInput(path)
			if err != nil {
				diag.Error("reading %s: %v", path, err)
				failed = true
				continue
			}
			if err := process(p, reg, diag, os.Stdout, name, input); err != nil {
				diag.Error("%v", err)
				failed = true
			}
		}
	}

	if failed {
		os.Exit(1)
	}
	diag.Success("all annotations processed")
}

func readInput(path string) (content, name string, err error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), "<stdin>", err
	}
	data, err := os.ReadFile(path)
	return string(data), path, err
}

// process runs the full driver sequence over one input: parse, then
// per annotation evaluate, validate, schema-check, dump. Failures in
// one annotation do not stop the others; the first error is returned
// so the exit code reflects it.
func process(p *parser.Parser, reg annotations.Registry, diag *diagnostics.Diagnostics, w io.Writer, name, input string) error {
	if strings.TrimSpace(input) == "" {
		return nil
	}

	parsed, err := p.Parse(name, input)
	if err != nil {
		return err
	}
	diag.Verbose("parsed %d annotation(s) from %s", len(parsed), name)

	var firstErr error
	for _, item := range parsed {
		a := item.Annotation

		if err := a.Evaluate(); err != nil {
			diag.Error("%s: @%s: %v", item.Loc, a.Name(), err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := a.Validate(); err != nil {
			diag.Error("%s: @%s: %v", item.Loc, a.Name(), err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if reg != nil {
			if !reg.IsRegistered(a.Name()) {
				diag.Warn("%s: @%s has no registered schema, skipping schema validation", item.Loc, a.Name())
			}
			if err := annotations.ValidateAgainstSchema(a, item.Loc, reg); err != nil {
				diag.Error("%v", err)
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			diag.Verbose("@%s passed schema validation", a.Name())
		}

		out := formatter.New(w)
		a.Dump(out)
		out.Newline()
		if err := out.Err(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
