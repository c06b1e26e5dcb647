// Command import converts a Mermaid or D2 schema into a laid out erd
// diagram document.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"erd/diagram"
	"erd/importer"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		inputFile = fs.String("i", "", "Input file path")
		format    = fs.String("f", "", "Format (mermaid, d2) - auto-detect if not specified")
		output    = fs.String("o", "", "Output file path (default: stdout)")
	)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *inputFile == "" {
		fmt.Fprintf(stderr, "Error: input file required (-i)\n")
		fs.Usage()
		return errUsage
	}

	content, err := os.ReadFile(*inputFile)
	if err != nil {
		return fmt.Errorf("reading input file: %w", err)
	}

	registry := importer.NewImporterRegistry()
	var doc diagram.Document
	switch {
	case *format != "":
		doc, err = registry.ImportWithFormat(string(content), *format)
	default:
		imp, ok := registry.ForFile(*inputFile)
		if !ok {
			doc, err = registry.Import(string(content))
			break
		}
		doc, err = imp.Import(string(content))
	}
	if err != nil {
		return fmt.Errorf("importing diagram: %w", err)
	}

	// Build once so broken documents are never written.
	d, err := diagram.New(doc)
	if err != nil {
		return err
	}

	if *output != "" {
		if err := d.Save(*output); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "Successfully imported diagram to %s\n", *output)
		return nil
	}

	data, err := json.MarshalIndent(d.Document(), "", "  ")
	if err != nil {
		return fmt.Errorf("converting to JSON: %w", err)
	}
	_, err = fmt.Fprintln(stdout, string(data))
	return err
}
