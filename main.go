package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"erd/config"
	"erd/diagram"
	"erd/export"
	"erd/importer"
	"erd/routing"
	"erd/terminal"
	"erd/validation"
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

// run parses the command line and executes it, writing exported output to
// stdout and diagnostics to stderr.
func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("erd", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		format      = fs.String("format", "ascii", "Export format: ascii, png, json, mermaid, d2")
		outputFile  = fs.String("o", "", "Output file (default: stdout)")
		interactive = fs.Bool("i", false, "Interactive viewer: move tables and watch links re-route")
		configPath  = fs.String("config", config.DefaultPath, "Configuration file")
		debug       = fs.Bool("debug", false, "Log routing decisions to stderr")
		cacheSize   = fs.Int("cache", -1, "Route cache size, 0 disables it (default: from config)")
		validate    = fs.Bool("validate", false, "Check the computed routes and fail on defects")
		inputFormat = fs.String("input-format", "", "Read a schema instead of a diagram: mermaid, d2 (default: by extension)")
	)

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: erd [options] diagram.json|schema.mmd|schema.d2\n\n")
		fmt.Fprintf(stderr, "Routes the links of an entity diagram and exports the result.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  erd examples/shop.json                       # Render to stdout\n")
		fmt.Fprintf(stderr, "  erd -format png -o shop.png examples/shop.json\n")
		fmt.Fprintf(stderr, "  erd -format json examples/shop.json          # Dump route points\n")
		fmt.Fprintf(stderr, "  erd -i examples/shop.json                    # Interactive viewer\n")
		fmt.Fprintf(stderr, "  erd -format png -o schema.png schema.d2     # Lay out and route a D2 schema\n")
		fmt.Fprintf(stderr, "\nInteractive keys:\n")
		fmt.Fprintf(stderr, "  Tab/Shift-Tab select table, arrows move it, h/j/k/l pan, s save, q quit\n")
		fmt.Fprintf(stderr, "  n/p select link, d detach its target, arrows drag it, a attach, c cancel\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return errUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}
	filename := fs.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *cacheSize >= 0 {
		cfg.CacheSize = *cacheSize
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if *debug {
		level = slog.LevelDebug
	}
	var logger *slog.Logger
	if *interactive {
		// stderr shares the terminal with the viewer.
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	} else {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	}
	slog.SetDefault(logger)

	d, saveAs, err := loadDiagram(filename, *inputFormat, logger)
	if err != nil {
		return fmt.Errorf("loading %s: %w", filename, err)
	}

	router, err := routing.NewRouter(d.Shapes(),
		routing.WithConfig(cfg.Routing),
		routing.WithCache(cfg.CacheSize),
		routing.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	if *interactive {
		return runInteractive(d, router, cfg, saveAs, logger)
	}

	routed, err := d.RouteAll(router)
	if err != nil {
		return err
	}
	if cache := router.Cache(); cache != nil {
		logger.Debug("route cache", "stats", cache.String())
	}

	if *validate {
		errs := validation.NewRouteValidator().Validate(routed)
		for _, e := range errs {
			fmt.Fprintln(stderr, e.String())
		}
		if len(errs) > 0 {
			return fmt.Errorf("%d route defects found", len(errs))
		}
	}

	return exportDiagram(d, routed, *format, *outputFile, cfg, stdout, stderr)
}

// loadDiagram reads a JSON diagram, or imports a schema when a format is
// given or the extension belongs to an importer. It also returns the file
// the interactive viewer saves to, which is always JSON.
func loadDiagram(filename, format string, logger *slog.Logger) (*diagram.Diagram, string, error) {
	registry := importer.NewImporterRegistry()
	imp, ok := registry.ForFile(filename)
	if (format == "" && !ok) || strings.EqualFold(format, "json") {
		d, err := diagram.Load(filename)
		return d, filename, err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, "", fmt.Errorf("reading file: %w", err)
	}

	var doc diagram.Document
	if format != "" {
		doc, err = registry.ImportWithFormat(string(data), format)
	} else {
		doc, err = imp.Import(string(data))
	}
	if err != nil {
		return nil, "", err
	}
	logger.Debug("imported schema", "file", filename, "tables", len(doc.Tables), "links", len(doc.Links))

	d, err := diagram.New(doc)
	if err != nil {
		return nil, "", err
	}
	return d, strings.TrimSuffix(filename, filepath.Ext(filename)) + ".json", nil
}

func exportDiagram(d *diagram.Diagram, routed []diagram.RoutedLink, format, outputFile string, cfg config.Config, stdout, stderr io.Writer) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	exporter, err := export.NewExporter(f, cfg.ExportOptions())
	if err != nil {
		return err
	}

	if outputFile == "" {
		return exporter.Export(stdout, d, routed)
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := exporter.Export(out, d, routed); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	fmt.Fprintf(stderr, "Exported to %s (%s)\n", outputFile, exporter.GetFormatName())
	return nil
}

func runInteractive(d *diagram.Diagram, router *routing.Router, cfg config.Config, filename string, logger *slog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer screen.Fini()

	proj := cfg.Projection(d.Bounds(nil))
	viewer := terminal.New(screen, d, router,
		terminal.WithFilename(filename),
		terminal.WithProjection(proj),
		terminal.WithLogger(logger),
	)
	return viewer.Run()
}
