// Package export writes routed diagrams in various formats.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"erd/canvas"
	"erd/diagram"
)

// ErrUnknownFormat is returned for formats no exporter handles.
var ErrUnknownFormat = errors.New("unknown export format")

// Format represents an export format
type Format string

const (
	// FormatASCII exports to ASCII/Unicode art (default format)
	FormatASCII Format = "ascii"
	// FormatPNG exports a raster image
	FormatPNG Format = "png"
	// FormatJSON exports the computed routes
	FormatJSON Format = "json"
	// FormatMermaid exports the schema as a Mermaid ER diagram
	FormatMermaid Format = "mermaid"
	// FormatD2 exports the schema as D2 sql_table shapes
	FormatD2 Format = "d2"
)

// Exporter interface for different export formats
type Exporter interface {
	// Export writes the diagram and its routes in the target format
	Export(w io.Writer, d *diagram.Diagram, routed []diagram.RoutedLink) error
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// Options tune the rendering exporters.
type Options struct {
	// ScaleX and ScaleY are the world size of one character cell.
	ScaleX, ScaleY float64
	// Margin is the number of blank cells around ASCII output.
	Margin int
	// PixelScale is the number of PNG pixels per world unit.
	PixelScale float64
	// Padding is the blank border around PNG output, in world units.
	Padding float64
	// FontSize is the PNG font size in points.
	FontSize float64
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		ScaleX:     canvas.DefaultScaleX,
		ScaleY:     canvas.DefaultScaleY,
		Margin:     1,
		PixelScale: 1,
		Padding:    20,
		FontSize:   12,
	}
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format, opts Options) (Exporter, error) {
	switch format {
	case FormatASCII:
		return NewASCIIExporter(opts), nil
	case FormatPNG:
		return NewPNGExporter(opts), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatMermaid:
		return NewMermaidExporter(), nil
	case FormatD2:
		return NewD2Exporter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "ascii", "text", "txt":
		return FormatASCII, nil
	case "png":
		return FormatPNG, nil
	case "json":
		return FormatJSON, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	case "d2":
		return FormatD2, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{
		FormatASCII,
		FormatPNG,
		FormatJSON,
		FormatMermaid,
		FormatD2,
	}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatASCII:   "ASCII/Unicode art",
		FormatPNG:     "PNG image",
		FormatJSON:    "Computed routes as JSON",
		FormatMermaid: "Mermaid ER diagram (schema only)",
		FormatD2:      "D2 sql_table shapes (schema only)",
	}
}
