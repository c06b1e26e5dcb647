package export

import (
	"fmt"
	"io"

	"erd/canvas"
	"erd/diagram"
)

// ASCIIExporter exports diagrams to ASCII/Unicode art format
type ASCIIExporter struct {
	opts Options
}

// NewASCIIExporter creates a new ASCII exporter
func NewASCIIExporter(opts Options) *ASCIIExporter {
	return &ASCIIExporter{opts: opts}
}

// Export renders the diagram onto a character canvas and writes it out.
func (e *ASCIIExporter) Export(w io.Writer, d *diagram.Diagram, routed []diagram.RoutedLink) error {
	if d == nil {
		return fmt.Errorf("diagram is nil")
	}

	proj := canvas.FitProjection(d.Bounds(routed), e.opts.ScaleX, e.opts.ScaleY, e.opts.Margin)
	c, err := canvas.Render(d, routed, proj)
	if err != nil {
		return fmt.Errorf("failed to render diagram: %w", err)
	}

	if _, err := fmt.Fprintln(w, c.String()); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// GetFileExtension returns the recommended file extension
func (e *ASCIIExporter) GetFileExtension() string {
	return ".txt"
}

// GetFormatName returns the format name
func (e *ASCIIExporter) GetFormatName() string {
	return "ASCII/Unicode Art"
}
