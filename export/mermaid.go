package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"erd/diagram"
	"erd/link"
)

var nonWord = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// MermaidExporter exports the schema to a Mermaid erDiagram. Routes are not
// part of the output: Mermaid lays the diagram out itself.
type MermaidExporter struct{}

// NewMermaidExporter creates a new Mermaid exporter
func NewMermaidExporter() *MermaidExporter {
	return &MermaidExporter{}
}

// Export writes one entity per table and one relationship per link whose
// ends are both attached.
func (e *MermaidExporter) Export(w io.Writer, d *diagram.Diagram, _ []diagram.RoutedLink) error {
	if d == nil {
		return fmt.Errorf("diagram is nil")
	}

	var sb strings.Builder
	sb.WriteString("erDiagram\n")

	for _, t := range d.Shapes().Tables() {
		sb.WriteString(fmt.Sprintf("    %s {\n", e.entityID(t.ID)))
		for _, row := range t.Rows {
			typ := row.Type
			if typ == "" {
				typ = "field"
			}
			sb.WriteString(fmt.Sprintf("        %s %s\n", e.entityID(typ), e.entityID(row.Name)))
		}
		sb.WriteString("    }\n")
	}

	for _, l := range d.Links() {
		if link.Classify(l) != link.Connected {
			continue
		}
		label := l.Label
		if label == "" {
			label = l.ID
		}
		sb.WriteString(fmt.Sprintf("    %s ||--o{ %s : %q\n",
			e.entityID(l.Source.Shape), e.entityID(l.Target.Shape), label))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// entityID returns a valid Mermaid identifier
func (e *MermaidExporter) entityID(name string) string {
	id := nonWord.ReplaceAllString(name, "_")
	if id == "" {
		return "_"
	}
	return id
}

// GetFileExtension returns the recommended file extension
func (e *MermaidExporter) GetFileExtension() string {
	return ".mmd"
}

// GetFormatName returns the format name
func (e *MermaidExporter) GetFormatName() string {
	return "Mermaid"
}
