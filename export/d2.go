package export

import (
	"fmt"
	"io"
	"strings"

	"erd/diagram"
	"erd/link"
	"erd/shape"
)

// D2Exporter exports the schema as D2 sql_table shapes, connecting the
// columns that links are attached to.
type D2Exporter struct{}

// NewD2Exporter creates a new D2 exporter
func NewD2Exporter() *D2Exporter {
	return &D2Exporter{}
}

// Export converts the diagram to D2 syntax
func (e *D2Exporter) Export(w io.Writer, d *diagram.Diagram, _ []diagram.RoutedLink) error {
	if d == nil {
		return fmt.Errorf("diagram is nil")
	}

	var sb strings.Builder
	if d.Name != "" {
		sb.WriteString(fmt.Sprintf("# %s\n\n", d.Name))
	}

	for _, t := range d.Shapes().Tables() {
		sb.WriteString(fmt.Sprintf("%s: %s {\n", e.key(t.ID), e.escapeLabel(t.Name)))
		sb.WriteString("  shape: sql_table\n")
		for _, row := range t.Rows {
			typ := row.Type
			if typ == "" {
				typ = "-"
			}
			sb.WriteString(fmt.Sprintf("  %s: %s\n", e.key(row.Name), e.escapeLabel(typ)))
		}
		sb.WriteString("}\n")
	}

	first := true
	for _, l := range d.Links() {
		if link.Classify(l) != link.Connected {
			continue
		}
		if first {
			sb.WriteString("\n")
			first = false
		}
		from := e.endpointKey(d, l.Source)
		to := e.endpointKey(d, l.Target)
		if l.Label != "" {
			sb.WriteString(fmt.Sprintf("%s -> %s: %s\n", from, to, e.escapeLabel(l.Label)))
		} else {
			sb.WriteString(fmt.Sprintf("%s -> %s\n", from, to))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// endpointKey addresses the column a port is aligned with, or the table
// itself for header ports.
func (e *D2Exporter) endpointKey(d *diagram.Diagram, end link.Endpoint) string {
	tableKey := e.key(end.Shape)
	t, ok := d.Shapes().Get(end.Shape)
	if !ok {
		return tableKey
	}
	row, ok := portRow(t, end.Port)
	if !ok {
		return tableKey
	}
	return tableKey + "." + e.key(row.Name)
}

func portRow(t shape.Table, portID string) (shape.Row, bool) {
	p, ok := t.Port(portID)
	if !ok || p.Row < 0 || p.Row >= len(t.Rows) {
		return shape.Row{}, false
	}
	return t.Rows[p.Row], true
}

// key quotes identifiers D2 would otherwise parse as syntax
func (e *D2Exporter) key(id string) string {
	if id == "" || strings.ContainsAny(id, " .:-><|{}[]()\"'#;") {
		return `"` + strings.ReplaceAll(id, `"`, `\"`) + `"`
	}
	return id
}

// escapeLabel escapes special characters in labels
func (e *D2Exporter) escapeLabel(label string) string {
	if strings.ContainsAny(label, ":-><|{}[]()\"#;") {
		label = strings.ReplaceAll(label, `\`, `\\`)
		label = strings.ReplaceAll(label, `"`, `\"`)
		return `"` + label + `"`
	}
	return label
}

// GetFileExtension returns the recommended file extension
func (e *D2Exporter) GetFileExtension() string {
	return ".d2"
}

// GetFormatName returns the format name
func (e *D2Exporter) GetFormatName() string {
	return "D2"
}
