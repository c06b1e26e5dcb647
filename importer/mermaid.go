package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"erd/diagram"
)

var (
	// CUSTOMER ||--o{ ORDER : places
	mermaidRelation = regexp.MustCompile(`^([\w-]+)\s+([|}o{]{2})(--|\.\.)([|}o{]{2})\s+([\w-]+)\s*(?::\s*(.*))?$`)
	// CUSTOMER["Customer"] {
	mermaidEntity = regexp.MustCompile(`^([\w-]+)(?:\s*\["([^"]*)"\])?\s*\{\s*(\})?$`)
)

// MermaidImporter imports Mermaid erDiagram schemas. Relationships attach to
// the table headers since Mermaid does not name the joined columns.
type MermaidImporter struct{}

// NewMermaidImporter creates a new Mermaid importer
func NewMermaidImporter() *MermaidImporter {
	return &MermaidImporter{}
}

// CanImport reports whether the content is a Mermaid ER diagram.
func (m *MermaidImporter) CanImport(content string) bool {
	lines := m.body(content)
	return len(lines) > 0 && strings.HasPrefix(lines[0], "erDiagram")
}

// Import parses entity blocks and relationships.
func (m *MermaidImporter) Import(content string) (diagram.Document, error) {
	s := newSchema()
	s.name = m.title(content)

	lines := m.body(content)
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "erDiagram") {
		return diagram.Document{}, fmt.Errorf("%w: missing erDiagram declaration", ErrSyntax)
	}

	entity := ""
	for n, line := range lines[1:] {
		if entity != "" {
			if line == "}" {
				entity = ""
				continue
			}
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return diagram.Document{}, fmt.Errorf("%w: line %d: attribute needs a type and a name: %q", ErrSyntax, n+2, line)
			}
			s.addRow(entity, fields[1], fields[0])
			continue
		}

		if strings.HasPrefix(line, "direction ") {
			continue
		}

		if match := mermaidEntity.FindStringSubmatch(line); match != nil {
			t := s.table(match[1])
			if match[2] != "" {
				t.Name = match[2]
			}
			if match[3] == "" {
				entity = match[1]
			}
			continue
		}

		if match := mermaidRelation.FindStringSubmatch(line); match != nil {
			r := relation{from: match[1], to: match[5], label: m.unquote(match[6])}
			// The many side references the one side.
			if strings.Contains(match[2], "}") && !strings.Contains(match[4], "{") {
				r.from, r.to = r.to, r.from
			}
			s.relate(r)
			continue
		}

		if id := strings.Fields(line); len(id) == 1 {
			s.table(id[0])
			continue
		}
		return diagram.Document{}, fmt.Errorf("%w: line %d: unrecognized statement %q", ErrSyntax, n+2, line)
	}

	if entity != "" {
		return diagram.Document{}, fmt.Errorf("%w: entity %s is not closed", ErrSyntax, entity)
	}
	return s.document()
}

// body returns the trimmed, non-empty lines after any front matter, with
// comments removed.
func (m *MermaidImporter) body(content string) []string {
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "---" {
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == "---" {
				lines = lines[i+1:]
				break
			}
		}
	}

	var body []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		body = append(body, line)
	}
	return body
}

// title returns the title declared in the front matter.
func (m *MermaidImporter) title(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return ""
	}
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "---" {
			break
		}
		if v, ok := strings.CutPrefix(line, "title:"); ok {
			return m.unquote(strings.TrimSpace(v))
		}
	}
	return ""
}

func (m *MermaidImporter) unquote(s string) string {
	s = strings.TrimSpace(s)
	if unquoted, err := strconv.Unquote(s); err == nil {
		return unquoted
	}
	return strings.Trim(s, `"`)
}

// GetFormatName returns the format name
func (m *MermaidImporter) GetFormatName() string {
	return "Mermaid"
}

// GetFileExtensions returns common file extensions
func (m *MermaidImporter) GetFileExtensions() []string {
	return []string{".mmd", ".mermaid"}
}
