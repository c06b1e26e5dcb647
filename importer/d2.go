package importer

import (
	"fmt"
	"strconv"
	"strings"

	"erd/diagram"
)

// d2Keywords are reserved field names that never declare a column.
var d2Keywords = map[string]bool{
	"shape": true, "label": true, "style": true, "near": true, "icon": true,
	"tooltip": true, "link": true, "width": true, "height": true,
	"direction": true, "class": true, "vars": true,
}

// d2Arrows are the connection operators, longest first.
var d2Arrows = []string{"<->", "->", "<-", "--"}

// D2Importer imports D2 schemas made of sql_table shapes. A connection
// between two columns (users.id -> orders.user_id) attaches to those rows.
type D2Importer struct{}

// NewD2Importer creates a new D2 importer
func NewD2Importer() *D2Importer {
	return &D2Importer{}
}

// CanImport reports whether the content looks like a D2 schema.
func (d *D2Importer) CanImport(content string) bool {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "erDiagram") || strings.HasPrefix(content, "---") {
		return false
	}
	return strings.Contains(content, "sql_table") || strings.Contains(content, "->")
}

// d2Block is an open table block.
type d2Block struct {
	table    string
	sqlTable bool
	rows     [][2]string
}

// Import parses table blocks and the connections between them. Shapes
// that are not sql_table become tables without rows.
func (d *D2Importer) Import(content string) (diagram.Document, error) {
	s := newSchema()

	var block *d2Block
	skip := 0 // depth of nested blocks being ignored
	seen := false

	for n, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if comment, ok := strings.CutPrefix(line, "#"); ok {
			if !seen && s.name == "" {
				s.name = strings.TrimSpace(comment)
			}
			continue
		}
		seen = true

		if skip > 0 {
			skip += strings.Count(line, "{") - strings.Count(line, "}")
			continue
		}

		if line == "}" {
			if block == nil {
				return diagram.Document{}, fmt.Errorf("%w: line %d: unexpected }", ErrSyntax, n+1)
			}
			if block.sqlTable {
				for _, r := range block.rows {
					s.addRow(block.table, r[0], r[1])
				}
			}
			block = nil
			continue
		}

		if block != nil {
			d.blockField(block, line, &skip)
			continue
		}

		if ok, err := d.connection(s, line); ok {
			if err != nil {
				return diagram.Document{}, fmt.Errorf("line %d: %w", n+1, err)
			}
			if strings.HasSuffix(line, "{") {
				skip = 1
			}
			continue
		}

		key, value, opens := d.declaration(line)
		path := d.splitPath(key)
		if len(path) == 0 || path[0] == "" {
			return diagram.Document{}, fmt.Errorf("%w: line %d: missing key in %q", ErrSyntax, n+1, line)
		}
		if len(path) > 1 || d2Keywords[path[0]] {
			// Dotted fields like users.style.fill and top level settings.
			if opens {
				skip = 1
			}
			continue
		}

		t := s.table(path[0])
		if value != "" {
			t.Name = d.unquote(value)
		}
		if opens {
			block = &d2Block{table: path[0]}
		}
	}

	if block != nil || skip > 0 {
		return diagram.Document{}, fmt.Errorf("%w: unclosed block", ErrSyntax)
	}
	return s.document()
}

// blockField handles one line inside a table block.
func (d *D2Importer) blockField(b *d2Block, line string, skip *int) {
	key, value, opens := d.declaration(line)
	if opens {
		*skip = 1
	}

	name := d.unquote(key)
	switch {
	case name == "shape":
		b.sqlTable = value == "sql_table"
	case d2Keywords[name] || len(d.splitPath(key)) > 1:
	case d.arrow(line) >= 0:
	default:
		typ := d.unquote(value)
		if typ == "-" {
			typ = ""
		}
		b.rows = append(b.rows, [2]string{name, typ})
	}
}

// declaration splits "key: value {" into its parts. A trailing inline
// block such as {constraint: primary_key} is dropped.
func (d *D2Importer) declaration(line string) (key, value string, opens bool) {
	if i := indexUnquoted(line, "{"); i >= 0 {
		rest := line[i:]
		line = strings.TrimSpace(line[:i])
		opens = strings.Count(rest, "{") > strings.Count(rest, "}")
	}
	if i := indexUnquoted(line, ":"); i >= 0 {
		return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), opens
	}
	return line, "", opens
}

// connection parses "a.col -> b.col: label". It reports false when the
// line is not a connection.
func (d *D2Importer) connection(s *schema, line string) (bool, error) {
	i := d.arrow(line)
	if i < 0 {
		return false, nil
	}
	var op string
	for _, a := range d2Arrows {
		if strings.HasPrefix(line[i:], a) {
			op = a
			break
		}
	}

	left := strings.TrimSpace(line[:i])
	right := strings.TrimSpace(line[i+len(op):])
	if j := indexUnquoted(right, "{"); j >= 0 {
		right = strings.TrimSpace(right[:j])
	}
	label := ""
	if j := indexUnquoted(right, ":"); j >= 0 {
		label = d.unquote(right[j+1:])
		right = strings.TrimSpace(right[:j])
	}

	from, to := d.splitPath(left), d.splitPath(right)
	if len(from) == 0 || from[0] == "" || len(to) == 0 || to[0] == "" {
		return true, fmt.Errorf("%w: connection needs two ends: %q", ErrSyntax, line)
	}
	if op == "<-" {
		from, to = to, from
	}

	r := relation{from: from[0], to: to[0], label: label}
	if len(from) > 1 {
		r.fromColumn = from[1]
	}
	if len(to) > 1 {
		r.toColumn = to[1]
	}
	s.relate(r)
	return true, nil
}

// arrow returns the index of the first connection operator outside quotes.
func (d *D2Importer) arrow(line string) int {
	best := -1
	for _, a := range d2Arrows {
		if i := indexUnquoted(line, a); i >= 0 && (best < 0 || i < best) {
			best = i
		}
	}
	return best
}

// splitPath splits a dotted key, keeping quoted parts whole.
func (d *D2Importer) splitPath(key string) []string {
	var parts []string
	for key != "" {
		i := indexUnquoted(key, ".")
		if i < 0 {
			parts = append(parts, d.unquote(key))
			break
		}
		parts = append(parts, d.unquote(key[:i]))
		key = key[i+1:]
	}
	return parts
}

// unquote removes quotes from a string
func (d *D2Importer) unquote(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `"`) {
		if unquoted, err := strconv.Unquote(s); err == nil {
			return unquoted
		}
	}
	if len(s) >= 2 && strings.HasPrefix(s, `'`) && strings.HasSuffix(s, `'`) {
		return s[1 : len(s)-1]
	}
	return s
}

// indexUnquoted returns the index of the first sep outside double quotes.
func indexUnquoted(s, sep string) int {
	quoted := false
	for i := 0; i < len(s); i++ {
		switch {
		case quoted && s[i] == '\\':
			i++
		case s[i] == '"':
			quoted = !quoted
		case !quoted && strings.HasPrefix(s[i:], sep):
			return i
		}
	}
	return -1
}

// GetFormatName returns the format name
func (d *D2Importer) GetFormatName() string {
	return "D2"
}

// GetFileExtensions returns common file extensions
func (d *D2Importer) GetFileExtensions() []string {
	return []string{".d2"}
}
