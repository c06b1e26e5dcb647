package importer

import (
	"fmt"

	"erd/diagram"
	"erd/geometry"
	"erd/layout"
	"erd/link"
	"erd/shape"
)

// Port groups created on imported tables. References leave the referenced
// table on the right and enter the referencing table on the left.
const (
	outGroup = "out"
	inGroup  = "in"
)

// relation is a reference between two tables, optionally naming the columns
// on each side.
type relation struct {
	from, fromColumn string
	to, toColumn     string
	label            string
}

// schema collects tables and relations in the order they are first seen.
type schema struct {
	name      string
	tables    []*shape.Spec
	byID      map[string]*shape.Spec
	relations []relation
}

func newSchema() *schema {
	return &schema{byID: make(map[string]*shape.Spec)}
}

// table returns the table with the given id, declaring it if needed.
func (s *schema) table(id string) *shape.Spec {
	if t, ok := s.byID[id]; ok {
		return t
	}
	t := &shape.Spec{ID: id, Name: id}
	s.tables = append(s.tables, t)
	s.byID[id] = t
	return t
}

func (s *schema) addRow(tableID, name, typ string) {
	t := s.table(tableID)
	t.Rows = append(t.Rows, shape.Row{Name: name, Type: typ})
}

func (s *schema) relate(r relation) {
	s.table(r.from)
	s.table(r.to)
	s.relations = append(s.relations, r)
}

// document turns the schema into a laid out diagram document with a port
// per referenced column.
func (s *schema) document() (diagram.Document, error) {
	if len(s.tables) == 0 {
		return diagram.Document{}, ErrNoTables
	}

	links := make([]link.Link, 0, len(s.relations))
	for _, r := range s.relations {
		from := s.port(r.from, r.fromColumn, outGroup, geometry.Right)
		to := s.port(r.to, r.toColumn, inGroup, geometry.Left)
		links = append(links, link.Link{
			ID:     r.from + "_" + r.to,
			Source: link.Attached(r.from, from),
			Target: link.Attached(r.to, to),
			Label:  r.label,
		})
	}

	specs := make([]shape.Spec, len(s.tables))
	for i, t := range s.tables {
		specs[i] = *t
	}
	specs, err := layout.NewLayered().Layout(specs, links)
	if err != nil {
		return diagram.Document{}, err
	}

	doc := diagram.Document{Name: s.name, Tables: specs, Links: links}
	diagram.EnsureUniqueLinkIDs(&doc)
	return doc, nil
}

// port returns the id of the port on the given side of a column, creating
// the group and port on first use. Unknown or empty columns use the header.
func (s *schema) port(tableID, column, group string, dir geometry.Direction) string {
	t := s.table(tableID)

	row := -1
	for i, r := range t.Rows {
		if column != "" && r.Name == column {
			row = i
			break
		}
	}

	id := group
	if row >= 0 {
		id = fmt.Sprintf("r%d-%s", row, group)
	}

	hasGroup := false
	for _, g := range t.Groups {
		if g.Name == group {
			hasGroup = true
			break
		}
	}
	if !hasGroup {
		t.Groups = append(t.Groups, shape.GroupSpec{Name: group, Direction: dir})
	}

	for _, p := range t.Ports {
		if p.ID == id {
			return id
		}
	}
	ps := shape.PortSpec{ID: id, Group: group}
	if row >= 0 {
		ps.Row = &row
	}
	t.Ports = append(t.Ports, ps)
	return id
}
