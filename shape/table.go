// Package shape holds the entity tables drawn on the canvas and the ports
// connectors attach to.
package shape

import (
	"errors"
	"fmt"

	"erd/geometry"

	"github.com/google/uuid"
)

// Table layout defaults.
const (
	DefaultWidth     = 200.0
	DefaultRowHeight = 28.0
	// BodyPadding is the extra space below the last row.
	BodyPadding = 8.0
	rowOffset   = BodyPadding / 2
)

// Configuration errors reported when a table is built.
var (
	ErrMissingDirection = errors.New("port group has no direction")
	ErrMissingID        = errors.New("missing identifier")
	ErrUnknownGroup     = errors.New("unknown port group")
	ErrDuplicatePort    = errors.New("duplicate port")
	ErrDuplicateGroup   = errors.New("duplicate port group")
	ErrRowOutOfRange    = errors.New("row index out of range")
)

// PortGroup is a named set of ports sharing one attachment side. Groups are
// created once and never modified.
type PortGroup struct {
	name      string
	direction geometry.Direction
}

// NewPortGroup creates a port group. Every group must declare exactly one of
// the four directions.
func NewPortGroup(name string, dir geometry.Direction) (*PortGroup, error) {
	if name == "" {
		return nil, fmt.Errorf("port group: %w", ErrMissingID)
	}
	if !dir.Valid() {
		return nil, fmt.Errorf("port group %q: %w", name, ErrMissingDirection)
	}
	return &PortGroup{name: name, direction: dir}, nil
}

// Name returns the group name.
func (g *PortGroup) Name() string { return g.name }

// Direction returns the side of the table the group's ports sit on.
func (g *PortGroup) Direction() geometry.Direction { return g.direction }

// Row is one column entry of an entity table.
type Row struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// GroupSpec declares a port group.
type GroupSpec struct {
	Name      string             `json:"name"`
	Direction geometry.Direction `json:"direction"`
}

// PortSpec declares a port. Row is the index of the row the port is aligned
// with; nil aligns it with the header.
type PortSpec struct {
	ID    string `json:"id"`
	Group string `json:"group"`
	Row   *int   `json:"row,omitempty"`
}

// Spec is the serialized form of a table.
type Spec struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Width     float64     `json:"width,omitempty"`
	RowHeight float64     `json:"rowHeight,omitempty"`
	Rows      []Row       `json:"rows,omitempty"`
	Groups    []GroupSpec `json:"groups,omitempty"`
	Ports     []PortSpec  `json:"ports,omitempty"`
}

// Port is an attachment site on a table.
type Port struct {
	ID    string
	Group *PortGroup
	// Row is the aligned row index, -1 for the header.
	Row int
}

// Table is an entity shape with rows and ports. Tables are values: moving a
// table returns a new one.
type Table struct {
	ID        string
	Name      string
	X, Y      float64
	Width     float64
	RowHeight float64
	Rows      []Row

	groups     map[string]*PortGroup
	groupOrder []string
	ports      map[string]Port
	portOrder  []string
}

// NewTable validates a spec and builds the table.
func NewTable(spec Spec) (Table, error) {
	if spec.ID == "" {
		return Table{}, fmt.Errorf("table: %w", ErrMissingID)
	}

	t := Table{
		ID:        spec.ID,
		Name:      spec.Name,
		X:         spec.X,
		Y:         spec.Y,
		Width:     spec.Width,
		RowHeight: spec.RowHeight,
		Rows:      make([]Row, len(spec.Rows)),
		groups:    make(map[string]*PortGroup, len(spec.Groups)),
		ports:     make(map[string]Port, len(spec.Ports)),
	}
	if t.Width <= 0 {
		t.Width = DefaultWidth
	}
	if t.RowHeight <= 0 {
		t.RowHeight = DefaultRowHeight
	}
	if t.Name == "" {
		t.Name = t.ID
	}

	for i, row := range spec.Rows {
		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		t.Rows[i] = row
	}

	for _, gs := range spec.Groups {
		g, err := NewPortGroup(gs.Name, gs.Direction)
		if err != nil {
			return Table{}, fmt.Errorf("table %s: %w", spec.ID, err)
		}
		if _, dup := t.groups[g.Name()]; dup {
			return Table{}, fmt.Errorf("table %s: %w: %s", spec.ID, ErrDuplicateGroup, g.Name())
		}
		t.groupOrder = append(t.groupOrder, g.Name())
		t.groups[g.Name()] = g
	}

	for _, ps := range spec.Ports {
		if ps.ID == "" {
			return Table{}, fmt.Errorf("table %s: port: %w", spec.ID, ErrMissingID)
		}
		if _, dup := t.ports[ps.ID]; dup {
			return Table{}, fmt.Errorf("table %s: %w: %s", spec.ID, ErrDuplicatePort, ps.ID)
		}
		g, ok := t.groups[ps.Group]
		if !ok {
			return Table{}, fmt.Errorf("table %s: port %s: %w: %q", spec.ID, ps.ID, ErrUnknownGroup, ps.Group)
		}
		row := -1
		if ps.Row != nil {
			row = *ps.Row
			if row < 0 || row >= len(t.Rows) {
				return Table{}, fmt.Errorf("table %s: port %s: %w: %d", spec.ID, ps.ID, ErrRowOutOfRange, row)
			}
		}
		t.ports[ps.ID] = Port{ID: ps.ID, Group: g, Row: row}
		t.portOrder = append(t.portOrder, ps.ID)
	}

	return t, nil
}

// Spec returns the serialized form of the table.
func (t Table) Spec() Spec {
	spec := Spec{
		ID:        t.ID,
		Name:      t.Name,
		X:         t.X,
		Y:         t.Y,
		Width:     t.Width,
		RowHeight: t.RowHeight,
		Rows:      append([]Row(nil), t.Rows...),
	}
	for _, name := range t.groupOrder {
		g := t.groups[name]
		spec.Groups = append(spec.Groups, GroupSpec{Name: g.Name(), Direction: g.Direction()})
	}
	for _, id := range t.portOrder {
		p := t.ports[id]
		ps := PortSpec{ID: p.ID, Group: p.Group.Name()}
		if p.Row >= 0 {
			row := p.Row
			ps.Row = &row
		}
		spec.Ports = append(spec.Ports, ps)
	}
	return spec
}

// Height returns the table height: a header row, one row per entry and padding.
func (t Table) Height() float64 {
	return float64(len(t.Rows)+1)*t.RowHeight + BodyPadding
}

// Bounds returns the rectangle occupied by the table.
func (t Table) Bounds() geometry.Bounds {
	return geometry.Bounds{
		Min: geometry.Pt(t.X, t.Y),
		Max: geometry.Pt(t.X+t.Width, t.Y+t.Height()),
	}
}

// RowTop returns the y coordinate of the top of row i, -1 being the header.
func (t Table) RowTop(i int) float64 {
	if i < 0 {
		return t.Y
	}
	return t.Y + rowOffset + float64(i+1)*t.RowHeight
}

// Port returns the port with the given id.
func (t Table) Port(id string) (Port, bool) {
	p, ok := t.ports[id]
	return p, ok
}

// Ports returns the table's ports in declaration order.
func (t Table) Ports() []Port {
	ports := make([]Port, 0, len(t.portOrder))
	for _, id := range t.portOrder {
		ports = append(ports, t.ports[id])
	}
	return ports
}

// PortPosition returns the screen position of a port. Left and right ports
// sit on their edge at the vertical centre of their row; top and bottom
// ports are spread evenly along their edge.
func (t Table) PortPosition(id string) (geometry.Point, bool) {
	p, ok := t.ports[id]
	if !ok {
		return geometry.Point{}, false
	}

	rowCenter := t.RowTop(p.Row) + t.RowHeight/2
	switch p.Group.Direction() {
	case geometry.Left:
		return geometry.Pt(t.X, rowCenter), true
	case geometry.Right:
		return geometry.Pt(t.X+t.Width, rowCenter), true
	}

	// Spread along the top or bottom edge in declaration order.
	index, count := 0, 0
	for _, other := range t.portOrder {
		q := t.ports[other]
		if q.Group.Direction() != p.Group.Direction() {
			continue
		}
		if other == id {
			index = count
		}
		count++
	}
	x := t.X + t.Width*float64(index+1)/float64(count+1)
	if p.Group.Direction() == geometry.Top {
		return geometry.Pt(x, t.Y), true
	}
	return geometry.Pt(x, t.Y+t.Height()), true
}

// MoveTo returns a copy of the table placed at (x, y).
func (t Table) MoveTo(x, y float64) Table {
	t.X, t.Y = x, y
	return t
}

// Move returns a copy of the table translated by (dx, dy).
func (t Table) Move(dx, dy float64) Table {
	return t.MoveTo(t.X+dx, t.Y+dy)
}
