package layout

import (
	"errors"
	"testing"

	"erd/geometry"
	"erd/link"
	"erd/shape"
)

// table returns a spec with three rows, 200 wide and 120 tall.
func table(id string) shape.Spec {
	return shape.Spec{
		ID: id,
		Rows: []shape.Row{
			{Name: "id", Type: "int"},
			{Name: "a", Type: "text"},
			{Name: "b", Type: "text"},
		},
	}
}

func connect(from, to string) link.Link {
	return link.Link{
		ID:     from + "_" + to,
		Source: link.Attached(from, "out"),
		Target: link.Attached(to, "in"),
	}
}

func positions(specs []shape.Spec) map[string]geometry.Point {
	pos := make(map[string]geometry.Point, len(specs))
	for _, s := range specs {
		pos[s.ID] = geometry.Pt(s.X, s.Y)
	}
	return pos
}

func TestLayered_Layout(t *testing.T) {
	tests := []struct {
		name   string
		tables []string
		links  []link.Link
		want   map[string]geometry.Point
	}{
		{
			name:   "empty",
			tables: nil,
			want:   map[string]geometry.Point{},
		},
		{
			name:   "chain",
			tables: []string{"users", "orders", "products"},
			links:  []link.Link{connect("users", "orders"), connect("orders", "products")},
			want: map[string]geometry.Point{
				"users":    {X: 0, Y: 0},
				"orders":   {X: 360, Y: 0},
				"products": {X: 720, Y: 0},
			},
		},
		{
			name:   "fan out is centred",
			tables: []string{"a", "b", "c"},
			links:  []link.Link{connect("a", "b"), connect("a", "c")},
			want: map[string]geometry.Point{
				"a": {X: 0, Y: 80},
				"b": {X: 360, Y: 0},
				"c": {X: 360, Y: 160},
			},
		},
		{
			name:   "cycle",
			tables: []string{"a", "b"},
			links:  []link.Link{connect("a", "b"), connect("b", "a")},
			want: map[string]geometry.Point{
				"a": {X: 0, Y: 0},
				"b": {X: 360, Y: 0},
			},
		},
		{
			name:   "unlinked and self referencing",
			tables: []string{"a", "b"},
			links: []link.Link{
				connect("a", "a"),
				{ID: "drag", Source: link.Attached("a", "out"), Target: link.Floating(900, 900)},
			},
			want: map[string]geometry.Point{
				"a": {X: 0, Y: 0},
				"b": {X: 0, Y: 160},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specs := make([]shape.Spec, 0, len(tt.tables))
			for _, id := range tt.tables {
				specs = append(specs, table(id))
			}

			got, err := NewLayered().Layout(specs, tt.links)
			if err != nil {
				t.Fatalf("Layout failed: %v", err)
			}
			pos := positions(got)
			for id, want := range tt.want {
				if pos[id] != want {
					t.Errorf("%s placed at %v, want %v", id, pos[id], want)
				}
			}
		})
	}
}

func TestLayered_SplitsWideLayers(t *testing.T) {
	l := NewLayered()
	l.MaxTablesPerColumn = 2

	specs := []shape.Spec{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	got, err := l.Layout(specs, nil)
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}

	want := map[string]geometry.Point{
		"a": {X: 0, Y: 0},
		"b": {X: 0, Y: 76},
		"c": {X: 360, Y: 0},
	}
	pos := positions(got)
	for id, p := range want {
		if pos[id] != p {
			t.Errorf("%s placed at %v, want %v", id, pos[id], p)
		}
	}
}

func TestLayered_DoesNotModifyInput(t *testing.T) {
	specs := []shape.Spec{table("a"), table("b")}
	if _, err := NewLayered().Layout(specs, []link.Link{connect("a", "b")}); err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if specs[1].X != 0 {
		t.Errorf("Input spec was moved to x=%v", specs[1].X)
	}
}

func TestLayered_UnknownTable(t *testing.T) {
	_, err := NewLayered().Layout([]shape.Spec{table("a")}, []link.Link{connect("a", "ghost")})
	if !errors.Is(err, ErrUnknownTable) {
		t.Errorf("Expected ErrUnknownTable, got %v", err)
	}
}
