package canvas

import (
	"path/filepath"
	"strings"
	"testing"

	"erd/diagram"
	"erd/routing"
)

func renderShop(t *testing.T) (*diagram.Diagram, []diagram.RoutedLink) {
	t.Helper()
	d, err := diagram.Load(filepath.Join("..", "examples", "shop.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	r, err := routing.NewRouter(d.Shapes())
	if err != nil {
		t.Fatalf("NewRouter failed: %v", err)
	}
	routed, err := d.RouteAll(r)
	if err != nil {
		t.Fatalf("RouteAll failed: %v", err)
	}
	return d, routed
}

func TestRender(t *testing.T) {
	d, routed := renderShop(t)
	c, err := Render(d, routed, DefaultProjection())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// products ends at x=920 and the draft link reaches y=320.
	w, h := c.Size()
	if w != 94 || h != 25 {
		t.Errorf("Size() = (%d, %d), want (94, 25)", w, h)
	}

	out := c.String()
	for _, name := range []string{"users", "orders", "products", "email text"} {
		if !strings.Contains(out, name) {
			t.Errorf("Rendered diagram is missing %q:\n%s", name, out)
		}
	}

	if n := strings.Count(out, "▶"); n != 2 {
		t.Errorf("Expected 2 arrow heads, got %d:\n%s", n, out)
	}
	if !strings.Contains(out, "·") {
		t.Errorf("Expected the unrouted link to be dotted:\n%s", out)
	}

	tests := []struct {
		name string
		cell Cell
		want rune
	}{
		{"users.id port", Cell{20, 3}, '├'},
		{"orders.user_id arrow", Cell{36, 15}, '▶'},
		{"products.id arrow", Cell{72, 3}, '▶'},
		{"first bend", Cell{28, 3}, '╮'},
		{"second bend", Cell{28, 15}, '╰'},
	}
	for _, tt := range tests {
		if got := c.Get(tt.cell); got != tt.want {
			t.Errorf("%s: cell %v = %c, want %c", tt.name, tt.cell, got, tt.want)
		}
	}
}

func TestDraw_Selected(t *testing.T) {
	d, routed := renderShop(t)
	c := newCanvas(t, 100, 30)
	Draw(c, d, routed, DefaultProjection(), "users")

	if got := c.Get(Cell{0, 0}); got != '╔' {
		t.Errorf("Selected table corner = %c, want ╔", got)
	}
	if got := c.Get(Cell{36, 10}); got != '┌' {
		t.Errorf("Unselected table corner = %c, want ┌", got)
	}
}
