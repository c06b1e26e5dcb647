package validation

import (
	"path/filepath"
	"strings"
	"testing"

	"erd/diagram"
	"erd/geometry"
	"erd/link"
	"erd/routing"
)

func TestRouteValidator_ComputedRoutes(t *testing.T) {
	d, err := diagram.Load(filepath.Join("..", "examples", "shop.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	r, err := routing.NewRouter(d.Shapes())
	if err != nil {
		t.Fatalf("NewRouter failed: %v", err)
	}

	// Drag tables around and check every intermediate layout.
	moves := []struct {
		table  string
		dx, dy float64
	}{
		{"users", 0, 0},
		{"orders", -300, 0},
		{"orders", 0, -200},
		{"products", -800, 300},
		{"users", 500, 500},
	}
	for _, m := range moves {
		if err := d.MoveTable(m.table, m.dx, m.dy); err != nil {
			t.Fatalf("MoveTable failed: %v", err)
		}
		routed, err := d.RouteAll(r)
		if err != nil {
			t.Fatalf("RouteAll failed: %v", err)
		}
		for _, e := range NewRouteValidator().Validate(routed) {
			t.Errorf("after moving %s by (%v,%v): %s", m.table, m.dx, m.dy, e)
		}
	}
}

func TestRouteValidator_Defects(t *testing.T) {
	connected := link.Link{
		ID:     "l",
		Source: link.Attached("a", "p"),
		Target: link.Attached("b", "q"),
	}
	connecting := link.Link{
		ID:     "l",
		Source: link.Attached("a", "p"),
		Target: link.Floating(5, 5),
	}
	src, dst := geometry.Pt(0, 0), geometry.Pt(10, 10)

	tests := []struct {
		name    string
		rl      diagram.RoutedLink
		message string
	}{
		{
			name:    "no route",
			rl:      diagram.RoutedLink{Link: connected, Status: link.Connected, Source: src, Target: dst},
			message: "has no route",
		},
		{
			name: "diagonal",
			rl: diagram.RoutedLink{Link: connected, Status: link.Connected, Source: src, Target: dst,
				Route: routing.Route{Points: []geometry.Point{src, dst}}},
			message: "not axis aligned",
		},
		{
			name: "zero length",
			rl: diagram.RoutedLink{Link: connected, Status: link.Connected, Source: src, Target: dst,
				Route: routing.Route{Points: []geometry.Point{src, {X: 10, Y: 0}, {X: 10, Y: 0}, dst}}},
			message: "zero-length",
		},
		{
			name: "misses target",
			rl: diagram.RoutedLink{Link: connected, Status: link.Connected, Source: src, Target: dst,
				Route: routing.Route{Points: []geometry.Point{src, {X: 10, Y: 0}}}},
			message: "route ends at",
		},
		{
			name: "unexpected route",
			rl: diagram.RoutedLink{Link: connecting, Status: link.Connecting, Source: src, Target: dst,
				Route: routing.Route{Points: []geometry.Point{src, {X: 10, Y: 0}, dst}}},
			message: "connecting link has a route",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := NewRouteValidator().Validate([]diagram.RoutedLink{tt.rl})
			if len(errs) != 1 {
				t.Fatalf("Expected 1 error, got %d: %v", len(errs), errs)
			}
			if !strings.Contains(errs[0].String(), tt.message) {
				t.Errorf("Error %q does not mention %q", errs[0], tt.message)
			}
		})
	}
}

func TestValidationError_String(t *testing.T) {
	e := ValidationError{Link: "l", Segment: 2, Message: "bad"}
	if got := e.String(); got != "[l] segment 2: bad" {
		t.Errorf("String() = %q", got)
	}
	e.Segment = -1
	if got := e.String(); got != "[l]: bad" {
		t.Errorf("String() = %q", got)
	}
}
