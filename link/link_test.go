package link

import (
	"errors"
	"testing"

	"erd/geometry"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		link     Link
		expected Status
	}{
		{
			name:     "both floating",
			link:     Link{Source: Floating(0, 0), Target: Floating(10, 10)},
			expected: None,
		},
		{
			name:     "source attached",
			link:     Link{Source: Attached("a", "p"), Target: Floating(10, 10)},
			expected: Connecting,
		},
		{
			name:     "target attached",
			link:     Link{Source: Floating(0, 0), Target: Attached("b", "q")},
			expected: Connecting,
		},
		{
			name:     "both attached",
			link:     Link{Source: Attached("a", "p"), Target: Attached("b", "q")},
			expected: Connected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.link); got != tt.expected {
				t.Errorf("Classify() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestInferDirection(t *testing.T) {
	origin := geometry.Pt(100, 100)
	tests := []struct {
		name     string
		other    geometry.Point
		expected geometry.Direction
	}{
		{"far below", geometry.Pt(100, 131), geometry.Bottom},
		{"far above", geometry.Pt(100, 69), geometry.Top},
		{"slightly below, to the right", geometry.Pt(150, 130), geometry.Right},
		{"slightly above, to the left", geometry.Pt(50, 70), geometry.Left},
		{"same point", origin, geometry.Left},
		{"below and left beats horizontal", geometry.Pt(0, 200), geometry.Bottom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferDirection(origin, tt.other); got != tt.expected {
				t.Errorf("InferDirection(%v, %v) = %v, want %v", origin, tt.other, got, tt.expected)
			}
		})
	}
}

type stubPorts map[string]geometry.Direction

var errNoPort = errors.New("no such port")

func (s stubPorts) PortDirection(shapeID, portID string) (geometry.Direction, error) {
	dir, ok := s[shapeID+"/"+portID]
	if !ok {
		return 0, errNoPort
	}
	return dir, nil
}

func TestResolver(t *testing.T) {
	r := NewResolver(stubPorts{"users/id": geometry.Top})

	t.Run("attached uses port group", func(t *testing.T) {
		// The port says top even though the other end is to the right.
		dir, err := r.ResolveDirection(Attached("users", "id"), geometry.Pt(0, 0), geometry.Pt(500, 0))
		if err != nil {
			t.Fatalf("ResolveDirection failed: %v", err)
		}
		if dir != geometry.Top {
			t.Errorf("Expected top, got %v", dir)
		}
	})

	t.Run("floating is inferred", func(t *testing.T) {
		dir, err := r.ResolveDirection(Floating(0, 0), geometry.Pt(0, 0), geometry.Pt(500, 0))
		if err != nil {
			t.Fatalf("ResolveDirection failed: %v", err)
		}
		if dir != geometry.Right {
			t.Errorf("Expected right, got %v", dir)
		}
	})

	t.Run("floating target below its source", func(t *testing.T) {
		source, target := geometry.Pt(0, 0), geometry.Pt(0, 100)
		dir, err := r.ResolveDirection(Floating(0, 100), source, target)
		if err != nil {
			t.Fatalf("ResolveDirection failed: %v", err)
		}
		if dir != geometry.Bottom {
			t.Errorf("Expected bottom, got %v", dir)
		}
	})

	t.Run("floating source above its target", func(t *testing.T) {
		source, target := geometry.Pt(0, 0), geometry.Pt(0, 100)
		dir, err := r.ResolveDirection(Floating(0, 0), source, target)
		if err != nil {
			t.Fatalf("ResolveDirection failed: %v", err)
		}
		if dir != geometry.Bottom {
			t.Errorf("Expected bottom, got %v", dir)
		}
	})

	t.Run("unknown port", func(t *testing.T) {
		_, err := r.ResolveDirection(Attached("users", "nope"), geometry.Point{}, geometry.Point{})
		if !errors.Is(err, errNoPort) {
			t.Errorf("Expected wrapped lookup error, got %v", err)
		}
	})
}
