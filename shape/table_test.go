package shape

import (
	"errors"
	"sync"
	"testing"

	"erd/geometry"
)

func intPtr(i int) *int { return &i }

func testSpec() Spec {
	return Spec{
		ID:   "users",
		Name: "users",
		X:    10,
		Y:    20,
		Rows: []Row{
			{Name: "id", Type: "int"},
			{Name: "email", Type: "text"},
		},
		Groups: []GroupSpec{
			{Name: "in", Direction: geometry.Left},
			{Name: "out", Direction: geometry.Right},
			{Name: "up", Direction: geometry.Top},
			{Name: "down", Direction: geometry.Bottom},
		},
		Ports: []PortSpec{
			{ID: "id-in", Group: "in", Row: intPtr(0)},
			{ID: "email-out", Group: "out", Row: intPtr(1)},
			{ID: "header-out", Group: "out"},
			{ID: "top", Group: "up"},
			{ID: "bottom", Group: "down"},
		},
	}
}

func TestNewTable_Defaults(t *testing.T) {
	table, err := NewTable(testSpec())
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}

	if table.Width != DefaultWidth {
		t.Errorf("Expected default width %v, got %v", DefaultWidth, table.Width)
	}
	if table.RowHeight != DefaultRowHeight {
		t.Errorf("Expected default row height %v, got %v", DefaultRowHeight, table.RowHeight)
	}
	if table.Height() != 92 {
		t.Errorf("Expected height 92, got %v", table.Height())
	}
	for i, row := range table.Rows {
		if row.ID == "" {
			t.Errorf("Row %d should have been given an id", i)
		}
	}
	if len(table.Ports()) != 5 {
		t.Errorf("Expected 5 ports, got %d", len(table.Ports()))
	}
}

func TestNewTable_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Spec)
		want   error
	}{
		{
			name:   "group without direction",
			mutate: func(s *Spec) { s.Groups[0].Direction = 0 },
			want:   ErrMissingDirection,
		},
		{
			name:   "missing table id",
			mutate: func(s *Spec) { s.ID = "" },
			want:   ErrMissingID,
		},
		{
			name:   "unknown group",
			mutate: func(s *Spec) { s.Ports[0].Group = "sideways" },
			want:   ErrUnknownGroup,
		},
		{
			name:   "duplicate port",
			mutate: func(s *Spec) { s.Ports[1].ID = s.Ports[0].ID },
			want:   ErrDuplicatePort,
		},
		{
			name: "group declared twice",
			mutate: func(s *Spec) {
				s.Groups = append(s.Groups, GroupSpec{Name: s.Groups[0].Name, Direction: geometry.Top})
			},
			want: ErrDuplicateGroup,
		},
		{
			name:   "row out of range",
			mutate: func(s *Spec) { s.Ports[0].Row = intPtr(5) },
			want:   ErrRowOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := testSpec()
			tt.mutate(&spec)
			_, err := NewTable(spec)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestTable_PortPosition(t *testing.T) {
	table, err := NewTable(testSpec())
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}

	tests := []struct {
		port string
		want geometry.Point
	}{
		{"id-in", geometry.Pt(10, 66)},
		{"email-out", geometry.Pt(210, 94)},
		{"header-out", geometry.Pt(210, 34)},
		{"top", geometry.Pt(110, 20)},
		{"bottom", geometry.Pt(110, 112)},
	}

	for _, tt := range tests {
		t.Run(tt.port, func(t *testing.T) {
			got, ok := table.PortPosition(tt.port)
			if !ok {
				t.Fatalf("Port %s not found", tt.port)
			}
			if got != tt.want {
				t.Errorf("PortPosition(%s) = %v, want %v", tt.port, got, tt.want)
			}
		})
	}

	if _, ok := table.PortPosition("missing"); ok {
		t.Error("Expected missing port to be reported")
	}
}

func TestTable_SpreadsTopPorts(t *testing.T) {
	table, err := NewTable(Spec{
		ID:     "t",
		Width:  300,
		Groups: []GroupSpec{{Name: "up", Direction: geometry.Top}},
		Ports: []PortSpec{
			{ID: "a", Group: "up"},
			{ID: "b", Group: "up"},
		},
	})
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}

	a, _ := table.PortPosition("a")
	b, _ := table.PortPosition("b")
	if a != geometry.Pt(100, 0) || b != geometry.Pt(200, 0) {
		t.Errorf("Expected ports at x=100 and x=200, got %v and %v", a, b)
	}
}

func TestTable_SpecPreservesLayout(t *testing.T) {
	table, err := NewTable(testSpec())
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}

	rebuilt, err := NewTable(table.Move(5, 5).Spec())
	if err != nil {
		t.Fatalf("Rebuilding from spec failed: %v", err)
	}

	for _, port := range table.Ports() {
		before, _ := table.PortPosition(port.ID)
		after, _ := rebuilt.PortPosition(port.ID)
		if after != before.Add(5, 5) {
			t.Errorf("Port %s moved to %v, want %v", port.ID, after, before.Add(5, 5))
		}
	}
}

func TestRegistry(t *testing.T) {
	table, err := NewTable(testSpec())
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	reg, err := NewRegistry(table)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	t.Run("PortDirection", func(t *testing.T) {
		dir, err := reg.PortDirection("users", "email-out")
		if err != nil {
			t.Fatalf("PortDirection failed: %v", err)
		}
		if dir != geometry.Right {
			t.Errorf("Expected right, got %v", dir)
		}
	})

	t.Run("lookup errors", func(t *testing.T) {
		if _, err := reg.PortDirection("orders", "x"); !errors.Is(err, ErrShapeNotFound) {
			t.Errorf("Expected ErrShapeNotFound, got %v", err)
		}
		if _, err := reg.PortPosition("users", "x"); !errors.Is(err, ErrPortNotFound) {
			t.Errorf("Expected ErrPortNotFound, got %v", err)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		if err := reg.Add(table); !errors.Is(err, ErrDuplicateID) {
			t.Errorf("Expected ErrDuplicateID, got %v", err)
		}
	})

	t.Run("Move", func(t *testing.T) {
		if _, err := reg.Move("users", 100, 0); err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		pos, err := reg.PortPosition("users", "id-in")
		if err != nil {
			t.Fatalf("PortPosition failed: %v", err)
		}
		if pos != geometry.Pt(110, 66) {
			t.Errorf("Expected port to follow the table, got %v", pos)
		}
	})

	t.Run("concurrent reads", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					reg.PortDirection("users", "id-in")
					reg.Tables()
				}
			}()
		}
		wg.Wait()
	})
}
