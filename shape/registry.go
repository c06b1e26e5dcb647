package shape

import (
	"errors"
	"fmt"
	"sync"

	"erd/geometry"
)

// Lookup errors.
var (
	ErrShapeNotFound = errors.New("shape not found")
	ErrPortNotFound  = errors.New("port not found")
	ErrDuplicateID   = errors.New("duplicate shape id")
)

// Registry owns the tables of a diagram and answers port queries for the
// router. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]Table
	order  []string
}

// NewRegistry creates a registry holding the given tables.
func NewRegistry(tables ...Table) (*Registry, error) {
	r := &Registry{tables: make(map[string]Table, len(tables))}
	for _, t := range tables {
		if err := r.Add(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add registers a table.
func (r *Registry) Add(t Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tables[t.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
	}
	r.tables[t.ID] = t
	r.order = append(r.order, t.ID)
	return nil
}

// Get returns the table with the given id.
func (r *Registry) Get(id string) (Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tables[id]
	return t, ok
}

// Tables returns all tables in insertion order.
func (r *Registry) Tables() []Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tables := make([]Table, 0, len(r.order))
	for _, id := range r.order {
		tables = append(tables, r.tables[id])
	}
	return tables
}

// Len returns the number of tables.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Move translates a table by (dx, dy).
func (r *Registry) Move(id string, dx, dy float64) (Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tables[id]
	if !ok {
		return Table{}, fmt.Errorf("%w: %s", ErrShapeNotFound, id)
	}
	t = t.Move(dx, dy)
	r.tables[id] = t
	return t, nil
}

// lookupPort returns the table and port for a shape/port pair.
func (r *Registry) lookupPort(shapeID, portID string) (Table, Port, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tables[shapeID]
	if !ok {
		return Table{}, Port{}, fmt.Errorf("%w: %s", ErrShapeNotFound, shapeID)
	}
	p, ok := t.Port(portID)
	if !ok {
		return Table{}, Port{}, fmt.Errorf("%w: %s/%s", ErrPortNotFound, shapeID, portID)
	}
	return t, p, nil
}

// PortDirection returns the configured direction of a port's group.
func (r *Registry) PortDirection(shapeID, portID string) (geometry.Direction, error) {
	_, p, err := r.lookupPort(shapeID, portID)
	if err != nil {
		return 0, err
	}
	return p.Group.Direction(), nil
}

// PortPosition returns the current screen position of a port.
func (r *Registry) PortPosition(shapeID, portID string) (geometry.Point, error) {
	t, p, err := r.lookupPort(shapeID, portID)
	if err != nil {
		return geometry.Point{}, err
	}
	pos, _ := t.PortPosition(p.ID)
	return pos, nil
}
