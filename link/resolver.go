package link

import (
	"fmt"

	"erd/geometry"
)

// MinVerticalGap is the vertical distance above which a floating endpoint is
// considered to be above or below the other end.
const MinVerticalGap = 30.0

// PortLookup answers the configured direction of a port. shape.Registry
// implements it.
type PortLookup interface {
	PortDirection(shapeID, portID string) (geometry.Direction, error)
}

// Resolver determines the effective direction of a link endpoint.
type Resolver struct {
	ports PortLookup
}

// NewResolver creates a resolver backed by the given port lookup.
func NewResolver(ports PortLookup) *Resolver {
	return &Resolver{ports: ports}
}

// ResolveDirection returns the direction of one end of a link whose source
// and target anchors are given. Attached endpoints use their port group's
// direction. Floating ones, at either end, get the direction of the target
// as seen from the source.
func (r *Resolver) ResolveDirection(end Endpoint, source, target geometry.Point) (geometry.Direction, error) {
	if !end.IsAttached() {
		return InferDirection(source, target), nil
	}
	if r.ports == nil {
		return 0, fmt.Errorf("resolving %s: no port lookup configured", end)
	}
	dir, err := r.ports.PortDirection(end.Shape, end.Port)
	if err != nil {
		return 0, fmt.Errorf("resolving %s: %w", end, err)
	}
	return dir, nil
}

// InferDirection returns where to lies relative to from. A vertical gap
// larger than MinVerticalGap wins; otherwise the horizontal sign decides.
func InferDirection(from, to geometry.Point) geometry.Direction {
	switch {
	case to.Y > from.Y+MinVerticalGap:
		return geometry.Bottom
	case to.Y < from.Y-MinVerticalGap:
		return geometry.Top
	case to.X > from.X:
		return geometry.Right
	default:
		return geometry.Left
	}
}
