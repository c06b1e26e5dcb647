// Package routing computes orthogonal connector routes between table ports.
//
// The router is direction aware: every port has a side it protrudes from, and
// routes leave and enter ports along that side, turning only at right angles.
// It does not avoid obstacles and does not minimise bends; for the same
// anchors it always returns the same route.
package routing

import "erd/geometry"

// Route is an ordered list of points joined by straight segments. The first
// point is the source anchor and the last is the target anchor. An empty
// Route tells the renderer to fall back to its default connector geometry.
type Route struct {
	Points []geometry.Point `json:"points"`
}

// IsEmpty returns true if the route has no points.
func (r Route) IsEmpty() bool {
	return len(r.Points) == 0
}

// Len returns the number of points in the route.
func (r Route) Len() int {
	return len(r.Points)
}

// Bends returns the number of interior points where the route turns.
func (r Route) Bends() int {
	bends := 0
	for i := 1; i+1 < len(r.Points); i++ {
		prev, cur, next := r.Points[i-1], r.Points[i], r.Points[i+1]
		horizontalIn := prev.Y == cur.Y
		horizontalOut := cur.Y == next.Y
		if horizontalIn != horizontalOut {
			bends++
		}
	}
	return bends
}

// IsOrthogonal reports whether every segment is strictly horizontal or vertical.
func (r Route) IsOrthogonal() bool {
	for i := 1; i < len(r.Points); i++ {
		if !geometry.IsAxisAligned(r.Points[i-1], r.Points[i]) {
			return false
		}
	}
	return true
}

// Clone returns a copy that does not share the point slice.
func (r Route) Clone() Route {
	if r.Points == nil {
		return Route{}
	}
	return Route{Points: append([]geometry.Point(nil), r.Points...)}
}

func reversePoints(points []geometry.Point) {
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
}
