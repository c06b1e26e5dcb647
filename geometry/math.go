// Package geometry contains the value types shared by the shape model, the
// connector router and the renderers.
package geometry

import "math"

// Point is a position on the drawing surface. Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// SquaredDistance returns the squared euclidean distance between p and q.
func (p Point) SquaredDistance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// ApproxEqual reports whether p and q are within tol (squared units) of each other.
func (p Point) ApproxEqual(q Point, tol float64) bool {
	return p.SquaredDistance(q) < tol
}

// ManhattanDistance calculates the Manhattan distance between two points.
func ManhattanDistance(a, b Point) float64 {
	return math.Abs(b.X-a.X) + math.Abs(b.Y-a.Y)
}

// IsAxisAligned reports whether the segment a-b is strictly horizontal or
// strictly vertical. A zero-length segment is not axis aligned.
func IsAxisAligned(a, b Point) bool {
	return (a.X == b.X) != (a.Y == b.Y)
}

// Bounds represents a rectangular area.
type Bounds struct {
	Min, Max Point
}

// Width returns the width of the bounds.
func (b Bounds) Width() float64 {
	return b.Max.X - b.Min.X
}

// Height returns the height of the bounds.
func (b Bounds) Height() float64 {
	return b.Max.Y - b.Min.Y
}

// Contains checks if a point is within the bounds.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Extend grows b so that it contains p.
func (b Bounds) Extend(p Point) Bounds {
	return Bounds{
		Min: Point{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y)},
		Max: Point{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y)},
	}
}

// Union returns the smallest bounds containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return b.Extend(o.Min).Extend(o.Max)
}

// BoundsOf returns the bounds of the given points. The zero Bounds is
// returned for an empty slice.
func BoundsOf(points ...Point) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	return b
}
