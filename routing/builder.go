package routing

import (
	"errors"
	"fmt"
	"math"

	"erd/geometry"
)

// Builder errors.
var (
	// ErrInvalidDirection is returned when an anchor has no usable direction.
	ErrInvalidDirection = errors.New("anchor has no direction")
	// ErrNoProgress means the walk did not reach its stop point within the
	// step budget. It indicates a defect in the step rules, not bad input.
	ErrNoProgress = errors.New("orthogonal walk made no progress")
)

// Builder produces axis-aligned paths between two anchors. It holds no state
// between calls.
type Builder struct {
	cfg Config
}

// NewBuilder creates a builder with the given constants.
func NewBuilder(cfg Config) *Builder {
	return &Builder{cfg: cfg}
}

// BuildPath walks from the from anchor toward the to anchor, turning only at
// right angles, and returns the visited points in walk order. The first point
// is from.Point and the last is to.Point.
//
// At every step the walk travels in its current direction and picks the next
// elbow from the relative position of the stop point and the direction the
// stop point must be entered from. The walk ends once it is within
// CoincidentTolerance of the stop point.
func (b *Builder) BuildPath(from, to geometry.Anchor) ([]geometry.Point, error) {
	if !from.Direction.Valid() || !to.Direction.Valid() {
		return nil, fmt.Errorf("%w: %v -> %v", ErrInvalidDirection, from, to)
	}

	budget := int(geometry.ManhattanDistance(from.Point, to.Point)/b.cfg.StubLength) + b.cfg.StepSlack

	points := []geometry.Point{from.Point}
	cur, dir := from.Point, from.Direction
	for steps := 0; ; steps++ {
		if cur.ApproxEqual(to.Point, b.cfg.CoincidentTolerance) {
			return connect(points, to.Point, dir), nil
		}
		if steps >= budget {
			return nil, fmt.Errorf("%w: %v -> %v stuck at %v after %d steps", ErrNoProgress, from, to, cur, steps)
		}

		next, nextDir := b.step(cur, dir, to)
		points = connect(points, next, dir)
		cur, dir = next, nextDir
	}
}

// step computes the next elbow and the direction the walk continues in.
func (b *Builder) step(cur geometry.Point, dir geometry.Direction, stop geometry.Anchor) (geometry.Point, geometry.Direction) {
	stub := b.cfg.StubLength
	dx := cur.X - stop.Point.X
	dy := cur.Y - stop.Point.Y

	switch dir {
	case geometry.Left, geometry.Right:
		// Facing ports on the same row join directly.
		toward := (dir == geometry.Left && dx > 0) || (dir == geometry.Right && dx < 0)
		if toward && dy*dy < b.cfg.AlignTolerance && stop.Direction == dir.Opposite() {
			return stop.Point, stop.Direction
		}

		var next geometry.Point
		switch {
		case dir == geometry.Left && dx < 0:
			next = geometry.Pt(cur.X-stub, cur.Y)
		case dir == geometry.Right && dx > 0:
			next = geometry.Pt(cur.X+stub, cur.Y)
		case (dy > 0 && stop.Direction == geometry.Bottom) || (dy < 0 && stop.Direction == geometry.Top):
			next = geometry.Pt(stop.Point.X, cur.Y)
		case dir == stop.Direction && dir == geometry.Left:
			next = geometry.Pt(math.Min(cur.X, stop.Point.X)-stub, cur.Y)
		case dir == stop.Direction:
			next = geometry.Pt(math.Max(cur.X, stop.Point.X)+stub, cur.Y)
		default:
			next = geometry.Pt(cur.X-dx/2, cur.Y)
		}
		if dy > 0 {
			return next, geometry.Top
		}
		return next, geometry.Bottom

	case geometry.Top, geometry.Bottom:
		toward := (dir == geometry.Top && dy > 0) || (dir == geometry.Bottom && dy < 0)
		if toward && dx*dx < b.cfg.AlignTolerance && stop.Direction == dir.Opposite() {
			return stop.Point, stop.Direction
		}

		var next geometry.Point
		switch {
		case dir == geometry.Top && dy < 0:
			next = geometry.Pt(cur.X, cur.Y-stub)
		case dir == geometry.Bottom && dy > 0:
			next = geometry.Pt(cur.X, cur.Y+stub)
		case (dx > 0 && stop.Direction == geometry.Right) || (dx < 0 && stop.Direction == geometry.Left):
			next = geometry.Pt(cur.X, stop.Point.Y)
		case dir == stop.Direction && dir == geometry.Top:
			next = geometry.Pt(cur.X, math.Min(cur.Y, stop.Point.Y)-stub)
		case dir == stop.Direction:
			next = geometry.Pt(cur.X, math.Max(cur.Y, stop.Point.Y)+stub)
		default:
			next = geometry.Pt(cur.X, cur.Y-dy/2)
		}
		if dx > 0 {
			return next, geometry.Left
		}
		return next, geometry.Right
	}

	// Unreachable: BuildPath rejects invalid directions.
	return cur, dir
}

// connect appends p to points. Zero-length moves are dropped, and a move
// that is off-axis by a tolerance-sized amount gets a jog at its midpoint so
// every segment stays horizontal or vertical.
func connect(points []geometry.Point, p geometry.Point, dir geometry.Direction) []geometry.Point {
	last := points[len(points)-1]
	if p == last {
		return points
	}
	if last.X != p.X && last.Y != p.Y {
		if dir.IsHorizontal() {
			mid := (last.X + p.X) / 2
			points = append(points, geometry.Pt(mid, last.Y), geometry.Pt(mid, p.Y))
		} else {
			mid := (last.Y + p.Y) / 2
			points = append(points, geometry.Pt(last.X, mid), geometry.Pt(p.X, mid))
		}
	}
	return append(points, p)
}
