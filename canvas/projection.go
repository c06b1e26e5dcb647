package canvas

import (
	"math"

	"erd/geometry"
)

// Default cell size in world units. A 28 unit table row spans two lines.
const (
	DefaultScaleX = 10
	DefaultScaleY = 14
)

// Projection maps world coordinates to grid cells: a cell is ScaleX world
// units wide and ScaleY tall, and (OffsetX, OffsetY) lands on cell (0,0).
type Projection struct {
	ScaleX, ScaleY   float64
	OffsetX, OffsetY float64
}

// DefaultProjection returns an unshifted projection with the default scale.
func DefaultProjection() Projection {
	return Projection{ScaleX: DefaultScaleX, ScaleY: DefaultScaleY}
}

// FitProjection returns a projection placing the top-left corner of b margin
// cells away from the canvas origin.
func FitProjection(b geometry.Bounds, scaleX, scaleY float64, margin int) Projection {
	return Projection{
		ScaleX:  scaleX,
		ScaleY:  scaleY,
		OffsetX: b.Min.X - float64(margin)*scaleX,
		OffsetY: b.Min.Y - float64(margin)*scaleY,
	}
}

// Cell returns the cell nearest to p.
func (p Projection) Cell(pt geometry.Point) Cell {
	return Cell{
		X: int(math.Round((pt.X - p.OffsetX) / p.ScaleX)),
		Y: int(math.Round((pt.Y - p.OffsetY) / p.ScaleY)),
	}
}

// Cells projects a polyline.
func (p Projection) Cells(points []geometry.Point) []Cell {
	cells := make([]Cell, len(points))
	for i, pt := range points {
		cells[i] = p.Cell(pt)
	}
	return cells
}

// Pan shifts the view by the given number of cells.
func (p Projection) Pan(dx, dy int) Projection {
	p.OffsetX += float64(dx) * p.ScaleX
	p.OffsetY += float64(dy) * p.ScaleY
	return p
}
