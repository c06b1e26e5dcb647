package canvas

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// MatrixCanvas implements a rune matrix-based canvas with high-level drawing
// primitives.
//
// MatrixCanvas is NOT thread-safe for writes. Origin (0,0) is top-left, X
// increases rightward and Y increases downward. All coordinates are in
// character cells.
type MatrixCanvas struct {
	matrix [][]rune
	width  int
	height int
	merger *CharacterMerger
}

// NewMatrixCanvas creates a new canvas with the specified dimensions.
func NewMatrixCanvas(width, height int) (*MatrixCanvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	matrix := make([][]rune, height)
	for y := range matrix {
		matrix[y] = make([]rune, width)
		for x := range matrix[y] {
			matrix[y][x] = ' '
		}
	}

	return &MatrixCanvas{
		matrix: matrix,
		width:  width,
		height: height,
		merger: NewCharacterMerger(),
	}, nil
}

// Size returns the width and height of the canvas.
func (c *MatrixCanvas) Size() (width, height int) {
	return c.width, c.height
}

// Matrix returns direct access to the underlying rune matrix.
func (c *MatrixCanvas) Matrix() [][]rune {
	return c.matrix
}

func (c *MatrixCanvas) inBounds(p Cell) bool {
	return p.X >= 0 && p.X < c.width && p.Y >= 0 && p.Y < c.height
}

// Get returns the character at the given position.
// Returns ' ' (space) if position is out of bounds.
func (c *MatrixCanvas) Get(p Cell) rune {
	if !c.inBounds(p) {
		return ' '
	}
	return c.matrix[p.Y][p.X]
}

// Set places a character at the given position, merging it with whatever is
// already there.
func (c *MatrixCanvas) Set(p Cell, char rune) error {
	if !c.inBounds(p) {
		return ErrOutOfBounds
	}
	c.matrix[p.Y][p.X] = c.merger.Merge(c.matrix[p.Y][p.X], char)
	return nil
}

// setClipped sets a character, silently ignoring positions off the canvas.
func (c *MatrixCanvas) setClipped(p Cell, char rune) {
	_ = c.Set(p, char)
}

// Clear resets the canvas to all spaces.
func (c *MatrixCanvas) Clear() {
	for y := range c.matrix {
		for x := range c.matrix[y] {
			c.matrix[y][x] = ' '
		}
	}
}

// String returns the canvas as a string with newlines. Trailing spaces are
// trimmed from every line.
func (c *MatrixCanvas) String() string {
	var sb strings.Builder
	sb.Grow(c.height * (c.width + 1))

	for y := 0; y < c.height; y++ {
		line := make([]rune, 0, c.width)
		for _, r := range c.matrix[y] {
			if r == '\x00' {
				// Wide character continuation.
				continue
			}
			line = append(line, r)
		}
		sb.WriteString(strings.TrimRight(string(line), " "))
		if y < c.height-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}

// DrawBox draws a rectangle with the specified style. Parts outside the
// canvas are clipped.
func (c *MatrixCanvas) DrawBox(x, y, width, height int, style BoxStyle) error {
	if width < 2 || height < 2 {
		return fmt.Errorf("%w: box %dx%d", ErrInvalidSize, width, height)
	}
	right, bottom := x+width-1, y+height-1

	for i := x + 1; i < right; i++ {
		c.setClipped(Cell{i, y}, style.Horizontal)
		c.setClipped(Cell{i, bottom}, style.Horizontal)
	}
	for i := y + 1; i < bottom; i++ {
		c.setClipped(Cell{x, i}, style.Vertical)
		c.setClipped(Cell{right, i}, style.Vertical)
	}
	c.setClipped(Cell{x, y}, style.TopLeft)
	c.setClipped(Cell{right, y}, style.TopRight)
	c.setClipped(Cell{x, bottom}, style.BottomLeft)
	c.setClipped(Cell{right, bottom}, style.BottomRight)
	return nil
}

// DrawHorizontalLine draws a horizontal line.
func (c *MatrixCanvas) DrawHorizontalLine(x1, y, x2 int, char rune) error {
	if y < 0 || y >= c.height {
		return ErrOutOfBounds
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := max(x1, 0); x <= min(x2, c.width-1); x++ {
		c.matrix[y][x] = c.merger.Merge(c.matrix[y][x], char)
	}
	return nil
}

// DrawVerticalLine draws a vertical line.
func (c *MatrixCanvas) DrawVerticalLine(x, y1, y2 int, char rune) error {
	if x < 0 || x >= c.width {
		return ErrOutOfBounds
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := max(y1, 0); y <= min(y2, c.height-1); y++ {
		c.matrix[y][x] = c.merger.Merge(c.matrix[y][x], char)
	}
	return nil
}

// DrawLine draws a line between two cells using Bresenham's algorithm.
func (c *MatrixCanvas) DrawLine(p1, p2 Cell, char rune) {
	dx := abs(p2.X - p1.X)
	dy := -abs(p2.Y - p1.Y)
	sx, sy := 1, 1
	if p1.X > p2.X {
		sx = -1
	}
	if p1.Y > p2.Y {
		sy = -1
	}

	err := dx + dy
	x, y := p1.X, p1.Y
	for {
		c.setClipped(Cell{x, y}, char)
		if x == p2.X && y == p2.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// DrawText renders text at the specified position. Wide characters take two
// cells; text running off the canvas is clipped.
func (c *MatrixCanvas) DrawText(x, y int, text string) error {
	if y < 0 || y >= c.height {
		return ErrOutOfBounds
	}

	currentX := x
	for _, r := range text {
		width := runewidth.RuneWidth(r)
		if width == 0 {
			continue
		}
		if currentX >= c.width || (width == 2 && currentX+1 >= c.width) {
			break
		}
		if currentX >= 0 {
			c.matrix[y][currentX] = r
			if width == 2 {
				c.matrix[y][currentX+1] = '\x00'
			}
		}
		currentX += width
	}
	return nil
}

// DrawPath draws an orthogonal path through the given cells. Each cell gets
// the line character for the directions the path leaves it in, so bends
// become corners and cells shared with existing lines become junctions.
// Segments that are not axis aligned are drawn as dotted lines. With arrow
// set, the last cell gets an arrow head pointing along the final segment.
func (c *MatrixCanvas) DrawPath(points []Cell, arrow bool) error {
	if len(points) < 2 {
		return ErrShortPath
	}

	masks := make(map[Cell]int)
	var order []Cell
	mark := func(p Cell, bits int) {
		if _, ok := masks[p]; !ok {
			order = append(order, p)
		}
		masks[p] |= bits
	}

	var last, prev Cell
	moved := false
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		if a == b {
			continue
		}
		switch {
		case a.Y == b.Y:
			lo, hi := min(a.X, b.X), max(a.X, b.X)
			for x := lo; x <= hi; x++ {
				bits := 0
				if x < hi {
					bits |= east
				}
				if x > lo {
					bits |= west
				}
				mark(Cell{x, a.Y}, bits)
			}
		case a.X == b.X:
			lo, hi := min(a.Y, b.Y), max(a.Y, b.Y)
			for y := lo; y <= hi; y++ {
				bits := 0
				if y < hi {
					bits |= south
				}
				if y > lo {
					bits |= north
				}
				mark(Cell{a.X, y}, bits)
			}
		default:
			c.DrawLine(a, b, '·')
		}
		prev, last, moved = a, b, true
	}

	for _, p := range order {
		c.setClipped(p, runeForMask(masks[p]))
	}
	if arrow && moved {
		c.setClipped(last, arrowFor(prev, last))
	}
	return nil
}

// abs returns the absolute value of an integer.
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
