// Package canvas provides a 2D character grid and draws diagrams onto it.
package canvas

import "errors"

// Common errors
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrInvalidSize = errors.New("invalid canvas size")
	ErrShortPath   = errors.New("path must have at least 2 points")
)

// Cell is a position on the grid, in character cells.
type Cell struct {
	X, Y int
}

// BoxStyle defines the characters used to draw a box.
type BoxStyle struct {
	TopLeft     rune
	TopRight    rune
	BottomLeft  rune
	BottomRight rune
	Horizontal  rune
	Vertical    rune
}

// Predefined box styles
var (
	// DefaultBoxStyle uses square corners so that ports merge into T-junctions.
	DefaultBoxStyle = BoxStyle{
		TopLeft:     '┌',
		TopRight:    '┐',
		BottomLeft:  '└',
		BottomRight: '┘',
		Horizontal:  '─',
		Vertical:    '│',
	}

	// DoubleBoxStyle marks the selected table in the viewer.
	DoubleBoxStyle = BoxStyle{
		TopLeft:     '╔',
		TopRight:    '╗',
		BottomLeft:  '╚',
		BottomRight: '╝',
		Horizontal:  '═',
		Vertical:    '║',
	}
)
