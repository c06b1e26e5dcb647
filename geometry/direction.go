package geometry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDirection is returned when a direction spelling cannot be normalized.
var ErrUnknownDirection = errors.New("unknown direction")

// Direction is the side of a shape a port protrudes from, and the way a path
// segment travels. The zero value is unspecified and never a valid direction.
type Direction int

const (
	Left Direction = iota + 1
	Right
	Top
	Bottom
)

// Directions lists the four valid directions.
var Directions = [...]Direction{Left, Right, Top, Bottom}

// ParseDirection normalizes a direction spelling. "up" and "down" are the
// same directions as "top" and "bottom".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "west", "w":
		return Left, nil
	case "right", "east", "e":
		return Right, nil
	case "top", "up", "north", "n":
		return Top, nil
	case "bottom", "down", "south", "s":
		return Bottom, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
}

// String returns the canonical spelling of a Direction.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	default:
		return "unspecified"
	}
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= Left && d <= Bottom
}

// Opposite returns the opposite direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	case Top:
		return Bottom
	case Bottom:
		return Top
	default:
		return d
	}
}

// IsOpposite reports whether d and o point in opposite directions.
func (d Direction) IsOpposite(o Direction) bool {
	return d.Valid() && d.Opposite() == o
}

// IsPerpendicular reports whether one of d, o is horizontal and the other vertical.
func (d Direction) IsPerpendicular(o Direction) bool {
	return d.Valid() && o.Valid() && d.IsHorizontal() != o.IsHorizontal()
}

// IsHorizontal reports whether d is Left or Right.
func (d Direction) IsHorizontal() bool {
	return d == Left || d == Right
}

// IsVertical reports whether d is Top or Bottom.
func (d Direction) IsVertical() bool {
	return d == Top || d == Bottom
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDirection, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Anchor is a point together with the direction a path leaves it (source)
// or arrives into it (target).
type Anchor struct {
	Point     Point     `json:"point"`
	Direction Direction `json:"direction"`
}

// String returns a compact representation, e.g. "(10,20)right".
func (a Anchor) String() string {
	return fmt.Sprintf("(%g,%g)%s", a.Point.X, a.Point.Y, a.Direction)
}
