package routing

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid routing config")

// Config holds the routing constants.
type Config struct {
	// StubLength is how far a path travels out of a port before it may turn.
	StubLength float64 `json:"stubLength"`
	// AlignTolerance is the squared offset under which two facing ports count
	// as collinear and are joined with a single segment.
	AlignTolerance float64 `json:"alignTolerance"`
	// CoincidentTolerance is the squared distance under which the walk has
	// reached its stop point.
	CoincidentTolerance float64 `json:"coincidentTolerance"`
	// StepSlack is added to ManhattanDistance/StubLength to bound the walk.
	StepSlack int `json:"stepSlack"`
}

// DefaultConfig returns the standard routing constants.
func DefaultConfig() Config {
	return Config{
		StubLength:          20,
		AlignTolerance:      0.1,
		CoincidentTolerance: 0.01,
		StepSlack:           128,
	}
}

// Validate checks that every constant is usable.
func (c Config) Validate() error {
	switch {
	case c.StubLength <= 0:
		return fmt.Errorf("%w: stub length %v must be positive", ErrInvalidConfig, c.StubLength)
	case c.AlignTolerance <= 0:
		return fmt.Errorf("%w: align tolerance %v must be positive", ErrInvalidConfig, c.AlignTolerance)
	case c.CoincidentTolerance <= 0:
		return fmt.Errorf("%w: coincident tolerance %v must be positive", ErrInvalidConfig, c.CoincidentTolerance)
	case c.StepSlack < 1:
		return fmt.Errorf("%w: step slack %d must be at least 1", ErrInvalidConfig, c.StepSlack)
	}
	return nil
}
