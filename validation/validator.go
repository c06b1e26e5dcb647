package validation

import (
	"fmt"

	"erd/diagram"
	"erd/geometry"
	"erd/link"
)

// endpointTolerance is the squared distance under which a route end counts
// as sitting on its anchor.
const endpointTolerance = 1e-6

// RouteValidator checks computed routes for geometric defects: ends that
// miss their anchors, diagonal or zero-length segments, and routes on links
// that should not have one.
type RouteValidator struct {
	errors []ValidationError
}

// ValidationError represents a validation error with location information.
// Segment is the index of the offending segment, -1 when the error concerns
// the route as a whole.
type ValidationError struct {
	Link    string
	Segment int
	Message string
}

// NewRouteValidator creates a new validator.
func NewRouteValidator() *RouteValidator {
	return &RouteValidator{}
}

// Validate checks every routed link and returns the errors found.
func (v *RouteValidator) Validate(routed []diagram.RoutedLink) []ValidationError {
	v.errors = nil
	for _, rl := range routed {
		v.checkLink(rl)
	}
	return v.errors
}

func (v *RouteValidator) checkLink(rl diagram.RoutedLink) {
	id := rl.Link.ID
	points := rl.Route.Points

	if rl.Status != link.Connected {
		if len(points) > 0 {
			v.addError(id, -1, "%s link has a route of %d points", rl.Status, len(points))
		}
		return
	}
	if len(points) == 0 {
		v.addError(id, -1, "connected link has no route")
		return
	}

	if !points[0].ApproxEqual(rl.Source, endpointTolerance) {
		v.addError(id, -1, "route starts at %v, source anchor is %v", points[0], rl.Source)
	}
	if last := points[len(points)-1]; !last.ApproxEqual(rl.Target, endpointTolerance) {
		v.addError(id, -1, "route ends at %v, target anchor is %v", last, rl.Target)
	}

	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		switch {
		case a == b:
			v.addError(id, i, "zero-length segment at %v", a)
		case !geometry.IsAxisAligned(a, b):
			v.addError(id, i, "segment %v -> %v is not axis aligned", a, b)
		}
	}
}

// addError adds a validation error.
func (v *RouteValidator) addError(linkID string, segment int, format string, args ...interface{}) {
	v.errors = append(v.errors, ValidationError{
		Link:    linkID,
		Segment: segment,
		Message: fmt.Sprintf(format, args...),
	})
}

// String formats validation errors as a string.
func (e ValidationError) String() string {
	if e.Segment < 0 {
		return fmt.Sprintf("[%s]: %s", e.Link, e.Message)
	}
	return fmt.Sprintf("[%s] segment %d: %s", e.Link, e.Segment, e.Message)
}
