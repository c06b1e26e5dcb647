// Package link models connectors between table ports and classifies how
// far a connector is attached.
package link

import (
	"fmt"

	"erd/geometry"
)

// Endpoint is one end of a link: either attached to a port on a shape, or
// floating at a point (typically while the user is dragging it).
type Endpoint struct {
	Shape string         `json:"shape,omitempty"`
	Port  string         `json:"port,omitempty"`
	Point geometry.Point `json:"point"`
}

// Attached returns an endpoint bound to a port.
func Attached(shapeID, portID string) Endpoint {
	return Endpoint{Shape: shapeID, Port: portID}
}

// Floating returns an endpoint at a bare coordinate.
func Floating(x, y float64) Endpoint {
	return Endpoint{Point: geometry.Pt(x, y)}
}

// IsAttached reports whether the endpoint references a port.
func (e Endpoint) IsAttached() bool {
	return e.Port != ""
}

// String returns "shape/port" for attached endpoints and the point otherwise.
func (e Endpoint) String() string {
	if e.IsAttached() {
		return e.Shape + "/" + e.Port
	}
	return fmt.Sprintf("(%g,%g)", e.Point.X, e.Point.Y)
}

// Link is a connector between two endpoints.
type Link struct {
	ID     string   `json:"id"`
	Source Endpoint `json:"source"`
	Target Endpoint `json:"target"`
	Label  string   `json:"label,omitempty"`
}

// Status describes how many ends of a link are attached to ports.
type Status int

const (
	// None means neither end is attached.
	None Status = iota
	// Connecting means exactly one end is attached, usually mid-drag.
	Connecting
	// Connected means both ends are attached.
	Connected
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case None:
		return "none"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// Classify returns the connection status of a link.
func Classify(l Link) Status {
	switch {
	case l.Source.IsAttached() && l.Target.IsAttached():
		return Connected
	case l.Source.IsAttached() || l.Target.IsAttached():
		return Connecting
	default:
		return None
	}
}
