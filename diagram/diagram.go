package diagram

import (
	"errors"
	"fmt"
	"sync"

	"erd/geometry"
	"erd/link"
	"erd/routing"
	"erd/shape"
)

// Diagram errors.
var (
	ErrDanglingEndpoint = errors.New("endpoint references an unknown port")
	ErrLinkNotFound     = errors.New("link not found")
)

// LinkRouter computes the route of one link. *routing.Router implements it.
type LinkRouter interface {
	Route(l link.Link, source, target geometry.Point) (routing.Route, error)
}

// Diagram is a set of tables and the links between their ports.
type Diagram struct {
	Name string

	shapes *shape.Registry

	mu    sync.RWMutex
	links []link.Link
	index map[string]int
}

// New builds a diagram from a document. Table configuration errors and links
// pointing at unknown ports are reported here, before anything is routed.
func New(doc Document) (*Diagram, error) {
	tables := make([]shape.Table, 0, len(doc.Tables))
	for _, spec := range doc.Tables {
		t, err := shape.NewTable(spec)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	shapes, err := shape.NewRegistry(tables...)
	if err != nil {
		return nil, err
	}

	links := append([]link.Link(nil), doc.Links...)
	EnsureUniqueLinkIDs(&Document{Links: links})

	d := &Diagram{
		Name:   doc.Name,
		shapes: shapes,
		links:  links,
		index:  linkIndex(links),
	}
	for _, l := range links {
		if err := d.checkLink(l); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// checkLink verifies that attached endpoints reference existing ports.
func (d *Diagram) checkLink(l link.Link) error {
	for _, end := range []link.Endpoint{l.Source, l.Target} {
		if !end.IsAttached() {
			continue
		}
		if _, err := d.shapes.PortPosition(end.Shape, end.Port); err != nil {
			return fmt.Errorf("link %s: %w: %v", l.ID, ErrDanglingEndpoint, err)
		}
	}
	return nil
}

// Document returns the serialized form of the diagram.
func (d *Diagram) Document() Document {
	doc := Document{Name: d.Name}
	for _, t := range d.shapes.Tables() {
		doc.Tables = append(doc.Tables, t.Spec())
	}
	doc.Links = d.Links()
	return doc
}

// Shapes returns the table registry. It also answers port directions for a
// router.
func (d *Diagram) Shapes() *shape.Registry {
	return d.shapes
}

// Links returns a copy of the links in declaration order.
func (d *Diagram) Links() []link.Link {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]link.Link(nil), d.links...)
}

// Link returns the link with the given id.
func (d *Diagram) Link(id string) (link.Link, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	i, ok := d.index[id]
	if !ok {
		return link.Link{}, false
	}
	return d.links[i], true
}

// SetLink replaces a link's endpoints, as the viewer does while a target is
// dragged and re-attached.
func (d *Diagram) SetLink(l link.Link) error {
	if err := d.checkLink(l); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	i, ok := d.index[l.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrLinkNotFound, l.ID)
	}
	d.links[i] = l
	return nil
}

// MoveTable translates a table. Routes must be recomputed afterwards.
func (d *Diagram) MoveTable(id string, dx, dy float64) error {
	_, err := d.shapes.Move(id, dx, dy)
	return err
}

// Anchor returns the current anchor point of an endpoint: the port position
// for attached endpoints, the stored point otherwise.
func (d *Diagram) Anchor(end link.Endpoint) (geometry.Point, error) {
	if !end.IsAttached() {
		return end.Point, nil
	}
	return d.shapes.PortPosition(end.Shape, end.Port)
}

// Anchors returns the source and target anchor points of a link.
func (d *Diagram) Anchors(l link.Link) (source, target geometry.Point, err error) {
	source, err = d.Anchor(l.Source)
	if err != nil {
		return geometry.Point{}, geometry.Point{}, fmt.Errorf("link %s source: %w", l.ID, err)
	}
	target, err = d.Anchor(l.Target)
	if err != nil {
		return geometry.Point{}, geometry.Point{}, fmt.Errorf("link %s target: %w", l.ID, err)
	}
	return source, target, nil
}

// RoutedLink is a link together with the geometry computed for it.
type RoutedLink struct {
	Link   link.Link
	Status link.Status
	Route  routing.Route
	Source geometry.Point
	Target geometry.Point
}

// Polyline returns the points to draw: the route when there is one, the
// straight fallback between the anchors otherwise.
func (rl RoutedLink) Polyline() []geometry.Point {
	if !rl.Route.IsEmpty() {
		return rl.Route.Points
	}
	return []geometry.Point{rl.Source, rl.Target}
}

// RouteAll routes every link from scratch, in declaration order.
func (d *Diagram) RouteAll(r LinkRouter) ([]RoutedLink, error) {
	links := d.Links()
	routed := make([]RoutedLink, 0, len(links))
	for _, l := range links {
		source, target, err := d.Anchors(l)
		if err != nil {
			return nil, err
		}
		route, err := r.Route(l, source, target)
		if err != nil {
			return nil, err
		}
		routed = append(routed, RoutedLink{
			Link:   l,
			Status: link.Classify(l),
			Route:  route,
			Source: source,
			Target: target,
		})
	}
	return routed, nil
}

// Bounds returns the area covered by all tables and routed links.
func (d *Diagram) Bounds(routed []RoutedLink) geometry.Bounds {
	var (
		bounds geometry.Bounds
		empty  = true
	)
	add := func(b geometry.Bounds) {
		if empty {
			bounds, empty = b, false
			return
		}
		bounds = bounds.Union(b)
	}
	for _, t := range d.shapes.Tables() {
		add(t.Bounds())
	}
	for _, rl := range routed {
		add(geometry.BoundsOf(rl.Polyline()...))
	}
	return bounds
}
