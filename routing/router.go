package routing

import (
	"fmt"
	"log/slog"

	"erd/geometry"
	"erd/link"
)

// Router turns a link and its current anchor points into a route.
type Router struct {
	cfg      Config
	builder  *Builder
	resolver *link.Resolver
	cache    *Cache
	logger   *slog.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithConfig overrides the routing constants.
func WithConfig(cfg Config) Option {
	return func(r *Router) { r.cfg = cfg }
}

// WithCache memoizes routes by anchor pair. A size of zero or less disables it.
func WithCache(size int) Option {
	return func(r *Router) {
		if size > 0 {
			r.cache = NewCache(size)
		} else {
			r.cache = nil
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) { r.logger = logger }
}

// NewRouter creates a router resolving port directions through ports.
func NewRouter(ports link.PortLookup, opts ...Option) (*Router, error) {
	r := &Router{
		cfg:      DefaultConfig(),
		resolver: link.NewResolver(ports),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}
	r.builder = NewBuilder(r.cfg)
	return r, nil
}

// Config returns the routing constants in use.
func (r *Router) Config() Config {
	return r.cfg
}

// Cache returns the route cache, or nil when caching is disabled.
func (r *Router) Cache() *Cache {
	return r.cache
}

// Route computes the route of l given the current source and target anchor
// points. Links that are not attached at both ends get an empty route and a
// nil error; the caller draws its fallback connector for those.
func (r *Router) Route(l link.Link, source, target geometry.Point) (Route, error) {
	status := link.Classify(l)
	if status != link.Connected {
		r.logger.Debug("link not routable", "link", l.ID, "status", status)
		return Route{}, nil
	}

	srcDir, err := r.resolver.ResolveDirection(l.Source, source, target)
	if err != nil {
		return Route{}, fmt.Errorf("link %s: %w", l.ID, err)
	}
	trgDir, err := r.resolver.ResolveDirection(l.Target, source, target)
	if err != nil {
		return Route{}, fmt.Errorf("link %s: %w", l.ID, err)
	}

	route, err := r.RouteAnchors(
		geometry.Anchor{Point: source, Direction: srcDir},
		geometry.Anchor{Point: target, Direction: trgDir},
	)
	if err != nil {
		return Route{}, fmt.Errorf("link %s: %w", l.ID, err)
	}

	r.logger.Debug("routed link", "link", l.ID, "source", srcDir, "target", trgDir,
		"points", route.Len(), "bends", route.Bends())
	return route, nil
}

// RouteAnchors computes the route between two resolved anchors. The walk runs
// backward from the target to the source and is then reversed, so the route
// starts at the source anchor.
func (r *Router) RouteAnchors(source, target geometry.Anchor) (Route, error) {
	if r.cache != nil {
		if route, ok := r.cache.Get(source, target); ok {
			return route, nil
		}
	}

	points, err := r.builder.BuildPath(target, source)
	if err != nil {
		return Route{}, err
	}
	reversePoints(points)
	route := Route{Points: points}

	if r.cache != nil {
		r.cache.Put(source, target, route)
	}
	return route, nil
}
