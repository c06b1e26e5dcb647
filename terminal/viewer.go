// Package terminal provides an interactive tcell viewer that re-routes every
// link as tables are moved around or link ends are dragged between ports.
package terminal

import (
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"erd/canvas"
	"erd/diagram"
	"erd/geometry"
	"erd/link"
)

var (
	statusStyle = tcell.StyleDefault.Reverse(true)
	errorStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed).Reverse(true)
	arrowStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// Viewer shows a diagram on a terminal screen and lets the user move tables
// and re-attach link targets.
type Viewer struct {
	screen   tcell.Screen
	diagram  *diagram.Diagram
	router   diagram.LinkRouter
	proj     canvas.Projection
	filename string
	logger   *slog.Logger

	selected int
	current  int // selected link index, -1 for none
	dragging bool
	origin   link.Link // link as it was before the drag
	routed   []diagram.RoutedLink
	message  string
	failed   bool
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithFilename sets the file written by the save key.
func WithFilename(path string) Option {
	return func(v *Viewer) { v.filename = path }
}

// WithProjection sets the initial view.
func WithProjection(p canvas.Projection) Option {
	return func(v *Viewer) { v.proj = p }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Viewer) { v.logger = logger }
}

// New creates a viewer drawing on an initialized screen.
func New(screen tcell.Screen, d *diagram.Diagram, r diagram.LinkRouter, opts ...Option) *Viewer {
	v := &Viewer{
		screen:  screen,
		diagram: d,
		router:  r,
		proj:    canvas.DefaultProjection(),
		logger:  slog.Default(),
		current: -1,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Run routes, draws and handles events until the user quits. The caller owns
// the screen and finalizes it.
func (v *Viewer) Run() error {
	if err := v.Reroute(); err != nil {
		return err
	}
	v.Draw()

	for {
		switch ev := v.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			if v.HandleKey(ev) {
				return nil
			}
		}
		v.Draw()
	}
}

// Selected returns the id of the selected table.
func (v *Viewer) Selected() string {
	tables := v.diagram.Shapes().Tables()
	if len(tables) == 0 {
		return ""
	}
	return tables[v.selected%len(tables)].ID
}

// SelectedLink returns the id of the selected link, empty when none is.
func (v *Viewer) SelectedLink() string {
	links := v.diagram.Links()
	if v.current < 0 || v.current >= len(links) {
		return ""
	}
	return links[v.current].ID
}

// Dragging reports whether the selected link's target is being dragged.
func (v *Viewer) Dragging() bool {
	return v.dragging
}

// Routed returns the routes of the last routing pass.
func (v *Viewer) Routed() []diagram.RoutedLink {
	return v.routed
}

// Projection returns the current view.
func (v *Viewer) Projection() canvas.Projection {
	return v.proj
}

// Reroute recomputes every link from the current table positions.
func (v *Viewer) Reroute() error {
	routed, err := v.diagram.RouteAll(v.router)
	if err != nil {
		return fmt.Errorf("routing: %w", err)
	}
	v.routed = routed
	return nil
}

// HandleKey applies one key press and reports whether the viewer should quit.
func (v *Viewer) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyTab:
		v.cycle(1)
	case tcell.KeyBacktab:
		v.cycle(-1)
	case tcell.KeyLeft:
		v.arrow(-1, 0)
	case tcell.KeyRight:
		v.arrow(1, 0)
	case tcell.KeyUp:
		v.arrow(0, -1)
	case tcell.KeyDown:
		v.arrow(0, 1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'h':
			v.proj = v.proj.Pan(-1, 0)
		case 'l':
			v.proj = v.proj.Pan(1, 0)
		case 'k':
			v.proj = v.proj.Pan(0, -1)
		case 'j':
			v.proj = v.proj.Pan(0, 1)
		case 's':
			v.save()
		case 'n':
			v.cycleLink(1)
		case 'p':
			v.cycleLink(-1)
		case 'd':
			v.detach()
		case 'a':
			v.attach()
		case 'c':
			v.cancelDrag()
		}
	}
	return false
}

func (v *Viewer) cycle(step int) {
	n := v.diagram.Shapes().Len()
	if n == 0 {
		return
	}
	v.selected = ((v.selected+step)%n + n) % n
	v.setMessage(fmt.Sprintf("selected %s", v.Selected()), false)
}

// arrow moves the dragged link end, or the selected table otherwise.
func (v *Viewer) arrow(dx, dy int) {
	if v.dragging {
		v.drag(dx, dy)
		return
	}
	v.move(dx, dy)
}

// move shifts the selected table by whole cells and routes again.
func (v *Viewer) move(dx, dy int) {
	id := v.Selected()
	if id == "" {
		return
	}
	if err := v.diagram.MoveTable(id, float64(dx)*v.proj.ScaleX, float64(dy)*v.proj.ScaleY); err != nil {
		v.setMessage(err.Error(), true)
		return
	}
	if err := v.Reroute(); err != nil {
		v.setMessage(err.Error(), true)
		return
	}
	v.logger.Debug("table moved", "table", id, "dx", dx, "dy", dy)
}

func (v *Viewer) cycleLink(step int) {
	if v.dragging {
		v.setMessage("attach or cancel the dragged link first", true)
		return
	}
	n := len(v.diagram.Links())
	if n == 0 {
		return
	}
	if v.current < 0 && step < 0 {
		v.current = 0
	}
	v.current = ((v.current+step)%n + n) % n
	v.setMessage(fmt.Sprintf("link %s", v.SelectedLink()), false)
}

// detach releases the target of the selected link at its current anchor,
// leaving the link connecting until it is attached again.
func (v *Viewer) detach() {
	l, ok := v.diagram.Link(v.SelectedLink())
	if !ok {
		v.setMessage("no link selected", true)
		return
	}
	if v.dragging {
		return
	}
	at, err := v.diagram.Anchor(l.Target)
	if err != nil {
		v.setMessage(err.Error(), true)
		return
	}

	v.origin = l
	l.Target = link.Floating(at.X, at.Y)
	if !v.update(l) {
		return
	}
	v.dragging = true
	v.setMessage(fmt.Sprintf("dragging %s", l.ID), false)
}

// drag moves the floating target by whole cells.
func (v *Viewer) drag(dx, dy int) {
	l, ok := v.diagram.Link(v.SelectedLink())
	if !ok {
		return
	}
	l.Target = link.Floating(
		l.Target.Point.X+float64(dx)*v.proj.ScaleX,
		l.Target.Point.Y+float64(dy)*v.proj.ScaleY,
	)
	v.update(l)
}

// attach binds the dragged target to the port nearest to it. Ports of a
// table the end was dropped on win over closer ports elsewhere.
func (v *Viewer) attach() {
	if !v.dragging {
		v.setMessage("no link end is being dragged", true)
		return
	}
	l, ok := v.diagram.Link(v.SelectedLink())
	if !ok {
		return
	}

	shapeID, portID, ok := v.nearestPort(l.Target.Point, l.Source)
	if !ok {
		v.setMessage("no port to attach to", true)
		return
	}
	l.Target = link.Attached(shapeID, portID)
	if !v.update(l) {
		return
	}
	v.dragging = false
	v.setMessage(fmt.Sprintf("attached %s to %s", l.ID, l.Target), false)
	v.logger.Debug("link attached", "link", l.ID, "target", l.Target.String())
}

// cancelDrag restores the link as it was before it was detached.
func (v *Viewer) cancelDrag() {
	if !v.dragging {
		return
	}
	if v.update(v.origin) {
		v.dragging = false
		v.setMessage(fmt.Sprintf("restored %s", v.origin.ID), false)
	}
}

func (v *Viewer) nearestPort(at geometry.Point, exclude link.Endpoint) (string, string, bool) {
	var (
		bestShape, bestPort string
		bestDist            float64
		bestInside, found   bool
	)
	for _, t := range v.diagram.Shapes().Tables() {
		inside := t.Bounds().Contains(at)
		if bestInside && !inside {
			continue
		}
		for _, p := range t.Ports() {
			if t.ID == exclude.Shape && p.ID == exclude.Port {
				continue
			}
			pos, _ := t.PortPosition(p.ID)
			dist := pos.SquaredDistance(at)
			if found && inside == bestInside && dist >= bestDist {
				continue
			}
			bestShape, bestPort, bestDist = t.ID, p.ID, dist
			bestInside, found = inside, true
		}
	}
	return bestShape, bestPort, found
}

// update stores l and routes again, reporting success.
func (v *Viewer) update(l link.Link) bool {
	if err := v.diagram.SetLink(l); err != nil {
		v.setMessage(err.Error(), true)
		return false
	}
	if err := v.Reroute(); err != nil {
		v.setMessage(err.Error(), true)
		return false
	}
	return true
}

func (v *Viewer) save() {
	if v.filename == "" {
		v.setMessage("no file to save to", true)
		return
	}
	if err := v.diagram.Save(v.filename); err != nil {
		v.setMessage(err.Error(), true)
		return
	}
	v.setMessage(fmt.Sprintf("saved %s", v.filename), false)
}

func (v *Viewer) linkStatus(id string) link.Status {
	for _, rl := range v.routed {
		if rl.Link.ID == id {
			return rl.Status
		}
	}
	return link.None
}

func (v *Viewer) setMessage(msg string, failed bool) {
	v.message = msg
	v.failed = failed
	if failed {
		v.logger.Warn("viewer", "error", msg)
	}
}

// Draw renders the diagram and the status line.
func (v *Viewer) Draw() {
	v.screen.Clear()
	w, h := v.screen.Size()
	if h > 1 {
		if c, err := canvas.NewMatrixCanvas(w, h-1); err == nil {
			canvas.Draw(c, v.diagram, v.routed, v.proj, v.Selected())
			v.blit(c)
		}
	}
	v.drawStatus(w, h-1)
	v.screen.Show()
}

func (v *Viewer) blit(c *canvas.MatrixCanvas) {
	for y, row := range c.Matrix() {
		for x, r := range row {
			if r == ' ' || r == '\x00' {
				continue
			}
			style := tcell.StyleDefault
			switch r {
			case '▶', '◀', '▲', '▼':
				style = arrowStyle
			}
			v.screen.SetContent(x, y, r, nil, style)
		}
	}
}

func (v *Viewer) drawStatus(w, y int) {
	if y < 0 {
		return
	}
	name := v.filename
	if name == "" {
		name = "untitled"
	}
	line := fmt.Sprintf("[ %s ] Tables: %d | Links: %d | Selected: %s",
		name, v.diagram.Shapes().Len(), len(v.routed), v.Selected())
	if id := v.SelectedLink(); id != "" {
		line += fmt.Sprintf(" | Link: %s (%s)", id, v.linkStatus(id))
	}
	if v.message != "" {
		line += " | " + v.message
	}

	style := statusStyle
	if v.failed {
		style = errorStyle
	}
	line = canvas.FitText(line, w, "…")
	x := 0
	for _, r := range line {
		v.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	for ; x < w; x++ {
		v.screen.SetContent(x, y, ' ', nil, style)
	}
}
