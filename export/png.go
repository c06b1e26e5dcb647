package export

import (
	"fmt"
	"image/color"
	"image/png"
	"io"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"erd/diagram"
	"erd/geometry"
	"erd/link"
	"erd/shape"
)

var (
	headerFill = color.Gray{Y: 0xee}
	lineColor  = color.Black
	draftColor = color.Gray{Y: 0x88}
)

var monoFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(gomono.TTF)
})

// PNGExporter draws diagrams as raster images.
type PNGExporter struct {
	opts Options
}

// NewPNGExporter creates a new PNG exporter
func NewPNGExporter(opts Options) *PNGExporter {
	return &PNGExporter{opts: opts}
}

// pixels maps world coordinates to image coordinates.
type pixels struct {
	origin geometry.Point
	pad    float64
	scale  float64
}

func (p pixels) xy(pt geometry.Point) (float64, float64) {
	return (pt.X - p.origin.X + p.pad) * p.scale, (pt.Y - p.origin.Y + p.pad) * p.scale
}

// Export draws links first and tables on top of them, then encodes the image.
func (e *PNGExporter) Export(w io.Writer, d *diagram.Diagram, routed []diagram.RoutedLink) error {
	if d == nil {
		return fmt.Errorf("diagram is nil")
	}

	b := d.Bounds(routed)
	px := pixels{origin: b.Min, pad: e.opts.Padding, scale: e.opts.PixelScale}
	width := int(math.Ceil((b.Width() + 2*px.pad) * px.scale))
	height := int(math.Ceil((b.Height() + 2*px.pad) * px.scale))
	if width <= 0 || height <= 0 {
		return fmt.Errorf("nothing to export")
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	ttf, err := monoFont()
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{
		Size:    e.opts.FontSize * px.scale,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	for _, rl := range routed {
		drawLinkPNG(dc, rl, px)
	}
	for _, t := range d.Shapes().Tables() {
		drawTablePNG(dc, t, px)
	}

	if err := png.Encode(w, dc.Image()); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

func drawTablePNG(dc *gg.Context, t shape.Table, px pixels) {
	x, y := px.xy(geometry.Pt(t.X, t.Y))
	w, h := t.Width*px.scale, t.Height()*px.scale
	_, sep := px.xy(geometry.Pt(t.X, t.RowTop(0)))
	inset := 8 * px.scale

	dc.SetColor(color.White)
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()
	dc.SetColor(headerFill)
	dc.DrawRectangle(x, y, w, sep-y)
	dc.Fill()

	dc.SetColor(lineColor)
	dc.SetLineWidth(px.scale)
	dc.DrawRectangle(x, y, w, h)
	dc.Stroke()
	dc.DrawLine(x, sep, x+w, sep)
	dc.Stroke()

	_, header := px.xy(geometry.Pt(t.X, t.Y+t.RowHeight/2))
	dc.DrawStringAnchored(t.Name, x+inset, header, 0, 0.5)
	for i, row := range t.Rows {
		_, ry := px.xy(geometry.Pt(t.X, t.RowTop(i)+t.RowHeight/2))
		dc.DrawStringAnchored(row.Name, x+inset, ry, 0, 0.5)
		if row.Type != "" {
			dc.DrawStringAnchored(row.Type, x+w-inset, ry, 1, 0.5)
		}
	}
}

// drawLinkPNG strokes a route with an arrow head at the target. Links that
// were not routed are drawn as a dashed straight line.
func drawLinkPNG(dc *gg.Context, rl diagram.RoutedLink, px pixels) {
	points := rl.Polyline()
	dc.SetLineWidth(1.5 * px.scale)

	if rl.Status != link.Connected || rl.Route.IsEmpty() {
		x1, y1 := px.xy(points[0])
		x2, y2 := px.xy(points[len(points)-1])
		dc.SetColor(draftColor)
		dc.SetDash(4*px.scale, 4*px.scale)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
		dc.SetDash()
		return
	}

	dc.SetColor(lineColor)
	for i, p := range points {
		x, y := px.xy(p)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()

	if len(points) > 1 {
		fx, fy := px.xy(points[len(points)-2])
		tx, ty := px.xy(points[len(points)-1])
		drawArrowPNG(dc, fx, fy, tx, ty, 6*px.scale)
	}
}

func drawArrowPNG(dc *gg.Context, fx, fy, tx, ty, size float64) {
	dx, dy := tx-fx, ty-fy
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	const spread = 0.5
	dc.MoveTo(tx, ty)
	dc.LineTo(tx-size*dx+size*dy*spread, ty-size*dy-size*dx*spread)
	dc.LineTo(tx-size*dx-size*dy*spread, ty-size*dy+size*dx*spread)
	dc.ClosePath()
	dc.Fill()
}

// GetFileExtension returns the file extension for PNG
func (e *PNGExporter) GetFileExtension() string {
	return ".png"
}

// GetFormatName returns the format name
func (e *PNGExporter) GetFormatName() string {
	return "PNG"
}
