package canvas

import (
	"erd/diagram"
	"erd/geometry"
	"erd/link"
	"erd/shape"
)

// Render draws the diagram onto a canvas just large enough to hold it.
func Render(d *diagram.Diagram, routed []diagram.RoutedLink, proj Projection) (*MatrixCanvas, error) {
	end := proj.Cell(d.Bounds(routed).Max)
	c, err := NewMatrixCanvas(end.X+2, end.Y+2)
	if err != nil {
		return nil, err
	}
	Draw(c, d, routed, proj, "")
	return c, nil
}

// Draw draws tables and links onto c. The table with the selected id, if
// any, gets a double border. Table text is drawn last so that it stays
// readable when a link crosses a table.
func Draw(c *MatrixCanvas, d *diagram.Diagram, routed []diagram.RoutedLink, proj Projection, selected string) {
	tables := d.Shapes().Tables()
	for _, t := range tables {
		style := DefaultBoxStyle
		if t.ID == selected {
			style = DoubleBoxStyle
		}
		drawTableFrame(c, t, proj, style)
	}

	for _, rl := range routed {
		drawLink(c, rl, proj)
	}

	for _, t := range tables {
		drawTableText(c, t, proj)
	}
}

// tableCells returns the top-left and bottom-right cells of a table frame.
func tableCells(t shape.Table, proj Projection) (Cell, Cell) {
	b := t.Bounds()
	return proj.Cell(b.Min), proj.Cell(b.Max)
}

func drawTableFrame(c *MatrixCanvas, t shape.Table, proj Projection, style BoxStyle) {
	tl, br := tableCells(t, proj)
	if err := c.DrawBox(tl.X, tl.Y, br.X-tl.X+1, br.Y-tl.Y+1, style); err != nil {
		return
	}
	if sep := proj.Cell(geometry.Pt(t.X, t.RowTop(0))).Y; sep > tl.Y && sep < br.Y {
		_ = c.DrawPath([]Cell{{tl.X, sep}, {br.X, sep}}, false)
	}
}

func drawTableText(c *MatrixCanvas, t shape.Table, proj Projection) {
	tl, br := tableCells(t, proj)
	inner := br.X - tl.X - 3
	if inner <= 0 {
		return
	}

	header := proj.Cell(geometry.Pt(t.X, t.Y+t.RowHeight/2)).Y
	if header > tl.Y && header < br.Y {
		_ = c.DrawText(tl.X+2, header, FitText(t.Name, inner, "…"))
	}

	for i, row := range t.Rows {
		y := proj.Cell(geometry.Pt(t.X, t.RowTop(i)+t.RowHeight/2)).Y
		if y <= header || y >= br.Y {
			continue
		}
		text := row.Name
		if row.Type != "" {
			text += " " + row.Type
		}
		_ = c.DrawText(tl.X+2, y, FitText(text, inner, "…"))
	}
}

// drawLink draws a routed link with an arrow at its target. Links without a
// route are drawn as a dotted straight line between their anchors.
func drawLink(c *MatrixCanvas, rl diagram.RoutedLink, proj Projection) {
	cells := proj.Cells(rl.Polyline())
	if rl.Status != link.Connected || rl.Route.IsEmpty() {
		c.DrawLine(cells[0], cells[len(cells)-1], '·')
		return
	}
	if len(cells) < 2 {
		return
	}
	_ = c.DrawPath(cells, true)
}
