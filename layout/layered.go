// Package layout places tables that arrive without coordinates, such as
// tables imported from text schemas.
package layout

import (
	"errors"
	"fmt"

	"erd/link"
	"erd/shape"
)

// ErrUnknownTable is returned when a link references a table that is not
// being laid out.
var ErrUnknownTable = errors.New("link references an unknown table")

// Layered arranges tables left to right in columns. A table's column is its
// distance from the tables no link points at, so links mostly run rightward
// from the referenced table to the referencing one.
type Layered struct {
	HorizontalSpacing  float64
	VerticalSpacing    float64
	MaxTablesPerColumn int // wider layers are split into several columns
}

// NewLayered creates a Layered layout with room between columns for link
// stubs and jogs.
func NewLayered() *Layered {
	return &Layered{
		HorizontalSpacing:  160,
		VerticalSpacing:    40,
		MaxTablesPerColumn: 6,
	}
}

// Layout returns a copy of tables with X and Y assigned. Only links whose
// ends are both attached shape the layering; floating ends are ignored.
func (l *Layered) Layout(tables []shape.Spec, links []link.Link) ([]shape.Spec, error) {
	result := append([]shape.Spec(nil), tables...)
	if len(result) == 0 {
		return result, nil
	}

	index := make(map[string]int, len(result))
	for i, t := range result {
		index[t.ID] = i
	}

	outgoing := make([][]int, len(result))
	for _, lk := range links {
		if link.Classify(lk) != link.Connected {
			continue
		}
		from, ok := index[lk.Source.Shape]
		if !ok {
			return nil, fmt.Errorf("link %s: %w: %s", lk.ID, ErrUnknownTable, lk.Source.Shape)
		}
		to, ok := index[lk.Target.Shape]
		if !ok {
			return nil, fmt.Errorf("link %s: %w: %s", lk.ID, ErrUnknownTable, lk.Target.Shape)
		}
		// Self references do not affect placement.
		if from == to {
			continue
		}
		outgoing[from] = append(outgoing[from], to)
	}

	layers := assignLayers(len(result), removeBackEdges(outgoing))
	l.position(result, layers)
	return result, nil
}

// removeBackEdges drops the edges that close a cycle, found with a
// depth-first search in table order.
func removeBackEdges(outgoing [][]int) [][]int {
	const (
		unvisited = iota
		visiting
		visited
	)
	state := make([]int, len(outgoing))
	dag := make([][]int, len(outgoing))

	var dfs func(n int)
	dfs = func(n int) {
		state[n] = visiting
		for _, next := range outgoing[n] {
			switch state[next] {
			case visiting:
				continue
			case unvisited:
				dfs(next)
			}
			dag[n] = append(dag[n], next)
		}
		state[n] = visited
	}
	for n := range outgoing {
		if state[n] == unvisited {
			dfs(n)
		}
	}
	return dag
}

// assignLayers peels the acyclic graph layer by layer: each layer holds the
// tables whose remaining in-degree dropped to zero.
func assignLayers(n int, outgoing [][]int) [][]int {
	inDegree := make([]int, n)
	for _, targets := range outgoing {
		for _, to := range targets {
			inDegree[to]++
		}
	}

	var queue []int
	for i := 0; i < n; i++ {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	var layers [][]int
	for len(queue) > 0 {
		layers = append(layers, queue)
		var next []int
		for _, node := range queue {
			for _, to := range outgoing[node] {
				inDegree[to]--
				if inDegree[to] == 0 {
					next = append(next, to)
				}
			}
		}
		queue = next
	}
	return layers
}

// position stacks each layer top-down, splitting crowded layers into
// columns, then centres every layer against the tallest one.
func (l *Layered) position(tables []shape.Spec, layers [][]int) {
	perColumn := l.MaxTablesPerColumn
	if perColumn <= 0 {
		perColumn = len(tables)
	}

	heights := make([]float64, len(layers))
	maxHeight := 0.0
	x := 0.0
	for i, layer := range layers {
		for start := 0; start < len(layer); start += perColumn {
			end := min(start+perColumn, len(layer))
			y, colWidth := 0.0, 0.0
			for _, node := range layer[start:end] {
				w, h := size(tables[node])
				tables[node].X = x
				tables[node].Y = y
				y += h + l.VerticalSpacing
				colWidth = max(colWidth, w)
			}
			heights[i] = max(heights[i], y-l.VerticalSpacing)
			x += colWidth + l.HorizontalSpacing
		}
		maxHeight = max(maxHeight, heights[i])
	}

	for i, layer := range layers {
		offset := (maxHeight - heights[i]) / 2
		if offset <= 0 {
			continue
		}
		for _, node := range layer {
			tables[node].Y += offset
		}
	}
}

// size returns the width and height a table spec will be drawn with.
func size(spec shape.Spec) (float64, float64) {
	w, rh := spec.Width, spec.RowHeight
	if w <= 0 {
		w = shape.DefaultWidth
	}
	if rh <= 0 {
		rh = shape.DefaultRowHeight
	}
	return w, float64(len(spec.Rows)+1)*rh + shape.BodyPadding
}
