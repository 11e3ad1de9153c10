package table

import (
	"github.com/rshade/vtable/internal/column"
	"github.com/rshade/vtable/internal/layout"
	"github.com/rshade/vtable/internal/rows"
	"github.com/rshade/vtable/internal/state"
)

// Cell is one rendered cell.
type Cell struct {
	Column column.Column
	Value  any
	// Empty is set when the column has no accessor, the value is missing or
	// the column is a placeholder.
	Empty bool
	Style layout.Style
	Align column.Alignment

	// Expand toggle state, only set on the expand column.
	Expandable bool
	Expanded   bool
	Indent     float64
}

// RenderRow is one row of the visible window.
type RenderRow struct {
	Key   string
	Index int
	Depth int

	Top    float64
	Height float64

	Expandable bool
	Expanded   bool
	Hovered    bool
	Fixed      bool

	Cells []Cell
}

// HeaderCell is the rendered state of one header cell.
type HeaderCell struct {
	Column column.Column
	Style  layout.Style

	// Sorting is set when the column takes part in the sort. SortOrder is
	// the indicator to draw; unsorted columns show ascending.
	Sorting   bool
	SortOrder state.SortOrder

	Resizing bool
	// Width is the live width, the drag width while resizing.
	Width float64
}

// Window returns the fixed rows followed by the body rows of the current
// range, overscan included.
func (e *Engine[R]) Window() []RenderRow {
	out := make([]RenderRow, 0, len(e.fixedRows)+e.rng.Len())

	top := 0.0
	for _, f := range e.fixedRows {
		r := e.renderRow(f, true)
		r.Top = top
		r.Height = e.fixedRowsHeight() / float64(len(e.fixedRows))
		top += r.Height
		out = append(out, r)
	}

	if e.rng.IsEmpty() {
		return out
	}
	for i := e.rng.Start; i <= e.rng.Stop && i < len(e.flat.Rows); i++ {
		r := e.renderRow(e.flat.Rows[i], false)
		r.Top = e.heights.Offset(i)
		r.Height = e.heights.Height(i)
		out = append(out, r)
	}
	return out
}

func (e *Engine[R]) renderRow(f rows.Flat[R], fixed bool) RenderRow {
	r := RenderRow{
		Key:        f.Key,
		Index:      f.Index,
		Depth:      f.Depth,
		Expandable: f.HasChildren,
		Expanded:   f.HasChildren && e.machine.IsExpanded(f.Key),
		Hovered:    e.showHover() && e.machine.HoveringKey() == f.Key,
		Fixed:      fixed,
		Cells:      make([]Cell, len(e.columns)),
	}

	for i, col := range e.columns {
		v, ok := column.CellValue(col, any(f.Row), f.Index)
		c := Cell{
			Column: col,
			Value:  v,
			Empty:  !ok || v == nil,
			Style:  e.layout.Styles[col.Key],
			Align:  col.Align,
		}
		if col.Key == e.opts.ExpandColumnKey && !fixed {
			c.Expandable = r.Expandable
			c.Expanded = r.Expanded
			c.Indent = float64(f.Depth) * e.opts.IndentSize
		}
		r.Cells[i] = c
	}
	return r
}

// showHover reports whether hover highlights are drawn. They are skipped
// while scrolling and in the update after a row count jump.
func (e *Engine[R]) showHover() bool {
	return !e.machine.Scroll().IsScrolling && !e.machine.IsResetting()
}

// HeaderCells returns the header state of every column in display order.
func (e *Engine[R]) HeaderCells() []HeaderCell {
	spec := e.machine.Sort()
	session, resizing := e.machine.Resize()

	out := make([]HeaderCell, len(e.columns))
	for i, col := range e.columns {
		h := HeaderCell{
			Column: col,
			Style:  e.layout.Styles[col.Key],
			Width:  col.Width,
		}
		if !col.Placeholder {
			h.Sorting, h.SortOrder = spec.HeaderSort(col.Key)
		}
		if resizing && session.ColumnKey == col.Key {
			h.Resizing = true
			h.Width = session.Width
		}
		out[i] = h
	}
	return out
}
