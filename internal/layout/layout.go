package layout

import (
	"math"

	"github.com/rshade/vtable/internal/column"
)

// DefaultHeaderHeight is used when Sizing lists no header rows.
const DefaultHeaderHeight = 50

// Sizing holds the container dimensions a layout is computed for.
type Sizing struct {
	Width  float64
	Height float64

	// GutterWidth is the width of the main pane's vertical scrollbar.
	GutterWidth float64

	// HeaderHeights lists the height of each header row.
	HeaderHeights []float64
	FooterHeight  float64

	// FixedRowsHeight is the total height of pinned rows above the body.
	FixedRowsHeight float64

	// Fit sizes the body to its content rather than to the container.
	Fit bool
}

// Style is the geometry of one column within its pane.
type Style struct {
	// Left is the offset from the pane's left edge.
	Left float64
	// Right is the offset from the pane's right edge.
	Right float64
	Width float64
	Side  column.FixedSide
}

// Layout is the derived geometry of a table.
type Layout struct {
	Styles map[string]Style

	// TotalWidth is the sum of all main column widths.
	TotalWidth float64
	LeftWidth  float64
	RightWidth float64

	BodyWidth   float64
	HeaderWidth float64

	HeaderHeight float64
	BodyHeight   float64

	HasFixed bool
}

// Compute derives the layout of cols for the given sizing.
func Compute(cols []column.Column, s Sizing) Layout {
	g := column.SplitGroups(cols)

	l := Layout{
		Styles:   make(map[string]Style, len(cols)),
		HasFixed: g.HasFixed(),
	}
	l.LeftWidth = place(l.Styles, g.Left)
	l.TotalWidth = place(l.Styles, g.Main)
	l.RightWidth = place(l.Styles, g.Right)

	gutter := 0.0
	if l.HasFixed || s.Fit {
		gutter = s.GutterWidth
	}
	l.BodyWidth = s.Width - gutter
	if s.Fit {
		l.BodyWidth = math.Max(math.Round(l.TotalWidth), s.Width-s.GutterWidth)
	}
	l.BodyWidth = math.Max(l.BodyWidth, 0)

	l.HeaderWidth = l.BodyWidth
	if l.HasFixed {
		l.HeaderWidth += s.GutterWidth
	}

	l.HeaderHeight = HeaderHeight(s.HeaderHeights)
	l.BodyHeight = math.Max(s.Height-l.HeaderHeight-s.FooterHeight-s.FixedRowsHeight, 0)
	return l
}

// HeaderHeight sums header row heights, defaulting to one row.
func HeaderHeight(rows []float64) float64 {
	if len(rows) == 0 {
		return DefaultHeaderHeight
	}
	total := 0.0
	for _, h := range rows {
		total += h
	}
	return total
}

// place assigns left-to-right and right-to-left running offsets within one
// pane and returns the pane width.
func place(styles map[string]Style, group []column.Column) float64 {
	total := 0.0
	for _, c := range group {
		styles[c.Key] = Style{Left: total, Width: c.Width, Side: c.Fixed}
		total += c.Width
	}

	right := 0.0
	for i := len(group) - 1; i >= 0; i-- {
		st := styles[group[i].Key]
		st.Right = right
		styles[group[i].Key] = st
		right += group[i].Width
	}
	return total
}

// ColumnAt returns the key of the main column covering x (relative to the
// scrollable content), or "" when x is outside every column.
func (l Layout) ColumnAt(cols []column.Column, x float64) string {
	for _, c := range cols {
		st, ok := l.Styles[c.Key]
		if !ok || st.Side != column.FixedNone {
			continue
		}
		if x >= st.Left && x < st.Left+st.Width {
			return c.Key
		}
	}
	return ""
}

// MaxScrollX is the largest horizontal offset of the main pane.
func (l Layout) MaxScrollX() float64 {
	return math.Max(l.TotalWidth-(l.BodyWidth-l.LeftWidth-l.RightWidth), 0)
}
