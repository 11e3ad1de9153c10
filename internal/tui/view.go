package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/rshade/vtable/internal/column"
	"github.com/rshade/vtable/internal/layout"
	"github.com/rshade/vtable/internal/state"
	"github.com/rshade/vtable/internal/table"
)

// Glyphs.
const (
	glyphCollapsed = "▸ "
	glyphExpanded  = "▾ "
	glyphLeaf      = "  "
	glyphAsc       = "▲"
	glyphDesc      = "▼"
	glyphResize    = "↔"
	glyphEllipsis  = "…"
	glyphGutter    = "│"
)

// View renders the current view.
func (m *TableModel) View() string {
	if m.state == ViewStateQuitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')

	lines := 0
	bodyHeight := int(m.engine.Layout().BodyHeight)
	r := m.engine.Range()
	for _, row := range m.engine.Window() {
		if !row.Fixed && (row.Index < r.VisibleStart || row.Index > r.VisibleStop) {
			continue
		}
		if !row.Fixed && lines >= bodyHeight {
			break
		}
		b.WriteString(m.renderRow(row))
		b.WriteByte('\n')
		if !row.Fixed {
			lines++
		}
	}
	for ; lines < bodyHeight; lines++ {
		b.WriteByte('\n')
	}

	b.WriteString(m.renderStatus())
	b.WriteByte('\n')
	if m.state == ViewStateResize {
		b.WriteString(m.help.View(resizeKeys{m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m *TableModel) renderHeader() string {
	cells := m.engine.HeaderCells()
	text := make(map[string]string, len(cells))
	focused, _ := m.focusedColumn()

	for _, h := range cells {
		title := h.Column.HeaderTitle()
		switch {
		case h.Resizing:
			title = fmt.Sprintf("%s %s%.0f", title, glyphResize, h.Width)
		case h.Sorting && h.SortOrder == state.SortDesc:
			title += " " + glyphDesc
		case h.Sorting:
			title += " " + glyphAsc
		}
		if h.Column.Key == focused.Key && !h.Column.Placeholder {
			title = "[" + title + "]"
		}
		text[h.Column.Key] = title
	}

	line := m.composeLine(func(c column.Column) string { return text[c.Key] })
	if m.state == ViewStateResize {
		return resizeStyle.Render(line)
	}
	return headerStyle.Render(line)
}

func (m *TableModel) renderRow(row table.RenderRow) string {
	text := make(map[string]string, len(row.Cells))
	for _, c := range row.Cells {
		s := formatValue(c)
		if c.Column.Key == m.engine.Options().ExpandColumnKey && !row.Fixed {
			glyph := glyphLeaf
			switch {
			case c.Expandable && c.Expanded:
				glyph = glyphExpanded
			case c.Expandable:
				glyph = glyphCollapsed
			}
			s = strings.Repeat(" ", int(c.Indent)) + glyph + s
		}
		text[c.Column.Key] = s
	}

	line := m.composeLine(func(c column.Column) string { return text[c.Key] })
	switch {
	case !row.Fixed && row.Index == m.cursor:
		return selectedStyle.Render(line)
	case row.Hovered:
		return hoverStyle.Render(line)
	case row.Fixed:
		return fixedStyle.Render(line)
	}
	return line
}

func (m *TableModel) renderStatus() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}

	count := m.engine.RowCount()
	parts := []string{m.printer.Sprintf("%d rows", count)}
	if r := m.rendered; !r.IsEmpty() && !m.engine.IsResetting() {
		parts = append(parts, m.printer.Sprintf("showing %d–%d", r.VisibleStart+1, r.VisibleStop+1))
	}
	if m.doc.Title != "" {
		parts = append([]string{m.doc.Title}, parts...)
	}
	if m.flattening {
		parts = append(parts, "flattening…")
	}
	if m.engine.IsScrolling() {
		parts = append(parts, "scrolling")
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return statusStyle.Render(strings.Join(parts, " · "))
}

// composeLine lays out one line across the three panes: left-fixed, the
// horizontally scrolled main pane, right-fixed, then the gutter.
func (m *TableModel) composeLine(textOf func(column.Column) string) string {
	l := m.engine.Layout()
	g := m.engine.Groups()

	left := paneText(g.Left, l.Styles, textOf)
	right := paneText(g.Right, l.Styles, textOf)
	main := paneText(g.Main, l.Styles, textOf)

	mainWidth := int(l.BodyWidth - l.LeftWidth - l.RightWidth)
	scrollX := int(m.engine.Panes()[0].OffsetX)
	main = runewidth.FillRight(cut(main, scrollX, max(mainWidth, 0)), max(mainWidth, 0))

	var b strings.Builder
	b.WriteString(left)
	b.WriteString(main)
	b.WriteString(right)
	if l.HasFixed && l.HeaderWidth > l.BodyWidth {
		b.WriteString(mutedStyle.Render(glyphGutter))
	}
	return b.String()
}

// paneText renders the cells of one pane side by side at their widths.
func paneText(cols []column.Column, styles map[string]layout.Style, textOf func(column.Column) string) string {
	var b strings.Builder
	for _, c := range cols {
		w := int(styles[c.Key].Width)
		if w <= 0 {
			continue
		}
		if c.Placeholder {
			b.WriteString(strings.Repeat(" ", w))
			continue
		}
		b.WriteString(fit(textOf(c), w, c.Align))
	}
	return b.String()
}

// fit truncates or pads s to exactly w cells, leaving one cell of padding
// on the trailing side.
func fit(s string, w int, align column.Alignment) string {
	if w <= 1 {
		return strings.Repeat(" ", max(w, 0))
	}
	inner := w - 1
	s = runewidth.Truncate(s, inner, glyphEllipsis)

	switch align {
	case column.AlignEnd:
		return runewidth.FillLeft(s, inner) + " "
	case column.AlignCenter:
		pad := inner - runewidth.StringWidth(s)
		return strings.Repeat(" ", pad/2) + runewidth.FillRight(s, inner-pad/2) + " "
	default:
		return runewidth.FillRight(s, inner) + " "
	}
}

// cut returns the cells [from, from+width) of s.
func cut(s string, from, width int) string {
	var b strings.Builder
	pos := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if pos >= from+width {
			break
		}
		if pos >= from && pos+rw <= from+width {
			b.WriteRune(r)
		} else if pos < from && pos+rw > from {
			// Wide rune straddling the left edge.
			b.WriteString(strings.Repeat(" ", pos+rw-from))
		}
		pos += rw
	}
	return b.String()
}

// hit returns the key of the fixed column covering x within its pane.
func hit(cols []column.Column, styles map[string]layout.Style, x float64) string {
	for _, c := range cols {
		st := styles[c.Key]
		if !c.Placeholder && x >= st.Left && x < st.Left+st.Width {
			return c.Key
		}
	}
	return ""
}

func formatValue(c table.Cell) string {
	if c.Empty {
		return ""
	}
	switch v := c.Value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
