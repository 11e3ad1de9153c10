package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/vtable/internal/column"
	"github.com/rshade/vtable/internal/dataset"
	"github.com/rshade/vtable/internal/logging"
	"github.com/rshade/vtable/internal/rows"
	"github.com/rshade/vtable/internal/state"
	"github.com/rshade/vtable/internal/table"
	"github.com/rshade/vtable/internal/virtual"
)

// ViewState represents the current state of the table view.
type ViewState int

const (
	// ViewStateBrowse is normal navigation.
	ViewStateBrowse ViewState = iota
	// ViewStateResize is active while a column width is being dragged.
	ViewStateResize
	// ViewStateQuitting indicates the application is exiting.
	ViewStateQuitting
)

// Default dimensions before the first WindowSizeMsg.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// chromeLines is the number of lines below the table: status and help.
const chromeLines = 2

// Scroll steps in cells.
const (
	wheelStep      = 3
	horizontalStep = 4
)

// scrollSettledMsg fires once the debounce window after a scroll passed.
type scrollSettledMsg struct{ seq uint64 }

// flattenDoneMsg carries a background flatten result.
type flattenDoneMsg struct {
	res table.FlattenResult[dataset.Row]
	err error
}

// TableModel is the Bubble Tea model for browsing a dataset.
type TableModel struct {
	ctx    context.Context
	log    zerolog.Logger
	doc    *dataset.Document
	engine *table.Engine[dataset.Row]

	keys    KeyMap
	help    help.Model
	printer *message.Printer

	state    ViewState
	width    int
	height   int
	cursor   int
	colFocus int

	resizeX    float64
	flattening bool
	rendered   virtual.Range
	status     string
	err        error
}

// NewTableModel creates a model showing doc with the given engine options.
func NewTableModel(ctx context.Context, doc *dataset.Document, opts table.Options) (*TableModel, error) {
	decls, err := doc.Declarations()
	if err != nil {
		return nil, err
	}

	m := &TableModel{
		ctx:      ctx,
		log:      logging.ComponentLogger(*logging.FromContext(ctx), "tui"),
		doc:      doc,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		printer:  message.NewPrinter(language.English),
		width:    defaultWidth,
		height:   defaultHeight,
		rendered: virtual.EmptyRange,
	}

	if opts.ExpandColumnKey == "" {
		opts.ExpandColumnKey = doc.ExpandColumn
	}
	opts.Logger = m.log
	opts.Handlers.OnRowsRendered = func(r virtual.Range) { m.rendered = r }
	opts.Handlers.OnColumnResizeEnd = func(ev state.ResizeEvent) {
		m.log.Debug().
			Str("session", ev.SessionID.String()).
			Str("column", ev.ColumnKey).
			Float64("width", ev.Width).
			Msg("column resized")
	}

	eng, err := table.New(opts, decls, doc.Source())
	if err != nil {
		return nil, err
	}
	m.engine = eng
	m.resize()
	m.focusFirstColumn()
	return m, nil
}

// Engine returns the table engine.
func (m *TableModel) Engine() *table.Engine[dataset.Row] { return m.engine }

// Init initializes the model (Bubble Tea interface).
func (m *TableModel) Init() tea.Cmd { return nil }

// Update handles messages and updates the model state (Bubble Tea interface).
func (m *TableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil
	case scrollSettledMsg:
		m.engine.Settle(msg.seq)
		return m, nil
	case flattenDoneMsg:
		return m.handleFlattenDone(msg)
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	case tea.KeyMsg:
		if m.state == ViewStateResize {
			return m.handleResizeKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *TableModel) resize() {
	m.engine.SetSize(float64(m.width), float64(max(m.height-chromeLines, 0)))
}

func (m *TableModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	count := m.engine.RowCount()
	page := max(int(m.engine.Layout().BodyHeight), 1)

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.state = ViewStateQuitting
		m.engine.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Up):
		return m, m.moveCursor(m.cursor - 1)
	case key.Matches(msg, m.keys.Down):
		return m, m.moveCursor(m.cursor + 1)
	case key.Matches(msg, m.keys.PageUp):
		return m, m.moveCursor(m.cursor - page)
	case key.Matches(msg, m.keys.PageDown):
		return m, m.moveCursor(m.cursor + page)
	case key.Matches(msg, m.keys.Top):
		return m, m.moveCursor(0)
	case key.Matches(msg, m.keys.Bottom):
		return m, m.moveCursor(count - 1)
	case key.Matches(msg, m.keys.Left):
		return m, m.settleAfter(m.engine.ScrollBy(-horizontalStep, 0))
	case key.Matches(msg, m.keys.Right):
		return m, m.settleAfter(m.engine.ScrollBy(horizontalStep, 0))
	case key.Matches(msg, m.keys.NextColumn):
		m.shiftColumnFocus(1)
	case key.Matches(msg, m.keys.PrevColumn):
		m.shiftColumnFocus(-1)
	case key.Matches(msg, m.keys.Toggle):
		m.toggleCursorRow()
	case key.Matches(msg, m.keys.Sort):
		m.sortFocusedColumn()
	case key.Matches(msg, m.keys.ExpandAll):
		return m, m.expandAsync(m.engine.ExpandAllKeys())
	case key.Matches(msg, m.keys.CollapseAll):
		return m, m.expandAsync(rows.NewKeySet())
	case key.Matches(msg, m.keys.Resize):
		m.startResize()
	}
	return m, nil
}

func (m *TableModel) handleResizeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.engine.ResizeCancel()
		m.state = ViewStateQuitting
		return m, tea.Quit
	case key.Matches(msg, m.keys.Left):
		m.resizeX--
	case key.Matches(msg, m.keys.Right):
		m.resizeX++
	case key.Matches(msg, m.keys.Commit):
		ev, ok := m.engine.ResizeStop()
		if ok {
			m.status = m.printer.Sprintf("%s width %.0f", ev.ColumnKey, ev.Width)
		}
		m.state = ViewStateBrowse
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.engine.ResizeCancel()
		m.state = ViewStateBrowse
		return m, nil
	default:
		return m, nil
	}

	if _, err := m.engine.ResizeMove(m.resizeX); err != nil {
		m.err = err
		m.state = ViewStateBrowse
	}
	return m, nil
}

func (m *TableModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	bodyTop := m.bodyTop()

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		return m.settleAfter(m.engine.ScrollBy(0, -wheelStep))
	case msg.Button == tea.MouseButtonWheelDown:
		return m.settleAfter(m.engine.ScrollBy(0, wheelStep))
	case msg.Button == tea.MouseButtonWheelLeft:
		return m.settleAfter(m.engine.ScrollBy(-horizontalStep, 0))
	case msg.Button == tea.MouseButtonWheelRight:
		return m.settleAfter(m.engine.ScrollBy(horizontalStep, 0))
	case msg.Action == tea.MouseActionMotion:
		prev := m.engine.State().HoveringKey()
		next := m.engine.RowAt(float64(msg.Y - bodyTop))
		if prev != "" && prev != next {
			m.engine.Hover(prev, false)
		}
		if next != "" {
			m.engine.Hover(next, true)
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if msg.Y < int(m.engine.Layout().HeaderHeight) {
			if k := m.columnAtX(msg.X); k != "" {
				m.focusColumn(k)
				m.sortFocusedColumn()
			}
			return nil
		}
		if k := m.engine.RowAt(float64(msg.Y - bodyTop)); k != "" {
			m.cursor = m.engine.Rows().IndexOf(k)
		}
	}
	return nil
}

// bodyTop is the screen line of the first body row.
func (m *TableModel) bodyTop() int {
	l := m.engine.Layout()
	fixed := 0.0
	for _, r := range m.engine.Window() {
		if r.Fixed {
			fixed += r.Height
		}
	}
	return int(l.HeaderHeight + fixed)
}

// columnAtX maps a screen column to a column key across all panes.
func (m *TableModel) columnAtX(x int) string {
	l := m.engine.Layout()
	fx := float64(x)
	g := m.engine.Groups()

	if fx < l.LeftWidth {
		return hit(g.Left, l.Styles, fx)
	}
	mainWidth := l.BodyWidth - l.LeftWidth - l.RightWidth
	if fx < l.LeftWidth+mainWidth {
		scrollX := m.engine.Panes()[0].OffsetX
		return l.ColumnAt(g.Main, fx-l.LeftWidth+scrollX)
	}
	return hit(g.Right, l.Styles, fx-l.LeftWidth-mainWidth)
}

func (m *TableModel) moveCursor(i int) tea.Cmd {
	count := m.engine.RowCount()
	if count == 0 {
		return nil
	}
	m.cursor = min(max(i, 0), count-1)
	return m.settleAfter(m.engine.ScrollToRow(m.cursor, virtual.AlignAuto))
}

// settleAfter schedules the end of the scrolling phase for seq.
func (m *TableModel) settleAfter(seq uint64) tea.Cmd {
	d := m.engine.Options().ScrollDebounce
	if d <= 0 {
		d = state.DefaultScrollDebounce
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return scrollSettledMsg{seq: seq} })
}

func (m *TableModel) cursorKey() string {
	flat := m.engine.Rows()
	if m.cursor < 0 || m.cursor >= flat.Len() {
		return ""
	}
	return flat.Rows[m.cursor].Key
}

func (m *TableModel) toggleCursorRow() {
	k := m.cursorKey()
	if k == "" {
		return
	}
	if !m.engine.Rows().Rows[m.cursor].HasChildren {
		return
	}
	if _, err := m.engine.ToggleRow(k); err != nil {
		m.err = err
		return
	}
	// A pending expand-all or collapse-all was superseded.
	m.flattening = false
	m.cursor = max(m.engine.Rows().IndexOf(k), 0)
}

func (m *TableModel) expandAsync(keys rows.KeySet) tea.Cmd {
	job := m.engine.SetExpandedAsync(keys)
	m.flattening = true
	ctx := m.ctx
	return func() tea.Msg {
		res, err := job.Run(ctx)
		return flattenDoneMsg{res: res, err: err}
	}
}

func (m *TableModel) handleFlattenDone(msg flattenDoneMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, rows.ErrStale) {
		return m, nil
	}
	m.flattening = false
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}

	k := m.cursorKey()
	if m.engine.ApplyFlatten(msg.res) {
		if i := m.engine.Rows().IndexOf(k); i >= 0 {
			m.cursor = i
		} else {
			m.cursor = min(m.cursor, max(m.engine.RowCount()-1, 0))
		}
	}
	return m, nil
}

// ---- columns ----

func (m *TableModel) dataColumns() []column.Column {
	var out []column.Column
	for _, c := range m.engine.Columns() {
		if !c.Placeholder {
			out = append(out, c)
		}
	}
	return out
}

func (m *TableModel) focusedColumn() (column.Column, bool) {
	cols := m.dataColumns()
	if m.colFocus < 0 || m.colFocus >= len(cols) {
		return column.Column{}, false
	}
	return cols[m.colFocus], true
}

// focusFirstColumn focuses the first scrollable column, or the first
// column when every column is fixed.
func (m *TableModel) focusFirstColumn() {
	m.colFocus = 0
	for i, c := range m.dataColumns() {
		if c.Fixed == column.FixedNone {
			m.colFocus = i
			return
		}
	}
}

func (m *TableModel) focusColumn(key string) {
	for i, c := range m.dataColumns() {
		if c.Key == key {
			m.colFocus = i
			return
		}
	}
}

func (m *TableModel) shiftColumnFocus(delta int) {
	n := len(m.dataColumns())
	if n == 0 {
		return
	}
	m.colFocus = ((m.colFocus+delta)%n + n) % n
}

func (m *TableModel) sortFocusedColumn() {
	col, ok := m.focusedColumn()
	if !ok {
		return
	}
	ev, err := m.engine.ClickHeader(col.Key)
	if err != nil {
		m.err = err
		return
	}

	cursorKey := m.cursorKey()
	if err := m.engine.SetData(m.doc.SortedSource(m.engine.Columns(), ev.Spec)); err != nil {
		m.err = err
		return
	}
	if i := m.engine.Rows().IndexOf(cursorKey); i >= 0 {
		m.cursor = i
	}
	m.status = m.printer.Sprintf("sorted by %s", ev.Spec.String())
	if ev.Spec.Len() == 0 {
		m.status = "unsorted"
	}
}

func (m *TableModel) startResize() {
	col, ok := m.focusedColumn()
	if !ok {
		return
	}
	m.resizeX = 0
	if _, err := m.engine.ResizeStart(col.Key, m.resizeX); err != nil {
		m.err = err
		return
	}
	m.state = ViewStateResize
}
