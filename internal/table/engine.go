package table

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/vtable/internal/column"
	"github.com/rshade/vtable/internal/layout"
	"github.com/rshade/vtable/internal/logging"
	"github.com/rshade/vtable/internal/pane"
	"github.com/rshade/vtable/internal/rows"
	"github.com/rshade/vtable/internal/state"
	"github.com/rshade/vtable/internal/virtual"
)

// Engine is a virtualized table over rows of type R.
type Engine[R any] struct {
	opts Options
	log  zerolog.Logger

	decls   []column.Declaration
	groups  column.Groups
	columns []column.Column

	source    Source[R]
	flat      rows.Result[R]
	fixedRows []rows.Flat[R]
	flattener *rows.Flattener[R]

	width, height float64

	machine  *state.Machine
	memo     *layout.Memo
	layout   layout.Layout
	driver   *virtual.Driver
	heights  virtual.Heights
	variable *virtual.VariableHeight
	panes    *pane.Synchronizer
	rng      virtual.Range
}

// New creates an engine for the given columns and data. It fails when the
// columns cannot be normalized or the rows cannot be flattened.
func New[R any](opts Options, decls []column.Declaration, src Source[R]) (*Engine[R], error) {
	if opts.RowHeight <= 0 {
		opts.RowHeight = DefaultRowHeight
	}
	if opts.OverscanRowCount < 0 {
		opts.OverscanRowCount = 0
	}

	memo, err := layout.NewMemo(opts.MemoSize)
	if err != nil {
		return nil, fmt.Errorf("creating layout cache: %w", err)
	}

	e := &Engine[R]{
		opts:   opts,
		log:    logging.ComponentLogger(opts.Logger, "table"),
		memo:   memo,
		driver: virtual.NewDriver(opts.OverscanRowCount),
		rng:    virtual.EmptyRange,
	}
	e.machine = state.New(state.Options{
		ScrollDebounce: opts.ScrollDebounce,
		MinColumnWidth: opts.MinColumnWidth,
		SingleSort:     opts.SingleSortMode,
		SortCycleNone:  opts.SortCycleNone,
		ResetThreshold: opts.ResetThreshold,
		Handlers:       opts.Handlers.Handlers,
		Logger:         opts.Logger,
		Now:            opts.Now,
	})
	e.driver.OnRangeChange = e.rangeChanged

	if opts.EstimatedRowHeight > 0 {
		e.variable = virtual.NewVariableHeight(opts.EstimatedRowHeight, e.estimateRow)
		e.heights = e.variable
	} else {
		e.heights = virtual.FixedHeight(opts.RowHeight)
	}

	groups, err := column.NormalizeGroups(decls, column.Options{GutterWidth: opts.GutterWidth})
	if err != nil {
		return nil, err
	}
	e.setGroups(decls, groups)
	e.panes = pane.New(len(groups.Left) > 0, len(groups.Right) > 0)

	if err := e.setSource(src); err != nil {
		return nil, err
	}

	e.recompute()
	return e, nil
}

// Options returns the engine configuration.
func (e *Engine[R]) Options() Options { return e.opts }

// SetHandlers replaces the notification handlers.
func (e *Engine[R]) SetHandlers(h Handlers) {
	e.opts.Handlers = h
	e.machine.SetHandlers(h.Handlers)
}

// Close returns the interaction state to its defaults.
func (e *Engine[R]) Close() {
	e.machine.Reset()
	e.memo.Purge()
	e.driver.Invalidate()
}

// ---- inputs ----

// SetColumns replaces the column declarations. On error the previous
// columns stay in place.
func (e *Engine[R]) SetColumns(decls []column.Declaration) error {
	groups, err := column.NormalizeGroups(decls, column.Options{GutterWidth: e.opts.GutterWidth})
	if err != nil {
		return err
	}
	e.setGroups(decls, groups)
	e.panes.SetFixed(len(groups.Left) > 0, len(groups.Right) > 0)

	if k := e.machine.ResizingKey(); k != "" {
		if _, ok := column.Find(e.columns, k); !ok {
			e.machine.ResizeCancel()
		}
	}
	e.recompute()
	return nil
}

// SetColumnWidth changes the declared width of one column.
func (e *Engine[R]) SetColumnWidth(key string, width float64) error {
	decls := make([]column.Declaration, len(e.decls))
	copy(decls, e.decls)
	for i := range decls {
		if decls[i].Key == key {
			decls[i].Width = width
			return e.SetColumns(decls)
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownColumn, key)
}

// SetData replaces the displayed rows. On error the previous data stays in
// place.
func (e *Engine[R]) SetData(src Source[R]) error {
	if err := e.setSource(src); err != nil {
		return err
	}
	e.recompute()
	return nil
}

// SetSize sets the container size.
func (e *Engine[R]) SetSize(width, height float64) {
	if width == e.width && height == e.height {
		return
	}
	e.width = math.Max(width, 0)
	e.height = math.Max(height, 0)
	e.recompute()
}

func (e *Engine[R]) setGroups(decls []column.Declaration, groups column.Groups) {
	e.decls = decls
	e.groups = groups
	e.columns = groups.All()
	e.machine.SetHasFixed(groups.HasFixed())
}

func (e *Engine[R]) setSource(src Source[R]) error {
	flat, err := rows.Flatten(src.Roots, e.machine.Expanded(), src.KeyOf, src.ChildrenOf)
	if err != nil {
		return fmt.Errorf("flattening rows: %w", err)
	}
	fixed, err := rows.FixedRows(src.Fixed, src.KeyOf)
	if err != nil {
		return fmt.Errorf("flattening fixed rows: %w", err)
	}
	flattener, err := rows.NewFlattener(src.KeyOf, src.ChildrenOf, rows.FlattenerOptions{})
	if err != nil {
		return err
	}

	e.source = src
	e.flat = flat
	e.fixedRows = fixed
	e.flattener = flattener
	if e.variable != nil {
		e.variable.Forget(0)
	}
	return nil
}

func (e *Engine[R]) estimateRow(i int) float64 {
	if e.source.HeightOf == nil || i < 0 || i >= len(e.flat.Rows) {
		return 0
	}
	return e.source.HeightOf(e.flat.Rows[i].Row)
}

// ---- derived state ----

// recompute derives layout, visible range and pane offsets from the
// current inputs.
func (e *Engine[R]) recompute() {
	e.layout = e.memo.Compute(e.columns, e.sizing())

	count := e.flat.Len()
	if e.machine.ObserveRowCount(count) {
		e.driver.Invalidate()
	}
	e.machine.PruneHover(e.hasRow)

	e.updateWindow()

	e.log.Debug().
		Int("rows", count).
		Int("fixed_rows", len(e.fixedRows)).
		Int("columns", len(e.columns)).
		Float64("body_width", e.layout.BodyWidth).
		Float64("body_height", e.layout.BodyHeight).
		Int("start", e.rng.Start).
		Int("stop", e.rng.Stop).
		Msg("recomputed")
}

func (e *Engine[R]) updateWindow() {
	x, y := e.offsets()
	e.rng = e.driver.Range(e.flat.Len(), e.heights, y, e.layout.BodyHeight)
	e.panes.SyncFromMain(x, y, e.rng)
	e.machine.EndUpdate()
}

func (e *Engine[R]) rangeChanged(r virtual.Range) {
	if h := e.opts.Handlers.OnRowsRendered; h != nil {
		h(r)
	}
}

func (e *Engine[R]) sizing() layout.Sizing {
	return layout.Sizing{
		Width:           e.width,
		Height:          e.height,
		GutterWidth:     e.opts.GutterWidth,
		HeaderHeights:   e.opts.HeaderHeights,
		FooterHeight:    e.opts.FooterHeight,
		FixedRowsHeight: e.fixedRowsHeight(),
		Fit:             e.opts.Fit,
	}
}

func (e *Engine[R]) fixedRowsHeight() float64 {
	if len(e.fixedRows) == 0 {
		return 0
	}
	h := e.opts.RowHeight
	if e.variable != nil {
		h = e.variable.Estimate()
	}
	return float64(len(e.fixedRows)) * h
}

// offsets returns the scroll position clamped to the scrollable extent.
func (e *Engine[R]) offsets() (x, y float64) {
	s := e.machine.Scroll()
	x = math.Min(s.X, e.layout.MaxScrollX())
	y = math.Min(s.Y, e.MaxScrollY())
	return math.Max(x, 0), math.Max(y, 0)
}

func (e *Engine[R]) hasRow(key string) bool {
	if _, ok := e.flat.DepthMap[key]; ok {
		return true
	}
	for _, f := range e.fixedRows {
		if f.Key == key {
			return true
		}
	}
	return false
}

// ---- read side ----

// Columns returns the normalized columns in display order.
func (e *Engine[R]) Columns() []column.Column { return e.columns }

// Groups returns the columns split by pane.
func (e *Engine[R]) Groups() column.Groups { return e.groups }

// Layout returns the current layout.
func (e *Engine[R]) Layout() layout.Layout { return e.layout }

// Rows returns the flattened body rows.
func (e *Engine[R]) Rows() rows.Result[R] { return e.flat }

// FixedRows returns the pinned rows.
func (e *Engine[R]) FixedRows() []rows.Flat[R] { return e.fixedRows }

// RowCount returns the number of flattened body rows.
func (e *Engine[R]) RowCount() int { return e.flat.Len() }

// Range returns the current row window.
func (e *Engine[R]) Range() virtual.Range { return e.rng }

// Panes returns the state of every pane, main first.
func (e *Engine[R]) Panes() []pane.Pane { return e.panes.Panes() }

// State exposes the interaction state machine for read access.
func (e *Engine[R]) State() *state.Machine { return e.machine }

// TotalHeight is the height of every body row.
func (e *Engine[R]) TotalHeight() float64 { return e.heights.Total(e.flat.Len()) }

// MaxScrollY is the largest vertical offset of the body.
func (e *Engine[R]) MaxScrollY() float64 {
	return math.Max(e.TotalHeight()-e.layout.BodyHeight, 0)
}

// RowTop returns the offset of body row i from the top of the content.
func (e *Engine[R]) RowTop(i int) float64 { return e.heights.Offset(i) }

// RowHeight returns the height of body row i.
func (e *Engine[R]) RowHeight(i int) float64 { return e.heights.Height(i) }

// RowAt returns the key of the body row at y pixels below the top of the
// visible body, or "" when there is none.
func (e *Engine[R]) RowAt(y float64) string {
	count := e.flat.Len()
	if y < 0 || y >= e.layout.BodyHeight || count == 0 {
		return ""
	}
	_, off := e.offsets()
	abs := off + y
	if abs >= e.TotalHeight() {
		return ""
	}
	i := e.heights.IndexAt(abs, count)
	if i < 0 {
		return ""
	}
	return e.flat.Rows[i].Key
}

// ---- scroll ----

// Scroll moves the main pane to (x, y) and returns the scroll sequence
// number to pass to Settle once the debounce window has elapsed.
func (e *Engine[R]) Scroll(x, y float64) uint64 {
	x = math.Min(math.Max(x, 0), e.layout.MaxScrollX())
	y = math.Min(math.Max(y, 0), e.MaxScrollY())
	seq := e.machine.ScrollTo(state.ScrollEvent{X: x, Y: y})
	e.updateWindow()
	return seq
}

// ScrollBy scrolls relative to the current position.
func (e *Engine[R]) ScrollBy(dx, dy float64) uint64 {
	x, y := e.offsets()
	return e.Scroll(x+dx, y+dy)
}

// ScrollFromPane handles a vertical scroll reported by any pane. Scrolls of
// a fixed pane drive the main pane; echoes of synchronized offsets are
// ignored. ok is false when the event was swallowed.
func (e *Engine[R]) ScrollFromPane(id pane.ID, y float64) (seq uint64, ok bool) {
	if !e.panes.ScrollFrom(id, y) {
		return 0, false
	}
	x, _ := e.offsets()
	return e.Scroll(x, y), true
}

// ScrollToTop sets the vertical offset, keeping the horizontal one.
func (e *Engine[R]) ScrollToTop(y float64) uint64 {
	x, _ := e.offsets()
	return e.Scroll(x, y)
}

// ScrollToLeft sets the horizontal offset, keeping the vertical one.
func (e *Engine[R]) ScrollToLeft(x float64) uint64 {
	_, y := e.offsets()
	return e.Scroll(x, y)
}

// ScrollToRow brings body row index into view with the given alignment.
func (e *Engine[R]) ScrollToRow(index int, align virtual.Alignment) uint64 {
	x, y := e.offsets()
	target := virtual.ScrollOffsetFor(index, e.flat.Len(), e.heights, e.layout.BodyHeight, y, align)
	return e.Scroll(x, target)
}

// Settle ends the scrolling phase started by the scroll with sequence seq.
func (e *Engine[R]) Settle(seq uint64) bool { return e.machine.Settle(seq) }

// Tick ends the scrolling phase once the debounce window has passed.
func (e *Engine[R]) Tick(now time.Time) bool { return e.machine.Tick(now) }

// IsScrolling reports whether a scroll is in progress.
func (e *Engine[R]) IsScrolling() bool { return e.machine.Scroll().IsScrolling }

// IsResetting reports whether the row count jumped in the last update. The
// range reported before the jump no longer matches the rows.
func (e *Engine[R]) IsResetting() bool { return e.machine.IsResetting() }

// MeasureRow records the rendered height of body row i when variable
// heights are on.
func (e *Engine[R]) MeasureRow(i int, h float64) {
	if e.variable == nil {
		return
	}
	e.variable.Measure(i, h)
	e.updateWindow()
}

// ---- sort ----

// ClickHeader rotates the sort order of the column with key.
func (e *Engine[R]) ClickHeader(key string) (state.SortEvent, error) {
	col, ok := column.Find(e.columns, key)
	if !ok {
		return state.SortEvent{}, fmt.Errorf("%w: %q", ErrUnknownColumn, key)
	}
	return e.machine.ClickHeader(col)
}

// SetSort replaces the sort specification.
func (e *Engine[R]) SetSort(spec state.SortSpec) { e.machine.SetSort(spec) }

// Sort returns the sort specification.
func (e *Engine[R]) Sort() state.SortSpec { return e.machine.Sort() }

// ---- resize ----

// ResizeStart begins dragging the right edge of the column with key at
// pointer position x.
func (e *Engine[R]) ResizeStart(key string, x float64) (state.ResizeEvent, error) {
	col, ok := column.Find(e.columns, key)
	if !ok {
		return state.ResizeEvent{}, fmt.Errorf("%w: %q", ErrUnknownColumn, key)
	}
	ev, err := e.machine.ResizeStart(col, col.Width, x)
	if err != nil {
		e.log.Debug().Err(err).Str("column", key).Msg("resize rejected")
	}
	return ev, err
}

// ResizeMove reports the pointer position during a drag.
func (e *Engine[R]) ResizeMove(x float64) (state.ResizeEvent, error) {
	return e.machine.ResizeMove(x)
}

// ResizeStop ends a drag. A committed width is applied to the engine's
// column declarations.
func (e *Engine[R]) ResizeStop() (state.ResizeEvent, bool) {
	ev, committed := e.machine.ResizeStop()
	if !committed {
		return ev, false
	}
	if err := e.SetColumnWidth(ev.ColumnKey, ev.Width); err != nil {
		e.log.Warn().Err(err).Str("column", ev.ColumnKey).Msg("applying resized width")
	}
	return ev, true
}

// ResizeCancel abandons a drag.
func (e *Engine[R]) ResizeCancel() bool { return e.machine.ResizeCancel() }

// ---- hover ----

// Hover records pointer enter or leave on the row with key.
func (e *Engine[R]) Hover(key string, entered bool) bool {
	if entered && !e.hasRow(key) {
		return false
	}
	return e.machine.Hover(key, entered)
}

// ---- expansion ----

// ToggleRow expands or collapses the row with key and returns the new state.
// OnRowExpand fires only once the new sequence is in place. Pending
// asynchronous flattens are superseded.
func (e *Engine[R]) ToggleRow(key string) (bool, error) {
	idx := e.flat.IndexOf(key)
	if idx < 0 {
		return false, fmt.Errorf("%w: %q", ErrUnknownRow, key)
	}

	next := e.machine.Expanded()
	next.Toggle(key)
	flat, err := rows.Flatten(e.source.Roots, next, e.source.KeyOf, e.source.ChildrenOf)
	if err != nil {
		return false, fmt.Errorf("flattening rows: %w", err)
	}
	e.flattener.Request()

	e.flat = flat
	if e.variable != nil {
		e.variable.Forget(idx + 1)
	}
	expanded := e.machine.ToggleExpanded(key)
	e.expandedChanged()
	e.recompute()
	return expanded, nil
}

// SetExpanded replaces the expansion set and flattens synchronously.
// Pending asynchronous flattens are superseded.
func (e *Engine[R]) SetExpanded(keys rows.KeySet) error {
	flat, err := rows.Flatten(e.source.Roots, keys, e.source.KeyOf, e.source.ChildrenOf)
	if err != nil {
		return fmt.Errorf("flattening rows: %w", err)
	}
	e.flattener.Request()

	e.machine.SetExpanded(keys)
	e.flat = flat
	if e.variable != nil {
		e.variable.Forget(0)
	}
	e.expandedChanged()
	e.recompute()
	return nil
}

// ExpandAllKeys returns the key of every row that has children.
func (e *Engine[R]) ExpandAllKeys() rows.KeySet {
	return rows.ParentKeys(e.source.Roots, e.source.KeyOf, e.source.ChildrenOf)
}

func (e *Engine[R]) expandedChanged() {
	if h := e.opts.Handlers.OnExpandedRowsChange; h != nil {
		h(e.machine.Expanded().Keys())
	}
}
