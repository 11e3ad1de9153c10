package state

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/rshade/vtable/internal/column"
	"github.com/rshade/vtable/internal/rows"
)

// DefaultScrollDebounce is the quiescence window after which IsScrolling clears.
const DefaultScrollDebounce = 150 * time.Millisecond

// Options configure a Machine.
type Options struct {
	ScrollDebounce time.Duration
	MinColumnWidth float64

	// SingleSort clears other columns when a column is sorted.
	SingleSort bool
	// SortCycleNone makes "none" reachable in the header click rotation.
	SortCycleNone bool

	// ResetThreshold is the row count change above which IsResetting is set.
	ResetThreshold int

	Handlers Handlers
	Logger   zerolog.Logger

	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

// Scroll is the current scroll position.
type Scroll struct {
	X, Y        float64
	IsScrolling bool
	// DirectionY is +1 when the last scroll moved down, -1 up, 0 otherwise.
	DirectionY int
}

// ResizeSession is an in-progress column width drag.
type ResizeSession struct {
	ID         ulid.ULID
	ColumnKey  string
	StartWidth float64
	StartX     float64
	Width      float64
	Moved      bool

	column column.Column
}

// Machine is the single owner of a table's interaction state.
type Machine struct {
	opts Options
	log  zerolog.Logger

	scroll     Scroll
	scrollSeq  uint64
	lastScroll time.Time

	resize *ResizeSession
	sort   SortSpec

	hasFixed bool
	hovering string

	expanded rows.KeySet

	rowCount  int
	resetting bool
	// resetFresh is set until the update that observed the jump has ended.
	resetFresh bool
}

// New creates a machine in its default state.
func New(opts Options) *Machine {
	if opts.ScrollDebounce <= 0 {
		opts.ScrollDebounce = DefaultScrollDebounce
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Machine{
		opts:     opts,
		log:      opts.Logger.With().Str("component", "state").Logger(),
		expanded: rows.KeySet{},
		rowCount: -1,
	}
}

// Options returns the machine configuration.
func (m *Machine) Options() Options { return m.opts }

// SetHandlers replaces the notification handlers.
func (m *Machine) SetHandlers(h Handlers) { m.opts.Handlers = h }

// Reset returns every piece of state to its default, as on teardown.
func (m *Machine) Reset() {
	m.scroll = Scroll{}
	m.scrollSeq = 0
	m.lastScroll = time.Time{}
	m.resize = nil
	m.sort = SortSpec{}
	m.hovering = ""
	m.expanded = rows.KeySet{}
	m.rowCount = -1
	m.resetting = false
	m.resetFresh = false
}

// ---- scroll ----

// Scroll returns the current scroll position.
func (m *Machine) Scroll() Scroll { return m.scroll }

// ScrollTo records a scroll event. Offsets update immediately and
// IsScrolling is set; the returned sequence number identifies this event
// for Settle.
func (m *Machine) ScrollTo(ev ScrollEvent) uint64 {
	if ev.At.IsZero() {
		ev.At = m.opts.Now()
	}
	switch {
	case ev.Y > m.scroll.Y:
		m.scroll.DirectionY = 1
	case ev.Y < m.scroll.Y:
		m.scroll.DirectionY = -1
	}
	m.scroll.X = max(ev.X, 0)
	m.scroll.Y = max(ev.Y, 0)
	m.scroll.IsScrolling = true
	m.lastScroll = ev.At
	m.scrollSeq++

	if h := m.opts.Handlers.OnScroll; h != nil {
		h(ev)
	}
	return m.scrollSeq
}

// Settle clears IsScrolling if seq is still the latest scroll event.
func (m *Machine) Settle(seq uint64) bool {
	if seq != m.scrollSeq || !m.scroll.IsScrolling {
		return false
	}
	m.scroll.IsScrolling = false
	return true
}

// Tick clears IsScrolling once the debounce window has passed without scrolling.
func (m *Machine) Tick(now time.Time) bool {
	if !m.scroll.IsScrolling || now.Sub(m.lastScroll) < m.opts.ScrollDebounce {
		return false
	}
	m.scroll.IsScrolling = false
	return true
}

// ---- resize ----

// Resize returns the active resize session.
func (m *Machine) Resize() (ResizeSession, bool) {
	if m.resize == nil {
		return ResizeSession{}, false
	}
	return *m.resize, true
}

// ResizingKey returns the key of the column being resized, or "".
func (m *Machine) ResizingKey() string {
	if m.resize == nil {
		return ""
	}
	return m.resize.ColumnKey
}

// ResizeStart opens a resize session for col. A second start while a
// session is active is rejected and leaves the session unchanged.
func (m *Machine) ResizeStart(col column.Column, startWidth, startX float64) (ResizeEvent, error) {
	if m.resize != nil {
		m.log.Debug().
			Str("active", m.resize.ColumnKey).
			Str("requested", col.Key).
			Msg("resize start rejected")
		return ResizeEvent{}, fmt.Errorf("%w: %q", ErrResizeActive, m.resize.ColumnKey)
	}
	if !col.Resizable || col.Placeholder {
		return ResizeEvent{}, fmt.Errorf("%w: %q", ErrNotResizable, col.Key)
	}

	m.resize = &ResizeSession{
		ID:         ulid.Make(),
		ColumnKey:  col.Key,
		StartWidth: startWidth,
		StartX:     startX,
		Width:      startWidth,
		column:     col,
	}
	ev := m.resizeEvent()
	if h := m.opts.Handlers.OnColumnResizeStart; h != nil {
		h(ev)
	}
	return ev, nil
}

// ResizeMove updates the session width for pointer position x and emits a
// resize notification. The width is not committed.
func (m *Machine) ResizeMove(x float64) (ResizeEvent, error) {
	if m.resize == nil {
		return ResizeEvent{}, ErrNoResize
	}
	s := m.resize
	w := s.column.ClampWidth(s.StartWidth+(x-s.StartX), m.opts.MinColumnWidth)
	if w == s.Width && s.Moved {
		return m.resizeEvent(), nil
	}
	s.Width = w
	s.Moved = true

	ev := m.resizeEvent()
	if h := m.opts.Handlers.OnColumnResize; h != nil {
		h(ev)
	}
	return ev, nil
}

// ResizeStop ends the session and commits the final width through
// OnColumnResizeEnd. A stop without any pointer movement carries no valid
// delta and is treated as a cancellation; committed is false then.
func (m *Machine) ResizeStop() (ev ResizeEvent, committed bool) {
	if m.resize == nil {
		return ResizeEvent{}, false
	}
	if !m.resize.Moved {
		m.ResizeCancel()
		return ResizeEvent{}, false
	}

	ev = m.resizeEvent()
	m.resize = nil
	if h := m.opts.Handlers.OnColumnResizeEnd; h != nil {
		h(ev)
	}
	return ev, true
}

// ResizeCancel returns to idle without committing a width.
func (m *Machine) ResizeCancel() bool {
	if m.resize == nil {
		return false
	}
	m.log.Debug().Str("column", m.resize.ColumnKey).Msg("resize cancelled")
	m.resize = nil
	return true
}

func (m *Machine) resizeEvent() ResizeEvent {
	return ResizeEvent{SessionID: m.resize.ID, ColumnKey: m.resize.ColumnKey, Width: m.resize.Width}
}

// ---- sort ----

// Sort returns the current sort specification.
func (m *Machine) Sort() SortSpec { return m.sort }

// SetSort replaces the sort specification, e.g. when the data owner
// controls it. In single-sort mode only the primary entry is kept.
func (m *Machine) SetSort(spec SortSpec) {
	if m.opts.SingleSort {
		if p, ok := spec.Primary(); ok {
			spec = SortSpec{keys: []SortKey{p}}
		}
	}
	m.sort = spec
}

// ClickHeader rotates the order of col and publishes the new specification.
func (m *Machine) ClickHeader(col column.Column) (SortEvent, error) {
	if !col.Sortable || col.Placeholder {
		return SortEvent{}, fmt.Errorf("%w: %q", ErrNotSortable, col.Key)
	}

	next := NextOrder(m.sort.Order(col.Key), m.opts.SortCycleNone)
	m.sort = m.sort.With(col.Key, next, m.opts.SingleSort)

	ev := SortEvent{Key: col.Key, Order: next, Spec: m.sort}
	if h := m.opts.Handlers.OnColumnSort; h != nil {
		h(ev)
	}
	return ev, nil
}

// ---- hover ----

// SetHasFixed tells the machine whether fixed panes exist. Hover is only
// tracked when they do; turning it off clears the hovered row.
func (m *Machine) SetHasFixed(v bool) {
	m.hasFixed = v
	if !v {
		m.hovering = ""
	}
}

// HoveringKey returns the hovered row key, or "".
func (m *Machine) HoveringKey() string { return m.hovering }

// Hover records pointer enter/leave on a row. It reports whether the hovered
// row changed.
func (m *Machine) Hover(key string, entered bool) bool {
	if !m.hasFixed {
		return false
	}
	switch {
	case entered && m.hovering != key:
		m.hovering = key
	case !entered && m.hovering == key && key != "":
		m.hovering = ""
	default:
		return false
	}

	if h := m.opts.Handlers.OnRowHover; h != nil {
		h(HoverEvent{Key: key, Hovered: entered})
	}
	return true
}

// PruneHover clears the hovered row if it is no longer present.
func (m *Machine) PruneHover(present func(key string) bool) bool {
	if m.hovering == "" || present(m.hovering) {
		return false
	}
	m.hovering = ""
	return true
}

// ---- expansion ----

// Expanded returns a copy of the expanded row keys.
func (m *Machine) Expanded() rows.KeySet { return m.expanded.Clone() }

// IsExpanded reports whether key is expanded.
func (m *Machine) IsExpanded(key string) bool { return m.expanded.Has(key) }

// SetExpanded replaces the expansion set.
func (m *Machine) SetExpanded(keys rows.KeySet) { m.expanded = keys.Clone() }

// ToggleExpanded flips the expansion of key and emits OnRowExpand.
func (m *Machine) ToggleExpanded(key string) bool {
	expanded := m.expanded.Toggle(key)
	if h := m.opts.Handlers.OnRowExpand; h != nil {
		h(ExpandEvent{Key: key, Expanded: expanded, Keys: m.expanded.Keys()})
	}
	return expanded
}

// ---- reset flag ----

// IsResetting reports whether the row count just jumped. Consumers treat
// the previously rendered range as stale while it is set.
func (m *Machine) IsResetting() bool { return m.resetting }

// ObserveRowCount records the flattened row count of an update cycle. It
// sets IsResetting and reports true when the count moved by more than
// ResetThreshold.
func (m *Machine) ObserveRowCount(n int) bool {
	prev := m.rowCount
	m.rowCount = n
	if prev < 0 {
		return false
	}
	delta := n - prev
	if delta < 0 {
		delta = -delta
	}
	if delta <= m.opts.ResetThreshold {
		return false
	}
	m.resetting = true
	m.resetFresh = true
	m.log.Debug().Int("from", prev).Int("to", n).Msg("row count jump, resetting")
	return true
}

// EndUpdate marks the end of a window update. IsResetting survives the
// update that observed the jump and is cleared at the end of the next one.
func (m *Machine) EndUpdate() {
	if m.resetFresh {
		m.resetFresh = false
		return
	}
	m.resetting = false
}
