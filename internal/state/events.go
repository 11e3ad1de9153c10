package state

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// ScrollEvent is a scroll position report from the main pane.
type ScrollEvent struct {
	X, Y float64
	At   time.Time
}

// SortEvent is emitted when a header click changes the sort specification.
type SortEvent struct {
	Key   string
	Order SortOrder
	Spec  SortSpec
}

// ResizeEvent carries the column and width of a resize notification.
type ResizeEvent struct {
	SessionID ulid.ULID
	ColumnKey string
	Width     float64
}

// HoverEvent is emitted when the hovered row changes.
type HoverEvent struct {
	Key     string
	Hovered bool
}

// ExpandEvent is emitted when a row is expanded or collapsed.
type ExpandEvent struct {
	Key      string
	Expanded bool
	Keys     []string
}

// Handlers receive state notifications. Nil handlers are skipped.
type Handlers struct {
	OnScroll            func(ScrollEvent)
	OnColumnSort        func(SortEvent)
	OnColumnResizeStart func(ResizeEvent)
	OnColumnResize      func(ResizeEvent)
	OnColumnResizeEnd   func(ResizeEvent)
	OnRowHover          func(HoverEvent)
	OnRowExpand         func(ExpandEvent)
}
