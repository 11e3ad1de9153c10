package table

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/vtable/internal/layout"
	"github.com/rshade/vtable/internal/rows"
	"github.com/rshade/vtable/internal/state"
	"github.com/rshade/vtable/internal/virtual"
)

// Defaults used by DefaultOptions.
const (
	DefaultRowHeight   = 50
	DefaultIndentSize  = 12
	DefaultGutterWidth = 6
)

// Handlers receive engine notifications. Nil handlers are skipped.
type Handlers struct {
	state.Handlers

	// OnExpandedRowsChange receives the sorted expansion set after it changed.
	OnExpandedRowsChange func(keys []string)
	// OnRowsRendered receives the visible range whenever it changes.
	OnRowsRendered func(r virtual.Range)
}

// Options configure an Engine.
type Options struct {
	OverscanRowCount int
	ScrollDebounce   time.Duration
	MinColumnWidth   float64

	SingleSortMode bool
	SortCycleNone  bool
	ResetThreshold int

	GutterWidth float64
	IndentSize  float64

	// RowHeight is used when EstimatedRowHeight is zero.
	RowHeight float64
	// EstimatedRowHeight switches to variable row heights.
	EstimatedRowHeight float64

	HeaderHeights []float64
	FooterHeight  float64
	Fit           bool

	// ExpandColumnKey names the column that carries the expand toggle.
	ExpandColumnKey string

	// MemoSize bounds the layout cache.
	MemoSize int

	Handlers Handlers
	Logger   zerolog.Logger

	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

// DefaultOptions returns options with the engine defaults applied.
func DefaultOptions() Options {
	return Options{
		OverscanRowCount: virtual.DefaultOverscan,
		ScrollDebounce:   state.DefaultScrollDebounce,
		SingleSortMode:   true,
		GutterWidth:      DefaultGutterWidth,
		IndentSize:       DefaultIndentSize,
		RowHeight:        DefaultRowHeight,
		HeaderHeights:    []float64{layout.DefaultHeaderHeight},
		MemoSize:         layout.DefaultMemoSize,
		Logger:           zerolog.Nop(),
	}
}

// Source is the data an Engine displays.
type Source[R any] struct {
	Roots []R
	// Fixed rows are pinned above the body and never scroll.
	Fixed []R

	KeyOf      rows.KeyFunc[R]
	ChildrenOf rows.ChildrenFunc[R]

	// HeightOf estimates the height of a row when variable heights are on.
	// Non-positive values fall back to EstimatedRowHeight.
	HeightOf func(row R) float64
}
