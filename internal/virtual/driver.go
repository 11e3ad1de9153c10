package virtual

import "math"

// DefaultOverscan is the number of extra rows rendered beyond each viewport edge.
const DefaultOverscan = 2

// Range is a window of row indices, inclusive on both ends. Start and Stop
// include overscan; VisibleStart and VisibleStop are the strict viewport.
type Range struct {
	Start        int
	Stop         int
	VisibleStart int
	VisibleStop  int
}

// EmptyRange is the range of an empty sequence.
var EmptyRange = Range{Start: -1, Stop: -1, VisibleStart: -1, VisibleStop: -1}

// IsEmpty reports whether the range holds no rows.
func (r Range) IsEmpty() bool { return r.Start < 0 || r.Stop < r.Start }

// Len returns the number of rows in the overscanned range.
func (r Range) Len() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Stop - r.Start + 1
}

// Contains reports whether i is inside the overscanned range.
func (r Range) Contains(i int) bool { return !r.IsEmpty() && i >= r.Start && i <= r.Stop }

// Compute returns the visible range for count rows at offsetY.
func Compute(count int, h Heights, offsetY, viewportH float64, overscan int) Range {
	if count <= 0 || h == nil {
		return EmptyRange
	}
	overscan = max(overscan, 0)
	viewportH = math.Max(viewportH, 0)

	maxOffset := math.Max(h.Total(count)-viewportH, 0)
	offsetY = math.Min(math.Max(offsetY, 0), maxOffset)

	start := h.IndexAt(offsetY, count)
	end := offsetY + viewportH
	stop := h.IndexAt(end, count)
	// A row that begins exactly at the bottom edge is not visible.
	if stop > start && h.Offset(stop) >= end {
		stop--
	}

	return Range{
		Start:        max(start-overscan, 0),
		Stop:         min(stop+overscan, count-1),
		VisibleStart: start,
		VisibleStop:  stop,
	}
}

// Driver tracks the previous range and notifies on change.
type Driver struct {
	Overscan      int
	OnRangeChange func(Range)

	prev    Range
	hasPrev bool
}

// NewDriver creates a driver with the given overscan.
func NewDriver(overscan int) *Driver {
	return &Driver{Overscan: overscan}
}

// Range computes the range and fires OnRangeChange when it differs from the
// previous call.
func (d *Driver) Range(count int, h Heights, offsetY, viewportH float64) Range {
	r := Compute(count, h, offsetY, viewportH, d.Overscan)
	if d.hasPrev && r == d.prev {
		return r
	}
	d.prev = r
	d.hasPrev = true
	if d.OnRangeChange != nil {
		d.OnRangeChange(r)
	}
	return r
}

// Last returns the most recent range.
func (d *Driver) Last() (Range, bool) { return d.prev, d.hasPrev }

// Invalidate forgets the previous range so the next call always notifies.
func (d *Driver) Invalidate() { d.hasPrev = false }

// FixedIndices returns the out-of-band indices of n pinned rows: -1 ... -n.
// They are always rendered and never part of a Range.
func FixedIndices(n int) []int {
	out := make([]int, max(n, 0))
	for i := range out {
		out[i] = -(i + 1)
	}
	return out
}
