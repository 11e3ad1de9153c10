package virtual

import (
	"math"
	"sort"
)

// Heights answers geometry queries about a row sequence.
type Heights interface {
	// Height returns the height of row i.
	Height(i int) float64
	// Offset returns the top of row i.
	Offset(i int) float64
	// IndexAt returns the row containing offset y, clamped to [0, count-1].
	IndexAt(y float64, count int) int
	// Total returns the height of the first count rows.
	Total(count int) float64
}

// FixedHeight is a uniform row height.
type FixedHeight float64

// Height implements Heights.
func (h FixedHeight) Height(int) float64 { return float64(h) }

// Offset implements Heights.
func (h FixedHeight) Offset(i int) float64 { return float64(i) * float64(h) }

// IndexAt implements Heights.
func (h FixedHeight) IndexAt(y float64, count int) int {
	if count <= 0 {
		return -1
	}
	if h <= 0 || y <= 0 {
		return 0
	}
	return min(int(math.Floor(y/float64(h))), count-1)
}

// Total implements Heights.
func (h FixedHeight) Total(count int) float64 { return float64(max(count, 0)) * float64(h) }

// VariableHeight serves per-row heights from measurements, an optional
// estimator function, and a fallback estimate.
type VariableHeight struct {
	estimate float64
	heightOf func(i int) float64
	measured map[int]float64

	// prefix[i] is the top of row i; valid for len(prefix) entries.
	prefix []float64
}

// NewVariableHeight creates a variable height table. heightOf may be nil;
// non-positive values from it fall back to estimate.
func NewVariableHeight(estimate float64, heightOf func(i int) float64) *VariableHeight {
	if estimate <= 0 {
		estimate = 1
	}
	return &VariableHeight{
		estimate: estimate,
		heightOf: heightOf,
		measured: make(map[int]float64),
		prefix:   []float64{0},
	}
}

// Estimate returns the fallback height.
func (v *VariableHeight) Estimate() float64 { return v.estimate }

// Measure records the real height of row i, invalidating offsets after it.
func (v *VariableHeight) Measure(i int, h float64) {
	if i < 0 || h < 0 {
		return
	}
	if old, ok := v.measured[i]; ok && old == h {
		return
	}
	v.measured[i] = h
	v.ResetAfter(i)
}

// ResetAfter drops cached offsets of rows after i. Measurements are kept.
func (v *VariableHeight) ResetAfter(i int) {
	i = max(i, 0)
	if len(v.prefix) > i+1 {
		v.prefix = v.prefix[:i+1]
	}
}

// Forget drops measurements of rows from i on, e.g. after the rows at those
// indices were replaced by an expand or collapse.
func (v *VariableHeight) Forget(i int) {
	i = max(i, 0)
	for k := range v.measured {
		if k >= i {
			delete(v.measured, k)
		}
	}
	v.ResetAfter(i)
}

// Height implements Heights.
func (v *VariableHeight) Height(i int) float64 {
	if h, ok := v.measured[i]; ok {
		return h
	}
	if v.heightOf != nil {
		if h := v.heightOf(i); h > 0 {
			return h
		}
	}
	return v.estimate
}

func (v *VariableHeight) ensure(n int) {
	for len(v.prefix) <= n {
		i := len(v.prefix) - 1
		v.prefix = append(v.prefix, v.prefix[i]+v.Height(i))
	}
}

// Offset implements Heights.
func (v *VariableHeight) Offset(i int) float64 {
	if i <= 0 {
		return 0
	}
	v.ensure(i)
	return v.prefix[i]
}

// Total implements Heights.
func (v *VariableHeight) Total(count int) float64 { return v.Offset(count) }

// IndexAt implements Heights.
func (v *VariableHeight) IndexAt(y float64, count int) int {
	if count <= 0 {
		return -1
	}
	if y <= 0 {
		return 0
	}
	v.ensure(count)
	i := sort.Search(count, func(i int) bool { return v.prefix[i+1] > y })
	return min(i, count-1)
}
