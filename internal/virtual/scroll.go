package virtual

import (
	"fmt"
	"math"
	"strings"
)

// Alignment controls where ScrollOffsetFor places a row in the viewport.
type Alignment int

const (
	// AlignAuto scrolls the minimum distance needed to show the row.
	AlignAuto Alignment = iota
	// AlignSmart behaves like auto when the row is near, center otherwise.
	AlignSmart
	// AlignStart puts the row at the top.
	AlignStart
	// AlignCenter centers the row.
	AlignCenter
	// AlignEnd puts the row at the bottom.
	AlignEnd
)

// ParseAlignment parses auto/smart/start/center/end.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return AlignAuto, nil
	case "smart":
		return AlignSmart, nil
	case "start":
		return AlignStart, nil
	case "center":
		return AlignCenter, nil
	case "end":
		return AlignEnd, nil
	default:
		return AlignAuto, fmt.Errorf("invalid scroll alignment %q", s)
	}
}

// ScrollOffsetFor returns the vertical offset that brings row index into
// view with the given alignment. current is the present offset.
func ScrollOffsetFor(index, count int, h Heights, viewportH, current float64, align Alignment) float64 {
	if count <= 0 || h == nil {
		return 0
	}
	index = min(max(index, 0), count-1)

	top := h.Offset(index)
	last := math.Max(h.Total(count)-viewportH, 0)
	maxOffset := math.Min(last, top)
	minOffset := math.Max(top-viewportH+h.Height(index), 0)

	if align == AlignSmart {
		if current >= minOffset-viewportH && current <= maxOffset+viewportH {
			align = AlignAuto
		} else {
			align = AlignCenter
		}
	}

	switch align {
	case AlignStart:
		return maxOffset
	case AlignEnd:
		return minOffset
	case AlignCenter:
		middle := math.Round(minOffset + (maxOffset-minOffset)/2)
		return math.Min(math.Max(middle, 0), last)
	default:
		switch {
		case current >= minOffset && current <= maxOffset:
			return current
		case current < minOffset:
			return minOffset
		default:
			return maxOffset
		}
	}
}
