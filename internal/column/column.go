package column

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Alignment is the horizontal alignment of a column's cells.
type Alignment int

const (
	// AlignStart aligns content to the start edge.
	AlignStart Alignment = iota
	// AlignCenter centers content.
	AlignCenter
	// AlignEnd aligns content to the end edge.
	AlignEnd
)

// String returns the alignment name used in configuration files.
func (a Alignment) String() string {
	switch a {
	case AlignStart:
		return "start"
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	default:
		return fmt.Sprintf("Alignment(%d)", int(a))
	}
}

// ParseAlignment parses an alignment name. "left" and "right" are accepted
// as aliases of start and end.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "start", "left":
		return AlignStart, nil
	case "center":
		return AlignCenter, nil
	case "end", "right":
		return AlignEnd, nil
	default:
		return AlignStart, fmt.Errorf("invalid alignment %q", s)
	}
}

// FixedSide is the pane a column is pinned to.
type FixedSide int

const (
	// FixedNone columns scroll with the main pane.
	FixedNone FixedSide = iota
	// FixedLeft columns are pinned to the left edge.
	FixedLeft
	// FixedRight columns are pinned to the right edge.
	FixedRight
)

// String returns the side name used in configuration files.
func (f FixedSide) String() string {
	switch f {
	case FixedNone:
		return "none"
	case FixedLeft:
		return "left"
	case FixedRight:
		return "right"
	default:
		return fmt.Sprintf("FixedSide(%d)", int(f))
	}
}

// ParseFixedSide parses a fixed side name. "true" pins to the left.
func ParseFixedSide(s string) (FixedSide, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "false":
		return FixedNone, nil
	case "left", "true":
		return FixedLeft, nil
	case "right":
		return FixedRight, nil
	default:
		return FixedNone, fmt.Errorf("invalid fixed side %q", s)
	}
}

// Placeholder column keys.
const (
	PlaceholderLeftKey  = "__placeholder_left__"
	PlaceholderRightKey = "__placeholder_right__"
)

// Declaration is a column as supplied by the table owner.
type Declaration struct {
	Key       string
	Title     string
	Width     float64
	MinWidth  float64
	MaxWidth  float64
	Align     Alignment
	Fixed     FixedSide
	Sortable  bool
	Resizable bool
	Hidden    bool

	// At most one of DataKey and DataGetter may be set.
	DataKey    string
	DataGetter GetterFunc

	// Style hooks, passed through untouched.
	HeaderClass string
	Class       string
}

// Column is a normalized, layout-ready column.
type Column struct {
	Key         string
	Title       string
	Width       float64
	MinWidth    float64
	MaxWidth    float64
	Align       Alignment
	Fixed       FixedSide
	Sortable    bool
	Resizable   bool
	Accessor    Accessor
	HeaderClass string
	Class       string

	// Placeholder marks a synthetic, dataless gutter column.
	Placeholder bool
}

// HeaderTitle returns the column title, deriving one from the key when unset.
func (c Column) HeaderTitle() string {
	if c.Placeholder {
		return ""
	}
	if c.Title != "" {
		return c.Title
	}
	return Title(c.Key)
}

// Title turns a key such as "unit_price" or "owner.name" into "Unit Price" / "Owner Name".
func Title(key string) string {
	r := strings.NewReplacer("_", " ", "-", " ", ".", " ")
	return cases.Title(language.English).String(r.Replace(key))
}

// ClampWidth bounds w by the column's own limits and the supplied floor.
func (c Column) ClampWidth(w, floor float64) float64 {
	lo := max(c.MinWidth, floor)
	if w < lo {
		w = lo
	}
	if c.MaxWidth > 0 && w > c.MaxWidth {
		w = c.MaxWidth
	}
	return w
}
