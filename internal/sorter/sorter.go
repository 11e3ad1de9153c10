package sorter

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rshade/vtable/internal/column"
	"github.com/rshade/vtable/internal/rows"
	"github.com/rshade/vtable/internal/state"
)

// sortPartsMax is the number of parts in a "field:order" term.
const sortPartsMax = 2

// Sort expression errors.
var (
	ErrEmptySortExpression = errors.New("empty sort expression")
	ErrInvalidSortFormat   = errors.New("invalid sort format: use 'key' or 'key:order' (e.g., 'price:desc')")
	ErrUnknownSortKey      = errors.New("unknown sort key")
)

// Sort returns items ordered by spec. Entries whose column is unknown are
// skipped. The input slice is not modified.
func Sort[R any](items []R, cols []column.Column, spec state.SortSpec) []R {
	sorted := slices.Clone(items)
	keys := resolve(cols, spec)
	if len(keys) == 0 {
		return sorted
	}

	slices.SortStableFunc(sorted, func(a, b R) int {
		for _, k := range keys {
			va, _ := column.CellValue(k.col, a, 0)
			vb, _ := column.CellValue(k.col, b, 0)
			c := Compare(va, vb)
			if k.order == state.SortDesc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return sorted
}

// Children wraps childrenOf so every sibling group comes back sorted.
func Children[R any](childrenOf rows.ChildrenFunc[R], cols []column.Column, spec state.SortSpec) rows.ChildrenFunc[R] {
	if childrenOf == nil {
		return nil
	}
	if spec.Len() == 0 {
		return childrenOf
	}
	return func(r R) []R {
		return Sort(childrenOf(r), cols, spec)
	}
}

type sortColumn struct {
	col   column.Column
	order state.SortOrder
}

func resolve(cols []column.Column, spec state.SortSpec) []sortColumn {
	var out []sortColumn
	for _, k := range spec.Keys() {
		col, ok := column.Find(cols, k.Key)
		if !ok || col.Placeholder || k.Order == state.SortNone {
			continue
		}
		out = append(out, sortColumn{col: col, order: k.Order})
	}
	return out
}

// Compare orders two cell values. Missing values sort first; numbers compare
// numerically across integer and float kinds; mismatched kinds fall back to
// their string forms.
func Compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}

	switch va := a.(type) {
	case string:
		if vb, ok := b.(string); ok {
			return strings.Compare(va, vb)
		}
	case bool:
		if vb, ok := b.(bool); ok {
			switch {
			case va == vb:
				return 0
			case !va:
				return -1
			default:
				return 1
			}
		}
	case time.Time:
		if vb, ok := b.(time.Time); ok {
			return va.Compare(vb)
		}
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// ParseSortExpression parses a comma separated list of "key" or "key:order"
// terms. A bare key sorts ascending. Keys must name a sortable column.
func ParseSortExpression(expr string, cols []column.Column) (state.SortSpec, error) {
	if strings.TrimSpace(expr) == "" {
		return state.SortSpec{}, ErrEmptySortExpression
	}

	var keys []state.SortKey
	for _, term := range strings.Split(expr, ",") {
		parts := strings.Split(term, ":")
		if len(parts) > sortPartsMax {
			return state.SortSpec{}, fmt.Errorf("%w: %q", ErrInvalidSortFormat, term)
		}

		key := strings.TrimSpace(parts[0])
		if key == "" {
			return state.SortSpec{}, fmt.Errorf("%w: %q", ErrInvalidSortFormat, term)
		}
		if col, ok := column.Find(cols, key); !ok || !col.Sortable {
			return state.SortSpec{}, fmt.Errorf("%w: %q", ErrUnknownSortKey, key)
		}

		order := state.SortAsc
		if len(parts) == sortPartsMax {
			o, err := state.ParseSortOrder(parts[1])
			if err != nil {
				return state.SortSpec{}, err
			}
			order = o
		}
		keys = append(keys, state.SortKey{Key: key, Order: order})
	}
	return state.NewSortSpec(keys...), nil
}
