package state

import (
	"fmt"
	"slices"
	"strings"
)

// SortOrder is the direction of a column sort.
type SortOrder int

const (
	// SortNone means the column is not sorted.
	SortNone SortOrder = iota
	// SortAsc sorts ascending.
	SortAsc
	// SortDesc sorts descending.
	SortDesc
)

// String returns "asc", "desc" or "none".
func (o SortOrder) String() string {
	switch o {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	default:
		return "none"
	}
}

// ParseSortOrder parses asc/desc/none (case-insensitive, long forms accepted).
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "asc", "ascending":
		return SortAsc, nil
	case "desc", "descending":
		return SortDesc, nil
	default:
		return SortNone, fmt.Errorf("%w: %q", ErrInvalidOrder, s)
	}
}

// Opposite returns the reversed direction; SortNone has no opposite.
func (o SortOrder) Opposite() SortOrder {
	switch o {
	case SortAsc:
		return SortDesc
	case SortDesc:
		return SortAsc
	default:
		return SortNone
	}
}

// NextOrder rotates an order one step. With allowNone the cycle is
// none -> asc -> desc -> none, otherwise asc <-> desc with none entering at asc.
func NextOrder(cur SortOrder, allowNone bool) SortOrder {
	switch cur {
	case SortAsc:
		return SortDesc
	case SortDesc:
		if allowNone {
			return SortNone
		}
		return SortAsc
	default:
		return SortAsc
	}
}

// SortKey is one column's entry in a sort specification.
type SortKey struct {
	Key   string
	Order SortOrder
}

// SortSpec is the active sort specification. Entries keep the order in which
// columns were first sorted, which is their priority.
type SortSpec struct {
	keys []SortKey
}

// NewSortSpec builds a spec, dropping SortNone entries and repeated keys.
func NewSortSpec(keys ...SortKey) SortSpec {
	var s SortSpec
	for _, k := range keys {
		s = s.With(k.Key, k.Order, false)
	}
	return s
}

// Order returns the order of key, SortNone when absent.
func (s SortSpec) Order(key string) SortOrder {
	for _, k := range s.keys {
		if k.Key == key {
			return k.Order
		}
	}
	return SortNone
}

// Keys returns a copy of the entries in priority order.
func (s SortSpec) Keys() []SortKey { return slices.Clone(s.keys) }

// Len returns the number of sorted columns.
func (s SortSpec) Len() int { return len(s.keys) }

// Primary returns the highest priority entry.
func (s SortSpec) Primary() (SortKey, bool) {
	if len(s.keys) == 0 {
		return SortKey{}, false
	}
	return s.keys[0], true
}

// With returns a spec where key has order. In single mode every other key is
// cleared. SortNone removes key.
func (s SortSpec) With(key string, order SortOrder, single bool) SortSpec {
	if single {
		if order == SortNone {
			return SortSpec{}
		}
		return SortSpec{keys: []SortKey{{Key: key, Order: order}}}
	}

	out := make([]SortKey, 0, len(s.keys)+1)
	found := false
	for _, k := range s.keys {
		if k.Key != key {
			out = append(out, k)
			continue
		}
		found = true
		if order != SortNone {
			out = append(out, SortKey{Key: key, Order: order})
		}
	}
	if !found && order != SortNone {
		out = append(out, SortKey{Key: key, Order: order})
	}
	return SortSpec{keys: out}
}

// Equal reports whether both specs hold the same entries in the same order.
func (s SortSpec) Equal(o SortSpec) bool { return slices.Equal(s.keys, o.keys) }

// String renders the spec as "key:order,key:order".
func (s SortSpec) String() string {
	parts := make([]string, len(s.keys))
	for i, k := range s.keys {
		parts[i] = k.Key + ":" + k.Order.String()
	}
	return strings.Join(parts, ",")
}

// HeaderSort reports how a header should show its sort indicator: whether
// the column is sorted, and the order to display (ascending when unsorted).
func (s SortSpec) HeaderSort(key string) (bool, SortOrder) {
	if o := s.Order(key); o != SortNone {
		return true, o
	}
	return false, SortAsc
}
