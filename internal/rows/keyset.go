package rows

import (
	"maps"
	"slices"
)

// KeySet is a set of row keys, used for the expansion state.
type KeySet map[string]struct{}

// NewKeySet returns a set holding keys.
func NewKeySet(keys ...string) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports membership. A nil set is empty.
func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Add inserts key.
func (s KeySet) Add(key string) { s[key] = struct{}{} }

// Remove deletes key.
func (s KeySet) Remove(key string) { delete(s, key) }

// Toggle flips membership of key and returns the new state.
func (s KeySet) Toggle(key string) bool {
	if s.Has(key) {
		delete(s, key)
		return false
	}
	s[key] = struct{}{}
	return true
}

// Clone returns an independent copy.
func (s KeySet) Clone() KeySet {
	if s == nil {
		return KeySet{}
	}
	return maps.Clone(s)
}

// Keys returns the members in sorted order.
func (s KeySet) Keys() []string {
	return slices.Sorted(maps.Keys(s))
}

// Equal reports whether both sets hold the same keys.
func (s KeySet) Equal(o KeySet) bool {
	if len(s) != len(o) {
		return false
	}
	for k := range s {
		if !o.Has(k) {
			return false
		}
	}
	return true
}
