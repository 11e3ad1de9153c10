package rows

import "fmt"

// KeyFunc returns the identity key of a row.
type KeyFunc[R any] func(row R) string

// ChildrenFunc returns the child rows of a row; nil or empty means leaf.
type ChildrenFunc[R any] func(row R) []R

// Flat is one entry of the flattened row sequence.
type Flat[R any] struct {
	Row       R
	Key       string
	ParentKey string
	Depth     int

	// Index is the display position. Negative indices belong to fixed rows
	// that sit outside the scrollable body.
	Index int

	HasChildren bool
}

// Result is a flattened sequence together with its depth map.
type Result[R any] struct {
	Rows     []Flat[R]
	DepthMap map[string]int
}

// Len returns the number of body rows.
func (r Result[R]) Len() int { return len(r.Rows) }

// Depth returns the depth of key, 0 when unknown.
func (r Result[R]) Depth(key string) int { return r.DepthMap[key] }

// IndexOf returns the display index of key, or -1.
func (r Result[R]) IndexOf(key string) int {
	for i := range r.Rows {
		if r.Rows[i].Key == key {
			return i
		}
	}
	return -1
}

type frame[R any] struct {
	row    R
	depth  int
	parent string
}

// Flatten walks roots in pre-order, descending into a row's children only
// when its key is in expanded. Root rows have depth 0. The input rows are
// never modified.
func Flatten[R any](roots []R, expanded KeySet, keyOf KeyFunc[R], childrenOf ChildrenFunc[R]) (Result[R], error) {
	if keyOf == nil {
		return Result[R]{}, ErrNilKeyFunc
	}

	res := Result[R]{
		Rows:     make([]Flat[R], 0, len(roots)),
		DepthMap: make(map[string]int, len(roots)),
	}

	// Explicit stack so very deep trees cannot exhaust the goroutine stack.
	stack := make([]frame[R], 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame[R]{row: roots[i]})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		key := keyOf(f.row)
		if key == "" {
			return Result[R]{}, fmt.Errorf("%w at index %d", ErrEmptyRowKey, len(res.Rows))
		}
		if _, dup := res.DepthMap[key]; dup {
			return Result[R]{}, fmt.Errorf("%w: %q", ErrDuplicateRowKey, key)
		}

		var children []R
		if childrenOf != nil {
			children = childrenOf(f.row)
		}

		res.DepthMap[key] = f.depth
		res.Rows = append(res.Rows, Flat[R]{
			Row:         f.row,
			Key:         key,
			ParentKey:   f.parent,
			Depth:       f.depth,
			Index:       len(res.Rows),
			HasChildren: len(children) > 0,
		})

		if len(children) == 0 || !expanded.Has(key) {
			continue
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame[R]{row: children[i], depth: f.depth + 1, parent: key})
		}
	}

	return res, nil
}

// FixedRows turns pinned rows into out-of-band entries with indices -1, -2, ...
func FixedRows[R any](fixed []R, keyOf KeyFunc[R]) ([]Flat[R], error) {
	if len(fixed) == 0 {
		return nil, nil
	}
	if keyOf == nil {
		return nil, ErrNilKeyFunc
	}

	out := make([]Flat[R], 0, len(fixed))
	seen := make(map[string]struct{}, len(fixed))
	for i, r := range fixed {
		key := keyOf(r)
		if key == "" {
			return nil, fmt.Errorf("%w in fixed row %d", ErrEmptyRowKey, i)
		}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: fixed row %q", ErrDuplicateRowKey, key)
		}
		seen[key] = struct{}{}
		out = append(out, Flat[R]{Row: r, Key: key, Index: -(i + 1)})
	}
	return out, nil
}

// ParentKeys returns the keys of every row that has children, at any depth.
// Useful for expand-all.
func ParentKeys[R any](roots []R, keyOf KeyFunc[R], childrenOf ChildrenFunc[R]) KeySet {
	out := KeySet{}
	if keyOf == nil || childrenOf == nil {
		return out
	}
	stack := append([]R(nil), roots...)
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		children := childrenOf(r)
		if len(children) == 0 {
			continue
		}
		out.Add(keyOf(r))
		stack = append(stack, children...)
	}
	return out
}
