package column

import "fmt"

// Options tune normalization.
type Options struct {
	// GutterWidth is the width of the vertical scrollbar in the main pane.
	GutterWidth float64
}

// Groups is a normalized column set split by fixed side.
type Groups struct {
	Left  []Column
	Main  []Column
	Right []Column
}

// All returns the columns in display order: left, main, right.
func (g Groups) All() []Column {
	out := make([]Column, 0, len(g.Left)+len(g.Main)+len(g.Right))
	out = append(out, g.Left...)
	out = append(out, g.Main...)
	return append(out, g.Right...)
}

// HasFixed reports whether any fixed pane exists.
func (g Groups) HasFixed() bool {
	return len(g.Left) > 0 || len(g.Right) > 0
}

// Normalize validates declarations and returns the ordered column sequence.
func Normalize(decls []Declaration, opts Options) ([]Column, error) {
	g, err := NormalizeGroups(decls, opts)
	if err != nil {
		return nil, err
	}
	return g.All(), nil
}

// NormalizeGroups is Normalize without flattening the groups.
func NormalizeGroups(decls []Declaration, opts Options) (Groups, error) {
	var g Groups
	seen := make(map[string]struct{}, len(decls))

	for i, d := range decls {
		col, err := normalizeOne(d)
		if err != nil {
			return Groups{}, fmt.Errorf("column %d (%q): %w", i, d.Key, err)
		}
		if _, dup := seen[col.Key]; dup {
			return Groups{}, fmt.Errorf("%w: %q", ErrDuplicateKey, col.Key)
		}
		seen[col.Key] = struct{}{}

		if d.Hidden {
			continue
		}
		switch col.Fixed {
		case FixedLeft:
			g.Left = append(g.Left, col)
		case FixedRight:
			g.Right = append(g.Right, col)
		default:
			g.Main = append(g.Main, col)
		}
	}

	if len(g.Left) > 0 {
		g.Left = append(g.Left, placeholder(PlaceholderLeftKey, FixedLeft, opts.GutterWidth))
	}
	if len(g.Right) > 0 {
		g.Right = append(g.Right, placeholder(PlaceholderRightKey, FixedRight, opts.GutterWidth))
	}
	return g, nil
}

// SplitGroups regroups an already normalized sequence.
func SplitGroups(cols []Column) Groups {
	var g Groups
	for _, c := range cols {
		switch c.Fixed {
		case FixedLeft:
			g.Left = append(g.Left, c)
		case FixedRight:
			g.Right = append(g.Right, c)
		default:
			g.Main = append(g.Main, c)
		}
	}
	return g
}

// Find returns the column with the given key.
func Find(cols []Column, key string) (Column, bool) {
	for _, c := range cols {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

func normalizeOne(d Declaration) (Column, error) {
	switch {
	case d.Key == "":
		return Column{}, ErrEmptyKey
	case d.Key == PlaceholderLeftKey || d.Key == PlaceholderRightKey:
		return Column{}, fmt.Errorf("%w: %q is reserved", ErrDuplicateKey, d.Key)
	case d.DataKey != "" && d.DataGetter != nil:
		return Column{}, ErrAmbiguousAccessor
	case d.Width < 0 || d.MinWidth < 0 || d.MaxWidth < 0:
		return Column{}, ErrNegativeWidth
	case d.MaxWidth > 0 && d.MinWidth > d.MaxWidth:
		return Column{}, ErrInvalidBounds
	}

	acc := Accessor{}
	switch {
	case d.DataGetter != nil:
		acc = FuncAccessor(d.DataGetter)
	case d.DataKey != "":
		acc = PathAccessor(d.DataKey)
	}

	col := Column{
		Key:         d.Key,
		Title:       d.Title,
		MinWidth:    d.MinWidth,
		MaxWidth:    d.MaxWidth,
		Align:       d.Align,
		Fixed:       d.Fixed,
		Sortable:    d.Sortable,
		Resizable:   d.Resizable,
		Accessor:    acc,
		HeaderClass: d.HeaderClass,
		Class:       d.Class,
	}
	col.Width = col.ClampWidth(d.Width, 0)
	return col, nil
}

func placeholder(key string, side FixedSide, width float64) Column {
	return Column{
		Key:         key,
		Width:       width,
		Fixed:       side,
		Placeholder: true,
	}
}
