package column_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/vtable/internal/column"
)

func keys(cols []column.Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Key
	}
	return out
}

func TestNormalize_GroupOrder(t *testing.T) {
	decls := []column.Declaration{
		{Key: "a", Width: 100},
		{Key: "r1", Width: 50, Fixed: column.FixedRight},
		{Key: "l1", Width: 60, Fixed: column.FixedLeft},
		{Key: "b", Width: 100},
		{Key: "l2", Width: 70, Fixed: column.FixedLeft},
	}

	cols, err := column.Normalize(decls, column.Options{GutterWidth: 12})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"l1", "l2", column.PlaceholderLeftKey,
		"a", "b",
		"r1", column.PlaceholderRightKey,
	}, keys(cols))

	left, ok := column.Find(cols, column.PlaceholderLeftKey)
	require.True(t, ok)
	assert.True(t, left.Placeholder)
	assert.InDelta(t, 12, left.Width, 0)
	assert.False(t, left.Sortable)
	assert.False(t, left.Resizable)
}

func TestNormalize_NoFixedNoPlaceholder(t *testing.T) {
	cols, err := column.Normalize([]column.Declaration{{Key: "a"}, {Key: "b"}}, column.Options{GutterWidth: 12})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys(cols))
	assert.False(t, column.SplitGroups(cols).HasFixed())
}

func TestNormalize_OnlyLeftFixed(t *testing.T) {
	g, err := column.NormalizeGroups([]column.Declaration{
		{Key: "id", Fixed: column.FixedLeft},
		{Key: "name"},
	}, column.Options{GutterWidth: 8})
	require.NoError(t, err)
	assert.Len(t, g.Left, 2)
	assert.Empty(t, g.Right)
	assert.True(t, g.HasFixed())
}

func TestNormalize_Errors(t *testing.T) {
	getter := func(any, int, column.Column) any { return 1 }

	tests := []struct {
		name  string
		decls []column.Declaration
		want  error
	}{
		{
			name:  "duplicate key",
			decls: []column.Declaration{{Key: "a"}, {Key: "a"}},
			want:  column.ErrDuplicateKey,
		},
		{
			name:  "duplicate hidden key",
			decls: []column.Declaration{{Key: "a", Hidden: true}, {Key: "a"}},
			want:  column.ErrDuplicateKey,
		},
		{
			name:  "ambiguous accessor",
			decls: []column.Declaration{{Key: "a", DataKey: "a", DataGetter: getter}},
			want:  column.ErrAmbiguousAccessor,
		},
		{
			name:  "empty key",
			decls: []column.Declaration{{Width: 10}},
			want:  column.ErrEmptyKey,
		},
		{
			name:  "negative width",
			decls: []column.Declaration{{Key: "a", Width: -1}},
			want:  column.ErrNegativeWidth,
		},
		{
			name:  "reserved key",
			decls: []column.Declaration{{Key: column.PlaceholderLeftKey}},
			want:  column.ErrDuplicateKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := column.Normalize(tt.decls, column.Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNormalize_ClampsWidth(t *testing.T) {
	cols, err := column.Normalize([]column.Declaration{
		{Key: "a", Width: 10, MinWidth: 40},
		{Key: "b", Width: 500, MaxWidth: 200},
	}, column.Options{})
	require.NoError(t, err)
	assert.InDelta(t, 40, cols[0].Width, 0)
	assert.InDelta(t, 200, cols[1].Width, 0)
}

func TestNormalize_HiddenDropped(t *testing.T) {
	cols, err := column.Normalize([]column.Declaration{{Key: "a", Hidden: true}, {Key: "b"}}, column.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys(cols))
}

func TestCellValue(t *testing.T) {
	type owner struct{ Name string }
	row := map[string]any{
		"id":    7,
		"owner": map[string]any{"name": "ada"},
		"tags":  []any{"x", "y"},
		"ref":   owner{Name: "grace"},
	}

	cols, err := column.Normalize([]column.Declaration{
		{Key: "id", DataKey: "id"},
		{Key: "owner", DataKey: "owner.name"},
		{Key: "tag", DataKey: "tags.1"},
		{Key: "ref", DataKey: "ref.name"},
		{Key: "missing", DataKey: "nope.deeper"},
		{Key: "none"},
		{Key: "calc", DataGetter: func(r any, i int, c column.Column) any {
			return c.Key + ":" + string(rune('0'+i))
		}},
	}, column.Options{})
	require.NoError(t, err)

	want := map[string]any{
		"id":    7,
		"owner": "ada",
		"tag":   "y",
		"ref":   "grace",
		"calc":  "calc:3",
	}
	for _, c := range cols {
		v, ok := column.CellValue(c, row, 3)
		if expected, has := want[c.Key]; has {
			assert.True(t, ok, c.Key)
			assert.Equal(t, expected, v, c.Key)
		} else {
			assert.False(t, ok, c.Key)
			assert.Nil(t, v, c.Key)
		}
	}
}

func TestCellValue_Placeholder(t *testing.T) {
	cols, err := column.Normalize([]column.Declaration{{Key: "a", DataKey: "a", Fixed: column.FixedLeft}}, column.Options{})
	require.NoError(t, err)
	ph, ok := column.Find(cols, column.PlaceholderLeftKey)
	require.True(t, ok)

	_, found := column.CellValue(ph, map[string]any{"a": 1}, 0)
	assert.False(t, found)
	assert.Empty(t, ph.HeaderTitle())
}

func TestAccessorKind(t *testing.T) {
	assert.Equal(t, column.AccessorNone, column.PathAccessor("").Kind())
	assert.Equal(t, column.AccessorPath, column.PathAccessor("a.b").Kind())
	assert.Equal(t, "a.b", column.PathAccessor("a.b").Path())
	assert.Equal(t, column.AccessorNone, column.FuncAccessor(nil).Kind())
	assert.Equal(t, column.AccessorFunc, column.FuncAccessor(func(any, int, column.Column) any { return nil }).Kind())
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Unit Price", column.Title("unit_price"))
	assert.Equal(t, "Owner Name", column.Title("owner.name"))
	assert.Equal(t, "Given", column.Column{Key: "x", Title: "Given"}.HeaderTitle())
}

func TestParse(t *testing.T) {
	a, err := column.ParseAlignment("right")
	require.NoError(t, err)
	assert.Equal(t, column.AlignEnd, a)
	_, err = column.ParseAlignment("diagonal")
	assert.Error(t, err)

	f, err := column.ParseFixedSide("true")
	require.NoError(t, err)
	assert.Equal(t, column.FixedLeft, f)
	assert.Equal(t, "right", column.FixedRight.String())
}
