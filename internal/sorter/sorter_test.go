package sorter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/vtable/internal/column"
	"github.com/rshade/vtable/internal/rows"
	"github.com/rshade/vtable/internal/sorter"
	"github.com/rshade/vtable/internal/state"
)

type item = map[string]any

func testColumns(t *testing.T) []column.Column {
	t.Helper()
	cols, err := column.Normalize([]column.Declaration{
		{Key: "name", DataKey: "name", Sortable: true},
		{Key: "qty", DataKey: "qty", Sortable: true},
		{Key: "note", DataKey: "note"},
	}, column.Options{})
	require.NoError(t, err)
	return cols
}

func names(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i], _ = it["name"].(string)
	}
	return out
}

func TestSort(t *testing.T) {
	cols := testColumns(t)
	data := []item{
		{"name": "c", "qty": 2},
		{"name": "a", "qty": 10},
		{"name": "b", "qty": 2.5},
		{"name": "d", "qty": 2},
	}

	tests := []struct {
		name string
		spec state.SortSpec
		want []string
	}{
		{
			name: "no spec keeps order",
			spec: state.SortSpec{},
			want: []string{"c", "a", "b", "d"},
		},
		{
			name: "name asc",
			spec: state.NewSortSpec(state.SortKey{Key: "name", Order: state.SortAsc}),
			want: []string{"a", "b", "c", "d"},
		},
		{
			name: "qty desc mixes ints and floats",
			spec: state.NewSortSpec(state.SortKey{Key: "qty", Order: state.SortDesc}),
			want: []string{"a", "b", "c", "d"},
		},
		{
			name: "qty asc is stable",
			spec: state.NewSortSpec(state.SortKey{Key: "qty", Order: state.SortAsc}),
			want: []string{"c", "d", "b", "a"},
		},
		{
			name: "secondary key breaks ties",
			spec: state.NewSortSpec(
				state.SortKey{Key: "qty", Order: state.SortAsc},
				state.SortKey{Key: "name", Order: state.SortDesc},
			),
			want: []string{"d", "c", "b", "a"},
		},
		{
			name: "unknown key ignored",
			spec: state.NewSortSpec(state.SortKey{Key: "ghost", Order: state.SortAsc}),
			want: []string{"c", "a", "b", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sorter.Sort(data, cols, tt.spec)
			assert.Equal(t, tt.want, names(got))
			assert.Equal(t, []string{"c", "a", "b", "d"}, names(data), "input untouched")
		})
	}
}

func TestChildren(t *testing.T) {
	cols := testColumns(t)
	root := item{"name": "root", "children": []item{{"name": "z"}, {"name": "m"}}}
	childrenOf := func(r item) []item {
		c, _ := r["children"].([]item)
		return c
	}

	spec := state.NewSortSpec(state.SortKey{Key: "name", Order: state.SortAsc})
	sorted := sorter.Children(childrenOf, cols, spec)

	res, err := rows.Flatten([]item{root}, rows.NewKeySet("root"),
		func(r item) string { return r["name"].(string) }, sorted)
	require.NoError(t, err)
	require.Equal(t, 3, res.Len())
	assert.Equal(t, "m", res.Rows[1].Key)
	assert.Equal(t, "z", res.Rows[2].Key)

	assert.Nil(t, sorter.Children[item](nil, cols, spec))
}

func TestCompare(t *testing.T) {
	now := time.Now()
	assert.Equal(t, 0, sorter.Compare(nil, nil))
	assert.Equal(t, -1, sorter.Compare(nil, 1))
	assert.Equal(t, 1, sorter.Compare("a", nil))
	assert.Equal(t, -1, sorter.Compare(int64(2), 2.5))
	assert.Equal(t, 1, sorter.Compare(uint8(9), 3))
	assert.Equal(t, -1, sorter.Compare(false, true))
	assert.Equal(t, 1, sorter.Compare(now.Add(time.Second), now))
	assert.Equal(t, -1, sorter.Compare("10", 9), "mixed kinds compare as strings")
}

func TestParseSortExpression(t *testing.T) {
	cols := testColumns(t)

	spec, err := sorter.ParseSortExpression("qty:desc, name", cols)
	require.NoError(t, err)
	assert.Equal(t, "qty:desc,name:asc", spec.String())

	tests := []struct {
		expr string
		want error
	}{
		{"", sorter.ErrEmptySortExpression},
		{"name:asc:desc", sorter.ErrInvalidSortFormat},
		{":asc", sorter.ErrInvalidSortFormat},
		{"note", sorter.ErrUnknownSortKey},
		{"ghost:asc", sorter.ErrUnknownSortKey},
		{"name:sideways", state.ErrInvalidOrder},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := sorter.ParseSortExpression(tt.expr, cols)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
