package rows_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/vtable/internal/rows"
)

type node struct {
	ID       string
	Children []node
}

func keyOf(n node) string            { return n.ID }
func childrenOf(n node) []node       { return n.Children }
func leaf(id string) node            { return node{ID: id} }
func tree(id string, c ...node) node { return node{ID: id, Children: c} }

type kd struct {
	Key   string
	Depth int
}

func summarize(res rows.Result[node]) []kd {
	out := make([]kd, len(res.Rows))
	for i, r := range res.Rows {
		out[i] = kd{r.Key, r.Depth}
	}
	return out
}

// sample is A(B(D), C).
func sample() []node {
	return []node{tree("A", tree("B", leaf("D")), leaf("C"))}
}

func TestFlatten_Order(t *testing.T) {
	tests := []struct {
		name     string
		expanded rows.KeySet
		want     []kd
	}{
		{
			name:     "collapsed",
			expanded: nil,
			want:     []kd{{"A", 0}},
		},
		{
			name:     "root expanded",
			expanded: rows.NewKeySet("A"),
			want:     []kd{{"A", 0}, {"B", 1}, {"C", 1}},
		},
		{
			name:     "root and child expanded",
			expanded: rows.NewKeySet("A", "B"),
			want:     []kd{{"A", 0}, {"B", 1}, {"D", 2}, {"C", 1}},
		},
		{
			name:     "child expanded under collapsed ancestor",
			expanded: rows.NewKeySet("B"),
			want:     []kd{{"A", 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := rows.Flatten(sample(), tt.expanded, keyOf, childrenOf)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, summarize(res)); diff != "" {
				t.Errorf("flatten mismatch (-want +got):\n%s", diff)
			}
			for i, r := range res.Rows {
				assert.Equal(t, i, r.Index)
				assert.Equal(t, r.Depth, res.DepthMap[r.Key])
			}
		})
	}
}

func TestFlatten_Annotations(t *testing.T) {
	res, err := rows.Flatten(sample(), rows.NewKeySet("A", "B"), keyOf, childrenOf)
	require.NoError(t, err)

	assert.True(t, res.Rows[0].HasChildren)
	assert.Empty(t, res.Rows[0].ParentKey)
	assert.Equal(t, "B", res.Rows[2].ParentKey)
	assert.False(t, res.Rows[2].HasChildren)
	assert.Equal(t, 3, res.IndexOf("C"))
	assert.Equal(t, -1, res.IndexOf("Z"))
	assert.Equal(t, 2, res.Depth("D"))
}

func TestFlatten_Idempotent(t *testing.T) {
	input := sample()
	expanded := rows.NewKeySet("A", "B")

	first, err := rows.Flatten(input, expanded, keyOf, childrenOf)
	require.NoError(t, err)
	second, err := rows.Flatten(input, expanded, keyOf, childrenOf)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("re-flatten differs (-first +second):\n%s", diff)
	}
	assert.Empty(t, cmp.Diff(sample(), input), "input must not be mutated")
}

func TestFlatten_LeavesAndNilChildren(t *testing.T) {
	res, err := rows.Flatten([]node{leaf("x"), leaf("y")}, rows.NewKeySet("x"), keyOf, nil)
	require.NoError(t, err)
	assert.Equal(t, []kd{{"x", 0}, {"y", 0}}, summarize(res))
}

func TestFlatten_Errors(t *testing.T) {
	_, err := rows.Flatten([]node{leaf("a"), leaf("a")}, nil, keyOf, childrenOf)
	assert.ErrorIs(t, err, rows.ErrDuplicateRowKey)

	_, err = rows.Flatten([]node{tree("a", leaf("a"))}, rows.NewKeySet("a"), keyOf, childrenOf)
	assert.ErrorIs(t, err, rows.ErrDuplicateRowKey)

	// Collapsed duplicate is not part of the flattened sequence.
	_, err = rows.Flatten([]node{tree("a", leaf("a"))}, nil, keyOf, childrenOf)
	assert.NoError(t, err)

	_, err = rows.Flatten([]node{leaf("")}, nil, keyOf, childrenOf)
	assert.ErrorIs(t, err, rows.ErrEmptyRowKey)

	_, err = rows.Flatten([]node{leaf("a")}, nil, nil, childrenOf)
	assert.ErrorIs(t, err, rows.ErrNilKeyFunc)
}

func TestFixedRows(t *testing.T) {
	fixed, err := rows.FixedRows([]node{leaf("sum"), leaf("avg")}, keyOf)
	require.NoError(t, err)
	require.Len(t, fixed, 2)
	assert.Equal(t, -1, fixed[0].Index)
	assert.Equal(t, -2, fixed[1].Index)

	_, err = rows.FixedRows([]node{leaf("x"), leaf("x")}, keyOf)
	assert.ErrorIs(t, err, rows.ErrDuplicateRowKey)
}

func TestParentKeys(t *testing.T) {
	got := rows.ParentKeys(sample(), keyOf, childrenOf)
	assert.Equal(t, []string{"A", "B"}, got.Keys())
}

func TestKeySet(t *testing.T) {
	s := rows.NewKeySet("a")
	assert.True(t, s.Toggle("b"))
	assert.False(t, s.Toggle("a"))
	assert.Equal(t, []string{"b"}, s.Keys())

	c := s.Clone()
	c.Add("z")
	assert.False(t, s.Has("z"))
	assert.True(t, rows.NewKeySet("b").Equal(s))

	var empty rows.KeySet
	assert.False(t, empty.Has("a"))
	assert.NotNil(t, empty.Clone())
}

func bigForest(n int) []node {
	out := make([]node, n)
	for i := range out {
		id := fmt.Sprintf("r%04d", i)
		out[i] = tree(id, leaf(id+"-a"), leaf(id+"-b"))
	}
	return out
}

func TestFlattener_MatchesSequential(t *testing.T) {
	forest := bigForest(100)
	expanded := rows.ParentKeys(forest, keyOf, childrenOf)
	expanded.Remove("r0050")

	f, err := rows.NewFlattener(keyOf, childrenOf, rows.FlattenerOptions{BatchSize: 7, Concurrency: 4})
	require.NoError(t, err)

	gen := f.Request()
	snap, err := f.Run(context.Background(), gen, forest, expanded)
	require.NoError(t, err)

	want, err := rows.Flatten(forest, expanded, keyOf, childrenOf)
	require.NoError(t, err)

	if diff := cmp.Diff(want, snap.Result); diff != "" {
		t.Errorf("background flatten differs (-want +got):\n%s", diff)
	}
	assert.Equal(t, gen, f.Current().Generation)
	assert.True(t, expanded.Equal(f.Current().Expanded))
}

func TestFlattener_StaleDropped(t *testing.T) {
	f, err := rows.NewFlattener(keyOf, childrenOf, rows.FlattenerOptions{})
	require.NoError(t, err)

	old := f.Request()
	newer := f.Request()

	_, err = f.Run(context.Background(), newer, sample(), rows.NewKeySet("A"))
	require.NoError(t, err)

	_, err = f.Run(context.Background(), old, sample(), nil)
	assert.ErrorIs(t, err, rows.ErrStale)

	cur := f.Current()
	assert.Equal(t, newer, cur.Generation)
	assert.Equal(t, 3, cur.Result.Len())
}

func TestFlattener_DuplicateAcrossBatches(t *testing.T) {
	f, err := rows.NewFlattener(keyOf, childrenOf, rows.FlattenerOptions{BatchSize: 1})
	require.NoError(t, err)

	_, err = f.Run(context.Background(), f.Request(), []node{leaf("a"), leaf("a")}, nil)
	assert.ErrorIs(t, err, rows.ErrDuplicateRowKey)
}
