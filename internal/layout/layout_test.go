package layout_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/vtable/internal/column"
	"github.com/rshade/vtable/internal/layout"
)

func mustColumns(t *testing.T, gutter float64, decls ...column.Declaration) []column.Column {
	t.Helper()
	cols, err := column.Normalize(decls, column.Options{GutterWidth: gutter})
	require.NoError(t, err)
	return cols
}

func TestCompute_MainOnly(t *testing.T) {
	cols := mustColumns(t, 10,
		column.Declaration{Key: "a", Width: 100},
		column.Declaration{Key: "b", Width: 150},
		column.Declaration{Key: "c", Width: 50},
	)

	l := layout.Compute(cols, layout.Sizing{Width: 400, Height: 300, GutterWidth: 10})

	assert.InDelta(t, 300, l.TotalWidth, 0)
	assert.InDelta(t, 400, l.BodyWidth, 0)
	assert.InDelta(t, 400, l.HeaderWidth, 0)
	assert.False(t, l.HasFixed)
	assert.Equal(t, layout.Style{Left: 0, Right: 200, Width: 100}, l.Styles["a"])
	assert.Equal(t, layout.Style{Left: 100, Right: 50, Width: 150}, l.Styles["b"])
	assert.Equal(t, layout.Style{Left: 250, Right: 0, Width: 50}, l.Styles["c"])
	assert.InDelta(t, 300-layout.DefaultHeaderHeight, l.BodyHeight, 0)
}

func TestCompute_FixedPanes(t *testing.T) {
	cols := mustColumns(t, 12,
		column.Declaration{Key: "id", Width: 40, Fixed: column.FixedLeft},
		column.Declaration{Key: "name", Width: 200},
		column.Declaration{Key: "qty", Width: 60},
		column.Declaration{Key: "act", Width: 80, Fixed: column.FixedRight},
		column.Declaration{Key: "more", Width: 30, Fixed: column.FixedRight},
	)

	l := layout.Compute(cols, layout.Sizing{Width: 500, Height: 200, GutterWidth: 12})

	require.True(t, l.HasFixed)
	assert.InDelta(t, 260, l.TotalWidth, 0)
	assert.InDelta(t, 52, l.LeftWidth, 0)
	assert.InDelta(t, 122, l.RightWidth, 0)

	assert.InDelta(t, 0, l.Styles["id"].Left, 0)
	assert.InDelta(t, 40, l.Styles[column.PlaceholderLeftKey].Left, 0)

	// Right pane: offsets from the pane's right edge, right to left.
	assert.InDelta(t, 0, l.Styles[column.PlaceholderRightKey].Right, 0)
	assert.InDelta(t, 12, l.Styles["more"].Right, 0)
	assert.InDelta(t, 42, l.Styles["act"].Right, 0)
	assert.InDelta(t, 0, l.Styles["act"].Left, 0)
	assert.Equal(t, column.FixedRight, l.Styles["act"].Side)

	// Gutter reservation.
	assert.InDelta(t, 488, l.BodyWidth, 0)
	assert.InDelta(t, l.BodyWidth+12, l.HeaderWidth, 0)
	assert.LessOrEqual(t, l.BodyWidth, 500.0)
}

func TestCompute_Fit(t *testing.T) {
	cols := mustColumns(t, 10,
		column.Declaration{Key: "a", Width: 333.4},
		column.Declaration{Key: "b", Width: 333.4},
	)

	wide := layout.Compute(cols, layout.Sizing{Width: 400, GutterWidth: 10, Fit: true})
	assert.InDelta(t, 667, wide.BodyWidth, 0)

	narrow := layout.Compute(cols, layout.Sizing{Width: 1000, GutterWidth: 10, Fit: true})
	assert.InDelta(t, 990, narrow.BodyWidth, 0)
}

func TestCompute_Heights(t *testing.T) {
	cols := mustColumns(t, 0, column.Declaration{Key: "a", Width: 10})
	l := layout.Compute(cols, layout.Sizing{
		Height:          300,
		HeaderHeights:   []float64{30, 20},
		FooterHeight:    40,
		FixedRowsHeight: 25,
	})
	assert.InDelta(t, 50, l.HeaderHeight, 0)
	assert.InDelta(t, 185, l.BodyHeight, 0)

	tiny := layout.Compute(cols, layout.Sizing{Height: 10})
	assert.InDelta(t, 0, tiny.BodyHeight, 0)
}

func TestCompute_Deterministic(t *testing.T) {
	cols := mustColumns(t, 8,
		column.Declaration{Key: "x", Width: 12.5, Fixed: column.FixedLeft},
		column.Declaration{Key: "y", Width: 77.25},
		column.Declaration{Key: "z", Width: 3},
	)
	s := layout.Sizing{Width: 321, Height: 123, GutterWidth: 8}

	first := layout.Compute(cols, s)
	for range 10 {
		if diff := cmp.Diff(first, layout.Compute(cols, s)); diff != "" {
			t.Fatalf("layout not deterministic:\n%s", diff)
		}
	}

	sum := 0.0
	for _, c := range column.SplitGroups(cols).Main {
		sum += first.Styles[c.Key].Width
	}
	assert.InDelta(t, first.TotalWidth, sum, 0)
}

func TestLayout_ColumnAtAndScroll(t *testing.T) {
	cols := mustColumns(t, 0,
		column.Declaration{Key: "a", Width: 100},
		column.Declaration{Key: "b", Width: 100},
	)
	l := layout.Compute(cols, layout.Sizing{Width: 150})
	assert.Equal(t, "a", l.ColumnAt(cols, 0))
	assert.Equal(t, "b", l.ColumnAt(cols, 150))
	assert.Empty(t, l.ColumnAt(cols, 200))
	assert.InDelta(t, 50, l.MaxScrollX(), 0)
}

func TestMemo(t *testing.T) {
	m, err := layout.NewMemo(4)
	require.NoError(t, err)

	cols := mustColumns(t, 0, column.Declaration{Key: "a", Width: 100})
	s := layout.Sizing{Width: 300}

	first := m.Compute(cols, s)
	first.Styles["a"] = layout.Style{Width: -1}

	second := m.Compute(cols, s)
	assert.Equal(t, 1, m.Hits())
	assert.InDelta(t, 100, second.Styles["a"].Width, 0, "cached styles must not be shared")

	s.Width = 301
	m.Compute(cols, s)
	assert.Equal(t, 1, m.Hits())

	assert.NotEqual(t, layout.Fingerprint(cols, layout.Sizing{Width: 1}), layout.Fingerprint(cols, layout.Sizing{Width: 2}))
}
