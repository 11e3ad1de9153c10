package layout_test

import (
	"fmt"
	"testing"

	"github.com/rshade/vtable/internal/column"
	"github.com/rshade/vtable/internal/layout"
)

// BenchmarkMemo_Compute compares a cached layout lookup with a fresh computation.
func BenchmarkMemo_Compute(b *testing.B) {
	decls := make([]column.Declaration, 50)
	for i := range decls {
		decls[i] = column.Declaration{Key: fmt.Sprintf("c%d", i), Width: 100}
	}
	decls[0].Fixed = column.FixedLeft
	decls[49].Fixed = column.FixedRight

	cols, err := column.Normalize(decls, column.Options{GutterWidth: 6})
	if err != nil {
		b.Fatal(err)
	}
	sizing := layout.Sizing{Width: 1200, Height: 800, GutterWidth: 6, HeaderHeights: []float64{50}}

	b.Run("compute", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = layout.Compute(cols, sizing)
		}
	})

	b.Run("memo_hit", func(b *testing.B) {
		memo, err := layout.NewMemo(0)
		if err != nil {
			b.Fatal(err)
		}
		memo.Compute(cols, sizing)

		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = memo.Compute(cols, sizing)
		}
	})
}
