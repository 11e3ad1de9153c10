// Package table composes the column model, row flattener, layout engine,
// interaction state machine, virtualization driver and pane synchronizer
// into a single Engine.
//
// The Engine owns no goroutines. Every method is expected to run on the
// caller's event loop; derived values (flattened rows, layout, visible
// range, pane offsets) are recomputed explicitly after each input change.
// The only work that may run elsewhere is a FlattenJob, whose result is
// applied back on the event loop through ApplyFlatten.
//
// Typical use:
//
//	eng, err := table.New(opts, decls, table.Source[Row]{Roots: data, KeyOf: keyOf})
//	eng.SetSize(width, height)
//	for _, row := range eng.Window() {
//		// draw row.Cells
//	}
package table
