// Package batch splits a slice into fixed-size batches and processes them
// sequentially or with bounded concurrency.
//
// The row flattener uses it to flatten independent root subtrees of very
// large datasets in parallel while keeping results addressable by batch
// index, so the caller can stitch them back together in display order.
package batch
