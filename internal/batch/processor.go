package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Default batch processing configuration.
const (
	// DefaultBatchSize is the default number of items per batch.
	DefaultBatchSize = 256

	// MinBatchSize is the minimum allowed batch size.
	MinBatchSize = 1

	// MaxBatchSize is the maximum allowed batch size.
	MaxBatchSize = 65536
)

// Common batch processing errors.
var (
	ErrInvalidBatchSize = fmt.Errorf("batch size must be between %d and %d", MinBatchSize, MaxBatchSize)
	ErrNilCallback      = errors.New("batch callback cannot be nil")
)

// Callback processes a single batch. batchIndex is 0-based and start is the
// index of the batch's first item in the full slice.
type Callback[T any] func(ctx context.Context, batch []T, batchIndex, start int) error

// Processor splits items into batches.
type Processor[T any] struct {
	batchSize int
}

// NewProcessor creates a processor with the given batch size.
func NewProcessor[T any](batchSize int) (*Processor[T], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}
	return &Processor[T]{batchSize: batchSize}, nil
}

// NewProcessorWithDefaults creates a processor with DefaultBatchSize.
func NewProcessorWithDefaults[T any]() *Processor[T] {
	return &Processor[T]{batchSize: DefaultBatchSize}
}

// BatchSize returns the configured batch size.
func (p *Processor[T]) BatchSize() int { return p.batchSize }

// Batches returns the number of batches n items split into.
func (p *Processor[T]) Batches(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + p.batchSize - 1) / p.batchSize
}

// Bounds returns the [start, end) range of every batch for n items.
func (p *Processor[T]) Bounds(n int) [][2]int {
	out := make([][2]int, 0, p.Batches(n))
	for start := 0; start < n; start += p.batchSize {
		out = append(out, [2]int{start, min(start+p.batchSize, n)})
	}
	return out
}

// Process runs callback over each batch in order, stopping at the first error.
// An empty slice is a no-op.
func (p *Processor[T]) Process(ctx context.Context, items []T, callback Callback[T]) error {
	if callback == nil {
		return ErrNilCallback
	}
	for i, b := range p.Bounds(len(items)) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := callback(ctx, items[b[0]:b[1]], i, b[0]); err != nil {
			return fmt.Errorf("batch %d failed: %w", i, err)
		}
	}
	return nil
}

// ProcessConcurrent runs callback over batches with at most maxConcurrency
// in flight. The first error cancels the remaining batches and is returned.
func (p *Processor[T]) ProcessConcurrent(
	ctx context.Context,
	items []T,
	callback Callback[T],
	maxConcurrency int,
) error {
	if callback == nil {
		return ErrNilCallback
	}
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)

	for i, b := range p.Bounds(len(items)) {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			if err := callback(gCtx, items[b[0]:b[1]], i, b[0]); err != nil {
				return fmt.Errorf("batch %d failed: %w", i, err)
			}
			return nil
		})
	}
	return g.Wait()
}
