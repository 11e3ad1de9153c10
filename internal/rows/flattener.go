package rows

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/rshade/vtable/internal/batch"
)

// Snapshot is a flattened sequence together with the expansion set it was
// computed from.
type Snapshot[R any] struct {
	Generation uint64
	Expanded   KeySet
	Result     Result[R]
}

// FlattenerOptions tune the background flattener.
type FlattenerOptions struct {
	// BatchSize is the number of root rows flattened per task.
	BatchSize int
	// Concurrency bounds the number of concurrent tasks; 0 means NumCPU.
	Concurrency int
}

// Flattener flattens large datasets off the caller's goroutine and publishes
// each result atomically. A request that has been superseded by a newer one
// is dropped, so Current never returns a sequence computed for an expansion
// set older than the most recently applied one.
type Flattener[R any] struct {
	keyOf       KeyFunc[R]
	childrenOf  ChildrenFunc[R]
	proc        *batch.Processor[R]
	concurrency int

	mu      sync.Mutex
	latest  uint64
	current Snapshot[R]
}

// NewFlattener creates a background flattener.
func NewFlattener[R any](keyOf KeyFunc[R], childrenOf ChildrenFunc[R], opts FlattenerOptions) (*Flattener[R], error) {
	if keyOf == nil {
		return nil, ErrNilKeyFunc
	}

	proc := batch.NewProcessorWithDefaults[R]()
	if opts.BatchSize > 0 {
		var err error
		if proc, err = batch.NewProcessor[R](opts.BatchSize); err != nil {
			return nil, err
		}
	}

	conc := opts.Concurrency
	if conc <= 0 {
		conc = runtime.NumCPU()
	}

	return &Flattener[R]{
		keyOf:       keyOf,
		childrenOf:  childrenOf,
		proc:        proc,
		concurrency: conc,
	}, nil
}

// Request reserves a generation number for a new flatten. Callers that
// issue several requests get monotonically increasing generations.
func (f *Flattener[R]) Request() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest++
	return f.latest
}

// Run flattens roots for the given generation. The result is applied only
// if no newer generation has been requested meanwhile; otherwise ErrStale is
// returned and Current is left untouched.
func (f *Flattener[R]) Run(ctx context.Context, gen uint64, roots []R, expanded KeySet) (Snapshot[R], error) {
	expanded = expanded.Clone()

	res, err := f.flatten(ctx, roots, expanded)
	if err != nil {
		return Snapshot[R]{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.latest {
		return Snapshot[R]{}, ErrStale
	}
	f.current = Snapshot[R]{Generation: gen, Expanded: expanded, Result: res}
	return f.current, nil
}

// Latest returns the most recently requested generation.
func (f *Flattener[R]) Latest() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest
}

// Current returns the most recently applied snapshot.
func (f *Flattener[R]) Current() Snapshot[R] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *Flattener[R]) flatten(ctx context.Context, roots []R, expanded KeySet) (Result[R], error) {
	if f.proc.Batches(len(roots)) <= 1 {
		return Flatten(roots, expanded, f.keyOf, f.childrenOf)
	}

	parts := make([]Result[R], f.proc.Batches(len(roots)))
	err := f.proc.ProcessConcurrent(ctx, roots, func(_ context.Context, b []R, i, _ int) error {
		res, err := Flatten(b, expanded, f.keyOf, f.childrenOf)
		if err != nil {
			return err
		}
		parts[i] = res
		return nil
	}, f.concurrency)
	if err != nil {
		return Result[R]{}, err
	}

	return stitch(parts)
}

// stitch concatenates per-batch results, renumbering indices and checking
// key uniqueness across batches.
func stitch[R any](parts []Result[R]) (Result[R], error) {
	total := 0
	for _, p := range parts {
		total += len(p.Rows)
	}

	out := Result[R]{
		Rows:     make([]Flat[R], 0, total),
		DepthMap: make(map[string]int, total),
	}
	for _, p := range parts {
		for _, fr := range p.Rows {
			if _, dup := out.DepthMap[fr.Key]; dup {
				return Result[R]{}, fmt.Errorf("%w: %q", ErrDuplicateRowKey, fr.Key)
			}
			fr.Index = len(out.Rows)
			out.DepthMap[fr.Key] = fr.Depth
			out.Rows = append(out.Rows, fr)
		}
	}
	return out, nil
}
