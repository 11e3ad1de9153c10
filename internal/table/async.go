package table

import (
	"context"

	"github.com/rshade/vtable/internal/rows"
)

// FlattenJob is a flatten request that may run off the event loop.
type FlattenJob[R any] struct {
	flattener *rows.Flattener[R]
	gen       uint64
	roots     []R
	expanded  rows.KeySet
}

// FlattenResult is the outcome of a FlattenJob, ready for ApplyFlatten.
type FlattenResult[R any] struct {
	Snapshot rows.Snapshot[R]

	flattener *rows.Flattener[R]
}

// Run flattens the job's rows. It returns rows.ErrStale when a newer job
// was requested meanwhile.
func (j FlattenJob[R]) Run(ctx context.Context) (FlattenResult[R], error) {
	snap, err := j.flattener.Run(ctx, j.gen, j.roots, j.expanded)
	if err != nil {
		return FlattenResult[R]{}, err
	}
	return FlattenResult[R]{Snapshot: snap, flattener: j.flattener}, nil
}

// Generation returns the job's request number.
func (j FlattenJob[R]) Generation() uint64 { return j.gen }

// SetExpandedAsync returns a job that flattens keys. The displayed rows and
// expansion state keep their previous values until the job's result is
// applied.
func (e *Engine[R]) SetExpandedAsync(keys rows.KeySet) FlattenJob[R] {
	return FlattenJob[R]{
		flattener: e.flattener,
		gen:       e.flattener.Request(),
		roots:     e.source.Roots,
		expanded:  keys.Clone(),
	}
}

// ApplyFlatten installs a job result and commits the job's expansion set.
// Results computed for replaced data or superseded by a newer request,
// asynchronous or not, are dropped.
func (e *Engine[R]) ApplyFlatten(res FlattenResult[R]) bool {
	if res.flattener == nil || res.flattener != e.flattener {
		return false
	}
	if res.Snapshot.Generation != e.flattener.Latest() {
		return false
	}

	e.machine.SetExpanded(res.Snapshot.Expanded)
	e.flat = res.Snapshot.Result
	if e.variable != nil {
		e.variable.Forget(0)
	}
	e.expandedChanged()
	e.recompute()
	return true
}
