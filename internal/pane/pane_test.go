package pane_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/vtable/internal/pane"
	"github.com/rshade/vtable/internal/virtual"
)

func TestSyncFromMain(t *testing.T) {
	s := pane.New(true, true)
	r := virtual.Range{Start: 3, Stop: 12, VisibleStart: 5, VisibleStop: 10}

	s.SyncFromMain(40, 120, r)

	assert.True(t, s.InSync())
	for _, p := range s.Panes() {
		assert.InDelta(t, 120, p.OffsetY, 0, p.ID.String())
		assert.Equal(t, r, p.Range, p.ID.String())
	}

	left, ok := s.Pane(pane.Left)
	require.True(t, ok)
	assert.InDelta(t, 0, left.OffsetX, 0, "fixed panes never scroll horizontally")
	assert.InDelta(t, 40, s.Main().OffsetX, 0)
}

func TestSyncFromMain_EveryUpdate(t *testing.T) {
	s := pane.New(true, false)
	for y := 0.0; y < 500; y += 37 {
		r := virtual.Compute(100, virtual.FixedHeight(10), y, 60, 2)
		s.SyncFromMain(0, y, r)
		require.True(t, s.InSync(), "offset %v", y)
	}
}

func TestScrollFrom_NoFeedbackLoop(t *testing.T) {
	s := pane.New(true, true)

	forwarded := 0
	// Simulate widgets that report programmatic scrolls as scroll events.
	echo := func(p pane.Pane) {
		if s.ScrollFrom(p.ID, p.OffsetY) {
			forwarded++
		}
	}
	s.OnApplied(pane.Left, echo)
	s.OnApplied(pane.Right, echo)

	s.SyncFromMain(0, 200, virtual.EmptyRange)
	assert.Zero(t, forwarded)

	// Late echo arriving after the sync finished is swallowed too.
	assert.False(t, s.ScrollFrom(pane.Left, 200))

	// A genuine wheel scroll over the fixed pane drives the main pane.
	assert.True(t, s.ScrollFrom(pane.Right, 260))
	// Same offset as main carries nothing new.
	assert.False(t, s.ScrollFrom(pane.Right, 200))
}

func TestSetFixed(t *testing.T) {
	s := pane.New(false, false)
	s.SyncFromMain(0, 50, virtual.Range{Start: 1, Stop: 2, VisibleStart: 1, VisibleStop: 2})
	assert.Len(t, s.Panes(), 1)
	assert.False(t, s.ScrollFrom(pane.Left, 10))

	s.SetFixed(false, true)
	right, ok := s.Pane(pane.Right)
	require.True(t, ok)
	assert.InDelta(t, 50, right.OffsetY, 0)
	assert.True(t, s.InSync())

	_, ok = s.Pane(pane.Left)
	assert.False(t, ok)
	assert.Equal(t, "right", pane.Right.String())
}
