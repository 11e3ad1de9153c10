// Package pane keeps the fixed-left and fixed-right panes of a table in
// vertical lockstep with the main scrollable pane.
package pane

import (
	"fmt"

	"github.com/rshade/vtable/internal/virtual"
)

// ID identifies a pane.
type ID int

const (
	// Main is the horizontally scrollable pane.
	Main ID = iota
	// Left is the left-fixed pane.
	Left
	// Right is the right-fixed pane.
	Right
)

// String returns the pane name.
func (id ID) String() string {
	switch id {
	case Main:
		return "main"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("ID(%d)", int(id))
	}
}

// Pane is the scroll state of one pane.
type Pane struct {
	ID      ID
	OffsetX float64
	OffsetY float64
	Range   virtual.Range

	// Applied is called after the synchronizer moved this pane. A pane
	// widget that reports programmatic scrolls back as scroll events would
	// call ScrollFrom from here.
	Applied func(p Pane)
}

// Synchronizer propagates the main pane's vertical offset and row range to
// the fixed panes. Horizontal offset stays with the main pane.
type Synchronizer struct {
	main  *Pane
	fixed []*Pane

	syncing bool
	// pending holds offsets written by the synchronizer whose echo has not
	// been seen yet.
	pending map[ID]float64
}

// New creates a synchronizer for a main pane plus the requested fixed panes.
func New(hasLeft, hasRight bool) *Synchronizer {
	s := &Synchronizer{
		main:    &Pane{ID: Main, Range: virtual.EmptyRange},
		pending: make(map[ID]float64),
	}
	s.SetFixed(hasLeft, hasRight)
	return s
}

// SetFixed adds or removes fixed panes. New panes adopt the main pane's
// vertical offset and range.
func (s *Synchronizer) SetFixed(hasLeft, hasRight bool) {
	var fixed []*Pane
	for _, want := range []struct {
		id ID
		on bool
	}{{Left, hasLeft}, {Right, hasRight}} {
		if !want.on {
			delete(s.pending, want.id)
			continue
		}
		p, ok := s.find(want.id)
		if !ok {
			p = &Pane{ID: want.id, OffsetY: s.main.OffsetY, Range: s.main.Range}
		}
		fixed = append(fixed, p)
	}
	s.fixed = fixed
}

// OnApplied registers the echo hook of a pane.
func (s *Synchronizer) OnApplied(id ID, fn func(Pane)) {
	if id == Main {
		s.main.Applied = fn
		return
	}
	if p, ok := s.find(id); ok {
		p.Applied = fn
	}
}

// Main returns the main pane.
func (s *Synchronizer) Main() Pane { return *s.main }

// Pane returns the pane with id.
func (s *Synchronizer) Pane(id ID) (Pane, bool) {
	if id == Main {
		return *s.main, true
	}
	p, ok := s.find(id)
	if !ok {
		return Pane{}, false
	}
	return *p, true
}

// Panes returns every pane, main first.
func (s *Synchronizer) Panes() []Pane {
	out := []Pane{*s.main}
	for _, p := range s.fixed {
		out = append(out, *p)
	}
	return out
}

// SyncFromMain records a main pane scroll and copies the vertical offset
// and range to every fixed pane.
func (s *Synchronizer) SyncFromMain(offsetX, offsetY float64, r virtual.Range) {
	s.main.OffsetX = offsetX
	s.main.OffsetY = offsetY
	s.main.Range = r

	s.syncing = true
	defer func() { s.syncing = false }()

	for _, p := range s.fixed {
		moved := p.OffsetY != offsetY
		p.OffsetY = offsetY
		p.Range = r
		if moved {
			s.pending[p.ID] = offsetY
		}
		if p.Applied != nil {
			p.Applied(*p)
		}
	}
}

// ScrollFrom handles a scroll event reported by a pane. For a fixed pane it
// reports whether the event is a genuine user scroll that should drive the
// main pane; echoes of offsets the synchronizer applied itself, and any
// event raised while a sync is in progress, are swallowed.
func (s *Synchronizer) ScrollFrom(id ID, offsetY float64) bool {
	if id == Main {
		return true
	}
	if s.syncing {
		return false
	}
	if want, ok := s.pending[id]; ok {
		delete(s.pending, id)
		if want == offsetY {
			return false
		}
	}
	if _, ok := s.find(id); !ok {
		return false
	}
	return offsetY != s.main.OffsetY
}

// InSync reports whether every fixed pane matches the main pane vertically.
func (s *Synchronizer) InSync() bool {
	for _, p := range s.fixed {
		if p.OffsetY != s.main.OffsetY || p.Range != s.main.Range {
			return false
		}
	}
	return true
}

func (s *Synchronizer) find(id ID) (*Pane, bool) {
	for _, p := range s.fixed {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}
