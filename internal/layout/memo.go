package layout

import (
	"encoding/binary"
	"maps"
	"math"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rshade/vtable/internal/column"
)

// DefaultMemoSize is the number of layouts a Memo retains.
const DefaultMemoSize = 64

// Memo caches Compute results by input fingerprint.
type Memo struct {
	cache *lru.Cache[uint64, Layout]
	hits  int
}

// NewMemo creates a memo holding up to size layouts.
func NewMemo(size int) (*Memo, error) {
	if size <= 0 {
		size = DefaultMemoSize
	}
	c, err := lru.New[uint64, Layout](size)
	if err != nil {
		return nil, err
	}
	return &Memo{cache: c}, nil
}

// Compute returns the cached layout for the inputs or computes and stores it.
// The returned Styles map is a private copy.
func (m *Memo) Compute(cols []column.Column, s Sizing) Layout {
	key := Fingerprint(cols, s)
	if l, ok := m.cache.Get(key); ok {
		m.hits++
		return clone(l)
	}
	l := Compute(cols, s)
	m.cache.Add(key, l)
	return clone(l)
}

// Hits returns how many calls were served from cache.
func (m *Memo) Hits() int { return m.hits }

// Purge drops every cached layout.
func (m *Memo) Purge() { m.cache.Purge() }

func clone(l Layout) Layout {
	l.Styles = maps.Clone(l.Styles)
	return l
}

// Fingerprint hashes every input Compute depends on.
func Fingerprint(cols []column.Column, s Sizing) uint64 {
	d := xxhash.New()
	var buf [8]byte
	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = d.Write(buf[:])
	}
	writeInt := func(i int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(i))
		_, _ = d.Write(buf[:])
	}

	writeInt(len(cols))
	for _, c := range cols {
		_, _ = d.WriteString(c.Key)
		_, _ = d.Write([]byte{0})
		writeFloat(c.Width)
		writeInt(int(c.Fixed))
	}

	writeFloat(s.Width)
	writeFloat(s.Height)
	writeFloat(s.GutterWidth)
	writeInt(len(s.HeaderHeights))
	for _, h := range s.HeaderHeights {
		writeFloat(h)
	}
	writeFloat(s.FooterHeight)
	writeFloat(s.FixedRowsHeight)
	if s.Fit {
		writeInt(1)
	} else {
		writeInt(0)
	}
	return d.Sum64()
}
