package draw

import (
	"cmp"
	"slices"

	"github.com/hubastard/canopy/engine/colors"
	"github.com/hubastard/canopy/engine/geom"
	"github.com/hubastard/canopy/engine/scratch"
)

// TextRun is a string laid out by a widget and rasterized by the backend.
// Bounds is the layout rect; text is drawn from its top-left corner.
type TextRun struct {
	Text   string
	Bounds geom.Rect
	Color  colors.Color
}

// Batch is geometry sharing one set of settings. Vertices and Indices live
// in the frame arena and are valid until the next frame begins.
type Batch struct {
	Settings Settings
	Vertices []geom.Vertex
	Indices  []uint32
	Texts    []TextRun
}

// Stats counts what a frame submitted.
type Stats struct {
	Batches  int
	Vertices int
	Indices  int
	Texts    int
	Culled   int
}

// Batcher records geometry under the active settings of its Stack and
// starts a new batch whenever those settings stop matching the last one.
type Batcher struct {
	a       *scratch.Arena
	st      *Stack
	batches []Batch
	cur     int // index of the batch being filled, -1 for none
	sorted  bool
	stats   Stats
}

func newBatcher(a *scratch.Arena, st *Stack) *Batcher {
	return &Batcher{a: a, st: st, batches: make([]Batch, 0, 32), cur: -1}
}

func (b *Batcher) reset() {
	for i := range b.batches {
		// texts may point at caller strings; keep the capacity only
		clear(b.batches[i].Texts)
		b.batches[i].Texts = b.batches[i].Texts[:0]
		b.batches[i].Vertices = nil
		b.batches[i].Indices = nil
	}
	b.batches = b.batches[:0]
	b.cur = -1
	b.sorted = false
	b.stats = Stats{}
}

// current returns the batch to append to under s, opening one if needed.
func (b *Batcher) current(s Settings) *Batch {
	if b.cur >= 0 && sameBatch(b.batches[b.cur].Settings, s) {
		return &b.batches[b.cur]
	}
	if len(b.batches) < cap(b.batches) {
		b.batches = b.batches[:len(b.batches)+1]
		nb := &b.batches[len(b.batches)-1]
		nb.Settings = s
	} else {
		b.batches = append(b.batches, Batch{Settings: s})
	}
	b.cur = len(b.batches) - 1
	b.sorted = false
	b.stats.Batches++
	return &b.batches[b.cur]
}

// AddMesh appends geometry under the active settings. Geometry whose bounds
// miss the cull rect is dropped and false is returned. Indices are relative
// to verts.
func (b *Batcher) AddMesh(verts []geom.Vertex, indices []uint32) bool {
	if len(verts) == 0 || len(indices) == 0 {
		return false
	}
	s := b.st.Active()
	if cull, ok := s.Cull(); ok && !geom.Bounds(verts).Overlaps(cull) {
		b.stats.Culled++
		return false
	}
	bt := b.current(s)

	base := len(bt.Vertices)
	bt.Vertices = scratch.ReallocateArray(b.a, bt.Vertices, base+len(verts))
	dst := bt.Vertices[base:]
	copy(dst, verts)
	if s.Color != colors.White {
		for i := range dst {
			dst[i].Color = dst[i].Color.Mul(s.Color)
		}
	}

	ibase := len(bt.Indices)
	bt.Indices = scratch.ReallocateArray(b.a, bt.Indices, ibase+len(indices))
	for i, idx := range indices {
		bt.Indices[ibase+i] = uint32(base) + idx
	}

	b.stats.Vertices += len(verts)
	b.stats.Indices += len(indices)
	return true
}

// AddText records a text run under the active settings, culled by its
// bounds like geometry.
func (b *Batcher) AddText(run TextRun) bool {
	if run.Text == "" {
		return false
	}
	s := b.st.Active()
	if cull, ok := s.Cull(); ok && !run.Bounds.Overlaps(cull) {
		b.stats.Culled++
		return false
	}
	run.Color = run.Color.Mul(s.Color)
	bt := b.current(s)
	bt.Texts = append(bt.Texts, run)
	b.stats.Texts++
	return true
}

// Batches returns the frame's batches ordered by draw order. Batches of
// equal order keep submission order.
func (b *Batcher) Batches() []Batch {
	if !b.sorted {
		slices.SortStableFunc(b.batches, func(x, y Batch) int {
			return cmp.Compare(x.Settings.Order, y.Settings.Order)
		})
		b.sorted = true
		// sorting moved the open batch
		b.cur = -1
	}
	return b.batches
}

func (b *Batcher) Stats() Stats { return b.stats }
