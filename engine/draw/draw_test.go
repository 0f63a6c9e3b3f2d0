package draw

import (
	"testing"

	"github.com/hubastard/canopy/engine/colors"
	"github.com/hubastard/canopy/engine/geom"
	"github.com/hubastard/canopy/engine/scratch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quad(r geom.Rect, c colors.Color) geom.Mesh {
	var m geom.Mesh
	geom.AppendQuad(&m, r, c)
	return m
}

func newStack() *Stack {
	return NewStack(scratch.New(1024))
}

func TestPushIntersectsClip(t *testing.T) {
	s := newStack()
	s.Push(Delta{}.WithClip(geom.R(0, 0, 100, 100)))
	s.Push(Delta{}.WithClip(geom.R(50, 50, 100, 100)).WithOrder(3))

	got := s.Active()
	assert.True(t, got.ClipEnabled)
	assert.Equal(t, geom.R(50, 50, 50, 50), got.Clip)
	assert.Equal(t, int32(3), got.Order)

	s.Pop()
	assert.Equal(t, geom.R(0, 0, 100, 100), s.Active().Clip)
	assert.Equal(t, int32(0), s.Active().Order)
}

func TestWithoutClipEscapesParent(t *testing.T) {
	s := newStack()
	s.Push(Delta{}.WithClip(geom.R(0, 0, 10, 10)))
	s.Push(Delta{}.WithoutClip().WithClip(geom.R(200, 200, 50, 50)))
	assert.Equal(t, geom.R(200, 200, 50, 50), s.Active().Clip)
}

func TestMaskAndFieldsOverwrite(t *testing.T) {
	s := newStack()
	s.Push(Delta{}.WithMask(geom.R(0, 0, 10, 10), 2).WithTexture(4).WithMaterial(1).WithColor(colors.Red))
	s.Push(Delta{}.WithMask(geom.R(5, 5, 10, 10), 0))

	got := s.Active()
	assert.Equal(t, geom.R(5, 5, 10, 10), got.Mask)
	assert.Zero(t, got.MaskRadius)
	assert.Equal(t, Texture(4), got.Texture)
	assert.Equal(t, Material(1), got.Material)
	assert.Equal(t, colors.Red, got.Color)

	cull, ok := s.Cull()
	assert.True(t, ok)
	assert.Equal(t, geom.R(5, 5, 10, 10), cull)
}

func TestPopRootPanics(t *testing.T) {
	s := newStack()
	assert.Panics(t, func() { s.Pop() })
}

func TestEndFrameReportsUnmatchedPushes(t *testing.T) {
	s := newStack()
	s.Push(Delta{}.WithOrder(1))
	s.Push(Delta{}.WithOrder(2))
	assert.Equal(t, 2, s.EndFrame())
	assert.Zero(t, s.Depth())
	assert.Equal(t, Root(), s.Active())
	assert.Zero(t, s.EndFrame())
}

func TestBatchSplitsOnlyOnEffectiveChange(t *testing.T) {
	s := newStack()
	b := s.Batcher()
	m := quad(geom.R(0, 0, 10, 10), colors.White)

	b.AddMesh(m.Verts, m.Indices)
	// colour changes are baked into vertices
	s.Push(Delta{}.WithColor(colors.Red))
	b.AddMesh(m.Verts, m.Indices)
	s.Pop()
	require.Len(t, b.Batches(), 1)

	s.Push(Delta{}.WithClip(geom.R(0, 0, 50, 50)))
	b.AddMesh(m.Verts, m.Indices)
	// same effective clip
	s.Push(Delta{}.WithClip(geom.R(0, 0, 50, 50)))
	b.AddMesh(m.Verts, m.Indices)
	s.Pop()
	s.Pop()

	batches := b.Batches()
	require.Len(t, batches, 2)
	assert.Len(t, batches[0].Vertices, 8)
	assert.Equal(t, []uint32{0, 2, 1, 1, 2, 3, 4, 6, 5, 5, 6, 7}, batches[0].Indices)
	assert.Equal(t, colors.Red, batches[0].Vertices[4].Color)
	assert.Len(t, batches[1].Vertices, 8)
}

func TestCulling(t *testing.T) {
	s := newStack()
	b := s.Batcher()
	s.Push(Delta{}.WithClip(geom.R(0, 0, 50, 50)))

	outside := quad(geom.R(100, 100, 10, 10), colors.White)
	assert.False(t, b.AddMesh(outside.Verts, outside.Indices))
	assert.False(t, b.AddText(TextRun{Text: "hidden", Bounds: geom.R(60, 0, 20, 10)}))

	inside := quad(geom.R(40, 40, 20, 20), colors.White)
	assert.True(t, b.AddMesh(inside.Verts, inside.Indices))
	assert.True(t, b.AddText(TextRun{Text: "shown", Bounds: geom.R(0, 0, 20, 10), Color: colors.White}))

	st := b.Stats()
	assert.Equal(t, 2, st.Culled)
	assert.Equal(t, 1, st.Batches)
	assert.Equal(t, 4, st.Vertices)
	assert.Equal(t, 1, st.Texts)
}

func TestBatchesSortedByOrderStable(t *testing.T) {
	s := newStack()
	b := s.Batcher()
	m := quad(geom.R(0, 0, 1, 1), colors.White)

	s.Push(Delta{}.WithOrder(10))
	b.AddText(TextRun{Text: "popup", Bounds: geom.R(0, 0, 1, 1)})
	s.Pop()
	b.AddMesh(m.Verts, m.Indices)
	s.Push(Delta{}.WithOrder(10).WithTexture(2))
	b.AddMesh(m.Verts, m.Indices)
	s.Pop()

	batches := b.Batches()
	require.Len(t, batches, 3)
	assert.Equal(t, int32(0), batches[0].Settings.Order)
	assert.Equal(t, "popup", batches[1].Texts[0].Text)
	assert.Equal(t, Texture(2), batches[2].Settings.Texture)
}

func TestResetStartsEmptyFrame(t *testing.T) {
	a := scratch.New(256)
	s := NewStack(a)
	m := quad(geom.R(0, 0, 1, 1), colors.White)
	s.Push(Delta{}.WithOrder(4))
	s.Batcher().AddMesh(m.Verts, m.Indices)

	a.Clear()
	s.Reset()
	assert.Empty(t, s.Batcher().Batches())
	assert.Zero(t, s.Depth())
	assert.Equal(t, Stats{}, s.Batcher().Stats())

	s.Batcher().AddMesh(m.Verts, m.Indices)
	batches := s.Batcher().Batches()
	require.Len(t, batches, 1)
	assert.Equal(t, int32(0), batches[0].Settings.Order)
	assert.Len(t, batches[0].Vertices, 4)
}
