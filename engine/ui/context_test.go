package ui

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/hubastard/canopy/engine/draw"
	"github.com/hubastard/canopy/engine/geom"
	"github.com/hubastard/canopy/engine/ids"
	"github.com/hubastard/canopy/engine/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var viewport = geom.R(0, 0, 800, 600)

func newContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(Options{ArenaCapacity: 4096, StoreCapacity: 256, Logger: log}), &buf
}

func at(x, y float32) Input {
	return Input{Pointer: geom.V(x, y), Scale: 1, Viewport: viewport}
}

// frame runs one BeginFrame/EndFrame pair around fn and fails on imbalance.
func frame(t *testing.T, c *Context, in Input, fn func()) {
	t.Helper()
	require.NoError(t, c.BeginFrame(in))
	fn()
	require.NoError(t, c.EndFrame())
}

func TestIdentityDeterministic(t *testing.T) {
	record := func() []ids.ID {
		c, _ := newContext(t)
		var got []ids.ID
		for f := 0; f < 2; f++ {
			got = got[:0]
			frame(t, c, at(0, 0), func() {
				got = append(got, c.PushID("window"))
				got = append(got, c.NextAnonymousID(), c.NextAnonymousID())
				got = append(got, c.PushIDInt(3))
				got = append(got, c.NextAnonymousID())
				c.PopID()
				c.PopID()
			})
		}
		return got
	}
	first, second := record(), record()
	assert.Equal(t, first, second)

	seen := map[ids.ID]bool{}
	for _, id := range first {
		assert.NotEqual(t, ids.None, id)
		assert.False(t, seen[id], "ids within a frame are distinct")
		seen[id] = true
	}
}

func TestAnonymousIDsRestartEachFrame(t *testing.T) {
	c, _ := newContext(t)
	var a, b ids.ID
	frame(t, c, at(0, 0), func() { a = c.NextAnonymousID() })
	frame(t, c, at(0, 0), func() { b = c.NextAnonymousID() })
	assert.Equal(t, a, b)
}

func TestScopeHelpers(t *testing.T) {
	c, _ := newContext(t)
	frame(t, c, at(0, 0), func() {
		root := c.CurrentID()
		assert.Equal(t, ids.Root, root)
		want := c.ID("toolbar")
		func() {
			defer c.Scope("toolbar")()
			assert.Equal(t, want, c.CurrentID())
		}()
		c.WithID("toolbar", func() { assert.Equal(t, want, c.CurrentID()) })
		assert.Equal(t, root, c.CurrentID())
		assert.Panics(t, func() { c.PopID() })
	})
}

func TestHoverHasOneFrameLag(t *testing.T) {
	c, _ := newContext(t)
	id := ids.HashString(ids.Root, "button")
	r := geom.R(10, 10, 50, 20)

	frame(t, c, at(20, 20), func() {
		assert.False(t, c.RegisterControl(id, r), "not hovered in the frame it first appears")
		assert.False(t, c.IsHovered(id))
	})
	frame(t, c, at(20, 20), func() {
		assert.True(t, c.RegisterControl(id, r))
		assert.Equal(t, id, c.HoveredID())
	})
	// pointer moved away: still hovered this frame, released the next
	frame(t, c, at(500, 500), func() {
		assert.True(t, c.RegisterControl(id, r))
	})
	frame(t, c, at(500, 500), func() {
		assert.False(t, c.RegisterControl(id, r))
	})
}

func TestTopmostWins(t *testing.T) {
	c, _ := newContext(t)
	back := ids.HashString(ids.Root, "back")
	front := ids.HashString(ids.Root, "front")
	r := geom.R(0, 0, 100, 100)

	for i := 0; i < 2; i++ {
		frame(t, c, at(50, 50), func() {
			c.RegisterControl(back, r)
			c.RegisterControl(front, r)
		})
	}
	assert.True(t, c.IsHovered(front))
	assert.False(t, c.IsHovered(back))

	// the later control sits at a lower order: the earlier one stays on top
	for i := 0; i < 2; i++ {
		frame(t, c, at(50, 50), func() {
			c.Draw().Push(draw.Delta{}.WithOrder(5))
			c.RegisterControl(back, r)
			c.Draw().Pop()
			c.Draw().Push(draw.Delta{}.WithOrder(1))
			c.RegisterControl(front, r)
			c.Draw().Pop()
		})
	}
	assert.True(t, c.IsHovered(back))
	assert.False(t, c.IsHovered(front))
}

func TestClipGatesHover(t *testing.T) {
	c, _ := newContext(t)
	id := ids.HashString(ids.Root, "clipped")
	for i := 0; i < 2; i++ {
		frame(t, c, at(150, 150), func() {
			c.Draw().Push(draw.Delta{}.WithClip(geom.R(0, 0, 100, 100)))
			c.RegisterControl(id, geom.R(120, 120, 50, 50))
			c.Draw().Pop()
		})
	}
	assert.False(t, c.IsHovered(id))
	assert.Equal(t, ids.None, c.HoveredID())
}

func TestZeroIDNeverHovered(t *testing.T) {
	c, _ := newContext(t)
	for i := 0; i < 2; i++ {
		frame(t, c, at(5, 5), func() {
			assert.False(t, c.RegisterControl(ids.None, geom.R(0, 0, 10, 10)))
			c.RegisterGroup(ids.None, geom.R(0, 0, 10, 10))
		})
	}
	assert.False(t, c.IsHovered(ids.None))
	assert.False(t, c.IsGroupHovered(ids.None))
	c.SetActive(ids.None, ActivePointer)
	assert.False(t, c.IsActive(ids.None))
}

func TestGroups(t *testing.T) {
	c, _ := newContext(t)
	outer := ids.HashString(ids.Root, "outer")
	inner := ids.HashString(ids.Root, "inner")
	popup := ids.HashString(ids.Root, "popup")
	below := ids.HashString(ids.Root, "below")
	r := geom.R(0, 0, 100, 100)

	for i := 0; i < 2; i++ {
		frame(t, c, at(10, 10), func() {
			c.RegisterGroup(outer, r)
			c.RegisterGroup(inner, r)
		})
	}
	assert.True(t, c.IsGroupHovered(outer), "equal orders accumulate")
	assert.True(t, c.IsGroupHovered(inner))

	for i := 0; i < 2; i++ {
		frame(t, c, at(10, 10), func() {
			c.RegisterGroup(outer, r)
			c.Draw().Push(draw.Delta{}.WithOrder(3))
			c.RegisterGroup(popup, r)
			c.Draw().Pop()
			c.Draw().Push(draw.Delta{}.WithOrder(1))
			c.RegisterGroup(below, r)
			c.Draw().Pop()
		})
	}
	assert.False(t, c.IsGroupHovered(outer), "evicted by a higher order")
	assert.True(t, c.IsGroupHovered(popup))
	assert.True(t, c.IsGroupHovered(below), "a lower group registered later still accumulates")

	// registered in the other order the higher group evicts the lower one
	for i := 0; i < 2; i++ {
		frame(t, c, at(10, 10), func() {
			c.Draw().Push(draw.Delta{}.WithOrder(1))
			c.RegisterGroup(below, r)
			c.Draw().Pop()
			c.Draw().Push(draw.Delta{}.WithOrder(3))
			c.RegisterGroup(popup, r)
			c.Draw().Pop()
		})
	}
	assert.False(t, c.IsGroupHovered(below))
	assert.True(t, c.IsGroupHovered(popup))
}

func TestActiveIsExplicit(t *testing.T) {
	c, _ := newContext(t)
	id := ids.HashString(ids.Root, "slider")
	frame(t, c, at(0, 0), func() { c.SetActive(id, ActivePointer|ActiveDrag) })
	frame(t, c, at(0, 0), func() {})
	assert.True(t, c.IsActive(id), "active survives frames")
	got, flags := c.Active()
	assert.Equal(t, id, got)
	assert.Equal(t, ActivePointer|ActiveDrag, flags)

	c.ClearActive()
	assert.False(t, c.IsActive(id))
}

func TestIdentityImbalanceRecovered(t *testing.T) {
	c, logs := newContext(t)
	require.NoError(t, c.BeginFrame(at(0, 0)))
	c.PushID("leaky")
	err := c.EndFrame()
	require.Error(t, err)

	var imb *ImbalanceError
	require.True(t, errors.As(err, &imb))
	assert.Equal(t, "identity", imb.Stack)
	assert.Equal(t, 1, imb.Depth)
	assert.Equal(t, uint64(1), imb.Frame)
	assert.Contains(t, logs.String(), "unbalanced stack")

	frame(t, c, at(0, 0), func() {
		assert.Equal(t, ids.Root, c.CurrentID(), "next frame starts at the root")
	})
}

func TestBeginFrameEndsOpenFrame(t *testing.T) {
	c, logs := newContext(t)
	require.NoError(t, c.BeginFrame(at(0, 0)))
	c.PushID("leaky")

	err := c.BeginFrame(at(0, 0))
	require.ErrorIs(t, err, ErrFrameNotEnded)
	var imb *ImbalanceError
	require.True(t, errors.As(err, &imb), "the implicit EndFrame result is kept")
	assert.Equal(t, "identity", imb.Stack)
	assert.Contains(t, logs.String(), "BeginFrame called twice")

	assert.Equal(t, uint64(2), c.Frame())
	assert.Equal(t, ids.Root, c.CurrentID())
	require.NoError(t, c.EndFrame())

	// an open but balanced frame still reports the missing EndFrame
	require.NoError(t, c.BeginFrame(at(0, 0)))
	err = c.BeginFrame(at(0, 0))
	require.ErrorIs(t, err, ErrFrameNotEnded)
	assert.False(t, errors.As(err, &imb))
	require.NoError(t, c.EndFrame())
}

func TestEveryStackReported(t *testing.T) {
	c, _ := newContext(t)
	require.NoError(t, c.BeginFrame(at(0, 0)))
	c.BeginPanel("p", geom.R(0, 0, 10, 10), 1)
	c.Draw().Push(draw.Delta{}.WithOrder(2))
	err := c.EndFrame()

	stacks := map[string]int{}
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		imb := e.(*ImbalanceError)
		stacks[imb.Stack] = imb.Depth
	}
	assert.Equal(t, map[string]int{"panel": 1, "identity": 1, "layout": 1, "draw": 2}, stacks)

	frame(t, c, at(0, 0), func() {
		assert.Zero(t, c.PanelDepth())
		assert.Zero(t, c.Draw().Depth())
		assert.Equal(t, 1, c.Layout().Depth())
	})
}

func TestEndFrameWithoutBeginPanics(t *testing.T) {
	c, _ := newContext(t)
	assert.Panics(t, func() { _ = c.EndFrame() })
}

func TestStoreReclaimedAtEndFrame(t *testing.T) {
	c, _ := newContext(t)
	id := ids.HashString(ids.Root, "collapsing")
	frame(t, c, at(0, 0), func() { *store.GetOrCreate(c.Store(), id, false) = true })
	frame(t, c, at(0, 0), func() {})
	frame(t, c, at(0, 0), func() {
		assert.False(t, *store.GetOrCreate(c.Store(), id, false), "state reset after a skipped frame")
	})
}

func TestShouldCaptureInput(t *testing.T) {
	c, _ := newContext(t)
	assert.False(t, c.ShouldCaptureInput(5, 5), "nothing finished yet")

	in := at(0, 0)
	in.Scale = 2
	frame(t, c, in, func() {
		c.BeginPanel("menu", geom.R(100, 100, 50, 50), 10)
		c.RegisterControl(c.NextAnonymousID(), geom.R(300, 300, 10, 10))
		c.EndPanel()
		// a free-standing control captures its own rect
		c.RegisterControl(c.ID("hud"), geom.R(0, 0, 20, 20))
	})

	assert.True(t, c.ShouldCaptureInput(240, 240), "host pixels are divided by the scale")
	assert.False(t, c.ShouldCaptureInput(100, 100))
	assert.True(t, c.ShouldCaptureInput(10, 10))
	assert.False(t, c.ShouldCaptureInput(605, 605), "controls inside a panel do not add capture rects")

	// answered from the finished frame while the next one is being built
	require.NoError(t, c.BeginFrame(in))
	assert.True(t, c.ShouldCaptureInput(240, 240))
	require.NoError(t, c.EndFrame())
	assert.False(t, c.ShouldCaptureInput(240, 240))
}

func TestPanelBlocksControlsBelow(t *testing.T) {
	c, _ := newContext(t)
	under := ids.HashString(ids.Root, "under")
	var panel ids.ID
	for i := 0; i < 2; i++ {
		frame(t, c, at(20, 20), func() {
			c.RegisterControl(under, geom.R(0, 0, 100, 100))
			panel = c.BeginPanel("popup", geom.R(10, 10, 40, 40), 5)
			c.EndPanel()
		})
	}
	assert.False(t, c.IsHovered(under))
	assert.True(t, c.IsHovered(panel))
	assert.True(t, c.IsGroupHovered(panel))
}

type recorder struct{ got []draw.Batch }

func (r *recorder) Render(b []draw.Batch) error {
	r.got = b
	return nil
}

func TestPaintAndRender(t *testing.T) {
	c, _ := newContext(t)
	var rec recorder
	frame(t, c, at(0, 0), func() {
		r := c.AddRect(geom.V(100, 20))
		assert.True(t, c.FillRect(r, 4, [4]float32{1, 1, 1, 1}))
		assert.True(t, c.Text("hello", r, [4]float32{0, 0, 0, 1}))
		c.BeginPanel("p", geom.R(200, 200, 50, 50), 2)
		c.StrokeRect(geom.R(200, 200, 50, 50), 1, [4]float32{1, 0, 0, 1})
		assert.False(t, c.FillEllipse(geom.R(0, 0, 10, 10), [4]float32{1, 1, 1, 1}), "outside the panel clip")
		c.EndPanel()
	})
	require.NoError(t, c.Render(&rec))
	require.Len(t, rec.got, 2)
	assert.Equal(t, "hello", rec.got[0].Texts[0].Text)
	assert.Equal(t, int32(2), rec.got[1].Settings.Order)
	assert.Equal(t, 1, c.DrawStats().Culled)
}

func TestLayoutShortcuts(t *testing.T) {
	c, _ := newContext(t)
	frame(t, c, at(0, 0), func() {
		c.Spacing(4)
		c.Row(func() {
			c.AddRect(geom.V(10, 10))
			r := c.AddRect(geom.V(10, 20))
			assert.Equal(t, geom.R(14, 0, 10, 20), r)
		})
		c.Column(func() {
			r := c.AddRect(geom.V(5, 5))
			assert.Equal(t, float32(24), r.Y, "row height plus spacing")
		})
		assert.Equal(t, float32(800), c.Available()[0])
	})
}
