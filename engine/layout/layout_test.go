package layout

import (
	"testing"

	"github.com/hubastard/canopy/engine/geom"
	"github.com/stretchr/testify/assert"
)

func TestVerticalAccumulation(t *testing.T) {
	s := NewStack()
	s.Push(Vertical, geom.R(0, 0, 100, 100), TopLeft)

	a := s.AddRect(geom.V(10, 5))
	b := s.AddRect(geom.V(10, 7))

	assert.Equal(t, geom.R(0, 0, 10, 5), a)
	assert.Equal(t, geom.R(0, 5, 10, 7), b)
	assert.Equal(t, geom.V(10, 12), s.Frame().Size)
}

func TestHorizontalAccumulation(t *testing.T) {
	s := NewStack()
	s.Push(Horizontal, geom.R(5, 5, 100, 100), TopLeft)
	s.SetSpacing(2)
	s.AddRect(geom.V(10, 4))
	r := s.AddRect(geom.V(20, 9))

	assert.Equal(t, geom.R(17, 5, 20, 9), r)
	assert.Equal(t, geom.V(32, 9), s.Frame().Size)
	assert.Equal(t, 2, s.Frame().Count)
}

func TestPopFoldsIntoParent(t *testing.T) {
	s := NewStack()
	s.Push(Vertical, geom.R(0, 0, 100, 100), TopLeft)
	s.PushNext(Horizontal, geom.V(0, 0), TopLeft)
	s.AddRect(geom.V(10, 5))
	s.AddRect(geom.V(10, 7))
	child := s.Pop()

	assert.Equal(t, geom.V(20, 7), child.Size)
	assert.Equal(t, geom.V(20, 7), s.Frame().Size)

	next := s.AddRect(geom.V(4, 4))
	assert.Equal(t, float32(7), next.Y, "parent advanced past the child")
}

func TestRootFrameDoesNotPropagate(t *testing.T) {
	s := NewStack()
	s.Push(Vertical, geom.R(0, 0, 100, 100), TopLeft)
	s.AddRect(geom.V(10, 5))

	s.Push(Vertical, geom.R(50, 50, 30, 30), TopLeft)
	s.MarkRoot()
	s.AddRect(geom.V(10, 5))
	s.AddRect(geom.V(10, 7))
	assert.Equal(t, geom.V(10, 12), s.Pop().Size)

	assert.Equal(t, geom.V(10, 5), s.Frame().Size)
}

func TestAnchors(t *testing.T) {
	bounds := geom.R(0, 0, 100, 50)
	tests := []struct {
		name   string
		axis   Axis
		anchor Anchor
		want   [2]geom.Rect
	}{
		{"top-left vertical", Vertical, TopLeft, [2]geom.Rect{geom.R(0, 0, 10, 5), geom.R(0, 5, 10, 5)}},
		{"top-right vertical", Vertical, TopRight, [2]geom.Rect{geom.R(90, 0, 10, 5), geom.R(90, 5, 10, 5)}},
		{"bottom-left vertical", Vertical, BottomLeft, [2]geom.Rect{geom.R(0, 45, 10, 5), geom.R(0, 40, 10, 5)}},
		{"bottom-right horizontal", Horizontal, BottomRight, [2]geom.Rect{geom.R(90, 45, 10, 5), geom.R(80, 45, 10, 5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStack()
			s.Push(tt.axis, bounds, tt.anchor)
			assert.Equal(t, tt.want[0], s.AddRect(geom.V(10, 5)))
			assert.Equal(t, tt.want[1], s.AddRect(geom.V(10, 5)))
		})
	}
}

func TestPushNextFillsRemaining(t *testing.T) {
	s := NewStack()
	s.Push(Vertical, geom.R(0, 0, 100, 60), TopLeft)
	s.AddRect(geom.V(100, 20))
	s.PushNext(Vertical, geom.V(0, 0), TopLeft)
	assert.Equal(t, geom.R(0, 20, 100, 40), s.Frame().Bounds)
	assert.Equal(t, 2, s.Depth())
}

func TestSpacingInherited(t *testing.T) {
	s := NewStack()
	s.Push(Vertical, geom.R(0, 0, 10, 10), TopLeft)
	s.SetSpacing(4)
	s.Push(Horizontal, geom.R(0, 0, 10, 10), TopLeft)
	assert.Equal(t, float32(4), s.Frame().Spacing)
}

func TestEmptyStackPanics(t *testing.T) {
	s := NewStack()
	assert.Panics(t, func() { s.Pop() })
	assert.Panics(t, func() { s.Frame() })
	assert.Panics(t, func() { s.AddRect(geom.V(1, 1)) })
	assert.Panics(t, func() { s.MarkRoot() })

	s.Push(Vertical, geom.R(0, 0, 1, 1), TopLeft)
	s.Reset()
	assert.Zero(t, s.Depth())
	assert.Panics(t, func() { s.Pop() })
}
