// Package layout is a single-pass flow layout. Rects are placed as they are
// requested and never moved afterwards.
package layout

import (
	"github.com/hubastard/canopy/engine/geom"
)

type Axis uint8

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Anchor is the corner placement starts from.
type Anchor uint8

const (
	TopLeft Anchor = iota
	TopRight
	BottomLeft
	BottomRight
)

func (a Anchor) right() bool  { return a == TopRight || a == BottomRight }
func (a Anchor) bottom() bool { return a == BottomLeft || a == BottomRight }

// Frame is one nested layout scope.
type Frame struct {
	Axis   Axis
	Bounds geom.Rect
	// Size is the space used so far: summed along Axis, max across it.
	Size    geom.Vec2
	Anchor  Anchor
	Root    bool
	Spacing float32
	Count   int
}

// next returns the offset along the axis where the next item starts.
func (f *Frame) next() float32 {
	off := f.Size[f.Axis.index()]
	if f.Count > 0 {
		off += f.Spacing
	}
	return off
}

func (a Axis) index() int {
	if a == Horizontal {
		return 0
	}
	return 1
}

// place positions a w*h rect at offset off along the axis.
func (f *Frame) place(off, w, h float32) geom.Rect {
	var dx, dy float32
	if f.Axis == Horizontal {
		dx = off
	} else {
		dy = off
	}
	b := f.Bounds
	x := b.X + dx
	if f.Anchor.right() {
		x = b.X + b.W - dx - w
	}
	y := b.Y + dy
	if f.Anchor.bottom() {
		y = b.Y + b.H - dy - h
	}
	return geom.R(x, y, w, h)
}

func (f *Frame) advance(off float32, size geom.Vec2) {
	main, cross := f.Axis.index(), 1-f.Axis.index()
	f.Size[main] = off + size[main]
	f.Size[cross] = max(f.Size[cross], size[cross])
	f.Count++
}

// Remaining is the unused extent of the bounds along the axis, and the full
// extent across it. Never negative.
func (f *Frame) Remaining() geom.Vec2 {
	r := f.Bounds.Size()
	i := f.Axis.index()
	r[i] = max(0, r[i]-f.next())
	return r
}

// Stack holds the nested frames of one layout pass.
type Stack struct {
	frames []Frame
}

func NewStack() *Stack {
	return &Stack{frames: make([]Frame, 0, 16)}
}

// Push opens a frame over bounds. Spacing is inherited from the parent.
func (s *Stack) Push(axis Axis, bounds geom.Rect, anchor Anchor) {
	var spacing float32
	if n := len(s.frames); n > 0 {
		spacing = s.frames[n-1].Spacing
	}
	s.frames = append(s.frames, Frame{Axis: axis, Bounds: bounds, Anchor: anchor, Spacing: spacing})
}

// PushNext opens a frame at the parent's next slot. A zero component of
// size takes the parent's remaining extent. The parent only advances when
// the child is popped.
func (s *Stack) PushNext(axis Axis, size geom.Vec2, anchor Anchor) {
	p := s.top("PushNext")
	rem := p.Remaining()
	if size[0] <= 0 {
		size[0] = rem[0]
	}
	if size[1] <= 0 {
		size[1] = rem[1]
	}
	s.Push(axis, p.place(p.next(), size[0], size[1]), anchor)
}

// Pop closes the top frame and folds its size into the parent unless the
// frame was marked root.
func (s *Stack) Pop() Frame {
	f := *s.top("Pop")
	s.frames = s.frames[:len(s.frames)-1]
	if !f.Root && len(s.frames) > 0 {
		s.AddRect(f.Size)
	}
	return f
}

// AddRect places an item of the given size in the top frame and returns
// its rect.
func (s *Stack) AddRect(size geom.Vec2) geom.Rect {
	f := s.top("AddRect")
	off := f.next()
	r := f.place(off, size[0], size[1])
	f.advance(off, size)
	return r
}

// Frame returns a copy of the top frame.
func (s *Stack) Frame() Frame {
	return *s.top("Frame")
}

// MarkRoot stops the top frame's size from reaching its parent.
func (s *Stack) MarkRoot() {
	s.top("MarkRoot").Root = true
}

// SetSpacing sets the gap between items of the top frame.
func (s *Stack) SetSpacing(v float32) {
	s.top("SetSpacing").Spacing = v
}

func (s *Stack) Depth() int { return len(s.frames) }

// Reset drops every frame.
func (s *Stack) Reset() {
	s.frames = s.frames[:0]
}

func (s *Stack) top(op string) *Frame {
	if len(s.frames) == 0 {
		panic("layout: " + op + " on an empty stack")
	}
	return &s.frames[len(s.frames)-1]
}
