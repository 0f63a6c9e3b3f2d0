package core

import (
	"github.com/hubastard/canopy/engine/geom"
	"github.com/hubastard/canopy/engine/ui"
)

// Input accumulates window events between frames and hands the UI one
// snapshot per frame.
type Input struct {
	keys              map[Key]bool
	pointer           geom.Vec2
	down              bool
	pressed, released bool
	scroll            geom.Vec2
}

func NewInput() *Input { return &Input{keys: map[Key]bool{}} }

// Handle folds ev into the pending snapshot. A press and a release within
// one frame both register.
func (in *Input) Handle(ev Event) {
	switch e := ev.(type) {
	case EventKey:
		in.keys[e.Key] = e.Down
	case EventPointerMove:
		in.pointer = geom.V(e.X, e.Y)
	case EventPointerButton:
		if e.Button != ButtonLeft {
			return
		}
		if e.Down && !in.down {
			in.pressed = true
		}
		if !e.Down && in.down {
			in.released = true
		}
		in.down = e.Down
	case EventScroll:
		in.scroll[0] += e.X
		in.scroll[1] += e.Y
	}
}

// Frame returns the snapshot for the next UI frame and clears the
// per-frame edges and scroll.
func (in *Input) Frame(viewport geom.Rect, scale float32) ui.Input {
	s := ui.Input{
		Pointer:  in.pointer,
		Scale:    scale,
		Down:     in.down,
		Pressed:  in.pressed,
		Released: in.released,
		Scroll:   in.scroll,
		Viewport: viewport,
	}
	in.pressed, in.released = false, false
	in.scroll = geom.Vec2{}
	return s
}

func (in *Input) IsKeyDown(k Key) bool { return in.keys[k] }
func (in *Input) Pointer() geom.Vec2   { return in.pointer }
func (in *Input) PointerDown() bool    { return in.down }
