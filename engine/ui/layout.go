package ui

import (
	"github.com/hubastard/canopy/engine/geom"
	"github.com/hubastard/canopy/engine/layout"
)

// ===== Layout shortcuts =====

// AddRect reserves size in the current layout frame.
func (c *Context) AddRect(size geom.Vec2) geom.Rect {
	return c.layout.AddRect(size)
}

// Available is what is left of the current frame: the unused extent along
// its axis and the full extent across it.
func (c *Context) Available() geom.Vec2 {
	f := c.layout.Frame()
	return f.Remaining()
}

// Row lays out the items fn adds left to right in the next slot of the
// current frame.
func (c *Context) Row(fn func()) {
	c.nested(layout.Horizontal, fn)
}

// Column lays out the items fn adds top to bottom in the next slot of the
// current frame.
func (c *Context) Column(fn func()) {
	c.nested(layout.Vertical, fn)
}

func (c *Context) nested(axis layout.Axis, fn func()) {
	c.layout.PushNext(axis, geom.V(0, 0), layout.TopLeft)
	defer c.layout.Pop()
	fn()
}

// Spacing sets the gap between items of the current frame.
func (c *Context) Spacing(v float32) {
	c.layout.SetSpacing(v)
}
