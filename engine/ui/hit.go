package ui

import (
	"github.com/hubastard/canopy/engine/geom"
	"github.com/hubastard/canopy/engine/ids"
)

type group struct {
	id    ids.ID
	order int32
}

// hoverFrame is everything one frame registered for hit testing.
type hoverFrame struct {
	hovered ids.ID
	order   int32
	groups  []group
	capture []geom.Rect
}

func (f *hoverFrame) reset() {
	f.hovered = ids.None
	f.order = 0
	f.groups = f.groups[:0]
	f.capture = f.capture[:0]
}

// RegisterControl records id at rect for next frame's hover resolution and
// reports whether id is hovered now, as resolved from the previous frame.
//
// A control only competes for hover when the pointer is inside the active
// clip. Among controls containing the pointer the last one registered with
// an order at least as high as the best so far wins, which is the topmost
// one given back-to-front submission.
func (c *Context) RegisterControl(id ids.ID, rect geom.Rect) bool {
	if id == ids.None {
		return false
	}
	if len(c.panels) == 0 {
		c.next.capture = append(c.next.capture, rect)
	}
	s := c.draw.Active()
	if s.ClipEnabled && !s.Clip.Contains(c.pointer) {
		return c.IsHovered(id)
	}
	if rect.Contains(c.pointer) && (c.next.hovered == ids.None || s.Order >= c.next.order) {
		c.next.hovered = id
		c.next.order = s.Order
	}
	return c.IsHovered(id)
}

// RegisterGroup records a container the pointer is inside. Recorded groups
// with a strictly lower order are evicted; groups at equal or higher order
// stay.
func (c *Context) RegisterGroup(id ids.ID, rect geom.Rect) {
	if id == ids.None || !rect.Contains(c.pointer) {
		return
	}
	s := c.draw.Active()
	if s.ClipEnabled && !s.Clip.Contains(c.pointer) {
		return
	}
	kept := c.next.groups[:0]
	for _, g := range c.next.groups {
		if g.order >= s.Order {
			kept = append(kept, g)
		}
	}
	c.next.groups = append(kept, group{id: id, order: s.Order})
}

// IsHovered reports whether id was the topmost control under the pointer
// last frame.
func (c *Context) IsHovered(id ids.ID) bool {
	return id != ids.None && c.cur.hovered == id
}

// IsGroupHovered reports whether the pointer was inside group id last frame.
func (c *Context) IsGroupHovered(id ids.ID) bool {
	if id == ids.None {
		return false
	}
	for _, g := range c.cur.groups {
		if g.id == id {
			return true
		}
	}
	return false
}

// HoveredID is the control hovered last frame, or ids.None.
func (c *Context) HoveredID() ids.ID { return c.cur.hovered }

// ===== Active =====

// ActiveFlags describe what kind of interaction holds the active control.
type ActiveFlags uint8

const (
	ActivePointer ActiveFlags = 1 << iota
	ActiveKeyboard
	ActiveDrag
)

// SetActive makes id the active control until ClearActive. Setting
// ids.None clears it.
func (c *Context) SetActive(id ids.ID, flags ActiveFlags) {
	if id == ids.None {
		c.ClearActive()
		return
	}
	c.active, c.activeFlags = id, flags
}

func (c *Context) ClearActive() {
	c.active, c.activeFlags = ids.None, 0
}

func (c *Context) IsActive(id ids.ID) bool {
	return id != ids.None && c.active == id
}

func (c *Context) Active() (ids.ID, ActiveFlags) {
	return c.active, c.activeFlags
}

// ===== Input capture =====

// ShouldCaptureInput reports whether a pointer event at host coordinates
// (x, y) lands on this UI. It uses the last finished frame and is safe to
// call between frames.
func (c *Context) ShouldCaptureInput(x, y float32) bool {
	if c.built == nil {
		return false
	}
	p := geom.V(x/c.in.Scale, y/c.in.Scale)
	for _, r := range c.built.capture {
		if r.Contains(p) {
			return true
		}
	}
	return false
}
