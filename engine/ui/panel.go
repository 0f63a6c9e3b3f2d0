package ui

import (
	"github.com/hubastard/canopy/engine/draw"
	"github.com/hubastard/canopy/engine/geom"
	"github.com/hubastard/canopy/engine/ids"
	"github.com/hubastard/canopy/engine/layout"
)

type panelScope struct {
	id   ids.ID
	rect geom.Rect
}

// BeginPanel opens a floating surface at rect drawn at order. It enters the
// identity scope name, clips to rect regardless of the enclosing clip,
// starts a root layout frame over rect, and marks rect as capturing input.
// The panel itself is registered as a control and a group so that controls
// underneath it lose hover.
func (c *Context) BeginPanel(name string, rect geom.Rect, order int32) ids.ID {
	id := c.PushID(name)
	c.draw.Push(draw.Delta{}.WithoutClip().WithClip(rect).WithOrder(order))
	c.panels = append(c.panels, panelScope{id: id, rect: rect})
	c.next.capture = append(c.next.capture, rect)
	c.RegisterControl(id, rect)
	c.RegisterGroup(id, rect)
	c.layout.Push(layout.Vertical, rect, layout.TopLeft)
	c.layout.MarkRoot()
	return id
}

// EndPanel closes the innermost panel.
func (c *Context) EndPanel() {
	if len(c.panels) == 0 {
		panic("ui: EndPanel without BeginPanel")
	}
	c.panels = c.panels[:len(c.panels)-1]
	c.layout.Pop()
	c.draw.Pop()
	c.PopID()
}

// PanelDepth counts open panels.
func (c *Context) PanelDepth() int { return len(c.panels) }

// PanelRect is the rect of the innermost panel; ok is false outside panels.
func (c *Context) PanelRect() (r geom.Rect, ok bool) {
	if len(c.panels) == 0 {
		return geom.Rect{}, false
	}
	return c.panels[len(c.panels)-1].rect, true
}
