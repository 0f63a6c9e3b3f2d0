package ui

import (
	"github.com/hubastard/canopy/engine/ids"
)

type idScope struct {
	id  ids.ID
	gen uint64 // anonymous children handed out so far
}

// anonymous ids are keyed in a range PushIDInt never produces for
// non-negative indices
const anonBit = 1 << 63

func (c *Context) topID() *idScope {
	if len(c.ids) == 0 {
		panic("ui: identity stack used outside BeginFrame/EndFrame")
	}
	return &c.ids[len(c.ids)-1]
}

// PushID enters the scope named name and returns its id.
func (c *Context) PushID(name string) ids.ID {
	id := ids.HashString(c.topID().id, name)
	c.ids = append(c.ids, idScope{id: id})
	return id
}

// PushIDInt enters the scope keyed by i, for list items.
func (c *Context) PushIDInt(i int) ids.ID {
	id := ids.HashInt(c.topID().id, uint64(i))
	c.ids = append(c.ids, idScope{id: id})
	return id
}

// PopID leaves the current scope. Popping the root is a programmer error.
func (c *Context) PopID() {
	if len(c.ids) <= 1 {
		panic("ui: PopID without a matching PushID")
	}
	c.ids = c.ids[:len(c.ids)-1]
}

// NextAnonymousID returns the next unnamed child of the current scope.
// The n-th call within a scope yields the same id every frame.
func (c *Context) NextAnonymousID() ids.ID {
	top := c.topID()
	top.gen++
	return ids.HashInt(top.id, anonBit|top.gen)
}

// ID derives the id named name under the current scope without entering it.
func (c *Context) ID(name string) ids.ID {
	return ids.HashString(c.topID().id, name)
}

func (c *Context) CurrentID() ids.ID { return c.topID().id }

// Scope pushes name and returns the matching pop, for use with defer.
//
//	defer ctx.Scope("toolbar")()
func (c *Context) Scope(name string) func() {
	c.PushID(name)
	return c.PopID
}

// WithID runs fn inside the scope named name.
func (c *Context) WithID(name string, fn func()) {
	c.PushID(name)
	defer c.PopID()
	fn()
}
