package ui

import (
	"github.com/hubastard/canopy/engine/colors"
	"github.com/hubastard/canopy/engine/draw"
	"github.com/hubastard/canopy/engine/geom"
)

// Painting helpers. Everything goes through the batcher under the active
// draw settings, so it is clipped, culled and ordered like any geometry.

// FillRect draws r, with rounded corners when radius > 0. It reports
// whether anything survived culling.
func (c *Context) FillRect(r geom.Rect, radius float32, col colors.Color) bool {
	c.mesh.Reset()
	if radius > 0 {
		geom.AppendRoundedRect(&c.mesh, r, radius, cornerSegments(radius), col)
	} else {
		geom.AppendQuad(&c.mesh, r, col)
	}
	return c.draw.Batcher().AddMesh(c.mesh.Verts, c.mesh.Indices)
}

// StrokeRect draws the outline of r, width thick, inside r.
func (c *Context) StrokeRect(r geom.Rect, width float32, col colors.Color) bool {
	if width <= 0 || r.Empty() {
		return false
	}
	w := min(width, r.W/2, r.H/2)
	c.mesh.Reset()
	geom.AppendQuad(&c.mesh, geom.R(r.X, r.Y, r.W, w), col)
	geom.AppendQuad(&c.mesh, geom.R(r.X, r.Y+r.H-w, r.W, w), col)
	geom.AppendQuad(&c.mesh, geom.R(r.X, r.Y+w, w, r.H-2*w), col)
	geom.AppendQuad(&c.mesh, geom.R(r.X+r.W-w, r.Y+w, w, r.H-2*w), col)
	return c.draw.Batcher().AddMesh(c.mesh.Verts, c.mesh.Indices)
}

func (c *Context) FillEllipse(r geom.Rect, col colors.Color) bool {
	c.mesh.Reset()
	geom.AppendEllipse(&c.mesh, r, ellipseSegments(max(r.W, r.H)), col)
	return c.draw.Batcher().AddMesh(c.mesh.Verts, c.mesh.Indices)
}

// Text queues s for the backend to draw from the top-left of r.
func (c *Context) Text(s string, r geom.Rect, col colors.Color) bool {
	return c.draw.Batcher().AddText(draw.TextRun{Text: s, Bounds: r, Color: col})
}

func cornerSegments(radius float32) int {
	return min(max(int(radius/2), 2), 8)
}

func ellipseSegments(diameter float32) int {
	return min(max(int(diameter/2), 12), 64)
}
