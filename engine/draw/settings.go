// Package draw keeps the inherited draw-state of a frame and records the
// geometry emitted under it into render batches.
package draw

import (
	"github.com/hubastard/canopy/engine/colors"
	"github.com/hubastard/canopy/engine/geom"
)

// Material selects a backend shader. Zero is the default flat shader.
type Material uint32

// Texture is a backend texture handle. Zero samples plain white.
type Texture uint32

// Settings is one record of the draw-state stack.
type Settings struct {
	Material    Material
	ClipEnabled bool
	Clip        geom.Rect
	MaskEnabled bool
	Mask        geom.Rect
	MaskRadius  float32
	Order       int32
	Texture     Texture
	// Color multiplies every vertex emitted under these settings.
	Color colors.Color
}

// Root is the bottom record of every frame: no clip, no mask, order 0.
func Root() Settings {
	return Settings{Color: colors.White}
}

// Cull is the rect geometry must overlap to be emitted: the clip and mask
// intersected. ok is false when neither is enabled.
func (s Settings) Cull() (r geom.Rect, ok bool) {
	switch {
	case s.ClipEnabled && s.MaskEnabled:
		return s.Clip.Intersect(s.Mask), true
	case s.ClipEnabled:
		return s.Clip, true
	case s.MaskEnabled:
		return s.Mask, true
	}
	return geom.Rect{}, false
}

// sameBatch reports whether geometry under a and b can share one batch.
// The colour multiplier is baked into vertices and never splits.
func sameBatch(a, b Settings) bool {
	if a.ClipEnabled != b.ClipEnabled || (a.ClipEnabled && a.Clip != b.Clip) {
		return false
	}
	if a.MaskEnabled != b.MaskEnabled || (a.MaskEnabled && (a.Mask != b.Mask || a.MaskRadius != b.MaskRadius)) {
		return false
	}
	return a.Order == b.Order && a.Material == b.Material && a.Texture == b.Texture
}

type deltaFlags uint8

const (
	setClip deltaFlags = 1 << iota
	resetClip
	setMask
	setOrder
	setMaterial
	setTexture
	setColor
)

// Delta lists the fields a Push changes. Fields not set are inherited.
//
//	st.Push(draw.Delta{}.WithClip(r).WithOrder(10))
type Delta struct {
	flags      deltaFlags
	clip       geom.Rect
	mask       geom.Rect
	maskRadius float32
	order      int32
	material   Material
	texture    Texture
	color      colors.Color
}

// WithClip narrows the clip to r, intersecting any clip already active.
func (d Delta) WithClip(r geom.Rect) Delta {
	d.flags |= setClip
	d.clip = r
	return d
}

// WithoutClip drops the inherited clip before WithClip applies. Floating
// panels use it to escape the layout they were opened from.
func (d Delta) WithoutClip() Delta {
	d.flags |= resetClip
	return d
}

func (d Delta) WithMask(r geom.Rect, radius float32) Delta {
	d.flags |= setMask
	d.mask, d.maskRadius = r, radius
	return d
}

func (d Delta) WithOrder(order int32) Delta {
	d.flags |= setOrder
	d.order = order
	return d
}

func (d Delta) WithMaterial(m Material) Delta {
	d.flags |= setMaterial
	d.material = m
	return d
}

func (d Delta) WithTexture(t Texture) Delta {
	d.flags |= setTexture
	d.texture = t
	return d
}

func (d Delta) WithColor(c colors.Color) Delta {
	d.flags |= setColor
	d.color = c
	return d
}

// Apply returns s with the delta applied.
func (d Delta) Apply(s Settings) Settings {
	if d.flags&resetClip != 0 {
		s.ClipEnabled = false
		s.Clip = geom.Rect{}
	}
	if d.flags&setClip != 0 {
		if s.ClipEnabled {
			s.Clip = s.Clip.Intersect(d.clip)
		} else {
			s.Clip = d.clip
			s.ClipEnabled = true
		}
	}
	if d.flags&setMask != 0 {
		s.Mask, s.MaskRadius, s.MaskEnabled = d.mask, d.maskRadius, true
	}
	if d.flags&setOrder != 0 {
		s.Order = d.order
	}
	if d.flags&setMaterial != 0 {
		s.Material = d.material
	}
	if d.flags&setTexture != 0 {
		s.Texture = d.texture
	}
	if d.flags&setColor != 0 {
		s.Color = d.color
	}
	return s
}
