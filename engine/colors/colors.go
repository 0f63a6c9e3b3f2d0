package colors

import "image/color"

// Color is linear RGBA in [0..1].
type Color [4]float32

var (
	White       = Color{1, 1, 1, 1}
	Black       = Color{0, 0, 0, 1}
	Transparent = Color{0, 0, 0, 0}
	Red         = Color{1, 0, 0, 1}
	Green       = Color{0, 1, 0, 1}
	Blue        = Color{0, 0, 1, 1}
	Yellow      = Color{1, 1, 0, 1}
	Gray        = Color{0.5, 0.5, 0.5, 1}
	DarkGray    = Color{0.08, 0.10, 0.12, 1}
	Slate       = Color{0.18, 0.21, 0.26, 1}
	Accent      = Color{0.25, 0.55, 0.95, 1}
)

func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// Mul multiplies component-wise. White is the identity.
func (c Color) Mul(o Color) Color {
	return Color{c[0] * o[0], c[1] * o[1], c[2] * o[2], c[3] * o[3]}
}

// Scale multiplies RGB by f and leaves alpha alone.
func (c Color) Scale(f float32) Color {
	return Color{clamp01(c[0] * f), clamp01(c[1] * f), clamp01(c[2] * f), c[3]}
}

// RGBA converts to a non-premultiplied 8-bit color.
func (c Color) RGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c[0])*255 + 0.5),
		G: uint8(clamp01(c[1])*255 + 0.5),
		B: uint8(clamp01(c[2])*255 + 0.5),
		A: uint8(clamp01(c[3])*255 + 0.5),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
