// Package geom holds the rectangle math and tessellation shared by layout,
// drawing and hit testing. Coordinates are in UI units with Y pointing down.
package geom

import "golang.org/x/image/math/f32"

// Vec2 is a point or a size.
type Vec2 = f32.Vec2

// V builds a Vec2.
func V(x, y float32) Vec2 { return Vec2{x, y} }

// Rect is an axis-aligned rectangle: top-left corner plus size.
type Rect struct {
	X, Y float32
	W, H float32
}

// R builds a Rect.
func R(x, y, w, h float32) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// FromMinMax builds a Rect from two corners.
func FromMinMax(min, max Vec2) Rect {
	return Rect{X: min[0], Y: min[1], W: max[0] - min[0], H: max[1] - min[1]}
}

func (r Rect) Min() Vec2  { return Vec2{r.X, r.Y} }
func (r Rect) Max() Vec2  { return Vec2{r.X + r.W, r.Y + r.H} }
func (r Rect) Size() Vec2 { return Vec2{r.W, r.H} }
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.W*0.5, r.Y + r.H*0.5}
}

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Vec2) bool {
	return p[0] >= r.X && p[0] <= r.X+r.W && p[1] >= r.Y && p[1] <= r.Y+r.H
}

// Overlaps reports whether r and o share any area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Intersect returns the common area of r and o. Disjoint rects produce a
// zero-size rect.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.X+r.W, o.X+o.W)
	y1 := min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Union returns the smallest rect covering both.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0 := min(r.X, o.X)
	y0 := min(r.Y, o.Y)
	x1 := max(r.X+r.W, o.X+o.W)
	y1 := max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Inset shrinks r by the given amounts; negative values grow it.
func (r Rect) Inset(left, top, right, bottom float32) Rect {
	out := Rect{X: r.X + left, Y: r.Y + top, W: r.W - left - right, H: r.H - top - bottom}
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

func (r Rect) Translate(d Vec2) Rect {
	r.X += d[0]
	r.Y += d[1]
	return r
}

// RoundedRectContains tests p against r with all corners rounded by radius.
func RoundedRectContains(r Rect, radius float32, p Vec2) bool {
	if !r.Contains(p) {
		return false
	}
	radius = clampRadius(r, radius)
	if radius <= 0 {
		return true
	}
	// distance from the inner rect that the corner circles are centred on
	inner := r.Inset(radius, radius, radius, radius)
	dx := max(inner.X-p[0], 0, p[0]-(inner.X+inner.W))
	dy := max(inner.Y-p[1], 0, p[1]-(inner.Y+inner.H))
	return dx*dx+dy*dy <= radius*radius
}

func clampRadius(r Rect, radius float32) float32 {
	limit := min(r.W, r.H) * 0.5
	if radius > limit {
		return limit
	}
	return radius
}
