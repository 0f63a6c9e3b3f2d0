package geom

import (
	"math"

	"github.com/hubastard/canopy/engine/colors"
)

// Vertex is the layout every backend consumes: position, UV, color.
// It holds no Go pointers so it can live in arena memory.
type Vertex struct {
	Pos   Vec2
	UV    Vec2
	Color colors.Color
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Verts   []Vertex
	Indices []uint32
}

func (m *Mesh) Reset() {
	m.Verts = m.Verts[:0]
	m.Indices = m.Indices[:0]
}

// Bounds returns the AABB of verts. An empty slice yields a zero rect.
func Bounds(verts []Vertex) Rect {
	if len(verts) == 0 {
		return Rect{}
	}
	lo, hi := verts[0].Pos, verts[0].Pos
	for _, v := range verts[1:] {
		lo[0] = min(lo[0], v.Pos[0])
		lo[1] = min(lo[1], v.Pos[1])
		hi[0] = max(hi[0], v.Pos[0])
		hi[1] = max(hi[1], v.Pos[1])
	}
	return FromMinMax(lo, hi)
}

// AppendQuad appends r as two triangles with UVs spanning [0,1].
func AppendQuad(m *Mesh, r Rect, c colors.Color) {
	base := uint32(len(m.Verts))
	m.Verts = append(m.Verts,
		Vertex{Pos: Vec2{r.X, r.Y}, UV: Vec2{0, 0}, Color: c},
		Vertex{Pos: Vec2{r.X + r.W, r.Y}, UV: Vec2{1, 0}, Color: c},
		Vertex{Pos: Vec2{r.X, r.Y + r.H}, UV: Vec2{0, 1}, Color: c},
		Vertex{Pos: Vec2{r.X + r.W, r.Y + r.H}, UV: Vec2{1, 1}, Color: c},
	)
	m.Indices = append(m.Indices,
		base+0, base+2, base+1,
		base+1, base+2, base+3,
	)
}

// AppendRoundedRect appends r with corners rounded by radius, each corner
// approximated by segments edges. A non-positive radius degrades to a quad.
func AppendRoundedRect(m *Mesh, r Rect, radius float32, segments int, c colors.Color) {
	radius = clampRadius(r, radius)
	if radius <= 0 || segments < 1 {
		AppendQuad(m, r, c)
		return
	}
	inner := r.Inset(radius, radius, radius, radius)
	// corner centres clockwise from top-left, each with its start angle
	corners := [4]struct {
		cx, cy float32
		start  float64
	}{
		{inner.X, inner.Y, math.Pi},
		{inner.X + inner.W, inner.Y, 1.5 * math.Pi},
		{inner.X + inner.W, inner.Y + inner.H, 0},
		{inner.X, inner.Y + inner.H, 0.5 * math.Pi},
	}

	base := uint32(len(m.Verts))
	center := r.Center()
	m.Verts = append(m.Verts, Vertex{Pos: center, UV: uvIn(r, center), Color: c})
	for _, k := range corners {
		for i := 0; i <= segments; i++ {
			a := k.start + (math.Pi/2)*float64(i)/float64(segments)
			p := Vec2{
				k.cx + radius*float32(math.Cos(a)),
				k.cy + radius*float32(math.Sin(a)),
			}
			m.Verts = append(m.Verts, Vertex{Pos: p, UV: uvIn(r, p), Color: c})
		}
	}
	appendFan(m, base, uint32(4*(segments+1)))
}

// AppendEllipse appends an ellipse inscribed in r using segments edges.
func AppendEllipse(m *Mesh, r Rect, segments int, c colors.Color) {
	if segments < 3 {
		segments = 3
	}
	base := uint32(len(m.Verts))
	center := r.Center()
	rx, ry := r.W*0.5, r.H*0.5
	m.Verts = append(m.Verts, Vertex{Pos: center, UV: Vec2{0.5, 0.5}, Color: c})
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		p := Vec2{
			center[0] + rx*float32(math.Cos(a)),
			center[1] + ry*float32(math.Sin(a)),
		}
		m.Verts = append(m.Verts, Vertex{Pos: p, UV: uvIn(r, p), Color: c})
	}
	appendFan(m, base, uint32(segments))
}

// appendFan closes a triangle fan around base over n rim vertices.
func appendFan(m *Mesh, base, n uint32) {
	for i := uint32(0); i < n; i++ {
		next := (i + 1) % n
		m.Indices = append(m.Indices, base, base+1+i, base+1+next)
	}
}

func uvIn(r Rect, p Vec2) Vec2 {
	if r.W == 0 || r.H == 0 {
		return Vec2{}
	}
	return Vec2{(p[0] - r.X) / r.W, (p[1] - r.Y) / r.H}
}
