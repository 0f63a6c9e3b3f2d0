package text

import (
	"github.com/hubastard/canopy/engine/colors"
	"github.com/hubastard/canopy/engine/geom"
)

// AppendGlyphs tessellates s as textured quads into m, one per visible
// glyph, with the first line's top at origin. UVs address a.Image. Runes
// missing from the atlas advance by a space.
func AppendGlyphs(m *geom.Mesh, a *Atlas, origin geom.Vec2, s string, c colors.Color) {
	penX := origin[0]
	baseY := origin[1] + a.Face.Ascent()
	var prev rune = -1

	for _, r := range s {
		if r == '\n' {
			penX = origin[0]
			baseY += a.Face.LineHeight()
			prev = -1
			continue
		}

		g, ok := a.Glyphs[r]
		if !ok {
			if sp, ok := a.Glyphs[' ']; ok {
				penX += sp.Advance
			}
			prev = r
			continue
		}
		if prev >= 0 {
			penX += a.Kerning[[2]rune{prev, r}]
		}

		if g.W > 0 && g.H > 0 {
			left := penX + g.BearingX
			top := baseY - g.BearingY
			base := uint32(len(m.Verts))
			w, h := float32(g.W), float32(g.H)
			m.Verts = append(m.Verts,
				geom.Vertex{Pos: geom.V(left, top), UV: geom.V(g.U0, g.V0), Color: c},
				geom.Vertex{Pos: geom.V(left+w, top), UV: geom.V(g.U1, g.V0), Color: c},
				geom.Vertex{Pos: geom.V(left, top+h), UV: geom.V(g.U0, g.V1), Color: c},
				geom.Vertex{Pos: geom.V(left+w, top+h), UV: geom.V(g.U1, g.V1), Color: c},
			)
			m.Indices = append(m.Indices, base+0, base+2, base+1, base+1, base+2, base+3)
		}

		penX += g.Advance
		prev = r
	}
}
