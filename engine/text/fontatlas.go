package text

import (
	"image"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

type Glyph struct {
	Rune     rune
	Advance  float32 // pixels
	BearingX float32 // left bearing in pixels
	BearingY float32 // baseline to glyph top in pixels
	W, H     int     // bitmap size
	U0, V0   float32 // UVs in the atlas
	U1, V1   float32
}

// Atlas is a white-on-transparent glyph sheet for GPU text. Coverage is in
// the alpha channel.
type Atlas struct {
	Face    *Face
	Glyphs  map[rune]Glyph
	Kerning map[[2]rune]float32
	Image   *image.RGBA
}

const (
	atlasPadding = 2
	atlasMinSize = 128
	atlasMaxSize = 4096
)

// ASCII is the printable ASCII range, the default atlas rune set.
func ASCII() []rune {
	runes := make([]rune, 0, 95)
	for r := rune(32); r < 127; r++ {
		runes = append(runes, r)
	}
	return runes
}

// BuildAtlas rasterizes runes of f into a square atlas, doubling the size
// until every glyph fits.
func BuildAtlas(f *Face, runes []rune) (*Atlas, error) {
	face := f.Font()

	type meas struct {
		r      rune
		w, h   int
		adv    float32
		bx, by float32
	}
	measure := make([]meas, 0, len(runes))
	for _, rr := range runes {
		br, adv, ok := face.GlyphBounds(rr)
		if !ok {
			continue
		}
		measure = append(measure, meas{
			r: rr,
			w: (br.Max.X - br.Min.X).Ceil(), h: (br.Max.Y - br.Min.Y).Ceil(),
			adv: float32(adv.Round()),
			bx:  float32(br.Min.X.Floor()),
			by:  float32(-br.Min.Y.Floor()),
		})
	}
	if len(measure) == 0 {
		return nil, errors.New("font atlas: face has none of the requested glyphs")
	}

	// shelf packer
	size := atlasMinSize
	var pos map[rune]image.Point
	for {
		x, y, rowH := atlasPadding, atlasPadding, 0
		fits := true
		pos = make(map[rune]image.Point, len(measure))
		for _, g := range measure {
			if g.w == 0 || g.h == 0 {
				continue
			}
			if x+g.w+atlasPadding > size {
				x = atlasPadding
				y += rowH + atlasPadding
				rowH = 0
			}
			if g.w+2*atlasPadding > size || y+g.h+atlasPadding > size {
				fits = false
				break
			}
			pos[g.r] = image.Pt(x, y)
			x += g.w + atlasPadding
			rowH = max(rowH, g.h)
		}
		if fits {
			break
		}
		size *= 2
		if size > atlasMaxSize {
			return nil, errors.Errorf("font atlas: glyphs do not fit in %dx%d", atlasMaxSize, atlasMaxSize)
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	drawer := &font.Drawer{Dst: dst, Src: image.White, Face: face}

	glyphs := make(map[rune]Glyph, len(measure))
	for _, g := range measure {
		gl := Glyph{Rune: g.r, Advance: g.adv, BearingX: g.bx, BearingY: g.by, W: g.w, H: g.h}
		if p, ok := pos[g.r]; ok {
			drawer.Dot = fixed.P(p.X-int(g.bx), p.Y+int(g.by))
			drawer.DrawString(string(g.r))
			gl.U0 = float32(p.X) / float32(size)
			gl.V0 = float32(p.Y) / float32(size)
			gl.U1 = float32(p.X+g.w) / float32(size)
			gl.V1 = float32(p.Y+g.h) / float32(size)
		}
		glyphs[g.r] = gl
	}

	kerning := make(map[[2]rune]float32)
	for _, a := range measure {
		for _, b := range measure {
			if dx := face.Kern(a.r, b.r); dx != 0 {
				kerning[[2]rune{a.r, b.r}] = float32(dx.Round())
			}
		}
	}

	return &Atlas{Face: f, Glyphs: glyphs, Kerning: kerning, Image: dst}, nil
}
