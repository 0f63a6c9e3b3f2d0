// Package text measures and rasterizes strings for widgets and backends.
package text

import (
	"os"
	"strings"

	"github.com/hubastard/canopy/engine/geom"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// Measurer sizes text for layout.
type Measurer interface {
	// Measure returns the width of the widest line and the height of all
	// lines of s.
	Measure(s string) geom.Vec2
	LineHeight() float32
}

// Face is a font face at one pixel size.
type Face struct {
	face    font.Face
	ascent  float32
	descent float32
	height  float32
	owned   bool
}

// NewFace wraps f. The caller keeps ownership of f.
func NewFace(f font.Face) *Face {
	m := f.Metrics()
	return &Face{
		face:    f,
		ascent:  float32(m.Ascent.Ceil()),
		descent: float32(m.Descent.Ceil()),
		height:  float32(m.Height.Ceil()),
	}
}

// Default is the built-in 7x13 bitmap face.
func Default() *Face { return NewFace(basicfont.Face7x13) }

// LoadTTF reads a TrueType or OpenType file and opens it at sizePx.
func LoadTTF(path string, sizePx float32) (*Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read font")
	}
	return ParseTTF(data, sizePx)
}

// ParseTTF opens font data at sizePx.
func ParseTTF(data []byte, sizePx float32) (*Face, error) {
	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "parse font")
	}
	f, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: float64(sizePx), DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Wrap(err, "new face")
	}
	face := NewFace(f)
	face.owned = true
	return face, nil
}

// Font exposes the underlying face for rasterizers.
func (f *Face) Font() font.Face { return f.face }

func (f *Face) Ascent() float32     { return f.ascent }
func (f *Face) Descent() float32    { return f.descent }
func (f *Face) LineHeight() float32 { return f.height }

func (f *Face) Measure(s string) geom.Vec2 {
	if s == "" {
		return geom.Vec2{}
	}
	var w float32
	lines := 0
	for line := range strings.SplitSeq(s, "\n") {
		lines++
		w = max(w, float32(font.MeasureString(f.face, line).Ceil()))
	}
	return geom.V(w, float32(lines)*f.height)
}

// Close releases faces opened by LoadTTF or ParseTTF.
func (f *Face) Close() error {
	if !f.owned {
		return nil
	}
	f.owned = false
	return f.face.Close()
}
