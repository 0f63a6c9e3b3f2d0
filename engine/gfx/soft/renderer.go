// Package soft renders UI batches on the CPU into an *image.RGBA. It backs
// the headless sandbox and pixel tests.
//
// Textures and mask corner radii are not sampled: textured geometry is
// filled with its vertex colour and masks clip to their rectangle.
package soft

import (
	"image"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/hubastard/canopy/engine/colors"
	"github.com/hubastard/canopy/engine/draw"
	"github.com/hubastard/canopy/engine/geom"
	"github.com/hubastard/canopy/engine/profiler"
	"github.com/hubastard/canopy/engine/text"
)

type Renderer struct {
	img   *image.RGBA
	scale float32
	face  *text.Face
	ras   vector.Rasterizer
	poly  []geom.Vec2
	tmp   []geom.Vec2
}

// New creates a w*h pixel target. A nil face uses text.Default.
func New(w, h int, face *text.Face) *Renderer {
	if face == nil {
		face = text.Default()
	}
	return &Renderer{
		img:   image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1))),
		scale: 1,
		face:  face,
	}
}

// Image is the render target. It is replaced on Resize.
func (r *Renderer) Image() *image.RGBA { return r.img }

func (r *Renderer) Resize(w, h int, scale float32) {
	if scale <= 0 {
		scale = 1
	}
	r.scale = scale
	if b := r.img.Bounds(); b.Dx() != w || b.Dy() != h {
		r.img = image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	}
}

func (r *Renderer) Clear(c colors.Color) {
	pr, pg, pb, pa := c.RGBA().RGBA()
	v := [4]uint8{uint8(pr >> 8), uint8(pg >> 8), uint8(pb >> 8), uint8(pa >> 8)}
	for i := 0; i < len(r.img.Pix); i += 4 {
		copy(r.img.Pix[i:i+4], v[:])
	}
}

func (r *Renderer) Shutdown() {}

// Render draws batches in order. Each batch is clipped to its clip and
// mask rectangles.
func (r *Renderer) Render(batches []draw.Batch) error {
	defer profiler.Start("soft.Render")()
	for i := range batches {
		b := &batches[i]
		clip := r.clipRect(b.Settings)
		if clip.Empty() {
			continue
		}
		r.fill(b, clip)
		for _, run := range b.Texts {
			r.text(run, clip)
		}
	}
	return nil
}

func (r *Renderer) clipRect(s draw.Settings) image.Rectangle {
	out := r.img.Bounds()
	if cull, ok := s.Cull(); ok {
		out = out.Intersect(r.pixels(cull))
	}
	return out
}

// pixels covers every pixel r touches.
func (r *Renderer) pixels(rc geom.Rect) image.Rectangle {
	x0, y0 := rc.X*r.scale, rc.Y*r.scale
	x1, y1 := (rc.X+rc.W)*r.scale, (rc.Y+rc.H)*r.scale
	return image.Rect(floor(x0), floor(y0), ceil(x1), ceil(y1))
}

func floor(v float32) int {
	i := int(v)
	if float32(i) > v {
		i--
	}
	return i
}

func ceil(v float32) int {
	i := int(v)
	if float32(i) < v {
		i++
	}
	return i
}

// fill rasterizes the batch triangles. Consecutive triangles of one colour
// share a path so their shared edges leave no seams.
func (r *Renderer) fill(b *draw.Batch, clip image.Rectangle) {
	w, h := clip.Dx(), clip.Dy()
	off := geom.V(float32(clip.Min.X), float32(clip.Min.Y))
	r.ras.Reset(w, h)

	var cur colors.Color
	pending := false
	flush := func() {
		if pending {
			r.ras.Draw(r.img, clip, image.NewUniform(cur.RGBA()), image.Point{})
			r.ras.Reset(w, h)
			pending = false
		}
	}

	for i := 0; i+2 < len(b.Indices); i += 3 {
		v0 := b.Vertices[b.Indices[i]]
		v1 := b.Vertices[b.Indices[i+1]]
		v2 := b.Vertices[b.Indices[i+2]]
		col := average(v0.Color, v1.Color, v2.Color)
		if col[3] <= 0 {
			continue
		}
		if pending && col != cur {
			flush()
		}

		p0, p1, p2 := r.local(v0.Pos, off), r.local(v1.Pos, off), r.local(v2.Pos, off)
		// one winding for every triangle, so overlaps accumulate
		if cross(p0, p1, p2) < 0 {
			p1, p2 = p2, p1
		}
		poly := r.clipTriangle(p0, p1, p2, float32(w), float32(h))
		if len(poly) < 3 {
			continue
		}
		r.ras.MoveTo(poly[0][0], poly[0][1])
		for _, p := range poly[1:] {
			r.ras.LineTo(p[0], p[1])
		}
		r.ras.ClosePath()
		cur, pending = col, true
	}
	flush()
}

func (r *Renderer) local(p, off geom.Vec2) geom.Vec2 {
	return geom.V(p[0]*r.scale-off[0], p[1]*r.scale-off[1])
}

func cross(a, b, c geom.Vec2) float32 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func average(a, b, c colors.Color) colors.Color {
	var out colors.Color
	for i := range out {
		out[i] = (a[i] + b[i] + c[i]) / 3
	}
	return out
}

// clipTriangle clips a triangle to [0,w]x[0,h] (Sutherland-Hodgman). The
// result aliases the renderer's scratch buffers.
func (r *Renderer) clipTriangle(a, b, c geom.Vec2, w, h float32) []geom.Vec2 {
	r.poly = append(r.poly[:0], a, b, c)
	for edge := range 4 {
		r.tmp = r.tmp[:0]
		for i, p := range r.poly {
			q := r.poly[(i+1)%len(r.poly)]
			pin, qin := inside(p, edge, w, h), inside(q, edge, w, h)
			if pin {
				r.tmp = append(r.tmp, p)
			}
			if pin != qin {
				r.tmp = append(r.tmp, intersect(p, q, edge, w, h))
			}
		}
		r.poly, r.tmp = r.tmp, r.poly
		if len(r.poly) == 0 {
			break
		}
	}
	return r.poly
}

func inside(p geom.Vec2, edge int, w, h float32) bool {
	switch edge {
	case 0:
		return p[0] >= 0
	case 1:
		return p[0] <= w
	case 2:
		return p[1] >= 0
	}
	return p[1] <= h
}

func intersect(p, q geom.Vec2, edge int, w, h float32) geom.Vec2 {
	var t float32
	switch edge {
	case 0:
		t = (0 - p[0]) / (q[0] - p[0])
	case 1:
		t = (w - p[0]) / (q[0] - p[0])
	case 2:
		t = (0 - p[1]) / (q[1] - p[1])
	default:
		t = (h - p[1]) / (q[1] - p[1])
	}
	return geom.V(p[0]+t*(q[0]-p[0]), p[1]+t*(q[1]-p[1]))
}

// text draws run from the top-left of its bounds, one line per "\n".
func (r *Renderer) text(run draw.TextRun, clip image.Rectangle) {
	dst, ok := r.img.SubImage(clip).(*image.RGBA)
	if !ok {
		return
	}
	d := font.Drawer{Dst: dst, Src: image.NewUniform(run.Color.RGBA()), Face: r.face.Font()}
	x := run.Bounds.X * r.scale
	y := run.Bounds.Y*r.scale + r.face.Ascent()
	for line := range strings.SplitSeq(run.Text, "\n") {
		d.Dot = fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
		d.DrawString(line)
		y += r.face.LineHeight()
	}
}
