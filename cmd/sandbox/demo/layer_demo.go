package demo

import (
	"image"
	"math"
	"strconv"

	"github.com/hubastard/canopy/engine/assets"
	"github.com/hubastard/canopy/engine/colors"
	"github.com/hubastard/canopy/engine/core"
	"github.com/hubastard/canopy/engine/draw"
	"github.com/hubastard/canopy/engine/geom"
	"github.com/hubastard/canopy/engine/profiler"
	"github.com/hubastard/canopy/engine/widgets"
)

type textureUploader interface {
	UploadTexture(img *image.RGBA) draw.Texture
}

// ------- Widget demo layer -------
type LayerDemo struct {
	texturePath string

	w        *widgets.UI
	tex      draw.Texture
	texSize  geom.Vec2
	items    []string
	selected int
	clicks   int
	pulse    bool
	t        float64
}

func (l *LayerDemo) OnAttach(e *core.Engine) {
	l.w = widgets.New(e.UI, widgets.DefaultStyle())
	l.pulse = true
	l.selected = -1
	l.items = make([]string, 32)
	for i := range l.items {
		l.items[i] = "Item " + strconv.Itoa(i+1)
	}

	if l.texturePath == "" {
		return
	}
	up, ok := e.Renderer.(textureUploader)
	if !ok {
		e.Log.Warn("renderer cannot upload textures", "path", l.texturePath)
		return
	}
	img, err := assets.LoadPNG(l.texturePath)
	if err != nil {
		e.Log.Error("load texture", "err", err)
		return
	}
	l.tex = up.UploadTexture(img)
	l.texSize = geom.V(float32(img.Bounds().Dx()), float32(img.Bounds().Dy()))
}

func (l *LayerDemo) OnDetach(e *core.Engine) {}

func (l *LayerDemo) OnUpdate(e *core.Engine, dt float64) {
	if l.pulse {
		l.t += dt
	}
}

func (l *LayerDemo) OnRender(e *core.Engine, alpha float64) {
	defer profiler.Start("LayerDemo.OnRender")()
	w := l.w

	vp := w.Input().Viewport
	r := float32(60 + 20*math.Sin(l.t*2))
	w.FillEllipse(geom.R(vp.X+vp.W*0.6-r, vp.Y+vp.H*0.5-r, 2*r, 2*r), colors.Accent.WithAlpha(0.8))

	w.Panel("demo", geom.R(24, 24, 280, 420), 10, func() {
		w.Row(func() {
			if w.Button("Click me") {
				l.clicks++
			}
			w.Labelf("clicks: %d", l.clicks)
		})
		w.Checkbox("Pulse", &l.pulse)
		w.Separator()

		if w.Collapsing("Details") {
			w.Labelf("frame %d", w.Frame())
			w.Labelf("uptime %.1fs", e.Uptime().Seconds())
			if l.selected >= 0 {
				w.Labelf("selected: %s", l.items[l.selected])
			}
		}

		w.ScrollArea("items", 160, func() {
			for i, it := range l.items {
				w.PushIDInt(i)
				if w.Button(it) {
					l.selected = i
				}
				w.PopID()
			}
		})

		if l.tex != 0 {
			size := l.texSize
			if avail := w.Available()[0]; size[0] > avail {
				size = geom.V(avail, size[1]*avail/size[0])
			}
			rect := w.AddRect(size)
			w.Draw().Push(draw.Delta{}.WithTexture(l.tex).WithMask(rect, 8))
			w.FillRect(rect, 0, colors.White)
			w.Draw().Pop()
		}
	})
}

func (l *LayerDemo) OnEvent(e *core.Engine, ev core.Event) bool {
	if k, ok := ev.(core.EventKey); ok && k.Down && k.Key == core.KeyEscape {
		e.Quit()
		return true
	}
	return false
}
