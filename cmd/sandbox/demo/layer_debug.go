package demo

import (
	"time"

	"github.com/hubastard/canopy/engine/colors"
	"github.com/hubastard/canopy/engine/core"
	"github.com/hubastard/canopy/engine/geom"
	"github.com/hubastard/canopy/engine/profiler"
	"github.com/hubastard/canopy/engine/widgets"
)

// ------- Debug overlay layer (F3 toggles, F1 opens a profile) -------
type LayerDebug struct {
	w       *widgets.UI
	hidden  bool
	last    time.Time
	frameMS float32
	rt      profiler.RuntimeStats
	sampled time.Time
}

func (l *LayerDebug) OnAttach(e *core.Engine) {
	style := widgets.DefaultStyle()
	style.Text = colors.Yellow
	l.w = widgets.New(e.UI, style)
}

func (l *LayerDebug) OnDetach(e *core.Engine) {}

func (l *LayerDebug) OnUpdate(e *core.Engine, dt float64) {}

func (l *LayerDebug) OnRender(e *core.Engine, alpha float64) {
	defer profiler.Start("LayerDebug.OnRender")()

	now := time.Now()
	if !l.last.IsZero() {
		l.frameMS = float32(now.Sub(l.last).Seconds() * 1000)
	}
	l.last = now
	if l.hidden {
		return
	}
	// ReadMemStats stops the world
	if now.Sub(l.sampled) > 500*time.Millisecond {
		l.rt = profiler.Runtime()
		l.sampled = now
	}

	w := l.w
	ds := w.DrawStats()
	st := w.Store().Stats()
	as := w.Arena().Stats()
	vp := w.Input().Viewport
	w.Panel("debug", geom.R(vp.X+vp.W-232, vp.Y+12, 220, 230), 100, func() {
		w.Labelf("Frame: %d", w.Frame())
		w.Labelf("  %.2f ms", l.frameMS)
		w.Label("Draw")
		w.Labelf("  batches %d  culled %d", ds.Batches, ds.Culled)
		w.Labelf("  vertices %d  texts %d", ds.Vertices, ds.Texts)
		w.Label("UI memory")
		w.Labelf("  arena %u / %u B", as.Used, as.Capacity)
		w.Labelf("  store %d entries, %u B", st.Entries, st.Bytes)
		w.Label("Runtime")
		w.Labelf("  heap %.2f MB", float64(l.rt.HeapAlloc)/(1<<20))
		w.Labelf("  gc %d  goroutines %d", l.rt.NumGC, l.rt.Goroutines)
	})
}

func (l *LayerDebug) OnEvent(e *core.Engine, ev core.Event) bool {
	k, ok := ev.(core.EventKey)
	if !ok || !k.Down {
		return false
	}
	switch k.Key {
	case core.KeyF3:
		l.hidden = !l.hidden
		return true
	case core.KeyF1:
		if path, err := profiler.Open(); err == nil {
			e.Log.Info("speedscope dump", "path", path)
		} else {
			e.Log.Warn("profiler dump", "err", err)
		}
		return true
	}
	return false
}
