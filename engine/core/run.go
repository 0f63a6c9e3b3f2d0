package core

import (
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"

	"github.com/hubastard/canopy/engine/geom"
	"github.com/hubastard/canopy/engine/profiler"
	"github.com/hubastard/canopy/engine/ui"
)

// Run wires the platform window + renderer and executes the main loop.
// Each frame polls events, runs the fixed updates, builds one UI frame
// through app.OnRender and hands its batches to the renderer.
func Run(app App, cfg Config, newWindow func(Config) (Window, error), newRenderer func(Window, Config) (Renderer, error)) error {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	log := cfg.Log.Logger(os.Stderr)

	win, err := newWindow(cfg)
	if err != nil {
		return errors.Wrap(err, "create window")
	}
	defer win.Destroy()

	rend, err := newRenderer(win, cfg)
	if err != nil {
		return errors.Wrap(err, "create renderer")
	}
	defer rend.Shutdown()

	eng := &Engine{
		Window:   win,
		Renderer: rend,
		UI:       ui.New(cfg.UI.Options(log)),
		Input:    NewInput(),
		Log:      log,
		Config:   cfg,
		start:    time.Now(),
	}

	scale := uiScale(cfg, win)
	fw, fh := win.FramebufferSize()
	rend.Resize(fw, fh, scale)

	win.SetEventCallback(func(ev Event) {
		eng.Input.Handle(ev)
		switch e := ev.(type) {
		case EventResize:
			if e.W < 1 || e.H < 1 {
				break
			}
			scale = uiScale(cfg, win)
			rend.Resize(e.W, e.H, scale)
		case EventPointerMove, EventPointerButton, EventScroll:
			p := eng.Input.Pointer()
			if eng.UI.ShouldCaptureInput(p[0], p[1]) {
				return
			}
		}
		app.OnEvent(eng, ev)
	})

	app.OnStart(eng)
	log.Info("engine started", "width", fw, "height", fh, "scale", scale)

	// Fixed-timestep (60 Hz) with interpolation
	const tick = time.Second / 60
	var (
		accum   time.Duration
		prev    = time.Now()
		clear   = cfg.Window.ClearColor
		maxStep = 10 // prevent spiral of death
	)

	for !win.ShouldClose() && !eng.quit {
		stop := profiler.Start("frame")
		now := time.Now()
		accum += now.Sub(prev)
		prev = now

		// Poll OS events (platform will emit via callbacks)
		win.PollEvents()

		steps := 0
		for accum >= tick && steps < maxStep {
			app.OnUpdate(eng, tick.Seconds())
			accum -= tick
			steps++
		}
		alpha := float64(accum) / float64(tick)

		fw, fh := win.FramebufferSize()
		viewport := geom.R(0, 0, float32(fw)/scale, float32(fh)/scale)
		if err := eng.UI.BeginFrame(eng.Input.Frame(viewport, scale)); err != nil {
			stop()
			app.OnShutdown(eng)
			return errors.Wrapf(err, "begin frame %d", eng.UI.Frame())
		}
		app.OnRender(eng, alpha)
		// imbalances are logged by the context and repaired for the next frame
		_ = eng.UI.EndFrame()

		rend.Clear(clear)
		if err := eng.UI.Render(rend); err != nil {
			stop()
			app.OnShutdown(eng)
			return errors.Wrapf(err, "render frame %d", eng.UI.Frame())
		}
		win.SwapBuffers()
		stop()
	}

	app.OnShutdown(eng)
	log.Info("engine exit", "frames", eng.UI.Frame(), "uptime", eng.Uptime().Round(time.Millisecond))
	return nil
}

func uiScale(cfg Config, win Window) float32 {
	s := cfg.UI.Scale
	if s <= 0 {
		s = 1
	}
	if cs := win.ContentScale(); cs > 0 {
		s *= cs
	}
	return s
}
