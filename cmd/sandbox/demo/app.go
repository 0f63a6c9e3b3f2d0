// Package demo is the sandbox application: a widget panel over an animated
// backdrop and a debug overlay, runnable in a window or headless.
package demo

import (
	"image"

	"github.com/hubastard/canopy/engine/core"
	"github.com/hubastard/canopy/engine/gfx/soft"
	"github.com/hubastard/canopy/engine/profiler"
)

// App is the layer stack with profiler setup on start.
type App struct {
	core.LayerApp
	demo *LayerDemo
}

// NewApp builds the demo. texturePath, when set, names a PNG shown in the
// panel by renderers that can upload textures.
func NewApp(texturePath string) *App {
	a := &App{demo: &LayerDemo{texturePath: texturePath}}
	a.Layers.Push(a.demo)
	a.Layers.Push(&LayerDebug{})
	return a
}

func (a *App) OnStart(e *core.Engine) {
	profiler.Init(1 << 12) // ~4K scope samples
	a.LayerApp.OnStart(e)
}

// ClickScript hovers the panel's "Click me" button, then presses and
// releases it.
func ClickScript() map[int][]core.Event {
	return map[int][]core.Event{
		0: {core.EventPointerMove{X: 60, Y: 38}},
		2: {core.EventPointerButton{Button: core.ButtonLeft, Down: true}},
		3: {core.EventPointerButton{Button: core.ButtonLeft, Down: false}},
	}
}

// RunHeadless renders frames frames of a into the software backend and
// returns the last one. script is replayed as window events.
func RunHeadless(a core.App, cfg core.Config, frames int, script map[int][]core.Event) (*image.RGBA, error) {
	win := core.NewHeadlessWindow(cfg, frames)
	win.Script = script
	rend := soft.New(cfg.Window.Width, cfg.Window.Height, nil)
	err := core.Run(a, cfg,
		func(core.Config) (core.Window, error) { return win, nil },
		func(core.Window, core.Config) (core.Renderer, error) { return rend, nil })
	if err != nil {
		return nil, err
	}
	return rend.Image(), nil
}
