package core

import (
	"log/slog"
	"time"

	"github.com/hubastard/canopy/engine/colors"
	"github.com/hubastard/canopy/engine/ui"
)

// App defines the application hooks.
type App interface {
	OnStart(e *Engine)                 // called once after window/renderer init
	OnUpdate(e *Engine, dt float64)    // called at a fixed tick (60Hz by default)
	OnRender(e *Engine, alpha float64) // build the UI frame; alpha is the interpolation factor [0..1]
	OnEvent(e *Engine, ev Event)       // events the UI did not capture
	OnShutdown(e *Engine)              // before exit
}

// Engine exposes core services to the App.
type Engine struct {
	Window   Window
	Renderer Renderer
	UI       *ui.Context
	Input    *Input
	Log      *slog.Logger
	Config   Config

	start time.Time
	quit  bool
}

func (e *Engine) Uptime() time.Duration { return time.Since(e.start) }

// Quit ends the main loop after the current frame.
func (e *Engine) Quit() { e.quit = true }

// Window abstraction.
type Window interface {
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	FramebufferSize() (int, int)
	// ContentScale is the monitor's UI scale, 1 on standard density.
	ContentScale() float32
	SetTitle(title string)
	SetEventCallback(cb func(Event))
	Destroy()
}

// Renderer draws finished UI frames into the window's framebuffer.
type Renderer interface {
	ui.Renderer
	// Resize sets the framebuffer size in pixels and how many pixels one UI
	// unit covers.
	Resize(w, h int, scale float32)
	Clear(c colors.Color)
	Shutdown()
}

// Event model.
type Event interface{ isEvent() }

type EventCloseRequested struct{}

func (EventCloseRequested) isEvent() {}

// EventResize carries the new framebuffer size in pixels.
type EventResize struct{ W, H int }

func (EventResize) isEvent() {}

type EventKey struct {
	Key  Key
	Down bool
	Mods Mod
}

func (EventKey) isEvent() {}

// EventPointerMove is in framebuffer pixels.
type EventPointerMove struct{ X, Y float32 }

func (EventPointerMove) isEvent() {}

type EventPointerButton struct {
	Button Button
	Down   bool
	Mods   Mod
}

func (EventPointerButton) isEvent() {}

// EventScroll is in wheel notches; positive Y scrolls up.
type EventScroll struct{ X, Y float32 }

func (EventScroll) isEvent() {}

// Key/mod enums (subset; add as needed).
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyEnter
	KeyTab
	KeyF1
	KeyF3
	KeyW
	KeyA
	KeyS
	KeyD
)

type Mod int

const (
	ModNone  Mod = 0
	ModShift Mod = 1 << 0
	ModCtrl  Mod = 1 << 1
	ModAlt   Mod = 1 << 2
	ModSuper Mod = 1 << 3
)

type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)
