// Package platform opens native windows with GLFW.
package platform

import (
	"log/slog"
	"runtime"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"

	"github.com/hubastard/canopy/engine/core"
)

// GLFWWindow implements core.Window and pushes events to the app via a handler.
// Pointer positions are reported in framebuffer pixels.
type GLFWWindow struct {
	w    *glfw.Window
	log  *slog.Logger
	onEv func(core.Event)
}

// Open is NewGLFWWindow with the signature core.Run expects.
func Open(cfg core.Config) (core.Window, error) {
	w, err := NewGLFWWindow(cfg)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Must be called on main thread before any GL calls.
func NewGLFWWindow(cfg core.Config) (*GLFWWindow, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "glfw init")
	}

	// GL 3.3 core profile (Mac requires forward-compatible flag).
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	wc := cfg.Window
	win, err := glfw.CreateWindow(wc.Width, wc.Height, wc.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "create window")
	}
	win.MakeContextCurrent()
	if wc.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, errors.Wrap(err, "gl init")
	}

	gw := &GLFWWindow{w: win, log: cfg.Log.Logger(nil).With("platform", "glfw")}
	sx, sy := win.GetContentScale()
	gw.log.Debug("window open", "width", wc.Width, "height", wc.Height, "scale_x", sx, "scale_y", sy)

	// Callbacks -> translate to core.Event
	win.SetCloseCallback(func(*glfw.Window) { gw.emit(core.EventCloseRequested{}) })
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		gw.emit(core.EventResize{W: w, H: h})
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		px, py := gw.toFramebuffer(x, y)
		gw.emit(core.EventPointerMove{X: px, Y: py})
	})
	win.SetMouseButtonCallback(func(_ *glfw.Window, b glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		btn, ok := translateButton(b)
		if !ok {
			return
		}
		gw.emit(core.EventPointerButton{Button: btn, Down: action != glfw.Release, Mods: translateMods(mods)})
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		k := translateKey(key)
		if k == core.KeyUnknown {
			return
		}
		gw.emit(core.EventKey{Key: k, Down: action != glfw.Release, Mods: translateMods(mods)})
	})
	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		gw.emit(core.EventScroll{X: float32(xoff), Y: float32(yoff)})
	})

	return gw, nil
}

func (g *GLFWWindow) emit(ev core.Event) {
	if g.onEv != nil {
		g.onEv(ev)
	}
}

// toFramebuffer converts screen coordinates to framebuffer pixels. They
// differ on high-density displays.
func (g *GLFWWindow) toFramebuffer(x, y float64) (float32, float32) {
	ww, wh := g.w.GetSize()
	fw, fh := g.w.GetFramebufferSize()
	if ww <= 0 || wh <= 0 {
		return float32(x), float32(y)
	}
	return float32(x * float64(fw) / float64(ww)), float32(y * float64(fh) / float64(wh))
}

// core.Window impl
func (g *GLFWWindow) PollEvents()                          { glfw.PollEvents() }
func (g *GLFWWindow) SwapBuffers()                         { g.w.SwapBuffers() }
func (g *GLFWWindow) ShouldClose() bool                    { return g.w.ShouldClose() }
func (g *GLFWWindow) FramebufferSize() (int, int)          { return g.w.GetFramebufferSize() }
func (g *GLFWWindow) SetTitle(t string)                    { g.w.SetTitle(t) }
func (g *GLFWWindow) SetEventCallback(cb func(core.Event)) { g.onEv = cb }

// ContentScale is the larger of the monitor's horizontal and vertical scale.
func (g *GLFWWindow) ContentScale() float32 {
	sx, sy := g.w.GetContentScale()
	return max(sx, sy)
}

// Destroy closes the window and shuts GLFW down.
func (g *GLFWWindow) Destroy() {
	g.w.Destroy()
	glfw.Terminate()
}

func translateButton(b glfw.MouseButton) (core.Button, bool) {
	switch b {
	case glfw.MouseButtonLeft:
		return core.ButtonLeft, true
	case glfw.MouseButtonRight:
		return core.ButtonRight, true
	case glfw.MouseButtonMiddle:
		return core.ButtonMiddle, true
	}
	return 0, false
}

func translateKey(k glfw.Key) core.Key {
	switch k {
	case glfw.KeyEscape:
		return core.KeyEscape
	case glfw.KeySpace:
		return core.KeySpace
	case glfw.KeyEnter:
		return core.KeyEnter
	case glfw.KeyTab:
		return core.KeyTab
	case glfw.KeyF1:
		return core.KeyF1
	case glfw.KeyF3:
		return core.KeyF3
	case glfw.KeyW:
		return core.KeyW
	case glfw.KeyA:
		return core.KeyA
	case glfw.KeyS:
		return core.KeyS
	case glfw.KeyD:
		return core.KeyD
	default:
		return core.KeyUnknown
	}
}

func translateMods(m glfw.ModifierKey) core.Mod {
	var out core.Mod
	if m&glfw.ModShift != 0 {
		out |= core.ModShift
	}
	if m&glfw.ModControl != 0 {
		out |= core.ModCtrl
	}
	if m&glfw.ModAlt != 0 {
		out |= core.ModAlt
	}
	if m&glfw.ModSuper != 0 {
		out |= core.ModSuper
	}
	return out
}
