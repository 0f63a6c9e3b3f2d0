package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/canopy/engine/colors"
	"github.com/hubastard/canopy/engine/draw"
	"github.com/hubastard/canopy/engine/geom"
	"github.com/hubastard/canopy/engine/ui"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeFile(t, "canopy.yaml", `
window:
  title: demo
  width: 640
  clear_color: [0.1, 0.2, 0.3, 1]
ui:
  scale: 2
log:
  level: debug
  format: json
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Window.Title)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "unset keys keep defaults")
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, cfg.Window.ClearColor)
	assert.Equal(t, float32(2), cfg.UI.Scale)
	assert.Equal(t, ui.DefaultArenaCapacity, cfg.UI.ArenaCapacity)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfigTOML(t *testing.T) {
	path := writeFile(t, "canopy.toml", `
[window]
title = "demo"
height = 480
vsync = false

[ui]
store_capacity = 4096

[log]
level = "warn"
no_color = true
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 480, cfg.Window.Height)
	assert.False(t, cfg.Window.VSync)
	assert.Equal(t, 4096, cfg.UI.StoreCapacity)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Log.NoColor)
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name, file, body, want string
	}{
		{"format", "canopy.ini", "x=1", "unsupported format"},
		{"yaml", "bad.yaml", "window: [", "parse yaml config"},
		{"toml", "bad.toml", "[window", "parse toml config"},
		{"size", "size.yaml", "window: {width: 0}", "must be positive"},
		{"level", "level.toml", "[log]\nlevel = \"loud\"", "unknown level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, tt.file, tt.body))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestInputFrameClearsEdges(t *testing.T) {
	in := NewInput()
	in.Handle(EventPointerMove{X: 10, Y: 20})
	in.Handle(EventPointerButton{Button: ButtonLeft, Down: true})
	in.Handle(EventPointerButton{Button: ButtonLeft, Down: false})
	in.Handle(EventPointerButton{Button: ButtonRight, Down: true})
	in.Handle(EventScroll{Y: 1})
	in.Handle(EventScroll{Y: 2})
	in.Handle(EventKey{Key: KeySpace, Down: true})

	vp := geom.R(0, 0, 100, 100)
	s := in.Frame(vp, 2)
	assert.Equal(t, geom.V(10, 20), s.Pointer)
	assert.True(t, s.Pressed)
	assert.True(t, s.Released, "a click inside one frame keeps both edges")
	assert.False(t, s.Down)
	assert.Equal(t, geom.V(0, 3), s.Scroll)
	assert.Equal(t, float32(2), s.Scale)
	assert.Equal(t, vp, s.Viewport)
	assert.True(t, in.IsKeyDown(KeySpace))

	s = in.Frame(vp, 2)
	assert.False(t, s.Pressed)
	assert.False(t, s.Released)
	assert.Equal(t, geom.Vec2{}, s.Scroll)
	assert.Equal(t, geom.V(10, 20), s.Pointer)
}

type recordingRenderer struct {
	frames  int
	clears  int
	size    [2]int
	scale   float32
	batches []draw.Batch
	closed  bool
}

func (r *recordingRenderer) Render(b []draw.Batch) error {
	r.frames++
	r.batches = b
	return nil
}
func (r *recordingRenderer) Resize(w, h int, scale float32) { r.size, r.scale = [2]int{w, h}, scale }
func (r *recordingRenderer) Clear(colors.Color)             { r.clears++ }
func (r *recordingRenderer) Shutdown()                      { r.closed = true }

type panelApp struct {
	started, stopped bool
	events           []Event
	hovered          bool
	onFrame          func(e *Engine)
}

func (a *panelApp) OnStart(*Engine)           { a.started = true }
func (a *panelApp) OnUpdate(*Engine, float64) {}
func (a *panelApp) OnShutdown(*Engine)        { a.stopped = true }
func (a *panelApp) OnEvent(_ *Engine, ev Event) {
	a.events = append(a.events, ev)
}
func (a *panelApp) OnRender(e *Engine, _ float64) {
	id := e.UI.BeginPanel("panel", geom.R(0, 0, 50, 50), 1)
	a.hovered = e.UI.IsHovered(id)
	e.UI.FillRect(geom.R(0, 0, 50, 50), 0, colors.Red)
	e.UI.EndPanel()
	if a.onFrame != nil {
		a.onFrame(e)
	}
}

func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.Window.Width, cfg.Window.Height = 200, 100
	cfg.Log.Level = "error"
	return cfg
}

func runHeadless(t *testing.T, app App, win *HeadlessWindow) *recordingRenderer {
	t.Helper()
	rend := &recordingRenderer{}
	err := Run(app, quietConfig(),
		func(Config) (Window, error) { return win, nil },
		func(Window, Config) (Renderer, error) { return rend, nil })
	require.NoError(t, err)
	return rend
}

func TestRunDrivesFrames(t *testing.T) {
	app := &panelApp{}
	win := NewHeadlessWindow(quietConfig(), 3)
	win.Scale = 2
	rend := runHeadless(t, app, win)

	assert.True(t, app.started)
	assert.True(t, app.stopped)
	assert.True(t, rend.closed)
	assert.Equal(t, 3, rend.frames)
	assert.Equal(t, 3, rend.clears)
	assert.Equal(t, [2]int{200, 100}, rend.size)
	assert.Equal(t, float32(2), rend.scale)
	require.Len(t, rend.batches, 1)
	assert.Equal(t, int32(1), rend.batches[0].Settings.Order)
}

func TestRunGatesPointerEventsOnCapture(t *testing.T) {
	app := &panelApp{}
	win := NewHeadlessWindow(quietConfig(), 4)
	win.Script = map[int][]Event{
		// before any frame is built nothing captures
		0: {EventPointerMove{X: 10, Y: 10}},
		// over the panel: consumed by the UI
		2: {EventPointerButton{Button: ButtonLeft, Down: true}},
		// off the panel: reaches the app
		3: {EventPointerMove{X: 150, Y: 80}, EventKey{Key: KeyEscape, Down: true}},
	}
	runHeadless(t, app, win)

	assert.Equal(t, []Event{
		EventPointerMove{X: 10, Y: 10},
		EventPointerMove{X: 150, Y: 80},
		EventKey{Key: KeyEscape, Down: true},
	}, app.events)
}

func TestRunQuit(t *testing.T) {
	app := &panelApp{}
	app.onFrame = func(e *Engine) {
		if e.UI.Frame() == 2 {
			e.Quit()
		}
	}
	win := NewHeadlessWindow(quietConfig(), 100)
	rend := runHeadless(t, app, win)
	assert.Equal(t, 2, rend.frames)
	assert.Equal(t, 2, win.Frame())
}

func TestRunHoverFollowsPointer(t *testing.T) {
	app := &panelApp{}
	var hovered []bool
	app.onFrame = func(*Engine) { hovered = append(hovered, app.hovered) }
	win := NewHeadlessWindow(quietConfig(), 3)
	win.Script = map[int][]Event{0: {EventPointerMove{X: 20, Y: 20}}}
	runHeadless(t, app, win)
	assert.Equal(t, []bool{false, true, true}, hovered)
}

type countingLayer struct {
	name     string
	log      *[]string
	consumes bool
}

func (l *countingLayer) OnAttach(*Engine)          { *l.log = append(*l.log, "attach "+l.name) }
func (l *countingLayer) OnDetach(*Engine)          { *l.log = append(*l.log, "detach "+l.name) }
func (l *countingLayer) OnUpdate(*Engine, float64) {}
func (l *countingLayer) OnRender(*Engine, float64) { *l.log = append(*l.log, "render "+l.name) }
func (l *countingLayer) OnEvent(*Engine, Event) bool {
	*l.log = append(*l.log, "event "+l.name)
	return l.consumes
}

func TestLayerAppOrder(t *testing.T) {
	var log []string
	app := &LayerApp{}
	app.Layers.Push(&countingLayer{name: "base", log: &log})
	app.Layers.Push(&countingLayer{name: "overlay", log: &log, consumes: true})

	e := &Engine{}
	app.OnStart(e)
	app.OnRender(e, 0)
	app.OnEvent(e, EventKey{Key: KeyF3, Down: true})
	app.OnShutdown(e)

	assert.Equal(t, []string{
		"attach base", "attach overlay",
		"render base", "render overlay",
		"event overlay",
		"detach overlay", "detach base",
	}, log)
	assert.Equal(t, 0, app.Layers.Len())
}

func TestUIScale(t *testing.T) {
	cfg := quietConfig()
	win := NewHeadlessWindow(cfg, 1)
	win.Scale = 1.5
	cfg.UI.Scale = 2
	assert.Equal(t, float32(3), uiScale(cfg, win))
	cfg.UI.Scale = 0
	win.Scale = 0
	assert.Equal(t, float32(1), uiScale(cfg, win))
}
