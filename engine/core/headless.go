package core

// HeadlessWindow is a Window without a display. It closes after Frames
// swaps and replays Script[n] from PollEvents on frame n, which drives
// offscreen renders and tests.
type HeadlessWindow struct {
	Width, Height int
	Scale         float32
	Frames        int
	Script        map[int][]Event

	frame int
	title string
	cb    func(Event)
}

func NewHeadlessWindow(cfg Config, frames int) *HeadlessWindow {
	return &HeadlessWindow{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Scale:  1,
		Frames: frames,
		title:  cfg.Window.Title,
	}
}

func (h *HeadlessWindow) PollEvents() {
	if h.cb == nil {
		return
	}
	for _, ev := range h.Script[h.frame] {
		if r, ok := ev.(EventResize); ok {
			h.Width, h.Height = r.W, r.H
		}
		h.cb(ev)
	}
}

func (h *HeadlessWindow) SwapBuffers()                    { h.frame++ }
func (h *HeadlessWindow) ShouldClose() bool               { return h.frame >= h.Frames }
func (h *HeadlessWindow) FramebufferSize() (int, int)     { return h.Width, h.Height }
func (h *HeadlessWindow) ContentScale() float32           { return h.Scale }
func (h *HeadlessWindow) SetTitle(t string)               { h.title = t }
func (h *HeadlessWindow) Title() string                   { return h.title }
func (h *HeadlessWindow) SetEventCallback(cb func(Event)) { h.cb = cb }
func (h *HeadlessWindow) Destroy()                        {}

// Frame is the number of frames presented so far.
func (h *HeadlessWindow) Frame() int { return h.frame }
