package widgets

import (
	"github.com/hubastard/canopy/engine/draw"
	"github.com/hubastard/canopy/engine/geom"
	"github.com/hubastard/canopy/engine/layout"
	"github.com/hubastard/canopy/engine/store"
)

// Panel opens a floating panel at r drawn at order, paints its background
// and lays fn's widgets out inside the padding.
func (w *UI) Panel(name string, r geom.Rect, order int32, fn func()) {
	w.BeginPanel(name, r, order)
	defer w.EndPanel()

	w.FillRect(r, w.Style.Radius, w.Style.Panel)
	w.StrokeRect(r, 1, w.Style.Border)

	pad := w.Style.Padding
	w.Layout().Push(layout.Vertical, r.Inset(pad[0], pad[1], pad[0], pad[1]), layout.TopLeft)
	w.Layout().SetSpacing(w.Style.Spacing)
	defer w.Layout().Pop()
	fn()
}

// Collapsing draws a header that toggles a section open and reports
// whether the section is open. The flag lives in the store, so it resets
// to closed if the header is skipped for a frame.
func (w *UI) Collapsing(name string) bool {
	id := w.ID(name)
	open := store.GetOrCreate(w.Store(), id, false)

	pad := w.Style.Padding
	marker := "+ "
	if *open {
		marker = "- "
	}
	header := w.Arena().Text().S(marker).S(display(name)).String()
	ts := w.Style.Font.Measure(header)
	r := w.AddRect(geom.V(max(w.Available()[0], ts[0]+2*pad[0]), ts[1]+2*pad[1]))

	hovered := w.RegisterControl(id, r)
	if w.press(id, hovered) {
		*open = !*open
	}

	w.FillRect(r, 0, w.buttonColor(hovered, w.IsActive(id)))
	w.Text(header, geom.R(r.X+pad[0], r.Y+pad[1], ts[0], ts[1]), w.Style.Text)
	return *open
}

type scrollState struct {
	Offset  float32
	Content float32
}

// ScrollArea reserves height units of the current frame, clips fn's widgets
// to it and scrolls them with the wheel while the pointer is inside.
func (w *UI) ScrollArea(name string, height float32, fn func()) {
	id := w.PushID(name)
	defer w.PopID()
	st := store.GetOrCreate(w.Store(), id, scrollState{})

	r := w.AddRect(geom.V(w.Available()[0], height))
	w.RegisterGroup(id, r)
	if w.IsGroupHovered(id) {
		st.Offset -= w.Input().Scroll[1] * w.Style.ScrollSpeed
	}
	st.Offset = min(max(st.Offset, 0), max(st.Content-height, 0))

	bar := w.Style.ScrollbarWidth
	w.Draw().Push(draw.Delta{}.WithClip(r))
	w.Layout().Push(layout.Vertical, geom.R(r.X, r.Y-st.Offset, r.W-bar, max(height, st.Content)), layout.TopLeft)
	w.Layout().SetSpacing(w.Style.Spacing)
	w.Layout().MarkRoot()
	fn()
	st.Content = w.Layout().Pop().Size[1]

	if st.Content > height {
		track := geom.R(r.X+r.W-bar, r.Y, bar, height)
		thumbH := max(height*height/st.Content, bar)
		thumbY := track.Y + (height-thumbH)*st.Offset/(st.Content-height)
		w.FillRect(track, bar/2, w.Style.Button)
		w.FillRect(geom.R(track.X, thumbY, bar, thumbH), bar/2, w.Style.ButtonActive)
	}
	w.Draw().Pop()
}
