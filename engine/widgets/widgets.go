package widgets

import (
	"github.com/hubastard/canopy/engine/geom"
)

// Label draws s at the next layout slot.
func (w *UI) Label(s string) {
	r := w.AddRect(w.Style.Font.Measure(s))
	w.Text(s, r, w.Style.Text)
}

// Labelf formats into the frame arena, so per-frame labels cost no heap.
// See scratch.Arena.Sprintf for the verbs understood.
func (w *UI) Labelf(format string, args ...any) {
	w.Label(w.Arena().Sprintf(format, args...))
}

// Button draws a push button and reports a click: pressed while hovered,
// then released while still hovered.
func (w *UI) Button(label string) bool {
	id := w.ID(label)
	shown := display(label)
	pad := w.Style.Padding
	ts := w.Style.Font.Measure(shown)
	r := w.AddRect(geom.V(ts[0]+2*pad[0], ts[1]+2*pad[1]))

	hovered := w.RegisterControl(id, r)
	clicked := w.press(id, hovered)

	w.FillRect(r, w.Style.Radius, w.buttonColor(hovered, w.IsActive(id)))
	w.Text(shown, geom.R(r.X+pad[0], r.Y+pad[1], ts[0], ts[1]), w.Style.Text)
	return clicked
}

// Checkbox toggles *v on click and reports whether it changed.
func (w *UI) Checkbox(label string, v *bool) bool {
	id := w.ID(label)
	shown := display(label)
	ts := w.Style.Font.Measure(shown)
	box := w.Style.Font.LineHeight()
	r := w.AddRect(geom.V(box+w.Style.Spacing+ts[0], max(box, ts[1])))

	hovered := w.RegisterControl(id, r)
	changed := w.press(id, hovered)
	if changed {
		*v = !*v
	}

	br := geom.R(r.X, r.Y, box, box)
	w.FillRect(br, w.Style.Radius, w.buttonColor(hovered, w.IsActive(id)))
	if *v {
		w.FillRect(br.Inset(3, 3, 3, 3), w.Style.Radius/2, w.Style.Check)
	}
	w.Text(shown, geom.R(r.X+box+w.Style.Spacing, r.Y, ts[0], ts[1]), w.Style.Text)
	return changed
}

// Separator draws a one unit line across the current frame.
func (w *UI) Separator() {
	r := w.AddRect(geom.V(w.Available()[0], 1))
	w.FillRect(r, 0, w.Style.Border)
}
