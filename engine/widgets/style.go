// Package widgets is a small immediate-mode widget set on top of ui.Context.
package widgets

import (
	"strings"

	"github.com/hubastard/canopy/engine/colors"
	"github.com/hubastard/canopy/engine/geom"
	"github.com/hubastard/canopy/engine/ids"
	"github.com/hubastard/canopy/engine/text"
	"github.com/hubastard/canopy/engine/ui"
)

type Style struct {
	Font    text.Measurer
	Padding geom.Vec2
	Spacing float32
	Radius  float32

	Text         colors.Color
	TextMuted    colors.Color
	Panel        colors.Color
	Border       colors.Color
	Button       colors.Color
	ButtonHover  colors.Color
	ButtonActive colors.Color
	Check        colors.Color

	ScrollbarWidth float32
	ScrollSpeed    float32
}

func DefaultStyle() Style {
	return Style{
		Font:    text.Default(),
		Padding: geom.V(6, 4),
		Spacing: 4,
		Radius:  3,

		Text:         colors.White,
		TextMuted:    colors.Gray,
		Panel:        colors.DarkGray.WithAlpha(0.94),
		Border:       colors.Slate,
		Button:       colors.Slate,
		ButtonHover:  colors.Slate.Scale(1.4),
		ButtonActive: colors.Accent,
		Check:        colors.Accent,

		ScrollbarWidth: 6,
		ScrollSpeed:    20,
	}
}

// UI pairs a context with the style its widgets draw in.
type UI struct {
	*ui.Context
	Style Style
}

func New(ctx *ui.Context, style Style) *UI {
	if style.Font == nil {
		style.Font = text.Default()
	}
	return &UI{Context: ctx, Style: style}
}

// display strips an "##id" suffix: "Save##toolbar" shows as "Save" but
// hashes the whole string.
func display(label string) string {
	if i := strings.Index(label, "##"); i >= 0 {
		return label[:i]
	}
	return label
}

func (w *UI) buttonColor(hovered, active bool) colors.Color {
	switch {
	case active:
		return w.Style.ButtonActive
	case hovered:
		return w.Style.ButtonHover
	}
	return w.Style.Button
}

// press runs the shared press/release logic: a press while hovered makes
// id active, and a release while still hovered is a click.
func (w *UI) press(id ids.ID, hovered bool) (clicked bool) {
	in := w.Input()
	if hovered && in.Pressed {
		w.SetActive(id, ui.ActivePointer)
	}
	if w.IsActive(id) && in.Released {
		clicked = hovered
		w.ClearActive()
	}
	return clicked
}
