package ui

import (
	"errors"
	"fmt"
)

// ErrFrameNotEnded is returned by BeginFrame when the previous frame was
// never closed. The previous frame is ended first.
var ErrFrameNotEnded = errors.New("ui: BeginFrame called before EndFrame")

// ImbalanceError reports a stack that was not back at its base depth when
// the frame ended. The stack has already been cleared.
type ImbalanceError struct {
	Stack string // "identity", "layout", "draw" or "panel"
	Depth int
	Frame uint64
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("ui: %s stack left %d deep at end of frame %d", e.Stack, e.Depth, e.Frame)
}
