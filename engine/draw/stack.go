package draw

import (
	"github.com/hubastard/canopy/engine/geom"
	"github.com/hubastard/canopy/engine/scratch"
)

// Stack is the draw-state stack of one UI context. Its bottom record is
// Root() and can never be popped.
type Stack struct {
	records []Settings
	batcher *Batcher
}

// NewStack creates a stack whose batch geometry is allocated from a.
func NewStack(a *scratch.Arena) *Stack {
	s := &Stack{records: make([]Settings, 1, 32)}
	s.records[0] = Root()
	s.batcher = newBatcher(a, s)
	return s
}

// Push copies the top record, applies d and pushes the result.
func (s *Stack) Push(d Delta) {
	s.records = append(s.records, d.Apply(s.Active()))
}

// Pop removes the top record. Popping the root is a programmer error.
func (s *Stack) Pop() {
	if len(s.records) <= 1 {
		panic("draw: Pop without a matching Push")
	}
	s.records = s.records[:len(s.records)-1]
}

// Active returns the settings in effect.
func (s *Stack) Active() Settings {
	return s.records[len(s.records)-1]
}

// Depth counts pushed records, not including the root.
func (s *Stack) Depth() int { return len(s.records) - 1 }

// Cull returns the active cull rect. See Settings.Cull.
func (s *Stack) Cull() (geom.Rect, bool) {
	return s.Active().Cull()
}

func (s *Stack) Batcher() *Batcher { return s.batcher }

// EndFrame drops records left pushed and returns how many there were.
func (s *Stack) EndFrame() int {
	n := s.Depth()
	s.records = s.records[:1]
	return n
}

// Reset starts a new frame: root record only and no batches. The arena
// backing the previous batches must have been cleared first.
func (s *Stack) Reset() {
	s.records = s.records[:1]
	s.records[0] = Root()
	s.batcher.reset()
}
