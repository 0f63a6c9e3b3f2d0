package core

// Layer is one slice of an app: the sandbox stacks a demo layer under a
// debug overlay. Layers render bottom to top and see events top to bottom.
type Layer interface {
	OnAttach(e *Engine)
	OnDetach(e *Engine)
	OnUpdate(e *Engine, dt float64)
	OnRender(e *Engine, alpha float64)
	OnEvent(e *Engine, ev Event) bool // return true if handled; propagation stops
}

type LayerStack struct{ list []Layer }

func (ls *LayerStack) Push(l Layer) { ls.list = append(ls.list, l) }
func (ls *LayerStack) Pop() (Layer, bool) {
	if len(ls.list) == 0 {
		return nil, false
	}
	i := len(ls.list) - 1
	l := ls.list[i]
	ls.list = ls.list[:i]
	return l, true
}

func (ls *LayerStack) Len() int { return len(ls.list) }

func (ls *LayerStack) ForEach(f func(Layer)) {
	for _, l := range ls.list {
		f(l)
	}
}

func (ls *LayerStack) ForEachReverse(f func(Layer) bool) {
	for i := len(ls.list) - 1; i >= 0; i-- {
		if stop := f(ls.list[i]); stop {
			break
		}
	}
}

// LayerApp runs a LayerStack as an App. Layers pushed before Run are
// attached on start and detached, top first, on shutdown.
type LayerApp struct {
	Layers LayerStack
}

func (a *LayerApp) OnStart(e *Engine) {
	a.Layers.ForEach(func(l Layer) { l.OnAttach(e) })
}

func (a *LayerApp) OnUpdate(e *Engine, dt float64) {
	a.Layers.ForEach(func(l Layer) { l.OnUpdate(e, dt) })
}

func (a *LayerApp) OnRender(e *Engine, alpha float64) {
	a.Layers.ForEach(func(l Layer) { l.OnRender(e, alpha) })
}

func (a *LayerApp) OnEvent(e *Engine, ev Event) {
	a.Layers.ForEachReverse(func(l Layer) bool { return l.OnEvent(e, ev) })
}

func (a *LayerApp) OnShutdown(e *Engine) {
	for {
		l, ok := a.Layers.Pop()
		if !ok {
			return
		}
		l.OnDetach(e)
	}
}
