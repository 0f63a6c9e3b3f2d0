// Package ui is the immediate-mode frame controller. It owns the frame
// arena, the persistent store, and the identity, layout and draw-state
// stacks, and resolves hover one frame late from a double-buffered record
// of everything registered during the previous frame.
package ui

import (
	"errors"
	"log/slog"

	"github.com/hubastard/canopy/engine/draw"
	"github.com/hubastard/canopy/engine/geom"
	"github.com/hubastard/canopy/engine/ids"
	"github.com/hubastard/canopy/engine/layout"
	"github.com/hubastard/canopy/engine/profiler"
	"github.com/hubastard/canopy/engine/scratch"
	"github.com/hubastard/canopy/engine/store"
)

// ===== Engine-facing bits =====

// Renderer consumes a finished frame.
type Renderer interface {
	Render(batches []draw.Batch) error
}

// Input is the host's per-frame pointer snapshot.
type Input struct {
	// Pointer is in host pixels; it is divided by Scale.
	Pointer           geom.Vec2
	Scale             float32
	Down              bool
	Pressed, Released bool
	Scroll            geom.Vec2
	// Viewport is the root layout rect, in UI units.
	Viewport geom.Rect
}

type Options struct {
	ArenaCapacity int
	StoreCapacity int
	Logger        *slog.Logger
}

const (
	DefaultArenaCapacity = 256 << 10
	DefaultStoreCapacity = 16 << 10
)

// ===== Immediate-UI context =====

// Context drives one UI surface. All methods must be called from the
// goroutine that runs the frame.
type Context struct {
	log    *slog.Logger
	arena  *scratch.Arena
	store  *store.Store
	layout *layout.Stack
	draw   *draw.Stack

	in      Input
	pointer geom.Vec2

	ids    []idScope
	panels []panelScope

	// cur was built last frame and answers hover queries; next is being
	// built now. built is the last finalised record, for input capture.
	frames    [2]hoverFrame
	cur, next *hoverFrame
	built     *hoverFrame

	active      ids.ID
	activeFlags ActiveFlags

	frame   uint64
	inFrame bool
	mesh    geom.Mesh
}

func New(opts Options) *Context {
	if opts.ArenaCapacity <= 0 {
		opts.ArenaCapacity = DefaultArenaCapacity
	}
	if opts.StoreCapacity <= 0 {
		opts.StoreCapacity = DefaultStoreCapacity
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	arena := scratch.New(opts.ArenaCapacity)
	c := &Context{
		log:    opts.Logger,
		arena:  arena,
		store:  store.New(opts.StoreCapacity),
		layout: layout.NewStack(),
		draw:   draw.NewStack(arena),
		ids:    make([]idScope, 0, 32),
		panels: make([]panelScope, 0, 8),
	}
	c.cur, c.next = &c.frames[0], &c.frames[1]
	return c
}

// BeginFrame starts frame building with the given input. If the previous
// frame is still open it is ended, and the result joins ErrFrameNotEnded
// with whatever that EndFrame reported. The new frame starts either way.
func (c *Context) BeginFrame(in Input) error {
	defer profiler.Start("ui.BeginFrame")()
	var err error
	if c.inFrame {
		c.log.Warn("BeginFrame called twice without EndFrame", "frame", c.frame)
		err = errors.Join(ErrFrameNotEnded, c.EndFrame())
	}
	c.frame++
	if in.Scale <= 0 {
		in.Scale = 1
	}
	c.in = in
	c.pointer = geom.V(in.Pointer[0]/in.Scale, in.Pointer[1]/in.Scale)

	c.arena.Clear()
	c.draw.Reset()
	c.layout.Reset()
	c.ids = append(c.ids[:0], idScope{id: ids.Root})
	c.panels = c.panels[:0]

	c.cur, c.next = c.next, c.cur
	c.next.reset()

	c.layout.Push(layout.Vertical, in.Viewport, layout.TopLeft)
	c.layout.MarkRoot()
	c.inFrame = true
	return err
}

// EndFrame closes the frame. Stacks left unbalanced are reported as
// *ImbalanceError values (joined) and cleared so the next frame starts
// clean. A negative depth means the base frame itself was popped. Store
// entries not touched this frame are then reclaimed.
func (c *Context) EndFrame() error {
	defer profiler.Start("ui.EndFrame")()
	if !c.inFrame {
		panic("ui: EndFrame without BeginFrame")
	}
	var errs []error
	report := func(stack string, depth int) {
		if depth == 0 {
			return
		}
		c.log.Warn("unbalanced stack at end of frame", "stack", stack, "depth", depth, "frame", c.frame)
		errs = append(errs, &ImbalanceError{Stack: stack, Depth: depth, Frame: c.frame})
	}

	report("panel", len(c.panels))
	c.panels = c.panels[:0]
	report("identity", len(c.ids)-1)
	if len(c.ids) > 0 {
		c.ids = c.ids[:1]
	}
	report("layout", c.layout.Depth()-1)
	c.layout.Reset()
	report("draw", c.draw.EndFrame())

	if n := c.store.ReclaimUnused(); n > 0 {
		c.log.Debug("reclaimed widget state", "entries", n, "frame", c.frame)
	}

	c.built = c.next
	c.inFrame = false
	return errors.Join(errs...)
}

// Frame counts BeginFrame calls.
func (c *Context) Frame() uint64 { return c.frame }

// ===== Accessors for widgets and backends =====

func (c *Context) Arena() *scratch.Arena { return c.arena }
func (c *Context) Store() *store.Store   { return c.store }
func (c *Context) Layout() *layout.Stack { return c.layout }
func (c *Context) Draw() *draw.Stack     { return c.draw }
func (c *Context) Logger() *slog.Logger  { return c.log }
func (c *Context) Input() Input          { return c.in }
func (c *Context) Pointer() geom.Vec2    { return c.pointer }
func (c *Context) Batches() []draw.Batch { return c.draw.Batcher().Batches() }
func (c *Context) DrawStats() draw.Stats { return c.draw.Batcher().Stats() }

// Render hands the finished frame to r.
func (c *Context) Render(r Renderer) error {
	defer profiler.Start("ui.Render")()
	return r.Render(c.Batches())
}
