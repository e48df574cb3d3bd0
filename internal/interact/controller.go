// Package interact turns pointer sequences into pin, reheat and
// selection operations on a word graph.
package interact

import (
	"log/slog"

	"github.com/abhisek/synapse/internal/wordgraph"
)

// State is the pointer state of a Controller.
type State int

const (
	// Idle: no pointer gesture is in progress.
	Idle State = iota
	// Pressed: the pointer went down on a node and has not yet moved far
	// enough to count as a drag. Nothing has been mutated.
	Pressed
	// Dragging: the node is pinned to the pointer.
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pressed:
		return "pressed"
	case Dragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Engine is the part of the layout simulation the controller drives.
type Engine interface {
	SetAlphaTarget(float64)
	Start()
}

// Options configures a Controller. Zero fields take defaults.
type Options struct {
	// HitRadius is the pointer pick radius in graph units (default 30).
	HitRadius float64
	// Threshold is the travelled distance separating a click from a drag
	// (default 3).
	Threshold float64
	// DragAlphaTarget keeps the simulation hot while dragging (default 0.3).
	DragAlphaTarget float64

	// OnNodeSelected is invoked once per click, never for drags.
	OnNodeSelected func(wordgraph.Node)
	OnDragStart    func(wordgraph.Node)
	OnDragEnd      func(wordgraph.Node)

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.HitRadius <= 0 {
		o.HitRadius = 30
	}
	if o.Threshold <= 0 {
		o.Threshold = 3
	}
	if o.DragAlphaTarget <= 0 {
		o.DragAlphaTarget = 0.3
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Controller is the Idle → Pressed → Dragging → Idle pointer state machine.
// All coordinates are in graph space.
type Controller struct {
	model  *wordgraph.Model
	engine Engine
	opts   Options

	state     State
	active    string
	last      wordgraph.Point
	travelled float64
	closed    bool
}

// New returns an idle controller.
func New(model *wordgraph.Model, engine Engine, opts Options) *Controller {
	return &Controller{model: model, engine: engine, opts: opts.withDefaults()}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Active returns the id of the pressed or dragged node.
func (c *Controller) Active() (string, bool) {
	return c.active, c.state != Idle
}

// PointerDown starts a gesture when p hits a node. It reports whether
// a node was hit.
func (c *Controller) PointerDown(p wordgraph.Point) bool {
	if c.closed || c.state != Idle {
		return false
	}
	id, ok := c.model.Hit(p, c.opts.HitRadius)
	if !ok {
		return false
	}
	c.state = Pressed
	c.active = id
	c.last = p
	c.travelled = 0
	return true
}

// PointerMove tracks the pointer. Once the travelled distance reaches the
// threshold the pressed node is pinned and dragged; while dragging the
// pin follows the pointer exactly.
func (c *Controller) PointerMove(p wordgraph.Point) {
	if c.closed {
		return
	}
	switch c.state {
	case Pressed:
		c.travelled += p.Dist(c.last)
		c.last = p
		if c.travelled >= c.opts.Threshold {
			c.beginDrag(p)
		}
	case Dragging:
		c.last = p
		if err := c.model.Pin(c.active, p); err != nil {
			c.opts.Logger.Debug("drag target vanished", "node", c.active, "err", err)
			c.abort()
		}
	}
}

// PointerUp ends the gesture: a press that never became a drag is a
// click and selects the node; a drag unpins it and lets the layout cool.
func (c *Controller) PointerUp(p wordgraph.Point) {
	if c.closed {
		return
	}
	switch c.state {
	case Pressed:
		travelled := c.travelled + p.Dist(c.last)
		id := c.active
		c.toIdle()
		if travelled >= c.opts.Threshold {
			return
		}
		n, err := c.model.Node(id)
		if err != nil {
			return
		}
		c.opts.Logger.Debug("node selected", "node", id)
		if c.opts.OnNodeSelected != nil {
			c.opts.OnNodeSelected(n)
		}
	case Dragging:
		id := c.active
		c.engine.SetAlphaTarget(0)
		c.toIdle()
		if err := c.model.Unpin(id); err != nil {
			return
		}
		if c.opts.OnDragEnd != nil {
			if n, err := c.model.Node(id); err == nil {
				c.opts.OnDragEnd(n)
			}
		}
	}
}

func (c *Controller) beginDrag(p wordgraph.Point) {
	if err := c.model.Pin(c.active, p); err != nil {
		c.abort()
		return
	}
	c.state = Dragging
	c.engine.SetAlphaTarget(c.opts.DragAlphaTarget)
	c.engine.Start()
	c.opts.Logger.Debug("drag started", "node", c.active)
	if c.opts.OnDragStart != nil {
		if n, err := c.model.Node(c.active); err == nil {
			c.opts.OnDragStart(n)
		}
	}
}

func (c *Controller) abort() {
	if c.state == Dragging {
		c.engine.SetAlphaTarget(0)
	}
	c.toIdle()
}

func (c *Controller) toIdle() {
	c.state = Idle
	c.active = ""
	c.travelled = 0
}

// Reset abandons any gesture in progress and releases the dragged node
// if it still exists.
func (c *Controller) Reset() {
	if c.state == Dragging && !c.closed {
		c.engine.SetAlphaTarget(0)
		_ = c.model.Unpin(c.active)
	}
	c.toIdle()
}

// Close makes every later event a no-op.
func (c *Controller) Close() {
	c.Reset()
	c.closed = true
}
