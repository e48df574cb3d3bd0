// Package mindmap assembles one interactive word graph: the model, its
// layout simulation, the pointer controller and the viewport.
package mindmap

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/abhisek/synapse/internal/interact"
	"github.com/abhisek/synapse/internal/layout"
	"github.com/abhisek/synapse/internal/metrics"
	"github.com/abhisek/synapse/internal/render"
	"github.com/abhisek/synapse/internal/snapshot"
	"github.com/abhisek/synapse/internal/viewport"
	"github.com/abhisek/synapse/internal/wordgraph"
)

// resizeAlpha is the temperature a resize reheats the layout to.
const resizeAlpha = 0.3

// Options configures a MindMap. Zero fields take defaults.
type Options struct {
	Layout *layout.Config
	Style  *render.Style

	// Scheduler receives tick requests. Nil means the host drives the
	// layout through Run.
	Scheduler layout.Scheduler

	HitRadius      float64
	ClickThreshold float64

	OnNodeSelected func(wordgraph.Node)
	// OnRedraw is called after ticks and resizes.
	OnRedraw func()

	Logger  *slog.Logger
	Metrics *metrics.Registry
}

// MindMap is a single visualization instance. It is not safe for
// concurrent use; the host calls it from its event loop.
type MindMap struct {
	id     string
	model  *wordgraph.Model
	sim    *layout.Simulation
	ctrl   *interact.Controller
	view   *viewport.Manager
	style  render.Style
	logger *slog.Logger
	stats  *metrics.Registry

	onSelected func(wordgraph.Node)
	onRedraw   func()

	unsubscribe func()
	closed      bool
}

// New returns an empty mind map sized to the default viewport.
func New(opts Options) *MindMap {
	cfg := layout.DefaultConfig()
	if opts.Layout != nil {
		cfg = *opts.Layout
	}
	style := render.DefaultStyle()
	if opts.Style != nil {
		style = *opts.Style
	}
	if opts.HitRadius <= 0 {
		opts.HitRadius = cfg.NodeRadius
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reg := opts.Metrics
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}

	m := &MindMap{
		id:         uuid.NewString(),
		model:      wordgraph.New(),
		style:      style,
		stats:      reg,
		onSelected: opts.OnNodeSelected,
		onRedraw:   opts.OnRedraw,
	}
	m.logger = logger.With("instance", m.id)

	m.sim = layout.New(m.model, cfg, opts.Scheduler, layout.WithLogger(m.logger))
	m.ctrl = interact.New(m.model, m.sim, interact.Options{
		HitRadius:       opts.HitRadius,
		Threshold:       opts.ClickThreshold,
		DragAlphaTarget: cfg.DragAlphaTarget,
		OnNodeSelected:  m.selected,
		OnDragEnd:       func(wordgraph.Node) { m.stats.DragsTotal.Inc() },
		Logger:          m.logger,
	})
	m.view = viewport.New(m.sim, m.redraw, m.logger)
	m.unsubscribe = m.sim.Subscribe(layout.TickObserverFunc(m.onTick))
	return m
}

// ID identifies the instance in logs and metrics.
func (m *MindMap) ID() string { return m.id }

func (m *MindMap) Model() *wordgraph.Model { return m.model }

func (m *MindMap) Simulation() *layout.Simulation { return m.sim }

func (m *MindMap) Controller() *interact.Controller { return m.ctrl }

func (m *MindMap) Viewport() *viewport.Manager { return m.view }

// Load replaces the graph with snap and restarts the layout. Nodes that
// survive a reload keep their current position unless snap places them.
// On error the previous graph stays in place.
func (m *MindMap) Load(snap *snapshot.Snapshot) error {
	if m.closed {
		return nil
	}
	nodes, edges := snap.Graph()
	prev := make(map[string]wordgraph.Point, m.model.Len())
	for _, n := range m.model.Nodes() {
		prev[n.ID] = n.Pos()
	}
	for i := range nodes {
		if nodes[i].Position != nil {
			continue
		}
		if p, ok := prev[nodes[i].ID]; ok {
			nodes[i].Position = &p
		}
	}

	if err := m.model.Load(nodes, edges); err != nil {
		m.stats.RecordLoad(err, 0, 0, 0)
		m.logger.Warn("snapshot rejected", "err", err)
		return err
	}
	st := m.model.Stats()
	m.stats.RecordLoad(nil, st.Solid, st.Ghost, st.Edges)
	m.logger.Info("graph loaded", "nodes", st.Total, "edges", st.Edges)

	m.ctrl.Reset()
	m.sim.SetAlphaTarget(0)
	m.sim.Reset()
	m.sim.Start()
	m.redraw()
	return nil
}

// PointerDown forwards a press in graph coordinates.
func (m *MindMap) PointerDown(p wordgraph.Point) bool {
	if m.closed {
		return false
	}
	return m.ctrl.PointerDown(p)
}

// PointerMove forwards pointer motion in graph coordinates.
func (m *MindMap) PointerMove(p wordgraph.Point) {
	if m.closed {
		return
	}
	m.ctrl.PointerMove(p)
}

// PointerUp forwards a release in graph coordinates.
func (m *MindMap) PointerUp(p wordgraph.Point) {
	if m.closed {
		return
	}
	m.ctrl.PointerUp(p)
}

// Resize applies a new surface size and lets the layout drift to the new
// centre.
func (m *MindMap) Resize(width, height float64) {
	if m.closed || !m.view.Resize(width, height) {
		return
	}
	if m.model.Len() == 0 {
		return
	}
	m.sim.SetAlpha(max(m.sim.Alpha(), resizeAlpha))
	m.sim.Start()
}

// Advance runs the tick scheduled under gen.
func (m *MindMap) Advance(gen uint64) bool {
	if m.closed {
		return false
	}
	return m.sim.Advance(gen)
}

// Positions copies the current node positions, indexed like the model.
func (m *MindMap) Positions() []wordgraph.Point {
	nodes := m.model.Nodes()
	out := make([]wordgraph.Point, len(nodes))
	for i := range nodes {
		out[i] = nodes[i].Pos()
	}
	return out
}

// Frame draws the current state.
func (m *MindMap) Frame() render.Frame {
	w, h := m.view.Size()
	return render.Draw(m.model, m.Positions(), m.style, w, h)
}

// Style returns the drawing style.
func (m *MindMap) Style() render.Style { return m.style }

// Close stops the layout and detaches everything. Idempotent.
func (m *MindMap) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.ctrl.Close()
	m.unsubscribe()
	m.sim.Close()
	m.view.Close()
	m.stats.Forget(m.id)
	m.logger.Debug("mind map closed")
}

// Closed reports whether Close has been called.
func (m *MindMap) Closed() bool { return m.closed }

func (m *MindMap) selected(n wordgraph.Node) {
	m.stats.SelectionsTotal.Inc()
	if m.onSelected != nil {
		m.onSelected(n)
	}
}

func (m *MindMap) onTick(ev layout.TickEvent) {
	m.stats.RecordTick(m.id, ev.Alpha)
	if ev.Settled && ev.Seq > 0 {
		m.stats.SettleTicks.Observe(float64(ev.Seq))
		m.logger.Debug("layout settled", "ticks", ev.Seq)
	}
	m.redraw()
}

func (m *MindMap) redraw() {
	if m.onRedraw != nil && !m.closed {
		m.onRedraw()
	}
}
