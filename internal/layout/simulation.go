package layout

import (
	"context"
	"log/slog"
	"slices"

	"github.com/abhisek/synapse/internal/wordgraph"
)

// Force names registered by New.
const (
	ForceLink    = "link"
	ForceCharge  = "charge"
	ForceCenter  = "center"
	ForceCollide = "collide"
)

// Scheduler asks the host to call Simulation.Advance(gen) once, at its
// next animation opportunity. The host must not call Advance concurrently
// with any other Simulation method.
type Scheduler interface {
	Schedule(gen uint64)
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(gen uint64)

func (f SchedulerFunc) Schedule(gen uint64) { f(gen) }

// TickEvent is delivered to observers after every tick.
type TickEvent struct {
	Seq       uint64
	Alpha     float64
	Settled   bool
	Positions []wordgraph.Point // copy, indexed like the node arena
}

// TickObserver receives tick notifications.
type TickObserver interface {
	OnTick(TickEvent)
}

// TickObserverFunc adapts a function to TickObserver.
type TickObserverFunc func(TickEvent)

func (f TickObserverFunc) OnTick(ev TickEvent) { f(ev) }

type namedForce struct {
	name  string
	force Force
}

// Simulation integrates node positions of a wordgraph.Model. It is driven
// cooperatively: at most one tick is ever scheduled, and ticks run on the
// host's event loop.
type Simulation struct {
	cfg    Config
	model  *wordgraph.Model
	sched  Scheduler
	logger *slog.Logger

	forces []namedForce
	links  []Link
	center wordgraph.Point
	noise  *noiseField
	bound  uint64 // model generation the forces are initialized for

	alpha       float64
	alphaTarget float64
	running     bool
	closed      bool
	gen         uint64
	seq         uint64

	observers map[int]TickObserver
	nextObs   int
}

// Option customizes a Simulation.
type Option func(*Simulation)

// WithLogger sets the logger; slog.Default is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// WithCenter sets the initial centering target.
func WithCenter(p wordgraph.Point) Option {
	return func(s *Simulation) { s.center = p }
}

// New returns a simulation over model with the default link, charge,
// center and collide forces. A nil scheduler is allowed for headless use
// with Tick and Run.
func New(model *wordgraph.Model, cfg Config, sched Scheduler, opts ...Option) *Simulation {
	s := &Simulation{
		cfg:       cfg,
		model:     model,
		sched:     sched,
		logger:    slog.Default(),
		noise:     newNoiseField(cfg.Seed),
		observers: make(map[int]TickObserver),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.forces = []namedForce{
		{ForceLink, NewLinkForce(cfg)},
		{ForceCharge, NewChargeForce(cfg)},
		{ForceCenter, NewCenterForce(cfg, s.center)},
		{ForceCollide, NewCollideForce(cfg)},
	}
	s.Reset()
	return s
}

// Config returns the parameters the simulation was built with.
func (s *Simulation) Config() Config { return s.cfg }

// SetForce registers or replaces a named force. Passing nil removes it.
func (s *Simulation) SetForce(name string, f Force) {
	if f == nil {
		s.RemoveForce(name)
		return
	}
	f.Initialize(s.model.Nodes(), s.links)
	for i := range s.forces {
		if s.forces[i].name == name {
			s.forces[i].force = f
			return
		}
	}
	s.forces = append(s.forces, namedForce{name, f})
}

// Force returns the named force or nil.
func (s *Simulation) Force(name string) Force {
	for _, nf := range s.forces {
		if nf.name == name {
			return nf.force
		}
	}
	return nil
}

// RemoveForce deletes the named force if present.
func (s *Simulation) RemoveForce(name string) {
	s.forces = slices.DeleteFunc(s.forces, func(nf namedForce) bool { return nf.name == name })
}

// Reset binds the simulation to the model's current graph: edges are
// resolved to indices, unplaced nodes receive initial positions, forces
// are re-initialized and alpha is reheated. An empty graph is settled.
func (s *Simulation) Reset() {
	nodes := s.model.Nodes()
	edges := s.model.Edges()

	s.links = s.links[:0]
	for _, e := range edges {
		src, dst, ok := s.model.Endpoints(e)
		if !ok {
			continue
		}
		s.links = append(s.links, Link{Source: src, Target: dst})
	}
	place(nodes, s.center, s.cfg.InitialRadius, s.noise)
	for _, nf := range s.forces {
		nf.force.Initialize(nodes, s.links)
	}
	s.bound = s.model.Generation()
	s.seq = 0

	if len(nodes) == 0 {
		s.alpha = 0
		s.Stop()
		s.logger.Debug("layout bound to empty graph")
		return
	}
	s.alpha = s.cfg.Alpha
	s.logger.Debug("layout bound", "nodes", len(nodes), "links", len(s.links))
}

// Start resumes ticking. It is idempotent: while running, further calls
// schedule nothing.
func (s *Simulation) Start() {
	if s.closed || s.running {
		return
	}
	if s.model.Len() == 0 {
		s.alpha = 0
		return
	}
	s.running = true
	s.gen++
	if s.sched != nil {
		s.sched.Schedule(s.gen)
	}
	s.logger.Debug("layout started", "alpha", s.alpha, "gen", s.gen)
}

// Stop halts ticking and invalidates any scheduled tick. Idempotent.
func (s *Simulation) Stop() {
	if !s.running {
		return
	}
	s.halt()
	s.logger.Debug("layout stopped", "alpha", s.alpha, "ticks", s.seq)
}

// halt marks the simulation idle and invalidates the scheduled tick.
func (s *Simulation) halt() {
	s.running = false
	s.gen++
}

// Reheat raises alpha back to its initial value and starts ticking.
func (s *Simulation) Reheat() {
	if s.closed || s.model.Len() == 0 {
		return
	}
	s.alpha = s.cfg.Alpha
	s.Start()
}

// Advance runs the tick scheduled under gen. Stale generations, stopped
// and closed simulations are ignored. It reports whether a tick ran.
func (s *Simulation) Advance(gen uint64) bool {
	if s.closed || !s.running || gen != s.gen {
		return false
	}
	if settled := s.Tick(); settled {
		s.halt()
		s.logger.Debug("layout settled", "ticks", s.seq)
		return true
	}
	if s.sched != nil {
		s.sched.Schedule(s.gen)
	}
	return true
}

// Tick advances the simulation by one step and notifies observers. It
// reports whether the layout is settled afterwards.
func (s *Simulation) Tick() bool {
	if s.closed {
		return true
	}
	if s.model.Generation() != s.bound {
		s.Reset()
	}
	nodes := s.model.Nodes()
	if len(nodes) == 0 {
		s.alpha = 0
		s.notify(nodes, true)
		return true
	}

	s.alpha += (s.alphaTarget - s.alpha) * s.cfg.AlphaDecay

	for _, nf := range s.forces {
		nf.force.Apply(nodes, s.alpha)
	}
	damp := 1 - s.cfg.VelocityDecay
	for i := range nodes {
		n := &nodes[i]
		if n.Pin != nil {
			n.X, n.Y = n.Pin.X, n.Pin.Y
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= damp
		n.VY *= damp
		n.X += n.VX
		n.Y += n.VY
	}
	for _, nf := range s.forces {
		if c, ok := nf.force.(Constraint); ok {
			c.Constrain(nodes)
		}
	}

	s.seq++
	settled := s.Settled()
	s.notify(nodes, settled)
	return settled
}

// Run ticks synchronously until the layout settles, ctx is done or
// maxTicks ticks have run (maxTicks <= 0 means no cap). It returns the
// number of ticks performed.
func (s *Simulation) Run(ctx context.Context, maxTicks int) (int, error) {
	ticks := 0
	for !s.closed && s.model.Len() > 0 && !s.Settled() {
		if maxTicks > 0 && ticks >= maxTicks {
			break
		}
		if err := ctx.Err(); err != nil {
			return ticks, err
		}
		s.Tick()
		ticks++
	}
	if s.model.Len() == 0 {
		s.alpha = 0
	}
	return ticks, nil
}

func (s *Simulation) notify(nodes []wordgraph.Node, settled bool) {
	if len(s.observers) == 0 {
		return
	}
	ev := TickEvent{Seq: s.seq, Alpha: s.alpha, Settled: settled, Positions: make([]wordgraph.Point, len(nodes))}
	for i := range nodes {
		ev.Positions[i] = nodes[i].Pos()
	}
	for _, o := range s.observers {
		o.OnTick(ev)
	}
}

// Subscribe registers an observer and returns its unsubscribe function.
func (s *Simulation) Subscribe(o TickObserver) (unsubscribe func()) {
	if s.closed {
		return func() {}
	}
	id := s.nextObs
	s.nextObs++
	s.observers[id] = o
	return func() { delete(s.observers, id) }
}

// Settled reports whether alpha has decayed below AlphaMin.
func (s *Simulation) Settled() bool { return s.alpha < s.cfg.AlphaMin }

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 { return s.alpha }

// SetAlpha sets the temperature, clamped to [0, 1].
func (s *Simulation) SetAlpha(a float64) { s.alpha = min(max(a, 0), 1) }

// AlphaTarget returns the temperature alpha decays toward.
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// SetAlphaTarget sets the temperature alpha decays toward, clamped to [0, 1].
func (s *Simulation) SetAlphaTarget(t float64) { s.alphaTarget = min(max(t, 0), 1) }

// Running reports whether a tick is scheduled.
func (s *Simulation) Running() bool { return s.running }

// Generation identifies the currently valid scheduled tick.
func (s *Simulation) Generation() uint64 { return s.gen }

// Ticks returns the number of ticks since the last Reset.
func (s *Simulation) Ticks() uint64 { return s.seq }

// Center returns the centering target.
func (s *Simulation) Center() wordgraph.Point { return s.center }

// SetCenter retargets the centering force.
func (s *Simulation) SetCenter(p wordgraph.Point) {
	s.center = p
	if c, ok := s.Force(ForceCenter).(*CenterForce); ok {
		c.SetTarget(p)
	}
}

// Close stops the simulation for good and drops all observers. Every
// later call is a no-op.
func (s *Simulation) Close() {
	if s.closed {
		return
	}
	s.Stop()
	s.closed = true
	s.observers = nil
	s.logger.Debug("layout closed")
}

// Closed reports whether Close has been called.
func (s *Simulation) Closed() bool { return s.closed }
