package layout

import (
	"math"

	"github.com/abhisek/synapse/internal/wordgraph"
)

// Link is an edge resolved to arena indices for the current tick loop.
type Link struct {
	Source, Target int
}

// Force contributes to node velocities once per tick.
type Force interface {
	// Initialize is called whenever the simulation binds a new graph.
	Initialize(nodes []wordgraph.Node, links []Link)
	// Apply adds the force scaled by alpha.
	Apply(nodes []wordgraph.Node, alpha float64)
}

// Constraint is a Force that also corrects positions after integration.
type Constraint interface {
	Force
	Constrain(nodes []wordgraph.Node)
}

// LinkForce pulls the endpoints of each edge toward Distance.
type LinkForce struct {
	Distance   float64
	Strength   float64 // 0 selects 1/min(degree) per edge
	Iterations int
	floor      float64
	noise      *noiseField

	links    []Link
	strength []float64
	bias     []float64
}

// NewLinkForce returns a spring force with the configured distance.
func NewLinkForce(cfg Config) *LinkForce {
	return &LinkForce{
		Distance:   cfg.LinkDistance,
		Strength:   cfg.LinkStrength,
		Iterations: cfg.LinkIterations,
		floor:      cfg.MinDistance,
		noise:      newNoiseField(cfg.Seed),
	}
}

func (f *LinkForce) Initialize(nodes []wordgraph.Node, links []Link) {
	f.links = links
	count := make([]int, len(nodes))
	for _, l := range links {
		count[l.Source]++
		count[l.Target]++
	}
	f.strength = make([]float64, len(links))
	f.bias = make([]float64, len(links))
	for i, l := range links {
		cs, ct := count[l.Source], count[l.Target]
		f.bias[i] = float64(cs) / float64(cs+ct)
		if f.Strength > 0 {
			f.strength[i] = f.Strength
		} else {
			f.strength[i] = 1 / float64(min(cs, ct))
		}
	}
}

func (f *LinkForce) Apply(nodes []wordgraph.Node, alpha float64) {
	iterations := max(f.Iterations, 1)
	for k := 0; k < iterations; k++ {
		for i, l := range f.links {
			if l.Source == l.Target {
				continue
			}
			s, t := &nodes[l.Source], &nodes[l.Target]
			x := t.X + t.VX - s.X - s.VX
			y := t.Y + t.VY - s.Y - s.VY
			d := math.Hypot(x, y)
			if d == 0 {
				x, y = f.noise.direction(l.Source, l.Target)
				x, y, d = x*f.floor, y*f.floor, f.floor
			}
			c := (d - f.Distance) / math.Max(d, f.floor) * alpha * f.strength[i]
			x, y = x*c, y*c
			b := f.bias[i]
			t.VX -= x * b
			t.VY -= y * b
			s.VX += x * (1 - b)
			s.VY += y * (1 - b)
		}
	}
}

// ChargeForce makes every node pair interact with magnitude
// |Strength|·alpha/d². Negative strength repels.
type ChargeForce struct {
	Strength float64
	floor    float64
	noise    *noiseField
}

// NewChargeForce returns the many-body force.
func NewChargeForce(cfg Config) *ChargeForce {
	return &ChargeForce{
		Strength: cfg.ChargeStrength,
		floor:    cfg.MinDistance,
		noise:    newNoiseField(cfg.Seed + 1),
	}
}

func (f *ChargeForce) Initialize([]wordgraph.Node, []Link) {}

func (f *ChargeForce) Apply(nodes []wordgraph.Node, alpha float64) {
	for i := range nodes {
		a := &nodes[i]
		for j := i + 1; j < len(nodes); j++ {
			b := &nodes[j]
			dx, dy := b.X-a.X, b.Y-a.Y
			d := math.Hypot(dx, dy)
			var ux, uy float64
			if d == 0 {
				ux, uy = f.noise.direction(i, j)
			} else {
				ux, uy = dx/d, dy/d
			}
			d = math.Max(d, f.floor)
			w := f.Strength * alpha / (d * d)
			a.VX += ux * w
			a.VY += uy * w
			b.VX -= ux * w
			b.VY -= uy * w
		}
	}
}

// CenterForce translates all nodes so their centroid moves toward Target.
type CenterForce struct {
	Target   wordgraph.Point
	Strength float64
}

// NewCenterForce returns a centering force aimed at target.
func NewCenterForce(cfg Config, target wordgraph.Point) *CenterForce {
	return &CenterForce{Target: target, Strength: cfg.CenterStrength}
}

// SetTarget moves the centering target, typically after a resize.
func (f *CenterForce) SetTarget(p wordgraph.Point) { f.Target = p }

func (f *CenterForce) Initialize([]wordgraph.Node, []Link) {}

func (f *CenterForce) Apply(nodes []wordgraph.Node, _ float64) {
	if len(nodes) == 0 {
		return
	}
	var sx, sy float64
	for i := range nodes {
		sx += nodes[i].X
		sy += nodes[i].Y
	}
	n := float64(len(nodes))
	sx = (sx/n - f.Target.X) * f.Strength
	sy = (sy/n - f.Target.Y) * f.Strength
	for i := range nodes {
		nodes[i].X -= sx
		nodes[i].Y -= sy
	}
}

// CollideForce keeps node centers at least 2·(Radius+Padding) apart by
// relaxing overlapping pairs after integration. Pinned nodes never move;
// the free node of a mixed pair takes the whole correction.
type CollideForce struct {
	Radius     float64
	Padding    float64
	Iterations int
	Strength   float64
	floor      float64
	noise      *noiseField
}

// NewCollideForce returns the collision constraint.
func NewCollideForce(cfg Config) *CollideForce {
	return &CollideForce{
		Radius:     cfg.NodeRadius,
		Padding:    cfg.CollidePadding,
		Iterations: cfg.CollideIterations,
		Strength:   cfg.CollideStrength,
		floor:      cfg.MinDistance,
		noise:      newNoiseField(cfg.Seed + 2),
	}
}

func (f *CollideForce) Initialize([]wordgraph.Node, []Link) {}

// Apply is a no-op: collisions are resolved in Constrain.
func (f *CollideForce) Apply([]wordgraph.Node, float64) {}

func (f *CollideForce) Constrain(nodes []wordgraph.Node) {
	minDist := 2 * (f.Radius + f.Padding)
	for k := 0; k < max(f.Iterations, 1); k++ {
		moved := false
		for i := range nodes {
			a := &nodes[i]
			for j := i + 1; j < len(nodes); j++ {
				b := &nodes[j]
				if a.Pinned() && b.Pinned() {
					continue
				}
				dx, dy := b.X-a.X, b.Y-a.Y
				d := math.Hypot(dx, dy)
				if d >= minDist {
					continue
				}
				var ux, uy float64
				if d < f.floor {
					ux, uy = f.noise.direction(i, j)
				} else {
					ux, uy = dx/d, dy/d
				}
				overlap := (minDist - d) * f.Strength
				wa, wb := 0.5, 0.5
				switch {
				case a.Pinned():
					wa, wb = 0, 1
				case b.Pinned():
					wa, wb = 1, 0
				}
				a.X -= ux * overlap * wa
				a.Y -= uy * overlap * wa
				b.X += ux * overlap * wb
				b.Y += uy * overlap * wb
				moved = true
			}
		}
		if !moved {
			return
		}
	}
}
