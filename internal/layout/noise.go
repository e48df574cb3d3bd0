package layout

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/abhisek/synapse/internal/wordgraph"
)

// initialAngle is the golden angle used by the phyllotaxis placement.
var initialAngle = math.Pi * (3 - math.Sqrt(5))

// noiseField is a seeded, deterministic source of small perturbations.
// Identical seeds yield identical layouts.
type noiseField struct {
	n opensimplex.Noise
}

func newNoiseField(seed int64) *noiseField {
	return &noiseField{n: opensimplex.New(seed)}
}

// direction returns a unit vector for the ordered pair (i, j). It is
// used when two nodes coincide and no geometric direction exists.
func (f *noiseField) direction(i, j int) (float64, float64) {
	v := f.n.Eval2(float64(i)*0.618+0.5, float64(j)*0.414+0.25)
	angle := math.Pi*(v+1) + float64(i+j)*initialAngle
	return math.Cos(angle), math.Sin(angle)
}

// offset returns a jitter vector of at most scale in each axis.
func (f *noiseField) offset(i int, scale float64) (float64, float64) {
	x := f.n.Eval2(float64(i)*0.37+0.11, 0.5)
	y := f.n.Eval2(0.5, float64(i)*0.37+0.11)
	return x * scale, y * scale
}

// place assigns a position to every node that has none: a phyllotaxis
// spiral around center, jittered by the noise field. Inherited positions
// are kept. Velocities of newly placed nodes start at zero.
func place(nodes []wordgraph.Node, center wordgraph.Point, radius float64, f *noiseField) int {
	placed := 0
	for i := range nodes {
		n := &nodes[i]
		if n.Placed {
			continue
		}
		r := radius * math.Sqrt(0.5+float64(i))
		a := float64(i) * initialAngle
		jx, jy := f.offset(i, radius/4)
		n.X = center.X + r*math.Cos(a) + jx
		n.Y = center.Y + r*math.Sin(a) + jy
		n.VX, n.VY = 0, 0
		n.Placed = true
		placed++
	}
	return placed
}
