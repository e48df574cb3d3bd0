package wordgraph

import "math"

// Status is the display classification of a vocabulary item.
// It is owned by the learning-state service; this package only carries it.
type Status string

const (
	StatusGhost Status = "ghost"
	StatusSolid Status = "solid"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusGhost || s == StatusSolid
}

// Label returns the human-readable name shown in legends.
func (s Status) Label() string {
	switch s {
	case StatusSolid:
		return "Mastered"
	case StatusGhost:
		return "Learning"
	default:
		return "Unknown"
	}
}

// Point is a position or vector in graph space.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Node is a vocabulary item together with its transient layout state.
type Node struct {
	ID       string
	Label    string
	Status   Status
	Category string

	X, Y   float64 // position
	VX, VY float64 // velocity
	Pin    *Point  // fixed position overriding simulated motion

	// Placed is false until the node has an initial position, either
	// inherited from the host or assigned by the layout engine.
	Placed bool
}

// Pos returns the node position as a Point.
func (n *Node) Pos() Point { return Point{n.X, n.Y} }

// Pinned reports whether the node position is externally fixed.
func (n *Node) Pinned() bool { return n.Pin != nil }

// NodeSpec is the load-time description of a node.
type NodeSpec struct {
	ID       string
	Label    string
	Status   Status
	Category string

	// Position is the inherited position, if the host supplies one.
	Position *Point
}

// Edge connects two nodes by id. Endpoints are resolved lazily through
// Model.Endpoints and are never stored as references.
type Edge struct {
	SourceID     string
	TargetID     string
	RelationType string
}
