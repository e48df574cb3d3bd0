package wordgraph

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNodeNotFound is returned when a node id is not in the loaded graph.
var ErrNodeNotFound = errors.New("node not found")

// Model owns the validated node/edge snapshot. Nodes live in a flat arena
// indexed by id; edges carry ids only and are resolved at read time.
//
// Model is not safe for concurrent use. It is owned by a single event loop.
type Model struct {
	nodes []Node
	edges []Edge
	index map[string]int
	gen   uint64
}

// New returns an empty model.
func New() *Model {
	return &Model{index: map[string]int{}}
}

// Load replaces the whole graph. It is all-or-nothing: on a
// *ValidationError the previously loaded graph is left untouched.
func (m *Model) Load(nodes []NodeSpec, edges []Edge) error {
	index, err := validate(nodes, edges)
	if err != nil {
		return err
	}

	arena := make([]Node, len(nodes))
	for i, s := range nodes {
		arena[i] = Node{
			ID:       s.ID,
			Label:    s.Label,
			Status:   s.Status,
			Category: s.Category,
		}
		if s.Position != nil {
			arena[i].X, arena[i].Y = s.Position.X, s.Position.Y
			arena[i].Placed = true
		}
	}

	m.nodes = arena
	m.edges = append([]Edge(nil), edges...)
	m.index = index
	m.gen++
	return nil
}

// Generation increments on every successful Load.
func (m *Model) Generation() uint64 { return m.gen }

// Len returns the number of nodes.
func (m *Model) Len() int { return len(m.nodes) }

// Nodes returns the owned node arena. The layout engine integrates it in
// place and the renderer reads it; the slice is replaced on Load.
func (m *Model) Nodes() []Node { return m.nodes }

// Edges returns the edge list.
func (m *Model) Edges() []Edge { return m.edges }

// Index returns the arena index of id.
func (m *Model) Index(id string) (int, bool) {
	i, ok := m.index[id]
	return i, ok
}

// Node returns a copy of the node with the given id.
func (m *Model) Node(id string) (Node, error) {
	i, ok := m.index[id]
	if !ok {
		return Node{}, fmt.Errorf("node %q: %w", id, ErrNodeNotFound)
	}
	return m.nodes[i], nil
}

// Endpoints resolves an edge to arena indices.
func (m *Model) Endpoints(e Edge) (src, dst int, ok bool) {
	src, ok1 := m.index[e.SourceID]
	dst, ok2 := m.index[e.TargetID]
	return src, dst, ok1 && ok2
}

// Pin fixes the node at p and zeroes its velocity. The position is
// updated immediately so readers observe the pin before the next tick.
func (m *Model) Pin(id string, p Point) error {
	i, ok := m.index[id]
	if !ok {
		return fmt.Errorf("pin %q: %w", id, ErrNodeNotFound)
	}
	n := &m.nodes[i]
	n.Pin = &Point{p.X, p.Y}
	n.X, n.Y = p.X, p.Y
	n.VX, n.VY = 0, 0
	n.Placed = true
	return nil
}

// Unpin releases a pinned node back to the simulation.
func (m *Model) Unpin(id string) error {
	i, ok := m.index[id]
	if !ok {
		return fmt.Errorf("unpin %q: %w", id, ErrNodeNotFound)
	}
	m.nodes[i].Pin = nil
	return nil
}

// Hit returns the id of the node nearest to p whose center lies within
// radius, or false if there is none.
func (m *Model) Hit(p Point, radius float64) (string, bool) {
	best, bestDist := -1, math.Inf(1)
	for i := range m.nodes {
		d := m.nodes[i].Pos().Dist(p)
		if d <= radius && d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return "", false
	}
	return m.nodes[best].ID, true
}

// Relation is one edge seen from a given node.
type Relation struct {
	Node         Node
	RelationType string
	Outgoing     bool
}

// Neighbors returns the nodes connected to id, sorted by label.
func (m *Model) Neighbors(id string) ([]Relation, error) {
	if _, ok := m.index[id]; !ok {
		return nil, fmt.Errorf("neighbors of %q: %w", id, ErrNodeNotFound)
	}
	var rels []Relation
	for _, e := range m.edges {
		switch id {
		case e.SourceID:
			rels = append(rels, Relation{Node: m.nodes[m.index[e.TargetID]], RelationType: e.RelationType, Outgoing: true})
		case e.TargetID:
			rels = append(rels, Relation{Node: m.nodes[m.index[e.SourceID]], RelationType: e.RelationType})
		}
	}
	sort.SliceStable(rels, func(i, j int) bool {
		return rels[i].Node.Label < rels[j].Node.Label
	})
	return rels, nil
}

// Stats summarizes the loaded graph for legends.
type Stats struct {
	Total  int
	Solid  int
	Ghost  int
	Edges  int
	Pinned int
}

// Stats returns node and edge counts.
func (m *Model) Stats() Stats {
	s := Stats{Total: len(m.nodes), Edges: len(m.edges)}
	for i := range m.nodes {
		switch m.nodes[i].Status {
		case StatusSolid:
			s.Solid++
		case StatusGhost:
			s.Ghost++
		}
		if m.nodes[i].Pinned() {
			s.Pinned++
		}
	}
	return s
}
