// Package render maps a word graph and its current positions to drawing
// primitives, and encodes those primitives for output.
package render

import "github.com/abhisek/synapse/internal/wordgraph"

// Circle is one node disc.
type Circle struct {
	ID          string           `json:"id"`
	X           float64          `json:"x"`
	Y           float64          `json:"y"`
	R           float64          `json:"r"`
	Status      wordgraph.Status `json:"status"`
	Fill        string           `json:"fill"`
	Stroke      string           `json:"stroke"`
	StrokeWidth float64          `json:"strokeWidth"`
	Dash        string           `json:"dash,omitempty"`
	Glow        string           `json:"glow,omitempty"`
	Pinned      bool             `json:"pinned,omitempty"`
}

// Line is one edge from source to target.
type Line struct {
	Source       string  `json:"source"`
	Target       string  `json:"target"`
	X1           float64 `json:"x1"`
	Y1           float64 `json:"y1"`
	X2           float64 `json:"x2"`
	Y2           float64 `json:"y2"`
	Color        string  `json:"color"`
	Width        float64 `json:"width"`
	Opacity      float64 `json:"opacity"`
	RelationType string  `json:"relationType,omitempty"`
}

// Label is a word centred on its node.
type Label struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Text  string  `json:"text"`
	Color string  `json:"color"`
	Size  float64 `json:"size"`
	Bold  bool    `json:"bold"`
}

// Frame is everything needed to paint one picture, in paint order:
// lines below circles below labels.
type Frame struct {
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	Background string   `json:"background"`
	Lines      []Line   `json:"lines"`
	Circles    []Circle `json:"circles"`
	Labels     []Label  `json:"labels"`
}

// Draw builds a frame. positions, when non-nil, overrides the node
// positions and must be indexed like the node arena (as delivered by a
// layout tick). Draw never mutates the model.
func Draw(g *wordgraph.Model, positions []wordgraph.Point, style Style, width, height float64) Frame {
	nodes := g.Nodes()
	pos := func(i int) wordgraph.Point {
		if positions != nil && i < len(positions) {
			return positions[i]
		}
		return nodes[i].Pos()
	}

	f := Frame{
		Width:      width,
		Height:     height,
		Background: style.Background,
		Lines:      make([]Line, 0, len(g.Edges())),
		Circles:    make([]Circle, 0, len(nodes)),
		Labels:     make([]Label, 0, len(nodes)),
	}

	for _, e := range g.Edges() {
		src, dst, ok := g.Endpoints(e)
		if !ok {
			continue
		}
		a, b := pos(src), pos(dst)
		f.Lines = append(f.Lines, Line{
			Source:       e.SourceID,
			Target:       e.TargetID,
			X1:           a.X,
			Y1:           a.Y,
			X2:           b.X,
			Y2:           b.Y,
			Color:        style.LinkColor,
			Width:        style.LinkWidth,
			Opacity:      style.LinkOpacity,
			RelationType: e.RelationType,
		})
	}

	for i := range nodes {
		n := &nodes[i]
		p := pos(i)
		ns := style.For(n.Status)
		f.Circles = append(f.Circles, Circle{
			ID:          n.ID,
			X:           p.X,
			Y:           p.Y,
			R:           style.NodeRadius,
			Status:      n.Status,
			Fill:        ns.Fill,
			Stroke:      ns.Stroke,
			StrokeWidth: ns.StrokeWidth,
			Dash:        ns.Dash,
			Glow:        ns.Glow,
			Pinned:      n.Pinned(),
		})
		f.Labels = append(f.Labels, Label{
			ID:    n.ID,
			X:     p.X,
			Y:     p.Y,
			Text:  n.Label,
			Color: style.LabelColor,
			Size:  style.LabelSize,
			Bold:  style.LabelBold,
		})
	}
	return f
}
