package render

import "github.com/abhisek/synapse/internal/wordgraph"

// NodeStyle is the appearance of one node status.
type NodeStyle struct {
	Fill        string  `toml:"fill"`
	Stroke      string  `toml:"stroke"`
	StrokeWidth float64 `toml:"stroke_width"`
	Dash        string  `toml:"dash"` // SVG dash array, empty for solid
	Glow        string  `toml:"glow"` // drop-shadow color, empty for none
}

// Style controls every visual attribute of a frame.
type Style struct {
	Background string  `toml:"background"`
	NodeRadius float64 `toml:"node_radius"`

	Solid NodeStyle `toml:"solid"`
	Ghost NodeStyle `toml:"ghost"`

	LinkColor   string  `toml:"link_color"`
	LinkWidth   float64 `toml:"link_width"`
	LinkOpacity float64 `toml:"link_opacity"`

	LabelColor string  `toml:"label_color"`
	LabelSize  float64 `toml:"label_size"`
	LabelBold  bool    `toml:"label_bold"`
}

// DefaultStyle matches the web mind map: emerald glowing solids, slate
// dashed ghosts, translucent links and bold white labels.
func DefaultStyle() Style {
	return Style{
		Background: "#0f172a",
		NodeRadius: 30,
		Solid: NodeStyle{
			Fill:        "#10b981",
			Stroke:      "#059669",
			StrokeWidth: 3,
			Glow:        "#10b981",
		},
		Ghost: NodeStyle{
			Fill:        "#94a3b8",
			Stroke:      "#64748b",
			StrokeWidth: 3,
			Dash:        "5,5",
		},
		LinkColor:   "#475569",
		LinkWidth:   2,
		LinkOpacity: 0.6,
		LabelColor:  "#ffffff",
		LabelSize:   12,
		LabelBold:   true,
	}
}

// For returns the node style of a status. Unknown statuses render as ghosts.
func (s Style) For(status wordgraph.Status) NodeStyle {
	if status == wordgraph.StatusSolid {
		return s.Solid
	}
	return s.Ghost
}
