package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/synapse/internal/wordgraph"
)

func model(t *testing.T) *wordgraph.Model {
	t.Helper()
	m := wordgraph.New()
	require.NoError(t, m.Load([]wordgraph.NodeSpec{
		{ID: "1", Label: "hyvä", Status: wordgraph.StatusSolid, Position: &wordgraph.Point{X: 100, Y: 100}},
		{ID: "2", Label: "talo", Status: wordgraph.StatusGhost, Position: &wordgraph.Point{X: 300, Y: 100}},
		{ID: "3", Label: "a<b", Status: wordgraph.StatusGhost, Position: &wordgraph.Point{X: 200, Y: 300}},
	}, []wordgraph.Edge{
		{SourceID: "1", TargetID: "2", RelationType: "synonym"},
		{SourceID: "2", TargetID: "3"},
	}))
	return m
}

func TestDraw_Primitives(t *testing.T) {
	m := model(t)
	f := Draw(m, nil, DefaultStyle(), 800, 600)

	require.Len(t, f.Circles, 3)
	require.Len(t, f.Lines, 2)
	require.Len(t, f.Labels, 3)

	solid := f.Circles[0]
	assert.Equal(t, "#10b981", solid.Fill)
	assert.Equal(t, "#059669", solid.Stroke)
	assert.Equal(t, "#10b981", solid.Glow)
	assert.Empty(t, solid.Dash)
	assert.Equal(t, 30.0, solid.R)

	ghost := f.Circles[1]
	assert.Equal(t, "#94a3b8", ghost.Fill)
	assert.Equal(t, "#64748b", ghost.Stroke)
	assert.Equal(t, "5,5", ghost.Dash)
	assert.Empty(t, ghost.Glow)

	l := f.Lines[0]
	assert.Equal(t, Line{
		Source: "1", Target: "2", X1: 100, Y1: 100, X2: 300, Y2: 100,
		Color: "#475569", Width: 2, Opacity: 0.6, RelationType: "synonym",
	}, l)

	assert.Equal(t, Label{ID: "1", X: 100, Y: 100, Text: "hyvä", Color: "#ffffff", Size: 12, Bold: true}, f.Labels[0])
}

func TestDraw_UsesTickPositionsAndNeverMutates(t *testing.T) {
	m := model(t)
	positions := []wordgraph.Point{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}}
	f := Draw(m, positions, DefaultStyle(), 800, 600)

	assert.Equal(t, 3.0, f.Circles[1].X)
	assert.Equal(t, 6.0, f.Labels[2].Y)
	assert.Equal(t, 5.0, f.Lines[1].X2)

	n, _ := m.Node("2")
	assert.Equal(t, wordgraph.Point{X: 300, Y: 100}, n.Pos())
}

func TestDraw_EmptyGraph(t *testing.T) {
	m := wordgraph.New()
	f := Draw(m, nil, DefaultStyle(), 0, 0)
	assert.Empty(t, f.Circles)
	assert.Empty(t, f.Lines)
}

func TestSVGEncoder(t *testing.T) {
	f := Draw(model(t), nil, DefaultStyle(), 800, 600)
	enc, err := Lookup("SVG")
	require.NoError(t, err)
	out, err := enc.Encode(f)
	require.NoError(t, err)
	svg := string(out)

	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.Equal(t, 3, strings.Count(svg, "<circle"))
	assert.Equal(t, 2, strings.Count(svg, "<line"))
	assert.Equal(t, 2, strings.Count(svg, `stroke-dasharray="5,5"`))
	assert.Equal(t, 1, strings.Count(svg, `filter="url(#glow-0)"`))
	assert.Contains(t, svg, `flood-color="#10b981"`)
	assert.Contains(t, svg, ">a&lt;b</text>")
	assert.Contains(t, svg, `font-weight="bold"`)
}

func TestJSONEncoder(t *testing.T) {
	f := Draw(model(t), nil, DefaultStyle(), 800, 600)
	enc, err := Lookup("json")
	require.NoError(t, err)
	out, err := enc.Encode(f)
	require.NoError(t, err)

	var back Frame
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, f, back)
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("png")
	assert.Error(t, err)
	assert.Equal(t, []string{"json", "svg", "text"}, Formats())
}

func TestRasterize(t *testing.T) {
	f := Draw(model(t), nil, DefaultStyle(), 800, 600)
	c := Rasterize(f, 80, 30, CanvasOptions{Focus: "2"})

	// Node 1 sits at cell (10, 5); "● hyvä" is centred there.
	assert.Equal(t, glyphSolid, c.At(7, 5).Rune)
	assert.Equal(t, 'h', c.At(9, 5).Rune)
	assert.Equal(t, "#10b981", c.At(7, 5).Color)

	// The link between 1 and 2 runs along row 5 between the labels.
	assert.Equal(t, glyphLink, c.At(20, 5).Rune)

	// Focused node is underlined.
	assert.Equal(t, glyphGhost, c.At(27, 5).Rune)
	assert.True(t, c.At(29, 5).Underline)

	lines := strings.Split(c.String(), "\n")
	assert.Len(t, lines, 30)
	assert.Contains(t, lines[5], "hyvä")
	assert.Contains(t, lines[15], "a<b")
}

func TestRasterize_ClipsOffscreen(t *testing.T) {
	m := wordgraph.New()
	require.NoError(t, m.Load([]wordgraph.NodeSpec{
		{ID: "x", Label: "far", Status: wordgraph.StatusSolid, Position: &wordgraph.Point{X: -500, Y: 9000}},
		{ID: "y", Label: "near", Status: wordgraph.StatusSolid, Position: &wordgraph.Point{X: 50, Y: 50}},
	}, []wordgraph.Edge{{SourceID: "x", TargetID: "y"}}))
	f := Draw(m, nil, DefaultStyle(), 200, 200)
	assert.NotPanics(t, func() {
		c := Rasterize(f, 20, 10, CanvasOptions{})
		_ = c.Render()
	})
}

func TestTextEncoder(t *testing.T) {
	f := Draw(model(t), nil, DefaultStyle(), 400, 400)
	enc, err := Lookup("text")
	require.NoError(t, err)
	out, err := enc.Encode(f)
	require.NoError(t, err)
	assert.Equal(t, 20, strings.Count(string(out), "\n"))
	assert.Contains(t, string(out), "talo")
}
