package mindmap

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/synapse/internal/interact"
	"github.com/abhisek/synapse/internal/metrics"
	"github.com/abhisek/synapse/internal/snapshot"
	"github.com/abhisek/synapse/internal/wordgraph"
)

type queue struct {
	gens []uint64
}

func (q *queue) Schedule(gen uint64) { q.gens = append(q.gens, gen) }

// drain runs scheduled ticks until none remain or limit is reached.
func (q *queue) drain(m *MindMap, limit int) int {
	ran := 0
	for len(q.gens) > 0 && ran < limit {
		gen := q.gens[0]
		q.gens = q.gens[1:]
		if m.Advance(gen) {
			ran++
		}
	}
	return ran
}

func trio() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Nodes: []snapshot.Node{
			{ID: "1", Word: "hei", Status: "solid"},
			{ID: "2", Word: "kiitos", Status: "ghost"},
			{ID: "3", Label: "talo", Status: "ghost", Category: "noun"},
		},
		Links: []snapshot.Link{
			{Source: "1", Target: "2", RelationType: "context"},
			{Source: "2", Target: "3"},
		},
	}
}

type fixture struct {
	m        *MindMap
	q        *queue
	reg      *metrics.Registry
	selected []wordgraph.Node
	redraws  int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{q: &queue{}, reg: metrics.NewRegistry()}
	f.m = New(Options{
		Scheduler:      f.q,
		Metrics:        f.reg,
		OnNodeSelected: func(n wordgraph.Node) { f.selected = append(f.selected, n) },
		OnRedraw:       func() { f.redraws++ },
	})
	t.Cleanup(f.m.Close)
	return f
}

func TestLoadAndSettle(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.m.Load(trio()))
	assert.True(t, f.m.Simulation().Running())
	require.Len(t, f.q.gens, 1, "exactly one tick in flight")

	ticks := f.q.drain(f.m, 5000)
	assert.Greater(t, ticks, 100)
	assert.True(t, f.m.Simulation().Settled())
	assert.False(t, f.m.Simulation().Running())
	assert.Empty(t, f.q.gens)

	fr := f.m.Frame()
	assert.Len(t, fr.Circles, 3)
	assert.Len(t, fr.Lines, 2)
	assert.Len(t, fr.Labels, 3)
	assert.Equal(t, 800.0, fr.Width)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.reg.LoadsTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(ticks), testutil.ToFloat64(f.reg.TicksTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(f.reg.SettleTicks))
	assert.Greater(t, f.redraws, ticks-1)
}

func TestLoadRejectedKeepsGraph(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.m.Load(trio()))
	before := f.m.Model().Generation()

	bad := trio()
	bad.Links = append(bad.Links, snapshot.Link{Source: "1", Target: "99"})
	err := f.m.Load(bad)

	var verr *wordgraph.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []int{2}, verr.DanglingEdges())
	assert.Equal(t, before, f.m.Model().Generation())
	assert.Equal(t, 3, f.m.Model().Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.reg.LoadsTotal.WithLabelValues("error")))
}

func TestReloadKeepsSurvivingPositions(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.m.Load(trio()))
	f.q.drain(f.m, 5000)

	hei, err := f.m.Model().Node("1")
	require.NoError(t, err)

	next := trio()
	next.Nodes = append(next.Nodes, snapshot.Node{ID: "4", Word: "auto", Status: "ghost"})
	require.NoError(t, f.m.Load(next))

	again, err := f.m.Model().Node("1")
	require.NoError(t, err)
	assert.Equal(t, hei.Pos(), again.Pos())
	assert.Equal(t, 4, f.m.Model().Len())
	assert.True(t, f.m.Simulation().Running())
}

func TestClickSelects(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.m.Load(trio()))
	f.q.drain(f.m, 5000)

	n, err := f.m.Model().Node("3")
	require.NoError(t, err)
	p := n.Pos()

	require.True(t, f.m.PointerDown(p))
	f.m.PointerUp(wordgraph.Point{X: p.X + 1, Y: p.Y})

	require.Len(t, f.selected, 1)
	assert.Equal(t, "talo", f.selected[0].Label)
	assert.Equal(t, "noun", f.selected[0].Category)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.reg.SelectionsTotal))
	assert.False(t, f.m.Simulation().Running(), "a click does not reheat")
}

func TestReleaseFarFromPressIsNotAClick(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.m.Load(trio()))
	f.q.drain(f.m, 5000)
	before := f.m.Positions()

	n, err := f.m.Model().Node("3")
	require.NoError(t, err)
	p := n.Pos()

	require.True(t, f.m.PointerDown(p))
	f.m.PointerUp(wordgraph.Point{X: p.X + 3, Y: p.Y})

	assert.Empty(t, f.selected)
	assert.Zero(t, testutil.ToFloat64(f.reg.SelectionsTotal))
	assert.Equal(t, before, f.m.Positions())
	assert.Equal(t, interact.Idle, f.m.Controller().State())
}

func TestDragPinsAndReleases(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.m.Load(trio()))
	f.q.drain(f.m, 5000)

	n, _ := f.m.Model().Node("2")
	p := n.Pos()
	target := wordgraph.Point{X: p.X + 50, Y: p.Y - 20}

	require.True(t, f.m.PointerDown(p))
	f.m.PointerMove(target)
	assert.Equal(t, interact.Dragging, f.m.Controller().State())
	assert.True(t, f.m.Simulation().Running())

	f.q.drain(f.m, 20)
	dragged, _ := f.m.Model().Node("2")
	assert.Equal(t, target, dragged.Pos())

	f.m.PointerUp(target)
	released, _ := f.m.Model().Node("2")
	assert.False(t, released.Pinned())
	assert.Zero(t, f.m.Simulation().AlphaTarget())
	assert.Empty(t, f.selected)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.reg.DragsTotal))
}

func TestResize(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.m.Load(trio()))
	f.q.drain(f.m, 5000)
	require.False(t, f.m.Simulation().Running())

	f.m.Resize(1000, 800)
	assert.Equal(t, wordgraph.Point{X: 500, Y: 400}, f.m.Simulation().Center())
	assert.True(t, f.m.Simulation().Running())
	assert.GreaterOrEqual(t, f.m.Simulation().Alpha(), resizeAlpha)
	assert.Equal(t, 1000.0, f.m.Frame().Width)

	f.q.drain(f.m, 5000)
	f.m.Resize(0, 800)
	assert.False(t, f.m.Simulation().Running(), "degenerate sizes are ignored")
	w, h := f.m.Viewport().Size()
	assert.Equal(t, []float64{1000, 800}, []float64{w, h})
}

func TestEmptyGraph(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.m.Load(&snapshot.Snapshot{}))
	assert.Zero(t, f.m.Simulation().Alpha())
	assert.False(t, f.m.Simulation().Running())
	assert.Empty(t, f.q.gens)
	assert.Empty(t, f.m.Frame().Circles)

	f.m.Resize(1200, 900)
	assert.False(t, f.m.Simulation().Running())
}

func TestCloseIsFinal(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.m.Load(trio()))
	require.Len(t, f.q.gens, 1)
	gen := f.q.gens[0]

	f.m.Close()
	f.m.Close()
	assert.True(t, f.m.Closed())
	assert.False(t, f.m.Advance(gen))
	assert.False(t, f.m.PointerDown(wordgraph.Point{}))
	assert.NoError(t, f.m.Load(trio()))
	f.m.Resize(300, 300)

	w, _ := f.m.Viewport().Size()
	assert.Equal(t, 800.0, w)
	assert.Zero(t, testutil.CollectAndCount(f.reg.Alpha))
}
