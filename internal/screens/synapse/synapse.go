// Package synapse is the interactive word graph screen.
package synapse

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	forcelayout "github.com/abhisek/synapse/internal/layout"
	"github.com/abhisek/synapse/internal/metrics"
	"github.com/abhisek/synapse/internal/mindmap"
	"github.com/abhisek/synapse/internal/render"
	"github.com/abhisek/synapse/internal/router"
	"github.com/abhisek/synapse/internal/screen"
	"github.com/abhisek/synapse/internal/snapshot"
	"github.com/abhisek/synapse/internal/ui/components"
	"github.com/abhisek/synapse/internal/ui/layout"
	"github.com/abhisek/synapse/internal/ui/theme"
	"github.com/abhisek/synapse/internal/wordgraph"
)

const (
	defaultTickInterval = 16 * time.Millisecond
	fetchTimeout        = 15 * time.Second
)

// Options configures the screen. Zero fields take defaults.
type Options struct {
	Source snapshot.Source

	Layout *forcelayout.Config
	Style  *render.Style

	TickInterval   time.Duration
	CellWidth      float64
	CellHeight     float64
	ClickThreshold float64

	Logger  *slog.Logger
	Metrics *metrics.Registry
}

// SynapseScreen draws the word graph and turns mouse input into pointer
// events for the layout.
type SynapseScreen struct {
	opts Options
	mm   *mindmap.MindMap

	pending []uint64 // generations scheduled during the current Update
	open    *wordgraph.Node

	width, height int
	loading       bool
	err           error

	finding bool
	find    components.SearchInput
	focus   string
}

var _ screen.Screen = (*SynapseScreen)(nil)
var _ screen.KeyHintProvider = (*SynapseScreen)(nil)
var _ screen.StatusProvider = (*SynapseScreen)(nil)
var _ screen.Closer = (*SynapseScreen)(nil)

// New creates the graph screen. The first snapshot is fetched by Init.
func New(opts Options) *SynapseScreen {
	if opts.TickInterval <= 0 {
		opts.TickInterval = defaultTickInterval
	}
	if opts.CellWidth <= 0 {
		opts.CellWidth = render.DefaultCellWidth
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = render.DefaultCellHeight
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &SynapseScreen{opts: opts}
	s.mm = mindmap.New(mindmap.Options{
		Layout:         opts.Layout,
		Style:          opts.Style,
		Scheduler:      forcelayout.SchedulerFunc(s.schedule),
		ClickThreshold: opts.ClickThreshold,
		OnNodeSelected: func(n wordgraph.Node) { s.open = &n },
		Logger:         opts.Logger,
		Metrics:        opts.Metrics,
	})
	return s
}

// MindMap exposes the underlying visualization instance.
func (s *SynapseScreen) MindMap() *mindmap.MindMap { return s.mm }

func (s *SynapseScreen) Init() tea.Cmd {
	return s.fetch()
}

func (s *SynapseScreen) Title() string {
	return "The Synapse"
}

func (s *SynapseScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tickMsg:
		if msg.instance == s.mm.ID() {
			s.mm.Advance(msg.gen)
		}

	case SnapshotMsg:
		s.loading = false
		s.err = msg.Err
		if msg.Err == nil && msg.Snapshot != nil {
			s.err = s.mm.Load(msg.Snapshot)
		}
		if s.focus != "" {
			if _, err := s.mm.Model().Node(s.focus); err != nil {
				s.focus = ""
			}
		}

	case screen.SizeMsg:
		s.resize(msg.Width, msg.Height)

	case tea.MouseClickMsg:
		if m := msg.Mouse(); m.Button == tea.MouseLeft {
			s.mm.PointerDown(s.toGraph(m.X, m.Y))
		}

	case tea.MouseMotionMsg:
		m := msg.Mouse()
		s.mm.PointerMove(s.toGraph(m.X, m.Y))

	case tea.MouseReleaseMsg:
		m := msg.Mouse()
		s.mm.PointerUp(s.toGraph(m.X, m.Y))
		cmd = s.openSelected()

	case tea.KeyPressMsg:
		cmd = s.handleKey(msg)
	}

	return s, tea.Batch(cmd, s.flush())
}

func (s *SynapseScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if s.finding {
		switch {
		case key.Matches(msg, keys.Cancel):
			s.finding = false
			return nil
		case key.Matches(msg, keys.Open):
			id := s.lookup(s.find.Query())
			if id == "" {
				// Stay open so the no-match hint is visible.
				return nil
			}
			s.finding = false
			s.focus = id
			return nil
		}
		var cmd tea.Cmd
		s.find, cmd = s.find.Update(msg)
		s.find.SetMatches(s.countMatches(s.find.Query()))
		return cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Reload):
		return s.fetch()
	case key.Matches(msg, keys.Reheat):
		s.mm.Simulation().Reheat()
	case key.Matches(msg, keys.Find):
		s.finding = true
		s.find = components.NewSearchInput("word…", 32)
		return s.find.Init()
	case key.Matches(msg, keys.Open):
		if s.focus == "" {
			return nil
		}
		if n, err := s.mm.Model().Node(s.focus); err == nil {
			s.open = &n
		}
		return s.openSelected()
	case key.Matches(msg, keys.Cancel):
		s.focus = ""
		s.err = nil
	}
	return nil
}

func (s *SynapseScreen) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	rows := max(height-1, 1)

	var body string
	switch {
	case s.mm.Model().Len() == 0 && s.loading:
		body = lipgloss.Place(width, rows, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Loading your Synapse…"))
	case s.mm.Model().Len() == 0:
		body = lipgloss.Place(width, rows, lipgloss.Center, lipgloss.Center, s.emptyState())
	default:
		canvas := render.Rasterize(s.mm.Frame(), width, rows, render.CanvasOptions{
			CellWidth:  s.opts.CellWidth,
			CellHeight: s.opts.CellHeight,
			Focus:      s.focus,
		})
		body = canvas.Render()
	}
	return body + "\n" + s.bottomLine(width)
}

// KeyHints returns the key binding hints for the footer.
func (s *SynapseScreen) KeyHints() []layout.KeyHint {
	if s.finding {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Find"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Drag", Description: "Move"},
		{Key: "Click", Description: "Details"},
		{Key: "/", Description: "Find"},
		{Key: "Space", Description: "Shake"},
		{Key: "r", Description: "Reload"},
		{Key: "q", Description: "Quit"},
	}
	if s.focus != "" {
		hints = append([]layout.KeyHint{{Key: "Enter", Description: "Open"}}, hints...)
	}
	return hints
}

// Status summarizes the graph for the header.
func (s *SynapseScreen) Status() string {
	st := s.mm.Model().Stats()
	return fmt.Sprintf("%d words  ● %d  ◌ %d", st.Total, st.Solid, st.Ghost)
}

// Close tears down the mind map. Safe to call more than once.
func (s *SynapseScreen) Close() {
	s.mm.Close()
}

func (s *SynapseScreen) schedule(gen uint64) {
	s.pending = append(s.pending, gen)
}

// flush turns the generations scheduled during this Update into tick
// commands.
func (s *SynapseScreen) flush() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	id := s.mm.ID()
	cmds := make([]tea.Cmd, 0, len(s.pending))
	for _, gen := range s.pending {
		cmds = append(cmds, tea.Tick(s.opts.TickInterval, func(time.Time) tea.Msg {
			return tickMsg{instance: id, gen: gen}
		}))
	}
	s.pending = s.pending[:0]
	return tea.Batch(cmds...)
}

func (s *SynapseScreen) fetch() tea.Cmd {
	src := s.opts.Source
	if src == nil {
		return nil
	}
	s.loading = true
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		snap, err := src.Fetch(ctx)
		return SnapshotMsg{Snapshot: snap, Err: err}
	}
}

func (s *SynapseScreen) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = width, height
	rows := max(height-1, 1)
	s.mm.Resize(float64(width)*s.opts.CellWidth, float64(rows)*s.opts.CellHeight)
}

// toGraph maps a content cell to the graph point at its centre.
func (s *SynapseScreen) toGraph(col, row int) wordgraph.Point {
	return wordgraph.Point{
		X: (float64(col) + 0.5) * s.opts.CellWidth,
		Y: (float64(row) + 0.5) * s.opts.CellHeight,
	}
}

func (s *SynapseScreen) openSelected() tea.Cmd {
	if s.open == nil {
		return nil
	}
	n := *s.open
	s.open = nil
	rels, err := s.mm.Model().Neighbors(n.ID)
	if err != nil {
		return nil
	}
	detail := newWordDetail(n, rels)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: detail}
	}
}

// lookup returns the id of the first node whose label contains q,
// preferring exact matches.
func (s *SynapseScreen) lookup(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return ""
	}
	partial := ""
	for _, n := range s.mm.Model().Nodes() {
		label := strings.ToLower(n.Label)
		if label == q {
			return n.ID
		}
		if partial == "" && strings.Contains(label, q) {
			partial = n.ID
		}
	}
	return partial
}

// countMatches counts the words whose label contains q, ignoring case.
func (s *SynapseScreen) countMatches(q string) int {
	q = strings.ToLower(q)
	if q == "" {
		return 0
	}
	n := 0
	for _, node := range s.mm.Model().Nodes() {
		if strings.Contains(strings.ToLower(node.Label), q) {
			n++
		}
	}
	return n
}

func (s *SynapseScreen) emptyState() string {
	title := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Your Synapse is Empty")
	hint := theme.Dim.Render("Add vocabulary to your word list and press r to reload.")
	return lipgloss.JoinVertical(lipgloss.Center, title, "", hint)
}

func (s *SynapseScreen) bottomLine(width int) string {
	switch {
	case s.finding:
		return "  " + s.find.View()
	case s.err != nil:
		msg := strings.SplitN(s.err.Error(), "\n", 2)[0]
		return lipgloss.NewStyle().MaxWidth(width).Render("  " + theme.ErrorText.Render("✗ "+msg))
	}
	style := s.mm.Style()
	solid := lipgloss.NewStyle().Foreground(lipgloss.Color(style.Solid.Fill)).Render("●")
	ghost := lipgloss.NewStyle().Foreground(lipgloss.Color(style.Ghost.Fill)).Render("◌")
	return fmt.Sprintf("  %s %s   %s %s", solid, theme.Dim.Render("Mastered"), ghost, theme.Dim.Render("Learning"))
}
