package app

import (
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/synapse/internal/config"
	"github.com/abhisek/synapse/internal/metrics"
	"github.com/abhisek/synapse/internal/router"
	"github.com/abhisek/synapse/internal/screen"
	"github.com/abhisek/synapse/internal/screens/synapse"
	"github.com/abhisek/synapse/internal/snapshot"
	"github.com/abhisek/synapse/internal/ui/layout"
)

// Options holds the dependencies of the TUI.
type Options struct {
	Source snapshot.Source
	// Watcher, when set, pushes reloaded snapshots into the running program.
	Watcher snapshot.Watcher
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Registry
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel with the graph screen.
func newAppModel(opts Options) AppModel {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	root := synapse.New(synapse.Options{
		Source:         opts.Source,
		Layout:         &cfg.Layout,
		Style:          &cfg.Style,
		TickInterval:   cfg.UI.TickInterval.Duration,
		CellWidth:      cfg.UI.CellWidth,
		CellHeight:     cfg.UI.CellHeight,
		ClickThreshold: cfg.UI.ClickThreshold,
		Logger:         opts.Logger,
		Metrics:        opts.Metrics,
	})
	return AppModel{
		router: router.New(root),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cmd := m.router.Update(screen.SizeMsg{
			Width:  msg.Width,
			Height: layout.ContentHeight(msg.Height),
		})
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}

	case tea.MouseMsg:
		// Screens work in content coordinates, below the header.
		shifted := contentMouse(msg)
		if shifted == nil {
			return m, nil
		}
		return m, m.router.Update(shifted)
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func contentMouse(msg tea.MouseMsg) tea.Msg {
	mouse := msg.Mouse()
	mouse.Y -= layout.HeaderHeight
	switch msg.(type) {
	case tea.MouseClickMsg:
		return tea.MouseClickMsg(mouse)
	case tea.MouseMotionMsg:
		return tea.MouseMotionMsg(mouse)
	case tea.MouseReleaseMsg:
		return tea.MouseReleaseMsg(mouse)
	}
	return nil
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
	}
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}

	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	model := newAppModel(opts)
	defer model.router.Close()

	p := tea.NewProgram(model)

	if opts.Watcher != nil {
		stop, err := opts.Watcher.Watch(func(snap *snapshot.Snapshot, err error) {
			p.Send(synapse.SnapshotMsg{Snapshot: snap, Err: err})
		})
		if err != nil {
			return fmt.Errorf("watch snapshot: %w", err)
		}
		defer stop()
	}

	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
