package synapse

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/synapse/internal/screen"
	"github.com/abhisek/synapse/internal/ui/layout"
	"github.com/abhisek/synapse/internal/ui/theme"
	"github.com/abhisek/synapse/internal/wordgraph"
)

// WordDetailScreen shows one word and its relations.
type WordDetailScreen struct {
	node      wordgraph.Node
	relations []wordgraph.Relation
}

var _ screen.Screen = (*WordDetailScreen)(nil)
var _ screen.KeyHintProvider = (*WordDetailScreen)(nil)

func newWordDetail(node wordgraph.Node, relations []wordgraph.Relation) *WordDetailScreen {
	return &WordDetailScreen{node: node, relations: relations}
}

func (d *WordDetailScreen) Init() tea.Cmd { return nil }
func (d *WordDetailScreen) Title() string { return d.node.Label }

func (d *WordDetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return d, nil
}

func (d *WordDetailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (d *WordDetailScreen) View(width, height int) string {
	n := d.node

	var b strings.Builder

	// Word + status.
	icon, stateStyle := "◌", theme.Learning
	if n.Status == wordgraph.StatusSolid {
		icon, stateStyle = "●", theme.Mastered
	}
	b.WriteString(theme.Title.Render(fmt.Sprintf("  %s  %s", icon, n.Label)))
	b.WriteString("\n")
	b.WriteString(stateStyle.Render(fmt.Sprintf("  %s", n.Status.Label())))
	b.WriteString("\n\n")

	// Metadata.
	b.WriteString(theme.Dim.Render("  Category:  ") + theme.Body.Render(n.Category) + "\n")
	b.WriteString(theme.Dim.Render("  ID:        ") + theme.Body.Render(n.ID) + "\n")
	if n.Pinned() {
		b.WriteString(theme.Dim.Render("  Pinned at: ") + theme.Body.Render(fmt.Sprintf("%.0f, %.0f", n.Pin.X, n.Pin.Y)) + "\n")
	}
	b.WriteString("\n")

	// Relations.
	b.WriteString(theme.Heading.Render("  Related words"))
	b.WriteString("\n")
	if len(d.relations) == 0 {
		b.WriteString(theme.Hint.Render("  No connections yet"))
		b.WriteString("\n")
	}
	for _, r := range d.relations {
		arrow := "←"
		if r.Outgoing {
			arrow = "→"
		}
		style := theme.Dim
		if r.Node.Status == wordgraph.StatusSolid {
			style = lipgloss.NewStyle().Foreground(theme.Success)
		}
		b.WriteString(style.Render(fmt.Sprintf("  %s %s", arrow, r.Node.Label)))
		if r.RelationType != "" {
			b.WriteString(theme.Dim.Render(fmt.Sprintf("  (%s)", r.RelationType)))
		}
		b.WriteString("\n")
	}

	card := theme.Card.Render(strings.TrimRight(b.String(), "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
