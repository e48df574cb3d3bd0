package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/synapse/internal/ui/theme"
)

// SearchInput is a one-line query box that reports how many items the
// current query matches.
type SearchInput struct {
	Model   textinput.Model
	matches int
	counted bool
}

// NewSearchInput creates a focused search box accepting up to limit runes.
func NewSearchInput(placeholder string, limit int) SearchInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "/ "
	if limit > 0 {
		ti.CharLimit = limit
	}
	ti.Focus()
	return SearchInput{Model: ti}
}

// Init starts the cursor.
func (s SearchInput) Init() tea.Cmd {
	return s.Model.Focus()
}

// Update forwards msg to the input. A changed query clears the match count
// until the caller sets a new one.
func (s SearchInput) Update(msg tea.Msg) (SearchInput, tea.Cmd) {
	before := s.Model.Value()
	var cmd tea.Cmd
	s.Model, cmd = s.Model.Update(msg)
	if s.Model.Value() != before {
		s.counted = false
	}
	return s, cmd
}

// SetMatches records how many items the current query matches.
func (s *SearchInput) SetMatches(n int) {
	s.matches = n
	s.counted = true
}

// Query returns the trimmed input.
func (s SearchInput) Query() string {
	return strings.TrimSpace(s.Model.Value())
}

func (s SearchInput) View() string {
	view := s.Model.View()
	if !s.counted || s.Query() == "" {
		return view
	}
	switch s.matches {
	case 0:
		return view + "  " + lipgloss.NewStyle().Foreground(theme.Error).Render("no match")
	case 1:
		return view + "  " + lipgloss.NewStyle().Foreground(theme.Success).Render("1 match")
	}
	return view + "  " + theme.Dim.Render(fmt.Sprintf("%d matches", s.matches))
}
