package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/synapse/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "first" {
		t.Errorf("expected active 'first', got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

func TestReplace(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Replace(s2)

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after replace, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on replaced screen")
	}
}

func TestReplaceScreenMsg(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Update(ReplaceScreenMsg{Screen: s2})

	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run via ReplaceScreenMsg")
	}
}

func TestReplacePreservesStackDepth(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	s3 := &stubScreen{title: "third"}
	r.Replace(s3)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "third" {
		t.Errorf("expected active 'third', got %q", r.Active().Title())
	}
}

type closingScreen struct {
	stubScreen
	closed int
	seen   []tea.Msg
}

func (s *closingScreen) Close() { s.closed++ }

func (s *closingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.seen = append(s.seen, msg)
	return s, nil
}

type bgMsg struct{}

func (bgMsg) Background() {}

func TestPopClosesScreen(t *testing.T) {
	r := New(&stubScreen{title: "first"})
	s2 := &closingScreen{stubScreen: stubScreen{title: "second"}}
	r.Push(s2)
	r.Pop()

	if s2.closed != 1 {
		t.Errorf("expected popped screen closed once, got %d", s2.closed)
	}
}

func TestReplaceClosesScreen(t *testing.T) {
	s1 := &closingScreen{stubScreen: stubScreen{title: "first"}}
	r := New(s1)
	r.Replace(&stubScreen{title: "second"})

	if s1.closed != 1 {
		t.Errorf("expected replaced screen closed once, got %d", s1.closed)
	}
}

func TestCloseAll(t *testing.T) {
	s1 := &closingScreen{stubScreen: stubScreen{title: "first"}}
	s2 := &closingScreen{stubScreen: stubScreen{title: "second"}}
	r := New(s1)
	r.Push(s2)
	r.Close()

	if s1.closed != 1 || s2.closed != 1 {
		t.Errorf("expected both screens closed, got %d and %d", s1.closed, s2.closed)
	}
}

func TestBackgroundMsgReachesEveryScreen(t *testing.T) {
	s1 := &closingScreen{stubScreen: stubScreen{title: "first"}}
	s2 := &closingScreen{stubScreen: stubScreen{title: "second"}}
	r := New(s1)
	r.Push(s2)

	r.Update(bgMsg{})
	r.Update("plain")

	if len(s1.seen) != 1 {
		t.Errorf("expected covered screen to see 1 message, got %d", len(s1.seen))
	}
	if len(s2.seen) != 2 {
		t.Errorf("expected active screen to see 2 messages, got %d", len(s2.seen))
	}
}
