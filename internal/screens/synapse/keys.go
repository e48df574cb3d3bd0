package synapse

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Reload key.Binding
	Reheat key.Binding
	Find   key.Binding
	Open   key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Reheat: key.NewBinding(
		key.WithKeys("space"),
		key.WithHelp("space", "shake"),
	),
	Find: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "find"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "details"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
}
