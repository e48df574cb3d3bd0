package synapse

import "github.com/abhisek/synapse/internal/snapshot"

// tickMsg advances the layout of one mind map by one scheduled tick.
type tickMsg struct {
	instance string
	gen      uint64
}

func (tickMsg) Background() {}

// SnapshotMsg carries a fetched or reloaded snapshot into the event loop.
// A non-nil Err leaves the current graph on screen.
type SnapshotMsg struct {
	Snapshot *snapshot.Snapshot
	Err      error
}

func (SnapshotMsg) Background() {}
