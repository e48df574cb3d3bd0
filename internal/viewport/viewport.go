// Package viewport tracks the size of the drawing surface and keeps the
// layout centred in it.
package viewport

import (
	"log/slog"

	"github.com/abhisek/synapse/internal/wordgraph"
)

// Default surface size, in graph units.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Target receives the new midpoint after every accepted resize.
type Target interface {
	SetCenter(wordgraph.Point)
}

// Manager owns the current surface size.
type Manager struct {
	target Target
	redraw func()
	logger *slog.Logger

	width, height float64
	closed        bool
}

// New returns a manager at the default size and aims target at its centre.
// redraw may be nil.
func New(target Target, redraw func(), logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{target: target, redraw: redraw, logger: logger, width: DefaultWidth, height: DefaultHeight}
	target.SetCenter(m.Center())
	return m
}

// Resize records a new surface size, retargets the centre and redraws.
// Degenerate sizes are ignored. It reports whether the size was applied.
func (m *Manager) Resize(width, height float64) bool {
	if m.closed {
		return false
	}
	if width <= 0 || height <= 0 {
		m.logger.Debug("ignoring degenerate viewport", "width", width, "height", height)
		return false
	}
	if width == m.width && height == m.height {
		return false
	}
	m.width, m.height = width, height
	m.target.SetCenter(m.Center())
	if m.redraw != nil {
		m.redraw()
	}
	return true
}

// Size returns the current width and height.
func (m *Manager) Size() (width, height float64) { return m.width, m.height }

// Center returns the midpoint of the surface.
func (m *Manager) Center() wordgraph.Point {
	return wordgraph.Point{X: m.width / 2, Y: m.height / 2}
}

// Close detaches the manager; later resizes are no-ops.
func (m *Manager) Close() { m.closed = true }
