package render

import (
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/synapse/internal/wordgraph"
)

// Default graph units per terminal cell. Cells are about twice as tall
// as they are wide.
const (
	DefaultCellWidth  = 10
	DefaultCellHeight = 20
)

const (
	glyphSolid  = '●'
	glyphGhost  = '◌'
	glyphPinned = '◉'
	glyphLink   = '·'
)

// Cell is one character of a canvas.
type Cell struct {
	Rune      rune
	Color     string
	Bold      bool
	Underline bool
}

// CanvasOptions controls rasterization.
type CanvasOptions struct {
	CellWidth  float64
	CellHeight float64
	// Focus is the id of a node drawn underlined, e.g. a search hit.
	Focus string
}

func (o CanvasOptions) withDefaults() CanvasOptions {
	if o.CellWidth <= 0 {
		o.CellWidth = DefaultCellWidth
	}
	if o.CellHeight <= 0 {
		o.CellHeight = DefaultCellHeight
	}
	return o
}

// Canvas is a character grid rasterized from a Frame.
type Canvas struct {
	Cols, Rows int
	cells      [][]Cell
}

// Rasterize paints f onto a cols × rows grid.
func Rasterize(f Frame, cols, rows int, opts CanvasOptions) *Canvas {
	opts = opts.withDefaults()
	cols, rows = max(cols, 1), max(rows, 1)
	c := &Canvas{Cols: cols, Rows: rows, cells: make([][]Cell, rows)}
	for y := range c.cells {
		c.cells[y] = make([]Cell, cols)
		for x := range c.cells[y] {
			c.cells[y][x] = Cell{Rune: ' '}
		}
	}

	toCell := func(x, y float64) (int, int) {
		return int(math.Floor(x / opts.CellWidth)), int(math.Floor(y / opts.CellHeight))
	}

	for _, l := range f.Lines {
		x1, y1 := toCell(l.X1, l.Y1)
		x2, y2 := toCell(l.X2, l.Y2)
		c.line(x1, y1, x2, y2, Cell{Rune: glyphLink, Color: l.Color})
	}

	labels := make(map[string]Label, len(f.Labels))
	for _, lb := range f.Labels {
		labels[lb.ID] = lb
	}
	for _, ci := range f.Circles {
		x, y := toCell(ci.X, ci.Y)
		glyph := glyphGhost
		if ci.Status == wordgraph.StatusSolid {
			glyph = glyphSolid
		}
		if ci.Pinned {
			glyph = glyphPinned
		}
		lb := labels[ci.ID]
		text := []rune(lb.Text)
		start := x - (len(text)+2)/2
		c.set(start, y, Cell{Rune: glyph, Color: ci.Fill, Bold: true})
		c.set(start+1, y, Cell{Rune: ' '})
		for i, r := range text {
			c.set(start+2+i, y, Cell{Rune: r, Color: lb.Color, Bold: lb.Bold, Underline: ci.ID == opts.Focus})
		}
	}
	return c
}

// At returns the cell at (x, y); out of range yields a blank.
func (c *Canvas) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= c.Cols || y >= c.Rows {
		return Cell{Rune: ' '}
	}
	return c.cells[y][x]
}

func (c *Canvas) set(x, y int, cell Cell) {
	if x < 0 || y < 0 || x >= c.Cols || y >= c.Rows {
		return
	}
	c.cells[y][x] = cell
}

// line draws with Bresenham's algorithm, clipped to the grid.
func (c *Canvas) line(x1, y1, x2, y2 int, cell Cell) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 >= x2 {
		sx = -1
	}
	if y1 >= y2 {
		sy = -1
	}
	errAcc := dx + dy
	for {
		c.set(x1, y1, cell)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * errAcc
		if e2 >= dy {
			errAcc += dy
			x1 += sx
		}
		if e2 <= dx {
			errAcc += dx
			y1 += sy
		}
	}
}

// String returns the canvas without colors, rows separated by newlines.
func (c *Canvas) String() string {
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, cell := range row {
			b.WriteRune(cell.Rune)
		}
	}
	return b.String()
}

// Render returns the canvas with lipgloss colors, grouping runs of
// identically styled cells.
func (c *Canvas) Render() string {
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run []rune
		var cur Cell
		flush := func() {
			if len(run) == 0 {
				return
			}
			b.WriteString(cellStyle(cur).Render(string(run)))
			run = run[:0]
		}
		for i, cell := range row {
			if i == 0 || !sameStyle(cell, cur) {
				flush()
				cur = cell
			}
			run = append(run, cell.Rune)
		}
		flush()
	}
	return b.String()
}

func sameStyle(a, b Cell) bool {
	return a.Color == b.Color && a.Bold == b.Bold && a.Underline == b.Underline
}

func cellStyle(c Cell) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(c.Bold).Underline(c.Underline)
	if c.Color != "" {
		s = s.Foreground(lipgloss.Color(c.Color))
	}
	return s
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
