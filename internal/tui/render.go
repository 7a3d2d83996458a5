package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/deepfield/internal/celestial"
	"github.com/lox/deepfield/internal/universe"
)

// Terminal cells are roughly twice as tall as they are wide.
const cellAspect = 2.0

type cell struct {
	r     rune
	color lipgloss.Color
	bold  bool
	dim   bool
}

type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i].r = ' '
	}
	return c
}

func (c *canvas) set(col, row int, v cell) {
	if col < 0 || row < 0 || col >= c.w || row >= c.h {
		return
	}
	c.cells[row*c.w+col] = v
}

func (c *canvas) at(col, row int) cell {
	return c.cells[row*c.w+col]
}

func (c *canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.h; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < c.w; col++ {
			v := c.at(col, row)
			if v.color == "" {
				b.WriteRune(v.r)
				continue
			}
			b.WriteString(lipgloss.NewStyle().
				Foreground(v.color).Bold(v.bold).Faint(v.dim).
				Render(string(v.r)))
		}
	}
	return b.String()
}

// project maps a world position onto a w by h grid centred on (cx, cy). It
// reports false for points off the grid. North is up.
func project(wx, wy, cx, cy, zoom float64, w, h int) (int, int, bool) {
	col := int(math.Floor((wx-cx)/zoom)) + w/2
	row := h/2 - int(math.Floor((wy-cy)/(zoom*cellAspect)))
	if col < 0 || row < 0 || col >= w || row >= h {
		return col, row, false
	}
	return col, row, true
}

func renderMap(set universe.ActiveSet, cx, cy, zoom float64, w, h int) string {
	c := newCanvas(w, h)

	for _, s := range set.Background {
		col, row, ok := project(s.X, s.Y, cx, cy, zoom, w, h)
		if !ok {
			continue
		}
		r := '.'
		if s.Tier >= 3 {
			r = '\''
		}
		c.set(col, row, cell{r: r, color: lipgloss.Color(s.Color), dim: s.Tier <= 1})
	}

	for _, obj := range set.Objects() {
		b := obj.Base()
		v := cell{r: glyphs[obj.Kind()], color: objectColor(obj), bold: b.Discovered, dim: !b.Discovered}
		if p, ok := obj.(*celestial.Planet); ok && p.Type.Giant() {
			v.r = 'O'
		}
		if diffuse(obj) {
			fillDisc(c, b.X, b.Y, b.Radius, cx, cy, zoom, v)
		}
		if col, row, ok := project(b.X, b.Y, cx, cy, zoom, w, h); ok {
			c.set(col, row, v)
		}
	}

	c.set(w/2, h/2, cell{r: observerGlyph, color: lipgloss.Color("#04B575"), bold: true})
	return c.String()
}

func diffuse(obj celestial.Object) bool {
	switch obj.(type) {
	case *celestial.Nebula, *celestial.IonStorm, *celestial.AsteroidField:
		return true
	}
	return false
}

// fillDisc stipples every other cell inside a disc of radius r.
func fillDisc(c *canvas, x, y, r, cx, cy, zoom float64, v cell) {
	v.bold = false
	v.dim = true
	minCol, minRow, _ := project(x-r, y+r, cx, cy, zoom, c.w, c.h)
	maxCol, maxRow, _ := project(x+r, y-r, cx, cy, zoom, c.w, c.h)
	minCol, minRow = max(minCol, 0), max(minRow, 0)
	maxCol, maxRow = min(maxCol, c.w-1), min(maxRow, c.h-1)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			if (col+row)%2 != 0 {
				continue
			}
			wx := cx + (float64(col-c.w/2)+0.5)*zoom
			wy := cy + (float64(c.h/2-row)+0.5)*zoom*cellAspect
			if math.Hypot(wx-x, wy-y) <= r {
				c.set(col, row, v)
			}
		}
	}
}
