package viz

import (
	"math"
	"strings"
)

const brailleBlank = 0x2800

// Dot bits of a braille cell, indexed by [row][column] of its 2×4 grid.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells, each holding 2×4 dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in dots.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

// Set turns on the dot at (x, y), counted from the top left. Dots outside the
// canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= dotBits[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine joins two dots with Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawPath scales the (x, y) points to fill the canvas, y growing upwards,
// and joins consecutive points. Non-finite points are skipped.
func (c *Canvas) DrawPath(xs, ys []float64) {
	n := min(len(xs), len(ys))
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i := 0; i < n; i++ {
		if !finite(xs[i]) || !finite(ys[i]) {
			continue
		}
		minX, maxX = math.Min(minX, xs[i]), math.Max(maxX, xs[i])
		minY, maxY = math.Min(minY, ys[i]), math.Max(maxY, ys[i])
	}
	if minX > maxX {
		return
	}

	w, h := c.Dots()
	project := func(x, y float64) (int, int) {
		px, py := (w-1)/2, (h-1)/2
		if maxX > minX {
			px = int(math.Round((x - minX) / (maxX - minX) * float64(w-1)))
		}
		if maxY > minY {
			py = int(math.Round((maxY - y) / (maxY - minY) * float64(h-1)))
		}
		return px, py
	}

	havePrev := false
	var prevX, prevY int
	for i := 0; i < n; i++ {
		if !finite(xs[i]) || !finite(ys[i]) {
			havePrev = false
			continue
		}
		px, py := project(xs[i], ys[i])
		if havePrev {
			c.DrawLine(prevX, prevY, px, py)
		} else {
			c.Set(px, py)
		}
		prevX, prevY, havePrev = px, py, true
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
