// Package visualizer draws channel windows and level meters as terminal text.
package visualizer

import "strings"

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// Canvas is a grid of braille cells addressed in dots. Each cell holds two
// dot columns and four dot rows.
type Canvas struct {
	cols, rows int
	cells      []uint8
}

// Resize sets the size in cells and clears the canvas.
func (c *Canvas) Resize(cols, rows int) {
	cols, rows = max(cols, 0), max(rows, 0)
	c.cols, c.rows = cols, rows
	if cap(c.cells) < cols*rows {
		c.cells = make([]uint8, cols*rows)
	}
	c.cells = c.cells[:cols*rows]
	clear(c.cells)
}

// Dots returns the size in dots.
func (c *Canvas) Dots() (width, height int) {
	return c.cols * 2, c.rows * 4
}

// Set lights the dot at (x, y). Dots outside the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.cols*2 || y >= c.rows*4 {
		return
	}
	c.cells[(y/4)*c.cols+x/2] |= 1 << brailleBits[x%2][y%4]
}

// Line lights every dot between two points.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Rows returns one string per cell row.
func (c *Canvas) Rows() []string {
	rows := make([]string, c.rows)
	var line strings.Builder
	for r := range c.rows {
		line.Reset()
		for _, cell := range c.cells[r*c.cols : (r+1)*c.cols] {
			line.WriteRune(rune(0x2800 + int(cell)))
		}
		rows[r] = line.String()
	}
	return rows
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
