package visualizer

import (
	"math"

	"github.com/olivier-w/oscilloview/internal/window"
)

// Trace plots a channel window as a connected braille line. Amplitude +1 is
// the top dot row and -1 the bottom one; larger amplitudes are drawn at the
// edge.
type Trace struct {
	canvas Canvas
}

// Render draws w into a cols×rows cell area. An empty window yields blank rows.
func (t *Trace) Render(w window.Window, cols, rows int) []string {
	t.canvas.Resize(cols, rows)
	dw, dh := t.canvas.Dots()
	if dw == 0 || dh == 0 {
		return t.canvas.Rows()
	}

	first := true
	var px, py int
	for x, y := range w.All() {
		cx := min(int(x*float64(dw)), dw-1)
		cy := ampToDot(y, dh)
		if first {
			t.canvas.Set(cx, cy)
			first = false
		} else {
			t.canvas.Line(px, py, cx, cy)
		}
		px, py = cx, cy
	}
	return t.canvas.Rows()
}

func ampToDot(amp float64, height int) int {
	if height <= 1 {
		return 0
	}
	v := clamp01((1 - amp) / 2)
	return int(math.Round(v * float64(height-1)))
}

func clamp01(v float64) float64 {
	return max(0, min(v, 1))
}
