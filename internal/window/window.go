// Package window turns a channel trace into the fixed-length run of points a
// renderer plots.
package window

import (
	"iter"
	"math"

	"github.com/olivier-w/oscilloview/internal/oscillo"
)

const (
	DefaultLength    = 1024
	DefaultStride    = 2
	DefaultFullScale = 16384.0
)

// Options selects the visible part of a trace.
type Options struct {
	Length    int     // visible samples
	Stride    int     // decimation factor
	FullScale float64 // amplitude that maps to ±1
}

// DefaultOptions returns a 1024-sample window plotted every other sample.
func DefaultOptions() Options {
	return Options{
		Length:    DefaultLength,
		Stride:    DefaultStride,
		FullScale: DefaultFullScale,
	}
}

func (o Options) normalized() Options {
	if o.Length > oscillo.SampleCount {
		o.Length = oscillo.SampleCount
	}
	if o.Length < 0 {
		o.Length = 0
	}
	if o.Stride <= 0 {
		o.Stride = 1
	}
	if o.Length > 0 && o.Stride > o.Length {
		o.Stride = o.Length
	}
	if o.FullScale <= 0 {
		o.FullScale = DefaultFullScale
	}
	return o
}

// Point is one plotted sample: X in [0,1) across the panel, Y the amplitude
// divided by the full scale.
type Point struct {
	X float64
	Y float64
}

// Window is the visible slice of one trace. It reads the trace lazily, so the
// trace must not change while the window is in use.
type Window struct {
	trace *oscillo.ChannelTrace
	opts  Options
	start int
	count int
}

// Extract selects the visible window of t. The window ends Length samples
// plus the trace's trigger displacement before the newest sample; when the
// displacement would run past the oldest sample the window starts at zero.
func Extract(t *oscillo.ChannelTrace, o Options) Window {
	o = o.normalized()
	w := Window{trace: t, opts: o}
	if o.Length == 0 {
		return w
	}
	start := oscillo.SampleCount - o.Length - t.Displacement()
	if start < 0 {
		start = 0
	}
	w.start = start
	w.count = o.Length / o.Stride
	return w
}

// Start returns the index of the first visible sample.
func (w Window) Start() int { return w.start }

// Len returns the number of points.
func (w Window) Len() int { return w.count }

// Options returns the normalized options the window was extracted with.
func (w Window) Options() Options { return w.opts }

// At returns point i.
func (w Window) At(i int) Point {
	return Point{
		X: float64(i) / float64(w.count),
		Y: float64(w.trace.Samples[w.start+i*w.opts.Stride]) / w.opts.FullScale,
	}
}

// All yields (x, y) for every point in order. It can be ranged over any
// number of times.
func (w Window) All() iter.Seq2[float64, float64] {
	return func(yield func(float64, float64) bool) {
		for i := range w.count {
			p := w.At(i)
			if !yield(p.X, p.Y) {
				return
			}
		}
	}
}

// Points appends every point to dst.
func (w Window) Points(dst []Point) []Point {
	for i := range w.count {
		dst = append(dst, w.At(i))
	}
	return dst
}

// Peak returns the largest absolute amplitude in the window.
func (w Window) Peak() float64 {
	var peak float64
	for _, y := range w.All() {
		peak = math.Max(peak, math.Abs(y))
	}
	return peak
}
