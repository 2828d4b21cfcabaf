package window

import (
	"slices"
	"testing"

	"github.com/olivier-w/oscilloview/internal/oscillo"
)

func rampTrace(offset uint32) *oscillo.ChannelTrace {
	t := &oscillo.ChannelTrace{Offset: offset}
	for i := range t.Samples {
		t.Samples[i] = int16(i)
	}
	return t
}

func TestExtractStartWithoutOffset(t *testing.T) {
	w := Extract(rampTrace(0), DefaultOptions())
	if got := w.Start(); got != 1024 {
		t.Fatalf("expected start 1024, got %d", got)
	}
	if got := w.Len(); got != 512 {
		t.Fatalf("expected 512 points, got %d", got)
	}
}

func TestExtractStartMovesBackByDisplacement(t *testing.T) {
	w := Extract(rampTrace(oscillo.OffsetFor(100)), DefaultOptions())
	if got := w.Start(); got != 924 {
		t.Fatalf("expected start 924, got %d", got)
	}
}

func TestExtractClampsStartToZero(t *testing.T) {
	w := Extract(rampTrace(oscillo.OffsetFor(1500)), DefaultOptions())
	if got := w.Start(); got != 0 {
		t.Fatalf("expected start clamped to 0, got %d", got)
	}
	if got := w.Len(); got != 512 {
		t.Fatalf("expected clamped window to keep 512 points, got %d", got)
	}
	last := w.At(w.Len() - 1)
	if last.Y*DefaultFullScale != 1022 {
		t.Fatalf("expected last point from sample 1022, got %v", last.Y*DefaultFullScale)
	}
}

func TestExtractClampsLengthAndStride(t *testing.T) {
	w := Extract(rampTrace(0), Options{Length: 5000, Stride: 0})
	if w.Start() != 0 || w.Len() != oscillo.SampleCount {
		t.Fatalf("expected full-capacity window, got start %d len %d", w.Start(), w.Len())
	}
	if w.Options().FullScale != DefaultFullScale {
		t.Fatalf("expected default full scale, got %v", w.Options().FullScale)
	}

	w = Extract(rampTrace(0), Options{Length: 4, Stride: 10})
	if w.Len() != 1 {
		t.Fatalf("expected stride clamped to length leaving one point, got %d", w.Len())
	}

	w = Extract(rampTrace(0), Options{Length: 0, Stride: 2})
	if w.Len() != 0 {
		t.Fatalf("expected empty window, got %d points", w.Len())
	}
	for range w.All() {
		t.Fatal("expected no points from an empty window")
	}
}

func TestPointsAreDecimatedAndScaled(t *testing.T) {
	tr := rampTrace(0)
	tr.Samples[1024] = 16384
	tr.Samples[1026] = -8192

	pts := Extract(tr, DefaultOptions()).Points(nil)
	if pts[0] != (Point{X: 0, Y: 1}) {
		t.Fatalf("expected first point (0,1), got %+v", pts[0])
	}
	if pts[1].X != 1.0/512 || pts[1].Y != -0.5 {
		t.Fatalf("expected second point (1/512,-0.5), got %+v", pts[1])
	}
}

func TestFullScaleIsConfigurable(t *testing.T) {
	tr := rampTrace(0)
	tr.Samples[1024] = 16384
	w := Extract(tr, Options{Length: 1024, Stride: 2, FullScale: 32768})
	if got := w.At(0).Y; got != 0.5 {
		t.Fatalf("expected 0.5 with 32768 full scale, got %v", got)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	tr := rampTrace(oscillo.OffsetFor(37))
	a := Extract(tr, DefaultOptions()).Points(nil)
	b := Extract(tr, DefaultOptions()).Points(nil)
	if !slices.Equal(a, b) {
		t.Fatal("expected identical output for the same trace")
	}

	w := Extract(tr, DefaultOptions())
	var first, second []float64
	for _, y := range w.All() {
		first = append(first, y)
	}
	for _, y := range w.All() {
		second = append(second, y)
	}
	if !slices.Equal(first, second) {
		t.Fatal("expected the sequence to restart identically")
	}
}

func TestPeak(t *testing.T) {
	tr := &oscillo.ChannelTrace{}
	tr.Samples[1500] = -12288
	tr.Samples[1600] = 4096
	if got := Extract(tr, DefaultOptions()).Peak(); got != 0.75 {
		t.Fatalf("expected peak 0.75, got %v", got)
	}
}
