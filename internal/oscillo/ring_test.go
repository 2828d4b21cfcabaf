package oscillo

import "testing"

func TestRingFillPadsUntilFull(t *testing.T) {
	var r Ring
	r.Write([]int16{1, 2, 3})

	var tr ChannelTrace
	tr.Samples[0] = 42
	r.Fill(&tr)

	if tr.Samples[0] != 0 {
		t.Fatalf("expected zero padding at the front, got %d", tr.Samples[0])
	}
	tail := tr.Samples[SampleCount-3:]
	if tail[0] != 1 || tail[1] != 2 || tail[2] != 3 {
		t.Fatalf("expected most recent samples at the end, got %v", tail)
	}
}

func TestRingFillIsChronologicalAfterWrap(t *testing.T) {
	var r Ring
	for i := range SampleCount + 10 {
		r.WriteSample(int16(i % 30000))
	}
	if r.Len() != SampleCount {
		t.Fatalf("expected full ring, got len %d", r.Len())
	}

	var tr ChannelTrace
	r.Fill(&tr)
	if tr.Samples[0] != 10 {
		t.Fatalf("expected oldest sample 10, got %d", tr.Samples[0])
	}
	if last := tr.Samples[SampleCount-1]; last != SampleCount+9 {
		t.Fatalf("expected newest sample %d, got %d", SampleCount+9, last)
	}
}

func TestRingWriteLongerThanCapacity(t *testing.T) {
	var r Ring
	r.Write([]int16{5})
	p := make([]int16, SampleCount+4)
	for i := range p {
		p[i] = int16(i)
	}
	r.Write(p)

	var tr ChannelTrace
	r.Fill(&tr)
	if tr.Samples[0] != 4 || tr.Samples[SampleCount-1] != SampleCount+3 {
		t.Fatalf("expected last %d samples of the write, got first %d last %d",
			SampleCount, tr.Samples[0], tr.Samples[SampleCount-1])
	}
}

func TestOffsetForRoundTrips(t *testing.T) {
	tr := ChannelTrace{Offset: OffsetFor(64)}
	if got := tr.Displacement(); got != 64 {
		t.Fatalf("expected displacement 64, got %d", got)
	}
	if OffsetFor(-3) != 0 {
		t.Fatal("expected negative displacement to encode as zero")
	}
	if got := (&ChannelTrace{Offset: OffsetFor(1 << 30)}).Displacement(); got != 4095 {
		t.Fatalf("expected saturated displacement 4095, got %d", got)
	}
}
