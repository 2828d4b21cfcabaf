package player

import (
	"encoding/binary"
	"io"
	"sync/atomic"

	"github.com/olivier-w/oscilloview/internal/oscillo"
)

// Trace slots a file fills. The remaining snapshot channels stay silent.
const (
	TraceLeft = iota
	TraceRight
	TraceMid
	TraceSide
	TraceCount
)

// tap sits between the decoder and the audio sink. Every Read passes the PCM
// through untouched, records it into per-trace rings and publishes a snapshot.
// Read runs on the audio goroutine and does not allocate or block.
type tap struct {
	src      io.Reader
	exchange *oscillo.Exchange
	channels int
	frame    int

	pos   atomic.Int64
	carry []byte

	rings [TraceCount]oscillo.Ring
	since [TraceCount]int
	prev  [TraceCount]int16
	snap  oscillo.Snapshot
}

func newTap(src io.Reader, channels int, ex *oscillo.Exchange) *tap {
	channels = max(channels, 1)
	frame := channels * 2
	return &tap{
		src:      src,
		exchange: ex,
		channels: channels,
		frame:    frame,
		carry:    make([]byte, 0, frame),
	}
}

func (t *tap) Read(p []byte) (int, error) {
	n, err := t.src.Read(p)
	if n > 0 {
		t.pos.Add(int64(n))
		t.feed(p[:n])
		t.publish()
	}
	return n, err
}

// Pos returns the number of PCM bytes passed through.
func (t *tap) Pos() int64 { return t.pos.Load() }

// SetPos moves the byte counter after a seek and drops any partial frame.
// The sink must not be reading.
func (t *tap) SetPos(pos int64) {
	t.pos.Store(pos)
	t.carry = t.carry[:0]
}

// feed splits b into frames, holding back a trailing partial frame until the
// next Read completes it.
func (t *tap) feed(b []byte) {
	if len(t.carry) > 0 {
		need := t.frame - len(t.carry)
		if len(b) < need {
			t.carry = append(t.carry, b...)
			return
		}
		t.carry = append(t.carry, b[:need]...)
		t.record(t.carry)
		t.carry = t.carry[:0]
		b = b[need:]
	}
	for len(b) >= t.frame {
		t.record(b[:t.frame])
		b = b[t.frame:]
	}
	t.carry = append(t.carry, b...)
}

func (t *tap) record(f []byte) {
	l := int(int16(binary.LittleEndian.Uint16(f)))
	r := l
	if t.channels > 1 {
		r = int(int16(binary.LittleEndian.Uint16(f[2:])))
	}
	t.push(TraceLeft, int16(l))
	t.push(TraceRight, int16(r))
	t.push(TraceMid, int16((l+r)/2))
	t.push(TraceSide, int16((l-r)/2))
}

// push records one sample and restarts the trace's trigger count on a rising
// zero crossing.
func (t *tap) push(i int, v int16) {
	t.rings[i].WriteSample(v)
	if t.prev[i] < 0 && v >= 0 {
		t.since[i] = 0
	} else if t.since[i] < oscillo.SampleCount {
		t.since[i]++
	}
	t.prev[i] = v
}

func (t *tap) publish() {
	for i := range TraceCount {
		t.rings[i].Fill(&t.snap[i])
		t.snap[i].Offset = oscillo.OffsetFor(t.since[i])
	}
	t.exchange.Publish(&t.snap)
}
