// Package synth is a small FM and square-wave synthesiser that plays a fixed
// pattern and publishes one trace per voice for the oscilloscope.
package synth

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/olivier-w/oscilloview/internal/oscillo"
)

const (
	SampleRate   = 44100
	ChannelCount = 2

	DefaultTempo = 120.0

	voiceAmp   = 12000
	masterGain = 0.3
	frameBytes = ChannelCount * 2
)

// Options configures the engine.
type Options struct {
	Tempo float64 // beats per minute; the sequencer steps in sixteenths
}

// Engine renders interleaved 16-bit stereo audio through Read and publishes
// every voice's recent output after each block. Read is meant to be called
// from a single real-time goroutine; it never blocks.
type Engine struct {
	exchange *oscillo.Exchange

	voices [oscillo.TrackCount]voice
	rings  [oscillo.TrackCount]oscillo.Ring
	snap   oscillo.Snapshot
	block  [oscillo.TrackCount][]int16

	seq  sequencer
	step atomic.Int64
}

// New builds an engine publishing into ex.
func New(ex *oscillo.Exchange, opts Options) *Engine {
	if opts.Tempo <= 0 {
		opts.Tempo = DefaultTempo
	}
	e := &Engine{
		exchange: ex,
		seq:      newSequencer(SampleRate, opts.Tempo),
	}
	for i := range e.voices {
		e.voices[i] = newVoice(i)
	}
	return e
}

func newVoice(i int) voice {
	switch {
	case i < 6:
		return newFMVoice(SampleRate, fmRatios[i], fmIndexes[i], 0.6, voiceAmp)
	case i < 9:
		return newSSGVoice(SampleRate, 0.25, voiceAmp*0.6)
	default:
		return newFMVoice(SampleRate, 0.5, 1.2, 1.5, voiceAmp)
	}
}

var (
	fmRatios  = [6]float64{1, 2, 1, 3, 0.5, 3.5}
	fmIndexes = [6]float64{1.5, 0.8, 2.5, 1.0, 3.0, 2.0}
)

// Read renders len(p)/4 stereo frames.
func (e *Engine) Read(p []byte) (int, error) {
	frames := len(p) / frameBytes
	for i := range e.block {
		if cap(e.block[i]) < frames {
			e.block[i] = make([]int16, frames)
		}
		e.block[i] = e.block[i][:frames]
	}

	for f := range frames {
		if notes, ok := e.seq.advance(); ok {
			for v, note := range notes {
				if note > 0 && v < len(e.voices) {
					e.voices[v].trigger(note)
				}
			}
			e.step.Store(int64(e.seq.step))
		}

		var sum float64
		for v, vc := range e.voices {
			s := vc.next()
			e.block[v][f] = s
			sum += float64(s)
		}
		out := clamp16(sum * masterGain)
		binary.LittleEndian.PutUint16(p[f*frameBytes:], uint16(out))
		binary.LittleEndian.PutUint16(p[f*frameBytes+2:], uint16(out))
	}

	e.publish()
	return frames * frameBytes, nil
}

func (e *Engine) publish() {
	for v := range e.voices {
		e.rings[v].Write(e.block[v])
		e.rings[v].Fill(&e.snap[v])
		e.snap[v].Offset = oscillo.OffsetFor(e.voices[v].sinceCycle())
	}
	e.exchange.Publish(&e.snap)
}

// Step returns the sequencer position, safe to call from any goroutine.
func (e *Engine) Step() int {
	return int(e.step.Load())
}

func clamp16(v float64) int16 {
	switch {
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	}
	return int16(v)
}
