package synth

import (
	"fmt"
	"sync"

	"github.com/olivier-w/oscilloview/internal/oscillo"
	"github.com/olivier-w/oscilloview/internal/output"
)

// Synth is a running engine attached to an audio sink.
type Synth struct {
	engine *Engine
	sink   output.Sink
	tempo  float64

	mu     sync.Mutex
	paused bool
	closed bool
}

// Start builds an engine publishing into ex and starts playing it, on the
// audio device or silently when mute is set.
func Start(ex *oscillo.Exchange, opts Options, mute bool) (*Synth, error) {
	e := New(ex, opts)
	sink, err := output.Open(mute, SampleRate, ChannelCount, e)
	if err != nil {
		return nil, fmt.Errorf("starting synth: %w", err)
	}
	sink.Play()
	return &Synth{engine: e, sink: sink, tempo: e.seq.tempo()}, nil
}

func (s *Synth) Title() string { return "FM synth" }

// Status describes the tempo and sequencer position.
func (s *Synth) Status() string {
	return fmt.Sprintf("%.0f bpm  step %2d/%d", s.tempo, s.engine.Step()+1, patternSteps)
}

func (s *Synth) TogglePause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.paused {
		s.sink.Play()
	} else {
		s.sink.Pause()
	}
	s.paused = !s.paused
}

func (s *Synth) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Close stops the sink. It is safe to call more than once.
func (s *Synth) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.sink.Close()
}
