package output

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// pumpInterval is how often the silent pump pulls a block.
const pumpInterval = 10 * time.Millisecond

// Silent pulls audio from a producer at the playback rate and discards it.
// It stands in for the audio device when none is wanted.
type Silent struct {
	r       io.Reader
	block   []byte
	paused  atomic.Bool
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
	err     error
}

// NewSilent starts pumping r, initially paused.
func NewSilent(sampleRate, channels int, r io.Reader) *Silent {
	frames := sampleRate * int(pumpInterval) / int(time.Second)
	s := &Silent{
		r:       r,
		block:   make([]byte, frames*channels*BytesPerSample),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	s.paused.Store(true)
	go s.run()
	return s
}

func (s *Silent) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(pumpInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if s.paused.Load() {
				continue
			}
			if _, err := io.ReadFull(s.r, s.block); err != nil {
				if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
					s.err = err
				}
				return
			}
		}
	}
}

func (s *Silent) Play()  { s.paused.Store(false) }
func (s *Silent) Pause() { s.paused.Store(true) }

// Close stops the pump and waits for it to exit.
func (s *Silent) Close() error {
	s.once.Do(func() { close(s.done) })
	<-s.stopped
	return s.err
}
