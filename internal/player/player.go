// Package player plays an audio file and taps its PCM into oscilloscope traces.
package player

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/olivier-w/oscilloview/internal/oscillo"
	"github.com/olivier-w/oscilloview/internal/output"
	"github.com/olivier-w/oscilloview/internal/util"
)

const monitorInterval = 200 * time.Millisecond

// Player plays one file through a sink, publishing its traces on every read.
type Player struct {
	file        *os.File
	decoder     audioDecoder
	tap         *tap
	sink        output.Sink
	meta        Metadata
	mute        bool
	bytesPerSec int
	duration    time.Duration

	mu     sync.Mutex
	paused bool
	closed bool
	done   chan struct{}
	stop   chan struct{}
}

// New opens path and starts playing it, publishing into ex.
func New(path string, ex *oscillo.Exchange, mute bool) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := newDecoder(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	p := &Player{
		file:        f,
		decoder:     dec,
		tap:         newTap(dec, dec.ChannelCount(), ex),
		meta:        ReadMetadata(path),
		mute:        mute,
		bytesPerSec: dec.SampleRate() * dec.ChannelCount() * output.BytesPerSample,
	}
	if p.bytesPerSec > 0 {
		p.duration = time.Duration(float64(dec.Length()) / float64(p.bytesPerSec) * float64(time.Second))
	}

	if err := p.start(); err != nil {
		f.Close()
		return nil, fmt.Errorf("playing %s: %w", p.meta.Title, err)
	}
	return p, nil
}

// start opens a fresh sink on the tap and begins monitoring for the end of
// the file. Callers hold mu or own p exclusively.
func (p *Player) start() error {
	sink, err := output.Open(p.mute, p.decoder.SampleRate(), p.decoder.ChannelCount(), p.tap)
	if err != nil {
		return err
	}
	p.sink = sink
	p.done = make(chan struct{})
	p.stop = make(chan struct{})
	p.paused = false
	sink.Play()
	go p.monitor(p.done, p.stop)
	return nil
}

func (p *Player) monitor(done, stop chan struct{}) {
	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !p.Paused() && p.tap.Pos() >= p.decoder.Length() {
				close(done)
				return
			}
		}
	}
}

// Done returns a channel that closes when playback reaches the end.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Restart plays the file again from the beginning with a new Done channel.
func (p *Player) Restart() error {
	return p.seekTo(0)
}

// Seek moves playback by delta, clamped to the file.
func (p *Player) Seek(delta time.Duration) error {
	bytes := int64(delta.Seconds() * float64(p.bytesPerSec))
	return p.seekTo(p.tap.Pos() + bytes)
}

func (p *Player) seekTo(pos int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	wasPaused := p.paused

	close(p.stop)
	p.sink.Close()

	frame := int64(p.decoder.ChannelCount() * output.BytesPerSample)
	pos = clampSeekOffset(pos, io.SeekStart, 0, p.decoder.Length(), frame)
	if _, err := p.decoder.Seek(pos, io.SeekStart); err != nil {
		p.abandon()
		return fmt.Errorf("seeking: %w", err)
	}
	p.tap.SetPos(pos)

	if err := p.start(); err != nil {
		p.abandon()
		return err
	}
	if wasPaused {
		p.sink.Pause()
		p.paused = true
	}
	return nil
}

// abandon marks the player closed after its sink was torn down and could not
// be replaced.
func (p *Player) abandon() {
	p.closed = true
	p.file.Close()
}

func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if p.paused {
		p.sink.Play()
	} else {
		p.sink.Pause()
	}
	p.paused = !p.paused
}

func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position returns the playback position.
func (p *Player) Position() time.Duration {
	if p.bytesPerSec == 0 {
		return 0
	}
	return time.Duration(float64(p.tap.Pos()) / float64(p.bytesPerSec) * float64(time.Second))
}

func (p *Player) Duration() time.Duration { return p.duration }

func (p *Player) Metadata() Metadata { return p.meta }

func (p *Player) Title() string { return p.meta.String() }

// Status shows elapsed and total time.
func (p *Player) Status() string {
	return util.FormatDuration(p.Position()) + " / " + util.FormatDuration(p.duration)
}

// Close stops playback and closes the file. It is safe to call more than once.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.stop)
	err := p.sink.Close()
	if cerr := p.file.Close(); err == nil {
		err = cerr
	}
	return err
}
