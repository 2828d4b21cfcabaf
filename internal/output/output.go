// Package output drives an audio producer in real time, either through the
// system audio device or through a silent pump that only keeps time.
package output

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// BytesPerSample is the size of one signed 16-bit little-endian sample.
const BytesPerSample = 2

// ErrContextBusy is returned when the audio device was already opened with a
// different format. oto allows one context per process.
var ErrContextBusy = errors.New("audio context already opened with another format")

// Sink pulls audio from a producer at the playback rate.
type Sink interface {
	Play()
	Pause()
	Close() error
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
	otoRate      int
	otoChannels  int
)

func initOto(sampleRate, channels int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
			otoRate, otoChannels = sampleRate, channels
		}
	})
	if otoInitErr != nil {
		return nil, otoInitErr
	}
	if otoRate != sampleRate || otoChannels != channels {
		return nil, fmt.Errorf("%w: have %d Hz x%d, want %d Hz x%d",
			ErrContextBusy, otoRate, otoChannels, sampleRate, channels)
	}
	return globalOtoCtx, nil
}

// Device plays a producer through the system audio device. oto calls the
// producer's Read from its own goroutine; that goroutine is the real-time
// audio path.
type Device struct {
	player *oto.Player
	mu     sync.Mutex
	closed bool
}

// NewDevice opens the audio device for interleaved 16-bit audio read from r.
func NewDevice(sampleRate, channels int, r io.Reader) (*Device, error) {
	ctx, err := initOto(sampleRate, channels)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	p := ctx.NewPlayer(r)
	// About 30 ms of audio keeps the traces close to what is heard.
	p.SetBufferSize(sampleRate * channels * BytesPerSample * 30 / 1000)
	return &Device{player: p}, nil
}

func (d *Device) Play() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.player.Play()
	}
}

func (d *Device) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.player.Pause()
	}
}

// Close stops playback. It is safe to call more than once.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.player.Pause()
	return d.player.Close()
}

// Open starts a sink for r: the audio device, or a silent pump when mute is
// set. The sink starts paused.
func Open(mute bool, sampleRate, channels int, r io.Reader) (Sink, error) {
	if mute {
		return NewSilent(sampleRate, channels, r), nil
	}
	return NewDevice(sampleRate, channels, r)
}
