package ui

import "time"

// Source is the audio producer behind the scope: the demo synth or a file.
type Source interface {
	Title() string
	Status() string
	TogglePause()
	Paused() bool
	Close() error
}

// Finisher is a Source that reaches an end and can play again.
type Finisher interface {
	Done() <-chan struct{}
	Restart() error
}

// Seeker is a Source that can move its playback position.
type Seeker interface {
	Seek(delta time.Duration) error
}
