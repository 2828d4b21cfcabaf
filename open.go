package main

import (
	"fmt"
	"os"

	"github.com/olivier-w/oscilloview/internal/display"
	"github.com/olivier-w/oscilloview/internal/media"
	"github.com/olivier-w/oscilloview/internal/oscillo"
	"github.com/olivier-w/oscilloview/internal/player"
	"github.com/olivier-w/oscilloview/internal/synth"
	"github.com/olivier-w/oscilloview/internal/ui"
)

// openSource starts the producer publishing into ex: the synth when path is
// empty, otherwise the file at path. It also returns the channel names that
// suit the producer.
func openSource(path string, ex *oscillo.Exchange, cfg options) (ui.Source, display.Preset, error) {
	if path == "" {
		s, err := synth.Start(ex, synth.Options{Tempo: cfg.tempo}, cfg.mute)
		if err != nil {
			return nil, display.Preset{}, err
		}
		return s, display.SynthPreset(oscillo.TrackCount), nil
	}

	if err := media.CheckPath(path); err != nil {
		return nil, display.Preset{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, display.Preset{}, fmt.Errorf("cannot open %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, display.Preset{}, fmt.Errorf("%s is a directory", path)
	}

	p, err := player.New(path, ex, cfg.mute)
	if err != nil {
		return nil, display.Preset{}, err
	}
	return p, display.StereoPreset(), nil
}
