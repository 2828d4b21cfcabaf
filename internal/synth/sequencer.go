package synth

import "github.com/olivier-w/oscilloview/internal/oscillo"

// patternSteps is the length of the loop in sixteenth notes.
const patternSteps = 16

// pattern holds the note each voice starts on each step; zero is a rest.
var pattern = [patternSteps][oscillo.TrackCount]int{
	{36, 60, 64, 67, 72, 84, 72, 79, 84, 48, 55},
	{0, 0, 0, 0, 0, 0, 76, 0, 0, 0, 0},
	{48, 0, 0, 0, 74, 0, 79, 83, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 84, 0, 0, 0, 0},
	{33, 57, 60, 64, 76, 0, 69, 76, 81, 45, 52},
	{0, 0, 0, 0, 0, 88, 72, 0, 0, 0, 0},
	{45, 0, 0, 0, 72, 0, 76, 79, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 81, 0, 0, 0, 0},
	{29, 57, 60, 65, 69, 81, 65, 72, 77, 41, 48},
	{0, 0, 0, 0, 0, 0, 69, 0, 0, 0, 0},
	{41, 0, 0, 0, 72, 0, 72, 77, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 77, 0, 0, 0, 0},
	{31, 55, 59, 62, 74, 86, 67, 74, 79, 43, 50},
	{0, 0, 0, 0, 0, 0, 71, 0, 0, 0, 0},
	{43, 0, 0, 0, 71, 0, 74, 79, 83, 0, 0},
	{0, 0, 0, 0, 67, 0, 79, 0, 0, 0, 0},
}

// sequencer counts samples and reports when a new step begins.
type sequencer struct {
	rate           int
	samplesPerStep int
	countdown      int
	step           int
}

func newSequencer(rate int, tempo float64) sequencer {
	per := int(float64(rate) * 60 / tempo / 4)
	if per < 1 {
		per = 1
	}
	return sequencer{rate: rate, samplesPerStep: per, step: -1}
}

// tempo returns the beats per minute the step length works out to.
func (s *sequencer) tempo() float64 {
	return float64(s.rate) * 60 / 4 / float64(s.samplesPerStep)
}

// advance moves one sample forward. It returns the notes of the step that
// starts on this sample, if any.
func (s *sequencer) advance() ([oscillo.TrackCount]int, bool) {
	if s.countdown > 0 {
		s.countdown--
		return [oscillo.TrackCount]int{}, false
	}
	s.countdown = s.samplesPerStep - 1
	s.step = (s.step + 1) % patternSteps
	return pattern[s.step], true
}
