package synth

import "math"

const (
	sineBits = 10
	sineSize = 1 << sineBits
)

var sineTable = func() [sineSize]float64 {
	var t [sineSize]float64
	for i := range t {
		t[i] = math.Sin(2 * math.Pi * float64(i) / sineSize)
	}
	return t
}()

func sine(phase uint32) float64 {
	return sineTable[phase>>(32-sineBits)]
}

// phaseStep is the per-sample phase increment of freq at rate.
func phaseStep(freq float64, rate int) uint32 {
	return uint32(freq / float64(rate) * (1 << 32))
}

func noteFreq(note int) float64 {
	return 440 * math.Pow(2, float64(note-69)/12)
}

type voice interface {
	trigger(note int)
	next() int16
	// sinceCycle returns the samples elapsed since the waveform last
	// started a cycle.
	sinceCycle() int
}

// fmVoice is a two-operator phase-modulation voice.
type fmVoice struct {
	rate  int
	ratio float64 // modulator frequency / carrier frequency
	index float64 // modulation depth at full envelope
	decay float64 // per-sample envelope factor
	amp   float64

	carrier, modulator uint32
	cStep, mStep       uint32
	env                float64
}

func newFMVoice(rate int, ratio, index, decaySeconds, amp float64) *fmVoice {
	return &fmVoice{
		rate:  rate,
		ratio: ratio,
		index: index,
		decay: math.Pow(0.001, 1/(decaySeconds*float64(rate))),
		amp:   amp,
	}
}

func (v *fmVoice) trigger(note int) {
	f := noteFreq(note)
	v.cStep = phaseStep(f, v.rate)
	v.mStep = phaseStep(f*v.ratio, v.rate)
	v.carrier, v.modulator = 0, 0
	v.env = 1
}

func (v *fmVoice) next() int16 {
	if v.cStep == 0 {
		return 0
	}
	mod := v.index * v.env * sine(v.modulator)
	out := math.Sin(2*math.Pi*float64(v.carrier)/(1<<32)+mod) * v.env * v.amp
	v.carrier += v.cStep
	v.modulator += v.mStep
	v.env *= v.decay
	return int16(out)
}

func (v *fmVoice) sinceCycle() int {
	if v.cStep == 0 {
		return 0
	}
	return int(v.carrier / v.cStep)
}

// ssgVoice is a square-wave voice with a linear volume envelope.
type ssgVoice struct {
	rate    int
	amp     float64
	release float64 // per-sample volume decrement

	phase, step uint32
	env         float64
}

func newSSGVoice(rate int, releaseSeconds, amp float64) *ssgVoice {
	return &ssgVoice{
		rate:    rate,
		amp:     amp,
		release: 1 / (releaseSeconds * float64(rate)),
	}
}

func (v *ssgVoice) trigger(note int) {
	v.step = phaseStep(noteFreq(note), v.rate)
	v.phase = 0
	v.env = 1
}

func (v *ssgVoice) next() int16 {
	if v.step == 0 || v.env <= 0 {
		return 0
	}
	level := v.env * v.amp
	if v.phase >= 1<<31 {
		level = -level
	}
	v.phase += v.step
	v.env -= v.release
	return int16(level)
}

func (v *ssgVoice) sinceCycle() int {
	if v.step == 0 {
		return 0
	}
	return int(v.phase / v.step)
}
