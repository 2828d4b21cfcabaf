package display

import "fmt"

// Preset supplies the default label and visibility of each channel.
type Preset struct {
	Labels  []string
	Visible int // channels below this index start visible
}

// Label returns the default label for channel i.
func (p Preset) Label(i int) string {
	if i >= 0 && i < len(p.Labels) {
		return p.Labels[i]
	}
	return fmt.Sprintf("Track %d", i)
}

// SynthPreset names six FM channels, three SSG channels and any further
// channels as extended FM, with the first nine visible.
func SynthPreset(n int) Preset {
	labels := make([]string, n)
	for i := range labels {
		switch {
		case i < 6:
			labels[i] = fmt.Sprintf("FM %d", i)
		case i < 9:
			labels[i] = fmt.Sprintf("SSG %d", i-6)
		default:
			labels[i] = fmt.Sprintf("FM %d", i-3)
		}
	}
	return Preset{Labels: labels, Visible: 9}
}

// StereoPreset names the traces of a decoded stereo file.
func StereoPreset() Preset {
	return Preset{
		Labels:  []string{"Left", "Right", "Mid", "Side"},
		Visible: 4,
	}
}
