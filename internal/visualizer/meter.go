package visualizer

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	meterFrequency = 9.0
	meterDamping   = 0.9
	peakDecay      = 0.02
	dbFloor        = -40.0
)

var (
	meterLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3CE074"))
	meterMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0C648"))
	meterHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#F26056"))
	meterPeak = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFCD2"))
)

// Meter follows one level per channel with spring smoothing and a decaying
// peak hold. Levels are linear amplitudes where 1 is full scale.
type Meter struct {
	field springField
	peak  []float64
}

// NewMeter returns a meter updated fps times a second.
func NewMeter(fps int) *Meter {
	return &Meter{field: newSpringField(fps, meterFrequency, meterDamping)}
}

// Update advances every channel one frame towards levels.
func (m *Meter) Update(levels []float64) {
	m.field.resize(len(levels))
	if len(m.peak) != len(levels) {
		peak := make([]float64, len(levels))
		copy(peak, m.peak)
		m.peak = peak
	}
	for i, target := range levels {
		l := clamp01(m.field.step(i, target))
		if l > m.peak[i] {
			m.peak[i] = l
		} else {
			m.peak[i] = max(0, m.peak[i]-peakDecay)
		}
	}
}

// Level returns the smoothed level of channel i.
func (m *Meter) Level(i int) float64 {
	if i < 0 || i >= len(m.field.pos) {
		return 0
	}
	return clamp01(m.field.pos[i])
}

// Peak returns the held peak of channel i.
func (m *Meter) Peak(i int) float64 {
	if i < 0 || i >= len(m.peak) {
		return 0
	}
	return m.peak[i]
}

// Bar renders channel i as a coloured bar of width cells.
func (m *Meter) Bar(i, width int) string {
	bar := barRunes(m.Level(i), m.Peak(i), width)
	var sb strings.Builder
	for j, ch := range bar {
		var st lipgloss.Style
		switch {
		case ch == '│':
			st = meterPeak
		case j < width*6/10:
			st = meterLow
		case j < width*8/10:
			st = meterMid
		default:
			st = meterHigh
		}
		sb.WriteString(st.Render(string(ch)))
	}
	return sb.String()
}

// levelToFill maps an amplitude onto 0..1 on a dB scale, so quiet channels
// still move the bar.
func levelToFill(level float64) float64 {
	if level < 1e-6 {
		return 0
	}
	db := 20 * math.Log10(level)
	if db < dbFloor {
		return 0
	}
	return min((db-dbFloor)/-dbFloor, 1)
}

func barRunes(level, peak float64, width int) []rune {
	if width <= 0 {
		return nil
	}
	filled := int(levelToFill(level) * float64(width))
	peakPos := min(int(levelToFill(peak)*float64(width)), width-1)

	bar := make([]rune, width)
	for i := range width {
		switch {
		case i < filled:
			bar[i] = '█'
		case i == peakPos && peakPos > 0:
			bar[i] = '│'
		default:
			bar[i] = '─'
		}
	}
	return bar
}
