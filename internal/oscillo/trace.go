// Package oscillo holds the per-channel waveform traces an audio producer
// publishes and the lock-free exchange that hands them to a display loop.
package oscillo

const (
	// SampleCount is the capacity of every channel trace.
	SampleCount = 2048

	// OffsetShift converts a trace offset into a sample displacement.
	OffsetShift = 20

	// TrackCount is the number of channels in a snapshot: six FM, three SSG
	// and two extended FM channels.
	TrackCount = 11
)

// ChannelTrace is one channel's most recent SampleCount samples, oldest first,
// plus the backward displacement of its trigger point.
type ChannelTrace struct {
	Samples [SampleCount]int16

	// Offset is the number of samples since the channel's last cycle start,
	// shifted left by OffsetShift.
	Offset uint32
}

// OffsetFor encodes a sample displacement as a trace offset. Displacements
// that do not fit are saturated.
func OffsetFor(samples int) uint32 {
	if samples <= 0 {
		return 0
	}
	const limit = int(^uint32(0) >> OffsetShift)
	if samples > limit {
		samples = limit
	}
	return uint32(samples) << OffsetShift
}

// Displacement returns the trigger displacement in samples.
func (t *ChannelTrace) Displacement() int {
	return int(t.Offset >> OffsetShift)
}

// Reset zero-fills the trace.
func (t *ChannelTrace) Reset() {
	*t = ChannelTrace{}
}

// Snapshot is a complete set of channel traces taken at one point in time.
// It is a value type so that assigning one copies every sample.
type Snapshot [TrackCount]ChannelTrace

// Reset zero-fills every trace.
func (s *Snapshot) Reset() {
	*s = Snapshot{}
}
