package oscillo

// Ring is a circular sample history of SampleCount samples. It belongs to a
// single producer and is not safe for concurrent use.
type Ring struct {
	buf [SampleCount]int16
	w   int // write position
	len int // current fill level
}

// Write appends samples, overwriting the oldest once full.
func (r *Ring) Write(p []int16) {
	if len(p) >= SampleCount {
		copy(r.buf[:], p[len(p)-SampleCount:])
		r.w = 0
		r.len = SampleCount
		return
	}
	n := copy(r.buf[r.w:], p)
	if n < len(p) {
		copy(r.buf[:], p[n:])
	}
	r.w = (r.w + len(p)) % SampleCount
	r.len += len(p)
	if r.len > SampleCount {
		r.len = SampleCount
	}
}

// WriteSample appends a single sample.
func (r *Ring) WriteSample(v int16) {
	r.buf[r.w] = v
	r.w = (r.w + 1) % SampleCount
	if r.len < SampleCount {
		r.len++
	}
}

// Len returns the number of samples written, up to SampleCount.
func (r *Ring) Len() int {
	return r.len
}

// Fill copies the history into t.Samples in chronological order ending with
// the most recent sample. Slots not yet written are zero at the front.
func (r *Ring) Fill(t *ChannelTrace) {
	pad := SampleCount - r.len
	clear(t.Samples[:pad])
	start := (r.w - r.len + SampleCount) % SampleCount
	n := copy(t.Samples[pad:], r.buf[start:min(start+r.len, SampleCount)])
	copy(t.Samples[pad+n:], r.buf[:r.len-n])
}

// Reset empties the history.
func (r *Ring) Reset() {
	r.w = 0
	r.len = 0
}
