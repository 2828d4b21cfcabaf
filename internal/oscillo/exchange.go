package oscillo

import "sync/atomic"

// ExchangeStats counts the outcomes of Publish and TryConsume.
type ExchangeStats struct {
	Published uint64 // publishes that reached the shared slot
	Dropped   uint64 // publishes dropped because the consumer held the guard
	Consumed  uint64 // snapshots copied out by the consumer
	Missed    uint64 // consume attempts that found the producer holding the guard
}

// Exchange is a single-slot snapshot hand-off between exactly one producer and
// exactly one consumer. Neither side ever waits: whoever finds the guard taken
// gives up and tries again on its next cycle. The slot is only ever read or
// written while the guard is held, so a consumer never sees a mix of two
// publishes.
//
// Calling Publish from two goroutines, or TryConsume from two goroutines, is a
// contract violation.
type Exchange struct {
	guard atomic.Bool

	// Guarded by guard.
	shared Snapshot
	seq    uint64
	seen   uint64

	published atomic.Uint64
	dropped   atomic.Uint64
	consumed  atomic.Uint64
	missed    atomic.Uint64
}

// NewExchange returns an empty exchange.
func NewExchange() *Exchange {
	return &Exchange{}
}

// Publish copies s into the shared slot. It returns false, leaving the slot
// untouched, when the consumer is reading at that moment.
func (e *Exchange) Publish(s *Snapshot) bool {
	if !e.guard.CompareAndSwap(false, true) {
		e.dropped.Add(1)
		return false
	}
	e.shared = *s
	e.seq++
	e.guard.Store(false)

	e.published.Add(1)
	return true
}

// TryConsume copies the most recently published snapshot into dst whenever
// it acquires the slot. ok is false, leaving dst untouched, when the producer
// is writing at that moment. fresh reports whether a publish landed since the
// previous successful call.
func (e *Exchange) TryConsume(dst *Snapshot) (ok, fresh bool) {
	if !e.guard.CompareAndSwap(false, true) {
		e.missed.Add(1)
		return false, false
	}
	*dst = e.shared
	fresh = e.seq != e.seen
	e.seen = e.seq
	e.guard.Store(false)

	e.consumed.Add(1)
	return true, fresh
}

// Stats returns the counters accumulated so far.
func (e *Exchange) Stats() ExchangeStats {
	return ExchangeStats{
		Published: e.published.Load(),
		Dropped:   e.dropped.Load(),
		Consumed:  e.consumed.Load(),
		Missed:    e.missed.Load(),
	}
}
