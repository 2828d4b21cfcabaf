package scope

import "time"

// TickPeriod is the redraw cadence, about 60 Hz.
const TickPeriod = 16 * time.Millisecond

// SchedulerState is Idle while the view is closed and Armed while it is open.
type SchedulerState int

const (
	Idle SchedulerState = iota
	Armed
)

func (s SchedulerState) String() string {
	if s == Armed {
		return "armed"
	}
	return "idle"
}

// Scheduler tracks whether periodic ticks are live. Every Arm and Disarm
// starts a new generation; a tick carries the generation it was scheduled
// under and is honoured only while that generation is current, so a tick
// already in flight when the view closes is ignored.
type Scheduler struct {
	state SchedulerState
	gen   uint64
}

// Arm moves to Armed and returns the generation ticks must carry. Arming an
// armed scheduler returns the current generation.
func (s *Scheduler) Arm() uint64 {
	if s.state == Armed {
		return s.gen
	}
	s.gen++
	s.state = Armed
	return s.gen
}

// Disarm moves to Idle and invalidates every outstanding tick.
func (s *Scheduler) Disarm() {
	if s.state == Idle {
		return
	}
	s.gen++
	s.state = Idle
}

// Accept reports whether a tick of generation gen should run.
func (s *Scheduler) Accept(gen uint64) bool {
	return s.state == Armed && gen == s.gen
}

func (s *Scheduler) State() SchedulerState { return s.state }

func (s *Scheduler) Generation() uint64 { return s.gen }
