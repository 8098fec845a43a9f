package core

import "time"

// Clock is the engine's view of a monotonic microsecond timer.
//
// WaitUntil spins until the deadline has passed. It occupies the caller for
// up to one sample period and never yields; sample spacing depends on it.
// Sleep is the coarse idle wait used between ticks and during the arming
// countdown.
type Clock interface {
	Micros() uint64
	WaitUntil(deadline uint64)
	Sleep(d time.Duration)
}

// Stopwatch measures intervals against a Clock. The engine keeps one for
// logging and one for streaming so neither run disturbs the other.
type Stopwatch struct {
	clock Clock
	start uint64
	event uint8
}

// NewStopwatch creates a started stopwatch. event tags the deadline
// overruns it records in the timing ring.
func NewStopwatch(clock Clock, event uint8) *Stopwatch {
	return &Stopwatch{clock: clock, start: clock.Micros(), event: event}
}

// Reset restarts the interval at the current time
func (s *Stopwatch) Reset() {
	s.start = s.clock.Micros()
}

// Elapsed returns microseconds since the last Reset
func (s *Stopwatch) Elapsed() uint64 {
	return s.clock.Micros() - s.start
}

// WaitFor blocks until us microseconds have passed since the last Reset.
// Returns false if the deadline had already passed on entry.
func (s *Stopwatch) WaitFor(us uint64) bool {
	deadline := s.start + us
	now := s.clock.Micros()
	if now > deadline {
		RecordTiming(EvtDeadlineMiss, s.event, uint32(now), uint32(now-deadline), uint32(us))
		return false
	}
	s.clock.WaitUntil(deadline)
	return true
}
