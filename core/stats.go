package core

import "sync/atomic"

// Stats counts engine activity. The engine writes from its own loop; the
// counters may be read from any goroutine.
type Stats struct {
	bytesReceived    uint32
	framesDispatched uint32
	overflows        uint32
	unknownCommands  uint32
	malformedArgs    uint32
	streamTicks      uint32
	recordings       uint32
	samplesRecorded  uint32
	deadlineOverruns uint32
	panics           uint32
	writeErrors      uint32
}

// StatsSnapshot is a point-in-time copy of Stats
type StatsSnapshot struct {
	BytesReceived    uint32
	FramesDispatched uint32
	Overflows        uint32
	UnknownCommands  uint32
	MalformedArgs    uint32
	StreamTicks      uint32
	Recordings       uint32
	SamplesRecorded  uint32
	DeadlineOverruns uint32
	Panics           uint32
	WriteErrors      uint32
}

func (s *Stats) add(counter *uint32, n uint32) {
	atomic.AddUint32(counter, n)
}

// Snapshot copies every counter
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		BytesReceived:    atomic.LoadUint32(&s.bytesReceived),
		FramesDispatched: atomic.LoadUint32(&s.framesDispatched),
		Overflows:        atomic.LoadUint32(&s.overflows),
		UnknownCommands:  atomic.LoadUint32(&s.unknownCommands),
		MalformedArgs:    atomic.LoadUint32(&s.malformedArgs),
		StreamTicks:      atomic.LoadUint32(&s.streamTicks),
		Recordings:       atomic.LoadUint32(&s.recordings),
		SamplesRecorded:  atomic.LoadUint32(&s.samplesRecorded),
		DeadlineOverruns: atomic.LoadUint32(&s.deadlineOverruns),
		Panics:           atomic.LoadUint32(&s.panics),
		WriteErrors:      atomic.LoadUint32(&s.writeErrors),
	}
}
