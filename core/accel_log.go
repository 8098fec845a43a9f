package core

// Triple is one accelerometer sample in raw counts
type Triple [3]int16

// AccelLog is a fixed-capacity linear store of accelerometer samples. It is
// allocated once and overwritten wholesale by each recording.
type AccelLog struct {
	data     []Triple
	cursor   int
	recorded int
}

// NewAccelLog allocates a log holding capacity triples
func NewAccelLog(capacity int) *AccelLog {
	if capacity < 0 {
		capacity = 0
	}
	return &AccelLog{data: make([]Triple, capacity)}
}

// Capacity returns the fixed number of triples the log holds
func (l *AccelLog) Capacity() int {
	return len(l.data)
}

// ResetAndBeginWrite rewinds the write cursor and discards the previous recording
func (l *AccelLog) ResetAndBeginWrite() {
	l.cursor = 0
	l.recorded = 0
}

// Append stores t at the cursor. Returns false once the log is full.
func (l *AccelLog) Append(t Triple) bool {
	if l.cursor >= len(l.data) {
		return false
	}
	l.data[l.cursor] = t
	l.cursor++
	return true
}

// Finish ends the run, keeping the first n triples. n is clamped to what
// was actually written.
func (l *AccelLog) Finish(n int) {
	if n < 0 {
		n = 0
	}
	if n > l.cursor {
		n = l.cursor
	}
	l.recorded = n
}

// Len returns the number of triples recorded by the last finished run
func (l *AccelLog) Len() int {
	return l.recorded
}

// At returns triple i of the last finished run
func (l *AccelLog) At(i int) Triple {
	return l.data[i]
}
