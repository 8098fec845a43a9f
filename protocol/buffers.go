package protocol

// ReceiveBuffer accumulates transport bytes and hands out command frames.
// Its length never exceeds its capacity: a push that would overflow empties
// the buffer and drops the pushed bytes, losing any partial frame.
type ReceiveBuffer struct {
	buf   []byte
	n     int
	frame []byte
}

// NewReceiveBuffer creates a ReceiveBuffer bounded to capacity bytes
func NewReceiveBuffer(capacity int) *ReceiveBuffer {
	if capacity <= 0 {
		capacity = DefaultReceiveCapacity
	}
	return &ReceiveBuffer{
		buf:   make([]byte, capacity),
		frame: make([]byte, 0, capacity),
	}
}

// Push appends newly read bytes. Returns false if the buffer overflowed and
// was reset.
func (r *ReceiveBuffer) Push(data []byte) bool {
	if r.n+len(data) > len(r.buf) {
		r.n = 0
		return false
	}
	r.n += copy(r.buf[r.n:], data)
	return true
}

// TryExtractFrame scans from the start of the buffer for the first
// terminator. If found, the bytes up to and including it are removed from the
// buffer and returned. The returned slice is only valid until the next call.
//
// The scan is not quote-aware: a '}' inside a string argument ends the frame.
func (r *ReceiveBuffer) TryExtractFrame() ([]byte, bool) {
	for pos := 0; pos < r.n; pos++ {
		if r.buf[pos] != FrameTerminator {
			continue
		}
		end := pos + 1
		r.frame = append(r.frame[:0], r.buf[:end]...)
		r.Pop(end)
		return r.frame, true
	}
	return nil, false
}

// Data returns the buffered bytes that have not formed a frame yet
func (r *ReceiveBuffer) Data() []byte {
	return r.buf[:r.n]
}

// Available returns the number of buffered bytes
func (r *ReceiveBuffer) Available() int {
	return r.n
}

// Capacity returns the buffer bound
func (r *ReceiveBuffer) Capacity() int {
	return len(r.buf)
}

// Pop removes n bytes from the front, shifting the rest to index 0
func (r *ReceiveBuffer) Pop(n int) {
	if n >= r.n {
		r.n = 0
		return
	}
	copy(r.buf, r.buf[n:r.n])
	r.n -= n
}

// Reset clears the buffer
func (r *ReceiveBuffer) Reset() {
	r.n = 0
}

// ScratchOutput is a fixed-size line buffer for building one response line.
// Output past the end is truncated.
type ScratchOutput struct {
	buf [LineBufferSize]byte
	pos int
}

// NewScratchOutput creates a new ScratchOutput
func NewScratchOutput() *ScratchOutput {
	return &ScratchOutput{}
}

func (s *ScratchOutput) Output(data []byte) {
	n := copy(s.buf[s.pos:], data)
	s.pos += n
}

// OutputString writes a string without converting it to a byte slice first
func (s *ScratchOutput) OutputString(str string) {
	n := copy(s.buf[s.pos:], str)
	s.pos += n
}

// OutputInt writes the decimal form of v
func (s *ScratchOutput) OutputInt(v int) {
	var tmp [12]byte
	s.Output(AppendInt(tmp[:0], v))
}

func (s *ScratchOutput) CurPosition() int {
	return s.pos
}

func (s *ScratchOutput) DataSince(pos int) []byte {
	if pos > s.pos {
		return nil
	}
	return s.buf[pos:s.pos]
}

// Result returns the accumulated output data
func (s *ScratchOutput) Result() []byte {
	return s.buf[:s.pos]
}

// Reset clears the buffer
func (s *ScratchOutput) Reset() {
	s.pos = 0
}
