package protocol

import (
	"bytes"
	"strings"
	"testing"
)

func TestReceiveBufferSingleFrame(t *testing.T) {
	rb := NewReceiveBuffer(64)

	if !rb.Push([]byte(`{"SETRTE":25}`)) {
		t.Fatal("Push reported overflow on a small frame")
	}

	frame, ok := rb.TryExtractFrame()
	if !ok {
		t.Fatal("Expected a frame")
	}
	if string(frame) != `{"SETRTE":25}` {
		t.Errorf("Expected frame %q, got %q", `{"SETRTE":25}`, frame)
	}
	if rb.Available() != 0 {
		t.Errorf("Expected empty buffer after extraction, got %d bytes", rb.Available())
	}

	if _, ok := rb.TryExtractFrame(); ok {
		t.Error("Expected no frame from an empty buffer")
	}
}

func TestReceiveBufferPartialFrame(t *testing.T) {
	rb := NewReceiveBuffer(64)

	rb.Push([]byte(`{"STRA`))
	if _, ok := rb.TryExtractFrame(); ok {
		t.Fatal("Extracted a frame before the terminator arrived")
	}
	if rb.Available() != 6 {
		t.Errorf("Partial frame must be left untouched, got %d bytes", rb.Available())
	}

	rb.Push([]byte(`CC":1}{"GET`))
	frame, ok := rb.TryExtractFrame()
	if !ok || string(frame) != `{"STRACC":1}` {
		t.Errorf("Expected {\"STRACC\":1}, got %q (ok=%v)", frame, ok)
	}
	if string(rb.Data()) != `{"GET` {
		t.Errorf("Expected remainder shifted to index 0, got %q", rb.Data())
	}
}

func TestReceiveBufferTwoFramesOneRead(t *testing.T) {
	rb := NewReceiveBuffer(64)
	rb.Push([]byte(`{"STRACC":1}{"NOTIFY":1}`))

	var frames []string
	for {
		frame, ok := rb.TryExtractFrame()
		if !ok {
			break
		}
		frames = append(frames, string(frame))
	}

	if len(frames) != 2 {
		t.Fatalf("Expected 2 frames, got %d: %v", len(frames), frames)
	}
	if frames[0] != `{"STRACC":1}` || frames[1] != `{"NOTIFY":1}` {
		t.Errorf("Frames out of order: %v", frames)
	}
}

func TestReceiveBufferIncrementalFeed(t *testing.T) {
	stream := []byte(`{"SETRTE":10}{"STRTCH":1}{"SETRGB":[1,2,3]}{"GETLOG":1}{"SETI`)
	complete := stream[:bytes.LastIndexByte(stream, '}')+1]

	for chunk := 1; chunk <= 9; chunk++ {
		rb := NewReceiveBuffer(128)
		var got []byte
		for i := 0; i < len(stream); i += chunk {
			end := i + chunk
			if end > len(stream) {
				end = len(stream)
			}
			if !rb.Push(stream[i:end]) {
				t.Fatalf("chunk=%d: unexpected overflow", chunk)
			}
			for {
				frame, ok := rb.TryExtractFrame()
				if !ok {
					break
				}
				got = append(got, frame...)
			}
		}
		if !bytes.Equal(got, complete) {
			t.Errorf("chunk=%d: frames concatenate to %q, want %q", chunk, got, complete)
		}
		if string(rb.Data()) != `{"SETI` {
			t.Errorf("chunk=%d: expected trailing partial frame, got %q", chunk, rb.Data())
		}
	}
}

func TestReceiveBufferOverflowResets(t *testing.T) {
	rb := NewReceiveBuffer(16)

	if !rb.Push([]byte(`{"SETRTE":`)) {
		t.Fatal("First push should fit")
	}
	if rb.Push([]byte(`100}{"NOTIFY"`)) {
		t.Fatal("Expected overflow to be reported")
	}
	if rb.Available() != 0 {
		t.Errorf("Expected buffer reset on overflow, got %d bytes", rb.Available())
	}

	// Exactly at capacity is not an overflow
	if !rb.Push([]byte(strings.Repeat("x", 16))) {
		t.Error("Push filling the buffer exactly should succeed")
	}
	if rb.Available() != rb.Capacity() {
		t.Errorf("Expected %d bytes, got %d", rb.Capacity(), rb.Available())
	}
}

func TestReceiveBufferTerminatorInsideString(t *testing.T) {
	rb := NewReceiveBuffer(64)
	rb.Push([]byte(`{"SETLCD":"a}b"}`))

	frame, ok := rb.TryExtractFrame()
	if !ok {
		t.Fatal("Expected a frame")
	}
	// First '}' wins, the scan does not track quotes
	if string(frame) != `{"SETLCD":"a}` {
		t.Errorf("Expected the frame to end at the embedded brace, got %q", frame)
	}
	if string(rb.Data()) != `b"}` {
		t.Errorf("Expected the rest to stay buffered, got %q", rb.Data())
	}
}

func TestReceiveBufferFrameReuse(t *testing.T) {
	rb := NewReceiveBuffer(64)
	rb.Push([]byte(`{"GETINF":1}{"GETLOG":1}`))

	first, _ := rb.TryExtractFrame()
	saved := string(first)
	second, _ := rb.TryExtractFrame()

	if saved != `{"GETINF":1}` || string(second) != `{"GETLOG":1}` {
		t.Errorf("Unexpected frames %q, %q", saved, second)
	}
}

func TestScratchOutput(t *testing.T) {
	scratch := NewScratchOutput()

	scratch.OutputString("rate=")
	scratch.OutputInt(-42)

	if string(scratch.Result()) != "rate=-42" {
		t.Errorf("Expected 'rate=-42', got %q", scratch.Result())
	}
	if scratch.CurPosition() != 8 {
		t.Errorf("Expected position 8, got %d", scratch.CurPosition())
	}

	since := scratch.DataSince(5)
	if string(since) != "-42" {
		t.Errorf("DataSince(5) failed: expected '-42', got %q", since)
	}

	scratch.Reset()
	if scratch.CurPosition() != 0 {
		t.Errorf("After reset, expected position 0, got %d", scratch.CurPosition())
	}

	// Overlong output is truncated at the buffer size
	scratch.OutputString(strings.Repeat("y", LineBufferSize+10))
	if scratch.CurPosition() != LineBufferSize {
		t.Errorf("Expected truncation at %d, got %d", LineBufferSize, scratch.CurPosition())
	}
}
