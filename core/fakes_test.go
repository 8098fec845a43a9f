package core

import (
	"bytes"
	"time"
)

// fakeClock jumps straight to every deadline
type fakeClock struct {
	now    uint64
	waits  int
	sleeps time.Duration
}

func (c *fakeClock) Micros() uint64 { return c.now }

func (c *fakeClock) WaitUntil(deadline uint64) {
	c.waits++
	if deadline > c.now {
		c.now = deadline
	}
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps += d
	c.now += uint64(d / time.Microsecond)
}

// fakeTransport hands out one queued chunk per TryRead and records writes
type fakeTransport struct {
	inbound [][]byte
	out     bytes.Buffer
	writes  int
}

func (t *fakeTransport) queue(s string) {
	t.inbound = append(t.inbound, []byte(s))
}

func (t *fakeTransport) TryRead(p []byte) (int, bool) {
	if len(t.inbound) == 0 {
		return 0, false
	}
	n := copy(p, t.inbound[0])
	if n < len(t.inbound[0]) {
		t.inbound[0] = t.inbound[0][n:]
	} else {
		t.inbound = t.inbound[1:]
	}
	return n, true
}

func (t *fakeTransport) Write(p []byte) (int, error) {
	t.writes++
	return t.out.Write(p)
}

// countingAccel returns (i, -i, 2i) for the i-th read
type countingAccel struct {
	reads int
}

func (a *countingAccel) ReadAccel() (int16, int16, int16) {
	i := int16(a.reads)
	a.reads++
	return i, -i, 2 * i
}

// panicAccel fails every read
type panicAccel struct{}

func (panicAccel) ReadAccel() (int16, int16, int16) {
	panic("accelerometer bus fault")
}

// scriptedTouch returns script values in order, then rest forever
type scriptedTouch struct {
	script []int16
	rest   int16
	reads  int
}

func (s *scriptedTouch) ReadTouch() int16 {
	s.reads++
	if len(s.script) == 0 {
		return s.rest
	}
	v := s.script[0]
	s.script = s.script[1:]
	return v
}

type rgbCall struct {
	r, g, b uint8
}

type fakeLed struct {
	calls []rgbCall
}

func (l *fakeLed) SetRGB(r, g, b uint8) {
	l.calls = append(l.calls, rgbCall{r, g, b})
}

func (l *fakeLed) last() rgbCall {
	if len(l.calls) == 0 {
		return rgbCall{}
	}
	return l.calls[len(l.calls)-1]
}

type fakePanel struct {
	lines []string
}

func (p *fakePanel) Print(text string) {
	p.lines = append(p.lines, text)
}

// testRig is an engine wired to fakes
type testRig struct {
	engine    *Engine
	clock     *fakeClock
	transport *fakeTransport
	accel     *countingAccel
	touch     *scriptedTouch
	led       *fakeLed
}

func newTestRig(cfg Config) *testRig {
	rig := &testRig{
		clock:     &fakeClock{},
		transport: &fakeTransport{},
		accel:     &countingAccel{},
		touch:     &scriptedTouch{},
		led:       &fakeLed{},
	}
	engine, err := NewEngine(cfg, Hardware{
		Transport: rig.transport,
		Accel:     rig.accel,
		Touch:     rig.touch,
		Indicator: NewRGBIndicator(rig.led),
		Clock:     rig.clock,
		Info:      StaticInfo{Type: "empiriKit|MOTION", ID: []byte{0xAB, 0x01}},
	})
	if err != nil {
		panic(err)
	}
	rig.engine = engine
	return rig
}

// smallConfig keeps recordings short: 50 Hz for 1 s
func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxLogSeconds = 1
	return cfg
}
