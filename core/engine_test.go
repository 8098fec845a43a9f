package core

import (
	"encoding/json"
	"strings"
	"testing"

	"empirikit/protocol"
)

func TestSetRateBounds(t *testing.T) {
	tests := []struct {
		frame string
		rate  int
	}{
		{`{"SETRTE":0}`, 50},
		{`{"SETRTE":101}`, 50},
		{`{"SETRTE":-5}`, 50},
		{`{"SETRTE":1}`, 1},
		{`{"SETRTE":100}`, 100},
		{`{"SETRTE":abc}`, 50},
	}

	for _, tt := range tests {
		rig := newTestRig(DefaultConfig())
		rig.engine.Dispatch([]byte(tt.frame))
		if got := rig.engine.State().StreamRateHz; got != tt.rate {
			t.Errorf("%s: expected rate %d, got %d", tt.frame, tt.rate, got)
		}
	}
}

func TestSetIdleIdempotent(t *testing.T) {
	rig := newTestRig(DefaultConfig())
	e := rig.engine

	e.Dispatch([]byte(`{"NOTIFY":1}`))
	e.Dispatch([]byte(`{"SETRTE":10}`))
	e.Dispatch([]byte(`{"STRACC":1}`))
	e.Dispatch([]byte(`{"STRTCH":1}`))
	e.Dispatch([]byte(`{"LOGACC":1}`))

	e.Dispatch([]byte(`{"SETIDL":1}`))
	once := e.State()
	e.Dispatch([]byte(`{"SETIDL":1}`))
	twice := e.State()

	if once != twice {
		t.Errorf("SETIDL not idempotent: %+v vs %+v", once, twice)
	}
	if once.Mode != ModeIdle || once.StreamRateHz != 50 || once.Streaming() {
		t.Errorf("SETIDL did not reset state: %+v", once)
	}
	if !once.NotificationsEnabled {
		t.Error("SETIDL must leave notifications alone")
	}
}

func TestRecordingFullCapacity(t *testing.T) {
	rig := newTestRig(smallConfig())
	rig.touch.script = []int16{25} // start gesture, then nothing

	rig.transport.queue(`{"LOGACC":1}`)
	rig.engine.Tick()

	log := rig.engine.Log()
	if log.Capacity() != 50 {
		t.Fatalf("Expected capacity 50, got %d", log.Capacity())
	}
	if log.Len() != log.Capacity() {
		t.Errorf("Expected %d samples, got %d", log.Capacity(), log.Len())
	}
	for i := 0; i < log.Len(); i++ {
		want := Triple{int16(i), int16(-i), int16(2 * i)}
		if log.At(i) != want {
			t.Fatalf("Sample %d: expected %v, got %v", i, want, log.At(i))
		}
	}
	if rig.engine.State().Mode != ModeIdle {
		t.Errorf("Expected Idle after recording, got %s", rig.engine.State().Mode)
	}

	// 5 s countdown + 50 periods of 20 ms + one idle sleep
	want := uint64(5000000 + 50*20000 + 100000)
	if rig.clock.now != want {
		t.Errorf("Expected clock at %d us, got %d", want, rig.clock.now)
	}
	if got := rig.engine.Stats().DeadlineOverruns; got != 0 {
		t.Errorf("Expected no deadline overruns, got %d", got)
	}
}

func TestRecordingEarlyStop(t *testing.T) {
	for _, k := range []int{0, 1, 7, 49} {
		rig := newTestRig(smallConfig())
		script := []int16{25}
		for i := 0; i < k; i++ {
			script = append(script, 0)
		}
		rig.touch.script = append(script, 21)

		rig.transport.queue(`{"LOGACC":1}`)
		rig.engine.Tick()

		if got := rig.engine.Log().Len(); got != k {
			t.Errorf("Touch after sample %d: expected %d samples, got %d", k, k, got)
		}
		if rig.accel.reads != k+1 {
			t.Errorf("Touch after sample %d: expected %d accel reads, got %d", k, k+1, rig.accel.reads)
		}
	}
}

func TestArmedIndicatorAndThreshold(t *testing.T) {
	rig := newTestRig(smallConfig())
	// Exactly at the threshold is proximity, not a trigger
	rig.touch.script = []int16{0, 20, 3}

	rig.transport.queue(`{"LOGACC":1}`)
	rig.engine.Tick()
	if rig.engine.State().Mode != ModeLogAccelArmed {
		t.Fatalf("Expected armed, got %s", rig.engine.State().Mode)
	}
	if rig.led.last() != (rgbCall{0, 0, 0}) {
		t.Errorf("Expected blink phase off, got %+v", rig.led.last())
	}

	rig.engine.Tick()
	if rig.led.last() != (rgbCall{0, 0, 240}) {
		t.Errorf("Expected blue 240 for distance 20, got %+v", rig.led.last())
	}

	rig.engine.Tick()
	if rig.led.last() != (rgbCall{0, 0, 36}) {
		t.Errorf("Expected blue 36 for distance 3, got %+v", rig.led.last())
	}
	if rig.engine.State().Mode != ModeLogAccelArmed {
		t.Errorf("Expected still armed, got %s", rig.engine.State().Mode)
	}
	if rig.engine.Log().Len() != 0 {
		t.Error("No samples should be recorded while armed")
	}
}

func TestPlaybackEmpty(t *testing.T) {
	rig := newTestRig(DefaultConfig())

	rig.transport.queue(`{"GETLOG":1}`)
	rig.engine.Tick()

	var resp struct {
		Datatype     string            `json:"datatype"`
		AccelRange   int               `json:"accelrange"`
		AccelFactor  int               `json:"accelfactor"`
		SamplingRate int               `json:"samplingrate"`
		Data         []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rig.transport.out.Bytes(), &resp); err != nil {
		t.Fatalf("Empty playback is not valid JSON: %v\n%s", err, rig.transport.out.String())
	}
	if resp.Datatype != protocol.DatatypeAccelerometerLog {
		t.Errorf("Unexpected datatype %q", resp.Datatype)
	}
	if resp.AccelRange != 8 || resp.AccelFactor != 1024 || resp.SamplingRate != 50 {
		t.Errorf("Unexpected metadata %+v", resp)
	}
	if resp.Data == nil || len(resp.Data) != 0 {
		t.Errorf("Expected empty data array, got %v", resp.Data)
	}
	if rig.engine.State().Mode != ModeIdle {
		t.Errorf("Expected Idle after playback, got %s", rig.engine.State().Mode)
	}
}

func TestPlaybackAfterRecording(t *testing.T) {
	rig := newTestRig(smallConfig())
	rig.touch.script = []int16{25, 0, 0, 0, 99}

	rig.transport.queue(`{"LOGACC":1}`)
	rig.engine.Tick()
	rig.transport.out.Reset()

	rig.transport.queue(`{"SETRTE":25}{"GETLOG":1}`)
	rig.engine.Tick()

	var resp struct {
		SamplingRate int        `json:"samplingrate"`
		Data         [][3]int16 `json:"data"`
	}
	if err := json.Unmarshal(rig.transport.out.Bytes(), &resp); err != nil {
		t.Fatalf("Playback is not valid JSON: %v", err)
	}
	if resp.SamplingRate != 25 {
		t.Errorf("Expected current rate 25 in metadata, got %d", resp.SamplingRate)
	}
	want := [][3]int16{{0, 0, 0}, {1, -1, 2}, {2, -2, 4}}
	if len(resp.Data) != len(want) {
		t.Fatalf("Expected %d triples, got %d", len(want), len(resp.Data))
	}
	for i := range want {
		if resp.Data[i] != want[i] {
			t.Errorf("Triple %d: expected %v, got %v", i, want[i], resp.Data[i])
		}
	}
}

func TestStreamAccelOneSecond(t *testing.T) {
	rig := newTestRig(DefaultConfig())

	rig.transport.queue(`{"STRACC":1}`)
	for rig.clock.now < 1000000 {
		rig.engine.Tick()
	}

	out := rig.transport.out.String()
	if n := strings.Count(out, `"datatype":"StreamData"`); n != 50 {
		t.Errorf("Expected 50 StreamData responses, got %d", n)
	}
	if n := strings.Count(out, `"accelerometerdata"`); n != 50 {
		t.Errorf("Expected accelerometerdata in every response, got %d", n)
	}
	if strings.Contains(out, "touchsensordata") {
		t.Error("Touch data must not be streamed")
	}
	if rig.engine.Stats().StreamTicks != 50 {
		t.Errorf("Expected 50 stream ticks, got %d", rig.engine.Stats().StreamTicks)
	}
}

func TestStreamingResumesWithoutBurst(t *testing.T) {
	rig := newTestRig(DefaultConfig())

	// Idle for a while so the stream timer would be far behind if not rearmed
	for i := 0; i < 20; i++ {
		rig.engine.Tick()
	}
	start := rig.clock.now

	rig.transport.queue(`{"STRTCH":1}`)
	rig.engine.Tick()
	rig.engine.Tick()

	if got := rig.clock.now - start; got != 40000 {
		t.Errorf("Expected two full periods (40000 us), got %d", got)
	}
	if rig.engine.Stats().DeadlineOverruns != 0 {
		t.Errorf("Expected no overruns, got %d", rig.engine.Stats().DeadlineOverruns)
	}
}

func TestFramesDeferredDuringRecording(t *testing.T) {
	rig := newTestRig(smallConfig())
	rig.touch.script = []int16{25}

	rig.transport.queue(`{"LOGACC":1}`)
	rig.transport.queue(`{"STRACC":1}`)

	rig.engine.Tick()
	if rig.engine.Log().Len() != 50 {
		t.Fatalf("Expected a full recording, got %d", rig.engine.Log().Len())
	}
	if rig.engine.State().AccelStreaming {
		t.Fatal("STRACC must not be applied while recording")
	}

	rig.engine.Tick()
	if !rig.engine.State().AccelStreaming {
		t.Error("STRACC should be applied on the tick after recording")
	}
}

func TestTwoFramesOneRead(t *testing.T) {
	rig := newTestRig(DefaultConfig())

	rig.transport.queue(`{"STRTCH":1}{"NOTIFY":1}`)
	rig.engine.Tick()

	state := rig.engine.State()
	if !state.TouchStreaming || !state.NotificationsEnabled {
		t.Errorf("Expected both frames applied, got %+v", state)
	}
	if rig.engine.Stats().FramesDispatched != 2 {
		t.Errorf("Expected 2 frames, got %d", rig.engine.Stats().FramesDispatched)
	}
}

func TestNotificationsAroundRecording(t *testing.T) {
	rig := newTestRig(smallConfig())
	rig.touch.script = []int16{25, 30}

	rig.transport.queue(`{"NOTIFY":1}{"LOGACC":1}`)
	rig.engine.Tick()

	out := rig.transport.out.String()
	started := strings.Index(out, `"data":"LoggingStarted"`)
	ended := strings.Index(out, `"data":"LoggingEnded"`)
	if started < 0 || ended < 0 || ended < started {
		t.Errorf("Expected LoggingStarted then LoggingEnded, got %q", out)
	}
}

func TestNoNotificationsByDefault(t *testing.T) {
	rig := newTestRig(smallConfig())
	rig.touch.script = []int16{25, 30}

	rig.transport.queue(`{"LOGACC":1}`)
	rig.engine.Tick()

	if rig.transport.out.Len() != 0 {
		t.Errorf("Expected no output, got %q", rig.transport.out.String())
	}
}

func TestUnknownCommandHelp(t *testing.T) {
	rig := newTestRig(DefaultConfig())

	effect := rig.engine.Dispatch([]byte(`{"FOOBAR":1}`))
	if effect != EffectHelp {
		t.Errorf("Expected EffectHelp, got %d", effect)
	}

	var resp struct {
		Msg []string `json:"msg"`
	}
	if err := json.Unmarshal(rig.transport.out.Bytes(), &resp); err != nil {
		t.Fatalf("Help is not valid JSON: %v", err)
	}
	if len(resp.Msg) != 11 {
		t.Fatalf("Expected 11 help lines, got %d: %v", len(resp.Msg), resp.Msg)
	}
	if resp.Msg[0] != HelpHeader || resp.Msg[len(resp.Msg)-1] != HelpTrailer {
		t.Errorf("Unexpected header/trailer: %v", resp.Msg)
	}
	if !strings.HasPrefix(resp.Msg[2], "SETRGB => ") {
		t.Errorf("Expected SETRGB after GETINF, got %q", resp.Msg[2])
	}
	if rig.engine.Stats().UnknownCommands != 1 {
		t.Errorf("Expected 1 unknown command, got %d", rig.engine.Stats().UnknownCommands)
	}
}

func TestGetInfo(t *testing.T) {
	rig := newTestRig(DefaultConfig())

	rig.transport.queue(`{"GETINF":1}`)
	rig.engine.Tick()

	var resp struct {
		Datatype     string   `json:"datatype"`
		DeviceType   string   `json:"devicetype"`
		Version      string   `json:"version"`
		UID          string   `json:"uid"`
		Capabilities []string `json:"capabilities"`
	}
	if err := json.Unmarshal(rig.transport.out.Bytes(), &resp); err != nil {
		t.Fatalf("HardwareInfo is not valid JSON: %v\n%s", err, rig.transport.out.String())
	}
	if resp.DeviceType != "empiriKit|MOTION" || resp.UID != "0xAB01" || resp.Version != protocol.Version {
		t.Errorf("Unexpected info %+v", resp)
	}
	want := []string{"accelerometer", "rgbled", "touchsensor"}
	if strings.Join(resp.Capabilities, ",") != strings.Join(want, ",") {
		t.Errorf("Expected capabilities %v, got %v", want, resp.Capabilities)
	}
}

func TestOutputChunked(t *testing.T) {
	rig := newTestRig(DefaultConfig())

	rig.transport.queue(`{"GETINF":1}`)
	rig.engine.Tick()
	writes := rig.transport.writes

	rig.engine.Dispatch([]byte(`{"NOPE!!":1}`))
	if rig.transport.writes-writes < 2 {
		t.Error("Expected the help listing to span several writes")
	}
}

func TestSetRGBClamped(t *testing.T) {
	rig := newTestRig(DefaultConfig())

	if effect := rig.engine.Dispatch([]byte(`{"SETRGB":[300,-4,12]}`)); effect != EffectDisplay {
		t.Errorf("Expected EffectDisplay, got %d", effect)
	}
	if rig.led.last() != (rgbCall{255, 0, 12}) {
		t.Errorf("Expected clamped color, got %+v", rig.led.last())
	}

	rig.engine.Dispatch([]byte(`{"SETRGB":0,128,0}`))
	if rig.led.last() != (rgbCall{0, 128, 0}) {
		t.Errorf("Expected unbracketed triple applied, got %+v", rig.led.last())
	}

	rig.engine.Dispatch([]byte(`{"SETRGB":[1,2]}`))
	if rig.led.last() != (rgbCall{0, 128, 0}) {
		t.Errorf("Malformed triple must not change the LED, got %+v", rig.led.last())
	}
}

func TestSetLCDOnRGBDeviceIsUnknown(t *testing.T) {
	rig := newTestRig(DefaultConfig())

	if effect := rig.engine.Dispatch([]byte(`{"SETLCD":"1234"}`)); effect != EffectHelp {
		t.Errorf("Expected help for SETLCD on an RGB device, got %d", effect)
	}
}

func TestUnexpectedState(t *testing.T) {
	rig := newTestRig(DefaultConfig())
	rig.engine.state.Mode = Mode(42)

	rig.engine.Step()

	want := "{\"datatype\":\"StatusMessage\",\"data\":\"Unexpected state.\"}\n"
	if rig.transport.out.String() != want {
		t.Errorf("Expected %q, got %q", want, rig.transport.out.String())
	}
}

func TestReceiveOverflow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReceiveCapacity = 16
	rig := newTestRig(cfg)

	rig.transport.queue(`{"SETRTE":10`)
	rig.engine.Tick()
	rig.transport.queue(`0000000}`)
	rig.engine.Tick()

	if rig.engine.Stats().Overflows != 1 {
		t.Errorf("Expected 1 overflow, got %d", rig.engine.Stats().Overflows)
	}
	if rig.engine.State().StreamRateHz != 50 {
		t.Errorf("Partial frame should have been dropped, rate is %d", rig.engine.State().StreamRateHz)
	}

	rig.transport.queue(`{"SETRTE":10}`)
	rig.engine.Tick()
	if rig.engine.State().StreamRateHz != 10 {
		t.Errorf("Expected recovery after overflow, rate is %d", rig.engine.State().StreamRateHz)
	}
}

func TestEchoDiagnostics(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EchoDiagnostics = true
	rig := newTestRig(cfg)

	rig.transport.queue(`{"NOTIFY":1}`)
	rig.engine.Tick()

	want := `{"msg":"Read 12 bytes"}{"msg":"Found end bracket at pos: 11"}`
	if rig.transport.out.String() != want {
		t.Errorf("Expected %q, got %q", want, rig.transport.out.String())
	}
}

func TestTickRecoversPanic(t *testing.T) {
	cfg := DefaultConfig()
	clock := &fakeClock{}
	transport := &fakeTransport{}
	e, err := NewEngine(cfg, Hardware{
		Transport: transport,
		Accel:     panicAccel{},
		Touch:     &scriptedTouch{},
		Clock:     clock,
	})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	transport.queue(`{"STRACC":1}`)
	e.Tick()
	e.Tick()

	if got := e.Stats().Panics; got != 2 {
		t.Errorf("Expected 2 recovered panics, got %d", got)
	}
	if e.State().Mode != ModeIdle {
		t.Errorf("Expected Idle after panic, got %s", e.State().Mode)
	}
}

func TestNewEngineRequiresHardware(t *testing.T) {
	_, err := NewEngine(DefaultConfig(), Hardware{})
	if err == nil {
		t.Error("Expected error for missing hardware")
	}

	cfg := DefaultConfig()
	cfg.DefaultRateHz = 0
	_, err = NewEngine(cfg, Hardware{})
	if err == nil {
		t.Error("Expected error for invalid config")
	}
}
