package core

import (
	"context"
	"errors"

	"empirikit/protocol"
)

// Engine is the device run loop. It owns the DeviceState, the receive
// buffer and the accelerometer log, and is driven by calling Tick from a
// single goroutine.
//
// A tick polls the transport once, dispatches every complete frame, runs
// one state machine step and one streaming step. Frames that arrive while a
// recording runs stay buffered until the recording ends.
type Engine struct {
	cfg      Config
	hw       Hardware
	state    DeviceState
	log      *AccelLog
	registry *CommandRegistry

	rx      *protocol.ReceiveBuffer
	readBuf []byte
	out     *protocol.Encoder

	logTimer    *Stopwatch
	streamTimer *Stopwatch
	armPhase    int

	stats Stats
}

// NewEngine validates cfg and builds an engine around hw. The log buffer is
// allocated here for cfg.DefaultRateHz and never resized.
func NewEngine(cfg Config, hw Hardware) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch {
	case hw.Transport == nil:
		return nil, errors.New("engine: transport is required")
	case hw.Accel == nil:
		return nil, errors.New("engine: accelerometer is required")
	case hw.Touch == nil:
		return nil, errors.New("engine: touch sensor is required")
	case hw.Clock == nil:
		return nil, errors.New("engine: clock is required")
	}
	if hw.Indicator == nil {
		hw.Indicator = NopIndicator{}
	}

	e := &Engine{
		cfg:         cfg,
		hw:          hw,
		state:       NewDeviceState(cfg),
		log:         NewAccelLog(cfg.LogCapacity()),
		registry:    NewCommandRegistry(),
		rx:          protocol.NewReceiveBuffer(cfg.ReceiveCapacity),
		readBuf:     make([]byte, cfg.MaxPacketSize),
		out:         protocol.NewEncoder(protocol.NewChunkWriter(hw.Transport, cfg.MaxPacketSize)),
		logTimer:    NewStopwatch(hw.Clock, TagLogTimer),
		streamTimer: NewStopwatch(hw.Clock, TagStreamTimer),
	}
	e.registerCommands()
	e.hw.Indicator.PowerOn()

	DebugPrintln("[ENGINE] ready, log capacity=" + itoa(e.log.Capacity()) +
		" rate=" + itoa(e.state.StreamRateHz))
	return e, nil
}

// State returns a copy of the device state
func (e *Engine) State() DeviceState {
	return e.state
}

// Log returns the accelerometer log
func (e *Engine) Log() *AccelLog {
	return e.log
}

// Registry returns the command registry
func (e *Engine) Registry() *CommandRegistry {
	return e.registry
}

// Stats returns a snapshot of the engine counters. Safe from any goroutine.
func (e *Engine) Stats() StatsSnapshot {
	return e.stats.Snapshot()
}

// Config returns the configuration the engine was built with
func (e *Engine) Config() Config {
	return e.cfg
}

// Run calls Tick until ctx is cancelled
func (e *Engine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		e.Tick()
	}
}

// Tick runs one loop iteration. A panic from a collaborator is recovered:
// the receive buffer is cleared and the engine returns to Idle.
func (e *Engine) Tick() {
	defer func() {
		if r := recover(); r != nil {
			e.stats.add(&e.stats.panics, 1)
			RecordTiming(EvtPanic, 0, uint32(e.hw.Clock.Micros()), uint32(e.state.Mode), 0)
			DebugPrintln("[ENGINE] recovered panic in mode " + e.state.Mode.String())
			e.rx.Reset()
			e.state.Mode = ModeIdle
		}
	}()

	e.Poll()
	e.DrainFrames()
	e.Step()
	e.StreamStep()
}

// Poll reads whatever the transport has waiting into the receive buffer
func (e *Engine) Poll() {
	n, ok := e.hw.Transport.TryRead(e.readBuf)
	if !ok || n <= 0 {
		return
	}
	e.stats.add(&e.stats.bytesReceived, uint32(n))

	if e.cfg.EchoDiagnostics {
		e.emit(e.out.Message("Read " + itoa(n) + " bytes"))
	}

	if !e.rx.Push(e.readBuf[:n]) {
		e.stats.add(&e.stats.overflows, 1)
		RecordTiming(EvtOverflow, TagReceive, uint32(e.hw.Clock.Micros()), uint32(n), uint32(e.rx.Capacity()))
		DebugPrintln("[ENGINE] receive buffer overflow, dropped partial frame")
	}
}

// DrainFrames dispatches every complete frame in the receive buffer
func (e *Engine) DrainFrames() {
	for {
		frame, ok := e.rx.TryExtractFrame()
		if !ok {
			return
		}
		if e.cfg.EchoDiagnostics {
			e.emit(e.out.Message("Found end bracket at pos: " + itoa(len(frame)-1)))
		}
		e.Dispatch(frame)
	}
}

// Dispatch applies one frame. Unknown codes answer with the help listing.
// Malformed arguments are dropped and leave the state unchanged.
func (e *Engine) Dispatch(frame []byte) Effect {
	effect, err := e.registry.Dispatch(frame)
	switch {
	case err == nil:
		e.stats.add(&e.stats.framesDispatched, 1)
		return effect
	case errors.Is(err, ErrUnknownCommand):
		e.stats.add(&e.stats.unknownCommands, 1)
		e.emit(e.out.Help(e.registry.HelpLines()))
		return EffectHelp
	default:
		e.stats.add(&e.stats.malformedArgs, 1)
		DebugPrintln("[ENGINE] " + err.Error())
		return EffectNone
	}
}

// Step runs the state machine for the current mode
func (e *Engine) Step() {
	switch e.state.Mode {
	case ModeIdle:
	case ModeLogAccelRequested:
		e.state.Mode = ModeLogAccelArmed
		e.armPhase = 0
		fallthrough
	case ModeLogAccelArmed:
		e.stepArmed()
	case ModeLogAccelRecording:
		e.record()
	case ModeLogPlaybackRequested:
		e.playback()
		e.state.Mode = ModeIdle
	default:
		e.emit(e.out.StatusMessage("Unexpected state."))
	}
}

// stepArmed checks for the start gesture. A reading above the threshold
// starts the countdown and the recording within this tick.
func (e *Engine) stepArmed() {
	e.armPhase = (e.armPhase + 1) % 4

	distance := e.hw.Touch.ReadTouch()
	switch {
	case distance > e.cfg.GestureThreshold:
		e.state.Mode = ModeLogAccelRecording
		e.countdown()
		e.record()
	case distance > 0:
		e.hw.Indicator.Proximity(distance)
	default:
		e.hw.Indicator.Armed(e.armPhase)
	}
}

// countdown holds for ArmBlinks * ArmBlinkInterval before recording
func (e *Engine) countdown() {
	e.hw.Indicator.Triggered()
	for i := 0; i < e.cfg.ArmBlinks; i++ {
		e.hw.Clock.Sleep(e.cfg.ArmBlinkInterval)
		e.hw.Indicator.Countdown(i, e.cfg.ArmBlinks)
	}
}

// record runs a full logging session. Samples are spaced exactly one period
// apart; a touch above the threshold after sample i ends the run with i
// samples kept.
func (e *Engine) record() {
	if e.state.NotificationsEnabled {
		e.emit(e.out.Notification(protocol.EventLoggingStarted))
	}
	e.hw.Indicator.Recording()

	capacity := e.log.Capacity()
	wait := e.state.StreamWaitMicros()
	recorded := capacity
	seconds := 0

	e.log.ResetAndBeginWrite()
	RecordTiming(EvtLogStart, TagLogTimer, uint32(e.hw.Clock.Micros()), uint32(capacity), uint32(wait))
	e.logTimer.Reset()

	for i := 0; i < capacity; i++ {
		x, y, z := e.hw.Accel.ReadAccel()
		e.log.Append(Triple{x, y, z})

		if !e.logTimer.WaitFor(wait) {
			e.stats.add(&e.stats.deadlineOverruns, 1)
		}
		e.logTimer.Reset()

		if s := int(uint64(i+1) * wait / 1000000); s != seconds {
			seconds = s
			e.hw.Indicator.Progress(s)
		}

		if e.hw.Touch.ReadTouch() > e.cfg.GestureThreshold {
			recorded = i
			break
		}
	}

	e.log.Finish(recorded)
	e.stats.add(&e.stats.recordings, 1)
	e.stats.add(&e.stats.samplesRecorded, uint32(recorded))
	RecordTiming(EvtLogEnd, TagLogTimer, uint32(e.hw.Clock.Micros()), uint32(recorded), 0)
	DebugPrintln("[ENGINE] recording done, samples=" + itoa(recorded))

	if e.state.NotificationsEnabled {
		e.emit(e.out.Notification(protocol.EventLoggingEnded))
	}
	e.hw.Indicator.Done()
	e.state.Mode = ModeIdle
}

// playback writes the last recording
func (e *Engine) playback() {
	meta := protocol.LogMeta{
		Range:  e.cfg.AccelRangeG,
		Factor: e.cfg.AccelFactor(),
		Rate:   e.state.StreamRateHz,
	}
	e.emit(e.out.AccelerometerLog(meta, e.log.Len(), func(i int) (int16, int16, int16) {
		t := e.log.At(i)
		return t[0], t[1], t[2]
	}))
}

// StreamStep emits one StreamData response per sample period while either
// streaming flag is set. Otherwise it sleeps the idle interval and rearms
// the stream timer.
func (e *Engine) StreamStep() {
	if !e.state.Streaming() {
		e.hw.Clock.Sleep(e.cfg.IdleInterval)
		e.streamTimer.Reset()
		return
	}

	if !e.streamTimer.WaitFor(e.state.StreamWaitMicros()) {
		e.stats.add(&e.stats.deadlineOverruns, 1)
	}
	e.streamTimer.Reset()

	// Sensors are read before anything is written
	sample := protocol.StreamSample{Rate: e.state.StreamRateHz}
	if e.state.TouchStreaming {
		sample.HasTouch = true
		sample.Touch = e.hw.Touch.ReadTouch()
	}
	if e.state.AccelStreaming {
		sample.HasAccel = true
		sample.Accel[0], sample.Accel[1], sample.Accel[2] = e.hw.Accel.ReadAccel()
	}

	e.emit(e.out.StreamData(sample))
	e.stats.add(&e.stats.streamTicks, 1)
	RecordTiming(EvtStreamTick, TagStreamTimer, uint32(e.hw.Clock.Micros()), uint32(sample.Rate), 0)
}

// emit counts a failed response write. Output is best effort; a host that
// is not reading must not stop the device.
func (e *Engine) emit(err error) {
	if err != nil {
		e.stats.add(&e.stats.writeErrors, 1)
		DebugPrintln("[ENGINE] write failed: " + err.Error())
	}
}
