package core

// Mode is the sampling state machine's main state
type Mode uint8

const (
	ModeIdle Mode = iota
	ModeLogAccelRequested
	ModeLogAccelArmed
	ModeLogAccelRecording
	ModeLogPlaybackRequested
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeLogAccelRequested:
		return "log_accel_requested"
	case ModeLogAccelArmed:
		return "log_accel_armed"
	case ModeLogAccelRecording:
		return "log_accel_recording"
	case ModeLogPlaybackRequested:
		return "log_playback_requested"
	}
	return "mode_" + itoa(int(m))
}

// DeviceState is the volatile device configuration mutated by commands.
// It is owned by a single Engine and is not safe for concurrent use.
type DeviceState struct {
	Mode                 Mode
	StreamRateHz         int
	NotificationsEnabled bool
	TouchStreaming       bool
	AccelStreaming       bool

	minRate int
	maxRate int
	defRate int
}

// NewDeviceState returns the power-on state for cfg
func NewDeviceState(cfg Config) DeviceState {
	s := DeviceState{
		minRate: cfg.MinRateHz,
		maxRate: cfg.MaxRateHz,
		defRate: cfg.DefaultRateHz,
	}
	s.Reset()
	return s
}

// Reset returns to Idle with streaming off and the default rate.
// Notifications are left as they were.
func (s *DeviceState) Reset() {
	s.Mode = ModeIdle
	s.StreamRateHz = s.defRate
	s.TouchStreaming = false
	s.AccelStreaming = false
}

// SetStreamRate applies hz if it is within bounds. Out-of-range values are
// ignored and false is returned.
func (s *DeviceState) SetStreamRate(hz int) bool {
	if hz < s.minRate || hz > s.maxRate {
		return false
	}
	s.StreamRateHz = hz
	return true
}

// Streaming reports whether any streaming flag is set
func (s *DeviceState) Streaming() bool {
	return s.TouchStreaming || s.AccelStreaming
}

// StreamWaitMicros is the sample period at the current rate
func (s *DeviceState) StreamWaitMicros() uint64 {
	return 1000000 / uint64(s.StreamRateHz)
}
