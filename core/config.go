package core

import (
	"errors"
	"time"

	"empirikit/protocol"
)

// Config holds the device parameters fixed at construction time
type Config struct {
	DefaultRateHz    int           // Stream rate at power-on and after SETIDL
	MinRateHz        int           // Lowest rate SETRTE accepts
	MaxRateHz        int           // Highest rate SETRTE accepts
	MaxLogSeconds    int           // Log capacity is DefaultRateHz * MaxLogSeconds triples
	ReceiveCapacity  int           // Receive buffer bound in bytes
	MaxPacketSize    int           // Largest single transport write
	GestureThreshold int16         // Touch reading above this starts or stops a recording
	ArmBlinks        int           // Countdown iterations before recording
	ArmBlinkInterval time.Duration // Length of one countdown iteration
	IdleInterval     time.Duration // Sleep per tick when nothing is streaming
	AccelRangeG      int           // Accelerometer full-scale range reported in logs
	EchoDiagnostics  bool          // Echo {"msg":...} receive diagnostics on the wire
}

// DefaultConfig returns the stock device configuration
func DefaultConfig() Config {
	return Config{
		DefaultRateHz:    50,
		MaxLogSeconds:    10,
		ReceiveCapacity:  protocol.DefaultReceiveCapacity,
		MaxPacketSize:    protocol.MaxPacketSize,
		GestureThreshold: 20,
		ArmBlinks:        10,
		ArmBlinkInterval: 500 * time.Millisecond,
		IdleInterval:     100 * time.Millisecond,
		AccelRangeG:      8,
		MinRateHz:        1,
		MaxRateHz:        100,
	}
}

// Validate reports the first invalid field
func (c Config) Validate() error {
	switch {
	case c.MinRateHz < 1 || c.MaxRateHz < c.MinRateHz:
		return errors.New("config: invalid rate bounds")
	case c.DefaultRateHz < c.MinRateHz || c.DefaultRateHz > c.MaxRateHz:
		return errors.New("config: default rate out of bounds")
	case c.MaxLogSeconds <= 0:
		return errors.New("config: max log seconds must be positive")
	case c.ReceiveCapacity < protocol.ValueOffset+1:
		return errors.New("config: receive capacity too small for a frame")
	case c.MaxPacketSize <= 0:
		return errors.New("config: max packet size must be positive")
	case c.GestureThreshold < 0:
		return errors.New("config: gesture threshold must not be negative")
	case c.ArmBlinks < 0 || c.ArmBlinkInterval < 0:
		return errors.New("config: invalid arming countdown")
	case c.IdleInterval < 0:
		return errors.New("config: idle interval must not be negative")
	case c.AccelRangeG <= 0:
		return errors.New("config: accel range must be positive")
	}
	return nil
}

// LogCapacity returns the number of triples the log buffer holds
func (c Config) LogCapacity() int {
	return c.DefaultRateHz * c.MaxLogSeconds
}

// AccelFactor returns counts per g for the configured range
func (c Config) AccelFactor() int {
	return 8192 / c.AccelRangeG
}
