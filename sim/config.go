// Package sim runs the device engine on a desktop with simulated sensors and
// a WebSocket standing in for the USB serial link.
package sim

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"empirikit/core"

	"gopkg.in/yaml.v3"
)

// Config is the simulator's YAML configuration
type Config struct {
	Device  DeviceConfig `yaml:"device"`
	Server  ServerConfig `yaml:"server"`
	Sensors SensorConfig `yaml:"sensors"`
	Log     LogConfig    `yaml:"log"`
}

type DeviceConfig struct {
	Variant          string        `yaml:"variant"` // "rgb" or "text"
	DeviceType       string        `yaml:"device_type"`
	UID              string        `yaml:"uid"` // hex
	DefaultRateHz    int           `yaml:"default_rate_hz"`
	MaxLogSeconds    int           `yaml:"max_log_seconds"`
	GestureThreshold int16         `yaml:"gesture_threshold"`
	ArmBlinks        int           `yaml:"arm_blinks"`
	ArmBlinkInterval time.Duration `yaml:"arm_blink_interval"`
	IdleInterval     time.Duration `yaml:"idle_interval"`
	AccelRangeG      int           `yaml:"accel_range_g"`
	EchoDiagnostics  bool          `yaml:"echo_diagnostics"`
}

type ServerConfig struct {
	Listen      string `yaml:"listen"`
	MetricsPath string `yaml:"metrics_path"`
}

type SensorConfig struct {
	Accel AccelConfig `yaml:"accel"`
	Touch []TouchStep `yaml:"touch"`
	Seed  int64       `yaml:"seed"`
}

// AccelConfig describes the simulated motion in g
type AccelConfig struct {
	Amplitude   float64 `yaml:"amplitude"`
	FrequencyHz float64 `yaml:"frequency_hz"`
	Noise       float64 `yaml:"noise"`
	Gravity     bool    `yaml:"gravity"`
}

// TouchStep sets the touch reading At after start
type TouchStep struct {
	At    time.Duration `yaml:"at"`
	Value int16         `yaml:"value"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	VariantRGB  = "rgb"
	VariantText = "text"
)

// DefaultConfig returns the stock simulator configuration
func DefaultConfig() *Config {
	dev := core.DefaultConfig()
	return &Config{
		Device: DeviceConfig{
			Variant:          VariantRGB,
			DeviceType:       "empiriKit|SIM",
			UID:              "E0B15100",
			DefaultRateHz:    dev.DefaultRateHz,
			MaxLogSeconds:    dev.MaxLogSeconds,
			GestureThreshold: dev.GestureThreshold,
			ArmBlinks:        dev.ArmBlinks,
			ArmBlinkInterval: dev.ArmBlinkInterval,
			IdleInterval:     dev.IdleInterval,
			AccelRangeG:      dev.AccelRangeG,
		},
		Server: ServerConfig{
			Listen:      ":8080",
			MetricsPath: "/metrics",
		},
		Sensors: SensorConfig{
			Accel: AccelConfig{
				Amplitude:   0.5,
				FrequencyHz: 1,
				Noise:       0.01,
				Gravity:     true,
			},
			Seed: 1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads path over the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields the engine does not
func (c *Config) Validate() error {
	switch c.Device.Variant {
	case VariantRGB, VariantText:
	default:
		return fmt.Errorf("device.variant must be %q or %q, got %q", VariantRGB, VariantText, c.Device.Variant)
	}
	if _, err := c.UID(); err != nil {
		return err
	}
	if err := c.CoreConfig().Validate(); err != nil {
		return fmt.Errorf("device: %w", err)
	}
	return nil
}

// UID decodes device.uid
func (c *Config) UID() ([]byte, error) {
	uid, err := hex.DecodeString(c.Device.UID)
	if err != nil {
		return nil, fmt.Errorf("device.uid: %w", err)
	}
	return uid, nil
}

// CoreConfig maps the device section onto the engine configuration
func (c *Config) CoreConfig() core.Config {
	cfg := core.DefaultConfig()
	cfg.DefaultRateHz = c.Device.DefaultRateHz
	cfg.MaxLogSeconds = c.Device.MaxLogSeconds
	cfg.GestureThreshold = c.Device.GestureThreshold
	cfg.ArmBlinks = c.Device.ArmBlinks
	cfg.ArmBlinkInterval = c.Device.ArmBlinkInterval
	cfg.IdleInterval = c.Device.IdleInterval
	cfg.AccelRangeG = c.Device.AccelRangeG
	cfg.EchoDiagnostics = c.Device.EchoDiagnostics
	return cfg
}
