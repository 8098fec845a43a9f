package sim

import (
	"math"
	"math/rand"
	"sync"
	"sync/atomic"

	"empirikit/core"
)

// WaveAccel is a core.Accelerometer tracing a circle in the x/y plane with
// gravity on z
type WaveAccel struct {
	cfg    AccelConfig
	clock  core.Clock
	factor float64 // counts per g

	mu  sync.Mutex
	rng *rand.Rand
}

// NewWaveAccel creates the simulated accelerometer. factor is counts per g.
func NewWaveAccel(cfg AccelConfig, clock core.Clock, factor int, seed int64) *WaveAccel {
	return &WaveAccel{
		cfg:    cfg,
		clock:  clock,
		factor: float64(factor),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func (a *WaveAccel) ReadAccel() (int16, int16, int16) {
	t := float64(a.clock.Micros()) / 1e6
	phase := 2 * math.Pi * a.cfg.FrequencyHz * t

	x := a.cfg.Amplitude * math.Sin(phase)
	y := a.cfg.Amplitude * math.Cos(phase)
	z := 0.0
	if a.cfg.Gravity {
		z = 1
	}

	a.mu.Lock()
	if a.cfg.Noise > 0 {
		x += a.rng.NormFloat64() * a.cfg.Noise
		y += a.rng.NormFloat64() * a.cfg.Noise
		z += a.rng.NormFloat64() * a.cfg.Noise
	}
	a.mu.Unlock()

	return a.counts(x), a.counts(y), a.counts(z)
}

func (a *WaveAccel) counts(g float64) int16 {
	v := math.Round(g * a.factor)
	return int16(math.Max(math.MinInt16, math.Min(math.MaxInt16, v)))
}

// Touch is a core.TouchSensor set from outside the engine, optionally
// following a script of timed steps
type Touch struct {
	value atomic.Int32

	clock core.Clock
	start uint64

	mu     sync.Mutex
	script []TouchStep
}

// NewTouch creates a touch sensor whose script starts now
func NewTouch(clock core.Clock, script []TouchStep) *Touch {
	return &Touch{
		clock:  clock,
		start:  clock.Micros(),
		script: append([]TouchStep(nil), script...),
	}
}

// Set overrides the reading until the next script step
func (t *Touch) Set(v int16) {
	t.value.Store(int32(v))
}

// Value returns the current reading without advancing the script
func (t *Touch) Value() int16 {
	return int16(t.value.Load())
}

func (t *Touch) ReadTouch() int16 {
	t.mu.Lock()
	elapsed := t.clock.Micros() - t.start
	for len(t.script) > 0 && uint64(t.script[0].At.Microseconds()) <= elapsed {
		t.value.Store(int32(t.script[0].Value))
		t.script = t.script[1:]
	}
	t.mu.Unlock()

	return int16(t.value.Load())
}
