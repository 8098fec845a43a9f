//go:build !tinygo

package core

import "time"

// SystemClock implements Clock on the Go runtime's monotonic clock
type SystemClock struct {
	epoch time.Time
}

// NewSystemClock creates a clock whose zero is now
func NewSystemClock() *SystemClock {
	return &SystemClock{epoch: time.Now()}
}

func (c *SystemClock) Micros() uint64 {
	return uint64(time.Since(c.epoch) / time.Microsecond)
}

// WaitUntil sleeps for most of the remaining time and spins the rest
func (c *SystemClock) WaitUntil(deadline uint64) {
	for {
		now := c.Micros()
		if now >= deadline {
			return
		}
		if remaining := deadline - now; remaining > 2000 {
			time.Sleep(time.Duration(remaining-1000) * time.Microsecond)
		}
	}
}

func (c *SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
