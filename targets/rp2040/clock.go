//go:build rp2040 || rp2350

package main

import (
	"runtime/volatile"
	"time"
	"unsafe"
)

// Raw timer words are read without latching; timerBase is per chip
const (
	timerTIMERAWH = timerBase + 0x24 // Raw timer high word
	timerTIMERAWL = timerBase + 0x28 // Raw timer low word
)

var (
	timerRAWH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWH)))
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
)

// HardwareClock implements core.Clock on the 64-bit 1 MHz timer
type HardwareClock struct{}

// NewHardwareClock returns the board clock. The timer runs from reset.
func NewHardwareClock() HardwareClock {
	return HardwareClock{}
}

// Micros reads the full 64-bit hardware timer
func (HardwareClock) Micros() uint64 {
	// Read high, low, high again to detect rollover
	for {
		high1 := timerRAWH.Get()
		low := timerRAWL.Get()
		high2 := timerRAWH.Get()

		if high1 == high2 {
			return (uint64(high1) << 32) | uint64(low)
		}
	}
}

// WaitUntil spins on the timer; sample deadlines are tens of milliseconds
// apart and the loop has nothing else to do meanwhile
func (c HardwareClock) WaitUntil(deadline uint64) {
	for c.Micros() < deadline {
	}
}

func (HardwareClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
