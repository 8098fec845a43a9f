//go:build rp2350

package main

// RP2350 TIMER0. The RP2040 timer address holds a different peripheral here.
const timerBase = 0x400B0000
