//go:build rp2040 || rp2350

package main

import (
	"machine"
)

// InitUSB initializes USB serial communication
// TinyGo sets up USB CDC-ACM on the RP2040; machine.Serial is the CDC port
func InitUSB() {
	err := machine.Serial.Configure(machine.UARTConfig{})
	if err != nil {
		return
	}
}

// USBTransport implements core.Transport on machine.Serial
type USBTransport struct{}

// TryRead drains what the CDC endpoint has buffered without blocking
func (USBTransport) TryRead(p []byte) (int, bool) {
	available := machine.Serial.Buffered()
	if available == 0 {
		return 0, false
	}

	n := 0
	for n < len(p) && n < available {
		b, err := machine.Serial.ReadByte()
		if err != nil {
			break
		}
		p[n] = b
		n++
	}
	return n, n > 0
}

// Write sends one chunk; the engine keeps chunks within a USB packet
func (USBTransport) Write(p []byte) (int, error) {
	return machine.Serial.Write(p)
}
