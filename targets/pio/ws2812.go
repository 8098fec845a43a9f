//go:build rp2040 || rp2350

package pio

// PIO driver for a single WS2812 (NeoPixel) status LED.
// The state machine runs at 8 MHz so one bit is exactly 10 cycles (800 kHz).
//
// Bit timing (cycles high/low):
//
//	1-bit: 7 high, 3 low
//	0-bit: 3 high, 7 low
//
// Autopull with a 24-bit threshold stalls the OUT instruction between
// colors, which holds the line low long enough to latch.

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

const (
	ws2812Origin    = 0
	ws2812BitFreqHz = 8_000_000
)

// buildWS2812Program creates the bit-banging program using AssemblerV0
func buildWS2812Program() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Out(rp2pio.OutDestX, 1).Encode(),             // 0: out x, 1 (low, 1)
		asm.Set(rp2pio.SetDestPins, 1).Delay(1).Encode(), // 1: set pins, 1 [1] (high, 2)
		asm.Jmp(6, rp2pio.JmpXZero).Encode(),             // 2: jmp !x, 6 (high, 1)
		// do_one:
		asm.Set(rp2pio.SetDestPins, 1).Delay(3).Encode(), // 3: set pins, 1 [3] (high, 4)
		asm.Set(rp2pio.SetDestPins, 0).Encode(),          // 4: set pins, 0 (low, 1)
		asm.Jmp(0, rp2pio.JmpAlways).Encode(),            // 5: jmp 0 (low, 1)
		// do_zero:
		asm.Set(rp2pio.SetDestPins, 0).Delay(5).Encode(), // 6: set pins, 0 [5] (low, 6)
		// .wrap
	}
}

// WS2812 drives one RGB LED from a PIO state machine
type WS2812 struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	pin    machine.Pin
	offset uint8
}

// NewWS2812 creates a WS2812 driver
// pioNum: 0 for PIO0, 1 for PIO1
// smNum: 0-3 for state machine number
func NewWS2812(pioNum, smNum uint8) *WS2812 {
	var pioHW *rp2pio.PIO
	if pioNum == 0 {
		pioHW = rp2pio.PIO0
	} else {
		pioHW = rp2pio.PIO1
	}

	return &WS2812{
		pio: pioHW,
		sm:  pioHW.StateMachine(smNum),
	}
}

// Init loads the program and starts the state machine on pin
func (w *WS2812) Init(pin machine.Pin) error {
	w.pin = pin

	w.sm.TryClaim()

	program := buildWS2812Program()
	offset, err := w.pio.AddProgram(program, ws2812Origin)
	if err != nil {
		return err
	}
	w.offset = offset

	w.pin.Configure(machine.PinConfig{Mode: w.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(w.pin, 1)

	// Shift left so the color sits in the top 24 bits, autopull every 24 bits
	cfg.SetOutShift(false, true, 24)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)

	whole, frac := clkDiv(machine.CPUFrequency(), ws2812BitFreqHz)
	cfg.SetClkDivIntFrac(whole, frac)

	w.sm.Init(offset, cfg)
	w.sm.SetPindirsConsecutive(w.pin, 1, true)
	w.sm.SetPinsConsecutive(w.pin, 1, false)
	w.sm.SetEnabled(true)

	return nil
}

// SetRGB pushes one color; the LED expects GRB order
func (w *WS2812) SetRGB(r, g, b uint8) {
	word := uint32(g)<<24 | uint32(r)<<16 | uint32(b)<<8
	for w.sm.IsTxFIFOFull() {
	}
	w.sm.TxPut(word)
}

// clkDiv splits cpuHz/freqHz into the 16.8 fixed-point divider
func clkDiv(cpuHz, freqHz uint32) (uint16, uint8) {
	div := uint64(cpuHz) * 256 / uint64(freqHz)
	return uint16(div >> 8), uint8(div)
}
