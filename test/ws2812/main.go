//go:build rp2040 || rp2350

package main

// WS2812 PIO Test - Cycles through the indicator states the firmware uses
// Watch the LED, or the data line on a logic analyser (800 kHz)

import (
	"empirikit/core"
	ws2812 "empirikit/targets/pio"
	"machine"
	"time"
)

const ledPin = machine.GPIO16

// Indicator steps in the order a recording session shows them
var steps = []struct {
	name string
	show func(ind *core.RGBIndicator)
	hold time.Duration
}{
	{"power on (green)", func(ind *core.RGBIndicator) { ind.PowerOn() }, time.Second},
	{"armed, phase 0 (green)", func(ind *core.RGBIndicator) { ind.Armed(0) }, 500 * time.Millisecond},
	{"armed, phase 1 (off)", func(ind *core.RGBIndicator) { ind.Armed(1) }, 500 * time.Millisecond},
	{"proximity 5 (dim blue)", func(ind *core.RGBIndicator) { ind.Proximity(5) }, 500 * time.Millisecond},
	{"proximity 20 (bright blue)", func(ind *core.RGBIndicator) { ind.Proximity(20) }, 500 * time.Millisecond},
	{"triggered (red)", func(ind *core.RGBIndicator) { ind.Triggered() }, 500 * time.Millisecond},
	{"countdown 1/4", func(ind *core.RGBIndicator) { ind.Countdown(0, 4) }, 250 * time.Millisecond},
	{"countdown 2/4", func(ind *core.RGBIndicator) { ind.Countdown(1, 4) }, 250 * time.Millisecond},
	{"countdown 3/4", func(ind *core.RGBIndicator) { ind.Countdown(2, 4) }, 250 * time.Millisecond},
	{"countdown 4/4", func(ind *core.RGBIndicator) { ind.Countdown(3, 4) }, 250 * time.Millisecond},
	{"recording (red)", func(ind *core.RGBIndicator) { ind.Recording() }, time.Second},
	{"done (green)", func(ind *core.RGBIndicator) { ind.Done() }, time.Second},
}

func main() {
	time.Sleep(3 * time.Second)

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})

	// Flash LED to indicate start
	for i := 0; i < 3; i++ {
		led.High()
		time.Sleep(100 * time.Millisecond)
		led.Low()
		time.Sleep(100 * time.Millisecond)
	}

	println("=== WS2812 PIO Test ===")
	println("Data: GP16, PIO0 SM0")

	strip := ws2812.NewWS2812(0, 0)
	err := strip.Init(ledPin)
	if err != nil {
		println("Init error:", err.Error())
		for {
			led.High()
			time.Sleep(100 * time.Millisecond)
			led.Low()
			time.Sleep(100 * time.Millisecond)
		}
	}
	println("Init OK!")

	ind := core.NewRGBIndicator(strip)

	cycle := 0
	for {
		cycle++
		println("\n=== Cycle", cycle, "===")

		for _, step := range steps {
			println("State:", step.name)
			step.show(ind)
			time.Sleep(step.hold)
		}

		// Raw primaries to check the GRB byte order
		for _, c := range [][3]uint8{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}} {
			println("Raw:", c[0], c[1], c[2])
			strip.SetRGB(c[0], c[1], c[2])
			time.Sleep(500 * time.Millisecond)
		}

		strip.SetRGB(0, 0, 0)
		println("\n--- Restarting cycle ---")
		time.Sleep(time.Second)
	}
}
