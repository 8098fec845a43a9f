//go:build rp2040 || rp2350

package main

import (
	"empirikit/core"
	"empirikit/targets/sensors"
	"machine"
	"time"
)

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitUSB()
	InitDebugUART()
	core.SetDebugWriter(DebugPrintln)

	clock := NewHardwareClock()

	variant := GetVariant()
	core.SetDebugEnabled(variant.Debug)
	cfg := core.DefaultConfig()
	cfg.EchoDiagnostics = variant.EchoDiagnostics

	bus, err := sensors.InitBus()
	if err != nil {
		fatalBlink()
	}

	accel, err := sensors.NewADXL345(bus, cfg.AccelRangeG)
	if err != nil {
		DebugPrintln("[MAIN] accelerometer init failed: " + err.Error())
		fatalBlink()
	}

	touch, err := sensors.NewProximityTouch(bus)
	if err != nil {
		DebugPrintln("[MAIN] proximity sensor init failed: " + err.Error())
		fatalBlink()
	}

	indicator, err := NewIndicator(variant, bus)
	if err != nil {
		DebugPrintln("[MAIN] indicator init failed: " + err.Error())
		fatalBlink()
	}

	engine, err := core.NewEngine(cfg, core.Hardware{
		Transport: &USBTransport{},
		Accel:     accel,
		Touch:     touch,
		Indicator: indicator,
		Clock:     clock,
		Info:      NewBoardInfo(variant),
	})
	if err != nil {
		DebugPrintln("[MAIN] engine init failed: " + err.Error())
		fatalBlink()
	}

	// Main loop. Engine.Tick recovers collaborator panics itself; this
	// outer recover guards the loop against anything that slips past it.
	for {
		func() {
			defer func() {
				if r := recover(); r != nil {
					DebugPrintln("[MAIN] recovered panic")
					core.DumpTimingRing()
				}
			}()

			engine.Tick()
		}()
	}
}

// fatalBlink flashes the board LED forever to signal a failed boot
func fatalBlink() {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		led.High()
		time.Sleep(100 * time.Millisecond)
		led.Low()
		time.Sleep(100 * time.Millisecond)
	}
}
