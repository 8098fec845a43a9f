//go:build rp2040 || rp2350

package main

import (
	"empirikit/core"
	"empirikit/targets/pio"
	"machine"

	"tinygo.org/x/drivers/hd44780i2c"
)

// Indicator wiring
const (
	ws2812Pin  = machine.GPIO16
	ws2812PIO  = 0
	ws2812SM   = 0
	lcdAddress = 0x27
	lcdWidth   = 16
	lcdHeight  = 2
)

// NewIndicator builds the indicator for the selected variant. The LCD
// shares the sensor bus.
func NewIndicator(variant VariantConfig, bus *machine.I2C) (core.Indicator, error) {
	switch variant.Display {
	case DisplayText:
		panel, err := NewLCDPanel(bus)
		if err != nil {
			return nil, err
		}
		return core.NewTextIndicator(panel), nil
	default:
		led := pio.NewWS2812(ws2812PIO, ws2812SM)
		if err := led.Init(ws2812Pin); err != nil {
			return nil, err
		}
		return core.NewRGBIndicator(led), nil
	}
}

// LCDPanel implements core.TextPanel on an HD44780 character display
type LCDPanel struct {
	dev hd44780i2c.Device
}

// NewLCDPanel configures the display with cursor off
func NewLCDPanel(bus *machine.I2C) (*LCDPanel, error) {
	p := &LCDPanel{dev: hd44780i2c.New(bus, lcdAddress)}
	err := p.dev.Configure(hd44780i2c.Config{
		Width:  lcdWidth,
		Height: lcdHeight,
	})
	if err != nil {
		return nil, err
	}
	p.dev.BacklightOn(true)
	return p, nil
}

// Print replaces the first line with text
func (p *LCDPanel) Print(text string) {
	p.dev.ClearDisplay()
	p.dev.SetCursor(0, 0)
	p.dev.Print([]byte(text))
}
