//go:build rp2040 || rp2350

package main

// Display selects the board's indicator hardware
type Display uint8

const (
	// DisplayRGB is a single WS2812 LED driven by PIO
	DisplayRGB Display = iota
	// DisplayText is a 16x2 HD44780 LCD behind a PCF8574 I2C backpack
	DisplayText
)

// VariantConfig determines which board variant to run
type VariantConfig struct {
	Display Display

	// Echo "Read N bytes" style diagnostics to the host
	EchoDiagnostics bool

	// Route core debug output to the debug UART
	Debug bool
}

// GetVariant returns the current variant configuration
// This can be modified at compile time
func GetVariant() VariantConfig {
	return VariantConfig{
		Display:         DisplayRGB,
		EchoDiagnostics: false,
		Debug:           false,
	}
}

// To build the LCD variant, change Display above to DisplayText
