package core

import "empirikit/protocol"

// Indicator is the device's visual output. The RGB LED and the text display
// variants implement it; the engine drives it the same way for both.
type Indicator interface {
	// PowerOn shows that the device is ready
	PowerOn()
	// Armed shows the waiting-for-gesture pattern. phase cycles 0..3 once per tick.
	Armed(phase int)
	// Proximity shows a touch reading between 0 and the gesture threshold
	Proximity(distance int16)
	// Triggered shows that the start gesture was seen
	Triggered()
	// Countdown shows step of total in the pre-recording countdown
	Countdown(step, total int)
	// Recording shows that samples are being taken
	Recording()
	// Progress shows elapsed whole seconds of the current recording
	Progress(seconds int)
	// Done shows that a recording has ended
	Done()
	// Apply handles the variant's display command
	Apply(arg protocol.Argument)
	// Descriptor describes the display command and capability
	Descriptor() IndicatorDescriptor
}

// IndicatorDescriptor is the command and capability an Indicator contributes
type IndicatorDescriptor struct {
	Code       string           // Display command code, "" for none
	Arg        protocol.ArgKind // Argument the display command takes
	Help       string           // Help text for the display command
	Capability string           // HardwareInfo capability, "" for none
}

// RGBLed is a single RGB LED
type RGBLed interface {
	SetRGB(r, g, b uint8)
}

// RGBIndicator drives an RGB LED: green at power-on and when done, a slow
// green blink while armed, blue glow for proximity, blinking red for the
// countdown and solid red while recording.
type RGBIndicator struct {
	led RGBLed
}

// NewRGBIndicator creates an Indicator for led
func NewRGBIndicator(led RGBLed) *RGBIndicator {
	return &RGBIndicator{led: led}
}

func (i *RGBIndicator) PowerOn() { i.led.SetRGB(0, 255, 0) }

func (i *RGBIndicator) Armed(phase int) {
	if phase == 0 {
		i.led.SetRGB(0, 255, 0)
	} else {
		i.led.SetRGB(0, 0, 0)
	}
}

func (i *RGBIndicator) Proximity(distance int16) {
	i.led.SetRGB(0, 0, clampByte(int(distance)*12))
}

func (i *RGBIndicator) Triggered() { i.led.SetRGB(255, 0, 0) }

func (i *RGBIndicator) Countdown(step, total int) {
	if step&1 == 0 {
		i.led.SetRGB(255, 0, 0)
	} else {
		i.led.SetRGB(0, 0, 0)
	}
}

func (i *RGBIndicator) Recording()   { i.led.SetRGB(255, 0, 0) }
func (i *RGBIndicator) Progress(int) {}
func (i *RGBIndicator) Done()        { i.led.SetRGB(0, 255, 0) }

// Apply sets the color from a SETRGB triple, clamping each channel to 0..255
func (i *RGBIndicator) Apply(arg protocol.Argument) {
	if arg.Kind != protocol.ArgTriple {
		return
	}
	i.led.SetRGB(clampByte(arg.Triple[0]), clampByte(arg.Triple[1]), clampByte(arg.Triple[2]))
}

func (i *RGBIndicator) Descriptor() IndicatorDescriptor {
	return IndicatorDescriptor{
		Code:       protocol.CodeSetRGB,
		Arg:        protocol.ArgTriple,
		Help:       "Set LED RGB color, e.g. send {'SETRGB':[255,0,0]}",
		Capability: "rgbled",
	}
}

// TextPanel is a short character display
type TextPanel interface {
	Print(text string)
}

// TextIndicator drives a character display with short status words
type TextIndicator struct {
	panel TextPanel
	last  string
}

// NewTextIndicator creates an Indicator for panel
func NewTextIndicator(panel TextPanel) *TextIndicator {
	return &TextIndicator{panel: panel}
}

// show writes text only when it differs from what is displayed
func (i *TextIndicator) show(text string) {
	if text == i.last {
		return
	}
	i.last = text
	i.panel.Print(text)
}

func (i *TextIndicator) PowerOn()  { i.show("RDY") }
func (i *TextIndicator) Armed(int) { i.show("LACC") }

func (i *TextIndicator) Proximity(distance int16) {
	i.show(padInt(int(distance), 4, '0'))
}

func (i *TextIndicator) Triggered() { i.show("ACCR") }

func (i *TextIndicator) Countdown(step, total int) {
	i.show("-" + padInt((total-step)>>1, 2, ' ') + "s")
}

func (i *TextIndicator) Recording() { i.show("REC") }

func (i *TextIndicator) Progress(seconds int) {
	i.show(padInt(seconds, 3, ' ') + "s")
}

func (i *TextIndicator) Done() { i.show("DONE") }

// Apply prints a SETLCD string
func (i *TextIndicator) Apply(arg protocol.Argument) {
	if arg.Kind != protocol.ArgString {
		return
	}
	i.show(arg.Str)
}

func (i *TextIndicator) Descriptor() IndicatorDescriptor {
	return IndicatorDescriptor{
		Code:       protocol.CodeSetLCD,
		Arg:        protocol.ArgString,
		Help:       "Set LCD string, e.g. send {'SETLCD':'1234'}",
		Capability: "textdisplay",
	}
}

// NopIndicator is used when the board has no display
type NopIndicator struct{}

func (NopIndicator) PowerOn()                        {}
func (NopIndicator) Armed(int)                       {}
func (NopIndicator) Proximity(int16)                 {}
func (NopIndicator) Triggered()                      {}
func (NopIndicator) Countdown(int, int)              {}
func (NopIndicator) Recording()                      {}
func (NopIndicator) Progress(int)                    {}
func (NopIndicator) Done()                           {}
func (NopIndicator) Apply(protocol.Argument)         {}
func (NopIndicator) Descriptor() IndicatorDescriptor { return IndicatorDescriptor{} }

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
