// Package protocol implements the empiriKit text command protocol
package protocol

// Version is the firmware version reported in HardwareInfo
const Version = "14.06.001"

// Inbound frame layout: {"SETRTE":50}
//
//	offset 0-1: framing bytes ({" or {')
//	offset 2-7: command code
//	offset 8-9: framing bytes (": or ':)
//	offset 10+: argument, terminated by '}'
const (
	CodeOffset  = 2
	CodeLength  = 6
	ValueOffset = 10

	FrameTerminator = '}'
)

// Transport limits
const (
	MaxPacketSize          = 64   // USB full-speed bulk endpoint
	DefaultReceiveCapacity = 1024 // Receive buffer bound
	LineBufferSize         = 200  // Longest single encoded response line
)

// Command codes
const (
	CodeSetIdle     = "SETIDL"
	CodeLogAccel    = "LOGACC"
	CodeNotify      = "NOTIFY"
	CodeSetRGB      = "SETRGB"
	CodeSetLCD      = "SETLCD"
	CodeSetRate     = "SETRTE"
	CodeStreamTouch = "STRTCH"
	CodeStreamAccel = "STRACC"
	CodeGetInfo     = "GETINF"
	CodeGetLog      = "GETLOG"
)

// Response discriminators
const (
	DatatypeHardwareInfo     = "HardwareInfo"
	DatatypeNotification     = "Notification"
	DatatypeStreamData       = "StreamData"
	DatatypeAccelerometerLog = "AccelerometerLog"
	DatatypeStatusMessage    = "StatusMessage"

	EventLoggingStarted = "LoggingStarted"
	EventLoggingEnded   = "LoggingEnded"
)
