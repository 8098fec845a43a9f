package protocol

import "io"

// HardwareInfo describes the device for the GETINF response
type HardwareInfo struct {
	DeviceType   string
	UID          []byte
	Capabilities []string
}

// StreamSample is one streaming tick's worth of sensor data
type StreamSample struct {
	Rate     int
	HasTouch bool
	Touch    int16
	HasAccel bool
	Accel    [3]int16
}

// LogMeta is the metadata leading an AccelerometerLog response
type LogMeta struct {
	Range  int
	Factor int
	Rate   int
}

// Encoder writes response objects as text. Every response is built line by
// line in a scratch buffer and written as it goes, so a response never has
// to fit in memory as a whole.
type Encoder struct {
	w    io.Writer
	line ScratchOutput
	err  error
}

// NewEncoder creates an Encoder writing to w
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// flush writes the current line and keeps the first error seen
func (e *Encoder) flush() {
	if e.line.CurPosition() > 0 && e.err == nil {
		_, e.err = e.w.Write(e.line.Result())
	}
	e.line.Reset()
}

// finish returns the response's first error and clears it for the next one
func (e *Encoder) finish() error {
	e.flush()
	err := e.err
	e.err = nil
	return err
}

func (e *Encoder) quoted(s string) {
	var tmp [LineBufferSize]byte
	e.line.Output(AppendQuoted(tmp[:0], s))
}

// HardwareInfo writes the GETINF response
func (e *Encoder) HardwareInfo(info HardwareInfo) error {
	e.line.OutputString("{\"datatype\":\"HardwareInfo\",\n")
	e.flush()

	e.line.OutputString("\"devicetype\":")
	e.quoted(info.DeviceType)
	e.line.OutputString(",\n")
	e.flush()

	var uid [LineBufferSize / 4]byte
	e.line.OutputString("\"version\":\"" + Version + "\",\n\"uid\":\"0x")
	e.line.Output(AppendHex(uid[:0], info.UID))
	e.line.OutputString("\",\n")
	e.flush()

	e.line.OutputString("\"capabilities\":[\n")
	e.flush()
	for i, c := range info.Capabilities {
		e.quoted(c)
		if i < len(info.Capabilities)-1 {
			e.line.OutputString(",")
		}
		e.line.OutputString("\n")
		e.flush()
	}
	e.line.OutputString("]}")
	return e.finish()
}

// Notification writes a state change event such as LoggingStarted
func (e *Encoder) Notification(event string) error {
	e.line.OutputString("{\"datatype\":\"Notification\",\"data\":")
	e.quoted(event)
	e.line.OutputString("}\n")
	return e.finish()
}

// StreamData writes one streaming tick
func (e *Encoder) StreamData(s StreamSample) error {
	e.line.OutputString("{\"datatype\":\"StreamData\",\n\"samplingrate\":")
	e.line.OutputInt(s.Rate)
	e.flush()
	if s.HasTouch {
		e.line.OutputString(",\n\"touchsensordata\":")
		e.line.OutputInt(int(s.Touch))
		e.flush()
	}
	if s.HasAccel {
		e.line.OutputString(",\n\"accelerometerdata\":")
		e.triple(s.Accel[0], s.Accel[1], s.Accel[2])
		e.flush()
	}
	e.line.OutputString("\n}")
	return e.finish()
}

func (e *Encoder) triple(x, y, z int16) {
	e.line.OutputString("[")
	e.line.OutputInt(int(x))
	e.line.OutputString(",")
	e.line.OutputInt(int(y))
	e.line.OutputString(",")
	e.line.OutputInt(int(z))
	e.line.OutputString("]")
}

// AccelerometerLog writes a recorded log. at is called for each of the count
// entries in order.
func (e *Encoder) AccelerometerLog(meta LogMeta, count int, at func(i int) (x, y, z int16)) error {
	e.line.OutputString("{\"datatype\":\"AccelerometerLog\",\n\"accelrange\":")
	e.line.OutputInt(meta.Range)
	e.line.OutputString(",\n\"accelfactor\":")
	e.line.OutputInt(meta.Factor)
	e.line.OutputString(",\n\"samplingrate\":")
	e.line.OutputInt(meta.Rate)
	e.line.OutputString(",\n\"data\":[\n")
	e.flush()

	for i := 0; i < count; i++ {
		e.triple(at(i))
		if i < count-1 {
			e.line.OutputString(",")
		}
		e.line.OutputString("\n")
		e.flush()
		if e.err != nil {
			break
		}
	}

	e.line.OutputString("]}\n")
	return e.finish()
}

// StatusMessage writes a diagnostic status such as "Unexpected state."
func (e *Encoder) StatusMessage(text string) error {
	e.line.OutputString("{\"datatype\":\"StatusMessage\",\"data\":")
	e.quoted(text)
	e.line.OutputString("}\n")
	return e.finish()
}

// Message writes a free-form {"msg":...} object
func (e *Encoder) Message(text string) error {
	e.line.OutputString("{\"msg\":")
	e.quoted(text)
	e.line.OutputString("}")
	return e.finish()
}

// Help writes the command listing as a {"msg":[...]} array
func (e *Encoder) Help(lines []string) error {
	e.line.OutputString("{\"msg\":[")
	for i, l := range lines {
		e.quoted(l)
		if i < len(lines)-1 {
			e.line.OutputString(",")
		}
		e.flush()
	}
	e.line.OutputString("]}")
	return e.finish()
}
