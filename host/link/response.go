package link

import (
	"encoding/json"
	"fmt"

	"empirikit/protocol"
)

// Kinds for responses that carry no datatype field
const (
	KindMessage = "Message"
	KindHelp    = "Help"
)

// Response is one decoded device object. Which fields are set depends on
// Kind.
type Response struct {
	Datatype string `json:"datatype"`

	// HardwareInfo
	DeviceType   string   `json:"devicetype"`
	Version      string   `json:"version"`
	UID          string   `json:"uid"`
	Capabilities []string `json:"capabilities"`

	// StreamData and AccelerometerLog
	SamplingRate int     `json:"samplingrate"`
	Touch        *int    `json:"touchsensordata"`
	Accel        *[3]int `json:"accelerometerdata"`
	AccelRange   int     `json:"accelrange"`
	AccelFactor  int     `json:"accelfactor"`

	// Notification and StatusMessage carry a string, AccelerometerLog an array
	Data json.RawMessage `json:"data"`

	// {"msg":...} carries a string or, for help, an array of strings
	Msg json.RawMessage `json:"msg"`

	Raw []byte `json:"-"`
}

// DecodeResponse parses one object produced by SplitObjects
func DecodeResponse(obj []byte) (*Response, error) {
	var r Response
	if err := json.Unmarshal(obj, &r); err != nil {
		return nil, fmt.Errorf("failed to decode response %q: %w", obj, err)
	}
	r.Raw = append([]byte(nil), obj...)
	return &r, nil
}

// Kind is the datatype, or KindMessage/KindHelp for msg objects
func (r *Response) Kind() string {
	if r.Datatype != "" {
		return r.Datatype
	}
	if len(r.Msg) > 0 && r.Msg[0] == '[' {
		return KindHelp
	}
	if len(r.Msg) > 0 {
		return KindMessage
	}
	return ""
}

// Text returns the string payload of a Notification, StatusMessage or Message
func (r *Response) Text() string {
	var s string
	switch {
	case len(r.Data) > 0 && r.Data[0] == '"':
		_ = json.Unmarshal(r.Data, &s)
	case len(r.Msg) > 0 && r.Msg[0] == '"':
		_ = json.Unmarshal(r.Msg, &s)
	}
	return s
}

// Lines returns the help listing
func (r *Response) Lines() []string {
	var lines []string
	if r.Kind() == KindHelp {
		_ = json.Unmarshal(r.Msg, &lines)
	}
	return lines
}

// Samples returns the AccelerometerLog entries
func (r *Response) Samples() ([][3]int, error) {
	if r.Datatype != protocol.DatatypeAccelerometerLog {
		return nil, fmt.Errorf("response is %q, not an accelerometer log", r.Kind())
	}
	var samples [][3]int
	if err := json.Unmarshal(r.Data, &samples); err != nil {
		return nil, fmt.Errorf("failed to decode log samples: %w", err)
	}
	return samples, nil
}

// IsEvent reports whether r is the Notification for event
func (r *Response) IsEvent(event string) bool {
	return r.Datatype == protocol.DatatypeNotification && r.Text() == event
}
