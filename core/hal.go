package core

import "empirikit/protocol"

// Transport is the device's byte link to the host.
// TryRead never blocks: ok is false when nothing is waiting.
// Write may be asked for more than one packet; callers chunk output with
// protocol.ChunkWriter to stay within the per-call transfer size.
type Transport interface {
	TryRead(p []byte) (n int, ok bool)
	Write(p []byte) (int, error)
}

// Accelerometer reads one 3-axis sample in raw counts
type Accelerometer interface {
	ReadAccel() (x, y, z int16)
}

// TouchSensor reads the touch slider position or proximity.
// 0 means nothing detected.
type TouchSensor interface {
	ReadTouch() int16
}

// DeviceInfo describes the board for GETINF
type DeviceInfo interface {
	DeviceType() string
	UID() []byte
}

// StaticInfo is a DeviceInfo with fixed values
type StaticInfo struct {
	Type string
	ID   []byte
}

func (s StaticInfo) DeviceType() string { return s.Type }
func (s StaticInfo) UID() []byte        { return s.ID }

// Hardware bundles the collaborators an Engine drives
type Hardware struct {
	Transport Transport
	Accel     Accelerometer
	Touch     TouchSensor
	Indicator Indicator
	Clock     Clock
	Info      DeviceInfo
}

// hardwareInfo builds the GETINF response for this hardware
func (h *Hardware) hardwareInfo() protocol.HardwareInfo {
	info := protocol.HardwareInfo{
		Capabilities: []string{"accelerometer"},
	}
	if h.Info != nil {
		info.DeviceType = h.Info.DeviceType()
		info.UID = h.Info.UID()
	}
	if c := h.Indicator.Descriptor().Capability; c != "" {
		info.Capabilities = append(info.Capabilities, c)
	}
	info.Capabilities = append(info.Capabilities, "touchsensor")
	return info
}
