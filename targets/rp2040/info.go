//go:build rp2040 || rp2350

package main

import "machine"

// NewBoardInfo reports the variant's device type and the flash unique ID
func NewBoardInfo(variant VariantConfig) BoardInfo {
	deviceType := "empiriKit|MOTION"
	if variant.Display == DisplayText {
		deviceType = "empiriKit|RP2040"
	}
	return BoardInfo{deviceType: deviceType, uid: machine.DeviceID()}
}

// BoardInfo implements core.DeviceInfo
type BoardInfo struct {
	deviceType string
	uid        []byte
}

func (b BoardInfo) DeviceType() string { return b.deviceType }
func (b BoardInfo) UID() []byte        { return b.uid }

