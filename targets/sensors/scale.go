// Package sensors adapts the board's I2C sensors to the engine's
// accelerometer and touch interfaces.
package sensors

// The ADXL345 reports 10-bit samples (512/range counts per g). The log
// format advertises 8192/range counts per g, so every sample is scaled by 16.
const AccelScale = 16

// Proximity mapping: 400 mm and beyond reads 0, touching reads 40
const (
	ProximityFarMM  = 400
	ProximityStepMM = 10
	ProximityMax    = ProximityFarMM / ProximityStepMM
)

// ScaleAxis converts one raw ADXL345 axis to log counts, saturating at the
// int16 limits
func ScaleAxis(v int16) int16 {
	s := int32(v) * AccelScale
	if s > 32767 {
		return 32767
	}
	if s < -32768 {
		return -32768
	}
	return int16(s)
}

// ProximityLevel maps a distance to the 0..40 slider scale
func ProximityLevel(mm uint16) int16 {
	if mm >= ProximityFarMM {
		return 0
	}
	level := (ProximityFarMM - int(mm)) / ProximityStepMM
	if level > ProximityMax {
		level = ProximityMax
	}
	return int16(level)
}
