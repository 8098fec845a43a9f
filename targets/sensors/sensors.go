//go:build rp2040 || rp2350

package sensors

import (
	"errors"
	"machine"

	"empirikit/protocol"

	"tinygo.org/x/drivers/adxl345"
	"tinygo.org/x/drivers/vl53l1x"
)

// Sensor bus wiring: I2C0 on GP4 (SDA) / GP5 (SCL)
const (
	BusFrequency = 400 * machine.KHz
	BusSDA       = machine.GPIO4
	BusSCL       = machine.GPIO5
)

var ErrNoProximity = errors.New("vl53l1x not responding")

// InitBus configures the shared I2C bus
func InitBus() (*machine.I2C, error) {
	bus := machine.I2C0
	err := bus.Configure(machine.I2CConfig{
		Frequency: BusFrequency,
		SDA:       BusSDA,
		SCL:       BusSCL,
	})
	if err != nil {
		return nil, err
	}
	return bus, nil
}

// ADXL345 implements core.Accelerometer
type ADXL345 struct {
	dev adxl345.Device
}

// NewADXL345 configures the accelerometer for rangeG (2, 4, 8 or 16)
func NewADXL345(bus *machine.I2C, rangeG int) (*ADXL345, error) {
	var r adxl345.Range
	switch rangeG {
	case 2:
		r = adxl345.RANGE_2G
	case 4:
		r = adxl345.RANGE_4G
	case 8:
		r = adxl345.RANGE_8G
	case 16:
		r = adxl345.RANGE_16G
	default:
		return nil, errors.New("unsupported accelerometer range " + protocol.Itoa(rangeG))
	}

	a := &ADXL345{dev: adxl345.New(bus)}
	a.dev.Configure()
	a.dev.SetRange(r)
	// Output data rate above the highest stream rate
	a.dev.SetRate(adxl345.RATE_200HZ)
	return a, nil
}

func (a *ADXL345) ReadAccel() (int16, int16, int16) {
	x, y, z := a.dev.ReadRawAcceleration()
	return ScaleAxis(x), ScaleAxis(y), ScaleAxis(z)
}

// Raw returns one unscaled sample
func (a *ADXL345) Raw() (int16, int16, int16) {
	return a.dev.ReadRawAcceleration()
}

// ProximityTouch implements core.TouchSensor with a VL53L1X time-of-flight
// sensor: a hand approaching the board reads like a finger on the slider
type ProximityTouch struct {
	dev vl53l1x.Device
}

// NewProximityTouch starts the sensor in continuous short-range mode
func NewProximityTouch(bus *machine.I2C) (*ProximityTouch, error) {
	p := &ProximityTouch{dev: vl53l1x.New(bus)}
	if !p.dev.Configure(true) {
		return nil, ErrNoProximity
	}
	p.dev.SetDistanceMode(vl53l1x.SHORT)
	p.dev.SetMeasurementTimingBudget(20000)
	p.dev.StartContinuous(20)
	return p, nil
}

func (p *ProximityTouch) ReadTouch() int16 {
	mm, ok := p.Distance()
	if !ok {
		return 0
	}
	return ProximityLevel(mm)
}

// Distance returns the last range in millimetres and whether it is valid
func (p *ProximityTouch) Distance() (uint16, bool) {
	mm := p.dev.Read(false)
	return mm, p.dev.Status() == vl53l1x.RangeValid
}
