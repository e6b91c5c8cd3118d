// Package servo drives Feetech STS-series servos over half-duplex serial.
//
// The driver speaks the instruction/status packet protocol directly: 0xFF
// 0xFF header, servo id, payload length, instruction, ones-complement
// checksum. Telemetry reads span the present-position block and convert raw
// counts into radians at this boundary, so everything above works in SI
// units.
package servo

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

// Telemetry readings sometimes come back zeroed right after power-up, so
// reads retry until the temperature byte is plausible.
const maxReadRetries = 10

// Telemetry is one sample of the servo's present state.
type Telemetry struct {
	Position   float64 // rad, zero at mid-scale
	Speed      float64 // rad/s
	Load       float64 // normalized, -1..1
	InputVolts float64 // V
	Temp       float64 // °C
}

// Servo is a single STS servo on a shared half-duplex bus.
type Servo struct {
	rw  io.ReadWriter
	id  uint8
	log *zap.Logger
}

// New wraps an already open port. Tests use this with an in-memory port.
func New(rw io.ReadWriter, id uint8, log *zap.Logger) *Servo {
	if log == nil {
		log = zap.NewNop()
	}
	return &Servo{rw: rw, id: id, log: log}
}

// Open opens the serial port at the STS default baud rate and returns a
// driver for the servo with the given bus id.
func Open(portName string, id uint8, log *zap.Logger) (*Servo, error) {
	mode := &serial.Mode{
		BaudRate: 1_000_000,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", portName, err)
	}
	if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
		port.Close()
		return nil, err
	}
	return New(port, id, log), nil
}

// Close closes the underlying port if it is closable.
func (s *Servo) Close() error {
	if c, ok := s.rw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Servo) transact(instruction byte, params []byte) ([]byte, error) {
	if _, err := s.rw.Write(encodePacket(s.id, instruction, params)); err != nil {
		return nil, err
	}

	id, status, data, err := readPacket(s.rw)
	if err != nil {
		return nil, err
	}
	if id != s.id {
		return nil, fmt.Errorf("servo: reply from id %d, want %d", id, s.id)
	}
	if status != 0 {
		return nil, fmt.Errorf("servo: status error 0x%02x", status)
	}
	return data, nil
}

func (s *Servo) writeRegister(addr byte, data ...byte) error {
	_, err := s.transact(instrWrite, append([]byte{addr}, data...))
	return err
}

func (s *Servo) readRegister(addr, n byte) ([]byte, error) {
	data, err := s.transact(instrRead, []byte{addr, n})
	if err != nil {
		return nil, err
	}
	if len(data) != int(n) {
		return nil, fmt.Errorf("servo: short read: %d of %d bytes", len(data), n)
	}
	return data, nil
}

// Ping checks that the servo answers on the bus.
func (s *Servo) Ping() error {
	_, err := s.transact(instrPing, nil)
	return err
}

// SetTorque switches the output stage on or off.
func (s *Servo) SetTorque(enable bool) error {
	v := byte(0)
	if enable {
		v = 1
	}
	return s.writeRegister(regTorqueEnable, v)
}

// SetPGain sets the position loop's proportional gain.
func (s *Servo) SetPGain(gain uint8) error {
	return s.writeRegister(regPGain, gain)
}

// SetGoalPosition commands the servo to the given angle in radians.
func (s *Servo) SetGoalPosition(rad float64) error {
	lo, hi := putWord(radiansToCounts(rad))
	return s.writeRegister(regGoalPosition, lo, hi)
}

// ReadTelemetry reads position, speed, load, voltage and temperature in one
// register block. Zeroed readings are retried; after the retry budget the
// last sample is returned as-is.
func (s *Servo) ReadTelemetry() (Telemetry, error) {
	var t Telemetry
	for attempt := 0; attempt < maxReadRetries; attempt++ {
		data, err := s.readRegister(regPresentPosition, 8)
		if err != nil {
			return Telemetry{}, err
		}
		t = decodeTelemetry(data)
		if t.Temp != 0 {
			return t, nil
		}
	}
	s.log.Warn("telemetry still zeroed after retries", zap.Int("attempts", maxReadRetries))
	return t, nil
}

func decodeTelemetry(data []byte) Telemetry {
	return Telemetry{
		Position:   countsToRadians(word(data[0], data[1])),
		Speed:      speedToRadians(word(data[2], data[3])),
		Load:       signedLoad(word(data[4], data[5])),
		InputVolts: float64(data[6]) / 10.0,
		Temp:       float64(data[7]),
	}
}
