package servo

import (
	"io"
	"math"
)

// Instruction bytes of the STS serial protocol.
const (
	instrPing  = 0x01
	instrRead  = 0x02
	instrWrite = 0x03
)

// Register addresses of the STS memory map.
const (
	regTorqueEnable       = 24
	regPGain              = 28
	regGoalPosition       = 30
	regPresentPosition    = 36
	regPresentSpeed       = 38
	regPresentLoad        = 40
	regPresentVoltage     = 42
	regPresentTemperature = 43
)

// 4096 counts per revolution, zero angle at mid-scale.
const (
	countsPerRev = 4096.0
	centerCount  = 2048.0
)

func checksum(body []byte) byte {
	var sum byte
	for _, b := range body {
		sum += b
	}
	return ^sum
}

// encodePacket frames an instruction packet. Status packets share the same
// layout with the status byte in the instruction slot, so tests reuse this
// for replies.
func encodePacket(id, instruction byte, params []byte) []byte {
	pkt := make([]byte, 0, len(params)+6)
	pkt = append(pkt, 0xFF, 0xFF, id, byte(len(params)+2), instruction)
	pkt = append(pkt, params...)
	pkt = append(pkt, checksum(pkt[2:]))
	return pkt
}

// readPacket reads one status packet from the port and returns the replying
// servo id, the status byte and the parameter bytes.
func readPacket(r io.Reader) (id, status byte, params []byte, err error) {
	header := make([]byte, 4)
	if err := readFull(r, header); err != nil {
		return 0, 0, nil, err
	}
	if header[0] != 0xFF || header[1] != 0xFF {
		return 0, 0, nil, ErrFraming
	}
	id = header[2]
	length := header[3]
	if length < 2 {
		return 0, 0, nil, ErrFraming
	}

	body := make([]byte, length)
	if err := readFull(r, body); err != nil {
		return 0, 0, nil, err
	}

	sum := header[2] + header[3]
	for _, b := range body[:length-1] {
		sum += b
	}
	if ^sum != body[length-1] {
		return 0, 0, nil, ErrChecksum
	}
	return id, body[0], body[1 : length-1], nil
}

// readFull fills buf from the port. Serial reads return (0, nil) once the
// port's read timeout expires, which io.ReadFull would spin on.
func readFull(r io.Reader, buf []byte) error {
	for n := 0; n < len(buf); {
		m, err := r.Read(buf[n:])
		if err != nil {
			return err
		}
		if m == 0 {
			return ErrTimeout
		}
		n += m
	}
	return nil
}

// STS words go over the wire low byte first.
func word(lo, hi byte) uint16 {
	return uint16(lo) | uint16(hi)<<8
}

func putWord(v uint16) (lo, hi byte) {
	return byte(v), byte(v >> 8)
}

// Present speed is sign-magnitude with the direction in bit 15.
func signedSpeed(raw uint16) float64 {
	if raw&0x8000 != 0 {
		return -float64(raw & 0x7FFF)
	}
	return float64(raw)
}

// Present load is sign-magnitude with the direction in bit 10, magnitude in
// 0.1% units.
func signedLoad(raw uint16) float64 {
	mag := float64(raw & 0x3FF)
	if raw&0x400 != 0 {
		mag = -mag
	}
	return mag / 1000.0
}

func countsToRadians(raw uint16) float64 {
	return (float64(raw) - centerCount) / countsPerRev * 2 * math.Pi
}

func speedToRadians(raw uint16) float64 {
	return signedSpeed(raw) / countsPerRev * 2 * math.Pi
}

func radiansToCounts(rad float64) uint16 {
	counts := math.Round(rad/(2*math.Pi)*countsPerRev + centerCount)
	if counts < 0 {
		counts = 0
	}
	if counts > countsPerRev-1 {
		counts = countsPerRev - 1
	}
	return uint16(counts)
}
