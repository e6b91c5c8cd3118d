package servo

import "errors"

// ErrFraming is returned when a reply does not start with the 0xFF 0xFF
// packet header.
var ErrFraming = errors.New("servo: bad packet framing")

// ErrChecksum is returned when a reply fails checksum verification.
var ErrChecksum = errors.New("servo: checksum mismatch")

// ErrTimeout is returned when the serial port stops delivering bytes
// mid-packet.
var ErrTimeout = errors.New("servo: read timed out")
