// Package frame handles the byte-level wire format: delimiting frames in a
// continuous stream, checksum validation, and framing of outbound payloads.
// The wire layout is [MARKER][LEN][TYPE][PAYLOAD][CRC16 LE] with the CRC
// computed over LEN+TYPE+PAYLOAD. Marker bytes, field widths, and CRC
// parameters are protocol-version configuration.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/danmuck/modemlink/internal/protocol/crc"
	"github.com/danmuck/modemlink/internal/protocol/schema"
)

const crcLen = 2

var (
	ErrInvalidLength    = errors.New("frame: invalid length")
	ErrChecksumMismatch = errors.New("frame: checksum mismatch")
	ErrPayloadTooLarge  = errors.New("frame: payload too large")
)

// Config fixes the wire constants for one protocol version.
type Config struct {
	Marker      []byte
	LengthWidth int
	TypeWidth   int
	MaxPayload  int
	CRC         crc.Params
}

// Validate rejects configurations the scanner cannot operate with.
func (c Config) Validate() error {
	if len(c.Marker) < 1 || len(c.Marker) > 4 {
		return fmt.Errorf("frame: marker must be 1..4 bytes, got %d", len(c.Marker))
	}
	if c.LengthWidth < 1 || c.LengthWidth > 2 {
		return fmt.Errorf("frame: length width must be 1 or 2, got %d", c.LengthWidth)
	}
	if c.TypeWidth < 1 || c.TypeWidth > 2 {
		return fmt.Errorf("frame: type width must be 1 or 2, got %d", c.TypeWidth)
	}
	if c.MaxPayload < 0 || c.MaxPayload > c.maxDeclarable() {
		return fmt.Errorf("frame: max payload %d does not fit a %d-byte length field", c.MaxPayload, c.LengthWidth)
	}
	return nil
}

func (c Config) headerLen() int { return len(c.Marker) + c.LengthWidth + c.TypeWidth }

func (c Config) maxDeclarable() int { return 1<<(8*c.LengthWidth) - 1 }

// Overhead is the number of framing bytes added around a payload.
func (c Config) Overhead() int { return c.headerLen() + crcLen }

func (c Config) putUint(dst []byte, width int, v uint64) {
	for i := 0; i < width; i++ {
		dst[i] = byte(v >> (8 * i))
	}
}

func (c Config) uint(src []byte, width int) uint64 {
	var v uint64
	for i := 0; i < width; i++ {
		v |= uint64(src[i]) << (8 * i)
	}
	return v
}

// Frame is one delimited unit of wire data with framing and checksum
// already stripped and verified.
type Frame struct {
	Type    schema.MessageType
	Payload []byte
}

// Encode wraps a payload with marker, length, type, and checksum bytes.
// It fails with ErrPayloadTooLarge for payloads over the configured limit.
func Encode(cfg Config, t schema.MessageType, payload []byte) ([]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(payload) > cfg.MaxPayload {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrPayloadTooLarge, len(payload), cfg.MaxPayload)
	}

	buf := make([]byte, 0, cfg.Overhead()+len(payload))
	buf = append(buf, cfg.Marker...)

	header := make([]byte, cfg.LengthWidth+cfg.TypeWidth)
	cfg.putUint(header[:cfg.LengthWidth], cfg.LengthWidth, uint64(len(payload)))
	cfg.putUint(header[cfg.LengthWidth:], cfg.TypeWidth, uint64(t))
	buf = append(buf, header...)
	buf = append(buf, payload...)

	table := crc.MakeTable(cfg.CRC)
	sum := table.Checksum(buf[len(cfg.Marker):])
	buf = binary.LittleEndian.AppendUint16(buf, sum)
	return buf, nil
}
