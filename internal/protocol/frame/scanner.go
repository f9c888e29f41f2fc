package frame

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/danmuck/modemlink/internal/protocol/crc"
	"github.com/danmuck/modemlink/internal/protocol/schema"
)

// Scanner extracts frames from a byte stream delivered in arbitrary chunks.
// It owns the unconsumed remainder between calls, so one Scanner serves
// exactly one logical stream; callers must serialize access themselves.
//
// After a framing or checksum error the scanner has already repositioned
// itself past the offending bytes: keep calling Next to resume with the
// rest of the stream.
type Scanner struct {
	cfg     Config
	table   *crc.Table
	buf     []byte
	dropped uint64
}

// NewScanner returns a scanner for one stream.
func NewScanner(cfg Config) (*Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scanner{cfg: cfg, table: crc.MakeTable(cfg.CRC)}, nil
}

// Push appends newly received bytes to the stream remainder.
func (s *Scanner) Push(p []byte) {
	s.buf = append(s.buf, p...)
}

// Next returns the next complete frame. ok is false with a nil error when
// the buffered bytes do not yet hold a full frame; that is the normal
// "need more data" outcome on a serial link, not a failure. A non-nil
// error reports one skipped corrupt frame; subsequent calls continue with
// the bytes after it.
func (s *Scanner) Next() (f Frame, ok bool, err error) {
	s.seekMarker()

	header := s.cfg.headerLen()
	if len(s.buf) < header {
		return Frame{}, false, nil
	}

	body := s.buf[len(s.cfg.Marker):header]
	length := int(s.cfg.uint(body[:s.cfg.LengthWidth], s.cfg.LengthWidth))
	typeID := schema.MessageType(s.cfg.uint(body[s.cfg.LengthWidth:], s.cfg.TypeWidth))

	if length > s.cfg.MaxPayload {
		// The declared length cannot be trusted, so only the marker is
		// discarded before rescanning for the next one.
		s.discard(len(s.cfg.Marker))
		return Frame{}, false, fmt.Errorf("%w: declared %d, limit %d", ErrInvalidLength, length, s.cfg.MaxPayload)
	}

	total := header + length + crcLen
	if len(s.buf) < total {
		return Frame{}, false, nil
	}

	want := binary.LittleEndian.Uint16(s.buf[total-crcLen : total])
	got := s.table.Checksum(s.buf[len(s.cfg.Marker) : total-crcLen])
	if got != want {
		s.discard(total)
		return Frame{}, false, fmt.Errorf("%w: computed 0x%04X, frame carries 0x%04X", ErrChecksumMismatch, got, want)
	}

	payload := make([]byte, length)
	copy(payload, s.buf[header:header+length])
	s.buf = s.buf[total:]
	return Frame{Type: typeID, Payload: payload}, true, nil
}

// Buffered reports how many unconsumed bytes the scanner is holding.
func (s *Scanner) Buffered() int { return len(s.buf) }

// Dropped reports the cumulative count of bytes discarded as noise or as
// part of corrupt frames.
func (s *Scanner) Dropped() uint64 { return s.dropped }

// seekMarker discards leading bytes that cannot start a frame, keeping any
// trailing partial marker match for the next Push.
func (s *Scanner) seekMarker() {
	if i := bytes.Index(s.buf, s.cfg.Marker); i >= 0 {
		s.discard(i)
		return
	}

	// No full marker buffered. Keep the longest suffix that is a prefix of
	// the marker; everything before it is noise.
	keep := 0
	for n := min(len(s.cfg.Marker)-1, len(s.buf)); n > 0; n-- {
		if bytes.Equal(s.buf[len(s.buf)-n:], s.cfg.Marker[:n]) {
			keep = n
			break
		}
	}
	s.discard(len(s.buf) - keep)
}

func (s *Scanner) discard(n int) {
	if n <= 0 {
		return
	}
	s.dropped += uint64(n)
	s.buf = s.buf[n:]
}
