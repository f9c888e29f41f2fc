package protocol

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/modemlink/internal/observability"
	"github.com/danmuck/modemlink/internal/protocol/frame"
	"github.com/danmuck/modemlink/internal/protocol/schema"
)

// Codec is the top-level entry point for one byte stream: it drives the
// frame scanner, resolves message types through the registry, and runs the
// payload codec. The only state carried between calls is the scanner's
// unconsumed remainder, so a Codec belongs to exactly one stream and must
// not be shared without external serialization. The registry may be shared
// across any number of codecs once seeding is done.
type Codec struct {
	cfg     frame.Config
	reg     *schema.Registry
	scanner *frame.Scanner
	dropped uint64
}

// NewCodec builds a codec for one stream over a seeded registry.
func NewCodec(cfg frame.Config, reg *schema.Registry) (*Codec, error) {
	if reg == nil {
		return nil, errors.New("codec: nil registry")
	}
	scanner, err := frame.NewScanner(cfg)
	if err != nil {
		return nil, err
	}
	return &Codec{cfg: cfg, reg: reg, scanner: scanner}, nil
}

// Push feeds a chunk of received bytes and returns every result that
// became decodable. Framing and validation failures appear as error
// entries in order; the stream continues past them. An empty slice means
// more bytes are needed, which is the normal case on a serial link.
func (c *Codec) Push(p []byte) []Result {
	c.scanner.Push(p)

	var results []Result
	for {
		f, ok, err := c.scanner.Next()
		if err != nil {
			log.Warn().Err(err).Msg("codec: frame skipped")
			observability.FrameDecoded(frameErrorLabel(err))
			results = append(results, Result{Err: err})
			continue
		}
		if !ok {
			break
		}
		results = append(results, c.decodeFrame(f))
	}

	if d := c.scanner.Dropped(); d != c.dropped {
		observability.BytesDiscarded(d - c.dropped)
		c.dropped = d
	}
	return results
}

// Decode runs a complete capture through a fresh scanner, leaving the
// Push stream state untouched. Bytes after the last complete frame are
// ignored.
func (c *Codec) Decode(buf []byte) []Result {
	oneShot, err := NewCodec(c.cfg, c.reg)
	if err != nil {
		return []Result{{Err: err}}
	}
	return oneShot.Push(buf)
}

// Buffered reports the size of the carried-over stream remainder.
func (c *Codec) Buffered() int { return c.scanner.Buffered() }

func (c *Codec) decodeFrame(f frame.Frame) Result {
	s, ok := c.reg.Lookup(f.Type)
	if !ok {
		// Unknown types are preserved, not dropped: newer firmware may
		// speak message kinds this registry predates.
		log.Debug().
			Uint16("type", uint16(f.Type)).
			Int("payload_len", len(f.Payload)).
			Msg("codec: unknown message type preserved raw")
		observability.FrameDecoded("raw")
		return Result{Raw: &RawMessage{Type: f.Type, Payload: f.Payload}}
	}

	msg, err := DecodePayload(s, f.Payload)
	if err != nil {
		log.Warn().Err(err).Str("schema", s.Name).Msg("codec: payload rejected")
		observability.FrameDecoded("validation")
		return Result{Err: err}
	}

	log.Debug().Str("schema", s.Name).Int("payload_len", len(f.Payload)).Msg("codec: message decoded")
	observability.FrameDecoded("ok")
	observability.MessageDecoded(s.Name)
	return Result{Msg: msg}
}

// Encode serializes a message and wraps it in framing and checksum bytes.
func (c *Codec) Encode(m *Message) ([]byte, error) {
	if m == nil {
		return nil, errors.New("codec: nil message")
	}
	s, ok := c.reg.Lookup(m.Type())
	if !ok {
		return nil, fmt.Errorf("codec: no schema registered for type 0x%02X", uint16(m.Type()))
	}
	payload, err := EncodePayload(s, m)
	if err != nil {
		return nil, err
	}
	buf, err := frame.Encode(c.cfg, m.Type(), payload)
	if err != nil {
		return nil, err
	}
	observability.MessageEncoded(s.Name)
	return buf, nil
}

// EncodeRaw frames a raw type/payload pair without schema validation,
// mirroring the RawMessage escape hatch on the decode side.
func (c *Codec) EncodeRaw(raw *RawMessage) ([]byte, error) {
	if raw == nil {
		return nil, errors.New("codec: nil raw message")
	}
	return frame.Encode(c.cfg, raw.Type, raw.Payload)
}

func frameErrorLabel(err error) string {
	switch {
	case errors.Is(err, frame.ErrChecksumMismatch):
		return "checksum"
	case errors.Is(err, frame.ErrInvalidLength):
		return "length"
	default:
		return "framing"
	}
}
