package protocol

import (
	"fmt"

	"github.com/danmuck/modemlink/internal/protocol/schema"
)

// DecodePayload interprets payload bytes against a schema and constructs
// the typed message. It fails on the first constraint violation with a
// schema.ValidationError and never returns a partially built message.
func DecodePayload(s schema.MessageSchema, payload []byte) (*Message, error) {
	if len(payload) < s.MinLen() {
		return nil, schema.ValidationError{
			Schema: s.Name,
			Reason: fmt.Sprintf("payload length %d below minimum %d", len(payload), s.MinLen()),
		}
	}
	if !s.Variable() && len(payload) != s.MinLen() {
		return nil, schema.ValidationError{
			Schema: s.Name,
			Reason: fmt.Sprintf("payload length %d, schema requires %d", len(payload), s.MinLen()),
		}
	}

	fields := make(map[string]Value, len(s.Fields))
	for _, f := range s.Fields {
		if f.Variable() {
			rest := payload[f.Offset():]
			if err := checkTrailing(s.Name, f, len(rest)); err != nil {
				return nil, err
			}
			fields[f.Name] = NewBytes(rest)
			continue
		}

		raw := payload[f.Offset() : f.Offset()+f.Width]
		switch f.Kind {
		case schema.KindBytes:
			fields[f.Name] = NewBytes(raw)
		case schema.KindInt:
			v := signExtend(littleUint(raw), f.Width)
			if err := checkSigned(s.Name, f, v); err != nil {
				return nil, err
			}
			fields[f.Name] = NewInt(v)
		default:
			v := littleUint(raw)
			if err := checkUnsigned(s.Name, f, v); err != nil {
				return nil, err
			}
			fields[f.Name] = Value{Kind: f.Kind, Uint: v}
		}
	}

	return &Message{typ: s.Type, name: s.Name, fields: fields}, nil
}

func littleUint(b []byte) uint64 {
	var v uint64
	for i, x := range b {
		v |= uint64(x) << (8 * i)
	}
	return v
}

func signExtend(v uint64, width int) int64 {
	if width >= 8 {
		return int64(v)
	}
	shift := 64 - 8*width
	return int64(v<<shift) >> shift
}
