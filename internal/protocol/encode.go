package protocol

import (
	"fmt"

	"github.com/danmuck/modemlink/internal/protocol/schema"
)

// EncodePayload serializes a message's field values against a schema. The
// same constraint set as DecodePayload applies, so any payload this
// produces decodes back to an equal message.
func EncodePayload(s schema.MessageSchema, m *Message) ([]byte, error) {
	if m == nil {
		return nil, schema.ValidationError{Schema: s.Name, Reason: "nil message"}
	}
	if m.typ != s.Type {
		return nil, schema.ValidationError{
			Schema: s.Name,
			Reason: fmt.Sprintf("message type 0x%02X does not match schema type 0x%02X", uint16(m.typ), uint16(s.Type)),
		}
	}
	for _, name := range m.FieldNames() {
		if _, ok := s.Field(name); !ok {
			return nil, schema.ValidationError{Schema: s.Name, Field: name, Reason: "not in schema"}
		}
	}

	buf := make([]byte, s.MinLen())
	for _, f := range s.Fields {
		v, ok := m.fields[f.Name]
		if !ok {
			return nil, schema.ValidationError{Schema: s.Name, Field: f.Name, Reason: "missing field"}
		}
		if v.Kind != f.Kind {
			return nil, schema.ValidationError{
				Schema: s.Name,
				Field:  f.Name,
				Reason: fmt.Sprintf("value kind %s, schema requires %s", v.Kind, f.Kind),
			}
		}

		switch {
		case f.Variable():
			if err := checkTrailing(s.Name, f, len(v.Bytes)); err != nil {
				return nil, err
			}
			buf = append(buf, v.Bytes...)
		case f.Kind == schema.KindBytes:
			if len(v.Bytes) != f.Width {
				return nil, schema.ValidationError{
					Schema: s.Name,
					Field:  f.Name,
					Reason: fmt.Sprintf("length %d, field requires %d", len(v.Bytes), f.Width),
				}
			}
			copy(buf[f.Offset():], v.Bytes)
		case f.Kind == schema.KindInt:
			if err := checkSigned(s.Name, f, v.Int); err != nil {
				return nil, err
			}
			putLittleUint(buf[f.Offset():f.Offset()+f.Width], uint64(v.Int))
		default:
			if err := checkUnsigned(s.Name, f, v.Uint); err != nil {
				return nil, err
			}
			putLittleUint(buf[f.Offset():f.Offset()+f.Width], v.Uint)
		}
	}

	return buf, nil
}

func putLittleUint(dst []byte, v uint64) {
	for i := range dst {
		dst[i] = byte(v >> (8 * i))
	}
}
