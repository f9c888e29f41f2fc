package protocol

import (
	"fmt"
	"sort"

	"github.com/danmuck/modemlink/internal/protocol/schema"
)

// Value is one field value, tagged by its semantic kind. Uint carries
// Uint, Enum, and Bits values; Int carries signed values; Bytes carries
// byte sequences.
type Value struct {
	Kind  schema.FieldKind
	Uint  uint64
	Int   int64
	Bytes []byte
}

// NewUint creates an unsigned integer value.
func NewUint(v uint64) Value {
	return Value{Kind: schema.KindUint, Uint: v}
}

// NewInt creates a signed integer value.
func NewInt(v int64) Value {
	return Value{Kind: schema.KindInt, Int: v}
}

// NewEnum creates an enumerated value.
func NewEnum(v uint64) Value {
	return Value{Kind: schema.KindEnum, Uint: v}
}

// NewBits creates a bitfield value.
func NewBits(v uint64) Value {
	return Value{Kind: schema.KindBits, Uint: v}
}

// NewBytes creates a byte-sequence value with its own copy of b.
func NewBytes(b []byte) Value {
	buf := make([]byte, len(b))
	copy(buf, b)
	return Value{Kind: schema.KindBytes, Bytes: buf}
}

// Equal reports semantic equality between two values.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case schema.KindBytes:
		return string(v.Bytes) == string(o.Bytes)
	case schema.KindInt:
		return v.Int == o.Int
	default:
		return v.Uint == o.Uint
	}
}

// Message is one validated communication event: a message type plus its
// decoded field values. Messages are immutable once constructed; the
// constructor and all accessors copy byte values.
type Message struct {
	typ    schema.MessageType
	name   string
	fields map[string]Value
}

// NewMessage builds a message from field values. Validation against the
// schema happens when the message is encoded, so an application can stage
// a message before the registry is consulted.
func NewMessage(t schema.MessageType, fields map[string]Value) *Message {
	m := &Message{typ: t, fields: make(map[string]Value, len(fields))}
	for name, v := range fields {
		m.fields[name] = v
	}
	return m
}

// Type returns the message's wire type identifier.
func (m *Message) Type() schema.MessageType { return m.typ }

// Name returns the schema name the message decoded against, or "" for
// messages staged by the application.
func (m *Message) Name() string { return m.name }

// Field returns the named field value.
func (m *Message) Field(name string) (Value, bool) {
	v, ok := m.fields[name]
	return v, ok
}

// Uint returns the named field as an unsigned integer. It accepts Uint,
// Enum, and Bits fields.
func (m *Message) Uint(name string) (uint64, error) {
	v, ok := m.fields[name]
	if !ok {
		return 0, fmt.Errorf("message %s: no field %q", m.describe(), name)
	}
	switch v.Kind {
	case schema.KindUint, schema.KindEnum, schema.KindBits:
		return v.Uint, nil
	default:
		return 0, fmt.Errorf("message %s: field %q is %s, not unsigned", m.describe(), name, v.Kind)
	}
}

// Int returns the named field as a signed integer.
func (m *Message) Int(name string) (int64, error) {
	v, ok := m.fields[name]
	if !ok {
		return 0, fmt.Errorf("message %s: no field %q", m.describe(), name)
	}
	if v.Kind != schema.KindInt {
		return 0, fmt.Errorf("message %s: field %q is %s, not int", m.describe(), name, v.Kind)
	}
	return v.Int, nil
}

// Bytes returns a copy of the named byte-sequence field.
func (m *Message) Bytes(name string) ([]byte, error) {
	v, ok := m.fields[name]
	if !ok {
		return nil, fmt.Errorf("message %s: no field %q", m.describe(), name)
	}
	if v.Kind != schema.KindBytes {
		return nil, fmt.Errorf("message %s: field %q is %s, not bytes", m.describe(), name, v.Kind)
	}
	buf := make([]byte, len(v.Bytes))
	copy(buf, v.Bytes)
	return buf, nil
}

// FieldNames lists the message's field names in stable order.
func (m *Message) FieldNames() []string {
	names := make([]string, 0, len(m.fields))
	for name := range m.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Equal reports whether two messages carry the same type and field values.
func (m *Message) Equal(o *Message) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.typ != o.typ || len(m.fields) != len(o.fields) {
		return false
	}
	for name, v := range m.fields {
		ov, ok := o.fields[name]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

func (m *Message) describe() string {
	if m.name != "" {
		return m.name
	}
	return fmt.Sprintf("0x%02X", uint16(m.typ))
}

// RawMessage preserves a checksum-valid frame whose type identifier is not
// in the registry. The payload is kept verbatim so the stream stays usable
// against firmware that speaks a newer protocol revision.
type RawMessage struct {
	Type    schema.MessageType
	Payload []byte
}

// Result is one entry in a decode sequence: a typed message, a raw
// fallback, or a per-frame error. Exactly one of the three is set.
type Result struct {
	Msg *Message
	Raw *RawMessage
	Err error
}
