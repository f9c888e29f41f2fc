// Package schema describes message payload layouts and owns the type
// registry mapping wire identifiers to them. Schemas are declarative data:
// the codec in the parent package interprets them for both directions, so
// encode and decode share one validation rule set.
package schema

import "fmt"

// MessageType is the wire-level identifier of one message kind.
type MessageType uint16

// FieldKind is the semantic type of one payload field.
type FieldKind uint8

const (
	KindUint  FieldKind = iota + 1 // unsigned little-endian integer
	KindInt                        // signed little-endian integer, two's complement
	KindEnum                       // unsigned integer restricted to an allowed set
	KindBytes                      // opaque byte sequence, fixed or variable length
	KindBits                       // unsigned integer restricted to a bit mask
)

func (k FieldKind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindInt:
		return "int"
	case KindEnum:
		return "enum"
	case KindBytes:
		return "bytes"
	case KindBits:
		return "bits"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// FieldSchema declares one field of a message payload. Width is in bytes;
// a zero Width is only legal for a trailing KindBytes field, which consumes
// every payload byte left after the fixed fields.
type FieldSchema struct {
	Name  string
	Kind  FieldKind
	Width int

	// Min/Max bound Uint and Int values when either is non-zero.
	Min int64
	Max int64

	// Allowed is the membership set for Enum fields.
	Allowed []uint64

	// Mask is the set of permitted bits for Bits fields.
	Mask uint64

	// Multiple constrains a variable-length Bytes field to lengths that
	// are a multiple of this value.
	Multiple int

	offset int
}

// Offset is the byte position of the field within the payload, computed
// when the owning MessageSchema is built.
func (f FieldSchema) Offset() int { return f.offset }

// Variable reports whether the field consumes the payload remainder.
func (f FieldSchema) Variable() bool { return f.Kind == KindBytes && f.Width == 0 }

// Ranged reports whether an explicit value range applies.
func (f FieldSchema) Ranged() bool { return f.Min != 0 || f.Max != 0 }

// MessageSchema is the ordered field layout for one message type plus the
// payload length bounds derived from it. Build one with New; the zero value
// is not usable.
type MessageSchema struct {
	Type   MessageType
	Name   string
	Fields []FieldSchema

	minLen   int
	variable bool
}

// New builds a MessageSchema from an ordered field list, computing field
// offsets and payload length bounds. It rejects layouts the codec cannot
// interpret: unnamed or duplicate fields, variable fields before the end,
// integer widths outside 1..8, negative byte-field widths, and enum fields
// without an allowed set.
func New(t MessageType, name string, fields ...FieldSchema) (MessageSchema, error) {
	s := MessageSchema{Type: t, Name: name, Fields: make([]FieldSchema, len(fields))}
	copy(s.Fields, fields)

	seen := make(map[string]struct{}, len(fields))
	offset := 0
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.Name == "" {
			return MessageSchema{}, fmt.Errorf("schema %q: field %d has no name", name, i)
		}
		if _, dup := seen[f.Name]; dup {
			return MessageSchema{}, fmt.Errorf("schema %q: duplicate field %q", name, f.Name)
		}
		seen[f.Name] = struct{}{}

		switch f.Kind {
		case KindUint, KindInt, KindEnum, KindBits:
			if f.Width < 1 || f.Width > 8 {
				return MessageSchema{}, fmt.Errorf("schema %q: field %q: integer width %d", name, f.Name, f.Width)
			}
			if f.Kind == KindEnum && len(f.Allowed) == 0 {
				return MessageSchema{}, fmt.Errorf("schema %q: field %q: enum without allowed set", name, f.Name)
			}
		case KindBytes:
			if f.Width < 0 {
				return MessageSchema{}, fmt.Errorf("schema %q: field %q: bytes width %d", name, f.Name, f.Width)
			}
			if f.Width == 0 {
				if i != len(s.Fields)-1 {
					return MessageSchema{}, fmt.Errorf("schema %q: field %q: variable field must be last", name, f.Name)
				}
				s.variable = true
			}
		default:
			return MessageSchema{}, fmt.Errorf("schema %q: field %q: unknown kind %d", name, f.Name, f.Kind)
		}

		f.offset = offset
		offset += f.Width
	}

	s.minLen = offset
	return s, nil
}

// MustNew is New for init-time seeding of static protocol profiles.
func MustNew(t MessageType, name string, fields ...FieldSchema) MessageSchema {
	s, err := New(t, name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// MinLen is the smallest payload length the schema accepts.
func (s MessageSchema) MinLen() int { return s.minLen }

// MaxLen is the largest payload length the schema accepts, or -1 when a
// variable trailing field leaves the bound to the frame configuration.
func (s MessageSchema) MaxLen() int {
	if s.variable {
		return -1
	}
	return s.minLen
}

// Variable reports whether the schema ends in a variable-length field.
func (s MessageSchema) Variable() bool { return s.variable }

// Field returns the named field schema.
func (s MessageSchema) Field(name string) (FieldSchema, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSchema{}, false
}

// ValidationError reports the first field constraint violated while
// decoding or encoding a payload.
type ValidationError struct {
	Schema string
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema %q: %s", e.Schema, e.Reason)
	}
	return fmt.Sprintf("schema %q: field %q: %s", e.Schema, e.Field, e.Reason)
}
