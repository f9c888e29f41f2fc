package protocol

import (
	"bytes"
	"errors"
	"testing"

	"github.com/danmuck/modemlink/internal/protocol/schema"
)

func tempSchema(t *testing.T) schema.MessageSchema {
	t.Helper()
	s, err := schema.New(0x01, "temp_report",
		schema.FieldSchema{Name: "temp", Kind: schema.KindInt, Width: 2},
	)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	return s
}

func TestEncodeDecodeSignedField(t *testing.T) {
	s := tempSchema(t)

	msg := NewMessage(0x01, map[string]Value{"temp": NewInt(-5)})
	payload, err := EncodePayload(s, msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(payload, []byte{0xFB, 0xFF}) {
		t.Fatalf("payload %x, want fbff", payload)
	}

	decoded, err := DecodePayload(s, payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, err := decoded.Int("temp")
	if err != nil || got != -5 {
		t.Fatalf("temp=%d err=%v, want -5", got, err)
	}
	if !decoded.Equal(msg) {
		t.Fatalf("round-trip inequality")
	}
}

func TestEncodeSignedOutOfRange(t *testing.T) {
	s := tempSchema(t)

	msg := NewMessage(0x01, map[string]Value{"temp": NewInt(40000)})
	_, err := EncodePayload(s, msg)

	var verr schema.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "temp" || verr.Reason != "out of range" {
		t.Fatalf("unexpected validation error: %+v", verr)
	}
}

func TestDecodeEnumOutsideAllowedSet(t *testing.T) {
	s, err := schema.New(0x11, "state_report",
		schema.FieldSchema{Name: "state", Kind: schema.KindEnum, Width: 1, Allowed: []uint64{0x00, 0x01, 0xFF}},
	)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	if _, err := DecodePayload(s, []byte{0x01}); err != nil {
		t.Fatalf("allowed value rejected: %v", err)
	}

	_, err = DecodePayload(s, []byte{0x42})
	var verr schema.ValidationError
	if !errors.As(err, &verr) || verr.Field != "state" {
		t.Fatalf("expected state validation error, got %v", err)
	}
}

func TestDecodeBitsOutsideMask(t *testing.T) {
	s, err := schema.New(0x30, "flags_report",
		schema.FieldSchema{Name: "flags", Kind: schema.KindBits, Width: 1, Mask: 0x07},
	)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	if _, err := DecodePayload(s, []byte{0x05}); err != nil {
		t.Fatalf("in-mask value rejected: %v", err)
	}
	if _, err := DecodePayload(s, []byte{0x18}); err == nil {
		t.Fatalf("expected mask violation")
	}
}

func TestRangedUnsignedField(t *testing.T) {
	s, err := schema.New(0x31, "dim_level",
		schema.FieldSchema{Name: "level", Kind: schema.KindUint, Width: 2, Min: 1, Max: 1000},
	)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	msg := NewMessage(0x31, map[string]Value{"level": NewUint(2000)})
	if _, err := EncodePayload(s, msg); err == nil {
		t.Fatalf("expected range violation on encode")
	}

	// Same rule set on the decode side: 2000 little-endian.
	if _, err := DecodePayload(s, []byte{0xD0, 0x07}); err == nil {
		t.Fatalf("expected range violation on decode")
	}
}

func TestDecodePayloadLengthChecks(t *testing.T) {
	fixed, err := schema.New(0x0F, "pair",
		schema.FieldSchema{Name: "a", Kind: schema.KindUint, Width: 1},
		schema.FieldSchema{Name: "b", Kind: schema.KindUint, Width: 1},
	)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	if _, err := DecodePayload(fixed, []byte{0x01}); err == nil {
		t.Fatalf("short payload accepted")
	}
	if _, err := DecodePayload(fixed, []byte{0x01, 0x02, 0x03}); err == nil {
		t.Fatalf("oversized payload accepted for fixed schema")
	}
}

func TestVariableTrailingFieldMultiple(t *testing.T) {
	s, err := schema.New(0x03, "id_list",
		schema.FieldSchema{Name: "ids", Kind: schema.KindBytes, Multiple: 2},
	)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	msg, err := DecodePayload(s, []byte{0x01, 0x10, 0x03, 0x10})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ids, err := msg.Bytes("ids")
	if err != nil || len(ids) != 4 {
		t.Fatalf("ids=%x err=%v", ids, err)
	}

	if _, err := DecodePayload(s, []byte{0x01, 0x10, 0x03}); err == nil {
		t.Fatalf("odd-length list accepted")
	}

	bad := NewMessage(0x03, map[string]Value{"ids": NewBytes([]byte{0x01})})
	if _, err := EncodePayload(s, bad); err == nil {
		t.Fatalf("odd-length list encoded")
	}
}

func TestEncodeRejectsForeignFields(t *testing.T) {
	s := tempSchema(t)

	msg := NewMessage(0x01, map[string]Value{
		"temp":  NewInt(1),
		"humid": NewInt(2),
	})
	_, err := EncodePayload(s, msg)
	var verr schema.ValidationError
	if !errors.As(err, &verr) || verr.Field != "humid" {
		t.Fatalf("expected foreign-field error, got %v", err)
	}
}

func TestEncodeMissingAndMismatchedFields(t *testing.T) {
	s := tempSchema(t)

	if _, err := EncodePayload(s, NewMessage(0x01, nil)); err == nil {
		t.Fatalf("missing field accepted")
	}

	wrongKind := NewMessage(0x01, map[string]Value{"temp": NewUint(5)})
	if _, err := EncodePayload(s, wrongKind); err == nil {
		t.Fatalf("kind mismatch accepted")
	}

	wrongType := NewMessage(0x02, map[string]Value{"temp": NewInt(5)})
	if _, err := EncodePayload(s, wrongType); err == nil {
		t.Fatalf("type mismatch accepted")
	}
}

func TestFixedBytesFieldWidth(t *testing.T) {
	s, err := schema.New(0x1B, "uuid_report",
		schema.FieldSchema{Name: "uuid", Kind: schema.KindBytes, Width: 16},
	)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	short := NewMessage(0x1B, map[string]Value{"uuid": NewBytes(make([]byte, 4))})
	if _, err := EncodePayload(s, short); err == nil {
		t.Fatalf("short fixed bytes accepted")
	}

	full := NewMessage(0x1B, map[string]Value{"uuid": NewBytes(make([]byte, 16))})
	payload, err := EncodePayload(s, full)
	if err != nil || len(payload) != 16 {
		t.Fatalf("payload=%d err=%v", len(payload), err)
	}
}

func TestMessageAccessorsCopy(t *testing.T) {
	msg := NewMessage(0x01, map[string]Value{"data": NewBytes([]byte{0xAA})})

	b, err := msg.Bytes("data")
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}
	b[0] = 0x00

	again, _ := msg.Bytes("data")
	if again[0] != 0xAA {
		t.Fatalf("message mutated through accessor copy")
	}
}
