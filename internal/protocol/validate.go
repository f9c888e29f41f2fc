package protocol

import (
	"fmt"

	"github.com/danmuck/modemlink/internal/protocol/schema"
)

// Field constraint checks shared by the decode and encode paths. Keeping
// one rule set is what makes decode(encode(m)) == m hold for every value
// that encodes successfully.

func checkUnsigned(schemaName string, f schema.FieldSchema, v uint64) error {
	if f.Width < 8 && v >= 1<<(8*f.Width) {
		return schema.ValidationError{Schema: schemaName, Field: f.Name, Reason: "out of range"}
	}

	switch f.Kind {
	case schema.KindEnum:
		allowed := false
		for _, a := range f.Allowed {
			if v == a {
				allowed = true
				break
			}
		}
		if !allowed {
			return schema.ValidationError{
				Schema: schemaName,
				Field:  f.Name,
				Reason: fmt.Sprintf("value 0x%02X not in allowed set", v),
			}
		}
	case schema.KindBits:
		if v&^f.Mask != 0 {
			return schema.ValidationError{
				Schema: schemaName,
				Field:  f.Name,
				Reason: fmt.Sprintf("bits 0x%X outside mask 0x%X", v&^f.Mask, f.Mask),
			}
		}
	}

	if f.Ranged() {
		lo := f.Min
		if lo < 0 {
			lo = 0
		}
		if v < uint64(lo) || (f.Max >= 0 && v > uint64(f.Max)) {
			return schema.ValidationError{Schema: schemaName, Field: f.Name, Reason: "out of range"}
		}
	}
	return nil
}

func checkSigned(schemaName string, f schema.FieldSchema, v int64) error {
	if f.Width < 8 {
		lim := int64(1) << (8*f.Width - 1)
		if v < -lim || v > lim-1 {
			return schema.ValidationError{Schema: schemaName, Field: f.Name, Reason: "out of range"}
		}
	}
	if f.Ranged() && (v < f.Min || v > f.Max) {
		return schema.ValidationError{Schema: schemaName, Field: f.Name, Reason: "out of range"}
	}
	return nil
}

func checkTrailing(schemaName string, f schema.FieldSchema, n int) error {
	if f.Multiple > 0 && n%f.Multiple != 0 {
		return schema.ValidationError{
			Schema: schemaName,
			Field:  f.Name,
			Reason: fmt.Sprintf("length %d not a multiple of %d", n, f.Multiple),
		}
	}
	return nil
}
