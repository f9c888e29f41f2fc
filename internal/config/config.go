// Package config loads protocol profiles from TOML files. A profile
// overrides pieces of the built-in modem profile: framing constants, CRC
// parameters, and optionally a replacement message catalog for talking to
// firmware with a different contract.
package config

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/modemlink/internal/protocol/frame"
	"github.com/danmuck/modemlink/internal/protocol/modem"
	"github.com/danmuck/modemlink/internal/protocol/schema"
)

// Profile is a fully resolved protocol configuration ready to hand to a
// codec.
type Profile struct {
	Frame    frame.Config
	Registry *schema.Registry
}

// profile.toml key mapping.
type fileProfile struct {
	Frame    frameSection   `toml:"frame"`
	CRC      crcSection     `toml:"crc"`
	Messages []messageEntry `toml:"message"`
}

type frameSection struct {
	Marker      string `toml:"marker"`
	LengthWidth int    `toml:"length_width"`
	TypeWidth   int    `toml:"type_width"`
	MaxPayload  int    `toml:"max_payload"`
}

type crcSection struct {
	Poly   int64 `toml:"poly"`
	Init   int64 `toml:"init"`
	XorOut int64 `toml:"xor_out"`
}

type messageEntry struct {
	Type   int64        `toml:"type"`
	Name   string       `toml:"name"`
	Fields []fieldEntry `toml:"field"`
}

type fieldEntry struct {
	Name     string  `toml:"name"`
	Kind     string  `toml:"kind"`
	Width    int     `toml:"width"`
	Min      int64   `toml:"min"`
	Max      int64   `toml:"max"`
	Allowed  []int64 `toml:"allowed"`
	Mask     int64   `toml:"mask"`
	Multiple int     `toml:"multiple"`
}

// Default is the built-in modem profile, used when no file is given.
func Default() Profile {
	return Profile{Frame: modem.DefaultConfig(), Registry: modem.NewRegistry()}
}

// Load reads a profile file and overlays it on the built-in defaults.
// Absent keys keep their default values; a [[message]] list, when present,
// replaces the whole catalog.
func Load(path string) (Profile, error) {
	p := Default()

	var raw fileProfile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}

	if meta.IsDefined("frame", "marker") {
		marker, err := hex.DecodeString(strings.TrimSpace(raw.Frame.Marker))
		if err != nil {
			return Profile{}, fmt.Errorf("profile %s: frame.marker: %w", path, err)
		}
		p.Frame.Marker = marker
	}
	if meta.IsDefined("frame", "length_width") {
		p.Frame.LengthWidth = raw.Frame.LengthWidth
	}
	if meta.IsDefined("frame", "type_width") {
		p.Frame.TypeWidth = raw.Frame.TypeWidth
	}
	if meta.IsDefined("frame", "max_payload") {
		p.Frame.MaxPayload = raw.Frame.MaxPayload
	}

	if meta.IsDefined("crc", "poly") {
		p.Frame.CRC.Poly = uint16(raw.CRC.Poly)
	}
	if meta.IsDefined("crc", "init") {
		p.Frame.CRC.Init = uint16(raw.CRC.Init)
	}
	if meta.IsDefined("crc", "xor_out") {
		p.Frame.CRC.XorOut = uint16(raw.CRC.XorOut)
	}

	if err := p.Frame.Validate(); err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}

	if meta.IsDefined("message") {
		reg, err := buildRegistry(raw.Messages)
		if err != nil {
			return Profile{}, fmt.Errorf("profile %s: %w", path, err)
		}
		p.Registry = reg
	}
	return p, nil
}

func buildRegistry(entries []messageEntry) (*schema.Registry, error) {
	reg := schema.NewRegistry()
	for _, entry := range entries {
		if strings.TrimSpace(entry.Name) == "" {
			return nil, fmt.Errorf("message 0x%02X missing name", entry.Type)
		}
		fields := make([]schema.FieldSchema, 0, len(entry.Fields))
		for _, fe := range entry.Fields {
			f, err := buildField(fe)
			if err != nil {
				return nil, fmt.Errorf("message %q: %w", entry.Name, err)
			}
			fields = append(fields, f)
		}
		s, err := schema.New(schema.MessageType(entry.Type), entry.Name, fields...)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(s); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func buildField(fe fieldEntry) (schema.FieldSchema, error) {
	kind, err := parseKind(fe.Kind)
	if err != nil {
		return schema.FieldSchema{}, fmt.Errorf("field %q: %w", fe.Name, err)
	}
	allowed := make([]uint64, 0, len(fe.Allowed))
	for _, a := range fe.Allowed {
		allowed = append(allowed, uint64(a))
	}
	return schema.FieldSchema{
		Name:     fe.Name,
		Kind:     kind,
		Width:    fe.Width,
		Min:      fe.Min,
		Max:      fe.Max,
		Allowed:  allowed,
		Mask:     uint64(fe.Mask),
		Multiple: fe.Multiple,
	}, nil
}

func parseKind(s string) (schema.FieldKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uint":
		return schema.KindUint, nil
	case "int":
		return schema.KindInt, nil
	case "enum":
		return schema.KindEnum, nil
	case "bytes":
		return schema.KindBytes, nil
	case "bits":
		return schema.KindBits, nil
	default:
		return 0, fmt.Errorf("unknown field kind %q", s)
	}
}
