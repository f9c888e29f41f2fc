// modemdump decodes a captured modem byte stream and prints every frame
// it finds. Captures come from a file or stdin, raw or hex encoded, and
// decode against the built-in profile or a TOML override.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/modemlink/internal/config"
	"github.com/danmuck/modemlink/internal/observability"
	"github.com/danmuck/modemlink/internal/protocol"
	"github.com/danmuck/modemlink/internal/protocol/schema"
)

func main() {
	profilePath := flag.String("profile", "", "protocol profile TOML (default: built-in modem profile)")
	input := flag.String("input", "", "capture file (default: stdin)")
	hexInput := flag.Bool("hex", false, "treat input as hex text")
	flag.Parse()

	observability.InitLogger("modemdump")

	profile := config.Default()
	if *profilePath != "" {
		var err error
		profile, err = config.Load(*profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("profile load failed")
		}
	}

	data, err := readCapture(*input, *hexInput)
	if err != nil {
		log.Fatal().Err(err).Msg("capture read failed")
	}

	codec, err := protocol.NewCodec(profile.Frame, profile.Registry)
	if err != nil {
		log.Fatal().Err(err).Msg("codec setup failed")
	}

	var messages, raws, errors int
	for i, res := range codec.Push(data) {
		switch {
		case res.Err != nil:
			errors++
			fmt.Printf("%4d  error  %v\n", i, res.Err)
		case res.Raw != nil:
			raws++
			fmt.Printf("%4d  raw    type=0x%02X payload=%x\n", i, uint16(res.Raw.Type), res.Raw.Payload)
		default:
			messages++
			fmt.Printf("%4d  %s\n", i, formatMessage(res.Msg))
		}
	}

	log.Info().
		Int("messages", messages).
		Int("raw", raws).
		Int("errors", errors).
		Int("trailing_bytes", codec.Buffered()).
		Msg("capture decoded")
}

func readCapture(path string, hexText bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if !hexText {
		return data, nil
	}
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
			return -1
		}
		return r
	}, string(data))
	return hex.DecodeString(cleaned)
}

func formatMessage(m *protocol.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-24s", m.Name())
	for _, name := range m.FieldNames() {
		v, _ := m.Field(name)
		switch v.Kind {
		case schema.KindInt:
			fmt.Fprintf(&b, " %s=%d", name, v.Int)
		case schema.KindBytes:
			fmt.Fprintf(&b, " %s=%x", name, v.Bytes)
		default:
			fmt.Fprintf(&b, " %s=0x%X", name, v.Uint)
		}
	}
	return b.String()
}
