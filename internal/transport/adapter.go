// Package transport pumps a byte stream, typically a serial port, through
// the protocol codec. The adapter owns the read loop; callers consume
// decode results from a channel and send messages through the writer side.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/modemlink/internal/observability"
	"github.com/danmuck/modemlink/internal/protocol"
	"github.com/danmuck/modemlink/internal/protocol/frame"
	"github.com/danmuck/modemlink/internal/protocol/schema"
)

const (
	readBufSize   = 512
	resultBacklog = 16
)

// Adapter binds one stream to one codec. Writes are serialized internally;
// reads happen only inside Run, so an Adapter needs exactly one Run call.
type Adapter struct {
	codec   *protocol.Codec
	r       io.Reader
	w       io.Writer
	writeMu sync.Mutex
	results chan protocol.Result
}

// NewAdapter builds an adapter over a stream for the given protocol
// profile.
func NewAdapter(rw io.ReadWriter, cfg frame.Config, reg *schema.Registry) (*Adapter, error) {
	if rw == nil {
		return nil, errors.New("transport: nil stream")
	}
	codec, err := protocol.NewCodec(cfg, reg)
	if err != nil {
		return nil, err
	}
	observability.RegisterMetrics(prometheus.DefaultRegisterer)
	return &Adapter{
		codec:   codec,
		r:       rw,
		w:       rw,
		results: make(chan protocol.Result, resultBacklog),
	}, nil
}

// Results is the decode output of the stream. The channel closes when Run
// returns.
func (a *Adapter) Results() <-chan protocol.Result { return a.results }

// Run reads the stream until the context is canceled or the stream ends.
// A clean EOF returns nil; any other read failure is returned after the
// results decoded so far have been delivered.
func (a *Adapter) Run(ctx context.Context) error {
	defer close(a.results)

	chunks := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		buf := make([]byte, readBufSize)
		for {
			n, err := a.r.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				select {
				case chunks <- chunk:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("transport: adapter shutdown")
			return nil
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				log.Debug().Int("buffered", a.codec.Buffered()).Msg("transport: stream ended")
				return nil
			}
			return fmt.Errorf("transport: read: %w", err)
		case chunk := <-chunks:
			for _, res := range a.codec.Push(chunk) {
				select {
				case a.results <- res:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}
}

// WriteMessage encodes a message and writes the framed bytes to the
// stream.
func (a *Adapter) WriteMessage(m *protocol.Message) error {
	buf, err := a.codec.Encode(m)
	if err != nil {
		return err
	}
	return a.write(buf)
}

// WriteRaw frames a raw type/payload pair and writes it to the stream.
func (a *Adapter) WriteRaw(raw *protocol.RawMessage) error {
	buf, err := a.codec.EncodeRaw(raw)
	if err != nil {
		return err
	}
	return a.write(buf)
}

func (a *Adapter) write(buf []byte) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	if _, err := a.w.Write(buf); err != nil {
		return fmt.Errorf("transport: write: %w", err)
	}
	return nil
}
