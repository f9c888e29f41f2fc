package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	framesDecoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modemlink",
			Subsystem: "codec",
			Name:      "frames_total",
			Help:      "Frames processed by decode result.",
		},
		[]string{"result"},
	)
	messagesDecoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modemlink",
			Subsystem: "codec",
			Name:      "messages_total",
			Help:      "Validated messages by schema name.",
		},
		[]string{"schema"},
	)
	bytesDiscarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "modemlink",
			Subsystem: "codec",
			Name:      "discarded_bytes_total",
			Help:      "Bytes dropped as line noise or corrupt frames.",
		},
	)
	messagesEncoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modemlink",
			Subsystem: "codec",
			Name:      "encoded_total",
			Help:      "Messages encoded for transmission by schema name.",
		},
		[]string{"schema"},
	)
)

// RegisterMetrics installs the codec collectors on a Prometheus registry.
// Safe to call from multiple stream owners; only the first call registers,
// so an embedding application that wants its own registry must call this
// before opening any transport adapter.
func RegisterMetrics(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(framesDecoded, messagesDecoded, bytesDiscarded, messagesEncoded)
	})
}

// FrameDecoded counts one processed frame. result is one of
// ok, raw, checksum, length, framing, validation.
func FrameDecoded(result string) {
	framesDecoded.WithLabelValues(result).Inc()
}

// MessageDecoded counts one validated inbound message.
func MessageDecoded(schemaName string) {
	messagesDecoded.WithLabelValues(schemaName).Inc()
}

// MessageEncoded counts one serialized outbound message.
func MessageEncoded(schemaName string) {
	messagesEncoded.WithLabelValues(schemaName).Inc()
}

// BytesDiscarded counts bytes the scanner dropped while resynchronizing.
func BytesDiscarded(n uint64) {
	bytesDiscarded.Add(float64(n))
}
