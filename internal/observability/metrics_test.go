package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMetricsOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterMetrics(reg)
	// A second registry must not panic on duplicate registration.
	RegisterMetrics(prometheus.NewRegistry())

	FrameDecoded("ok")
	FrameDecoded("ok")
	FrameDecoded("checksum")
	MessageDecoded("ping_request")
	BytesDiscarded(7)

	if got := testutil.ToFloat64(framesDecoded.WithLabelValues("ok")); got < 2 {
		t.Fatalf("frames ok = %v, want >= 2", got)
	}
	if got := testutil.ToFloat64(framesDecoded.WithLabelValues("checksum")); got < 1 {
		t.Fatalf("frames checksum = %v, want >= 1", got)
	}
	if got := testutil.ToFloat64(bytesDiscarded); got < 7 {
		t.Fatalf("discarded bytes = %v, want >= 7", got)
	}
}
