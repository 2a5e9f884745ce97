package grpc

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNopStatsDiscardsEverything(t *testing.T) {
	var s NopStats
	s.AddFramingBytes(9)
	s.AddHeaderBytes(3)
	s.IncIndexed()
	s.IncLitHdrIncIdx()
	s.IncLitHdrNotIdx()
	s.IncLitHdrIncIdxV()
	s.IncLitHdrNotIdxV()
	s.IncBinary()
	s.IncBinaryBase64()
	s.IncUncompressed()
	// No assertions: NopStats has no observable state. Reaching here
	// without a panic is the test.
}

func TestPrometheusStatsRegistersAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewPrometheusStats(reg)

	s.IncIndexed()
	s.IncIndexed()
	s.AddHeaderBytes(100)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	var foundIndexed, foundHeaderBytes bool
	for _, mf := range metrics {
		switch mf.GetName() {
		case "hpack_send_indexed_total":
			foundIndexed = true
			if got := counterValue(mf); got != 2 {
				t.Errorf("send_indexed_total = %v, want 2", got)
			}
		case "hpack_header_bytes_total":
			foundHeaderBytes = true
			if got := counterValue(mf); got != 100 {
				t.Errorf("header_bytes_total = %v, want 100", got)
			}
		}
	}
	if !foundIndexed || !foundHeaderBytes {
		t.Fatalf("expected both counters registered, got metric families: %v", metrics)
	}
}

func counterValue(mf *dto.MetricFamily) float64 {
	if len(mf.GetMetric()) == 0 {
		return 0
	}
	return mf.GetMetric()[0].GetCounter().GetValue()
}
