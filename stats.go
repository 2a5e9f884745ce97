package grpc

import "github.com/prometheus/client_golang/prometheus"

// Stats is the write-only statistics sink the encoder reports to.
// Thread-safety of an implementation is the implementation's
// responsibility, not this package's: a single Compressor is already
// required to be externally serialized, but a sink may be shared
// across many compressors and observed concurrently by a metrics
// scraper.
type Stats interface {
	AddFramingBytes(n uint32)
	AddHeaderBytes(n uint32)
	IncIndexed()
	IncLitHdrIncIdx()
	IncLitHdrNotIdx()
	IncLitHdrIncIdxV()
	IncLitHdrNotIdxV()
	IncBinary()
	IncBinaryBase64()
	IncUncompressed()
}

// NopStats discards every observation. It is the default sink when
// none is supplied to NewCompressor.
type NopStats struct{}

func (NopStats) AddFramingBytes(uint32) {}
func (NopStats) AddHeaderBytes(uint32)  {}
func (NopStats) IncIndexed()            {}
func (NopStats) IncLitHdrIncIdx()       {}
func (NopStats) IncLitHdrNotIdx()       {}
func (NopStats) IncLitHdrIncIdxV()      {}
func (NopStats) IncLitHdrNotIdxV()      {}
func (NopStats) IncBinary()             {}
func (NopStats) IncBinaryBase64()       {}
func (NopStats) IncUncompressed()       {}

// PrometheusStats is a Stats sink backed by prometheus counters,
// registered under the "hpack_" metric namespace. Construct one per
// process (or per registry) and share it across every Compressor
// whose activity should be aggregated together; sharing is safe since
// prometheus.Counter is itself concurrency-safe.
type PrometheusStats struct {
	framingBytes     prometheus.Counter
	headerBytes      prometheus.Counter
	sendIndexed      prometheus.Counter
	sendLitIncIdx    prometheus.Counter
	sendLitNotIdx    prometheus.Counter
	sendLitIncIdxV   prometheus.Counter
	sendLitNotIdxV   prometheus.Counter
	sendBinary       prometheus.Counter
	sendBinaryBase64 prometheus.Counter
	sendUncompressed prometheus.Counter
}

// NewPrometheusStats constructs a PrometheusStats and registers its
// counters with reg. Passing prometheus.DefaultRegisterer registers
// them globally.
func NewPrometheusStats(reg prometheus.Registerer) *PrometheusStats {
	counter := func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hpack",
			Name:      name,
			Help:      help,
		})
		reg.MustRegister(c)
		return c
	}

	return &PrometheusStats{
		framingBytes:     counter("framing_bytes_total", "Bytes spent on HTTP/2 frame headers."),
		headerBytes:      counter("header_bytes_total", "Bytes spent on HPACK payload."),
		sendIndexed:      counter("send_indexed_total", "Indexed representations emitted."),
		sendLitIncIdx:    counter("send_lithdr_incidx_total", "Literal-with-indexed-name, incremental-indexing representations emitted."),
		sendLitNotIdx:    counter("send_lithdr_notidx_total", "Literal-with-indexed-name, not-indexed representations emitted."),
		sendLitIncIdxV:   counter("send_lithdr_incidx_v_total", "Literal-with-new-name, incremental-indexing representations emitted."),
		sendLitNotIdxV:   counter("send_lithdr_notidx_v_total", "Literal-with-new-name, not-indexed representations emitted."),
		sendBinary:       counter("send_binary_total", "True-binary values emitted."),
		sendBinaryBase64: counter("send_binary_base64_total", "Base64-encoded binary values emitted."),
		sendUncompressed: counter("send_uncompressed_total", "Non-Huffman-compressed values emitted."),
	}
}

func (s *PrometheusStats) AddFramingBytes(n uint32) { s.framingBytes.Add(float64(n)) }
func (s *PrometheusStats) AddHeaderBytes(n uint32)  { s.headerBytes.Add(float64(n)) }
func (s *PrometheusStats) IncIndexed()              { s.sendIndexed.Inc() }
func (s *PrometheusStats) IncLitHdrIncIdx()         { s.sendLitIncIdx.Inc() }
func (s *PrometheusStats) IncLitHdrNotIdx()         { s.sendLitNotIdx.Inc() }
func (s *PrometheusStats) IncLitHdrIncIdxV()        { s.sendLitIncIdxV.Inc() }
func (s *PrometheusStats) IncLitHdrNotIdxV()        { s.sendLitNotIdxV.Inc() }
func (s *PrometheusStats) IncBinary()               { s.sendBinary.Inc() }
func (s *PrometheusStats) IncBinaryBase64()         { s.sendBinaryBase64.Inc() }
func (s *PrometheusStats) IncUncompressed()         { s.sendUncompressed.Inc() }
