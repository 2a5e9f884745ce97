package grpc

import "go.uber.org/zap"

// CompressorOption configures a Compressor at construction.
type CompressorOption func(*Compressor)

// WithMaxTableSize sets the peer-advertised dynamic table size at
// construction, bypassing the advertise-table-size-change dance since
// no header set has been framed yet.
func WithMaxTableSize(maxTableSize uint32) CompressorOption {
	return func(c *Compressor) {
		c.table.SetMaxSize(maxTableSize)
	}
}

// WithMaxUsableSize installs a local cap on the dynamic table,
// independent of what will later be advertised to the peer.
func WithMaxUsableSize(maxUsableSize uint32) CompressorOption {
	return func(c *Compressor) {
		c.table.SetMaxUsableSize(maxUsableSize)
	}
}

// WithTrueBinaryMetadata sets the compressor-wide default for whether
// binary ("-bin") header values are sent raw with a 0x00 escape byte
// (true) or base64url+Huffman encoded (false, the interoperable
// default). Per-call EncodeHeaderOptions.UseTrueBinaryMetadata can
// still override this for a single EncodeHeaderSet call.
func WithTrueBinaryMetadata(enabled bool) CompressorOption {
	return func(c *Compressor) {
		c.useTrueBinaryMetadata = enabled
	}
}

// WithLogger installs a structured logger for trace-gated encode
// logging and table-size-change notices. A nil logger is ignored; the
// compressor keeps its zap.NewNop() default.
func WithLogger(logger *zap.Logger) CompressorOption {
	return func(c *Compressor) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTraceEnabled gates the verbose per-entry Debug logging and the
// Info-level table-size-change notice, mirroring the original's
// GRPC_TRACE_FLAG_ENABLED(grpc_http_trace) check.
func WithTraceEnabled(enabled bool) CompressorOption {
	return func(c *Compressor) {
		c.traceEnabled = enabled
	}
}

// WithStatsSink installs the default statistics sink used by
// EncodeHeaderSet calls that don't override it per-call.
func WithStatsSink(stats Stats) CompressorOption {
	return func(c *Compressor) {
		if stats != nil {
			c.stats = stats
		}
	}
}
