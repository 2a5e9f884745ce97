package grpc

import (
	"time"

	"go.uber.org/zap"

	"github.com/braincorp/grpc/hpack"
)

// kMaxDecoderSpaceUsage is the RFC-arbitrary ceiling past which an
// entry is never considered for dynamic-table insertion, to avoid one
// large header evicting many small, frequently reused ones (spec
// section 4.5.1 step 5).
const kMaxDecoderSpaceUsage = 512

// numCachedGrpcStatusValues bounds the small per-code grpc-status
// index cache.
const numCachedGrpcStatusValues = 16

// Compressor is per-connection HPACK encoder state: a dynamic table
// and its associated index caches, kept in lockstep with a single
// peer decoder. It is not safe for concurrent use; the owning
// transport must ensure only one EncodeHeaderSet call is in flight at
// a time.
type Compressor struct {
	table       *hpack.Table
	entryCache  *hpack.EntryCache
	keyCache    *hpack.KeyCache
	bloom       *hpack.BloomFilter

	pathIndex      *hpack.ValueCache
	authorityIndex *hpack.ValueCache

	teIndex          uint32
	contentTypeIndex uint32
	grpcTraceBinIndex uint32
	grpcTagsBinIndex  uint32

	userAgentIndex uint32
	userAgentValue string

	cachedGrpcStatus [numCachedGrpcStatusValues]uint32

	advertiseTableSizeChange bool
	useTrueBinaryMetadata    bool

	logger       *zap.Logger
	traceEnabled bool
	stats        Stats
}

// NewCompressor constructs a Compressor with empty caches, a dynamic
// table at the default 4096-byte initial max size, and
// advertiseTableSizeChange false.
func NewCompressor(opts ...CompressorOption) *Compressor {
	c := &Compressor{
		table:          hpack.NewTable(),
		entryCache:     hpack.NewEntryCache(),
		keyCache:       hpack.NewKeyCache(),
		bloom:          hpack.NewBloomFilter(),
		pathIndex:      hpack.NewValueCache(),
		authorityIndex: hpack.NewValueCache(),
		logger:         zap.NewNop(),
		stats:          NopStats{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetMaxUsableSize installs a local cap on the dynamic table,
// independent of what is advertised to the peer: the advertised max
// size is left unchanged, and the budget the table enforces becomes
// min(maxTableSize, advertised max size).
func (c *Compressor) SetMaxUsableSize(maxTableSize uint32) {
	if c.table.SetMaxUsableSize(maxTableSize) {
		c.advertiseTableSizeChange = true
	}
}

// SetMaxTableSize updates the advertised peer table size, typically
// driven by the transport's SETTINGS handshake. It must be called
// before the next header set is framed; the resulting advertisement
// is consumed and written at the start of that Framer's output.
func (c *Compressor) SetMaxTableSize(maxTableSize uint32) {
	if c.table.SetMaxSize(maxTableSize) {
		c.advertiseTableSizeChange = true
		if c.traceEnabled {
			c.logger.Info("set max table size from encoder", zap.Uint32("max_table_size", maxTableSize))
		}
	}
}

// EncodeHeaderOptions carries the per-call knobs for EncodeHeaderSet.
type EncodeHeaderOptions struct {
	StreamID      uint32
	EndOfStream   bool
	MaxFrameSize  uint32

	// UseTrueBinaryMetadata overrides the compressor's default
	// true-binary negotiation for this call only. Leave nil to use
	// the compressor's configured default.
	UseTrueBinaryMetadata *bool

	// Now fixes the clock used to compute grpc-timeout deadlines for
	// every entry in this call, so multiple timeout headers in one
	// header set see a consistent "now". Defaults to time.Now() if
	// zero.
	Now time.Time

	// Stats overrides the compressor's default sink for this call
	// only. Leave nil to use the compressor's configured default.
	Stats Stats
}

// EncodeHeaderSet encodes entries into output as one HEADERS frame
// followed by zero or more CONTINUATION frames, and returns the
// extended output buffer. The caller invokes this once per logical
// header block; it always finishes with exactly one END_HEADERS
// frame.
func (c *Compressor) EncodeHeaderSet(opts EncodeHeaderOptions, entries []MetadataEntry, output []byte) []byte {
	stats := c.stats
	if opts.Stats != nil {
		stats = opts.Stats
	}
	trueBinary := c.useTrueBinaryMetadata
	if opts.UseTrueBinaryMetadata != nil {
		trueBinary = *opts.UseTrueBinaryMetadata
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	f := newFrameState(output, opts.StreamID, opts.EndOfStream, opts.MaxFrameSize, stats)

	if c.advertiseTableSizeChange {
		c.advertiseTableSizeChange = false
		c.emitTableSizeUpdate(f)
	}

	seenRegularHeader := false
	for _, e := range entries {
		invariant("compressor", len(e.Key) > 0, "empty header key")
		if isPseudoHeader(e.Key) {
			invariant("compressor", !seenRegularHeader, "pseudo-header after regular header")
		} else {
			seenRegularHeader = true
		}

		if c.traceEnabled {
			c.logger.Debug("encode header",
				zap.String("key", e.Key),
				zap.Bool("interned", e.Interned),
				zap.Bool("binary", IsBinaryHeaderKey(e.Key)),
			)
		}

		c.encodeOne(f, e, trueBinary, stats, now)
	}

	f.FinishFrame(true)
	return f.Output()
}

// encodeOne dispatches a single entry to its well-known fast path, if
// any, or to the generic encoding path otherwise.
func (c *Compressor) encodeOne(f *frameState, e MetadataEntry, trueBinary bool, stats Stats, now time.Time) {
	switch e.Key {
	case ":path":
		c.encodePath(f, e.Value, stats)
		return
	case ":authority":
		c.encodeAuthority(f, e.Value, stats)
		return
	case ":scheme":
		c.encodeScheme(f, e.Value, stats)
		return
	case ":method":
		c.encodeMethod(f, e.Value, stats)
		return
	case ":status":
		c.encodeStatus(f, e.Value, stats)
		return
	case "te":
		invariant("wellknown", e.Value == "trailers", "invalid te value: "+e.Value)
		c.encodeTe(f, stats)
		return
	case "content-type":
		invariant("wellknown", e.Value == "application/grpc", "invalid content-type value: "+e.Value)
		c.encodeContentType(f, stats)
		return
	case "grpc-status":
		c.encodeGrpcStatus(f, e.Value, stats)
		return
	case "grpc-timeout":
		c.encodeGrpcTimeout(f, now, e.Value, stats, trueBinary)
		return
	case "grpc-trace-bin":
		c.encodeGrpcTraceBin(f, e.Value, stats, trueBinary)
		return
	case "grpc-tags-bin":
		c.encodeGrpcTagsBin(f, e.Value, stats, trueBinary)
		return
	case "user-agent":
		c.encodeUserAgent(f, e.Value, stats)
		return
	}

	if index, ok := lookupStatic(e.Key, e.Value); ok {
		c.emitIndexed(f, index, stats)
		return
	}

	c.encodeDynamic(f, e, trueBinary, stats)
}

// encodeDynamic is the generic per-entry encoding path. It is the
// fallback used by EncodeHeaderSet for any entry that doesn't match a
// well-known key or a static-table row.
func (c *Compressor) encodeDynamic(f *frameState, e MetadataEntry, trueBinary bool, stats Stats) {
	keyInterned := e.Interned
	if !keyInterned {
		c.emitLitHdrWithStringKeyNotIdx(f, e.Key, e.Value, false, trueBinary, stats)
		return
	}

	var elemHash uint64
	if e.Interned {
		elemHash = e.entryHash()
		// An entry is only eligible for dynamic-table insertion starting
		// on its second sighting: Add reports whether the bucket was
		// already nonzero, i.e. whether this hash has been seen before.
		canAdd := c.bloom.Add(uint32(elemHash % hpack.NumFilterValues))

		if idx, ok := c.entryCache.Get(elemHash); ok && c.table.ConvertibleToDynamicIndex(idx) {
			c.emitIndexed(f, c.table.DynamicIndex(idx), stats)
			return
		}
		if !canAdd {
			elemHash = 0
		}
	}

	entrySize := hpack.EntrySize(len(e.Key), len(e.Value))
	decoderSpaceAvailable := entrySize < kMaxDecoderSpaceUsage
	shouldAddElem := e.Interned && decoderSpaceAvailable && elemHash != 0

	keyHash := e.keyHash()
	if idx, ok := c.keyCache.Get(keyHash); ok && c.table.ConvertibleToDynamicIndex(idx) {
		wireIdx := c.table.DynamicIndex(idx)
		if shouldAddElem {
			c.emitLitHdrIncIdx(f, wireIdx, e.Key, e.Value, e.Interned, trueBinary, stats)
			c.addElem(e.Key, e.Value, entrySize, elemHash, keyHash)
		} else {
			c.emitLitHdrNotIdx(f, wireIdx, e.Key, e.Value, e.Interned, trueBinary, stats)
		}
		return
	}

	shouldAddKey := !e.Interned && decoderSpaceAvailable
	if shouldAddElem || shouldAddKey {
		c.emitLitHdrWithStringKeyIncIdx(f, e.Key, e.Value, e.Interned, trueBinary, stats)
	} else {
		c.emitLitHdrWithStringKeyNotIdx(f, e.Key, e.Value, e.Interned, trueBinary, stats)
	}

	if shouldAddElem {
		c.addElem(e.Key, e.Value, entrySize, elemHash, keyHash)
	} else if shouldAddKey {
		c.addKey(e.Key, entrySize, keyHash)
	}
}

// addElem allocates a dynamic-table index for elem and records it in
// both the entry and key caches, mirroring AddElemWithIndex/AddElem in
// the original.
func (c *Compressor) addElem(key, value string, size uint32, elemHash, keyHash uint64) {
	idx := c.table.AllocateIndex(size)
	if idx == 0 {
		return
	}
	c.entryCache.Put(elemHash, idx)
	c.keyCache.Put(keyHash, idx)
}

// addKey allocates a dynamic-table index and records it only in the
// key cache, mirroring AddKeyWithIndex/AddKey in the original.
func (c *Compressor) addKey(key string, size uint32, keyHash uint64) {
	idx := c.table.AllocateIndex(size)
	if idx == 0 {
		return
	}
	c.keyCache.Put(keyHash, idx)
}
