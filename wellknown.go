package grpc

import (
	"strconv"
	"time"

	"github.com/braincorp/grpc/hpack"
)

// Well-known key fast paths: typed handling that bypasses the generic
// encodeDynamic path entirely for keys hot enough to warrant
// specialized caches. Ported from hpack_encoder.cc's typed
// Framer::Encode overloads (Encode(HttpPathMetadata, ...), Encode(
// TeMetadata, ...), etc.), collapsed into plain methods on Compressor
// since Go has no overload resolution to dispatch on a typed key.

// encodePath implements the :path fast path: an MRU value cache keyed
// on the literal path string, shared in shape with :authority.
func (c *Compressor) encodePath(f *frameState, value string, stats Stats) {
	c.emitViaValueCache(c.pathIndex, f, ":path", value, stats)
}

// encodeAuthority implements the :authority fast path.
func (c *Compressor) encodeAuthority(f *frameState, value string, stats Stats) {
	c.emitViaValueCache(c.authorityIndex, f, ":authority", value, stats)
}

// emitViaValueCache is SliceIndex::EmitTo from hpack_encoder.cc: a
// linear scan for value, MRU bubble-up on hit, stale tail trim, and
// literal-with-incremental-indexing emission with cache refresh on
// miss.
func (c *Compressor) emitViaValueCache(cache *hpack.ValueCache, f *frameState, key, value string, stats Stats) {
	if i, ok := cache.Find(value); ok {
		entry := cache.Entry(i)
		if c.table.ConvertibleToDynamicIndex(entry.Index) {
			c.emitIndexed(f, c.table.DynamicIndex(entry.Index), stats)
		} else {
			size := hpack.EntrySize(len(key), len(value))
			cache.SetIndex(i, c.table.AllocateIndex(size))
			c.emitLitHdrWithNonBinaryStringKeyIncIdx(f, key, value, stats)
		}
		cache.BubbleUp(i)
		cache.TrimStaleTail(c.table.ConvertibleToDynamicIndex)
		return
	}

	size := hpack.EntrySize(len(key), len(value))
	index := c.table.AllocateIndex(size)
	c.emitLitHdrWithNonBinaryStringKeyIncIdx(f, key, value, stats)
	cache.Append(value, index)
}

// encodeScheme implements :scheme: http -> wire index 6, https -> 7.
// Any other value is a programmer error: upstream validation is
// trusted to have rejected it already.
func (c *Compressor) encodeScheme(f *frameState, value string, stats Stats) {
	switch value {
	case "http":
		c.emitIndexed(f, 6, stats)
	case "https":
		c.emitIndexed(f, 7, stats)
	default:
		invariant("wellknown", false, "invalid :scheme value: "+value)
	}
}

// encodeMethod implements :method: GET -> wire index 2, POST -> wire
// index 3; anything else (PUT and other verbs) falls back to a
// literal, not-indexed emission with a literal key and value.
func (c *Compressor) encodeMethod(f *frameState, value string, stats Stats) {
	switch value {
	case "GET":
		c.emitIndexed(f, 2, stats)
	case "POST":
		c.emitIndexed(f, 3, stats)
	default:
		c.emitLitHdrWithNonBinaryStringKeyNotIdx(f, ":method", value, stats)
	}
}

// statusIndex maps the well-known :status values to their static
// wire index.
var statusIndex = map[string]uint32{
	"200": 8,
	"204": 9,
	"206": 10,
	"304": 11,
	"400": 12,
	"404": 13,
	"500": 14,
}

// encodeStatus implements the :status fast path: the seven well-known
// codes emit Indexed; any other value is a literal with incremental
// indexing, literal key, and the decimal-ASCII value as given.
func (c *Compressor) encodeStatus(f *frameState, value string, stats Stats) {
	if idx, ok := statusIndex[value]; ok {
		c.emitIndexed(f, idx, stats)
		return
	}
	c.emitLitHdrWithNonBinaryStringKeyIncIdx(f, ":status", value, stats)
}

// encodeAlwaysIndexed backs the single-slot dynamic-index caches
// (te: trailers, content-type: application/grpc): emit Indexed while
// the cached index remains live, else allocate a fresh index and
// refresh the cache with a literal-incremental-indexing emission.
// Mirrors HPackCompressor::Framer::EncodeAlwaysIndexed.
func (c *Compressor) encodeAlwaysIndexed(index *uint32, f *frameState, key, value string, stats Stats) {
	if c.table.ConvertibleToDynamicIndex(*index) {
		c.emitIndexed(f, c.table.DynamicIndex(*index), stats)
		return
	}
	size := hpack.EntrySize(len(key), len(value))
	*index = c.table.AllocateIndex(size)
	c.emitLitHdrWithNonBinaryStringKeyIncIdx(f, key, value, stats)
}

// encodeTe implements te: trailers, the only value this encoder ever
// accepts for the te key; any other value is a programmer error
// upstream of this package.
func (c *Compressor) encodeTe(f *frameState, stats Stats) {
	c.encodeAlwaysIndexed(&c.teIndex, f, "te", "trailers", stats)
}

// encodeContentType implements content-type: application/grpc, the
// only value this encoder ever accepts for the content-type key.
func (c *Compressor) encodeContentType(f *frameState, stats Stats) {
	c.encodeAlwaysIndexed(&c.contentTypeIndex, f, "content-type", "application/grpc", stats)
}

// encodeIndexedKeyWithBinaryValue backs the grpc-trace-bin/
// grpc-tags-bin fast paths: a single-slot index on the *key* (not the
// value, which varies every call), emitting a key-indexed literal
// when the slot is live and a fresh literal-with-new-key-incremental
// indexing when it isn't. Mirrors
// HPackCompressor::Framer::EncodeIndexedKeyWithBinaryValue.
func (c *Compressor) encodeIndexedKeyWithBinaryValue(index *uint32, f *frameState, key, value string, stats Stats, trueBinary bool) {
	if c.table.ConvertibleToDynamicIndex(*index) {
		c.emitLitHdrWithBinaryStringKeyNotIdx(f, c.table.DynamicIndex(*index), value, trueBinary, stats)
		return
	}
	size := hpack.EntrySize(len(key), len(value))
	*index = c.table.AllocateIndex(size)
	c.emitLitHdrWithBinaryStringKeyIncIdx(f, key, value, trueBinary, stats)
}

// encodeGrpcTraceBin implements the grpc-trace-bin fast path.
func (c *Compressor) encodeGrpcTraceBin(f *frameState, value string, stats Stats, trueBinary bool) {
	c.encodeIndexedKeyWithBinaryValue(&c.grpcTraceBinIndex, f, "grpc-trace-bin", value, stats, trueBinary)
}

// encodeGrpcTagsBin implements the grpc-tags-bin fast path.
func (c *Compressor) encodeGrpcTagsBin(f *frameState, value string, stats Stats, trueBinary bool) {
	c.encodeIndexedKeyWithBinaryValue(&c.grpcTagsBinIndex, f, "grpc-tags-bin", value, stats, trueBinary)
}

// encodeUserAgent implements the user-agent fast path: a single-slot
// index keyed on the identity of the cached value. When the value
// differs from the one the slot was last refreshed with, the slot is
// invalidated outright (set to 0, never convertible) before the usual
// always-indexed dance runs.
func (c *Compressor) encodeUserAgent(f *frameState, value string, stats Stats) {
	if value != c.userAgentValue {
		c.userAgentValue = value
		c.userAgentIndex = 0
	}
	c.encodeAlwaysIndexed(&c.userAgentIndex, f, "user-agent", value, stats)
}

// encodeGrpcStatus implements the grpc-status fast path: a small
// per-code array of single-slot indices for codes below
// numCachedGrpcStatusValues. A cached-and-live code emits Indexed; a
// cached-but-stale code allocates a fresh index and emits
// literal-incremental-indexing; a code outside the cached range always
// emits literal-not-indexed, since there is no slot to refresh.
func (c *Compressor) encodeGrpcStatus(f *frameState, value string, stats Stats) {
	code, err := strconv.Atoi(value)
	cacheable := err == nil && code >= 0 && code < numCachedGrpcStatusValues

	if cacheable {
		index := &c.cachedGrpcStatus[code]
		if c.table.ConvertibleToDynamicIndex(*index) {
			c.emitIndexed(f, c.table.DynamicIndex(*index), stats)
			return
		}
		size := hpack.EntrySize(len("grpc-status"), len(value))
		*index = c.table.AllocateIndex(size)
		c.emitLitHdrWithNonBinaryStringKeyIncIdx(f, "grpc-status", value, stats)
		return
	}

	c.emitLitHdrWithNonBinaryStringKeyNotIdx(f, "grpc-status", value, stats)
}

// encodeGrpcTimeout implements the grpc-timeout fast path. value holds
// the absolute deadline formatted as time.RFC3339Nano; the remaining
// duration until that deadline (relative to now) is rendered using the
// compact "<int><unit>" timeout grammar and then run through the
// generic encodeDynamic path exactly as any other transient literal.
func (c *Compressor) encodeGrpcTimeout(f *frameState, now time.Time, value string, stats Stats, trueBinary bool) {
	deadline, err := time.Parse(time.RFC3339Nano, value)
	invariant("wellknown", err == nil, "malformed grpc-timeout deadline: "+value)

	encoded := encodeGrpcTimeoutValue(deadline.Sub(now))
	c.encodeDynamic(f, MetadataEntry{Key: "grpc-timeout", Value: encoded}, trueBinary, stats)
}
