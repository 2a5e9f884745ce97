package grpc

import "strings"

// MetadataEntry is one (key, value) pair passed to the encoder. Both
// are byte strings; Go's string type serves as the byte-string
// representation throughout this package.
//
// An entry is Interned when the caller guarantees stable hash-equal
// identity across calls with the same logical key/value, permitting
// the encoder to use hash-only comparison when consulting its index
// caches. A caller that cannot make that guarantee must leave
// Interned false; the encoder then bypasses the key cache for that
// entry and falls back to literal emission.
//
// EntryHash and KeyHash are optional precomputed hashes. When zero,
// the encoder computes them itself from Key and Value.
type MetadataEntry struct {
	Key, Value string
	Interned   bool
	EntryHash  uint64
	KeyHash    uint64
}

// IsBinaryHeaderKey reports whether key follows the "-bin" suffix
// convention that marks an HTTP/2 header as carrying binary data
// (RFC 7540's ASCII-value requirement otherwise applies).
func IsBinaryHeaderKey(key string) bool {
	return strings.HasSuffix(key, "-bin")
}

// isPseudoHeader reports whether key is a ":"-prefixed pseudo-header.
func isPseudoHeader(key string) bool {
	return len(key) > 0 && key[0] == ':'
}

func (e MetadataEntry) entryHash() uint64 {
	if e.EntryHash != 0 {
		return e.EntryHash
	}
	return hashEntry(e.Key, e.Value)
}

func (e MetadataEntry) keyHash() uint64 {
	if e.KeyHash != 0 {
		return e.KeyHash
	}
	return hashString(e.Key)
}
