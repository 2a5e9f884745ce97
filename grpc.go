// Package grpc implements the HPACK encoder core of a gRPC-style
// HTTP/2 transport: a per-connection compressor that turns metadata
// entries into HPACK bytes framed as HTTP/2 HEADERS and CONTINUATION
// frames, maintaining a dynamic table kept in lockstep with a peer
// decoder.
//
// The package does not implement HPACK decoding, HTTP/2 stream
// lifecycle, or flow control; those are the concern of a surrounding
// transport that owns one Compressor per connection direction.
package grpc

import "hash/maphash"

// hashSeed is shared across all hash computations in a process so
// that interned strings hash consistently across compressors; it need
// not be cryptographically strong since the hashes only ever drive
// cache placement, never wire bytes.
var hashSeed = maphash.MakeSeed()

func hashString(s string) uint64 {
	return maphash.String(hashSeed, s)
}

func hashEntry(key, value string) uint64 {
	var h maphash.Hash
	h.SetSeed(hashSeed)
	h.WriteString(key)
	h.WriteByte(0)
	h.WriteString(value)
	return h.Sum64()
}
