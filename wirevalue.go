package grpc

import (
	"encoding/base64"

	"github.com/braincorp/grpc/huffman"
)

// wireValue is the on-wire representation of one literal value:
// whether it's prefixed with a Huffman bit, whether a 0x00 true-binary
// escape byte precedes it, and the bytes that follow.
//
// Non-binary headers are emitted raw (Huffman prefix 0; compressing
// them too is a possible future optimization, not required for
// correctness); true-binary-enabled binary headers get a single 0x00
// escape byte followed by raw bytes (Huffman prefix 0);
// true-binary-disabled binary headers are base64url(no padding)
// encoded then Huffman-compressed (Huffman prefix 1).
type wireValue struct {
	data              []byte
	huffmanPrefix     byte
	insertNullBefore  bool
}

// length is the on-wire byte count of the value, including the
// leading 0x00 escape byte when present.
func (w wireValue) length() int {
	n := len(w.data)
	if w.insertNullBefore {
		n++
	}
	return n
}

// getWireValue computes the on-wire bytes for value, incrementing the
// appropriate stats counters as it goes.
func getWireValue(stats Stats, value string, isBinaryHeader, trueBinaryEnabled bool) wireValue {
	if !isBinaryHeader {
		stats.IncUncompressed()
		return wireValue{data: []byte(value), huffmanPrefix: 0x00}
	}

	if trueBinaryEnabled {
		stats.IncBinary()
		return wireValue{data: []byte(value), huffmanPrefix: 0x00, insertNullBefore: true}
	}

	stats.IncBinaryBase64()
	encoded := base64.RawURLEncoding.EncodeToString([]byte(value))
	return wireValue{data: huffman.Encode(nil, encoded), huffmanPrefix: 0x80}
}
