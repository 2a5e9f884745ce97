package grpc

import "github.com/braincorp/grpc/hpack"

// emitIndexed writes the Indexed representation (RFC 7541 section
// 6.1): 0x80 mask, 7-bit prefix varint of the wire index.
func (c *Compressor) emitIndexed(f *frameState, wireIndex uint32, stats Stats) {
	w := hpack.NewVarintWriter(7, uint64(wireIndex))
	w.Write(0x80, f.AddTiny(w.Len()))
	stats.IncIndexed()
}

// writeWireValue writes a value's varint length prefix (with the
// value's Huffman bit folded into the mask) followed by its bytes,
// and optionally a leading 0x00 true-binary escape.
func writeWireValue(f *frameState, wv wireValue) {
	lw := hpack.NewVarintWriter(7, uint64(wv.length()))
	prefix := f.AddTiny(lw.Len())
	lw.Write(wv.huffmanPrefix, prefix)
	if wv.insertNullBefore {
		f.Add([]byte{0x00})
	}
	f.Add(wv.data)
}

// writeKeyLiteral writes a key as a raw (never Huffman-compressed)
// string literal: varint length with mask 0x00, then key bytes.
func writeKeyLiteral(f *frameState, key string, stats Stats) {
	lw := hpack.NewVarintWriter(7, uint64(len(key)))
	lw.Write(0x00, f.AddTiny(lw.Len()))
	f.Add([]byte(key))
	stats.IncUncompressed()
}

// emitLitHdrIncIdx writes Literal Header Field with Incremental
// Indexing, indexed name (RFC 7541 section 6.2.1): 0x40 mask, 6-bit
// prefix varint of keyIndex, then the value.
func (c *Compressor) emitLitHdrIncIdx(f *frameState, keyIndex uint32, key, value string, interned, trueBinary bool, stats Stats) {
	kw := hpack.NewVarintWriter(6, uint64(keyIndex))
	kw.Write(0x40, f.AddTiny(kw.Len()))
	writeWireValue(f, getWireValue(stats, value, IsBinaryHeaderKey(key), trueBinary))
	stats.IncLitHdrIncIdx()
}

// emitLitHdrNotIdx writes Literal Header Field without Indexing,
// indexed name (RFC 7541 section 6.2.2): 0x00 mask, 4-bit prefix
// varint of keyIndex, then the value.
func (c *Compressor) emitLitHdrNotIdx(f *frameState, keyIndex uint32, key, value string, interned, trueBinary bool, stats Stats) {
	kw := hpack.NewVarintWriter(4, uint64(keyIndex))
	kw.Write(0x00, f.AddTiny(kw.Len()))
	writeWireValue(f, getWireValue(stats, value, IsBinaryHeaderKey(key), trueBinary))
	stats.IncLitHdrNotIdx()
}

// emitLitHdrWithStringKeyIncIdx writes Literal Header Field with
// Incremental Indexing, new name: byte 0x40, then the key as a raw
// string literal, then the value.
func (c *Compressor) emitLitHdrWithStringKeyIncIdx(f *frameState, key, value string, interned, trueBinary bool, stats Stats) {
	f.AddTiny(1)[0] = 0x40
	writeKeyLiteral(f, key, stats)
	writeWireValue(f, getWireValue(stats, value, IsBinaryHeaderKey(key), trueBinary))
	stats.IncLitHdrIncIdxV()
}

// emitLitHdrWithStringKeyNotIdx writes Literal Header Field without
// Indexing, new name: byte 0x00, then the key as a raw string
// literal, then the value.
func (c *Compressor) emitLitHdrWithStringKeyNotIdx(f *frameState, key, value string, interned, trueBinary bool, stats Stats) {
	f.AddTiny(1)[0] = 0x00
	writeKeyLiteral(f, key, stats)
	writeWireValue(f, getWireValue(stats, value, IsBinaryHeaderKey(key), trueBinary))
	stats.IncLitHdrNotIdxV()
}

// emitLitHdrWithBinaryStringKeyIncIdx is emitLitHdrWithStringKeyIncIdx
// specialized for a value already known to be binary (used by the
// grpc-trace-bin/grpc-tags-bin fast paths, which never need the
// "-bin" suffix sniff).
func (c *Compressor) emitLitHdrWithBinaryStringKeyIncIdx(f *frameState, key, value string, trueBinary bool, stats Stats) {
	f.AddTiny(1)[0] = 0x40
	writeKeyLiteral(f, key, stats)
	writeWireValue(f, getWireValue(stats, value, true, trueBinary))
	stats.IncLitHdrIncIdxV()
}

// emitLitHdrWithBinaryStringKeyNotIdx writes Literal Header Field
// without Indexing, indexed name, for a binary value: 0x00 mask,
// 4-bit prefix varint of keyIndex, then the binary value.
func (c *Compressor) emitLitHdrWithBinaryStringKeyNotIdx(f *frameState, keyIndex uint32, value string, trueBinary bool, stats Stats) {
	kw := hpack.NewVarintWriter(4, uint64(keyIndex))
	kw.Write(0x00, f.AddTiny(kw.Len()))
	writeWireValue(f, getWireValue(stats, value, true, trueBinary))
	stats.IncLitHdrNotIdx()
}

// emitLitHdrWithNonBinaryStringKeyIncIdx writes Literal Header Field
// with Incremental Indexing, new name, for a value known not to be
// binary (used by the :path/:authority/:status/grpc-status/user-agent
// fast paths, whose values are never the "-bin" convention).
func (c *Compressor) emitLitHdrWithNonBinaryStringKeyIncIdx(f *frameState, key, value string, stats Stats) {
	f.AddTiny(1)[0] = 0x40
	writeKeyLiteral(f, key, stats)
	writeWireValue(f, getWireValue(stats, value, false, false))
	stats.IncLitHdrIncIdxV()
}

// emitLitHdrWithNonBinaryStringKeyNotIdx writes Literal Header Field
// without Indexing, new name, for a value known not to be binary
// (used by the :method/grpc-status fast paths' overflow cases).
func (c *Compressor) emitLitHdrWithNonBinaryStringKeyNotIdx(f *frameState, key, value string, stats Stats) {
	f.AddTiny(1)[0] = 0x00
	writeKeyLiteral(f, key, stats)
	writeWireValue(f, getWireValue(stats, value, false, false))
	stats.IncLitHdrNotIdxV()
}

// emitTableSizeUpdate writes a Dynamic Table Size Update
// representation (RFC 7541 section 6.3): 0x20 mask, 5-bit prefix
// varint of the new max size.
func (c *Compressor) emitTableSizeUpdate(f *frameState) {
	w := hpack.NewVarintWriter(5, uint64(c.table.MaxSize()))
	w.Write(0x20, f.AddTiny(w.Len()))
}
