package grpc

import (
	"encoding/base64"
	"testing"

	"github.com/braincorp/grpc/huffman"
)

func TestGetWireValueNonBinaryIsRawUncompressed(t *testing.T) {
	wv := getWireValue(NopStats{}, "/svc/Echo", false, false)
	if wv.huffmanPrefix != 0x00 {
		t.Errorf("huffmanPrefix = %#x, want 0x00", wv.huffmanPrefix)
	}
	if string(wv.data) != "/svc/Echo" {
		t.Errorf("data = %q, want raw value", wv.data)
	}
	if wv.insertNullBefore {
		t.Error("non-binary values never get a null escape byte")
	}
}

func TestGetWireValueBinaryTrueBinaryEscapes(t *testing.T) {
	wv := getWireValue(NopStats{}, "\x01\x02\x03", true, true)
	if !wv.insertNullBefore {
		t.Error("true-binary values must carry the leading 0x00 escape")
	}
	if wv.huffmanPrefix != 0x00 {
		t.Errorf("huffmanPrefix = %#x, want 0x00", wv.huffmanPrefix)
	}
	if wv.length() != len(wv.data)+1 {
		t.Errorf("length() = %d, want %d", wv.length(), len(wv.data)+1)
	}
}

func TestGetWireValueBinaryBase64HuffmanCompressed(t *testing.T) {
	raw := "\x01\x02\x03\xff"
	wv := getWireValue(NopStats{}, raw, true, false)
	if wv.huffmanPrefix != 0x80 {
		t.Errorf("huffmanPrefix = %#x, want 0x80", wv.huffmanPrefix)
	}
	if wv.insertNullBefore {
		t.Error("base64 binary values never get a null escape byte")
	}

	decoded, err := huffman.Decode(nil, wv.data)
	if err != nil {
		t.Fatalf("huffman.Decode: %v", err)
	}
	wantB64 := base64.RawURLEncoding.EncodeToString([]byte(raw))
	if string(decoded) != wantB64 {
		t.Errorf("decoded huffman payload = %q, want base64 %q", decoded, wantB64)
	}
}
