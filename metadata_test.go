package grpc

import "testing"

func TestIsBinaryHeaderKey(t *testing.T) {
	cases := map[string]bool{
		"grpc-trace-bin": true,
		"grpc-tags-bin":  true,
		":path":          false,
		"content-type":   false,
		"x-bin":          true,
	}
	for key, want := range cases {
		if got := IsBinaryHeaderKey(key); got != want {
			t.Errorf("IsBinaryHeaderKey(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestIsPseudoHeader(t *testing.T) {
	if !isPseudoHeader(":method") {
		t.Error("expected :method to be a pseudo-header")
	}
	if isPseudoHeader("user-agent") {
		t.Error("user-agent is not a pseudo-header")
	}
}

func TestMetadataEntryHashDefaultsComputedFromFields(t *testing.T) {
	e := MetadataEntry{Key: "x", Value: "y"}
	if e.entryHash() == 0 {
		t.Error("entryHash() should be non-zero for a non-empty entry")
	}
	if e.keyHash() == 0 {
		t.Error("keyHash() should be non-zero for a non-empty key")
	}
}

func TestMetadataEntryPrecomputedHashTakesPrecedence(t *testing.T) {
	e := MetadataEntry{Key: "x", Value: "y", EntryHash: 42, KeyHash: 7}
	if e.entryHash() != 42 {
		t.Errorf("entryHash() = %d, want precomputed 42", e.entryHash())
	}
	if e.keyHash() != 7 {
		t.Errorf("keyHash() = %d, want precomputed 7", e.keyHash())
	}
}
