package grpc

import "testing"

func TestLookupStaticExactNameAndValue(t *testing.T) {
	idx, ok := lookupStatic(":method", "GET")
	if !ok || idx != 2 {
		t.Fatalf("lookupStatic(:method, GET) = (%d, %v), want (2, true)", idx, ok)
	}
	idx, ok = lookupStatic(":status", "500")
	if !ok || idx != 14 {
		t.Fatalf("lookupStatic(:status, 500) = (%d, %v), want (14, true)", idx, ok)
	}
}

func TestLookupStaticNameOnlyMissOnValue(t *testing.T) {
	if _, ok := lookupStatic(":method", "PATCH"); ok {
		t.Error("lookupStatic(:method, PATCH) should miss: no static row has that value")
	}
}

func TestLookupStaticUnknownName(t *testing.T) {
	if _, ok := lookupStatic("x-unknown", ""); ok {
		t.Error("lookupStatic on an unknown header name should miss")
	}
}

func TestStaticTableSizeMatchesRFC(t *testing.T) {
	if len(staticTable) != 61 {
		t.Fatalf("static table has %d entries, want 61", len(staticTable))
	}
}
