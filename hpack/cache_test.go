package hpack

import "testing"

func TestEntryCacheGetPut(t *testing.T) {
	c := NewEntryCache()
	if _, ok := c.Get(42); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Put(42, 7)
	idx, ok := c.Get(42)
	if !ok || idx != 7 {
		t.Fatalf("Get(42) = (%d, %v), want (7, true)", idx, ok)
	}
	c.Put(42, 9) // last-write-wins on collision
	idx, ok = c.Get(42)
	if !ok || idx != 9 {
		t.Fatalf("Get(42) after overwrite = (%d, %v), want (9, true)", idx, ok)
	}
}

func TestKeyCacheGetPut(t *testing.T) {
	c := NewKeyCache()
	c.Put(1, 5)
	if idx, ok := c.Get(1); !ok || idx != 5 {
		t.Fatalf("Get(1) = (%d, %v), want (5, true)", idx, ok)
	}
}

func TestBloomFilterGatesOnSecondSighting(t *testing.T) {
	f := NewBloomFilter()
	if seen := f.Add(3); seen {
		t.Error("first sighting should report unseen")
	}
	if seen := f.Add(3); !seen {
		t.Error("second sighting should report already seen")
	}
}

func TestBloomFilterWrapsBucketIndex(t *testing.T) {
	f := NewBloomFilter()
	f.Add(5)
	if seen := f.Add(5 + NumFilterValues); !seen {
		t.Error("bucket index should wrap modulo NumFilterValues")
	}
}

func TestValueCacheBubbleUpMovesHitTowardFront(t *testing.T) {
	c := NewValueCache()
	c.Append("a", 100)
	c.Append("b", 101)
	c.Append("c", 102)

	i, ok := c.Find("c")
	if !ok || i != 2 {
		t.Fatalf("Find(c) = (%d, %v), want (2, true)", i, ok)
	}
	c.BubbleUp(i)
	if i, _ := c.Find("c"); i != 1 {
		t.Fatalf("after BubbleUp, Find(c) index = %d, want 1", i)
	}
	if i, _ := c.Find("b"); i != 2 {
		t.Fatalf("after BubbleUp, displaced Find(b) index = %d, want 2", i)
	}
}

func TestValueCacheTrimStaleTailStopsAtFirstLiveEntry(t *testing.T) {
	c := NewValueCache()
	c.Append("a", 100)
	c.Append("b", 101)
	c.Append("c", 102)

	// Only the tail entry ("c", index 102) is stale; trimming removes
	// it and then stops because "b" (index 101) is live.
	live := func(idx uint32) bool { return idx != 102 }
	c.TrimStaleTail(live)

	if _, ok := c.Find("c"); ok {
		t.Error("expected stale tail entry \"c\" to be trimmed")
	}
	if _, ok := c.Find("b"); !ok {
		t.Error("expected live entry \"b\" to survive trimming")
	}
	if _, ok := c.Find("a"); !ok {
		t.Error("expected live entry \"a\" to survive trimming")
	}
}
