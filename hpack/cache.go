package hpack

// NumFilterValues is the number of counting-bloom-filter buckets used
// to gate dynamic-table insertion.
const NumFilterValues = 256

// defaultCacheCapacity bounds EntryCache/KeyCache so a long-lived
// connection's hash maps don't grow without bound; stale entries are
// filtered out by ConvertibleToDynamicIndex regardless of whether
// they're still present in the cache, so eviction here is purely a
// memory bound, not a correctness concern.
const defaultCacheCapacity = 4096

// EntryCache maps a full (key+value) hash to the insertion index it
// was last associated with. Only hashes are compared; callers must
// only rely on a hit when the entry is known to be interned.
type EntryCache struct {
	m map[uint64]uint32
}

// NewEntryCache constructs an empty EntryCache.
func NewEntryCache() *EntryCache {
	return &EntryCache{m: make(map[uint64]uint32)}
}

// Get reports the insertion index last associated with hash, if any.
func (c *EntryCache) Get(hash uint64) (uint32, bool) {
	idx, ok := c.m[hash]
	return idx, ok
}

// Put records that hash now maps to index, overwriting any prior
// mapping (last-write-wins on collision).
func (c *EntryCache) Put(hash uint64, index uint32) {
	if len(c.m) >= defaultCacheCapacity {
		for k := range c.m {
			delete(c.m, k)
			break
		}
	}
	c.m[hash] = index
}

// KeyCache maps a key-only hash to the insertion index it was last
// associated with. Bypassed by callers for entries whose interning
// cannot be guaranteed.
type KeyCache struct {
	m map[uint64]uint32
}

// NewKeyCache constructs an empty KeyCache.
func NewKeyCache() *KeyCache {
	return &KeyCache{m: make(map[uint64]uint32)}
}

// Get reports the insertion index last associated with hash, if any.
func (c *KeyCache) Get(hash uint64) (uint32, bool) {
	idx, ok := c.m[hash]
	return idx, ok
}

// Put records that hash now maps to index, overwriting any prior
// mapping.
func (c *KeyCache) Put(hash uint64, index uint32) {
	if len(c.m) >= defaultCacheCapacity {
		for k := range c.m {
			delete(c.m, k)
			break
		}
	}
	c.m[hash] = index
}

// BloomFilter is a fixed-width counting filter over entry hashes,
// used to delay dynamic-table insertion of one-hit-wonders until
// their second sighting.
type BloomFilter struct {
	buckets [NumFilterValues]uint8
}

// NewBloomFilter constructs an empty counting filter.
func NewBloomFilter() *BloomFilter {
	return &BloomFilter{}
}

// Add increments the bucket for bucketIndex (reduced mod
// NumFilterValues here, so any value is accepted) and reports whether
// the bucket was already nonzero before this call, i.e. whether this
// hash has been seen before.
func (f *BloomFilter) Add(bucketIndex uint32) bool {
	b := bucketIndex % NumFilterValues
	seen := f.buckets[b] != 0
	if f.buckets[b] < 255 {
		f.buckets[b]++
	}
	return seen
}

// ValueEntry is one slot of a ValueCache: a cached value alongside the
// dynamic-table insertion index it was last emitted under.
type ValueEntry struct {
	Value string
	Index uint32
}

// ValueCache is the small ordered MRU list backing the per-well-known
// key fast paths (:path, :authority): a linear scan dominated by a
// handful of hot values, with most-recently-used entries bubbled
// toward the front and stale tail entries trimmed.
type ValueCache struct {
	entries []ValueEntry
}

// NewValueCache constructs an empty ValueCache.
func NewValueCache() *ValueCache {
	return &ValueCache{}
}

// Find scans for value, returning its slot index and true on a hit.
func (c *ValueCache) Find(value string) (int, bool) {
	for i := range c.entries {
		if c.entries[i].Value == value {
			return i, true
		}
	}
	return -1, false
}

// Entry returns the entry at slot i.
func (c *ValueCache) Entry(i int) ValueEntry {
	return c.entries[i]
}

// SetIndex updates the insertion index stored at slot i.
func (c *ValueCache) SetIndex(i int, index uint32) {
	c.entries[i].Index = index
}

// BubbleUp swaps the entry at slot i with its predecessor, if any,
// so repeatedly-hit values migrate toward the front of the scan.
func (c *ValueCache) BubbleUp(i int) {
	if i <= 0 {
		return
	}
	c.entries[i-1], c.entries[i] = c.entries[i], c.entries[i-1]
}

// Append adds a new value/index pair to the back of the cache.
func (c *ValueCache) Append(value string, index uint32) {
	c.entries = append(c.entries, ValueEntry{Value: value, Index: index})
}

// TrimStaleTail pops entries off the back of the cache while they
// refer to insertion indices no longer live according to isLive.
func (c *ValueCache) TrimStaleTail(isLive func(uint32) bool) {
	for len(c.entries) > 0 && !isLive(c.entries[len(c.entries)-1].Index) {
		c.entries = c.entries[:len(c.entries)-1]
	}
}
