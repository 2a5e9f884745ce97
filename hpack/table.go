package hpack

// StaticTableSize is the number of entries in the shared HPACK static
// table, RFC 7541 Appendix A. Insertion indices issued by Table start
// strictly above this, and HPACK wire indices for dynamic entries are
// offset by it (RFC 7541 section 2.3.3).
const StaticTableSize = 61

// EntryOverhead is the per-entry byte overhead RFC 7541 section 4.1
// adds on top of the name and value lengths when computing an entry's
// contribution to the dynamic table's size budget.
const EntryOverhead = 32

// EntrySize returns the RFC 7541 section 4.1 size of a header field
// with the given name and value lengths.
func EntrySize(nameLen, valueLen int) uint32 {
	return uint32(nameLen) + uint32(valueLen) + EntryOverhead
}

type liveEntry struct {
	index uint32
	size  uint32
}

// Table tracks the insertion-index window of a peer-synchronized HPACK
// dynamic table. It does not store header payloads; it only assigns
// monotonically increasing insertion indices and enforces the byte-size
// budget via FIFO eviction, RFC 7541 section 4.1/4.4.
type Table struct {
	maxSize         uint32
	maxUsableSize   uint32
	currentSize     uint32
	nextIndex       uint32
	firstLiveIndex  uint32
	live            []liveEntry
}

// NewTable constructs a Table at the default initial max size (4096,
// RFC 7541 section 6.5.2) with no local usable-size cap.
func NewTable() *Table {
	return &Table{
		maxSize:        4096,
		maxUsableSize:  1<<32 - 1,
		nextIndex:      StaticTableSize + 1,
		firstLiveIndex: StaticTableSize + 1,
	}
}

// MaxSize returns the currently advertised peer table size.
func (t *Table) MaxSize() uint32 {
	return t.maxSize
}

// effectiveMaxSize is the byte budget actually enforced: the smaller
// of the peer-advertised size and the local usable-size cap.
func (t *Table) effectiveMaxSize() uint32 {
	if t.maxUsableSize < t.maxSize {
		return t.maxUsableSize
	}
	return t.maxSize
}

// SetMaxUsableSize installs a local cap on the dynamic table
// independent of what is advertised to the peer, and re-derives the
// effective max size, evicting as needed. The peer-visible max size is
// left as it is, so the result, which reports whether that size
// changed, is always false.
func (t *Table) SetMaxUsableSize(max uint32) bool {
	t.maxUsableSize = max
	return t.SetMaxSize(t.maxSize)
}

// SetMaxSize updates the advertised peer table size, evicting entries
// until the new effective budget is respected, and reports whether
// the change must be advertised to the peer.
func (t *Table) SetMaxSize(newMax uint32) bool {
	changed := newMax != t.maxSize
	t.maxSize = newMax
	t.evictTo(t.effectiveMaxSize())
	return changed
}

// AllocateIndex assigns the next insertion index to an entry of the
// given size, evicting the oldest live entries until it fits. If the
// entry alone exceeds the effective max size, RFC 7541 section 4.4
// requires clearing the whole table; AllocateIndex does so and
// returns 0 to signal that no index was issued.
func (t *Table) AllocateIndex(entrySize uint32) uint32 {
	effective := t.effectiveMaxSize()
	if entrySize > effective {
		t.live = t.live[:0]
		t.currentSize = 0
		t.firstLiveIndex = t.nextIndex
		return 0
	}

	t.evictTo(effective - entrySize)

	index := t.nextIndex
	t.nextIndex++
	t.live = append(t.live, liveEntry{index: index, size: entrySize})
	t.currentSize += entrySize
	return index
}

// evictTo removes the oldest (smallest-index) entries, FIFO, until
// currentSize fits within budget.
func (t *Table) evictTo(budget uint32) {
	for t.currentSize > budget && len(t.live) > 0 {
		oldest := t.live[0]
		t.live = t.live[1:]
		t.currentSize -= oldest.size
		t.firstLiveIndex = oldest.index + 1
	}
	if len(t.live) == 0 {
		t.firstLiveIndex = t.nextIndex
	}
}

// ConvertibleToDynamicIndex reports whether insertionIndex still
// refers to a live entry, i.e. it has not been evicted since it was
// issued.
func (t *Table) ConvertibleToDynamicIndex(insertionIndex uint32) bool {
	return insertionIndex >= t.firstLiveIndex && insertionIndex < t.nextIndex
}

// DynamicIndex converts a live insertion index into its current
// HPACK wire index. Callers must have verified convertibility first;
// calling this on a stale index returns a meaningless value rather
// than erroring.
func (t *Table) DynamicIndex(insertionIndex uint32) uint32 {
	return StaticTableSize + (t.nextIndex - insertionIndex)
}
