package grpc

// frameHeaderSize is the fixed 9-byte HTTP/2 frame header size,
// RFC 7540 section 4.1.
const frameHeaderSize = 9

// maxFrameLength is the largest value the 24-bit frame length field
// can hold, RFC 7540 section 4.1. Enforced unconditionally rather than
// only in debug builds, since Go has no build-mode-gated assert and a
// violation here is always a programmer error worth surfacing loudly.
const maxFrameLength = 1<<24 - 1

const (
	frameTypeHeaders      = 0x01
	frameTypeContinuation = 0x09

	flagEndStream  = 0x01
	flagEndHeaders = 0x04
)

// frameState is the Framer's running state: a stateful writer that
// owns the current frame's reserved 9-byte header slot, enforces
// maxFrameSize, and splits a logical HPACK byte stream across one
// HEADERS frame followed by zero or more CONTINUATION frames.
//
// Add/AddTiny are called once per emitted representation rather than
// once for a whole pre-serialized header block, so the split can
// happen mid-representation without the caller ever seeing a frame
// boundary.
type frameState struct {
	output            []byte
	headerSlot        int
	frameStartOffset  int
	isFirstFrame      bool
	maxFrameSize      uint32
	streamID          uint32
	isEndOfStream     bool
	stats             Stats
}

// newFrameState begins building a header block for streamID into
// output, reserving the first frame's 9-byte header slot.
func newFrameState(output []byte, streamID uint32, endOfStream bool, maxFrameSize uint32, stats Stats) *frameState {
	invariant("frame", maxFrameSize <= maxFrameLength, "max_frame_size exceeds 24-bit frame length bound")
	f := &frameState{
		output:        output,
		maxFrameSize:  maxFrameSize,
		streamID:      streamID,
		isEndOfStream: endOfStream,
		isFirstFrame:  true,
		stats:         stats,
	}
	f.beginFrame()
	return f
}

// Output returns the accumulated byte stream so far.
func (f *frameState) Output() []byte {
	return f.output
}

func (f *frameState) beginFrame() {
	f.headerSlot = len(f.output)
	f.output = append(f.output, make([]byte, frameHeaderSize)...)
	f.frameStartOffset = len(f.output)
}

// currentFrameSize is the payload size of the frame currently being
// built.
func (f *frameState) currentFrameSize() int {
	return len(f.output) - f.frameStartOffset
}

// Add appends bytes to the output, splitting across frame boundaries
// as needed: if appending all of p would exceed maxFrameSize, it
// writes as much as fits, finishes the current frame as non-final,
// begins a new CONTINUATION frame, and recurses on the remainder.
func (f *frameState) Add(p []byte) {
	for len(p) > 0 {
		remaining := int(f.maxFrameSize) - f.currentFrameSize()
		if len(p) <= remaining {
			f.output = append(f.output, p...)
			f.stats.AddHeaderBytes(uint32(len(p)))
			return
		}
		f.output = append(f.output, p[:remaining]...)
		f.stats.AddHeaderBytes(uint32(remaining))
		p = p[remaining:]
		f.FinishFrame(false)
		f.beginFrame()
	}
}

// AddTiny ensures n bytes fit in the current frame (finishing and
// restarting the frame if they don't), reserves exactly n bytes, and
// returns a mutable slice over them for the caller to fill in.
// Precondition: n <= maxFrameSize.
func (f *frameState) AddTiny(n int) []byte {
	invariant("frame", uint32(n) <= f.maxFrameSize, "add_tiny request exceeds max_frame_size")
	if f.currentFrameSize()+n > int(f.maxFrameSize) {
		f.FinishFrame(false)
		f.beginFrame()
	}
	start := len(f.output)
	f.output = append(f.output, make([]byte, n)...)
	f.stats.AddHeaderBytes(uint32(n))
	return f.output[start : start+n]
}

// FinishFrame writes the 9-byte frame header into the previously
// reserved slot. isHeaderBoundary marks this as the last frame of the
// header block (END_HEADERS set). END_STREAM is set only on the first
// frame, and only if the framer was constructed with endOfStream.
func (f *frameState) FinishFrame(isHeaderBoundary bool) {
	length := f.currentFrameSize()
	invariant("frame", length <= maxFrameLength, "frame length exceeds 24-bit bound")

	frameType := byte(frameTypeContinuation)
	if f.isFirstFrame {
		frameType = frameTypeHeaders
	}

	var flags byte
	if f.isFirstFrame && f.isEndOfStream {
		flags |= flagEndStream
	}
	if isHeaderBoundary {
		flags |= flagEndHeaders
	}

	h := f.output[f.headerSlot : f.headerSlot+frameHeaderSize]
	h[0] = byte(length >> 16)
	h[1] = byte(length >> 8)
	h[2] = byte(length)
	h[3] = frameType
	h[4] = flags
	h[5] = byte(f.streamID >> 24 & 0x7f)
	h[6] = byte(f.streamID >> 16)
	h[7] = byte(f.streamID >> 8)
	h[8] = byte(f.streamID)

	f.stats.AddFramingBytes(frameHeaderSize)
	f.isFirstFrame = false
}
