package grpc

import "testing"

func decodeFrameHeader(h []byte) (length int, typ, flags byte, streamID uint32) {
	length = int(h[0])<<16 | int(h[1])<<8 | int(h[2])
	typ = h[3]
	flags = h[4]
	streamID = uint32(h[5]&0x7f)<<24 | uint32(h[6])<<16 | uint32(h[7])<<8 | uint32(h[8])
	return
}

func TestFrameStateSingleFrameHeaderLayout(t *testing.T) {
	f := newFrameState(nil, 5, true, 256, NopStats{})
	f.Add([]byte{0x01, 0x02, 0x03})
	f.FinishFrame(true)

	out := f.Output()
	if len(out) != frameHeaderSize+3 {
		t.Fatalf("output length = %d, want %d", len(out), frameHeaderSize+3)
	}
	length, typ, flags, streamID := decodeFrameHeader(out[:frameHeaderSize])
	if length != 3 {
		t.Errorf("length = %d, want 3", length)
	}
	if typ != frameTypeHeaders {
		t.Errorf("type = %#x, want HEADERS", typ)
	}
	if flags != flagEndStream|flagEndHeaders {
		t.Errorf("flags = %#x, want END_STREAM|END_HEADERS", flags)
	}
	if streamID != 5 {
		t.Errorf("stream id = %d, want 5", streamID)
	}
}

func TestFrameStateEndStreamOnlyWhenRequested(t *testing.T) {
	f := newFrameState(nil, 1, false, 256, NopStats{})
	f.FinishFrame(true)
	_, _, flags, _ := decodeFrameHeader(f.Output()[:frameHeaderSize])
	if flags&flagEndStream != 0 {
		t.Error("END_STREAM must not be set when end_of_stream is false")
	}
}

func TestFrameStateSplitsAcrossContinuationFrames(t *testing.T) {
	payload := make([]byte, 500)
	for i := range payload {
		payload[i] = byte(i)
	}

	f := newFrameState(nil, 7, true, 256, NopStats{})
	f.Add(payload)
	f.FinishFrame(true)

	out := f.Output()

	var frames [][]byte
	var reconstructed []byte
	off := 0
	for off < len(out) {
		h := out[off : off+frameHeaderSize]
		length, typ, flags, streamID := decodeFrameHeader(h)
		if streamID != 7 {
			t.Fatalf("frame stream id = %d, want 7", streamID)
		}
		body := out[off+frameHeaderSize : off+frameHeaderSize+length]
		frames = append(frames, append([]byte{typ, flags}, body...))
		reconstructed = append(reconstructed, body...)
		off += frameHeaderSize + length
		if length > 256 {
			t.Fatalf("frame payload length %d exceeds max_frame_size 256", length)
		}
	}

	if len(frames) < 2 {
		t.Fatalf("expected at least 2 frames for a %d-byte payload capped at 256, got %d", len(payload), len(frames))
	}
	if string(reconstructed) != string(payload) {
		t.Fatal("reconstructed payload does not match original")
	}

	for i, fr := range frames {
		typ, flags := fr[0], fr[1]
		wantType := byte(frameTypeContinuation)
		if i == 0 {
			wantType = frameTypeHeaders
		}
		if typ != wantType {
			t.Errorf("frame %d type = %#x, want %#x", i, typ, wantType)
		}
		isLast := i == len(frames)-1
		if isLast && flags&flagEndHeaders == 0 {
			t.Errorf("last frame must set END_HEADERS")
		}
		if !isLast && flags&flagEndHeaders != 0 {
			t.Errorf("frame %d is not last but has END_HEADERS set", i)
		}
		if i == 0 && flags&flagEndStream == 0 {
			t.Errorf("first frame must carry END_STREAM when end_of_stream was requested")
		}
		if i != 0 && flags&flagEndStream != 0 {
			t.Errorf("frame %d is not first but has END_STREAM set", i)
		}
	}
}

func TestFrameStateAddTinyNeverSplitsAReservation(t *testing.T) {
	f := newFrameState(nil, 1, false, 8, NopStats{})
	f.AddTiny(6) // fits in the first frame alongside its own bookkeeping
	slot := f.AddTiny(6)
	if len(slot) != 6 {
		t.Fatalf("AddTiny(6) returned %d bytes, want 6", len(slot))
	}
	f.FinishFrame(true)
}

func TestFrameStateRejectsOversizedMaxFrameSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic constructing a frame state with max_frame_size past the 24-bit bound")
		}
	}()
	newFrameState(nil, 1, false, maxFrameLength+1, NopStats{})
}
