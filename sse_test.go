package sdk

import (
	"io"
	"strings"
	"testing"
	"time"
)

// chunkReader yields n bytes per Read to exercise arbitrary chunk
// boundaries.
type chunkReader struct {
	data []byte
	n    int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.data) == 0 {
		return 0, io.EOF
	}
	n := c.n
	if n > len(c.data) {
		n = len(c.data)
	}
	if n > len(p) {
		n = len(p)
	}
	copy(p, c.data[:n])
	c.data = c.data[n:]
	return n, nil
}

func collectFrames(t *testing.T, s *FrameScanner) []Frame {
	t.Helper()
	var frames []Frame
	for {
		frame, ok, err := s.Next()
		if err != nil {
			t.Fatalf("Next returned error: %v", err)
		}
		if !ok {
			return frames
		}
		frames = append(frames, frame)
	}
}

func TestFrameScannerBasic(t *testing.T) {
	input := "event: message\ndata: hello\n\n"
	frames := collectFrames(t, NewFrameScanner(strings.NewReader(input)))
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if frames[0].Event != "message" || frames[0].Data != "hello" {
		t.Fatalf("unexpected frame: %+v", frames[0])
	}
}

func TestFrameScannerMultiLineData(t *testing.T) {
	input := "data: first\ndata: second\ndata:\n\n"
	frames := collectFrames(t, NewFrameScanner(strings.NewReader(input)))
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if frames[0].Data != "first\nsecond\n" {
		t.Fatalf("data lines not joined with newline: %q", frames[0].Data)
	}
}

func TestFrameScannerLeadingSpace(t *testing.T) {
	// Exactly one leading space is stripped; further spaces are payload.
	input := "data:  padded\ndata:no-space\n\n"
	frames := collectFrames(t, NewFrameScanner(strings.NewReader(input)))
	if frames[0].Data != " padded\nno-space" {
		t.Fatalf("unexpected data: %q", frames[0].Data)
	}
}

func TestFrameScannerCommentsAndUnknownFields(t *testing.T) {
	input := ": keep-alive comment\nfoo: ignored\ndata: x\n\n"
	frames := collectFrames(t, NewFrameScanner(strings.NewReader(input)))
	if len(frames) != 1 || frames[0].Data != "x" {
		t.Fatalf("unexpected frames: %+v", frames)
	}
}

func TestFrameScannerNoDataNoDispatch(t *testing.T) {
	input := "event: tick\n\nid: 5\n\ndata: real\n\n"
	frames := collectFrames(t, NewFrameScanner(strings.NewReader(input)))
	if len(frames) != 1 {
		t.Fatalf("frames without data should be discarded, got %d", len(frames))
	}
	if frames[0].Event != "" {
		t.Fatalf("event buffer leaked across discarded frame: %q", frames[0].Event)
	}
}

func TestFrameScannerIDCarryOver(t *testing.T) {
	input := "id: 1\ndata: a\n\ndata: b\n\nid: \x00bad\ndata: c\n\n"
	frames := collectFrames(t, NewFrameScanner(strings.NewReader(input)))
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	for i, frame := range frames {
		if frame.ID != "1" {
			t.Fatalf("frame %d: expected carried id 1, got %q", i, frame.ID)
		}
	}
}

func TestFrameScannerRetry(t *testing.T) {
	input := "retry: 2500\ndata: a\n\nretry: nope\ndata: b\n\n"
	frames := collectFrames(t, NewFrameScanner(strings.NewReader(input)))
	if !frames[0].HasRetry || frames[0].Retry != 2500*time.Millisecond {
		t.Fatalf("unexpected retry: %+v", frames[0])
	}
	// A malformed retry value leaves the previous interval in place.
	if frames[1].Retry != 2500*time.Millisecond {
		t.Fatalf("retry not carried over: %+v", frames[1])
	}
}

func TestFrameScannerCRLF(t *testing.T) {
	input := "event: e\r\ndata: payload\r\n\r\n"
	frames := collectFrames(t, NewFrameScanner(strings.NewReader(input)))
	if len(frames) != 1 || frames[0].Data != "payload" {
		t.Fatalf("CRLF input mishandled: %+v", frames)
	}
}

func TestFrameScannerBOM(t *testing.T) {
	input := "﻿data: x\n\n"
	frames := collectFrames(t, NewFrameScanner(strings.NewReader(input)))
	if len(frames) != 1 || frames[0].Data != "x" {
		t.Fatalf("BOM not stripped: %+v", frames)
	}
}

func TestFrameScannerEOFFlush(t *testing.T) {
	// No trailing blank line: the pending frame flushes exactly once.
	s := NewFrameScanner(strings.NewReader("data: tail"))
	frame, ok, err := s.Next()
	if err != nil || !ok {
		t.Fatalf("expected flushed frame, ok=%v err=%v", ok, err)
	}
	if frame.Data != "tail" {
		t.Fatalf("unexpected data: %q", frame.Data)
	}
	if _, ok, _ := s.Next(); ok {
		t.Fatal("flush must happen only once")
	}
}

func TestFrameScannerChunkBoundaries(t *testing.T) {
	input := "event: message\ndata: split across reads\n\ndata: two\n\n"
	for _, n := range []int{1, 2, 3, 7} {
		frames := collectFrames(t, NewFrameScanner(&chunkReader{data: []byte(input), n: n}))
		if len(frames) != 2 {
			t.Fatalf("chunk size %d: expected 2 frames, got %d", n, len(frames))
		}
		if frames[0].Data != "split across reads" || frames[1].Data != "two" {
			t.Fatalf("chunk size %d: unexpected frames %+v", n, frames)
		}
	}
}

func TestFrameScannerInvalidUTF8(t *testing.T) {
	s := NewFrameScanner(strings.NewReader("data: \xff\xfe\n\n"))
	_, _, err := s.Next()
	if err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
	if _, ok := err.(*FrameError); !ok {
		t.Fatalf("expected *FrameError, got %T", err)
	}
}

func TestFrameParserFieldWithoutColon(t *testing.T) {
	var p FrameParser
	p.FeedLine("data")
	frame, ok := p.FeedLine("")
	if !ok || frame.Data != "" {
		t.Fatalf("bare field name should contribute empty data line: ok=%v %+v", ok, frame)
	}
}
