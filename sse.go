package sdk

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Frame is one dispatched server-sent event. Data holds the joined data
// lines; ID carries the last event identifier seen on or before this frame.
type Frame struct {
	Event    string
	ID       string
	Data     string
	Retry    time.Duration
	HasRetry bool
}

// FrameParser is a push-mode SSE parser: feed it complete lines (without
// terminators) and it dispatches a Frame each time a blank line closes a
// frame that accumulated data. Frames without data lines are discarded.
// State that outlives a frame, the last event ID and the retry interval,
// carries over to later frames.
type FrameParser struct {
	event       string
	data        []string
	dataSeen    bool
	lastEventID string
	retry       time.Duration
	hasRetry    bool
}

// FeedLine consumes one line. It returns a Frame and true when the line
// completed a dispatchable frame.
func (p *FrameParser) FeedLine(line string) (Frame, bool) {
	if line == "" {
		return p.dispatch()
	}
	if strings.HasPrefix(line, ":") {
		return Frame{}, false
	}
	field, value := splitField(line)
	switch field {
	case "event":
		p.event = value
	case "data":
		p.data = append(p.data, value)
		p.dataSeen = true
	case "id":
		if value != "" && !strings.ContainsAny(value, "\x00\n\r") {
			p.lastEventID = value
		}
	case "retry":
		if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
			p.retry = time.Duration(ms) * time.Millisecond
			p.hasRetry = true
		}
	}
	return Frame{}, false
}

// Flush dispatches a partially accumulated frame at end of input. It returns
// false when no data was pending.
func (p *FrameParser) Flush() (Frame, bool) {
	return p.dispatch()
}

// LastEventID returns the identifier reconnection should resume from.
func (p *FrameParser) LastEventID() string { return p.lastEventID }

// RetryInterval returns the server-requested reconnection delay, if any.
func (p *FrameParser) RetryInterval() (time.Duration, bool) {
	return p.retry, p.hasRetry
}

func (p *FrameParser) dispatch() (Frame, bool) {
	if !p.dataSeen {
		p.event = ""
		return Frame{}, false
	}
	frame := Frame{
		Event:    p.event,
		ID:       p.lastEventID,
		Data:     strings.Join(p.data, "\n"),
		Retry:    p.retry,
		HasRetry: p.hasRetry,
	}
	p.event = ""
	p.data = nil
	p.dataSeen = false
	return frame, true
}

// splitField separates a line into field name and value at the first colon.
// Exactly one leading space is stripped from the value; a line without a
// colon is a field name with an empty value.
func splitField(line string) (string, string) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return line, ""
	}
	field := line[:idx]
	value := line[idx+1:]
	if strings.HasPrefix(value, " ") {
		value = value[1:]
	}
	return field, value
}

// FrameScanner pulls frames out of an io.Reader, tolerating CRLF and LF line
// endings and arbitrary chunk boundaries. A UTF-8 BOM at the start of the
// stream is skipped. Input that is not valid UTF-8 aborts the stream with a
// FrameError.
type FrameScanner struct {
	reader  *bufio.Reader
	body    io.Reader
	parser  FrameParser
	first   bool
	flushed bool
	closed  bool
}

// NewFrameScanner returns a scanner over r.
func NewFrameScanner(r io.Reader) *FrameScanner {
	return &FrameScanner{
		reader: bufio.NewReader(r),
		body:   r,
		first:  true,
	}
}

// Next returns the next dispatched frame. It returns ok=false with a nil
// error at end of input, after flushing any pending frame exactly once.
func (s *FrameScanner) Next() (Frame, bool, error) {
	if s.closed {
		return Frame{}, false, nil
	}
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return Frame{}, false, &FrameError{Message: "read: " + err.Error()}
		}
		atEOF := errors.Is(err, io.EOF)
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		if s.first {
			line = strings.TrimPrefix(line, "\uFEFF")
			s.first = false
		}
		if !utf8.ValidString(line) {
			return Frame{}, false, &FrameError{Message: "input is not valid UTF-8"}
		}
		if atEOF {
			if line != "" {
				s.parser.FeedLine(line)
			}
			if s.flushed {
				return Frame{}, false, nil
			}
			s.flushed = true
			if frame, ok := s.parser.Flush(); ok {
				return frame, true, nil
			}
			return Frame{}, false, nil
		}
		if frame, ok := s.parser.FeedLine(line); ok {
			return frame, true, nil
		}
	}
}

// LastEventID returns the identifier reconnection should resume from.
func (s *FrameScanner) LastEventID() string { return s.parser.LastEventID() }

// RetryInterval returns the server-requested reconnection delay, if any.
func (s *FrameScanner) RetryInterval() (time.Duration, bool) {
	return s.parser.RetryInterval()
}

// Close releases the underlying reader when it is closable. Safe to call
// more than once.
func (s *FrameScanner) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if closer, ok := s.body.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
