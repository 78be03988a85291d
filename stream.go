package sdk

import (
	"context"
	"io"

	"github.com/agentwire/agentwire/sdk/go/events"
)

// EventStream yields decoded events one at a time. Next returns ok=false
// with a nil error when the stream is exhausted.
type EventStream interface {
	Next() (events.Event, bool, error)
	Close() error
}

// sliceStream replays a fixed set of events; used by adapters and tests.
type sliceStream struct {
	events []events.Event
	pos    int
}

// NewSliceStream returns a stream over evs.
func NewSliceStream(evs ...events.Event) EventStream {
	return &sliceStream{events: evs}
}

func (s *sliceStream) Next() (events.Event, bool, error) {
	if s.pos >= len(s.events) {
		return nil, false, nil
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, true, nil
}

func (s *sliceStream) Close() error {
	s.pos = len(s.events)
	return nil
}

// DecodeOption configures a decoding stream.
type DecodeOption func(*decodeStream)

// WithSkipInvalid switches the stream from fail-fast to skip-and-continue:
// frames that fail to decode are reported to onError (when non-nil) and the
// stream moves on. Framing errors remain fatal.
func WithSkipInvalid(onError func(error)) DecodeOption {
	return func(s *decodeStream) {
		s.skipInvalid = true
		s.onError = onError
	}
}

// WithTelemetry attaches observability hooks to the stream.
func WithTelemetry(hooks TelemetryHooks) DecodeOption {
	return func(s *decodeStream) {
		s.telemetry = hooks
	}
}

type decodeStream struct {
	ctx         context.Context
	frames      *FrameScanner
	telemetry   TelemetryHooks
	skipInvalid bool
	onError     func(error)
	closed      bool
}

// DecodeStream reads SSE frames from r and decodes each frame's data into an
// event. By default the first decode failure ends the stream with an error;
// see WithSkipInvalid. Keep-alive frames are consumed silently.
func DecodeStream(ctx context.Context, r io.Reader, opts ...DecodeOption) EventStream {
	s := &decodeStream{
		ctx:    ctx,
		frames: NewFrameScanner(r),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *decodeStream) Next() (events.Event, bool, error) {
	if s.closed {
		return nil, false, nil
	}
	for {
		if err := s.ctx.Err(); err != nil {
			return nil, false, err
		}
		frame, ok, err := s.frames.Next()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			s.Close()
			return nil, false, nil
		}
		if s.telemetry.OnFrame != nil {
			s.telemetry.OnFrame(s.ctx, frame)
		}
		if frame.Data == ":" {
			continue
		}
		event, err := events.Decode([]byte(frame.Data))
		if err != nil {
			if s.skipInvalid {
				s.telemetry.metric(s.ctx, "sdk_stream_events_skipped_total", 1, nil)
				if s.onError != nil {
					s.onError(err)
				}
				continue
			}
			return nil, false, err
		}
		if s.telemetry.OnStreamEvent != nil {
			s.telemetry.OnStreamEvent(s.ctx, event)
		}
		s.telemetry.metric(s.ctx, "sdk_stream_events_total", 1, map[string]string{"event": string(event.Type())})
		return event, true, nil
	}
}

func (s *decodeStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.frames.Close()
}
