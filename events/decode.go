package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Sentinel results for SSE frames that carry no decodable event.
var (
	// ErrNoData reports an SSE frame with no data lines at all.
	ErrNoData = errors.New("events: frame contains no data")
	// ErrKeepAlive reports a keep-alive frame whose data is a bare colon.
	ErrKeepAlive = errors.New("events: frame is a keep-alive")
)

// DecodingError reports a payload that could not be turned into a valid
// event. It keeps the offending payload so callers in skip-and-continue mode
// can log or persist it.
type DecodingError struct {
	Payload []byte
	Err     error
}

// Error implements the error interface.
func (e *DecodingError) Error() string {
	return fmt.Sprintf("events: decode failed: %v", e.Err)
}

// Unwrap returns the underlying cause, typically a ValidationError or a
// json.SyntaxError.
func (e *DecodingError) Unwrap() error { return e.Err }

// eventKeyAliases maps snake_case wire keys to their canonical camelCase
// form. Applied before unmarshaling so producers in either convention decode
// identically.
var eventKeyAliases = map[string]string{
	"thread_id":         "threadId",
	"run_id":            "runId",
	"message_id":        "messageId",
	"tool_call_id":      "toolCallId",
	"tool_call_name":    "toolCallName",
	"parent_message_id": "parentMessageId",
	"step_name":         "stepName",
	"activity_type":     "activityType",
	"raw_event":         "rawEvent",
}

// Decode parses a JSON event payload, dispatches on its type discriminant,
// and validates the result. The returned event is always one of the concrete
// pointer types in this package.
func Decode(data []byte) (Event, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &DecodingError{Payload: data, Err: err}
	}
	rawType, ok := fields["type"]
	if !ok {
		return nil, &DecodingError{Payload: data, Err: errors.New("missing type field")}
	}
	var eventType EventType
	if err := json.Unmarshal(rawType, &eventType); err != nil {
		return nil, &DecodingError{Payload: data, Err: fmt.Errorf("type field: %w", err)}
	}
	event := newEvent(eventType)
	if event == nil {
		return nil, &DecodingError{Payload: data, Err: fmt.Errorf("unknown event type %q", eventType)}
	}
	for alias, canonical := range eventKeyAliases {
		if v, ok := fields[alias]; ok {
			if _, exists := fields[canonical]; !exists {
				fields[canonical] = v
			}
			delete(fields, alias)
		}
	}
	normalized, err := json.Marshal(fields)
	if err != nil {
		return nil, &DecodingError{Payload: data, Err: err}
	}
	if err := json.Unmarshal(normalized, event); err != nil {
		return nil, &DecodingError{Payload: data, Err: err}
	}
	if err := event.Validate(); err != nil {
		return nil, &DecodingError{Payload: data, Err: err}
	}
	return event, nil
}

// DecodeSSE extracts the data payload from a raw SSE frame and decodes it.
// It returns ErrKeepAlive for frames whose joined data is a bare colon and
// ErrNoData for frames with no data lines.
func DecodeSSE(frame string) (Event, error) {
	var data []string
	for _, line := range strings.Split(frame, "\n") {
		line = strings.TrimSuffix(line, "\r")
		switch {
		case strings.HasPrefix(line, "data:"):
			value := line[len("data:"):]
			value = strings.TrimPrefix(value, " ")
			data = append(data, value)
		case line == "data":
			data = append(data, "")
		}
	}
	if len(data) == 0 {
		return nil, ErrNoData
	}
	joined := strings.Join(data, "\n")
	if joined == ":" {
		return nil, ErrKeepAlive
	}
	return Decode([]byte(joined))
}
