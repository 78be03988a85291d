package sdk

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/agentwire/agentwire/sdk/go/events"
)

// Content types the encoder can negotiate.
const (
	ContentTypeSSE   = "text/event-stream"
	ContentTypeProto = "application/vnd.agentwire.event+proto"
)

// Binary envelope field numbers.
const (
	fieldEventType    = 1
	fieldEventPayload = 2
)

// Encoder serializes events for one negotiated response. The zero value is
// not useful; construct with NewEncoder.
type Encoder struct {
	contentType string
}

// NewEncoder negotiates an output format from an Accept header. The binary
// format is chosen only when the client names it explicitly; anything else,
// including an empty header, falls back to SSE.
func NewEncoder(accept string) *Encoder {
	contentType := ContentTypeSSE
	for _, part := range strings.Split(accept, ",") {
		media := part
		if idx := strings.IndexByte(media, ';'); idx >= 0 {
			media = media[:idx]
		}
		media = strings.ToLower(strings.TrimSpace(media))
		if media == ContentTypeProto {
			contentType = ContentTypeProto
			break
		}
	}
	return &Encoder{contentType: contentType}
}

// ContentType returns the negotiated media type for the response header.
func (e *Encoder) ContentType() string { return e.contentType }

// Encode serializes one event into a self-delimiting chunk: an SSE frame or
// a length-prefixed binary envelope, per the negotiated content type.
func (e *Encoder) Encode(event events.Event) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("sdk: encode %s: %w", event.Type(), err)
	}
	if e.contentType == ContentTypeProto {
		return encodeBinaryFrame(event.Type(), payload), nil
	}
	var sb strings.Builder
	for _, line := range strings.Split(string(payload), "\n") {
		sb.WriteString("data: ")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	return []byte(sb.String()), nil
}

// encodeBinaryFrame wraps a JSON payload in a protobuf envelope carrying the
// type discriminant, prefixed with a 4-byte big-endian length.
func encodeBinaryFrame(eventType events.EventType, payload []byte) []byte {
	var body []byte
	body = protowire.AppendTag(body, fieldEventType, protowire.BytesType)
	body = protowire.AppendString(body, string(eventType))
	body = protowire.AppendTag(body, fieldEventPayload, protowire.BytesType)
	body = protowire.AppendBytes(body, payload)
	out := make([]byte, 4, 4+len(body))
	binary.BigEndian.PutUint32(out, uint32(len(body)))
	return append(out, body...)
}

// DecodeBinaryFrame reads one length-prefixed binary envelope from b and
// decodes the event inside. It returns the remaining bytes after the frame.
func DecodeBinaryFrame(b []byte) (events.Event, []byte, error) {
	if len(b) < 4 {
		return nil, b, &FrameError{Message: "binary frame shorter than length prefix"}
	}
	size := binary.BigEndian.Uint32(b)
	if uint32(len(b)-4) < size {
		return nil, b, &FrameError{Message: "binary frame truncated"}
	}
	body := b[4 : 4+size]
	rest := b[4+size:]
	var payload []byte
	for len(body) > 0 {
		num, typ, n := protowire.ConsumeTag(body)
		if n < 0 {
			return nil, rest, &FrameError{Message: "binary frame: malformed tag"}
		}
		body = body[n:]
		if typ != protowire.BytesType {
			return nil, rest, &FrameError{Message: "binary frame: unexpected wire type"}
		}
		value, n := protowire.ConsumeBytes(body)
		if n < 0 {
			return nil, rest, &FrameError{Message: "binary frame: malformed field"}
		}
		body = body[n:]
		if num == fieldEventPayload {
			payload = value
		}
	}
	if payload == nil {
		return nil, rest, &FrameError{Message: "binary frame: missing payload"}
	}
	event, err := events.Decode(payload)
	if err != nil {
		return nil, rest, err
	}
	return event, rest, nil
}
