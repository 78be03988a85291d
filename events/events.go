// Package events defines the AgentWire protocol vocabulary: the closed set of
// typed events an agent emits over one run, the message and tool types they
// reference, and JSON decoding with validation. The wire discriminant is the
// "type" field; field names are accepted in camelCase and snake_case.
package events

import "encoding/json"

// EventType is the wire discriminant carried in every event payload.
type EventType string

// The closed event vocabulary. Adding a variant here requires updating
// newEvent and every exhaustive switch over Event in the sdk package.
const (
	EventTypeTextMessageStart           EventType = "TEXT_MESSAGE_START"
	EventTypeTextMessageContent         EventType = "TEXT_MESSAGE_CONTENT"
	EventTypeTextMessageEnd             EventType = "TEXT_MESSAGE_END"
	EventTypeTextMessageChunk           EventType = "TEXT_MESSAGE_CHUNK"
	EventTypeThinkingTextMessageStart   EventType = "THINKING_TEXT_MESSAGE_START"
	EventTypeThinkingTextMessageContent EventType = "THINKING_TEXT_MESSAGE_CONTENT"
	EventTypeThinkingTextMessageEnd     EventType = "THINKING_TEXT_MESSAGE_END"
	EventTypeToolCallStart              EventType = "TOOL_CALL_START"
	EventTypeToolCallArgs               EventType = "TOOL_CALL_ARGS"
	EventTypeToolCallEnd                EventType = "TOOL_CALL_END"
	EventTypeToolCallChunk              EventType = "TOOL_CALL_CHUNK"
	EventTypeToolCallResult             EventType = "TOOL_CALL_RESULT"
	EventTypeThinkingStart              EventType = "THINKING_START"
	EventTypeThinkingEnd                EventType = "THINKING_END"
	EventTypeStateSnapshot              EventType = "STATE_SNAPSHOT"
	EventTypeStateDelta                 EventType = "STATE_DELTA"
	EventTypeMessagesSnapshot           EventType = "MESSAGES_SNAPSHOT"
	EventTypeActivitySnapshot           EventType = "ACTIVITY_SNAPSHOT"
	EventTypeActivityDelta              EventType = "ACTIVITY_DELTA"
	EventTypeRaw                        EventType = "RAW"
	EventTypeCustom                     EventType = "CUSTOM"
	EventTypeRunStarted                 EventType = "RUN_STARTED"
	EventTypeRunFinished                EventType = "RUN_FINISHED"
	EventTypeRunError                   EventType = "RUN_ERROR"
	EventTypeStepStarted                EventType = "STEP_STARTED"
	EventTypeStepFinished               EventType = "STEP_FINISHED"
)

// Event is one decoded protocol unit. Every variant embeds BaseEvent and
// reports its own discriminant and field-level validation.
type Event interface {
	Type() EventType
	Validate() error
}

// BaseEvent carries the fields common to every event variant.
type BaseEvent struct {
	EventType EventType       `json:"type"`
	Timestamp *int64          `json:"timestamp,omitempty"`
	RawEvent  json.RawMessage `json:"rawEvent,omitempty"`
}

// Type returns the wire discriminant.
func (e BaseEvent) Type() EventType { return e.EventType }

// newBase seeds the discriminant for constructors.
func newBase(t EventType) BaseEvent { return BaseEvent{EventType: t} }

// newEvent allocates the concrete variant for a discriminant. It returns nil
// for unknown types; the decoder turns that into a DecodingError so that
// forward-incompatible events fail loudly rather than decoding half-typed.
func newEvent(t EventType) Event {
	switch t {
	case EventTypeTextMessageStart:
		return &TextMessageStartEvent{}
	case EventTypeTextMessageContent:
		return &TextMessageContentEvent{}
	case EventTypeTextMessageEnd:
		return &TextMessageEndEvent{}
	case EventTypeTextMessageChunk:
		return &TextMessageChunkEvent{}
	case EventTypeThinkingTextMessageStart:
		return &ThinkingTextMessageStartEvent{}
	case EventTypeThinkingTextMessageContent:
		return &ThinkingTextMessageContentEvent{}
	case EventTypeThinkingTextMessageEnd:
		return &ThinkingTextMessageEndEvent{}
	case EventTypeToolCallStart:
		return &ToolCallStartEvent{}
	case EventTypeToolCallArgs:
		return &ToolCallArgsEvent{}
	case EventTypeToolCallEnd:
		return &ToolCallEndEvent{}
	case EventTypeToolCallChunk:
		return &ToolCallChunkEvent{}
	case EventTypeToolCallResult:
		return &ToolCallResultEvent{}
	case EventTypeThinkingStart:
		return &ThinkingStartEvent{}
	case EventTypeThinkingEnd:
		return &ThinkingEndEvent{}
	case EventTypeStateSnapshot:
		return &StateSnapshotEvent{}
	case EventTypeStateDelta:
		return &StateDeltaEvent{}
	case EventTypeMessagesSnapshot:
		return &MessagesSnapshotEvent{}
	case EventTypeActivitySnapshot:
		return &ActivitySnapshotEvent{}
	case EventTypeActivityDelta:
		return &ActivityDeltaEvent{}
	case EventTypeRaw:
		return &RawEvent{}
	case EventTypeCustom:
		return &CustomEvent{}
	case EventTypeRunStarted:
		return &RunStartedEvent{}
	case EventTypeRunFinished:
		return &RunFinishedEvent{}
	case EventTypeRunError:
		return &RunErrorEvent{}
	case EventTypeStepStarted:
		return &StepStartedEvent{}
	case EventTypeStepFinished:
		return &StepFinishedEvent{}
	default:
		return nil
	}
}
