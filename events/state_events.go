package events

import (
	"encoding/json"
	"strconv"
)

// StateSnapshotEvent replaces the entire application state with snapshot.
type StateSnapshotEvent struct {
	BaseEvent
	Snapshot json.RawMessage `json:"snapshot"`
}

// NewStateSnapshotEvent returns a snapshot event holding the given state.
func NewStateSnapshotEvent(snapshot json.RawMessage) *StateSnapshotEvent {
	return &StateSnapshotEvent{
		BaseEvent: newBase(EventTypeStateSnapshot),
		Snapshot:  snapshot,
	}
}

// Validate implements Event.
func (e *StateSnapshotEvent) Validate() error {
	if len(e.Snapshot) == 0 {
		return ValidationError{Field: "snapshot", Message: "field is required"}
	}
	return nil
}

// StateDeltaEvent carries an ordered sequence of RFC 6902 operations to
// apply against the last snapshot.
type StateDeltaEvent struct {
	BaseEvent
	Delta []JSONPatchOperation `json:"delta"`
}

// NewStateDeltaEvent returns a delta event carrying the given operations.
func NewStateDeltaEvent(delta []JSONPatchOperation) *StateDeltaEvent {
	return &StateDeltaEvent{
		BaseEvent: newBase(EventTypeStateDelta),
		Delta:     delta,
	}
}

// Validate implements Event.
func (e *StateDeltaEvent) Validate() error {
	if len(e.Delta) == 0 {
		return ValidationError{Field: "delta", Message: "must contain at least one operation"}
	}
	for i, op := range e.Delta {
		if err := op.Validate(); err != nil {
			return ValidationError{Field: "delta", Message: "operation " + strconv.Itoa(i) + ": " + err.Error()}
		}
	}
	return nil
}

// MessagesSnapshotEvent replaces the entire message history. The snapshot is
// the source of truth, not an incremental append; an empty list clears it.
type MessagesSnapshotEvent struct {
	BaseEvent
	Messages []Message `json:"messages"`
}

// NewMessagesSnapshotEvent returns a snapshot event holding messages.
func NewMessagesSnapshotEvent(messages []Message) *MessagesSnapshotEvent {
	return &MessagesSnapshotEvent{
		BaseEvent: newBase(EventTypeMessagesSnapshot),
		Messages:  messages,
	}
}

// Validate implements Event.
func (e *MessagesSnapshotEvent) Validate() error {
	for i := range e.Messages {
		if err := e.Messages[i].Validate(); err != nil {
			return ValidationError{Field: "messages", Message: "message " + strconv.Itoa(i) + ": " + err.Error()}
		}
	}
	return nil
}

// RawEvent wraps an arbitrary event from an external source.
type RawEvent struct {
	BaseEvent
	Event  json.RawMessage `json:"event"`
	Source string          `json:"source,omitempty"`
}

// NewRawEvent returns a raw pass-through event.
func NewRawEvent(event json.RawMessage) *RawEvent {
	return &RawEvent{
		BaseEvent: newBase(EventTypeRaw),
		Event:     event,
	}
}

// WithSource records where the wrapped event came from.
func (e *RawEvent) WithSource(source string) *RawEvent {
	e.Source = source
	return e
}

// Validate implements Event.
func (e *RawEvent) Validate() error {
	if len(e.Event) == 0 {
		return ValidationError{Field: "event", Message: "field is required"}
	}
	return nil
}

// CustomEvent carries an application-specific event with arbitrary value.
type CustomEvent struct {
	BaseEvent
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// NewCustomEvent returns a custom event named name carrying value.
func NewCustomEvent(name string, value json.RawMessage) *CustomEvent {
	return &CustomEvent{
		BaseEvent: newBase(EventTypeCustom),
		Name:      name,
		Value:     value,
	}
}

// Validate implements Event.
func (e *CustomEvent) Validate() error {
	return requireField("name", e.Name)
}
