package events

import (
	"encoding/json"
	"strconv"
)

// ActivitySnapshotEvent replaces (or merges into) the structured content of
// an activity message. Replace defaults to true when unset.
type ActivitySnapshotEvent struct {
	BaseEvent
	MessageID    string          `json:"messageId"`
	ActivityType string          `json:"activityType"`
	Content      json.RawMessage `json:"content"`
	Replace      *bool           `json:"replace,omitempty"`
}

// NewActivitySnapshotEvent returns an activity snapshot for the given message.
func NewActivitySnapshotEvent(messageID, activityType string, content json.RawMessage) *ActivitySnapshotEvent {
	return &ActivitySnapshotEvent{
		BaseEvent:    newBase(EventTypeActivitySnapshot),
		MessageID:    messageID,
		ActivityType: activityType,
		Content:      content,
	}
}

// WithReplace controls whether the snapshot replaces existing activity
// content or is shallow-merged into it.
func (e *ActivitySnapshotEvent) WithReplace(replace bool) *ActivitySnapshotEvent {
	e.Replace = &replace
	return e
}

// Validate implements Event.
func (e *ActivitySnapshotEvent) Validate() error {
	if err := requireField("messageId", e.MessageID); err != nil {
		return err
	}
	if err := requireField("activityType", e.ActivityType); err != nil {
		return err
	}
	if len(e.Content) == 0 {
		return ValidationError{Field: "content", Message: "field is required"}
	}
	return nil
}

// ActivityDeltaEvent patches the structured content of an activity message
// with an ordered sequence of RFC 6902 operations.
type ActivityDeltaEvent struct {
	BaseEvent
	MessageID    string               `json:"messageId"`
	ActivityType string               `json:"activityType"`
	Patch        []JSONPatchOperation `json:"patch"`
}

// NewActivityDeltaEvent returns an activity delta for the given message.
func NewActivityDeltaEvent(messageID, activityType string, patch []JSONPatchOperation) *ActivityDeltaEvent {
	return &ActivityDeltaEvent{
		BaseEvent:    newBase(EventTypeActivityDelta),
		MessageID:    messageID,
		ActivityType: activityType,
		Patch:        patch,
	}
}

// Validate implements Event.
func (e *ActivityDeltaEvent) Validate() error {
	if err := requireField("messageId", e.MessageID); err != nil {
		return err
	}
	if err := requireField("activityType", e.ActivityType); err != nil {
		return err
	}
	if len(e.Patch) == 0 {
		return ValidationError{Field: "patch", Message: "must contain at least one operation"}
	}
	for i, op := range e.Patch {
		if err := op.Validate(); err != nil {
			return ValidationError{Field: "patch", Message: "operation " + strconv.Itoa(i) + ": " + err.Error()}
		}
	}
	return nil
}
