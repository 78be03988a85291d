package events

// TextMessageStartEvent opens a streamed assistant text message.
type TextMessageStartEvent struct {
	BaseEvent
	MessageID string `json:"messageId"`
	Role      Role   `json:"role,omitempty"`
}

// NewTextMessageStartEvent returns a start event for the given message.
func NewTextMessageStartEvent(messageID string) *TextMessageStartEvent {
	return &TextMessageStartEvent{
		BaseEvent: newBase(EventTypeTextMessageStart),
		MessageID: messageID,
		Role:      RoleAssistant,
	}
}

// WithRole overrides the default assistant role.
func (e *TextMessageStartEvent) WithRole(role Role) *TextMessageStartEvent {
	e.Role = role
	return e
}

// Validate implements Event.
func (e *TextMessageStartEvent) Validate() error {
	return requireField("messageId", e.MessageID)
}

// TextMessageContentEvent appends a content fragment to an open message.
type TextMessageContentEvent struct {
	BaseEvent
	MessageID string `json:"messageId"`
	Delta     string `json:"delta"`
}

// NewTextMessageContentEvent returns a content event carrying delta.
func NewTextMessageContentEvent(messageID, delta string) *TextMessageContentEvent {
	return &TextMessageContentEvent{
		BaseEvent: newBase(EventTypeTextMessageContent),
		MessageID: messageID,
		Delta:     delta,
	}
}

// Validate implements Event.
func (e *TextMessageContentEvent) Validate() error {
	if err := requireField("messageId", e.MessageID); err != nil {
		return err
	}
	return requireDelta("delta", e.Delta)
}

// TextMessageEndEvent closes a streamed text message.
type TextMessageEndEvent struct {
	BaseEvent
	MessageID string `json:"messageId"`
}

// NewTextMessageEndEvent returns an end event for the given message.
func NewTextMessageEndEvent(messageID string) *TextMessageEndEvent {
	return &TextMessageEndEvent{
		BaseEvent: newBase(EventTypeTextMessageEnd),
		MessageID: messageID,
	}
}

// Validate implements Event.
func (e *TextMessageEndEvent) Validate() error {
	return requireField("messageId", e.MessageID)
}

// TextMessageChunkEvent is a self-contained message fragment: it carries
// start, content, and end semantics in one event, so every field is
// optional. Unlike TextMessageContentEvent an absent delta is valid.
type TextMessageChunkEvent struct {
	BaseEvent
	MessageID string `json:"messageId,omitempty"`
	Role      Role   `json:"role,omitempty"`
	Delta     string `json:"delta,omitempty"`
}

// NewTextMessageChunkEvent returns a chunk event; all fields optional.
func NewTextMessageChunkEvent(messageID, delta string) *TextMessageChunkEvent {
	return &TextMessageChunkEvent{
		BaseEvent: newBase(EventTypeTextMessageChunk),
		MessageID: messageID,
		Delta:     delta,
	}
}

// Validate implements Event.
func (e *TextMessageChunkEvent) Validate() error { return nil }

// ThinkingTextMessageStartEvent opens a streamed thinking-phase message.
type ThinkingTextMessageStartEvent struct {
	BaseEvent
}

// NewThinkingTextMessageStartEvent returns a thinking text start event.
func NewThinkingTextMessageStartEvent() *ThinkingTextMessageStartEvent {
	return &ThinkingTextMessageStartEvent{BaseEvent: newBase(EventTypeThinkingTextMessageStart)}
}

// Validate implements Event.
func (e *ThinkingTextMessageStartEvent) Validate() error { return nil }

// ThinkingTextMessageContentEvent carries a fragment of thinking text.
type ThinkingTextMessageContentEvent struct {
	BaseEvent
	Delta string `json:"delta"`
}

// NewThinkingTextMessageContentEvent returns a thinking content event.
func NewThinkingTextMessageContentEvent(delta string) *ThinkingTextMessageContentEvent {
	return &ThinkingTextMessageContentEvent{
		BaseEvent: newBase(EventTypeThinkingTextMessageContent),
		Delta:     delta,
	}
}

// Validate implements Event.
func (e *ThinkingTextMessageContentEvent) Validate() error {
	return requireDelta("delta", e.Delta)
}

// ThinkingTextMessageEndEvent closes a streamed thinking-phase message.
type ThinkingTextMessageEndEvent struct {
	BaseEvent
}

// NewThinkingTextMessageEndEvent returns a thinking text end event.
func NewThinkingTextMessageEndEvent() *ThinkingTextMessageEndEvent {
	return &ThinkingTextMessageEndEvent{BaseEvent: newBase(EventTypeThinkingTextMessageEnd)}
}

// Validate implements Event.
func (e *ThinkingTextMessageEndEvent) Validate() error { return nil }
