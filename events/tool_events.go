package events

// ToolCallStartEvent announces a tool invocation and its name.
type ToolCallStartEvent struct {
	BaseEvent
	ToolCallID      string `json:"toolCallId"`
	ToolCallName    string `json:"toolCallName"`
	ParentMessageID string `json:"parentMessageId,omitempty"`
}

// NewToolCallStartEvent returns a start event for the given tool call.
func NewToolCallStartEvent(toolCallID, toolCallName string) *ToolCallStartEvent {
	return &ToolCallStartEvent{
		BaseEvent:    newBase(EventTypeToolCallStart),
		ToolCallID:   toolCallID,
		ToolCallName: toolCallName,
	}
}

// WithParentMessageID links the tool call to the assistant message that
// requested it.
func (e *ToolCallStartEvent) WithParentMessageID(messageID string) *ToolCallStartEvent {
	e.ParentMessageID = messageID
	return e
}

// Validate implements Event.
func (e *ToolCallStartEvent) Validate() error {
	if err := requireField("toolCallId", e.ToolCallID); err != nil {
		return err
	}
	return requireField("toolCallName", e.ToolCallName)
}

// ToolCallArgsEvent streams a fragment of the tool call's JSON arguments.
type ToolCallArgsEvent struct {
	BaseEvent
	ToolCallID string `json:"toolCallId"`
	Delta      string `json:"delta"`
}

// NewToolCallArgsEvent returns an args event carrying delta.
func NewToolCallArgsEvent(toolCallID, delta string) *ToolCallArgsEvent {
	return &ToolCallArgsEvent{
		BaseEvent:  newBase(EventTypeToolCallArgs),
		ToolCallID: toolCallID,
		Delta:      delta,
	}
}

// Validate implements Event.
func (e *ToolCallArgsEvent) Validate() error {
	if err := requireField("toolCallId", e.ToolCallID); err != nil {
		return err
	}
	return requireDelta("delta", e.Delta)
}

// ToolCallEndEvent closes the argument stream for a tool call.
type ToolCallEndEvent struct {
	BaseEvent
	ToolCallID string `json:"toolCallId"`
}

// NewToolCallEndEvent returns an end event for the given tool call.
func NewToolCallEndEvent(toolCallID string) *ToolCallEndEvent {
	return &ToolCallEndEvent{
		BaseEvent:  newBase(EventTypeToolCallEnd),
		ToolCallID: toolCallID,
	}
}

// Validate implements Event.
func (e *ToolCallEndEvent) Validate() error {
	return requireField("toolCallId", e.ToolCallID)
}

// ToolCallChunkEvent is the self-contained counterpart of the
// start/args/end triplet; all fields are optional.
type ToolCallChunkEvent struct {
	BaseEvent
	ToolCallID      string `json:"toolCallId,omitempty"`
	ToolCallName    string `json:"toolCallName,omitempty"`
	ParentMessageID string `json:"parentMessageId,omitempty"`
	Delta           string `json:"delta,omitempty"`
}

// NewToolCallChunkEvent returns a chunk event; all fields optional.
func NewToolCallChunkEvent(toolCallID, delta string) *ToolCallChunkEvent {
	return &ToolCallChunkEvent{
		BaseEvent:  newBase(EventTypeToolCallChunk),
		ToolCallID: toolCallID,
		Delta:      delta,
	}
}

// Validate implements Event.
func (e *ToolCallChunkEvent) Validate() error { return nil }

// ToolCallResultEvent carries the output of an executed tool call, addressed
// both to the tool call and to the tool message that will hold the result.
type ToolCallResultEvent struct {
	BaseEvent
	MessageID  string `json:"messageId"`
	ToolCallID string `json:"toolCallId"`
	Content    string `json:"content"`
	Role       Role   `json:"role,omitempty"`
}

// NewToolCallResultEvent returns a result event for the given tool call.
func NewToolCallResultEvent(messageID, toolCallID, content string) *ToolCallResultEvent {
	return &ToolCallResultEvent{
		BaseEvent:  newBase(EventTypeToolCallResult),
		MessageID:  messageID,
		ToolCallID: toolCallID,
		Content:    content,
		Role:       RoleTool,
	}
}

// Validate implements Event.
func (e *ToolCallResultEvent) Validate() error {
	if err := requireField("messageId", e.MessageID); err != nil {
		return err
	}
	if err := requireField("toolCallId", e.ToolCallID); err != nil {
		return err
	}
	if e.Role != "" && e.Role != RoleTool {
		return ValidationError{Field: "role", Message: "tool call results must use the tool role"}
	}
	return nil
}
