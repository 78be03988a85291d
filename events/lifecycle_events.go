package events

import "encoding/json"

// RunStartedEvent marks the beginning of an agent run on a thread.
type RunStartedEvent struct {
	BaseEvent
	ThreadID string `json:"threadId"`
	RunID    string `json:"runId"`
}

// NewRunStartedEvent returns a run started event.
func NewRunStartedEvent(threadID, runID string) *RunStartedEvent {
	return &RunStartedEvent{
		BaseEvent: newBase(EventTypeRunStarted),
		ThreadID:  threadID,
		RunID:     runID,
	}
}

// Validate implements Event.
func (e *RunStartedEvent) Validate() error {
	if err := requireField("threadId", e.ThreadID); err != nil {
		return err
	}
	return requireField("runId", e.RunID)
}

// RunFinishedEvent marks the successful completion of a run, optionally
// carrying a final result value.
type RunFinishedEvent struct {
	BaseEvent
	ThreadID string          `json:"threadId"`
	RunID    string          `json:"runId"`
	Result   json.RawMessage `json:"result,omitempty"`
}

// NewRunFinishedEvent returns a run finished event.
func NewRunFinishedEvent(threadID, runID string) *RunFinishedEvent {
	return &RunFinishedEvent{
		BaseEvent: newBase(EventTypeRunFinished),
		ThreadID:  threadID,
		RunID:     runID,
	}
}

// WithResult attaches the run's final result value.
func (e *RunFinishedEvent) WithResult(result json.RawMessage) *RunFinishedEvent {
	e.Result = result
	return e
}

// Validate implements Event.
func (e *RunFinishedEvent) Validate() error {
	if err := requireField("threadId", e.ThreadID); err != nil {
		return err
	}
	return requireField("runId", e.RunID)
}

// RunErrorEvent marks a run that terminated with an error.
type RunErrorEvent struct {
	BaseEvent
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// NewRunErrorEvent returns a run error event.
func NewRunErrorEvent(message string) *RunErrorEvent {
	return &RunErrorEvent{
		BaseEvent: newBase(EventTypeRunError),
		Message:   message,
	}
}

// WithCode attaches a machine-readable error code.
func (e *RunErrorEvent) WithCode(code string) *RunErrorEvent {
	e.Code = code
	return e
}

// Validate implements Event.
func (e *RunErrorEvent) Validate() error {
	return requireField("message", e.Message)
}

// StepStartedEvent marks the beginning of a named step within a run.
type StepStartedEvent struct {
	BaseEvent
	StepName string `json:"stepName"`
}

// NewStepStartedEvent returns a step started event.
func NewStepStartedEvent(stepName string) *StepStartedEvent {
	return &StepStartedEvent{
		BaseEvent: newBase(EventTypeStepStarted),
		StepName:  stepName,
	}
}

// Validate implements Event.
func (e *StepStartedEvent) Validate() error {
	return requireField("stepName", e.StepName)
}

// StepFinishedEvent marks the completion of a named step within a run.
type StepFinishedEvent struct {
	BaseEvent
	StepName string `json:"stepName"`
}

// NewStepFinishedEvent returns a step finished event.
func NewStepFinishedEvent(stepName string) *StepFinishedEvent {
	return &StepFinishedEvent{
		BaseEvent: newBase(EventTypeStepFinished),
		StepName:  stepName,
	}
}

// Validate implements Event.
func (e *StepFinishedEvent) Validate() error {
	return requireField("stepName", e.StepName)
}

// ThinkingStartEvent marks the beginning of a deliberate thinking phase.
type ThinkingStartEvent struct {
	BaseEvent
	Title string `json:"title,omitempty"`
}

// NewThinkingStartEvent returns a thinking start event.
func NewThinkingStartEvent() *ThinkingStartEvent {
	return &ThinkingStartEvent{BaseEvent: newBase(EventTypeThinkingStart)}
}

// WithTitle attaches a human-readable title for the thinking phase.
func (e *ThinkingStartEvent) WithTitle(title string) *ThinkingStartEvent {
	e.Title = title
	return e
}

// Validate implements Event.
func (e *ThinkingStartEvent) Validate() error { return nil }

// ThinkingEndEvent closes a thinking phase.
type ThinkingEndEvent struct {
	BaseEvent
}

// NewThinkingEndEvent returns a thinking end event.
func NewThinkingEndEvent() *ThinkingEndEvent {
	return &ThinkingEndEvent{BaseEvent: newBase(EventTypeThinkingEnd)}
}

// Validate implements Event.
func (e *ThinkingEndEvent) Validate() error { return nil }
