package events

import (
	"encoding/json"
	"strconv"
)

// Tool describes a callable tool made available to an agent run. Parameters
// is a JSON Schema document.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// Context is a named piece of background information passed to a run.
type Context struct {
	Description string `json:"description"`
	Value       string `json:"value"`
}

// RunAgentInput is the request body that starts an agent run and seeds the
// event stream's thread, state, and history.
type RunAgentInput struct {
	ThreadID       string          `json:"threadId"`
	RunID          string          `json:"runId"`
	State          json.RawMessage `json:"state,omitempty"`
	Messages       []Message       `json:"messages,omitempty"`
	Tools          []Tool          `json:"tools,omitempty"`
	Context        []Context       `json:"context,omitempty"`
	ForwardedProps json.RawMessage `json:"forwardedProps,omitempty"`
}

// Validate checks required run input fields.
func (in *RunAgentInput) Validate() error {
	if err := requireField("threadId", in.ThreadID); err != nil {
		return err
	}
	if err := requireField("runId", in.RunID); err != nil {
		return err
	}
	for i := range in.Messages {
		if err := in.Messages[i].Validate(); err != nil {
			return err
		}
	}
	for i, t := range in.Tools {
		if t.Name == "" {
			return ValidationError{Field: "tools", Message: "tool " + strconv.Itoa(i) + " missing name"}
		}
	}
	return nil
}
