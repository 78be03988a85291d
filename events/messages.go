package events

import (
	"encoding/json"
	"fmt"
)

// Role identifies the author of a message.
type Role string

// Message roles.
const (
	RoleDeveloper Role = "developer"
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
	RoleTool      Role = "tool"
	RoleActivity  Role = "activity"
)

// FunctionCall names a function and carries its JSON-encoded arguments. The
// arguments accumulate as a string because they stream in fragments that are
// not individually valid JSON.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCall is a tool invocation requested by an assistant message.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// Validate checks required tool call fields.
func (tc ToolCall) Validate() error {
	if tc.ID == "" {
		return ValidationError{Field: "id", Message: "field is required"}
	}
	if tc.Function.Name == "" {
		return ValidationError{Field: "function.name", Message: "field is required"}
	}
	return nil
}

// Message is one entry in a conversation. Plain roles carry text in Content;
// the activity role carries structured JSON in Activity together with an
// ActivityType discriminator, and the two forms are mutually exclusive.
type Message struct {
	ID           string
	Role         Role
	Content      string
	Name         string
	ToolCalls    []ToolCall
	ToolCallID   string
	Error        string
	ActivityType string
	Activity     json.RawMessage
}

// messageWire is the JSON shape shared by MarshalJSON and UnmarshalJSON.
// Content is raw so it can hold either a string or an activity object.
type messageWire struct {
	ID           string          `json:"id"`
	Role         Role            `json:"role"`
	Content      json.RawMessage `json:"content,omitempty"`
	Name         string          `json:"name,omitempty"`
	ToolCalls    []ToolCall      `json:"toolCalls,omitempty"`
	ToolCallID   string          `json:"toolCallId,omitempty"`
	Error        string          `json:"error,omitempty"`
	ActivityType string          `json:"activityType,omitempty"`
}

// messageKeyAliases maps snake_case wire keys to their canonical camelCase
// form so producers in either convention decode identically.
var messageKeyAliases = map[string]string{
	"tool_calls":    "toolCalls",
	"tool_call_id":  "toolCallId",
	"activity_type": "activityType",
}

// MarshalJSON implements json.Marshaler.
func (m Message) MarshalJSON() ([]byte, error) {
	w := messageWire{
		ID:           m.ID,
		Role:         m.Role,
		Name:         m.Name,
		ToolCalls:    m.ToolCalls,
		ToolCallID:   m.ToolCallID,
		Error:        m.Error,
		ActivityType: m.ActivityType,
	}
	if m.Role == RoleActivity {
		w.Content = m.Activity
	} else if m.Content != "" {
		enc, err := json.Marshal(m.Content)
		if err != nil {
			return nil, err
		}
		w.Content = enc
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Message) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for alias, canonical := range messageKeyAliases {
		if v, ok := fields[alias]; ok {
			if _, exists := fields[canonical]; !exists {
				fields[canonical] = v
			}
			delete(fields, alias)
		}
	}
	normalized, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	var w messageWire
	if err := json.Unmarshal(normalized, &w); err != nil {
		return err
	}
	*m = Message{
		ID:           w.ID,
		Role:         w.Role,
		Name:         w.Name,
		ToolCalls:    w.ToolCalls,
		ToolCallID:   w.ToolCallID,
		Error:        w.Error,
		ActivityType: w.ActivityType,
	}
	if len(w.Content) == 0 || string(w.Content) == "null" {
		return nil
	}
	if w.Role == RoleActivity {
		m.Activity = append(json.RawMessage(nil), w.Content...)
		return nil
	}
	if err := json.Unmarshal(w.Content, &m.Content); err != nil {
		return fmt.Errorf("events: message %s content must be a string: %w", m.ID, err)
	}
	return nil
}

// Validate checks the message against its role's structural rules.
func (m *Message) Validate() error {
	if m.ID == "" {
		return ValidationError{Field: "id", Message: "field is required"}
	}
	switch m.Role {
	case RoleActivity:
		if m.ActivityType == "" {
			return ValidationError{Field: "activityType", Message: "required for activity messages"}
		}
		if len(m.Activity) == 0 {
			return ValidationError{Field: "content", Message: "required for activity messages"}
		}
		if m.Content != "" {
			return ValidationError{Field: "content", Message: "activity messages cannot carry plain text"}
		}
	case RoleTool:
		if m.ToolCallID == "" {
			return ValidationError{Field: "toolCallId", Message: "required for tool messages"}
		}
	case RoleUser, RoleSystem, RoleDeveloper:
		if m.Content == "" {
			return ValidationError{Field: "content", Message: "required for " + string(m.Role) + " messages"}
		}
	case RoleAssistant:
	case "":
		return ValidationError{Field: "role", Message: "field is required"}
	default:
		return ValidationError{Field: "role", Message: "unknown role " + string(m.Role)}
	}
	if m.Role != RoleActivity && m.ActivityType != "" {
		return ValidationError{Field: "activityType", Message: "only valid on activity messages"}
	}
	for i, tc := range m.ToolCalls {
		if err := tc.Validate(); err != nil {
			return ValidationError{Field: "toolCalls", Message: fmt.Sprintf("tool call %d: %s", i, err.Error())}
		}
	}
	return nil
}
