package events

import (
	"encoding/json"
	"testing"
)

func TestMessageUnmarshalPlainContent(t *testing.T) {
	data := []byte(`{"id":"m1","role":"user","content":"hi there"}`)
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Role != RoleUser || m.Content != "hi there" {
		t.Fatalf("unexpected message: %+v", m)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestMessageUnmarshalActivityContent(t *testing.T) {
	data := []byte(`{"id":"m2","role":"activity","activityType":"plan","content":{"steps":["a","b"]}}`)
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.ActivityType != "plan" {
		t.Fatalf("unexpected activity type %q", m.ActivityType)
	}
	if string(m.Activity) != `{"steps":["a","b"]}` {
		t.Fatalf("unexpected activity content: %s", m.Activity)
	}
	if m.Content != "" {
		t.Fatalf("activity message should not set plain content, got %q", m.Content)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestMessageUnmarshalSnakeCaseKeys(t *testing.T) {
	data := []byte(`{"id":"m3","role":"tool","content":"done","tool_call_id":"call_1"}`)
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.ToolCallID != "call_1" {
		t.Fatalf("snake_case tool_call_id not normalized: %+v", m)
	}
}

func TestMessageUnmarshalObjectContentForPlainRole(t *testing.T) {
	data := []byte(`{"id":"m4","role":"user","content":{"not":"a string"}}`)
	var m Message
	if err := json.Unmarshal(data, &m); err == nil {
		t.Fatal("expected error for structured content on plain role")
	}
}

func TestMessageMarshalRoundTrip(t *testing.T) {
	original := Message{
		ID:   "m5",
		Role: RoleAssistant,
		ToolCalls: []ToolCall{{
			ID:       "call_2",
			Type:     "function",
			Function: FunctionCall{Name: "lookup", Arguments: `{"q":"go"}`},
		}},
	}
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Message
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded.ToolCalls) != 1 || decoded.ToolCalls[0].Function.Name != "lookup" {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestMessageMarshalActivityRoundTrip(t *testing.T) {
	original := Message{
		ID:           "m6",
		Role:         RoleActivity,
		ActivityType: "progress",
		Activity:     json.RawMessage(`{"pct":50}`),
	}
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Message
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(decoded.Activity) != `{"pct":50}` || decoded.ActivityType != "progress" {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestMessageValidate(t *testing.T) {
	cases := []struct {
		name    string
		msg     Message
		wantErr bool
	}{
		{"assistant no content ok", Message{ID: "a", Role: RoleAssistant}, false},
		{"missing id", Message{Role: RoleUser, Content: "x"}, true},
		{"missing role", Message{ID: "a", Content: "x"}, true},
		{"unknown role", Message{ID: "a", Role: "robot", Content: "x"}, true},
		{"user needs content", Message{ID: "a", Role: RoleUser}, true},
		{"developer needs content", Message{ID: "a", Role: RoleDeveloper}, true},
		{"tool needs tool call id", Message{ID: "a", Role: RoleTool, Content: "x"}, true},
		{"tool ok", Message{ID: "a", Role: RoleTool, Content: "x", ToolCallID: "c"}, false},
		{"activity needs type", Message{ID: "a", Role: RoleActivity, Activity: json.RawMessage(`{}`)}, true},
		{"activity needs content", Message{ID: "a", Role: RoleActivity, ActivityType: "t"}, true},
		{"activity rejects plain text", Message{ID: "a", Role: RoleActivity, ActivityType: "t", Activity: json.RawMessage(`{}`), Content: "x"}, true},
		{"activity type on plain role", Message{ID: "a", Role: RoleUser, Content: "x", ActivityType: "t"}, true},
		{"tool call missing name", Message{ID: "a", Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "c"}}}, true},
	}
	for _, tc := range cases {
		err := tc.msg.Validate()
		if tc.wantErr && err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
	}
}

func TestMessagesSnapshotValidatesEachMessage(t *testing.T) {
	ev := NewMessagesSnapshotEvent([]Message{{ID: "", Role: RoleUser, Content: "x"}})
	if err := ev.Validate(); err == nil {
		t.Fatal("expected error for invalid message in snapshot")
	}
	if err := NewMessagesSnapshotEvent(nil).Validate(); err != nil {
		t.Fatalf("empty snapshot should validate: %v", err)
	}
}
