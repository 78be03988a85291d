package events

import "github.com/google/uuid"

// NewThreadID returns a fresh thread identifier.
func NewThreadID() string { return "thread_" + uuid.NewString() }

// NewRunID returns a fresh run identifier.
func NewRunID() string { return "run_" + uuid.NewString() }

// NewMessageID returns a fresh message identifier.
func NewMessageID() string { return "msg_" + uuid.NewString() }

// NewToolCallID returns a fresh tool call identifier.
func NewToolCallID() string { return "call_" + uuid.NewString() }
