package sdk

import (
	"context"
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/agentwire/agentwire/sdk/go/events"
)

// RunHooks observe the reconstruction of one run. All hooks are optional.
type RunHooks struct {
	// OnEvent fires for every event before it is applied.
	OnEvent func(ctx context.Context, ev events.Event)
	// OnNewMessage fires when a message finishes assembling.
	OnNewMessage func(ctx context.Context, msg events.Message)
	// OnNewToolCall fires when a tool call's argument stream closes.
	OnNewToolCall func(ctx context.Context, call events.ToolCall)
	// OnMessagesChanged fires after any mutation of the message list.
	OnMessagesChanged func(ctx context.Context, msgs []events.Message)
	// OnStateChanged fires after a snapshot or successfully applied delta.
	OnStateChanged func(ctx context.Context, state json.RawMessage)
	// OnRunFinished fires when the run completes normally.
	OnRunFinished func(ctx context.Context, result json.RawMessage)
	// OnRunFailed fires when the run emits a run error event.
	OnRunFailed func(ctx context.Context, failure *RunFailure)
	// OnRunFinalized fires once, after Finalize assembles the result.
	OnRunFinalized func(ctx context.Context, result *RunResult)
}

// RunResult is the reconstructed outcome of one run.
type RunResult struct {
	// Result is the value carried by the run finished event, if any.
	Result json.RawMessage
	// Messages is the full message history, seed messages included.
	Messages []events.Message
	// NewMessages holds only the messages produced during this run.
	NewMessages []events.Message
	// State is the final state document; nil when no snapshot arrived.
	State json.RawMessage
	// Failure is set when the run ended with a run error event.
	Failure *RunFailure
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithInitialMessages seeds the message history, typically from the request
// that started the run.
func WithInitialMessages(msgs []events.Message) RunnerOption {
	return func(r *Runner) {
		r.messages = append(r.messages[:0], msgs...)
	}
}

// WithInitialState seeds the state document, so deltas can arrive before the
// first snapshot.
func WithInitialState(state json.RawMessage) RunnerOption {
	return func(r *Runner) {
		r.state.ApplySnapshot(state)
	}
}

// WithRunHooks attaches observation hooks.
func WithRunHooks(hooks RunHooks) RunnerOption {
	return func(r *Runner) {
		r.hooks = hooks
	}
}

// WithRunnerTelemetry attaches observability hooks to the runner.
func WithRunnerTelemetry(hooks TelemetryHooks) RunnerOption {
	return func(r *Runner) {
		r.telemetry = hooks
	}
}

// Runner folds a run's event stream into messages, tool calls, and state.
// It is not safe for concurrent use; feed it from a single goroutine.
type Runner struct {
	messages      []events.Message
	msgIndex      map[string]int
	openToolCalls map[string]toolCallRef
	state         StateStore
	result        json.RawMessage
	failure       *RunFailure
	initialIDs    map[string]struct{}
	hooks         RunHooks
	telemetry     TelemetryHooks
}

// toolCallRef addresses one tool call inside the message list.
type toolCallRef struct {
	msg  int
	call int
}

// NewRunner returns a runner ready to consume events.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		msgIndex:      make(map[string]int),
		openToolCalls: make(map[string]toolCallRef),
		initialIDs:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	for i, m := range r.messages {
		r.msgIndex[m.ID] = i
		r.initialIDs[m.ID] = struct{}{}
	}
	return r
}

// Messages returns the current message history.
func (r *Runner) Messages() []events.Message {
	return append([]events.Message(nil), r.messages...)
}

// State returns the current state document; nil before any snapshot.
func (r *Runner) State() json.RawMessage { return r.state.State() }

// HandleEvent folds one event into the run. Errors it returns are
// recoverable: the runner's accumulated state stays consistent and later
// events are still welcome.
func (r *Runner) HandleEvent(ctx context.Context, ev events.Event) error {
	if r.hooks.OnEvent != nil {
		r.hooks.OnEvent(ctx, ev)
	}
	switch e := ev.(type) {
	case *events.RunStartedEvent:
		annotateRunSpan(ctx, e.ThreadID, e.RunID)
	case *events.RunFinishedEvent:
		r.result = e.Result
		if r.hooks.OnRunFinished != nil {
			r.hooks.OnRunFinished(ctx, e.Result)
		}
	case *events.RunErrorEvent:
		r.failure = &RunFailure{Message: e.Message, Code: e.Code}
		recordRunError(ctx, e.Message, e.Code)
		if r.hooks.OnRunFailed != nil {
			r.hooks.OnRunFailed(ctx, r.failure)
		}
	case *events.TextMessageStartEvent:
		r.startTextMessage(ctx, e.MessageID, e.Role)
	case *events.TextMessageContentEvent:
		idx, ok := r.msgIndex[e.MessageID]
		if !ok {
			r.telemetry.log(ctx, LogLevelError, "content for unknown message", map[string]any{"message_id": e.MessageID})
			return nil
		}
		r.messages[idx].Content += e.Delta
		r.notifyMessagesChanged(ctx)
	case *events.TextMessageEndEvent:
		idx, ok := r.msgIndex[e.MessageID]
		if !ok {
			return nil
		}
		if r.hooks.OnNewMessage != nil {
			r.hooks.OnNewMessage(ctx, r.messages[idx])
		}
	case *events.TextMessageChunkEvent:
		r.handleTextChunk(ctx, e)
	case *events.ToolCallStartEvent:
		r.startToolCall(ctx, e.ToolCallID, e.ToolCallName, e.ParentMessageID)
	case *events.ToolCallArgsEvent:
		ref, ok := r.openToolCalls[e.ToolCallID]
		if !ok {
			r.telemetry.log(ctx, LogLevelError, "args for unknown tool call", map[string]any{"tool_call_id": e.ToolCallID})
			return nil
		}
		r.messages[ref.msg].ToolCalls[ref.call].Function.Arguments += e.Delta
		r.notifyMessagesChanged(ctx)
	case *events.ToolCallEndEvent:
		ref, ok := r.openToolCalls[e.ToolCallID]
		if !ok {
			return nil
		}
		delete(r.openToolCalls, e.ToolCallID)
		if r.hooks.OnNewToolCall != nil {
			r.hooks.OnNewToolCall(ctx, r.messages[ref.msg].ToolCalls[ref.call])
		}
	case *events.ToolCallChunkEvent:
		r.handleToolChunk(ctx, e)
	case *events.ToolCallResultEvent:
		r.appendMessage(ctx, events.Message{
			ID:         e.MessageID,
			Role:       events.RoleTool,
			Content:    e.Content,
			ToolCallID: e.ToolCallID,
		})
	case *events.StateSnapshotEvent:
		r.state.ApplySnapshot(e.Snapshot)
		r.notifyStateChanged(ctx)
	case *events.StateDeltaEvent:
		if err := r.state.ApplyDelta(e.Delta); err != nil {
			r.telemetry.log(ctx, LogLevelError, "state delta rejected", map[string]any{"error": err.Error()})
			return err
		}
		r.notifyStateChanged(ctx)
	case *events.MessagesSnapshotEvent:
		r.applyMessagesSnapshot(ctx, e.Messages)
	case *events.ActivitySnapshotEvent:
		r.applyActivitySnapshot(ctx, e)
	case *events.ActivityDeltaEvent:
		if err := r.applyActivityDelta(ctx, e); err != nil {
			r.telemetry.log(ctx, LogLevelError, "activity delta rejected", map[string]any{"error": err.Error()})
			return err
		}
	}
	return nil
}

// Finalize assembles the run result. Call it once after the event stream
// ends; the runner keeps working afterwards but the hook will not refire.
func (r *Runner) Finalize(ctx context.Context) *RunResult {
	result := &RunResult{
		Result:   r.result,
		Messages: r.Messages(),
		State:    r.state.State(),
		Failure:  r.failure,
	}
	for _, m := range result.Messages {
		if _, seeded := r.initialIDs[m.ID]; !seeded {
			result.NewMessages = append(result.NewMessages, m)
		}
	}
	if r.hooks.OnRunFinalized != nil {
		r.hooks.OnRunFinalized(ctx, result)
	}
	return result
}

// Collect drains stream through the runner and finalizes. It returns early
// on context cancellation, stream errors, and run error events.
func (r *Runner) Collect(ctx context.Context, stream EventStream) (*RunResult, error) {
	defer stream.Close()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		ev, ok, err := stream.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if err := r.HandleEvent(ctx, ev); err != nil {
			r.telemetry.log(ctx, LogLevelError, "event not applied", map[string]any{"type": string(ev.Type()), "error": err.Error()})
		}
		if r.failure != nil {
			return r.Finalize(ctx), r.failure
		}
	}
	return r.Finalize(ctx), nil
}

func (r *Runner) startTextMessage(ctx context.Context, messageID string, role events.Role) {
	if _, exists := r.msgIndex[messageID]; exists {
		return
	}
	if role == "" {
		role = events.RoleAssistant
	}
	r.appendMessageSilent(events.Message{ID: messageID, Role: role})
	r.notifyMessagesChanged(ctx)
}

func (r *Runner) handleTextChunk(ctx context.Context, e *events.TextMessageChunkEvent) {
	messageID := e.MessageID
	if messageID == "" {
		messageID = events.NewMessageID()
	}
	idx, ok := r.msgIndex[messageID]
	if !ok {
		role := e.Role
		if role == "" {
			role = events.RoleAssistant
		}
		r.appendMessageSilent(events.Message{ID: messageID, Role: role, Content: e.Delta})
		r.notifyMessagesChanged(ctx)
		return
	}
	r.messages[idx].Content += e.Delta
	r.notifyMessagesChanged(ctx)
}

func (r *Runner) startToolCall(ctx context.Context, toolCallID, toolCallName, parentMessageID string) {
	if _, open := r.openToolCalls[toolCallID]; open {
		return
	}
	call := events.ToolCall{
		ID:       toolCallID,
		Type:     "function",
		Function: events.FunctionCall{Name: toolCallName},
	}
	idx := r.toolCallHost(parentMessageID)
	r.messages[idx].ToolCalls = append(r.messages[idx].ToolCalls, call)
	r.openToolCalls[toolCallID] = toolCallRef{msg: idx, call: len(r.messages[idx].ToolCalls) - 1}
	r.notifyMessagesChanged(ctx)
}

// toolCallHost locates or creates the assistant message a tool call attaches
// to: the named parent when known, otherwise the trailing assistant message,
// otherwise a fresh one.
func (r *Runner) toolCallHost(parentMessageID string) int {
	if parentMessageID != "" {
		if idx, ok := r.msgIndex[parentMessageID]; ok {
			return idx
		}
	}
	if n := len(r.messages); n > 0 && r.messages[n-1].Role == events.RoleAssistant {
		return n - 1
	}
	id := parentMessageID
	if id == "" {
		id = events.NewMessageID()
	}
	r.appendMessageSilent(events.Message{ID: id, Role: events.RoleAssistant})
	return len(r.messages) - 1
}

func (r *Runner) handleToolChunk(ctx context.Context, e *events.ToolCallChunkEvent) {
	if e.ToolCallID != "" {
		if ref, open := r.openToolCalls[e.ToolCallID]; open {
			r.messages[ref.msg].ToolCalls[ref.call].Function.Arguments += e.Delta
			r.notifyMessagesChanged(ctx)
			return
		}
	}
	toolCallID := e.ToolCallID
	if toolCallID == "" {
		toolCallID = events.NewToolCallID()
	}
	r.startToolCall(ctx, toolCallID, e.ToolCallName, e.ParentMessageID)
	if e.Delta != "" {
		ref := r.openToolCalls[toolCallID]
		r.messages[ref.msg].ToolCalls[ref.call].Function.Arguments += e.Delta
	}
}

func (r *Runner) applyMessagesSnapshot(ctx context.Context, msgs []events.Message) {
	known := make(map[string]struct{}, len(r.messages))
	for _, m := range r.messages {
		known[m.ID] = struct{}{}
	}
	r.messages = append(r.messages[:0], msgs...)
	r.msgIndex = make(map[string]int, len(msgs))
	r.openToolCalls = make(map[string]toolCallRef)
	for i, m := range r.messages {
		r.msgIndex[m.ID] = i
	}
	if r.hooks.OnNewMessage != nil {
		for _, m := range r.messages {
			if _, seen := known[m.ID]; !seen {
				r.hooks.OnNewMessage(ctx, m)
			}
		}
	}
	r.notifyMessagesChanged(ctx)
}

func (r *Runner) applyActivitySnapshot(ctx context.Context, e *events.ActivitySnapshotEvent) {
	replace := e.Replace == nil || *e.Replace
	if idx, ok := r.msgIndex[e.MessageID]; ok && r.messages[idx].Role == events.RoleActivity {
		content := e.Content
		if !replace {
			content = mergeActivity(r.messages[idx].Activity, e.Content)
		}
		r.messages[idx].ActivityType = e.ActivityType
		r.messages[idx].Activity = content
		r.notifyMessagesChanged(ctx)
		return
	}
	r.appendMessage(ctx, events.Message{
		ID:           e.MessageID,
		Role:         events.RoleActivity,
		ActivityType: e.ActivityType,
		Activity:     append(json.RawMessage(nil), e.Content...),
	})
}

func (r *Runner) applyActivityDelta(ctx context.Context, e *events.ActivityDeltaEvent) error {
	idx, ok := r.msgIndex[e.MessageID]
	if !ok || r.messages[idx].Role != events.RoleActivity {
		return &StateApplicationError{Message: "activity delta for unknown activity message " + e.MessageID}
	}
	encoded, err := json.Marshal(e.Patch)
	if err != nil {
		return &StateApplicationError{Message: "encode activity patch", Err: err}
	}
	patch, err := jsonpatch.DecodePatch(encoded)
	if err != nil {
		return &StateApplicationError{Message: "decode activity patch", Err: err}
	}
	patched, err := patch.Apply(r.messages[idx].Activity)
	if err != nil {
		return &StateApplicationError{Message: "apply activity patch", Err: err}
	}
	r.messages[idx].Activity = patched
	r.messages[idx].ActivityType = e.ActivityType
	r.notifyMessagesChanged(ctx)
	return nil
}

// mergeActivity shallow-merges the top-level keys of next over prev. Either
// side failing to parse as an object falls back to replacement.
func mergeActivity(prev, next json.RawMessage) json.RawMessage {
	var base, overlay map[string]json.RawMessage
	if err := json.Unmarshal(prev, &base); err != nil {
		return append(json.RawMessage(nil), next...)
	}
	if err := json.Unmarshal(next, &overlay); err != nil {
		return append(json.RawMessage(nil), next...)
	}
	for k, v := range overlay {
		base[k] = v
	}
	merged, err := json.Marshal(base)
	if err != nil {
		return append(json.RawMessage(nil), next...)
	}
	return merged
}

func (r *Runner) appendMessage(ctx context.Context, msg events.Message) {
	r.appendMessageSilent(msg)
	if r.hooks.OnNewMessage != nil {
		r.hooks.OnNewMessage(ctx, msg)
	}
	r.notifyMessagesChanged(ctx)
}

func (r *Runner) appendMessageSilent(msg events.Message) {
	r.msgIndex[msg.ID] = len(r.messages)
	r.messages = append(r.messages, msg)
}

func (r *Runner) notifyMessagesChanged(ctx context.Context) {
	if r.hooks.OnMessagesChanged != nil {
		r.hooks.OnMessagesChanged(ctx, r.messages)
	}
}

func (r *Runner) notifyStateChanged(ctx context.Context) {
	if r.hooks.OnStateChanged != nil {
		r.hooks.OnStateChanged(ctx, r.state.State())
	}
}
