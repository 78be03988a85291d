package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/agentwire/agentwire/sdk/go/events"
)

func feed(t *testing.T, r *Runner, evs ...events.Event) {
	t.Helper()
	ctx := context.Background()
	for _, ev := range evs {
		if err := r.HandleEvent(ctx, ev); err != nil {
			t.Fatalf("HandleEvent(%s) returned error: %v", ev.Type(), err)
		}
	}
}

func TestRunnerAssemblesTextMessage(t *testing.T) {
	r := NewRunner()
	feed(t, r,
		events.NewRunStartedEvent("t", "r"),
		events.NewTextMessageStartEvent("m1"),
		events.NewTextMessageContentEvent("m1", "Hello, "),
		events.NewTextMessageContentEvent("m1", "world!"),
		events.NewTextMessageEndEvent("m1"),
	)
	msgs := r.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].ID != "m1" || msgs[0].Role != events.RoleAssistant || msgs[0].Content != "Hello, world!" {
		t.Fatalf("unexpected message: %+v", msgs[0])
	}
}

func TestRunnerAttachesToolCalls(t *testing.T) {
	var completed []events.ToolCall
	r := NewRunner(WithRunHooks(RunHooks{
		OnNewToolCall: func(ctx context.Context, call events.ToolCall) {
			completed = append(completed, call)
		},
	}))
	feed(t, r,
		events.NewTextMessageStartEvent("m1"),
		events.NewTextMessageEndEvent("m1"),
		events.NewToolCallStartEvent("c1", "search").WithParentMessageID("m1"),
		events.NewToolCallArgsEvent("c1", `{"q":`),
		events.NewToolCallArgsEvent("c1", `"go"}`),
		events.NewToolCallEndEvent("c1"),
		events.NewToolCallResultEvent("m2", "c1", "3 results"),
	)
	msgs := r.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if len(msgs[0].ToolCalls) != 1 {
		t.Fatalf("tool call not attached to parent: %+v", msgs[0])
	}
	call := msgs[0].ToolCalls[0]
	if call.ID != "c1" || call.Function.Name != "search" || call.Function.Arguments != `{"q":"go"}` {
		t.Fatalf("unexpected tool call: %+v", call)
	}
	if msgs[1].Role != events.RoleTool || msgs[1].ToolCallID != "c1" || msgs[1].Content != "3 results" {
		t.Fatalf("unexpected tool message: %+v", msgs[1])
	}
	if len(completed) != 1 || completed[0].Function.Arguments != `{"q":"go"}` {
		t.Fatalf("OnNewToolCall: %+v", completed)
	}
}

func TestRunnerToolCallWithoutParentCreatesHost(t *testing.T) {
	r := NewRunner()
	feed(t, r,
		events.NewToolCallStartEvent("c1", "lookup"),
		events.NewToolCallEndEvent("c1"),
	)
	msgs := r.Messages()
	if len(msgs) != 1 || msgs[0].Role != events.RoleAssistant || len(msgs[0].ToolCalls) != 1 {
		t.Fatalf("expected synthesized assistant host: %+v", msgs)
	}
}

func TestRunnerStateEvents(t *testing.T) {
	var changes []string
	r := NewRunner(WithRunHooks(RunHooks{
		OnStateChanged: func(ctx context.Context, state json.RawMessage) {
			changes = append(changes, string(state))
		},
	}))
	ctx := context.Background()
	delta := events.NewStateDeltaEvent([]events.JSONPatchOperation{
		{Op: "replace", Path: "/n", Value: json.RawMessage(`1`)},
	})
	if err := r.HandleEvent(ctx, delta); err == nil {
		t.Fatal("delta before snapshot must error")
	}
	feed(t, r, events.NewStateSnapshotEvent(json.RawMessage(`{"n":0}`)))
	feed(t, r, delta)
	if string(r.State()) != `{"n":1}` {
		t.Fatalf("unexpected state: %s", r.State())
	}
	if len(changes) != 2 {
		t.Fatalf("expected 2 state change notifications, got %d", len(changes))
	}
}

func TestRunnerInitialStateAllowsDeltaFirst(t *testing.T) {
	r := NewRunner(WithInitialState(json.RawMessage(`{"n":5}`)))
	feed(t, r, events.NewStateDeltaEvent([]events.JSONPatchOperation{
		{Op: "replace", Path: "/n", Value: json.RawMessage(`6`)},
	}))
	if string(r.State()) != `{"n":6}` {
		t.Fatalf("unexpected state: %s", r.State())
	}
}

func TestRunnerMessagesSnapshotReplaces(t *testing.T) {
	var added []string
	r := NewRunner(WithRunHooks(RunHooks{
		OnNewMessage: func(ctx context.Context, msg events.Message) {
			added = append(added, msg.ID)
		},
	}))
	feed(t, r,
		events.NewTextMessageStartEvent("m1"),
		events.NewTextMessageContentEvent("m1", "old"),
	)
	snapshot := events.NewMessagesSnapshotEvent([]events.Message{
		{ID: "m1", Role: events.RoleAssistant, Content: "old"},
		{ID: "m2", Role: events.RoleUser, Content: "new question"},
	})
	feed(t, r, snapshot)
	msgs := r.Messages()
	if len(msgs) != 2 || msgs[1].ID != "m2" {
		t.Fatalf("snapshot did not replace history: %+v", msgs)
	}
	if len(added) != 1 || added[0] != "m2" {
		t.Fatalf("expected only m2 reported as new, got %v", added)
	}
}

func TestRunnerActivityMessages(t *testing.T) {
	r := NewRunner()
	feed(t, r, events.NewActivitySnapshotEvent("a1", "plan", json.RawMessage(`{"steps":["x"],"done":false}`)))
	msgs := r.Messages()
	if len(msgs) != 1 || msgs[0].Role != events.RoleActivity || msgs[0].ActivityType != "plan" {
		t.Fatalf("activity message not created: %+v", msgs)
	}
	// Merge mode keeps unmentioned keys.
	feed(t, r, events.NewActivitySnapshotEvent("a1", "plan", json.RawMessage(`{"done":true}`)).WithReplace(false))
	var activity struct {
		Steps []string `json:"steps"`
		Done  bool     `json:"done"`
	}
	if err := json.Unmarshal(r.Messages()[0].Activity, &activity); err != nil {
		t.Fatalf("unmarshal activity: %v", err)
	}
	if !activity.Done || len(activity.Steps) != 1 {
		t.Fatalf("merge lost data: %+v", activity)
	}
	feed(t, r, events.NewActivityDeltaEvent("a1", "plan", []events.JSONPatchOperation{
		{Op: "add", Path: "/steps/-", Value: json.RawMessage(`"y"`)},
	}))
	if err := json.Unmarshal(r.Messages()[0].Activity, &activity); err != nil {
		t.Fatalf("unmarshal activity: %v", err)
	}
	if len(activity.Steps) != 2 || activity.Steps[1] != "y" {
		t.Fatalf("delta not applied: %+v", activity)
	}
}

func TestRunnerActivityDeltaForUnknownMessage(t *testing.T) {
	r := NewRunner()
	err := r.HandleEvent(context.Background(), events.NewActivityDeltaEvent("nope", "plan", []events.JSONPatchOperation{
		{Op: "add", Path: "/x", Value: json.RawMessage(`1`)},
	}))
	var serr *StateApplicationError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StateApplicationError, got %v", err)
	}
}

func TestRunnerCollect(t *testing.T) {
	seed := []events.Message{{ID: "seed", Role: events.RoleUser, Content: "question"}}
	r := NewRunner(WithInitialMessages(seed))
	stream := NewSliceStream(
		events.NewRunStartedEvent("t", "r"),
		events.NewTextMessageStartEvent("m1"),
		events.NewTextMessageContentEvent("m1", "answer"),
		events.NewTextMessageEndEvent("m1"),
		events.NewRunFinishedEvent("t", "r").WithResult(json.RawMessage(`{"ok":true}`)),
	)
	result, err := r.Collect(context.Background(), stream)
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if string(result.Result) != `{"ok":true}` {
		t.Fatalf("unexpected result: %s", result.Result)
	}
	if len(result.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(result.Messages))
	}
	if len(result.NewMessages) != 1 || result.NewMessages[0].ID != "m1" {
		t.Fatalf("NewMessages should exclude seeds: %+v", result.NewMessages)
	}
}

func TestRunnerCollectRunError(t *testing.T) {
	r := NewRunner()
	stream := NewSliceStream(
		events.NewRunStartedEvent("t", "r"),
		events.NewRunErrorEvent("model exploded").WithCode("UPSTREAM"),
		events.NewTextMessageStartEvent("m-after"),
	)
	result, err := r.Collect(context.Background(), stream)
	var failure *RunFailure
	if !errors.As(err, &failure) {
		t.Fatalf("expected RunFailure, got %v", err)
	}
	if failure.Code != "UPSTREAM" {
		t.Fatalf("unexpected code %q", failure.Code)
	}
	if result == nil || result.Failure == nil {
		t.Fatal("result should still carry partial reconstruction")
	}
	for _, m := range result.Messages {
		if m.ID == "m-after" {
			t.Fatal("events after run error must not apply")
		}
	}
}

func TestRunnerCollectContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner().Collect(ctx, NewSliceStream(events.NewThinkingStartEvent()))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunnerTextChunksCreateMessage(t *testing.T) {
	r := NewRunner()
	feed(t, r,
		events.NewTextMessageChunkEvent("m1", "part one"),
		events.NewTextMessageChunkEvent("m1", " part two"),
	)
	msgs := r.Messages()
	if len(msgs) != 1 || msgs[0].Content != "part one part two" {
		t.Fatalf("chunks not accumulated: %+v", msgs)
	}
}

func TestRunnerFinalizeHook(t *testing.T) {
	var finalized *RunResult
	r := NewRunner(WithRunHooks(RunHooks{
		OnRunFinalized: func(ctx context.Context, result *RunResult) { finalized = result },
	}))
	result := r.Finalize(context.Background())
	if finalized != result {
		t.Fatal("OnRunFinalized not invoked with the result")
	}
}
