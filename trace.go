package sdk

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func annotateRunSpan(ctx context.Context, threadID, runID string) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.String("agentwire.thread_id", threadID),
		attribute.String("agentwire.run_id", runID),
	)
}

func recordRunError(ctx context.Context, message, code string) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	if code != "" {
		span.SetAttributes(attribute.String("agentwire.error_code", code))
	}
	span.SetStatus(codes.Error, message)
}
