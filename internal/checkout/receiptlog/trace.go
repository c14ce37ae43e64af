package receiptlog

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// NewEntry builds a log entry with the trace identifiers taken from the
// active span in ctx. If no span is active (unit tests, disabled tracing)
// both ids stay empty.
func NewEntry(ctx context.Context, r Receipt) *Entry {
	entry := &Entry{Receipt: r}

	sc := trace.SpanFromContext(ctx).SpanContext()
	if sc.IsValid() {
		entry.TraceID = sc.TraceID().String()
		entry.SpanID = sc.SpanID().String()
	}
	return entry
}
