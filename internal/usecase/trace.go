package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("f1-stats/internal/usecase")

// startUsecaseSpan opens a child span for one operation. With no recording
// parent the context is handed back untouched with a no-op span instead of
// starting a fresh root trace per call.
func startUsecaseSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	if operation == "" || !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan()
	}

	return usecaseTracer.Start(ctx, operation)
}

func noopSpan() trace.Span {
	return trace.SpanFromContext(context.Background())
}
