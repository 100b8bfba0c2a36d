package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/mashirou1234/yesod-auth/webhooks"

// Tracer emits one span per webhook delivery attempt.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer uses the global OpenTelemetry provider.
func NewTracer() *Tracer {
	return &Tracer{tracer: otel.Tracer(tracerName)}
}

// NewTracerWithProvider uses an explicit provider.
func NewTracerWithProvider(tp trace.TracerProvider) *Tracer {
	return &Tracer{tracer: tp.Tracer(tracerName)}
}

// NoopTracer records nothing.
func NoopTracer() *Tracer {
	return NewTracerWithProvider(noop.NewTracerProvider())
}

// StartAttemptSpan starts a span for one HTTP attempt.
func (t *Tracer) StartAttemptSpan(ctx context.Context, eventID, eventType, endpointID string, attempt int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "webhook.delivery.attempt",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("webhook.event_id", eventID),
			attribute.String("webhook.event_type", eventType),
			attribute.String("webhook.endpoint_id", endpointID),
			attribute.Int("webhook.attempt", attempt),
		),
	)
}

// EndAttemptSpan records the attempt result and ends the span.
// statusCode is 0 when no response was received.
func (t *Tracer) EndAttemptSpan(span trace.Span, statusCode int, latencyMs int, outcome string, errMsg string) {
	if statusCode > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", statusCode))
	}
	span.SetAttributes(
		attribute.Int("webhook.latency_ms", latencyMs),
		attribute.String("webhook.outcome", outcome),
	)
	if errMsg != "" {
		span.SetStatus(codes.Error, errMsg)
	}
	span.End()
}
