package oteladapters

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/group-event-planner-go/eventlist"
)

const attrOutcome = "eventlist.outcome"

// TracingCollector implements eventlist.TracingCollector using the OpenTelemetry tracing API.
type TracingCollector struct {
	tracer trace.Tracer
}

// NewTracingCollector creates a new OpenTelemetry tracing collector.
// The tracer should be created from your OpenTelemetry TracerProvider.
func NewTracingCollector(tracer trace.Tracer) *TracingCollector {
	return &TracingCollector{tracer: tracer}
}

// StartSpan starts an internal span with the given name and attributes.
func (t *TracingCollector) StartSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, eventlist.SpanContext) {

	spanCtx, span := t.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(toAttributes(attrs)...),
	)

	return spanCtx, &OTelSpanContext{span: span}
}

// FinishSpan adds the final attributes, sets the status and ends the span.
func (t *TracingCollector) FinishSpan(spanCtx eventlist.SpanContext, status string, attrs map[string]string) {
	otelSpanCtx, ok := spanCtx.(*OTelSpanContext)
	if !ok {
		return
	}

	otelSpanCtx.span.SetAttributes(toAttributes(attrs)...)
	otelSpanCtx.setSpanStatus(status)
	otelSpanCtx.span.End()
}

var _ eventlist.TracingCollector = (*TracingCollector)(nil)

// OTelSpanContext implements eventlist.SpanContext by wrapping an OpenTelemetry span.
type OTelSpanContext struct {
	span trace.Span
}

// SetStatus maps the status string to an OpenTelemetry status code.
func (s *OTelSpanContext) SetStatus(status string) {
	s.setSpanStatus(status)
}

// AddAttribute adds a string attribute to the span.
func (s *OTelSpanContext) AddAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

// setSpanStatus maps status strings to span status codes.
// A no-op is a successful outcome for tracing purposes; the outcome attribute keeps it distinguishable.
func (s *OTelSpanContext) setSpanStatus(status string) {
	switch status {
	case "ok", "success", "completed", "noop", "idempotent":
		s.span.SetStatus(codes.Ok, "")
		s.span.SetAttributes(attribute.String(attrOutcome, status))
	case "error", "failed", "failure":
		s.span.SetStatus(codes.Error, "Operation failed")
	case "cancelled", "canceled":
		s.span.SetStatus(codes.Error, "Operation cancelled")
	default:
		s.span.SetAttributes(attribute.String("status", status))
	}
}

var _ eventlist.SpanContext = (*OTelSpanContext)(nil)

func toAttributes(attrs map[string]string) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for key, value := range attrs {
		kvs = append(kvs, attribute.String(key, value))
	}

	return kvs
}
