package oteladapters

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log"

	"github.com/AntonStoeckl/group-event-planner-go/eventlist"
)

const (
	attrComponent  = "component"
	componentValue = "eventlist"
)

// SlogBridgeLogger implements eventlist.ContextualLogger on a *slog.Logger.
// Every record is tagged with component=eventlist.
type SlogBridgeLogger struct {
	logger *slog.Logger
}

// NewSlogBridgeLogger creates a logger backed by the OpenTelemetry slog bridge.
// Records carry the trace and span IDs of the context; the global LoggerProvider is used.
func NewSlogBridgeLogger(name string) *SlogBridgeLogger {
	return &SlogBridgeLogger{logger: otelslog.NewLogger(name).With(attrComponent, componentValue)}
}

// NewSlogBridgeLoggerWithHandler uses handler as-is, without trace correlation.
func NewSlogBridgeLoggerWithHandler(handler slog.Handler) *SlogBridgeLogger {
	return &SlogBridgeLogger{logger: slog.New(handler).With(attrComponent, componentValue)}
}

// DebugContext logs a debug message with context.
func (l *SlogBridgeLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

// InfoContext logs an info message with context.
func (l *SlogBridgeLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, msg, args...)
}

// WarnContext logs a warning message with context.
func (l *SlogBridgeLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

// ErrorContext logs an error message with context.
func (l *SlogBridgeLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, msg, args...)
}

var _ eventlist.ContextualLogger = (*SlogBridgeLogger)(nil)

// OTelLogger implements eventlist.ContextualLogger using the OpenTelemetry logging API directly.
// Store attributes keep their kind: event_count and rsvps become integers, duration_ms a float,
// event IDs and the operation name strings.
type OTelLogger struct {
	logger log.Logger
}

// NewOTelLogger creates a contextual logger that emits records on logger.
func NewOTelLogger(logger log.Logger) *OTelLogger {
	return &OTelLogger{logger: logger}
}

// DebugContext logs a debug message with context using OpenTelemetry log API.
func (l *OTelLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityDebug, msg, args...)
}

// InfoContext logs an info message with context using OpenTelemetry log API.
func (l *OTelLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityInfo, msg, args...)
}

// WarnContext logs a warning message with context using OpenTelemetry log API.
func (l *OTelLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityWarn, msg, args...)
}

// ErrorContext logs an error message with context using OpenTelemetry log API.
func (l *OTelLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityError, msg, args...)
}

// emit converts slog-style args (key/value pairs or slog.Attr) into typed attributes.
// A trailing key without value and non-string keys are dropped.
func (l *OTelLogger) emit(ctx context.Context, severity log.Severity, msg string, args ...any) {
	record := log.Record{}
	record.SetSeverity(severity)
	record.SetSeverityText(severityText(severity))
	record.SetBody(log.StringValue(msg))
	record.AddAttributes(log.String(attrComponent, componentValue))

	for i := 0; i < len(args); i++ {
		if attr, ok := args[i].(slog.Attr); ok {
			record.AddAttributes(attribute(attr.Key, attr.Value.Any()))
			continue
		}

		if i+1 == len(args) {
			break
		}

		if key, ok := args[i].(string); ok {
			record.AddAttributes(attribute(key, args[i+1]))
		}
		i++
	}

	l.logger.Emit(ctx, record)
}

func severityText(severity log.Severity) string {
	switch severity {
	case log.SeverityDebug:
		return "DEBUG"
	case log.SeverityInfo:
		return "INFO"
	case log.SeverityWarn:
		return "WARN"
	case log.SeverityError:
		return "ERROR"
	default:
		return ""
	}
}

func attribute(key string, value any) log.KeyValue {
	switch v := value.(type) {
	case string:
		return log.String(key, v)
	case bool:
		return log.Bool(key, v)
	case int:
		return log.Int(key, v)
	case int64:
		return log.Int64(key, v)
	case uint:
		return unsignedAttribute(key, uint64(v))
	case uint64:
		return unsignedAttribute(key, v)
	case float64:
		return log.Float64(key, v)
	case error:
		return log.String(key, v.Error())
	case fmt.Stringer:
		return log.String(key, v.String())
	default:
		return log.String(key, slog.AnyValue(v).String())
	}
}

func unsignedAttribute(key string, value uint64) log.KeyValue {
	if value > math.MaxInt64 {
		return log.String(key, fmt.Sprint(value))
	}

	return log.Int64(key, int64(value))
}

var _ eventlist.ContextualLogger = (*OTelLogger)(nil)
