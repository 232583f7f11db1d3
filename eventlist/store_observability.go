package eventlist

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	operationUpdateDraftField = "update_draft_field"
	operationCommitDraft      = "commit_draft"
	operationRecordRSVP       = "record_rsvp"

	spanNamePrefix = "eventlist."

	statusSuccess = "success"
	statusNoop    = "noop"
	statusError   = "error"

	metricOperationDuration = "eventlist_operation_duration_seconds"
	metricOperationsTotal   = "eventlist_operations_total"
	metricEvents            = "eventlist_events"
	metricRSVPsTotal        = "eventlist_rsvps_total"

	metricLabelOperation = "operation"
	metricLabelStatus    = "status"

	spanAttrOperation  = "operation"
	spanAttrField      = "field"
	spanAttrEventID    = "event_id"
	spanAttrRSVPs      = "rsvps"
	spanAttrVersion    = "version"
	spanAttrReason     = "reason"
	spanAttrDurationMS = "duration_ms"
	spanAttrErrorType  = "error_type"

	logMsgDraftUpdated   = "draft field updated"
	logMsgEventCommitted = "event committed"
	logMsgRSVPRecorded   = "rsvp recorded"
	logMsgNoop           = "eventlist operation had no effect"
	logMsgCommitFailed   = "commit dropped because no usable event id was generated"
	logMsgOperationFail  = "eventlist operation dropped because of a fault"

	logAttrOperation     = "operation"
	logAttrReason        = "reason"
	logAttrField         = "field"
	logAttrEventID       = "event_id"
	logAttrEventCount    = "event_count"
	logAttrRSVPs         = "rsvps"
	logAttrMissingFields = "missing_fields"
	logAttrDurationMS    = "duration_ms"
	logAttrError         = "error"
)

// === Logging ===

func (s *Store) logDebug(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, msg, args...)
	}
}

func (s *Store) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, msg, args...)
	}
}

func (s *Store) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if s.logger != nil {
		s.logger.Error(msg, allArgs...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, msg, allArgs...)
	}
}

func (s *Store) logDraftUpdated(ctx context.Context, field Field) {
	s.logDebug(ctx, logMsgDraftUpdated, logAttrField, field.String())
}

func (s *Store) logEventCommitted(ctx context.Context, event Event, eventCount int) {
	s.logInfo(ctx, logMsgEventCommitted, logAttrEventID, event.ID, logAttrEventCount, eventCount)
}

func (s *Store) logRSVPRecorded(ctx context.Context, event Event) {
	s.logInfo(ctx, logMsgRSVPRecorded, logAttrEventID, event.ID, logAttrRSVPs, event.RSVPs)
}

// missingFieldsLogArgs returns the log attributes naming the blank Draft fields, or nothing if there are none.
func missingFieldsLogArgs(draft Draft) []any {
	missing := draft.MissingFields()
	if len(missing) == 0 {
		return nil
	}

	names := make([]string, 0, len(missing))
	for _, field := range missing {
		names = append(names, field.String())
	}

	return []any{logAttrMissingFields, strings.Join(names, ",")}
}

// finishNoop reports an idempotent decision to all configured collectors.
// A decision carrying an error is reported as an error, all others as a plain no-op.
func (s *Store) finishNoop(
	ctx context.Context,
	tracer *operationTracer,
	metrics *operationMetrics,
	operation string,
	decision DecisionResult,
	duration time.Duration,
	logArgs ...any,
) {

	args := []any{logAttrOperation, operation, logAttrReason, decision.Reason}
	args = append(args, logArgs...)

	if decision.Err != nil {
		s.logError(ctx, faultLogMessage(operation), decision.Err, args...)
		metrics.recordOperation(statusError, duration)
		tracer.finishError(decision.Reason, decision.Err, duration)

		return
	}

	s.logDebug(ctx, logMsgNoop, append(args, logAttrDurationMS, toMilliseconds(duration))...)
	metrics.recordOperation(statusNoop, duration)
	tracer.finishNoop(decision.Reason, duration)
}

// faultLogMessage names the fault that turned an operation into a no-op.
func faultLogMessage(operation string) string {
	if operation == operationCommitDraft {
		return logMsgCommitFailed
	}

	return logMsgOperationFail
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func formatUint(value uint) string {
	return strconv.FormatUint(uint64(value), 10)
}

// === Tracing ===

// operationTracer encapsulates the span lifecycle of one Store operation.
// With no TracingCollector configured all its methods do nothing.
type operationTracer struct {
	s    *Store
	span SpanContext
}

// startTracing starts a span named eventlist.<operation> if the tracing collector is configured.
func (s *Store) startTracing(
	ctx context.Context,
	operation string,
	attrs map[string]string,
) (*operationTracer, context.Context) {

	if s.tracingCollector == nil {
		return &operationTracer{s: s}, ctx
	}

	spanAttrs := map[string]string{spanAttrOperation: operation}
	for key, value := range attrs {
		spanAttrs[key] = value
	}

	newCtx, span := s.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, spanAttrs)

	return &operationTracer{s: s, span: span}, newCtx
}

// finishSuccess completes the span of an applied mutation. extraAttrs are key/value pairs.
func (ot *operationTracer) finishSuccess(version VersionUint, duration time.Duration, extraAttrs ...string) {
	if ot.span == nil {
		return
	}

	attrs := map[string]string{
		spanAttrVersion:    formatUint(version),
		spanAttrDurationMS: formatDurationMS(duration),
	}

	for i := 0; i+1 < len(extraAttrs); i += 2 {
		attrs[extraAttrs[i]] = extraAttrs[i+1]
	}

	ot.finish(statusSuccess, attrs)
}

func (ot *operationTracer) finishNoop(reason string, duration time.Duration) {
	if ot.span == nil {
		return
	}

	ot.finish(statusNoop, map[string]string{
		spanAttrReason:     reason,
		spanAttrDurationMS: formatDurationMS(duration),
	})
}

func (ot *operationTracer) finishError(reason string, err error, duration time.Duration) {
	if ot.span == nil {
		return
	}

	ot.finish(statusError, map[string]string{
		spanAttrReason:     reason,
		spanAttrErrorType:  err.Error(),
		spanAttrDurationMS: formatDurationMS(duration),
	})
}

func (ot *operationTracer) finish(status string, attrs map[string]string) {
	ot.span.SetStatus(status)
	for key, value := range attrs {
		ot.span.AddAttribute(key, value)
	}

	ot.s.tracingCollector.FinishSpan(ot.span, status, attrs)
}

func formatDurationMS(duration time.Duration) string {
	return fmt.Sprintf("%.2f", float64(duration.Nanoseconds())/1e6)
}

// === Metrics ===

// operationMetrics encapsulates the metrics collection of one Store operation.
type operationMetrics struct {
	s         *Store
	ctx       context.Context
	operation string
}

func (s *Store) startMetrics(ctx context.Context, operation string) *operationMetrics {
	return &operationMetrics{
		s:         s,
		ctx:       ctx,
		operation: operation,
	}
}

// recordSuccess records the duration and count of an applied mutation and the resulting number of Events.
func (om *operationMetrics) recordSuccess(eventCount int, duration time.Duration) {
	om.recordOperation(statusSuccess, duration)
	om.recordValue(metricEvents, float64(eventCount), nil)
}

func (om *operationMetrics) recordOperation(status string, duration time.Duration) {
	labels := map[string]string{
		metricLabelOperation: om.operation,
		metricLabelStatus:    status,
	}

	om.recordDuration(metricOperationDuration, duration, labels)
	om.incrementCounter(metricOperationsTotal, labels)
}

func (om *operationMetrics) recordRSVP() {
	om.incrementCounter(metricRSVPsTotal, nil)
}

// recordDuration uses the context-aware method if available.
func (om *operationMetrics) recordDuration(metric string, duration time.Duration, labels map[string]string) {
	if om.s.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := om.s.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(om.ctx, metric, duration, labels)
		return
	}

	om.s.metricsCollector.RecordDuration(metric, duration, labels)
}

func (om *operationMetrics) incrementCounter(metric string, labels map[string]string) {
	if om.s.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := om.s.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(om.ctx, metric, labels)
		return
	}

	om.s.metricsCollector.IncrementCounter(metric, labels)
}

func (om *operationMetrics) recordValue(metric string, value float64, labels map[string]string) {
	if om.s.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := om.s.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(om.ctx, metric, value, labels)
		return
	}

	om.s.metricsCollector.RecordValue(metric, value, labels)
}
