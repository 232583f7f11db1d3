package testdoubles

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/AntonStoeckl/group-event-planner-go/eventlist"
)

// MetricsCollectorSpy is a ContextualMetricsCollector implementation that captures metrics calls for testing.
type MetricsCollectorSpy struct {
	durationRecords []SpyDurationRecord
	counterRecords  []SpyCounterRecord
	valueRecords    []SpyValueRecord
	mu              sync.Mutex
	recordCalls     bool
}

// SpyDurationRecord represents a recorded duration metric call.
type SpyDurationRecord struct {
	Metric   string
	Duration time.Duration
	Labels   map[string]string
	Context  context.Context
}

// SpyCounterRecord represents a recorded counter increment call.
type SpyCounterRecord struct {
	Metric  string
	Labels  map[string]string
	Context context.Context
}

// SpyValueRecord represents a recorded value metric call.
type SpyValueRecord struct {
	Metric  string
	Value   float64
	Labels  map[string]string
	Context context.Context
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy.
// Set recordCalls to true to capture all metrics calls for inspection in tests.
func NewMetricsCollectorSpy(recordCalls bool) *MetricsCollectorSpy {
	return &MetricsCollectorSpy{
		durationRecords: make([]SpyDurationRecord, 0),
		counterRecords:  make([]SpyCounterRecord, 0),
		valueRecords:    make([]SpyValueRecord, 0),
		recordCalls:     recordCalls,
	}
}

// RecordDuration implements the MetricsCollector interface.
func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.RecordDurationContext(context.Background(), metric, duration, labels)
}

// IncrementCounter implements the MetricsCollector interface.
func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.IncrementCounterContext(context.Background(), metric, labels)
}

// RecordValue implements the MetricsCollector interface.
func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.RecordValueContext(context.Background(), metric, value, labels)
}

// RecordDurationContext implements the ContextualMetricsCollector interface.
func (s *MetricsCollectorSpy) RecordDurationContext(
	ctx context.Context,
	metric string,
	duration time.Duration,
	labels map[string]string,
) {

	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.durationRecords = append(s.durationRecords, SpyDurationRecord{
		Metric:   metric,
		Duration: duration,
		Labels:   copyLabels(labels),
		Context:  ctx,
	})
}

// IncrementCounterContext implements the ContextualMetricsCollector interface.
func (s *MetricsCollectorSpy) IncrementCounterContext(ctx context.Context, metric string, labels map[string]string) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.counterRecords = append(s.counterRecords, SpyCounterRecord{
		Metric:  metric,
		Labels:  copyLabels(labels),
		Context: ctx,
	})
}

// RecordValueContext implements the ContextualMetricsCollector interface.
func (s *MetricsCollectorSpy) RecordValueContext(
	ctx context.Context,
	metric string,
	value float64,
	labels map[string]string,
) {

	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.valueRecords = append(s.valueRecords, SpyValueRecord{
		Metric:  metric,
		Value:   value,
		Labels:  copyLabels(labels),
		Context: ctx,
	})
}

// copyLabels avoids external modifications of recorded labels.
func copyLabels(labels map[string]string) map[string]string {
	labelsCopy := make(map[string]string, len(labels))
	maps.Copy(labelsCopy, labels)

	return labelsCopy
}

// GetDurationRecords returns a copy of all captured duration records.
func (s *MetricsCollectorSpy) GetDurationRecords() []SpyDurationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]SpyDurationRecord, len(s.durationRecords))
	copy(records, s.durationRecords)

	return records
}

// GetCounterRecords returns a copy of all captured counter records.
func (s *MetricsCollectorSpy) GetCounterRecords() []SpyCounterRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]SpyCounterRecord, len(s.counterRecords))
	copy(records, s.counterRecords)

	return records
}

// GetValueRecords returns a copy of all captured value records.
func (s *MetricsCollectorSpy) GetValueRecords() []SpyValueRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]SpyValueRecord, len(s.valueRecords))
	copy(records, s.valueRecords)

	return records
}

// Reset clears all captured metric records.
func (s *MetricsCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durationRecords = s.durationRecords[:0]
	s.counterRecords = s.counterRecords[:0]
	s.valueRecords = s.valueRecords[:0]
}

// MetricRecordMatcher provides a fluent interface for checking metric records.
type MetricRecordMatcher struct {
	candidates []map[string]string
}

// HasDurationRecordForMetric starts a fluent chain over all duration records of metric.
func (s *MetricsCollectorSpy) HasDurationRecordForMetric(metric string) *MetricRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	matcher := &MetricRecordMatcher{}
	for _, record := range s.durationRecords {
		if record.Metric == metric {
			matcher.candidates = append(matcher.candidates, record.Labels)
		}
	}

	return matcher
}

// HasCounterRecordForMetric starts a fluent chain over all counter records of metric.
func (s *MetricsCollectorSpy) HasCounterRecordForMetric(metric string) *MetricRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	matcher := &MetricRecordMatcher{}
	for _, record := range s.counterRecords {
		if record.Metric == metric {
			matcher.candidates = append(matcher.candidates, record.Labels)
		}
	}

	return matcher
}

// WithOperation keeps the records that have the specified operation label.
func (m *MetricRecordMatcher) WithOperation(operation string) *MetricRecordMatcher {
	return m.WithLabel("operation", operation)
}

// WithStatus keeps the records that have the specified status label.
func (m *MetricRecordMatcher) WithStatus(status string) *MetricRecordMatcher {
	return m.WithLabel("status", status)
}

// WithLabel keeps the records that have the specified label with the given value.
func (m *MetricRecordMatcher) WithLabel(key, value string) *MetricRecordMatcher {
	var kept []map[string]string
	for _, labels := range m.candidates {
		if labelValue, exists := labels[key]; exists && labelValue == value {
			kept = append(kept, labels)
		}
	}

	m.candidates = kept

	return m
}

// Assert returns true if at least one record met all conditions in the fluent chain.
func (m *MetricRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}

// Count returns how many records met all conditions in the fluent chain.
func (m *MetricRecordMatcher) Count() int {
	return len(m.candidates)
}

// LastValueForMetric returns the most recently recorded value of metric.
func (s *MetricsCollectorSpy) LastValueForMetric(metric string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.valueRecords) - 1; i >= 0; i-- {
		if s.valueRecords[i].Metric == metric {
			return s.valueRecords[i].Value, true
		}
	}

	return 0, false
}

// CountCounterRecordsForMetric counts how many counter records exist for a specific metric.
func (s *MetricsCollectorSpy) CountCounterRecordsForMetric(metric string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.counterRecords {
		if record.Metric == metric {
			count++
		}
	}

	return count
}

var _ eventlist.ContextualMetricsCollector = (*MetricsCollectorSpy)(nil)
