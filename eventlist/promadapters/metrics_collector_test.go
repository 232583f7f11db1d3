package promadapters_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/group-event-planner-go/eventlist"
	"github.com/AntonStoeckl/group-event-planner-go/eventlist/promadapters"
	. "github.com/AntonStoeckl/group-event-planner-go/testutil/observability/testdoubles" //nolint:revive
)

func Test_NewMetricsCollector_RejectsNilRegisterer(t *testing.T) {
	// act
	_, err := promadapters.NewMetricsCollector(nil)

	// assert
	assert.ErrorIs(t, err, promadapters.ErrNilRegisterer)
}

func Test_MetricsCollector_IncrementCounter_CountsPerLabelSet(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	collector := givenCollector(t, registry)
	noop := map[string]string{"operation": "commit_draft", "status": "noop"}
	success := map[string]string{"operation": "commit_draft", "status": "success"}

	// act
	collector.IncrementCounter("eventlist_operations_total", noop)
	collector.IncrementCounter("eventlist_operations_total", noop)
	collector.IncrementCounter("eventlist_operations_total", success)

	// assert
	family := findFamily(t, registry, "eventlist_operations_total")
	assert.Equal(t, dto.MetricType_COUNTER, family.GetType())
	assert.Equal(t, "Number of event list store operations by operation and outcome.", family.GetHelp())
	assert.Equal(t, float64(2), counterValue(t, family, noop))
	assert.Equal(t, float64(1), counterValue(t, family, success))
}

func Test_MetricsCollector_RecordDuration_ObservesSeconds(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	collector := givenCollector(t, registry)
	labels := map[string]string{"operation": "record_rsvp", "status": "success"}

	// act
	collector.RecordDuration("eventlist_operation_duration_seconds", 1500*time.Millisecond, labels)

	// assert
	family := findFamily(t, registry, "eventlist_operation_duration_seconds")
	require.Len(t, family.GetMetric(), 1)
	histogram := family.GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(1), histogram.GetSampleCount())
	assert.InDelta(t, 1.5, histogram.GetSampleSum(), 1e-9)
}

func Test_MetricsCollector_RecordValue_SetsGaugeWithoutLabels(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	collector := givenCollector(t, registry)

	// act
	collector.RecordValue("eventlist_events", 3, nil)
	collector.RecordValue("eventlist_events", 2, nil)

	// assert
	family := findFamily(t, registry, "eventlist_events")
	require.Len(t, family.GetMetric(), 1)
	assert.Equal(t, float64(2), family.GetMetric()[0].GetGauge().GetValue())
}

func Test_MetricsCollector_WithMismatchingLabels_WarnsAndDropsTheSample(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	logHandler := NewLogHandlerSpy(false)
	collector := givenCollector(t, registry, promadapters.WithLogger(slog.New(logHandler)))
	collector.IncrementCounter("custom_total", map[string]string{"a": "1"})

	// act
	collector.IncrementCounter("custom_total", map[string]string{"b": "1"})

	// assert
	count, err := testutil.GatherAndCount(registry, "custom_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, logHandler.GetRecordCount())
}

func Test_MetricsCollector_TwoCollectorsShareOneRegistry(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	first := givenCollector(t, registry)
	second := givenCollector(t, registry)
	labels := map[string]string{"operation": "record_rsvp", "status": "success"}

	// act
	first.IncrementCounter("eventlist_operations_total", labels)
	second.IncrementCounter("eventlist_operations_total", labels)

	// assert
	family := findFamily(t, registry, "eventlist_operations_total")
	assert.Equal(t, float64(2), counterValue(t, family, labels))
}

func Test_MetricsCollector_ExportsStoreMetrics(t *testing.T) {
	// arrange
	ctx := context.Background()
	registry := prometheus.NewRegistry()
	store, err := eventlist.NewStore(eventlist.WithMetrics(givenCollector(t, registry)))
	require.NoError(t, err)

	// act
	store.UpdateDraftField(ctx, eventlist.FieldTitle, "Picnic")
	store.UpdateDraftField(ctx, eventlist.FieldDate, "2025-06-01")
	store.UpdateDraftField(ctx, eventlist.FieldTime, "12:00")
	store.UpdateDraftField(ctx, eventlist.FieldLocation, "Park")
	event, _ := store.CommitDraft(ctx)
	store.RecordRSVP(ctx, event.ID)
	store.RecordRSVP(ctx, "missing")

	// assert
	events := findFamily(t, registry, "eventlist_events")
	assert.Equal(t, float64(1), events.GetMetric()[0].GetGauge().GetValue())

	rsvps := findFamily(t, registry, "eventlist_rsvps_total")
	assert.Equal(t, float64(1), rsvps.GetMetric()[0].GetCounter().GetValue())

	operations := findFamily(t, registry, "eventlist_operations_total")
	assert.Equal(t, float64(4), counterValue(t, operations, map[string]string{"operation": "update_draft_field", "status": "success"}))
	assert.Equal(t, float64(1), counterValue(t, operations, map[string]string{"operation": "record_rsvp", "status": "noop"}))
}

func givenCollector(t *testing.T, registry *prometheus.Registry, options ...promadapters.Option) *promadapters.MetricsCollector {
	t.Helper()

	collector, err := promadapters.NewMetricsCollector(registry, options...)
	require.NoError(t, err)

	return collector
}

func findFamily(t *testing.T, registry *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()

	families, err := registry.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() == name {
			return family
		}
	}

	require.Failf(t, "metric family not found", "name: %s", name)

	return nil
}

func counterValue(t *testing.T, family *dto.MetricFamily, labels map[string]string) float64 {
	t.Helper()

	for _, metric := range family.GetMetric() {
		if hasLabels(metric, labels) {
			return metric.GetCounter().GetValue()
		}
	}

	require.Failf(t, "series not found", "labels: %v", labels)

	return 0
}

func hasLabels(metric *dto.Metric, labels map[string]string) bool {
	if len(metric.GetLabel()) != len(labels) {
		return false
	}

	for _, pair := range metric.GetLabel() {
		if labels[pair.GetName()] != pair.GetValue() {
			return false
		}
	}

	return true
}
