package oteladapters_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/group-event-planner-go/eventlist"
	"github.com/AntonStoeckl/group-event-planner-go/eventlist/oteladapters"
)

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	// arrange
	reader, collector := givenMetricsCollector(t)
	labels := map[string]string{"operation": "commit_draft", "status": "success"}

	// act
	collector.RecordDuration("eventlist_operation_duration_seconds", 150*time.Millisecond, labels)

	// assert
	histogram, ok := findMetric(t, reader, "eventlist_operation_duration_seconds").Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(1), histogram.DataPoints[0].Count)
	assert.InDelta(t, 0.15, histogram.DataPoints[0].Sum, 0.001)

	expectedAttrs := attribute.NewSet(
		attribute.String("operation", "commit_draft"),
		attribute.String("status", "success"),
	)
	assert.True(t, histogram.DataPoints[0].Attributes.Equals(&expectedAttrs))
}

func Test_MetricsCollector_IncrementCounter_DropsTotalSuffix(t *testing.T) {
	// arrange
	reader, collector := givenMetricsCollector(t)
	labels := map[string]string{"operation": "record_rsvp", "status": "noop"}

	// act
	collector.IncrementCounter("eventlist_operations_total", labels)
	collector.IncrementCounterContext(context.Background(), "eventlist_operations_total", labels)

	// assert
	sum, ok := findMetric(t, reader, "eventlist_operations").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
	assert.True(t, sum.IsMonotonic)
}

func Test_MetricsCollector_RecordValue(t *testing.T) {
	// arrange
	reader, collector := givenMetricsCollector(t)

	// act
	collector.RecordValue("eventlist_events", 4, nil)
	collector.RecordValueContext(context.Background(), "eventlist_events", 5, nil)

	// assert
	gauge, ok := findMetric(t, reader, "eventlist_events").Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 5.0, gauge.DataPoints[0].Value, 1e-9)
}

func Test_MetricsCollector_ReceivesStoreMetrics(t *testing.T) {
	// arrange
	ctx := context.Background()
	reader, collector := givenMetricsCollector(t)
	store, err := eventlist.NewStore(eventlist.WithMetrics(collector))
	require.NoError(t, err)

	// act
	store.UpdateDraftField(ctx, eventlist.FieldTitle, "Picnic")
	store.UpdateDraftField(ctx, eventlist.FieldDate, "2025-06-01")
	store.UpdateDraftField(ctx, eventlist.FieldTime, "12:00")
	store.UpdateDraftField(ctx, eventlist.FieldLocation, "Park")
	event, _ := store.CommitDraft(ctx)
	store.RecordRSVP(ctx, event.ID)

	// assert
	rsvps, ok := findMetric(t, reader, "eventlist_rsvps").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, rsvps.DataPoints, 1)
	assert.Equal(t, int64(1), rsvps.DataPoints[0].Value)

	events, ok := findMetric(t, reader, "eventlist_events").Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	assert.InDelta(t, 1.0, events.DataPoints[0].Value, 1e-9)
}

func givenMetricsCollector(t *testing.T) (*sdkmetric.ManualReader, *oteladapters.MetricsCollector) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return reader, oteladapters.NewMetricsCollector(provider.Meter("test"))
}

func findMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Metrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				return m
			}
		}
	}

	require.Failf(t, "metric not found", "name: %s", name)

	return metricdata.Metrics{}
}
