// Package promadapters provides a Prometheus implementation of eventlist.MetricsCollector.
//
// Metric vectors are created and registered lazily on first use. The label names of a metric are
// taken from the first call that records it, later calls must use the same label keys.
//
//	registry := prometheus.NewRegistry()
//	collector := promadapters.NewMetricsCollector(registry)
//	store, err := eventlist.NewStore(eventlist.WithMetrics(collector))
package promadapters
