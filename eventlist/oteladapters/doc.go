// Package oteladapters provides OpenTelemetry adapters for the eventlist observability interfaces.
//
// It lives in its own module so that the eventlist package stays free of OpenTelemetry dependencies.
//
//	store, err := eventlist.NewStore(
//		eventlist.WithTracing(oteladapters.NewTracingCollector(otel.Tracer("planner"))),
//		eventlist.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter("planner"))),
//		eventlist.WithContextualLogger(oteladapters.NewSlogBridgeLogger("planner")),
//	)
package oteladapters
