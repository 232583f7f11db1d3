// Package testdoubles provides spies for the observability interfaces of the eventlist.Store.
//
//   - LogHandlerSpy: a slog.Handler that captures records, for the plain Logger option
//   - ContextualLoggerSpy: captures context-aware log calls
//   - MetricsCollectorSpy: captures durations, counters and values (also implements the contextual variant)
//   - TracingCollectorSpy: captures spans with their start and finish attributes
//
// They let tests assert on instrumentation without a telemetry backend.
package testdoubles
