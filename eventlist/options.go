package eventlist

// Option defines a functional option for configuring a Store.
type Option func(*Store) error

// WithIDGenerator replaces the default UUIDGenerator.
func WithIDGenerator(generator IDGenerator) Option {
	return func(s *Store) error {
		if generator == nil {
			return ErrNilIDGenerator
		}

		s.idGenerator = generator

		return nil
	}
}

// WithLogger sets the logger for the Store.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: draft edits and no-op outcomes with their reason
// Info level: committed events and recorded RSVPs
// Error level: ID generator faults that turned a commit into a no-op.
func WithLogger(logger Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Store.
// It receives the same messages as the Logger, together with the operation's context.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(s *Store) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Store.
// It receives operation durations, operation counts by outcome and the current number of Events.
func WithMetrics(collector MetricsCollector) Option {
	return func(s *Store) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Store.
// One span is started per operation.
func WithTracing(collector TracingCollector) Option {
	return func(s *Store) error {
		s.tracingCollector = collector
		return nil
	}
}

// WithObserver subscribes an observer from construction on. It cannot be unsubscribed.
func WithObserver(observer Observer) Option {
	return func(s *Store) error {
		if observer == nil {
			return ErrNilObserver
		}

		s.subscribe(observer)

		return nil
	}
}
