package promadapters

import (
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AntonStoeckl/group-event-planner-go/eventlist"
)

// ErrNilRegisterer is returned when no prometheus.Registerer was supplied.
var ErrNilRegisterer = errors.New("prometheus registerer must not be nil")

const (
	logMsgRegisterFailed = "prometheus metric registration failed"
	logMsgLabelMismatch  = "prometheus metric labels do not match the first recording"
	logAttrMetric        = "metric"
	logAttrError         = "error"
)

// DefaultDurationBuckets covers in-memory operations from 10µs to about 2.6s.
var DefaultDurationBuckets = prometheus.ExponentialBuckets(0.00001, 4, 10)

var helpTexts = map[string]string{
	"eventlist_operation_duration_seconds": "Duration of event list store operations in seconds.",
	"eventlist_operations_total":           "Number of event list store operations by operation and outcome.",
	"eventlist_events":                     "Number of committed events in the store.",
	"eventlist_rsvps_total":                "Number of RSVPs recorded.",
}

// MetricsCollector implements eventlist.MetricsCollector on top of a prometheus.Registerer.
// Durations are observed in seconds.
type MetricsCollector struct {
	registerer prometheus.Registerer
	buckets    []float64
	logger     eventlist.Logger

	mu         sync.Mutex
	histograms map[string]*prometheus.HistogramVec
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
}

// Option configures a MetricsCollector.
type Option func(*MetricsCollector)

// WithBuckets replaces DefaultDurationBuckets.
func WithBuckets(buckets []float64) Option {
	return func(c *MetricsCollector) {
		c.buckets = buckets
	}
}

// WithLogger sets a logger for registration and label problems, which are otherwise dropped silently.
func WithLogger(logger eventlist.Logger) Option {
	return func(c *MetricsCollector) {
		c.logger = logger
	}
}

// NewMetricsCollector creates a MetricsCollector that registers its vectors on registerer.
func NewMetricsCollector(registerer prometheus.Registerer, options ...Option) (*MetricsCollector, error) {
	if registerer == nil {
		return nil, ErrNilRegisterer
	}

	c := &MetricsCollector{
		registerer: registerer,
		buckets:    DefaultDurationBuckets,
		histograms: make(map[string]*prometheus.HistogramVec),
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

// RecordDuration observes duration in the histogram named metric.
func (c *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	c.mu.Lock()
	vec, ok := c.histograms[metric]
	if !ok {
		vec = register(c, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: metric, Help: help(metric), Buckets: c.buckets},
			labelNames(labels),
		))
		c.histograms[metric] = vec
	}
	c.mu.Unlock()

	observer, err := vec.GetMetricWith(labels)
	if err != nil {
		c.logLabelMismatch(metric, err)
		return
	}

	observer.Observe(duration.Seconds())
}

// IncrementCounter adds one to the counter named metric.
func (c *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	c.mu.Lock()
	vec, ok := c.counters[metric]
	if !ok {
		vec = register(c, prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: metric, Help: help(metric)},
			labelNames(labels),
		))
		c.counters[metric] = vec
	}
	c.mu.Unlock()

	counter, err := vec.GetMetricWith(labels)
	if err != nil {
		c.logLabelMismatch(metric, err)
		return
	}

	counter.Inc()
}

// RecordValue sets the gauge named metric to value.
func (c *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	c.mu.Lock()
	vec, ok := c.gauges[metric]
	if !ok {
		vec = register(c, prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: metric, Help: help(metric)},
			labelNames(labels),
		))
		c.gauges[metric] = vec
	}
	c.mu.Unlock()

	gauge, err := vec.GetMetricWith(labels)
	if err != nil {
		c.logLabelMismatch(metric, err)
		return
	}

	gauge.Set(value)
}

// register registers collector, or returns the collector already registered under the same
// descriptor, so that two MetricsCollectors can share one registry.
func register[T prometheus.Collector](c *MetricsCollector, collector T) T {
	err := c.registerer.Register(collector)
	if err == nil {
		return collector
	}

	var alreadyRegistered prometheus.AlreadyRegisteredError
	if errors.As(err, &alreadyRegistered) {
		if existing, ok := alreadyRegistered.ExistingCollector.(T); ok {
			return existing
		}
	}

	if c.logger != nil {
		c.logger.Error(logMsgRegisterFailed, logAttrError, err.Error())
	}

	return collector
}

func (c *MetricsCollector) logLabelMismatch(metric string, err error) {
	if c.logger != nil {
		c.logger.Warn(logMsgLabelMismatch, logAttrMetric, metric, logAttrError, err.Error())
	}
}

func labelNames(labels map[string]string) []string {
	return slices.Sorted(maps.Keys(labels))
}

func help(metric string) string {
	if text, ok := helpTexts[metric]; ok {
		return text
	}

	return metric
}

var _ eventlist.MetricsCollector = (*MetricsCollector)(nil)
