package observable

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/seriussoft/observable/pkg/metrics"
)

// Config configures an Entity.
type Config struct {
	// Logger receives debug output for announcements and batch transitions.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Metrics records announcements, suppressions and batch transitions.
	// If nil, nothing is recorded.
	Metrics *metrics.Metrics

	// Tracer opens a span for every batch window.
	// If nil, the tracer named TracerName from the global provider is used.
	Tracer trace.Tracer

	// TracerName is the name used to resolve Tracer (default: "observable").
	TracerName string

	// Recover isolates subscribers from each other. When true, a panicking
	// subscriber no longer aborts the announcement; the panics of one pass
	// are aggregated and handed to PanicHandler.
	Recover bool

	// PanicHandler receives the aggregated subscriber panics when Recover is
	// set. If nil, the panics are only logged.
	PanicHandler func(err error)
}

// Option configures an Entity.
type Option func(*Config)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMetrics sets the Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}

// WithTracer sets the tracer used for batch windows.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Config) {
		c.Tracer = tracer
	}
}

// WithTracerName sets the name used to resolve the tracer from the global
// OpenTelemetry provider.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithRecover isolates subscribers: each panic is recovered, and the panics
// of one announcement are passed to handler as a single aggregated error.
// handler may be nil.
func WithRecover(handler func(err error)) Option {
	return func(c *Config) {
		c.Recover = true
		c.PanicHandler = handler
	}
}

const defaultTracerName = "observable"

func defaultConfig() Config {
	return Config{
		TracerName: defaultTracerName,
	}
}
