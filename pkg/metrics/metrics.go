package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Option adjusts how New names and registers its collectors.
type Option func(*settings)

type settings struct {
	namespace string
	labels    prometheus.Labels
	reg       prometheus.Registerer
}

// WithNamespace replaces the "observable" metric name prefix.
func WithNamespace(namespace string) Option {
	return func(s *settings) { s.namespace = namespace }
}

// WithConstLabels attaches labels to every collector, e.g. a service name.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(s *settings) { s.labels = labels }
}

// WithRegistry registers against reg instead of the global registerer.
// Tests should always pass a fresh prometheus.NewRegistry().
func WithRegistry(reg prometheus.Registerer) Option {
	return func(s *settings) { s.reg = reg }
}

// Disposal paths recorded by ObserveDisposal.
const (
	PathExplicit  = "explicit"
	PathFinalizer = "finalizer"
)

// Batch transitions recorded by ObserveBatchTransition.
const (
	TransitionBegin = "begin"
	TransitionEnd   = "end"
)

// Metrics holds the collectors shared by every entity and resource that was
// configured with it.
type Metrics struct {
	announcements    *prometheus.CounterVec
	suppressed       *prometheus.CounterVec
	batchTransitions *prometheus.CounterVec
	batchErrors      *prometheus.CounterVec
	subscriberPanics *prometheus.CounterVec
	disposals        *prometheus.CounterVec
}

// New creates and registers the collectors. Registering twice against the
// same registry panics, as with any promauto collector; share one *Metrics
// per registry.
func New(opts ...Option) *Metrics {
	set := settings{namespace: "observable", reg: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(&set)
	}

	factory := promauto.With(set.reg)
	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   set.namespace,
			Name:        name,
			Help:        help,
			ConstLabels: set.labels,
		}, labels)
	}

	return &Metrics{
		announcements: counter("announcements_total",
			"Property change notifications dispatched.", "type"),
		suppressed: counter("suppressed_total",
			"Property change notifications dropped in batch mode.", "type"),
		batchTransitions: counter("batch_transitions_total",
			"Successful batch mode transitions.", "type", "transition"),
		batchErrors: counter("batch_errors_total",
			"Rejected batch mode transitions.", "type", "kind"),
		subscriberPanics: counter("subscriber_panics_total",
			"Recovered subscriber panics.", "type"),
		disposals: counter("disposals_total",
			"Completed disposals.", "type", "path"),
	}
}

// ObserveAnnouncement records one dispatched notification.
func (m *Metrics) ObserveAnnouncement(typeName string) {
	if m == nil {
		return
	}
	m.announcements.WithLabelValues(typeName).Inc()
}

// ObserveSuppressed records one notification dropped by batch mode.
func (m *Metrics) ObserveSuppressed(typeName string) {
	if m == nil {
		return
	}
	m.suppressed.WithLabelValues(typeName).Inc()
}

// ObserveBatchTransition records a successful begin or end.
func (m *Metrics) ObserveBatchTransition(typeName, transition string) {
	if m == nil {
		return
	}
	m.batchTransitions.WithLabelValues(typeName, transition).Inc()
}

// ObserveBatchError records a rejected begin or end. kind is a short,
// low-cardinality error name such as "already_in_batch_mode".
func (m *Metrics) ObserveBatchError(typeName, kind string) {
	if m == nil {
		return
	}
	m.batchErrors.WithLabelValues(typeName, kind).Inc()
}

// ObserveSubscriberPanic records a recovered subscriber panic.
func (m *Metrics) ObserveSubscriberPanic(typeName string) {
	if m == nil {
		return
	}
	m.subscriberPanics.WithLabelValues(typeName).Inc()
}

// ObserveDisposal records a completed disposal. path is PathExplicit or
// PathFinalizer.
func (m *Metrics) ObserveDisposal(typeName, path string) {
	if m == nil {
		return
	}
	m.disposals.WithLabelValues(typeName, path).Inc()
}

// Collectors returns the underlying collectors for custom registrations.
func (m *Metrics) Collectors() []prometheus.Collector {
	if m == nil {
		return nil
	}
	return []prometheus.Collector{
		m.announcements,
		m.suppressed,
		m.batchTransitions,
		m.batchErrors,
		m.subscriberPanics,
		m.disposals,
	}
}
