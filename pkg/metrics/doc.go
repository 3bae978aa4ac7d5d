// Package metrics provides Prometheus collectors for observable entities and
// disposable resources.
//
// Collectors are created once per Metrics value and registered with the
// configured registry:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace("myapp"))
//
//	vm := observable.NewBatchable(person, observable.WithMetrics(m))
//
// Metrics collected:
//   - observable_announcements_total: property changes dispatched, by type
//   - observable_suppressed_total: property changes dropped by batch mode, by type
//   - observable_batch_transitions_total: successful begin/end transitions, by type
//   - observable_batch_errors_total: rejected begin/end calls, by type and kind
//   - observable_subscriber_panics_total: recovered subscriber panics, by type
//   - observable_disposals_total: completed disposals, by type and path
//
// Every method on *Metrics is safe to call on a nil receiver, so callers
// never need to guard against an unconfigured collector set.
package metrics
