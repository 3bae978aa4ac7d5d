package disposal

import (
	"fmt"
	"log/slog"

	"github.com/seriussoft/observable/pkg/metrics"
)

// ManagedDisposer is implemented by owners that hold managed objects. The
// hook runs only on explicit disposal.
type ManagedDisposer interface {
	DisposeManagedObjects()
}

// UnmanagedDisposer is implemented by owners that hold unmanaged objects.
// The hook runs on explicit disposal and on finalization.
type UnmanagedDisposer interface {
	DisposeUnmanagedObjects()
}

// Disposer is anything that can be torn down.
type Disposer interface {
	Dispose()
}

// Config configures a Resource.
type Config struct {
	// Logger receives debug output for disposal phases.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Metrics records completed disposals.
	Metrics *metrics.Metrics

	// UsesFinalizer reports that the owner registered an out-of-band
	// cleanup that SuppressFinalizer cancels.
	UsesFinalizer bool

	// SuppressFinalizer cancels the out-of-band cleanup.
	SuppressFinalizer func()
}

// Option configures a Resource.
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

// WithFinalizer marks the resource as using a finalizer for unmanaged
// objects. suppress is called once, after the first explicit Dispose.
func WithFinalizer(suppress func()) Option {
	return func(c *Config) {
		c.UsesFinalizer = true
		c.SuppressFinalizer = suppress
	}
}

// Resource guards the teardown of its owner. It is Active until the first
// disposal and Disposed forever after.
type Resource struct {
	owner    any
	typeName string

	disposed  bool
	disposing bool

	usesFinalizer     bool
	suppressFinalizer func()

	logger  *slog.Logger
	metrics *metrics.Metrics
}

var _ Disposer = (*Resource)(nil)

// New creates an active Resource for owner. owner may implement
// ManagedDisposer and UnmanagedDisposer; missing hooks do nothing.
func New(owner any, opts ...Option) *Resource {
	var config Config
	for _, opt := range opts {
		opt(&config)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Resource{
		owner:             owner,
		typeName:          fmt.Sprintf("%T", owner),
		usesFinalizer:     config.UsesFinalizer,
		suppressFinalizer: config.SuppressFinalizer,
		metrics:           config.Metrics,
	}
	r.logger = logger.With("type", r.typeName)
	return r
}

// IsDisposed reports whether the resource has been disposed.
func (r *Resource) IsDisposed() bool {
	return r.disposed
}

// UsesFinalizer reports whether the resource was created WithFinalizer.
func (r *Resource) UsesFinalizer() bool {
	return r.usesFinalizer
}

// Dispose releases managed then unmanaged objects. Calls after the first
// are no-ops.
func (r *Resource) Dispose() {
	if r.disposed || r.disposing {
		return
	}

	r.DisposeInternal(true)

	if r.usesFinalizer && r.suppressFinalizer != nil {
		r.suppressFinalizer()
		r.logger.Debug("finalizer suppressed")
	}
}

// Close implements io.Closer. It always returns nil.
func (r *Resource) Close() error {
	r.Dispose()
	return nil
}

// DisposeInternal runs the disposal phases once. fromExplicitCall is false
// on finalization paths, where managed objects may already be gone, so only
// unmanaged objects are released.
func (r *Resource) DisposeInternal(fromExplicitCall bool) {
	if r.disposed || r.disposing {
		return
	}
	r.disposing = true
	// A panicking hook leaves the resource active so a later call retries.
	defer func() { r.disposing = false }()

	if fromExplicitCall {
		if d, ok := r.owner.(ManagedDisposer); ok {
			d.DisposeManagedObjects()
			r.logger.Debug("managed objects disposed")
		}
	}

	if d, ok := r.owner.(UnmanagedDisposer); ok {
		d.DisposeUnmanagedObjects()
		r.logger.Debug("unmanaged objects disposed")
	}

	r.disposed = true

	path := metrics.PathExplicit
	if !fromExplicitCall {
		path = metrics.PathFinalizer
	}
	r.metrics.ObserveDisposal(r.typeName, path)
}
