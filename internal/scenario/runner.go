package scenario

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"github.com/seriussoft/observable/pkg/disposal"
	"github.com/seriussoft/observable/pkg/metrics"
	"github.com/seriussoft/observable/pkg/observable"
)

const (
	errAlreadyInBatchMode = "already_in_batch_mode"
	errNotInBatchMode     = "not_in_batch_mode"
)

// Notification is one recorded announcement.
type Notification struct {
	Step     int
	Property string
}

// Result is the outcome of a run.
type Result struct {
	Notifications      []Notification
	ManagedDisposals   int
	UnmanagedDisposals int
	Backed             bool
	New                bool
	Disposed           bool
}

// Properties returns the announced property names in order.
func (r *Result) Properties() []string {
	names := make([]string, len(r.Notifications))
	for i, n := range r.Notifications {
		names[i] = n.Property
	}
	return names
}

// Runner replays scenarios.
type Runner struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger passed to every view model.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMetrics sets the collectors passed to every view model.
func WithMetrics(m *metrics.Metrics) RunnerOption {
	return func(r *Runner) {
		r.metrics = m
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run replays s against a fresh Person. A rejected batch transition stops
// the run; the partial result is returned together with the error.
func (r *Runner) Run(s *Scenario) (*Result, error) {
	p := NewPerson(
		[]observable.Option{
			observable.WithLogger(r.logger),
			observable.WithMetrics(r.metrics),
		},
		[]disposal.Option{
			disposal.WithLogger(r.logger),
			disposal.WithMetrics(r.metrics),
		},
	)

	res := &Result{}
	current := 0
	p.Subscribe(func(_ any, property string) {
		res.Notifications = append(res.Notifications, Notification{Step: current, Property: property})
	})

	var runErr error
	for i, step := range s.Steps {
		current = i + 1
		times := step.Times
		if times == 0 {
			times = 1
		}
		for n := 0; n < times; n++ {
			if err := apply(p, step); err != nil {
				runErr = fmt.Errorf("step %d (%s): %w", current, step.Op, err)
				break
			}
		}
		if runErr != nil {
			break
		}
	}

	res.ManagedDisposals = p.managedRuns
	res.UnmanagedDisposals = p.unmanagedRuns
	res.Backed = p.IsBacked()
	res.New = p.IsNew()
	res.Disposed = p.IsDisposed()
	return res, runErr
}

func apply(p *Person, step Step) error {
	switch step.Op {
	case OpSetName:
		p.SetName(step.Name)
	case OpSetID:
		p.SetID(step.ID)
	case OpAttach:
		p.SetBackingSource(&PersonModel{Name: step.Name, ID: step.ID})
	case OpDetach:
		p.SetBackingSource(nil)
	case OpBegin:
		return p.BeginUpdates()
	case OpEnd:
		return p.EndUpdates()
	case OpOverride:
		p.SetOverrideLock(step.On)
	case OpRefresh:
		p.Refresh()
	case OpPersist:
		p.MarkPersisted()
	case OpDispose:
		p.Dispose()
	case OpFinalize:
		p.DisposeInternal(false)
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}

// Check compares a run against s.Expect and reports every mismatch.
// Without an expectation, Check returns runErr unchanged.
func (s *Scenario) Check(res *Result, runErr error) error {
	exp := s.Expect
	if exp == nil {
		return runErr
	}

	var result *multierror.Error

	switch exp.Error {
	case "":
		if runErr != nil {
			result = multierror.Append(result, fmt.Errorf("unexpected error: %w", runErr))
		}
	case errAlreadyInBatchMode:
		if !errors.Is(runErr, observable.ErrAlreadyInBatchMode) {
			result = multierror.Append(result, fmt.Errorf("expected %s, got %v", exp.Error, runErr))
		}
	case errNotInBatchMode:
		if !errors.Is(runErr, observable.ErrNotInBatchMode) {
			result = multierror.Append(result, fmt.Errorf("expected %s, got %v", exp.Error, runErr))
		}
	}

	if exp.Notifications != nil {
		got := res.Properties()
		if !equalStrings(got, exp.Notifications) {
			result = multierror.Append(result, fmt.Errorf("notifications = %v, want %v", got, exp.Notifications))
		}
	}
	if exp.ManagedDisposals != nil && *exp.ManagedDisposals != res.ManagedDisposals {
		result = multierror.Append(result, fmt.Errorf("managed disposals = %d, want %d", res.ManagedDisposals, *exp.ManagedDisposals))
	}
	if exp.UnmanagedDisposals != nil && *exp.UnmanagedDisposals != res.UnmanagedDisposals {
		result = multierror.Append(result, fmt.Errorf("unmanaged disposals = %d, want %d", res.UnmanagedDisposals, *exp.UnmanagedDisposals))
	}
	if exp.Backed != nil && *exp.Backed != res.Backed {
		result = multierror.Append(result, fmt.Errorf("backed = %t, want %t", res.Backed, *exp.Backed))
	}
	if exp.New != nil && *exp.New != res.New {
		result = multierror.Append(result, fmt.Errorf("new = %t, want %t", res.New, *exp.New))
	}

	return result.ErrorOrNil()
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
