package observable

import (
	"github.com/seriussoft/observable/pkg/metrics"
)

// Batcher is the batch control surface.
type Batcher interface {
	IsInBatchMode() bool
	BeginUpdates() error
	EndUpdates() error
}

// BatchState is the suppression policy installed by Batchable. It is Idle
// until BeginUpdates succeeds and Batching until EndUpdates succeeds; no
// other code path changes it.
type BatchState struct {
	inBatchMode  bool
	overrideLock bool

	// suppressed counts the changes dropped in the current window.
	suppressed int

	window *batchWindow
}

// Suppress implements SuppressionPolicy.
func (s *BatchState) Suppress(string) bool {
	if s.inBatchMode && !s.overrideLock {
		s.suppressed++
		return true
	}
	return false
}

// Batchable is an Entity with a batch mode. While batching, property changes
// are dropped unless the override lock is set.
//
// Batchable is reusable: any number of windows may be opened one after the
// other, but never inside each other.
type Batchable struct {
	*Entity
	state BatchState
}

var (
	_ Batcher  = (*Batchable)(nil)
	_ Notifier = (*Batchable)(nil)
)

// NewBatchable creates a Batchable for owner.
func NewBatchable(owner Owner, opts ...Option) *Batchable {
	b := &Batchable{Entity: NewEntity(owner, opts...)}
	b.Entity.SetSuppressionPolicy(&b.state)
	return b
}

// IsInBatchMode reports whether a batch window is open.
func (b *Batchable) IsInBatchMode() bool {
	return b.state.inBatchMode
}

// OverrideLock reports whether notifications bypass batch mode.
func (b *Batchable) OverrideLock() bool {
	return b.state.overrideLock
}

// SetOverrideLock lets notifications through while batching when on is true.
func (b *Batchable) SetOverrideLock(on bool) {
	b.state.overrideLock = on
}

// BeginUpdates opens a batch window. It fails with ErrAlreadyInBatchMode if
// one is already open, leaving the state unchanged.
func (b *Batchable) BeginUpdates() error {
	return b.begin("")
}

// EndUpdates closes the batch window. It fails with ErrNotInBatchMode if none
// is open, leaving the state unchanged. Changes dropped during the window are
// not replayed; call Refresh afterwards if subscribers need the final values.
func (b *Batchable) EndUpdates() error {
	if !b.state.inBatchMode {
		return b.reject("EndUpdates", ErrNotInBatchMode)
	}

	suppressed := b.state.suppressed
	b.state.inBatchMode = false
	b.state.suppressed = 0
	b.endWindow(suppressed)

	b.metrics.ObserveBatchTransition(b.typeName, metrics.TransitionEnd)
	b.logger.Debug("batch mode ended", "suppressed", suppressed)
	return nil
}

// Batch runs fn inside a batch window. The window is closed even if fn
// panics. If fn closes the window itself, the resulting ErrNotInBatchMode
// is returned.
func (b *Batchable) Batch(fn func()) error {
	return b.BatchNamed("", fn)
}

// BatchNamed is Batch with a name attached to the window's trace span.
func (b *Batchable) BatchNamed(name string, fn func()) (err error) {
	if err := b.begin(name); err != nil {
		return err
	}
	defer func() {
		if endErr := b.EndUpdates(); endErr != nil && err == nil {
			err = endErr
		}
	}()

	fn()
	return nil
}

func (b *Batchable) begin(name string) error {
	if b.state.inBatchMode {
		return b.reject("BeginUpdates", ErrAlreadyInBatchMode)
	}

	b.state.inBatchMode = true
	b.state.suppressed = 0
	b.beginWindow(name)

	b.metrics.ObserveBatchTransition(b.typeName, metrics.TransitionBegin)
	b.logger.Debug("batch mode started", "name", name)
	return nil
}

func (b *Batchable) reject(op string, sentinel error) error {
	err := &BatchModeError{Op: op, Type: b.typeName, Err: sentinel}
	b.recordWindowError(err)
	b.metrics.ObserveBatchError(b.typeName, err.kind())
	b.logger.Warn("batch transition rejected", "op", op, "error", err)
	return err
}
