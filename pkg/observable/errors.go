package observable

import (
	"errors"
	"fmt"
)

// ErrAlreadyInBatchMode is returned by BeginUpdates when the entity is
// already batching. Batch windows do not nest.
var ErrAlreadyInBatchMode = errors.New("observable: already in batch mode")

// ErrNotInBatchMode is returned by EndUpdates when no batch window is open.
var ErrNotInBatchMode = errors.New("observable: not in batch mode")

// BatchModeError reports a rejected batch transition together with the
// concrete type that rejected it.
type BatchModeError struct {
	Op   string // "BeginUpdates" or "EndUpdates"
	Type string // concrete owner type, e.g. "*app.PersonViewModel"
	Err  error  // ErrAlreadyInBatchMode or ErrNotInBatchMode
}

// Error implements the error interface.
func (e *BatchModeError) Error() string {
	return fmt.Sprintf("%v (type %s, op %s)", e.Err, e.Type, e.Op)
}

// Unwrap returns the sentinel for errors.Is support.
func (e *BatchModeError) Unwrap() error {
	return e.Err
}

// kind returns a low-cardinality name for metrics labels.
func (e *BatchModeError) kind() string {
	switch {
	case errors.Is(e.Err, ErrAlreadyInBatchMode):
		return "already_in_batch_mode"
	case errors.Is(e.Err, ErrNotInBatchMode):
		return "not_in_batch_mode"
	default:
		return "unknown"
	}
}

// SubscriberPanicError describes a subscriber that panicked while being
// notified. It is only produced when the entity was created with WithRecover.
type SubscriberPanicError struct {
	Subscription SubscriptionID
	Property     string
	Value        any
	Stack        string
}

func (e *SubscriberPanicError) Error() string {
	return fmt.Sprintf("observable: subscriber %d panicked on %q: %v", e.Subscription, e.Property, e.Value)
}
