package observable

import (
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/seriussoft/observable/pkg/metrics"
)

// Owner is the concrete type an Entity belongs to. It announces every
// property derived from its backing source, always in the same order.
type Owner interface {
	RaiseAllBackedPropertiesChanged()
}

// Notifier is the surface a binding host uses to observe an entity.
type Notifier interface {
	Subscribe(h Handler) SubscriptionID
	Unsubscribe(id SubscriptionID) bool
}

// Backed describes whether an entity originates from a backing source.
type Backed interface {
	IsNew() bool
	IsBacked() bool
}

// SuppressionPolicy decides whether a property change is dropped instead of
// announced. Suppressed changes are lost, not deferred.
type SuppressionPolicy interface {
	Suppress(property string) bool
}

// Entity is the base of every observable type. It owns a Dispatcher and the
// IsNew/IsBacked flags; the concrete type supplies the property list through
// Owner.
type Entity struct {
	owner    Owner
	typeName string

	dispatcher Dispatcher
	policy     SuppressionPolicy

	isNew    bool
	isBacked bool

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

var (
	_ Notifier = (*Entity)(nil)
	_ Backed   = (*Entity)(nil)
)

// NewEntity creates an Entity for owner. The entity starts new and unbacked.
// owner is passed as the sender of every notification.
func NewEntity(owner Owner, opts ...Option) *Entity {
	if owner == nil {
		panic("observable: NewEntity requires a non-nil owner")
	}

	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	e := &Entity{
		owner:    owner,
		typeName: fmt.Sprintf("%T", owner),
		isNew:    true,
		metrics:  config.Metrics,
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	e.logger = logger.With("type", e.typeName)

	e.tracer = config.Tracer
	if e.tracer == nil {
		e.tracer = otel.Tracer(config.TracerName)
	}

	if config.Recover {
		handler := config.PanicHandler
		e.dispatcher.onPanic = func(err error) {
			count := 1
			if merr, ok := err.(*multierror.Error); ok {
				count = len(merr.Errors)
			}
			for i := 0; i < count; i++ {
				e.metrics.ObserveSubscriberPanic(e.typeName)
			}
			e.logger.Error("subscriber panicked", "panics", count, "error", err)
			if handler != nil {
				handler(err)
			}
		}
	}

	return e
}

// TypeName returns the concrete owner type, e.g. "*app.PersonViewModel".
func (e *Entity) TypeName() string {
	return e.typeName
}

// Sender returns the owner passed to subscribers.
func (e *Entity) Sender() any {
	return e.owner
}

// Subscribe registers h for property change notifications.
func (e *Entity) Subscribe(h Handler) SubscriptionID {
	return e.dispatcher.Subscribe(h)
}

// Unsubscribe removes the registration id.
func (e *Entity) Unsubscribe(id SubscriptionID) bool {
	return e.dispatcher.Unsubscribe(id)
}

// SubscriberCount returns the number of registrations.
func (e *Entity) SubscriberCount() int {
	return e.dispatcher.Len()
}

// SetSuppressionPolicy installs p. A nil policy announces everything.
func (e *Entity) SetSuppressionPolicy(p SuppressionPolicy) {
	e.policy = p
}

// RaisePropertyChanged announces that property changed, unless the
// suppression policy drops it. It never fails.
func (e *Entity) RaisePropertyChanged(property string) {
	if e.policy != nil && e.policy.Suppress(property) {
		e.metrics.ObserveSuppressed(e.typeName)
		e.logger.Debug("property change suppressed", "property", property)
		return
	}

	e.metrics.ObserveAnnouncement(e.typeName)
	e.logger.Debug("property changed", "property", property, "subscribers", e.dispatcher.Len())
	e.dispatcher.Announce(e.owner, property)
}

// Refresh re-announces every backed property through the owner's
// RaiseAllBackedPropertiesChanged.
func (e *Entity) Refresh() {
	e.owner.RaiseAllBackedPropertiesChanged()
}

// AttachBackingSource is called by the concrete type after it stored a new
// backing source. present reports whether the source is non-nil; a present
// source marks the entity as backed. The owner's
// RaiseAllBackedPropertiesChanged runs exactly once, last.
func (e *Entity) AttachBackingSource(present bool) {
	if present {
		e.isBacked = true
	}
	e.owner.RaiseAllBackedPropertiesChanged()
}

// IsNew reports whether the entity has not yet been persisted.
func (e *Entity) IsNew() bool {
	return e.isNew
}

// IsBacked reports whether a backing source has been attached.
func (e *Entity) IsBacked() bool {
	return e.isBacked
}

// MarkPersisted records that the entity now exists in its backing store.
func (e *Entity) MarkPersisted() {
	e.isNew = false
}
