package observable

import (
	"runtime/debug"

	"github.com/hashicorp/go-multierror"
)

// Handler receives property change notifications. sender is the entity's
// owner (the concrete type), property is the name passed to
// RaisePropertyChanged.
type Handler func(sender any, property string)

// SubscriptionID identifies one registration on a Dispatcher. The zero value
// never identifies a registration.
type SubscriptionID uint64

type registration struct {
	id      SubscriptionID
	handler Handler
}

// Dispatcher keeps an ordered list of subscribers and invokes them
// synchronously. The zero value is ready to use.
//
// The same handler may be registered more than once; each registration has
// its own SubscriptionID and is invoked once per announcement.
type Dispatcher struct {
	subs   []registration
	lastID SubscriptionID

	// onPanic, when set, isolates each subscriber and receives the
	// aggregated panics of one announcement.
	onPanic func(err error)
}

// Subscribe appends h to the subscriber list and returns its registration.
// A nil handler is ignored and yields the zero SubscriptionID.
func (d *Dispatcher) Subscribe(h Handler) SubscriptionID {
	if h == nil {
		return 0
	}
	d.lastID++
	d.subs = append(d.subs, registration{id: d.lastID, handler: h})
	return d.lastID
}

// Unsubscribe removes the registration with the given ID. It reports whether
// a registration was removed.
func (d *Dispatcher) Unsubscribe(id SubscriptionID) bool {
	for i, r := range d.subs {
		if r.id == id {
			// Order matters for announcements, so no swap-remove.
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registrations.
func (d *Dispatcher) Len() int {
	return len(d.subs)
}

// Announce invokes every subscriber with sender and property, in
// registration order.
//
// The subscriber list is copied before the first call. Subscribers added by
// a callback are not invoked until the next announcement; subscribers
// removed by a callback are still invoked in the current one.
func (d *Dispatcher) Announce(sender any, property string) {
	if len(d.subs) == 0 {
		return
	}

	subs := make([]registration, len(d.subs))
	copy(subs, d.subs)

	if d.onPanic == nil {
		for _, r := range subs {
			r.handler(sender, property)
		}
		return
	}

	var result *multierror.Error
	for _, r := range subs {
		if err := invokeIsolated(r, sender, property); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		d.onPanic(err)
	}
}

func invokeIsolated(r registration, sender any, property string) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &SubscriberPanicError{
				Subscription: r.id,
				Property:     property,
				Value:        v,
				Stack:        string(debug.Stack()),
			}
		}
	}()
	r.handler(sender, property)
	return nil
}
