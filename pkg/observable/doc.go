// Package observable provides observable entities: values that expose
// mutable properties and notify subscribers when those properties change.
//
// # Core Types
//
// Entity is the base capability. A concrete type embeds *Entity, calls
// RaisePropertyChanged from its setters, and implements
// RaiseAllBackedPropertiesChanged to announce every property it derives from
// its backing source:
//
//	type Person struct {
//	    *observable.Entity
//	    model *PersonModel
//	    name  string
//	}
//
//	func NewPerson() *Person {
//	    p := &Person{}
//	    p.Entity = observable.NewEntity(p)
//	    return p
//	}
//
//	func (p *Person) SetName(name string) {
//	    p.name = name
//	    p.RaisePropertyChanged("Name")
//	}
//
//	func (p *Person) RaiseAllBackedPropertiesChanged() {
//	    p.RaisePropertyChanged("BackingSource")
//	    p.RaisePropertyChanged("Name")
//	}
//
// Subscribers register a Handler and receive the owner and property name:
//
//	id := p.Subscribe(func(sender any, property string) {
//	    fmt.Println(property, "changed")
//	})
//	defer p.Unsubscribe(id)
//
// # Batch Mode
//
// Batchable wraps Entity with a suppression window. Between BeginUpdates and
// EndUpdates every RaisePropertyChanged call is dropped, unless the override
// lock is set:
//
//	vm.BeginUpdates()
//	vm.SetName("a")  // not announced
//	vm.SetAge(3)     // not announced
//	vm.EndUpdates()
//	vm.Refresh()     // announce everything once, explicitly
//
// Batching suppresses; it does not coalesce. Nothing is replayed when the
// window closes, and windows do not nest: a second BeginUpdates fails with
// ErrAlreadyInBatchMode, and EndUpdates outside a window fails with
// ErrNotInBatchMode.
//
// # Thread Safety
//
// Entities are not synchronized. Every operation on an entity, including
// announcements and batch transitions, must run on one goroutine at a time.
// Concurrent use without external locking is undefined behavior.
//
// # Subscriber Panics
//
// By default a panicking subscriber aborts the announcement and the panic
// propagates to the caller of RaisePropertyChanged. WithRecover isolates each
// subscriber instead and reports the collected panics once the pass ends.
package observable
