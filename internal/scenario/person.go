package scenario

import (
	"github.com/seriussoft/observable/pkg/disposal"
	"github.com/seriussoft/observable/pkg/observable"
)

// Property names announced by Person.
const (
	PropBackingSource = "BackingSource"
	PropName          = "Name"
	PropID            = "ID"
)

// PersonModel is the backing source of a Person.
type PersonModel struct {
	Name string
	ID   int
}

// Person is the sample view model scenarios drive. It is batchable and
// disposable.
type Person struct {
	*observable.Batchable
	*disposal.Resource

	model *PersonModel
	name  string
	id    int

	managedRuns   int
	unmanagedRuns int
}

// NewPerson creates an unbacked Person.
func NewPerson(entityOpts []observable.Option, resourceOpts []disposal.Option) *Person {
	p := &Person{}
	p.Batchable = observable.NewBatchable(p, entityOpts...)
	p.Resource = disposal.New(p, resourceOpts...)
	return p
}

// Name returns the current name.
func (p *Person) Name() string { return p.name }

// ID returns the current ID.
func (p *Person) ID() int { return p.id }

// SetName sets the name and announces it.
func (p *Person) SetName(name string) {
	p.name = name
	p.RaisePropertyChanged(PropName)
}

// SetID sets the ID and announces it.
func (p *Person) SetID(id int) {
	p.id = id
	p.RaisePropertyChanged(PropID)
}

// SetBackingSource replaces the backing model and re-announces every backed
// property. A nil model keeps the current values.
func (p *Person) SetBackingSource(m *PersonModel) {
	p.model = m
	if m != nil {
		p.name = m.Name
		p.id = m.ID
	}
	p.AttachBackingSource(m != nil)
}

// RaiseAllBackedPropertiesChanged implements observable.Owner.
func (p *Person) RaiseAllBackedPropertiesChanged() {
	p.RaisePropertyChanged(PropBackingSource)
	p.RaisePropertyChanged(PropName)
	p.RaisePropertyChanged(PropID)
}

// DisposeManagedObjects drops the backing model reference.
func (p *Person) DisposeManagedObjects() {
	p.model = nil
	p.managedRuns++
}

// DisposeUnmanagedObjects implements disposal.UnmanagedDisposer.
func (p *Person) DisposeUnmanagedObjects() {
	p.unmanagedRuns++
}
