package observable

import (
	"io"
	"log/slog"
	"strings"
)

const (
	propBackingSource = "BackingSource"
	propName          = "Name"
	propID            = "ID"
)

type testModel struct {
	Name string
	ID   int
}

// testViewModel is a plain observable entity with two backed properties.
type testViewModel struct {
	*Entity
	model *testModel
	name  string
	id    int
}

func newTestViewModel(opts ...Option) *testViewModel {
	vm := &testViewModel{}
	vm.Entity = NewEntity(vm, append([]Option{WithLogger(discardLogger())}, opts...)...)
	return vm
}

func (vm *testViewModel) SetName(name string) {
	vm.name = name
	vm.RaisePropertyChanged(propName)
}

func (vm *testViewModel) SetID(id int) {
	vm.id = id
	vm.RaisePropertyChanged(propID)
}

func (vm *testViewModel) SetBackingSource(m *testModel) {
	vm.model = m
	if m != nil {
		vm.name = m.Name
		vm.id = m.ID
	}
	vm.AttachBackingSource(m != nil)
}

func (vm *testViewModel) RaiseAllBackedPropertiesChanged() {
	vm.RaisePropertyChanged(propBackingSource)
	vm.RaisePropertyChanged(propName)
	vm.RaisePropertyChanged(propID)
}

// testBatchableViewModel is the same view model built on Batchable.
type testBatchableViewModel struct {
	*Batchable
	model *testModel
	name  string
	id    int
}

func newTestBatchableViewModel(opts ...Option) *testBatchableViewModel {
	vm := &testBatchableViewModel{}
	vm.Batchable = NewBatchable(vm, append([]Option{WithLogger(discardLogger())}, opts...)...)
	return vm
}

func (vm *testBatchableViewModel) SetName(name string) {
	vm.name = name
	vm.RaisePropertyChanged(propName)
}

func (vm *testBatchableViewModel) SetID(id int) {
	vm.id = id
	vm.RaisePropertyChanged(propID)
}

func (vm *testBatchableViewModel) SetBackingSource(m *testModel) {
	vm.model = m
	if m != nil {
		vm.name = m.Name
		vm.id = m.ID
	}
	vm.AttachBackingSource(m != nil)
}

func (vm *testBatchableViewModel) RaiseAllBackedPropertiesChanged() {
	vm.RaisePropertyChanged(propBackingSource)
	vm.RaisePropertyChanged(propName)
	vm.RaisePropertyChanged(propID)
}

// recorder collects property names in the order they were announced.
type recorder struct {
	names   []string
	senders []any
}

func (r *recorder) handle(sender any, property string) {
	r.names = append(r.names, property)
	r.senders = append(r.senders, sender)
}

func (r *recorder) String() string {
	return "[" + strings.Join(r.names, ", ") + "]"
}

func equalNames(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
