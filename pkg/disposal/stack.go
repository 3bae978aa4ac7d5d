package disposal

// DisposerFunc adapts a function to Disposer.
type DisposerFunc func()

// Dispose calls f.
func (f DisposerFunc) Dispose() {
	f()
}

// Stack collects disposers and disposes them in reverse order of
// registration, once. The zero value is ready to use.
type Stack struct {
	items    []Disposer
	disposed bool
}

var _ Disposer = (*Stack)(nil)

// Push registers d. If the stack is already disposed, d is disposed
// immediately.
func (s *Stack) Push(d Disposer) {
	if d == nil {
		return
	}
	if s.disposed {
		d.Dispose()
		return
	}
	s.items = append(s.items, d)
}

// PushFunc registers fn as a disposer.
func (s *Stack) PushFunc(fn func()) {
	if fn == nil {
		return
	}
	s.Push(DisposerFunc(fn))
}

// Len returns the number of pending disposers.
func (s *Stack) Len() int {
	return len(s.items)
}

// IsDisposed reports whether Dispose has run.
func (s *Stack) IsDisposed() bool {
	return s.disposed
}

// Dispose disposes every registered disposer, last registered first.
// Calls after the first are no-ops.
func (s *Stack) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true

	items := s.items
	s.items = nil
	for i := len(items) - 1; i >= 0; i-- {
		items[i].Dispose()
	}
}
