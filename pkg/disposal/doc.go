// Package disposal provides deterministic, idempotent, two-phase teardown.
//
// A type that owns resources embeds *Resource and implements the hooks it
// needs. Managed objects (values that are themselves tracked, such as child
// resources or subscriptions) are released first; unmanaged objects (file
// descriptors, handles, off-heap buffers) second:
//
//	type Conn struct {
//	    *disposal.Resource
//	    sub observable.SubscriptionID
//	    fd  int
//	}
//
//	func NewConn(fd int) *Conn {
//	    c := &Conn{fd: fd}
//	    c.Resource = disposal.New(c)
//	    return c
//	}
//
//	func (c *Conn) DisposeManagedObjects()   { source.Unsubscribe(c.sub) }
//	func (c *Conn) DisposeUnmanagedObjects() { syscall.Close(c.fd) }
//
// Dispose may be called any number of times; the hooks run once.
//
// # Finalization
//
// Go has no destructor that Dispose could suppress, but a type may register
// its own out-of-band cleanup with runtime.AddCleanup. Such a cleanup must
// only release unmanaged objects, which is what DisposeInternal(false) does.
// Pass the registration's Stop method to WithFinalizer so an explicit
// Dispose cancels it:
//
//	cleanup := runtime.AddCleanup(c, closeFD, c.fd)
//	c.Resource = disposal.New(c, disposal.WithFinalizer(cleanup.Stop))
//
// # Thread Safety
//
// Resource and Stack are not synchronized. Dispose must not race with
// itself or with any other method on the same value.
package disposal
