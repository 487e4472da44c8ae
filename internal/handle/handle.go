// Package handle provides the one-shot disposer returned by every live
// registration (auth observers, store subscriptions, change listeners).
package handle

import (
	"sync"
	"sync/atomic"
)

// Handle releases a live registration. Dispose runs the release function at
// most once; later calls are no-ops. A nil *Handle is safe to dispose.
type Handle struct {
	once     sync.Once
	release  func()
	disposed atomic.Bool
}

// New returns a Handle that calls release on first Dispose.
// release may be nil.
func New(release func()) *Handle {
	return &Handle{release: release}
}

// Noop returns an already-usable Handle that releases nothing.
func Noop() *Handle { return New(nil) }

// Dispose releases the registration. It is safe to call more than once and
// from multiple goroutines.
func (h *Handle) Dispose() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		h.disposed.Store(true)
		if h.release != nil {
			h.release()
		}
	})
}

// Disposed reports whether Dispose has been called.
func (h *Handle) Disposed() bool {
	if h == nil {
		return true
	}
	return h.disposed.Load()
}
