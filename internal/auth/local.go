package auth

import (
	"context"
	"sync"

	"github.com/go-ports/ecorewards/internal/handle"
	"github.com/go-ports/ecorewards/internal/models"
)

// LocalProvider is an in-process Provider. Emissions are delivered
// synchronously on the goroutine calling SignIn, SignOut or Observe.
type LocalProvider struct {
	mu        sync.Mutex
	principal models.Principal
	observers map[int]func(models.Principal)
	nextID    int
}

var _ Provider = (*LocalProvider)(nil)

// NewLocalProvider returns a provider signed in as p (NoPrincipal for a
// signed-out start).
func NewLocalProvider(p models.Principal) *LocalProvider {
	return &LocalProvider{principal: p, observers: make(map[int]func(models.Principal))}
}

// Observe implements Provider.
func (l *LocalProvider) Observe(fn func(models.Principal)) *handle.Handle {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.observers[id] = fn
	current := l.principal
	l.mu.Unlock()

	fn(current)

	return handle.New(func() {
		l.mu.Lock()
		delete(l.observers, id)
		l.mu.Unlock()
	})
}

// SignIn switches the session to p and notifies observers.
func (l *LocalProvider) SignIn(p models.Principal) {
	l.emit(p)
}

// SignOut implements Provider.
func (l *LocalProvider) SignOut(context.Context) error {
	l.emit(models.NoPrincipal)
	return nil
}

// Observers returns the number of live registrations.
func (l *LocalProvider) Observers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.observers)
}

func (l *LocalProvider) emit(p models.Principal) {
	l.mu.Lock()
	l.principal = p
	fns := make([]func(models.Principal), 0, len(l.observers))
	for _, fn := range l.observers {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
}
