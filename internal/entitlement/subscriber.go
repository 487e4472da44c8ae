// Package entitlement keeps a principal's entitlement snapshot synchronized
// with the remote record store across sign-in transitions.
package entitlement

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/go-ports/ecorewards/internal/handle"
	"github.com/go-ports/ecorewards/internal/models"
	"github.com/go-ports/ecorewards/internal/store"
)

// State is what the subscriber exposes to the presentation layer.
type State struct {
	Principal models.Principal
	Snapshot  models.EntitlementSnapshot
	Loading   bool
}

// Subscriber maintains at most one live registration, for the current
// principal's record. Every registration is tagged with the principal and
// generation it was opened for; pushes carrying any other tag are dropped.
type Subscriber struct {
	store      store.Store
	collection string

	mu        sync.Mutex
	state     State
	gen       uint64
	reg       *handle.Handle
	closed    bool
	listeners map[int]func(State)
	nextID    int
	seq       uint64

	notifyMu  sync.Mutex
	delivered uint64
}

// Option configures a Subscriber.
type Option func(*Subscriber)

// WithCollection sets the record collection (default models.DefaultCollection).
func WithCollection(collection string) Option {
	return func(s *Subscriber) { s.collection = collection }
}

// NewSubscriber returns a Subscriber reading records from st. It starts
// signed out with the default snapshot.
func NewSubscriber(st store.Store, opts ...Option) *Subscriber {
	s := &Subscriber{
		store:      st,
		collection: models.DefaultCollection,
		state:      State{Snapshot: models.DefaultSnapshot()},
		listeners:  make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current principal, snapshot and loading flag.
func (s *Subscriber) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Live reports whether a registration is currently held.
func (s *Subscriber) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg != nil && !s.reg.Disposed()
}

// Listen registers fn to receive every state change. fn is never called
// while the subscriber's lock is held, but it must not retarget the
// subscriber or write to the store synchronously.
func (s *Subscriber) Listen(fn func(State)) *handle.Handle {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return handle.New(func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	})
}

// Retarget points the subscriber at p. Any previous registration is disposed
// first. For a signed-out p the default snapshot is exposed with Loading
// false; otherwise Loading is true until the first push arrives.
func (s *Subscriber) Retarget(ctx context.Context, p models.Principal) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	prev := s.reg
	s.reg = nil
	s.gen++
	gen := s.gen
	s.state = State{Principal: p, Snapshot: models.DefaultSnapshot(), Loading: p.SignedIn()}
	n := s.pendingLocked()
	s.mu.Unlock()

	prev.Dispose()
	s.notify(n)

	if !p.SignedIn() {
		return
	}

	path := p.RecordPath(s.collection)
	h, err := s.store.Subscribe(ctx, path, func(push store.Push) {
		s.apply(gen, p, push)
	})

	s.mu.Lock()
	if s.closed || s.gen != gen {
		// Retargeted or closed while the registration was opening.
		s.mu.Unlock()
		h.Dispose()
		return
	}
	if err != nil {
		log.Warn().Err(err).Str("principal", string(p)).Str("path", path).
			Msg("entitlement: subscribe failed, using default snapshot")
		s.state = State{Principal: p, Snapshot: models.DefaultSnapshot()}
		n = s.pendingLocked()
		s.mu.Unlock()
		s.notify(n)
		return
	}
	s.reg = h
	s.mu.Unlock()
}

// Close disposes the live registration and drops every later push. Close is
// idempotent.
func (s *Subscriber) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.gen++
	prev := s.reg
	s.reg = nil
	s.mu.Unlock()

	prev.Dispose()
}

// apply handles one push from the registration tagged (gen, p).
func (s *Subscriber) apply(gen uint64, p models.Principal, push store.Push) {
	s.mu.Lock()
	if s.closed || gen != s.gen || p != s.state.Principal {
		s.mu.Unlock()
		log.Debug().Str("principal", string(p)).Msg("entitlement: discarding stale push")
		return
	}

	snap := models.DefaultSnapshot()
	switch {
	case push.Err != nil:
		log.Warn().Err(push.Err).Str("principal", string(p)).
			Msg("entitlement: record link failed, using default snapshot")
	case push.Exists:
		snap = Decode(push.Data)
	}
	s.state = State{Principal: p, Snapshot: snap}
	n := s.pendingLocked()
	s.mu.Unlock()

	s.notify(n)
}

// ---------------------------------------------------------------------------
// Notification
// ---------------------------------------------------------------------------

type notification struct {
	seq   uint64
	state State
	fns   []func(State)
}

func (s *Subscriber) pendingLocked() notification {
	s.seq++
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	return notification{seq: s.seq, state: s.state, fns: fns}
}

// notify delivers n unless a newer state was already delivered.
func (s *Subscriber) notify(n notification) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if n.seq <= s.delivered {
		return
	}
	s.delivered = n.seq
	for _, fn := range n.fns {
		fn(n.state)
	}
}
