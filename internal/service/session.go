package service

import (
	"context"

	"github.com/go-ports/ecorewards/internal/auth"
	"github.com/go-ports/ecorewards/internal/entitlement"
	"github.com/go-ports/ecorewards/internal/models"
)

// Session ties an auth provider to a live entitlement subscriber: every
// principal transition re-targets the subscriber.
type Session struct {
	Observer   *auth.Observer
	Subscriber *entitlement.Subscriber
}

// NewSession returns a session over provider reading records from the
// service's store. Call Start to begin observing.
func (s *Service) NewSession(provider auth.Provider) *Session {
	sub := entitlement.NewSubscriber(s.records, entitlement.WithCollection(s.Config.Store.Collection))
	return &Session{
		Observer:   auth.NewObserver(provider, sub),
		Subscriber: sub,
	}
}

// Start registers with the auth provider.
func (ss *Session) Start(ctx context.Context) {
	ss.Observer.Start(ctx)
}

// State returns the current entitlement state.
func (ss *Session) State() entitlement.State {
	return ss.Subscriber.State()
}

// Principal returns the signed-in principal.
func (ss *Session) Principal() models.Principal {
	return ss.Observer.Principal()
}

// SignOut asks the provider to end the session.
func (ss *Session) SignOut(ctx context.Context) error {
	return ss.Observer.SignOut(ctx)
}

// Close releases the provider registration, then the record registration.
func (ss *Session) Close() {
	ss.Observer.Close()
	ss.Subscriber.Close()
}
