// Package auth observes the signed-in principal reported by an auth provider
// and re-targets entitlement tracking on every transition.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/go-ports/ecorewards/internal/handle"
	"github.com/go-ports/ecorewards/internal/models"
)

// ErrSignOutFailed wraps every failure reported by Provider.SignOut.
var ErrSignOutFailed = errors.New("sign-out failed")

// Provider is the authentication capability consumed by the observer.
type Provider interface {
	// Observe registers fn for sign-in state changes. fn is invoked on
	// registration with the current principal and on every later change.
	Observe(fn func(models.Principal)) *handle.Handle
	// SignOut ends the current session.
	SignOut(ctx context.Context) error
}

// Target is re-pointed at the new principal on every transition.
type Target interface {
	Retarget(ctx context.Context, p models.Principal)
}

// SessionState is the observer's view of the session.
type SessionState int

const (
	SignedOut SessionState = iota
	SignedIn
)

func (s SessionState) String() string {
	if s == SignedIn {
		return "signed-in"
	}
	return "signed-out"
}

// Observer tracks the current principal. It holds a single registration with
// the provider, released exactly once by Close.
type Observer struct {
	provider Provider
	target   Target

	mu        sync.Mutex
	principal models.Principal
	seen      bool
	reg       *handle.Handle
	ctx       context.Context //nolint:containedctx // passed to Target on provider callbacks, which carry no context
	closed    bool
}

// NewObserver returns an Observer forwarding transitions to target.
func NewObserver(provider Provider, target Target) *Observer {
	return &Observer{provider: provider, target: target}
}

// Start registers with the provider. The provider's initial emission is
// forwarded to the target before Start returns when the provider delivers
// synchronously. Calling Start more than once is a no-op.
func (o *Observer) Start(ctx context.Context) {
	o.mu.Lock()
	if o.reg != nil || o.closed {
		o.mu.Unlock()
		return
	}
	o.ctx = ctx
	// Placeholder so re-entrant Start calls from the callback are no-ops.
	o.reg = handle.Noop()
	o.mu.Unlock()

	reg := o.provider.Observe(o.onChange)

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		reg.Dispose()
		return
	}
	o.reg = reg
	o.mu.Unlock()
}

// onChange handles one provider emission. A repeat of the current principal
// is not a transition; the first emission is always forwarded.
func (o *Observer) onChange(p models.Principal) {
	o.mu.Lock()
	if o.closed || (o.seen && p == o.principal) {
		o.mu.Unlock()
		return
	}
	prev := o.principal
	o.principal = p
	o.seen = true
	ctx := o.ctx
	o.mu.Unlock()

	log.Info().Str("from", string(prev)).Str("to", string(p)).Msg("auth: session transition")
	o.target.Retarget(ctx, p)
}

// Principal returns the current principal, NoPrincipal when signed out.
func (o *Observer) Principal() models.Principal {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.principal
}

// State returns SignedIn or SignedOut.
func (o *Observer) State() SessionState {
	if o.Principal().SignedIn() {
		return SignedIn
	}
	return SignedOut
}

// SignOut asks the provider to end the session. Local state only changes when
// the provider reports the signed-out transition; a provider failure is
// returned wrapped in ErrSignOutFailed.
func (o *Observer) SignOut(ctx context.Context) error {
	if err := o.provider.SignOut(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrSignOutFailed, err)
	}
	return nil
}

// Close releases the provider registration. Later emissions are ignored.
func (o *Observer) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	reg := o.reg
	o.reg = nil
	o.mu.Unlock()

	reg.Dispose()
}
