// Package authsync keeps the session store in step with the auth backend.
package authsync

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/templui/inkpost/internal/model"
	"github.com/templui/inkpost/internal/service"
	"github.com/templui/inkpost/internal/session"
	"github.com/templui/inkpost/internal/validation"
)

// Backend is the part of the auth backend the bridge depends on.
type Backend interface {
	Session(ctx context.Context) (*model.Identity, error)
	OnAuthStateChange(fn func(model.AuthEvent)) model.Subscription
	SignIn(ctx context.Context, email, password string) (*model.Identity, error)
	SignUp(ctx context.Context, email, password string) (*model.Identity, error)
	SignOut(ctx context.Context) error
}

// Bridge mirrors backend auth events into a session.Store.
type Bridge struct {
	backend Backend
	store   *session.Store

	mu        sync.Mutex
	sub       model.Subscription
	started   bool
	stopped   bool
	eventSeen bool
}

func NewBridge(backend Backend, store *session.Store) *Bridge {
	return &Bridge{
		backend: backend,
		store:   store,
	}
}

// Start subscribes to auth events and then probes the current session.
// Subscribing first means a change between the two steps is not lost; the
// probe result is only applied if no event has arrived in the meantime.
// A failed probe leaves the store signed out.
func (b *Bridge) Start(ctx context.Context) {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return
	}
	b.started = true
	b.mu.Unlock()

	sub := b.backend.OnAuthStateChange(b.handleEvent)

	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	b.sub = sub
	b.mu.Unlock()

	identity, err := b.backend.Session(ctx)
	if err != nil {
		slog.Warn("session probe failed", "error", err)
		identity = nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped || b.eventSeen {
		return
	}
	b.store.Set(identity)
}

// Stop unsubscribes. Events and probe results arriving afterwards are ignored.
// Calling Stop more than once is harmless.
func (b *Bridge) Stop() {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	b.stopped = true
	sub := b.sub
	b.sub = nil
	b.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

func (b *Bridge) handleEvent(event model.AuthEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return
	}
	b.eventSeen = true

	slog.Debug("auth event", "kind", event.Kind, "signed_in", event.Identity != nil)

	if event.Kind == model.AuthEventSignedOut {
		b.store.Clear()
		return
	}
	b.store.Set(event.Identity)
}

// apply writes a sign-in response to the store. It counts as an event so a
// probe still in flight cannot overwrite it.
func (b *Bridge) apply(identity *model.Identity) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return
	}
	b.eventSeen = true
	b.store.Set(identity)
}

// SignIn authenticates with the backend and applies the returned identity.
// The SIGNED_IN event that follows carries the same identity and is a no-op.
func (b *Bridge) SignIn(ctx context.Context, email, password string) (*model.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, &service.ValidationError{Message: "email and password are required"}
	}

	identity, err := b.backend.SignIn(ctx, email, password)
	if err != nil {
		return nil, service.NewBackendError("sign in", err)
	}
	b.apply(identity)
	return identity, nil
}

// SignUp validates the form locally before creating the account.
func (b *Bridge) SignUp(ctx context.Context, email, password string) (*model.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, &service.ValidationError{Message: "email and password are required"}
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, &service.ValidationError{Field: "email", Message: err.Error()}
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, &service.ValidationError{Field: "password", Message: err.Error()}
	}

	identity, err := b.backend.SignUp(ctx, email, password)
	if err != nil {
		return nil, service.NewBackendError("sign up", err)
	}
	b.apply(identity)
	return identity, nil
}

// SignOut always clears the store, even when the backend call fails.
func (b *Bridge) SignOut(ctx context.Context) error {
	err := b.backend.SignOut(ctx)
	b.store.Clear()

	if err != nil {
		return service.NewBackendError("sign out", err)
	}
	return nil
}
