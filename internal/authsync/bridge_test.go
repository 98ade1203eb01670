package authsync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/templui/inkpost/internal/backend"
	"github.com/templui/inkpost/internal/model"
	"github.com/templui/inkpost/internal/service"
	"github.com/templui/inkpost/internal/session"
)

type fakeBackend struct {
	mock.Mock
	feed *backend.MemoryFeed

	// probe runs inside Session and returns its result.
	probe func() (*model.Identity, error)
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{feed: backend.NewMemoryFeed()}
}

func (f *fakeBackend) Session(ctx context.Context) (*model.Identity, error) {
	if f.probe == nil {
		return nil, nil
	}
	return f.probe()
}

func (f *fakeBackend) OnAuthStateChange(fn func(model.AuthEvent)) model.Subscription {
	return f.feed.Subscribe(fn)
}

func (f *fakeBackend) SignIn(ctx context.Context, email, password string) (*model.Identity, error) {
	args := f.Called(email, password)
	identity, _ := args.Get(0).(*model.Identity)
	return identity, args.Error(1)
}

func (f *fakeBackend) SignUp(ctx context.Context, email, password string) (*model.Identity, error) {
	args := f.Called(email, password)
	identity, _ := args.Get(0).(*model.Identity)
	return identity, args.Error(1)
}

func (f *fakeBackend) SignOut(ctx context.Context) error {
	return f.Called().Error(0)
}

func (f *fakeBackend) emit(kind model.AuthEventKind, identity *model.Identity) {
	_ = f.feed.Publish(context.Background(), model.AuthEvent{Kind: kind, Identity: identity})
}

var (
	alice = &model.Identity{ID: "a1", Email: "alice@example.com"}
	bob   = &model.Identity{ID: "b2", Email: "bob@example.com"}
)

func TestBridge_StartAppliesProbe(t *testing.T) {
	fb := newFakeBackend()
	fb.probe = func() (*model.Identity, error) { return alice, nil }
	store := session.NewStore()

	b := NewBridge(fb, store)
	b.Start(context.Background())
	defer b.Stop()

	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "a1", store.UserID())
}

func TestBridge_StartProbeAnonymous(t *testing.T) {
	fb := newFakeBackend()
	store := session.NewStore()

	b := NewBridge(fb, store)
	b.Start(context.Background())
	defer b.Stop()

	assert.False(t, store.IsAuthenticated())
}

func TestBridge_EventDuringProbeWins(t *testing.T) {
	fb := newFakeBackend()
	store := session.NewStore()

	// The probe resolves with a stale value after an event was delivered.
	fb.probe = func() (*model.Identity, error) {
		fb.emit(model.AuthEventSignedIn, bob)
		return alice, nil
	}

	b := NewBridge(fb, store)
	b.Start(context.Background())
	defer b.Stop()

	assert.Equal(t, "b2", store.UserID())
}

func TestBridge_SignOutEventDuringProbeWins(t *testing.T) {
	fb := newFakeBackend()
	store := session.NewStore()
	fb.probe = func() (*model.Identity, error) {
		fb.emit(model.AuthEventSignedOut, nil)
		return alice, nil
	}

	b := NewBridge(fb, store)
	b.Start(context.Background())
	defer b.Stop()

	assert.False(t, store.IsAuthenticated())
}

func TestBridge_ProbeFailureLeavesAnonymous(t *testing.T) {
	fb := newFakeBackend()
	fb.probe = func() (*model.Identity, error) { return nil, errors.New("network down") }
	store := session.NewStore()

	b := NewBridge(fb, store)
	b.Start(context.Background())
	defer b.Stop()

	assert.False(t, store.IsAuthenticated())
}

func TestBridge_EventsFollowLastWrite(t *testing.T) {
	fb := newFakeBackend()
	store := session.NewStore()

	b := NewBridge(fb, store)
	b.Start(context.Background())
	defer b.Stop()

	fb.emit(model.AuthEventSignedIn, alice)
	fb.emit(model.AuthEventTokenRefreshed, alice)
	fb.emit(model.AuthEventSignedOut, nil)
	fb.emit(model.AuthEventSignedIn, bob)

	assert.Equal(t, "b2", store.UserID())
}

func TestBridge_StopIgnoresLaterEvents(t *testing.T) {
	fb := newFakeBackend()
	store := session.NewStore()

	b := NewBridge(fb, store)
	b.Start(context.Background())

	fb.emit(model.AuthEventSignedIn, alice)
	b.Stop()
	b.Stop()

	fb.emit(model.AuthEventSignedIn, bob)
	assert.Equal(t, "a1", store.UserID())
}

func TestBridge_StopBeforeProbeReturns(t *testing.T) {
	fb := newFakeBackend()
	store := session.NewStore()

	var b *Bridge
	fb.probe = func() (*model.Identity, error) {
		b.Stop()
		return alice, nil
	}

	b = NewBridge(fb, store)
	b.Start(context.Background())

	assert.False(t, store.IsAuthenticated())
}

func TestBridge_SignInValidation(t *testing.T) {
	fb := newFakeBackend()
	b := NewBridge(fb, session.NewStore())

	_, err := b.SignIn(context.Background(), "  ", "secret")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Equal(t, "email and password are required", err.Error())

	fb.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything)
}

func TestBridge_SignInBackendErrorVerbatim(t *testing.T) {
	fb := newFakeBackend()
	fb.On("SignIn", "alice@example.com", "wrong").Return(nil, backend.ErrInvalidCredentials)
	b := NewBridge(fb, session.NewStore())

	_, err := b.SignIn(context.Background(), "alice@example.com", "wrong")
	require.Error(t, err)

	var be *service.BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "invalid login credentials", err.Error())
	assert.ErrorIs(t, err, backend.ErrInvalidCredentials)
}

func TestBridge_SignUpValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		message  string
	}{
		{"missing password", "alice@example.com", "", "email and password are required"},
		{"missing email", "", "secret1", "email and password are required"},
		{"bad email", "alice", "secret1", "please enter a valid email"},
		{"short password", "alice@example.com", "abc", "password must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := newFakeBackend()
			b := NewBridge(fb, session.NewStore())

			_, err := b.SignUp(context.Background(), tt.email, tt.password)
			require.ErrorIs(t, err, service.ErrValidation)
			assert.Equal(t, tt.message, err.Error())
			fb.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
		})
	}
}

func TestBridge_SignUpDelegates(t *testing.T) {
	fb := newFakeBackend()
	fb.On("SignUp", "alice@example.com", "secret1").Return(alice, nil)
	b := NewBridge(fb, session.NewStore())

	identity, err := b.SignUp(context.Background(), " alice@example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, alice, identity)
	fb.AssertExpectations(t)
}

func TestBridge_SignInSetsStoreBeforeEvent(t *testing.T) {
	fb := newFakeBackend()
	fb.On("SignIn", "alice@example.com", "secret1").Return(alice, nil)
	store := session.NewStore()
	b := NewBridge(fb, store)
	b.Start(context.Background())
	defer b.Stop()

	var calls int
	store.Subscribe(func(*model.Identity) { calls++ })

	_, err := b.SignIn(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", store.Email())
	assert.Equal(t, 1, calls)

	// the backend event arrives later with the same identity
	fb.emit(model.AuthEventSignedIn, alice)
	assert.Equal(t, 1, calls)
}

func TestBridge_SignUpSetsStore(t *testing.T) {
	fb := newFakeBackend()
	fb.On("SignUp", "bob@example.com", "secret1").Return(bob, nil)
	store := session.NewStore()
	b := NewBridge(fb, store)
	b.Start(context.Background())
	defer b.Stop()

	_, err := b.SignUp(context.Background(), "bob@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, bob.Equal(store.Get()))
}

func TestBridge_SignInAfterStopLeavesStore(t *testing.T) {
	fb := newFakeBackend()
	fb.On("SignIn", "alice@example.com", "secret1").Return(alice, nil)
	store := session.NewStore()
	b := NewBridge(fb, store)
	b.Start(context.Background())
	b.Stop()

	_, err := b.SignIn(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.False(t, store.IsAuthenticated())
}

func TestBridge_SignOutAlwaysClears(t *testing.T) {
	fb := newFakeBackend()
	fb.On("SignOut").Return(errors.New("network down"))
	store := session.NewStore()
	store.Set(alice)

	b := NewBridge(fb, store)
	err := b.SignOut(context.Background())

	require.Error(t, err)
	assert.Equal(t, "network down", err.Error())
	assert.False(t, store.IsAuthenticated())
}
