package model

// Identity is the authenticated user as seen by the client.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (i *Identity) Equal(other *Identity) bool {
	if i == nil || other == nil {
		return i == nil && other == nil
	}
	return i.ID == other.ID && i.Email == other.Email
}

type AuthEventKind string

const (
	AuthEventInitialSession AuthEventKind = "INITIAL_SESSION"
	AuthEventSignedIn       AuthEventKind = "SIGNED_IN"
	AuthEventSignedOut      AuthEventKind = "SIGNED_OUT"
	AuthEventTokenRefreshed AuthEventKind = "TOKEN_REFRESHED"
)

// AuthEvent is pushed by the backend whenever the session changes.
// A nil Identity means nobody is signed in.
type AuthEvent struct {
	Kind     AuthEventKind `json:"kind"`
	Identity *Identity     `json:"identity,omitempty"`
}

// Subscription is a cancellable registration on an event source.
type Subscription interface {
	Unsubscribe()
}
