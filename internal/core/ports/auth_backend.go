package ports

import (
	"context"
	"time"
)

// BackendSession is what the auth backend reports for a signed-in client.
type BackendSession struct {
	UserID      string
	Email       string
	AccessToken string
	ExpiresAt   time.Time
}

// AuthEvent is an auth-state change pushed by the backend for one client.
// A nil Session means the backend considers the client signed out.
type AuthEvent struct {
	ClientID string
	Session  *BackendSession
}

// AuthEventSink consumes auth-state change events in per-client order.
type AuthEventSink interface {
	Process(ctx context.Context, ev AuthEvent) error
}

// AuthBackend is the external auth collaborator. Implementations exist for
// the hosted BaaS and for the embedded (self-hosted) backend; the session
// manager does not care which one it talks to.
type AuthBackend interface {
	// CurrentSession returns the backend's view of the client's session,
	// or nil when the client is not signed in.
	CurrentSession(ctx context.Context, clientID string) (*BackendSession, error)
	SignInWithPassword(ctx context.Context, clientID, email, password string) (*BackendSession, error)
	// SignUp may return a nil session when the account requires email
	// confirmation before it becomes usable.
	SignUp(ctx context.Context, email, password string, metadata map[string]string) (*BackendSession, error)
	SignOut(ctx context.Context, clientID string) error
	// Subscribe registers a callback for subsequent auth-state changes.
	Subscribe(fn func(ev AuthEvent))
}
