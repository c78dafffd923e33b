package ports

import (
	"context"

	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
)

// SessionInfo is a read-only view of one client's session, used by the
// admin back-office.
type SessionInfo struct {
	ClientID string         `json:"client_id"`
	Session  domain.Session `json:"session"`
	Role     domain.Role    `json:"role"`
}

// SessionService is the surface the HTTP layer consumes.
type SessionService interface {
	// Snapshot returns the client's current session, bootstrapping the
	// store on first contact.
	Snapshot(ctx context.Context, clientID string) domain.Session
	SignIn(ctx context.Context, clientID, email, password string) (domain.Session, string, error)
	// SignUp returns a token identifying the client on success and failure
	// alike, so a first-contact caller can still read its notices.
	SignUp(ctx context.Context, clientID, email, password, name string) (string, error)
	SignOut(ctx context.Context, clientID string) error
	LoginWithDemo(ctx context.Context, clientID, persona string) (domain.Session, string, error)
	Notices(clientID string) []domain.Notice
	ActiveSessions() []SessionInfo
}
