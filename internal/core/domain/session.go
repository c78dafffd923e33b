package domain

import "errors"

// SessionState is the coarse lifecycle state of a client session.
type SessionState string

const (
	StatePending         SessionState = "pending"
	StateUnauthenticated SessionState = "unauthenticated"
	StateAuthenticated   SessionState = "authenticated"
)

// Session is the wrapper state exposed to everything outside the store.
// IsAuthenticated is derived: it is true exactly when Principal is non-nil.
type Session struct {
	Principal       *Principal `json:"principal,omitempty"`
	Loading         bool       `json:"loading"`
	IsAuthenticated bool       `json:"is_authenticated"`
}

// State collapses the session into one of the three gate states. Loading
// dominates: no admission decision may be taken while it is set.
func (s Session) State() SessionState {
	switch {
	case s.Loading:
		return StatePending
	case s.Principal == nil:
		return StateUnauthenticated
	default:
		return StateAuthenticated
	}
}

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAlreadyRegistered = errors.New("email already registered")
var ErrRateLimited = errors.New("too many attempts, try again later")
var ErrProfileNotFound = errors.New("profile not found")
var ErrUserNotFound = errors.New("user not found")
var ErrUnknownPersona = errors.New("unknown demo persona")
var ErrSessionNotFound = errors.New("session not found")
var ErrForbidden = errors.New("access forbidden")
