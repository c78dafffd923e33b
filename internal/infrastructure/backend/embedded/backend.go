// Package embedded implements ports.AuthBackend without any external
// service: credentials live in the platform's own database and sessions are
// held in process. It is the self-hosted counterpart of the hosted BaaS
// backend, selected with AUTH_MODE=embedded.
package embedded

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
	"github.com/R3almCollectibles/session-gateway/internal/core/ports"
)

const (
	defaultSessionTTL = 24 * time.Hour
	maxFailedAttempts = 5
	attemptWindow     = time.Minute
)

type Backend struct {
	creds ports.CredentialRepository
	ttl   time.Duration
	log   zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*ports.BackendSession
	failures map[string][]time.Time
	subs     []func(ports.AuthEvent)
}

func New(creds ports.CredentialRepository, sessionTTL time.Duration, log zerolog.Logger) *Backend {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &Backend{
		creds:    creds,
		ttl:      sessionTTL,
		log:      log,
		sessions: make(map[string]*ports.BackendSession),
		failures: make(map[string][]time.Time),
	}
}

func (b *Backend) CurrentSession(_ context.Context, clientID string) (*ports.BackendSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sess, ok := b.sessions[clientID]
	if !ok {
		return nil, nil
	}
	if time.Now().After(sess.ExpiresAt) {
		delete(b.sessions, clientID)
		return nil, nil
	}
	out := *sess
	return &out, nil
}

func (b *Backend) SignInWithPassword(ctx context.Context, clientID, email, password string) (*ports.BackendSession, error) {
	if b.throttled(email) {
		return nil, domain.ErrRateLimited
	}

	cred, err := b.creds.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			b.recordFailure(email)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		b.recordFailure(email)
		return nil, domain.ErrInvalidCredentials
	}

	sess := &ports.BackendSession{
		UserID:      cred.UserID,
		Email:       cred.Email,
		AccessToken: uuid.NewString(),
		ExpiresAt:   time.Now().Add(b.ttl),
	}

	b.mu.Lock()
	b.sessions[clientID] = sess
	delete(b.failures, email)
	b.mu.Unlock()

	b.emit(ports.AuthEvent{ClientID: clientID, Session: sess})
	out := *sess
	return &out, nil
}

// SignUp creates the credential record. The embedded backend has no email
// confirmation step, but mirrors the hosted contract: the returned session
// carries the user ID and no access token, so the caller still signs in
// explicitly afterwards.
func (b *Backend) SignUp(ctx context.Context, email, password string, _ map[string]string) (*ports.BackendSession, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	cred := &ports.Credential{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := b.creds.Create(ctx, cred); err != nil {
		return nil, err
	}

	return &ports.BackendSession{UserID: cred.UserID, Email: cred.Email}, nil
}

func (b *Backend) SignOut(_ context.Context, clientID string) error {
	b.mu.Lock()
	_, had := b.sessions[clientID]
	delete(b.sessions, clientID)
	b.mu.Unlock()

	if had {
		b.emit(ports.AuthEvent{ClientID: clientID, Session: nil})
	}
	return nil
}

func (b *Backend) Subscribe(fn func(ev ports.AuthEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

func (b *Backend) emit(ev ports.AuthEvent) {
	b.mu.Lock()
	subs := make([]func(ports.AuthEvent), len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

func (b *Backend) throttled(email string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	cutoff := time.Now().Add(-attemptWindow)
	recent := b.failures[email][:0]
	for _, t := range b.failures[email] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	b.failures[email] = recent
	return len(recent) >= maxFailedAttempts
}

func (b *Backend) recordFailure(email string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[email] = append(b.failures[email], time.Now())
}
