package ports

import (
	"context"
	"time"

	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
)

// CachedSession is the snapshot persisted for gateway restarts.
type CachedSession struct {
	ClientID  string            `json:"client_id"`
	Principal *domain.Principal `json:"principal,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// SessionCache survives live (non-demo) session snapshots across gateway
// restarts so a restarted process does not force every client back through
// a network bootstrap.
type SessionCache interface {
	Save(ctx context.Context, s CachedSession) error
	// Get returns nil when no snapshot is cached for the client.
	Get(ctx context.Context, clientID string) (*CachedSession, error)
	Delete(ctx context.Context, clientID string) error
}
