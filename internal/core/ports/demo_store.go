package ports

import (
	"context"

	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
)

// DemoStore persists a client's demo identity across reloads. It is the
// gateway-side analog of the web client's local storage key.
type DemoStore interface {
	// Load returns the persisted demo principal, or nil when none is
	// stored. A malformed record is treated as absent, never as an error.
	Load(ctx context.Context, clientID string) (*domain.Principal, error)
	Save(ctx context.Context, clientID string, p domain.Principal) error
	Clear(ctx context.Context, clientID string) error
}
