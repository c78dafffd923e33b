package ports

import "context"

// SeedFlag guards the one-time demo-data seeding per client session.
type SeedFlag interface {
	Seeded(ctx context.Context, clientID string) (bool, error)
	MarkSeeded(ctx context.Context, clientID string) error
}
