package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const seedTTL = 12 * time.Hour

// SeedFlag records that demo data has been seeded for a client session, so
// repeated demo logins in the same session do not re-seed.
// Key format: seed:<client_id>
type SeedFlag struct {
	client *redis.Client
}

func NewSeedFlag(client *redis.Client) *SeedFlag {
	return &SeedFlag{client: client}
}

func (f *SeedFlag) Seeded(ctx context.Context, clientID string) (bool, error) {
	n, err := f.client.Exists(ctx, f.key(clientID)).Result()
	if err != nil {
		return false, fmt.Errorf("seed flag check: %w", err)
	}
	return n > 0, nil
}

func (f *SeedFlag) MarkSeeded(ctx context.Context, clientID string) error {
	return f.client.Set(ctx, f.key(clientID), "1", seedTTL).Err()
}

func (f *SeedFlag) key(clientID string) string {
	return fmt.Sprintf("seed:%s", clientID)
}
