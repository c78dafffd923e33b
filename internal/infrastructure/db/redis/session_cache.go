package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/R3almCollectibles/session-gateway/internal/core/ports"
)

const defaultSessionTTL = 24 * time.Hour

// SessionCache keeps per-client session snapshots so a restarted gateway can
// rehydrate without a network bootstrap. Key format: session:<client_id>
type SessionCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSessionCache builds a cache whose entries expire after ttl; pass the
// client token TTL so a cached snapshot never outlives the token that names
// it. A non-positive ttl falls back to 24h.
func NewSessionCache(client *redis.Client, ttl time.Duration) *SessionCache {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionCache{client: client, prefix: "session:", ttl: ttl}
}

func (c *SessionCache) Save(ctx context.Context, s ports.CachedSession) error {
	if s.ClientID == "" {
		return errors.New("session cache: empty client id")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session snapshot: %w", err)
	}
	return c.client.Set(ctx, c.prefix+s.ClientID, data, c.ttl).Err()
}

func (c *SessionCache) Get(ctx context.Context, clientID string) (*ports.CachedSession, error) {
	data, err := c.client.Get(ctx, c.prefix+clientID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session cache get: %w", err)
	}

	var s ports.CachedSession
	if err := json.Unmarshal(data, &s); err != nil {
		// A corrupt snapshot is treated as a miss; the client will
		// bootstrap through the backend instead.
		_ = c.client.Del(ctx, c.prefix+clientID).Err()
		return nil, nil
	}
	return &s, nil
}

func (c *SessionCache) Delete(ctx context.Context, clientID string) error {
	return c.client.Del(ctx, c.prefix+clientID).Err()
}
