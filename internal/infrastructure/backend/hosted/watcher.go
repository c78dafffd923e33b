package hosted

import (
	"context"
	"time"

	"github.com/R3almCollectibles/session-gateway/internal/core/ports"
)

const defaultPollInterval = 30 * time.Second

// Watch polls the backend for every tracked client token and emits a
// signed-out event when a token has expired or is no longer honoured. This
// is the polling stand-in for the BaaS's push-based auth-state subscription;
// subscribers registered via Subscribe receive the resulting events.
//
// Watch blocks until ctx is cancelled; run it in its own goroutine.
func (c *Client) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

func (c *Client) sweep(ctx context.Context) {
	c.mu.Lock()
	tracked := make(map[string]tokenRecord, len(c.tokens))
	for id, rec := range c.tokens {
		tracked[id] = rec
	}
	c.mu.Unlock()

	now := time.Now()
	for clientID, rec := range tracked {
		if now.Before(rec.session.ExpiresAt) {
			status, _, err := c.do(ctx, "GET", "/user", nil, rec.session.AccessToken)
			if err != nil {
				// Transient failure: keep the token, try next sweep.
				c.log.Warn().Err(err).Str("client_id", clientID).Msg("auth state poll failed")
				continue
			}
			if status != 401 {
				continue
			}
		}

		c.drop(clientID)
		c.emit(ports.AuthEvent{ClientID: clientID, Session: nil})
		c.log.Debug().Str("client_id", clientID).Msg("backend session ended")
	}
}
