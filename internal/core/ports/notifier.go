package ports

import "github.com/R3almCollectibles/session-gateway/internal/core/domain"

// Notifier delivers user-visible notices for a client. Implementations must
// not block the caller.
type Notifier interface {
	Notify(clientID string, n domain.Notice)
	// Recent returns the most recent notices for the client, newest last.
	Recent(clientID string) []domain.Notice
}
