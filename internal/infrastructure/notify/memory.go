// Package notify delivers user-visible notices. The web client polls its
// recent notices and renders them as toasts.
package notify

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
)

const maxRetained = 20

// MemoryNotifier retains the most recent notices per client in memory.
type MemoryNotifier struct {
	log zerolog.Logger

	mu      sync.Mutex
	notices map[string][]domain.Notice
}

func NewMemoryNotifier(log zerolog.Logger) *MemoryNotifier {
	return &MemoryNotifier{log: log, notices: make(map[string][]domain.Notice)}
}

func (n *MemoryNotifier) Notify(clientID string, notice domain.Notice) {
	n.log.Debug().
		Str("client_id", clientID).
		Str("level", string(notice.Level)).
		Str("message", notice.Message).
		Msg("notice")

	n.mu.Lock()
	defer n.mu.Unlock()

	list := append(n.notices[clientID], notice)
	if len(list) > maxRetained {
		list = list[len(list)-maxRetained:]
	}
	n.notices[clientID] = list
}

// Recent returns the retained notices for a client, oldest first.
func (n *MemoryNotifier) Recent(clientID string) []domain.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]domain.Notice, len(n.notices[clientID]))
	copy(out, n.notices[clientID])
	return out
}
