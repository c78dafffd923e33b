package bolt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"
	"github.com/rs/zerolog"

	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
)

var bucketDemoIdentities = []byte("demo_identities")

// DemoStore persists demo identities in a local bolt file, one record per
// client. It fills the role the browser's localStorage key plays for the web
// client: demo sessions survive reloads with no network involved.
type DemoStore struct {
	db  *bolt.DB
	log zerolog.Logger
}

// Open opens (or creates) the bolt file at path and ensures the bucket exists.
func Open(path string, log zerolog.Logger) (*DemoStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("bolt open: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDemoIdentities)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bolt init bucket: %w", err)
	}
	return &DemoStore{db: db, log: log}, nil
}

// Load returns the persisted demo principal for the client, or nil when none
// exists. A record that fails to decode is deleted and treated as absent
// rather than surfaced as an error.
func (s *DemoStore) Load(_ context.Context, clientID string) (*domain.Principal, error) {
	var p *domain.Principal
	var malformed bool
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketDemoIdentities).Get([]byte(clientID))
		if raw == nil {
			return nil
		}
		var decoded domain.Principal
		if err := json.Unmarshal(raw, &decoded); err != nil {
			malformed = true
			return nil
		}
		p = &decoded
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("demo store load: %w", err)
	}
	if malformed {
		s.log.Warn().Str("client_id", clientID).Msg("malformed demo record dropped")
		_ = s.Clear(context.Background(), clientID)
		return nil, nil
	}
	return p, nil
}

func (s *DemoStore) Save(_ context.Context, clientID string, p domain.Principal) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("demo store marshal: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDemoIdentities).Put([]byte(clientID), raw)
	})
}

func (s *DemoStore) Clear(_ context.Context, clientID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDemoIdentities).Delete([]byte(clientID))
	})
}

// Close closes the underlying bolt file.
func (s *DemoStore) Close() error {
	return s.db.Close()
}
