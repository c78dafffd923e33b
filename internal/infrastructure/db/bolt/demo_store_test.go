package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/boltdb/bolt"
	"github.com/rs/zerolog"

	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
)

func openTestStore(t *testing.T) *DemoStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.db")
	s, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDemoStore_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	persona, _ := domain.DemoPersona("creator")
	if err := s.Save(ctx, "c1", persona); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(ctx, "c1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil || got.Name != "Maya Artist" || !got.IsDemo {
		t.Fatalf("loaded = %+v, want demo Maya Artist", got)
	}
}

func TestDemoStore_LoadAbsent(t *testing.T) {
	s := openTestStore(t)

	got, err := s.Load(context.Background(), "never-saved")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for absent record, got %+v", got)
	}
}

func TestDemoStore_Clear(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	persona, _ := domain.DemoPersona("collector")
	if err := s.Save(ctx, "c1", persona); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Clear(ctx, "c1"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	got, err := s.Load(ctx, "c1")
	if err != nil || got != nil {
		t.Fatalf("load after clear = (%+v, %v), want (nil, nil)", got, err)
	}
}

func TestDemoStore_MalformedRecordTreatedAsAbsent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDemoIdentities).Put([]byte("c1"), []byte("{not json"))
	})
	if err != nil {
		t.Fatalf("write raw record: %v", err)
	}

	got, err := s.Load(ctx, "c1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Fatalf("malformed record must read as absent, got %+v", got)
	}

	// The bad record was dropped; subsequent loads stay clean.
	got, err = s.Load(ctx, "c1")
	if err != nil || got != nil {
		t.Fatalf("second load = (%+v, %v), want (nil, nil)", got, err)
	}
}
