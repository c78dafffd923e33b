package service

import (
	"strconv"
	"testing"
	"time"

	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
)

func TestStore_StartsPending(t *testing.T) {
	s := NewStore()
	defer s.Close()

	snap := s.Snapshot()
	if !snap.Loading {
		t.Fatalf("new store must be loading")
	}
	if snap.Principal != nil || snap.IsAuthenticated {
		t.Fatalf("new store must be unauthenticated")
	}
	if snap.State() != domain.StatePending {
		t.Fatalf("state = %q, want pending", snap.State())
	}
}

func TestStore_AuthenticatedTracksPrincipal(t *testing.T) {
	s := NewStore()
	defer s.Close()

	check := func() {
		t.Helper()
		snap := s.Snapshot()
		if snap.IsAuthenticated != (snap.Principal != nil) {
			t.Fatalf("invariant violated: authenticated=%v principal=%v", snap.IsAuthenticated, snap.Principal)
		}
	}

	check()
	s.SetPrincipal(&domain.Principal{ID: "u1"})
	check()
	s.SetPrincipal(nil)
	check()
	s.SetPrincipal(&domain.Principal{ID: "u2"})
	check()
	s.SetLoading(false)
	check()
}

func TestStore_SubscriberSeesMutationsInOrder(t *testing.T) {
	s := NewStore()
	defer s.Close()

	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	const n = 10
	for i := 0; i < n; i++ {
		s.SetPrincipal(&domain.Principal{ID: strconv.Itoa(i)})
	}

	last := -1
	for i := 0; i < n; i++ {
		select {
		case snap := <-ch:
			if snap.IsAuthenticated != (snap.Principal != nil) {
				t.Fatalf("invariant violated in notification")
			}
			id, _ := strconv.Atoi(snap.Principal.ID)
			if id <= last {
				t.Fatalf("out-of-order notification: %d after %d", id, last)
			}
			last = id
		case <-time.After(time.Second):
			t.Fatalf("missing notification %d", i)
		}
	}
	if last != n-1 {
		t.Fatalf("final notification = %d, want %d", last, n-1)
	}
}

func TestStore_UpdateAppliesAtomically(t *testing.T) {
	s := NewStore()
	defer s.Close()

	s.Update(func(sess *domain.Session) {
		sess.Principal = &domain.Principal{ID: "u1"}
		sess.Loading = false
	})

	snap := s.Snapshot()
	if snap.Loading || snap.Principal == nil || !snap.IsAuthenticated {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestStore_CloseUnblocksMutations(t *testing.T) {
	s := NewStore()
	s.Close()

	done := make(chan struct{})
	go func() {
		s.SetPrincipal(&domain.Principal{ID: "u1"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("mutation blocked after Close")
	}
}
