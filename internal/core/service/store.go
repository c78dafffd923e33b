package service

import (
	"sync"

	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
)

const subscriberBuffer = 16

// Store is the single authoritative holder of one client's session state.
//
// Mutations go through a serialized command queue drained by a dedicated
// goroutine, so bootstrap-driven updates, sign-out and sign-in apply in
// strict arrival order and a stale background notification can never
// overwrite a just-completed foreground action. Reads never touch the queue:
// Snapshot returns a copy under a read lock and never blocks on a mutation.
type Store struct {
	mu      sync.RWMutex
	session domain.Session

	commands chan command
	closed   chan struct{}
	closeOne sync.Once

	subMu sync.Mutex
	subs  map[int]chan domain.Session
	nextS int
}

type command struct {
	mutate func(*domain.Session)
	done   chan struct{}
}

// NewStore returns a Store in the pending state (loading, no principal)
// and starts its command loop.
func NewStore() *Store {
	s := &Store{
		session:  domain.Session{Loading: true},
		commands: make(chan command, 64),
		closed:   make(chan struct{}),
		subs:     make(map[int]chan domain.Session),
	}
	go s.run()
	return s
}

func (s *Store) run() {
	for {
		select {
		case <-s.closed:
			return
		case cmd := <-s.commands:
			s.apply(cmd)
		}
	}
}

func (s *Store) apply(cmd command) {
	s.mu.Lock()
	cmd.mutate(&s.session)
	// IsAuthenticated is derived; recompute so the two can never disagree.
	s.session.IsAuthenticated = s.session.Principal != nil
	snap := s.session
	s.mu.Unlock()

	s.broadcast(snap)
	close(cmd.done)
}

// Update enqueues a mutation and waits for it to be applied. The callback
// receives a pointer to the live session, held under the store lock and
// valid only for the duration of the call; it must not retain the pointer.
func (s *Store) Update(mutate func(*domain.Session)) {
	cmd := command{mutate: mutate, done: make(chan struct{})}
	select {
	case s.commands <- cmd:
	case <-s.closed:
		return
	}
	select {
	case <-cmd.done:
	case <-s.closed:
	}
}

// SetPrincipal replaces the principal. Passing nil clears it. No validation
// happens here; validating the principal is the caller's job.
func (s *Store) SetPrincipal(p *domain.Principal) {
	s.Update(func(sess *domain.Session) { sess.Principal = p })
}

// SetLoading flips the loading flag.
func (s *Store) SetLoading(v bool) {
	s.Update(func(sess *domain.Session) { sess.Loading = v })
}

// Snapshot returns the current session synchronously.
func (s *Store) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Subscribe registers for session snapshots, delivered in mutation order.
// A subscriber that falls more than subscriberBuffer states behind misses
// intermediate snapshots; each delivered snapshot is complete, so only
// history is lost, never consistency. The returned func unsubscribes.
func (s *Store) Subscribe() (<-chan domain.Session, func()) {
	s.subMu.Lock()
	id := s.nextS
	s.nextS++
	ch := make(chan domain.Session, subscriberBuffer)
	s.subs[id] = ch
	s.subMu.Unlock()

	return ch, func() {
		s.subMu.Lock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
		s.subMu.Unlock()
	}
}

func (s *Store) broadcast(snap domain.Session) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Close stops the command loop. Pending Update calls return without effect.
func (s *Store) Close() {
	s.closeOne.Do(func() { close(s.closed) })
}
