package service

import (
	"context"
	"sync"

	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
	"github.com/R3almCollectibles/session-gateway/internal/core/ports"
)

type stubBackend struct {
	mu           sync.Mutex
	currentSess  *ports.BackendSession
	currentErr   error
	currentCalls int
	signInSess   *ports.BackendSession
	signInErr    error
	signUpSess   *ports.BackendSession
	signUpErr    error
	signOutErr   error
	signOutCalls int
	subs         []func(ports.AuthEvent)
}

func (b *stubBackend) CurrentSession(ctx context.Context, clientID string) (*ports.BackendSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.currentCalls++
	return b.currentSess, b.currentErr
}

func (b *stubBackend) SignInWithPassword(ctx context.Context, clientID, email, password string) (*ports.BackendSession, error) {
	return b.signInSess, b.signInErr
}

func (b *stubBackend) SignUp(ctx context.Context, email, password string, metadata map[string]string) (*ports.BackendSession, error) {
	return b.signUpSess, b.signUpErr
}

func (b *stubBackend) SignOut(ctx context.Context, clientID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signOutCalls++
	return b.signOutErr
}

func (b *stubBackend) Subscribe(fn func(ev ports.AuthEvent)) {
	b.subs = append(b.subs, fn)
}

type stubProfiles struct {
	mu       sync.Mutex
	byID     map[string]*ports.Profile
	inserted []*ports.Profile
	findErr  error
}

func newStubProfiles() *stubProfiles {
	return &stubProfiles{byID: make(map[string]*ports.Profile)}
}

func (r *stubProfiles) FindByID(ctx context.Context, id string) (*ports.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return p, nil
}

func (r *stubProfiles) Insert(ctx context.Context, p *ports.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; ok {
		return domain.ErrAlreadyRegistered
	}
	r.byID[p.ID] = p
	r.inserted = append(r.inserted, p)
	return nil
}

type stubDemo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Principal
	loadErr error
}

func newStubDemo() *stubDemo {
	return &stubDemo{byID: make(map[string]*domain.Principal)}
}

func (s *stubDemo) Load(ctx context.Context, clientID string) (*domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.byID[clientID], nil
}

func (s *stubDemo) Save(ctx context.Context, clientID string, p domain.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[clientID] = &p
	return nil
}

func (s *stubDemo) Clear(ctx context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, clientID)
	return nil
}

type stubNotifier struct {
	mu       sync.Mutex
	byClient map[string][]domain.Notice
}

func newStubNotifier() *stubNotifier {
	return &stubNotifier{byClient: make(map[string][]domain.Notice)}
}

func (n *stubNotifier) Notify(clientID string, notice domain.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.byClient[clientID] = append(n.byClient[clientID], notice)
}

func (n *stubNotifier) Recent(clientID string) []domain.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Notice(nil), n.byClient[clientID]...)
}

type stubSeedFlag struct {
	mu     sync.Mutex
	seeded map[string]bool
}

func newStubSeedFlag() *stubSeedFlag {
	return &stubSeedFlag{seeded: make(map[string]bool)}
}

func (f *stubSeedFlag) Seeded(ctx context.Context, clientID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seeded[clientID], nil
}

func (f *stubSeedFlag) MarkSeeded(ctx context.Context, clientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seeded[clientID] = true
	return nil
}
