package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
	"github.com/R3almCollectibles/session-gateway/internal/core/ports"
)

// Bootstrapper establishes the initial session for a store, exactly once per
// store. A persisted demo identity short-circuits the backend entirely: demo
// mode stays fully offline-capable and a stale or absent backend session
// must not override it.
type Bootstrapper struct {
	backend  ports.AuthBackend
	profiles ports.ProfileRepository
	demo     ports.DemoStore
	cache    ports.SessionCache
	log      zerolog.Logger
}

func NewBootstrapper(
	backend ports.AuthBackend,
	profiles ports.ProfileRepository,
	demo ports.DemoStore,
	cache ports.SessionCache,
	log zerolog.Logger,
) *Bootstrapper {
	return &Bootstrapper{backend: backend, profiles: profiles, demo: demo, cache: cache, log: log}
}

// Run resolves the initial principal and always settles loading=false, even
// when the backend is unreachable. Errors are logged and degrade to an
// unauthenticated session; bootstrap never surfaces a user-facing notice.
// It returns the source the session was resolved from: "demo", "cache",
// "backend" or "none".
func (b *Bootstrapper) Run(ctx context.Context, clientID string, store *Store) string {
	defer store.SetLoading(false)

	if p, err := b.demo.Load(ctx, clientID); err != nil {
		b.log.Warn().Err(err).Str("client_id", clientID).Msg("demo store read failed, continuing without")
	} else if p != nil {
		store.SetPrincipal(p)
		return "demo"
	}

	if b.cache != nil {
		if cached, err := b.cache.Get(ctx, clientID); err != nil {
			b.log.Warn().Err(err).Str("client_id", clientID).Msg("session cache read failed")
		} else if cached != nil && cached.Principal != nil {
			store.SetPrincipal(cached.Principal)
			return "cache"
		}
	}

	sess, err := b.backend.CurrentSession(ctx, clientID)
	if err != nil {
		b.log.Warn().Err(err).Str("client_id", clientID).Msg("bootstrap session fetch failed, treating as signed out")
		return "none"
	}
	if sess == nil {
		return "none"
	}

	p, err := b.resolvePrincipal(ctx, sess)
	if err != nil {
		b.log.Warn().Err(err).Str("user_id", sess.UserID).Msg("bootstrap profile fetch failed, treating as signed out")
		return "none"
	}
	store.SetPrincipal(p)
	return "backend"
}

// HandleAuthEvent applies a backend auth-state change to the store. A
// signed-out event is ignored while a demo identity is persisted so that a
// stale backend notification cannot clobber an active demo session; any
// backend event is likewise ignored while the current principal is a demo
// one (demo wins until explicit sign-out).
func (b *Bootstrapper) HandleAuthEvent(ctx context.Context, clientID string, store *Store, sess *ports.BackendSession) error {
	if cur := store.Snapshot(); cur.Principal != nil && cur.Principal.IsDemo {
		return nil
	}

	if sess == nil {
		if p, err := b.demo.Load(ctx, clientID); err == nil && p != nil {
			return nil
		}
		store.SetPrincipal(nil)
		return nil
	}

	p, err := b.resolvePrincipal(ctx, sess)
	if err != nil {
		return err
	}
	store.SetPrincipal(p)
	return nil
}

func (b *Bootstrapper) resolvePrincipal(ctx context.Context, sess *ports.BackendSession) (*domain.Principal, error) {
	profile, err := b.profiles.FindByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	p := PrincipalFromProfile(profile)
	return &p, nil
}

// PrincipalFromProfile maps a profile row onto a principal 1:1, with the
// created_at timestamp normalised to a date-only join date.
func PrincipalFromProfile(p *ports.Profile) domain.Principal {
	out := domain.Principal{
		ID:            p.ID,
		Email:         p.Email,
		Name:          p.Name,
		AvatarURL:     p.AvatarURL,
		WalletAddress: p.WalletAddress,
		RoleTag:       p.RoleTag,
		IsAdmin:       p.IsAdmin,
	}
	if !p.CreatedAt.IsZero() {
		out.JoinDate = p.CreatedAt.UTC().Format("2006-01-02")
	}
	return out
}
