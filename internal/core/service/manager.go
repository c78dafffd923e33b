package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
	"github.com/R3almCollectibles/session-gateway/internal/core/ports"
)

// SeedFunc seeds demo marketplace data for a client session. It runs at most
// once per client, guarded by the SeedFlag.
type SeedFunc func(ctx context.Context, clientID string, persona domain.Role) error

// Deps carries the collaborators a Manager needs.
type Deps struct {
	Backend  ports.AuthBackend
	Profiles ports.ProfileRepository
	Demo     ports.DemoStore
	Cache    ports.SessionCache
	SeedFlag ports.SeedFlag
	Seed     SeedFunc
	Notifier ports.Notifier
	Log      zerolog.Logger
}

// Manager owns one Store per client and implements every credential
// operation against them. It is the only writer of session state.
type Manager struct {
	deps      Deps
	boot      *Bootstrapper
	jwtSecret string
	tokenTTL  time.Duration

	mu     sync.Mutex
	stores map[string]*clientStore
}

type clientStore struct {
	store *Store
	once  sync.Once
}

func NewManager(deps Deps, jwtSecret string, tokenTTL time.Duration) *Manager {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Manager{
		deps:      deps,
		boot:      NewBootstrapper(deps.Backend, deps.Profiles, deps.Demo, deps.Cache, deps.Log),
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		stores:    make(map[string]*clientStore),
	}
}

// storeFor returns the client's store, creating and bootstrapping it on
// first contact. Bootstrap runs once per store; concurrent callers for the
// same client wait for it, callers for other clients are unaffected.
func (m *Manager) storeFor(ctx context.Context, clientID string) *Store {
	m.mu.Lock()
	cs, ok := m.stores[clientID]
	if !ok {
		cs = &clientStore{store: NewStore()}
		m.stores[clientID] = cs
	}
	m.mu.Unlock()

	cs.once.Do(func() {
		source := m.boot.Run(ctx, clientID, cs.store)
		m.deps.Log.Debug().Str("client_id", clientID).Str("source", source).Msg("session bootstrapped")
	})
	return cs.store
}

// Snapshot implements ports.SessionService.
func (m *Manager) Snapshot(ctx context.Context, clientID string) domain.Session {
	return m.storeFor(ctx, clientID).Snapshot()
}

// SignIn authenticates the client against the backend. On failure the
// principal is left untouched and exactly one failure notice is emitted; the
// returned token identifies the client either way, so first-contact callers
// can read their notices. A success ends demo mode: the persisted demo
// identity is dropped so a later bootstrap cannot resurrect it over the
// live session.
func (m *Manager) SignIn(ctx context.Context, clientID, email, password string) (domain.Session, string, error) {
	store := m.storeFor(ctx, clientID)
	store.SetLoading(true)
	defer store.SetLoading(false)

	sess, err := m.deps.Backend.SignInWithPassword(ctx, clientID, email, password)
	if err != nil {
		return store.Snapshot(), m.clientToken(clientID), m.failSignIn(clientID, err)
	}

	profile, err := m.deps.Profiles.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) || errors.Is(err, domain.ErrUserNotFound) {
			return store.Snapshot(), m.clientToken(clientID), m.failSignIn(clientID, domain.ErrProfileNotFound)
		}
		return store.Snapshot(), m.clientToken(clientID), m.failSignIn(clientID, err)
	}

	if err := m.deps.Demo.Clear(ctx, clientID); err != nil {
		m.deps.Log.Warn().Err(err).Str("client_id", clientID).Msg("demo identity clear failed")
	}

	p := PrincipalFromProfile(profile)
	store.SetPrincipal(&p)
	m.saveSnapshot(ctx, clientID, &p)

	m.notify(clientID, domain.NoticeSuccess, "Welcome back, "+displayName(&p)+"!")
	token, err := m.issueToken(clientID)
	if err != nil {
		return store.Snapshot(), "", err
	}
	return store.Snapshot(), token, nil
}

func (m *Manager) failSignIn(clientID string, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		m.notify(clientID, domain.NoticeError, "Invalid email or password.")
		return domain.ErrInvalidCredentials
	case errors.Is(err, domain.ErrUserNotFound):
		m.notify(clientID, domain.NoticeError, "Invalid email or password.")
		return domain.ErrInvalidCredentials
	case errors.Is(err, domain.ErrRateLimited):
		m.notify(clientID, domain.NoticeError, "Too many attempts. Please wait a moment and try again.")
		return domain.ErrRateLimited
	case errors.Is(err, domain.ErrProfileNotFound):
		m.notify(clientID, domain.NoticeError, "Your account has no profile yet. Contact support.")
		return domain.ErrProfileNotFound
	default:
		m.deps.Log.Error().Err(err).Str("client_id", clientID).Msg("sign-in failed")
		m.notify(clientID, domain.NoticeError, "Sign in failed. Please try again.")
		return err
	}
}

// SignUp registers a new account and inserts the matching profile row. The
// principal stays unset until the backend reports a confirmed session, which
// keeps email-confirmation flows working without client-side policy. The
// returned token identifies the client on success and failure alike.
func (m *Manager) SignUp(ctx context.Context, clientID, email, password, name string) (string, error) {
	token := m.clientToken(clientID)

	sess, err := m.deps.Backend.SignUp(ctx, email, password, map[string]string{"name": name})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyRegistered):
			m.notify(clientID, domain.NoticeError, "This email is already registered.")
			return token, domain.ErrAlreadyRegistered
		case errors.Is(err, domain.ErrRateLimited):
			m.notify(clientID, domain.NoticeError, "Too many attempts. Please wait a moment and try again.")
			return token, domain.ErrRateLimited
		default:
			m.deps.Log.Error().Err(err).Str("email", email).Msg("sign-up failed")
			m.notify(clientID, domain.NoticeError, "Sign up failed. Please try again.")
			return token, err
		}
	}

	profile := &ports.Profile{
		ID:        sess.UserID,
		Email:     email,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.deps.Profiles.Insert(ctx, profile); err != nil {
		m.deps.Log.Error().Err(err).Str("user_id", sess.UserID).Msg("profile insert failed after sign-up")
		m.notify(clientID, domain.NoticeError, "Sign up failed. Please try again.")
		return token, err
	}

	m.notify(clientID, domain.NoticeSuccess, "Account created. Check your email to confirm your address.")
	return token, nil
}

// SignOut clears the persisted demo identity first, then tells the backend,
// then clears the principal. The demo clear must come first so the
// bootstrapper's "no session + no demo ⇒ clear" rule cannot race into
// restoring a just-removed demo session.
func (m *Manager) SignOut(ctx context.Context, clientID string) error {
	store := m.storeFor(ctx, clientID)

	if err := m.deps.Demo.Clear(ctx, clientID); err != nil {
		m.deps.Log.Warn().Err(err).Str("client_id", clientID).Msg("demo identity clear failed")
	}

	if err := m.deps.Backend.SignOut(ctx, clientID); err != nil {
		m.deps.Log.Warn().Err(err).Str("client_id", clientID).Msg("backend sign-out failed")
		m.notify(clientID, domain.NoticeError, "Signed out locally; the server could not be reached.")
	} else {
		m.notify(clientID, domain.NoticeSuccess, "Signed out.")
	}

	store.SetPrincipal(nil)
	if m.deps.Cache != nil {
		if err := m.deps.Cache.Delete(ctx, clientID); err != nil {
			m.deps.Log.Warn().Err(err).Str("client_id", clientID).Msg("session cache delete failed")
		}
	}
	return nil
}

// LoginWithDemo adopts a canned persona. This path never touches the
// network and succeeds synchronously.
func (m *Manager) LoginWithDemo(ctx context.Context, clientID, persona string) (domain.Session, string, error) {
	store := m.storeFor(ctx, clientID)

	p, ok := domain.DemoPersona(persona)
	if !ok {
		m.notify(clientID, domain.NoticeError, "Unknown demo persona.")
		return store.Snapshot(), m.clientToken(clientID), domain.ErrUnknownPersona
	}

	store.SetPrincipal(&p)
	if err := m.deps.Demo.Save(ctx, clientID, p); err != nil {
		m.deps.Log.Warn().Err(err).Str("client_id", clientID).Msg("demo identity persist failed")
	}

	m.seedDemoData(ctx, clientID, domain.ResolveRole(&p))
	m.notify(clientID, domain.NoticeSuccess, "Exploring R3alm as "+p.Name+" (demo).")

	token, err := m.issueToken(clientID)
	if err != nil {
		return store.Snapshot(), "", err
	}
	return store.Snapshot(), token, nil
}

func (m *Manager) seedDemoData(ctx context.Context, clientID string, persona domain.Role) {
	if m.deps.Seed == nil || m.deps.SeedFlag == nil {
		return
	}
	seeded, err := m.deps.SeedFlag.Seeded(ctx, clientID)
	if err != nil {
		m.deps.Log.Warn().Err(err).Str("client_id", clientID).Msg("seed flag check failed, skipping seed")
		return
	}
	if seeded {
		return
	}
	if err := m.deps.Seed(ctx, clientID, persona); err != nil {
		m.deps.Log.Warn().Err(err).Str("client_id", clientID).Msg("demo data seed failed")
		return
	}
	if err := m.deps.SeedFlag.MarkSeeded(ctx, clientID); err != nil {
		m.deps.Log.Warn().Err(err).Str("client_id", clientID).Msg("seed flag mark failed")
	}
}

// ActiveSessions lists every live store's snapshot for the back-office.
func (m *Manager) ActiveSessions() []ports.SessionInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ports.SessionInfo, 0, len(m.stores))
	for id, cs := range m.stores {
		snap := cs.store.Snapshot()
		out = append(out, ports.SessionInfo{
			ClientID: id,
			Session:  snap,
			Role:     domain.ResolveRole(snap.Principal),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClientID < out[j].ClientID })
	return out
}

// Process implements ports.AuthEventSink: backend auth-state changes are
// applied through the bootstrapper's rules. Events for clients with no live
// store are dropped; their store will bootstrap fresh on next contact.
func (m *Manager) Process(ctx context.Context, ev ports.AuthEvent) error {
	m.mu.Lock()
	cs, ok := m.stores[ev.ClientID]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return m.boot.HandleAuthEvent(ctx, ev.ClientID, cs.store, ev.Session)
}

func (m *Manager) saveSnapshot(ctx context.Context, clientID string, p *domain.Principal) {
	if m.deps.Cache == nil {
		return
	}
	cached := ports.CachedSession{ClientID: clientID, Principal: p, UpdatedAt: time.Now().UTC()}
	if err := m.deps.Cache.Save(ctx, cached); err != nil {
		m.deps.Log.Warn().Err(err).Str("client_id", clientID).Msg("session cache save failed")
	}
}

// clientToken is issueToken with the error downgraded to a log line, for
// paths that must not turn a token-signing hiccup into a second failure.
func (m *Manager) clientToken(clientID string) string {
	token, err := m.issueToken(clientID)
	if err != nil {
		m.deps.Log.Error().Err(err).Str("client_id", clientID).Msg("client token issue failed")
		return ""
	}
	return token
}

func (m *Manager) issueToken(clientID string) (string, error) {
	claims := jwt.MapClaims{
		"cid": clientID,
		"exp": time.Now().Add(m.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(m.jwtSecret))
}

func (m *Manager) notify(clientID string, level domain.NoticeLevel, msg string) {
	if m.deps.Notifier == nil {
		return
	}
	m.deps.Notifier.Notify(clientID, domain.Notice{Level: level, Message: msg, CreatedAt: time.Now().UTC()})
}

// Notices returns the recent notices for a client.
func (m *Manager) Notices(clientID string) []domain.Notice {
	if m.deps.Notifier == nil {
		return nil
	}
	return m.deps.Notifier.Recent(clientID)
}

// Close shuts down every store's command loop.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cs := range m.stores {
		cs.store.Close()
	}
}

func displayName(p *domain.Principal) string {
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}
