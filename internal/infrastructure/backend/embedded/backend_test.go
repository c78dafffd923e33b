package embedded

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
	"github.com/R3almCollectibles/session-gateway/internal/core/ports"
)

type memCreds struct {
	mu      sync.Mutex
	byEmail map[string]*ports.Credential
}

func newMemCreds() *memCreds {
	return &memCreds{byEmail: make(map[string]*ports.Credential)}
}

func (r *memCreds) FindByEmail(ctx context.Context, email string) (*ports.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return c, nil
}

func (r *memCreds) Create(ctx context.Context, c *ports.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[c.Email]; ok {
		return domain.ErrAlreadyRegistered
	}
	r.byEmail[c.Email] = c
	return nil
}

func TestBackend_SignUpThenSignIn(t *testing.T) {
	b := New(newMemCreds(), time.Hour, zerolog.Nop())
	ctx := context.Background()

	created, err := b.SignUp(ctx, "ana@r3alm.io", "hunter22", nil)
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if created.UserID == "" {
		t.Fatalf("sign-up must assign a user ID")
	}
	if created.AccessToken != "" {
		t.Fatalf("sign-up must not hand out an access token")
	}

	sess, err := b.SignInWithPassword(ctx, "c1", "ana@r3alm.io", "hunter22")
	if err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}
	if sess.UserID != created.UserID || sess.AccessToken == "" {
		t.Fatalf("session = %+v", sess)
	}

	cur, err := b.CurrentSession(ctx, "c1")
	if err != nil {
		t.Fatalf("CurrentSession: %v", err)
	}
	if cur == nil || cur.UserID != created.UserID {
		t.Fatalf("current session = %+v", cur)
	}
}

func TestBackend_WrongPassword(t *testing.T) {
	b := New(newMemCreds(), time.Hour, zerolog.Nop())
	ctx := context.Background()

	if _, err := b.SignUp(ctx, "ana@r3alm.io", "hunter22", nil); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	_, err := b.SignInWithPassword(ctx, "c1", "ana@r3alm.io", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestBackend_UnknownEmailIndistinguishable(t *testing.T) {
	b := New(newMemCreds(), time.Hour, zerolog.Nop())

	_, err := b.SignInWithPassword(context.Background(), "c1", "ghost@r3alm.io", "pw")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestBackend_RateLimitsRepeatedFailures(t *testing.T) {
	b := New(newMemCreds(), time.Hour, zerolog.Nop())
	ctx := context.Background()

	if _, err := b.SignUp(ctx, "ana@r3alm.io", "hunter22", nil); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	for i := 0; i < maxFailedAttempts; i++ {
		if _, err := b.SignInWithPassword(ctx, "c1", "ana@r3alm.io", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: err = %v, want ErrInvalidCredentials", i, err)
		}
	}

	// Even the right password is refused while throttled.
	_, err := b.SignInWithPassword(ctx, "c1", "ana@r3alm.io", "hunter22")
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
}

func TestBackend_DuplicateSignUp(t *testing.T) {
	b := New(newMemCreds(), time.Hour, zerolog.Nop())
	ctx := context.Background()

	if _, err := b.SignUp(ctx, "ana@r3alm.io", "hunter22", nil); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	_, err := b.SignUp(ctx, "ana@r3alm.io", "other-pw", nil)
	if !errors.Is(err, domain.ErrAlreadyRegistered) {
		t.Fatalf("err = %v, want ErrAlreadyRegistered", err)
	}
}

func TestBackend_SignOutEmitsSignedOutEvent(t *testing.T) {
	b := New(newMemCreds(), time.Hour, zerolog.Nop())
	ctx := context.Background()

	var mu sync.Mutex
	var events []ports.AuthEvent
	b.Subscribe(func(ev ports.AuthEvent) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})

	if _, err := b.SignUp(ctx, "ana@r3alm.io", "hunter22", nil); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if _, err := b.SignInWithPassword(ctx, "c1", "ana@r3alm.io", "hunter22"); err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}
	if err := b.SignOut(ctx, "c1"); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 2 {
		t.Fatalf("got %d events, want sign-in then sign-out", len(events))
	}
	if events[0].Session == nil || events[0].ClientID != "c1" {
		t.Fatalf("first event = %+v, want signed-in", events[0])
	}
	if events[1].Session != nil {
		t.Fatalf("second event = %+v, want signed-out (nil session)", events[1])
	}

	if cur, _ := b.CurrentSession(ctx, "c1"); cur != nil {
		t.Fatalf("session must be gone after sign-out")
	}
}

func TestBackend_ExpiredSessionReadsAsSignedOut(t *testing.T) {
	b := New(newMemCreds(), time.Millisecond, zerolog.Nop())
	ctx := context.Background()

	if _, err := b.SignUp(ctx, "ana@r3alm.io", "hunter22", nil); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if _, err := b.SignInWithPassword(ctx, "c1", "ana@r3alm.io", "hunter22"); err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	cur, err := b.CurrentSession(ctx, "c1")
	if err != nil {
		t.Fatalf("CurrentSession: %v", err)
	}
	if cur != nil {
		t.Fatalf("expired session must read as nil, got %+v", cur)
	}
}
