package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
	"github.com/R3almCollectibles/session-gateway/internal/core/ports"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, clientID string) string {
	t.Helper()
	claims := jwt.MapClaims{"cid": clientID, "exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

// stubSessions serves a fixed session regardless of client.
type stubSessions struct {
	session domain.Session
}

func (s *stubSessions) Snapshot(ctx context.Context, clientID string) domain.Session { return s.session }
func (s *stubSessions) SignIn(ctx context.Context, clientID, email, password string) (domain.Session, string, error) {
	return s.session, "", nil
}
func (s *stubSessions) SignUp(ctx context.Context, clientID, email, password, name string) (string, error) {
	return "", nil
}
func (s *stubSessions) SignOut(ctx context.Context, clientID string) error { return nil }
func (s *stubSessions) LoginWithDemo(ctx context.Context, clientID, persona string) (domain.Session, string, error) {
	return s.session, "", nil
}
func (s *stubSessions) Notices(clientID string) []domain.Notice { return nil }
func (s *stubSessions) ActiveSessions() []ports.SessionInfo     { return nil }

func invoke(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/portfolio", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	err := handler(c)
	return rec, c, err
}

func TestRequireAuth_AdmitsAuthenticatedClient(t *testing.T) {
	sessions := &stubSessions{session: domain.Session{
		Principal:       &domain.Principal{ID: "u1", Name: "Ana", RoleTag: "creator"},
		IsAuthenticated: true,
	}}
	mw := RequireAuth(testSecret, sessions)

	rec, c, err := invoke(t, mw, "Bearer "+signToken(t, testSecret, "c1"))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got, _ := c.Get("client_id").(string); got != "c1" {
		t.Fatalf("client_id = %q, want c1", got)
	}
	if got, _ := c.Get("role").(string); got != "creator" {
		t.Fatalf("role = %q, want creator", got)
	}
	if p, _ := c.Get("principal").(*domain.Principal); p == nil || p.ID != "u1" {
		t.Fatalf("principal not injected")
	}
}

func TestRequireAuth_MissingToken(t *testing.T) {
	mw := RequireAuth(testSecret, &stubSessions{})

	_, _, err := invoke(t, mw, "")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	mw := RequireAuth(testSecret, &stubSessions{})

	_, _, err := invoke(t, mw, "Bearer "+signToken(t, "other-secret", "c1"))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}

func TestRequireAuth_PendingSessionAnswers503(t *testing.T) {
	sessions := &stubSessions{session: domain.Session{Loading: true}}
	mw := RequireAuth(testSecret, sessions)

	rec, _, err := invoke(t, mw, "Bearer "+signToken(t, testSecret, "c1"))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusServiceUnavailable {
		t.Fatalf("err = %v, want 503", err)
	}
	if rec.Header().Get("Retry-After") != "1" {
		t.Fatalf("missing Retry-After hint")
	}
}

func TestRequireAuth_UnauthenticatedSession(t *testing.T) {
	sessions := &stubSessions{session: domain.Session{Loading: false}}
	mw := RequireAuth(testSecret, sessions)

	_, _, err := invoke(t, mw, "Bearer "+signToken(t, testSecret, "c1"))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}

func TestClientID(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name   string
		header string
		wantID string
		wantOK bool
	}{
		{"valid", "Bearer " + signTokenStatic(testSecret, "c42"), "c42", true},
		{"lowercase scheme", "bearer " + signTokenStatic(testSecret, "c42"), "c42", true},
		{"no header", "", "", false},
		{"not bearer", "Basic abc123", "", false},
		{"garbage token", "Bearer not.a.jwt", "", false},
		{"missing cid claim", "Bearer " + signTokenStatic(testSecret, ""), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			id, ok := ClientID(c, testSecret)
			if id != tt.wantID || ok != tt.wantOK {
				t.Fatalf("ClientID = (%q, %v), want (%q, %v)", id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func signTokenStatic(secret, clientID string) string {
	claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
	if clientID != "" {
		claims["cid"] = clientID
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	return token
}
