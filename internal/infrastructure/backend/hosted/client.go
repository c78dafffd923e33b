// Package hosted implements ports.AuthBackend against the hosted
// auth-as-a-service REST API (AUTH_MODE=hosted). The gateway brokers one
// backend token per client and polls the backend to translate token
// invalidation into auth-state change events.
package hosted

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
	"github.com/R3almCollectibles/session-gateway/internal/core/ports"
)

const defaultRequestTimeout = 10 * time.Second

// Config captures the connection settings for the hosted auth service.
type Config struct {
	BaseURL string
	APIKey  string
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

type tokenRecord struct {
	session ports.BackendSession
}

type Client struct {
	base   string
	apiKey string
	http   *http.Client
	log    zerolog.Logger

	mu     sync.Mutex
	tokens map[string]tokenRecord
	subs   []func(ports.AuthEvent)
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &Client{
		base:   cfg.BaseURL,
		apiKey: cfg.APIKey,
		http:   hc,
		log:    log,
		tokens: make(map[string]tokenRecord),
	}
}

type userPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int         `json:"expires_in"`
	User        userPayload `json:"user"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (c *Client) CurrentSession(ctx context.Context, clientID string) (*ports.BackendSession, error) {
	c.mu.Lock()
	rec, ok := c.tokens[clientID]
	c.mu.Unlock()
	if !ok {
		return nil, nil
	}
	if time.Now().After(rec.session.ExpiresAt) {
		c.drop(clientID)
		return nil, nil
	}

	// Verify the token is still honoured server-side.
	status, _, err := c.do(ctx, http.MethodGet, "/user", nil, rec.session.AccessToken)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		c.drop(clientID)
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("auth backend: unexpected status %d from /user", status)
	}

	out := rec.session
	return &out, nil
}

func (c *Client) SignInWithPassword(ctx context.Context, clientID, email, password string) (*ports.BackendSession, error) {
	body := map[string]string{"email": email, "password": password}
	status, raw, err := c.do(ctx, http.MethodPost, "/token?grant_type=password", body, "")
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusUnauthorized:
		return nil, domain.ErrInvalidCredentials
	case http.StatusTooManyRequests:
		return nil, domain.ErrRateLimited
	default:
		return nil, fmt.Errorf("auth backend: sign-in status %d: %s", status, apiMessage(raw))
	}

	var tr tokenResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return nil, fmt.Errorf("auth backend: decode token response: %w", err)
	}

	sess := ports.BackendSession{
		UserID:      tr.User.ID,
		Email:       tr.User.Email,
		AccessToken: tr.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}

	c.mu.Lock()
	c.tokens[clientID] = tokenRecord{session: sess}
	c.mu.Unlock()

	c.emit(ports.AuthEvent{ClientID: clientID, Session: &sess})
	return &sess, nil
}

func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]string) (*ports.BackendSession, error) {
	body := map[string]any{"email": email, "password": password, "data": metadata}
	status, raw, err := c.do(ctx, http.MethodPost, "/signup", body, "")
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK, http.StatusCreated:
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return nil, domain.ErrAlreadyRegistered
	case http.StatusTooManyRequests:
		return nil, domain.ErrRateLimited
	default:
		return nil, fmt.Errorf("auth backend: sign-up status %d: %s", status, apiMessage(raw))
	}

	var user userPayload
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("auth backend: decode sign-up response: %w", err)
	}

	// No token: the account waits for email confirmation.
	return &ports.BackendSession{UserID: user.ID, Email: user.Email}, nil
}

func (c *Client) SignOut(ctx context.Context, clientID string) error {
	c.mu.Lock()
	rec, ok := c.tokens[clientID]
	c.mu.Unlock()
	if !ok {
		return nil
	}

	c.drop(clientID)

	status, raw, err := c.do(ctx, http.MethodPost, "/logout", nil, rec.session.AccessToken)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent && status != http.StatusOK && status != http.StatusUnauthorized {
		return fmt.Errorf("auth backend: sign-out status %d: %s", status, apiMessage(raw))
	}
	return nil
}

func (c *Client) Subscribe(fn func(ev ports.AuthEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

func (c *Client) emit(ev ports.AuthEvent) {
	c.mu.Lock()
	subs := make([]func(ports.AuthEvent), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

func (c *Client) drop(clientID string) {
	c.mu.Lock()
	delete(c.tokens, clientID)
	c.mu.Unlock()
}

func (c *Client) do(ctx context.Context, method, path string, body any, bearer string) (int, []byte, error) {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("auth backend: encode request: %w", err)
		}
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, buf)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("auth backend: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, fmt.Errorf("auth backend: read response: %w", err)
	}
	return resp.StatusCode, raw, nil
}

func apiMessage(raw []byte) string {
	var er errorResponse
	if json.Unmarshal(raw, &er) == nil && er.Message != "" {
		return er.Message
	}
	return string(raw)
}
