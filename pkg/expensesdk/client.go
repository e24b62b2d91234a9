package expensesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the ExpenseFlow service. It performs the unauthenticated
// calls and creates Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// persistedSession is what Login writes to Storage under StorageKey.
type persistedSession struct {
	Token     string `json:"token"`
	SessionID string `json:"sessionId"`
	User      User   `json:"user"`
}

// Login authenticates username and persists the session to storage. It
// reports false, with no error, when the credentials are rejected; the
// returned session is then unauthenticated and storage is untouched.
func (c *Client) Login(ctx context.Context, storage Storage, username, password string) (*Session, bool, error) {
	body, err := json.Marshal(LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/session", bytes.NewReader(body), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return nil, false, err
	}

	var loginResp LoginResponse
	if err := decodeJSON(resp, &loginResp, http.StatusOK); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return newSession(c, storage, persistedSession{}), false, nil
		}
		return nil, false, err
	}

	state := persistedSession{
		Token:     loginResp.Token,
		SessionID: loginResp.SessionID,
		User:      loginResp.User,
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := storage.Set(StorageKey, raw); err != nil {
		return nil, false, fmt.Errorf("failed to persist session: %w", err)
	}

	return newSession(c, storage, state), true, nil
}

// Restore rebuilds the session persisted in storage without asking the
// server. A stored value that decodes to a user with an ID yields an
// authenticated session; anything else an unauthenticated one. Stored
// values that fail to decode, or that carry no user ID, are removed from
// storage.
func (c *Client) Restore(storage Storage) (*Session, error) {
	raw, ok, err := storage.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if !ok {
		return newSession(c, storage, persistedSession{}), nil
	}

	var state persistedSession
	if err := json.Unmarshal(raw, &state); err != nil || state.User.ID == "" {
		_ = storage.Delete(StorageKey)
		return newSession(c, storage, persistedSession{}), nil
	}

	return newSession(c, storage, state), nil
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.getHealth(ctx, "/livez")
}

// GetReadiness checks if the service is ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.getHealth(ctx, "/readyz")
}

func (c *Client) getHealth(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetJWKS retrieves the public keys that verify session tokens.
func (c *Client) GetJWKS(ctx context.Context) (*JWKSResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/.well-known/jwks.json", nil, nil)
	if err != nil {
		return nil, err
	}

	var jwks JWKSResponse
	if err := decodeJSON(resp, &jwks, http.StatusOK); err != nil {
		return nil, err
	}
	return &jwks, nil
}

// pagePath escapes page into the /v1/pages/{page} path.
func pagePath(page string, rest ...string) string {
	p := "/v1/pages/" + url.PathEscape(page)
	for _, r := range rest {
		p += "/" + url.PathEscape(r)
	}
	return p
}
