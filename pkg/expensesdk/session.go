package expensesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
)

// ErrNotAuthenticated is returned by Session calls that need a login.
var ErrNotAuthenticated = errors.New("expensesdk: session is not authenticated")

// Session is the client-side session: the user captured at login, its
// token and the storage it is persisted in. The zero state is
// unauthenticated.
type Session struct {
	client  *Client
	storage Storage

	mu        sync.RWMutex
	token     string
	sessionID string
	user      *User
}

func newSession(c *Client, storage Storage, state persistedSession) *Session {
	s := &Session{client: c, storage: storage}
	if state.User.ID != "" {
		u := state.User
		s.token = state.Token
		s.sessionID = state.SessionID
		s.user = &u
	}
	return s
}

// IsAuthenticated reports whether a user is present.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// User returns a copy of the current user, or nil.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the session token, empty when unauthenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// ID returns the server-side session ID.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

// Logout clears the session and its persisted copy. The server is asked to
// drop its record on a best-effort basis; only a storage failure is
// reported.
func (s *Session) Logout(ctx context.Context) error {
	if resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/session", nil, nil); err == nil {
		_ = checkStatusNoContent(resp)
	}

	s.mu.Lock()
	s.token = ""
	s.sessionID = ""
	s.user = nil
	s.mu.Unlock()

	if s.storage == nil {
		return nil
	}
	if err := s.storage.Delete(StorageKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Me asks the server who the session belongs to.
func (s *Session) Me(ctx context.Context) (*SessionResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/session", nil, nil)
	if err != nil {
		return nil, err
	}

	var out SessionResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Menu returns the sidebar menu for the session's role.
func (s *Session) Menu(ctx context.Context) (*MenuResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/menu", nil, nil)
	if err != nil {
		return nil, err
	}

	var out MenuResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Page renders page. query carries the search term ("q") and any filter
// parameters; it may be nil.
func (s *Session) Page(ctx context.Context, page string, query url.Values) (*View, error) {
	path := pagePath(page)
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var out View
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Action submits payload to a page action. A rejected form comes back as
// a *ValidationError.
func (s *Session) Action(ctx context.Context, page, action string, payload any) (*ActionResponse, error) {
	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, pagePath(page, "actions", action), bytes.NewReader(body), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return nil, err
	}

	var out ActionResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Sessions lists every active session. Requires the admin role.
func (s *Session) Sessions(ctx context.Context) (*ListSessionsResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/admin/sessions", nil, nil)
	if err != nil {
		return nil, err
	}

	var out ListSessionsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// RotateKeys replaces the session signing keys. Requires the admin role.
func (s *Session) RotateKeys(ctx context.Context) (*RotateKeysResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/admin/keys/rotate", nil, nil)
	if err != nil {
		return nil, err
	}

	var out RotateKeysResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
