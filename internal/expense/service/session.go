package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/expenseflow/internal/expense/domain"
	"github.com/aussiebroadwan/expenseflow/internal/expense/store"
	"github.com/aussiebroadwan/expenseflow/pkg/cryptox"
	"github.com/aussiebroadwan/expenseflow/pkg/idx"
	"github.com/aussiebroadwan/expenseflow/pkg/jwtx"
	"github.com/aussiebroadwan/expenseflow/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrNoSession          = errors.New("no_session")
)

// LoginResult is an authenticated session plus the token that restores it.
type LoginResult struct {
	Session domain.Session
	Token   string
}

// SessionService resolves identities. Any non-empty password is accepted
// for a known username; there is no credential store.
type SessionService struct {
	Store  store.Store
	Keys   *jwtx.KeyManager
	Issuer string

	// TTL bounds session age. Zero means sessions never expire.
	TTL time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Login looks username up and, on a match, persists a snapshot of the user
// under a new session and signs a token for it. Unknown users and empty
// passwords are indistinguishable to the caller.
func (s *SessionService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	l := slogx.FromContext(ctx)

	if username == "" || password == "" {
		l.Info("login rejected", slog.String("reason", "missing_credentials"))
		return LoginResult{}, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		l.Info("login rejected", slog.String("reason", "unknown_user"), slog.String("username", username))
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("lookup user: %w", err)
	}

	now := s.now()
	sid := idx.NewAt(now).String()

	claims := jwtx.NewSessionClaims(
		user.ID, sid,
		user.Username, user.FullName, string(user.Role), user.Department,
		s.Issuer, s.TTL, now,
	)
	token, err := s.Keys.Sign(claims)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign session token: %w", err)
	}

	rec, err := domain.NewSessionRecord(sid, user, cryptox.FingerprintToken(token), now)
	if err != nil {
		return LoginResult{}, err
	}
	if err := s.Store.Sessions().CreateSession(ctx, rec); err != nil {
		return LoginResult{}, fmt.Errorf("create session: %w", err)
	}

	l.Info("login succeeded",
		slog.String("sid", sid),
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
	)

	return LoginResult{
		Session: domain.Session{
			ID:         sid,
			User:       &user,
			CreatedAt:  now,
			LastSeenAt: now,
		},
		Token: token,
	}, nil
}

// Logout deletes the session record. A missing record is not an error.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.Store.Sessions().DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	slogx.FromContext(ctx).Info("logout", slog.String("sid", sessionID))
	return nil
}

// Restore turns a session token back into the session it was issued for.
// The user is the login snapshot, never re-read from the users table. Any
// failure yields an anonymous session and ErrNoSession, except store errors
// which are returned as-is.
func (s *SessionService) Restore(ctx context.Context, token string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, ErrNoSession
	}

	claims, err := s.Keys.Verify(token)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %w", ErrNoSession, err)
	}
	if claims.SID == "" {
		return domain.Session{}, fmt.Errorf("%w: token has no sid", ErrNoSession)
	}

	rec, err := s.Store.Sessions().GetSession(ctx, claims.SID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Session{}, fmt.Errorf("%w: session %s not found", ErrNoSession, claims.SID)
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(rec.TokenHash), []byte(cryptox.FingerprintToken(token))) != 1 {
		return domain.Session{}, fmt.Errorf("%w: token does not match session %s", ErrNoSession, rec.ID)
	}

	now := s.now()
	if s.TTL > 0 && now.Sub(rec.CreatedAt) > s.TTL {
		_ = s.Store.Sessions().DeleteSession(ctx, rec.ID)
		return domain.Session{}, fmt.Errorf("%w: session %s expired", ErrNoSession, rec.ID)
	}

	if err := s.Store.Sessions().TouchSession(ctx, rec.ID, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, fmt.Errorf("%w: session %s removed", ErrNoSession, rec.ID)
		}
		slogx.FromContext(ctx).Warn("failed to touch session", slog.String("sid", rec.ID), slog.Any("error", err))
	} else {
		rec.LastSeenAt = now
	}

	return rec.Session()
}

// ListSessions returns every stored session. Records whose snapshot no
// longer decodes are skipped.
func (s *SessionService) ListSessions(ctx context.Context) ([]domain.Session, error) {
	recs, err := s.Store.Sessions().ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	out := make([]domain.Session, 0, len(recs))
	for _, rec := range recs {
		sess, err := rec.Session()
		if err != nil {
			slogx.FromContext(ctx).Warn("skipping unreadable session", slog.String("sid", rec.ID), slog.Any("error", err))
			continue
		}
		out = append(out, sess)
	}
	return out, nil
}
