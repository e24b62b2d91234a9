package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/expenseflow/internal/expense/domain"
	"github.com/aussiebroadwan/expenseflow/pkg/expensesdk"
	"github.com/aussiebroadwan/expenseflow/pkg/httpx"
	"github.com/aussiebroadwan/expenseflow/pkg/slogx"
)

type sessionCtxKey struct{}

func withSession(ctx context.Context, s domain.Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// SessionFromContext returns the session the authn middleware resolved.
func SessionFromContext(ctx context.Context) (domain.Session, bool) {
	s, ok := ctx.Value(sessionCtxKey{}).(domain.Session)
	return s, ok && s.IsAuthenticated()
}

// authenticate is the httpx.AuthenticateFunc for session tokens.
func (r *Router) authenticate(ctx context.Context, token string) (context.Context, error) {
	sess, err := r.SessionService.Restore(ctx, token)
	if err != nil {
		return ctx, err
	}

	role := string(sess.Role())
	ctx = withSession(ctx, sess)
	ctx = httpx.WithIdentity(ctx, sess.User.ID, sess.ID, role)
	ctx = slogx.WithSession(ctx, sess.ID, sess.User.Username, role)
	return ctx, nil
}

// mustSession fetches the session for handlers mounted behind the
// required authn middleware. A miss is a wiring bug.
func mustSession(w http.ResponseWriter, r *http.Request) (domain.Session, bool) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		slogx.FromContext(r.Context()).Error("session accessed outside session middleware",
			"path", r.URL.Path,
		)
		expensesdk.ErrServerError.WriteError(w)
	}
	return sess, ok
}

func toUser(u domain.User) expensesdk.User {
	return expensesdk.User{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Role:       string(u.Role),
		Department: u.Department,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
	}
}
