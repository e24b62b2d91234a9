package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/expenseflow/pkg/slogx"
)

// SessionCookieName is the cookie browsers keep the session token in.
const SessionCookieName = "currentUser"

// ErrNoToken is returned by TokenFromRequest when neither a cookie nor a
// bearer header is present.
var ErrNoToken = errors.New("httpx: no session token")

// AuthenticateFunc resolves a raw session token into an enriched context.
// It must call WithIdentity on success.
type AuthenticateFunc func(ctx context.Context, token string) (context.Context, error)

// TokenFromRequest prefers the Authorization bearer header and falls back
// to the session cookie.
func TokenFromRequest(r *http.Request) (string, error) {
	if authz := r.Header.Get("Authorization"); authz != "" {
		if !strings.HasPrefix(authz, "Bearer ") {
			return "", ErrNoToken
		}
		raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
		if raw == "" {
			return "", ErrNoToken
		}
		return raw, nil
	}

	c, err := r.Cookie(SessionCookieName)
	if err != nil || strings.TrimSpace(c.Value) == "" {
		return "", ErrNoToken
	}
	return c.Value, nil
}

// AuthnMiddleware authenticates every request through fn. When optional is
// true, requests without a usable token pass through anonymously instead of
// being rejected.
func AuthnMiddleware(fn AuthenticateFunc, optional bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, err := TokenFromRequest(r)
			if err != nil {
				if optional {
					next.ServeHTTP(w, r)
					return
				}
				writeBearerError(w, "missing session token")
				return
			}

			authed, err := fn(ctx, raw)
			if err != nil {
				log.Warn("session authentication failed", "err", err)
				if optional {
					next.ServeHTTP(w, r)
					return
				}
				writeBearerError(w, "session is invalid or expired")
				return
			}

			next.ServeHTTP(w, r.WithContext(authed))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "invalid_token",
		"error_description": desc,
	})
}
