package httpx

import (
	"net/http"
	"slices"
	"strings"
)

// RequireAnyRole the caller's role must be one of the provided roles.
// Anonymous callers are rejected with 401, other roles with 403.
func RequireAnyRole(allowed ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserIDFromContext(r.Context()) == "" {
				writeBearerError(w, "missing session token")
				return
			}

			if !slices.Contains(allowed, RoleFromContext(r.Context())) {
				w.Header().Set("WWW-Authenticate",
					`Bearer error="insufficient_scope", scope="`+strings.Join(allowed, " ")+`"`)
				WriteJSON(w, http.StatusForbidden, map[string]string{
					"error":             "access_denied",
					"error_description": "role not permitted for this resource",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
