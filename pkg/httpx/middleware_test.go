package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/expenseflow/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func fakeAuthenticate(ctx context.Context, token string) (context.Context, error) {
	switch token {
	case "admin-token":
		return httpx.WithIdentity(ctx, "4", "sid-4", "admin"), nil
	case "requestor-token":
		return httpx.WithIdentity(ctx, "1", "sid-1", "requestor"), nil
	default:
		return ctx, errors.New("unknown token")
	}
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"user": httpx.UserIDFromContext(r.Context()),
		"role": httpx.RoleFromContext(r.Context()),
		"sid":  httpx.SessionIDFromContext(r.Context()),
	})
}

func TestTokenFromRequest(t *testing.T) {
	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer abc")
		tok, err := httpx.TokenFromRequest(req)
		require.NoError(t, err)
		require.Equal(t, "abc", tok)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: httpx.SessionCookieName, Value: "xyz"})
		tok, err := httpx.TokenFromRequest(req)
		require.NoError(t, err)
		require.Equal(t, "xyz", tok)
	})

	t.Run("non bearer scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
		_, err := httpx.TokenFromRequest(req)
		require.ErrorIs(t, err, httpx.ErrNoToken)
	})

	t.Run("nothing", func(t *testing.T) {
		_, err := httpx.TokenFromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
		require.ErrorIs(t, err, httpx.ErrNoToken)
	})
}

func TestAuthnMiddleware(t *testing.T) {
	required := httpx.AuthnMiddleware(fakeAuthenticate, false)(http.HandlerFunc(whoAmI))
	optional := httpx.AuthnMiddleware(fakeAuthenticate, true)(http.HandlerFunc(whoAmI))

	t.Run("valid token populates identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer admin-token")
		rec := httptest.NewRecorder()
		required.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var got map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		require.Equal(t, map[string]string{"user": "4", "role": "admin", "sid": "sid-4"}, got)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		required.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("bad token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: httpx.SessionCookieName, Value: "forged"})
		rec := httptest.NewRecorder()
		required.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("optional passes anonymous through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: httpx.SessionCookieName, Value: "forged"})
		rec := httptest.NewRecorder()
		optional.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"user":""`)
	})
}

func TestRequireAnyRole(t *testing.T) {
	h := httpx.Chain(http.HandlerFunc(whoAmI),
		httpx.AuthnMiddleware(fakeAuthenticate, true),
		httpx.RequireAnyRole("admin"),
	)

	for _, tc := range []struct {
		name  string
		token string
		want  int
	}{
		{"admin allowed", "admin-token", http.StatusOK},
		{"requestor forbidden", "requestor-token", http.StatusForbidden},
		{"anonymous unauthorized", "", http.StatusUnauthorized},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler, mark("outer"), mark("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"outer", "inner"}, order)
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Username string `json:"username"`
	}

	t.Run("decodes", func(t *testing.T) {
		var b body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"admin"}`))
		require.NoError(t, httpx.DecodeJSON(httptest.NewRecorder(), req, &b))
		require.Equal(t, "admin", b.Username)
	})

	t.Run("empty body is fine", func(t *testing.T) {
		var b body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		require.NoError(t, httpx.DecodeJSON(httptest.NewRecorder(), req, &b))
		require.Empty(t, b.Username)
	})

	t.Run("trailing data rejected", func(t *testing.T) {
		var b body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"a"}{}`))
		require.Error(t, httpx.DecodeJSON(httptest.NewRecorder(), req, &b))
	})
}
