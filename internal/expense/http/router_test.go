package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	expensehttp "github.com/aussiebroadwan/expenseflow/internal/expense/http"
	"github.com/aussiebroadwan/expenseflow/internal/expense/metrics"
	"github.com/aussiebroadwan/expenseflow/internal/expense/service"
	"github.com/aussiebroadwan/expenseflow/internal/expense/store/drivers/sqlite"
	"github.com/aussiebroadwan/expenseflow/internal/expense/views"
	"github.com/aussiebroadwan/expenseflow/pkg/expensesdk"
	"github.com/aussiebroadwan/expenseflow/pkg/httpx"
	"github.com/aussiebroadwan/expenseflow/pkg/jwtx"
)

const testIssuer = "expenseflow-test"

type testEnv struct {
	srv      *httptest.Server
	sessions *service.SessionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := t.Context()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	users, err := service.SeedUsers()
	require.NoError(t, err)
	_, err = (&service.SeedService{Store: st, Users: users}).Seed(ctx)
	require.NoError(t, err)

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: testIssuer})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sessions := &service.SessionService{Store: st, Keys: km, Issuer: testIssuer}

	router := expensehttp.NewRouter(km, "test", st, metrics.NewCollector(reg), logger)
	router.SessionService = sessions
	router.KeyRotationService = &service.KeyRotationService{KeyManager: km}
	router.Views = views.MustNewRouter()
	router.Gatherer = reg
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, sessions: sessions}
}

// browser returns a client that keeps the session cookie like a browser.
func (e *testEnv) browser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func (e *testEnv) login(t *testing.T, c *http.Client, username string) expensesdk.LoginResponse {
	t.Helper()

	body, _ := json.Marshal(expensesdk.LoginRequest{Username: username, Password: "pw"})
	resp, err := c.Post(e.srv.URL+"/v1/session", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out expensesdk.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func getJSON(t *testing.T, c *http.Client, rawURL string, wantStatus int, out any) {
	t.Helper()

	resp, err := c.Get(rawURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, wantStatus, resp.StatusCode)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
}

func postJSON(t *testing.T, c *http.Client, rawURL, body string, wantStatus int, out any) {
	t.Helper()

	resp, err := c.Post(rawURL, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, wantStatus, resp.StatusCode)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	env := newTestEnv(t)
	c := env.browser(t)

	out := env.login(t, c, "john.doe")
	require.NotEmpty(t, out.Token)
	require.NotEmpty(t, out.SessionID)
	require.Equal(t, "John Doe", out.User.FullName)
	require.Equal(t, "requestor", out.User.Role)

	u, _ := url.Parse(env.srv.URL)
	cookies := c.Jar.Cookies(u)
	require.Len(t, cookies, 1)
	require.Equal(t, httpx.SessionCookieName, cookies[0].Name)
	require.Equal(t, out.Token, cookies[0].Value)

	var me expensesdk.SessionResponse
	getJSON(t, c, env.srv.URL+"/v1/session", http.StatusOK, &me)
	require.True(t, me.Authenticated)
	require.Equal(t, out.SessionID, me.SessionID)
	require.Equal(t, "john.doe", me.User.Username)
}

func TestLoginWithForm(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.PostForm(env.srv.URL+"/v1/session", url.Values{
		"username": {"jane.smith"},
		"password": {"pw"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out expensesdk.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, "approver", out.User.Role)
}

func TestLoginRejected(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{
		`{"username":"nonexistent","password":"x"}`,
		`{"username":"john.doe","password":""}`,
		`{}`,
	} {
		var out expensesdk.ErrorResponse
		postJSON(t, http.DefaultClient, env.srv.URL+"/v1/session", body, http.StatusUnauthorized, &out)
		require.Equal(t, "invalid_credentials", out.Error, body)
		require.Equal(t, "Invalid username or password", out.ErrorDescription)
	}

	postJSON(t, http.DefaultClient, env.srv.URL+"/v1/session", `{"username":`, http.StatusBadRequest, nil)
}

func TestAnonymousAccess(t *testing.T) {
	env := newTestEnv(t)

	var me expensesdk.SessionResponse
	getJSON(t, http.DefaultClient, env.srv.URL+"/v1/session", http.StatusOK, &me)
	require.False(t, me.Authenticated)
	require.Nil(t, me.User)

	var e expensesdk.ErrorResponse
	getJSON(t, http.DefaultClient, env.srv.URL+"/v1/menu", http.StatusUnauthorized, &e)
	require.Equal(t, "invalid_token", e.Error)

	getJSON(t, http.DefaultClient, env.srv.URL+"/v1/pages/dashboard", http.StatusUnauthorized, nil)
}

func TestBearerTokenAccepted(t *testing.T) {
	env := newTestEnv(t)
	out := env.login(t, http.DefaultClient, "mike.wilson")

	req, err := http.NewRequest(http.MethodGet, env.srv.URL+"/v1/menu", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+out.Token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var menu expensesdk.MenuResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&menu))
	require.Equal(t, "accounts", menu.Role)
	require.Equal(t, "Final Approvals", menu.Items[1].Label)
}

func TestMenuFollowsRole(t *testing.T) {
	env := newTestEnv(t)

	admin := env.browser(t)
	env.login(t, admin, "admin")

	var menu expensesdk.MenuResponse
	getJSON(t, admin, env.srv.URL+"/v1/menu", http.StatusOK, &menu)
	require.Equal(t, "admin", menu.Role)

	groups := map[string]bool{}
	for _, it := range menu.Items {
		if it.Group {
			groups[it.ID] = true
			require.NotEmpty(t, it.Children)
		}
	}
	require.True(t, groups["management"])
	require.True(t, groups["system"])

	requestor := env.browser(t)
	env.login(t, requestor, "john.doe")
	var flat expensesdk.MenuResponse
	getJSON(t, requestor, env.srv.URL+"/v1/menu", http.StatusOK, &flat)
	require.Equal(t, "requestor", flat.Role)
	require.Len(t, flat.Items, 7)
	require.Equal(t, "dashboard", flat.Items[0].ID)

	ids := make([]string, 0, len(flat.Items))
	for _, it := range flat.Items {
		require.False(t, it.Group)
		ids = append(ids, it.ID)
	}
	require.Contains(t, ids, "file-expense")
}

func TestRenderPages(t *testing.T) {
	env := newTestEnv(t)
	c := env.browser(t)
	env.login(t, c, "john.doe")

	var v expensesdk.View
	getJSON(t, c, env.srv.URL+"/v1/pages/dashboard", http.StatusOK, &v)
	require.Equal(t, "dashboard", v.Page)
	require.Equal(t, "My Dashboard", v.Title)
	require.Empty(t, v.Requested)

	getJSON(t, c, env.srv.URL+"/v1/pages/no-such-page", http.StatusOK, &v)
	require.Equal(t, "dashboard", v.Page)
	require.Equal(t, "no-such-page", v.Requested)

	getJSON(t, c, env.srv.URL+"/v1/pages/track-requests", http.StatusOK, &v)
	all := v.Total
	require.Equal(t, all, v.Matched)

	getJSON(t, c, env.srv.URL+"/v1/pages/track-requests?q=zzzz-no-match", http.StatusOK, &v)
	require.Equal(t, all, v.Total)
	require.Zero(t, v.Matched)
	require.Empty(t, v.Records)

	getJSON(t, c, env.srv.URL+"/v1/pages/file-expense", http.StatusOK, &v)
	require.Equal(t, []string{"submit"}, v.Actions)
}

func TestPageActions(t *testing.T) {
	env := newTestEnv(t)
	c := env.browser(t)
	env.login(t, c, "john.doe")

	var ack expensesdk.ActionResponse
	postJSON(t, c, env.srv.URL+"/v1/pages/reports/actions/export", `{"format":"pdf"}`, http.StatusOK, &ack)
	require.Equal(t, "Exporting report as PDF...", ack.Message)

	var ve expensesdk.ValidationErrorResponse
	postJSON(t, c, env.srv.URL+"/v1/pages/reports/actions/export", `{"format":"docx"}`, http.StatusBadRequest, &ve)
	require.Equal(t, "validation_error", ve.Code)
	require.Contains(t, ve.Details, "format")

	var e expensesdk.ErrorResponse
	postJSON(t, c, env.srv.URL+"/v1/pages/reports/actions/archive", `{}`, http.StatusNotFound, &e)
	require.Equal(t, "unknown_action", e.Error)

	postJSON(t, c, env.srv.URL+"/v1/pages/notifications/actions/mark-all-read", ``, http.StatusOK, &ack)
	require.Equal(t, "All notifications marked as read", ack.Message)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	env := newTestEnv(t)

	requestor := env.browser(t)
	env.login(t, requestor, "john.doe")

	var e expensesdk.ErrorResponse
	getJSON(t, requestor, env.srv.URL+"/v1/admin/sessions", http.StatusForbidden, &e)
	require.Equal(t, "access_denied", e.Error)
	postJSON(t, requestor, env.srv.URL+"/v1/admin/keys/rotate", ``, http.StatusForbidden, nil)

	admin := env.browser(t)
	env.login(t, admin, "admin")

	var list expensesdk.ListSessionsResponse
	getJSON(t, admin, env.srv.URL+"/v1/admin/sessions", http.StatusOK, &list)
	require.Len(t, list.Sessions, 2)

	var rot expensesdk.RotateKeysResponse
	postJSON(t, admin, env.srv.URL+"/v1/admin/keys/rotate", ``, http.StatusOK, &rot)
	require.NotEmpty(t, rot.Kids)
	require.False(t, rot.Persistent)

	// sessions signed before the rotation stay valid
	getJSON(t, requestor, env.srv.URL+"/v1/menu", http.StatusOK, nil)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	c := env.browser(t)
	out := env.login(t, c, "john.doe")

	req, err := http.NewRequest(http.MethodDelete, env.srv.URL+"/v1/session", nil)
	require.NoError(t, err)
	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	u, _ := url.Parse(env.srv.URL)
	require.Empty(t, c.Jar.Cookies(u), "cookie is cleared")

	list, err := env.sessions.ListSessions(t.Context())
	require.NoError(t, err)
	require.Empty(t, list)

	// the old token no longer restores
	req, err = http.NewRequest(http.MethodGet, env.srv.URL+"/v1/menu", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+out.Token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// anonymous logout still succeeds
	req, err = http.NewRequest(http.MethodDelete, env.srv.URL+"/v1/session", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestSystemEndpoints(t *testing.T) {
	env := newTestEnv(t)

	var health expensesdk.HealthResponse
	getJSON(t, http.DefaultClient, env.srv.URL+"/livez", http.StatusOK, &health)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "test", health.Version)

	getJSON(t, http.DefaultClient, env.srv.URL+"/readyz", http.StatusOK, &health)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Signer)

	var jwks expensesdk.JWKSResponse
	getJSON(t, http.DefaultClient, env.srv.URL+"/.well-known/jwks.json", http.StatusOK, &jwks)
	require.NotEmpty(t, jwks.Keys)
	require.Equal(t, "OKP", jwks.Keys[0].Kty)

	env.login(t, http.DefaultClient, "john.doe")

	resp, err := http.Get(env.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `expenseflow_logins_total{result="success"} 1`)
	require.Contains(t, string(body), `route="GET /livez"`)
}

func TestHandlerOutsideSessionMiddleware(t *testing.T) {
	h := &expensehttp.PagesHandler{Views: views.MustNewRouter(), Metrics: metrics.NewCollector(prometheus.NewRegistry())}

	rec := httptest.NewRecorder()
	h.HandleRender(rec, httptest.NewRequest(http.MethodGet, "/v1/pages/dashboard", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "server_error")
}
