package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/expenseflow/pkg/httpx"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(t.Context(), envconfig.MapLookuper(nil))
	require.NoError(t, err)

	require.Equal(t, "expenseflow", cfg.Issuer)
	require.Equal(t, "expenseflow.db", cfg.DatabaseFile)
	require.Equal(t, KeyStoragePersistent, cfg.KeyStorageMode)
	require.Equal(t, "master.key", cfg.MasterKeyFile)
	require.Equal(t, 1, cfg.NumKeys)
	require.Equal(t, 720*time.Hour, cfg.KeyGracePeriod)
	require.Zero(t, cfg.SessionTTL)
	require.False(t, cfg.CookieSecure)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, time.Hour, cfg.HousekeepingInterval)
	require.Equal(t, httpx.DefaultRateLimitProfiles(), cfg.RateLimits())
}

func TestLoadConfigRateLimits(t *testing.T) {
	cfg, err := loadConfig(t.Context(), envconfig.MapLookuper(map[string]string{
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "30",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_BURST":    "0",
		"RATELIMIT_PUBLIC_REQUESTS":   "-5",
	}))
	require.NoError(t, err)

	limits := cfg.RateLimits()
	require.Equal(t, httpx.RateLimitConfig{RequestsPerWindow: 1000, Window: 30 * time.Second, Burst: 1000}, limits.Strict)
	require.Equal(t, httpx.ModerateLimit, limits.Moderate)
	require.Equal(t, httpx.LenientLimit, limits.Lenient)
	require.Equal(t, httpx.PublicLimit, limits.Public)

	_, err = loadConfig(t.Context(), envconfig.MapLookuper(map[string]string{
		"RATELIMIT_LENIENT_WINDOW_SEC": "soon",
	}))
	require.Error(t, err)
}

func TestConfiguredLoginLimitApplies(t *testing.T) {
	cfg := testConfig(t, t.TempDir())
	cfg.KeyStorageMode = KeyStorageEphemeral
	cfg.RateLimitStrict = RateLimitOverride{Requests: 1, Burst: 1}

	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.db.Close() })

	status := func() int {
		req := httptest.NewRequest(http.MethodPost, "/v1/session", strings.NewReader(`{"username":"admin","password":"pw"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		a.Handler().ServeHTTP(rec, req)
		return rec.Code
	}
	require.Equal(t, http.StatusOK, status())
	require.Equal(t, http.StatusTooManyRequests, status())
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := loadConfig(t.Context(), envconfig.MapLookuper(map[string]string{
		"EXPENSE_KEY_STORAGE_MODE": "ephemeral",
		"SESSION_TTL":              "8h",
		"COOKIE_SECURE":            "true",
		"PORT":                     "9090",
	}))
	require.NoError(t, err)
	require.Equal(t, KeyStorageEphemeral, cfg.KeyStorageMode)
	require.Equal(t, 8*time.Hour, cfg.SessionTTL)
	require.True(t, cfg.CookieSecure)
	require.Equal(t, 9090, cfg.Port)

	_, err = loadConfig(t.Context(), envconfig.MapLookuper(map[string]string{
		"EXPENSE_KEY_STORAGE_MODE": "vault",
	}))
	require.ErrorContains(t, err, "EXPENSE_KEY_STORAGE_MODE")

	_, err = loadConfig(t.Context(), envconfig.MapLookuper(map[string]string{
		"SESSION_TTL": "-1h",
	}))
	require.Error(t, err)
}

func testConfig(t *testing.T, dir string) Config {
	t.Helper()

	cfg, err := loadConfig(t.Context(), envconfig.MapLookuper(map[string]string{
		"EXPENSE_DATABASE_FILE":   filepath.Join(dir, "expenseflow.db"),
		"EXPENSE_MASTER_KEY_FILE": filepath.Join(dir, "master.key"),
		"LOG_LEVEL":               "error",
	}))
	require.NoError(t, err)
	return cfg
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/session", strings.NewReader(`{"username":"admin","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out.Token
}

func menuStatus(h http.Handler, token string) int {
	req := httptest.NewRequest(http.MethodGet, "/v1/menu", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestPersistentSessionsSurviveRestart(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)

	first, err := New(cfg)
	require.NoError(t, err)
	token := login(t, first.Handler())
	require.Equal(t, http.StatusOK, menuStatus(first.Handler(), token))
	require.NoError(t, first.db.Close())

	info, err := os.Stat(cfg.MasterKeyFile)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.db.Close() })

	require.Equal(t, http.StatusOK, menuStatus(second.Handler(), token))
}

func TestEphemeralSessionsDieWithProcess(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	cfg.KeyStorageMode = KeyStorageEphemeral

	first, err := New(cfg)
	require.NoError(t, err)
	token := login(t, first.Handler())
	require.NoError(t, first.db.Close())

	second, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.db.Close() })

	require.Equal(t, http.StatusUnauthorized, menuStatus(second.Handler(), token))

	_, err = os.Stat(cfg.MasterKeyFile)
	require.ErrorIs(t, err, os.ErrNotExist, "ephemeral mode never touches the master key")
}
