package expensesdk

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeServer accepts john.doe with any non-empty password and serves the
// authenticated endpoints for the token it issued.
func fakeServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	deletes := new(atomic.Int32)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/session", func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			ErrInvalidRequest.WriteError(w)
			return
		}
		if req.Username != "john.doe" || req.Password == "" {
			ErrInvalidCredentials.WriteError(w)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(LoginResponse{
			Token:     "tok-1",
			SessionID: "sid-1",
			User:      User{ID: "1", Username: "john.doe", FullName: "John Doe", Role: "requestor"},
		})
	})
	mux.HandleFunc("DELETE /v1/session", func(w http.ResponseWriter, r *http.Request) {
		deletes.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /v1/pages/{page}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			ErrInvalidToken.WriteError(w)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(View{Page: r.PathValue("page"), Title: r.URL.Query().Get("q")})
	})
	mux.HandleFunc("POST /v1/pages/{page}/actions/{action}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("action") != "export" {
			ErrUnknownAction.WriteError(w)
			return
		}
		(&ValidationError{
			Message: "invalid form",
			Details: map[string]string{"format": "format is required"},
		}).WriteError(w)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, deletes
}

func TestLoginPersistsAndRestores(t *testing.T) {
	t.Parallel()

	srv, _ := fakeServer(t)
	client := NewClient(srv.URL + "/")
	storage := NewMemoryStorage()

	sess, ok, err := client.Login(t.Context(), storage, "john.doe", "secret")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, sess.IsAuthenticated())
	require.Equal(t, "John Doe", sess.User().FullName)

	_, stored, err := storage.Get(StorageKey)
	require.NoError(t, err)
	require.True(t, stored)

	restored, err := client.Restore(storage)
	require.NoError(t, err)
	require.True(t, restored.IsAuthenticated())
	require.Equal(t, sess.User(), restored.User())
	require.Equal(t, "tok-1", restored.Token())
	require.Equal(t, "sid-1", restored.ID())
}

func TestLoginRejected(t *testing.T) {
	t.Parallel()

	srv, _ := fakeServer(t)
	client := NewClient(srv.URL)
	storage := NewMemoryStorage()

	sess, ok, err := client.Login(t.Context(), storage, "nonexistent", "x")
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, sess.IsAuthenticated())

	_, stored, err := storage.Get(StorageKey)
	require.NoError(t, err)
	require.False(t, stored)
}

func TestRestore(t *testing.T) {
	t.Parallel()

	client := NewClient("http://unused")

	t.Run("empty storage", func(t *testing.T) {
		sess, err := client.Restore(NewMemoryStorage())
		require.NoError(t, err)
		require.False(t, sess.IsAuthenticated())
		require.Nil(t, sess.User())
	})

	t.Run("stored user is trusted verbatim", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Set(StorageKey, []byte(`{"token":"t","user":{"id":"4","username":"admin","role":"admin"}}`)))

		sess, err := client.Restore(storage)
		require.NoError(t, err)
		require.True(t, sess.IsAuthenticated())
		require.Equal(t, "admin", sess.User().Role)
	})

	t.Run("corrupt value is dropped", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Set(StorageKey, []byte(`{not json`)))

		sess, err := client.Restore(storage)
		require.NoError(t, err)
		require.False(t, sess.IsAuthenticated())

		_, stored, err := storage.Get(StorageKey)
		require.NoError(t, err)
		require.False(t, stored)
	})

	t.Run("value without a user id is dropped", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Set(StorageKey, []byte(`{"token":"t","user":{"username":"admin"}}`)))

		sess, err := client.Restore(storage)
		require.NoError(t, err)
		require.False(t, sess.IsAuthenticated())
		require.Empty(t, sess.Token())

		_, stored, err := storage.Get(StorageKey)
		require.NoError(t, err)
		require.False(t, stored)
	})
}

func TestLogoutClearsStorage(t *testing.T) {
	t.Parallel()

	srv, deletes := fakeServer(t)
	client := NewClient(srv.URL)
	storage := NewFileStorage(filepath.Join(t.TempDir(), "state"))

	sess, ok, err := client.Login(t.Context(), storage, "john.doe", "pw")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, sess.Logout(t.Context()))
	require.False(t, sess.IsAuthenticated())
	require.Empty(t, sess.Token())
	require.EqualValues(t, 1, deletes.Load())

	restored, err := client.Restore(storage)
	require.NoError(t, err)
	require.False(t, restored.IsAuthenticated())

	// Logging out an anonymous session is harmless.
	require.NoError(t, restored.Logout(t.Context()))
	require.EqualValues(t, 1, deletes.Load())
}

func TestSessionCalls(t *testing.T) {
	t.Parallel()

	srv, _ := fakeServer(t)
	client := NewClient(srv.URL)

	sess, ok, err := client.Login(t.Context(), NewMemoryStorage(), "john.doe", "pw")
	require.NoError(t, err)
	require.True(t, ok)

	view, err := sess.Page(t.Context(), "track-requests", map[string][]string{"q": {"travel"}})
	require.NoError(t, err)
	require.Equal(t, "track-requests", view.Page)
	require.Equal(t, "travel", view.Title)

	_, err = sess.Action(t.Context(), "reports", "archive", nil)
	require.ErrorIs(t, err, ErrUnknownAction)

	_, err = sess.Action(t.Context(), "reports", "export", map[string]string{})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, http.StatusBadRequest, ve.StatusCode)
	require.Equal(t, "format is required", ve.Details["format"])

	anon, err := client.Restore(NewMemoryStorage())
	require.NoError(t, err)
	_, err = anon.Menu(t.Context())
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestFileStorage(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested")
	fs := NewFileStorage(dir)

	_, ok, err := fs.Get(StorageKey)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, fs.Set(StorageKey, []byte("v")))
	info, err := os.Stat(filepath.Join(dir, StorageKey))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	v, ok, err := fs.Get(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v"), v)

	require.NoError(t, fs.Delete(StorageKey))
	require.NoError(t, fs.Delete(StorageKey))

	require.Error(t, fs.Set("../escape", []byte("x")))
}

func TestParseErrorResponseFallback(t *testing.T) {
	t.Parallel()

	err := parseErrorResponse(&http.Response{StatusCode: http.StatusBadGateway}, []byte("<html>"))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, ErrorCodeServerError, apiErr.Code)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)

	require.NoError(t, parseErrorResponse(&http.Response{StatusCode: http.StatusOK}, nil))
}
