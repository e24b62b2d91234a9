package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aussiebroadwan/expenseflow/internal/expense/metrics"
	"github.com/aussiebroadwan/expenseflow/internal/expense/service"
	"github.com/aussiebroadwan/expenseflow/pkg/expensesdk"
	"github.com/aussiebroadwan/expenseflow/pkg/httpx"
	"github.com/aussiebroadwan/expenseflow/pkg/slogx"
)

var loginValidator = validator.New(validator.WithRequiredStructEnabled())

type SessionHandler struct {
	SessionService *service.SessionService
	Metrics        metrics.Recorder
	CookieSecure   bool
}

// HandleLogin godoc
//
//	@Summary		Log in
//	@Description	Resolves the username against the identity store. Any non-empty password is accepted.
//	@Description	On success the session token is returned and also set as the currentUser cookie.
//	@Tags			Session
//	@Accept			json
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		expensesdk.LoginRequest		true	"Credentials"
//	@Success		200		{object}	expensesdk.LoginResponse	"Authenticated session"
//	@Failure		400		{object}	expensesdk.ErrorResponse	"Malformed body"
//	@Failure		401		{object}	expensesdk.ErrorResponse	"invalid_credentials"
//	@Failure		429		{object}	expensesdk.ErrorResponse	"Rate limit exceeded"
//	@Router			/v1/session [post].
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req expensesdk.LoginRequest
	if httpx.IsJSON(r) {
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			log.Info("login rejected", slog.String("reason", "malformed_body"), slog.Any("error", err))
			expensesdk.ErrInvalidRequest.WriteError(w)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			expensesdk.ErrInvalidRequest.WriteError(w)
			return
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	}

	if err := loginValidator.Struct(req); err != nil {
		h.Metrics.RecordLogin(metrics.LoginInvalidCredentials)
		expensesdk.ErrInvalidCredentials.WriteError(w)
		return
	}

	res, err := h.SessionService.Login(ctx, req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.Metrics.RecordLogin(metrics.LoginInvalidCredentials)
		expensesdk.ErrInvalidCredentials.WriteError(w)
		return
	}
	if err != nil {
		h.Metrics.RecordLogin(metrics.LoginError)
		log.Error("login failed", slog.Any("error", err))
		expensesdk.ErrServerError.WriteError(w)
		return
	}
	h.Metrics.RecordLogin(metrics.LoginSuccess)

	cookie := &http.Cookie{
		Name:     httpx.SessionCookieName,
		Value:    res.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl := h.SessionService.TTL; ttl > 0 {
		cookie.Expires = res.Session.CreatedAt.Add(ttl)
		cookie.MaxAge = int(ttl / time.Second)
	}
	http.SetCookie(w, cookie)

	httpx.WriteJSON(w, http.StatusOK, expensesdk.LoginResponse{
		Token:     res.Token,
		SessionID: res.Session.ID,
		User:      toUser(*res.Session.User),
	})
}

// HandleGet godoc
//
//	@Summary		Current session
//	@Description	Reports whether the caller holds a valid session and, if so, the user captured at login.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	expensesdk.SessionResponse
//	@Security		BearerAuth
//	@Router			/v1/session [get].
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		httpx.WriteJSON(w, http.StatusOK, expensesdk.SessionResponse{Authenticated: false})
		return
	}

	u := toUser(*sess.User)
	httpx.WriteJSON(w, http.StatusOK, expensesdk.SessionResponse{
		Authenticated: true,
		SessionID:     sess.ID,
		User:          &u,
	})
}

// HandleLogout godoc
//
//	@Summary		Log out
//	@Description	Deletes the session record, if any, and clears the cookie. Always succeeds.
//	@Tags			Session
//	@Success		204
//	@Security		BearerAuth
//	@Router			/v1/session [delete].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if sid := httpx.SessionIDFromContext(ctx); sid != "" {
		if err := h.SessionService.Logout(ctx, sid); err != nil {
			slogx.FromContext(ctx).Error("logout failed", slog.String("sid", sid), slog.Any("error", err))
		}
	}
	h.Metrics.RecordLogout()

	http.SetCookie(w, &http.Cookie{
		Name:     httpx.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
