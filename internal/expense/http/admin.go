package http

import (
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/expenseflow/internal/expense/service"
	"github.com/aussiebroadwan/expenseflow/pkg/expensesdk"
	"github.com/aussiebroadwan/expenseflow/pkg/httpx"
	"github.com/aussiebroadwan/expenseflow/pkg/slogx"
)

type SessionsHandler struct {
	SessionService *service.SessionService
}

// HandleList godoc
//
//	@Summary		List active sessions
//	@Description	Returns every stored session with the user snapshot taken at login.
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	expensesdk.ListSessionsResponse
//	@Failure		401	{object}	expensesdk.ErrorResponse	"No valid session"
//	@Failure		403	{object}	expensesdk.ErrorResponse	"Not an admin"
//	@Security		BearerAuth
//	@Router			/v1/admin/sessions [get].
func (h *SessionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.SessionService.ListSessions(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to list sessions", slog.Any("error", err))
		expensesdk.ErrServerError.WriteError(w)
		return
	}

	out := expensesdk.ListSessionsResponse{Sessions: make([]expensesdk.SessionInfo, 0, len(list))}
	for _, s := range list {
		out.Sessions = append(out.Sessions, expensesdk.SessionInfo{
			ID:         s.ID,
			User:       toUser(*s.User),
			CreatedAt:  s.CreatedAt,
			LastSeenAt: s.LastSeenAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
