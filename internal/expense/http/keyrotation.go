package http

import (
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/expenseflow/internal/expense/metrics"
	"github.com/aussiebroadwan/expenseflow/internal/expense/service"
	"github.com/aussiebroadwan/expenseflow/pkg/expensesdk"
	"github.com/aussiebroadwan/expenseflow/pkg/httpx"
	"github.com/aussiebroadwan/expenseflow/pkg/slogx"
)

// KeyRotationHandler rotates the session signing keys in both ephemeral
// and persistent modes. Admin only.
type KeyRotationHandler struct {
	KeyRotationService *service.KeyRotationService
	Metrics            metrics.Recorder
}

// HandleRotate handles POST /v1/admin/keys/rotate
//
//	@Summary		Rotate signing keys
//	@Description	Replaces the active signing keys. Tokens signed by retired keys keep verifying for the grace period.
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	expensesdk.RotateKeysResponse
//	@Failure		401	{object}	expensesdk.ErrorResponse	"Unauthorized"
//	@Failure		403	{object}	expensesdk.ErrorResponse	"Forbidden - requires the admin role"
//	@Failure		500	{object}	expensesdk.ErrorResponse	"Internal Server Error"
//	@Security		BearerAuth
//	@Router			/v1/admin/keys/rotate [post]
func (h *KeyRotationHandler) HandleRotate(w http.ResponseWriter, r *http.Request) {
	if h.KeyRotationService == nil {
		expensesdk.NewAPIError(http.StatusInternalServerError, expensesdk.ErrorCodeServerError,
			"Key rotation service not initialized").WriteError(w)
		return
	}

	resp, err := h.KeyRotationService.RotateKeys(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("key rotation failed", slog.Any("error", err))
		expensesdk.ErrServerError.WriteError(w)
		return
	}
	h.Metrics.RecordKeyRotation()

	httpx.WriteJSON(w, http.StatusOK, expensesdk.RotateKeysResponse{
		Kids:       resp.Kids,
		Persistent: resp.Persistent,
	})
}
