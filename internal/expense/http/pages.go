package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/expenseflow/internal/expense/domain"
	"github.com/aussiebroadwan/expenseflow/internal/expense/metrics"
	"github.com/aussiebroadwan/expenseflow/internal/expense/views"
	"github.com/aussiebroadwan/expenseflow/pkg/expensesdk"
	"github.com/aussiebroadwan/expenseflow/pkg/httpx"
	"github.com/aussiebroadwan/expenseflow/pkg/slogx"
)

type PagesHandler struct {
	Views   *views.Router
	Metrics metrics.Recorder
}

// HandleRender godoc
//
//	@Summary		Render a page
//	@Description	Renders the view for a page key. Unknown keys render the dashboard and echo the key in "requested".
//	@Description	The session role selects role-specific variants. "q" searches every text field; any other
//	@Description	query parameter filters on the matching column ("all" or empty disables a filter).
//	@Tags			Pages
//	@Produce		json
//	@Param			page	path		string	true	"Page key"	example(track-requests)
//	@Param			q		query		string	false	"Case-insensitive search term"
//	@Success		200		{object}	expensesdk.View
//	@Failure		401		{object}	expensesdk.ErrorResponse	"No valid session"
//	@Security		BearerAuth
//	@Router			/v1/pages/{page} [get].
func (h *PagesHandler) HandleRender(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	key := domain.PageKey(r.PathValue("page"))
	v, err := h.Views.Render(sess, key, views.QueryFromValues(r.URL.Query()))
	if err != nil {
		slogx.FromContext(r.Context()).Error("render failed", slog.String("page", key.String()), slog.Any("error", err))
		expensesdk.ErrServerError.WriteError(w)
		return
	}
	h.Metrics.RecordPageRender(v.Page.String())

	httpx.WriteJSON(w, http.StatusOK, toView(v))
}

// HandleAction godoc
//
//	@Summary		Submit a page action
//	@Description	Validates the JSON form for a page action and acknowledges it. The submission is not stored.
//	@Tags			Pages
//	@Accept			json
//	@Produce		json
//	@Param			page	path		string	true	"Page key"		example(file-expense)
//	@Param			action	path		string	true	"Action name"	example(submit)
//	@Param			request	body		object	false	"Form payload"
//	@Success		200		{object}	expensesdk.ActionResponse
//	@Failure		400		{object}	expensesdk.ValidationErrorResponse	"validation_error"
//	@Failure		401		{object}	expensesdk.ErrorResponse			"No valid session"
//	@Failure		404		{object}	expensesdk.ErrorResponse			"unknown_action"
//	@Security		BearerAuth
//	@Router			/v1/pages/{page}/actions/{action} [post].
func (h *PagesHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustSession(w, r); !ok {
		return
	}
	log := slogx.FromContext(r.Context())

	page := domain.PageKey(r.PathValue("page"))
	name := r.PathValue("action")

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, httpx.MaxBodyBytes))
	if err != nil {
		expensesdk.NewAPIError(http.StatusBadRequest, expensesdk.ErrorCodeInvalidRequest, "request body too large or unreadable").WriteError(w)
		return
	}

	res, err := h.Views.Perform(page, name, payload)
	var ve *views.ValidationError
	switch {
	case err == nil:
		h.Metrics.RecordAction(page.String(), name, metrics.ActionAccepted)
		log.Info("page action accepted", slog.String("page", page.String()), slog.String("action", name))
		httpx.WriteJSON(w, http.StatusOK, expensesdk.ActionResponse{
			Page:    res.Page.String(),
			Action:  res.Action,
			Message: res.Message,
		})

	case errors.Is(err, views.ErrUnknownAction):
		h.Metrics.RecordAction(page.String(), name, metrics.ActionUnknown)
		expensesdk.ErrUnknownAction.WriteError(w)

	case errors.As(err, &ve):
		h.Metrics.RecordAction(page.String(), name, metrics.ActionInvalid)
		(&expensesdk.ValidationError{Message: ve.Message, Details: ve.Details}).WriteError(w)

	case errors.Is(err, views.ErrValidation):
		h.Metrics.RecordAction(page.String(), name, metrics.ActionInvalid)
		(&expensesdk.ValidationError{Message: err.Error()}).WriteError(w)

	default:
		log.Error("page action failed", slog.String("page", page.String()), slog.Any("error", err))
		expensesdk.ErrServerError.WriteError(w)
	}
}

func toView(v views.View) expensesdk.View {
	out := expensesdk.View{
		Page:      v.Page.String(),
		Requested: v.Requested,
		Title:     v.Title,
		Variant:   v.Variant,
		Records:   make([]map[string]any, len(v.Records)),
		Total:     v.Total,
		Matched:   v.Matched,
		Actions:   v.Actions,
	}
	for i, rec := range v.Records {
		out.Records[i] = rec
	}
	for _, hl := range v.Highlights {
		out.Highlights = append(out.Highlights, expensesdk.Highlight{Label: hl.Label, Value: hl.Value, Detail: hl.Detail})
	}
	for _, st := range v.Stats {
		out.Stats = append(out.Stats, expensesdk.Stat{Label: st.Label, Value: st.Value})
	}
	return out
}
