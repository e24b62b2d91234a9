package http

import (
	"net/http"

	"github.com/aussiebroadwan/expenseflow/internal/expense/navigation"
	"github.com/aussiebroadwan/expenseflow/pkg/expensesdk"
	"github.com/aussiebroadwan/expenseflow/pkg/httpx"
)

type MenuHandler struct{}

// HandleGet godoc
//
//	@Summary		Sidebar menu
//	@Description	Returns the ordered menu tree for the session's role. Unknown roles get the requestor menu.
//	@Tags			Navigation
//	@Produce		json
//	@Success		200	{object}	expensesdk.MenuResponse
//	@Failure		401	{object}	expensesdk.ErrorResponse	"No valid session"
//	@Security		BearerAuth
//	@Router			/v1/menu [get].
func (h *MenuHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	role := sess.Role()
	httpx.WriteJSON(w, http.StatusOK, expensesdk.MenuResponse{
		Role:  string(role),
		Items: toMenuItems(navigation.MenuFor(role)),
	})
}

func toMenuItems(items []navigation.Item) []expensesdk.MenuItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]expensesdk.MenuItem, len(items))
	for i, it := range items {
		out[i] = expensesdk.MenuItem{
			ID:       it.ID,
			Label:    it.Label,
			Icon:     it.Icon,
			Group:    it.Group,
			Expanded: it.Expanded,
			Children: toMenuItems(it.Children),
		}
	}
	return out
}
