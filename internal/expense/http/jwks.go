package http

import (
	"net/http"

	"github.com/aussiebroadwan/expenseflow/pkg/expensesdk"
	"github.com/aussiebroadwan/expenseflow/pkg/httpx"
	"github.com/aussiebroadwan/expenseflow/pkg/jwtx"
)

// JWKSHandler publishes the public keys that verify session tokens,
// including retired keys still inside their grace period.
//
//	@Summary		Get JWKS
//	@Description	Returns the JSON Web Key Set used to verify session tokens.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	expensesdk.JWKSResponse	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, expensesdk.JWKSResponse(keys.PublicJWKS()))
	}
}
