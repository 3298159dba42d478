package http

import (
	"net/http"

	"github.com/aussiebroadwan/agentboard/pkg/agentsdk"
	"github.com/aussiebroadwan/agentboard/pkg/httpx"
	"github.com/aussiebroadwan/agentboard/pkg/jwtx"
)

// JWKSHandler exposes the keys operator tokens are verified with.
//
//	@Summary		Get JWKS
//	@Description	Returns the JSON Web Key Set used to verify operator JWTs.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	agentsdk.JWKSResponse	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get]
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, agentsdk.JWKSResponse(keys.PublicJWKS()))
	}
}
