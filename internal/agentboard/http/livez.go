package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/agentboard/pkg/agentsdk"
	"github.com/aussiebroadwan/agentboard/pkg/httpx"
)

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe. Always 200 while the process is serving.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	agentsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get]
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, agentsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
