package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/store"
	"github.com/aussiebroadwan/agentboard/pkg/agentsdk"
	"github.com/aussiebroadwan/agentboard/pkg/httpx"
	"github.com/aussiebroadwan/agentboard/pkg/jwtx"
	"github.com/aussiebroadwan/agentboard/pkg/slogx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe: the database answers and operator token keys are loaded.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	agentsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	agentsdk.HealthResponse	"service not ready"
//	@Router			/readyz [get]
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	keys *jwtx.KeySet,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &agentsdk.HealthChecks{
			Database: "ok",
			Signer:   "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			slogx.FromContext(r.Context()).Warn("readiness: database ping failed", "error", err)
			checks.Database = "error"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if !keys.IsReady() {
			checks.Signer = "error: no keys loaded"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, agentsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
