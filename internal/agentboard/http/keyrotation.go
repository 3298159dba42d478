package http

import (
	"net/http"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/domain"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/service"
	"github.com/aussiebroadwan/agentboard/pkg/httpx"
)

// KeyRotationHandler rotates agent API keys. The agent itself or an operator
// with agents:write may rotate.
type KeyRotationHandler struct {
	KeyRotationService *service.KeyRotationService
}

// rotateKeyBody mirrors agentsdk.RotateKeyRequest. The schema has already
// guaranteed gracePeriodSeconds is a whole number; float64 also accepts 60.0.
type rotateKeyBody struct {
	Reason             string   `json:"reason"`
	GracePeriodSeconds *float64 `json:"gracePeriodSeconds"`
}

// HandleRotate handles POST /v1/agents/{agentId}/rotate-key
//
//	@Summary		Rotate an agent's API key
//	@Description	Mints a new key. Every currently valid key keeps working until oldKeyExpiresAt = rotatedAt + gracePeriodSeconds.
//	@Description	At most 3 rotations per agent in any trailing hour; further attempts get 429 with retryAfterSeconds.
//	@Tags			Agents
//	@Accept			json
//	@Produce		json
//	@Param			agentId	path		string						true	"Agent ID"
//	@Param			body	body		agentsdk.RotateKeyRequest	false	"Rotation options"
//	@Success		200		{object}	httpx.Envelope{data=agentsdk.RotateKeyResponse}
//	@Failure		400		{object}	httpx.Envelope{error=httpx.ErrorBody}	"VALIDATION_ERROR"
//	@Failure		401		{object}	httpx.Envelope{error=httpx.ErrorBody}	"UNAUTHORIZED"
//	@Failure		403		{object}	httpx.Envelope{error=httpx.ErrorBody}	"FORBIDDEN - requires agents:write"
//	@Failure		404		{object}	httpx.Envelope{error=httpx.ErrorBody}	"NOT_FOUND"
//	@Failure		429		{object}	httpx.Envelope{error=httpx.ErrorBody}	"RATE_LIMITED"
//	@Header			429		{integer}	Retry-After	"Seconds until a rotation slot frees up"
//	@Security		BearerAuth
//	@Router			/v1/agents/{agentId}/rotate-key [post]
func (h *KeyRotationHandler) HandleRotate(w http.ResponseWriter, r *http.Request) {
	agentID := r.PathValue("agentId")
	if !authorizeAgent(w, r, agentID, ScopeAgentsWrite) {
		return
	}

	var body rotateKeyBody
	if err := decodeBody(r, rotateKeySchema, &body); err != nil {
		writeError(w, r, err)
		return
	}

	reason, err := domain.ParseRotationReason(body.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var seconds int
	if body.GracePeriodSeconds != nil {
		seconds = int(*body.GracePeriodSeconds)
	}
	grace, err := domain.NewGracePeriod(seconds)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.KeyRotationService.RotateAgentKey(r.Context(), service.RotateKeyRequest{
		AgentID:     agentID,
		Reason:      reason,
		GracePeriod: grace,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, toSDKRotateResult(res))
}
