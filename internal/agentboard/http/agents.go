package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/metrics"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/service"
	"github.com/aussiebroadwan/agentboard/pkg/agentsdk"
	"github.com/aussiebroadwan/agentboard/pkg/httpx"
	"github.com/aussiebroadwan/agentboard/pkg/pagination"
)

// AgentsHandler serves the agent registry and its paginated sub-resources.
type AgentsHandler struct {
	AgentService *service.AgentService
	Metrics      *metrics.Metrics

	// Now drives the derived key status; nil means time.Now.
	Now func() time.Time
}

func (h *AgentsHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// listParams parses limit and cursor, writing the error response itself.
func (h *AgentsHandler) listParams(w http.ResponseWriter, r *http.Request) (pagination.Params, bool) {
	params, err := h.AgentService.Paginator.ParseQuery(r.URL.Query())
	if err != nil {
		var cerr *pagination.CursorError
		if errors.As(err, &cerr) {
			h.Metrics.RecordCursorError(string(cerr.Kind))
		}
		writeError(w, r, err)
		return pagination.Params{}, false
	}
	return params, true
}

// HandleCreate handles POST /v1/agents
//
//	@Summary		Register an agent
//	@Description	Creates an agent and returns its first API key. The key is shown once.
//	@Tags			Agents
//	@Accept			json
//	@Produce		json
//	@Param			body	body		agentsdk.CreateAgentRequest								true	"Agent"
//	@Success		201		{object}	httpx.Envelope{data=agentsdk.CreateAgentResponse}
//	@Failure		400		{object}	httpx.Envelope{error=httpx.ErrorBody}	"VALIDATION_ERROR"
//	@Failure		401		{object}	httpx.Envelope{error=httpx.ErrorBody}	"UNAUTHORIZED"
//	@Failure		403		{object}	httpx.Envelope{error=httpx.ErrorBody}	"FORBIDDEN - requires agents:write"
//	@Failure		409		{object}	httpx.Envelope{error=httpx.ErrorBody}	"CONFLICT - name in use"
//	@Security		BearerAuth
//	@Router			/v1/agents [post]
func (h *AgentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req agentsdk.CreateAgentRequest
	if err := decodeBody(r, createAgentSchema, &req); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.AgentService.CreateAgent(r.Context(), service.CreateAgentRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusCreated, agentsdk.CreateAgentResponse{
		Agent:  toSDKAgent(created.Agent),
		APIKey: created.APIKey,
	})
}

// HandleList handles GET /v1/agents
//
//	@Summary		List agents
//	@Description	Oldest first. Follow pagination.nextCursor for the next page; cursors expire after 5 minutes.
//	@Tags			Agents
//	@Produce		json
//	@Param			limit	query		int		false	"Page size (1-100, default 20)"
//	@Param			cursor	query		string	false	"Opaque cursor from a previous page"
//	@Success		200		{object}	httpx.Envelope{data=[]agentsdk.Agent,pagination=pagination.Meta}
//	@Failure		400		{object}	httpx.Envelope{error=httpx.ErrorBody}	"INVALID_CURSOR"
//	@Failure		401		{object}	httpx.Envelope{error=httpx.ErrorBody}	"UNAUTHORIZED"
//	@Failure		403		{object}	httpx.Envelope{error=httpx.ErrorBody}	"FORBIDDEN - requires agents:read"
//	@Security		BearerAuth
//	@Router			/v1/agents [get]
func (h *AgentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	params, ok := h.listParams(w, r)
	if !ok {
		return
	}

	page, err := h.AgentService.ListAgents(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteList(w, pagination.Map(page, toSDKAgent))
}

// HandleGet handles GET /v1/agents/{agentId}
//
//	@Summary	Get an agent
//	@Tags		Agents
//	@Produce	json
//	@Param		agentId	path		string	true	"Agent ID"
//	@Success	200		{object}	httpx.Envelope{data=agentsdk.Agent}
//	@Failure	401		{object}	httpx.Envelope{error=httpx.ErrorBody}	"UNAUTHORIZED"
//	@Failure	403		{object}	httpx.Envelope{error=httpx.ErrorBody}	"FORBIDDEN - requires agents:read"
//	@Failure	404		{object}	httpx.Envelope{error=httpx.ErrorBody}	"NOT_FOUND"
//	@Security	BearerAuth
//	@Router		/v1/agents/{agentId} [get]
func (h *AgentsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	agentID := r.PathValue("agentId")
	if !authorizeAgent(w, r, agentID, ScopeAgentsRead) {
		return
	}

	a, err := h.AgentService.GetAgent(r.Context(), agentID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, toSDKAgent(a))
}

// HandleMe handles GET /v1/agents/me
//
//	@Summary	The calling agent
//	@Tags		Agents
//	@Produce	json
//	@Success	200	{object}	httpx.Envelope{data=agentsdk.Agent}
//	@Failure	401	{object}	httpx.Envelope{error=httpx.ErrorBody}	"UNAUTHORIZED"
//	@Failure	403	{object}	httpx.Envelope{error=httpx.ErrorBody}	"FORBIDDEN - operator tokens have no agent"
//	@Security	BearerAuth
//	@Router		/v1/agents/me [get]
func (h *AgentsHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFromContext(r.Context())
	if !p.IsAgent() {
		httpx.WriteError(w, http.StatusForbidden, httpx.CodeForbidden, "Only agent API keys identify an agent", nil)
		return
	}

	a, err := h.AgentService.GetAgent(r.Context(), p.Subject)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, toSDKAgent(a))
}

// HandleListKeys handles GET /v1/agents/{agentId}/keys
//
//	@Summary		List an agent's API keys
//	@Description	Newest first. Keys superseded by a rotation show status grace until they expire.
//	@Tags			Agents
//	@Produce		json
//	@Param			agentId	path		string	true	"Agent ID"
//	@Param			limit	query		int		false	"Page size (1-100, default 20)"
//	@Param			cursor	query		string	false	"Opaque cursor from a previous page"
//	@Success		200		{object}	httpx.Envelope{data=[]agentsdk.APIKey,pagination=pagination.Meta}
//	@Failure		400		{object}	httpx.Envelope{error=httpx.ErrorBody}	"INVALID_CURSOR"
//	@Failure		404		{object}	httpx.Envelope{error=httpx.ErrorBody}	"NOT_FOUND"
//	@Security		BearerAuth
//	@Router			/v1/agents/{agentId}/keys [get]
func (h *AgentsHandler) HandleListKeys(w http.ResponseWriter, r *http.Request) {
	agentID := r.PathValue("agentId")
	if !authorizeAgent(w, r, agentID, ScopeAgentsRead) {
		return
	}
	params, ok := h.listParams(w, r)
	if !ok {
		return
	}

	page, err := h.AgentService.ListKeys(r.Context(), agentID, params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteList(w, pagination.Map(page, toSDKKey(h.now())))
}

// HandleListRotations handles GET /v1/agents/{agentId}/rotations
//
//	@Summary	List an agent's key rotations
//	@Tags		Agents
//	@Produce	json
//	@Param		agentId	path		string	true	"Agent ID"
//	@Param		limit	query		int		false	"Page size (1-100, default 20)"
//	@Param		cursor	query		string	false	"Opaque cursor from a previous page"
//	@Success	200		{object}	httpx.Envelope{data=[]agentsdk.KeyRotation,pagination=pagination.Meta}
//	@Failure	400		{object}	httpx.Envelope{error=httpx.ErrorBody}	"INVALID_CURSOR"
//	@Failure	404		{object}	httpx.Envelope{error=httpx.ErrorBody}	"NOT_FOUND"
//	@Security	BearerAuth
//	@Router		/v1/agents/{agentId}/rotations [get]
func (h *AgentsHandler) HandleListRotations(w http.ResponseWriter, r *http.Request) {
	agentID := r.PathValue("agentId")
	if !authorizeAgent(w, r, agentID, ScopeAgentsRead) {
		return
	}
	params, ok := h.listParams(w, r)
	if !ok {
		return
	}

	page, err := h.AgentService.ListRotations(r.Context(), agentID, params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteList(w, pagination.Map(page, toSDKRotation))
}
