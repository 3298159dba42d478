package http

import (
	"net/http"

	"github.com/aussiebroadwan/agentboard/pkg/httpx"
)

// Operator token scopes.
const (
	ScopeAgentsRead  = "agents:read"
	ScopeAgentsWrite = "agents:write"
)

// authorizeAgent admits the agent itself or an operator holding scope. An
// agent asking about any other agent gets a 404 so ids cannot be probed.
// It writes the response and returns false when access is denied.
func authorizeAgent(w http.ResponseWriter, r *http.Request, agentID, scope string) bool {
	p, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Missing bearer token", nil)
		return false
	}

	switch {
	case p.IsAgent():
		if p.Subject != agentID {
			writeNotFound(w)
			return false
		}
		return true
	case p.HasScope(scope):
		return true
	default:
		httpx.WriteInsufficientScope(w, scope)
		return false
	}
}
