package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/domain"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/service"
	"github.com/aussiebroadwan/agentboard/pkg/httpx"
	"github.com/aussiebroadwan/agentboard/pkg/pagination"
	"github.com/aussiebroadwan/agentboard/pkg/slogx"
)

// writeError maps service and domain errors onto the error envelope.
// Anything unrecognised is logged and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		cursorErr *pagination.CursorError
		limited   *service.RateLimitedError
	)

	if v, ok := isValidationError(err); ok {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidation, v.Message, v.details())
		return
	}

	switch {
	case errors.As(err, &cursorErr):
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeInvalidCursor, cursorErr.Message,
			map[string]any{"reason": string(cursorErr.Kind)})

	case errors.Is(err, domain.ErrInvalidReason),
		errors.Is(err, domain.ErrInvalidGracePeriod),
		errors.Is(err, service.ErrInvalidAgentName),
		errors.Is(err, service.ErrInvalidDescription):
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidation, err.Error(), nil)

	case errors.As(err, &limited):
		secs := limited.RetryAfterSeconds()
		w.Header().Set("Retry-After", strconv.Itoa(secs))
		httpx.WriteError(w, http.StatusTooManyRequests, httpx.CodeRateLimited,
			"Key rotation limit reached, try again later",
			map[string]any{"retryAfterSeconds": secs})

	case errors.Is(err, service.ErrAgentNotFound):
		writeNotFound(w)

	case errors.Is(err, service.ErrAgentNameTaken):
		httpx.WriteError(w, http.StatusConflict, httpx.CodeConflict, err.Error(), nil)

	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "Internal server error", nil)
	}
}

func writeNotFound(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, "Agent not found", nil)
}
