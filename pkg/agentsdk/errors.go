package agentsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Error codes returned in the error envelope.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeRateLimited   = "RATE_LIMITED"
	CodeInvalidCursor = "INVALID_CURSOR"
	CodeInternal      = "INTERNAL_ERROR"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int            `json:"-"`
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`

	// RequestID echoes X-Request-Id for support requests.
	RequestID string `json:"-"`

	// RetryAfter is set on 429 responses.
	RetryAfter time.Duration `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("agentboard: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

func (e *APIError) IsRateLimited() bool { return e.Code == CodeRateLimited }
func (e *APIError) IsNotFound() bool    { return e.Code == CodeNotFound }

// parseErrorResponse builds an APIError from an error envelope. Bodies that
// are not envelopes (proxies, panics) still yield an error with the status.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get("X-Request-Id"),
	}

	var env struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		apiErr.Details = env.Error.Details
	} else {
		apiErr.Code = http.StatusText(resp.StatusCode)
		apiErr.Message = string(body)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		apiErr.RetryAfter = retryAfter(resp, apiErr.Details)
	}

	return apiErr
}

// retryAfter prefers the precise details value over the header.
func retryAfter(resp *http.Response, details map[string]any) time.Duration {
	if v, ok := details["retryAfterSeconds"].(float64); ok && v > 0 {
		return time.Duration(v) * time.Second
	}
	if n, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return 0
}
