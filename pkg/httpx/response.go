package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aussiebroadwan/agentboard/pkg/pagination"
)

// Error codes carried in the error envelope.
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

// TimestampLayout is RFC 3339 with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Envelope is the body of every API response.
type Envelope struct {
	Success    bool             `json:"success"`
	Data       any              `json:"data,omitempty"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
	Error      *ErrorBody       `json:"error,omitempty"`
	Timestamp  string           `json:"timestamp"`
}

type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Now is the clock used for envelope timestamps.
var Now = time.Now

func timestamp() string { return Now().UTC().Format(TimestampLayout) }

// WriteJSON writes a JSON response with the given status code. Responses are
// never cacheable.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// WriteData writes a success envelope around data.
func WriteData(w http.ResponseWriter, code int, data any) {
	WriteJSON(w, code, Envelope{Success: true, Data: data, Timestamp: timestamp()})
}

// WriteList writes a success envelope for one page of a list.
func WriteList[T any](w http.ResponseWriter, page pagination.Page[T]) {
	meta := page.Pagination
	WriteJSON(w, http.StatusOK, Envelope{
		Success:    true,
		Data:       page.Items,
		Pagination: &meta,
		Timestamp:  timestamp(),
	})
}

// WriteError writes an error envelope. details may be nil.
func WriteError(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	WriteJSON(w, status, Envelope{
		Success:   false,
		Error:     &ErrorBody{Code: code, Message: message, Details: details},
		Timestamp: timestamp(),
	})
}
