package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/agentboard/pkg/idx"
)

// RequestIDHeader is read from requests and always set on responses.
const RequestIDHeader = "X-Request-Id"

const maxRequestIDLen = 128

// HTTPMiddleware logs requests and attaches a contextual logger into request
// context. A usable inbound X-Request-Id is kept, otherwise a ULID is minted.
func HTTPMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			reqID := r.Header.Get(RequestIDHeader)
			if !validRequestID(reqID) {
				reqID = idx.New().String()
			}
			w.Header().Set(RequestIDHeader, reqID)

			logger := base.With(
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			ctx := WithRequestID(WithContext(r.Context(), logger), reqID)
			r = r.WithContext(ctx)

			next.ServeHTTP(rw, r)

			FromContext(ctx).Info("http_request",
				"status", rw.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"user_agent", r.UserAgent(),
			)
		})
	}
}

// validRequestID accepts short printable ASCII ids so they are safe to log
// and echo.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

type responseWriter struct {
	http.ResponseWriter

	status      int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter { return rw.ResponseWriter }
