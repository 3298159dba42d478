package httpx

import (
	"net/http"
	"strings"
)

// RequireScopes admits operator principals holding every listed scope.
// Agent principals are refused.
func RequireScopes(required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeUnauthorized(w, "Missing bearer token")
				return
			}

			for _, s := range required {
				if !p.HasScope(s) {
					WriteInsufficientScope(w, required...)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WriteInsufficientScope is the RFC 6750 insufficient_scope response.
func WriteInsufficientScope(w http.ResponseWriter, required ...string) {
	scope := strings.Join(required, " ")
	w.Header().Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+scope+`"`)
	WriteError(w, http.StatusForbidden, CodeForbidden, "Insufficient scope", map[string]any{"required": required})
}
