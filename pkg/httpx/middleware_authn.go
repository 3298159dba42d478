package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/agentboard/pkg/jwtx"
	"github.com/aussiebroadwan/agentboard/pkg/slogx"
)

// APIKeyAuthenticator resolves a presented API key to the agent that owns it.
// ok is false for unknown or expired keys; err is for lookup failures.
type APIKeyAuthenticator interface {
	AuthenticateAPIKey(ctx context.Context, key string) (agentID string, ok bool, err error)
}

// Authenticator accepts either an agent API key or an operator JWT as a
// bearer token. Tokens starting with APIKeyPrefix are treated as API keys.
type Authenticator struct {
	APIKeyPrefix string
	APIKeys      APIKeyAuthenticator
	Operators    *jwtx.Verifier
}

// AuthnMiddleware rejects requests without valid credentials and stores the
// Principal in the request context.
func AuthnMiddleware(a Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := bearerToken(r)
			if !ok {
				writeUnauthorized(w, "Missing bearer token")
				return
			}

			var p Principal
			switch {
			case a.APIKeyPrefix != "" && strings.HasPrefix(raw, a.APIKeyPrefix):
				agentID, ok, err := a.APIKeys.AuthenticateAPIKey(ctx, raw)
				if err != nil {
					log.Error("api key lookup failed", "err", err)
					WriteError(w, http.StatusInternalServerError, CodeInternal, "Internal server error", nil)
					return
				}
				if !ok {
					writeUnauthorized(w, "Invalid or expired API key")
					return
				}
				p = Principal{Kind: PrincipalAgent, Subject: agentID}

			case a.Operators != nil:
				claims, err := a.Operators.Verify(raw)
				if err != nil {
					log.Warn("jwt verify failed", "err", err)
					writeUnauthorized(w, "Token verification failed")
					return
				}
				p = Principal{Kind: PrincipalOperator, Subject: claims.Subject, Scopes: claims.Scopes}

			default:
				writeUnauthorized(w, "Unsupported credentials")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, p)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(authz, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RFC 6750 challenge plus the JSON error envelope.
func writeUnauthorized(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, CodeUnauthorized, desc, nil)
}
