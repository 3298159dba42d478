package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/metrics"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/service"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/store"
	"github.com/aussiebroadwan/agentboard/pkg/httpx"
	"github.com/aussiebroadwan/agentboard/pkg/jwtx"
	"github.com/aussiebroadwan/agentboard/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/aussiebroadwan/agentboard/api/agentboard" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     *jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	metrics      *metrics.Metrics
	gatherer     prometheus.Gatherer

	store              store.Store
	AgentService       *service.AgentService
	KeyRotationService *service.KeyRotationService

	// Now is the clock for derived response fields; nil means time.Now.
	Now func() time.Time
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier *jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		metrics:      m,
		gatherer:     gatherer,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAgents()
	r.registerKeyRotation()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			agentboard API
//	@version		0.1.0
//	@description	Agent registry with paginated listings and rate-limited API key rotation.
//	@description
//	@description				Agents authenticate with their API key (Bearer ab_...). Operators use EdDSA-signed JWTs carrying agents:read / agents:write scopes; the public keys are at /.well-known/jwks.json.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/agentboard
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Agent API key or operator JWT. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) authn() httpx.Middleware {
	return httpx.AuthnMiddleware(httpx.Authenticator{
		APIKeyPrefix: service.APIKeyPrefix,
		APIKeys:      r.AgentService,
		Operators:    r.verifier,
	})
}

func (r *Router) onReject(profile string, _ *http.Request) {
	r.metrics.RecordRateLimitRejection(profile)
}

func (r *Router) registerAgents() {
	h := &AgentsHandler{
		AgentService: r.AgentService,
		Metrics:      r.metrics,
		Now:          r.Now,
	}

	// POST /v1/agents - operator only, strict limit (mints credentials)
	r.Mux.Handle("POST /v1/agents",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			r.authn(),
			httpx.RequireScopes(ScopeAgentsWrite),
			httpx.RateLimitByPrincipal(httpx.StrictLimit, r.onReject),
		),
	)

	// GET /v1/agents - operator only
	r.Mux.Handle("GET /v1/agents",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			r.authn(),
			httpx.RequireScopes(ScopeAgentsRead),
			httpx.RateLimitByPrincipal(httpx.ModerateLimit, r.onReject),
		),
	)

	// Per-agent reads: the agent itself or an operator with agents:read.
	// Ownership is checked in the handler since it depends on the path.
	perAgent := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			r.authn(),
			httpx.RateLimitByPrincipal(httpx.ModerateLimit, r.onReject),
		)
	}

	r.Mux.Handle("GET /v1/agents/me", perAgent(h.HandleMe))
	r.Mux.Handle("GET /v1/agents/{agentId}", perAgent(h.HandleGet))
	r.Mux.Handle("GET /v1/agents/{agentId}/keys", perAgent(h.HandleListKeys))
	r.Mux.Handle("GET /v1/agents/{agentId}/rotations", perAgent(h.HandleListRotations))
}

func (r *Router) registerKeyRotation() {
	h := &KeyRotationHandler{KeyRotationService: r.KeyRotationService}

	// The per-agent rotation quota lives in the service; the token bucket
	// here only guards the endpoint against hammering.
	r.Mux.Handle("POST /v1/agents/{agentId}/rotate-key",
		httpx.Chain(http.HandlerFunc(h.HandleRotate),
			r.authn(),
			httpx.RateLimitByPrincipal(httpx.ModerateLimit, r.onReject),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - public limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit, r.onReject),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit, r.onReject),
		),
	)
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit, r.onReject),
		),
	)
	r.Mux.Handle("GET /metrics",
		httpx.Chain(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}),
			httpx.RateLimitByIP(httpx.PublicLimit, r.onReject),
		),
	)
}
