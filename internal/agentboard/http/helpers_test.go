package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/metrics"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/service"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/store/drivers/sqlite"
	"github.com/aussiebroadwan/agentboard/pkg/cryptox"
	"github.com/aussiebroadwan/agentboard/pkg/httpx"
	"github.com/aussiebroadwan/agentboard/pkg/jwtx"
	"github.com/aussiebroadwan/agentboard/pkg/pagination"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const testIssuer = "https://agentboard.test"

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testServer struct {
	t      *testing.T
	router *Router
	agents *service.AgentService
	clock  *testClock
	signer *jwtx.Signer
	reg    *prometheus.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "agentboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	clock := &testClock{now: epoch}
	p := pagination.Default
	p.Clock = pagination.ClockFunc(clock.Now)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	pemBytes, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	priv, err := cryptox.ParseEd25519Key(pemBytes)
	require.NoError(t, err)
	signer, err := jwtx.NewSigner("", priv)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	verifier := jwtx.NewVerifier(keys, testIssuer)
	verifier.Now = clock.Now

	pepper := []byte("http-test-pepper-0123456789abcdef")
	agents := &service.AgentService{Store: st, Pepper: pepper, Paginator: p, Now: clock.Now}

	router := NewRouter(keys, verifier, "test", st, slog.New(slog.NewTextHandler(io.Discard, nil)), m, reg)
	router.AgentService = agents
	router.KeyRotationService = &service.KeyRotationService{
		Store:   st,
		Limiter: service.RotationLimiter{Limit: 3, Window: time.Hour},
		Pepper:  pepper,
		Metrics: m,
		Now:     clock.Now,
	}
	router.Now = clock.Now
	router.ApplyRoutes()

	return &testServer{t: t, router: router, agents: agents, clock: clock, signer: signer, reg: reg}
}

func (s *testServer) operator(scopes ...string) string {
	s.t.Helper()
	tok, err := s.signer.Sign(jwtx.NewClaims("ops@example.com", testIssuer, scopes, time.Hour, s.clock.Now()))
	require.NoError(s.t, err)
	return tok
}

// createAgent registers directly through the service, bypassing the strict
// HTTP limit on POST /v1/agents.
func (s *testServer) createAgent(name string) *service.CreatedAgent {
	s.t.Helper()
	created, err := s.agents.CreateAgent(context.Background(), service.CreateAgentRequest{Name: name})
	require.NoError(s.t, err)
	return created
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	s.t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.RemoteAddr = "192.0.2.10:40000"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type testEnvelope struct {
	Success    bool             `json:"success"`
	Data       json.RawMessage  `json:"data"`
	Pagination *pagination.Meta `json:"pagination"`
	Error      *httpx.ErrorBody `json:"error"`
	Timestamp  string           `json:"timestamp"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	env := decode(t, rec)
	require.True(t, env.Success, rec.Body.String())

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) testEnvelope {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	env := decode(t, rec)
	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	require.Equal(t, code, env.Error.Code)
	require.NotEmpty(t, env.Timestamp)
	return env
}

var _ http.Handler = (*Router)(nil)
