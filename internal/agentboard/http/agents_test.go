package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/agentboard/pkg/agentsdk"
	"github.com/aussiebroadwan/agentboard/pkg/httpx"
	"github.com/aussiebroadwan/agentboard/pkg/pagination"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCreateAgent(t *testing.T) {
	s := newTestServer(t)
	operator := s.operator(ScopeAgentsWrite)

	rec := s.do(http.MethodPost, "/v1/agents", operator, `{"name":"  builder ","description":"Runs CI builds"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeData[agentsdk.CreateAgentResponse](t, rec)
	require.Equal(t, "builder", created.Agent.Name)
	require.Equal(t, "Runs CI builds", created.Agent.Description)
	require.Equal(t, epoch.UnixMilli(), created.Agent.CreatedAt)
	require.True(t, strings.HasPrefix(created.APIKey, "ab_"))

	rec = s.do(http.MethodGet, "/v1/agents/me", created.APIKey, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, created.Agent, decodeData[agentsdk.Agent](t, rec))

	t.Run("duplicate name", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/v1/agents", operator, `{"name":"builder"}`)
		requireError(t, rec, http.StatusConflict, httpx.CodeConflict)
	})

	t.Run("invalid bodies", func(t *testing.T) {
		for _, body := range []string{
			``,
			`{"name":""}`,
			`{"name":"` + strings.Repeat("n", 101) + `"}`,
			`{"name":"x","description":"` + strings.Repeat("d", 501) + `"}`,
			`{"name":"   "}`,
		} {
			rec := s.do(http.MethodPost, "/v1/agents", operator, body)
			requireError(t, rec, http.StatusBadRequest, httpx.CodeValidation)
		}
	})

	t.Run("needs write scope", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/v1/agents", s.operator(ScopeAgentsRead), `{"name":"other"}`)
		requireError(t, rec, http.StatusForbidden, httpx.CodeForbidden)
	})

	t.Run("agents cannot register agents", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/v1/agents", created.APIKey, `{"name":"other"}`)
		requireError(t, rec, http.StatusForbidden, httpx.CodeForbidden)
	})
}

func TestListAgentsWalk(t *testing.T) {
	s := newTestServer(t)
	for i := range 45 {
		s.createAgent(fmt.Sprintf("agent-%02d", i))
		s.clock.Advance(time.Millisecond)
	}
	operator := s.operator(ScopeAgentsRead)

	var (
		names   []string
		offsets []int
		cursor  string
	)
	for range 5 {
		q := url.Values{"limit": {"20"}}
		if cursor != "" {
			q.Set("cursor", cursor)
		}
		rec := s.do(http.MethodGet, "/v1/agents?"+q.Encode(), operator, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		env := decode(t, rec)
		require.NotNil(t, env.Pagination)
		require.Equal(t, 45, env.Pagination.Total)
		require.Equal(t, 20, env.Pagination.Limit)
		offsets = append(offsets, env.Pagination.Offset)

		for _, a := range decodeData[[]agentsdk.Agent](t, rec) {
			names = append(names, a.Name)
		}

		if !env.Pagination.HasMore {
			require.Nil(t, env.Pagination.NextCursor)
			require.Contains(t, rec.Body.String(), `"nextCursor":null`)
			break
		}
		cursor = *env.Pagination.NextCursor
	}

	require.Equal(t, []int{0, 20, 40}, offsets)
	require.Len(t, names, 45)
	require.Equal(t, "agent-00", names[0])
	require.Equal(t, "agent-44", names[44])
}

func TestListAgentsLimitClamp(t *testing.T) {
	s := newTestServer(t)
	s.createAgent("only")
	operator := s.operator(ScopeAgentsRead)

	for query, want := range map[string]int{"": 20, "?limit=0": 1, "?limit=500": 100, "?limit=abc": 20} {
		rec := s.do(http.MethodGet, "/v1/agents"+query, operator, "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, want, decode(t, rec).Pagination.Limit, "query %q", query)
	}
}

func TestListAgentsCursorErrors(t *testing.T) {
	s := newTestServer(t)
	for i := range 3 {
		s.createAgent(fmt.Sprintf("agent-%d", i))
	}
	operator := s.operator(ScopeAgentsRead)

	rec := s.do(http.MethodGet, "/v1/agents?limit=1", operator, "")
	require.Equal(t, http.StatusOK, rec.Code)
	next := *decode(t, rec).Pagination.NextCursor

	rec = s.do(http.MethodGet, "/v1/agents?cursor=garbage", operator, "")
	env := requireError(t, rec, http.StatusBadRequest, httpx.CodeInvalidCursor)
	require.Equal(t, "Invalid cursor format", env.Error.Message)
	require.Equal(t, string(pagination.CursorMalformed), env.Error.Details["reason"])

	s.clock.Advance(301 * time.Second)
	rec = s.do(http.MethodGet, "/v1/agents?cursor="+url.QueryEscape(next), operator, "")
	env = requireError(t, rec, http.StatusBadRequest, httpx.CodeInvalidCursor)
	require.Equal(t, string(pagination.CursorExpired), env.Error.Details["reason"])
	require.NotEqual(t, "Invalid cursor format", env.Error.Message)

	require.NoError(t, testutil.GatherAndCompare(s.reg, strings.NewReader(`
# HELP agentboard_pagination_cursor_errors_total Rejected pagination cursors by kind.
# TYPE agentboard_pagination_cursor_errors_total counter
agentboard_pagination_cursor_errors_total{kind="expired"} 1
agentboard_pagination_cursor_errors_total{kind="malformed"} 1
`), "agentboard_pagination_cursor_errors_total"))
}

func TestListAgentsAccess(t *testing.T) {
	s := newTestServer(t)
	agent := s.createAgent("builder")

	rec := s.do(http.MethodGet, "/v1/agents", "", "")
	requireError(t, rec, http.StatusUnauthorized, httpx.CodeUnauthorized)

	rec = s.do(http.MethodGet, "/v1/agents", agent.APIKey, "")
	requireError(t, rec, http.StatusForbidden, httpx.CodeForbidden)

	rec = s.do(http.MethodGet, "/v1/agents", s.operator(ScopeAgentsWrite), "")
	requireError(t, rec, http.StatusForbidden, httpx.CodeForbidden)

	rec = s.do(http.MethodGet, "/v1/agents", "not-a-jwt", "")
	requireError(t, rec, http.StatusUnauthorized, httpx.CodeUnauthorized)
}

func TestGetAgent(t *testing.T) {
	s := newTestServer(t)
	alice := s.createAgent("alice")
	bob := s.createAgent("bob")

	rec := s.do(http.MethodGet, "/v1/agents/"+alice.Agent.ID, alice.APIKey, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "alice", decodeData[agentsdk.Agent](t, rec).Name)

	rec = s.do(http.MethodGet, "/v1/agents/"+alice.Agent.ID, s.operator(ScopeAgentsRead), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/v1/agents/"+alice.Agent.ID, bob.APIKey, "")
	requireError(t, rec, http.StatusNotFound, httpx.CodeNotFound)

	rec = s.do(http.MethodGet, "/v1/agents/"+alice.Agent.ID, s.operator(), "")
	requireError(t, rec, http.StatusForbidden, httpx.CodeForbidden)

	rec = s.do(http.MethodGet, "/v1/agents/01JQ8Z6V6K3XG9N1W2C4T5R7YB", s.operator(ScopeAgentsRead), "")
	requireError(t, rec, http.StatusNotFound, httpx.CodeNotFound)
}

func TestMeRequiresAgentKey(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/v1/agents/me", s.operator(ScopeAgentsRead, ScopeAgentsWrite), "")
	requireError(t, rec, http.StatusForbidden, httpx.CodeForbidden)
}

func TestListRotations(t *testing.T) {
	s := newTestServer(t)
	agent := s.createAgent("builder")
	operator := s.operator(ScopeAgentsRead, ScopeAgentsWrite)

	for _, reason := range []string{"scheduled", "deployment"} {
		rec := s.do(http.MethodPost, rotatePath(agent.Agent.ID), operator, `{"reason":"`+reason+`","gracePeriodSeconds":30}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		s.clock.Advance(time.Second)
	}

	rec := s.do(http.MethodGet, "/v1/agents/"+agent.Agent.ID+"/rotations?limit=1", operator, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decode(t, rec)
	require.Equal(t, 2, env.Pagination.Total)
	require.True(t, env.Pagination.HasMore)

	rotations := decodeData[[]agentsdk.KeyRotation](t, rec)
	require.Len(t, rotations, 1)
	require.Equal(t, agent.Agent.ID, rotations[0].AgentID)
	require.Equal(t, 30, rotations[0].GracePeriodSeconds)
	require.Equal(t, int64(30_000), rotations[0].OldKeyExpiresAt-rotations[0].RotatedAt)

	rec = s.do(http.MethodGet, "/v1/agents/"+agent.Agent.ID+"/keys", operator, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 3, decode(t, rec).Pagination.Total)
}
