package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/domain"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/metrics"
	"github.com/aussiebroadwan/agentboard/pkg/pagination"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func grace(t *testing.T, seconds int) domain.GracePeriod {
	t.Helper()
	g, err := domain.NewGracePeriod(seconds)
	require.NoError(t, err)
	return g
}

func TestRotateAgentKeyLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	reg := prometheus.NewRegistry()
	f.rotation.Metrics = metrics.New(reg)

	a := f.createAgent(t, "builder")

	for i := range 3 {
		res, err := f.rotation.RotateAgentKey(ctx, RotateKeyRequest{AgentID: a.Agent.ID})
		require.NoError(t, err)
		require.Equal(t, i+1, res.InWindow)
	}

	_, err := f.rotation.RotateAgentKey(ctx, RotateKeyRequest{AgentID: a.Agent.ID})
	var limited *RateLimitedError
	require.ErrorAs(t, err, &limited)
	require.Equal(t, 3600, limited.RetryAfterSeconds())

	// another agent has its own quota
	b := f.createAgent(t, "reviewer")
	_, err = f.rotation.RotateAgentKey(ctx, RotateKeyRequest{AgentID: b.Agent.ID})
	require.NoError(t, err)

	// quota frees up once the window passes
	f.clock.Advance(time.Hour)
	_, err = f.rotation.RotateAgentKey(ctx, RotateKeyRequest{AgentID: a.Agent.ID})
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(reg, "agentboard_key_rotations_total")
	require.NoError(t, err)
	require.Equal(t, 2, n, "success and rate_limited series")
}

func TestRotateAgentKeyGraceZero(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.createAgent(t, "builder")

	res, err := f.rotation.RotateAgentKey(ctx, RotateKeyRequest{AgentID: a.Agent.ID, Reason: domain.ReasonCompromised})
	require.NoError(t, err)
	require.Equal(t, res.RotatedAt, res.OldKeyExpiresAt)
	require.Equal(t, domain.ReasonCompromised, res.Reason)
	require.Equal(t, 1, res.Superseded)

	require.False(t, f.authenticates(t, a.APIKey), "no overlap with zero grace")
	require.True(t, f.authenticates(t, res.NewAPIKey))
}

func TestRotateAgentKeyGraceWindow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.createAgent(t, "builder")

	res, err := f.rotation.RotateAgentKey(ctx, RotateKeyRequest{AgentID: a.Agent.ID, GracePeriod: grace(t, 300)})
	require.NoError(t, err)
	require.Equal(t, int64(300000), res.OldKeyExpiresAt.UnixMilli()-res.RotatedAt.UnixMilli())
	require.Equal(t, domain.ReasonRefresh, res.Reason, "empty reason defaults to refresh")

	require.True(t, f.authenticates(t, a.APIKey))
	require.True(t, f.authenticates(t, res.NewAPIKey))

	f.clock.Advance(299 * time.Second)
	require.True(t, f.authenticates(t, a.APIKey))

	f.clock.Advance(time.Second)
	require.False(t, f.authenticates(t, a.APIKey), "expires exactly at oldKeyExpiresAt")
	require.True(t, f.authenticates(t, res.NewAPIKey))
}

func TestRotateAgentKeyGraceNotExtended(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.createAgent(t, "builder")

	first, err := f.rotation.RotateAgentKey(ctx, RotateKeyRequest{AgentID: a.Agent.ID, GracePeriod: grace(t, 300)})
	require.NoError(t, err)

	f.clock.Advance(10 * time.Second)
	second, err := f.rotation.RotateAgentKey(ctx, RotateKeyRequest{AgentID: a.Agent.ID, GracePeriod: grace(t, 60)})
	require.NoError(t, err)
	require.Equal(t, 2, second.Superseded, "original key in grace and first replacement")

	f.clock.Advance(60 * time.Second)
	require.False(t, f.authenticates(t, a.APIKey))
	require.False(t, f.authenticates(t, first.NewAPIKey))
	require.True(t, f.authenticates(t, second.NewAPIKey))
}

func TestRotateAgentKeyUniqueKeys(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.createAgent(t, "builder")

	seen := map[string]bool{a.APIKey: true}
	for range 3 {
		res, err := f.rotation.RotateAgentKey(ctx, RotateKeyRequest{AgentID: a.Agent.ID})
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(res.NewAPIKey, APIKeyPrefix))
		require.False(t, seen[res.NewAPIKey])
		seen[res.NewAPIKey] = true
	}
}

func TestRotateAgentKeyUnknownAgent(t *testing.T) {
	f := newFixture(t)

	_, err := f.rotation.RotateAgentKey(context.Background(), RotateKeyRequest{AgentID: "01HZZZZZZZZZZZZZZZZZZZZZZZ"})
	require.ErrorIs(t, err, ErrAgentNotFound)
}

func TestRotateAgentKeyConcurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.createAgent(t, "builder")

	const attempts = 8
	var (
		wg              sync.WaitGroup
		mu              sync.Mutex
		allowed, denied int
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.rotation.RotateAgentKey(ctx, RotateKeyRequest{AgentID: a.Agent.ID})

			var limited *RateLimitedError
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				allowed++
			case errors.As(err, &limited):
				denied++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 3, allowed)
	require.Equal(t, attempts-3, denied)

	n, err := f.store.Rotations().CountRotationsByAgent(ctx, a.Agent.ID)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestRotateAgentKeyNeverExtendsGrace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.createAgent(t, "builder")

	_, err := f.rotation.RotateAgentKey(ctx, RotateKeyRequest{AgentID: a.Agent.ID, GracePeriod: grace(t, 60)})
	require.NoError(t, err)

	f.clock.Advance(10 * time.Second)
	second, err := f.rotation.RotateAgentKey(ctx, RotateKeyRequest{AgentID: a.Agent.ID, GracePeriod: grace(t, 300)})
	require.NoError(t, err)
	require.Equal(t, 1, second.Superseded, "only the first replacement is capped")

	f.clock.Advance(50 * time.Second)
	require.False(t, f.authenticates(t, a.APIKey), "original expiry kept")
}

func TestRotateAgentKeyRejectsUnknownReason(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.createAgent(t, "builder")

	_, err := f.rotation.RotateAgentKey(ctx, RotateKeyRequest{AgentID: a.Agent.ID, Reason: domain.RotationReason("bogus")})
	require.ErrorIs(t, err, domain.ErrInvalidReason)

	rotations, err := f.agents.ListRotations(ctx, a.Agent.ID, pagination.Params{Limit: 20})
	require.NoError(t, err)
	require.Empty(t, rotations.Items)

	// the rejected call left the whole quota in place
	for range 3 {
		_, err := f.rotation.RotateAgentKey(ctx, RotateKeyRequest{AgentID: a.Agent.ID})
		require.NoError(t, err)
	}

	rotations, err = f.agents.ListRotations(ctx, a.Agent.ID, pagination.Params{Limit: 20})
	require.NoError(t, err)
	require.Len(t, rotations.Items, 3)
	require.Equal(t, domain.ReasonRefresh, rotations.Items[0].Reason)
}
