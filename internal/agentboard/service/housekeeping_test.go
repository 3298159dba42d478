package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHousekeepingCleanup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.createAgent(t, "builder")

	// two rotations with zero grace leave two expired keys behind
	for range 2 {
		_, err := f.rotation.RotateAgentKey(ctx, RotateKeyRequest{AgentID: a.Agent.ID})
		require.NoError(t, err)
		f.clock.Advance(time.Minute)
	}

	hk := NewHousekeepingService(f.store, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour)
	hk.Now = f.clock.Now
	hk.Retention = 24 * time.Hour

	require.Equal(t, map[string]int{"api_keys": 0, "key_rotations": 0}, hk.Cleanup(ctx))

	f.clock.Advance(25 * time.Hour)
	require.Equal(t, map[string]int{"api_keys": 2, "key_rotations": 2}, hk.Cleanup(ctx))

	// the current key never expires and survives
	keys, err := f.store.APIKeys().CountAPIKeysByAgent(ctx, a.Agent.ID)
	require.NoError(t, err)
	require.Equal(t, 1, keys)
}

func TestHousekeepingKeepsLimiterWindow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.createAgent(t, "builder")

	_, err := f.rotation.RotateAgentKey(ctx, RotateKeyRequest{AgentID: a.Agent.ID})
	require.NoError(t, err)

	hk := NewHousekeepingService(f.store, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour)
	hk.Now = f.clock.Now
	hk.Retention = time.Minute

	f.clock.Advance(30 * time.Minute)
	require.Equal(t, 0, hk.Cleanup(ctx)["key_rotations"], "still inside the rotation window")

	f.clock.Advance(31 * time.Minute)
	require.Equal(t, 1, hk.Cleanup(ctx)["key_rotations"])
}

func TestHousekeepingStartStop(t *testing.T) {
	f := newFixture(t)
	hk := NewHousekeepingService(f.store, slog.New(slog.NewTextHandler(io.Discard, nil)), 0)
	require.Equal(t, time.Hour, hk.Interval)

	hk.Start()
	hk.Stop()
}
