package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/store/drivers/sqlite"
	"github.com/aussiebroadwan/agentboard/pkg/pagination"
	"github.com/stretchr/testify/require"
)

var testPepper = []byte("0123456789abcdef0123456789abcdef")

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// clock is a settable time source shared by the services under test.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(t time.Time) *clock { return &clock{now: t} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	store    *sqlite.Store
	clock    *clock
	agents   *AgentService
	rotation *KeyRotationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "agentboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	c := newClock(epoch)
	p := pagination.Default
	p.Clock = pagination.ClockFunc(c.Now)

	return &fixture{
		store: s,
		clock: c,
		agents: &AgentService{
			Store:     s,
			Pepper:    testPepper,
			Paginator: p,
			Now:       c.Now,
		},
		rotation: &KeyRotationService{
			Store:   s,
			Limiter: RotationLimiter{Limit: 3, Window: time.Hour},
			Pepper:  testPepper,
			Now:     c.Now,
		},
	}
}

func (f *fixture) createAgent(t *testing.T, name string) *CreatedAgent {
	t.Helper()
	created, err := f.agents.CreateAgent(context.Background(), CreateAgentRequest{Name: name})
	require.NoError(t, err)
	return created
}

func (f *fixture) authenticates(t *testing.T, key string) bool {
	t.Helper()
	_, ok, err := f.agents.AuthenticateAPIKey(context.Background(), key)
	require.NoError(t, err)
	return ok
}
