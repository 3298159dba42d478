package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/domain"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/store"
)

const (
	DefaultRotationLimit  = 3
	DefaultRotationWindow = time.Hour
)

// RotationLimiter is a sliding-window limit on successful rotations per agent.
// The window is the rotation log itself, so quota survives restarts and is
// shared by every replica pointed at the same database.
//
// CheckAndConsume is only atomic when run inside a transaction that holds the
// agent lock (see store.Agents.LockAgent).
type RotationLimiter struct {
	Limit  int
	Window time.Duration
}

// Decision is the outcome of a limiter check.
type Decision struct {
	Allowed bool
	// Used is the number of rotations in the window before this one.
	Used int
	// RetryAfter is set when Allowed is false.
	RetryAfter time.Duration
}

// RateLimitedError is returned when an agent has used its rotation quota.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rotation rate limit exceeded, retry after %ds", e.RetryAfterSeconds())
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds, minimum 1.
func (e *RateLimitedError) RetryAfterSeconds() int {
	return max(int(math.Ceil(e.RetryAfter.Seconds())), 1)
}

func (l RotationLimiter) limit() int {
	if l.Limit <= 0 {
		return DefaultRotationLimit
	}
	return l.Limit
}

func (l RotationLimiter) window() time.Duration {
	if l.Window <= 0 {
		return DefaultRotationWindow
	}
	return l.Window
}

// CheckAndConsume admits rec if the agent has fewer than Limit rotations in
// the window ending at rec.RotatedAt, recording it in the same step. Entries
// exactly Window old have left the window.
func (l RotationLimiter) CheckAndConsume(ctx context.Context, rotations store.Rotations, rec domain.KeyRotation) (Decision, error) {
	limit, window := l.limit(), l.window()

	times, err := rotations.ListRotationTimesSince(ctx, rec.AgentID, rec.RotatedAt.Add(-window))
	if err != nil {
		return Decision{}, fmt.Errorf("list rotation window: %w", err)
	}

	used := len(times)
	if used >= limit {
		// Enough entries must age out to bring the count below limit; the
		// last of those is the one to wait for.
		leaving := times[used-limit]
		retry := leaving.Add(window).Sub(rec.RotatedAt)
		retry = max(time.Duration(math.Ceil(retry.Seconds()))*time.Second, time.Second)
		return Decision{Allowed: false, Used: used, RetryAfter: retry}, nil
	}

	if err := rotations.CreateRotation(ctx, rec); err != nil {
		return Decision{}, fmt.Errorf("record rotation: %w", err)
	}
	return Decision{Allowed: true, Used: used}, nil
}
