package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/domain"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/metrics"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/store"
	"github.com/aussiebroadwan/agentboard/pkg/idx"
	"github.com/aussiebroadwan/agentboard/pkg/slogx"
)

// KeyRotationService replaces an agent's API key. The superseded keys keep
// working for the requested grace period so deployments can roll over.
type KeyRotationService struct {
	Store   store.Store
	Limiter RotationLimiter
	Pepper  []byte
	Metrics *metrics.Metrics

	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// RotateKeyRequest represents a request to rotate an agent's API key.
type RotateKeyRequest struct {
	AgentID     string
	Reason      domain.RotationReason
	GracePeriod domain.GracePeriod
}

// RotateKeyResult is returned once; NewAPIKey is not recoverable afterwards.
type RotateKeyResult struct {
	AgentID         string
	NewAPIKey       string
	NewKeyID        string
	Reason          domain.RotationReason
	GracePeriod     domain.GracePeriod
	RotatedAt       time.Time
	OldKeyExpiresAt time.Time
	// Superseded is how many previously valid keys now expire at OldKeyExpiresAt.
	Superseded int
	// InWindow counts the rotations inside the limiter window, this one included.
	InWindow int
}

func (s *KeyRotationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// RotateAgentKey mints a new key for req.AgentID, bounded by the limiter.
// The lock, limiter check, key swap and rotation record share one
// transaction, so concurrent calls for the same agent serialize.
func (s *KeyRotationService) RotateAgentKey(ctx context.Context, req RotateKeyRequest) (*RotateKeyResult, error) {
	l := slogx.FromContext(ctx)
	started := time.Now()

	reason, err := domain.ParseRotationReason(string(req.Reason))
	if err != nil {
		return nil, err
	}
	req.Reason = reason

	rotatedAt := s.now().Truncate(time.Millisecond)
	oldKeyExpiresAt := req.GracePeriod.ExpiryFrom(rotatedAt)

	plaintext, key, err := mintAPIKey(s.Pepper, req.AgentID, rotatedAt)
	if err != nil {
		return nil, err
	}

	var superseded, inWindow int
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if !idx.Valid(req.AgentID) {
			return ErrAgentNotFound
		}
		if err := tx.Agents().LockAgent(ctx, req.AgentID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrAgentNotFound
			}
			return fmt.Errorf("lock agent: %w", err)
		}

		rec := domain.KeyRotation{
			ID:              idx.NewAt(rotatedAt).String(),
			AgentID:         req.AgentID,
			NewKeyID:        key.ID,
			Reason:          req.Reason,
			GracePeriod:     req.GracePeriod,
			RotatedAt:       rotatedAt,
			OldKeyExpiresAt: oldKeyExpiresAt,
		}
		decision, err := s.Limiter.CheckAndConsume(ctx, tx.Rotations(), rec)
		if err != nil {
			return err
		}
		if !decision.Allowed {
			return &RateLimitedError{RetryAfter: decision.RetryAfter}
		}
		inWindow = decision.Used + 1

		superseded, err = tx.APIKeys().ExpireValidAPIKeys(ctx, req.AgentID, oldKeyExpiresAt, rotatedAt)
		if err != nil {
			return fmt.Errorf("expire current keys: %w", err)
		}

		if err := tx.APIKeys().CreateAPIKey(ctx, key); err != nil {
			return fmt.Errorf("create api key: %w", err)
		}
		return nil
	})

	if err != nil {
		s.Metrics.RecordRotation(req.Reason.String(), rotationOutcome(err), time.Since(started))

		var limited *RateLimitedError
		switch {
		case errors.As(err, &limited):
			l.Info("key rotation rate limited",
				slog.String("agent_id", req.AgentID),
				slog.Int("retry_after", limited.RetryAfterSeconds()),
			)
		case errors.Is(err, ErrAgentNotFound):
		default:
			l.Error("key rotation failed", "agent_id", req.AgentID, "error", err)
		}
		return nil, err
	}

	s.Metrics.RecordRotation(req.Reason.String(), metrics.OutcomeSuccess, time.Since(started))
	l.Info("api key rotated",
		slog.String("agent_id", req.AgentID),
		slog.String("reason", req.Reason.String()),
		slog.Int("grace_period_seconds", req.GracePeriod.Seconds()),
		slog.Int("superseded", superseded),
		slog.Int("rotations_in_window", inWindow),
	)

	return &RotateKeyResult{
		AgentID:         req.AgentID,
		NewAPIKey:       plaintext,
		NewKeyID:        key.ID,
		Reason:          req.Reason,
		GracePeriod:     req.GracePeriod,
		RotatedAt:       rotatedAt,
		OldKeyExpiresAt: oldKeyExpiresAt,
		Superseded:      superseded,
		InWindow:        inWindow,
	}, nil
}

func rotationOutcome(err error) string {
	var limited *RateLimitedError
	switch {
	case errors.As(err, &limited):
		return metrics.OutcomeRateLimited
	case errors.Is(err, ErrAgentNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}
