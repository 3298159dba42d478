package http

import (
	"time"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/domain"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/service"
	"github.com/aussiebroadwan/agentboard/pkg/agentsdk"
)

func millisPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func toSDKAgent(a domain.Agent) agentsdk.Agent {
	return agentsdk.Agent{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		CreatedAt:   a.CreatedAt.UnixMilli(),
		UpdatedAt:   a.UpdatedAt.UnixMilli(),
	}
}

// toSDKKey needs now because status is derived, never stored.
func toSDKKey(now time.Time) func(domain.APIKey) agentsdk.APIKey {
	return func(k domain.APIKey) agentsdk.APIKey {
		return agentsdk.APIKey{
			ID:         k.ID,
			AgentID:    k.AgentID,
			Prefix:     k.Prefix,
			Status:     string(k.Status(now)),
			CreatedAt:  k.CreatedAt.UnixMilli(),
			ExpiresAt:  millisPtr(k.ExpiresAt),
			LastUsedAt: millisPtr(k.LastUsedAt),
		}
	}
}

func toSDKRotation(r domain.KeyRotation) agentsdk.KeyRotation {
	return agentsdk.KeyRotation{
		ID:                 r.ID,
		AgentID:            r.AgentID,
		NewKeyID:           r.NewKeyID,
		Reason:             r.Reason.String(),
		GracePeriodSeconds: r.GracePeriod.Seconds(),
		RotatedAt:          r.RotatedAt.UnixMilli(),
		OldKeyExpiresAt:    r.OldKeyExpiresAt.UnixMilli(),
	}
}

func toSDKRotateResult(res *service.RotateKeyResult) agentsdk.RotateKeyResponse {
	return agentsdk.RotateKeyResponse{
		NewAPIKey:          res.NewAPIKey,
		RotatedAt:          res.RotatedAt.UnixMilli(),
		OldKeyExpiresAt:    res.OldKeyExpiresAt.UnixMilli(),
		GracePeriodSeconds: res.GracePeriod.Seconds(),
		AgentID:            res.AgentID,
		Reason:             res.Reason.String(),
	}
}
