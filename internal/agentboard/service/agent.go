package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/domain"
	"github.com/aussiebroadwan/agentboard/internal/agentboard/store"
	"github.com/aussiebroadwan/agentboard/pkg/cryptox"
	"github.com/aussiebroadwan/agentboard/pkg/idx"
	"github.com/aussiebroadwan/agentboard/pkg/pagination"
	"github.com/aussiebroadwan/agentboard/pkg/slogx"
)

var (
	ErrAgentNotFound      = errors.New("agent not found")
	ErrAgentNameTaken     = errors.New("agent name already in use")
	ErrInvalidAgentName   = errors.New("name must be 1 to 100 characters")
	ErrInvalidDescription = errors.New("description must be at most 500 characters")
)

const (
	maxAgentNameLen        = 100
	maxAgentDescriptionLen = 500
)

// AgentService manages the agent registry and resolves API keys.
type AgentService struct {
	Store     store.Store
	Pepper    []byte
	Paginator pagination.Paginator

	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// CreateAgentRequest describes a new agent.
type CreateAgentRequest struct {
	Name        string
	Description string
}

// CreatedAgent carries the first API key, which is never shown again.
type CreatedAgent struct {
	Agent  domain.Agent
	APIKey string
	Key    domain.APIKey
}

func (s *AgentService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// CreateAgent registers an agent and mints its first API key.
func (s *AgentService) CreateAgent(ctx context.Context, req CreateAgentRequest) (*CreatedAgent, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || utf8.RuneCountInString(name) > maxAgentNameLen {
		return nil, ErrInvalidAgentName
	}
	desc := strings.TrimSpace(req.Description)
	if utf8.RuneCountInString(desc) > maxAgentDescriptionLen {
		return nil, ErrInvalidDescription
	}

	now := s.now().Truncate(time.Millisecond)
	agent := domain.Agent{
		ID:          idx.NewAt(now).String(),
		Name:        name,
		Description: desc,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	plaintext, key, err := mintAPIKey(s.Pepper, agent.ID, now)
	if err != nil {
		return nil, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Agents().CreateAgent(ctx, agent); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrAgentNameTaken
			}
			return fmt.Errorf("create agent: %w", err)
		}
		if err := tx.APIKeys().CreateAPIKey(ctx, key); err != nil {
			return fmt.Errorf("create api key: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).Info("agent created",
		slog.String("agent_id", agent.ID),
		slog.String("name", agent.Name),
	)

	return &CreatedAgent{Agent: agent, APIKey: plaintext, Key: key}, nil
}

// GetAgent returns the agent or ErrAgentNotFound.
func (s *AgentService) GetAgent(ctx context.Context, id string) (domain.Agent, error) {
	if !idx.Valid(id) {
		return domain.Agent{}, ErrAgentNotFound
	}
	a, err := s.Store.Agents().GetAgentByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Agent{}, ErrAgentNotFound
	}
	return a, err
}

// ListAgents returns one page of agents, oldest first.
func (s *AgentService) ListAgents(ctx context.Context, params pagination.Params) (pagination.Page[domain.Agent], error) {
	total, err := s.Store.Agents().CountAgents(ctx)
	if err != nil {
		return pagination.Page[domain.Agent]{}, fmt.Errorf("count agents: %w", err)
	}

	items, err := s.Store.Agents().ListAgents(ctx, params.Offset, params.Limit)
	if err != nil {
		return pagination.Page[domain.Agent]{}, fmt.Errorf("list agents: %w", err)
	}

	return pagination.Build(s.Paginator, items, total, params.Limit, params.Offset), nil
}

// ListKeys returns one page of the agent's keys, newest first.
func (s *AgentService) ListKeys(ctx context.Context, agentID string, params pagination.Params) (pagination.Page[domain.APIKey], error) {
	if _, err := s.GetAgent(ctx, agentID); err != nil {
		return pagination.Page[domain.APIKey]{}, err
	}

	total, err := s.Store.APIKeys().CountAPIKeysByAgent(ctx, agentID)
	if err != nil {
		return pagination.Page[domain.APIKey]{}, fmt.Errorf("count api keys: %w", err)
	}

	items, err := s.Store.APIKeys().ListAPIKeysByAgent(ctx, agentID, params.Offset, params.Limit)
	if err != nil {
		return pagination.Page[domain.APIKey]{}, fmt.Errorf("list api keys: %w", err)
	}

	return pagination.Build(s.Paginator, items, total, params.Limit, params.Offset), nil
}

// ListRotations returns one page of the agent's rotation history, newest first.
func (s *AgentService) ListRotations(ctx context.Context, agentID string, params pagination.Params) (pagination.Page[domain.KeyRotation], error) {
	if _, err := s.GetAgent(ctx, agentID); err != nil {
		return pagination.Page[domain.KeyRotation]{}, err
	}

	total, err := s.Store.Rotations().CountRotationsByAgent(ctx, agentID)
	if err != nil {
		return pagination.Page[domain.KeyRotation]{}, fmt.Errorf("count rotations: %w", err)
	}

	items, err := s.Store.Rotations().ListRotationsByAgent(ctx, agentID, params.Offset, params.Limit)
	if err != nil {
		return pagination.Page[domain.KeyRotation]{}, fmt.Errorf("list rotations: %w", err)
	}

	return pagination.Build(s.Paginator, items, total, params.Limit, params.Offset), nil
}

// AuthenticateAPIKey resolves key to its agent. Keys superseded by a rotation
// keep working until their grace period ends.
func (s *AgentService) AuthenticateAPIKey(ctx context.Context, key string) (string, bool, error) {
	if !strings.HasPrefix(key, APIKeyPrefix) {
		return "", false, nil
	}

	fp, err := cryptox.Fingerprint(s.Pepper, key)
	if err != nil {
		return "", false, err
	}

	now := s.now()
	k, err := s.Store.APIKeys().GetValidAPIKeyByFingerprint(ctx, fp, now)
	if errors.Is(err, store.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup api key: %w", err)
	}

	// Usage tracking is best effort.
	if err := s.Store.APIKeys().TouchAPIKey(ctx, k.ID, now); err != nil {
		slogx.FromContext(ctx).Warn("failed to record api key use", "key_id", k.ID, "error", err)
	}

	return k.AgentID, true, nil
}
