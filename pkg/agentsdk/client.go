package agentsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/agentboard/pkg/pagination"
)

// Client talks to one agentboard instance with a single bearer credential.
// It is safe for concurrent use.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Token is an agent API key or an operator JWT. Empty means anonymous,
	// which only the health and JWKS endpoints accept.
	Token string
}

// NewClient creates a client with a 10 second request timeout.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		Token: token,
	}
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.getRaw(ctx, "/livez", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness checks if the service is ready to take traffic.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.getRaw(ctx, "/readyz", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetJWKS fetches the operator token verification keys.
func (c *Client) GetJWKS(ctx context.Context) (*JWKSResponse, error) {
	var jwks JWKSResponse
	if err := c.getRaw(ctx, "/.well-known/jwks.json", &jwks); err != nil {
		return nil, err
	}
	return &jwks, nil
}

// CreateAgent registers an agent. Requires an operator token with agents:write.
func (c *Client) CreateAgent(ctx context.Context, req CreateAgentRequest) (*CreateAgentResponse, error) {
	var out CreateAgentResponse
	if _, err := c.do(ctx, http.MethodPost, "/v1/agents", req, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAgent fetches one agent.
func (c *Client) GetAgent(ctx context.Context, agentID string) (*Agent, error) {
	var out Agent
	if _, err := c.do(ctx, http.MethodGet, "/v1/agents/"+url.PathEscape(agentID), nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the agent owning the client's API key.
func (c *Client) Me(ctx context.Context) (*Agent, error) {
	var out Agent
	if _, err := c.do(ctx, http.MethodGet, "/v1/agents/me", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAgents returns one page of agents, oldest first.
func (c *Client) ListAgents(ctx context.Context, opts ListOptions) (*AgentPage, error) {
	return listPage[Agent](ctx, c, "/v1/agents", opts)
}

// AllAgents follows nextCursor until the collection is exhausted. pageSize
// of 0 uses the server default.
func (c *Client) AllAgents(ctx context.Context, pageSize int) ([]Agent, error) {
	var (
		all  []Agent
		opts = ListOptions{Limit: pageSize}
	)
	for {
		page, err := c.ListAgents(ctx, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)

		if !page.Pagination.HasMore || page.Pagination.NextCursor == nil {
			return all, nil
		}
		opts.Cursor = *page.Pagination.NextCursor
	}
}

// ListKeys returns one page of the agent's keys, newest first.
func (c *Client) ListKeys(ctx context.Context, agentID string, opts ListOptions) (*APIKeyPage, error) {
	return listPage[APIKey](ctx, c, "/v1/agents/"+url.PathEscape(agentID)+"/keys", opts)
}

// ListRotations returns one page of the agent's rotation history, newest first.
func (c *Client) ListRotations(ctx context.Context, agentID string, opts ListOptions) (*RotationPage, error) {
	return listPage[KeyRotation](ctx, c, "/v1/agents/"+url.PathEscape(agentID)+"/rotations", opts)
}

// RotateKey replaces the agent's API key. A client authenticated with the
// old key should switch to NewAPIKey before OldKeyExpiresAt.
func (c *Client) RotateKey(ctx context.Context, agentID string, req RotateKeyRequest) (*RotateKeyResponse, error) {
	var out RotateKeyResponse
	path := "/v1/agents/" + url.PathEscape(agentID) + "/rotate-key"
	if _, err := c.do(ctx, http.MethodPost, path, req, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func listPage[T any](ctx context.Context, c *Client, path string, opts ListOptions) (*pagination.Page[T], error) {
	q := url.Values{}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		q.Set("cursor", opts.Cursor)
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var items []T
	meta, err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &items)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	page := &pagination.Page[T]{Items: items}
	if meta != nil {
		page.Pagination = *meta
	}
	return page, nil
}
