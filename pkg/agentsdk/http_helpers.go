package agentsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/aussiebroadwan/agentboard/pkg/pagination"
)

// envelope is the response body of every /v1 endpoint.
type envelope struct {
	Success    bool             `json:"success"`
	Data       json.RawMessage  `json:"data"`
	Pagination *pagination.Meta `json:"pagination"`
	Error      *APIError        `json:"error"`
	Timestamp  string           `json:"timestamp"`
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		r = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), r)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return req, nil
}

func (c *Client) send(req *http.Request) (*http.Response, []byte, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp, body, nil
}

// do sends an enveloped request and decodes data into target. The page
// metadata is returned for list endpoints.
func (c *Client) do(ctx context.Context, method, path string, body any, expectedStatus int, target any) (*pagination.Meta, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	resp, raw, err := c.send(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != expectedStatus {
		return nil, parseErrorResponse(resp, raw)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if target != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, target); err != nil {
			return nil, fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return env.Pagination, nil
}

// getRaw is for the operational endpoints, which are not enveloped.
func (c *Client) getRaw(ctx context.Context, path string, target any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	resp, raw, err := c.send(req)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return parseErrorResponse(resp, raw)
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
