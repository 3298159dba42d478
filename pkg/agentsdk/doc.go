/*
Package agentsdk is a Go client for the agentboard API.

A Client carries one bearer credential: either an agent API key (ab_...) or
an operator JWT. Operators manage the registry; agents read themselves and
rotate their own key.

	c := agentsdk.NewClient("https://board.example.com", operatorToken)

	created, err := c.CreateAgent(ctx, agentsdk.CreateAgentRequest{Name: "builder"})
	// created.APIKey is shown once

	agent := agentsdk.NewClient("https://board.example.com", created.APIKey)
	res, err := agent.RotateKey(ctx, created.Agent.ID, agentsdk.RotateKeyRequest{
		Reason:             "deployment",
		GracePeriodSeconds: agentsdk.Int(60),
	})

# Pagination

List calls return one page plus its cursor metadata. Pass NextCursor back to
get the following page, or use AllAgents to walk the whole collection:

	page, err := c.ListAgents(ctx, agentsdk.ListOptions{Limit: 50})
	for page.Pagination.HasMore {
		page, err = c.ListAgents(ctx, agentsdk.ListOptions{Limit: 50, Cursor: *page.Pagination.NextCursor})
	}

Cursors expire after a few minutes; an expired cursor yields an *APIError
with code INVALID_CURSOR and the walk must restart from the first page.

# Errors

Every non-2xx response becomes an *APIError. Rate limited calls carry the
server's retry hint:

	var apiErr *agentsdk.APIError
	if errors.As(err, &apiErr) && apiErr.IsRateLimited() {
		time.Sleep(apiErr.RetryAfter)
	}
*/
package agentsdk
