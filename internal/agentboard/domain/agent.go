package domain

import "time"

// Agent is an automated worker registered with the board. Agents call the API
// with API keys; operators manage them with JWTs.
type Agent struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
