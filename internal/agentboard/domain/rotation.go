package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidReason      = errors.New("reason must be one of scheduled, compromised, deployment, refresh")
	ErrInvalidGracePeriod = errors.New("gracePeriodSeconds must be an integer between 0 and 300")
)

// RotationReason is why a key was rotated. Only the declared values exist.
type RotationReason string

const (
	ReasonScheduled   RotationReason = "scheduled"
	ReasonCompromised RotationReason = "compromised"
	ReasonDeployment  RotationReason = "deployment"
	ReasonRefresh     RotationReason = "refresh"
)

// RotationReasons lists every valid reason in a stable order.
var RotationReasons = []RotationReason{
	ReasonScheduled,
	ReasonCompromised,
	ReasonDeployment,
	ReasonRefresh,
}

// ParseRotationReason maps s onto a RotationReason. Empty means refresh.
func ParseRotationReason(s string) (RotationReason, error) {
	if s == "" {
		return ReasonRefresh, nil
	}
	for _, r := range RotationReasons {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidReason, s)
}

// String implements fmt.Stringer.
func (r RotationReason) String() string { return string(r) }

// MaxGracePeriodSeconds bounds how long a superseded key may keep working.
const MaxGracePeriodSeconds = 300

// GracePeriod is a validated overlap window in whole seconds. The zero value
// is a valid zero-second grace period.
type GracePeriod struct {
	seconds int
}

// NewGracePeriod validates seconds against [0, MaxGracePeriodSeconds].
func NewGracePeriod(seconds int) (GracePeriod, error) {
	if seconds < 0 || seconds > MaxGracePeriodSeconds {
		return GracePeriod{}, fmt.Errorf("%w: got %d", ErrInvalidGracePeriod, seconds)
	}
	return GracePeriod{seconds: seconds}, nil
}

// Seconds returns the grace period as an integer number of seconds.
func (g GracePeriod) Seconds() int { return g.seconds }

// Duration returns the grace period as a time.Duration.
func (g GracePeriod) Duration() time.Duration { return time.Duration(g.seconds) * time.Second }

// ExpiryFrom is when a key superseded at rotatedAt stops authenticating.
func (g GracePeriod) ExpiryFrom(rotatedAt time.Time) time.Time {
	return rotatedAt.Add(g.Duration())
}

// KeyRotation is one successful rotation of an agent's API key. The rotation
// log doubles as the rate limiter's window.
type KeyRotation struct {
	ID              string
	AgentID         string
	NewKeyID        string
	Reason          RotationReason
	GracePeriod     GracePeriod
	RotatedAt       time.Time
	OldKeyExpiresAt time.Time
}
