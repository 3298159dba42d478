// Package idx mints the ULIDs used for agent, API key and rotation ids.
package idx

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID is a 26 character ULID. The leading 48 bits are the creation time in
// milliseconds, so ids sort by creation.
type ID string

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// NewAt mints an id stamped with t. Ids minted within one millisecond still
// sort in the order they were minted.
func NewAt(t time.Time) ID {
	mu.Lock()
	defer mu.Unlock()
	return ID(ulid.MustNew(ulid.Timestamp(t), entropy).String())
}

// New mints an id stamped with the current time.
func New() ID { return NewAt(time.Now()) }

// Valid reports whether s is exactly a well-formed id. Lookups use it to
// answer "not found" without touching the database.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}

func (id ID) String() string { return string(id) }

// Time returns the creation time embedded in id, or the zero time when id
// is malformed.
func (id ID) Time() time.Time {
	u, err := ulid.ParseStrict(string(id))
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time()).UTC()
}
