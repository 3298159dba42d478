package pagination

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultMaxAge is how long a cursor stays valid after it was minted.
	DefaultMaxAge = 300 * time.Second

	offsetTag    = "offset"
	createdAtTag = "createdAt"
	cursorParts  = 4
)

// CursorErrorKind separates cursors that never decoded from ones that simply
// got old. Clients retry the former and restart from page one on the latter.
type CursorErrorKind string

const (
	CursorMalformed CursorErrorKind = "malformed"
	CursorExpired   CursorErrorKind = "expired"
)

// CursorError is returned for any cursor that cannot be used.
type CursorError struct {
	Kind    CursorErrorKind
	Message string
}

func (e *CursorError) Error() string { return e.Message }

var (
	errMalformed = &CursorError{Kind: CursorMalformed, Message: "Invalid cursor format"}
	errExpired   = &CursorError{
		Kind:    CursorExpired,
		Message: "Cursor expired, restart pagination from the first page",
	}
)

// Cursor is the decoded form of a continuation token.
type Cursor struct {
	Offset    int
	CreatedAt int64 // epoch milliseconds
}

// Time returns the mint time of the cursor.
func (c Cursor) Time() time.Time { return time.UnixMilli(c.CreatedAt) }

// Encode builds an opaque cursor for offset minted at createdAt. The result is
// base64url so it can sit in a query string untouched. It is NOT tamper proof.
func Encode(offset int, createdAt time.Time) string {
	if offset < 0 {
		offset = 0
	}

	plain := offsetTag + ":" + strconv.Itoa(offset) + ":" +
		createdAtTag + ":" + strconv.FormatInt(createdAt.UnixMilli(), 10)

	return base64.RawURLEncoding.EncodeToString([]byte(plain))
}

// Decode parses a cursor produced by Encode. Anything else yields a
// CursorError of kind CursorMalformed.
func Decode(cursor string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(cursor, "="))
	if err != nil {
		return Cursor{}, errMalformed
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != cursorParts || parts[0] != offsetTag || parts[2] != createdAtTag {
		return Cursor{}, errMalformed
	}

	offset, err := strconv.Atoi(parts[1])
	if err != nil || offset < 0 {
		return Cursor{}, errMalformed
	}

	createdAt, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return Cursor{}, errMalformed
	}

	return Cursor{Offset: offset, CreatedAt: createdAt}, nil
}

// IsExpired reports whether cursor is unusable at now. Malformed cursors count
// as expired.
func IsExpired(cursor string, maxAge time.Duration, now time.Time) bool {
	c, err := Decode(cursor)
	if err != nil {
		return true
	}
	return expired(c, maxAge, now)
}

// Validate decodes cursor and checks it has not outlived maxAge.
func Validate(cursor string, maxAge time.Duration, now time.Time) (Cursor, error) {
	c, err := Decode(cursor)
	if err != nil {
		return Cursor{}, err
	}

	if expired(c, maxAge, now) {
		return Cursor{}, errExpired
	}

	return c, nil
}

// expired compares against the oldest acceptable mint time instead of
// subtracting CreatedAt, which comes from the client and may be any int64.
func expired(c Cursor, maxAge time.Duration, now time.Time) bool {
	return c.CreatedAt < now.UnixMilli()-maxAge.Milliseconds()
}
