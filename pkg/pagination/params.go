package pagination

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultLimit = 20
	MinLimit     = 1
	MaxLimit     = 100
)

// Clock supplies the current time. Tests swap it for a fixed one.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Params are the sanitized inputs for a data-source query.
type Params struct {
	Offset int
	Limit  int
}

// Paginator bundles the pagination policy: page size bounds, cursor lifetime
// and the clock used to mint and check cursors.
type Paginator struct {
	Clock        Clock
	MaxAge       time.Duration
	DefaultLimit int
	MaxLimit     int
}

// Default is the paginator used by the package-level helpers.
var Default = Paginator{
	Clock:        SystemClock,
	MaxAge:       DefaultMaxAge,
	DefaultLimit: DefaultLimit,
	MaxLimit:     MaxLimit,
}

// NormalizeLimit applies the default page size policy to requested.
func NormalizeLimit(requested *int) int {
	return Default.NormalizeLimit(requested)
}

// ParseParams turns untrusted limit/cursor input into safe query parameters
// using the default paginator.
func ParseParams(limit *int, cursor string) (Params, error) {
	return Default.ParseParams(limit, cursor)
}

func (p Paginator) now() time.Time {
	if p.Clock == nil {
		return time.Now()
	}
	return p.Clock.Now()
}

func (p Paginator) maxAge() time.Duration {
	if p.MaxAge <= 0 {
		return DefaultMaxAge
	}
	return p.MaxAge
}

// NormalizeLimit returns the page size to use: the default when nothing was
// asked for, otherwise requested clamped to [MinLimit, MaxLimit].
func (p Paginator) NormalizeLimit(requested *int) int {
	def, maxLimit := p.DefaultLimit, p.MaxLimit
	if maxLimit < MinLimit {
		maxLimit = MaxLimit
	}
	if def < MinLimit {
		def = DefaultLimit
	}
	def = min(def, maxLimit)

	switch {
	case requested == nil:
		return def
	case *requested < MinLimit:
		return MinLimit
	case *requested > maxLimit:
		return maxLimit
	default:
		return *requested
	}
}

// ParseParams normalizes limit and resolves cursor into an offset. An empty
// cursor starts at offset 0. Bad cursors surface as *CursorError.
func (p Paginator) ParseParams(limit *int, cursor string) (Params, error) {
	params := Params{Limit: p.NormalizeLimit(limit)}

	cursor = strings.TrimSpace(cursor)
	if cursor == "" {
		return params, nil
	}

	c, err := Validate(cursor, p.maxAge(), p.now())
	if err != nil {
		return Params{}, err
	}

	params.Offset = c.Offset
	return params, nil
}

// ParseQuery reads the limit and cursor query parameters. A limit that is not
// an integer is ignored and the default applies. Integers too large for an int
// are clamped like any other out-of-range limit.
func (p Paginator) ParseQuery(q url.Values) (Params, error) {
	return p.ParseParams(parseLimit(q.Get("limit")), q.Get("cursor"))
}

func parseLimit(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	n, err := strconv.Atoi(raw)
	switch {
	case err == nil:
	case errors.Is(err, strconv.ErrRange) && strings.HasPrefix(raw, "-"):
		n = math.MinInt
	case errors.Is(err, strconv.ErrRange):
		n = math.MaxInt
	default:
		return nil
	}
	return &n
}

// IsExpired is IsExpired bound to the paginator's clock and max age.
func (p Paginator) IsExpired(cursor string) bool {
	return IsExpired(cursor, p.maxAge(), p.now())
}
