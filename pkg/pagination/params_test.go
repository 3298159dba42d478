package pagination_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/aussiebroadwan/agentboard/pkg/pagination"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func fixedPaginator(now time.Time) pagination.Paginator {
	p := pagination.Default
	p.Clock = pagination.ClockFunc(func() time.Time { return now })
	return p
}

func TestNormalizeLimit(t *testing.T) {
	tests := []struct {
		name      string
		requested *int
		want      int
	}{
		{"absent uses default", nil, 20},
		{"zero clamps to min", intPtr(0), 1},
		{"negative clamps to min", intPtr(-10), 1},
		{"above max clamps", intPtr(500), 100},
		{"exact max", intPtr(100), 100},
		{"exact min", intPtr(1), 1},
		{"in range passes", intPtr(50), 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, pagination.NormalizeLimit(tt.requested))
		})
	}
}

func TestNormalizeLimitCustomBounds(t *testing.T) {
	p := pagination.Paginator{DefaultLimit: 50, MaxLimit: 25}

	// default can never exceed the max
	require.Equal(t, 25, p.NormalizeLimit(nil))
	require.Equal(t, 25, p.NormalizeLimit(intPtr(40)))

	// zero value paginator falls back to package defaults
	require.Equal(t, 20, pagination.Paginator{}.NormalizeLimit(nil))
}

func TestParseParams(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	p := fixedPaginator(now)

	t.Run("no cursor starts at zero", func(t *testing.T) {
		params, err := p.ParseParams(intPtr(10), "")
		require.NoError(t, err)
		require.Equal(t, pagination.Params{Offset: 0, Limit: 10}, params)
	})

	t.Run("cursor supplies offset", func(t *testing.T) {
		params, err := p.ParseParams(nil, pagination.Encode(40, now.Add(-time.Minute)))
		require.NoError(t, err)
		require.Equal(t, pagination.Params{Offset: 40, Limit: 20}, params)
	})

	t.Run("malformed cursor", func(t *testing.T) {
		_, err := p.ParseParams(nil, "garbage")
		var cerr *pagination.CursorError
		require.ErrorAs(t, err, &cerr)
		require.Equal(t, pagination.CursorMalformed, cerr.Kind)
	})

	t.Run("expired cursor", func(t *testing.T) {
		_, err := p.ParseParams(nil, pagination.Encode(40, now.Add(-301*time.Second)))
		var cerr *pagination.CursorError
		require.ErrorAs(t, err, &cerr)
		require.Equal(t, pagination.CursorExpired, cerr.Kind)
	})

	t.Run("custom max age", func(t *testing.T) {
		short := p
		short.MaxAge = 10 * time.Second
		require.True(t, short.IsExpired(pagination.Encode(0, now.Add(-11*time.Second))))
		require.False(t, short.IsExpired(pagination.Encode(0, now.Add(-9*time.Second))))
	})
}

func TestParseQuery(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	p := fixedPaginator(now)

	params, err := p.ParseQuery(url.Values{"limit": {"abc"}})
	require.NoError(t, err)
	require.Equal(t, 20, params.Limit)

	params, err = p.ParseQuery(url.Values{"limit": {"250"}})
	require.NoError(t, err)
	require.Equal(t, 100, params.Limit)

	params, err = p.ParseQuery(url.Values{"limit": {"99999999999999999999"}})
	require.NoError(t, err)
	require.Equal(t, 100, params.Limit)

	params, err = p.ParseQuery(url.Values{"limit": {"-99999999999999999999"}})
	require.NoError(t, err)
	require.Equal(t, 1, params.Limit)

	params, err = p.ParseQuery(url.Values{"limit": {"1e3"}})
	require.NoError(t, err)
	require.Equal(t, 20, params.Limit)

	params, err = p.ParseQuery(url.Values{
		"limit":  {" 5 "},
		"cursor": {pagination.Encode(15, now)},
	})
	require.NoError(t, err)
	require.Equal(t, pagination.Params{Offset: 15, Limit: 5}, params)
}
