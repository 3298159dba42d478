package pagination_test

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/agentboard/pkg/pagination"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		at     time.Time
	}{
		{"zero", 0, time.UnixMilli(0)},
		{"first page boundary", 20, time.UnixMilli(1700000000123)},
		{"large offset", 1 << 40, time.UnixMilli(1893456000000)},
		{"pre epoch", 7, time.UnixMilli(-1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := pagination.Decode(pagination.Encode(tt.offset, tt.at))
			require.NoError(t, err)
			require.Equal(t, tt.offset, c.Offset)
			require.Equal(t, tt.at.UnixMilli(), c.CreatedAt)
			require.True(t, tt.at.Equal(c.Time()))
		})
	}
}

func TestEncodeWireFormat(t *testing.T) {
	cursor := pagination.Encode(40, time.UnixMilli(1700000000000))

	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	require.NoError(t, err)
	require.Equal(t, "offset:40:createdAt:1700000000000", string(raw))
	require.NotContains(t, cursor, "=")
}

func TestEncodeNegativeOffset(t *testing.T) {
	c, err := pagination.Decode(pagination.Encode(-5, time.UnixMilli(10)))
	require.NoError(t, err)
	require.Equal(t, 0, c.Offset)
}

func TestDecodeAcceptsPadding(t *testing.T) {
	padded := base64.URLEncoding.EncodeToString([]byte("offset:3:createdAt:42"))

	c, err := pagination.Decode(padded)
	require.NoError(t, err)
	require.Equal(t, pagination.Cursor{Offset: 3, CreatedAt: 42}, c)
}

func TestDecodeMalformed(t *testing.T) {
	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name   string
		cursor string
	}{
		{"not base64", "not-a-valid-cursor!"},
		{"empty", ""},
		{"wrong first tag", enc("page:1:createdAt:1")},
		{"wrong second tag", enc("offset:1:created:1")},
		{"too few segments", enc("offset:1:createdAt")},
		{"too many segments", enc("offset:1:createdAt:1:extra")},
		{"offset not numeric", enc("offset:x:createdAt:1")},
		{"created not numeric", enc("offset:1:createdAt:soon")},
		{"negative offset", enc("offset:-1:createdAt:1")},
		{"fractional offset", enc("offset:1.5:createdAt:1")},
		{"case differs", enc("Offset:1:createdAt:1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pagination.Decode(tt.cursor)
			require.Error(t, err)

			var cerr *pagination.CursorError
			require.True(t, errors.As(err, &cerr))
			require.Equal(t, pagination.CursorMalformed, cerr.Kind)
			require.Equal(t, "Invalid cursor format", cerr.Error())
		})
	}
}

func TestIsExpired(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	t.Run("garbage is expired", func(t *testing.T) {
		require.True(t, pagination.IsExpired("not-a-valid-cursor", pagination.DefaultMaxAge, now))
	})

	t.Run("six minutes old is expired", func(t *testing.T) {
		c := pagination.Encode(0, now.Add(-6*time.Minute))
		require.True(t, pagination.IsExpired(c, pagination.DefaultMaxAge, now))
	})

	t.Run("fresh is not expired", func(t *testing.T) {
		c := pagination.Encode(0, now)
		require.False(t, pagination.IsExpired(c, pagination.DefaultMaxAge, now))
	})

	t.Run("exactly max age is still valid", func(t *testing.T) {
		c := pagination.Encode(0, now.Add(-pagination.DefaultMaxAge))
		require.False(t, pagination.IsExpired(c, pagination.DefaultMaxAge, now))
	})

	t.Run("one millisecond past max age", func(t *testing.T) {
		c := pagination.Encode(0, now.Add(-pagination.DefaultMaxAge-time.Millisecond))
		require.True(t, pagination.IsExpired(c, pagination.DefaultMaxAge, now))
	})
}

func TestValidateDistinguishesErrors(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	_, err := pagination.Validate("%%%", pagination.DefaultMaxAge, now)
	var malformed *pagination.CursorError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, pagination.CursorMalformed, malformed.Kind)

	stale := pagination.Encode(60, now.Add(-10*time.Minute))
	_, err = pagination.Validate(stale, pagination.DefaultMaxAge, now)
	var expired *pagination.CursorError
	require.ErrorAs(t, err, &expired)
	require.Equal(t, pagination.CursorExpired, expired.Kind)
	require.NotEqual(t, malformed.Message, expired.Message)

	c, err := pagination.Validate(pagination.Encode(60, now), pagination.DefaultMaxAge, now)
	require.NoError(t, err)
	require.Equal(t, 60, c.Offset)
}

func TestExtremeCreatedAtIsExpired(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	forged := base64.RawURLEncoding.EncodeToString([]byte("offset:40:createdAt:-9223372036854775808"))

	require.True(t, pagination.IsExpired(forged, pagination.DefaultMaxAge, now))

	_, err := pagination.Validate(forged, pagination.DefaultMaxAge, now)
	var cerr *pagination.CursorError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, pagination.CursorExpired, cerr.Kind)

	_, err = fixedPaginator(now).ParseParams(nil, forged)
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, pagination.CursorExpired, cerr.Kind)
}
