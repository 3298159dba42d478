package pagination_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aussiebroadwan/agentboard/pkg/pagination"
	"github.com/stretchr/testify/require"
)

func TestBuildResponseHasMore(t *testing.T) {
	page := pagination.BuildResponse([]int{1, 2, 3}, 100, 20, 0)
	require.True(t, page.Pagination.HasMore)
	require.NotNil(t, page.Pagination.NextCursor)

	next, err := pagination.Decode(*page.Pagination.NextCursor)
	require.NoError(t, err)
	require.Equal(t, 3, next.Offset)

	page = pagination.BuildResponse([]int{1, 2, 3}, 3, 20, 0)
	require.False(t, page.Pagination.HasMore)
	require.Nil(t, page.Pagination.NextCursor)
}

func TestBuildResponseConsistency(t *testing.T) {
	for total := 0; total <= 12; total++ {
		for offset := 0; offset <= 14; offset++ {
			for count := 0; count <= 5; count++ {
				page := pagination.BuildResponse(make([]int, count), total, 5, offset)

				want := offset+count < total
				require.Equal(t, want, page.Pagination.HasMore, "total=%d offset=%d count=%d", total, offset, count)
				require.Equal(t, want, page.Pagination.NextCursor != nil)

				current, err := pagination.Decode(page.Pagination.Cursor)
				require.NoError(t, err)
				require.Equal(t, offset, current.Offset)
			}
		}
	}
}

func TestBuildResponseEdgeCases(t *testing.T) {
	t.Run("empty collection", func(t *testing.T) {
		page := pagination.BuildResponse[string](nil, 0, 20, 0)
		require.False(t, page.Pagination.HasMore)
		require.Nil(t, page.Pagination.NextCursor)
		require.NotNil(t, page.Items)
		require.Empty(t, page.Items)
	})

	t.Run("offset past the end", func(t *testing.T) {
		page := pagination.BuildResponse([]string{}, 10, 20, 60)
		require.False(t, page.Pagination.HasMore)
		require.Nil(t, page.Pagination.NextCursor)
		require.Equal(t, 60, page.Pagination.Offset)
	})

	t.Run("limit is re-normalized", func(t *testing.T) {
		require.Equal(t, 100, pagination.BuildResponse([]int{}, 0, 1000, 0).Pagination.Limit)
		require.Equal(t, 1, pagination.BuildResponse([]int{}, 0, -3, 0).Pagination.Limit)
	})
}

func TestMetaJSON(t *testing.T) {
	page := pagination.BuildResponse([]int{1}, 1, 20, 0)

	raw, err := json.Marshal(page.Pagination)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Contains(t, decoded, "nextCursor")
	require.Nil(t, decoded["nextCursor"])
	require.Equal(t, false, decoded["hasMore"])
	require.Equal(t, float64(1), decoded["total"])
}

func TestPaginationWalk(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	p := fixedPaginator(now)

	dataset := make([]int, 100)
	for i := range dataset {
		dataset[i] = i
	}

	var (
		cursor  string
		offsets []int
		seen    []int
	)
	for range 10 {
		params, err := p.ParseParams(intPtr(20), cursor)
		require.NoError(t, err)
		offsets = append(offsets, params.Offset)

		end := min(params.Offset+params.Limit, len(dataset))
		items := dataset[min(params.Offset, len(dataset)):end]
		seen = append(seen, items...)

		page := pagination.Build(p, items, len(dataset), params.Limit, params.Offset)
		if !page.Pagination.HasMore {
			break
		}
		cursor = *page.Pagination.NextCursor
	}

	require.Equal(t, []int{0, 20, 40, 60, 80}, offsets)
	require.Equal(t, dataset, seen)
}

func TestMapKeepsMeta(t *testing.T) {
	page := pagination.BuildResponse([]int{1, 2}, 5, 2, 0)
	mapped := pagination.Map(page, func(n int) string { return string(rune('a' + n)) })

	require.Equal(t, []string{"b", "c"}, mapped.Items)
	require.Equal(t, page.Pagination, mapped.Pagination)

	empty := pagination.Map(pagination.BuildResponse[int](nil, 0, 20, 0), func(n int) int { return n })
	require.NotNil(t, empty.Items)
	require.Empty(t, empty.Items)
}
