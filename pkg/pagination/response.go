package pagination

// Meta describes where a page sits in the full result set.
type Meta struct {
	Total      int     `json:"total"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
	Cursor     string  `json:"cursor"`
	NextCursor *string `json:"nextCursor"`
	HasMore    bool    `json:"hasMore"`
}

// Page is one slice of a list plus its pagination metadata.
type Page[T any] struct {
	Items      []T
	Pagination Meta
}

// BuildResponse wraps an already fetched page using the default paginator.
func BuildResponse[T any](items []T, total, limit, offset int) Page[T] {
	return Build(Default, items, total, limit, offset)
}

// Build wraps items fetched at offset into a Page. It never fails: an offset
// past the end of the collection (rows deleted since the cursor was minted)
// simply produces an empty page with HasMore false.
func Build[T any](p Paginator, items []T, total, limit, offset int) Page[T] {
	if items == nil {
		items = []T{}
	}
	if offset < 0 {
		offset = 0
	}

	now := p.now()
	end := offset + len(items)
	hasMore := end < total

	meta := Meta{
		Total:   total,
		Limit:   p.NormalizeLimit(&limit),
		Offset:  offset,
		Cursor:  Encode(offset, now),
		HasMore: hasMore,
	}
	if hasMore {
		next := Encode(end, now)
		meta.NextCursor = &next
	}

	return Page[T]{Items: items, Pagination: meta}
}

// Map converts the items of a page, keeping its metadata.
func Map[T, U any](page Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(page.Items))
	for i, item := range page.Items {
		out[i] = fn(item)
	}
	return Page[U]{Items: out, Pagination: page.Pagination}
}
