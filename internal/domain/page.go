package domain

// Paging limits applied when a request leaves them unset or out of range.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// SortOrder selects creation-time ordering for paged queries.
type SortOrder string

// Supported sort orders. Newest is the default.
const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// PageRequest is an offset/limit window over an ordered result.
type PageRequest struct {
	Offset int
	Limit  int
	Sort   SortOrder
}

// Normalize clamps the request into the supported range.
func (r PageRequest) Normalize() PageRequest {
	if r.Limit <= 0 {
		r.Limit = DefaultPageLimit
	}
	if r.Limit > MaxPageLimit {
		r.Limit = MaxPageLimit
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
	if r.Sort != SortOldest {
		r.Sort = SortNewest
	}
	return r
}

// Page is one window of a paged query plus the total match count.
type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// NewPage wraps items for req. A nil items slice becomes empty.
func NewPage[T any](items []T, total int, req PageRequest) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:  items,
		Total:  total,
		Offset: req.Offset,
		Limit:  req.Limit,
	}
}

// EmptyPage returns a page with no items.
func EmptyPage[T any](req PageRequest) *Page[T] {
	return NewPage[T](nil, 0, req)
}

// HasMore reports whether items exist past this window.
func (p *Page[T]) HasMore() bool {
	return p.Offset+len(p.Items) < p.Total
}
