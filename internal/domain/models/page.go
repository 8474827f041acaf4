package models

// Default pagination values
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Page is a limit/offset request window
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps the window into a valid range
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// PagedResult contains one page of items with pagination metadata
type PagedResult[T any] struct {
	Items      []T  `json:"items"`
	TotalCount int  `json:"total_count"`
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	HasMore    bool `json:"has_more"`
}

// NewPagedResult creates a PagedResult with calculated HasMore flag
func NewPagedResult[T any](items []T, totalCount int, page Page) *PagedResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PagedResult[T]{
		Items:      items,
		TotalCount: totalCount,
		Limit:      page.Limit,
		Offset:     page.Offset,
		HasMore:    page.Offset+len(items) < totalCount,
	}
}
