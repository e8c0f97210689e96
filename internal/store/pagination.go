package store

// Page size limits for list endpoints.
const (
	DefaultPageLimit = 12
	MaxPageLimit     = 100
)

// PageParams selects one page of a list. Page is 1-based.
type PageParams struct {
	Page  int
	Limit int
}

// Validate fills defaults and clamps out of range values.
func (p *PageParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
}

// Offset returns the number of rows to skip.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of results plus the totals needed to render a pager.
type Page[T any] struct {
	Items     []T `json:"items"`
	Total     int `json:"total"`
	Page      int `json:"page"`
	Limit     int `json:"limit"`
	PageCount int `json:"page_count"`
}

// NewPage builds a page, computing PageCount as ceil(total/limit).
// Items is never nil.
func NewPage[T any](items []T, total int, params PageParams) *Page[T] {
	if items == nil {
		items = []T{}
	}
	pageCount := 0
	if params.Limit > 0 {
		pageCount = (total + params.Limit - 1) / params.Limit
	}
	return &Page[T]{
		Items:     items,
		Total:     total,
		Page:      params.Page,
		Limit:     params.Limit,
		PageCount: pageCount,
	}
}
