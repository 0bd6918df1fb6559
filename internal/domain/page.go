package domain

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// PaginationParams carries page/limit values from the HTTP layer to the
// catalog repo. Page is 1-indexed.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams normalizes raw query values. Zero or negative values
// fall back to page 1 and the default limit; the limit is capped.
func NewPaginationParams(page, limit int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: defaultPageLimit}
	if page >= 1 {
		p.Page = page
	}
	if limit >= 1 {
		p.Limit = min(limit, maxPageLimit)
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of results plus the total number of matching rows.
type Page[T any] struct {
	Items []T
	Total int64
}
