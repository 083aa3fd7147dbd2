package core

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// Pagination is a bounded page/limit pair shared by all list operations.
// Values are clamped at construction, so repositories can trust any
// Pagination that reaches them.
type Pagination struct {
	page  int64
	limit int64
}

// NewPagination clamps page to ≥ 0 and limit to 1..100 (0 means the default).
func NewPagination(page, limit int64) Pagination {
	if page < 0 {
		page = 0
	}
	switch {
	case limit <= 0:
		limit = defaultPageLimit
	case limit > maxPageLimit:
		limit = maxPageLimit
	}
	return Pagination{page: page, limit: limit}
}

// DefaultPagination returns the first page with the default limit.
func DefaultPagination() Pagination {
	return NewPagination(0, defaultPageLimit)
}

// Skip returns the number of records to skip before the requested page.
func (p Pagination) Skip() int64 {
	if p.limit == 0 {
		return 0
	}
	return p.page * p.limit
}

// Limit returns the clamped page size actually applied.
func (p Pagination) Limit() int64 {
	if p.limit == 0 {
		return defaultPageLimit
	}
	return p.limit
}

// Page returns the zero-based page number.
func (p Pagination) Page() int64 {
	return p.page
}
