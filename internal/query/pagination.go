package query

// Pagination describes the page returned by a list request
type Pagination struct {
	Page         int `json:"page"`
	Offset       int `json:"offset"`
	Limit        int `json:"limit"`
	TotalRecords int `json:"totalRecords"`
	TotalPages   int `json:"totalPages"`
}

// NewPagination computes the pagination block for a page of results
func NewPagination(page, limit, total int) Pagination {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return Pagination{
		Page:         page,
		Offset:       (page - 1) * limit,
		Limit:        limit,
		TotalRecords: total,
		TotalPages:   ceilDiv(total, limit),
	}
}

func ceilDiv(n, d int) int {
	q := n / d
	if n%d != 0 {
		q++
	}
	return q
}

// Page is one page of a listed resource
type Page[T any] struct {
	Items      []*T
	Pagination Pagination
}

// Count is the number of items on this page
func (p *Page[T]) Count() int {
	return len(p.Items)
}
