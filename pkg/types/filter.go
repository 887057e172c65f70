package types

// Filter - параметры выборки списка.
// /api/news?type=event&active_only=true&search=конгресс&limit=10&offset=0
type Filter struct {
	Search string                 `json:"search,omitempty"`
	Type   string                 `json:"type,omitempty"`
	Filter map[string]interface{} `json:"filter,omitempty"`
	// ActiveOnly оставляет только опубликованные/активные записи.
	ActiveOnly     bool `json:"active_only"`
	Limit          int  `json:"limit"`
	Offset         int  `json:"offset"`
	WithPagination bool `json:"with_pagination"`
}

// Pagination represents pagination metadata.
type Pagination struct {
	TotalCount uint64 `json:"total_count"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

func NewPagination(total uint64, f Filter) Pagination {
	return Pagination{TotalCount: total, Limit: f.Limit, Offset: f.Offset}
}
