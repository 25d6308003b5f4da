package repository

import "strings"

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// Offset returns the row offset of the requested page.
func (q *ListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PerPage
}

// Filter returns a trimmed filter value, "" when unset.
func (q *ListQuery) Filter(key string) string {
	if q.Filters == nil {
		return ""
	}
	return strings.TrimSpace(q.Filters[key])
}

// SortOrder returns "DESC" or "ASC" for SortDir, defaulting to def.
func (q *ListQuery) SortOrder(def string) string {
	switch strings.ToLower(q.SortDir) {
	case "desc":
		return "DESC"
	case "asc":
		return "ASC"
	}
	return def
}
