package friendsearch

import (
	"strconv"

	"github.com/kailas-cloud/friendsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/request"
)

// SearchOption configures a paginated search.
type SearchOption func(*searchConfig)

type searchConfig struct {
	page          int
	pageSize      int
	sortBy        string
	sortOrder     string
	filters       Filters
	includeFacets bool
}

// WithPage selects the 1-based page.
func WithPage(page int) SearchOption {
	return func(c *searchConfig) { c.page = page }
}

// WithPageSize sets the page size, clamped to [1, 50]. Default: 10.
func WithPageSize(size int) SearchOption {
	return func(c *searchConfig) { c.pageSize = size }
}

// WithSort sets the sort key and direction ("asc" or "desc"). An empty order
// uses the key's default.
func WithSort(by, order string) SearchOption {
	return func(c *searchConfig) {
		c.sortBy = by
		c.sortOrder = order
	}
}

// WithFilters narrows the search. Ignored by Paginated.
func WithFilters(f Filters) SearchOption {
	return func(c *searchConfig) { c.filters = f }
}

// WithFacets requests facet counts. Ignored by Paginated.
func WithFacets() SearchOption {
	return func(c *searchConfig) { c.includeFacets = true }
}

// params renders the options as raw request parameters.
func params(query string, opts []SearchOption) request.Params {
	var c searchConfig
	for _, o := range opts {
		o(&c)
	}
	return request.Params{
		Query:     query,
		Page:      itoa(c.page),
		PageSize:  itoa(c.pageSize),
		SortBy:    c.sortBy,
		SortOrder: c.sortOrder,
		Filters: filter.Values{
			Country:              c.filters.Country,
			City:                 c.filters.City,
			Organization:         c.filters.Organization,
			JobTitle:             c.filters.JobTitle,
			Department:           c.filters.Department,
			RelationshipCategory: c.filters.RelationshipCategory,
			Circles:              c.filters.Circles,
		},
		IncludeFacets: c.includeFacets,
	}
}

// itoa leaves zero unset so defaults apply.
func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
