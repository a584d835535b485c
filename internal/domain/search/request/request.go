package request

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/friendsearch/internal/domain"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MinQueryLength is the minimum effective query length, in characters.
	MinQueryLength = 2
	// MaxQueryLength is the maximum allowed search query length, in characters.
	MaxQueryLength = 256

	DefaultPageSize = 10
	// AutocompleteMaxLimit caps unpaginated, autocomplete-style results.
	AutocompleteMaxLimit = 10
	// ListMaxPageSize caps paginated lists.
	ListMaxPageSize = 50
	// MaxPage bounds the offset window.
	MaxPage = 10000
)

// Kind is the product surface a request is normalized for.
type Kind int

// Request kinds.
const (
	// Autocomplete is the unpaginated, limited, unfiltered full-text search.
	Autocomplete Kind = iota
	// Paginated is the ranked, paginated, unfiltered search.
	Paginated
	// Faceted is the ranked search with filters and optional facets. Without a
	// query it falls through to the filter-only path, if there is intent.
	Faceted
	// FilterOnly lists by filters; a query is never used.
	FilterOnly
)

// Params holds raw request parameters, typically straight from a query string.
type Params struct {
	Query         string
	Page          string
	PageSize      string
	SortBy        string
	SortOrder     string
	Filters       filter.Values
	IncludeFacets bool
}

// Request is a validated, canonical search request. It is immutable.
type Request struct {
	query         string
	page          int
	pageSize      int
	sortBy        SortBy
	sortOrder     SortOrder
	filters       filter.Set
	includeFacets bool
}

// Normalize validates raw parameters for the given kind and builds a Request.
func Normalize(kind Kind, p Params) (Request, error) {
	var query string
	var err error
	if kind != FilterOnly {
		if query, err = NormalizeQuery(p.Query); err != nil {
			return Request{}, err
		}
	}
	if query == "" && (kind == Autocomplete || kind == Paginated) {
		return Request{}, domain.NewValidationError("query", "is required")
	}

	maxSize := ListMaxPageSize
	if kind == Autocomplete {
		maxSize = AutocompleteMaxLimit
	}
	req := Request{
		query:    query,
		page:     1,
		pageSize: ClampLimit(p.PageSize, DefaultPageSize, maxSize),
	}
	if kind == Autocomplete {
		req.sortBy, req.sortOrder = SortRelevance, Desc
		return req, nil
	}

	if req.page, err = parsePage(p.Page); err != nil {
		return Request{}, err
	}
	if req.sortBy, req.sortOrder, err = parseSort(p.SortBy, p.SortOrder, query != ""); err != nil {
		return Request{}, err
	}
	if kind == Paginated {
		return req, nil
	}

	if req.filters, err = filter.New(p.Filters); err != nil {
		return Request{}, domain.NewValidationError("filters", err.Error())
	}
	req.includeFacets = p.IncludeFacets

	if kind == Faceted && query == "" && req.filters.IsEmpty() && !req.includeFacets {
		return Request{}, domain.NewValidationError("", "a query, a filter or include_facets is required")
	}
	return req, nil
}

// NormalizeQuery trims a query and enforces its length rules. An empty result means absent.
func NormalizeQuery(raw string) (string, error) {
	q := strings.TrimSpace(raw)
	if q == "" {
		return "", nil
	}
	n := utf8.RuneCountInString(q)
	if n < MinQueryLength {
		return "", domain.NewValidationError("query", "must be at least 2 characters")
	}
	if n > MaxQueryLength {
		return "", domain.NewValidationError("query", "too long (max 256 characters)")
	}
	return q, nil
}

func parsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError("page", "must be a number")
	}
	if page < 1 {
		return 1, nil
	}
	if page > MaxPage {
		return 0, domain.NewValidationError("page", "exceeds the maximum page")
	}
	return page, nil
}

func parseSort(rawBy, rawOrder string, hasQuery bool) (SortBy, SortOrder, error) {
	by := SortName
	if hasQuery {
		by = SortRelevance
	}
	if strings.TrimSpace(rawBy) != "" {
		parsed, ok := parseSortBy(rawBy)
		if !ok {
			return "", "", domain.NewValidationError("sort_by", "unknown sort key "+strconv.Quote(rawBy))
		}
		by = parsed
	}
	// Without a query there is no relevance to sort by.
	if by == SortRelevance && !hasQuery {
		by = SortName
	}

	order := defaultOrder(by)
	if strings.TrimSpace(rawOrder) != "" {
		parsed, ok := parseSortOrder(rawOrder)
		if !ok {
			return "", "", domain.NewValidationError("sort_order", "must be asc or desc")
		}
		order = parsed
	}
	return by, order, nil
}

// ClampLimit parses a limit and clamps it into [1, maxLimit]. Absent or
// non-numeric input yields def.
func ClampLimit(raw string, def, maxLimit int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		n = def
	}
	if n < 1 {
		n = 1
	}
	if n > maxLimit {
		n = maxLimit
	}
	return n
}

// Query returns the trimmed query text, empty when absent.
func (r *Request) Query() string { return r.query }

// HasQuery reports whether a query is present.
func (r *Request) HasQuery() bool { return r.query != "" }

// Mode returns the query path this request runs on.
func (r *Request) Mode() mode.Mode {
	if r.HasQuery() {
		return mode.Relevance
	}
	return mode.FilterOnly
}

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// PageSize returns the page size (the limit for autocomplete requests).
func (r *Request) PageSize() int { return r.pageSize }

// Offset returns the row offset of the page window.
func (r *Request) Offset() int { return (r.page - 1) * r.pageSize }

// SortBy returns the sort key.
func (r *Request) SortBy() SortBy { return r.sortBy }

// SortOrder returns the sort direction.
func (r *Request) SortOrder() SortOrder { return r.sortOrder }

// Filters returns the structured filters.
func (r *Request) Filters() filter.Set { return r.filters }

// IncludeFacets reports whether facet counts were requested.
func (r *Request) IncludeFacets() bool { return r.includeFacets }

// Unscoped returns a copy without query and filters, for counting over all of
// a user's rows.
func (r *Request) Unscoped() Request {
	out := *r
	out.query = ""
	out.filters = filter.Set{}
	return out
}
