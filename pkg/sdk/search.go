package friendsearch

import (
	"context"
	"time"

	"github.com/kailas-cloud/friendsearch/internal/domain/search/request"
)

// SearchService searches one user's friends.
type SearchService struct {
	userID string
	svc    searchUseCase
	obs    *observer
}

// FullText returns up to limit best matches for query (autocomplete).
// limit is clamped to [1, 10]; zero means 10.
func (s *SearchService) FullText(ctx context.Context, query string, limit int) (_ []Result, err error) {
	start := time.Now()
	defer func() { s.obs.observe(opFullText, start, err) }()

	req, err := request.Normalize(request.Autocomplete, request.Params{
		Query:    query,
		PageSize: itoa(limit),
	})
	if err != nil {
		return nil, err
	}
	items, err := s.svc.FullTextSearch(ctx, s.userID, &req)
	if err != nil {
		return nil, err
	}
	s.obs.searched(opFullText, len(items))
	return items, nil
}

// Paginated returns one ranked page of matches for query. Filters and facets
// are not applied.
func (s *SearchService) Paginated(ctx context.Context, query string, opts ...SearchOption) (_ Response, err error) {
	start := time.Now()
	defer func() { s.obs.observe(opPaginated, start, err) }()

	req, err := request.Normalize(request.Paginated, params(query, opts))
	if err != nil {
		return Response{}, err
	}
	resp, err := s.svc.PaginatedSearch(ctx, s.userID, &req)
	return s.respond(opPaginated, resp, err)
}

// Faceted returns one ranked page of matches for query narrowed by filters,
// with facet counts when WithFacets is given. query is required.
func (s *SearchService) Faceted(ctx context.Context, query string, opts ...SearchOption) (_ Response, err error) {
	start := time.Now()
	defer func() { s.obs.observe(opFaceted, start, err) }()

	req, err := request.Normalize(request.Faceted, params(query, opts))
	if err != nil {
		return Response{}, err
	}
	resp, err := s.svc.FacetedSearch(ctx, s.userID, &req)
	return s.respond(opFaceted, resp, err)
}

// Filter lists friends by filters only, sorted by name unless WithSort says
// otherwise.
func (s *SearchService) Filter(ctx context.Context, opts ...SearchOption) (_ Response, err error) {
	start := time.Now()
	defer func() { s.obs.observe(opFilter, start, err) }()

	req, err := request.Normalize(request.FilterOnly, params("", opts))
	if err != nil {
		return Response{}, err
	}
	resp, err := s.svc.FilterOnlyList(ctx, s.userID, &req)
	return s.respond(opFilter, resp, err)
}

// Query runs Faceted when query is non-blank and Filter otherwise.
func (s *SearchService) Query(ctx context.Context, query string, opts ...SearchOption) (_ Response, err error) {
	start := time.Now()
	defer func() { s.obs.observe(opQuery, start, err) }()

	req, err := request.Normalize(request.Faceted, params(query, opts))
	if err != nil {
		return Response{}, err
	}
	resp, err := s.svc.Search(ctx, s.userID, &req)
	return s.respond(opQuery, resp, err)
}

func (s *SearchService) respond(op operation, resp Response, err error) (Response, error) {
	if err != nil {
		return Response{}, err
	}
	s.obs.searched(op, len(resp.Results))
	return resp, nil
}
