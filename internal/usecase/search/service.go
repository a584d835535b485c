package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/friendsearch/internal/domain"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/facet"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/request"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/result"
	"github.com/kailas-cloud/friendsearch/internal/logger"
)

// Operation names, used in logs and metrics.
const (
	OpFullText   = "full_text"
	OpPaginated  = "paginated"
	OpFaceted    = "faceted"
	OpFilterOnly = "filter_only"
	OpFacets     = "facets"
)

// Service runs friend searches: relevance search with or without filters,
// filter-only listing, and facet aggregation.
type Service struct {
	repo        Repository
	browseScope facet.Scope
	observer    Observer
}

// Option configures a Service.
type Option func(*Service)

// WithBrowseFacets sets the facet scope of filter-only listings.
// facet.Contextual (the default) counts each dimension over the active filters
// except its own; facet.Global counts over all of the user's friends, ignoring
// the filters. Faceted search with a query is always contextual.
func WithBrowseFacets(scope facet.Scope) Option {
	return func(s *Service) {
		if scope.IsValid() {
			s.browseScope = scope
		}
	}
}

// WithObserver reports every operation to o.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// New creates a search service. Filter-only facets default to facet.Contextual.
func New(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, browseScope: facet.Contextual}
	for _, o := range opts {
		o(s)
	}
	return s
}

// FullTextSearch returns the best matches of the query, unpaginated and unfiltered.
func (s *Service) FullTextSearch(ctx context.Context, userID string, req *request.Request) ([]result.Item, error) {
	if !req.HasQuery() {
		return nil, s.reject(OpFullText, domain.ErrInvalidSearchParameters)
	}
	resp, err := s.execute(ctx, OpFullText, userID, req, facet.Contextual)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// PaginatedSearch returns one ranked page of query matches, unfiltered.
func (s *Service) PaginatedSearch(ctx context.Context, userID string, req *request.Request) (result.Response, error) {
	if !req.HasQuery() {
		return result.Response{}, s.reject(OpPaginated, domain.ErrInvalidSearchParameters)
	}
	return s.execute(ctx, OpPaginated, userID, req, facet.Contextual)
}

// FacetedSearch returns one ranked page of query matches narrowed by filters,
// with facets when requested. A query is required.
func (s *Service) FacetedSearch(ctx context.Context, userID string, req *request.Request) (result.Response, error) {
	if !req.HasQuery() {
		return result.Response{}, s.reject(OpFaceted, domain.ErrInvalidSearchParameters)
	}
	return s.execute(ctx, OpFaceted, userID, req, facet.Contextual)
}

// FilterOnlyList returns one page of friends matching the filters, sorted by
// the requested field, with facets when requested.
func (s *Service) FilterOnlyList(ctx context.Context, userID string, req *request.Request) (result.Response, error) {
	if req.HasQuery() {
		return result.Response{}, s.reject(OpFilterOnly,
			domain.NewValidationError("query", "is not accepted by filter-only listing"))
	}
	return s.execute(ctx, OpFilterOnly, userID, req, s.browseScope)
}

// Search runs the relevance path when the request has a query and the
// filter-only path when it carries filters or asks for facets.
func (s *Service) Search(ctx context.Context, userID string, req *request.Request) (result.Response, error) {
	switch {
	case req.HasQuery():
		return s.FacetedSearch(ctx, userID, req)
	case !req.Filters().IsEmpty() || req.IncludeFacets():
		return s.FilterOnlyList(ctx, userID, req)
	default:
		return result.Response{}, s.reject(OpFilterOnly,
			domain.NewValidationError("", "a query, a filter or include_facets is required"))
	}
}

// Aggregate counts facet values over req's query and filters, or over all of
// the user's rows for facet.Global. Scalar and circle counts run
// concurrently; if either fails, the aggregation fails.
func (s *Service) Aggregate(
	ctx context.Context, userID string, req *request.Request, scope facet.Scope,
) (facet.Groups, error) {
	groups, err := s.aggregate(ctx, userID, req, scope)
	if err != nil {
		return facet.Groups{}, s.internal(ctx, OpFacets, userID, req, err)
	}
	return groups, nil
}

func (s *Service) aggregate(
	ctx context.Context, userID string, req *request.Request, scope facet.Scope,
) (facet.Groups, error) {
	scoped := *req
	if scope == facet.Global {
		scoped = req.Unscoped()
	}

	var rows []facet.Row
	var circles []facet.CircleValue
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.repo.FacetCounts(gctx, userID, scoped)
		if err != nil {
			return fmt.Errorf("facet counts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		circles, err = s.repo.CircleCounts(gctx, userID, scoped)
		if err != nil {
			return fmt.Errorf("circle counts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return facet.Groups{}, err
	}

	groups, err := facet.Merge(rows, circles)
	if err != nil {
		return facet.Groups{}, fmt.Errorf("merge facets: %w", err)
	}
	return groups, nil
}

// execute runs the page query and, when requested, the facet aggregation
// concurrently. A failure of either fails the whole request.
func (s *Service) execute(
	ctx context.Context, op, userID string, req *request.Request, scope facet.Scope,
) (resp result.Response, err error) {
	start := time.Now()
	defer func() {
		if s.observer != nil {
			s.observer.ObserveSearch(op, time.Since(start), err)
		}
	}()

	var page result.Page
	var groups facet.Groups
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = s.repo.Search(gctx, userID, *req)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		return nil
	})
	if req.IncludeFacets() {
		g.Go(func() error {
			var err error
			groups, err = s.aggregate(gctx, userID, req, scope)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return result.Response{}, s.internal(ctx, op, userID, req, err)
	}

	resp = result.NewResponse(page, req.Page(), req.PageSize())
	if req.IncludeFacets() {
		resp.Facets = &groups
	}
	return resp, nil
}

// reject reports a request refused before any store round-trip.
func (s *Service) reject(op string, err error) error {
	if s.observer != nil {
		s.observer.ObserveSearch(op, 0, err)
	}
	return err
}

// internal logs an infrastructure failure with its request context and
// returns it as domain.ErrInternal.
func (s *Service) internal(ctx context.Context, op, userID string, req *request.Request, err error) error {
	level := zap.ErrorLevel
	if errors.Is(err, context.Canceled) {
		level = zap.DebugLevel
	}
	logger.FromContext(ctx).Log(level, "search failed",
		zap.String("operation", op),
		zap.String("mode", string(req.Mode())),
		zap.String("user_id", userID),
		zap.String("query", req.Query()),
		zap.Any("filters", req.Filters().Fields()),
		zap.Error(err),
	)
	return fmt.Errorf("%w: %w", domain.ErrInternal, err)
}
