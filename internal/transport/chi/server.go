package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/friendsearch/internal/domain"
	domrecent "github.com/kailas-cloud/friendsearch/internal/domain/recent"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/request"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/friendsearch/internal/usecase/health"
	"github.com/kailas-cloud/friendsearch/internal/version"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 4 << 10

// Searcher runs friend searches (usecase/search.Service).
type Searcher interface {
	FullTextSearch(ctx context.Context, userID string, req *request.Request) ([]result.Item, error)
	PaginatedSearch(ctx context.Context, userID string, req *request.Request) (result.Response, error)
	FilterOnlyList(ctx context.Context, userID string, req *request.Request) (result.Response, error)
	Search(ctx context.Context, userID string, req *request.Request) (result.Response, error)
}

// History manages recent searches (usecase/recent.Service).
type History interface {
	List(ctx context.Context, userID string, limit int) ([]string, error)
	Add(ctx context.Context, userID, query string) error
	Delete(ctx context.Context, userID, query string) (bool, error)
	Clear(ctx context.Context, userID string) error
}

// HealthChecker reports component health (usecase/health.Service).
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server serves the search API.
type Server struct {
	search  Searcher
	history History
	health  HealthChecker
	logger  *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, history History, health HealthChecker, logger *zap.Logger) *Server {
	return &Server{search: search, history: history, health: health, logger: logger}
}

// Mount registers every route on r.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.FullTextSearch)
		r.Get("/search/paginated", s.PaginatedSearch)
		r.Get("/search/faceted", s.FacetedSearch)
		r.Get("/friends/filter", s.FilterFriends)

		r.Get("/search/recent", s.ListRecent)
		r.Post("/search/recent", s.AddRecent)
		r.Delete("/search/recent", s.ClearRecent)
		r.Delete("/search/recent/{query}", s.DeleteRecent)
	})
}

// Handler returns a router serving every route, for tests and embedding.
func (s *Server) Handler(middlewares ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewares...)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, "method not allowed")
	})
	s.Mount(r)
	return r
}

// FullTextSearchResponse is the body of GET /api/search.
type FullTextSearchResponse struct {
	Results []result.Item `json:"results"`
}

// FullTextSearch handles GET /api/search.
func (s *Server) FullTextSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := request.Normalize(request.Autocomplete, request.Params{
		Query:    q.Get("q"),
		PageSize: q.Get("limit"),
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	items, err := s.search.FullTextSearch(r.Context(), callerID(r), &req)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FullTextSearchResponse{Results: items})
}

// PaginatedSearch handles GET /api/search/paginated.
func (s *Server) PaginatedSearch(w http.ResponseWriter, r *http.Request) {
	req, err := request.Normalize(request.Paginated, pageParams(r.URL.Query()))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	resp, err := s.search.PaginatedSearch(r.Context(), callerID(r), &req)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// FacetedSearch handles GET /api/search/faceted. Without a query it lists by
// filters.
func (s *Server) FacetedSearch(w http.ResponseWriter, r *http.Request) {
	s.filtered(w, r, request.Faceted, s.search.Search)
}

// FilterFriends handles GET /api/friends/filter. The q parameter is ignored.
func (s *Server) FilterFriends(w http.ResponseWriter, r *http.Request) {
	s.filtered(w, r, request.FilterOnly, s.search.FilterOnlyList)
}

type searchFunc func(ctx context.Context, userID string, req *request.Request) (result.Response, error)

func (s *Server) filtered(w http.ResponseWriter, r *http.Request, kind request.Kind, run searchFunc) {
	q := r.URL.Query()
	params := pageParams(q)
	params.Filters = filterValues(q)
	includeFacets, err := parseBool(q.Get("include_facets"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	params.IncludeFacets = includeFacets

	req, err := request.Normalize(kind, params)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	resp, err := run(r.Context(), callerID(r), &req)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// RecentSearchesResponse is the body of GET /api/search/recent.
type RecentSearchesResponse struct {
	Queries []string `json:"queries"`
}

// AddRecentRequest is the body of POST /api/search/recent.
type AddRecentRequest struct {
	Query string `json:"query"`
}

// ListRecent handles GET /api/search/recent.
func (s *Server) ListRecent(w http.ResponseWriter, r *http.Request) {
	limit := domrecent.ClampLimit(r.URL.Query().Get("limit"))
	queries, err := s.history.List(r.Context(), callerID(r), limit)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RecentSearchesResponse{Queries: queries})
}

// AddRecent handles POST /api/search/recent.
func (s *Server) AddRecent(w http.ResponseWriter, r *http.Request) {
	var body AddRecentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body")
		return
	}
	if err := s.history.Add(r.Context(), callerID(r), body.Query); err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteRecent handles DELETE /api/search/recent/{query}.
func (s *Server) DeleteRecent(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")
	// chi routes on RawPath when the path carries escapes Path cannot express.
	if r.URL.RawPath != "" {
		var err error
		if query, err = url.PathUnescape(query); err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "invalid query encoding")
			return
		}
	}
	deleted, err := s.history.Delete(r.Context(), callerID(r), query)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, codeNotFound, "recent search not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearRecent handles DELETE /api/search/recent.
func (s *Server) ClearRecent(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Clear(r.Context(), callerID(r)); err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  healthuc.Status                 `json:"status"`
	Checks  map[string]healthuc.CheckResult `json:"checks"`
	Version string                          `json:"version"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
		s.logger.Warn("health check failed", zap.String("status", string(report.Status)))
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  report.Status,
		Checks:  report.Checks,
		Version: version.String(),
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func pageParams(q url.Values) request.Params {
	return request.Params{
		Query:     q.Get("q"),
		Page:      q.Get("page"),
		PageSize:  q.Get("page_size"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}
}

// filterValues reads the filter parameters. Circles may repeat or be
// comma-separated.
func filterValues(q url.Values) filter.Values {
	var circles []string
	for _, raw := range q["circles"] {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				circles = append(circles, id)
			}
		}
	}
	return filter.Values{
		Country:              q.Get(string(filter.Country)),
		City:                 q.Get(string(filter.City)),
		Organization:         q.Get(string(filter.Organization)),
		JobTitle:             q.Get(string(filter.JobTitle)),
		Department:           q.Get(string(filter.Department)),
		RelationshipCategory: q.Get(string(filter.RelationshipCategory)),
		Circles:              circles,
	}
}

func parseBool(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, domain.NewValidationError("include_facets", "must be a boolean")
	}
	return b, nil
}

// callerID returns the caller set by IdentityMiddleware, which guards every
// /api route.
func callerID(r *http.Request) string {
	id, _ := UserIDFromContext(r.Context())
	return id
}
