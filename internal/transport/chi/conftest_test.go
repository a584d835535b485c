package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/friendsearch/internal/domain/search/request"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/friendsearch/internal/usecase/health"
)

type mockSearcher struct {
	fullTextFn   func(req *request.Request) ([]result.Item, error)
	paginatedFn  func(req *request.Request) (result.Response, error)
	filterOnlyFn func(req *request.Request) (result.Response, error)
	searchFn     func(req *request.Request) (result.Response, error)

	lastUser string
	lastOp   string
	lastReq  *request.Request
}

func (m *mockSearcher) record(op, userID string, req *request.Request) {
	m.lastOp, m.lastUser, m.lastReq = op, userID, req
}

func (m *mockSearcher) FullTextSearch(_ context.Context, userID string, req *request.Request) ([]result.Item, error) {
	m.record("full_text", userID, req)
	if m.fullTextFn != nil {
		return m.fullTextFn(req)
	}
	return []result.Item{}, nil
}

func (m *mockSearcher) PaginatedSearch(_ context.Context, userID string, req *request.Request) (result.Response, error) {
	m.record("paginated", userID, req)
	if m.paginatedFn != nil {
		return m.paginatedFn(req)
	}
	return result.NewResponse(result.Page{}, req.Page(), req.PageSize()), nil
}

func (m *mockSearcher) FilterOnlyList(_ context.Context, userID string, req *request.Request) (result.Response, error) {
	m.record("filter_only", userID, req)
	if m.filterOnlyFn != nil {
		return m.filterOnlyFn(req)
	}
	return result.NewResponse(result.Page{}, req.Page(), req.PageSize()), nil
}

func (m *mockSearcher) Search(_ context.Context, userID string, req *request.Request) (result.Response, error) {
	m.record("search", userID, req)
	if m.searchFn != nil {
		return m.searchFn(req)
	}
	return result.NewResponse(result.Page{}, req.Page(), req.PageSize()), nil
}

type mockHistory struct {
	listFn   func(limit int) ([]string, error)
	addFn    func(query string) error
	deleteFn func(query string) (bool, error)
	clearFn  func() error

	lastUser  string
	lastLimit int
	lastQuery string
	cleared   bool
}

func (m *mockHistory) List(_ context.Context, userID string, limit int) ([]string, error) {
	m.lastUser, m.lastLimit = userID, limit
	if m.listFn != nil {
		return m.listFn(limit)
	}
	return []string{}, nil
}

func (m *mockHistory) Add(_ context.Context, userID, query string) error {
	m.lastUser, m.lastQuery = userID, query
	if m.addFn != nil {
		return m.addFn(query)
	}
	return nil
}

func (m *mockHistory) Delete(_ context.Context, userID, query string) (bool, error) {
	m.lastUser, m.lastQuery = userID, query
	if m.deleteFn != nil {
		return m.deleteFn(query)
	}
	return true, nil
}

func (m *mockHistory) Clear(_ context.Context, userID string) error {
	m.lastUser, m.cleared = userID, true
	if m.clearFn != nil {
		return m.clearFn()
	}
	return nil
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

type testServer struct {
	search  *mockSearcher
	history *mockHistory
	health  *mockHealth
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		search:  &mockSearcher{},
		history: &mockHistory{},
		health: &mockHealth{report: healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
		}},
	}
	srv := NewServer(ts.search, ts.history, ts.health, zap.NewNop())
	ts.handler = srv.Handler(IdentityMiddleware(nil, userHeader))
	return ts
}

// do sends a request as user u1.
func (ts *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(userHeader, "u1")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func strPtr(s string) *string { return &s }
