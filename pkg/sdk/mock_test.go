package friendsearch

import (
	"context"

	"github.com/kailas-cloud/friendsearch/internal/domain/search/request"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/friendsearch/internal/usecase/health"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	fullTextFn   func(ctx context.Context, userID string, req *request.Request) ([]result.Item, error)
	paginatedFn  func(ctx context.Context, userID string, req *request.Request) (result.Response, error)
	facetedFn    func(ctx context.Context, userID string, req *request.Request) (result.Response, error)
	filterOnlyFn func(ctx context.Context, userID string, req *request.Request) (result.Response, error)
	searchFn     func(ctx context.Context, userID string, req *request.Request) (result.Response, error)
}

func (m *mockSearchUC) FullTextSearch(ctx context.Context, userID string, req *request.Request) ([]result.Item, error) {
	return m.fullTextFn(ctx, userID, req)
}

func (m *mockSearchUC) PaginatedSearch(
	ctx context.Context, userID string, req *request.Request,
) (result.Response, error) {
	return m.paginatedFn(ctx, userID, req)
}

func (m *mockSearchUC) FacetedSearch(ctx context.Context, userID string, req *request.Request) (result.Response, error) {
	return m.facetedFn(ctx, userID, req)
}

func (m *mockSearchUC) FilterOnlyList(
	ctx context.Context, userID string, req *request.Request,
) (result.Response, error) {
	return m.filterOnlyFn(ctx, userID, req)
}

func (m *mockSearchUC) Search(ctx context.Context, userID string, req *request.Request) (result.Response, error) {
	return m.searchFn(ctx, userID, req)
}

// --- historyUseCase mock ---

type mockHistoryUC struct {
	listFn   func(ctx context.Context, userID string, limit int) ([]string, error)
	addFn    func(ctx context.Context, userID, query string) error
	deleteFn func(ctx context.Context, userID, query string) (bool, error)
	clearFn  func(ctx context.Context, userID string) error
}

func (m *mockHistoryUC) List(ctx context.Context, userID string, limit int) ([]string, error) {
	return m.listFn(ctx, userID, limit)
}

func (m *mockHistoryUC) Add(ctx context.Context, userID, query string) error {
	return m.addFn(ctx, userID, query)
}

func (m *mockHistoryUC) Delete(ctx context.Context, userID, query string) (bool, error) {
	return m.deleteFn(ctx, userID, query)
}

func (m *mockHistoryUC) Clear(ctx context.Context, userID string) error {
	return m.clearFn(ctx, userID)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }
