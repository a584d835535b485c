package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/friendsearch/internal/domain/search/facet"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/request"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/result"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	searchFn       func(ctx context.Context, userID string, req request.Request) (result.Page, error)
	facetCountsFn  func(ctx context.Context, userID string, req request.Request) ([]facet.Row, error)
	circleCountsFn func(ctx context.Context, userID string, req request.Request) ([]facet.CircleValue, error)
}

func (m *mockRepo) Search(ctx context.Context, userID string, req request.Request) (result.Page, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, userID, req)
	}
	return result.Page{}, nil
}

func (m *mockRepo) FacetCounts(ctx context.Context, userID string, req request.Request) ([]facet.Row, error) {
	if m.facetCountsFn != nil {
		return m.facetCountsFn(ctx, userID, req)
	}
	return nil, nil
}

func (m *mockRepo) CircleCounts(
	ctx context.Context, userID string, req request.Request,
) ([]facet.CircleValue, error) {
	if m.circleCountsFn != nil {
		return m.circleCountsFn(ctx, userID, req)
	}
	return nil, nil
}

// mockObserver records observed operations.
type mockObserver struct {
	mu   sync.Mutex
	ops  []string
	errs []error
}

func (m *mockObserver) ObserveSearch(op string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, op)
	m.errs = append(m.errs, err)
}

func newTestService(t *testing.T, opts ...Option) (*Service, *mockRepo) {
	t.Helper()
	repo := &mockRepo{}
	return New(repo, opts...), repo
}

func mustRequest(t *testing.T, kind request.Kind, p request.Params) *request.Request {
	t.Helper()
	r, err := request.Normalize(kind, p)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	return &r
}

func strPtr(s string) *string { return &s }
