package friendsearch

import (
	"context"
	"time"
)

// HistoryService manages one user's recent searches, most recent first.
type HistoryService struct {
	userID string
	svc    historyUseCase
	obs    *observer
}

// List returns up to limit recent queries. A non-positive limit means 10;
// the maximum is 20.
func (h *HistoryService) List(ctx context.Context, limit int) (_ []string, err error) {
	start := time.Now()
	defer func() { h.obs.observe(opHistoryList, start, err) }()

	return h.svc.List(ctx, h.userID, limit)
}

// Add records query, refreshing it when already present.
func (h *HistoryService) Add(ctx context.Context, query string) (err error) {
	start := time.Now()
	defer func() { h.obs.observe(opHistoryAdd, start, err) }()

	return h.svc.Add(ctx, h.userID, query)
}

// Delete removes query and reports whether it was recorded.
func (h *HistoryService) Delete(ctx context.Context, query string) (_ bool, err error) {
	start := time.Now()
	defer func() { h.obs.observe(opHistoryDelete, start, err) }()

	return h.svc.Delete(ctx, h.userID, query)
}

// Clear removes every recent query.
func (h *HistoryService) Clear(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { h.obs.observe(opHistoryClear, start, err) }()

	return h.svc.Clear(ctx, h.userID)
}
