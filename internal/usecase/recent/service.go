package recent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/friendsearch/internal/domain"
	domrecent "github.com/kailas-cloud/friendsearch/internal/domain/recent"
	"github.com/kailas-cloud/friendsearch/internal/logger"
)

// Service manages the per-user recent-search history: a deduplicated list of
// queries, most recent first.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New creates a recent-search service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns up to limit queries, most recent first. limit is clamped to
// [1, MaxLimit]; a non-positive limit means DefaultLimit.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]string, error) {
	if limit < 1 {
		limit = domrecent.DefaultLimit
	}
	if limit > domrecent.MaxLimit {
		limit = domrecent.MaxLimit
	}
	queries, err := s.repo.List(ctx, userID, limit)
	if err != nil {
		return nil, s.internal(ctx, "list", userID, err)
	}
	return queries, nil
}

// Add records query. Adding a known query only refreshes its timestamp.
func (s *Service) Add(ctx context.Context, userID, query string) error {
	q, err := domrecent.NormalizeQuery(query)
	if err != nil {
		return err
	}
	if err := s.repo.Touch(ctx, userID, q, s.now().UTC()); err != nil {
		return s.internal(ctx, "add", userID, err)
	}
	return nil
}

// Delete removes one query by its exact text and reports whether it existed.
func (s *Service) Delete(ctx context.Context, userID, query string) (bool, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return false, domain.NewValidationError("query", "is required")
	}
	removed, err := s.repo.Delete(ctx, userID, q)
	if err != nil {
		return false, s.internal(ctx, "delete", userID, err)
	}
	return removed, nil
}

// Clear removes the whole history of the user.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return s.internal(ctx, "clear", userID, err)
	}
	return nil
}

func (s *Service) internal(ctx context.Context, op, userID string, err error) error {
	logger.FromContext(ctx).Error("recent searches failed",
		zap.String("operation", op),
		zap.String("user_id", userID),
		zap.Error(err),
	)
	return fmt.Errorf("%w: %w", domain.ErrInternal, err)
}
