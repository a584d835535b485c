package search

import (
	"context"
	"time"

	"github.com/kailas-cloud/friendsearch/internal/domain/search/facet"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/request"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/result"
)

// Repository defines the storage contract for search operations.
type Repository interface {
	// Search returns one page of matches and the total candidate count. The
	// request's query selects relevance matching; without one rows match by
	// filters alone.
	Search(ctx context.Context, userID string, req request.Request) (result.Page, error)

	// FacetCounts returns raw counts of the scalar dimensions.
	FacetCounts(ctx context.Context, userID string, req request.Request) ([]facet.Row, error)

	// CircleCounts returns the user's circles with candidate counts.
	CircleCounts(ctx context.Context, userID string, req request.Request) ([]facet.CircleValue, error)
}

// Observer receives the outcome of every search operation. err is nil on success.
type Observer interface {
	ObserveSearch(operation string, duration time.Duration, err error)
}
