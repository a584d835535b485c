package recent

import (
	"context"
	"time"
)

// Repository defines the storage contract of the recent-search history.
type Repository interface {
	List(ctx context.Context, userID string, limit int) ([]string, error)
	// Touch inserts query or refreshes its timestamp to at.
	Touch(ctx context.Context, userID, query string, at time.Time) error
	Delete(ctx context.Context, userID, query string) (bool, error)
	Clear(ctx context.Context, userID string) error
}
