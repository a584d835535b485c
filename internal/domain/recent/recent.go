// Package recent holds the rules of the per-user recent-search history.
package recent

import (
	"github.com/kailas-cloud/friendsearch/internal/domain"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/request"
)

// List limits.
const (
	DefaultLimit = 10
	MaxLimit     = 20
)

// NormalizeQuery trims a query for the history. Unlike a search, an absent
// query is an error here.
func NormalizeQuery(raw string) (string, error) {
	q, err := request.NormalizeQuery(raw)
	if err != nil {
		return "", err
	}
	if q == "" {
		return "", domain.NewValidationError("query", "is required")
	}
	return q, nil
}

// ClampLimit parses a list limit into [1, MaxLimit], DefaultLimit when absent.
func ClampLimit(raw string) int {
	return request.ClampLimit(raw, DefaultLimit, MaxLimit)
}
