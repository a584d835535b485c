package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/friendsearch/internal/domain"
)

// Search Prometheus metrics.
var (
	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_queries_total",
			Help:      "Total number of search operations",
		},
		[]string{"operation", "status"},
	)

	SearchQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_query_duration_seconds",
			Help:      "Search operation duration in seconds, facets included",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)
)

var registerSearchOnce sync.Once

// RegisterSearchMetrics registers the search metrics. Safe to call more than once.
func RegisterSearchMetrics() {
	registerSearchOnce.Do(func() {
		prometheus.MustRegister(SearchQueriesTotal, SearchQueryDuration)
	})
}

// SearchObserver records search outcomes. It satisfies usecase/search.Observer.
type SearchObserver struct{}

// ObserveSearch counts the operation by status (ok, invalid, error) and
// records its duration.
func (SearchObserver) ObserveSearch(operation string, duration time.Duration, err error) {
	status := "ok"
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = "invalid"
	case err != nil:
		status = "error"
	}
	SearchQueriesTotal.WithLabelValues(operation, status).Inc()
	SearchQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
