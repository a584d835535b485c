package friendsearch

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	databaseURL string
	maxConns    int32
	migrate     bool

	redisAddrs    []string
	redisPassword string
	keyPrefix     string

	textConfig       string
	headlineMaxWords int
	browseFacets     string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithPostgres sets the PostgreSQL connection URL. Required.
func WithPostgres(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.databaseURL = url
	})
}

// WithMaxConns caps the PostgreSQL pool size.
func WithMaxConns(n int32) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxConns = n
	})
}

// WithMigrate applies the schema on connect. Every statement is idempotent.
func WithMigrate() Option {
	return optionFunc(func(c *clientConfig) {
		c.migrate = true
	})
}

// WithRedisHistory keeps the recent-search history in Redis (or Valkey)
// instead of PostgreSQL.
func WithRedisHistory(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddrs = []string{addr}
		c.redisPassword = password
	})
}

// WithHistoryKeyPrefix sets the Redis key prefix of history sets.
func WithHistoryKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithTextConfig sets the PostgreSQL text search configuration.
// Default: simple.
func WithTextConfig(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.textConfig = name
	})
}

// WithHeadlineMaxWords bounds highlighted snippets. Default: 35.
func WithHeadlineMaxWords(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.headlineMaxWords = n
	})
}

// WithGlobalBrowseFacets makes filter-only listings count facets over all of
// the user's friends instead of the current filters.
func WithGlobalBrowseFacets() Option {
	return optionFunc(func(c *clientConfig) {
		c.browseFacets = "global"
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
