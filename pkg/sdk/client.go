package friendsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/friendsearch/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/friendsearch/internal/db/redis"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/facet"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/request"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/result"
	recentrepo "github.com/kailas-cloud/friendsearch/internal/repository/recent"
	searchrepo "github.com/kailas-cloud/friendsearch/internal/repository/search"
	healthuc "github.com/kailas-cloud/friendsearch/internal/usecase/health"
	recentuc "github.com/kailas-cloud/friendsearch/internal/usecase/recent"
	searchuc "github.com/kailas-cloud/friendsearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, replaced by mocks in tests.
type searchUseCase interface {
	FullTextSearch(ctx context.Context, userID string, req *request.Request) ([]result.Item, error)
	PaginatedSearch(ctx context.Context, userID string, req *request.Request) (result.Response, error)
	FacetedSearch(ctx context.Context, userID string, req *request.Request) (result.Response, error)
	FilterOnlyList(ctx context.Context, userID string, req *request.Request) (result.Response, error)
	Search(ctx context.Context, userID string, req *request.Request) (result.Response, error)
}

type historyUseCase interface {
	List(ctx context.Context, userID string, limit int) ([]string, error)
	Add(ctx context.Context, userID, query string) error
	Delete(ctx context.Context, userID, query string) (bool, error)
	Clear(ctx context.Context, userID string) error
}

// Client is the friendsearch SDK entry point.
type Client struct {
	closers    []func()
	searchSvc  searchUseCase
	historySvc historyUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New creates a Client and connects to its stores.
// The provided context is used for the readiness checks.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.databaseURL == "" {
		return nil, errors.New("friendsearch: database url required (use WithPostgres)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	pg, err := postgres.NewStore(ctx, postgres.Config{URL: cfg.databaseURL, MaxConns: cfg.maxConns})
	if err != nil {
		return nil, fmt.Errorf("friendsearch: create postgres store: %w", err)
	}
	c := &Client{closers: []func(){pg.Close}, obs: obs}

	if err := pg.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		c.Close()
		return nil, fmt.Errorf("friendsearch: database not ready: %w", err)
	}
	if cfg.migrate {
		if err := pg.Migrate(ctx); err != nil {
			c.Close()
			return nil, fmt.Errorf("friendsearch: migrate: %w", err)
		}
	}

	var history recentuc.Repository = recentrepo.NewPostgres(pg)
	var historyPinger healthuc.Pinger
	if len(cfg.redisAddrs) > 0 {
		rs, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.redisAddrs, Password: cfg.redisPassword})
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("friendsearch: create redis store: %w", err)
		}
		c.closers = append(c.closers, rs.Close)
		if err := rs.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			c.Close()
			return nil, fmt.Errorf("friendsearch: history store not ready: %w", err)
		}
		history = recentrepo.NewRedis(rs, cfg.keyPrefix)
		historyPinger = rs
	}

	c.searchSvc = searchuc.New(
		searchrepo.New(pg, searchrepo.Config{
			TextConfig:       cfg.textConfig,
			HeadlineMaxWords: cfg.headlineMaxWords,
		}),
		searchuc.WithBrowseFacets(facet.Scope(cfg.browseFacets)),
	)
	c.historySvc = recentuc.New(history)
	c.healthSvc = healthuc.New(pg, historyPinger)
	return c, nil
}

// Close releases all resources, in reverse order of acquisition.
func (c *Client) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Search returns the search service scoped to one user's friends.
func (c *Client) Search(userID string) *SearchService {
	return &SearchService{userID: userID, svc: c.searchSvc, obs: c.obs}
}

// History returns one user's recent-search history.
func (c *Client) History(userID string) *HistoryService {
	return &HistoryService{userID: userID, svc: c.historySvc, obs: c.obs}
}
