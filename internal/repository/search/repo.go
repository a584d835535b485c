package search

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/friendsearch/internal/db"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/request"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/result"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/snippet"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Defaults for Config. DefaultTextConfig is the configuration the stored
// friends.search_vector column is generated with; any other one is computed
// per row.
const (
	DefaultTextConfig       = "simple"
	DefaultHeadlineMaxWords = 35
)

// Config tunes full-text matching.
type Config struct {
	// TextConfig is the PostgreSQL text search configuration.
	TextConfig string
	// HeadlineMaxWords bounds the generated headline length.
	HeadlineMaxWords int
}

// Repo implements usecase/search.Repository on PostgreSQL.
type Repo struct {
	store            store
	textConfig       string
	headlineMaxWords int
}

// New creates a search repository.
func New(s store, cfg Config) *Repo {
	if cfg.TextConfig == "" {
		cfg.TextConfig = DefaultTextConfig
	}
	if cfg.HeadlineMaxWords <= 0 {
		cfg.HeadlineMaxWords = DefaultHeadlineMaxWords
	}
	return &Repo{store: s, textConfig: cfg.TextConfig, headlineMaxWords: cfg.HeadlineMaxWords}
}

// contextOf picks the text strategy for req: relevance with a query,
// filter-only without.
func (r *Repo) contextOf(userID string, req *request.Request) searchContext {
	var m matcher = filterOnly{}
	if req.Mode().Ranked() {
		m = newRelevance(req.Query(), r.textConfig, r.headlineMaxWords)
	}
	return searchContext{userID: userID, match: m, filters: req.Filters()}
}

var itemColumns = []string{
	"f.external_id::text",
	"f.display_name",
	"f.photo_thumbnail_url",
	"f.organization",
	"f.job_title",
	"(SELECT e.email_address FROM friend_emails e WHERE e.friend_id = f.id ORDER BY e.is_primary DESC, e.id LIMIT 1)",
	"(SELECT ph.phone_number FROM friend_phones ph WHERE ph.friend_id = f.id ORDER BY ph.is_primary DESC, ph.id LIMIT 1)",
}

// Search returns one page of friends matching req, plus the total candidate
// count. Ranked results carry a sanitized headline and a match source.
func (r *Repo) Search(ctx context.Context, userID string, req request.Request) (result.Page, error) {
	sc := r.contextOf(userID, &req)
	args := &db.Args{}
	b := sc.bind(args)

	cols := append(append([]string{}, itemColumns...), b.columns(args)...)
	cols = append(cols, "COUNT(*) OVER() AS total")

	sb := db.NewSelect(args).Columns(cols...).From("friends f")
	for _, j := range b.joins {
		sb.Join(j)
	}
	sb.Where(b.where(sc.filters)...).
		OrderBy(orderBy(req.SortBy(), req.SortOrder(), b.ranked)...).
		Limit(req.PageSize()).
		Offset(req.Offset())

	sql, err := sb.Build()
	if err != nil {
		return result.Page{}, fmt.Errorf("build search: %w", err)
	}

	rows, err := r.store.Query(ctx, sql, args.Values()...)
	if err != nil {
		return result.Page{}, fmt.Errorf("search friends: %w", err)
	}
	items, total, err := scanItems(rows, b.ranked)
	if err != nil {
		return result.Page{}, fmt.Errorf("scan friends: %w", err)
	}

	// Past the last page there is no row to carry the window count.
	if len(items) == 0 && req.Offset() > 0 {
		if total, err = r.count(ctx, sc); err != nil {
			return result.Page{}, err
		}
	}

	if err := r.attachCircles(ctx, userID, items); err != nil {
		return result.Page{}, err
	}
	return result.Page{Items: items, Total: total}, nil
}

func (r *Repo) count(ctx context.Context, sc searchContext) (int, error) {
	args := &db.Args{}
	b := sc.bind(args)
	sb := db.NewSelect(args).Columns("COUNT(*)").From("friends f")
	for _, j := range b.joins {
		sb.Join(j)
	}
	sql, err := sb.Where(b.where(sc.filters)...).Build()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var n int64
	if err := r.store.QueryRow(ctx, sql, args.Values()...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count friends: %w", err)
	}
	return int(n), nil
}

func scanItems(rows pgx.Rows, ranked bool) ([]result.Item, int, error) {
	defer rows.Close()

	var items []result.Item
	var total int64
	for rows.Next() {
		var it result.Item
		var headline, source *string
		if err := rows.Scan(
			&it.ID, &it.DisplayName, &it.PhotoThumbnailURL, &it.Organization, &it.JobTitle,
			&it.PrimaryEmail, &it.PrimaryPhone,
			&it.Rank, &headline, &source,
			&total,
		); err != nil {
			return nil, 0, err
		}
		it.Headline = snippet.Sanitize(headline)
		if ranked && source == nil {
			return nil, 0, fmt.Errorf("ranked friend %s without match source", it.ID)
		}
		if source != nil {
			ms := result.MatchSource(*source)
			if !ms.IsValid() {
				return nil, 0, fmt.Errorf("unexpected match source %q", *source)
			}
			it.MatchSource = &ms
		}
		it.Circles = []result.Circle{}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, int(total), nil
}

const circlesOfQuery = `SELECT f.external_id::text, c.external_id::text, c.name, c.color
FROM circle_friends cf
JOIN circles c ON c.id = cf.circle_id
JOIN friends f ON f.id = cf.friend_id
WHERE f.user_id = $1 AND c.user_id = $1 AND f.external_id = ANY($2::uuid[])
ORDER BY lower(c.name), c.id`

// attachCircles loads the circles of every item in one query.
func (r *Repo) attachCircles(ctx context.Context, userID string, items []result.Item) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, len(items))
	index := make(map[string]int, len(items))
	for i, it := range items {
		ids[i] = it.ID
		index[it.ID] = i
	}

	rows, err := r.store.Query(ctx, circlesOfQuery, userID, ids)
	if err != nil {
		return fmt.Errorf("load circles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var friendID string
		var c result.Circle
		if err := rows.Scan(&friendID, &c.ID, &c.Name, &c.Color); err != nil {
			return fmt.Errorf("scan circle: %w", err)
		}
		i, ok := index[friendID]
		if !ok {
			return fmt.Errorf("circle %s for unexpected friend %s", c.ID, friendID)
		}
		items[i].Circles = append(items[i].Circles, c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load circles: %w", err)
	}
	return nil
}
