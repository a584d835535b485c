package recent

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is the consumer interface of the PostgreSQL history (ISP).
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const (
	listSQL = `SELECT query FROM recent_searches
WHERE user_id = $1
ORDER BY searched_at DESC, id DESC
LIMIT $2`

	touchSQL = `INSERT INTO recent_searches (user_id, query, searched_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, query) DO UPDATE SET searched_at = EXCLUDED.searched_at`

	deleteSQL = `DELETE FROM recent_searches WHERE user_id = $1 AND query = $2`

	clearSQL = `DELETE FROM recent_searches WHERE user_id = $1`
)

// PostgresRepo stores the history in the recent_searches table.
type PostgresRepo struct {
	store querier
}

// NewPostgres creates a PostgreSQL-backed history repository.
func NewPostgres(s querier) *PostgresRepo {
	return &PostgresRepo{store: s}
}

// List returns up to limit queries, most recent first.
func (r *PostgresRepo) List(ctx context.Context, userID string, limit int) ([]string, error) {
	rows, err := r.store.Query(ctx, listSQL, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent searches: %w", err)
	}
	defer rows.Close()

	queries := make([]string, 0, limit)
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("scan recent search: %w", err)
		}
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recent searches: %w", err)
	}
	return queries, nil
}

// Touch inserts the query or refreshes its timestamp.
func (r *PostgresRepo) Touch(ctx context.Context, userID, query string, at time.Time) error {
	if _, err := r.store.Exec(ctx, touchSQL, userID, query, at); err != nil {
		return fmt.Errorf("touch recent search: %w", err)
	}
	return nil
}

// Delete removes one query and reports whether it existed.
func (r *PostgresRepo) Delete(ctx context.Context, userID, query string) (bool, error) {
	tag, err := r.store.Exec(ctx, deleteSQL, userID, query)
	if err != nil {
		return false, fmt.Errorf("delete recent search: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Clear removes the whole history of the user.
func (r *PostgresRepo) Clear(ctx context.Context, userID string) error {
	if _, err := r.store.Exec(ctx, clearSQL, userID); err != nil {
		return fmt.Errorf("clear recent searches: %w", err)
	}
	return nil
}
