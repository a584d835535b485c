package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kailas-cloud/friendsearch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

//go:embed schema.sql
var schemaSQL string

// Config holds connection parameters for a PostgreSQL store.
type Config struct {
	URL      string
	MaxConns int32
	MinConns int32
}

// Store implements db.Store via a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a pooled PostgreSQL store. The pool connects lazily.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("url is required")
	}

	poolCfg, err := pgxpool.ParseConfig(normalizeURL(cfg.URL))
	if err != nil {
		return nil, &db.Error{Op: db.OpConnect, Err: fmt.Errorf("parse url: %w", err)}
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, &db.Error{Op: db.OpConnect, Err: err}
	}
	return &Store{pool: pool}, nil
}

// normalizeURL accepts SQLAlchemy-style driver schemes shared with other services.
func normalizeURL(url string) string {
	const alchemy = "postgresql+psycopg:"
	if strings.HasPrefix(url, alchemy) {
		return "postgres:" + url[len(alchemy):]
	}
	return url
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// Query runs a statement returning rows.
func (s *Store) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	return rows, nil
}

// QueryRow runs a statement returning at most one row. Errors surface on Scan.
func (s *Store) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return row{inner: s.pool.QueryRow(ctx, sql, args...)}
}

// Exec runs a statement without returning rows.
func (s *Store) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return tag, &db.Error{Op: db.OpExec, Err: err}
	}
	return tag, nil
}

// Migrate applies the embedded schema. Every statement is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return &db.Error{Op: db.OpMigrate, Err: err}
	}
	return nil
}

// row maps pgx.ErrNoRows to db.ErrNoRows.
type row struct {
	inner pgx.Row
}

func (r row) Scan(dest ...any) error {
	err := r.inner.Scan(dest...)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return db.ErrNoRows
	default:
		return &db.Error{Op: db.OpScan, Err: err}
	}
}
