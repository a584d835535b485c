package search

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kailas-cloud/friendsearch/internal/domain/search/request"
)

// call records one statement sent to the store.
type call struct {
	sql  string
	args []any
}

// mockStore implements the consumer interface for tests.
type mockStore struct {
	queryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	queryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	calls      []call
}

func (m *mockStore) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	m.calls = append(m.calls, call{sql: sql, args: args})
	if m.queryFn != nil {
		return m.queryFn(ctx, sql, args...)
	}
	return &fakeRows{}, nil
}

func (m *mockStore) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.calls = append(m.calls, call{sql: sql, args: args})
	if m.queryRowFn != nil {
		return m.queryRowFn(ctx, sql, args...)
	}
	return fakeRow{err: pgx.ErrNoRows}
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, Config{}), ms
}

// fakeRows serves fixed rows. Values are assigned to Scan destinations by
// reflection; a nil value sets a pointer destination to nil and fails for any
// other, as pgx does.
type fakeRows struct {
	rows    [][]any
	pos     int
	err     error
	scanErr error
	closed  bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.rows[r.pos-1], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	return assign(r.rows[r.pos-1], dest)
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.values, dest)
}

func assign(values, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values into %d destinations", len(values), len(dest))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if values[i] == nil {
			if target.Kind() != reflect.Pointer {
				return fmt.Errorf("scan column %d: cannot scan NULL into %T", i, d)
			}
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		v := reflect.ValueOf(values[i])
		if !v.Type().AssignableTo(target.Type()) {
			return fmt.Errorf("scan column %d: %s into %s", i, v.Type(), target.Type())
		}
		target.Set(v)
	}
	return nil
}

var errStore = errors.New("connection reset")

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

// assertPlaceholders checks that c references exactly $1..$len(args).
func assertPlaceholders(t *testing.T, name string, c call) {
	t.Helper()
	seen := map[int]bool{}
	for _, m := range placeholderRe.FindAllStringSubmatch(c.sql, -1) {
		n, _ := strconv.Atoi(m[1])
		if n < 1 || n > len(c.args) {
			t.Errorf("%s: $%d has no argument (%d args)", name, n, len(c.args))
		}
		seen[n] = true
	}
	for i := 1; i <= len(c.args); i++ {
		if !seen[i] {
			t.Errorf("%s: argument $%d (%v) is never referenced", name, i, c.args[i-1])
		}
	}
}

func strPtr(s string) *string { return &s }

// itemRow builds a search row in select-list order.
func itemRow(id, name string, rank float64, headline, source *string, total int64) []any {
	return []any{
		id, name, (*string)(nil), strPtr("TechCorp"), (*string)(nil),
		strPtr(name + "@example.com"), (*string)(nil),
		rank, headline, source,
		total,
	}
}

func mustRequest(t *testing.T, kind request.Kind, p request.Params) request.Request {
	t.Helper()
	r, err := request.Normalize(kind, p)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	return r
}
