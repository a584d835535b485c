package recent

import (
	"context"
	"errors"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var errStore = errors.New("connection reset")

// mockQuerier implements querier for tests.
type mockQuerier struct {
	queryFn func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	execFn  func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (m *mockQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, sql, args...)
	}
	return &stringRows{}, nil
}

func (m *mockQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if m.execFn != nil {
		return m.execFn(ctx, sql, args...)
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

// stringRows serves a single text column.
type stringRows struct {
	values []string
	pos    int
	err    error
}

func (r *stringRows) Close()                                       {}
func (r *stringRows) Err() error                                   { return r.err }
func (r *stringRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *stringRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stringRows) RawValues() [][]byte                          { return nil }
func (r *stringRows) Conn() *pgx.Conn                              { return nil }
func (r *stringRows) Values() ([]any, error)                       { return []any{r.values[r.pos-1]}, nil }

func (r *stringRows) Next() bool {
	if r.pos >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *stringRows) Scan(dest ...any) error {
	*(dest[0].(*string)) = r.values[r.pos-1]
	return nil
}

// memSortedSets is an in-memory sorted-set store.
type memSortedSets struct {
	sets map[string]map[string]float64
	err  error
}

func newMemSortedSets() *memSortedSets {
	return &memSortedSets{sets: make(map[string]map[string]float64)}
}

func (m *memSortedSets) ZAdd(_ context.Context, key, member string, score float64) error {
	if m.err != nil {
		return m.err
	}
	if m.sets[key] == nil {
		m.sets[key] = make(map[string]float64)
	}
	m.sets[key][member] = score
	return nil
}

func (m *memSortedSets) ZRevRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	set := m.sets[key]
	members := make([]string, 0, len(set))
	for k := range set {
		members = append(members, k)
	}
	sort.Slice(members, func(i, j int) bool {
		if set[members[i]] != set[members[j]] {
			return set[members[i]] > set[members[j]]
		}
		return members[i] > members[j]
	})
	if start >= int64(len(members)) {
		return nil, nil
	}
	if stop >= int64(len(members)) {
		stop = int64(len(members)) - 1
	}
	return members[start : stop+1], nil
}

func (m *memSortedSets) ZRem(_ context.Context, key, member string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	if _, ok := m.sets[key][member]; !ok {
		return 0, nil
	}
	delete(m.sets[key], member)
	return 1, nil
}

func (m *memSortedSets) Del(_ context.Context, key string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.sets, key)
	return nil
}
