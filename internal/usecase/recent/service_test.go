package recent

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/friendsearch/internal/domain"
	domrecent "github.com/kailas-cloud/friendsearch/internal/domain/recent"
)

// --- Mocks ---

type entry struct {
	query string
	at    time.Time
}

// memRepo is an in-memory Repository.
type memRepo struct {
	mu      sync.Mutex
	entries map[string][]entry
	err     error
	limits  []int
}

func newMemRepo() *memRepo {
	return &memRepo{entries: make(map[string][]entry)}
}

func (m *memRepo) List(_ context.Context, userID string, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limits = append(m.limits, limit)
	if m.err != nil {
		return nil, m.err
	}
	es := append([]entry(nil), m.entries[userID]...)
	sort.SliceStable(es, func(i, j int) bool { return es[i].at.After(es[j].at) })
	out := []string{}
	for i := 0; i < len(es) && i < limit; i++ {
		out = append(out, es[i].query)
	}
	return out, nil
}

func (m *memRepo) Touch(_ context.Context, userID, query string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for i, e := range m.entries[userID] {
		if e.query == query {
			m.entries[userID][i].at = at
			return nil
		}
	}
	m.entries[userID] = append(m.entries[userID], entry{query: query, at: at})
	return nil
}

func (m *memRepo) Delete(_ context.Context, userID, query string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for i, e := range m.entries[userID] {
		if e.query == query {
			m.entries[userID] = append(m.entries[userID][:i], m.entries[userID][i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) Clear(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.entries, userID)
	return nil
}

func newTestService(t *testing.T) (*Service, *memRepo) {
	t.Helper()
	repo := newMemRepo()
	svc := New(repo)
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc, repo
}

// --- Tests ---

func TestAddDeleteScenario(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.Add(ctx, "u1", "Anna"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Add(ctx, "u1", "anna Schmidt"); err != nil {
		t.Fatal(err)
	}
	removed, err := svc.Delete(ctx, "u1", "Anna")
	if err != nil || !removed {
		t.Fatalf("Delete = %v, %v", removed, err)
	}

	got, err := svc.List(ctx, "u1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "anna Schmidt" {
		t.Errorf("List = %v, want [anna Schmidt]", got)
	}
}

func TestAdd_Idempotent(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_ = svc.Add(ctx, "u1", "Anna")
	first := repo.entries["u1"][0].at
	_ = svc.Add(ctx, "u1", "  Anna ")

	if n := len(repo.entries["u1"]); n != 1 {
		t.Fatalf("entries = %d, want 1", n)
	}
	if !repo.entries["u1"][0].at.After(first) {
		t.Error("second add must refresh the timestamp")
	}
}

func TestAdd_Validation(t *testing.T) {
	svc, repo := newTestService(t)
	for _, q := range []string{"", " ", "a"} {
		if err := svc.Add(context.Background(), "u1", q); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Add(%q) err = %v", q, err)
		}
	}
	if len(repo.entries) != 0 {
		t.Error("invalid queries must not be stored")
	}
}

func TestAdd_UsesUTC(t *testing.T) {
	svc, repo := newTestService(t)
	svc.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.FixedZone("X", 3600)) }
	_ = svc.Add(context.Background(), "u1", "Anna")
	if loc := repo.entries["u1"][0].at.Location(); loc != time.UTC {
		t.Errorf("location = %v", loc)
	}
}

func TestList_ClampsLimit(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	for _, l := range []int{0, -3, 5, 100} {
		if _, err := svc.List(ctx, "u1", l); err != nil {
			t.Fatal(err)
		}
	}
	want := []int{domrecent.DefaultLimit, domrecent.DefaultLimit, 5, domrecent.MaxLimit}
	for i, w := range want {
		if repo.limits[i] != w {
			t.Errorf("limit[%d] = %d, want %d", i, repo.limits[i], w)
		}
	}
}

func TestList_Order(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	for _, q := range []string{"aa", "bb", "cc", "aa"} {
		_ = svc.Add(ctx, "u1", q)
	}
	got, _ := svc.List(ctx, "u1", 10)
	want := []string{"aa", "cc", "bb"}
	if len(got) != len(want) {
		t.Fatalf("List = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List = %v, want %v", got, want)
			break
		}
	}
}

func TestDelete_Missing(t *testing.T) {
	svc, _ := newTestService(t)
	removed, err := svc.Delete(context.Background(), "u1", "nobody")
	if err != nil || removed {
		t.Errorf("Delete = %v, %v; want false, nil", removed, err)
	}
	if _, err := svc.Delete(context.Background(), "u1", "  "); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank Delete err = %v", err)
	}
}

func TestClear(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_ = svc.Add(ctx, "u1", "Anna")
	_ = svc.Add(ctx, "u2", "Bert")

	if err := svc.Clear(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if got, _ := svc.List(ctx, "u1", 10); len(got) != 0 {
		t.Errorf("u1 = %v, want empty", got)
	}
	if got, _ := svc.List(ctx, "u2", 10); len(got) != 1 {
		t.Errorf("u2 = %v, other users must be untouched", got)
	}
}

func TestStoreErrors(t *testing.T) {
	svc, repo := newTestService(t)
	repo.err = errors.New("connection refused")
	ctx := context.Background()

	if _, err := svc.List(ctx, "u1", 10); !errors.Is(err, domain.ErrInternal) {
		t.Errorf("List err = %v", err)
	}
	if err := svc.Add(ctx, "u1", "Anna"); !errors.Is(err, domain.ErrInternal) {
		t.Errorf("Add err = %v", err)
	}
	if _, err := svc.Delete(ctx, "u1", "Anna"); !errors.Is(err, domain.ErrInternal) {
		t.Errorf("Delete err = %v", err)
	}
	if err := svc.Clear(ctx, "u1"); !errors.Is(err, domain.ErrInternal) {
		t.Errorf("Clear err = %v", err)
	}
}
