package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/friendsearch/internal/db"
)

// --- client.go tests ---

func TestNewStore_NoAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error without addrs")
	}
}

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	err := s.Ping(context.Background())
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpPing {
		t.Fatalf("expected db.Error{Op: PING}, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected wrapped DeadlineExceeded")
	}
}

// --- zset.go tests ---

func TestZAdd_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return len(cmd) == 4 && cmd[0] == "ZADD" && cmd[1] == "recent:u1" && cmd[3] == "anna"
		})).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	if err := s.ZAdd(context.Background(), "recent:u1", "anna", 1700000000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestZAdd_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(errors.New("READONLY")))

	s := NewStoreForTest(c)
	err := s.ZAdd(context.Background(), "recent:u1", "anna", 1)
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpZAdd {
		t.Fatalf("expected db.Error{Op: ZADD}, got %v", err)
	}
}

func TestZRevRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("ZREVRANGE", "recent:u1", "0", "9")).
		Return(mock.Result(mock.RedisArray(
			mock.RedisString("anna schmidt"),
			mock.RedisString("anna"),
		)))

	s := NewStoreForTest(c)
	got, err := s.ZRevRange(context.Background(), "recent:u1", 0, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "anna schmidt" || got[1] != "anna" {
		t.Errorf("ZRevRange = %v", got)
	}
}

func TestZRem(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("ZREM", "recent:u1", "anna")).
		Return(mock.Result(mock.RedisInt64(1)))
	c.EXPECT().
		Do(gomock.Any(), mock.Match("ZREM", "recent:u1", "bert")).
		Return(mock.Result(mock.RedisInt64(0)))

	s := NewStoreForTest(c)
	n, err := s.ZRem(context.Background(), "recent:u1", "anna")
	if err != nil || n != 1 {
		t.Errorf("ZRem(anna) = %d, %v", n, err)
	}
	n, err = s.ZRem(context.Background(), "recent:u1", "bert")
	if err != nil || n != 0 {
		t.Errorf("ZRem(bert) = %d, %v", n, err)
	}
}

func TestDel(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("DEL", "recent:u1")).
		Return(mock.Result(mock.RedisInt64(0)))

	s := NewStoreForTest(c)
	if err := s.Del(context.Background(), "recent:u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
