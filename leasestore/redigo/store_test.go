package redigo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gomodule/redigo/redis"

	"github.com/pwnedgod/kunci/leasestore"
)

func newStore(t *testing.T) (leasestore.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run: %v", err)
	}
	pool := &redis.Pool{
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", mr.Addr())
		},
	}
	t.Cleanup(func() {
		_ = pool.Close()
		mr.Close()
	})
	return NewStore(pool), mr
}

func TestCreateReadDeleteRoundTrip(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	won, err := s.TryCreate(ctx, "k", "a", time.Minute)
	if err != nil || !won {
		t.Fatalf("create: won %v err %v", won, err)
	}
	if won, err := s.TryCreate(ctx, "k", "b", time.Minute); err != nil || won {
		t.Fatalf("second create should lose: won %v err %v", won, err)
	}

	rec, err := s.Read(ctx, "k")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if rec.Token != "a" {
		t.Fatalf("expected token a, got %q", rec.Token)
	}

	if deleted, err := s.TryDeleteOwned(ctx, "k", "b"); err != nil || deleted {
		t.Fatalf("wrong-token delete: deleted %v err %v", deleted, err)
	}
	if deleted, err := s.TryDeleteOwned(ctx, "k", "a"); err != nil || !deleted {
		t.Fatalf("owned delete: deleted %v err %v", deleted, err)
	}
	if _, err := s.Read(ctx, "k"); !errors.Is(err, leasestore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestExpiredLeaseSuperseded(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	if won, err := s.TryCreate(ctx, "k", "a", 50*time.Millisecond); err != nil || !won {
		t.Fatalf("seed create: won %v err %v", won, err)
	}
	mr.FastForward(100 * time.Millisecond)

	if won, err := s.TryCreate(ctx, "k", "b", time.Minute); err != nil || !won {
		t.Fatalf("create over expired lease should win: won %v err %v", won, err)
	}
}

func TestUnavailableClassification(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run: %v", err)
	}
	addr := mr.Addr()
	pool := &redis.Pool{
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr)
		},
	}
	defer pool.Close()
	s := NewStore(pool)
	mr.Close()

	if _, err := s.TryCreate(context.Background(), "k", "a", time.Second); !errors.Is(err, leasestore.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
