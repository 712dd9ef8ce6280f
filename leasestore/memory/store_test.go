package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pwnedgod/kunci/codec/json"
	"github.com/pwnedgod/kunci/leasestore"
)

func TestTryCreateWinsOnce(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	won, err := s.TryCreate(ctx, "k", "a", time.Second)
	if err != nil || !won {
		t.Fatalf("first create: won %v err %v", won, err)
	}
	won, err = s.TryCreate(ctx, "k", "b", time.Second)
	if err != nil || won {
		t.Fatalf("second create should lose: won %v err %v", won, err)
	}
}

func TestTryCreateSupersedesExpired(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if won, err := s.TryCreate(ctx, "k", "a", -time.Second); err != nil || !won {
		t.Fatalf("seed create: won %v err %v", won, err)
	}
	won, err := s.TryCreate(ctx, "k", "b", time.Second)
	if err != nil || !won {
		t.Fatalf("create over expired lease should win: won %v err %v", won, err)
	}

	rec, err := s.Read(ctx, "k")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if rec.Token != "b" {
		t.Fatalf("expected token b, got %q", rec.Token)
	}
}

func TestReadRecord(t *testing.T) {
	s := NewStoreWithCodec(json.NewCodec())
	ctx := context.Background()

	if _, err := s.Read(ctx, "absent"); !errors.Is(err, leasestore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	before := time.Now()
	if won, err := s.TryCreate(ctx, "k", "a", time.Minute); err != nil || !won {
		t.Fatalf("create: won %v err %v", won, err)
	}

	rec, err := s.Read(ctx, "k")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if rec.Token != "a" {
		t.Fatalf("expected token a, got %q", rec.Token)
	}
	want := before.Add(time.Minute)
	if rec.ExpiresAt.Before(want.Add(-time.Second)) || rec.ExpiresAt.After(want.Add(2*time.Second)) {
		t.Fatalf("expiry %v not near %v", rec.ExpiresAt, want)
	}

	// Expired records read as absent.
	if won, err := s.TryCreate(ctx, "gone", "a", -time.Second); err != nil || !won {
		t.Fatalf("seed: won %v err %v", won, err)
	}
	if _, err := s.Read(ctx, "gone"); !errors.Is(err, leasestore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired record, got %v", err)
	}
}

func TestTryDeleteOwned(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if deleted, err := s.TryDeleteOwned(ctx, "k", "a"); err != nil || deleted {
		t.Fatalf("delete absent: deleted %v err %v", deleted, err)
	}

	if won, err := s.TryCreate(ctx, "k", "a", time.Minute); err != nil || !won {
		t.Fatalf("create: won %v err %v", won, err)
	}

	if deleted, err := s.TryDeleteOwned(ctx, "k", "b"); err != nil || deleted {
		t.Fatalf("delete with wrong token must not remove: deleted %v err %v", deleted, err)
	}
	if _, err := s.Read(ctx, "k"); err != nil {
		t.Fatalf("record should survive wrong-token delete: %v", err)
	}

	if deleted, err := s.TryDeleteOwned(ctx, "k", "a"); err != nil || !deleted {
		t.Fatalf("owned delete: deleted %v err %v", deleted, err)
	}
	if _, err := s.Read(ctx, "k"); !errors.Is(err, leasestore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestConcurrentCreateSingleWinner(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	const racers = 32
	var wg sync.WaitGroup
	wins := make(chan string, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token := string(rune('a' + i))
			if won, err := s.TryCreate(ctx, "k", token, time.Minute); err == nil && won {
				wins <- token
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	var winners []string
	for w := range wins {
		winners = append(winners, w)
	}
	if len(winners) != 1 {
		t.Fatalf("expected exactly one winner, got %v", winners)
	}

	rec, err := s.Read(ctx, "k")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if rec.Token != winners[0] {
		t.Fatalf("stored token %q does not match winner %q", rec.Token, winners[0])
	}
}
