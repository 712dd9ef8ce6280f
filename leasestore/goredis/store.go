package goredis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/pwnedgod/kunci/codec"
	"github.com/pwnedgod/kunci/codec/json"
	"github.com/pwnedgod/kunci/leasestore"
)

// Stored records are JSON so the script can read the owner token server-side.
// Compare and delete happen in one round trip; a read-then-delete pair would
// race against another party reclaiming an expired lease in between.
var delOwnedScript = redis.NewScript(`
local data = redis.call("GET", KEYS[1])
if not data then
	return 0
end
local rec = cjson.decode(data)
if rec["token"] == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisStore struct {
	client redis.UniversalClient
	codec  codec.Codec
}

// NewStore returns a Store backed by a go-redis client. Lease expiry rides on
// native key TTLs, so an expired lease is simply absent and SET NX is the
// whole create-if-absent-or-expired operation.
func NewStore(client redis.UniversalClient) leasestore.Store {
	return &redisStore{
		client: client,
		codec:  json.NewCodec(),
	}
}

func (s redisStore) TryCreate(ctx context.Context, key, token string, validity time.Duration) (bool, error) {
	rec := leasestore.Record{
		Token:     token,
		ExpiresAt: time.Now().Add(validity),
	}
	data, err := s.codec.Marshal(&rec)
	if err != nil {
		return false, err
	}

	ok, err := s.client.SetNX(ctx, key, data, clampValidity(validity)).Result()
	if err != nil {
		return false, classify(err)
	}

	return ok, nil
}

func (s redisStore) Read(ctx context.Context, key string) (*leasestore.Record, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, leasestore.ErrNotFound
		}

		return nil, classify(err)
	}

	var rec leasestore.Record
	if err := s.codec.Unmarshal(data, &rec); err != nil {
		return nil, err
	}

	return &rec, nil
}

func (s redisStore) TryDeleteOwned(ctx context.Context, key, token string) (bool, error) {
	deleted, err := delOwnedScript.Run(ctx, s.client, []string{key}, token).Int64()
	if err != nil {
		return false, classify(err)
	}

	return deleted != 0, nil
}

func clampValidity(validity time.Duration) time.Duration {
	if validity < time.Millisecond {
		return time.Millisecond
	}

	return validity
}

// classify maps backend failures onto the store error taxonomy. A replica
// that lost primary status answers writes with a READONLY reply; everything
// else (refused connections, closed clients, timeouts) counts as unavailable.
func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if strings.HasPrefix(err.Error(), "READONLY") {
		return fmt.Errorf("%w: %v", leasestore.ErrReadOnly, err)
	}

	return fmt.Errorf("%w: %v", leasestore.ErrUnavailable, err)
}
