package redigo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/pwnedgod/kunci/codec"
	"github.com/pwnedgod/kunci/codec/json"
	"github.com/pwnedgod/kunci/leasestore"
)

var delOwnedScript = redis.NewScript(1, `
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

type redigoStore struct {
	pool  *redis.Pool
	codec codec.Codec
}

// NewStore returns a Store backed by a redigo connection pool, for
// deployments that manage Redis connections through redigo rather than
// go-redis. Semantics match the goredis store.
func NewStore(pool *redis.Pool) leasestore.Store {
	return &redigoStore{
		pool:  pool,
		codec: json.NewCodec(),
	}
}

func (s redigoStore) TryCreate(ctx context.Context, key, token string, validity time.Duration) (bool, error) {
	rec := leasestore.Record{
		Token:     token,
		ExpiresAt: time.Now().Add(validity),
	}
	data, err := s.codec.Marshal(&rec)
	if err != nil {
		return false, err
	}

	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return false, classify(err)
	}
	defer conn.Close()

	_, err = redis.String(conn.Do("SET", key, data, "PX", validityMillis(validity), "NX"))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			// A live record already exists.
			return false, nil
		}

		return false, classify(err)
	}

	return true, nil
}

func (s redigoStore) Read(ctx context.Context, key string) (*leasestore.Record, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return nil, classify(err)
	}
	defer conn.Close()

	data, err := redis.Bytes(conn.Do("GET", key))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
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

func (s redigoStore) TryDeleteOwned(ctx context.Context, key, token string) (bool, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return false, classify(err)
	}
	defer conn.Close()

	deleted, err := redis.Int64(delOwnedScript.Do(conn, key, token))
	if err != nil {
		return false, classify(err)
	}

	return deleted != 0, nil
}

func validityMillis(validity time.Duration) int64 {
	ms := int64(validity / time.Millisecond)
	if ms < 1 {
		ms = 1
	}

	return ms
}

func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if strings.HasPrefix(err.Error(), "READONLY") {
		return fmt.Errorf("%w: %v", leasestore.ErrReadOnly, err)
	}

	return fmt.Errorf("%w: %v", leasestore.ErrUnavailable, err)
}
