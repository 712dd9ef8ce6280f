package memory

import (
	"context"
	"sync"
	"time"

	"github.com/karlseguin/ccache/v2"

	"github.com/pwnedgod/kunci/codec"
	"github.com/pwnedgod/kunci/codec/msgpack"
	"github.com/pwnedgod/kunci/leasestore"
)

// memoryStore keeps leases in a local ccache instance. Every operation runs
// under one mutex, so check-then-write sequences are atomic with respect to
// each other exactly as the scripted Redis operations are. Suitable for
// single-process use and as a deterministic stand-in for tests.
type memoryStore struct {
	mu    sync.Mutex
	cache *ccache.Cache
	codec codec.Codec
}

func NewStore() leasestore.Store {
	return NewStoreWithCodec(msgpack.NewCodec())
}

func NewStoreWithCodec(c codec.Codec) leasestore.Store {
	return &memoryStore{
		cache: ccache.New(ccache.Configure()),
		codec: c,
	}
}

func (s *memoryStore) TryCreate(ctx context.Context, key, token string, validity time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.cache.Get(key); item != nil && !item.Expired() {
		return false, nil
	}

	// A negative validity yields an already-expired record, which the next
	// TryCreate may immediately supersede.
	rec := leasestore.Record{
		Token:     token,
		ExpiresAt: time.Now().Add(validity),
	}
	data, err := s.codec.Marshal(&rec)
	if err != nil {
		return false, err
	}

	s.cache.Set(key, data, validity)
	return true, nil
}

func (s *memoryStore) Read(ctx context.Context, key string) (*leasestore.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.cache.Get(key)
	if item == nil || item.Expired() {
		// Expired records count as absent, matching stores that expire keys
		// natively.
		return nil, leasestore.ErrNotFound
	}

	var rec leasestore.Record
	if err := s.codec.Unmarshal(item.Value().([]byte), &rec); err != nil {
		return nil, err
	}

	return &rec, nil
}

func (s *memoryStore) TryDeleteOwned(ctx context.Context, key, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.cache.Get(key)
	if item == nil || item.Expired() {
		return false, nil
	}

	var rec leasestore.Record
	if err := s.codec.Unmarshal(item.Value().([]byte), &rec); err != nil {
		return false, err
	}

	if rec.Token != token {
		return false, nil
	}

	s.cache.Delete(key)
	return true, nil
}
