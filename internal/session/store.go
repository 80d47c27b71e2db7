package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned for unknown or already-consumed keys.
var ErrNotFound = errors.New("session key not found")

// Store is a plain key-value session store with TTL. It replaces
// framework-managed session middleware: an opaque key maps to a value
// (here the pending login state) and expires on its own.
type Store struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewStore(rdb *redis.Client, prefix string, ttl time.Duration) *Store {
	return &Store{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

func (s *Store) Save(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, key string) (string, error) {
	value, err := s.rdb.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("session load: %w", err)
	}
	return value, nil
}

// Consume loads and deletes a key in one step, making it single-use.
func (s *Store) Consume(ctx context.Context, key string) (string, error) {
	value, err := s.rdb.GetDel(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("session consume: %w", err)
	}
	return value, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}
