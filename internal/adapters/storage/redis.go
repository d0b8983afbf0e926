package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/ahmedtravel/playbook/internal/domain"
	"github.com/ahmedtravel/playbook/internal/platform/config"
	"github.com/ahmedtravel/playbook/internal/platform/logging"
)

// maxUpdateRetries bounds optimistic retries when a watched key changes
// under an Update.
const maxUpdateRetries = 32

// ErrUpdateContention is returned when Update keeps losing the race on a
// key.
var ErrUpdateContention = errors.New("too much contention on key")

// RedisStore is a ports.KeyValueStore on Redis. Update uses WATCH and a
// MULTI/EXEC transaction, retried when the key changes concurrently.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the configured Redis.
func NewRedisStore(cfg config.RedisConfig) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns nil when key is absent.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	return val, nil
}

// Update applies fn inside an optimistic transaction on key.
func (s *RedisStore) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if next == nil {
				pipe.Del(ctx, key)
				return nil
			}

			pipe.Set(ctx, key, next, 0)

			return nil
		})

		return err
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			logging.FromContext(ctx).DebugContext(ctx, "redis update conflict, retrying",
				slog.String("key", key),
				slog.Int("attempt", attempt+1),
			)

			continue
		}

		if err != nil {
			return fmt.Errorf("redis update %s: %w", key, err)
		}

		return nil
	}

	return fmt.Errorf("redis update %s: %w", key, ErrUpdateContention)
}

// Delete removes key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}

	return nil
}

// Name implements ports.HealthChecker.
func (s *RedisStore) Name() string { return "storage" }

// Check pings Redis.
func (s *RedisStore) Check(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return domain.NewUnavailableError("redis", err.Error())
	}

	return nil
}

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
