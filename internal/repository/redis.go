package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/curtaincall/curtaincall-server-go/internal/config"
	"github.com/curtaincall/curtaincall-server-go/internal/game"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// Key pattern: combat_snapshot:{session_id}
	snapshotKeyPrefix = "combat_snapshot:"
	defaultTTL        = 24 * time.Hour
)

// RedisStore keeps snapshots as JSON strings with a TTL.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

var _ SnapshotStore = (*RedisStore)(nil)

// NewRedisStore connects to cfg.Addr and checks the connection.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis: addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Addr, err)
	}
	store := NewRedisStoreFromClient(client, cfg.TTL, logger)
	store.logger.Info("connected to redis snapshot store",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
		zap.Duration("ttl", store.ttl),
	)
	return store, nil
}

// NewRedisStoreFromClient wraps an existing client. A zero ttl uses one day.
func NewRedisStoreFromClient(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStore{client: client, ttl: ttl, logger: logger}
}

func (r *RedisStore) key(sessionID string) string {
	return snapshotKeyPrefix + sessionID
}

// Save implements SnapshotStore.
func (r *RedisStore) Save(ctx context.Context, sessionID string, snap *game.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.key(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("store snapshot in redis: %w", err)
	}
	r.logger.Debug("snapshot saved",
		zap.String("session_id", sessionID),
		zap.Int("turn", snap.TurnNumber),
		zap.Int("bytes", len(data)),
	)
	return nil
}

// Load implements SnapshotStore.
func (r *RedisStore) Load(ctx context.Context, sessionID string) (*game.Snapshot, error) {
	data, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("get snapshot from redis: %w", err)
	}
	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Delete implements SnapshotStore.
func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete snapshot from redis: %w", err)
	}
	return nil
}

// Close implements SnapshotStore.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
