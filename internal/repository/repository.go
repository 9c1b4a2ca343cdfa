package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/curtaincall/curtaincall-server-go/internal/config"
	"github.com/curtaincall/curtaincall-server-go/internal/game"
	"go.uber.org/zap"
)

// ErrSnapshotNotFound is returned when no snapshot is stored for a session.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore persists the latest snapshot of each combat session.
type SnapshotStore interface {
	Save(ctx context.Context, sessionID string, snap *game.Snapshot) error
	Load(ctx context.Context, sessionID string) (*game.Snapshot, error)
	Delete(ctx context.Context, sessionID string) error
	Close() error
}

// NewStore builds the store selected by cfg.Driver.
func NewStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (SnapshotStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Driver {
	case "", config.DriverMemory:
		logger.Info("using in-memory snapshot store")
		return NewMemoryStore(), nil
	case config.DriverRedis:
		store, err := NewRedisStore(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("redis store: %w", err)
		}
		return store, nil
	case config.DriverPostgres:
		store, err := NewPostgresStore(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("postgres store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
