package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/curtaincall/curtaincall-server-go/internal/config"
	"github.com/curtaincall/curtaincall-server-go/internal/game"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const createSnapshotsTable = `
CREATE TABLE IF NOT EXISTS combat_snapshots (
	session_id  TEXT PRIMARY KEY,
	turn_number INTEGER NOT NULL,
	phase       TEXT NOT NULL,
	checksum    TEXT NOT NULL,
	snapshot    JSONB NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const upsertSnapshot = `
INSERT INTO combat_snapshots (session_id, turn_number, phase, checksum, snapshot, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW())
ON CONFLICT (session_id) DO UPDATE SET
	turn_number = EXCLUDED.turn_number,
	phase       = EXCLUDED.phase,
	checksum    = EXCLUDED.checksum,
	snapshot    = EXCLUDED.snapshot,
	updated_at  = NOW()`

// PostgresStore keeps the latest snapshot per session in a jsonb column.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

var _ SnapshotStore = (*PostgresStore)(nil)

// NewPostgresStore opens a pool, checks it and creates the table if needed.
func NewPostgresStore(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := pool.Exec(ctx, createSnapshotsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create combat_snapshots: %w", err)
	}
	stats := pool.Stat()
	logger.Info("postgres snapshot store initialized",
		zap.Int32("total_conns", stats.TotalConns()),
		zap.Int32("max_conns", stats.MaxConns()),
	)
	return &PostgresStore{pool: pool, logger: logger}, nil
}

// Save implements SnapshotStore.
func (p *PostgresStore) Save(ctx context.Context, sessionID string, snap *game.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if _, err := p.pool.Exec(ctx, upsertSnapshot, sessionID, snap.TurnNumber, snap.Phase, snap.Checksum(), data); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// Load implements SnapshotStore.
func (p *PostgresStore) Load(ctx context.Context, sessionID string) (*game.Snapshot, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT snapshot FROM combat_snapshots WHERE session_id = $1`, sessionID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("select snapshot: %w", err)
	}
	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Delete implements SnapshotStore.
func (p *PostgresStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM combat_snapshots WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// Close implements SnapshotStore.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
