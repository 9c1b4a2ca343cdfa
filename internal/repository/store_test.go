package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/curtaincall/curtaincall-server-go/internal/config"
	"github.com/curtaincall/curtaincall-server-go/internal/game"
	"github.com/curtaincall/curtaincall-server-go/internal/game/content"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rng"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testSnapshot(t *testing.T) *game.Snapshot {
	t.Helper()
	e := game.NewEngine(state.DefaultConfig(), content.MustDefault(), game.WithRNG(rng.NewSeeded(7)))
	require.NoError(t, e.StartCombat(context.Background(), "stage-rat", nil))
	return e.Snapshot()
}

// exerciseStore runs the contract every store must satisfy.
func exerciseStore(t *testing.T, store SnapshotStore) {
	t.Helper()
	ctx := context.Background()
	snap := testSnapshot(t)

	_, err := store.Load(ctx, snap.SessionID)
	require.ErrorIs(t, err, ErrSnapshotNotFound)

	require.NoError(t, store.Save(ctx, snap.SessionID, snap))
	loaded, err := store.Load(ctx, snap.SessionID)
	require.NoError(t, err)
	assert.Equal(t, snap.Checksum(), loaded.Checksum())
	assert.Equal(t, snap.SessionID, loaded.SessionID)

	// Saving again replaces the stored snapshot.
	snap.TurnNumber = 9
	require.NoError(t, store.Save(ctx, snap.SessionID, snap))
	loaded, err = store.Load(ctx, snap.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 9, loaded.TurnNumber)

	require.NoError(t, store.Delete(ctx, snap.SessionID))
	_, err = store.Load(ctx, snap.SessionID)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	exerciseStore(t, store)
	assert.Zero(t, store.Len())
}

func TestMemoryStoreCopiesSnapshots(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	snap := testSnapshot(t)
	require.NoError(t, store.Save(ctx, "s", snap))

	snap.MacGuffin.CurrentHP = 1
	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)

	assert.Equal(t, 60, loaded.MacGuffin.CurrentHP)
}

func newMiniredisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreFromClient(client, ttl, zaptest.NewLogger(t))
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore(t *testing.T) {
	store, _ := newMiniredisStore(t, time.Hour)
	exerciseStore(t, store)
}

func TestRedisStoreExpires(t *testing.T) {
	ctx := context.Background()
	store, mr := newMiniredisStore(t, time.Minute)
	snap := testSnapshot(t)
	require.NoError(t, store.Save(ctx, snap.SessionID, snap))

	assert.True(t, mr.Exists(snapshotKeyPrefix+snap.SessionID))
	assert.Equal(t, time.Minute, mr.TTL(snapshotKeyPrefix+snap.SessionID))

	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, snap.SessionID)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestRedisStoreRejectsCorruptData(t *testing.T) {
	store, mr := newMiniredisStore(t, 0)
	require.NoError(t, mr.Set(snapshotKeyPrefix+"bad", "{not json"))

	_, err := store.Load(context.Background(), "bad")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSnapshotNotFound)
}

func TestNewStoreSelectsDriver(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	store, err := NewStore(ctx, config.StorageConfig{Driver: config.DriverMemory}, logger)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	mr := miniredis.RunT(t)
	store, err = NewStore(ctx, config.StorageConfig{
		Driver: config.DriverRedis,
		Redis:  config.RedisConfig{Addr: mr.Addr(), TTL: time.Hour},
	}, logger)
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, store)
	require.NoError(t, store.Close())

	_, err = NewStore(ctx, config.StorageConfig{Driver: "etcd"}, logger)
	assert.ErrorContains(t, err, "unknown storage driver")
}
