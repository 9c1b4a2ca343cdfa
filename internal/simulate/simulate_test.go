package simulate

import (
	"context"
	"testing"

	"github.com/curtaincall/curtaincall-server-go/internal/game/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRunIsDeterministicPerSeed(t *testing.T) {
	ctx := context.Background()
	catalog := content.MustDefault()
	opts := Options{EnemyID: "rusty-knight", Seed: 11, MaxTurns: 30, Logger: zaptest.NewLogger(t)}

	first, err := Run(ctx, catalog, opts)
	require.NoError(t, err)
	second, err := Run(ctx, catalog, opts)
	require.NoError(t, err)

	assert.Equal(t, first.Checksum, second.Checksum)
	assert.Equal(t, first.Outcome, second.Outcome)
	assert.Equal(t, first.Turns, second.Turns)
}

func TestRunStopsAtMaxTurns(t *testing.T) {
	res, err := Run(context.Background(), content.MustDefault(), Options{EnemyID: "stage-rat", Seed: 3, MaxTurns: 1})
	require.NoError(t, err)

	assert.LessOrEqual(t, res.Turns, 2)
	assert.Positive(t, res.Stats.CardsPlayed)
}

func TestRunUnknownEnemy(t *testing.T) {
	_, err := Run(context.Background(), content.MustDefault(), Options{EnemyID: "nobody"})
	assert.ErrorIs(t, err, content.ErrUnknownEnemy)
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, content.MustDefault(), Options{EnemyID: "stage-rat"})
	assert.ErrorIs(t, err, context.Canceled)
}
