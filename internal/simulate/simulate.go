// Package simulate plays whole combats without a human, for balance checks
// and end-to-end tests.
package simulate

import (
	"context"
	"fmt"

	"github.com/curtaincall/curtaincall-server-go/internal/game"
	"github.com/curtaincall/curtaincall-server-go/internal/game/content"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rng"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
	"github.com/curtaincall/curtaincall-server-go/internal/game/watchers"
	"go.uber.org/zap"
)

// Result summarizes one simulated combat.
type Result struct {
	EnemyID     string             `json:"enemy_id"`
	Seed        uint64             `json:"seed"`
	Outcome     string             `json:"outcome"`
	Turns       int                `json:"turns"`
	MacGuffinHP int                `json:"macguffin_hp"`
	EnemyHP     int                `json:"enemy_hp"`
	Stats       watchers.StatsView `json:"stats"`
	Checksum    string             `json:"checksum"`
}

// Options configures a simulation run.
type Options struct {
	EnemyID    string
	Seed       uint64
	MaxTurns   int
	Difficulty int
	Config     state.Config
	Logger     *zap.Logger
	// Observe is called after every player turn with the live engine.
	Observe func(e *game.Engine)
}

// Run starts a combat and plays it with the greedy policy until it ends or
// MaxTurns player turns have passed. An unfinished combat has an empty
// outcome.
func Run(ctx context.Context, catalog *content.Catalog, opts Options) (Result, error) {
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = 50
	}
	if opts.Config == (state.Config{}) {
		opts.Config = state.DefaultConfig()
	}
	e := game.NewEngine(opts.Config, catalog,
		game.WithLogger(opts.Logger),
		game.WithRNG(rng.NewSeeded(opts.Seed)),
		game.WithDifficulty(opts.Difficulty),
	)
	if err := e.StartCombat(ctx, opts.EnemyID, nil); err != nil {
		return Result{}, fmt.Errorf("simulate %s: %w", opts.EnemyID, err)
	}

	for e.Session().TurnNumber <= opts.MaxTurns && !e.Phase().IsTerminal() {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		PlayGreedy(ctx, e)
		if opts.Observe != nil {
			opts.Observe(e)
		}
		if e.Phase().IsTerminal() || !e.EndTurn(ctx) {
			break
		}
		if opts.Observe != nil {
			opts.Observe(e)
		}
	}

	snap := e.Snapshot()
	return Result{
		EnemyID:     opts.EnemyID,
		Seed:        opts.Seed,
		Outcome:     snap.Outcome,
		Turns:       snap.TurnNumber,
		MacGuffinHP: snap.MacGuffin.CurrentHP,
		EnemyHP:     snap.Enemy.CurrentHP,
		Stats:       snap.Stats,
		Checksum:    snap.Checksum(),
	}, nil
}

// PlayGreedy plays the first legal card in hand until none is left and
// returns how many cards were played.
func PlayGreedy(ctx context.Context, e *game.Engine) int {
	played := 0
	for !e.Phase().IsTerminal() {
		card := firstPlayable(e)
		if card == nil {
			break
		}
		if !e.PlayCard(ctx, card.InstanceID, card.Owner()).Legal {
			break
		}
		played++
	}
	return played
}

func firstPlayable(e *game.Engine) *state.CardInstance {
	for _, card := range e.Session().Hand.Cards() {
		if e.CanPlayCard(card).Legal {
			return card
		}
	}
	return nil
}
