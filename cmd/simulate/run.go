package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/curtaincall/curtaincall-server-go/internal/config"
	"github.com/curtaincall/curtaincall-server-go/internal/game/content"
	"github.com/curtaincall/curtaincall-server-go/internal/simulate"
)

var (
	enemyID    string
	seed       uint64
	seeds      int
	maxTurns   int
	difficulty int
	verbose    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play one combat and print its result as JSON",
	Long: `Play one combat against an enemy with a fixed seed.

  Example: simulate run --enemy stage-rat --seed 42`,
	RunE: runOne,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Play every enemy across a range of seeds and print win rates",
	RunE:  runSweep,
}

func init() {
	runCmd.Flags().StringVar(&enemyID, "enemy", "", "enemy id")
	runCmd.Flags().Uint64Var(&seed, "seed", 1, "rng seed")
	_ = runCmd.MarkFlagRequired("enemy")

	sweepCmd.Flags().IntVar(&seeds, "seeds", 20, "seeds per enemy")

	for _, cmd := range []*cobra.Command{runCmd, sweepCmd} {
		cmd.Flags().IntVar(&maxTurns, "turns", 50, "give up after this many player turns")
		cmd.Flags().IntVar(&difficulty, "difficulty", -1, "difficulty level, -1 uses the configured one")
		cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log engine events")
	}
}

type setup struct {
	cfg     *config.Config
	catalog *content.Catalog
	logger  *zap.Logger
}

func load(ctx context.Context) (*setup, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger := zap.NewNop()
	if verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}
	catalog, err := content.NewLoader(logger).Load(ctx, cfg.Content.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	if difficulty < 0 {
		difficulty = cfg.Engine.Difficulty
	}
	return &setup{cfg: cfg, catalog: catalog, logger: logger}, nil
}

func (s *setup) options(enemy string, seed uint64) simulate.Options {
	return simulate.Options{
		EnemyID:    enemy,
		Seed:       seed,
		MaxTurns:   maxTurns,
		Difficulty: difficulty,
		Config:     s.cfg.Engine.Session(),
		Logger:     s.logger,
	}
}

func runOne(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	s, err := load(ctx)
	if err != nil {
		return err
	}
	res, err := simulate.Run(ctx, s.catalog, s.options(enemyID, seed))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

type tally struct {
	wins, losses, unfinished int
	turns                    int
}

func runSweep(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	s, err := load(ctx)
	if err != nil {
		return err
	}

	var (
		mu      sync.Mutex
		results = make(map[string]*tally)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, enemy := range s.catalog.Enemies() {
		results[enemy.ID] = &tally{}
		for i := 1; i <= seeds; i++ {
			g.Go(func() error {
				res, err := simulate.Run(gctx, s.catalog, s.options(enemy.ID, uint64(i)))
				if err != nil {
					return err
				}
				mu.Lock()
				defer mu.Unlock()
				t := results[enemy.ID]
				t.turns += res.Turns
				switch res.Outcome {
				case "victory":
					t.wins++
				case "defeat":
					t.losses++
				default:
					t.unfinished++
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("%-22s %6s %6s %6s %9s\n", "enemy", "wins", "losses", "open", "avg turns")
	for _, id := range ids {
		t := results[id]
		fmt.Printf("%-22s %6d %6d %6d %9.1f\n", id, t.wins, t.losses, t.unfinished, float64(t.turns)/float64(seeds))
	}
	return nil
}
