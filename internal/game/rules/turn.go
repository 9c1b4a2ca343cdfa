package rules

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

// Phase represents the broad phases of a combat.
type Phase int

const (
	PhaseSetup Phase = iota
	PhasePlayer
	PhaseEnemy
	PhaseReward
	PhaseGameOver
)

var phaseNames = map[Phase]string{
	PhaseSetup:    "SETUP",
	PhasePlayer:   "PLAYER",
	PhaseEnemy:    "ENEMY",
	PhaseReward:   "REWARD",
	PhaseGameOver: "GAME_OVER",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// IsTerminal reports whether the phase ends the combat.
func (p Phase) IsTerminal() bool {
	return p == PhaseReward || p == PhaseGameOver
}

const (
	stateSetup    = "setup"
	statePlayer   = "player"
	stateEnemy    = "enemy"
	stateReward   = "reward"
	stateGameOver = "gameover"

	TransitionStartTurn = "start_turn"
	TransitionEndTurn   = "end_turn"
	TransitionVictory   = "victory"
	TransitionDefeat    = "defeat"
)

var stateToPhase = map[string]Phase{
	stateSetup:    PhaseSetup,
	statePlayer:   PhasePlayer,
	stateEnemy:    PhaseEnemy,
	stateReward:   PhaseReward,
	stateGameOver: PhaseGameOver,
}

// Lifecycle tracks the turn phase of a single combat.
// Reward and GameOver are one-way: no transition leaves them.
type Lifecycle struct {
	machine *fsm.FSM
	logger  *zap.Logger
}

// NewLifecycle creates a lifecycle positioned at PhaseSetup.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	if logger == nil {
		logger = zap.NewNop()
	}
	lc := &Lifecycle{logger: logger}
	lc.machine = fsm.NewFSM(
		stateSetup,
		fsm.Events{
			{Name: TransitionStartTurn, Src: []string{stateSetup, stateEnemy}, Dst: statePlayer},
			{Name: TransitionEndTurn, Src: []string{statePlayer}, Dst: stateEnemy},
			{Name: TransitionVictory, Src: []string{statePlayer, stateEnemy}, Dst: stateReward},
			{Name: TransitionDefeat, Src: []string{statePlayer, stateEnemy}, Dst: stateGameOver},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				lc.logger.Debug("combat phase changed",
					zap.String("event", e.Event),
					zap.String("from", e.Src),
					zap.String("to", e.Dst),
				)
			},
		},
	)
	return lc
}

// Phase returns the current phase.
func (lc *Lifecycle) Phase() Phase {
	return stateToPhase[lc.machine.Current()]
}

// Can reports whether the named transition is currently legal.
func (lc *Lifecycle) Can(transition string) bool {
	return lc.machine.Can(transition)
}

// Fire attempts the named transition. Illegal transitions are rejected
// silently and reported as false.
func (lc *Lifecycle) Fire(ctx context.Context, transition string) bool {
	if !lc.machine.Can(transition) {
		lc.logger.Debug("rejected phase transition",
			zap.String("event", transition),
			zap.String("phase", lc.Phase().String()),
		)
		return false
	}
	if err := lc.machine.Event(ctx, transition); err != nil {
		lc.logger.Debug("phase transition failed",
			zap.String("event", transition),
			zap.Error(err),
		)
		return false
	}
	return true
}

// StartTurn moves into the player phase.
func (lc *Lifecycle) StartTurn(ctx context.Context) bool {
	return lc.Fire(ctx, TransitionStartTurn)
}

// EndTurn moves from the player phase into the enemy phase.
func (lc *Lifecycle) EndTurn(ctx context.Context) bool {
	return lc.Fire(ctx, TransitionEndTurn)
}

// Victory ends the combat in the reward phase.
func (lc *Lifecycle) Victory(ctx context.Context) bool {
	return lc.Fire(ctx, TransitionVictory)
}

// Defeat ends the combat in the game-over phase.
func (lc *Lifecycle) Defeat(ctx context.Context) bool {
	return lc.Fire(ctx, TransitionDefeat)
}
