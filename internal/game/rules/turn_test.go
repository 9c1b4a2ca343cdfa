package rules

import (
	"context"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestLifecycleSequence(t *testing.T) {
	ctx := context.Background()
	lc := NewLifecycle(zaptest.NewLogger(t))

	if lc.Phase() != PhaseSetup {
		t.Fatalf("expected SETUP, got %s", lc.Phase())
	}
	if lc.EndTurn(ctx) {
		t.Fatalf("end_turn must be rejected outside the player phase")
	}
	if !lc.StartTurn(ctx) || lc.Phase() != PhasePlayer {
		t.Fatalf("expected PLAYER after start_turn, got %s", lc.Phase())
	}
	if lc.StartTurn(ctx) {
		t.Fatalf("start_turn must be rejected during the player phase")
	}
	if !lc.EndTurn(ctx) || lc.Phase() != PhaseEnemy {
		t.Fatalf("expected ENEMY after end_turn, got %s", lc.Phase())
	}
	if !lc.StartTurn(ctx) || lc.Phase() != PhasePlayer {
		t.Fatalf("expected PLAYER after second start_turn, got %s", lc.Phase())
	}
}

func TestLifecycleTerminalStates(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		end   func(*Lifecycle) bool
		phase Phase
	}{
		{"victory", func(lc *Lifecycle) bool { return lc.Victory(ctx) }, PhaseReward},
		{"defeat", func(lc *Lifecycle) bool { return lc.Defeat(ctx) }, PhaseGameOver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := NewLifecycle(nil)
			lc.StartTurn(ctx)
			if !tt.end(lc) {
				t.Fatalf("expected terminal transition to succeed")
			}
			if lc.Phase() != tt.phase || !lc.Phase().IsTerminal() {
				t.Fatalf("expected %s, got %s", tt.phase, lc.Phase())
			}
			for _, transition := range []string{TransitionStartTurn, TransitionEndTurn, TransitionVictory, TransitionDefeat} {
				if lc.Fire(ctx, transition) {
					t.Fatalf("%s must be rejected after combat ended", transition)
				}
			}
		})
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseGameOver.String() != "GAME_OVER" {
		t.Fatalf("unexpected name %s", PhaseGameOver)
	}
	if Phase(42).String() != "PHASE_42" {
		t.Fatalf("unexpected fallback name %s", Phase(42))
	}
}
