package game

import (
	"context"

	"github.com/curtaincall/curtaincall-server-go/internal/game/counters"
	"github.com/curtaincall/curtaincall-server-go/internal/game/passives"
	"github.com/curtaincall/curtaincall-server-go/internal/game/presenter"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rules"
	"go.uber.org/zap"
)

// startTurn begins a player turn: energy refill, start-of-turn keyword
// processing, then the draw.
func (e *Engine) startTurn(ctx context.Context) {
	if !e.lifecycle.StartTurn(ctx) {
		return
	}
	s := e.session
	s.TurnNumber++
	s.Energy.Current = s.Energy.Max

	if !e.processStartOfTurn(ctx) || e.terminal() {
		return
	}

	e.logger.Info("player turn started",
		zap.String("session_id", s.ID),
		zap.Int("turn", s.TurnNumber),
		zap.Int("macguffin_hp", s.MacGuffin.CurrentHP),
		zap.Int("enemy_hp", s.Enemy.CurrentHP),
	)
	e.present(presenter.Notification{Kind: presenter.KindTurn, Target: "player", Amount: s.TurnNumber})
	e.bus.Emit(ctx, rules.EventPlayerTurnStart, rules.TurnPayload{Turn: s.TurnNumber})
	if e.terminal() {
		return
	}
	if need := s.HandSize - s.Hand.Len(); need > 0 {
		e.drawCards(ctx, need)
	}
}

// EndTurn ends the player turn, runs the enemy phase and, unless the combat
// ended, starts the next player turn. It reports false and does nothing
// outside the player phase.
func (e *Engine) EndTurn(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.lifecycle.Phase() != rules.PhasePlayer {
		return false
	}
	e.drain(ctx)
	if !e.lifecycle.EndTurn(ctx) {
		return false
	}
	s := e.session
	e.logger.Info("player turn ended",
		zap.String("session_id", s.ID),
		zap.Int("turn", s.TurnNumber),
		zap.Int("cards_played", s.CardsPlayedThisTurn()),
	)

	e.discardHand()
	e.decayPlayerDebuffs()
	e.processEndOfTurnCurse(ctx)
	if e.terminal() {
		return true
	}
	e.bus.Emit(ctx, rules.EventPlayerTurnEnd, rules.TurnPayload{Turn: s.TurnNumber})

	e.resetEnemyDefenses(ctx)
	e.regenerateEnemy(ctx)

	e.present(presenter.Notification{Kind: presenter.KindTurn, Target: "enemy", Amount: s.TurnNumber})
	e.bus.Emit(ctx, rules.EventEnemyTurnStart, rules.TurnPayload{Turn: s.TurnNumber})
	if !e.terminal() {
		e.executeEnemyTurn(ctx)
	}
	if e.terminal() {
		return true
	}
	e.bus.Emit(ctx, rules.EventEnemyTurnEnd, rules.TurnPayload{Turn: s.TurnNumber})
	if e.terminal() {
		return true
	}

	s.ResetTurnPools()
	if s.MacGuffin.CurrentHP <= 0 {
		e.onDefeat(ctx)
		return true
	}
	e.startTurn(ctx)
	return true
}

// resetEnemyDefenses drops the enemy's block, shield and retaliate before
// it acts. Passives may keep half the block or all the retaliate.
func (e *Engine) resetEnemyDefenses(ctx context.Context) {
	dc := &rules.DefenseResetContext{}
	e.bus.Emit(ctx, rules.EventBeforeEnemyDefenseReset, dc)

	ek := e.session.Keywords.Enemy
	block := 0
	if dc.HalfBlock {
		block = ek.Get(counters.KeywordBlock) / 2
	}
	ek.Set(counters.KeywordBlock, block)
	ek.Set(counters.KeywordShield, 0)
	if !dc.KeepRetaliate {
		ek.Set(counters.KeywordRetaliate, 0)
	}
}

// onEnemyDefeated ends the combat in victory. It runs at most once.
func (e *Engine) onEnemyDefeated(ctx context.Context) {
	if !e.lifecycle.Victory(ctx) {
		return
	}
	enemy := e.session.Enemy
	e.bus.OffByOwner(passives.OwnerEnemy)
	e.logger.Info("enemy defeated",
		zap.String("session_id", e.session.ID),
		zap.String("enemy_id", enemy.ID()),
		zap.Int("turn", e.session.TurnNumber),
	)
	e.present(presenter.Notification{Kind: presenter.KindOutcome, Target: "enemy", Text: string(rules.OutcomeVictory)})
	e.bus.Emit(ctx, rules.EventEnemyDefeated, rules.EnemyDefeatedPayload{EnemyID: enemy.ID(), IsBoss: enemy.IsBoss()})
	e.bus.Emit(ctx, rules.EventCombatEnd, rules.CombatEndPayload{Outcome: rules.OutcomeVictory})
	e.teardown()
}

// onDefeat ends the combat in defeat. It runs at most once.
func (e *Engine) onDefeat(ctx context.Context) {
	if !e.lifecycle.Defeat(ctx) {
		return
	}
	e.bus.OffByOwner(passives.OwnerEnemy)
	e.logger.Info("macguffin destroyed",
		zap.String("session_id", e.session.ID),
		zap.Int("turn", e.session.TurnNumber),
	)
	e.present(presenter.Notification{Kind: presenter.KindOutcome, Target: "macguffin", Text: string(rules.OutcomeDefeat)})
	e.bus.Emit(ctx, rules.EventCombatEnd, rules.CombatEndPayload{Outcome: rules.OutcomeDefeat})
	e.teardown()
}

// teardown removes every combat-scoped listener and returns enchantments to
// the discard pile. Pending plays are dropped.
func (e *Engine) teardown() {
	s := e.session
	for _, card := range s.Enchantments.TakeAll() {
		e.bus.OffByOwner(passives.EnchantmentOwner(card.InstanceID))
		s.Discard.Push(card)
	}
	e.bus.OffByOwner(passives.OwnerStageProp)
	e.bus.OffByOwner(passives.OwnerMacGuffin)
	e.queue.Clear()
}
