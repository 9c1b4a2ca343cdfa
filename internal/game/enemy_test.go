package game

import (
	"testing"

	"github.com/curtaincall/curtaincall-server-go/internal/game/counters"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rules"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistractNegatesAWholeAreaWave(t *testing.T) {
	h := newTestCombat(t, "brute")
	s := h.session()
	s.Distract = 1

	require.True(t, h.engine.EndTurn(h.ctx))

	assert.Equal(t, 1, h.messages("Distracted!"))
	assert.Equal(t, 60, s.MacGuffin.CurrentHP)
	assert.Equal(t, 20, h.character(state.CharacterA).CurrentHP)
	assert.Equal(t, 10, h.character(state.CharacterB).CurrentHP)
	assert.Zero(t, s.Distract)

	require.True(t, h.engine.EndTurn(h.ctx))

	assert.Equal(t, 54, s.MacGuffin.CurrentHP)
	assert.Equal(t, 14, h.character(state.CharacterA).CurrentHP)
	assert.Equal(t, 4, h.character(state.CharacterB).CurrentHP)
}

func TestEnemyStageFrightSkipsAttacks(t *testing.T) {
	h := newTestCombat(t, "dummy")
	h.emptyHand()

	require.True(t, h.play(h.give("scare"), "").Legal)
	require.True(t, h.play(h.give("scare"), "").Legal)
	ek := h.session().Keywords.Enemy
	require.Equal(t, 1, ek.Get(counters.KeywordStageFright))
	assert.Zero(t, ek.Get(counters.KeywordFear), "overflow is discarded")

	require.True(t, h.engine.EndTurn(h.ctx))

	assert.Equal(t, 60, h.session().MacGuffin.CurrentHP)
	assert.Zero(t, ek.Get(counters.KeywordStageFright))
}

func TestEnemyIntentFollowsThePattern(t *testing.T) {
	h := newTestCombat(t, "knight")
	enemy := h.session().Enemy

	assert.Equal(t, "block", enemy.Intent.Type)
	assert.Equal(t, 4, enemy.Intent.Value)
	assert.Equal(t, 1, enemy.Intent.Hits)

	require.True(t, h.engine.EndTurn(h.ctx))

	assert.Equal(t, 4, h.session().Keywords.Enemy.Get(counters.KeywordBlock))
	assert.Equal(t, 0, enemy.PatternIndex)
}

func TestBossPhasesOnlyMoveForward(t *testing.T) {
	h := newTestCombat(t, "diva")
	changes := h.count(rules.EventEnemyPhase)
	enemy := h.session().Enemy
	ek := h.session().Keywords.Enemy

	enemy.CurrentHP = 40
	require.True(t, h.engine.EndTurn(h.ctx))

	require.Equal(t, 1, enemy.CurrentPhase)
	// Phase 0 blocked for 2 before the transition added 10.
	assert.Equal(t, 12, ek.Get(counters.KeywordBlock))
	assert.Equal(t, 1, ek.Get(counters.KeywordInspire))
	assert.Equal(t, "attack", enemy.Intent.Type)

	enemy.CurrentHP = 90
	require.True(t, h.engine.EndTurn(h.ctx))
	assert.Equal(t, 1, enemy.CurrentPhase)

	enemy.CurrentHP = 20
	require.True(t, h.engine.EndTurn(h.ctx))
	assert.Equal(t, 2, enemy.CurrentPhase)
	assert.Equal(t, 2, ek.Get(counters.KeywordRetaliate))
	assert.Equal(t, 2, *changes)
}

func TestBossPhaseJumpAppliesOnlyTheDeepestBundle(t *testing.T) {
	h := newTestCombat(t, "diva")
	changes := h.count(rules.EventEnemyPhase)
	enemy := h.session().Enemy
	ek := h.session().Keywords.Enemy

	enemy.CurrentHP = 10
	require.True(t, h.engine.EndTurn(h.ctx))

	assert.Equal(t, 2, enemy.CurrentPhase)
	assert.Equal(t, 1, *changes)
	assert.Equal(t, 2, ek.Get(counters.KeywordBlock))
	assert.Equal(t, 0, ek.Get(counters.KeywordInspire))
	assert.Equal(t, 2, ek.Get(counters.KeywordRetaliate))
}

func TestEnemyDefensesResetBeforeItActs(t *testing.T) {
	h := newTestCombat(t, "dummy")
	ek := h.session().Keywords.Enemy
	ek.Set(counters.KeywordBlock, 7)
	ek.Set(counters.KeywordShield, 3)
	ek.Set(counters.KeywordRetaliate, 2)

	require.True(t, h.engine.EndTurn(h.ctx))

	assert.Zero(t, ek.Get(counters.KeywordBlock))
	assert.Zero(t, ek.Get(counters.KeywordShield))
	assert.Zero(t, ek.Get(counters.KeywordRetaliate))
}

func TestAttackEqualBlockIgnoresTheEntryTarget(t *testing.T) {
	h := newTestCombat(t, "bulwark")
	s := h.session()

	require.True(t, h.engine.EndTurn(h.ctx))

	// 4 from attackEqualBlock on the MacGuffin alone, then 1 to everyone.
	assert.Equal(t, 55, s.MacGuffin.CurrentHP)
	assert.Equal(t, 19, h.character(state.CharacterA).CurrentHP)
	assert.Equal(t, 9, h.character(state.CharacterB).CurrentHP)
}
