package game

import (
	"context"
	"testing"

	"github.com/curtaincall/curtaincall-server-go/internal/game/counters"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rules"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnemyDamageAppliesVulnerableBeforeShieldAndBlock(t *testing.T) {
	h := newTestCombat(t, "dummy")
	h.emptyHand()
	ek := h.session().Keywords.Enemy
	ek.Set(counters.KeywordVulnerable, 1)
	ek.Set(counters.KeywordShield, 5)
	ek.Set(counters.KeywordBlock, 3)

	res := h.play(h.give("heavy"), "")
	require.True(t, res.Legal, res.Reason)

	// 10 -> 15 vulnerable -> 10 after shield -> 7 after block
	assert.Equal(t, 33, h.session().Enemy.CurrentHP)
	assert.Equal(t, 0, ek.Get(counters.KeywordShield))
	assert.Equal(t, 0, ek.Get(counters.KeywordBlock))
	assert.Equal(t, 1, h.session().Keywords.Ovation())
}

func TestMacGuffinHitAppliesVulnerableBeforeBlock(t *testing.T) {
	h := newTestCombat(t, "dummy")
	s := h.session()
	s.Keywords.MacGuffin.Set(counters.KeywordVulnerable, 1)
	s.MacGuffin.Block = 3

	res := h.engine.resolveHit(h.ctx, state.MacGuffinID, 10, HitOptions{})

	assert.Equal(t, state.MacGuffinID, res.Target)
	assert.Equal(t, 3, res.Absorbed)
	assert.Equal(t, 12, res.Damage)
	assert.Equal(t, 48, s.MacGuffin.CurrentHP)
	assert.Equal(t, 0, s.MacGuffin.Block)
}

func TestPiercingIgnoresEnemyDefenses(t *testing.T) {
	h := newTestCombat(t, "dummy")
	h.emptyHand()
	h.session().Keywords.Global.Set(counters.KeywordPiercing, 1)
	h.session().Keywords.Enemy.Set(counters.KeywordBlock, 20)

	h.play(h.give("strike"), "")

	assert.Equal(t, 34, h.session().Enemy.CurrentHP)
	assert.Equal(t, 20, h.session().Keywords.Enemy.Get(counters.KeywordBlock))
}

func TestLuckIsCappedAtCertainty(t *testing.T) {
	h := newTestCombat(t, "dummy")
	h.emptyHand()
	h.session().Keywords.Global.Set(counters.KeywordLuck, 15)

	h.play(h.give("strike"), "")

	// 6 * 1.5
	assert.Equal(t, 31, h.session().Enemy.CurrentHP)
	assert.Equal(t, 1, h.messages("Lucky!"))
}

func TestTauntRedirectsAndKnocksOutOnce(t *testing.T) {
	h := newTestCombat(t, "dummy")
	knockouts := h.count(rules.EventCharacterKnockedOut)
	pip := h.character(state.CharacterB)
	pip.Taunt = 1
	pip.CurrentHP = 3

	res := h.engine.resolveHit(h.ctx, state.MacGuffinID, 5, HitOptions{})

	assert.True(t, res.Redirected)
	assert.Equal(t, state.CharacterB, res.Target)
	assert.True(t, res.KnockedOut)
	assert.Equal(t, 0, pip.Taunt)
	assert.Equal(t, 0, pip.CurrentHP)
	assert.True(t, pip.KnockedOut)
	assert.Equal(t, 60, h.session().MacGuffin.CurrentHP)
	assert.Equal(t, 1, *knockouts)

	// Further hits on a knocked-out character change nothing.
	res = h.engine.resolveHit(h.ctx, state.CharacterB, 5, HitOptions{})
	assert.False(t, res.KnockedOut)
	assert.Equal(t, 1, *knockouts)
}

func TestAccuracyIgnoresTaunt(t *testing.T) {
	h := newTestCombat(t, "dummy")
	h.character(state.CharacterA).Taunt = 2

	res := h.engine.resolveHit(h.ctx, state.MacGuffinID, 4, HitOptions{HasAccuracy: true})

	assert.False(t, res.Redirected)
	assert.Equal(t, 2, h.character(state.CharacterA).Taunt)
	assert.Equal(t, 56, h.session().MacGuffin.CurrentHP)
}

func TestBeforeKnockoutCanPreventKnockout(t *testing.T) {
	h := newTestCombat(t, "dummy")
	h.engine.bus.On(rules.EventBeforeKnockout, func(_ context.Context, evt *rules.Event) {
		evt.Payload.(*rules.KnockoutContext).Prevented = true
	})
	aldric := h.character(state.CharacterA)
	aldric.CurrentHP = 2

	knocked := h.engine.damageCharacter(h.ctx, state.CharacterA, 10)

	assert.False(t, knocked)
	assert.Equal(t, 1, aldric.CurrentHP)
	assert.False(t, aldric.KnockedOut)
}

func TestPlayerRetaliateHitsEnemyAfterEachHit(t *testing.T) {
	h := newTestCombat(t, "dummy")
	h.session().Retaliate = 2

	h.engine.resolveHit(h.ctx, state.MacGuffinID, 5, HitOptions{})

	assert.Equal(t, 38, h.session().Enemy.CurrentHP)
	assert.Equal(t, 55, h.session().MacGuffin.CurrentHP)
}

func TestEnemyRetaliateHitsCardOwner(t *testing.T) {
	h := newTestCombat(t, "dummy")
	h.emptyHand()
	h.session().Keywords.Enemy.Set(counters.KeywordRetaliate, 3)

	h.play(h.give("jab"), "")

	assert.Equal(t, 7, h.character(state.CharacterB).CurrentHP)
	assert.Equal(t, 20, h.character(state.CharacterA).CurrentHP)
	assert.Equal(t, 60, h.session().MacGuffin.CurrentHP)
}

func TestFocusSuppressesEnemyRetaliate(t *testing.T) {
	h := newTestCombat(t, "dummy")
	h.emptyHand()
	h.session().Keywords.Enemy.Set(counters.KeywordRetaliate, 3)
	h.session().Keywords.Global.Set(counters.KeywordFocus, 1)

	h.play(h.give("jab"), "")

	assert.Equal(t, 10, h.character(state.CharacterB).CurrentHP)
}

func TestBeforeDamageDealtCanScaleDamage(t *testing.T) {
	h := newTestCombat(t, "dummy")
	h.emptyHand()
	h.engine.bus.On(rules.EventBeforeDamageDealt, func(_ context.Context, evt *rules.Event) {
		dc := evt.Payload.(*rules.DamageContext)
		dc.Damage /= 2
	})

	h.play(h.give("strike"), "")

	assert.Equal(t, 37, h.session().Enemy.CurrentHP)
}
