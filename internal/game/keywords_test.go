package game

import (
	"testing"

	"github.com/curtaincall/curtaincall-server-go/internal/game/counters"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rules"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBlockAddsFortify(t *testing.T) {
	h := newTestCombat(t, "dummy")
	h.emptyHand()
	h.session().Keywords.Global.Set(counters.KeywordFortify, 3)

	res := h.play(h.give("guard"), "")
	require.True(t, res.Legal, res.Reason)

	assert.Equal(t, 8, h.session().MacGuffin.Block)
}

func TestWeakHalvesBlockAfterFortify(t *testing.T) {
	h := newTestCombat(t, "dummy")
	h.emptyHand()
	g := h.session().Keywords.Global
	g.Set(counters.KeywordFortify, 3)
	g.Set(counters.KeywordWeak, 2)

	h.play(h.give("guard"), "")

	assert.Equal(t, 4, h.session().MacGuffin.Block)
}

func TestFearConvertsToStageFright(t *testing.T) {
	h := newTestCombat(t, "dummy")
	h.emptyHand()

	require.True(t, h.engine.applyDebuffFromEnemy(h.ctx, counters.KeywordFear, 3, TargetCharacterA))
	require.True(t, h.engine.applyDebuffFromEnemy(h.ctx, counters.KeywordFear, 2, TargetCharacterA))

	kw := h.session().CharacterKeywords(state.CharacterA)
	assert.Equal(t, 0, kw.Get(counters.KeywordFear))
	assert.Equal(t, 1, kw.Get(counters.KeywordStageFright))

	strike := h.give("strike")
	res := h.engine.CanPlayCard(strike)
	assert.False(t, res.Legal)
	assert.Equal(t, rules.ReasonStageFright, res.Reason)

	// Non-attacks stay playable.
	assert.True(t, h.engine.CanPlayCard(h.give("rally")).Legal)

	require.True(t, h.engine.EndTurn(h.ctx))
	assert.Equal(t, 0, kw.Get(counters.KeywordStageFright))
	assert.True(t, h.engine.CanPlayCard(h.give("strike")).Legal)
}

func TestFearOverflowStillConvertsOnce(t *testing.T) {
	h := newTestCombat(t, "dummy")

	require.True(t, h.engine.applyDebuffFromEnemy(h.ctx, counters.KeywordFear, 3, TargetCharacterA))
	require.True(t, h.engine.applyDebuffFromEnemy(h.ctx, counters.KeywordFear, 7, TargetCharacterA))

	kw := h.session().CharacterKeywords(state.CharacterA)
	assert.Equal(t, 0, kw.Get(counters.KeywordFear))
	assert.Equal(t, 1, kw.Get(counters.KeywordStageFright))
	assert.Equal(t, 1, h.messages("Stage Fright!"))
}

func TestFrustrationConvertsToHeckledOnEnemy(t *testing.T) {
	tests := []struct {
		name    string
		inflict []int
		heckled int
	}{
		{name: "exact threshold", inflict: []int{5}, heckled: 1},
		{name: "overflow", inflict: []int{7}, heckled: 1},
		{name: "large overflow", inflict: []int{12}, heckled: 1},
		{name: "two conversions", inflict: []int{7, 12}, heckled: 2},
		{name: "below threshold", inflict: []int{4}, heckled: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestCombat(t, "dummy")
			for _, v := range tt.inflict {
				h.engine.inflictDebuffOnEnemy(h.ctx, counters.KeywordFrustration, v, nil)
			}

			ek := h.session().Keywords.Enemy
			want := 0
			if tt.heckled == 0 {
				want = tt.inflict[0]
			}
			assert.Equal(t, want, ek.Get(counters.KeywordFrustration))
			assert.Equal(t, tt.heckled, ek.Get(counters.KeywordHeckled))
		})
	}
}

func TestUnknownEnemyDebuffIsIgnored(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	h := newTestCombat(t, "dummy", WithLogger(zap.New(core)))
	inflicted := h.count(rules.EventDebuffInflictedOnEnemy)

	assert.False(t, h.engine.inflictDebuffOnEnemy(h.ctx, counters.Keyword("glitter"), 2, nil))

	assert.Equal(t, 0, *inflicted)
	assert.Equal(t, 1, logs.FilterMessage("ignoring unknown enemy debuff").Len())
}

func TestWardNegatesOneApplication(t *testing.T) {
	h := newTestCombat(t, "dummy")
	received := h.count(rules.EventDebuffInflictedOnPlayer)
	h.session().Keywords.Global.Set(counters.KeywordWard, 1)

	assert.False(t, h.engine.applyDebuffFromEnemy(h.ctx, counters.KeywordPoison, 2, TargetCharacterB))
	assert.Equal(t, 0, h.session().CharacterKeywords(state.CharacterB).Get(counters.KeywordPoison))
	assert.Equal(t, 0, h.session().Keywords.Global.Get(counters.KeywordWard))
	assert.Equal(t, 0, *received)

	assert.True(t, h.engine.applyDebuffFromEnemy(h.ctx, counters.KeywordPoison, 2, TargetCharacterB))
	assert.Equal(t, 2, h.session().CharacterKeywords(state.CharacterB).Get(counters.KeywordPoison))
	assert.Equal(t, 1, *received)
}

func TestEnemyDebuffTargets(t *testing.T) {
	h := newTestCombat(t, "dummy")
	s := h.session()

	h.engine.applyDebuffFromEnemy(h.ctx, counters.KeywordBurn, 1, TargetAllAllies)
	assert.Equal(t, 1, s.CharacterKeywords(state.CharacterA).Get(counters.KeywordBurn))
	assert.Equal(t, 1, s.CharacterKeywords(state.CharacterB).Get(counters.KeywordBurn))

	h.engine.applyDebuffFromEnemy(h.ctx, counters.KeywordWeak, 2, TargetCharacterA)
	assert.Equal(t, 2, s.Keywords.Global.Get(counters.KeywordWeak))

	h.engine.applyDebuffFromEnemy(h.ctx, counters.KeywordVulnerable, 1, TargetMacGuffin)
	assert.Equal(t, 1, s.Keywords.MacGuffin.Get(counters.KeywordVulnerable))

	// The MacGuffin only takes vulnerable and curse.
	assert.False(t, h.engine.applyDebuffFromEnemy(h.ctx, counters.KeywordPoison, 1, TargetMacGuffin))

	// A random target skips knocked-out characters.
	h.character(state.CharacterB).KnockedOut = true
	h.engine.applyDebuffFromEnemy(h.ctx, counters.KeywordPoison, 3, TargetRandomCharacter)
	assert.Equal(t, 3, s.CharacterKeywords(state.CharacterA).Get(counters.KeywordPoison))
	assert.Equal(t, 0, s.CharacterKeywords(state.CharacterB).Get(counters.KeywordPoison))
}

func TestOvationFlourishAndThresholds(t *testing.T) {
	h := newTestCombat(t, "dummy")
	maxed := h.count(rules.EventOvationMaxed)
	changed := h.count(rules.EventOvationChanged)

	h.engine.gainOvation(h.ctx, 1)
	assert.Equal(t, 0, h.engine.ovationDamageBonus())

	h.session().Keywords.Global.Set(counters.KeywordFlourish, 1)
	h.engine.gainOvation(h.ctx, 1)
	assert.Equal(t, 3, h.session().Keywords.Ovation())
	assert.Equal(t, 1, h.engine.ovationDamageBonus())

	h.engine.gainOvation(h.ctx, 4)
	assert.Equal(t, counters.MaxOvation, h.session().Keywords.Ovation())
	assert.Equal(t, 2, h.engine.ovationDamageBonus())
	assert.Equal(t, 1, *maxed)

	// Already capped: nothing changes, nothing is emitted.
	h.engine.gainOvation(h.ctx, 1)
	assert.Equal(t, 3, *changed)
	assert.Equal(t, 1, *maxed)
}

func TestOvationDecaysAtTurnStart(t *testing.T) {
	h := newTestCombat(t, "dummy")
	h.session().Keywords.SetOvation(4)
	h.session().Keywords.Global.Set(counters.KeywordFlourish, 1)

	require.True(t, h.engine.EndTurn(h.ctx))

	// The enemy hit costs 2 with flourish, then the turn start decays 2.
	assert.Equal(t, 0, h.session().Keywords.Ovation())
	assert.Equal(t, 0, h.session().Keywords.Global.Get(counters.KeywordFlourish))
}

func TestCurseIsSoakedByBlock(t *testing.T) {
	h := newTestCombat(t, "dummy")
	s := h.session()
	s.Keywords.Global.Set(counters.KeywordCurse, 5)
	s.MacGuffin.Block = 2

	h.engine.processEndOfTurnCurse(h.ctx)

	assert.Equal(t, 57, s.MacGuffin.CurrentHP)
	assert.Equal(t, 0, s.MacGuffin.Block)
	assert.Equal(t, 0, s.Keywords.Global.Get(counters.KeywordCurse))
}

func TestDamageOverTimeAtTurnStart(t *testing.T) {
	h := newTestCombat(t, "dummy")
	s := h.session()
	s.CharacterKeywords(state.CharacterA).Set(counters.KeywordPoison, 2)
	s.CharacterKeywords(state.CharacterA).Set(counters.KeywordRegenerate, 1)
	s.Keywords.Enemy.Set(counters.KeywordBurn, 3)

	require.True(t, h.engine.EndTurn(h.ctx))

	// Regenerate 1 minus poison 2 heals nothing; poison then deals 2.
	aldric := h.character(state.CharacterA)
	assert.Equal(t, 18, aldric.CurrentHP)
	assert.Equal(t, 1, s.CharacterKeywords(state.CharacterA).Get(counters.KeywordPoison))
	assert.Equal(t, 0, s.CharacterKeywords(state.CharacterA).Get(counters.KeywordRegenerate))
	assert.Equal(t, 37, s.Enemy.CurrentHP)
	assert.Equal(t, 2, s.Keywords.Enemy.Get(counters.KeywordBurn))
}

func TestEnemyDotCanWinTheCombat(t *testing.T) {
	h := newTestCombat(t, "glass")
	outcome := h.count(rules.EventCombatEnd)
	h.session().Keywords.Enemy.Set(counters.KeywordPoison, 9)

	require.True(t, h.engine.EndTurn(h.ctx))

	assert.Equal(t, rules.PhaseReward, h.engine.Phase())
	assert.Equal(t, 1, *outcome)
}

func TestEnergyGainOverflowsByAmountOnly(t *testing.T) {
	h := newTestCombat(t, "dummy")
	s := h.session()

	h.engine.gainEnergy(h.ctx, 2)
	assert.Equal(t, 5, s.Energy.Current)

	h.engine.gainEnergy(h.ctx, 1)
	assert.Equal(t, 5, s.Energy.Current)
}
