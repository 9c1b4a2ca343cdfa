package passives

import (
	"context"
	"slices"

	"github.com/curtaincall/curtaincall-server-go/internal/game/counters"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rules"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
)

// Enemy passive ids. The ones without listeners are read by the enemy AI.
const (
	RustyArmor            = "rusty-armor"
	Erratic               = "erratic"
	CurtainRigging        = "curtain-rigging"
	ScathingPen           = "scathing-pen"
	UnderstudysResilience = "understudys-resilience"
	StageFortress         = "stage-fortress"
	MirrorSpite           = "mirror-spite"
	BlindingLight         = "blinding-light"
	CastingCall           = "casting-call"
	DramaticEgo           = "dramatic-ego"
	TwoFaces              = "two-faces"
	TangledStrings        = "tangled-strings"
	IronCurtain           = "iron-curtain"
	NarrativeControl      = "narrative-control"
)

// PassiveStateKey is the enemy passive-state entry holding the current
// alternating mode (comedy or tragedy).
const PassiveStateKey = "state"

const (
	stateComedy       = "comedy"
	stateTragedy      = "tragedy"
	resilienceUsedKey = "resilienceTriggered"
	scathingPenHeal   = 3
	resilienceRegen   = 2
	rustyArmorBlock   = 3
	dramaticEgoRetal  = 2
	resilienceHPRatio = 0.5
	earlyPriority     = 100
)

func enemyBehaviors() []Behavior {
	meta := func(id, name, desc string) Meta {
		return Meta{ID: id, Kind: KindEnemy, Name: name, Description: desc}
	}
	return []Behavior{
		{Meta: meta(RustyArmor, "Rusty Armor", "Starts with 3 Block."), Register: registerRustyArmor},
		{Meta: meta(Erratic, "Erratic", "Immune to Fear and Frustration."), Register: immunity(counters.KeywordFear, counters.KeywordFrustration)},
		{Meta: meta(CurtainRigging, "Curtain Rigging", "Gains 1 Inspire each turn."), Register: inspireEachTurn},
		{Meta: meta(ScathingPen, "Scathing Pen", "Heals 3 HP when inflicting a debuff."), Register: registerScathingPen},
		{Meta: meta(UnderstudysResilience, "Understudy's Resilience", "Gains Regenerate 2 on first drop below 50% HP."), Register: registerUnderstudysResilience},
		{Meta: meta(StageFortress, "Stage Fortress", "Block halves instead of fully resetting."), Register: registerStageFortress},
		{Meta: meta(MirrorSpite, "Mirror Spite", "Inflicts 1 Burn on the attacking character."), Register: registerMirrorSpite},
		{Meta: meta(BlindingLight, "Blinding Light", "Attacks ignore Taunt, Distract and Retaliate.")},
		{Meta: meta(CastingCall, "Casting Call", "Random debuff on all allies at the start of each phase.")},
		{Meta: meta(DramaticEgo, "Dramatic Ego", "Permanent Retaliate 2. Gains 1 Inspire each turn."), Register: registerDramaticEgo},
		{Meta: meta(TwoFaces, "Two Faces", "Comedy: 50% reduced damage taken. Tragedy: immune to debuffs."), Register: registerTwoFaces},
		{Meta: meta(TangledStrings, "Tangled Strings", "+3 damage while any character has 3+ debuff stacks.")},
		{Meta: meta(IronCurtain, "Iron Curtain", "Immune to Forgetful and Vulnerable."), Register: immunity(counters.KeywordForgetful, counters.KeywordVulnerable)},
		{Meta: meta(NarrativeControl, "Narrative Control", "25% chance to clear a debuff each turn.")},
	}
}

func registerRustyArmor(h Host, owner string) {
	on(h, owner, rules.EventCombatStart, func(context.Context, *rules.Event) {
		h.Session().Keywords.Enemy.Set(counters.KeywordBlock, rustyArmorBlock)
	}, rules.WithPriority(earlyPriority))
}

// immunity blocks the listed debuffs before they land.
func immunity(keywords ...counters.Keyword) RegisterFunc {
	return func(h Host, owner string) {
		on(h, owner, rules.EventBeforeDebuffOnEnemy, func(_ context.Context, evt *rules.Event) {
			dc, ok := evt.Payload.(*rules.DebuffContext)
			if !ok || dc.Blocked || !slices.Contains(keywords, dc.Keyword) {
				return
			}
			dc.Blocked = true
			message(h, "enemy", "Immune!")
		})
	}
}

func inspireEachTurn(h Host, owner string) {
	on(h, owner, rules.EventEnemyTurnStart, func(context.Context, *rules.Event) {
		h.Session().Keywords.Enemy.Add(counters.KeywordInspire, 1)
		message(h, "enemy", "Inspire +1")
	}, rules.WithPriority(earlyPriority))
}

func registerScathingPen(h Host, owner string) {
	on(h, owner, rules.EventDebuffInflictedOnPlayer, func(ctx context.Context, _ *rules.Event) {
		h.HealEnemy(ctx, scathingPenHeal)
	})
}

func registerUnderstudysResilience(h Host, owner string) {
	on(h, owner, rules.EventDamageDealtToEnemy, func(_ context.Context, evt *rules.Event) {
		p, ok := evt.Payload.(rules.DamageDealtPayload)
		if !ok {
			return
		}
		enemy := h.Session().Enemy
		if enemy.PassiveState[resilienceUsedKey] != "" || p.HPRatio > resilienceHPRatio {
			return
		}
		enemy.PassiveState[resilienceUsedKey] = "true"
		h.Session().Keywords.Enemy.Add(counters.KeywordRegenerate, resilienceRegen)
		message(h, "enemy", "Regenerate!")
	})
}

func registerStageFortress(h Host, owner string) {
	on(h, owner, rules.EventBeforeEnemyDefenseReset, func(_ context.Context, evt *rules.Event) {
		if dc, ok := evt.Payload.(*rules.DefenseResetContext); ok {
			dc.HalfBlock = true
		}
	})
}

func registerMirrorSpite(h Host, owner string) {
	on(h, owner, rules.EventDamageDealtToEnemy, func(ctx context.Context, evt *rules.Event) {
		p, ok := evt.Payload.(rules.DamageDealtPayload)
		if !ok || p.Card == nil || !p.Card.Owner().IsCharacter() {
			return
		}
		if h.ApplyDebuffToCharacter(ctx, p.Card.Owner(), counters.KeywordBurn, 1) {
			message(h, string(p.Card.Owner()), "Mirror Spite!")
		}
	})
}

func registerDramaticEgo(h Host, owner string) {
	on(h, owner, rules.EventCombatStart, func(context.Context, *rules.Event) {
		h.Session().Keywords.Enemy.Set(counters.KeywordRetaliate, dramaticEgoRetal)
	}, rules.WithPriority(earlyPriority))
	on(h, owner, rules.EventBeforeEnemyDefenseReset, func(_ context.Context, evt *rules.Event) {
		if dc, ok := evt.Payload.(*rules.DefenseResetContext); ok {
			dc.KeepRetaliate = true
		}
	})
	inspireEachTurn(h, owner)
}

func registerTwoFaces(h Host, owner string) {
	mode := func() string {
		return h.Session().Enemy.PassiveState[PassiveStateKey]
	}
	on(h, owner, rules.EventBeforeDamageDealt, func(_ context.Context, evt *rules.Event) {
		if dc, ok := evt.Payload.(*rules.DamageContext); ok && mode() == stateComedy {
			dc.Damage /= 2
		}
	})
	on(h, owner, rules.EventBeforeDebuffOnEnemy, func(_ context.Context, evt *rules.Event) {
		if dc, ok := evt.Payload.(*rules.DebuffContext); ok && mode() == stateTragedy && !dc.Blocked {
			dc.Blocked = true
			message(h, "enemy", "Immune!")
		}
	})
}

// characterDebuffStacks is the total debuff stacks carried by one character.
func characterDebuffStacks(s *state.Session, id state.CharacterID) int {
	return s.CharacterKeywords(id).Total(counters.CharacterDebuffKeys...)
}

// TangledStringsActive reports whether any character carries 3 or more
// debuff stacks.
func TangledStringsActive(s *state.Session) bool {
	for _, id := range state.CharacterOrder {
		if characterDebuffStacks(s, id) >= 3 {
			return true
		}
	}
	return false
}
