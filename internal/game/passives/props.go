package passives

import (
	"context"

	"github.com/curtaincall/curtaincall-server-go/internal/game/counters"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rules"
)

// Stage prop ids.
const (
	DirectorsMegaphone  = "directors-megaphone"
	TatteredScript      = "tattered-script"
	ApplauseOMeter      = "applause-o-meter"
	StuntDouble         = "stunt-double"
	TrapdoorLever       = "trapdoor-lever"
	VillainsMonologue   = "villains-monologue"
	OpeningNightJitters = "opening-night-jitters"
	SpotlightRig        = "spotlight-rig"
	UnderstudysMask     = "understudys-mask"
)

const (
	stuntDoublePriority = 10
	trapdoorBlock       = 10
	trapdoorHPRatio     = 0.5
	jittersOvation      = 2
)

// Stage props are registered afresh for every combat, so the once-per-combat
// flags captured by their closures reset with each registration.
func stagePropBehaviors() []Behavior {
	meta := func(id, name, desc string) Meta {
		return Meta{ID: id, Kind: KindStageProp, Name: name, Description: desc}
	}
	return []Behavior{
		{Meta: meta(DirectorsMegaphone, "Director's Megaphone", "At the start of each combat, gain 1 Inspire."), Register: registerDirectorsMegaphone},
		{Meta: meta(TatteredScript, "Tattered Script", "At the start of each combat, draw 1 additional card."), Register: registerTatteredScript},
		{Meta: meta(ApplauseOMeter, "Applause-O-Meter", "Whenever you gain Ovation, gain 1 additional Ovation."), Register: registerApplauseOMeter},
		{Meta: meta(StuntDouble, "Stunt Double", "Once per combat, when a character would be knocked out, survive with 1 HP."), Register: registerStuntDouble},
		{Meta: meta(TrapdoorLever, "Trapdoor Lever", "Once per combat, when the MacGuffin drops below 50% HP, gain 10 Block."), Register: registerTrapdoorLever},
		{Meta: meta(VillainsMonologue, "Villain's Monologue", "Enemies start each combat with 1 Frustration and 1 Weak."), Register: registerVillainsMonologue},
		{Meta: meta(OpeningNightJitters, "Opening Night Jitters", "Start each combat with 2 Ovation."), Register: registerOpeningNightJitters},
		{Meta: meta(SpotlightRig, "Spotlight Rig", "Whenever you play a 0-cost card, gain 1 Ovation."), Register: registerSpotlightRig},
		{Meta: meta(UnderstudysMask, "Understudy's Mask", "Start each combat with 1 Ward."), Register: registerUnderstudysMask},
	}
}

func registerDirectorsMegaphone(h Host, owner string) {
	on(h, owner, rules.EventCombatStart, func(context.Context, *rules.Event) {
		h.Session().Keywords.Global.Add(counters.KeywordInspire, 1)
		message(h, "macguffin", "Inspire +1")
	})
}

func registerTatteredScript(h Host, owner string) {
	on(h, owner, rules.EventPlayerTurnStart, func(ctx context.Context, evt *rules.Event) {
		if p, ok := evt.Payload.(rules.TurnPayload); ok && p.Turn == 1 {
			h.DrawCards(ctx, 1)
		}
	})
}

func registerApplauseOMeter(h Host, owner string) {
	locked := false
	on(h, owner, rules.EventOvationChanged, func(ctx context.Context, evt *rules.Event) {
		p, ok := evt.Payload.(rules.OvationChangedPayload)
		if !ok || p.Delta <= 0 || locked {
			return
		}
		locked = true
		h.GainOvation(ctx, 1)
		locked = false
	})
}

func registerStuntDouble(h Host, owner string) {
	used := false
	on(h, owner, rules.EventBeforeKnockout, func(_ context.Context, evt *rules.Event) {
		kc, ok := evt.Payload.(*rules.KnockoutContext)
		if !ok || used || kc.Prevented {
			return
		}
		used = true
		kc.Prevented = true
		message(h, string(kc.Character), "Stunt Double!")
	}, rules.WithPriority(stuntDoublePriority))
}

func registerTrapdoorLever(h Host, owner string) {
	used := false
	on(h, owner, rules.EventMacGuffinDamaged, func(context.Context, *rules.Event) {
		mg := h.Session().MacGuffin
		if used || mg.HPRatio() >= trapdoorHPRatio {
			return
		}
		used = true
		mg.Block += trapdoorBlock
		message(h, "macguffin", "Trapdoor! Block +10")
	})
}

func registerVillainsMonologue(h Host, owner string) {
	on(h, owner, rules.EventCombatStart, func(context.Context, *rules.Event) {
		enemy := h.Session().Keywords.Enemy
		enemy.Add(counters.KeywordFrustration, 1)
		enemy.Add(counters.KeywordWeak, 1)
		message(h, "enemy", "Frustration +1, Weak +1")
	})
}

func registerOpeningNightJitters(h Host, owner string) {
	on(h, owner, rules.EventCombatStart, func(ctx context.Context, _ *rules.Event) {
		h.GainOvation(ctx, jittersOvation)
	})
}

func registerSpotlightRig(h Host, owner string) {
	on(h, owner, rules.EventCardPlayed, func(ctx context.Context, evt *rules.Event) {
		p, ok := evt.Payload.(rules.CardPlayedPayload)
		if ok && p.Card != nil && p.Card.Definition.Cost == 0 {
			h.GainOvation(ctx, 1)
		}
	})
}

func registerUnderstudysMask(h Host, owner string) {
	on(h, owner, rules.EventCombatStart, func(context.Context, *rules.Event) {
		h.Session().Keywords.Global.Add(counters.KeywordWard, 1)
		message(h, "macguffin", "Ward +1")
	})
}
