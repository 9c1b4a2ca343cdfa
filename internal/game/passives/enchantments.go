package passives

import (
	"context"
	"fmt"

	"github.com/curtaincall/curtaincall-server-go/internal/game/counters"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rules"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
)

// Enchantment ids match the card ids that activate them.
const (
	DramaticLighting = "dramatic-lighting"
	FortressScene    = "fortress-scene"
	CurtainOfIron    = "curtain-of-iron"
	WarDrums         = "war-drums"
	ComicRelief      = "comic-relief"
	PlotTwist        = "plot-twist"
	Encore           = "encore"
	SmokeAndMirrors  = "smoke-and-mirrors"
)

const encoreCardCount = 3

func enchantmentBehaviors() []Behavior {
	meta := func(id, name, desc string) Meta {
		return Meta{ID: id, Kind: KindEnchantment, Name: name, Description: desc}
	}
	return []Behavior{
		{Meta: meta(DramaticLighting, "Dramatic Lighting", "At the end of your turn, double your Retaliate."), Register: registerDramaticLighting},
		{Meta: meta(FortressScene, "Fortress Scene", "At the end of your turn, Aldric gains Shield equal to his Taunt."), Register: registerFortressScene},
		{Meta: meta(CurtainOfIron, "Curtain of Iron", "Whenever you gain Block, gain 1 Ovation."), Register: registerCurtainOfIron},
		{Meta: meta(WarDrums, "War Drums", "At the start of your turn, gain 1 Fortify and 1 Retaliate."), Register: registerWarDrums},
		{Meta: meta(ComicRelief, "Comic Relief", "Whenever you inflict a debuff on the enemy, gain 1 Luck."), Register: registerComicRelief},
		{Meta: meta(PlotTwist, "Plot Twist", "At the end of the enemy's turn, deal damage equal to its Frustration."), Register: registerPlotTwist},
		{Meta: meta(Encore, "Encore", "Whenever you play your 3rd card in a turn, gain 1 Ovation and draw 1."), Register: registerEncore},
		{Meta: meta(SmokeAndMirrors, "Smoke and Mirrors", "At the end of your turn, gain Distract per debuff type on the enemy."), Register: registerSmokeAndMirrors},
	}
}

func registerDramaticLighting(h Host, owner string) {
	on(h, owner, rules.EventPlayerTurnEnd, func(context.Context, *rules.Event) {
		s := h.Session()
		if s.Retaliate <= 0 {
			return
		}
		prev := s.Retaliate
		s.Retaliate *= 2
		message(h, "macguffin", fmt.Sprintf("Retaliate %d→%d!", prev, s.Retaliate))
	})
}

func registerFortressScene(h Host, owner string) {
	on(h, owner, rules.EventPlayerTurnEnd, func(context.Context, *rules.Event) {
		a, ok := h.Session().Character(state.CharacterA)
		if !ok || a.Taunt <= 0 {
			return
		}
		a.Shield += a.Taunt
		message(h, string(state.CharacterA), fmt.Sprintf("Shield +%d", a.Taunt))
	})
}

func registerCurtainOfIron(h Host, owner string) {
	on(h, owner, rules.EventBlockGained, func(ctx context.Context, evt *rules.Event) {
		if p, ok := evt.Payload.(rules.BlockGainedPayload); ok && p.Amount > 0 {
			h.GainOvation(ctx, 1)
		}
	})
}

func registerWarDrums(h Host, owner string) {
	on(h, owner, rules.EventPlayerTurnStart, func(context.Context, *rules.Event) {
		s := h.Session()
		s.Keywords.Global.Add(counters.KeywordFortify, 1)
		s.Retaliate++
		message(h, "macguffin", "Fortify +1, Retaliate +1")
	})
}

func registerComicRelief(h Host, owner string) {
	on(h, owner, rules.EventDebuffInflictedOnEnemy, func(context.Context, *rules.Event) {
		h.Session().Keywords.Global.Add(counters.KeywordLuck, 1)
		message(h, string(state.CharacterB), "Luck +1")
	})
}

func registerPlotTwist(h Host, owner string) {
	on(h, owner, rules.EventEnemyTurnEnd, func(ctx context.Context, _ *rules.Event) {
		frustration := h.Session().Keywords.Enemy.Get(counters.KeywordFrustration)
		if frustration <= 0 {
			return
		}
		message(h, "enemy", fmt.Sprintf("Plot Twist! %d dmg", frustration))
		h.LoseEnemyHP(ctx, frustration)
	})
}

func registerEncore(h Host, owner string) {
	on(h, owner, rules.EventCardPlayed, func(ctx context.Context, evt *rules.Event) {
		p, ok := evt.Payload.(rules.CardPlayedPayload)
		if !ok || p.CardsPlayedThisTurn != encoreCardCount {
			return
		}
		h.GainOvation(ctx, 1)
		h.DrawCards(ctx, 1)
		message(h, string(state.CharacterB), "Encore!")
	})
}

func registerSmokeAndMirrors(h Host, owner string) {
	on(h, owner, rules.EventPlayerTurnEnd, func(context.Context, *rules.Event) {
		s := h.Session()
		unique := s.Keywords.Enemy.Unique(counters.EnemyDebuffKeys...)
		if unique <= 0 {
			return
		}
		s.Distract += unique
		message(h, "macguffin", fmt.Sprintf("Distract +%d", unique))
	})
}
