package game

import (
	"context"
	"fmt"

	"github.com/curtaincall/curtaincall-server-go/internal/game/content"
	"github.com/curtaincall/curtaincall-server-go/internal/game/counters"
	"github.com/curtaincall/curtaincall-server-go/internal/game/effects"
	"github.com/curtaincall/curtaincall-server-go/internal/game/passives"
	"github.com/curtaincall/curtaincall-server-go/internal/game/presenter"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rng"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rules"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
	"go.uber.org/zap"
)

// CanPlayCard checks whether a card may be played right now.
func (e *Engine) CanPlayCard(card *state.CardInstance) rules.LegalityResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.legality.CanPlay(card)
}

// PlayCard plays a card from hand. Energy and hand removal happen at once;
// the card's effects are queued and resolved in play order. Illegal plays
// change nothing and report why.
func (e *Engine) PlayCard(ctx context.Context, instanceID string, target state.CharacterID) rules.LegalityResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	card, res := e.legality.CheckPlay(instanceID)
	if !res.Legal {
		e.logger.Debug("card play rejected",
			zap.String("instance_id", instanceID),
			zap.String("reason", res.Reason),
		)
		return res
	}

	s := e.session
	s.Energy.Current -= card.EffectiveCost()
	s.Hand.Remove(instanceID)
	e.logger.Info("card played",
		zap.String("card_id", card.ID()),
		zap.String("instance_id", card.InstanceID),
		zap.String("target", string(target)),
		zap.Int("energy", s.Energy.Current),
	)

	if card.Type() == content.CardTypeEnchantment {
		s.Enchantments.Push(card)
		e.registry.Activate(passiveHost{e}, passives.KindEnchantment, card.ID(), passives.EnchantmentOwner(card.InstanceID))
		e.bus.Emit(ctx, rules.EventEnchantmentPlayed, rules.EnchantmentPlayedPayload{Card: card})
	} else {
		s.Discard.Push(card)
	}

	e.queue.Enqueue(rules.QueuedPlay{Card: card, Target: target})
	e.drain(ctx)
	return rules.Legal
}

// drain resolves queued plays one at a time. A play queued while another
// resolves waits for it.
func (e *Engine) drain(ctx context.Context) {
	if e.draining {
		return
	}
	e.draining = true
	defer func() { e.draining = false }()

	for {
		play, ok := e.queue.Dequeue()
		if !ok {
			return
		}
		if e.lifecycle.Phase() != rules.PhasePlayer {
			play.Card.ClearModifiers()
			continue
		}
		e.executeCardEffects(ctx, play.Card, play.Target)
		// Modifiers stay on the instance until its own effects have read them.
		play.Card.ClearModifiers()
	}
}

// executeCardEffects counts the play, announces it and resolves each effect
// in order. Resolution stops once the player phase ends.
func (e *Engine) executeCardEffects(ctx context.Context, card *state.CardInstance, target state.CharacterID) {
	g := e.global()
	g.Add(counters.KeywordCardsPlayed, 1)
	e.present(presenter.Notification{Kind: presenter.KindCard, Target: string(card.Owner()), Text: card.Definition.Name})
	e.bus.Emit(ctx, rules.EventCardPlayed, rules.CardPlayedPayload{
		Card:                card,
		Target:              target,
		CardsPlayedThisTurn: g.Get(counters.KeywordCardsPlayed),
	})

	r := &resolver{e: e, ctx: ctx, card: card, target: target}
	for _, eff := range card.Definition.Effects {
		if e.lifecycle.Phase() != rules.PhasePlayer {
			return
		}
		eff.Accept(r)
	}
}

// resolver applies one card's effects.
type resolver struct {
	e      *Engine
	ctx    context.Context
	card   *state.CardInstance
	target state.CharacterID
}

var _ effects.Visitor = (*resolver)(nil)

func (r *resolver) owner() state.CharacterID { return r.card.Owner() }

func (r *resolver) ownerCharacter() (*state.Character, bool) {
	return r.e.session.Character(r.owner())
}

func (r *resolver) ovation() int { return r.e.session.Keywords.Ovation() }

func (r *resolver) enemyDebuffTypes() int {
	return r.e.session.Keywords.Enemy.Unique(counters.EnemyDebuffKeys...)
}

func (r *resolver) VisitDamage(x effects.Damage) {
	r.e.dealDamageToEnemy(r.ctx, x.Value, r.card)
}

func (r *resolver) VisitBlock(x effects.Block) {
	r.e.gainBlock(r.ctx, x.Value)
}

func (r *resolver) VisitDraw(x effects.Draw) {
	r.e.drawCards(r.ctx, x.Value)
}

func (r *resolver) VisitEnergy(x effects.Energy) {
	r.e.gainEnergy(r.ctx, x.Value)
}

func (r *resolver) VisitShield(x effects.Shield) {
	r.e.gainShield(r.ctx, x.Value, r.card, r.target)
}

func (r *resolver) VisitTaunt(x effects.Taunt) {
	r.e.gainTaunt(r.ctx, x.Value, r.card)
}

func (r *resolver) VisitDistract(x effects.Distract) {
	r.e.gainDistract(r.ctx, x.Value)
}

func (r *resolver) VisitRetaliate(x effects.Retaliate) {
	r.e.gainRetaliate(r.ctx, x.Value)
}

func (r *resolver) VisitGain(x effects.Gain) {
	r.e.gainGlobal(r.ctx, x.Keyword, x.Value)
}

func (r *resolver) VisitRegenerate(x effects.Regenerate) {
	r.e.gainRegenerate(r.ctx, x.Value, r.owner())
}

func (r *resolver) VisitInflict(x effects.Inflict) {
	r.e.inflictDebuffOnEnemy(r.ctx, x.Keyword, x.Value, r.card)
}

func (r *resolver) VisitSelfInflict(x effects.SelfInflict) {
	r.e.applyDebuffToCharacter(r.ctx, r.owner(), x.Keyword, x.Value)
}

func (r *resolver) VisitInflictRandomDebuff(x effects.InflictRandomDebuff) {
	for range x.Value {
		kw := counters.RandomDebuffKeys[r.e.rng.IntN(len(counters.RandomDebuffKeys))]
		r.e.inflictDebuffOnEnemy(r.ctx, kw, 1, r.card)
	}
}

func (r *resolver) VisitHealCharacters(x effects.HealCharacters) {
	r.e.healCharacters(x.Value)
}

func (r *resolver) VisitHeal(x effects.Heal) {
	id := r.target
	if id == "" {
		id = r.owner()
	}
	if id == state.MacGuffinID {
		r.e.healMacGuffin(x.Value)
		return
	}
	if c, ok := r.e.session.Character(id); ok {
		r.e.healCharacter(c, x.Value)
	}
}

func (r *resolver) VisitReduceCostType(x effects.ReduceCostType) {
	n := 0
	for _, c := range r.e.session.Hand.Cards() {
		if c != r.card && string(c.Type()) == x.CardType {
			c.CostReduction += x.Amount
			n++
		}
	}
	if n > 0 {
		r.e.message(string(state.MacGuffinID), fmt.Sprintf("%s -%d cost", x.CardType, x.Amount))
	}
}

func (r *resolver) VisitReduceCostRandom(x effects.ReduceCostRandom) {
	var eligible []*state.CardInstance
	for _, c := range r.e.session.Hand.Cards() {
		if c != r.card && c.EffectiveCost() > 0 {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return
	}
	pick := eligible[r.e.rng.IntN(len(eligible))]
	pick.CostReduction += x.Amount
	r.e.message(string(state.MacGuffinID), fmt.Sprintf("%s -%d", pick.Definition.Name, x.Amount))
}

func (r *resolver) VisitBuffOtherAttacks(x effects.BuffOtherAttacks) {
	other := r.owner().Other()
	if other == "" {
		return
	}
	for _, c := range r.e.session.Hand.Cards() {
		if c.Owner() == other && c.IsAttack() {
			c.DamageBonus += x.Value
		}
	}
}

func (r *resolver) VisitFromOvation(x effects.FromOvation) {
	ov := r.ovation()
	if ov <= 0 {
		return
	}
	switch x.Keyword {
	case counters.KeywordTaunt:
		r.e.gainTaunt(r.ctx, ov, r.card)
	case counters.KeywordShield:
		r.e.gainShield(r.ctx, ov, r.card, r.target)
	default:
		r.e.gainGlobal(r.ctx, x.Keyword, ov)
	}
}

func (r *resolver) VisitConvertOvation(x effects.ConvertOvation) {
	ov := r.ovation()
	if ov <= 0 {
		return
	}
	r.e.gainGlobal(r.ctx, x.To, ov)
	r.e.setOvation(r.ctx, 0)
}

func (r *resolver) VisitDamageFromOvation(x effects.DamageFromOvation) {
	r.e.dealDamageToEnemy(r.ctx, x.Base+r.ovation()*x.Multiplier, r.card)
}

func (r *resolver) VisitInflictFromOvation(x effects.InflictFromOvation) {
	if ov := r.ovation(); ov > 0 {
		r.e.inflictDebuffOnEnemy(r.ctx, x.Keyword, ov, r.card)
	}
}

func (r *resolver) VisitLoseAllOvation(effects.LoseAllOvation) {
	r.e.setOvation(r.ctx, 0)
}

func (r *resolver) VisitOvation(x effects.Ovation) {
	switch {
	case x.Value > 0:
		r.e.gainOvation(r.ctx, x.Value)
	case x.Value < 0:
		r.e.loseOvation(r.ctx, -x.Value)
	}
}

func (r *resolver) VisitSetOvation(x effects.SetOvation) {
	r.e.setOvation(r.ctx, x.Value)
}

func (r *resolver) VisitDamagePerDebuff(x effects.DamagePerDebuff) {
	r.e.dealDamageToEnemy(r.ctx, x.Base+r.enemyDebuffTypes()*x.PerDebuff, r.card)
}

func (r *resolver) VisitDamagePerTotalDebuff(x effects.DamagePerTotalDebuff) {
	stacks := r.e.session.Keywords.Enemy.Total(counters.EnemyDebuffKeys...)
	r.e.dealDamageToEnemy(r.ctx, stacks*x.PerStack, r.card)
}

func (r *resolver) VisitDistractPerDebuffType(x effects.DistractPerDebuffType) {
	r.e.gainDistract(r.ctx, r.enemyDebuffTypes()*x.PerType)
}

func (r *resolver) VisitLuckPerDebuffType(x effects.LuckPerDebuffType) {
	r.e.gainGlobal(r.ctx, counters.KeywordLuck, r.enemyDebuffTypes()*x.PerType)
}

func (r *resolver) VisitShieldFromLuck(effects.ShieldFromLuck) {
	r.e.gainShield(r.ctx, r.e.global().Get(counters.KeywordLuck), r.card, r.target)
}

func (r *resolver) VisitLuckyBreak(x effects.LuckyBreak) {
	luck := min(r.e.global().Get(counters.KeywordLuck), luckCap)
	if luck > 0 && rng.Chance(r.e.rng, float64(luck)*luckChancePerStack) {
		r.e.message(string(r.owner()), "Lucky break!")
		r.e.gainEnergy(r.ctx, x.Value)
		return
	}
	r.e.gainGlobal(r.ctx, counters.KeywordLuck, 1)
}

func (r *resolver) VisitAllInLuck(x effects.AllInLuck) {
	luck := r.e.global().Get(counters.KeywordLuck)
	if luck <= 0 {
		return
	}
	r.e.global().Set(counters.KeywordLuck, 0)
	r.e.dealDamageToEnemy(r.ctx, luck*x.Multiplier, r.card)
}

func (r *resolver) VisitOvationFromTaunt(effects.OvationFromTaunt) {
	if c, ok := r.ownerCharacter(); ok && c.Taunt > 0 {
		r.e.gainOvation(r.ctx, c.Taunt)
	}
}

func (r *resolver) VisitShieldFromTaunt(effects.ShieldFromTaunt) {
	if c, ok := r.ownerCharacter(); ok && c.Taunt > 0 {
		r.e.gainShield(r.ctx, c.Taunt, r.card, c.ID)
	}
}

func (r *resolver) VisitConvertBlockToOvation(effects.ConvertBlockToOvation) {
	mg := r.e.session.MacGuffin
	if mg.Block <= 0 {
		return
	}
	block := mg.Block
	mg.Block = 0
	r.e.gainOvation(r.ctx, block)
}

func (r *resolver) VisitRetaliateFromFortify(effects.RetaliateFromFortify) {
	r.e.gainRetaliate(r.ctx, r.e.global().Get(counters.KeywordFortify))
}

func (r *resolver) VisitCleanseBurnPoison(effects.CleanseBurnPoison) {
	targets := state.CharacterOrder
	if r.target.IsCharacter() {
		targets = []state.CharacterID{r.target}
	}
	for _, id := range targets {
		r.e.session.CharacterKeywords(id).Clear(counters.KeywordBurn, counters.KeywordPoison)
	}
	r.e.message(string(state.MacGuffinID), "Cleansed!")
}

func (r *resolver) VisitSelfCurse(x effects.SelfCurse) {
	if x.Value > 0 {
		r.e.global().Add(counters.KeywordCurse, x.Value)
		r.e.presentDebuff(string(state.MacGuffinID), counters.KeywordCurse, x.Value)
	}
}

func (r *resolver) VisitUnknown(x effects.Unknown) {
	r.e.logger.Warn("ignoring unknown effect type",
		zap.String("card_id", r.card.ID()),
		zap.String("type", x.Type),
	)
}
