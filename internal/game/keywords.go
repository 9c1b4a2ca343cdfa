package game

import (
	"context"
	"fmt"

	"github.com/curtaincall/curtaincall-server-go/internal/game/counters"
	"github.com/curtaincall/curtaincall-server-go/internal/game/presenter"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rules"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
	"go.uber.org/zap"
)

// Inflict targets written in enemy patterns.
const (
	TargetRandomCharacter = "randomProtagonist"
	TargetAllAllies       = "allAllies"
	TargetBothCharacters  = "bothProtagonists"
	TargetCharacterA      = "protagonistA"
	TargetCharacterB      = "protagonistB"
	TargetMacGuffin       = "macguffin"
)

// halveIf floors n/2 when cond holds.
func halveIf(cond bool, n int) int {
	if cond {
		return n / 2
	}
	return n
}

func (e *Engine) global() *counters.Pool {
	return e.session.Keywords.Global
}

func (e *Engine) gainBlock(ctx context.Context, amount int) int {
	g := e.global()
	total := max(0, halveIf(g.Has(counters.KeywordWeak), amount+g.Get(counters.KeywordFortify)))
	e.session.MacGuffin.Block += total
	e.logger.Debug("block gained", zap.Int("amount", total), zap.Int("block", e.session.MacGuffin.Block))
	e.present(presenter.Notification{Kind: presenter.KindBlock, Target: string(state.MacGuffinID), Amount: total})
	e.bus.Emit(ctx, rules.EventBlockGained, rules.BlockGainedPayload{Amount: total})
	return total
}

func (e *Engine) keywordGained(ctx context.Context, kw counters.Keyword, amount int, target state.CharacterID) {
	e.logger.Debug("keyword gained",
		zap.String("keyword", string(kw)),
		zap.Int("amount", amount),
		zap.String("target", string(target)),
	)
	t := string(target)
	if t == "" {
		t = string(state.MacGuffinID)
	}
	e.present(presenter.Notification{Kind: presenter.KindKeyword, Target: t, Amount: amount, Keyword: string(kw)})
	e.bus.Emit(ctx, rules.EventKeywordGained, rules.KeywordGainedPayload{Keyword: kw, Amount: amount, Target: target})
}

// gainShield shields target, or the card owner when target is not a character.
func (e *Engine) gainShield(ctx context.Context, amount int, card *state.CardInstance, target state.CharacterID) {
	if !target.IsCharacter() {
		target = card.Owner()
	}
	c, ok := e.session.Character(target)
	if !ok {
		return
	}
	amount = halveIf(e.global().Has(counters.KeywordWeak), amount)
	if amount <= 0 {
		return
	}
	c.Shield += amount
	e.keywordGained(ctx, counters.KeywordShield, amount, target)
}

func (e *Engine) gainTaunt(ctx context.Context, amount int, card *state.CardInstance) {
	c, ok := e.session.Character(card.Owner())
	if !ok || amount <= 0 {
		return
	}
	c.Taunt += amount
	e.keywordGained(ctx, counters.KeywordTaunt, amount, c.ID)
}

func (e *Engine) gainDistract(ctx context.Context, amount int) {
	if amount <= 0 {
		return
	}
	e.session.Distract += amount
	e.keywordGained(ctx, counters.KeywordDistract, amount, "")
}

func (e *Engine) gainRetaliate(ctx context.Context, amount int) {
	if amount <= 0 {
		return
	}
	e.session.Retaliate += amount
	e.keywordGained(ctx, counters.KeywordRetaliate, amount, "")
}

// gainGlobal adds to a shared player counter such as inspire or luck.
func (e *Engine) gainGlobal(ctx context.Context, kw counters.Keyword, amount int) {
	if amount <= 0 {
		return
	}
	if !e.global().Add(kw, amount) {
		e.logger.Warn("ignoring unknown player keyword", zap.String("keyword", string(kw)))
		return
	}
	e.keywordGained(ctx, kw, amount, "")
}

func (e *Engine) gainRegenerate(ctx context.Context, amount int, id state.CharacterID) {
	if !id.IsCharacter() || amount <= 0 {
		return
	}
	e.session.CharacterKeywords(id).Add(counters.KeywordRegenerate, amount)
	e.keywordGained(ctx, counters.KeywordRegenerate, amount, id)
}

// gainEnergy lets energy exceed the maximum by at most amount. It never
// lowers energy already above that bound.
func (e *Engine) gainEnergy(ctx context.Context, amount int) {
	en := &e.session.Energy
	before := en.Current
	en.Current = max(before, min(en.Max+amount, en.Current+amount))
	gained := en.Current - before
	if gained <= 0 {
		return
	}
	e.present(presenter.Notification{Kind: presenter.KindKeyword, Target: string(state.MacGuffinID), Amount: gained, Keyword: "energy"})
	e.bus.Emit(ctx, rules.EventEnergyGained, rules.EnergyGainedPayload{Amount: gained})
}

// healCharacter heals a conscious character by amount minus its poison.
func (e *Engine) healCharacter(c *state.Character, amount int) int {
	if c.KnockedOut {
		return 0
	}
	heal := max(0, amount-e.session.CharacterKeywords(c.ID).Get(counters.KeywordPoison))
	before := c.CurrentHP
	c.CurrentHP = min(c.MaxHP, c.CurrentHP+heal)
	if healed := c.CurrentHP - before; healed > 0 {
		e.present(presenter.Notification{Kind: presenter.KindHeal, Target: string(c.ID), Amount: healed})
		return healed
	}
	return 0
}

func (e *Engine) healCharacters(amount int) int {
	total := 0
	for _, c := range e.session.Conscious() {
		total += e.healCharacter(c, amount)
	}
	return total
}

func (e *Engine) healMacGuffin(amount int) int {
	mg := e.session.MacGuffin
	before := mg.CurrentHP
	mg.CurrentHP = min(mg.MaxHP, mg.CurrentHP+max(0, amount))
	healed := mg.CurrentHP - before
	if healed > 0 {
		e.present(presenter.Notification{Kind: presenter.KindHeal, Target: string(state.MacGuffinID), Amount: healed})
	}
	return healed
}

// Ovation

// ovationDamageBonus is the flat damage added by the crowd.
func (e *Engine) ovationDamageBonus() int {
	switch ov := e.session.Keywords.Ovation(); {
	case ov >= 5:
		return 2
	case ov >= 2:
		return 1
	}
	return 0
}

func (e *Engine) gainOvation(ctx context.Context, amount int) {
	if amount <= 0 {
		return
	}
	if e.global().Has(counters.KeywordFlourish) {
		amount *= 2
	}
	e.setOvation(ctx, e.session.Keywords.Ovation()+amount)
}

func (e *Engine) loseOvation(ctx context.Context, amount int) {
	if amount <= 0 {
		return
	}
	if e.global().Has(counters.KeywordFlourish) {
		amount *= 2
	}
	e.setOvation(ctx, e.session.Keywords.Ovation()-amount)
}

// setOvation stores a clamped value and emits ovationChanged, plus
// ovationMaxed when the counter reaches the cap from below.
func (e *Engine) setOvation(ctx context.Context, value int) {
	ks := e.session.Keywords
	prev := ks.Ovation()
	now := ks.SetOvation(value)
	delta := now - prev
	if delta == 0 {
		return
	}
	e.present(presenter.Notification{Kind: presenter.KindKeyword, Target: string(state.MacGuffinID), Amount: delta, Keyword: string(counters.KeywordOvation)})
	payload := rules.OvationChangedPayload{Ovation: now, Delta: delta}
	e.bus.Emit(ctx, rules.EventOvationChanged, payload)
	if prev < counters.MaxOvation && now >= counters.MaxOvation {
		e.bus.Emit(ctx, rules.EventOvationMaxed, payload)
	}
}

// Debuffs

// consumeWard spends one ward stack and reports whether one was present.
func (e *Engine) consumeWard(target string) bool {
	if e.global().Remove(counters.KeywordWard, 1) == 0 {
		return false
	}
	e.message(target, "Warded!")
	return true
}

// applyDebuffToCharacter applies a debuff to a character or the MacGuffin.
// Ward negates the whole application.
func (e *Engine) applyDebuffToCharacter(ctx context.Context, id state.CharacterID, kw counters.Keyword, value int) bool {
	if value <= 0 {
		return false
	}
	if e.consumeWard(string(id)) {
		return false
	}
	if id == state.MacGuffinID {
		switch kw {
		case counters.KeywordVulnerable:
			e.session.Keywords.MacGuffin.Add(kw, value)
		case counters.KeywordCurse:
			e.global().Add(kw, value)
		default:
			return false
		}
		e.presentDebuff(string(id), kw, value)
		return true
	}
	if !id.IsCharacter() || !e.session.CharacterKeywords(id).Add(kw, value) {
		e.logger.Warn("ignoring debuff for target",
			zap.String("target", string(id)),
			zap.String("keyword", string(kw)),
		)
		return false
	}
	e.presentDebuff(string(id), kw, value)
	e.convertThresholds(e.session.CharacterKeywords(id), string(id))
	return true
}

func (e *Engine) presentDebuff(target string, kw counters.Keyword, value int) {
	e.logger.Debug("debuff applied",
		zap.String("target", target),
		zap.String("keyword", string(kw)),
		zap.Int("value", value),
	)
	e.present(presenter.Notification{Kind: presenter.KindDebuff, Target: target, Amount: value, Keyword: string(kw)})
}

// convertThresholds resets fear to 0 and adds 1 stage fright once fear
// reaches the threshold. Frustration converts into heckled the same way.
func (e *Engine) convertThresholds(pool *counters.Pool, target string) {
	if pool.Get(counters.KeywordFear) >= counters.ConversionThreshold {
		pool.Set(counters.KeywordFear, 0)
		pool.Add(counters.KeywordStageFright, 1)
		e.message(target, "Stage Fright!")
	}
	if pool.Get(counters.KeywordFrustration) >= counters.ConversionThreshold {
		pool.Set(counters.KeywordFrustration, 0)
		pool.Add(counters.KeywordHeckled, 1)
		e.message(target, "Heckled!")
	}
}

// applyDebuffFromEnemy routes an enemy debuff to its targets and emits
// debuffInflictedOnPlayer when at least one application landed.
func (e *Engine) applyDebuffFromEnemy(ctx context.Context, kw counters.Keyword, value int, target string) bool {
	if value <= 0 {
		return false
	}
	var landed []state.CharacterID
	switch kw {
	case counters.KeywordWeak, counters.KeywordConfused, counters.KeywordCurse:
		if e.consumeWard(string(state.MacGuffinID)) {
			return false
		}
		e.global().Add(kw, value)
		e.presentDebuff(string(state.MacGuffinID), kw, value)
		if kw == counters.KeywordCurse {
			landed = []state.CharacterID{state.MacGuffinID}
		}
	default:
		targets := e.resolveInflictTarget(target)
		if len(targets) == 0 {
			return false
		}
		for _, id := range targets {
			if e.applyDebuffToCharacter(ctx, id, kw, value) {
				landed = append(landed, id)
			}
		}
		if len(landed) == 0 {
			return false
		}
	}
	e.bus.Emit(ctx, rules.EventDebuffInflictedOnPlayer, rules.DebuffInflictedPayload{
		Keyword: kw,
		Value:   value,
		Targets: landed,
	})
	return true
}

// resolveInflictTarget maps a pattern target onto concrete ids. Random
// targets pick among conscious characters.
func (e *Engine) resolveInflictTarget(target string) []state.CharacterID {
	switch target {
	case TargetAllAllies, TargetBothCharacters:
		var out []state.CharacterID
		for _, c := range e.session.Conscious() {
			out = append(out, c.ID)
		}
		return out
	case TargetCharacterA:
		return []state.CharacterID{state.CharacterA}
	case TargetCharacterB:
		return []state.CharacterID{state.CharacterB}
	case TargetMacGuffin:
		return []state.CharacterID{state.MacGuffinID}
	}
	alive := e.session.Conscious()
	if len(alive) == 0 {
		return nil
	}
	return []state.CharacterID{alive[e.rng.IntN(len(alive))].ID}
}

// inflictDebuffOnEnemy runs the before-hook and adds the debuff. It reports
// whether the debuff landed; only landed debuffs are announced.
func (e *Engine) inflictDebuffOnEnemy(ctx context.Context, kw counters.Keyword, value int, card *state.CardInstance) bool {
	if value <= 0 || e.session.Enemy.IsDefeated() {
		return false
	}
	dc := &rules.DebuffContext{Keyword: kw, Value: value, Card: card}
	e.bus.Emit(ctx, rules.EventBeforeDebuffOnEnemy, dc)
	if dc.Blocked {
		e.logger.Debug("enemy debuff blocked", zap.String("keyword", string(kw)))
		return false
	}
	pool := e.session.Keywords.Enemy
	if !counters.IsDebuff(kw) || !pool.Add(kw, dc.Value) {
		e.logger.Warn("ignoring unknown enemy debuff", zap.String("keyword", string(kw)))
		return false
	}
	e.presentDebuff("enemy", kw, dc.Value)
	e.convertThresholds(pool, "enemy")
	e.bus.Emit(ctx, rules.EventDebuffInflictedOnEnemy, rules.DebuffInflictedPayload{
		Keyword: kw,
		Value:   dc.Value,
		Card:    card,
	})
	return true
}

// Start and end of turn

// processStartOfTurn runs decay and damage-over-time at the start of a
// player turn. It returns false when the combat ended during it.
func (e *Engine) processStartOfTurn(ctx context.Context) bool {
	s := e.session
	g := e.global()

	if ov := s.Keywords.Ovation(); ov > 0 {
		decay := 1
		if g.Has(counters.KeywordFlourish) {
			decay = 2
		}
		s.Keywords.SetOvation(ov - decay)
	}
	g.Set(counters.KeywordFlourish, 0)

	for _, id := range state.CharacterOrder {
		c, ok := s.Character(id)
		if !ok || c.KnockedOut {
			continue
		}
		kw := s.CharacterKeywords(id)
		if kw.Has(counters.KeywordRegenerate) {
			e.healCharacter(c, kw.Get(counters.KeywordRegenerate))
			kw.Decay(counters.KeywordRegenerate)
		}
		if poison := kw.Get(counters.KeywordPoison); poison > 0 {
			e.damageCharacter(ctx, id, poison)
			kw.Decay(counters.KeywordPoison)
		}
		if burn := kw.Get(counters.KeywordBurn); burn > 0 && !c.KnockedOut {
			e.damageCharacter(ctx, id, burn)
			kw.Decay(counters.KeywordBurn)
		}
		e.convertThresholds(kw, string(id))
	}

	g.Decay(counters.KeywordFortify, counters.KeywordPiercing, counters.KeywordFocus)

	enemy := s.Enemy
	ek := s.Keywords.Enemy
	for _, dot := range []counters.Keyword{counters.KeywordPoison, counters.KeywordBurn} {
		if n := ek.Get(dot); n > 0 {
			enemy.CurrentHP = max(0, enemy.CurrentHP-n)
			ek.Decay(dot)
			e.present(presenter.Notification{Kind: presenter.KindDamage, Target: "enemy", Amount: n, Keyword: string(dot)})
			if enemy.IsDefeated() {
				e.onEnemyDefeated(ctx)
				return false
			}
		}
	}
	ek.Decay(
		counters.KeywordStageFright, counters.KeywordHeckled, counters.KeywordForgetful,
		counters.KeywordVulnerable, counters.KeywordWeak, counters.KeywordConfused,
	)
	e.convertThresholds(ek, "enemy")

	g.Set(counters.KeywordCardsPlayed, 0)
	return true
}

// decayPlayerDebuffs ticks the player's turn-limited debuffs at the end of
// the player turn.
func (e *Engine) decayPlayerDebuffs() {
	s := e.session
	for _, id := range state.CharacterOrder {
		s.CharacterKeywords(id).Decay(
			counters.KeywordStageFright, counters.KeywordHeckled,
			counters.KeywordForgetful, counters.KeywordVulnerable,
		)
	}
	s.Keywords.MacGuffin.Decay(counters.KeywordVulnerable)
	e.global().Decay(counters.KeywordWeak, counters.KeywordConfused)
}

// processEndOfTurnCurse lets block soak the curse, then hits the MacGuffin
// with the rest.
func (e *Engine) processEndOfTurnCurse(ctx context.Context) {
	curse := e.global().Get(counters.KeywordCurse)
	if curse <= 0 {
		return
	}
	mg := e.session.MacGuffin
	blocked := min(curse, mg.Block)
	mg.Block -= blocked
	e.global().Set(counters.KeywordCurse, 0)
	if dmg := curse - blocked; dmg > 0 {
		e.message(string(state.MacGuffinID), fmt.Sprintf("Curse! %d dmg", dmg))
		e.damageMacGuffin(ctx, dmg)
	}
}

// Enemy HP outside the damage pipeline

func (e *Engine) healEnemy(_ context.Context, amount int) int {
	enemy := e.session.Enemy
	if enemy == nil || enemy.IsDefeated() {
		return 0
	}
	heal := max(0, amount-e.session.Keywords.Enemy.Get(counters.KeywordPoison))
	before := enemy.CurrentHP
	enemy.CurrentHP = min(enemy.MaxHP, enemy.CurrentHP+heal)
	healed := enemy.CurrentHP - before
	if healed > 0 {
		e.present(presenter.Notification{Kind: presenter.KindHeal, Target: "enemy", Amount: healed})
	}
	return healed
}

func (e *Engine) loseEnemyHP(ctx context.Context, amount int) {
	enemy := e.session.Enemy
	if enemy == nil || enemy.IsDefeated() || amount <= 0 {
		return
	}
	enemy.CurrentHP = max(0, enemy.CurrentHP-amount)
	e.present(presenter.Notification{Kind: presenter.KindDamage, Target: "enemy", Amount: amount})
	if enemy.IsDefeated() {
		e.onEnemyDefeated(ctx)
	}
}
