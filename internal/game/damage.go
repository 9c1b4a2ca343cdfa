package game

import (
	"context"

	"github.com/curtaincall/curtaincall-server-go/internal/game/counters"
	"github.com/curtaincall/curtaincall-server-go/internal/game/presenter"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rng"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rules"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
	"go.uber.org/zap"
)

const (
	confusedFailChance = 0.5
	luckCap            = 10
	luckChancePerStack = 0.1
)

// HitOptions modify how an enemy hit resolves.
type HitOptions struct {
	// HasAccuracy ignores taunt, distract and retaliate.
	HasAccuracy bool
}

// HitResult describes one resolved enemy hit.
type HitResult struct {
	Target     state.CharacterID
	Redirected bool
	Damage     int
	Absorbed   int
	KnockedOut bool
}

// scale150 floors n*1.5.
func scale150(n int) int {
	return n * 3 / 2
}

func (e *Engine) confusedFails(confused bool) bool {
	return confused && rng.Chance(e.rng, confusedFailChance)
}

// resolveHit runs one enemy hit through taunt, vulnerable, shield or block,
// HP and retaliate, in that order.
func (e *Engine) resolveHit(ctx context.Context, target state.CharacterID, raw int, opts HitOptions) HitResult {
	s := e.session
	res := HitResult{Target: target}
	confused := e.global().Has(counters.KeywordConfused)

	if target == state.MacGuffinID && !opts.HasAccuracy {
		for _, id := range state.CharacterOrder {
			c, ok := s.Character(id)
			if !ok || c.Taunt <= 0 || c.KnockedOut {
				continue
			}
			if e.confusedFails(confused) {
				e.message(string(id), "Taunt failed!")
				break
			}
			c.Taunt--
			res.Target, res.Redirected = id, true
			break
		}
	}

	dmg := max(0, raw)
	var vulnerable bool
	if res.Target == state.MacGuffinID {
		vulnerable = s.Keywords.MacGuffin.Has(counters.KeywordVulnerable)
	} else {
		vulnerable = s.CharacterKeywords(res.Target).Has(counters.KeywordVulnerable)
	}
	if vulnerable && dmg > 0 {
		dmg = scale150(dmg)
	}

	if res.Target == state.MacGuffinID {
		res.Absorbed = min(dmg, s.MacGuffin.Block)
		s.MacGuffin.Block -= res.Absorbed
	} else if c, ok := s.Character(res.Target); ok {
		res.Absorbed = min(dmg, c.Shield)
		c.Shield -= res.Absorbed
	}
	dmg -= res.Absorbed
	res.Damage = dmg

	if dmg > 0 {
		if res.Target == state.MacGuffinID {
			e.damageMacGuffin(ctx, dmg)
		} else {
			res.KnockedOut = e.damageCharacter(ctx, res.Target, dmg)
		}
	}
	e.logger.Debug("hit resolved",
		zap.String("target", string(res.Target)),
		zap.Bool("redirected", res.Redirected),
		zap.Int("raw", raw),
		zap.Int("absorbed", res.Absorbed),
		zap.Int("damage", res.Damage),
	)

	if !opts.HasAccuracy && s.Retaliate > 0 && !e.terminal() {
		if e.confusedFails(confused) {
			e.message(string(state.MacGuffinID), "Retaliate failed!")
		} else {
			e.loseEnemyHP(ctx, s.Retaliate)
		}
	}
	return res
}

// damageMacGuffin removes HP, costs one ovation and ends the combat at zero.
func (e *Engine) damageMacGuffin(ctx context.Context, amount int) {
	mg := e.session.MacGuffin
	mg.CurrentHP = max(0, mg.CurrentHP-amount)
	e.present(presenter.Notification{Kind: presenter.KindDamage, Target: string(state.MacGuffinID), Amount: amount})
	e.loseOvation(ctx, 1)
	e.bus.Emit(ctx, rules.EventMacGuffinDamaged, rules.MacGuffinDamagedPayload{
		Amount: amount,
		HP:     mg.CurrentHP,
		MaxHP:  mg.MaxHP,
	})
	if mg.CurrentHP <= 0 {
		e.onDefeat(ctx)
	}
}

// damageCharacter removes HP from a conscious character. A character that
// would drop to zero gets one chance to be saved by a beforeKnockout
// listener. Reports whether the character was knocked out.
func (e *Engine) damageCharacter(ctx context.Context, id state.CharacterID, amount int) bool {
	c, ok := e.session.Character(id)
	if !ok || c.KnockedOut || amount <= 0 {
		return false
	}
	c.CurrentHP = max(0, c.CurrentHP-amount)
	e.present(presenter.Notification{Kind: presenter.KindDamage, Target: string(id), Amount: amount})
	if c.CurrentHP > 0 {
		return false
	}
	kc := &rules.KnockoutContext{Character: id}
	e.bus.Emit(ctx, rules.EventBeforeKnockout, kc)
	if kc.Prevented {
		c.CurrentHP = 1
		return false
	}
	c.KnockedOut = true
	e.logger.Info("character knocked out", zap.String("character", string(id)))
	e.present(presenter.Notification{Kind: presenter.KindKnockout, Target: string(id)})
	e.bus.Emit(ctx, rules.EventCharacterKnockedOut, rules.CharacterKnockedOutPayload{Character: id})
	return true
}

// dealDamageToEnemy runs player damage through the pipeline: flat bonuses,
// forgetful, luck, vulnerable, before-hooks, shield and block, then HP.
// Returns the damage dealt to HP.
func (e *Engine) dealDamageToEnemy(ctx context.Context, base int, card *state.CardInstance) int {
	s := e.session
	enemy := s.Enemy
	if enemy == nil || enemy.IsDefeated() {
		return 0
	}
	g := e.global()
	ek := s.Keywords.Enemy
	owner := card.Owner()

	dmg := base + card.DamageBonus + g.Get(counters.KeywordInspire) + e.ovationDamageBonus()
	if owner.IsCharacter() && s.CharacterKeywords(owner).Has(counters.KeywordForgetful) {
		dmg /= 2
	}
	if luck := min(g.Get(counters.KeywordLuck), luckCap); luck > 0 && rng.Chance(e.rng, float64(luck)*luckChancePerStack) {
		dmg = scale150(dmg)
		e.message("enemy", "Lucky!")
	}
	if ek.Has(counters.KeywordVulnerable) {
		dmg = scale150(dmg)
	}

	dc := &rules.DamageContext{Damage: dmg, Card: card}
	e.bus.Emit(ctx, rules.EventBeforeDamageDealt, dc)
	dmg = max(0, dc.Damage)

	if !g.Has(counters.KeywordPiercing) {
		dmg -= ek.Remove(counters.KeywordShield, dmg)
		dmg -= ek.Remove(counters.KeywordBlock, dmg)
	}

	enemy.CurrentHP = max(0, enemy.CurrentHP-dmg)
	e.logger.Debug("damage dealt to enemy",
		zap.String("card_id", card.ID()),
		zap.Int("base", base),
		zap.Int("damage", dmg),
		zap.Int("enemy_hp", enemy.CurrentHP),
	)
	e.present(presenter.Notification{Kind: presenter.KindDamage, Target: "enemy", Amount: dmg})

	if dmg > 0 {
		e.gainOvation(ctx, 1)
		if card.Definition.Captivating {
			e.gainOvation(ctx, dmg-1)
		}
		e.bus.Emit(ctx, rules.EventDamageDealtToEnemy, rules.DamageDealtPayload{
			Amount:  dmg,
			Card:    card,
			HPRatio: enemy.HPRatio(),
		})
	}

	if ret := ek.Get(counters.KeywordRetaliate); ret > 0 && !g.Has(counters.KeywordFocus) {
		switch {
		case e.confusedFails(ek.Has(counters.KeywordConfused)):
			e.message("enemy", "Retaliate failed!")
		case owner.IsCharacter() && !s.IsKnockedOut(owner):
			e.damageCharacter(ctx, owner, ret)
		}
	}

	if enemy.IsDefeated() {
		e.onEnemyDefeated(ctx)
	}
	return dmg
}
