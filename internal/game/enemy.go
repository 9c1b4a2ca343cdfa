package game

import (
	"context"
	"fmt"

	"github.com/curtaincall/curtaincall-server-go/internal/game/content"
	"github.com/curtaincall/curtaincall-server-go/internal/game/counters"
	"github.com/curtaincall/curtaincall-server-go/internal/game/passives"
	"github.com/curtaincall/curtaincall-server-go/internal/game/presenter"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rng"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rules"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
	"go.uber.org/zap"
)

const (
	tangledStringsBonus   = 3
	narrativeControlOdds  = 0.25
	castingCallDebuffSize = 1
)

// narrativeControlKeys are the debuffs the narrative-control passive may shed.
var narrativeControlKeys = []counters.Keyword{
	counters.KeywordPoison, counters.KeywordBurn, counters.KeywordStageFright, counters.KeywordHeckled,
	counters.KeywordForgetful, counters.KeywordVulnerable, counters.KeywordWeak, counters.KeywordConfused,
}

var castingCallKeys = []counters.Keyword{
	counters.KeywordBurn, counters.KeywordPoison, counters.KeywordVulnerable,
}

// executeEnemyTurn runs the pattern entry behind the current intent, then
// checks for a phase change and advances the intent.
func (e *Engine) executeEnemyTurn(ctx context.Context) {
	s := e.session
	enemy := s.Enemy
	pattern := enemy.Pattern()
	if len(pattern) == 0 {
		return
	}
	idx := enemy.PatternIndex
	if idx < 0 || idx >= len(pattern) {
		idx = 0
	}
	entry := pattern[idx]
	if entry.State != "" {
		enemy.PassiveState[passives.PassiveStateKey] = entry.State
	}
	e.logger.Debug("enemy acts",
		zap.String("enemy_id", enemy.ID()),
		zap.Int("pattern_index", idx),
		zap.String("intent", entry.Type),
	)

	ek := s.Keywords.Enemy
	for _, action := range entry.Steps() {
		if enemy.IsDefeated() || e.terminal() {
			return
		}
		target := action.Target
		if target == "" && action.Type == content.ActionAttack {
			target = entry.Target
		}
		isAttack := action.Type == content.ActionAttack || action.Type == content.ActionAttackEqualBlock
		if isAttack && ek.Has(counters.KeywordStageFright) {
			e.message("enemy", "Stage Fright!")
			continue
		}
		if !isAttack && ek.Has(counters.KeywordHeckled) {
			e.message("enemy", "Heckled!")
			continue
		}
		e.executeEnemyAction(ctx, action, target)
	}
	if enemy.IsDefeated() || e.terminal() {
		return
	}

	if enemy.HasPassive(passives.NarrativeControl) {
		e.narrativeControl()
	}
	e.checkPhaseTransition(ctx)
	e.setNextIntent()
}

func (e *Engine) executeEnemyAction(ctx context.Context, action content.EnemyAction, target string) {
	ek := e.session.Keywords.Enemy
	weak := ek.Has(counters.KeywordWeak)
	switch action.Type {
	case content.ActionAttack:
		e.enemyAttack(ctx, action.Value, action.Hits, target)
	case content.ActionAttackEqualBlock:
		// Always a single hit on the MacGuffin, whatever the entry targets.
		if block := ek.Get(counters.KeywordBlock); block > 0 {
			e.enemyAttack(ctx, block, 1, "")
		}
	case content.ActionBlock:
		amount := halveIf(weak, action.Value)
		ek.Add(counters.KeywordBlock, amount)
		e.present(presenter.Notification{Kind: presenter.KindBlock, Target: "enemy", Amount: amount})
	case content.ActionHeal:
		e.healEnemy(ctx, action.Value)
	case content.ActionGain:
		kw := counters.Keyword(action.Keyword)
		amount := action.Value
		if kw == counters.KeywordBlock || kw == counters.KeywordShield {
			amount = halveIf(weak, amount)
		}
		if !ek.Add(kw, amount) {
			e.logger.Warn("ignoring unknown enemy keyword", zap.String("keyword", action.Keyword))
			return
		}
		e.present(presenter.Notification{Kind: presenter.KindKeyword, Target: "enemy", Amount: amount, Keyword: action.Keyword})
	case content.ActionInflict:
		e.applyDebuffFromEnemy(ctx, counters.Keyword(action.Keyword), action.Value, target)
	default:
		e.logger.Warn("ignoring unknown enemy action", zap.String("type", action.Type))
	}
}

// enemyAttack resolves every hit of an attack. Distract negates a whole
// hit, which for an area attack is the whole wave.
func (e *Engine) enemyAttack(ctx context.Context, value, hits int, target string) {
	s := e.session
	enemy := s.Enemy
	ek := s.Keywords.Enemy

	dmg := value + ek.Get(counters.KeywordInspire)
	if enemy.HasPassive(passives.TangledStrings) && passives.TangledStringsActive(s) {
		dmg += tangledStringsBonus
	}
	if ek.Has(counters.KeywordForgetful) {
		dmg /= 2
	}
	opts := HitOptions{HasAccuracy: enemy.HasPassive(passives.BlindingLight)}
	confused := e.global().Has(counters.KeywordConfused)

	for range max(1, hits) {
		if s.MacGuffin.CurrentHP <= 0 || e.terminal() {
			return
		}
		if !opts.HasAccuracy && s.Distract > 0 {
			if e.confusedFails(confused) {
				e.message(string(state.MacGuffinID), "Confused!")
			} else {
				s.Distract--
				e.message(string(state.MacGuffinID), "Distracted!")
				continue
			}
		}
		e.resolveHit(ctx, state.MacGuffinID, dmg, opts)
		if target != content.TargetAll {
			continue
		}
		for _, c := range s.Conscious() {
			if e.terminal() {
				return
			}
			e.resolveHit(ctx, c.ID, dmg, opts)
		}
	}
}

// narrativeControl has a chance to shed one active debuff.
func (e *Engine) narrativeControl() {
	ek := e.session.Keywords.Enemy
	active := ek.Active(narrativeControlKeys...)
	if len(active) == 0 || !rng.Chance(e.rng, narrativeControlOdds) {
		return
	}
	kw := active[e.rng.IntN(len(active))]
	ek.Set(kw, 0)
	e.message("enemy", fmt.Sprintf("Rewrote %s!", kw))
}

// checkPhaseTransition moves a boss to the deepest phase whose threshold
// its HP ratio has reached. Phases never go backwards.
func (e *Engine) checkPhaseTransition(ctx context.Context) {
	enemy := e.session.Enemy
	def := enemy.Definition
	if !def.IsPhased() {
		return
	}
	ratio := enemy.HPRatio()
	target := enemy.CurrentPhase
	for i := len(def.Phases) - 1; i >= 1; i-- {
		if ratio <= def.Phases[i].HPThreshold {
			target = i
			break
		}
	}
	if target <= enemy.CurrentPhase {
		return
	}

	from := enemy.CurrentPhase
	ek := e.session.Keywords.Enemy
	tr := def.Phases[target].Transition
	ek.Add(counters.KeywordBlock, tr.Block)
	ek.Add(counters.KeywordRetaliate, tr.Retaliate)
	ek.Add(counters.KeywordInspire, tr.Inspire)
	if tr.ClearDebuffs {
		ek.Clear(counters.EnemyDebuffKeys...)
	}
	if tr.LoseRetaliate {
		ek.Set(counters.KeywordRetaliate, 0)
	}
	if enemy.HasPassive(passives.CastingCall) {
		kw := castingCallKeys[e.rng.IntN(len(castingCallKeys))]
		e.applyDebuffFromEnemy(ctx, kw, castingCallDebuffSize, TargetAllAllies)
	}

	enemy.CurrentPhase = target
	enemy.PatternIndex = -1
	e.logger.Info("enemy phase changed",
		zap.String("enemy_id", enemy.ID()),
		zap.Int("from", from),
		zap.Int("to", target),
		zap.Float64("hp_ratio", ratio),
	)
	e.present(presenter.Notification{Kind: presenter.KindEnemyPhase, Target: "enemy", Amount: target})
	e.bus.Emit(ctx, rules.EventEnemyPhase, rules.EnemyPhasePayload{From: from, To: target})
}

// setNextIntent advances the pattern cursor and publishes the new intent.
func (e *Engine) setNextIntent() {
	enemy := e.session.Enemy
	pattern := enemy.Pattern()
	if len(pattern) == 0 {
		return
	}
	enemy.PatternIndex = (enemy.PatternIndex + 1) % len(pattern)
	e.setIntent(pattern[enemy.PatternIndex])
}

func (e *Engine) setIntent(entry content.PatternEntry) {
	hits := entry.Hits
	if hits <= 0 {
		hits = 1
	}
	e.session.Enemy.Intent = state.Intent{
		Type:   entry.Type,
		Value:  entry.Value,
		Hits:   hits,
		Target: entry.Target,
	}
	e.present(presenter.Notification{Kind: presenter.KindIntent, Target: "enemy", Amount: entry.Value, Text: entry.Type})
}

// regenerateEnemy heals the enemy by regenerate minus poison, then decays it.
func (e *Engine) regenerateEnemy(ctx context.Context) {
	ek := e.session.Keywords.Enemy
	regen := ek.Get(counters.KeywordRegenerate)
	if regen <= 0 {
		return
	}
	e.healEnemy(ctx, regen)
	ek.Decay(counters.KeywordRegenerate)
}
