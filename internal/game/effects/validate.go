package effects

import (
	"fmt"
	"slices"

	"github.com/curtaincall/curtaincall-server-go/internal/game/counters"
)

var (
	fromOvationKeywords    = []counters.Keyword{counters.KeywordTaunt, counters.KeywordShield, counters.KeywordLuck}
	convertOvationKeywords = []counters.Keyword{counters.KeywordInspire, counters.KeywordLuck}
	cardTypes              = []string{"attack", "defense", "action", "enchantment"}
)

// Validate checks the payload of an effect. Unknown effects are valid: they
// are skipped at resolution.
func Validate(e Effect) error {
	switch v := e.(type) {
	case Inflict:
		return checkInflict(v.Kind(), v.Keyword, v.Value)
	case InflictFromOvation:
		return checkInflict(v.Kind(), v.Keyword, 0)
	case SelfInflict:
		if !slices.Contains(counters.CharacterDebuffKeys, v.Keyword) && v.Keyword != counters.KeywordCurse {
			return fmt.Errorf("%s: keyword %q cannot stick to a character", v.Kind(), v.Keyword)
		}
		return nonNegative(v.Kind(), v.Value)
	case FromOvation:
		if !slices.Contains(fromOvationKeywords, v.Keyword) {
			return fmt.Errorf("%s: unsupported keyword %q", v.Kind(), v.Keyword)
		}
	case ConvertOvation:
		if !slices.Contains(convertOvationKeywords, v.To) {
			return fmt.Errorf("%s: unsupported target %q", v.Kind(), v.To)
		}
	case ReduceCostType:
		if !slices.Contains(cardTypes, v.CardType) {
			return fmt.Errorf("%s: unknown card type %q", v.Kind(), v.CardType)
		}
		return nonNegative(v.Kind(), v.Amount)
	case ReduceCostRandom:
		return nonNegative(v.Kind(), v.Amount)
	case DamageFromOvation:
		return nonNegative(v.Kind(), v.Base, v.Multiplier)
	case DamagePerDebuff:
		return nonNegative(v.Kind(), v.Base, v.PerDebuff)
	case DamagePerTotalDebuff:
		return nonNegative(v.Kind(), v.PerStack)
	case DistractPerDebuffType:
		return nonNegative(v.Kind(), v.PerType)
	case LuckPerDebuffType:
		return nonNegative(v.Kind(), v.PerType)
	case AllInLuck:
		return nonNegative(v.Kind(), v.Multiplier)
	case Gain:
		return nonNegative(v.Kind(), v.Value)
	case Ovation:
		// negative values lose ovation
	case SetOvation:
		if v.Value < 0 || v.Value > counters.MaxOvation {
			return fmt.Errorf("%s: value %d outside [0,%d]", v.Kind(), v.Value, counters.MaxOvation)
		}
	case Damage:
		return nonNegative(v.Kind(), v.Value)
	case Block:
		return nonNegative(v.Kind(), v.Value)
	case Draw:
		return nonNegative(v.Kind(), v.Value)
	case Energy:
		return nonNegative(v.Kind(), v.Value)
	case Shield:
		return nonNegative(v.Kind(), v.Value)
	case Taunt:
		return nonNegative(v.Kind(), v.Value)
	case Distract:
		return nonNegative(v.Kind(), v.Value)
	case Retaliate:
		return nonNegative(v.Kind(), v.Value)
	case Regenerate:
		return nonNegative(v.Kind(), v.Value)
	case InflictRandomDebuff:
		return nonNegative(v.Kind(), v.Value)
	case HealCharacters:
		return nonNegative(v.Kind(), v.Value)
	case Heal:
		return nonNegative(v.Kind(), v.Value)
	case BuffOtherAttacks:
		return nonNegative(v.Kind(), v.Value)
	case LuckyBreak:
		return nonNegative(v.Kind(), v.Value)
	case SelfCurse:
		return nonNegative(v.Kind(), v.Value)
	}
	return nil
}

func checkInflict(kind Kind, kw counters.Keyword, value int) error {
	if !slices.Contains(counters.EnemyDebuffKeys, kw) {
		return fmt.Errorf("%s: keyword %q is not an enemy debuff", kind, kw)
	}
	return nonNegative(kind, value)
}

func nonNegative(kind Kind, values ...int) error {
	for _, v := range values {
		if v < 0 {
			return fmt.Errorf("%s: negative value %d", kind, v)
		}
	}
	return nil
}
