package effects

import (
	"fmt"

	"github.com/curtaincall/curtaincall-server-go/internal/game/counters"
	"gopkg.in/yaml.v3"
)

// Spec is the flat on-disk form of an effect. Only the fields relevant to
// Type are meaningful.
type Spec struct {
	Type       string `yaml:"type" json:"type"`
	Value      int    `yaml:"value,omitempty" json:"value,omitempty"`
	Keyword    string `yaml:"keyword,omitempty" json:"keyword,omitempty"`
	To         string `yaml:"to,omitempty" json:"to,omitempty"`
	Base       int    `yaml:"base,omitempty" json:"base,omitempty"`
	Multiplier int    `yaml:"multiplier,omitempty" json:"multiplier,omitempty"`
	PerDebuff  int    `yaml:"perDebuff,omitempty" json:"perDebuff,omitempty"`
	PerStack   int    `yaml:"perStack,omitempty" json:"perStack,omitempty"`
	PerType    int    `yaml:"perType,omitempty" json:"perType,omitempty"`
	CardType   string `yaml:"cardType,omitempty" json:"cardType,omitempty"`
	Amount     int    `yaml:"amount,omitempty" json:"amount,omitempty"`
}

// gainKeywords are the effect types that map directly onto a global keyword.
var gainKeywords = map[string]counters.Keyword{
	"inspire":  counters.KeywordInspire,
	"piercing": counters.KeywordPiercing,
	"focus":    counters.KeywordFocus,
	"luck":     counters.KeywordLuck,
	"ward":     counters.KeywordWard,
	"fortify":  counters.KeywordFortify,
	"flourish": counters.KeywordFlourish,
}

// Decode converts a spec into its typed effect. Unrecognized types decode to Unknown.
func Decode(s Spec) Effect {
	if kw, ok := gainKeywords[s.Type]; ok {
		return Gain{Keyword: kw, Value: s.Value}
	}
	switch Kind(s.Type) {
	case KindDamage:
		return Damage{Value: s.Value}
	case KindBlock:
		return Block{Value: s.Value}
	case KindDraw:
		return Draw{Value: s.Value}
	case KindEnergy:
		return Energy{Value: s.Value}
	case KindShield:
		return Shield{Value: s.Value}
	case KindTaunt:
		return Taunt{Value: s.Value}
	case KindDistract:
		return Distract{Value: s.Value}
	case KindRetaliate:
		return Retaliate{Value: s.Value}
	case KindRegenerate:
		return Regenerate{Value: s.Value}
	case KindInflict:
		return Inflict{Keyword: counters.Keyword(s.Keyword), Value: s.Value}
	case KindSelfInflict:
		return SelfInflict{Keyword: counters.Keyword(s.Keyword), Value: s.Value}
	case KindInflictRandomDebuff:
		return InflictRandomDebuff{Value: s.Value}
	case KindHealCharacters:
		return HealCharacters{Value: s.Value}
	case KindHeal:
		return Heal{Value: s.Value}
	case KindReduceCostType:
		return ReduceCostType{CardType: s.CardType, Amount: s.Amount}
	case KindReduceCostRandom:
		return ReduceCostRandom{Amount: s.Amount}
	case KindBuffOtherAttacks, "buffOtherAttacks":
		return BuffOtherAttacks{Value: s.Value}
	case KindFromOvation:
		return FromOvation{Keyword: counters.Keyword(s.Keyword)}
	case KindConvertOvation:
		return ConvertOvation{To: counters.Keyword(s.To)}
	case KindDamageFromOvation:
		return DamageFromOvation{Base: s.Base, Multiplier: s.Multiplier}
	case KindInflictFromOvation:
		return InflictFromOvation{Keyword: counters.Keyword(s.Keyword)}
	case KindLoseAllOvation:
		return LoseAllOvation{}
	case KindOvation:
		return Ovation{Value: s.Value}
	case KindSetOvation:
		return SetOvation{Value: s.Value}
	case KindDamagePerDebuff, "damagePerDebuffType":
		return DamagePerDebuff{Base: s.Base, PerDebuff: s.PerDebuff}
	case KindDamagePerTotalDebuff:
		return DamagePerTotalDebuff{PerStack: s.PerStack}
	case KindDistractPerDebuffType:
		return DistractPerDebuffType{PerType: defaultOne(s.PerType)}
	case KindLuckPerDebuffType:
		return LuckPerDebuffType{PerType: defaultOne(s.PerType)}
	case KindShieldFromLuck:
		return ShieldFromLuck{}
	case KindLuckyBreak:
		return LuckyBreak{Value: s.Value}
	case KindAllInLuck:
		return AllInLuck{Multiplier: defaultOne(s.Multiplier)}
	case KindOvationFromTaunt:
		return OvationFromTaunt{}
	case KindShieldFromTaunt:
		return ShieldFromTaunt{}
	case KindConvertBlockToOvation:
		return ConvertBlockToOvation{}
	case KindRetaliateFromFortify:
		return RetaliateFromFortify{}
	case KindCleanseBurnPoison:
		return CleanseBurnPoison{}
	case KindSelfCurse:
		return SelfCurse{Value: s.Value}
	}
	return Unknown{Type: s.Type}
}

func defaultOne(v int) int {
	if v == 0 {
		return 1
	}
	return v
}

// Encode converts a typed effect back to its flat spec.
func Encode(e Effect) Spec {
	s := Spec{Type: string(e.Kind())}
	switch v := e.(type) {
	case Damage:
		s.Value = v.Value
	case Block:
		s.Value = v.Value
	case Draw:
		s.Value = v.Value
	case Energy:
		s.Value = v.Value
	case Shield:
		s.Value = v.Value
	case Taunt:
		s.Value = v.Value
	case Distract:
		s.Value = v.Value
	case Retaliate:
		s.Value = v.Value
	case Gain:
		s.Value = v.Value
	case Regenerate:
		s.Value = v.Value
	case Inflict:
		s.Keyword, s.Value = string(v.Keyword), v.Value
	case SelfInflict:
		s.Keyword, s.Value = string(v.Keyword), v.Value
	case InflictRandomDebuff:
		s.Value = v.Value
	case HealCharacters:
		s.Value = v.Value
	case Heal:
		s.Value = v.Value
	case ReduceCostType:
		s.CardType, s.Amount = v.CardType, v.Amount
	case ReduceCostRandom:
		s.Amount = v.Amount
	case BuffOtherAttacks:
		s.Value = v.Value
	case FromOvation:
		s.Keyword = string(v.Keyword)
	case ConvertOvation:
		s.To = string(v.To)
	case DamageFromOvation:
		s.Base, s.Multiplier = v.Base, v.Multiplier
	case InflictFromOvation:
		s.Keyword = string(v.Keyword)
	case Ovation:
		s.Value = v.Value
	case SetOvation:
		s.Value = v.Value
	case DamagePerDebuff:
		s.Base, s.PerDebuff = v.Base, v.PerDebuff
	case DamagePerTotalDebuff:
		s.PerStack = v.PerStack
	case DistractPerDebuffType:
		s.PerType = v.PerType
	case LuckPerDebuffType:
		s.PerType = v.PerType
	case LuckyBreak:
		s.Value = v.Value
	case AllInLuck:
		s.Multiplier = v.Multiplier
	case SelfCurse:
		s.Value = v.Value
	}
	return s
}

// List is an ordered effect list that decodes from YAML by dispatching on
// each entry's type.
type List []Effect

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *List) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("effects: expected a sequence, got yaml kind %d at line %d", node.Kind, node.Line)
	}
	out := make(List, 0, len(node.Content))
	for _, item := range node.Content {
		var s Spec
		if err := item.Decode(&s); err != nil {
			return fmt.Errorf("effects: line %d: %w", item.Line, err)
		}
		if s.Type == "" {
			return fmt.Errorf("effects: line %d: missing type", item.Line)
		}
		out = append(out, Decode(s))
	}
	*l = out
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (l List) MarshalYAML() (any, error) {
	return l.Specs(), nil
}

// Specs returns the flat form of every effect in order.
func (l List) Specs() []Spec {
	specs := make([]Spec, len(l))
	for i, e := range l {
		specs[i] = Encode(e)
	}
	return specs
}
