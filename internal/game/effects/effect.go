package effects

import "github.com/curtaincall/curtaincall-server-go/internal/game/counters"

// Kind is the discriminator of an effect as written in content files.
type Kind string

const (
	KindDamage                Kind = "damage"
	KindBlock                 Kind = "block"
	KindDraw                  Kind = "draw"
	KindEnergy                Kind = "energy"
	KindShield                Kind = "shield"
	KindTaunt                 Kind = "taunt"
	KindDistract              Kind = "distract"
	KindRetaliate             Kind = "retaliate"
	KindRegenerate            Kind = "regenerate"
	KindInflict               Kind = "inflict"
	KindSelfInflict           Kind = "selfInflict"
	KindInflictRandomDebuff   Kind = "inflictRandomDebuff"
	KindHealCharacters        Kind = "healProtagonists"
	KindHeal                  Kind = "heal"
	KindReduceCostType        Kind = "reduceCostType"
	KindReduceCostRandom      Kind = "reduceCostRandom"
	KindBuffOtherAttacks      Kind = "buffOtherProtagonistAttacks"
	KindFromOvation           Kind = "fromOvation"
	KindConvertOvation        Kind = "convertOvation"
	KindDamageFromOvation     Kind = "damageFromOvation"
	KindInflictFromOvation    Kind = "inflictFromOvation"
	KindLoseAllOvation        Kind = "loseAllOvation"
	KindOvation               Kind = "ovation"
	KindSetOvation            Kind = "setOvation"
	KindDamagePerDebuff       Kind = "damagePerDebuff"
	KindDamagePerTotalDebuff  Kind = "damagePerTotalDebuff"
	KindDistractPerDebuffType Kind = "distractPerDebuffType"
	KindLuckPerDebuffType     Kind = "luckPerDebuffType"
	KindShieldFromLuck        Kind = "shieldFromLuck"
	KindLuckyBreak            Kind = "luckyBreak"
	KindAllInLuck             Kind = "allInLuck"
	KindOvationFromTaunt      Kind = "ovationFromTaunt"
	KindShieldFromTaunt       Kind = "shieldFromTaunt"
	KindConvertBlockToOvation Kind = "convertBlockToOvation"
	KindRetaliateFromFortify  Kind = "retaliateFromFortify"
	KindCleanseBurnPoison     Kind = "cleanseBurnPoison"
	KindSelfCurse             Kind = "selfCurse"
)

// Effect is one entry of a card's ordered effect list.
type Effect interface {
	Kind() Kind
	Accept(v Visitor)
}

// Damage deals Value through the player damage pipeline.
type Damage struct{ Value int }

// Block adds Value (plus fortify, halved by weak) to the MacGuffin's block.
type Block struct{ Value int }

// Draw draws Value cards.
type Draw struct{ Value int }

// Energy grants Value energy, allowing max to be exceeded by at most Value.
type Energy struct{ Value int }

// Shield grants Value shield to the target character, else the card owner.
type Shield struct{ Value int }

// Taunt grants Value taunt to the card owner.
type Taunt struct{ Value int }

// Distract grants Value distract to the player side.
type Distract struct{ Value int }

// Retaliate grants Value retaliate to the player side.
type Retaliate struct{ Value int }

// Gain adds Value to a global player keyword (inspire, piercing, focus,
// luck, ward, fortify, flourish).
type Gain struct {
	Keyword counters.Keyword
	Value   int
}

// Regenerate grants Value regenerate to the card owner.
type Regenerate struct{ Value int }

// Inflict applies a debuff to the enemy.
type Inflict struct {
	Keyword counters.Keyword
	Value   int
}

// SelfInflict applies a debuff to the card owner, subject to ward.
type SelfInflict struct {
	Keyword counters.Keyword
	Value   int
}

// InflictRandomDebuff inflicts one stack of a random debuff Value times.
type InflictRandomDebuff struct{ Value int }

// HealCharacters heals every conscious character.
type HealCharacters struct{ Value int }

// Heal heals the target, else the card owner.
type Heal struct{ Value int }

// ReduceCostType lowers the cost of other hand cards of CardType.
type ReduceCostType struct {
	CardType string
	Amount   int
}

// ReduceCostRandom lowers the cost of one random other hand card.
type ReduceCostRandom struct{ Amount int }

// BuffOtherAttacks adds damage to the other character's attack cards in hand.
type BuffOtherAttacks struct{ Value int }

// FromOvation grants Keyword equal to the current ovation.
type FromOvation struct{ Keyword counters.Keyword }

// ConvertOvation turns all ovation into To.
type ConvertOvation struct{ To counters.Keyword }

// DamageFromOvation deals Base + ovation*Multiplier.
type DamageFromOvation struct {
	Base       int
	Multiplier int
}

// InflictFromOvation inflicts Keyword on the enemy equal to ovation.
type InflictFromOvation struct{ Keyword counters.Keyword }

// LoseAllOvation sets ovation to zero.
type LoseAllOvation struct{}

// Ovation gains (positive) or loses (negative) ovation.
type Ovation struct{ Value int }

// SetOvation overwrites ovation.
type SetOvation struct{ Value int }

// DamagePerDebuff deals Base + uniqueEnemyDebuffTypes*PerDebuff.
type DamagePerDebuff struct {
	Base      int
	PerDebuff int
}

// DamagePerTotalDebuff deals totalEnemyDebuffStacks*PerStack.
type DamagePerTotalDebuff struct{ PerStack int }

// DistractPerDebuffType grants distract per unique enemy debuff type.
type DistractPerDebuffType struct{ PerType int }

// LuckPerDebuffType grants luck per unique enemy debuff type.
type LuckPerDebuffType struct{ PerType int }

// ShieldFromLuck grants shield equal to luck.
type ShieldFromLuck struct{}

// LuckyBreak rolls luck: success grants Value energy, failure grants 1 luck.
type LuckyBreak struct{ Value int }

// AllInLuck deals luck*Multiplier damage and spends all luck.
type AllInLuck struct{ Multiplier int }

// OvationFromTaunt gains ovation equal to the owner's taunt.
type OvationFromTaunt struct{}

// ShieldFromTaunt grants shield equal to the owner's taunt.
type ShieldFromTaunt struct{}

// ConvertBlockToOvation spends all block for ovation.
type ConvertBlockToOvation struct{}

// RetaliateFromFortify grants retaliate equal to fortify.
type RetaliateFromFortify struct{}

// CleanseBurnPoison removes burn and poison from the target or both characters.
type CleanseBurnPoison struct{}

// SelfCurse adds curse without a ward check.
type SelfCurse struct{ Value int }

// Unknown is an effect type the engine does not understand. It is kept so
// content stays loadable and is skipped at resolution.
type Unknown struct{ Type string }

func (Damage) Kind() Kind                { return KindDamage }
func (Block) Kind() Kind                 { return KindBlock }
func (Draw) Kind() Kind                  { return KindDraw }
func (Energy) Kind() Kind                { return KindEnergy }
func (Shield) Kind() Kind                { return KindShield }
func (Taunt) Kind() Kind                 { return KindTaunt }
func (Distract) Kind() Kind              { return KindDistract }
func (Retaliate) Kind() Kind             { return KindRetaliate }
func (e Gain) Kind() Kind                { return Kind(e.Keyword) }
func (Regenerate) Kind() Kind            { return KindRegenerate }
func (Inflict) Kind() Kind               { return KindInflict }
func (SelfInflict) Kind() Kind           { return KindSelfInflict }
func (InflictRandomDebuff) Kind() Kind   { return KindInflictRandomDebuff }
func (HealCharacters) Kind() Kind        { return KindHealCharacters }
func (Heal) Kind() Kind                  { return KindHeal }
func (ReduceCostType) Kind() Kind        { return KindReduceCostType }
func (ReduceCostRandom) Kind() Kind      { return KindReduceCostRandom }
func (BuffOtherAttacks) Kind() Kind      { return KindBuffOtherAttacks }
func (FromOvation) Kind() Kind           { return KindFromOvation }
func (ConvertOvation) Kind() Kind        { return KindConvertOvation }
func (DamageFromOvation) Kind() Kind     { return KindDamageFromOvation }
func (InflictFromOvation) Kind() Kind    { return KindInflictFromOvation }
func (LoseAllOvation) Kind() Kind        { return KindLoseAllOvation }
func (Ovation) Kind() Kind               { return KindOvation }
func (SetOvation) Kind() Kind            { return KindSetOvation }
func (DamagePerDebuff) Kind() Kind       { return KindDamagePerDebuff }
func (DamagePerTotalDebuff) Kind() Kind  { return KindDamagePerTotalDebuff }
func (DistractPerDebuffType) Kind() Kind { return KindDistractPerDebuffType }
func (LuckPerDebuffType) Kind() Kind     { return KindLuckPerDebuffType }
func (ShieldFromLuck) Kind() Kind        { return KindShieldFromLuck }
func (LuckyBreak) Kind() Kind            { return KindLuckyBreak }
func (AllInLuck) Kind() Kind             { return KindAllInLuck }
func (OvationFromTaunt) Kind() Kind      { return KindOvationFromTaunt }
func (ShieldFromTaunt) Kind() Kind       { return KindShieldFromTaunt }
func (ConvertBlockToOvation) Kind() Kind { return KindConvertBlockToOvation }
func (RetaliateFromFortify) Kind() Kind  { return KindRetaliateFromFortify }
func (CleanseBurnPoison) Kind() Kind     { return KindCleanseBurnPoison }
func (SelfCurse) Kind() Kind             { return KindSelfCurse }
func (e Unknown) Kind() Kind             { return Kind(e.Type) }
