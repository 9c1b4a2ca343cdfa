package effects

// Visitor resolves effects. Adding an effect type adds a method here, so
// every resolver fails to compile until it handles the new case.
type Visitor interface {
	VisitDamage(Damage)
	VisitBlock(Block)
	VisitDraw(Draw)
	VisitEnergy(Energy)
	VisitShield(Shield)
	VisitTaunt(Taunt)
	VisitDistract(Distract)
	VisitRetaliate(Retaliate)
	VisitGain(Gain)
	VisitRegenerate(Regenerate)
	VisitInflict(Inflict)
	VisitSelfInflict(SelfInflict)
	VisitInflictRandomDebuff(InflictRandomDebuff)
	VisitHealCharacters(HealCharacters)
	VisitHeal(Heal)
	VisitReduceCostType(ReduceCostType)
	VisitReduceCostRandom(ReduceCostRandom)
	VisitBuffOtherAttacks(BuffOtherAttacks)
	VisitFromOvation(FromOvation)
	VisitConvertOvation(ConvertOvation)
	VisitDamageFromOvation(DamageFromOvation)
	VisitInflictFromOvation(InflictFromOvation)
	VisitLoseAllOvation(LoseAllOvation)
	VisitOvation(Ovation)
	VisitSetOvation(SetOvation)
	VisitDamagePerDebuff(DamagePerDebuff)
	VisitDamagePerTotalDebuff(DamagePerTotalDebuff)
	VisitDistractPerDebuffType(DistractPerDebuffType)
	VisitLuckPerDebuffType(LuckPerDebuffType)
	VisitShieldFromLuck(ShieldFromLuck)
	VisitLuckyBreak(LuckyBreak)
	VisitAllInLuck(AllInLuck)
	VisitOvationFromTaunt(OvationFromTaunt)
	VisitShieldFromTaunt(ShieldFromTaunt)
	VisitConvertBlockToOvation(ConvertBlockToOvation)
	VisitRetaliateFromFortify(RetaliateFromFortify)
	VisitCleanseBurnPoison(CleanseBurnPoison)
	VisitSelfCurse(SelfCurse)
	VisitUnknown(Unknown)
}

func (e Damage) Accept(v Visitor)                { v.VisitDamage(e) }
func (e Block) Accept(v Visitor)                 { v.VisitBlock(e) }
func (e Draw) Accept(v Visitor)                  { v.VisitDraw(e) }
func (e Energy) Accept(v Visitor)                { v.VisitEnergy(e) }
func (e Shield) Accept(v Visitor)                { v.VisitShield(e) }
func (e Taunt) Accept(v Visitor)                 { v.VisitTaunt(e) }
func (e Distract) Accept(v Visitor)              { v.VisitDistract(e) }
func (e Retaliate) Accept(v Visitor)             { v.VisitRetaliate(e) }
func (e Gain) Accept(v Visitor)                  { v.VisitGain(e) }
func (e Regenerate) Accept(v Visitor)            { v.VisitRegenerate(e) }
func (e Inflict) Accept(v Visitor)               { v.VisitInflict(e) }
func (e SelfInflict) Accept(v Visitor)           { v.VisitSelfInflict(e) }
func (e InflictRandomDebuff) Accept(v Visitor)   { v.VisitInflictRandomDebuff(e) }
func (e HealCharacters) Accept(v Visitor)        { v.VisitHealCharacters(e) }
func (e Heal) Accept(v Visitor)                  { v.VisitHeal(e) }
func (e ReduceCostType) Accept(v Visitor)        { v.VisitReduceCostType(e) }
func (e ReduceCostRandom) Accept(v Visitor)      { v.VisitReduceCostRandom(e) }
func (e BuffOtherAttacks) Accept(v Visitor)      { v.VisitBuffOtherAttacks(e) }
func (e FromOvation) Accept(v Visitor)           { v.VisitFromOvation(e) }
func (e ConvertOvation) Accept(v Visitor)        { v.VisitConvertOvation(e) }
func (e DamageFromOvation) Accept(v Visitor)     { v.VisitDamageFromOvation(e) }
func (e InflictFromOvation) Accept(v Visitor)    { v.VisitInflictFromOvation(e) }
func (e LoseAllOvation) Accept(v Visitor)        { v.VisitLoseAllOvation(e) }
func (e Ovation) Accept(v Visitor)               { v.VisitOvation(e) }
func (e SetOvation) Accept(v Visitor)            { v.VisitSetOvation(e) }
func (e DamagePerDebuff) Accept(v Visitor)       { v.VisitDamagePerDebuff(e) }
func (e DamagePerTotalDebuff) Accept(v Visitor)  { v.VisitDamagePerTotalDebuff(e) }
func (e DistractPerDebuffType) Accept(v Visitor) { v.VisitDistractPerDebuffType(e) }
func (e LuckPerDebuffType) Accept(v Visitor)     { v.VisitLuckPerDebuffType(e) }
func (e ShieldFromLuck) Accept(v Visitor)        { v.VisitShieldFromLuck(e) }
func (e LuckyBreak) Accept(v Visitor)            { v.VisitLuckyBreak(e) }
func (e AllInLuck) Accept(v Visitor)             { v.VisitAllInLuck(e) }
func (e OvationFromTaunt) Accept(v Visitor)      { v.VisitOvationFromTaunt(e) }
func (e ShieldFromTaunt) Accept(v Visitor)       { v.VisitShieldFromTaunt(e) }
func (e ConvertBlockToOvation) Accept(v Visitor) { v.VisitConvertBlockToOvation(e) }
func (e RetaliateFromFortify) Accept(v Visitor)  { v.VisitRetaliateFromFortify(e) }
func (e CleanseBurnPoison) Accept(v Visitor)     { v.VisitCleanseBurnPoison(e) }
func (e SelfCurse) Accept(v Visitor)             { v.VisitSelfCurse(e) }
func (e Unknown) Accept(v Visitor)               { v.VisitUnknown(e) }
