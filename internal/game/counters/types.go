package counters

// Keyword names a numeric status counter.
type Keyword string

const (
	// Player buffs
	KeywordOvation    Keyword = "ovation"
	KeywordInspire    Keyword = "inspire"
	KeywordFortify    Keyword = "fortify"
	KeywordPiercing   Keyword = "piercing"
	KeywordFocus      Keyword = "focus"
	KeywordWard       Keyword = "ward"
	KeywordLuck       Keyword = "luck"
	KeywordFlourish   Keyword = "flourish"
	KeywordRegenerate Keyword = "regenerate"

	// Defensive pools
	KeywordBlock     Keyword = "block"
	KeywordShield    Keyword = "shield"
	KeywordTaunt     Keyword = "taunt"
	KeywordDistract  Keyword = "distract"
	KeywordRetaliate Keyword = "retaliate"

	// Debuffs
	KeywordPoison      Keyword = "poison"
	KeywordBurn        Keyword = "burn"
	KeywordStageFright Keyword = "stageFright"
	KeywordHeckled     Keyword = "heckled"
	KeywordForgetful   Keyword = "forgetful"
	KeywordVulnerable  Keyword = "vulnerable"
	KeywordWeak        Keyword = "weak"
	KeywordConfused    Keyword = "confused"
	KeywordFear        Keyword = "fear"
	KeywordFrustration Keyword = "frustration"
	KeywordCurse       Keyword = "curse"

	// Bookkeeping
	KeywordCardsPlayed Keyword = "cardsPlayedThisTurn"
)

// MaxOvation is the upper bound of the ovation counter.
const MaxOvation = 5

// ConversionThreshold is the fear/frustration level that converts into
// stage fright/heckled.
const ConversionThreshold = 5

// GlobalKeys are the counters shared by the whole player side.
var GlobalKeys = []Keyword{
	KeywordOvation, KeywordInspire, KeywordFortify, KeywordPiercing, KeywordFocus,
	KeywordWard, KeywordLuck, KeywordFlourish, KeywordWeak, KeywordConfused,
	KeywordCurse, KeywordCardsPlayed,
}

// CharacterDebuffKeys are the debuffs that stick to an individual character.
var CharacterDebuffKeys = []Keyword{
	KeywordPoison, KeywordBurn, KeywordStageFright, KeywordHeckled,
	KeywordForgetful, KeywordVulnerable, KeywordFear, KeywordFrustration,
}

// CharacterKeys are all counters held per character.
var CharacterKeys = append([]Keyword{KeywordRegenerate}, CharacterDebuffKeys...)

// MacGuffinKeys are the counters the MacGuffin can carry.
var MacGuffinKeys = []Keyword{KeywordVulnerable}

// EnemyDebuffKeys are the debuffs the player side can inflict on the enemy.
var EnemyDebuffKeys = []Keyword{
	KeywordPoison, KeywordBurn, KeywordStageFright, KeywordHeckled, KeywordForgetful,
	KeywordVulnerable, KeywordWeak, KeywordConfused, KeywordFear, KeywordFrustration,
}

// EnemyKeys are all counters held by the enemy.
var EnemyKeys = append([]Keyword{
	KeywordBlock, KeywordShield, KeywordRegenerate, KeywordInspire, KeywordRetaliate,
}, EnemyDebuffKeys...)

// RandomDebuffKeys is the pool drawn from by random debuff effects.
var RandomDebuffKeys = []Keyword{
	KeywordPoison, KeywordBurn, KeywordVulnerable, KeywordWeak,
	KeywordConfused, KeywordFear, KeywordFrustration,
}

// Info is display metadata for a keyword.
type Info struct {
	Name   string
	Debuff bool
	Text   string
}

var glossary = map[Keyword]Info{
	KeywordOvation:     {Name: "Ovation", Text: "Bonus damage at 2 and 5 stacks. Decays each turn."},
	KeywordInspire:     {Name: "Inspire", Text: "Adds damage to every attack."},
	KeywordFortify:     {Name: "Fortify", Text: "Adds to every block gained. Decays each turn."},
	KeywordPiercing:    {Name: "Piercing", Text: "Attacks ignore enemy shield and block. Decays each turn."},
	KeywordFocus:       {Name: "Focus", Text: "Attacks ignore enemy retaliate. Decays each turn."},
	KeywordWard:        {Name: "Ward", Text: "Negates the next debuff."},
	KeywordLuck:        {Name: "Luck", Text: "10% per stack to deal 1.5x damage."},
	KeywordFlourish:    {Name: "Flourish", Text: "Doubles ovation gains and losses this turn."},
	KeywordRegenerate:  {Name: "Regenerate", Text: "Heals at turn start, then decays."},
	KeywordBlock:       {Name: "Block", Text: "Absorbs damage to the MacGuffin."},
	KeywordShield:      {Name: "Shield", Text: "Absorbs damage to a character."},
	KeywordTaunt:       {Name: "Taunt", Text: "Redirects a MacGuffin hit to this character."},
	KeywordDistract:    {Name: "Distract", Text: "Negates an entire enemy attack."},
	KeywordRetaliate:   {Name: "Retaliate", Text: "Deals damage back to the attacker."},
	KeywordPoison:      {Name: "Poison", Debuff: true, Text: "Damage at turn start. Reduces healing."},
	KeywordBurn:        {Name: "Burn", Debuff: true, Text: "Damage at turn start."},
	KeywordStageFright: {Name: "Stage Fright", Debuff: true, Text: "Cannot attack."},
	KeywordHeckled:     {Name: "Heckled", Debuff: true, Text: "Cannot use non-attack actions."},
	KeywordForgetful:   {Name: "Forgetful", Debuff: true, Text: "Deals half damage."},
	KeywordVulnerable:  {Name: "Vulnerable", Debuff: true, Text: "Takes 1.5x damage."},
	KeywordWeak:        {Name: "Weak", Debuff: true, Text: "Gains half block."},
	KeywordConfused:    {Name: "Confused", Debuff: true, Text: "50% chance for defensive effects to fail."},
	KeywordFear:        {Name: "Fear", Debuff: true, Text: "At 5 stacks, converts to Stage Fright."},
	KeywordFrustration: {Name: "Frustration", Debuff: true, Text: "At 5 stacks, converts to Heckled."},
	KeywordCurse:       {Name: "Curse", Debuff: true, Text: "Damages the MacGuffin at end of turn."},
	KeywordCardsPlayed: {Name: "Cards Played"},
}

// Lookup returns the display metadata for a keyword.
func Lookup(k Keyword) (Info, bool) {
	info, ok := glossary[k]
	return info, ok
}

// IsKnown reports whether k names a keyword the engine understands.
func IsKnown(k Keyword) bool {
	_, ok := glossary[k]
	return ok
}

// IsDebuff reports whether k is a debuff.
func IsDebuff(k Keyword) bool {
	return glossary[k].Debuff
}
