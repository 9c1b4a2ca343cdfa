package content

import "github.com/curtaincall/curtaincall-server-go/internal/game/effects"

// CardType classifies a card for legality and cost effects.
type CardType string

const (
	CardTypeAttack      CardType = "attack"
	CardTypeDefense     CardType = "defense"
	CardTypeAction      CardType = "action"
	CardTypeEnchantment CardType = "enchantment"
)

// Card owners as written in content files.
const (
	OwnerA         = "A"
	OwnerB         = "B"
	OwnerMacGuffin = "macguffin"
)

// Rarity of a card or stage prop.
type Rarity string

const (
	RarityBasic    Rarity = "basic"
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
)

// CardDefinition is the immutable description of a card. Instances wrap it
// and are never allowed to write through.
type CardDefinition struct {
	ID          string       `yaml:"id" json:"id"`
	Name        string       `yaml:"name" json:"name"`
	Owner       string       `yaml:"owner" json:"owner"`
	Type        CardType     `yaml:"type" json:"type"`
	Cost        int          `yaml:"cost" json:"cost"`
	Rarity      Rarity       `yaml:"rarity" json:"rarity"`
	Description string       `yaml:"description" json:"description"`
	Targeting   string       `yaml:"targeting,omitempty" json:"targeting,omitempty"`
	Captivating bool         `yaml:"captivating,omitempty" json:"captivating,omitempty"`
	Effects     effects.List `yaml:"effects,omitempty" json:"-"`
}

// IsAttack reports whether the card is an attack.
func (c *CardDefinition) IsAttack() bool {
	return c.Type == CardTypeAttack
}

// PassiveRef names a passive behavior together with its display text.
type PassiveRef struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// Enemy action types.
const (
	ActionAttack           = "attack"
	ActionBlock            = "block"
	ActionHeal             = "heal"
	ActionInflict          = "inflict"
	ActionGain             = "gain"
	ActionAttackEqualBlock = "attackEqualBlock"
)

// TargetAll marks an attack that hits the MacGuffin and every conscious character.
const TargetAll = "all"

// EnemyAction is one step of an enemy turn.
type EnemyAction struct {
	Type    string `yaml:"type" json:"type"`
	Value   int    `yaml:"value,omitempty" json:"value,omitempty"`
	Hits    int    `yaml:"hits,omitempty" json:"hits,omitempty"`
	Target  string `yaml:"target,omitempty" json:"target,omitempty"`
	Keyword string `yaml:"keyword,omitempty" json:"keyword,omitempty"`
}

// PatternEntry is one enemy turn. The top-level fields describe the intent;
// when Actions is empty they are also the single action executed.
type PatternEntry struct {
	Type    string        `yaml:"type" json:"type"`
	Value   int           `yaml:"value,omitempty" json:"value,omitempty"`
	Hits    int           `yaml:"hits,omitempty" json:"hits,omitempty"`
	Target  string        `yaml:"target,omitempty" json:"target,omitempty"`
	State   string        `yaml:"state,omitempty" json:"state,omitempty"`
	Actions []EnemyAction `yaml:"actions,omitempty" json:"actions,omitempty"`
}

// Steps returns the actions the entry executes.
func (p PatternEntry) Steps() []EnemyAction {
	if len(p.Actions) > 0 {
		return p.Actions
	}
	return []EnemyAction{{Type: p.Type, Value: p.Value, Hits: p.Hits, Target: p.Target}}
}

// Transition is the one-shot bundle applied when a boss enters a phase.
type Transition struct {
	Block         int  `yaml:"block,omitempty" json:"block,omitempty"`
	Retaliate     int  `yaml:"retaliate,omitempty" json:"retaliate,omitempty"`
	Inspire       int  `yaml:"inspire,omitempty" json:"inspire,omitempty"`
	ClearDebuffs  bool `yaml:"clearDebuffs,omitempty" json:"clearDebuffs,omitempty"`
	LoseRetaliate bool `yaml:"loseRetaliate,omitempty" json:"loseRetaliate,omitempty"`
}

// PhaseDefinition is a boss phase. Phase 0 has no threshold.
type PhaseDefinition struct {
	HPThreshold float64        `yaml:"hpThreshold,omitempty" json:"hpThreshold,omitempty"`
	Transition  Transition     `yaml:"transition,omitempty" json:"transition,omitempty"`
	Pattern     []PatternEntry `yaml:"pattern" json:"pattern"`
}

// EnemyDefinition is the static data of an enemy.
type EnemyDefinition struct {
	ID       string            `yaml:"id" json:"id"`
	Name     string            `yaml:"name" json:"name"`
	HP       int               `yaml:"hp" json:"hp"`
	IsBoss   bool              `yaml:"boss,omitempty" json:"boss,omitempty"`
	Gimmick  string            `yaml:"gimmick,omitempty" json:"gimmick,omitempty"`
	Passives []PassiveRef      `yaml:"passives,omitempty" json:"passives,omitempty"`
	Pattern  []PatternEntry    `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Phases   []PhaseDefinition `yaml:"phases,omitempty" json:"phases,omitempty"`
}

// IsPhased reports whether the enemy uses boss phases.
func (e *EnemyDefinition) IsPhased() bool {
	return len(e.Phases) > 0
}

// PatternFor returns the pattern active in the given phase.
func (e *EnemyDefinition) PatternFor(phase int) []PatternEntry {
	if !e.IsPhased() {
		return e.Pattern
	}
	if phase < 0 || phase >= len(e.Phases) {
		return nil
	}
	return e.Phases[phase].Pattern
}

// HasPassive reports whether the enemy carries the passive id.
func (e *EnemyDefinition) HasPassive(id string) bool {
	for _, p := range e.Passives {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Act groups the encounters of one act.
type Act struct {
	Number int        `yaml:"number" json:"number"`
	Name   string     `yaml:"name" json:"name"`
	Scenes [][]string `yaml:"scenes" json:"scenes"`
	Boss   string     `yaml:"boss" json:"boss"`
}

// StagePropDefinition is the display data of a stage prop.
type StagePropDefinition struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Rarity      Rarity `yaml:"rarity" json:"rarity"`
	Description string `yaml:"description" json:"description"`
}

// MacGuffinVariant is a selectable MacGuffin.
type MacGuffinVariant struct {
	ID            string   `yaml:"id" json:"id"`
	Name          string   `yaml:"name" json:"name"`
	Description   string   `yaml:"description" json:"description"`
	HP            int      `yaml:"hp" json:"hp"`
	Passive       string   `yaml:"passive,omitempty" json:"passive,omitempty"`
	StartingCards []string `yaml:"starting_cards" json:"starting_cards"`
}

// Difficulty scales enemies and the player's energy.
type Difficulty struct {
	Level        int     `yaml:"level" json:"level"`
	Name         string  `yaml:"name" json:"name"`
	Description  string  `yaml:"description" json:"description"`
	HPMultiplier float64 `yaml:"hpMultiplier" json:"hpMultiplier"`
	EnemyInspire int     `yaml:"enemyInspire" json:"enemyInspire"`
	MaxEnergy    int     `yaml:"maxEnergy" json:"maxEnergy"`
}
