package state

import (
	"github.com/curtaincall/curtaincall-server-go/internal/game/content"
	"github.com/curtaincall/curtaincall-server-go/internal/game/counters"
)

// CharacterID identifies a character, or the MacGuffin as a card owner or
// debuff target.
type CharacterID string

const (
	CharacterA  CharacterID = "A"
	CharacterB  CharacterID = "B"
	MacGuffinID CharacterID = "macguffin"
)

// CharacterOrder is the fixed processing order of characters.
var CharacterOrder = []CharacterID{CharacterA, CharacterB}

// Other returns the other character. The MacGuffin has no partner.
func (id CharacterID) Other() CharacterID {
	switch id {
	case CharacterA:
		return CharacterB
	case CharacterB:
		return CharacterA
	}
	return ""
}

// IsCharacter reports whether id names one of the two characters.
func (id CharacterID) IsCharacter() bool {
	return id == CharacterA || id == CharacterB
}

var characterNames = map[CharacterID]string{
	CharacterA: "Aldric",
	CharacterB: "Pip",
}

// Character is one of the two player-controlled characters. Shield and Taunt
// last until the end of the enemy phase.
type Character struct {
	ID         CharacterID
	Name       string
	CurrentHP  int
	MaxHP      int
	KnockedOut bool
	Shield     int
	Taunt      int
}

// HPRatio returns current over max HP.
func (c *Character) HPRatio() float64 {
	if c.MaxHP <= 0 {
		return 0
	}
	return float64(c.CurrentHP) / float64(c.MaxHP)
}

// MacGuffin is the shared life pool. Block protects it and lasts until the
// end of the enemy phase.
type MacGuffin struct {
	Variant   string
	Name      string
	CurrentHP int
	MaxHP     int
	Block     int
}

// HPRatio returns current over max HP.
func (m *MacGuffin) HPRatio() float64 {
	if m.MaxHP <= 0 {
		return 0
	}
	return float64(m.CurrentHP) / float64(m.MaxHP)
}

// Energy is the player's per-turn resource.
type Energy struct {
	Current int
	Max     int
}

// Intent is the enemy's next action as displayed to the player.
type Intent struct {
	Type   string
	Value  int
	Hits   int
	Target string
}

// Enemy is the runtime state of the opponent.
type Enemy struct {
	Definition   *content.EnemyDefinition
	CurrentHP    int
	MaxHP        int
	Intent       Intent
	PatternIndex int
	CurrentPhase int
	PassiveState map[string]string
}

// NewEnemy creates the runtime state for a definition at full HP.
func NewEnemy(def *content.EnemyDefinition) *Enemy {
	return &Enemy{
		Definition:   def,
		CurrentHP:    def.HP,
		MaxHP:        def.HP,
		PassiveState: make(map[string]string),
	}
}

// ID returns the definition id.
func (e *Enemy) ID() string { return e.Definition.ID }

// Name returns the display name.
func (e *Enemy) Name() string { return e.Definition.Name }

// IsBoss reports whether the enemy is a boss.
func (e *Enemy) IsBoss() bool { return e.Definition.IsBoss }

// HasPassive reports whether the enemy carries the passive id.
func (e *Enemy) HasPassive(id string) bool { return e.Definition.HasPassive(id) }

// IsDefeated reports whether HP reached zero.
func (e *Enemy) IsDefeated() bool { return e.CurrentHP <= 0 }

// HPRatio returns current over max HP.
func (e *Enemy) HPRatio() float64 {
	if e.MaxHP <= 0 {
		return 0
	}
	return float64(e.CurrentHP) / float64(e.MaxHP)
}

// Pattern returns the pattern of the current phase.
func (e *Enemy) Pattern() []content.PatternEntry {
	return e.Definition.PatternFor(e.CurrentPhase)
}

// Config sizes a new session.
type Config struct {
	HandSize     int
	MaxEnergy    int
	MacGuffinHP  int
	CharacterAHP int
	CharacterBHP int
}

// DefaultConfig returns the standard starting values.
func DefaultConfig() Config {
	return Config{
		HandSize:     5,
		MaxEnergy:    3,
		MacGuffinHP:  60,
		CharacterAHP: 20,
		CharacterBHP: 10,
	}
}

// Session is the root aggregate of one combat. Every component reads and
// writes HP, pools and keywords through it. The turn phase lives in the
// lifecycle machine that owns the session.
type Session struct {
	ID         string
	TurnNumber int
	HandSize   int
	Energy     Energy
	MacGuffin  *MacGuffin
	Characters map[CharacterID]*Character
	Distract   int
	Retaliate  int
	Enemy      *Enemy
	Keywords   *counters.KeywordState

	Deck         *Pile
	Hand         *Pile
	Discard      *Pile
	Enchantments *Pile
}

// NewSession creates a session with full HP and empty piles.
func NewSession(id string, cfg Config) *Session {
	s := &Session{
		ID:       id,
		HandSize: cfg.HandSize,
		Energy:   Energy{Current: cfg.MaxEnergy, Max: cfg.MaxEnergy},
		MacGuffin: &MacGuffin{
			Name:      "MacGuffin",
			CurrentHP: cfg.MacGuffinHP,
			MaxHP:     cfg.MacGuffinHP,
		},
		Characters:   make(map[CharacterID]*Character, len(CharacterOrder)),
		Deck:         NewPile(),
		Hand:         NewPile(),
		Discard:      NewPile(),
		Enchantments: NewPile(),
	}
	hp := map[CharacterID]int{CharacterA: cfg.CharacterAHP, CharacterB: cfg.CharacterBHP}
	ids := make([]string, 0, len(CharacterOrder))
	for _, id := range CharacterOrder {
		s.Characters[id] = &Character{
			ID:        id,
			Name:      characterNames[id],
			CurrentHP: hp[id],
			MaxHP:     hp[id],
		}
		ids = append(ids, string(id))
	}
	s.Keywords = counters.NewKeywordState(ids...)
	return s
}

// Character returns a character by id.
func (s *Session) Character(id CharacterID) (*Character, bool) {
	c, ok := s.Characters[id]
	return c, ok
}

// CharacterKeywords returns the keyword pool of a character.
func (s *Session) CharacterKeywords(id CharacterID) *counters.Pool {
	return s.Keywords.Character(string(id))
}

// Conscious returns the characters that are not knocked out, in order.
func (s *Session) Conscious() []*Character {
	out := make([]*Character, 0, len(CharacterOrder))
	for _, id := range CharacterOrder {
		if c := s.Characters[id]; c != nil && !c.KnockedOut {
			out = append(out, c)
		}
	}
	return out
}

// IsKnockedOut reports whether id is a knocked-out character.
func (s *Session) IsKnockedOut(id CharacterID) bool {
	c, ok := s.Characters[id]
	return ok && c.KnockedOut
}

// CardsPlayedThisTurn returns the per-turn play counter.
func (s *Session) CardsPlayedThisTurn() int {
	return s.Keywords.Global.Get(counters.KeywordCardsPlayed)
}

// ResetTurnPools clears every player pool that lasts one enemy phase.
func (s *Session) ResetTurnPools() {
	s.MacGuffin.Block = 0
	s.Distract = 0
	s.Retaliate = 0
	for _, c := range s.Characters {
		c.Shield = 0
		c.Taunt = 0
	}
}
