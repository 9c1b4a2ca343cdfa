package rules

import (
	"github.com/curtaincall/curtaincall-server-go/internal/game/counters"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
)

// Before-hook contexts. Listeners receive a pointer and may change fields;
// the emitter reads them back after Emit returns.

// DamageContext is the payload of beforeDamageDealt.
type DamageContext struct {
	Damage int
	Card   *state.CardInstance
}

// DebuffContext is the payload of beforeDebuffOnEnemy. Setting Blocked
// cancels the application.
type DebuffContext struct {
	Keyword counters.Keyword
	Value   int
	Card    *state.CardInstance
	Blocked bool
}

// DefenseResetContext is the payload of beforeEnemyDefenseReset.
type DefenseResetContext struct {
	HalfBlock     bool
	KeepRetaliate bool
}

// KnockoutContext is the payload of beforeKnockout. Setting Prevented keeps
// the character standing at 1 HP.
type KnockoutContext struct {
	Character state.CharacterID
	Prevented bool
}

// Notification payloads.

// CombatStartPayload is the payload of combatStart.
type CombatStartPayload struct {
	EnemyID string
	IsBoss  bool
}

// CombatOutcome is the result carried by combatEnd.
type CombatOutcome string

const (
	OutcomeVictory CombatOutcome = "victory"
	OutcomeDefeat  CombatOutcome = "defeat"
)

// CombatEndPayload is the payload of combatEnd.
type CombatEndPayload struct {
	Outcome CombatOutcome
}

// TurnPayload is the payload of playerTurnStart and playerTurnEnd.
type TurnPayload struct {
	Turn int
}

// CardPlayedPayload is the payload of cardPlayed.
type CardPlayedPayload struct {
	Card                *state.CardInstance
	Target              state.CharacterID
	CardsPlayedThisTurn int
}

// CardDrawnPayload is the payload of cardDrawn.
type CardDrawnPayload struct {
	Card *state.CardInstance
}

// EnchantmentPlayedPayload is the payload of enchantmentPlayed.
type EnchantmentPlayedPayload struct {
	Card *state.CardInstance
}

// DamageDealtPayload is the payload of damageDealtToEnemy.
type DamageDealtPayload struct {
	Amount  int
	Card    *state.CardInstance
	HPRatio float64
}

// DebuffInflictedPayload is the payload of debuffInflictedOnEnemy and
// debuffInflictedOnPlayer.
type DebuffInflictedPayload struct {
	Keyword counters.Keyword
	Value   int
	Targets []state.CharacterID
	Card    *state.CardInstance
}

// BlockGainedPayload is the payload of blockGained.
type BlockGainedPayload struct {
	Amount int
}

// KeywordGainedPayload is the payload of keywordGained.
type KeywordGainedPayload struct {
	Keyword counters.Keyword
	Amount  int
	Target  state.CharacterID
}

// EnergyGainedPayload is the payload of energyGained.
type EnergyGainedPayload struct {
	Amount int
}

// OvationChangedPayload is the payload of ovationChanged and ovationMaxed.
type OvationChangedPayload struct {
	Ovation int
	Delta   int
}

// MacGuffinDamagedPayload is the payload of macguffinDamaged.
type MacGuffinDamagedPayload struct {
	Amount int
	HP     int
	MaxHP  int
}

// CharacterKnockedOutPayload is the payload of characterKnockedOut.
type CharacterKnockedOutPayload struct {
	Character state.CharacterID
}

// EnemyPhasePayload is the payload of enemyPhaseChanged.
type EnemyPhasePayload struct {
	From int
	To   int
}

// EnemyDefeatedPayload is the payload of enemyDefeated.
type EnemyDefeatedPayload struct {
	EnemyID string
	IsBoss  bool
}
