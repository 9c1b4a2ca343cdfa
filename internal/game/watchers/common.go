package watchers

import (
	"maps"

	"github.com/curtaincall/curtaincall-server-go/internal/game/rules"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
)

// CardsPlayedWatcher tracks cards played per turn and per owner.
type CardsPlayedWatcher struct {
	*BaseWatcher
	turn    int
	total   int
	byOwner map[string]int
	byTurn  map[int]int
}

// NewCardsPlayedWatcher creates a new cards played watcher.
func NewCardsPlayedWatcher() *CardsPlayedWatcher {
	return &CardsPlayedWatcher{
		BaseWatcher: NewBaseWatcher(ScopeCombat, "CardsPlayedWatcher"),
		byOwner:     make(map[string]int),
		byTurn:      make(map[int]int),
	}
}

// Watch implements the Watcher interface.
func (w *CardsPlayedWatcher) Watch(evt *rules.Event) {
	switch p := evt.Payload.(type) {
	case rules.TurnPayload:
		if evt.Name == rules.EventPlayerTurnStart {
			w.turn = p.Turn
		}
	case rules.CardPlayedPayload:
		if p.Card == nil {
			return
		}
		w.total++
		w.byOwner[string(p.Card.Owner())]++
		w.byTurn[w.turn]++
		w.SetCondition(true)
	}
}

// Reset clears the watcher's state.
func (w *CardsPlayedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.turn = 0
	w.total = 0
	w.byOwner = make(map[string]int)
	w.byTurn = make(map[int]int)
}

// Total returns the number of cards played this combat.
func (w *CardsPlayedWatcher) Total() int { return w.total }

// ByOwner returns the number of cards played by an owner.
func (w *CardsPlayedWatcher) ByOwner(owner state.CharacterID) int {
	return w.byOwner[string(owner)]
}

// ThisTurn returns the number of cards played in the current turn.
func (w *CardsPlayedWatcher) ThisTurn() int { return w.byTurn[w.turn] }

// Turns returns the number of player turns seen.
func (w *CardsPlayedWatcher) Turns() int { return w.turn }

// DamageWatcher tracks damage dealt to the enemy and taken by the MacGuffin.
type DamageWatcher struct {
	*BaseWatcher
	dealt      int
	largestHit int
	taken      int
}

// NewDamageWatcher creates a new damage watcher.
func NewDamageWatcher() *DamageWatcher {
	return &DamageWatcher{BaseWatcher: NewBaseWatcher(ScopeCombat, "DamageWatcher")}
}

// Watch implements the Watcher interface.
func (w *DamageWatcher) Watch(evt *rules.Event) {
	switch p := evt.Payload.(type) {
	case rules.DamageDealtPayload:
		w.dealt += p.Amount
		w.largestHit = max(w.largestHit, p.Amount)
		w.SetCondition(true)
	case rules.MacGuffinDamagedPayload:
		w.taken += p.Amount
		w.SetCondition(true)
	}
}

// Reset clears the watcher's state.
func (w *DamageWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.dealt, w.largestHit, w.taken = 0, 0, 0
}

// Dealt returns the damage dealt to the enemy.
func (w *DamageWatcher) Dealt() int { return w.dealt }

// LargestHit returns the largest single hit on the enemy.
func (w *DamageWatcher) LargestHit() int { return w.largestHit }

// Taken returns the damage taken by the MacGuffin.
func (w *DamageWatcher) Taken() int { return w.taken }

// TurnDamageWatcher tracks damage dealt to the enemy in the current turn.
type TurnDamageWatcher struct {
	*BaseWatcher
	dealt int
}

// NewTurnDamageWatcher creates a new per-turn damage watcher.
func NewTurnDamageWatcher() *TurnDamageWatcher {
	return &TurnDamageWatcher{BaseWatcher: NewBaseWatcher(ScopeTurn, "TurnDamageWatcher")}
}

// Watch implements the Watcher interface.
func (w *TurnDamageWatcher) Watch(evt *rules.Event) {
	if p, ok := evt.Payload.(rules.DamageDealtPayload); ok {
		w.dealt += p.Amount
		w.SetCondition(true)
	}
}

// Reset clears the watcher's state.
func (w *TurnDamageWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.dealt = 0
}

// Dealt returns the damage dealt this turn.
func (w *TurnDamageWatcher) Dealt() int { return w.dealt }

// KnockoutWatcher tracks knocked-out characters in order.
type KnockoutWatcher struct {
	*BaseWatcher
	knockedOut []string
}

// NewKnockoutWatcher creates a new knockout watcher.
func NewKnockoutWatcher() *KnockoutWatcher {
	return &KnockoutWatcher{BaseWatcher: NewBaseWatcher(ScopeCombat, "KnockoutWatcher")}
}

// Watch implements the Watcher interface.
func (w *KnockoutWatcher) Watch(evt *rules.Event) {
	if p, ok := evt.Payload.(rules.CharacterKnockedOutPayload); ok {
		w.knockedOut = append(w.knockedOut, string(p.Character))
		w.SetCondition(true)
	}
}

// Reset clears the watcher's state.
func (w *KnockoutWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.knockedOut = nil
}

// KnockedOut returns the knocked-out characters in order.
func (w *KnockoutWatcher) KnockedOut() []string {
	return append([]string(nil), w.knockedOut...)
}

// DebuffWatcher counts debuff applications in both directions.
type DebuffWatcher struct {
	*BaseWatcher
	inflicted int
	received  int
}

// NewDebuffWatcher creates a new debuff watcher.
func NewDebuffWatcher() *DebuffWatcher {
	return &DebuffWatcher{BaseWatcher: NewBaseWatcher(ScopeCombat, "DebuffWatcher")}
}

// Watch implements the Watcher interface.
func (w *DebuffWatcher) Watch(evt *rules.Event) {
	if _, ok := evt.Payload.(rules.DebuffInflictedPayload); !ok {
		return
	}
	switch evt.Name {
	case rules.EventDebuffInflictedOnEnemy:
		w.inflicted++
	case rules.EventDebuffInflictedOnPlayer:
		w.received++
	default:
		return
	}
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *DebuffWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.inflicted, w.received = 0, 0
}

// Inflicted returns the debuffs landed on the enemy.
func (w *DebuffWatcher) Inflicted() int { return w.inflicted }

// Received returns the debuffs the enemy landed on the player side.
func (w *DebuffWatcher) Received() int { return w.received }

// StatsView is the serializable summary of a combat.
type StatsView struct {
	Turns                int            `json:"turns"`
	CardsPlayed          int            `json:"cards_played"`
	CardsPlayedThisTurn  int            `json:"cards_played_this_turn"`
	CardsPlayedByOwner   map[string]int `json:"cards_played_by_owner,omitempty"`
	DamageDealt          int            `json:"damage_dealt"`
	DamageDealtThisTurn  int            `json:"damage_dealt_this_turn"`
	LargestHit           int            `json:"largest_hit"`
	MacGuffinDamageTaken int            `json:"macguffin_damage_taken"`
	KnockedOut           []string       `json:"knocked_out,omitempty"`
	DebuffsInflicted     int            `json:"debuffs_inflicted"`
	DebuffsReceived      int            `json:"debuffs_received"`
}

// CombatStats bundles the standard watchers of a combat.
type CombatStats struct {
	registry   *Registry
	cards      *CardsPlayedWatcher
	damage     *DamageWatcher
	turnDamage *TurnDamageWatcher
	knockouts  *KnockoutWatcher
	debuffs    *DebuffWatcher
}

// NewCombatStats creates the standard watchers in a fresh registry.
func NewCombatStats() *CombatStats {
	cs := &CombatStats{
		registry:   NewRegistry(),
		cards:      NewCardsPlayedWatcher(),
		damage:     NewDamageWatcher(),
		turnDamage: NewTurnDamageWatcher(),
		knockouts:  NewKnockoutWatcher(),
		debuffs:    NewDebuffWatcher(),
	}
	for _, w := range []Watcher{cs.cards, cs.damage, cs.turnDamage, cs.knockouts, cs.debuffs} {
		_ = cs.registry.Add(w)
	}
	return cs
}

// Registry exposes the underlying registry so callers can add watchers.
func (cs *CombatStats) Registry() *Registry { return cs.registry }

// Attach subscribes every watcher to bus.
func (cs *CombatStats) Attach(bus *rules.EventBus) { cs.registry.Attach(bus) }

// Reset clears every tally.
func (cs *CombatStats) Reset() { cs.registry.Reset() }

// View returns a copy of the current tallies.
func (cs *CombatStats) View() StatsView {
	byOwner := make(map[string]int, len(cs.cards.byOwner))
	maps.Copy(byOwner, cs.cards.byOwner)
	return StatsView{
		Turns:                cs.cards.Turns(),
		CardsPlayed:          cs.cards.Total(),
		CardsPlayedThisTurn:  cs.cards.ThisTurn(),
		CardsPlayedByOwner:   byOwner,
		DamageDealt:          cs.damage.Dealt(),
		DamageDealtThisTurn:  cs.turnDamage.Dealt(),
		LargestHit:           cs.damage.LargestHit(),
		MacGuffinDamageTaken: cs.damage.Taken(),
		KnockedOut:           cs.knockouts.KnockedOut(),
		DebuffsInflicted:     cs.debuffs.Inflicted(),
		DebuffsReceived:      cs.debuffs.Received(),
	}
}
