package rules

import (
	"context"
	"sort"
	"sync"
	"time"
)

// EventName identifies a combat event.
type EventName string

const (
	// Lifecycle events
	EventCombatStart     EventName = "combatStart"
	EventCombatEnd       EventName = "combatEnd"
	EventPlayerTurnStart EventName = "playerTurnStart"
	EventPlayerTurnEnd   EventName = "playerTurnEnd"
	EventEnemyTurnStart  EventName = "enemyTurnStart"
	EventEnemyTurnEnd    EventName = "enemyTurnEnd"
	EventEnemyDefeated   EventName = "enemyDefeated"
	EventEnemyPhase      EventName = "enemyPhaseChanged"

	// Before-hooks receive a mutable context payload
	EventBeforeEnemyDefenseReset EventName = "beforeEnemyDefenseReset"
	EventBeforeDamageDealt       EventName = "beforeDamageDealt"
	EventBeforeDebuffOnEnemy     EventName = "beforeDebuffOnEnemy"
	EventBeforeKnockout          EventName = "beforeKnockout"

	// Damage and debuff events
	EventDamageDealtToEnemy      EventName = "damageDealtToEnemy"
	EventDebuffInflictedOnEnemy  EventName = "debuffInflictedOnEnemy"
	EventDebuffInflictedOnPlayer EventName = "debuffInflictedOnPlayer"
	EventCharacterKnockedOut     EventName = "characterKnockedOut"
	EventMacGuffinDamaged        EventName = "macguffinDamaged"

	// Resource events
	EventBlockGained    EventName = "blockGained"
	EventKeywordGained  EventName = "keywordGained"
	EventEnergyGained   EventName = "energyGained"
	EventOvationChanged EventName = "ovationChanged"
	EventOvationMaxed   EventName = "ovationMaxed"

	// Card events
	EventCardDrawn         EventName = "cardDrawn"
	EventCardPlayed        EventName = "cardPlayed"
	EventEnchantmentPlayed EventName = "enchantmentPlayed"
)

// IsBeforeHook reports whether listeners of this event may veto or adjust
// the computation that emitted it.
func (n EventName) IsBeforeHook() bool {
	switch n {
	case EventBeforeEnemyDefenseReset, EventBeforeDamageDealt, EventBeforeDebuffOnEnemy, EventBeforeKnockout:
		return true
	}
	return false
}

// Event is the value handed to every listener of an emission.
type Event struct {
	Name      EventName
	Payload   any
	Timestamp time.Time
}

// Handler reacts to an event. Before-hook payloads are pointers and may be mutated.
type Handler func(ctx context.Context, evt *Event)

// Handle identifies a single registration on the bus.
type Handle int

type listener struct {
	handle   Handle
	owner    string
	priority int
	fn       Handler
}

// ListenerOption configures a registration.
type ListenerOption func(*listener)

// WithOwner tags a listener so it can be removed in bulk with OffByOwner.
func WithOwner(owner string) ListenerOption {
	return func(l *listener) {
		l.owner = owner
	}
}

// WithPriority sets the dispatch priority. Higher runs first; ties keep registration order.
func WithPriority(priority int) ListenerOption {
	return func(l *listener) {
		l.priority = priority
	}
}

// EventBus dispatches combat events to passive listeners in priority order.
type EventBus struct {
	mu         sync.RWMutex
	listeners  map[EventName][]listener
	active     map[Handle]EventName
	nextHandle Handle
}

// NewEventBus constructs an empty event bus.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[EventName][]listener),
		active:    make(map[Handle]EventName),
	}
}

// On registers a listener and returns its handle.
func (bus *EventBus) On(name EventName, fn Handler, opts ...ListenerOption) Handle {
	if fn == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()

	l := listener{handle: bus.nextHandle, fn: fn}
	bus.nextHandle++
	for _, opt := range opts {
		opt(&l)
	}

	list := append(bus.listeners[name], l)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].priority > list[j].priority
	})
	bus.listeners[name] = list
	bus.active[l.handle] = name
	return l.handle
}

// Off removes the listener identified by handle.
func (bus *EventBus) Off(handle Handle) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	name, ok := bus.active[handle]
	if !ok {
		return
	}
	list := bus.listeners[name]
	for i := range list {
		if list[i].handle == handle {
			bus.listeners[name] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	delete(bus.active, handle)
}

// OffByOwner removes every listener tagged with owner across all events.
// Returns the number of listeners removed.
func (bus *EventBus) OffByOwner(owner string) int {
	if owner == "" {
		return 0
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()

	removed := 0
	for name, list := range bus.listeners {
		kept := list[:0:0]
		for _, l := range list {
			if l.owner == owner {
				delete(bus.active, l.handle)
				removed++
				continue
			}
			kept = append(kept, l)
		}
		bus.listeners[name] = kept
	}
	return removed
}

// Clear removes every listener.
func (bus *EventBus) Clear() {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.listeners = make(map[EventName][]listener)
	bus.active = make(map[Handle]EventName)
}

// Has reports whether any listener is registered for name.
func (bus *EventBus) Has(name EventName) bool {
	return bus.ListenerCount(name) > 0
}

// ListenerCount returns the number of listeners registered for name.
func (bus *EventBus) ListenerCount(name EventName) int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.listeners[name])
}

// Emit runs every listener of name sequentially, highest priority first, and
// returns the event after the last listener finished. Listeners registered
// during the emission do not run for it; listeners removed during it are skipped.
func (bus *EventBus) Emit(ctx context.Context, name EventName, payload any) *Event {
	bus.mu.RLock()
	pending := make([]listener, len(bus.listeners[name]))
	copy(pending, bus.listeners[name])
	bus.mu.RUnlock()

	evt := &Event{
		Name:      name,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	for _, l := range pending {
		if !bus.isActive(l.handle) {
			continue
		}
		l.fn(ctx, evt)
	}
	return evt
}

func (bus *EventBus) isActive(handle Handle) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	_, ok := bus.active[handle]
	return ok
}
