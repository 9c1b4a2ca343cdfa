// Package watchers keeps running tallies of combat events for summaries,
// snapshots and the simulator.
package watchers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/curtaincall/curtaincall-server-go/internal/game/rules"
)

// Scope defines how long a watcher's tally lives.
type Scope int

const (
	// ScopeCombat tallies for the whole combat.
	ScopeCombat Scope = iota
	// ScopeTurn tallies reset at the start of every player turn.
	ScopeTurn
)

// String returns the string representation of the scope.
func (s Scope) String() string {
	switch s {
	case ScopeCombat:
		return "COMBAT"
	case ScopeTurn:
		return "TURN"
	default:
		return "UNKNOWN"
	}
}

// Owner tags the bus listeners installed by a Registry.
const Owner = "watchers"

// Watcher observes combat events.
type Watcher interface {
	// Watch is called for every event the registry forwards.
	Watch(evt *rules.Event)

	// Reset clears the tally.
	Reset()

	// ConditionMet reports whether the watcher has seen a relevant event
	// since the last reset.
	ConditionMet() bool

	Scope() Scope
	Key() string
}

// BaseWatcher provides the bookkeeping shared by all watchers.
type BaseWatcher struct {
	scope     Scope
	key       string
	condition bool
}

// NewBaseWatcher creates a base watcher.
func NewBaseWatcher(scope Scope, key string) *BaseWatcher {
	return &BaseWatcher{scope: scope, key: key}
}

// Scope returns the watcher's scope.
func (bw *BaseWatcher) Scope() Scope { return bw.scope }

// Key returns the unique key of the watcher.
func (bw *BaseWatcher) Key() string { return bw.key }

// ConditionMet returns whether the condition has been met.
func (bw *BaseWatcher) ConditionMet() bool { return bw.condition }

// SetCondition sets the condition flag.
func (bw *BaseWatcher) SetCondition(condition bool) { bw.condition = condition }

// Reset clears the condition.
func (bw *BaseWatcher) Reset() { bw.condition = false }

// Registry holds the watchers of one combat and feeds them bus events.
type Registry struct {
	mu       sync.RWMutex
	watchers map[string]Watcher
	byScope  map[Scope][]Watcher
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		watchers: make(map[string]Watcher),
		byScope:  make(map[Scope][]Watcher),
	}
}

// Add registers a watcher. A watcher with a key already in use replaces it.
func (r *Registry) Add(w Watcher) error {
	if w == nil || w.Key() == "" {
		return fmt.Errorf("watcher without key")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.watchers[w.Key()]; ok {
		r.removeLocked(w.Key())
	}
	r.watchers[w.Key()] = w
	r.byScope[w.Scope()] = append(r.byScope[w.Scope()], w)
	return nil
}

// Remove unregisters a watcher by key.
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(key)
}

func (r *Registry) removeLocked(key string) {
	w, ok := r.watchers[key]
	if !ok {
		return
	}
	delete(r.watchers, key)
	list := r.byScope[w.Scope()]
	for i, x := range list {
		if x.Key() == key {
			r.byScope[w.Scope()] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
}

// Get returns a watcher by key, or nil.
func (r *Registry) Get(key string) Watcher {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.watchers[key]
}

// All returns every watcher ordered by key.
func (r *Registry) All() []Watcher {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Watcher, 0, len(r.watchers))
	for _, w := range r.watchers {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Reset resets every watcher.
func (r *Registry) Reset() {
	for _, w := range r.All() {
		w.Reset()
	}
}

// ResetScope resets the watchers of one scope.
func (r *Registry) ResetScope(scope Scope) {
	r.mu.RLock()
	list := append([]Watcher(nil), r.byScope[scope]...)
	r.mu.RUnlock()
	for _, w := range list {
		w.Reset()
	}
}

// Dispatch forwards one event to every watcher.
func (r *Registry) Dispatch(evt *rules.Event) {
	for _, w := range r.All() {
		w.Watch(evt)
	}
}

// watchedEvents are the notifications forwarded to watchers.
var watchedEvents = []rules.EventName{
	rules.EventPlayerTurnStart,
	rules.EventCardPlayed,
	rules.EventCardDrawn,
	rules.EventDamageDealtToEnemy,
	rules.EventMacGuffinDamaged,
	rules.EventCharacterKnockedOut,
	rules.EventDebuffInflictedOnEnemy,
	rules.EventDebuffInflictedOnPlayer,
	rules.EventBlockGained,
	rules.EventCombatEnd,
}

// turnResetPriority runs the turn reset ahead of every other listener.
const turnResetPriority = 1 << 20

// Attach subscribes the registry to bus under Owner. Turn-scoped watchers
// are reset when a player turn starts, before the turn's first event.
func (r *Registry) Attach(bus *rules.EventBus) {
	bus.On(rules.EventPlayerTurnStart, func(context.Context, *rules.Event) {
		r.ResetScope(ScopeTurn)
	}, rules.WithOwner(Owner), rules.WithPriority(turnResetPriority))
	for _, name := range watchedEvents {
		bus.On(name, func(_ context.Context, evt *rules.Event) {
			r.Dispatch(evt)
		}, rules.WithOwner(Owner))
	}
}
