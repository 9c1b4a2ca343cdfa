// Package passives holds every passive behavior that hooks into combat
// through the event bus: enemy abilities, enchantments, stage props and
// MacGuffin passives. Behaviors are keyed by a stable id; display metadata
// is kept next to, but apart from, the registration function.
package passives

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Kind groups behaviors by where they come from.
type Kind string

const (
	KindEnemy       Kind = "enemy"
	KindEnchantment Kind = "enchantment"
	KindStageProp   Kind = "stage_prop"
	KindMacGuffin   Kind = "macguffin"
)

// Listener owners. Every listener a behavior registers carries one of these
// so the whole group can be dropped with a single OffByOwner.
const (
	OwnerEnemy     = "enemy-passive"
	OwnerStageProp = "stage-prop"
	OwnerMacGuffin = "macguffin-passive"
)

// EnchantmentOwner returns the owner tag of an active enchantment instance.
func EnchantmentOwner(instanceID string) string {
	return "enchantment-" + instanceID
}

// Meta is the display data of a behavior.
type Meta struct {
	ID          string
	Kind        Kind
	Name        string
	Description string
}

// RegisterFunc subscribes a behavior's listeners on the host bus, tagging
// each with owner. It is called once per activation, so any state captured
// by the closures lives exactly as long as that activation.
type RegisterFunc func(h Host, owner string)

// Behavior pairs metadata with its registration function. A nil Register
// marks a behavior the engine queries directly instead of through the bus.
type Behavior struct {
	Meta     Meta
	Register RegisterFunc
}

type key struct {
	kind Kind
	id   string
}

// Registry maps ids to behaviors.
type Registry struct {
	mu        sync.RWMutex
	behaviors map[key]Behavior
	logger    *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		behaviors: make(map[key]Behavior),
		logger:    logger,
	}
}

// Default returns a registry holding every built-in behavior.
func Default(logger *zap.Logger) *Registry {
	r := NewRegistry(logger)
	for _, group := range [][]Behavior{enemyBehaviors(), enchantmentBehaviors(), stagePropBehaviors(), macGuffinBehaviors()} {
		for _, b := range group {
			if err := r.Add(b); err != nil {
				panic(err)
			}
		}
	}
	return r
}

// Add stores a behavior. Ids are unique per kind.
func (r *Registry) Add(b Behavior) error {
	if b.Meta.ID == "" {
		return fmt.Errorf("behavior without id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{b.Meta.Kind, b.Meta.ID}
	if _, exists := r.behaviors[k]; exists {
		return fmt.Errorf("duplicate %s behavior %q", b.Meta.Kind, b.Meta.ID)
	}
	r.behaviors[k] = b
	return nil
}

// Lookup returns the behavior registered for kind and id.
func (r *Registry) Lookup(kind Kind, id string) (Behavior, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.behaviors[key{kind, id}]
	return b, ok
}

// IDs returns the sorted ids of one kind.
func (r *Registry) IDs(kind Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for k := range r.behaviors {
		if k.kind == kind {
			ids = append(ids, k.id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Activate runs the registration function of a behavior. Unknown ids are
// logged and skipped so content referencing a newer behavior still loads.
func (r *Registry) Activate(h Host, kind Kind, id, owner string) bool {
	b, ok := r.Lookup(kind, id)
	if !ok {
		r.logger.Warn("unknown passive",
			zap.String("kind", string(kind)),
			zap.String("passive_id", id),
		)
		return false
	}
	if b.Register != nil {
		b.Register(h, owner)
	}
	r.logger.Debug("passive activated",
		zap.String("kind", string(kind)),
		zap.String("passive_id", id),
		zap.String("owner", owner),
	)
	return true
}
