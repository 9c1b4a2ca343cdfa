package state

import "github.com/curtaincall/curtaincall-server-go/internal/game/content"

// CardInstance is a card in play. It wraps an immutable definition and
// carries the modifiers that last until the card leaves the hand.
type CardInstance struct {
	InstanceID    string
	Definition    *content.CardDefinition
	CostReduction int
	DamageBonus   int
}

// NewCardInstance wraps a definition.
func NewCardInstance(instanceID string, def *content.CardDefinition) *CardInstance {
	return &CardInstance{InstanceID: instanceID, Definition: def}
}

// ID returns the definition id.
func (c *CardInstance) ID() string {
	return c.Definition.ID
}

// Owner returns the owning character, or MacGuffinID.
func (c *CardInstance) Owner() CharacterID {
	return CharacterID(c.Definition.Owner)
}

// Type returns the card type.
func (c *CardInstance) Type() content.CardType {
	return c.Definition.Type
}

// IsAttack reports whether the card is an attack.
func (c *CardInstance) IsAttack() bool {
	return c.Definition.IsAttack()
}

// EffectiveCost is the definition cost minus the cost reduction, floored at 0.
func (c *CardInstance) EffectiveCost() int {
	return max(0, c.Definition.Cost-c.CostReduction)
}

// ClearModifiers drops the per-play modifiers.
func (c *CardInstance) ClearModifiers() {
	c.CostReduction = 0
	c.DamageBonus = 0
}

// Ref is the serializable reference to a card instance.
type Ref struct {
	DefinitionID string `json:"definition_id"`
	InstanceID   string `json:"instance_id"`
}

// Ref returns the reference of the instance.
func (c *CardInstance) Ref() Ref {
	return Ref{DefinitionID: c.Definition.ID, InstanceID: c.InstanceID}
}
