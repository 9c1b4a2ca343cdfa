package state

// Pile is an ordered stack of cards. The front is index 0.
type Pile struct {
	cards []*CardInstance
}

// NewPile creates a pile holding cards in order.
func NewPile(cards ...*CardInstance) *Pile {
	return &Pile{cards: append([]*CardInstance(nil), cards...)}
}

// Len returns the number of cards.
func (p *Pile) Len() int {
	return len(p.cards)
}

// IsEmpty reports whether the pile has no cards.
func (p *Pile) IsEmpty() bool {
	return len(p.cards) == 0
}

// Push adds cards to the back.
func (p *Pile) Push(cards ...*CardInstance) {
	p.cards = append(p.cards, cards...)
}

// PopFront removes and returns the first card.
func (p *Pile) PopFront() (*CardInstance, bool) {
	if len(p.cards) == 0 {
		return nil, false
	}
	c := p.cards[0]
	p.cards[0] = nil
	p.cards = p.cards[1:]
	return c, true
}

// Find returns the card with the instance id.
func (p *Pile) Find(instanceID string) (*CardInstance, bool) {
	for _, c := range p.cards {
		if c.InstanceID == instanceID {
			return c, true
		}
	}
	return nil, false
}

// Remove takes the card with the instance id out of the pile.
func (p *Pile) Remove(instanceID string) (*CardInstance, bool) {
	for i, c := range p.cards {
		if c.InstanceID == instanceID {
			p.cards = append(p.cards[:i], p.cards[i+1:]...)
			return c, true
		}
	}
	return nil, false
}

// TakeAll empties the pile and returns its cards.
func (p *Pile) TakeAll() []*CardInstance {
	out := p.cards
	p.cards = nil
	return out
}

// Cards returns a copy of the cards in order.
func (p *Pile) Cards() []*CardInstance {
	return append([]*CardInstance(nil), p.cards...)
}

// Swap exchanges two positions. It lets callers shuffle in place.
func (p *Pile) Swap(i, j int) {
	p.cards[i], p.cards[j] = p.cards[j], p.cards[i]
}

// Refs returns the serializable references in order.
func (p *Pile) Refs() []Ref {
	refs := make([]Ref, len(p.cards))
	for i, c := range p.cards {
		refs[i] = c.Ref()
	}
	return refs
}
