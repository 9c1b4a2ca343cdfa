package counters

// Counter is a single named non-negative count.
type Counter struct {
	Name  Keyword
	Count int
}

// Add adds the specified amount to the counter. Non-positive amounts are ignored.
func (c *Counter) Add(amount int) {
	if amount > 0 {
		c.Count += amount
	}
}

// Remove removes the specified amount from the counter.
// Will not allow count to go below 0.
func (c *Counter) Remove(amount int) {
	if amount > 0 {
		if c.Count >= amount {
			c.Count -= amount
		} else {
			c.Count = 0
		}
	}
}

// Copy creates a copy of the counter.
func (c *Counter) Copy() *Counter {
	return &Counter{
		Name:  c.Name,
		Count: c.Count,
	}
}

// Pool is a collection of keyword counters restricted to an allowed key set.
// Every count is kept >= 0.
type Pool struct {
	allowed  map[Keyword]struct{}
	Counters map[Keyword]*Counter
}

// NewPool creates a pool accepting only the given keys. With no keys, any
// keyword is accepted.
func NewPool(keys ...Keyword) *Pool {
	p := &Pool{Counters: make(map[Keyword]*Counter)}
	if len(keys) > 0 {
		p.allowed = make(map[Keyword]struct{}, len(keys))
		for _, k := range keys {
			p.allowed[k] = struct{}{}
		}
	}
	return p
}

// Accepts reports whether the pool can hold k.
func (p *Pool) Accepts(k Keyword) bool {
	if p.allowed == nil {
		return true
	}
	_, ok := p.allowed[k]
	return ok
}

// Get returns the current count for k.
func (p *Pool) Get(k Keyword) int {
	if c, ok := p.Counters[k]; ok {
		return c.Count
	}
	return 0
}

// Has reports whether k is above zero.
func (p *Pool) Has(k Keyword) bool {
	return p.Get(k) > 0
}

// Add increases k by amount. Returns false if the pool does not hold k.
func (p *Pool) Add(k Keyword, amount int) bool {
	if !p.Accepts(k) {
		return false
	}
	if amount <= 0 {
		return true
	}
	if existing, ok := p.Counters[k]; ok {
		existing.Add(amount)
	} else {
		p.Counters[k] = &Counter{Name: k, Count: amount}
	}
	return true
}

// Remove decreases k by amount, clamped at zero. Returns the amount actually removed.
func (p *Pool) Remove(k Keyword, amount int) int {
	c, ok := p.Counters[k]
	if !ok || amount <= 0 {
		return 0
	}
	before := c.Count
	c.Remove(amount)
	if c.Count == 0 {
		delete(p.Counters, k)
	}
	return before - c.Count
}

// Set overwrites k. Negative values are clamped to zero. Returns false if
// the pool does not hold k.
func (p *Pool) Set(k Keyword, value int) bool {
	if !p.Accepts(k) {
		return false
	}
	if value <= 0 {
		delete(p.Counters, k)
		return true
	}
	p.Counters[k] = &Counter{Name: k, Count: value}
	return true
}

// Copy creates a deep copy of the pool.
func (p *Pool) Copy() *Pool {
	out := &Pool{
		allowed:  p.allowed,
		Counters: make(map[Keyword]*Counter, len(p.Counters)),
	}
	for k, c := range p.Counters {
		out.Counters[k] = c.Copy()
	}
	return out
}
