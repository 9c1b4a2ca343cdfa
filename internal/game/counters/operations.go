package counters

import "sort"

// Decay decrements each of keys by one when above zero.
func (p *Pool) Decay(keys ...Keyword) {
	for _, k := range keys {
		p.Remove(k, 1)
	}
}

// Clear zeroes each of keys. With no keys, the whole pool is emptied.
func (p *Pool) Clear(keys ...Keyword) {
	if len(keys) == 0 {
		p.Counters = make(map[Keyword]*Counter)
		return
	}
	for _, k := range keys {
		delete(p.Counters, k)
	}
}

// Total sums the counts of keys.
func (p *Pool) Total(keys ...Keyword) int {
	total := 0
	for _, k := range keys {
		total += p.Get(k)
	}
	return total
}

// Unique counts how many of keys are above zero.
func (p *Pool) Unique(keys ...Keyword) int {
	n := 0
	for _, k := range keys {
		if p.Has(k) {
			n++
		}
	}
	return n
}

// Active returns the keys among candidates that are above zero, in candidate order.
func (p *Pool) Active(candidates ...Keyword) []Keyword {
	var out []Keyword
	for _, k := range candidates {
		if p.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// CounterView is a flattened counter for snapshots.
type CounterView struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ToView returns the non-zero counters sorted by name.
func (p *Pool) ToView() []CounterView {
	views := make([]CounterView, 0, len(p.Counters))
	for _, c := range p.Counters {
		if c.Count > 0 {
			views = append(views, CounterView{Name: string(c.Name), Count: c.Count})
		}
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].Name < views[j].Name
	})
	return views
}
