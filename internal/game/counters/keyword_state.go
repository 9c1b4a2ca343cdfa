package counters

// KeywordState holds every keyword counter of a combat.
type KeywordState struct {
	Global     *Pool
	Characters map[string]*Pool
	MacGuffin  *Pool
	Enemy      *Pool
}

// NewKeywordState creates empty pools for the given character ids.
func NewKeywordState(characterIDs ...string) *KeywordState {
	ks := &KeywordState{
		Global:     NewPool(GlobalKeys...),
		Characters: make(map[string]*Pool, len(characterIDs)),
		MacGuffin:  NewPool(MacGuffinKeys...),
		Enemy:      NewPool(EnemyKeys...),
	}
	for _, id := range characterIDs {
		ks.Characters[id] = NewPool(CharacterKeys...)
	}
	return ks
}

// Character returns the pool of a character, or an empty detached pool for
// an unknown id so reads stay safe.
func (ks *KeywordState) Character(id string) *Pool {
	if p, ok := ks.Characters[id]; ok {
		return p
	}
	return NewPool(CharacterKeys...)
}

// Ovation returns the current ovation.
func (ks *KeywordState) Ovation() int {
	return ks.Global.Get(KeywordOvation)
}

// SetOvation stores ovation clamped to [0, MaxOvation] and returns the stored value.
func (ks *KeywordState) SetOvation(value int) int {
	value = max(0, min(MaxOvation, value))
	ks.Global.Set(KeywordOvation, value)
	return value
}

// Copy creates a deep copy of every pool.
func (ks *KeywordState) Copy() *KeywordState {
	out := &KeywordState{
		Global:     ks.Global.Copy(),
		Characters: make(map[string]*Pool, len(ks.Characters)),
		MacGuffin:  ks.MacGuffin.Copy(),
		Enemy:      ks.Enemy.Copy(),
	}
	for id, p := range ks.Characters {
		out.Characters[id] = p.Copy()
	}
	return out
}

// KeywordView is the snapshot form of a KeywordState.
type KeywordView struct {
	Global     []CounterView            `json:"global"`
	Characters map[string][]CounterView `json:"characters"`
	MacGuffin  []CounterView            `json:"macguffin"`
	Enemy      []CounterView            `json:"enemy"`
}

// ToView flattens the state for snapshots.
func (ks *KeywordState) ToView() KeywordView {
	view := KeywordView{
		Global:     ks.Global.ToView(),
		Characters: make(map[string][]CounterView, len(ks.Characters)),
		MacGuffin:  ks.MacGuffin.ToView(),
		Enemy:      ks.Enemy.ToView(),
	}
	for id, p := range ks.Characters {
		view.Characters[id] = p.ToView()
	}
	return view
}
