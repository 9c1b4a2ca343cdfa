package counters

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolAllowedKeys(t *testing.T) {
	p := NewPool(MacGuffinKeys...)

	assert.True(t, p.Add(KeywordVulnerable, 2))
	assert.False(t, p.Add(KeywordPoison, 1), "macguffin cannot carry poison")
	assert.Equal(t, 2, p.Get(KeywordVulnerable))
	assert.Equal(t, 0, p.Get(KeywordPoison))

	open := NewPool()
	assert.True(t, open.Add("anything", 1))
}

func TestPoolRemoveClamps(t *testing.T) {
	p := NewPool(CharacterKeys...)
	p.Add(KeywordBurn, 2)

	removed := p.Remove(KeywordBurn, 5)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 0, p.Get(KeywordBurn))
	assert.False(t, p.Has(KeywordBurn))
	assert.Equal(t, 0, p.Remove(KeywordBurn, 1))

	p.Set(KeywordFear, -3)
	assert.Equal(t, 0, p.Get(KeywordFear))
}

func TestPoolAggregates(t *testing.T) {
	p := NewPool(EnemyKeys...)
	p.Add(KeywordPoison, 3)
	p.Add(KeywordWeak, 1)
	p.Add(KeywordBlock, 10)

	assert.Equal(t, 4, p.Total(EnemyDebuffKeys...))
	assert.Equal(t, 2, p.Unique(EnemyDebuffKeys...))
	assert.Equal(t, []Keyword{KeywordPoison, KeywordWeak}, p.Active(EnemyDebuffKeys...))

	p.Decay(EnemyDebuffKeys...)
	assert.Equal(t, 2, p.Get(KeywordPoison))
	assert.Equal(t, 0, p.Get(KeywordWeak))
	assert.Equal(t, 10, p.Get(KeywordBlock))

	p.Clear(KeywordBlock)
	assert.Equal(t, 0, p.Get(KeywordBlock))
	p.Clear()
	assert.Empty(t, p.ToView())
}

func TestPoolCopyIsIndependent(t *testing.T) {
	p := NewPool(GlobalKeys...)
	p.Add(KeywordLuck, 2)

	cp := p.Copy()
	cp.Add(KeywordLuck, 3)

	assert.Equal(t, 2, p.Get(KeywordLuck))
	assert.Equal(t, 5, cp.Get(KeywordLuck))
	assert.False(t, cp.Add(KeywordRegenerate, 1), "copy keeps the allowed set")
}

func TestOvationClamp(t *testing.T) {
	ks := NewKeywordState("A", "B")

	assert.Equal(t, MaxOvation, ks.SetOvation(9))
	assert.Equal(t, 0, ks.SetOvation(-2))
	assert.Equal(t, 3, ks.SetOvation(3))
	assert.Equal(t, 3, ks.Ovation())
}

// Randomized mutation sequences never leave a counter out of range.
func TestKeywordStateNeverNegative(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	ks := NewKeywordState("A", "B")
	pools := []*Pool{ks.Global, ks.Character("A"), ks.Character("B"), ks.MacGuffin, ks.Enemy}
	keys := append(append([]Keyword{}, GlobalKeys...), EnemyKeys...)

	for i := 0; i < 5000; i++ {
		p := pools[r.IntN(len(pools))]
		k := keys[r.IntN(len(keys))]
		amount := r.IntN(7) - 2
		switch r.IntN(5) {
		case 0:
			p.Add(k, amount)
		case 1:
			p.Remove(k, amount)
		case 2:
			p.Set(k, amount)
		case 3:
			p.Decay(k)
		case 4:
			ks.SetOvation(ks.Ovation() + amount)
		}
	}

	for _, p := range pools {
		for k, c := range p.Counters {
			require.GreaterOrEqual(t, c.Count, 0, "counter %s", k)
		}
	}
	assert.LessOrEqual(t, ks.Ovation(), MaxOvation)
	assert.GreaterOrEqual(t, ks.Ovation(), 0)
}

func TestKeywordViewSorted(t *testing.T) {
	ks := NewKeywordState("A")
	ks.Global.Add(KeywordWard, 1)
	ks.Global.Add(KeywordFocus, 2)
	ks.Character("A").Add(KeywordPoison, 4)

	view := ks.ToView()
	require.Len(t, view.Global, 2)
	assert.Equal(t, "focus", view.Global[0].Name)
	assert.Equal(t, "ward", view.Global[1].Name)
	assert.Equal(t, []CounterView{{Name: "poison", Count: 4}}, view.Characters["A"])
}

func TestGlossary(t *testing.T) {
	assert.True(t, IsDebuff(KeywordFear))
	assert.False(t, IsDebuff(KeywordInspire))
	assert.False(t, IsKnown("bogus"))
	info, ok := Lookup(KeywordStageFright)
	require.True(t, ok)
	assert.Equal(t, "Stage Fright", info.Name)
}
