package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededIsDeterministic(t *testing.T) {
	a, b := NewSeeded(42), NewSeeded(42)
	for range 20 {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.IntN(7), b.IntN(7))
	}
	assert.Equal(t, uint64(42), a.Seed())
}

func TestSequence(t *testing.T) {
	s := NewSequence(0.1, 0.9)
	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 0.9, s.Float64())
	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 3, s.IntN(4)) // 0.9*4
	assert.Equal(t, 0, s.IntN(4)) // 0.1*4
	assert.Equal(t, 0, s.IntN(0))
	assert.Equal(t, 0.0, NewSequence().Float64())

	assert.Equal(t, 9, NewSequence(0.9999).IntN(10))
}

func TestShufflePermutes(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}
	Shuffle(NewSeeded(7), len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6}, items)
}

func TestChance(t *testing.T) {
	assert.True(t, Chance(NewSequence(0.49), 0.5))
	assert.False(t, Chance(NewSequence(0.5), 0.5))
}

func TestNewSeed(t *testing.T) {
	_, err := NewSeed()
	require.NoError(t, err)
}
