// Package rng provides the injectable random source used by every
// probabilistic rule.
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Source draws uniform values.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n). n must be positive.
	IntN(n int) int
}

// NewSeed generates a seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// Seeded is a deterministic PCG source.
type Seeded struct {
	seed uint64
	r    *rand.Rand
}

// NewSeeded creates a deterministic source.
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{seed: seed, r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Seed returns the seed the source was created with.
func (s *Seeded) Seed() uint64 { return s.seed }

// Float64 implements Source.
func (s *Seeded) Float64() float64 { return s.r.Float64() }

// IntN implements Source.
func (s *Seeded) IntN(n int) int { return s.r.IntN(n) }

// Sequence replays fixed values. Float64 cycles through floats; IntN maps the
// same values onto [0, n). Tests use it to force probability checks.
type Sequence struct {
	values []float64
	next   int
}

// NewSequence creates a source that returns values in order, repeating.
// Without values it always returns 0.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

// Float64 implements Source.
func (s *Sequence) Float64() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// IntN implements Source.
func (s *Sequence) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return min(n-1, int(s.Float64()*float64(n)))
}

// Shuffle permutes n elements with the Fisher-Yates algorithm.
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, src.IntN(i+1))
	}
}

// Chance reports whether a draw falls under p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}
