// Package idgen generates card instance and session identifiers.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator generates unique identifiers.
type Generator interface {
	Generate() string
}

// SequentialGenerator generates prefixed sequential ids. Used by tests and
// replays that need stable instance ids.
type SequentialGenerator struct {
	prefix  string
	counter uint64
}

// NewSequential creates a sequential generator.
func NewSequential(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// Generate returns the next id.
func (g *SequentialGenerator) Generate() string {
	n := atomic.AddUint64(&g.counter, 1)
	if g.prefix != "" {
		return fmt.Sprintf("%s-%d", g.prefix, n)
	}
	return fmt.Sprintf("%d", n)
}

// UUIDGenerator generates random UUIDs with an optional prefix.
type UUIDGenerator struct {
	prefix string
}

// NewUUID creates a UUID generator.
func NewUUID(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix}
}

// Generate returns a new UUID-based id.
func (g *UUIDGenerator) Generate() string {
	id := uuid.NewString()
	if g.prefix != "" {
		return g.prefix + "-" + id
	}
	return id
}
