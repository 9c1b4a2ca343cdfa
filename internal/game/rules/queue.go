package rules

import (
	"sync"

	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
)

// QueuedPlay is a played card waiting for its effects to resolve.
type QueuedPlay struct {
	Card   *state.CardInstance
	Target state.CharacterID
}

// EffectQueue holds played cards in play order. One drainer resolves each
// entry fully before taking the next.
type EffectQueue struct {
	mu    sync.Mutex
	items []QueuedPlay
}

// NewEffectQueue creates an empty queue.
func NewEffectQueue() *EffectQueue {
	return &EffectQueue{
		items: make([]QueuedPlay, 0, 8),
	}
}

// Enqueue appends a play to the back of the queue.
func (q *EffectQueue) Enqueue(play QueuedPlay) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, play)
}

// Dequeue removes the oldest play.
func (q *EffectQueue) Dequeue() (QueuedPlay, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return QueuedPlay{}, false
	}
	item := q.items[0]
	q.items[0] = QueuedPlay{}
	q.items = q.items[1:]
	return item, true
}

// Peek returns the oldest play without removing it.
func (q *EffectQueue) Peek() (QueuedPlay, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return QueuedPlay{}, false
	}
	return q.items[0], true
}

// List returns a copy of all queued plays, oldest first.
func (q *EffectQueue) List() []QueuedPlay {
	q.mu.Lock()
	defer q.mu.Unlock()
	cpy := make([]QueuedPlay, len(q.items))
	copy(cpy, q.items)
	return cpy
}

// Len returns the number of queued plays.
func (q *EffectQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// IsEmpty returns whether the queue is empty.
func (q *EffectQueue) IsEmpty() bool {
	return q.Len() == 0
}

// Clear drops every queued play.
func (q *EffectQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = q.items[:0]
}
