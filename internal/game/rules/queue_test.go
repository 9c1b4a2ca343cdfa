package rules

import (
	"sync"
	"testing"

	"github.com/curtaincall/curtaincall-server-go/internal/game/content"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
)

func testCard(instanceID string) *state.CardInstance {
	return state.NewCardInstance(instanceID, &content.CardDefinition{ID: "galvanize", Owner: "A", Type: content.CardTypeAttack, Cost: 1})
}

func TestEffectQueueFIFO(t *testing.T) {
	q := NewEffectQueue()
	if !q.IsEmpty() {
		t.Fatalf("new queue should be empty")
	}

	q.Enqueue(QueuedPlay{Card: testCard("c1"), Target: state.CharacterA})
	q.Enqueue(QueuedPlay{Card: testCard("c2")})

	head, ok := q.Peek()
	if !ok || head.Card.InstanceID != "c1" {
		t.Fatalf("expected c1 at head, got %+v", head)
	}

	first, ok := q.Dequeue()
	if !ok || first.Card.InstanceID != "c1" || first.Target != state.CharacterA {
		t.Fatalf("expected FIFO order (c1 first), got %+v", first)
	}
	second, ok := q.Dequeue()
	if !ok || second.Card.InstanceID != "c2" {
		t.Fatalf("expected c2 second, got %+v", second)
	}
	if _, ok := q.Dequeue(); ok {
		t.Fatalf("expected empty queue")
	}
}

func TestEffectQueueListAndClear(t *testing.T) {
	q := NewEffectQueue()
	q.Enqueue(QueuedPlay{Card: testCard("c1")})
	q.Enqueue(QueuedPlay{Card: testCard("c2")})

	items := q.List()
	if len(items) != 2 || q.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	items[0] = QueuedPlay{}
	if head, _ := q.Peek(); head.Card == nil {
		t.Fatalf("List must return a copy")
	}

	q.Clear()
	if !q.IsEmpty() {
		t.Fatalf("expected empty queue after Clear")
	}
}

func TestEffectQueueConcurrentEnqueue(t *testing.T) {
	q := NewEffectQueue()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q.Enqueue(QueuedPlay{Card: testCard(string(rune('a' + i%26)))})
		}(i)
	}
	wg.Wait()
	if q.Len() != 50 {
		t.Fatalf("expected 50 items, got %d", q.Len())
	}
}
