package game

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/curtaincall/curtaincall-server-go/internal/game/content"
	"github.com/curtaincall/curtaincall-server-go/internal/game/idgen"
	"github.com/curtaincall/curtaincall-server-go/internal/game/presenter"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rng"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rules"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testCards = `
starting_deck: [strike, strike, guard, guard, jab]
cards:
  - {id: strike, name: Strike, owner: A, type: attack, cost: 1, rarity: basic, description: Deal 6 damage., effects: [{type: damage, value: 6}]}
  - {id: heavy, name: Heavy Swing, owner: A, type: attack, cost: 3, rarity: common, description: Deal 10 damage., effects: [{type: damage, value: 10}]}
  - {id: guard, name: Guard, owner: macguffin, type: defense, cost: 1, rarity: basic, description: Gain 5 Block., effects: [{type: block, value: 5}]}
  - {id: jab, name: Jab, owner: B, type: attack, cost: 1, rarity: basic, description: Deal 3 damage., effects: [{type: damage, value: 3}]}
  - {id: double-tap, name: Double Tap, owner: B, type: attack, cost: 0, rarity: common, description: Deal 2 damage twice., effects: [{type: damage, value: 2}, {type: damage, value: 2}]}
  - {id: scare, name: Scare, owner: B, type: action, cost: 0, rarity: common, description: Inflict 3 Fear., effects: [{type: inflict, keyword: fear, value: 3}]}
  - {id: rally, name: Rally, owner: A, type: action, cost: 0, rarity: common, description: Pip's attacks deal 4 more., effects: [{type: buffOtherProtagonistAttacks, value: 4}]}
  - {id: mystery, name: Mystery, owner: macguffin, type: action, cost: 0, rarity: rare, description: Nothing yet., effects: [{type: notAnEffect, value: 1}]}
  - {id: curtain-of-iron, name: Curtain of Iron, owner: macguffin, type: enchantment, cost: 1, rarity: rare, description: Block gains Ovation.}
`

const testEnemies = `
enemies:
  - id: dummy
    name: Training Dummy
    hp: 40
    pattern:
      - {type: attack, value: 5}
  - id: brute
    name: Brute
    hp: 40
    pattern:
      - {type: attack, value: 6, target: all}
  - id: bulwark
    name: Bulwark
    hp: 40
    pattern:
      - type: attack
        target: all
        actions:
          - {type: block, value: 4}
          - {type: attackEqualBlock}
          - {type: attack, value: 1}
  - id: glass
    name: Glass Critic
    hp: 5
    pattern:
      - {type: attack, value: 1}
  - id: knight
    name: Rusty Knight
    hp: 30
    passives:
      - {id: rusty-armor, name: Rusty Armor, description: Starts with 3 Block.}
    pattern:
      - {type: block, value: 4}
  - id: diva
    name: The Diva
    hp: 100
    boss: true
    phases:
      - pattern:
          - {type: block, value: 2}
      - hpThreshold: 0.5
        transition: {block: 10, inspire: 1}
        pattern:
          - {type: attack, value: 1}
      - hpThreshold: 0.25
        transition: {retaliate: 2}
        pattern:
          - {type: attack, value: 2}
`

const testDifficulties = `
difficulties:
  - {level: 0, name: Opening Night, hpMultiplier: 1, enemyInspire: 0, maxEnergy: 3}
  - {level: 1, name: Matinee, hpMultiplier: 1.5, enemyInspire: 1, maxEnergy: 4}
`

func testCatalog(t *testing.T) *content.Catalog {
	t.Helper()
	catalog, err := content.LoadFS(fstest.MapFS{
		content.CardsFile:        {Data: []byte(testCards)},
		content.EnemiesFile:      {Data: []byte(testEnemies)},
		content.DifficultiesFile: {Data: []byte(testDifficulties)},
	})
	require.NoError(t, err)
	return catalog
}

// testCombat wraps an engine with fixed content, stable ids and a source
// whose draws never pass a probability check unless it is certain.
type testCombat struct {
	t       *testing.T
	ctx     context.Context
	catalog *content.Catalog
	engine  *Engine
	notes   []presenter.Notification
}

func newTestEngine(t *testing.T, opts ...Option) *testCombat {
	t.Helper()
	h := &testCombat{t: t, ctx: context.Background(), catalog: testCatalog(t)}
	base := []Option{
		WithLogger(zaptest.NewLogger(t)),
		WithRNG(rng.NewSequence(0.99)),
		WithIDGenerator(idgen.NewSequential("card")),
		WithPresenter(presenter.Func(func(n presenter.Notification) {
			h.notes = append(h.notes, n)
		})),
	}
	h.engine = NewEngine(state.DefaultConfig(), h.catalog, append(base, opts...)...)
	return h
}

func newTestCombat(t *testing.T, enemyID string, opts ...Option) *testCombat {
	t.Helper()
	h := newTestEngine(t, opts...)
	require.NoError(t, h.engine.StartCombat(h.ctx, enemyID, nil))
	require.Equal(t, rules.PhasePlayer, h.engine.Phase())
	return h
}

func (h *testCombat) session() *state.Session {
	return h.engine.session
}

// give puts a fresh instance of a card into the hand.
func (h *testCombat) give(cardID string) *state.CardInstance {
	h.t.Helper()
	def, err := h.catalog.Card(cardID)
	require.NoError(h.t, err)
	card := state.NewCardInstance(h.engine.ids.Generate(), def)
	h.session().Hand.Push(card)
	return card
}

// emptyHand discards the opening hand so tests control what is playable.
func (h *testCombat) emptyHand() {
	h.session().Discard.Push(h.session().Hand.TakeAll()...)
}

func (h *testCombat) play(card *state.CardInstance, target state.CharacterID) rules.LegalityResult {
	return h.engine.PlayCard(h.ctx, card.InstanceID, target)
}

func (h *testCombat) character(id state.CharacterID) *state.Character {
	c, ok := h.session().Character(id)
	require.True(h.t, ok)
	return c
}

// count subscribes to an event and returns a pointer to its emission count.
func (h *testCombat) count(name rules.EventName) *int {
	n := new(int)
	h.engine.bus.On(name, func(context.Context, *rules.Event) { *n++ })
	return n
}

func (h *testCombat) messages(text string) int {
	n := 0
	for _, note := range h.notes {
		if note.Kind == presenter.KindMessage && note.Text == text {
			n++
		}
	}
	return n
}
