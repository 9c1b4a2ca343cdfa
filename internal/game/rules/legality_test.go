package rules

import (
	"testing"

	"github.com/curtaincall/curtaincall-server-go/internal/game/content"
	"github.com/curtaincall/curtaincall-server-go/internal/game/counters"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
)

// mockGameStateAccessor implements GameStateAccessor for testing
type mockGameStateAccessor struct {
	phase   Phase
	session *state.Session
}

func (m *mockGameStateAccessor) Phase() Phase            { return m.phase }
func (m *mockGameStateAccessor) Session() *state.Session { return m.session }

func newMockGameStateAccessor() *mockGameStateAccessor {
	return &mockGameStateAccessor{
		phase:   PhasePlayer,
		session: state.NewSession("test", state.DefaultConfig()),
	}
}

func handCard(s *state.Session, id, owner string, cardType content.CardType, cost int) *state.CardInstance {
	c := state.NewCardInstance(id, &content.CardDefinition{ID: id, Owner: owner, Type: cardType, Cost: cost})
	s.Hand.Push(c)
	return c
}

func TestLegalityChecker_CanPlay(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(m *mockGameStateAccessor)
		owner    string
		cardType content.CardType
		cost     int
		want     string
	}{
		{name: "legal attack", owner: "A", cardType: content.CardTypeAttack, cost: 1},
		{name: "macguffin card ignores character state", owner: "macguffin", cardType: content.CardTypeDefense,
			setup: func(m *mockGameStateAccessor) { m.session.Characters[state.CharacterA].KnockedOut = true }},
		{name: "enemy phase", owner: "A", cardType: content.CardTypeAttack, want: ReasonNotPlayerPhase,
			setup: func(m *mockGameStateAccessor) { m.phase = PhaseEnemy }},
		{name: "knocked out owner", owner: "B", cardType: content.CardTypeAction, want: ReasonKnockedOut,
			setup: func(m *mockGameStateAccessor) { m.session.Characters[state.CharacterB].KnockedOut = true }},
		{name: "stage fright blocks attacks", owner: "A", cardType: content.CardTypeAttack, want: ReasonStageFright,
			setup: func(m *mockGameStateAccessor) {
				m.session.CharacterKeywords(state.CharacterA).Add(counters.KeywordStageFright, 1)
			}},
		{name: "stage fright allows defense", owner: "A", cardType: content.CardTypeDefense,
			setup: func(m *mockGameStateAccessor) {
				m.session.CharacterKeywords(state.CharacterA).Add(counters.KeywordStageFright, 1)
			}},
		{name: "heckled blocks non-attacks", owner: "A", cardType: content.CardTypeEnchantment, want: ReasonHeckled,
			setup: func(m *mockGameStateAccessor) {
				m.session.CharacterKeywords(state.CharacterA).Add(counters.KeywordHeckled, 2)
			}},
		{name: "heckled allows attacks", owner: "A", cardType: content.CardTypeAttack,
			setup: func(m *mockGameStateAccessor) {
				m.session.CharacterKeywords(state.CharacterA).Add(counters.KeywordHeckled, 2)
			}},
		{name: "too expensive", owner: "B", cardType: content.CardTypeAttack, cost: 4, want: ReasonInsufficientEnergy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMockGameStateAccessor()
			if tt.setup != nil {
				tt.setup(m)
			}
			card := handCard(m.session, "c1", tt.owner, tt.cardType, tt.cost)

			result := NewLegalityChecker(m).CanPlay(card)
			if tt.want == "" {
				if !result.Legal {
					t.Fatalf("expected legal play, got %s (%v)", result.Reason, result.Details)
				}
				return
			}
			if result.Legal {
				t.Fatalf("expected illegal play (%s), got legal", tt.want)
			}
			if result.Reason != tt.want {
				t.Fatalf("expected reason %q, got %q", tt.want, result.Reason)
			}
			if result.Details["instance_id"] != "c1" {
				t.Fatalf("expected instance_id detail, got %v", result.Details)
			}
		})
	}
}

func TestLegalityChecker_CostReduction(t *testing.T) {
	m := newMockGameStateAccessor()
	m.session.Energy.Current = 1
	card := handCard(m.session, "c1", "A", content.CardTypeAttack, 3)

	checker := NewLegalityChecker(m)
	if checker.CanPlay(card).Legal {
		t.Fatal("expected cost 3 to exceed 1 energy")
	}
	card.CostReduction = 2
	if result := checker.CanPlay(card); !result.Legal {
		t.Fatalf("expected reduced card to be legal, got %s", result.Reason)
	}
}

func TestLegalityChecker_CheckPlay(t *testing.T) {
	m := newMockGameStateAccessor()
	handCard(m.session, "c1", "A", content.CardTypeAttack, 1)
	checker := NewLegalityChecker(m)

	card, result := checker.CheckPlay("c1")
	if !result.Legal || card == nil {
		t.Fatalf("expected c1 playable, got %s", result.Reason)
	}

	card, result = checker.CheckPlay("missing")
	if result.Legal || result.Reason != ReasonCardNotInHand || card != nil {
		t.Fatalf("expected card_not_in_hand, got %+v", result)
	}
}
