package rules

import (
	"fmt"

	"github.com/curtaincall/curtaincall-server-go/internal/game/counters"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
)

// Reasons a card cannot be played.
const (
	ReasonNotPlayerPhase     = "not_player_phase"
	ReasonCardNotInHand      = "card_not_in_hand"
	ReasonKnockedOut         = "knocked_out"
	ReasonStageFright        = "stage_fright"
	ReasonHeckled            = "heckled"
	ReasonInsufficientEnergy = "insufficient_energy"
)

// GameStateAccessor provides the state a legality check reads.
type GameStateAccessor interface {
	Phase() Phase
	Session() *state.Session
}

// LegalityResult represents the result of a legality check.
type LegalityResult struct {
	Legal   bool
	Reason  string
	Details map[string]string
}

// Legal is the passing result.
var Legal = LegalityResult{Legal: true}

func illegal(reason string, card *state.CardInstance, extra ...string) LegalityResult {
	details := map[string]string{
		"card_id":     card.ID(),
		"instance_id": card.InstanceID,
	}
	for i := 0; i+1 < len(extra); i += 2 {
		details[extra[i]] = extra[i+1]
	}
	return LegalityResult{Legal: false, Reason: reason, Details: details}
}

// LegalityChecker validates card plays before any state changes.
type LegalityChecker struct {
	gameState GameStateAccessor
}

// NewLegalityChecker creates a new legality checker.
func NewLegalityChecker(gameState GameStateAccessor) *LegalityChecker {
	return &LegalityChecker{gameState: gameState}
}

// CanPlay checks whether a card may be played right now. It does not check
// that the card is in hand; see CheckPlay.
func (lc *LegalityChecker) CanPlay(card *state.CardInstance) LegalityResult {
	if lc.gameState.Phase() != PhasePlayer {
		return illegal(ReasonNotPlayerPhase, card, "phase", lc.gameState.Phase().String())
	}
	s := lc.gameState.Session()

	owner := card.Owner()
	if owner.IsCharacter() {
		if s.IsKnockedOut(owner) {
			return illegal(ReasonKnockedOut, card, "owner", string(owner))
		}
		kw := s.CharacterKeywords(owner)
		if card.IsAttack() && kw.Get(counters.KeywordStageFright) > 0 {
			return illegal(ReasonStageFright, card, "owner", string(owner))
		}
		if !card.IsAttack() && kw.Get(counters.KeywordHeckled) > 0 {
			return illegal(ReasonHeckled, card, "owner", string(owner))
		}
	}

	if cost := card.EffectiveCost(); cost > s.Energy.Current {
		return illegal(ReasonInsufficientEnergy, card,
			"cost", fmt.Sprintf("%d", cost),
			"energy", fmt.Sprintf("%d", s.Energy.Current))
	}
	return Legal
}

// CheckPlay resolves an instance id in hand and checks it.
func (lc *LegalityChecker) CheckPlay(instanceID string) (*state.CardInstance, LegalityResult) {
	card, ok := lc.gameState.Session().Hand.Find(instanceID)
	if !ok {
		return nil, LegalityResult{
			Legal:   false,
			Reason:  ReasonCardNotInHand,
			Details: map[string]string{"instance_id": instanceID},
		}
	}
	return card, lc.CanPlay(card)
}
