package game

import (
	"context"

	"github.com/curtaincall/curtaincall-server-go/internal/game/presenter"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rng"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rules"
	"go.uber.org/zap"
)

// drawCards moves up to n cards from the deck into the hand. An empty deck
// is refilled from the shuffled discard pile; drawing stops when both are
// empty.
func (e *Engine) drawCards(ctx context.Context, n int) int {
	s := e.session
	drawn := 0
	for range n {
		if s.Deck.IsEmpty() {
			if s.Discard.IsEmpty() {
				break
			}
			s.Deck.Push(s.Discard.TakeAll()...)
			rng.Shuffle(e.rng, s.Deck.Len(), s.Deck.Swap)
			e.logger.Debug("discard reshuffled into deck", zap.Int("deck_size", s.Deck.Len()))
		}
		card, ok := s.Deck.PopFront()
		if !ok {
			break
		}
		s.Hand.Push(card)
		drawn++
		e.present(presenter.Notification{Kind: presenter.KindCard, Target: string(card.Owner()), Text: card.ID()})
		e.bus.Emit(ctx, rules.EventCardDrawn, rules.CardDrawnPayload{Card: card})
	}
	return drawn
}

// discardHand moves the whole hand to the discard pile and drops per-play
// modifiers.
func (e *Engine) discardHand() {
	s := e.session
	for _, card := range s.Hand.TakeAll() {
		card.ClearModifiers()
		s.Discard.Push(card)
	}
}
