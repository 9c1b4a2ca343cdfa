package passives

import (
	"context"

	"github.com/curtaincall/curtaincall-server-go/internal/game/rules"
)

// MacGuffin passive ids.
const (
	TomeVelocity  = "tome-velocity"
	RoyalPresence = "royal-presence"
)

const (
	tomeVelocityCards     = 5
	royalPresenceFloor    = 2
	royalPresencePriority = 5
)

func macGuffinBehaviors() []Behavior {
	meta := func(id, name, desc string) Meta {
		return Meta{ID: id, Kind: KindMacGuffin, Name: name, Description: desc}
	}
	return []Behavior{
		{Meta: meta(TomeVelocity, "Tome Velocity", "After playing 5 cards in a turn, draw 1."), Register: registerTomeVelocity},
		{Meta: meta(RoyalPresence, "Royal Presence", "Ovation cannot decay below 2."), Register: registerRoyalPresence},
	}
}

func registerTomeVelocity(h Host, owner string) {
	on(h, owner, rules.EventCardPlayed, func(ctx context.Context, evt *rules.Event) {
		if p, ok := evt.Payload.(rules.CardPlayedPayload); ok && p.CardsPlayedThisTurn == tomeVelocityCards {
			h.DrawCards(ctx, 1)
			message(h, "macguffin", "Tome: Draw!")
		}
	})
}

// Runs after the start-of-turn decay, ahead of ordinary turn-start listeners.
func registerRoyalPresence(h Host, owner string) {
	on(h, owner, rules.EventPlayerTurnStart, func(context.Context, *rules.Event) {
		ks := h.Session().Keywords
		if ov := ks.Ovation(); ov > 0 && ov < royalPresenceFloor {
			ks.SetOvation(royalPresenceFloor)
		}
	}, rules.WithPriority(royalPresencePriority))
}
