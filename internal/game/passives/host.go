package passives

import (
	"context"

	"github.com/curtaincall/curtaincall-server-go/internal/game/counters"
	"github.com/curtaincall/curtaincall-server-go/internal/game/presenter"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rng"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rules"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
	"go.uber.org/zap"
)

// Host is the part of the engine a behavior may touch. Plain counter
// changes go straight through Session; anything that emits events or can
// end the combat goes through a method.
type Host interface {
	Bus() *rules.EventBus
	Session() *state.Session
	RNG() rng.Source
	Logger() *zap.Logger
	Present(n presenter.Notification)

	GainOvation(ctx context.Context, amount int)
	DrawCards(ctx context.Context, n int) int
	HealEnemy(ctx context.Context, amount int) int
	// LoseEnemyHP removes HP without mitigation and runs the defeat check.
	LoseEnemyHP(ctx context.Context, amount int)
	// ApplyDebuffToCharacter applies a debuff through the ward check.
	ApplyDebuffToCharacter(ctx context.Context, id state.CharacterID, kw counters.Keyword, value int) bool
}

// on subscribes fn under owner with an optional priority.
func on(h Host, owner string, name rules.EventName, fn rules.Handler, opts ...rules.ListenerOption) {
	h.Bus().On(name, fn, append([]rules.ListenerOption{rules.WithOwner(owner)}, opts...)...)
}

func message(h Host, target, text string) {
	h.Present(presenter.Notification{Kind: presenter.KindMessage, Target: target, Text: text})
}
