package game

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/curtaincall/curtaincall-server-go/internal/game/content"
	"github.com/curtaincall/curtaincall-server-go/internal/game/counters"
	"github.com/curtaincall/curtaincall-server-go/internal/game/idgen"
	"github.com/curtaincall/curtaincall-server-go/internal/game/passives"
	"github.com/curtaincall/curtaincall-server-go/internal/game/presenter"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rng"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rules"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
	"github.com/curtaincall/curtaincall-server-go/internal/game/watchers"
	"go.uber.org/zap"
)

// ErrCombatStarted is returned when StartCombat is called twice on one engine.
var ErrCombatStarted = errors.New("combat already started")

// Engine resolves one combat. Public methods are safe for concurrent use;
// everything they trigger (listeners, presenter calls) runs synchronously
// under the engine lock, so a presenter must never call back into the engine.
type Engine struct {
	mu sync.Mutex

	cfg       state.Config
	catalog   *content.Catalog
	logger    *zap.Logger
	bus       *rules.EventBus
	lifecycle *rules.Lifecycle
	queue     *rules.EffectQueue
	legality  *rules.LegalityChecker
	registry  *passives.Registry
	stats     *watchers.CombatStats
	rng       rng.Source
	presenter presenter.Presenter
	ids       idgen.Generator

	stageProps []string
	macGuffin  string
	difficulty int

	session  *state.Session
	draining bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRNG sets the randomness source.
func WithRNG(src rng.Source) Option {
	return func(e *Engine) {
		if src != nil {
			e.rng = src
		}
	}
}

// WithPresenter sets the notification sink.
func WithPresenter(p presenter.Presenter) Option {
	return func(e *Engine) {
		if p != nil {
			e.presenter = p
		}
	}
}

// WithIDGenerator sets the generator used for session and card instance ids.
func WithIDGenerator(g idgen.Generator) Option {
	return func(e *Engine) {
		if g != nil {
			e.ids = g
		}
	}
}

// WithStageProps sets the stage props active for the combat.
func WithStageProps(ids ...string) Option {
	return func(e *Engine) {
		e.stageProps = append([]string(nil), ids...)
	}
}

// WithMacGuffin selects a MacGuffin variant by id.
func WithMacGuffin(id string) Option {
	return func(e *Engine) {
		e.macGuffin = id
	}
}

// WithDifficulty selects a difficulty level.
func WithDifficulty(level int) Option {
	return func(e *Engine) {
		e.difficulty = level
	}
}

// WithRegistry replaces the passive registry.
func WithRegistry(r *passives.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// NewEngine creates an engine in the setup phase. The seeded randomness
// source defaults to a crypto-random seed.
func NewEngine(cfg state.Config, catalog *content.Catalog, opts ...Option) *Engine {
	e := &Engine{
		cfg:       cfg,
		catalog:   catalog,
		logger:    zap.NewNop(),
		bus:       rules.NewEventBus(),
		queue:     rules.NewEffectQueue(),
		presenter: presenter.Nop{},
		ids:       idgen.NewUUID(""),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		seed, err := rng.NewSeed()
		if err != nil {
			e.logger.Warn("falling back to fixed seed", zap.Error(err))
		}
		e.rng = rng.NewSeeded(seed)
	}
	if e.registry == nil {
		e.registry = passives.Default(e.logger)
	}
	e.lifecycle = rules.NewLifecycle(e.logger)
	e.legality = rules.NewLegalityChecker(view{e})
	e.stats = watchers.NewCombatStats()
	e.stats.Attach(e.bus)
	e.session = state.NewSession(e.ids.Generate(), cfg)
	return e
}

// view exposes engine state to the legality checker without taking the lock.
type view struct{ e *Engine }

func (v view) Phase() rules.Phase      { return v.e.lifecycle.Phase() }
func (v view) Session() *state.Session { return v.e.session }

// Bus returns the event bus. Listeners registered from outside the engine
// run under the engine lock.
func (e *Engine) Bus() *rules.EventBus {
	return e.bus
}

// Phase returns the current phase.
func (e *Engine) Phase() rules.Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lifecycle.Phase()
}

// Session returns the live session. Callers must not mutate it while the
// engine may be driven from another goroutine.
func (e *Engine) Session() *state.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// Stats returns the combat statistics gathered so far.
func (e *Engine) Stats() watchers.StatsView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats.View()
}

// StartCombat builds the deck, sets up the enemy and passives and starts
// turn 1. An empty deck list uses the catalog starting deck plus the
// MacGuffin variant's cards.
func (e *Engine) StartCombat(ctx context.Context, enemyID string, deckIDs []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.lifecycle.Phase() != rules.PhaseSetup || e.session.Enemy != nil {
		return ErrCombatStarted
	}
	def, err := e.catalog.Enemy(enemyID)
	if err != nil {
		return fmt.Errorf("start combat: %w", err)
	}

	s := e.session
	var variant *content.MacGuffinVariant
	if e.macGuffin != "" {
		v, ok := e.catalog.MacGuffin(e.macGuffin)
		if !ok {
			return fmt.Errorf("start combat: unknown macguffin %q", e.macGuffin)
		}
		variant = v
		s.MacGuffin.Variant = v.ID
		s.MacGuffin.Name = v.Name
		if v.HP > 0 {
			s.MacGuffin.CurrentHP, s.MacGuffin.MaxHP = v.HP, v.HP
		}
	}

	if len(deckIDs) == 0 {
		deckIDs = e.catalog.StartingDeck()
		if variant != nil {
			deckIDs = append(deckIDs, variant.StartingCards...)
		}
	}
	cards := make([]*content.CardDefinition, 0, len(deckIDs))
	for _, id := range deckIDs {
		card, err := e.catalog.Card(id)
		if err != nil {
			return fmt.Errorf("start combat: %w", err)
		}
		cards = append(cards, card)
	}
	diff, err := e.lookupDifficulty()
	if err != nil {
		return fmt.Errorf("start combat: %w", err)
	}

	for _, card := range cards {
		s.Deck.Push(state.NewCardInstance(e.ids.Generate(), card))
	}
	rng.Shuffle(e.rng, s.Deck.Len(), s.Deck.Swap)

	s.Enemy = state.NewEnemy(def)
	if diff != nil {
		e.applyDifficulty(*diff)
	}

	host := passiveHost{e}
	for _, p := range def.Passives {
		e.registry.Activate(host, passives.KindEnemy, p.ID, passives.OwnerEnemy)
	}
	for _, id := range e.stageProps {
		e.registry.Activate(host, passives.KindStageProp, id, passives.OwnerStageProp)
	}
	if variant != nil && variant.Passive != "" {
		e.registry.Activate(host, passives.KindMacGuffin, variant.Passive, passives.OwnerMacGuffin)
	}

	if pattern := s.Enemy.Pattern(); len(pattern) > 0 {
		s.Enemy.PatternIndex = 0
		e.setIntent(pattern[0])
	}

	e.logger.Info("combat started",
		zap.String("session_id", s.ID),
		zap.String("enemy_id", def.ID),
		zap.Bool("boss", def.IsBoss),
		zap.Int("deck_size", s.Deck.Len()),
		zap.Int("difficulty", e.difficulty),
	)
	e.bus.Emit(ctx, rules.EventCombatStart, rules.CombatStartPayload{EnemyID: def.ID, IsBoss: def.IsBoss})
	e.startTurn(ctx)
	return nil
}

func (e *Engine) lookupDifficulty() (*content.Difficulty, error) {
	if e.difficulty <= 0 {
		return nil, nil
	}
	d, ok := e.catalog.Difficulty(e.difficulty)
	if !ok {
		return nil, fmt.Errorf("unknown difficulty %d", e.difficulty)
	}
	return &d, nil
}

func (e *Engine) applyDifficulty(d content.Difficulty) {
	s := e.session
	if d.HPMultiplier > 0 {
		hp := int(math.Round(float64(s.Enemy.MaxHP) * d.HPMultiplier))
		s.Enemy.CurrentHP, s.Enemy.MaxHP = hp, hp
	}
	if d.EnemyInspire > 0 {
		s.Keywords.Enemy.Add(counters.KeywordInspire, d.EnemyInspire)
	}
	if d.MaxEnergy > 0 {
		s.Energy.Max, s.Energy.Current = d.MaxEnergy, d.MaxEnergy
	}
}

func (e *Engine) present(n presenter.Notification) {
	e.presenter.Present(n)
}

func (e *Engine) message(target, text string) {
	e.present(presenter.Notification{Kind: presenter.KindMessage, Target: target, Text: text})
}

func (e *Engine) terminal() bool {
	return e.lifecycle.Phase().IsTerminal()
}

// passiveHost is the view of the engine handed to passive behaviors. It
// calls the unlocked internals: listeners always run inside a locked entry
// point.
type passiveHost struct{ e *Engine }

func (h passiveHost) Bus() *rules.EventBus             { return h.e.bus }
func (h passiveHost) Session() *state.Session          { return h.e.session }
func (h passiveHost) RNG() rng.Source                  { return h.e.rng }
func (h passiveHost) Logger() *zap.Logger              { return h.e.logger }
func (h passiveHost) Present(n presenter.Notification) { h.e.present(n) }

func (h passiveHost) GainOvation(ctx context.Context, amount int) {
	h.e.gainOvation(ctx, amount)
}

func (h passiveHost) DrawCards(ctx context.Context, n int) int {
	return h.e.drawCards(ctx, n)
}

func (h passiveHost) HealEnemy(ctx context.Context, amount int) int {
	return h.e.healEnemy(ctx, amount)
}

func (h passiveHost) LoseEnemyHP(ctx context.Context, amount int) {
	h.e.loseEnemyHP(ctx, amount)
}

func (h passiveHost) ApplyDebuffToCharacter(ctx context.Context, id state.CharacterID, kw counters.Keyword, value int) bool {
	return h.e.applyDebuffToCharacter(ctx, id, kw, value)
}
