package content

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"sync"

	"github.com/curtaincall/curtaincall-server-go/internal/game/counters"
	"github.com/curtaincall/curtaincall-server-go/internal/game/effects"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownCard is returned when a card id is not in the catalog.
	ErrUnknownCard = errors.New("unknown card")
	// ErrUnknownEnemy is returned when an enemy id is not in the catalog.
	ErrUnknownEnemy = errors.New("unknown enemy")
)

//go:embed data/*.yaml
var defaultFS embed.FS

// Content file names inside a content directory.
const (
	CardsFile        = "cards.yaml"
	EnemiesFile      = "enemies.yaml"
	PropsFile        = "props.yaml"
	MacGuffinsFile   = "macguffins.yaml"
	DifficultiesFile = "difficulties.yaml"
)

// Catalog is the read-only content of a game: cards, enemies, stage props,
// MacGuffin variants and difficulty levels.
type Catalog struct {
	cards        map[string]*CardDefinition
	cardOrder    []string
	enemies      map[string]*EnemyDefinition
	enemyOrder   []string
	props        map[string]*StagePropDefinition
	propOrder    []string
	macguffins   map[string]*MacGuffinVariant
	difficulties []Difficulty
	acts         []Act
	startingDeck []string
}

type cardsFile struct {
	StartingDeck []string          `yaml:"starting_deck"`
	Cards        []*CardDefinition `yaml:"cards"`
}

type enemiesFile struct {
	Enemies []*EnemyDefinition `yaml:"enemies"`
	Acts    []Act              `yaml:"acts"`
}

type propsFile struct {
	StageProps []*StagePropDefinition `yaml:"stage_props"`
}

type macguffinsFile struct {
	MacGuffins []*MacGuffinVariant `yaml:"macguffins"`
}

type difficultiesFile struct {
	Difficulties []Difficulty `yaml:"difficulties"`
}

// LoadFS reads every content file from fsys. Cards and enemies are required;
// the remaining files are optional.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	var cf cardsFile
	if err := decodeFile(fsys, CardsFile, &cf, true); err != nil {
		return nil, err
	}
	var ef enemiesFile
	if err := decodeFile(fsys, EnemiesFile, &ef, true); err != nil {
		return nil, err
	}
	var pf propsFile
	if err := decodeFile(fsys, PropsFile, &pf, false); err != nil {
		return nil, err
	}
	var mf macguffinsFile
	if err := decodeFile(fsys, MacGuffinsFile, &mf, false); err != nil {
		return nil, err
	}
	var df difficultiesFile
	if err := decodeFile(fsys, DifficultiesFile, &df, false); err != nil {
		return nil, err
	}

	c := &Catalog{
		cards:        make(map[string]*CardDefinition, len(cf.Cards)),
		enemies:      make(map[string]*EnemyDefinition, len(ef.Enemies)),
		props:        make(map[string]*StagePropDefinition, len(pf.StageProps)),
		macguffins:   make(map[string]*MacGuffinVariant, len(mf.MacGuffins)),
		difficulties: df.Difficulties,
		acts:         ef.Acts,
		startingDeck: cf.StartingDeck,
	}
	for _, card := range cf.Cards {
		if _, dup := c.cards[card.ID]; dup {
			return nil, fmt.Errorf("content: duplicate card %q", card.ID)
		}
		c.cards[card.ID] = card
		c.cardOrder = append(c.cardOrder, card.ID)
	}
	for _, enemy := range ef.Enemies {
		if _, dup := c.enemies[enemy.ID]; dup {
			return nil, fmt.Errorf("content: duplicate enemy %q", enemy.ID)
		}
		c.enemies[enemy.ID] = enemy
		c.enemyOrder = append(c.enemyOrder, enemy.ID)
	}
	for _, prop := range pf.StageProps {
		c.props[prop.ID] = prop
		c.propOrder = append(c.propOrder, prop.ID)
	}
	for _, mg := range mf.MacGuffins {
		c.macguffins[mg.ID] = mg
	}
	slices.SortFunc(c.difficulties, func(a, b Difficulty) int { return a.Level - b.Level })
	return c, nil
}

func decodeFile(fsys fs.FS, name string, out any, required bool) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("content: read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("content: decode %s: %w", name, err)
	}
	return nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded content. It is parsed once.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(defaultFS, "data")
		if err != nil {
			defaultErr = err
			return
		}
		defaultCatalog, defaultErr = LoadFS(sub)
	})
	return defaultCatalog, defaultErr
}

// MustDefault returns the embedded content and panics if it is broken.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Loader loads catalogs from disk. Concurrent loads of the same path share
// one read.
type Loader struct {
	group  singleflight.Group
	logger *zap.Logger
}

// NewLoader creates a loader.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// Load reads and validates the catalog in dir. An empty dir selects the
// embedded content.
func (l *Loader) Load(ctx context.Context, dir string) (*Catalog, error) {
	ch := l.group.DoChan(dir, func() (any, error) {
		var (
			c   *Catalog
			err error
		)
		if dir == "" {
			c, err = Default()
		} else {
			c, err = LoadFS(os.DirFS(dir))
		}
		if err != nil {
			return nil, err
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		l.logger.Info("content loaded",
			zap.String("path", dir),
			zap.Int("cards", len(c.cards)),
			zap.Int("enemies", len(c.enemies)))
		return c, nil
	})

	select {
	case r := <-ch:
		if r.Err != nil {
			l.logger.Error("content load failed", zap.String("path", dir), zap.Error(r.Err))
			return nil, r.Err
		}
		return r.Val.(*Catalog), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Card returns a card definition.
func (c *Catalog) Card(id string) (*CardDefinition, error) {
	card, ok := c.cards[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCard, id)
	}
	return card, nil
}

// Cards returns every card in file order.
func (c *Catalog) Cards() []*CardDefinition {
	out := make([]*CardDefinition, 0, len(c.cardOrder))
	for _, id := range c.cardOrder {
		out = append(out, c.cards[id])
	}
	return out
}

// Enemy returns an enemy definition.
func (c *Catalog) Enemy(id string) (*EnemyDefinition, error) {
	enemy, ok := c.enemies[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEnemy, id)
	}
	return enemy, nil
}

// Enemies returns every enemy in file order.
func (c *Catalog) Enemies() []*EnemyDefinition {
	out := make([]*EnemyDefinition, 0, len(c.enemyOrder))
	for _, id := range c.enemyOrder {
		out = append(out, c.enemies[id])
	}
	return out
}

// StageProp returns a stage prop definition.
func (c *Catalog) StageProp(id string) (*StagePropDefinition, bool) {
	p, ok := c.props[id]
	return p, ok
}

// StageProps returns every stage prop in file order.
func (c *Catalog) StageProps() []*StagePropDefinition {
	out := make([]*StagePropDefinition, 0, len(c.propOrder))
	for _, id := range c.propOrder {
		out = append(out, c.props[id])
	}
	return out
}

// MacGuffin returns a MacGuffin variant.
func (c *Catalog) MacGuffin(id string) (*MacGuffinVariant, bool) {
	m, ok := c.macguffins[id]
	return m, ok
}

// Difficulty returns the difficulty of a level. Unknown levels fall back to
// level 0 with neutral modifiers.
func (c *Catalog) Difficulty(level int) (Difficulty, bool) {
	for _, d := range c.difficulties {
		if d.Level == level {
			return d, true
		}
	}
	return Difficulty{HPMultiplier: 1, MaxEnergy: 3}, false
}

// Difficulties returns every difficulty level in ascending order.
func (c *Catalog) Difficulties() []Difficulty {
	return slices.Clone(c.difficulties)
}

// Acts returns the act structure.
func (c *Catalog) Acts() []Act {
	return slices.Clone(c.acts)
}

// StartingDeck returns the card ids of the default starting deck.
func (c *Catalog) StartingDeck() []string {
	return slices.Clone(c.startingDeck)
}

// Basic card ids used by the starting deck builder.
const (
	DefaultBasicA = "galvanize"
	DefaultBasicB = "quick-jab"
)

// BuildStartingDeck returns the starting deck with the given basic attacks
// for each character: three of each basic, two Block and one Inspire.
func BuildStartingDeck(basicA, basicB string) []string {
	if basicA == "" {
		basicA = DefaultBasicA
	}
	if basicB == "" {
		basicB = DefaultBasicB
	}
	return []string{basicA, basicA, basicA, basicB, basicB, basicB, "block", "block", "inspire"}
}

// Validate checks every definition and returns all problems joined.
func (c *Catalog) Validate() error {
	var errs []error
	for _, id := range c.cardOrder {
		errs = append(errs, validateCard(c.cards[id])...)
	}
	for _, id := range c.enemyOrder {
		errs = append(errs, validateEnemy(c.enemies[id])...)
	}
	for _, id := range c.startingDeck {
		if _, ok := c.cards[id]; !ok {
			errs = append(errs, fmt.Errorf("starting deck: %w: %s", ErrUnknownCard, id))
		}
	}
	for _, act := range c.acts {
		ids := []string{act.Boss}
		for _, scene := range act.Scenes {
			ids = append(ids, scene...)
		}
		for _, id := range ids {
			if _, ok := c.enemies[id]; !ok {
				errs = append(errs, fmt.Errorf("act %d: %w: %s", act.Number, ErrUnknownEnemy, id))
			}
		}
	}
	for _, id := range sortedKeys(c.macguffins) {
		mg := c.macguffins[id]
		if mg.HP <= 0 {
			errs = append(errs, fmt.Errorf("macguffin %s: hp must be positive", id))
		}
		for _, cardID := range mg.StartingCards {
			if _, ok := c.cards[cardID]; !ok {
				errs = append(errs, fmt.Errorf("macguffin %s: %w: %s", id, ErrUnknownCard, cardID))
			}
		}
	}
	return errors.Join(errs...)
}

func validateCard(card *CardDefinition) []error {
	var errs []error
	if card.ID == "" {
		return []error{errors.New("card with empty id")}
	}
	switch card.Owner {
	case OwnerA, OwnerB, OwnerMacGuffin:
	default:
		errs = append(errs, fmt.Errorf("card %s: unknown owner %q", card.ID, card.Owner))
	}
	switch card.Type {
	case CardTypeAttack, CardTypeDefense, CardTypeAction, CardTypeEnchantment:
	default:
		errs = append(errs, fmt.Errorf("card %s: unknown type %q", card.ID, card.Type))
	}
	if card.Cost < 0 {
		errs = append(errs, fmt.Errorf("card %s: negative cost", card.ID))
	}
	for i, e := range card.Effects {
		if err := effects.Validate(e); err != nil {
			errs = append(errs, fmt.Errorf("card %s effect %d: %w", card.ID, i, err))
		}
	}
	return errs
}

var enemyActionTypes = []string{
	ActionAttack, ActionBlock, ActionHeal, ActionInflict, ActionGain, ActionAttackEqualBlock,
}

func validateEnemy(enemy *EnemyDefinition) []error {
	var errs []error
	if enemy.HP <= 0 {
		errs = append(errs, fmt.Errorf("enemy %s: hp must be positive", enemy.ID))
	}
	if enemy.IsPhased() == (len(enemy.Pattern) > 0) {
		errs = append(errs, fmt.Errorf("enemy %s: exactly one of pattern or phases is required", enemy.ID))
	}
	check := func(where string, pattern []PatternEntry) {
		if len(pattern) == 0 {
			errs = append(errs, fmt.Errorf("enemy %s %s: empty pattern", enemy.ID, where))
		}
		for i, entry := range pattern {
			for _, step := range entry.Steps() {
				if !slices.Contains(enemyActionTypes, step.Type) {
					errs = append(errs, fmt.Errorf("enemy %s %s entry %d: unknown action %q", enemy.ID, where, i, step.Type))
					continue
				}
				if step.Type == ActionInflict || step.Type == ActionGain {
					if !counters.IsKnown(counters.Keyword(step.Keyword)) {
						errs = append(errs, fmt.Errorf("enemy %s %s entry %d: unknown keyword %q", enemy.ID, where, i, step.Keyword))
					}
				}
			}
		}
	}
	if !enemy.IsPhased() {
		check("pattern", enemy.Pattern)
		return errs
	}
	prev := 1.0
	for i, phase := range enemy.Phases {
		where := fmt.Sprintf("phase %d", i)
		if i > 0 {
			if phase.HPThreshold <= 0 || phase.HPThreshold >= prev {
				errs = append(errs, fmt.Errorf("enemy %s %s: threshold %.4f must be in (0, %.4f)", enemy.ID, where, phase.HPThreshold, prev))
			}
			prev = phase.HPThreshold
		}
		check(where, phase.Pattern)
	}
	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
