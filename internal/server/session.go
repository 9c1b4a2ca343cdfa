package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/curtaincall/curtaincall-server-go/internal/config"
	"github.com/curtaincall/curtaincall-server-go/internal/game"
	"github.com/curtaincall/curtaincall-server-go/internal/game/content"
	"github.com/curtaincall/curtaincall-server-go/internal/game/presenter"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rng"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rules"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
	"github.com/curtaincall/curtaincall-server-go/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrSessionNotFound is returned for an unknown or expired session id.
var ErrSessionNotFound = errors.New("session not found")

// combatSession is one live engine and its bookkeeping.
type combatSession struct {
	engine     *game.Engine
	createdAt  time.Time
	lastActive time.Time
}

// StartOptions selects what a new combat contains.
type StartOptions struct {
	EnemyID    string
	Deck       []string
	StageProps []string
	MacGuffin  string
	Difficulty *int
	// Presenter also receives the combat's notifications, e.g. to stream
	// them to a client.
	Presenter presenter.Presenter
}

// SessionManager owns the live combats. Each engine serializes its own
// calls; the manager only guards the map.
type SessionManager struct {
	sessions map[string]*combatSession
	mu       sync.RWMutex

	catalog  *content.Catalog
	engine   config.EngineConfig
	store    repository.SnapshotStore
	recorder *game.ReplayRecorder
	logger   *zap.Logger
	now      func() time.Time
}

// ManagerOption configures a SessionManager.
type ManagerOption func(*SessionManager)

// WithReplayRecorder records every combat and saves it when it ends.
func WithReplayRecorder(r *game.ReplayRecorder) ManagerOption {
	return func(m *SessionManager) { m.recorder = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *SessionManager) { m.now = now }
}

// NewSessionManager creates an empty manager. A nil store keeps snapshots
// in memory.
func NewSessionManager(catalog *content.Catalog, cfg config.EngineConfig, store repository.SnapshotStore, logger *zap.Logger, opts ...ManagerOption) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = repository.NewMemoryStore()
	}
	m := &SessionManager{
		sessions: make(map[string]*combatSession),
		catalog:  catalog,
		engine:   cfg,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *SessionManager) newEngine(opts StartOptions) *game.Engine {
	difficulty := m.engine.Difficulty
	if opts.Difficulty != nil {
		difficulty = *opts.Difficulty
	}
	var p presenter.Presenter = presenter.NewLog(m.logger)
	if opts.Presenter != nil {
		p = presenter.Multi{p, opts.Presenter}
	}
	engineOpts := []game.Option{
		game.WithLogger(m.logger),
		game.WithPresenter(p),
		game.WithDifficulty(difficulty),
		game.WithStageProps(opts.StageProps...),
		game.WithMacGuffin(opts.MacGuffin),
	}
	if m.engine.Seed != 0 {
		engineOpts = append(engineOpts, game.WithRNG(rng.NewSeeded(m.engine.Seed)))
	}
	return game.NewEngine(m.engine.Session(), m.catalog, engineOpts...)
}

// Start creates an engine, starts its combat and registers it.
func (m *SessionManager) Start(ctx context.Context, opts StartOptions) (*game.Snapshot, error) {
	e := m.newEngine(opts)
	sessionID := e.Session().ID
	if m.recorder != nil {
		m.recorder.Attach(e)
	}
	if err := e.StartCombat(ctx, opts.EnemyID, opts.Deck); err != nil {
		if m.recorder != nil {
			m.recorder.Clear(sessionID)
		}
		return nil, err
	}

	now := m.now()
	m.mu.Lock()
	m.sessions[sessionID] = &combatSession{engine: e, createdAt: now, lastActive: now}
	m.mu.Unlock()

	m.logger.Info("session created",
		zap.String("session_id", sessionID),
		zap.String("enemy_id", opts.EnemyID),
	)
	return m.persist(ctx, sessionID, e)
}

func (m *SessionManager) get(sessionID string) (*combatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cs, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	cs.lastActive = m.now()
	return cs, nil
}

// PlayCard plays a card in a live session. An illegal play is reported in
// the result, not as an error.
func (m *SessionManager) PlayCard(ctx context.Context, sessionID, instanceID string, target state.CharacterID) (rules.LegalityResult, *game.Snapshot, error) {
	cs, err := m.get(sessionID)
	if err != nil {
		return rules.LegalityResult{}, nil, err
	}
	res := cs.engine.PlayCard(ctx, instanceID, target)
	if !res.Legal {
		return res, cs.engine.Snapshot(), nil
	}
	snap, err := m.persist(ctx, sessionID, cs.engine)
	return res, snap, err
}

// EndTurn ends the player turn of a live session.
func (m *SessionManager) EndTurn(ctx context.Context, sessionID string) (bool, *game.Snapshot, error) {
	cs, err := m.get(sessionID)
	if err != nil {
		return false, nil, err
	}
	if !cs.engine.EndTurn(ctx) {
		return false, cs.engine.Snapshot(), nil
	}
	snap, err := m.persist(ctx, sessionID, cs.engine)
	return true, snap, err
}

// State returns the live snapshot of a session, falling back to the store
// for sessions that are no longer in memory.
func (m *SessionManager) State(ctx context.Context, sessionID string) (*game.Snapshot, error) {
	if cs, err := m.get(sessionID); err == nil {
		return cs.engine.Snapshot(), nil
	}
	snap, err := m.store.Load(ctx, sessionID)
	if errors.Is(err, repository.ErrSnapshotNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return snap, err
}

// persist stores the latest snapshot and retires the session once its
// combat is over.
func (m *SessionManager) persist(ctx context.Context, sessionID string, e *game.Engine) (*game.Snapshot, error) {
	snap := e.Snapshot()
	if err := m.store.Save(ctx, sessionID, snap); err != nil {
		return snap, fmt.Errorf("save snapshot: %w", err)
	}
	if e.Phase().IsTerminal() {
		m.finish(sessionID, snap.Outcome)
	}
	return snap, nil
}

func (m *SessionManager) finish(sessionID, outcome string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	m.logger.Info("session finished",
		zap.String("session_id", sessionID),
		zap.String("outcome", outcome),
	)
	if m.recorder == nil {
		return
	}
	if err := m.recorder.Save(sessionID); err != nil {
		m.logger.Warn("failed to save replay", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// Remove drops a live session without touching the store.
func (m *SessionManager) Remove(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	if m.recorder != nil {
		m.recorder.Clear(sessionID)
	}
	m.logger.Info("session removed", zap.String("session_id", sessionID))
}

// ActiveCount returns the number of live sessions.
func (m *SessionManager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ExpireIdle removes sessions idle for longer than ttl and returns how many
// were removed. Their last snapshot stays in the store.
func (m *SessionManager) ExpireIdle(ttl time.Duration) int {
	cutoff := m.now().Add(-ttl)
	var expired []string

	m.mu.Lock()
	for id, cs := range m.sessions {
		if cs.lastActive.Before(cutoff) {
			expired = append(expired, id)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, id := range expired {
		if m.recorder != nil {
			m.recorder.Clear(id)
		}
		m.logger.Info("session expired", zap.String("session_id", id))
	}
	return len(expired)
}

// CleanupExpiredSessions runs ExpireIdle every interval until ctx is done.
func (m *SessionManager) CleanupExpiredSessions(ctx context.Context, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.ExpireIdle(ttl)
		}
	}
}

// CloseAll persists the final snapshot of every live session and drops
// them.
func (m *SessionManager) CloseAll(ctx context.Context) error {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*combatSession)
	m.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for id, cs := range sessions {
		g.Go(func() error {
			if err := m.store.Save(gctx, id, cs.engine.Snapshot()); err != nil {
				return fmt.Errorf("session %s: %w", id, err)
			}
			return nil
		})
	}
	err := g.Wait()
	m.logger.Info("sessions closed", zap.Int("count", len(sessions)), zap.Error(err))
	return err
}
