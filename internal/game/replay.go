package game

import (
	"compress/gzip"
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/curtaincall/curtaincall-server-go/internal/game/rules"
	"go.uber.org/zap"
)

const (
	replayVersion = 1
	replayOwner   = "replay"
)

// Frame is one recorded snapshot with the checksum taken when it was recorded.
type Frame struct {
	Turn     int
	Event    rules.EventName
	Checksum string
	Snapshot *Snapshot
}

// Replay is the sequence of snapshots recorded for one session.
type Replay struct {
	SessionID    string
	Frames       []Frame
	CurrentIndex int
	mu           sync.RWMutex
}

// NewReplay creates an empty replay.
func NewReplay(sessionID string) *Replay {
	return &Replay{SessionID: sessionID}
}

// Record appends a snapshot.
func (r *Replay) Record(evt rules.EventName, snap *Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Frames = append(r.Frames, Frame{
		Turn:     snap.TurnNumber,
		Event:    evt,
		Checksum: snap.Checksum(),
		Snapshot: snap,
	})
}

// Start rewinds to the first frame.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.CurrentIndex = 0
}

// Next returns the current frame and advances. It returns nil past the end.
func (r *Replay) Next() *Frame {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex < len(r.Frames) {
		f := &r.Frames[r.CurrentIndex]
		r.CurrentIndex++
		return f
	}
	return nil
}

// Previous steps back one frame and returns it.
func (r *Replay) Previous() *Frame {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex > 0 {
		r.CurrentIndex--
		return &r.Frames[r.CurrentIndex]
	}
	return nil
}

// Skip moves by count frames, clamped to the recorded range.
func (r *Replay) Skip(count int) *Frame {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Frames) == 0 {
		return nil
	}
	r.CurrentIndex = min(max(r.CurrentIndex+count, 0), len(r.Frames)-1)
	return &r.Frames[r.CurrentIndex]
}

// Size returns the number of frames.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.Frames)
}

// FrameAt returns the frame at index, or nil.
func (r *Replay) FrameAt(index int) *Frame {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= 0 && index < len(r.Frames) {
		return &r.Frames[index]
	}
	return nil
}

// Verify checks every frame against its recorded checksum.
func (r *Replay) Verify() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i, f := range r.Frames {
		if f.Snapshot == nil || !f.Snapshot.VerifyChecksum(f.Checksum) {
			return fmt.Errorf("frame %d: checksum mismatch", i)
		}
	}
	return nil
}

type replayHeader struct {
	SessionID  string
	SavedAt    time.Time
	Version    int
	FrameCount int
}

func replayPath(directory, sessionID string) string {
	return filepath.Join(directory, sessionID+".replay")
}

// SaveToFile writes the replay as gzip-compressed gob to
// <directory>/<session>.replay.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("create replay directory: %w", err)
	}
	file, err := os.Create(replayPath(directory, r.SessionID))
	if err != nil {
		return fmt.Errorf("create replay file: %w", err)
	}
	defer file.Close()

	zw := gzip.NewWriter(file)
	enc := gob.NewEncoder(zw)
	header := replayHeader{
		SessionID:  r.SessionID,
		SavedAt:    time.Now().UTC(),
		Version:    replayVersion,
		FrameCount: len(r.Frames),
	}
	if err := enc.Encode(&header); err != nil {
		return fmt.Errorf("encode replay header: %w", err)
	}
	for i := range r.Frames {
		if err := enc.Encode(&r.Frames[i]); err != nil {
			return fmt.Errorf("encode frame %d: %w", i, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush replay: %w", err)
	}
	return nil
}

// LoadReplayFromFile reads a replay written by SaveToFile and verifies
// every frame checksum.
func LoadReplayFromFile(directory, sessionID string) (*Replay, error) {
	file, err := os.Open(replayPath(directory, sessionID))
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	defer file.Close()

	zr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer zr.Close()

	dec := gob.NewDecoder(zr)
	var header replayHeader
	if err := dec.Decode(&header); err != nil {
		return nil, fmt.Errorf("decode replay header: %w", err)
	}
	if header.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", header.Version)
	}

	replay := NewReplay(header.SessionID)
	for i := 0; i < header.FrameCount; i++ {
		var f Frame
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("decode frame %d: %w", i, err)
		}
		replay.Frames = append(replay.Frames, f)
	}
	if err := replay.Verify(); err != nil {
		return nil, err
	}
	return replay, nil
}

// ReplayRecorder keeps in-memory replays keyed by session id.
type ReplayRecorder struct {
	logger  *zap.Logger
	mu      sync.RWMutex
	replays map[string]*Replay
	enabled map[string]bool
	saveDir string
}

// NewReplayRecorder creates a recorder that saves into saveDir.
func NewReplayRecorder(logger *zap.Logger, saveDir string) *ReplayRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayRecorder{
		logger:  logger,
		replays: make(map[string]*Replay),
		enabled: make(map[string]bool),
		saveDir: saveDir,
	}
}

// Attach records a snapshot of the engine at every player turn start and at
// combat end.
func (rr *ReplayRecorder) Attach(e *Engine) {
	sessionID := e.session.ID
	rr.StartRecording(sessionID)
	record := func(_ context.Context, evt *rules.Event) {
		rr.Record(sessionID, evt.Name, e.snapshot())
	}
	e.bus.On(rules.EventPlayerTurnStart, record, rules.WithOwner(replayOwner))
	e.bus.On(rules.EventCombatEnd, record, rules.WithOwner(replayOwner))
}

// StartRecording begins a fresh replay for a session.
func (rr *ReplayRecorder) StartRecording(sessionID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.replays[sessionID] = NewReplay(sessionID)
	rr.enabled[sessionID] = true
	rr.logger.Info("started replay recording", zap.String("session_id", sessionID))
}

// StopRecording stops appending frames for a session. Recorded frames stay.
func (rr *ReplayRecorder) StopRecording(sessionID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.enabled[sessionID] = false
	rr.logger.Info("stopped replay recording", zap.String("session_id", sessionID))
}

// Record appends a snapshot when recording is enabled for the session.
func (rr *ReplayRecorder) Record(sessionID string, evt rules.EventName, snap *Snapshot) {
	rr.mu.RLock()
	enabled := rr.enabled[sessionID]
	replay := rr.replays[sessionID]
	rr.mu.RUnlock()

	if !enabled || replay == nil {
		return
	}
	replay.Record(evt, snap)
	rr.logger.Debug("recorded replay frame",
		zap.String("session_id", sessionID),
		zap.String("event", string(evt)),
		zap.Int("frame_count", replay.Size()),
	)
}

// Replay returns the in-memory replay of a session.
func (rr *ReplayRecorder) Replay(sessionID string) (*Replay, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	replay, ok := rr.replays[sessionID]
	return replay, ok
}

// Save writes a replay to disk and drops it from memory.
func (rr *ReplayRecorder) Save(sessionID string) error {
	rr.mu.Lock()
	replay, ok := rr.replays[sessionID]
	if !ok {
		rr.mu.Unlock()
		return fmt.Errorf("no replay for session %s", sessionID)
	}
	delete(rr.replays, sessionID)
	delete(rr.enabled, sessionID)
	rr.mu.Unlock()

	if err := replay.SaveToFile(rr.saveDir); err != nil {
		return fmt.Errorf("save replay: %w", err)
	}
	rr.logger.Info("saved replay",
		zap.String("session_id", sessionID),
		zap.Int("frame_count", replay.Size()),
		zap.String("directory", rr.saveDir),
	)
	return nil
}

// Load reads a saved replay.
func (rr *ReplayRecorder) Load(sessionID string) (*Replay, error) {
	replay, err := LoadReplayFromFile(rr.saveDir, sessionID)
	if err != nil {
		return nil, err
	}
	rr.logger.Info("loaded replay",
		zap.String("session_id", sessionID),
		zap.Int("frame_count", replay.Size()),
	)
	return replay, nil
}

// Clear drops a replay without saving it.
func (rr *ReplayRecorder) Clear(sessionID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	delete(rr.replays, sessionID)
	delete(rr.enabled, sessionID)
}

// IsRecording reports whether frames are being recorded for a session.
func (rr *ReplayRecorder) IsRecording(sessionID string) bool {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	return rr.enabled[sessionID]
}
