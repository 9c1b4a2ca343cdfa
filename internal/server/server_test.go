package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/curtaincall/curtaincall-server-go/internal/config"
	"github.com/curtaincall/curtaincall-server-go/internal/game"
	"github.com/curtaincall/curtaincall-server-go/internal/game/content"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rules"
	"github.com/curtaincall/curtaincall-server-go/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

func testEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		HandSize:     5,
		MaxEnergy:    3,
		MacGuffinHP:  60,
		CharacterAHP: 20,
		CharacterBHP: 10,
		Seed:         42,
	}
}

func newTestManager(t *testing.T, opts ...ManagerOption) (*SessionManager, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	return NewSessionManager(content.MustDefault(), testEngineConfig(), store, zaptest.NewLogger(t), opts...), store
}

func TestSessionManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)

	snap, err := m.Start(ctx, StartOptions{EnemyID: "stage-rat"})
	require.NoError(t, err)
	assert.Equal(t, 1, m.ActiveCount())
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 1, snap.TurnNumber)
	require.NotEmpty(t, snap.Hand)

	res, after, err := m.PlayCard(ctx, snap.SessionID, "missing", "")
	require.NoError(t, err)
	assert.False(t, res.Legal)
	assert.Equal(t, rules.ReasonCardNotInHand, res.Reason)
	assert.Equal(t, snap.Checksum(), after.Checksum())

	ended, next, err := m.EndTurn(ctx, snap.SessionID)
	require.NoError(t, err)
	assert.True(t, ended)
	assert.Equal(t, 2, next.TurnNumber)

	stored, err := store.Load(ctx, snap.SessionID)
	require.NoError(t, err)
	assert.Equal(t, next.Checksum(), stored.Checksum())
}

func TestSessionManagerUnknownSession(t *testing.T) {
	m, _ := newTestManager(t)

	_, _, err := m.EndTurn(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.State(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionManagerStartErrors(t *testing.T) {
	m, store := newTestManager(t)

	_, err := m.Start(context.Background(), StartOptions{EnemyID: "nobody"})

	assert.ErrorIs(t, err, content.ErrUnknownEnemy)
	assert.Zero(t, m.ActiveCount())
	assert.Zero(t, store.Len())
}

func TestSessionManagerExpiresIdleSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m, _ := newTestManager(t, WithClock(func() time.Time { return now }))

	snap, err := m.Start(ctx, StartOptions{EnemyID: "stage-rat"})
	require.NoError(t, err)

	now = now.Add(10 * time.Minute)
	assert.Zero(t, m.ExpireIdle(time.Hour))

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, m.ExpireIdle(time.Hour))
	assert.Zero(t, m.ActiveCount())

	// The last snapshot is still served from the store.
	stored, err := m.State(ctx, snap.SessionID)
	require.NoError(t, err)
	assert.Equal(t, snap.Checksum(), stored.Checksum())
}

func TestSessionManagerCloseAll(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)
	for range 3 {
		_, err := m.Start(ctx, StartOptions{EnemyID: "stage-rat"})
		require.NoError(t, err)
	}

	require.NoError(t, m.CloseAll(ctx))

	assert.Zero(t, m.ActiveCount())
	assert.Equal(t, 3, store.Len())
}

func TestSessionManagerSavesReplayWhenCombatEnds(t *testing.T) {
	ctx := context.Background()
	recorder := game.NewReplayRecorder(zaptest.NewLogger(t), t.TempDir())
	m, _ := newTestManager(t, WithReplayRecorder(recorder))

	snap, err := m.Start(ctx, StartOptions{EnemyID: "stage-rat"})
	require.NoError(t, err)
	require.True(t, recorder.IsRecording(snap.SessionID))

	for range 200 {
		_, next, err := m.EndTurn(ctx, snap.SessionID)
		if err != nil {
			require.ErrorIs(t, err, ErrSessionNotFound)
			break
		}
		if next.Outcome != "" {
			break
		}
	}

	final, err := m.State(ctx, snap.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "defeat", final.Outcome)
	assert.Zero(t, m.ActiveCount())

	replay, err := recorder.Load(snap.SessionID)
	require.NoError(t, err)
	assert.Equal(t, rules.EventCombatEnd, replay.FrameAt(replay.Size()-1).Event)
}

func dialCombatService(t *testing.T, m *SessionManager) *grpc.ClientConn {
	t.Helper()
	logger := zaptest.NewLogger(t)
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(ServerOptions(logger)...)
	RegisterCombatServer(srv, NewCombatServer(m, logger))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func invoke(t *testing.T, conn *grpc.ClientConn, method string, req map[string]any) (*structpb.Struct, error) {
	t.Helper()
	in, err := structpb.NewStruct(req)
	require.NoError(t, err)
	out := new(structpb.Struct)
	err = conn.Invoke(context.Background(), method, in, out)
	return out, err
}

func TestCombatServiceOverGRPC(t *testing.T) {
	m, _ := newTestManager(t)
	conn := dialCombatService(t, m)

	out, err := invoke(t, conn, MethodStartCombat, map[string]any{"enemy_id": "stage-rat"})
	require.NoError(t, err)
	st := out.GetFields()["state"].GetStructValue()
	sessionID := st.GetFields()["session_id"].GetStringValue()
	require.NotEmpty(t, sessionID)
	assert.Equal(t, float64(1), st.GetFields()["turn_number"].GetNumberValue())

	hand := st.GetFields()["hand"].GetListValue().GetValues()
	require.NotEmpty(t, hand)
	instanceID := hand[0].GetStructValue().GetFields()["instance_id"].GetStringValue()

	out, err = invoke(t, conn, MethodPlayCard, map[string]any{
		"session_id":  sessionID,
		"instance_id": instanceID,
	})
	require.NoError(t, err)
	assert.NotNil(t, out.GetFields()["legal"])

	out, err = invoke(t, conn, MethodEndTurn, map[string]any{"session_id": sessionID})
	require.NoError(t, err)
	assert.True(t, out.GetFields()["ended"].GetBoolValue())

	out, err = invoke(t, conn, MethodGetState, map[string]any{"session_id": sessionID})
	require.NoError(t, err)
	assert.Len(t, out.GetFields()["checksum"].GetStringValue(), 64)
}

func TestCombatServiceErrors(t *testing.T) {
	m, _ := newTestManager(t)
	conn := dialCombatService(t, m)

	_, err := invoke(t, conn, MethodStartCombat, map[string]any{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = invoke(t, conn, MethodStartCombat, map[string]any{"enemy_id": "nobody"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = invoke(t, conn, MethodEndTurn, map[string]any{"session_id": "gone"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = invoke(t, conn, MethodStartCombat, map[string]any{"enemy_id": "stage-rat", "difficulty": 99})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
