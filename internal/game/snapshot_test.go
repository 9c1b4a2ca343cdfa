package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotChecksumIsDeterministic(t *testing.T) {
	a := newTestCombat(t, "knight")
	b := newTestCombat(t, "knight")

	snapA, snapB := a.engine.Snapshot(), b.engine.Snapshot()

	assert.Equal(t, snapA.Checksum(), snapB.Checksum())
	assert.True(t, snapA.VerifyChecksum(snapB.Checksum()))
	assert.Len(t, snapA.Checksum(), 64)
}

func TestSnapshotChecksumTracksState(t *testing.T) {
	h := newTestCombat(t, "dummy")
	before := h.engine.Snapshot()
	h.emptyHand()

	require.True(t, h.play(h.give("strike"), "").Legal)
	after := h.engine.Snapshot()

	assert.NotEqual(t, before.Checksum(), after.Checksum())
	assert.Equal(t, 34, after.Enemy.CurrentHP)
	assert.Equal(t, "PLAYER", after.Phase)
	assert.Empty(t, after.Outcome)
}

func TestSnapshotOrdersCharacters(t *testing.T) {
	snap := newTestCombat(t, "dummy").engine.Snapshot()

	require.Len(t, snap.Characters, 2)
	assert.Equal(t, "A", snap.Characters[0].ID)
	assert.Equal(t, "B", snap.Characters[1].ID)
}

func TestSnapshotRecordsTheOutcome(t *testing.T) {
	h := newTestCombat(t, "glass")
	h.emptyHand()
	require.True(t, h.play(h.give("strike"), "").Legal)

	snap := h.engine.Snapshot()

	assert.Equal(t, "victory", snap.Outcome)
	assert.Equal(t, "REWARD", snap.Phase)
}

func TestSnapshotBinaryRoundTrip(t *testing.T) {
	h := newTestCombat(t, "knight")
	snap := h.engine.Snapshot()

	data, err := snap.MarshalBinary()
	require.NoError(t, err)
	var decoded Snapshot
	require.NoError(t, decoded.UnmarshalBinary(data))

	assert.Equal(t, snap.Checksum(), decoded.Checksum())
	assert.True(t, snap.Timestamp.Equal(decoded.Timestamp))
}

func TestSnapshotJSONUsesSnakeCase(t *testing.T) {
	snap := newTestCombat(t, "dummy").engine.Snapshot()

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Contains(t, fields, "session_id")
	assert.Contains(t, fields, "turn_number")
	assert.Contains(t, fields, "energy_current")
}
