package game

import (
	"bytes"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/curtaincall/curtaincall-server-go/internal/game/counters"
	"github.com/curtaincall/curtaincall-server-go/internal/game/rules"
	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
	"github.com/curtaincall/curtaincall-server-go/internal/game/watchers"
	"golang.org/x/crypto/blake2b"
)

// SnapshotVersion is bumped whenever the snapshot layout changes.
const SnapshotVersion = 1

// CardRef identifies a card instance and its definition.
type CardRef = state.Ref

// CharacterView is the snapshot form of a character.
type CharacterView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CurrentHP  int    `json:"current_hp"`
	MaxHP      int    `json:"max_hp"`
	KnockedOut bool   `json:"knocked_out"`
	Shield     int    `json:"shield"`
	Taunt      int    `json:"taunt"`
}

// MacGuffinView is the snapshot form of the MacGuffin.
type MacGuffinView struct {
	Variant   string `json:"variant,omitempty"`
	Name      string `json:"name"`
	CurrentHP int    `json:"current_hp"`
	MaxHP     int    `json:"max_hp"`
	Block     int    `json:"block"`
}

// EnemyView is the snapshot form of the enemy.
type EnemyView struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	IsBoss       bool              `json:"is_boss"`
	CurrentHP    int               `json:"current_hp"`
	MaxHP        int               `json:"max_hp"`
	Intent       state.Intent      `json:"intent"`
	PatternIndex int               `json:"pattern_index"`
	CurrentPhase int               `json:"current_phase"`
	PassiveState map[string]string `json:"passive_state,omitempty"`
	Passives     []string          `json:"passives,omitempty"`
}

// Snapshot is a serializable copy of a combat at one point in time. It is
// not a restore point: combats cannot be resumed from it.
type Snapshot struct {
	Version       int                  `json:"version"`
	SessionID     string               `json:"session_id"`
	Phase         string               `json:"phase"`
	Outcome       string               `json:"outcome,omitempty"`
	TurnNumber    int                  `json:"turn_number"`
	HandSize      int                  `json:"hand_size"`
	EnergyCurrent int                  `json:"energy_current"`
	EnergyMax     int                  `json:"energy_max"`
	MacGuffin     MacGuffinView        `json:"macguffin"`
	Characters    []CharacterView      `json:"characters"`
	Distract      int                  `json:"distract"`
	Retaliate     int                  `json:"retaliate"`
	Enemy         *EnemyView           `json:"enemy,omitempty"`
	Keywords      counters.KeywordView `json:"keywords"`
	Deck          []CardRef            `json:"deck"`
	Hand          []CardRef            `json:"hand"`
	Discard       []CardRef            `json:"discard"`
	Enchantments  []CardRef            `json:"enchantments"`
	Stats         watchers.StatsView   `json:"stats"`
	Timestamp     time.Time            `json:"timestamp"`
}

// Snapshot captures the current combat.
func (e *Engine) Snapshot() *Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *Engine) snapshot() *Snapshot {
	s := e.session
	phase := e.lifecycle.Phase()
	snap := &Snapshot{
		Version:       SnapshotVersion,
		SessionID:     s.ID,
		Phase:         phase.String(),
		TurnNumber:    s.TurnNumber,
		HandSize:      s.HandSize,
		EnergyCurrent: s.Energy.Current,
		EnergyMax:     s.Energy.Max,
		MacGuffin: MacGuffinView{
			Variant:   s.MacGuffin.Variant,
			Name:      s.MacGuffin.Name,
			CurrentHP: s.MacGuffin.CurrentHP,
			MaxHP:     s.MacGuffin.MaxHP,
			Block:     s.MacGuffin.Block,
		},
		Distract:     s.Distract,
		Retaliate:    s.Retaliate,
		Keywords:     s.Keywords.ToView(),
		Deck:         s.Deck.Refs(),
		Hand:         s.Hand.Refs(),
		Discard:      s.Discard.Refs(),
		Enchantments: s.Enchantments.Refs(),
		Stats:        e.stats.View(),
		Timestamp:    time.Now().UTC(),
	}
	switch phase {
	case rules.PhaseReward:
		snap.Outcome = string(rules.OutcomeVictory)
	case rules.PhaseGameOver:
		snap.Outcome = string(rules.OutcomeDefeat)
	}
	for _, id := range state.CharacterOrder {
		c, ok := s.Character(id)
		if !ok {
			continue
		}
		snap.Characters = append(snap.Characters, CharacterView{
			ID:         string(c.ID),
			Name:       c.Name,
			CurrentHP:  c.CurrentHP,
			MaxHP:      c.MaxHP,
			KnockedOut: c.KnockedOut,
			Shield:     c.Shield,
			Taunt:      c.Taunt,
		})
	}
	if enemy := s.Enemy; enemy != nil {
		ps := make(map[string]string, len(enemy.PassiveState))
		for k, v := range enemy.PassiveState {
			ps[k] = v
		}
		var ids []string
		for _, p := range enemy.Definition.Passives {
			ids = append(ids, p.ID)
		}
		snap.Enemy = &EnemyView{
			ID:           enemy.ID(),
			Name:         enemy.Name(),
			IsBoss:       enemy.IsBoss(),
			CurrentHP:    enemy.CurrentHP,
			MaxHP:        enemy.MaxHP,
			Intent:       enemy.Intent,
			PatternIndex: enemy.PatternIndex,
			CurrentPhase: enemy.CurrentPhase,
			PassiveState: ps,
			Passives:     ids,
		}
	}
	return snap
}

// Checksum returns the hex blake2b-256 digest of the snapshot's canonical
// form. The timestamp is not part of it.
func (snap *Snapshot) Checksum() string {
	sum := blake2b.Sum256([]byte(snap.canonical()))
	return hex.EncodeToString(sum[:])
}

// VerifyChecksum reports whether the snapshot still hashes to expected.
func (snap *Snapshot) VerifyChecksum(expected string) bool {
	return snap.Checksum() == expected
}

// canonical renders the snapshot independent of map iteration order.
func (snap *Snapshot) canonical() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "SESSION:%d|%s|%s|%s|%d|%d|%d/%d\n",
		snap.Version,
		snap.SessionID,
		snap.Phase,
		snap.Outcome,
		snap.TurnNumber,
		snap.HandSize,
		snap.EnergyCurrent,
		snap.EnergyMax,
	)
	m := snap.MacGuffin
	fmt.Fprintf(&buf, "MACGUFFIN:%s|%s|%d/%d|%d\n", m.Variant, m.Name, m.CurrentHP, m.MaxHP, m.Block)
	fmt.Fprintf(&buf, "POOLS:%d|%d\n", snap.Distract, snap.Retaliate)

	// Characters keep their fixed order.
	for _, c := range snap.Characters {
		fmt.Fprintf(&buf, "CHARACTER:%s|%s|%d/%d|%t|%d|%d\n",
			c.ID, c.Name, c.CurrentHP, c.MaxHP, c.KnockedOut, c.Shield, c.Taunt)
	}

	if en := snap.Enemy; en != nil {
		fmt.Fprintf(&buf, "ENEMY:%s|%s|%t|%d/%d|%d|%d\n",
			en.ID, en.Name, en.IsBoss, en.CurrentHP, en.MaxHP, en.PatternIndex, en.CurrentPhase)
		fmt.Fprintf(&buf, "  INTENT:%s|%d|%d|%s\n", en.Intent.Type, en.Intent.Value, en.Intent.Hits, en.Intent.Target)
		for _, k := range sortedKeys(en.PassiveState) {
			fmt.Fprintf(&buf, "  STATE:%s=%s\n", k, en.PassiveState[k])
		}
		buf.WriteString("  PASSIVES:")
		buf.WriteString(strings.Join(en.Passives, ","))
		buf.WriteString("\n")
	}

	writeCounters(&buf, "GLOBAL", snap.Keywords.Global)
	writeCounters(&buf, "MACGUFFIN_KW", snap.Keywords.MacGuffin)
	writeCounters(&buf, "ENEMY_KW", snap.Keywords.Enemy)
	for _, id := range sortedKeys(snap.Keywords.Characters) {
		writeCounters(&buf, "CHARACTER_KW:"+id, snap.Keywords.Characters[id])
	}

	// Pile order is part of the state.
	writeRefs(&buf, "DECK", snap.Deck)
	writeRefs(&buf, "HAND", snap.Hand)
	writeRefs(&buf, "DISCARD", snap.Discard)
	writeRefs(&buf, "ENCHANTMENTS", snap.Enchantments)

	st := snap.Stats
	fmt.Fprintf(&buf, "STATS:%d|%d|%d|%d|%d|%d|%d|%d|%d\n",
		st.Turns, st.CardsPlayed, st.CardsPlayedThisTurn, st.DamageDealt, st.DamageDealtThisTurn,
		st.LargestHit, st.MacGuffinDamageTaken, st.DebuffsInflicted, st.DebuffsReceived)
	for _, owner := range sortedKeys(st.CardsPlayedByOwner) {
		fmt.Fprintf(&buf, "  BY_OWNER:%s=%d\n", owner, st.CardsPlayedByOwner[owner])
	}
	buf.WriteString("  KNOCKED_OUT:")
	buf.WriteString(strings.Join(st.KnockedOut, ","))
	buf.WriteString("\n")

	return buf.String()
}

func writeCounters(buf *bytes.Buffer, label string, views []counters.CounterView) {
	sorted := append([]counters.CounterView(nil), views...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	buf.WriteString(label)
	buf.WriteString(":")
	for i, v := range sorted {
		if i > 0 {
			buf.WriteString(",")
		}
		fmt.Fprintf(buf, "%s=%d", v.Name, v.Count)
	}
	buf.WriteString("\n")
}

func writeRefs(buf *bytes.Buffer, label string, refs []CardRef) {
	buf.WriteString(label)
	buf.WriteString(":")
	for i, r := range refs {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString(r.InstanceID)
		buf.WriteString("/")
		buf.WriteString(r.DefinitionID)
	}
	buf.WriteString("\n")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalBinary encodes the snapshot with gob.
func (snap *Snapshot) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	// A named alias keeps gob from recursing into MarshalBinary.
	type plain Snapshot
	if err := gob.NewEncoder(&buf).Encode((*plain)(snap)); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a gob-encoded snapshot.
func (snap *Snapshot) UnmarshalBinary(data []byte) error {
	type plain Snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode((*plain)(snap)); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	return nil
}
