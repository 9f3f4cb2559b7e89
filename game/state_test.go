package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateJSONRoundTrip(t *testing.T) {
	gs := NewGameState("g1", 42, 3, 2)
	gs.Players["alice"] = &Player{ID: "alice", Name: "Alice", Connected: true, BonusInventory: map[Color]int{ColorRed: 2}}
	gs.Order = []string{"alice"}
	gs.Level = 1
	gs.Phase = PhasePlaying
	gs.Board = GenerateBoard(gs.Seed, gs.Level)
	gs.LogMove(HistoryEntry{Player: "alice", Zone: ZoneMaze, X: 1, Y: 2, Turn: 1})

	raw, err := json.Marshal(gs)
	require.NoError(t, err)

	var back GameState
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Equal(t, gs.Hash(), back.Hash(), "a restored state fingerprints identically")
	require.Equal(t, gs.Board.NextOrder, back.Board.NextOrder)
	require.Len(t, back.History, 1)
}

func TestHashReactsToChanges(t *testing.T) {
	gs := NewGameState("g1", 42, 3, 2)
	gs.Players["alice"] = &Player{ID: "alice", BonusInventory: map[Color]int{}}
	gs.Order = []string{"alice"}

	before := gs.Hash()
	gs.Players["alice"].Gold = 5
	require.NotEqual(t, before, gs.Hash())
}

func TestHistoryIsBounded(t *testing.T) {
	gs := NewGameState("g1", 1, 3, 2)
	for i := 0; i < historyLimit+50; i++ {
		gs.LogMove(HistoryEntry{Player: "alice", Turn: i})
	}
	require.Len(t, gs.History, historyLimit)
	require.Equal(t, 50, gs.History[0].Turn, "oldest entries fall off first")
}

func TestExhausted(t *testing.T) {
	p := &Player{ID: "alice", BonusInventory: map[Color]int{}}
	require.True(t, p.Exhausted())

	p.BonusInventory[ColorRed] = 1
	require.False(t, p.Exhausted(), "bonus charges keep a player in the level")

	p.BonusInventory[ColorRed] = 0
	p.Hand = []*Card{{ID: "c1"}}
	require.False(t, p.Exhausted())
}
