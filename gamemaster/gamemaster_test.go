package gamemaster

import (
	"testing"

	"github.com/stretchr/testify/require"

	"terra/game"
)

func TestGreedyMatchRunsToCompletion(t *testing.T) {
	bots := []Bot{
		&GreedyBot{PlayerID: "bot-a"},
		&GreedyBot{PlayerID: "bot-b"},
	}
	gm, err := NewMaster(1234, 2, 2, bots)
	require.NoError(t, err)

	gs, err := gm.RunMatch()
	require.NoError(t, err)
	require.Equal(t, game.PhaseEnded, gs.Phase)
	require.NotNil(t, gs.LastLevel)
	require.NotEmpty(t, gs.LastLevel.Winner)
}

func TestGreedyMatchIsDeterministic(t *testing.T) {
	run := func() uint64 {
		bots := []Bot{
			&GreedyBot{PlayerID: "bot-a"},
			&GreedyBot{PlayerID: "bot-b"},
			&GreedyBot{PlayerID: "bot-c"},
		}
		gm, err := NewMaster(777, 2, 2, bots)
		require.NoError(t, err)
		gs, err := gm.RunMatch()
		require.NoError(t, err)
		return gs.Hash()
	}
	require.Equal(t, run(), run(), "same seed and bots must replay the exact match")
}
