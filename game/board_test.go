package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func boardJSON(t *testing.T, b *Board) string {
	t.Helper()
	data, err := json.Marshal(b)
	require.NoError(t, err)
	return string(data)
}

func TestGenerateBoardDeterministic(t *testing.T) {
	a := GenerateBoard(42, 3)
	b := GenerateBoard(42, 3)
	require.Equal(t, boardJSON(t, a), boardJSON(t, b), "same seed and level must build the same board")

	c := GenerateBoard(43, 3)
	require.NotEqual(t, boardJSON(t, a), boardJSON(t, c))
}

func TestWorldTierProgression(t *testing.T) {
	require.Equal(t, 1, WorldTier(1))
	require.Equal(t, 1, WorldTier(2))
	require.Equal(t, 2, WorldTier(3))
	require.Equal(t, 3, WorldTier(5))
	require.Equal(t, 1, WorldTier(0), "degenerate input clamps")
}

func TestBoardStructure(t *testing.T) {
	b := GenerateBoard(7, 1)

	t.Run("column zone grows with tier", func(t *testing.T) {
		require.Equal(t, 6, b.Column.Width)
		require.Equal(t, 8, GenerateBoard(7, 3).Column.Width)
	})

	t.Run("anchor column is bold", func(t *testing.T) {
		for y := 0; y < b.Column.Height; y++ {
			require.True(t, b.Column.At(0, y).Bold)
		}
	})

	t.Run("maze has a bold start and enough ends", func(t *testing.T) {
		z := b.Maze
		require.True(t, z.At(z.StartX, z.StartY).Bold)
		require.GreaterOrEqual(t, countMazeEnds(z), mazeMinEnds)
		require.Greater(t, z.MaxDist, 0)
	})

	t.Run("tower has bold tiers bottom-up", func(t *testing.T) {
		rows := boldRows(b.Tower)
		require.NotEmpty(t, rows)
		require.Equal(t, b.Tower.Height-3, rows[0], "lowest tier sits near the bottom")
	})

	t.Run("subgrids are connected blobs", func(t *testing.T) {
		require.NotEmpty(t, b.Subgrids)
		for _, sg := range b.Subgrids {
			require.GreaterOrEqual(t, len(sg.Cells), 14)
		}
	})

	t.Run("ring has its outer tags and anchors", func(t *testing.T) {
		z := b.Ring
		require.True(t, z.At(0, 0).Ring1)
		require.True(t, z.At(1, 1).Ring2)
		bold := 0
		for _, c := range z.SortedCells() {
			if c.Bold {
				bold++
			}
		}
		require.GreaterOrEqual(t, bold, 4, "the four corners are always anchors")
	})
}

func TestTreasureAndPortalGating(t *testing.T) {
	countTreasure := func(b *Board) int {
		n := 0
		for _, c := range b.Column.SortedCells() {
			if c.Treasure > 0 {
				n++
			}
		}
		return n
	}
	hasPortal := func(z *Zone) bool {
		for _, c := range z.SortedCells() {
			if c.Portal {
				return true
			}
		}
		return false
	}

	early := GenerateBoard(11, 1)
	require.Zero(t, countTreasure(early), "no treasure before its level gate")
	require.False(t, hasPortal(early.Maze), "no portal before its tier gate")

	late := GenerateBoard(11, 5)
	require.Greater(t, countTreasure(late), 0)
	require.True(t, hasPortal(late.Maze))
}

func TestInjectBonusSymbols(t *testing.T) {
	b := GenerateBoard(3, 1)
	countBonuses := func() int {
		n := 0
		for _, z := range b.Zones() {
			for _, c := range z.SortedCells() {
				if c.Bonus != "" {
					n++
				}
			}
		}
		return n
	}

	before := countBonuses()
	InjectBonusSymbols(NewRNG(9), b, 4)
	require.Equal(t, before+4, countBonuses())
}
