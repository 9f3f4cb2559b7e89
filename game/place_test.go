package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testBoard() *Board {
	return &Board{
		Column:   rectZone(ZoneColumn, 4, 3),
		Maze:     rectZone(ZoneMaze, 5, 5),
		Tower:    rectZone(ZoneTower, 4, 6),
		Subgrids: []*Zone{rectZone(ZoneSubgrid, 5, 2)},
		Ring:     rectZone(ZoneRing, 5, 5),
		NextOrder: 1,
	}
}

var single = [][]bool{{true}}

func TestValidateCollisionAndBounds(t *testing.T) {
	b := testBoard()
	z := b.Column

	t.Run("void cell rejected", func(t *testing.T) {
		_, err := b.Validate(z, single, 9, 9)
		require.Equal(t, ReasonIllegalPlacement, ReasonOf(err))
	})

	t.Run("occupied cell rejected", func(t *testing.T) {
		cells, err := b.Validate(z, single, 0, 0)
		require.NoError(t, err)
		b.Apply(z, cells, "alice", ColorYellow, false)

		_, err = b.Validate(z, single, 0, 0)
		require.Equal(t, ReasonIllegalPlacement, ReasonOf(err))
	})
}

func TestColumnAnchorRule(t *testing.T) {
	b := testBoard()
	z := b.Column

	t.Run("first placement must touch the anchor column", func(t *testing.T) {
		_, err := b.Validate(z, single, 2, 1)
		require.Equal(t, ReasonIllegalPlacement, ReasonOf(err))

		cells, err := b.Validate(z, single, 0, 1)
		require.NoError(t, err)
		b.Apply(z, cells, "alice", ColorYellow, false)
	})

	t.Run("growth needs adjacency", func(t *testing.T) {
		_, err := b.Validate(z, single, 2, 1)
		require.Equal(t, ReasonIllegalPlacement, ReasonOf(err), "detached interior cell stays illegal")

		cells, err := b.Validate(z, single, 1, 1)
		require.NoError(t, err, "neighbor of an active cell is legal")
		b.Apply(z, cells, "alice", ColorYellow, false)

		_, err = b.Validate(z, single, 2, 1)
		require.NoError(t, err, "the frontier advanced")
	})
}

func TestMazeAnchorRule(t *testing.T) {
	b := testBoard()
	z := b.Maze
	z.At(2, 2).Bold = true

	_, err := b.Validate(z, single, 0, 0)
	require.Equal(t, ReasonIllegalPlacement, ReasonOf(err), "first placement must cover the start")

	cells, err := b.Validate(z, single, 2, 2)
	require.NoError(t, err)
	b.Apply(z, cells, "alice", ColorGreen, false)

	_, err = b.Validate(z, single, 2, 1)
	require.NoError(t, err)
}

func TestTowerAnchorRule(t *testing.T) {
	b := testBoard()
	z := b.Tower

	_, err := b.Validate(z, single, 1, 0)
	require.Equal(t, ReasonIllegalPlacement, ReasonOf(err), "tower grows from the bottom row")

	cells, err := b.Validate(z, single, 1, z.Height-1)
	require.NoError(t, err)
	b.Apply(z, cells, "alice", ColorBlue, false)

	_, err = b.Validate(z, single, 1, z.Height-2)
	require.NoError(t, err)
}

func TestRingFirstPlacementRule(t *testing.T) {
	b := testBoard()
	z := b.Ring
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			c := z.At(x, y)
			c.Ring1 = x == 0 || y == 0 || x == 4 || y == 4
			c.Ring2 = !c.Ring1 && (x == 1 || y == 1 || x == 3 || y == 3)
		}
	}

	_, err := b.Validate(z, single, 0, 0)
	require.Equal(t, ReasonIllegalPlacement, ReasonOf(err), "outer ring is closed to the first placement")

	cells, err := b.Validate(z, single, 2, 2)
	require.NoError(t, err, "the untagged center is open")
	b.Apply(z, cells, "alice", ColorPurple, false)

	_, err = b.Validate(z, single, 2, 1)
	require.NoError(t, err, "growth may enter the rings")
}

func TestPortalOverridesAnchor(t *testing.T) {
	b := testBoard()
	z := b.Maze
	z.At(4, 4).Portal = true

	_, err := b.Validate(z, single, 4, 4)
	require.NoError(t, err, "a portal legalizes any placement covering it")
}

func TestStoneBlocksAdjacency(t *testing.T) {
	b := testBoard()
	z := b.Tower

	cells, err := b.Validate(z, single, 0, z.Height-1)
	require.NoError(t, err)
	b.Apply(z, cells, "alice", ColorBlue, true) // stone

	_, err = b.Validate(z, single, 0, z.Height-2)
	require.Equal(t, ReasonIllegalPlacement, ReasonOf(err), "stones do not extend the frontier")
}

func TestApplyConsumesMarkersAndRevertRestores(t *testing.T) {
	b := testBoard()
	z := b.Subgrids[0]
	c := z.At(1, 0)
	c.Gold = true
	c.Bonus = ColorRed
	c.Treasure = 5

	cells, err := b.Validate(z, single, 1, 0)
	require.NoError(t, err)
	ap := b.Apply(z, cells, "alice", ColorRed, false)

	require.Equal(t, 6, ap.Rewards.Gold, "gold marker plus treasure value")
	require.Equal(t, 1, ap.Rewards.Bonuses[ColorRed])
	require.False(t, c.Gold)
	require.Empty(t, c.Bonus)
	require.Zero(t, c.Treasure)
	require.Equal(t, 1, c.Order)
	require.Equal(t, 2, b.NextOrder)

	b.Revert(ap)
	require.False(t, c.Active)
	require.Empty(t, c.Player)
	require.True(t, c.Gold, "markers return on undo")
	require.Equal(t, ColorRed, c.Bonus)
	require.Equal(t, 5, c.Treasure)
	require.Equal(t, 1, b.NextOrder, "the order counter rewinds")
}

func TestOrientShapes(t *testing.T) {
	l := parseShape(
		"X.",
		"X.",
		"XX",
	)

	t.Run("rotation", func(t *testing.T) {
		r := Orient(l, 1, false)
		require.Len(t, r, 2)
		require.Len(t, r[0], 3)
	})

	t.Run("four rotations close the loop", func(t *testing.T) {
		require.Equal(t, l, Orient(l, 4, false))
	})

	t.Run("double mirror is identity", func(t *testing.T) {
		require.Equal(t, l, Orient(Orient(l, 0, true), 0, true))
	})
}
