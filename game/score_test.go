package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// rectZone builds a fully populated rectangular test zone.
func rectZone(kind ZoneKind, w, h int) *Zone {
	z := newZone(kind, 0, w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			z.put(&Cell{X: x, Y: y})
		}
	}
	return z
}

// activate marks cells active for a player with ascending orders starting
// at order.
func activate(z *Zone, player string, order int, coords ...Coord) int {
	for _, co := range coords {
		c := z.At(co.X, co.Y)
		c.Active = true
		c.Player = player
		c.Order = order
		order++
	}
	return order
}

func TestColumnScoring(t *testing.T) {
	t.Run("complete column scores its pair value", func(t *testing.T) {
		z := rectZone(ZoneColumn, 4, 2)
		activate(z, "alice", 1, Coord{0, 0}, Coord{0, 1})
		require.Equal(t, 3, z.ops().aggregate(z))

		activate(z, "alice", 3, Coord{2, 0}, Coord{2, 1})
		require.Equal(t, 3+5, z.ops().aggregate(z), "third column carries the second pair value")
	})

	t.Run("incomplete column scores nothing", func(t *testing.T) {
		z := rectZone(ZoneColumn, 4, 2)
		activate(z, "alice", 1, Coord{0, 0})
		require.Zero(t, z.ops().aggregate(z))
	})

	t.Run("a stone kills the column", func(t *testing.T) {
		z := rectZone(ZoneColumn, 4, 2)
		activate(z, "alice", 1, Coord{0, 0}, Coord{0, 1})
		z.At(0, 1).Stone = true
		require.Zero(t, z.ops().aggregate(z))
	})

	t.Run("latest placement takes the points", func(t *testing.T) {
		z := rectZone(ZoneColumn, 4, 2)
		activate(z, "alice", 1, Coord{0, 0})
		activate(z, "bob", 2, Coord{0, 1})
		scores := map[string]int{}
		z.ops().attribute(z, scores)
		require.Equal(t, 3, scores["bob"])
		require.Zero(t, scores["alice"])
	})
}

func TestMazeScoring(t *testing.T) {
	z := newZone(ZoneMaze, 0, 11, 11)
	for x := 0; x <= 10; x++ {
		z.put(&Cell{X: x, Y: 0})
	}
	z.StartX, z.StartY = 0, 0
	z.MaxDist = 10
	z.At(10, 0).End = true
	z.At(5, 0).End = true

	t.Run("end value scales with distance", func(t *testing.T) {
		activate(z, "alice", 1, Coord{10, 0})
		require.Equal(t, 25, z.ops().aggregate(z), "farthest end is worth the maximum")

		activate(z, "bob", 2, Coord{5, 0})
		require.Equal(t, 25+15, z.ops().aggregate(z), "half distance lands mid-scale")
	})

	t.Run("each end pays its activator", func(t *testing.T) {
		scores := map[string]int{}
		z.ops().attribute(z, scores)
		require.Equal(t, 25, scores["alice"])
		require.Equal(t, 15, scores["bob"])
	})

	t.Run("stone on an end never scores", func(t *testing.T) {
		z.At(10, 0).Stone = true
		require.Equal(t, 15, z.ops().aggregate(z))
		z.At(10, 0).Stone = false
	})
}

func TestTowerScoring(t *testing.T) {
	z := rectZone(ZoneTower, 4, 6)
	for x := 0; x < 4; x++ {
		z.At(x, 5).Bold = true // bottom tier
		z.At(x, 2).Bold = true // second tier
	}

	t.Run("tier opens when any bold cell activates", func(t *testing.T) {
		activate(z, "alice", 2, Coord{1, 5})
		require.Equal(t, 4, z.ops().aggregate(z))

		activate(z, "bob", 3, Coord{0, 2})
		require.Equal(t, 4+7, z.ops().aggregate(z))
	})

	t.Run("pioneer beats later majority", func(t *testing.T) {
		// bob floods the bottom tier afterwards; alice still placed first
		activate(z, "bob", 4, Coord{0, 5}, Coord{2, 5}, Coord{3, 5})
		scores := map[string]int{}
		z.ops().attribute(z, scores)
		require.Equal(t, 4, scores["alice"], "first bold activation owns the tier")
		require.Equal(t, 7, scores["bob"])
	})
}

func TestSubgridScoring(t *testing.T) {
	z := rectZone(ZoneSubgrid, 5, 2) // 10 cells, threshold is 8

	t.Run("below threshold scores nothing", func(t *testing.T) {
		activate(z, "alice", 1,
			Coord{0, 0}, Coord{1, 0}, Coord{2, 0}, Coord{3, 0}, Coord{4, 0},
			Coord{0, 1}, Coord{1, 1})
		require.Zero(t, z.ops().aggregate(z))
	})

	t.Run("crossing 80 percent scores the base", func(t *testing.T) {
		activate(z, "bob", 8, Coord{2, 1})
		require.Equal(t, 12, z.ops().aggregate(z))

		scores := map[string]int{}
		z.ops().attribute(z, scores)
		require.Equal(t, 12, scores["bob"], "whoever crossed the threshold gets the base")
	})

	t.Run("full fill adds the completion bonus", func(t *testing.T) {
		activate(z, "alice", 9, Coord{3, 1})
		activate(z, "bob", 10, Coord{4, 1})
		require.Equal(t, 16, z.ops().aggregate(z))

		scores := map[string]int{}
		z.ops().attribute(z, scores)
		require.Equal(t, 12+4, scores["bob"], "the finishing placement takes the bonus")
	})
}

func TestRingScoring(t *testing.T) {
	z := rectZone(ZoneRing, 5, 5)
	z.At(0, 0).Bold = true
	z.At(2, 0).Bold = true
	z.At(4, 0).Bold = true

	t.Run("one anchor is not a cluster", func(t *testing.T) {
		activate(z, "alice", 1, Coord{0, 0})
		require.Zero(t, z.ops().aggregate(z))
	})

	t.Run("connections pay per extra anchor", func(t *testing.T) {
		activate(z, "alice", 2, Coord{1, 0}, Coord{2, 0})
		require.Equal(t, 6, z.ops().aggregate(z), "two linked anchors are one connection")

		activate(z, "bob", 4, Coord{3, 0}, Coord{4, 0})
		require.Equal(t, 12, z.ops().aggregate(z), "three linked anchors are two connections")
	})

	t.Run("majority of anchors owns the cluster", func(t *testing.T) {
		scores := map[string]int{}
		z.ops().attribute(z, scores)
		require.Equal(t, 12, scores["alice"], "alice holds two of the three anchors")
		require.Zero(t, scores["bob"])
	})

	t.Run("stones split clusters", func(t *testing.T) {
		z.At(1, 0).Stone = true
		require.Equal(t, 6, z.ops().aggregate(z), "the stone cuts the left anchor off")
	})
}

func TestBalanceBonus(t *testing.T) {
	b := &Board{
		Column:   rectZone(ZoneColumn, 4, 2),
		Maze:     rectZone(ZoneMaze, 3, 3),
		Tower:    rectZone(ZoneTower, 4, 6),
		Subgrids: []*Zone{rectZone(ZoneSubgrid, 5, 2)},
		Ring:     rectZone(ZoneRing, 5, 5),
		NextOrder: 1,
	}
	activate(b.Column, "alice", 1, Coord{0, 0}, Coord{0, 1})

	scores := b.PlayerScores([]string{"alice"})
	zs := scores["alice"]
	require.Equal(t, 3, zs.Column)
	require.Zero(t, zs.Balance, "an empty zone pins the balance bonus to zero")
	require.Equal(t, 3, zs.Total)
}
