package game

// WorldTier derives the difficulty tier from the level number. Tiers scale
// grid sizes, marker density and scoring targets upward every two levels.
func WorldTier(level int) int {
	if level < 1 {
		level = 1
	}
	return 1 + (level-1)/2
}

const (
	mazeTurnChance   = 0.35
	mazeBranchChance = 0.18
	mazeMinEnds      = 4

	treasureLevel = 5 // rare treasure markers appear from this level on
	treasureValue = 5

	portalTier = 3 // a portal is seeded into the maze from this tier on
)

// GenerateBoard builds the five zones for one level. Everything consumes a
// single sub-seeded stream, so replicas with the same game seed produce the
// same board cell for cell.
func GenerateBoard(seed uint32, level int) *Board {
	r := NewRNG(SubSeed(seed, level, "board"))
	tier := WorldTier(level)

	b := &Board{
		Column:   generateColumn(r, tier),
		Maze:     generateMaze(r, tier),
		Tower:    generateTower(r, tier),
		Subgrids: generateSubgrids(r, tier),
		Ring:     generateRing(r, tier),
		NextOrder: 1,
	}

	for _, z := range b.Zones() {
		scatterMarkers(r, z, tier)
	}
	if level >= treasureLevel {
		scatterTreasure(r, b.Column)
	}
	if tier >= portalTier {
		addPortal(r, b.Maze)
	}
	return b
}

// generateColumn builds a rectangle whose x=0 column is the permanent
// anchor column.
func generateColumn(r *RNG, tier int) *Zone {
	cols := 6 + (tier-1)*2
	rows := 5
	z := newZone(ZoneColumn, 0, cols, rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			z.put(&Cell{X: x, Y: y, Bold: x == 0})
		}
	}
	return z
}

// generateMaze grows a branching random walk out of the center cell. Cells
// the walk never reaches stay void. Terminal cells (at most one grid
// neighbor) are flagged End and score on activation.
func generateMaze(r *RNG, tier int) *Zone {
	size := 9 + 2*tier
	z := newZone(ZoneMaze, 0, size, size)
	cx, cy := size/2, size/2

	carve := func(x, y int) {
		if x < 0 || y < 0 || x >= size || y >= size {
			return
		}
		if z.At(x, y) == nil {
			z.put(&Cell{X: x, Y: y})
		}
	}

	type walker struct{ x, y, dir int }
	carve(cx, cy)
	walkers := []walker{{cx, cy, r.Intn(4)}}
	target := 24 + 6*tier

	for steps := 0; len(z.Cells) < target && len(walkers) > 0 && steps < 600; steps++ {
		alive := make([]walker, 0, len(walkers)+2)
		for _, w := range walkers {
			if r.Chance(mazeTurnChance) {
				if r.Chance(0.5) {
					w.dir = (w.dir + 1) % 4
				} else {
					w.dir = (w.dir + 3) % 4
				}
			}
			nx := w.x + neighborOffsets[w.dir].X
			ny := w.y + neighborOffsets[w.dir].Y
			if nx < 0 || ny < 0 || nx >= size || ny >= size {
				// Turn back into the grid instead of dying at the edge.
				w.dir = (w.dir + 2) % 4
				alive = append(alive, w)
				continue
			}
			w.x, w.y = nx, ny
			carve(w.x, w.y)
			alive = append(alive, w)
			if len(walkers) < 6 && r.Chance(mazeBranchChance) {
				alive = append(alive, walker{w.x, w.y, (w.dir + 1) % 4})
			}
		}
		walkers = alive
	}

	backfillMaze(r, z, target)
	markMazeEnds(z)
	for ends := countMazeEnds(z); ends < mazeMinEnds; ends = countMazeEnds(z) {
		if !growSpur(r, z) {
			break
		}
		markMazeEnds(z)
	}

	start := z.At(cx, cy)
	start.Bold = true
	z.StartX, z.StartY = cx, cy
	for _, c := range z.SortedCells() {
		if d := manhattan(c.X, c.Y, cx, cy); d > z.MaxDist {
			z.MaxDist = d
		}
	}
	return z
}

// backfillMaze grows the carved region from its frontier until the active
// cell target is met, covering walks that undershot.
func backfillMaze(r *RNG, z *Zone, target int) {
	for len(z.Cells) < target {
		if !growSpur(r, z) {
			return
		}
	}
}

// growSpur carves one random uncarved in-bounds neighbor of a random carved
// frontier cell. Returns false when the zone is saturated.
func growSpur(r *RNG, z *Zone) bool {
	type slot struct{ x, y int }
	frontier := []slot{}
	for _, c := range z.SortedCells() {
		for _, d := range neighborOffsets {
			nx, ny := c.X+d.X, c.Y+d.Y
			if nx < 0 || ny < 0 || nx >= z.Width || ny >= z.Height {
				continue
			}
			if z.At(nx, ny) == nil {
				frontier = append(frontier, slot{nx, ny})
			}
		}
	}
	if len(frontier) == 0 {
		return false
	}
	s := PickRNG(r, frontier)
	z.put(&Cell{X: s.x, Y: s.y})
	return true
}

func markMazeEnds(z *Zone) {
	for _, c := range z.Cells {
		c.End = len(z.neighbors(c.X, c.Y)) <= 1
	}
}

func countMazeEnds(z *Zone) int {
	n := 0
	for _, c := range z.Cells {
		if c.End {
			n++
		}
	}
	return n
}

func manhattan(x1, y1, x2, y2 int) int {
	dx := x1 - x2
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y2
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// generateTower builds the tall narrow rectangle with evenly spaced bold
// anchor rows from the bottom up. y grows downward, so the bottom row is
// Height-1.
func generateTower(r *RNG, tier int) *Zone {
	width := 4
	height := 10 + 2*tier
	z := newZone(ZoneTower, 0, width, height)
	for y := 0; y < height; y++ {
		bold := (height-1-y)%3 == 2
		for x := 0; x < width; x++ {
			z.put(&Cell{X: x, Y: y, Bold: bold})
		}
	}
	return z
}

// generateSubgrids carves several independent small grids, each a connected
// blob grown from its center; everything outside the blob stays void.
func generateSubgrids(r *RNG, tier int) []*Zone {
	count := 3 + tier/2
	zones := make([]*Zone, 0, count)
	for id := 0; id < count; id++ {
		size := 5
		z := newZone(ZoneSubgrid, id, size, size)
		z.put(&Cell{X: size / 2, Y: size / 2})
		target := 14 + r.Intn(4)
		for len(z.Cells) < target {
			if !growSpur(r, z) {
				break
			}
		}
		zones = append(zones, z)
	}
	return zones
}

// generateRing builds the square zone with scattered bold anchors and two
// concentric outer-ring tags. The tags only matter for first-placement
// legality.
func generateRing(r *RNG, tier int) *Zone {
	size := 9 + tier
	z := newZone(ZoneRing, 0, size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := &Cell{X: x, Y: y}
			if x == 0 || y == 0 || x == size-1 || y == size-1 {
				c.Ring1 = true
			} else if x == 1 || y == 1 || x == size-2 || y == size-2 {
				c.Ring2 = true
			}
			z.put(c)
		}
	}

	// Corner-seeded anchors, then random fill skipping neighbors of
	// existing anchors.
	for _, corner := range []Coord{{0, 0}, {size - 1, 0}, {0, size - 1}, {size - 1, size - 1}} {
		z.At(corner.X, corner.Y).Bold = true
	}
	want := 6 + tier
	have := 4
	for attempts := 0; have < want && attempts < 200; attempts++ {
		c := z.At(r.Intn(size), r.Intn(size))
		if c.Bold {
			continue
		}
		adjacent := false
		for _, n := range z.neighbors(c.X, c.Y) {
			if n.Bold {
				adjacent = true
				break
			}
		}
		if !adjacent {
			c.Bold = true
			have++
		}
	}
	return z
}

// scatterMarkers places the per-zone collectibles: gold cells up to the
// reward budget and twice the bonus budget in randomly colored bonus
// symbols, never on an already-special cell.
func scatterMarkers(r *RNG, z *Zone, tier int) {
	gold := 1 + tier/2
	bonuses := 2 * (1 + tier/3)

	for i := 0; i < gold; i++ {
		if c := plainCell(r, z); c != nil {
			c.Gold = true
		}
	}
	for i := 0; i < bonuses; i++ {
		if c := plainCell(r, z); c != nil {
			c.Bonus = PickRNG(r, PlayColors)
		}
	}
}

func scatterTreasure(r *RNG, z *Zone) {
	count := 1 + r.Intn(2)
	for i := 0; i < count; i++ {
		if c := plainCell(r, z); c != nil {
			c.Treasure = treasureValue
		}
	}
}

func addPortal(r *RNG, z *Zone) {
	if c := plainCell(r, z); c != nil {
		c.Portal = true
	}
}

// plainCell picks a random inactive cell with no markers yet, or nil when
// the zone has none left.
func plainCell(r *RNG, z *Zone) *Cell {
	candidates := []*Cell{}
	for _, c := range z.SortedCells() {
		if !c.Active && !c.special() {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return PickRNG(r, candidates)
}

// InjectBonusSymbols scatters count extra bonus symbols across all zones
// mid-level. Used by the one-shot late-game injection.
func InjectBonusSymbols(r *RNG, b *Board, count int) {
	zones := b.Zones()
	for i := 0; i < count; i++ {
		z := PickRNG(r, zones)
		if c := plainCell(r, z); c != nil {
			c.Bonus = PickRNG(r, PlayColors)
		}
	}
}
