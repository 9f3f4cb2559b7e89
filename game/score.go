package game

import (
	"math"

	"golang.org/x/exp/slices"
)

// Ascending score tables. Indexing past the end clamps to the last entry.
var (
	columnPairValues = []int{3, 5, 8, 12, 17, 23}
	towerTierValues  = []int{4, 7, 11, 16, 22, 29}
)

const (
	subgridBaseValue  = 12
	subgridFillRatio  = 0.8
	subgridBonusRatio = 0.35
	ringConnectionPts = 6
)

type columnRules struct{}
type mazeRules struct{}
type towerRules struct{}
type subgridRules struct{}
type ringRules struct{}

// scorable reports whether a cell counts toward scoring conditions. Stones
// occupy cells but never score.
func scorable(c *Cell) bool {
	return c != nil && c.Active && !c.Stone
}

func tableValue(table []int, i int) int {
	if i >= len(table) {
		return table[len(table)-1]
	}
	return table[i]
}

// ZoneScores is the per-player score breakdown across the five zones plus
// the balance bonus for even development.
type ZoneScores struct {
	Column  int `json:"column"`
	Maze    int `json:"maze"`
	Tower   int `json:"tower"`
	Subgrid int `json:"subgrid"`
	Ring    int `json:"ring"`
	Balance int `json:"balance"`
	Total   int `json:"total"`
}

// ByKind returns the score earned in one zone kind.
func (zs *ZoneScores) ByKind(kind ZoneKind) int {
	switch kind {
	case ZoneColumn:
		return zs.Column
	case ZoneMaze:
		return zs.Maze
	case ZoneTower:
		return zs.Tower
	case ZoneSubgrid:
		return zs.Subgrid
	case ZoneRing:
		return zs.Ring
	}
	return 0
}

// Score computes the aggregate board score: the sum of the five zone
// aggregates. The balance bonus is per-player and not part of this number.
func (b *Board) Score() int {
	total := 0
	for _, z := range b.Zones() {
		total += z.ops().aggregate(z)
	}
	return total
}

// PlayerScores attributes the current board to players. Recomputed after
// every placement so objective checks and views stay consistent mid-turn.
func (b *Board) PlayerScores(playerIDs []string) map[string]*ZoneScores {
	perKind := map[ZoneKind]map[string]int{}
	for _, kind := range ZoneKinds {
		perKind[kind] = map[string]int{}
	}
	for _, z := range b.Zones() {
		z.ops().attribute(z, perKind[z.Kind])
	}

	out := map[string]*ZoneScores{}
	for _, id := range playerIDs {
		zs := &ZoneScores{
			Column:  perKind[ZoneColumn][id],
			Maze:    perKind[ZoneMaze][id],
			Tower:   perKind[ZoneTower][id],
			Subgrid: perKind[ZoneSubgrid][id],
			Ring:    perKind[ZoneRing][id],
		}
		zs.Balance = min5(zs.Column, zs.Maze, zs.Tower, zs.Subgrid, zs.Ring)
		zs.Total = zs.Column + zs.Maze + zs.Tower + zs.Subgrid + zs.Ring + zs.Balance
		out[id] = zs
	}
	return out
}

func min5(a, b, c, d, e int) int {
	return min(a, min(b, min(c, min(d, e))))
}

// --- column zone ---

// A complete column scores its pair value; columns containing a stone never
// score. Attribution goes to whoever placed the most recent cell in the
// column, falling back to the majority owner on an order tie.
func (cr *columnRules) aggregate(z *Zone) int {
	total := 0
	for x := 0; x < z.Width; x++ {
		if columnComplete(z, x) {
			total += tableValue(columnPairValues, x/2)
		}
	}
	return total
}

func (cr *columnRules) attribute(z *Zone, scores map[string]int) {
	for x := 0; x < z.Width; x++ {
		if !columnComplete(z, x) {
			continue
		}
		owner := latestOwnerInColumn(z, x)
		if owner == "" {
			owner = majorityOwnerInColumn(z, x)
		}
		if owner != "" {
			scores[owner] += tableValue(columnPairValues, x/2)
		}
	}
}

func columnComplete(z *Zone, x int) bool {
	for y := 0; y < z.Height; y++ {
		c := z.At(x, y)
		if c == nil {
			continue
		}
		if c.Stone || !c.Active {
			return false
		}
	}
	return true
}

func latestOwnerInColumn(z *Zone, x int) string {
	best := 0
	owner := ""
	tied := false
	for y := 0; y < z.Height; y++ {
		c := z.At(x, y)
		if c == nil || !c.Active {
			continue
		}
		switch {
		case c.Order > best:
			best, owner, tied = c.Order, c.Player, false
		case c.Order == best && c.Player != owner:
			tied = true
		}
	}
	if tied {
		return ""
	}
	return owner
}

func majorityOwnerInColumn(z *Zone, x int) string {
	counts := map[string]int{}
	for y := 0; y < z.Height; y++ {
		if c := z.At(x, y); scorable(c) {
			counts[c.Player]++
		}
	}
	return majorityOwner(counts)
}

// majorityOwner picks the owner with the highest count, breaking ties by
// lexical id so the answer never depends on map iteration order.
func majorityOwner(counts map[string]int) string {
	best := ""
	for id, n := range counts {
		if best == "" || n > counts[best] || (n == counts[best] && id < best) {
			best = id
		}
	}
	return best
}

// --- maze zone ---

// Every active end cell scores by distance from the zone's start: farther
// ends are worth more.
func (mr *mazeRules) aggregate(z *Zone) int {
	total := 0
	for _, c := range z.SortedCells() {
		if c.End && scorable(c) {
			total += mazeEndValue(z, c)
		}
	}
	return total
}

func (mr *mazeRules) attribute(z *Zone, scores map[string]int) {
	for _, c := range z.SortedCells() {
		if c.End && scorable(c) {
			scores[c.Player] += mazeEndValue(z, c)
		}
	}
}

func mazeEndValue(z *Zone, c *Cell) int {
	if z.MaxDist == 0 {
		return 5
	}
	ratio := float64(manhattan(c.X, c.Y, z.StartX, z.StartY)) / float64(z.MaxDist)
	if ratio > 1 {
		ratio = 1
	}
	return int(math.Round(5 + 20*ratio))
}

// --- tower zone ---

// Bold rows rank bottom to top into tiers; a tier scores the moment any
// bold cell in its row is active. The points go to the pioneer: the first
// placement to activate a bold cell in the row, not the majority.
func (tr *towerRules) aggregate(z *Zone) int {
	total := 0
	for i, y := range boldRows(z) {
		if rowPioneer(z, y) != "" {
			total += tableValue(towerTierValues, i)
		}
	}
	return total
}

func (tr *towerRules) attribute(z *Zone, scores map[string]int) {
	for i, y := range boldRows(z) {
		if owner := rowPioneer(z, y); owner != "" {
			scores[owner] += tableValue(towerTierValues, i)
		}
	}
}

// boldRows returns the bold row y coordinates ordered bottom to top.
func boldRows(z *Zone) []int {
	rows := []int{}
	for y := z.Height - 1; y >= 0; y-- {
		for x := 0; x < z.Width; x++ {
			if c := z.At(x, y); c != nil && c.Bold {
				rows = append(rows, y)
				break
			}
		}
	}
	return rows
}

func rowPioneer(z *Zone, y int) string {
	best := 0
	owner := ""
	for x := 0; x < z.Width; x++ {
		c := z.At(x, y)
		if c == nil || !c.Bold || !scorable(c) {
			continue
		}
		if owner == "" || c.Order < best {
			best, owner = c.Order, c.Player
		}
	}
	return owner
}

// --- subgrid zone ---

// A sub-grid scores its base value once 80% of its cells are active, plus a
// smaller bonus only at 100% fill. Base attribution walks cells in
// placement order and credits whoever owned the threshold-crossing step.
func (sr *subgridRules) aggregate(z *Zone) int {
	active, total := subgridFill(z)
	if total == 0 {
		return 0
	}
	score := 0
	if active >= fillThreshold(total) {
		score += subgridBaseValue
	}
	if active == total {
		score += subgridFullBonus()
	}
	return score
}

func (sr *subgridRules) attribute(z *Zone, scores map[string]int) {
	active, total := subgridFill(z)
	if total == 0 || active < fillThreshold(total) {
		return
	}
	ordered := []*Cell{}
	for _, c := range z.SortedCells() {
		if scorable(c) {
			ordered = append(ordered, c)
		}
	}
	slices.SortStableFunc(ordered, func(a, b *Cell) int { return a.Order - b.Order })

	if owner := ordered[fillThreshold(total)-1].Player; owner != "" {
		scores[owner] += subgridBaseValue
	}
	if active == total {
		if owner := ordered[len(ordered)-1].Player; owner != "" {
			scores[owner] += subgridFullBonus()
		}
	}
}

func subgridFill(z *Zone) (active, total int) {
	for _, c := range z.Cells {
		total++
		if scorable(c) {
			active++
		}
	}
	return active, total
}

func fillThreshold(total int) int {
	return int(math.Ceil(subgridFillRatio * float64(total)))
}

func subgridFullBonus() int {
	return int(math.Round(subgridBonusRatio * subgridBaseValue))
}

// --- ring zone ---

// Connected components of active cells (4-neighbor, stones excluded) score
// when they contain at least two anchors: 6 points per connection, where
// connections is the anchor count minus one. Attribution goes to the
// majority owner among the component's anchors, ties broken by the latest
// anchor placement.
func (rr *ringRules) aggregate(z *Zone) int {
	total := 0
	for _, comp := range ringComponents(z) {
		total += ringClusterValue(comp)
	}
	return total
}

func (rr *ringRules) attribute(z *Zone, scores map[string]int) {
	for _, comp := range ringComponents(z) {
		pts := ringClusterValue(comp)
		if pts == 0 {
			continue
		}
		if owner := ringClusterOwner(comp); owner != "" {
			scores[owner] += pts
		}
	}
}

func ringClusterValue(comp []*Cell) int {
	bold := 0
	for _, c := range comp {
		if c.Bold {
			bold++
		}
	}
	if bold < 2 {
		return 0
	}
	connections := bold - 1
	return ringConnectionPts * connections
}

func ringClusterOwner(comp []*Cell) string {
	counts := map[string]int{}
	latest := map[string]int{}
	for _, c := range comp {
		if !c.Bold {
			continue
		}
		counts[c.Player]++
		if c.Order > latest[c.Player] {
			latest[c.Player] = c.Order
		}
	}
	best := ""
	for id := range counts {
		switch {
		case best == "":
			best = id
		case counts[id] > counts[best]:
			best = id
		case counts[id] == counts[best] && latest[id] > latest[best]:
			best = id
		case counts[id] == counts[best] && latest[id] == latest[best] && id < best:
			best = id
		}
	}
	return best
}

func ringComponents(z *Zone) [][]*Cell {
	seen := map[string]bool{}
	comps := [][]*Cell{}
	for _, c := range z.SortedCells() {
		if !scorable(c) || seen[CellKey(c.X, c.Y)] {
			continue
		}
		comp := []*Cell{}
		queue := []*Cell{c}
		seen[CellKey(c.X, c.Y)] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			comp = append(comp, cur)
			for _, n := range z.neighbors(cur.X, cur.Y) {
				k := CellKey(n.X, n.Y)
				if scorable(n) && !seen[k] {
					seen[k] = true
					queue = append(queue, n)
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps
}
