package game

import (
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ZoneKind is the closed set of zone variants. Behavior differences
// (placement legality, scoring) live in one zoneRules implementation per
// variant, bound once per zone instance rather than re-dispatched by name.
type ZoneKind string

const (
	ZoneColumn  ZoneKind = "column"
	ZoneMaze    ZoneKind = "maze"
	ZoneTower   ZoneKind = "tower"
	ZoneSubgrid ZoneKind = "subgrid"
	ZoneRing    ZoneKind = "ring"
)

// ZoneKinds lists every kind in canonical order.
var ZoneKinds = []ZoneKind{ZoneColumn, ZoneMaze, ZoneTower, ZoneSubgrid, ZoneRing}

// Cell is one playable grid position. A zone missing an (x,y) entry is a
// permanent void, which is different from a present-but-inactive cell.
type Cell struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Active bool   `json:"active"`
	Color  Color  `json:"color,omitempty"`
	Player string `json:"playerId,omitempty"`
	Stone  bool   `json:"stone,omitempty"`
	Order  int    `json:"order,omitempty"` // strictly increasing placement order

	// Topology markers, set at generation time.
	Bold   bool `json:"bold,omitempty"`   // anchor
	End    bool `json:"end,omitempty"`    // maze terminal
	Portal bool `json:"portal,omitempty"` // legalizes placement anywhere it sits
	Ring1  bool `json:"ring1,omitempty"`  // outermost ring tag
	Ring2  bool `json:"ring2,omitempty"`  // second ring tag

	// Collectibles, consumed when the cell becomes active.
	Gold     bool  `json:"gold,omitempty"`
	Bonus    Color `json:"bonus,omitempty"`
	Treasure int   `json:"treasure,omitempty"`
}

func (c *Cell) special() bool {
	return c.Gold || c.Bonus != "" || c.Treasure > 0 || c.Portal || c.Bold || c.End
}

// Coord addresses one cell within a zone.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CellKey is the map key for a coordinate; string-keyed so the sparse grid
// survives JSON round trips.
func CellKey(x, y int) string {
	return strconv.Itoa(x) + "," + strconv.Itoa(y)
}

// ParseCellKey inverts CellKey.
func ParseCellKey(key string) (int, int) {
	parts := strings.SplitN(key, ",", 2)
	x, _ := strconv.Atoi(parts[0])
	y, _ := strconv.Atoi(parts[1])
	return x, y
}

// Zone is one independently shaped and scored region of the board.
type Zone struct {
	Kind   ZoneKind         `json:"kind"`
	ID     int              `json:"id"` // subgrid index, 0 elsewhere
	Width  int              `json:"width"`
	Height int              `json:"height"`
	Cells  map[string]*Cell `json:"cells"`

	// Maze distance origin and the farthest reachable manhattan distance,
	// fixed at generation time.
	StartX  int `json:"startX,omitempty"`
	StartY  int `json:"startY,omitempty"`
	MaxDist int `json:"maxDist,omitempty"`

	rules zoneRules
}

// At returns the cell at (x,y), or nil for a void position.
func (z *Zone) At(x, y int) *Cell {
	return z.Cells[CellKey(x, y)]
}

func (z *Zone) put(c *Cell) {
	z.Cells[CellKey(c.X, c.Y)] = c
}

// SortedCells returns all cells ordered by (y,x). Sparse maps iterate in
// random order; every walk that feeds generation, scoring or serialization
// goes through here so replicas never diverge.
func (z *Zone) SortedCells() []*Cell {
	keys := maps.Keys(z.Cells)
	slices.SortFunc(keys, func(a, b string) int {
		ax, ay := ParseCellKey(a)
		bx, by := ParseCellKey(b)
		if ay != by {
			return ay - by
		}
		return ax - bx
	})
	cells := make([]*Cell, len(keys))
	for i, k := range keys {
		cells[i] = z.Cells[k]
	}
	return cells
}

// HasActive reports whether any cell in the zone is occupied.
func (z *Zone) HasActive() bool {
	for _, c := range z.Cells {
		if c.Active {
			return true
		}
	}
	return false
}

var neighborOffsets = [4]Coord{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// neighbors returns the existing orthogonal neighbor cells of (x,y).
func (z *Zone) neighbors(x, y int) []*Cell {
	out := make([]*Cell, 0, 4)
	for _, d := range neighborOffsets {
		if c := z.At(x+d.X, y+d.Y); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// hasActiveNeighbor reports whether (x,y) touches an occupied, non-stone
// cell. Stones block adjacency growth through them.
func (z *Zone) hasActiveNeighbor(x, y int) bool {
	for _, n := range z.neighbors(x, y) {
		if n.Active && !n.Stone {
			return true
		}
	}
	return false
}

func newZone(kind ZoneKind, id, width, height int) *Zone {
	return &Zone{
		Kind:   kind,
		ID:     id,
		Width:  width,
		Height: height,
		Cells:  make(map[string]*Cell),
	}
}

// Board holds the five zones of one level plus the shared placement-order
// counter. Exactly one board exists per level; it is replaced wholesale
// when the next level starts.
type Board struct {
	Column   *Zone   `json:"column"`
	Maze     *Zone   `json:"maze"`
	Tower    *Zone   `json:"tower"`
	Subgrids []*Zone `json:"subgrids"`
	Ring     *Zone   `json:"ring"`

	// NextOrder is the placement-order stamp handed to the next placement.
	NextOrder int `json:"nextOrder"`
}

// Zones returns every zone in canonical order.
func (b *Board) Zones() []*Zone {
	out := []*Zone{b.Column, b.Maze, b.Tower}
	out = append(out, b.Subgrids...)
	out = append(out, b.Ring)
	return out
}

// Zone resolves a kind (and subgrid id, for the subgrid zone) to its zone.
func (b *Board) Zone(kind ZoneKind, subgridID int) (*Zone, bool) {
	switch kind {
	case ZoneColumn:
		return b.Column, true
	case ZoneMaze:
		return b.Maze, true
	case ZoneTower:
		return b.Tower, true
	case ZoneRing:
		return b.Ring, true
	case ZoneSubgrid:
		for _, sg := range b.Subgrids {
			if sg.ID == subgridID {
				return sg, true
			}
		}
	}
	return nil, false
}
