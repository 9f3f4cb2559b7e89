package game

// zoneRules is the behavior bundle backing one zone variant: placement
// legality plus the zone's aggregate and attributed scoring. An instance is
// bound to each zone once, when the zone is first used after construction
// or deserialization.
type zoneRules interface {
	// placeable checks the variant's anchor rule for a set of target
	// cells. first is true while the zone has no active cell yet.
	placeable(z *Zone, cells []*Cell, first bool) bool
	// aggregate computes the zone's board-level score.
	aggregate(z *Zone) int
	// attribute adds the zone's points to the owning players.
	attribute(z *Zone, scores map[string]int)
}

var (
	columnOps  = &columnRules{}
	mazeOps    = &mazeRules{}
	towerOps   = &towerRules{}
	subgridOps = &subgridRules{}
	ringOps    = &ringRules{}
)

func (z *Zone) ops() zoneRules {
	if z.rules == nil {
		switch z.Kind {
		case ZoneColumn:
			z.rules = columnOps
		case ZoneMaze:
			z.rules = mazeOps
		case ZoneTower:
			z.rules = towerOps
		case ZoneSubgrid:
			z.rules = subgridOps
		case ZoneRing:
			z.rules = ringOps
		}
	}
	return z.rules
}

// Placement addresses a shape drop: zone, anchor coordinate and the
// orientation applied to the card's shape matrix.
type Placement struct {
	Zone      ZoneKind `json:"zone"`
	SubgridID int      `json:"subgridId,omitempty"`
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Rotation  int      `json:"rotation"`
	Mirrored  bool     `json:"mirrored,omitempty"`
}

// Rewards is what a placement collected from the cells it activated.
type Rewards struct {
	Gold    int           `json:"gold,omitempty"`
	Bonuses map[Color]int `json:"bonuses,omitempty"`
}

// Empty reports whether nothing was collected.
func (rw Rewards) Empty() bool {
	return rw.Gold == 0 && len(rw.Bonuses) == 0
}

// CellMarkers snapshots a cell's collectibles before a placement consumed
// them, so undo can put them back.
type CellMarkers struct {
	Gold     bool  `json:"gold,omitempty"`
	Bonus    Color `json:"bonus,omitempty"`
	Treasure int   `json:"treasure,omitempty"`
}

// AppliedPlacement is the reversible record of one successful placement.
type AppliedPlacement struct {
	Zone      ZoneKind      `json:"zone"`
	SubgridID int           `json:"subgridId,omitempty"`
	Cells     []Coord       `json:"cells"`
	Markers   []CellMarkers `json:"markers"`
	Order     int           `json:"order"`
	Rewards   Rewards       `json:"rewards"`
}

// Validate resolves the absolute cells a shape would occupy and checks
// collision plus the zone's anchor rule. It never mutates; calling it twice
// without an intervening mutation gives the same answer.
func (b *Board) Validate(z *Zone, shape [][]bool, baseX, baseY int) ([]*Cell, error) {
	cells := []*Cell{}
	for sy, row := range shape {
		for sx, occupied := range row {
			if !occupied {
				continue
			}
			c := z.At(baseX+sx, baseY+sy)
			if c == nil {
				return nil, Fail(ReasonIllegalPlacement, "cell (%d,%d) is outside the zone", baseX+sx, baseY+sy)
			}
			if c.Active {
				return nil, Fail(ReasonIllegalPlacement, "cell (%d,%d) is occupied", c.X, c.Y)
			}
			cells = append(cells, c)
		}
	}
	if len(cells) == 0 {
		return nil, Fail(ReasonIllegalPlacement, "shape covers no cells")
	}
	if !z.ops().placeable(z, cells, !z.HasActive()) {
		return nil, Fail(ReasonIllegalPlacement, "placement violates the %s zone anchor rule", z.Kind)
	}
	return cells, nil
}

// Apply stamps the validated cells with owner, color and a fresh placement
// order, consumes any collectibles on them and returns the reversible
// record. Callers must pass cells straight from Validate.
func (b *Board) Apply(z *Zone, cells []*Cell, playerID string, color Color, stone bool) AppliedPlacement {
	ap := AppliedPlacement{
		Zone:      z.Kind,
		SubgridID: z.ID,
		Order:     b.NextOrder,
		Rewards:   Rewards{Bonuses: map[Color]int{}},
	}
	for _, c := range cells {
		ap.Cells = append(ap.Cells, Coord{X: c.X, Y: c.Y})
		ap.Markers = append(ap.Markers, CellMarkers{Gold: c.Gold, Bonus: c.Bonus, Treasure: c.Treasure})

		if c.Gold {
			ap.Rewards.Gold++
		}
		ap.Rewards.Gold += c.Treasure
		if c.Bonus != "" {
			ap.Rewards.Bonuses[c.Bonus]++
		}

		c.Active = true
		c.Player = playerID
		c.Color = color
		c.Stone = stone
		c.Order = b.NextOrder
		c.Gold = false
		c.Bonus = ""
		c.Treasure = 0
	}
	b.NextOrder++
	return ap
}

// Revert undoes one applied placement: cells go back to inactive with their
// collectibles restored, and the order counter rewinds. Placements must be
// reverted newest first.
func (b *Board) Revert(ap AppliedPlacement) {
	z, ok := b.Zone(ap.Zone, ap.SubgridID)
	if !ok {
		return
	}
	for i, coord := range ap.Cells {
		c := z.At(coord.X, coord.Y)
		if c == nil {
			continue
		}
		c.Active = false
		c.Player = ""
		c.Color = ""
		c.Stone = false
		c.Order = 0
		c.Gold = ap.Markers[i].Gold
		c.Bonus = ap.Markers[i].Bonus
		c.Treasure = ap.Markers[i].Treasure
	}
	b.NextOrder = ap.Order
}

// --- per-variant anchor rules ---

func (cr *columnRules) placeable(z *Zone, cells []*Cell, first bool) bool {
	for _, c := range cells {
		if c.X == 0 || c.Portal {
			return true
		}
		if !first && z.hasActiveNeighbor(c.X, c.Y) {
			return true
		}
	}
	return false
}

func (mr *mazeRules) placeable(z *Zone, cells []*Cell, first bool) bool {
	for _, c := range cells {
		if c.Bold || c.Portal {
			return true
		}
		if !first && z.hasActiveNeighbor(c.X, c.Y) {
			return true
		}
	}
	return false
}

func (tr *towerRules) placeable(z *Zone, cells []*Cell, first bool) bool {
	for _, c := range cells {
		if c.Y == z.Height-1 {
			return true
		}
		if !first && z.hasActiveNeighbor(c.X, c.Y) {
			return true
		}
	}
	return false
}

func (sr *subgridRules) placeable(z *Zone, cells []*Cell, first bool) bool {
	return true
}

func (rr *ringRules) placeable(z *Zone, cells []*Cell, first bool) bool {
	for _, c := range cells {
		if c.Portal {
			return true
		}
		if !first && z.hasActiveNeighbor(c.X, c.Y) {
			return true
		}
	}
	if !first {
		return false
	}
	// No portal: a first placement must lie entirely outside both outer
	// rings.
	for _, c := range cells {
		if c.Ring1 || c.Ring2 {
			return false
		}
	}
	return true
}
