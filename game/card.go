package game

import "fmt"

// Color identifies a play color. The five zone colors map one-to-one onto
// the five zone kinds; the two wildcard colors are playable on any zone and
// ColorPrism is additionally exempt from the one-card-per-turn limit.
type Color string

const (
	ColorYellow Color = "yellow" // column zone
	ColorGreen  Color = "green"  // maze zone
	ColorBlue   Color = "blue"   // tower zone
	ColorRed    Color = "red"    // subgrid zone
	ColorPurple Color = "purple" // ring zone
	ColorWild   Color = "wild"   // any zone
	ColorPrism  Color = "prism"  // any zone, extra play
)

// PlayColors are the five regular colors, in canonical order.
var PlayColors = []Color{ColorYellow, ColorGreen, ColorBlue, ColorRed, ColorPurple}

// Wildcard reports whether c may be played on any zone.
func (c Color) Wildcard() bool {
	return c == ColorWild || c == ColorPrism
}

// ZoneColor returns the regular color belonging to a zone kind.
func ZoneColor(kind ZoneKind) Color {
	switch kind {
	case ZoneColumn:
		return ColorYellow
	case ZoneMaze:
		return ColorGreen
	case ZoneTower:
		return ColorBlue
	case ZoneSubgrid:
		return ColorRed
	case ZoneRing:
		return ColorPurple
	}
	return ""
}

// Card is one playable shape. Rotation and mirroring are applied at play
// time and never stored on the card.
type Card struct {
	ID    string   `json:"id"`
	Shape [][]bool `json:"shape"`
	Color Color    `json:"color"`
	Stone bool     `json:"stone,omitempty"` // blocking shape, never scored
}

// CellCount returns the number of occupied cells in the card's shape.
func (c *Card) CellCount() int {
	n := 0
	for _, row := range c.Shape {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}

// Orient returns a shape after rotation (quarter turns clockwise) and
// optional horizontal mirroring.
func Orient(shape [][]bool, rotation int, mirrored bool) [][]bool {
	out := shape
	if mirrored {
		out = mirrorShape(out)
	}
	for i := 0; i < ((rotation%4)+4)%4; i++ {
		out = rotateShape(out)
	}
	return out
}

func rotateShape(shape [][]bool) [][]bool {
	h := len(shape)
	w := len(shape[0])
	out := make([][]bool, w)
	for y := 0; y < w; y++ {
		out[y] = make([]bool, h)
		for x := 0; x < h; x++ {
			out[y][x] = shape[h-1-x][y]
		}
	}
	return out
}

func mirrorShape(shape [][]bool) [][]bool {
	out := make([][]bool, len(shape))
	for y, row := range shape {
		out[y] = make([]bool, len(row))
		for x := range row {
			out[y][x] = row[len(row)-1-x]
		}
	}
	return out
}

func parseShape(rows ...string) [][]bool {
	out := make([][]bool, len(rows))
	for y, row := range rows {
		out[y] = make([]bool, len(row))
		for x, ch := range row {
			out[y][x] = ch == 'X'
		}
	}
	return out
}

// shapePool is the weighted draw pool, in three size categories.
type shapeDef struct {
	shape    [][]bool
	category int // 0 small, 1 medium, 2 large
}

var shapePool = []shapeDef{
	{parseShape("X"), 0},
	{parseShape("XX"), 0},
	{parseShape("X", "X"), 0},
	{parseShape("XXX"), 1},
	{parseShape("XX", "X."), 1},
	{parseShape("XX", "XX"), 1},
	{parseShape("XXXX"), 1},
	{parseShape("XXX", "X.."), 1},
	{parseShape("XXX", ".X."), 1},
	{parseShape(".XX", "XX."), 1},
	{parseShape("XXXXX"), 2},
	{parseShape("XXX", "X..", "X.."), 2},
	{parseShape("XXX", ".X.", ".X."), 2},
	{parseShape(".X.", "XXX", ".X."), 2},
}

// categoryWeights holds the cumulative draw weight for small/medium/large.
var categoryWeights = []float64{0.45, 0.80, 1.0}

// DeckArchetype picks the color bias of a player's level-1 starting deck.
type DeckArchetype string

const (
	DeckFocused  DeckArchetype = "focused"  // 1-2 dominant colors
	DeckBalanced DeckArchetype = "balanced" // even split across colors
	DeckRandom   DeckArchetype = "random"
)

// DeckSize is the number of cards dealt to each player per level.
const DeckSize = 14

const (
	wildChance  = 0.06
	prismChance = 0.04
)

// Unlocks are the permanent purchases that widen a player's deck pool.
type Unlocks struct {
	Wild  bool `json:"wild"`
	Prism bool `json:"prism"`
	Stone bool `json:"stone"`
}

func drawShape(r *RNG) [][]bool {
	roll := r.Float()
	category := 0
	for i, w := range categoryWeights {
		if roll < w {
			category = i
			break
		}
	}
	candidates := make([]shapeDef, 0, len(shapePool))
	for _, def := range shapePool {
		if def.category == category {
			candidates = append(candidates, def)
		}
	}
	return PickRNG(r, candidates).shape
}

func drawColor(r *RNG, unlocks Unlocks) Color {
	if unlocks.Wild && r.Chance(wildChance) {
		return ColorWild
	}
	if unlocks.Prism && r.Chance(prismChance) {
		return ColorPrism
	}
	return PickRNG(r, PlayColors)
}

// BuildDeck builds a player's draw pile for one level. Card ids embed the
// owner and level so they stay unique and reproducible across replicas.
func BuildDeck(r *RNG, owner string, level int, unlocks Unlocks) []*Card {
	deck := make([]*Card, 0, DeckSize)
	stoneQuota := 0
	if unlocks.Stone {
		stoneQuota = 2
	}
	for i := 0; i < DeckSize; i++ {
		card := &Card{
			ID:    fmt.Sprintf("%s-l%d-%d", owner, level, i),
			Shape: drawShape(r),
			Color: drawColor(r, unlocks),
		}
		if stoneQuota > 0 && r.Chance(0.25) {
			card.Stone = true
			stoneQuota--
		}
		deck = append(deck, card)
	}
	return deck
}

// BuildStartingDeck builds the level-1 deck with the color bias the player
// chose before the match. Shapes draw the same way as every later level;
// only the color sequence differs.
func BuildStartingDeck(r *RNG, owner string, archetype DeckArchetype) []*Card {
	colors := startingColors(r, archetype)
	deck := make([]*Card, 0, DeckSize)
	for i := 0; i < DeckSize; i++ {
		deck = append(deck, &Card{
			ID:    fmt.Sprintf("%s-l1-%d", owner, i),
			Shape: drawShape(r),
			Color: colors[i],
		})
	}
	return deck
}

func startingColors(r *RNG, archetype DeckArchetype) []Color {
	colors := make([]Color, DeckSize)
	switch archetype {
	case DeckFocused:
		dominant := []Color{PickRNG(r, PlayColors)}
		if r.Chance(0.5) {
			second := PickRNG(r, PlayColors)
			if second != dominant[0] {
				dominant = append(dominant, second)
			}
		}
		for i := range colors {
			if r.Chance(0.7) {
				colors[i] = PickRNG(r, dominant)
			} else {
				colors[i] = PickRNG(r, PlayColors)
			}
		}
	case DeckBalanced:
		for i := range colors {
			colors[i] = PlayColors[i%len(PlayColors)]
		}
		ShuffleRNG(r, colors)
	default:
		for i := range colors {
			colors[i] = PickRNG(r, PlayColors)
		}
	}
	return colors
}
