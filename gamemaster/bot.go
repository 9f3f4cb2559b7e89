package gamemaster

import (
	"terra/engine"
	"terra/game"
)

// Bot decides one turn's worth of actions for a scripted player. TakeTurn
// must leave the machine with the turn ended.
type Bot interface {
	ID() string
	PickDeck() game.DeckArchetype
	PickGoal(offers []*game.Objective) int
	TakeTurn(m *engine.Machine)
}

// GreedyBot plays the first legal placement it finds, spends every bonus
// charge it can and passes otherwise. Its scan order is deterministic, so
// matches between greedy bots replay exactly.
type GreedyBot struct {
	PlayerID string
}

func (b *GreedyBot) ID() string { return b.PlayerID }

func (b *GreedyBot) PickDeck() game.DeckArchetype { return game.DeckBalanced }

// PickGoal takes the highest-reward offer.
func (b *GreedyBot) PickGoal(offers []*game.Objective) int {
	best := 0
	for i, o := range offers {
		if o.RewardPoints > offers[best].RewardPoints {
			best = i
		}
	}
	return best
}

func (b *GreedyBot) TakeTurn(m *engine.Machine) {
	gs := m.State
	p := gs.Players[b.PlayerID]

	for _, card := range p.Hand {
		pl, ok := findPlacement(m, card.Color, card.Shape)
		if !ok {
			continue
		}
		if _, err := m.PlayMove(b.PlayerID, card.ID, pl); err == nil {
			break
		}
	}
	for _, color := range game.PlayColors {
		for p.BonusInventory[color] > 0 {
			pl, ok := findPlacement(m, color, [][]bool{{true}})
			if !ok {
				break
			}
			if _, err := m.PlayBonus(b.PlayerID, color, pl); err != nil {
				break
			}
		}
	}
	_ = m.EndTurn(b.PlayerID, "")
}

// findPlacement scans the board in a fixed order for a legal spot.
func findPlacement(m *engine.Machine, color game.Color, shape [][]bool) (game.Placement, bool) {
	for _, z := range m.State.Board.Zones() {
		if !color.Wildcard() && color != game.ZoneColor(z.Kind) {
			continue
		}
		for _, mirrored := range []bool{false, true} {
			for rot := 0; rot < 4; rot++ {
				oriented := game.Orient(shape, rot, mirrored)
				for y := 0; y < z.Height; y++ {
					for x := 0; x < z.Width; x++ {
						if _, err := m.State.Board.Validate(z, oriented, x, y); err == nil {
							return game.Placement{
								Zone: z.Kind, SubgridID: z.ID,
								X: x, Y: y, Rotation: rot, Mirrored: mirrored,
							}, true
						}
					}
				}
			}
		}
	}
	return game.Placement{}, false
}
