package game

import "fmt"

// ObjectiveKind is the closed set of objective behaviors.
type ObjectiveKind string

const (
	ObjZonePoints ObjectiveKind = "zone_points"
	ObjGold       ObjectiveKind = "collect_gold"
	ObjBonus      ObjectiveKind = "collect_bonus"
	ObjCards      ObjectiveKind = "play_cards"
	ObjBalance    ObjectiveKind = "balance"
	ObjTotal      ObjectiveKind = "total_points"
	ObjTopScore   ObjectiveKind = "top_score"
	ObjDeny       ObjectiveKind = "deny_named_objective"
)

// ObjectiveStatus tracks resolution. Failed is terminal.
type ObjectiveStatus string

const (
	ObjectivePending  ObjectiveStatus = "pending"
	ObjectiveAchieved ObjectiveStatus = "achieved"
	ObjectiveFailed   ObjectiveStatus = "failed"
)

// Objective is one goal a player can pursue for a level. Sabotage
// objectives (ObjDeny) succeed only if the named target player fails their
// own chosen objective.
type Objective struct {
	ID   string        `json:"id"`
	Kind ObjectiveKind `json:"kind"`
	Zone ZoneKind      `json:"zone,omitempty"` // for zone_points
	Text string        `json:"text"`
	Tier int           `json:"tier"` // 1..3

	Target int `json:"target"`

	RewardPoints  int `json:"rewardPoints"`
	RewardGold    int `json:"rewardGold,omitempty"`
	RewardBonuses int `json:"rewardBonuses,omitempty"` // random-colored charges

	EndOnly bool `json:"endOnly,omitempty"`

	// Sabotage linkage, resolved at generation time.
	TargetPlayer    string `json:"targetPlayerId,omitempty"`
	TargetObjective string `json:"targetObjectiveId,omitempty"`
	// targetSlot is which of the target's three offers the sabotage names;
	// the id is filled in once every player's offers exist.
	TargetSlot int `json:"targetSlot,omitempty"`

	Status        ObjectiveStatus `json:"status"`
	AwardedPoints int             `json:"awardedPoints,omitempty"`
}

func (o *Objective) clone() *Objective {
	cp := *o
	return &cp
}

// GenerateOffers builds the three objectives offered to one player for a
// level: one candidate from each difficulty tier, drawn from a sub-seeded
// stream so every replica offers the same goals. others is the rest of the
// roster in turn order; it feeds sabotage target selection.
func GenerateOffers(seed uint32, level int, playerID string, others []string) []*Objective {
	r := NewRNG(SubSeed(seed, level, "goals:"+playerID))
	tier := WorldTier(level)

	offers := []*Objective{}
	for t := 1; t <= 3; t++ {
		pool := candidatePool(r, t, tier, others)
		ShuffleRNG(r, pool)
		o := pool[0]
		o.ID = fmt.Sprintf("%s-l%d-g%d", playerID, level, t-1)
		o.Status = ObjectivePending
		offers = append(offers, o)
	}
	return offers
}

func candidatePool(r *RNG, difficulty, tier int, others []string) []*Objective {
	switch difficulty {
	case 1:
		pool := []*Objective{
			{Kind: ObjGold, Tier: 1, Target: 2 + tier, RewardPoints: 5,
				Text: fmt.Sprintf("Collect %d gold coins this level", 2+tier)},
			{Kind: ObjBonus, Tier: 1, Target: 2, RewardPoints: 5,
				Text: "Collect 2 bonus symbols this level"},
			{Kind: ObjCards, Tier: 1, Target: 6, RewardPoints: 5,
				Text: "Play 6 cards this level"},
		}
		for _, kind := range ZoneKinds {
			target := 8 + 4*tier
			pool = append(pool, &Objective{
				Kind: ObjZonePoints, Zone: kind, Tier: 1, Target: target, RewardPoints: 5,
				Text: fmt.Sprintf("Score %d points in the %s zone", target, kind),
			})
		}
		return pool
	case 2:
		target := 18 + 6*tier
		pool := []*Objective{
			{Kind: ObjBalance, Tier: 2, Target: 4 + tier, RewardPoints: 8, RewardGold: 2,
				Text: fmt.Sprintf("Score at least %d points in every zone", 4+tier)},
			{Kind: ObjTotal, Tier: 2, Target: 50 + 15*tier, RewardPoints: 8, RewardGold: 2, EndOnly: true,
				Text: fmt.Sprintf("Finish the level with %d total points", 50+15*tier)},
		}
		for _, kind := range ZoneKinds {
			pool = append(pool, &Objective{
				Kind: ObjZonePoints, Zone: kind, Tier: 2, Target: target, RewardPoints: 8, RewardGold: 2,
				Text: fmt.Sprintf("Score %d points in the %s zone", target, kind),
			})
		}
		return pool
	default:
		pool := []*Objective{
			{Kind: ObjTopScore, Tier: 3, Target: 1, RewardPoints: 12, RewardGold: 3, RewardBonuses: 2, EndOnly: true,
				Text: "Finish the level with the highest score"},
		}
		if len(others) > 0 {
			target := PickRNG(r, others)
			pool = append(pool, &Objective{
				Kind: ObjDeny, Tier: 3, Target: 1, RewardPoints: 15, EndOnly: true,
				TargetPlayer: target,
				TargetSlot:   r.Intn(3),
				Text:         "Make the named rival fail their objective",
			})
		}
		return pool
	}
}

// ResolveSabotageTargets fills in the objective ids sabotage offers point
// at, once every player's offers exist.
func ResolveSabotageTargets(players map[string]*Player) {
	for _, p := range players {
		for _, o := range p.ObjectiveOffer {
			if o.Kind != ObjDeny {
				continue
			}
			target := players[o.TargetPlayer]
			if target == nil || len(target.ObjectiveOffer) == 0 {
				continue
			}
			slot := o.TargetSlot
			if slot >= len(target.ObjectiveOffer) {
				slot = 0
			}
			o.TargetObjective = target.ObjectiveOffer[slot].ID
		}
	}
}

// ObjectiveProgress measures how far a player is toward a non-sabotage
// objective given the current attributed scores.
func ObjectiveProgress(gs *GameState, p *Player, o *Objective, scores map[string]*ZoneScores) int {
	zs := scores[p.ID]
	switch o.Kind {
	case ObjZonePoints:
		return zs.ByKind(o.Zone)
	case ObjGold:
		return p.Stats.GoldCollected
	case ObjBonus:
		return p.Stats.BonusCollected
	case ObjCards:
		return p.Stats.CardsPlayed
	case ObjBalance:
		return zs.Balance
	case ObjTotal:
		return zs.Total
	case ObjTopScore:
		for id, other := range scores {
			if id != p.ID && other.Total >= zs.Total {
				return 0
			}
		}
		return 1
	}
	return 0
}

// CheckObjectives runs the incremental achievement pass after a mutation:
// any pending, immediately-evaluated chosen objective that reached its
// target is awarded exactly once.
func CheckObjectives(gs *GameState) {
	scores := gs.Board.PlayerScores(gs.PlayerIDs())
	for _, id := range gs.Order {
		p := gs.Players[id]
		o := p.Objective
		if o == nil || o.EndOnly || o.Status != ObjectivePending {
			continue
		}
		if ObjectiveProgress(gs, p, o, scores) >= o.Target {
			awardObjective(gs, p, o)
		}
	}
}

// awardObjective marks an objective achieved and grants its rewards. The
// random bonus colors come from a stream seeded by the objective id, so the
// grant is identical on every replica.
func awardObjective(gs *GameState, p *Player, o *Objective) {
	o.Status = ObjectiveAchieved
	o.AwardedPoints = o.RewardPoints
	p.Gold += o.RewardGold
	if o.RewardBonuses > 0 {
		r := NewRNG(SubSeed(gs.Seed, gs.Level, "objreward:"+o.ID))
		for i := 0; i < o.RewardBonuses; i++ {
			p.BonusInventory[PickRNG(r, PlayColors)]++
		}
	}
}

// ResolveLevelObjectives settles every chosen objective at level end.
// Sabotage objectives resolve last, against the final status of their
// target's chosen objective: they achieve only on the target's failure.
func ResolveLevelObjectives(gs *GameState) {
	scores := gs.Board.PlayerScores(gs.PlayerIDs())

	for _, id := range gs.Order {
		p := gs.Players[id]
		o := p.Objective
		if o == nil || o.Status != ObjectivePending || o.Kind == ObjDeny {
			continue
		}
		if ObjectiveProgress(gs, p, o, scores) >= o.Target {
			awardObjective(gs, p, o)
		} else {
			o.Status = ObjectiveFailed
		}
	}

	for _, id := range gs.Order {
		p := gs.Players[id]
		o := p.Objective
		if o == nil || o.Status != ObjectivePending || o.Kind != ObjDeny {
			continue
		}
		target := gs.Players[o.TargetPlayer]
		if target != nil && target.Objective != nil && target.Objective.Status == ObjectiveFailed {
			awardObjective(gs, p, o)
		} else {
			o.Status = ObjectiveFailed
		}
	}
}
