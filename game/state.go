package game

import (
	"encoding/json"
	"hash/fnv"
)

// Phase is the game's lifecycle position. Transitions only move forward;
// the choosingGoals → playing → levelComplete → shopping loop repeats once
// per level.
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseChoosingStartDeck
	PhaseChoosingGoals
	PhasePlaying
	PhaseLevelComplete
	PhaseShopping
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseChoosingStartDeck:
		return "choosingStartDeck"
	case PhaseChoosingGoals:
		return "choosingGoals"
	case PhasePlaying:
		return "playing"
	case PhaseLevelComplete:
		return "levelComplete"
	case PhaseShopping:
		return "shopping"
	case PhaseEnded:
		return "ended"
	}
	return "unknown"
}

// MaxPlayers bounds the roster of one game.
const MaxPlayers = 8

// HandSize is what hands refill to at the end of every turn.
const HandSize = 3

// historyLimit bounds the move log.
const historyLimit = 200

// LevelStats are the per-level counters objectives read. Reset when a new
// level starts.
type LevelStats struct {
	GoldCollected  int `json:"goldCollected"`
	BonusCollected int `json:"bonusCollected"`
	CardsPlayed    int `json:"cardsPlayed"`
}

// Player is one participant. Created on join, re-seeded at the start of
// every level, destroyed only with the game itself.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Connected bool   `json:"connected"`

	Deck     []*Card `json:"deck"` // full reference list, immutable per level
	DrawPile []*Card `json:"drawPile"`
	Hand     []*Card `json:"hand"`
	Discard  []*Card `json:"discard"`

	Archetype      DeckArchetype `json:"archetype,omitempty"`
	Objective      *Objective    `json:"objective,omitempty"`
	ObjectiveOffer []*Objective  `json:"objectiveOffer,omitempty"`

	BonusInventory map[Color]int `json:"bonusInventory"`
	Gold           int           `json:"gold"`
	TimeBombs      int           `json:"timeBombs"`
	Unlocks        Unlocks       `json:"unlocks"`
	MatchWins      int           `json:"matchWins"`

	// PendingCards were claimed in the shop and join the next level's deck.
	PendingCards []*Card `json:"pendingCards,omitempty"`

	Stats LevelStats `json:"stats"`
}

// Exhausted reports whether the player has nothing left to play this level.
func (p *Player) Exhausted() bool {
	if len(p.Hand) > 0 || len(p.DrawPile) > 0 {
		return false
	}
	for _, n := range p.BonusInventory {
		if n > 0 {
			return false
		}
	}
	return true
}

// HandCard finds a card in hand by id.
func (p *Player) HandCard(cardID string) (int, *Card) {
	for i, c := range p.Hand {
		if c.ID == cardID {
			return i, c
		}
	}
	return -1, nil
}

// HistoryEntry is one logged move.
type HistoryEntry struct {
	Player    string   `json:"player"`
	CardID    string   `json:"cardId,omitempty"`
	Bonus     Color    `json:"bonus,omitempty"`
	Zone      ZoneKind `json:"zone"`
	SubgridID int      `json:"subgridId,omitempty"`
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Turn      int      `json:"turn"`
}

// UndoCard remembers a card removed from the hand and where it sat.
type UndoCard struct {
	Card      *Card `json:"card"`
	HandIndex int   `json:"handIndex"`
}

// PlayerSnapshot freezes the undo-relevant slice of one player's state.
type PlayerSnapshot struct {
	Gold      int           `json:"gold"`
	Bonus     map[Color]int `json:"bonus"`
	Objective *Objective    `json:"objective,omitempty"`
	Stats     LevelStats    `json:"stats"`
}

// UndoRecord captures everything the active turn changed so far, so a
// single undo can reverse the compound effect: the played card(s), every
// bonus placement, and per-player objective/gold/bonus snapshots taken
// before the turn's changes. Before covers every player, not just the
// turn owner: a placement can complete an opponent's objective and hand
// them rewards.
type UndoRecord struct {
	Player     string             `json:"player"`
	Cards      []UndoCard         `json:"cards,omitempty"`
	Placements []AppliedPlacement `json:"placements"`

	Before     map[string]PlayerSnapshot `json:"before"`
	HistoryLen int                       `json:"historyLen"`
}

// Snapshot freezes the player's undo-relevant state.
func (p *Player) Snapshot() PlayerSnapshot {
	bonus := map[Color]int{}
	for c, n := range p.BonusInventory {
		bonus[c] = n
	}
	s := PlayerSnapshot{Gold: p.Gold, Bonus: bonus, Stats: p.Stats}
	if p.Objective != nil {
		o := *p.Objective
		s.Objective = &o
	}
	return s
}

// Restore rewinds the player to a snapshot.
func (p *Player) Restore(s PlayerSnapshot) {
	p.Gold = s.Gold
	p.BonusInventory = s.Bonus
	p.Objective = s.Objective
	p.Stats = s.Stats
}

// LevelResult records how the finished level settled.
type LevelResult struct {
	Level    int            `json:"level"`
	Winner   string         `json:"winner"`
	RunnerUp string         `json:"runnerUp,omitempty"`
	Totals   map[string]int `json:"totals"`
}

// GameState is the single mutable root of one game. It is owned by exactly
// one hosting process, mutated only through engine commands, and fully
// round-trippable through plain JSON.
type GameState struct {
	ID   string `json:"id"`
	Seed uint32 `json:"seed"`

	Phase     Phase    `json:"phase"`
	HostID    string   `json:"hostId"`
	Players   map[string]*Player `json:"players"`
	Order     []string `json:"order"` // turn order
	TurnIndex int      `json:"turnIndex"`
	TurnCount int      `json:"turnCount"`

	Level     int `json:"level"`
	MaxLevels int `json:"maxLevels"`
	WinTarget int `json:"winTarget"` // match wins that end the game early

	Board *Board `json:"board,omitempty"`

	History []HistoryEntry `json:"history"`

	Paused   bool   `json:"paused"`
	PausedBy string `json:"pausedBy,omitempty"`

	// TurnSerial increments whenever the active turn changes; the hosting
	// layer tags its wall-clock turn timer with it.
	TurnSerial int `json:"turnSerial"`

	// CardPlayed marks that the active player already played their regular
	// card this turn.
	CardPlayed bool `json:"cardPlayed"`

	// BonusInjected marks the one-shot late-game bonus symbol injection.
	BonusInjected bool `json:"bonusInjected"`

	// PassStreak counts consecutive placement-free turns by players with
	// no cards left in hand or draw pile. A full round of those ends the
	// level even if unplayable bonus charges remain.
	PassStreak int `json:"passStreak"`

	Shop *ShopState `json:"shop,omitempty"`

	// LastLevel holds the settlement of the most recently finished level.
	LastLevel *LevelResult `json:"lastLevel,omitempty"`

	Undo *UndoRecord `json:"undo,omitempty"`
}

// NewGameState initializes an empty game in the waiting phase.
func NewGameState(id string, seed uint32, maxLevels, winTarget int) *GameState {
	return &GameState{
		ID:        id,
		Seed:      seed,
		Phase:     PhaseWaiting,
		Players:   map[string]*Player{},
		Order:     []string{},
		Level:     1,
		MaxLevels: maxLevels,
		WinTarget: winTarget,
	}
}

// CurrentPlayer returns the player whose turn it is, or nil outside the
// playing phase.
func (gs *GameState) CurrentPlayer() *Player {
	if len(gs.Order) == 0 || gs.TurnIndex < 0 || gs.TurnIndex >= len(gs.Order) {
		return nil
	}
	return gs.Players[gs.Order[gs.TurnIndex]]
}

// PlayerIDs returns the roster in turn order.
func (gs *GameState) PlayerIDs() []string {
	out := make([]string, len(gs.Order))
	copy(out, gs.Order)
	return out
}

// LogMove appends to the bounded move history.
func (gs *GameState) LogMove(e HistoryEntry) {
	gs.History = append(gs.History, e)
	if len(gs.History) > historyLimit {
		gs.History = gs.History[len(gs.History)-historyLimit:]
	}
}

// Hash fingerprints the full state. encoding/json sorts map keys, so the
// digest is stable across replicas and runs.
func (gs *GameState) Hash() uint64 {
	raw, err := json.Marshal(gs)
	if err != nil {
		return 0
	}
	h := fnv.New64a()
	h.Write(raw)
	return h.Sum64()
}
