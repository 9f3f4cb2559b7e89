package game

// PlayerView is what one viewer may see of a player. Opponents' deck, draw
// pile and hand collapse to counts; an unrevealed chosen objective shows
// only as a marker.
type PlayerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Connected bool   `json:"connected"`

	HandCount    int `json:"handCount"`
	DrawCount    int `json:"drawCount"`
	DeckCount    int `json:"deckCount"`
	DiscardCount int `json:"discardCount"`

	// Populated for the viewer themselves only.
	Hand           []*Card      `json:"hand,omitempty"`
	Deck           []*Card      `json:"deck,omitempty"`
	ObjectiveOffer []*Objective `json:"objectiveOffer,omitempty"`
	TimeBombs      int          `json:"timeBombs,omitempty"`

	// Objective is present when it is the viewer's own or once resolved or
	// the level is over; HasObjective marks a hidden chosen objective.
	Objective    *Objective `json:"objective,omitempty"`
	HasObjective bool       `json:"hasObjective"`

	BonusInventory map[Color]int `json:"bonusInventory"`
	Gold           int           `json:"gold"`
	Unlocks        Unlocks       `json:"unlocks"`
	MatchWins      int           `json:"matchWins"`
	Stats          LevelStats    `json:"stats"`
}

// ShopView is the viewer's slice of the shop: the shared catalog, their own
// offers (the concealed one stripped of its card until bought) and their
// own purchase bookkeeping.
type ShopView struct {
	Catalog   []*ShopItem     `json:"catalog"`
	Offers    []*ShopItem     `json:"offers"`
	Purchased []ShopItemKind  `json:"purchased,omitempty"`
	FreePick  []*Card         `json:"freePick,omitempty"`
	Ready     map[string]bool `json:"ready"`
}

// StateView is the full sanitized snapshot broadcast to one player. It is
// built fresh from the canonical state on every broadcast and never aliases
// mutable hidden data; the board is shared because the hosting layer
// serializes the view before processing the next command.
type StateView struct {
	ID       string `json:"id"`
	ViewerID string `json:"viewerId"`
	HostID   string `json:"hostId"`

	Phase     string `json:"phase"`
	Order     []string `json:"order"`
	TurnIndex int    `json:"turnIndex"`
	TurnCount int    `json:"turnCount"`
	Level     int    `json:"level"`
	MaxLevels int    `json:"maxLevels"`
	WinTarget int    `json:"winTarget"`

	Paused   bool   `json:"paused"`
	PausedBy string `json:"pausedBy,omitempty"`

	Board   *Board                `json:"board,omitempty"`
	Scores  map[string]*ZoneScores `json:"scores,omitempty"`
	Players []*PlayerView         `json:"players"`
	Shop    *ShopView             `json:"shop,omitempty"`

	History []HistoryEntry `json:"history"`
	CanUndo bool           `json:"canUndo"`
}

// SanitizedFor builds the per-player redaction view. It copies exactly the
// fields the viewer may see and never mutates the canonical state.
func SanitizedFor(gs *GameState, viewerID string) *StateView {
	v := &StateView{
		ID:        gs.ID,
		ViewerID:  viewerID,
		HostID:    gs.HostID,
		Phase:     gs.Phase.String(),
		Order:     gs.PlayerIDs(),
		TurnIndex: gs.TurnIndex,
		TurnCount: gs.TurnCount,
		Level:     gs.Level,
		MaxLevels: gs.MaxLevels,
		WinTarget: gs.WinTarget,
		Paused:    gs.Paused,
		PausedBy:  gs.PausedBy,
		Board:     gs.Board,
		History:   gs.History,
		CanUndo:   gs.Undo != nil && gs.Undo.Player == viewerID,
	}
	if gs.Board != nil {
		v.Scores = gs.Board.PlayerScores(gs.PlayerIDs())
	}

	levelOver := gs.Phase == PhaseLevelComplete || gs.Phase == PhaseShopping || gs.Phase == PhaseEnded
	for _, id := range gs.Order {
		v.Players = append(v.Players, sanitizePlayer(gs.Players[id], id == viewerID, levelOver))
	}
	if gs.Shop != nil {
		v.Shop = sanitizeShop(gs.Shop, viewerID)
	}
	return v
}

func sanitizePlayer(p *Player, self, levelOver bool) *PlayerView {
	pv := &PlayerView{
		ID:             p.ID,
		Name:           p.Name,
		Connected:      p.Connected,
		HandCount:      len(p.Hand),
		DrawCount:      len(p.DrawPile),
		DeckCount:      len(p.Deck),
		DiscardCount:   len(p.Discard),
		HasObjective:   p.Objective != nil,
		BonusInventory: p.BonusInventory,
		Gold:           p.Gold,
		Unlocks:        p.Unlocks,
		MatchWins:      p.MatchWins,
		Stats:          p.Stats,
	}
	if self {
		pv.Hand = p.Hand
		pv.Deck = p.Deck
		pv.ObjectiveOffer = p.ObjectiveOffer
		pv.TimeBombs = p.TimeBombs
	}
	if p.Objective != nil {
		revealed := self || levelOver || p.Objective.Status != ObjectivePending
		if revealed {
			pv.Objective = p.Objective
		}
	}
	return pv
}

func sanitizeShop(s *ShopState, viewerID string) *ShopView {
	sv := &ShopView{
		Catalog:   s.Catalog,
		Purchased: s.Purchased[viewerID],
		FreePick:  s.FreePick[viewerID],
		Ready:     s.Ready,
	}
	for _, it := range s.Offers[viewerID] {
		if it.Concealed {
			hidden := *it
			hidden.Card = nil
			sv.Offers = append(sv.Offers, &hidden)
			continue
		}
		sv.Offers = append(sv.Offers, it)
	}
	return sv
}
