package engine

import (
	"terra/game"
	"terra/utils"
)

// Machine is the turn/phase state machine over one game. Every command is a
// synchronous function that validates fully before mutating, mutates
// atomically and returns a result or a categorical failure; the hosting
// layer owns serialization, timers and broadcasting.
type Machine struct {
	State *game.GameState
}

// New creates a machine for a fresh game in the waiting phase.
func New(id string, seed uint32, maxLevels, winTarget int) *Machine {
	return &Machine{State: game.NewGameState(id, seed, maxLevels, winTarget)}
}

// MoveResult reports what a placement did.
type MoveResult struct {
	Cells   []game.Coord `json:"cells"`
	Rewards game.Rewards `json:"rewards"`
}

// Join adds a player to the roster. The first player to join becomes the
// host. Only possible while the game is waiting.
func (m *Machine) Join(playerID, name string) error {
	gs := m.State
	if gs.Phase != game.PhaseWaiting {
		return game.Fail(game.ReasonInvalidPhase, "cannot join during %s", gs.Phase)
	}
	if _, ok := gs.Players[playerID]; ok {
		return game.Fail(game.ReasonAlreadyDone, "player %s already joined", playerID)
	}
	if len(gs.Order) >= game.MaxPlayers {
		return game.Fail(game.ReasonPermissionDenied, "game is full")
	}
	gs.Players[playerID] = &game.Player{
		ID:             playerID,
		Name:           name,
		Connected:      true,
		BonusInventory: map[game.Color]int{},
	}
	gs.Order = append(gs.Order, playerID)
	if gs.HostID == "" {
		gs.HostID = playerID
	}
	return nil
}

// Start locks the roster and moves to starting-deck selection. Host only.
func (m *Machine) Start(callerID string) error {
	gs := m.State
	if gs.Phase != game.PhaseWaiting {
		return game.Fail(game.ReasonInvalidPhase, "game already started")
	}
	if callerID != gs.HostID {
		return game.Fail(game.ReasonPermissionDenied, "only the host can start the game")
	}
	if len(gs.Order) < 2 {
		return game.Fail(game.ReasonInsufficientResource, "need at least 2 players")
	}
	gs.Phase = game.PhaseChoosingStartDeck
	return nil
}

// ChooseStartingDeck records a player's deck archetype. Once every
// connected player has chosen (disconnected players auto-pass), level 1 is
// generated and the phase moves to goal selection.
func (m *Machine) ChooseStartingDeck(playerID string, archetype game.DeckArchetype) error {
	gs := m.State
	if gs.Phase != game.PhaseChoosingStartDeck {
		return game.Fail(game.ReasonInvalidPhase, "not choosing decks now")
	}
	p, ok := gs.Players[playerID]
	if !ok {
		return game.Fail(game.ReasonNotFound, "unknown player %s", playerID)
	}
	if p.Archetype != "" {
		return game.Fail(game.ReasonAlreadyDone, "deck already chosen")
	}
	switch archetype {
	case game.DeckFocused, game.DeckBalanced, game.DeckRandom:
	default:
		return game.Fail(game.ReasonNotFound, "unknown deck archetype %q", archetype)
	}
	p.Archetype = archetype
	m.maybeFinishDeckChoice()
	return nil
}

// maybeFinishDeckChoice starts level 1 once every connected player has an
// archetype. Disconnected players auto-pass (they fall back to random).
func (m *Machine) maybeFinishDeckChoice() {
	gs := m.State
	anyConnected := false
	for _, id := range gs.Order {
		q := gs.Players[id]
		if !q.Connected {
			continue
		}
		anyConnected = true
		if q.Archetype == "" {
			return
		}
	}
	if !anyConnected {
		return
	}
	m.startLevel(1)
}

// startLevel builds a fresh board, decks and objective offers. Levels after
// the first merge shop-claimed cards into the new deck.
func (m *Machine) startLevel(level int) {
	gs := m.State
	gs.Level = level
	gs.Board = game.GenerateBoard(gs.Seed, level)

	for _, id := range gs.Order {
		p := gs.Players[id]
		r := game.NewRNG(game.SubSeed(gs.Seed, level, "deck:"+id))
		var deck []*game.Card
		if level == 1 {
			archetype := p.Archetype
			if archetype == "" {
				archetype = game.DeckRandom
			}
			deck = game.BuildStartingDeck(r, id, archetype)
		} else {
			deck = game.BuildDeck(r, id, level, p.Unlocks)
			deck = append(deck, p.PendingCards...)
			p.PendingCards = nil
			game.ShuffleRNG(r, deck)
		}
		p.Deck = append([]*game.Card{}, deck...)
		p.DrawPile = deck
		p.Hand = nil
		p.Discard = nil
		p.Objective = nil
		p.Stats = game.LevelStats{}

		others := []string{}
		for _, other := range gs.Order {
			if other != id {
				others = append(others, other)
			}
		}
		p.ObjectiveOffer = game.GenerateOffers(gs.Seed, level, id, others)
	}
	game.ResolveSabotageTargets(gs.Players)

	gs.Shop = nil
	gs.Undo = nil
	gs.CardPlayed = false
	gs.BonusInjected = false
	gs.PassStreak = 0
	gs.TurnIndex = 0
	gs.TurnCount = 0
	gs.Phase = game.PhaseChoosingGoals
}

// ChooseGoal picks one of the three offered objectives. The choice is
// private until it resolves. Once all connected players have chosen, hands
// are drawn and play begins.
func (m *Machine) ChooseGoal(playerID string, index int) error {
	gs := m.State
	if gs.Phase != game.PhaseChoosingGoals {
		return game.Fail(game.ReasonInvalidPhase, "not choosing goals now")
	}
	p, ok := gs.Players[playerID]
	if !ok {
		return game.Fail(game.ReasonNotFound, "unknown player %s", playerID)
	}
	if p.Objective != nil {
		return game.Fail(game.ReasonAlreadyDone, "goal already chosen")
	}
	if index < 0 || index >= len(p.ObjectiveOffer) {
		return game.Fail(game.ReasonNotFound, "no goal offer at index %d", index)
	}
	chosen := *p.ObjectiveOffer[index]
	p.Objective = &chosen
	m.maybeBeginPlaying()
	return nil
}

// maybeBeginPlaying starts the level once every connected player has a
// chosen objective.
func (m *Machine) maybeBeginPlaying() {
	gs := m.State
	anyConnected := false
	for _, id := range gs.Order {
		q := gs.Players[id]
		if !q.Connected {
			continue
		}
		anyConnected = true
		if q.Objective == nil {
			return
		}
	}
	if !anyConnected {
		return
	}
	m.beginPlaying()
}

func (m *Machine) beginPlaying() {
	gs := m.State
	for _, id := range gs.Order {
		refillHand(gs.Players[id])
	}
	gs.TurnIndex = 0
	for i, id := range gs.Order {
		if gs.Players[id].Connected {
			gs.TurnIndex = i
			break
		}
	}
	gs.TurnCount = 1
	gs.TurnSerial++
	gs.CardPlayed = false
	gs.Phase = game.PhasePlaying
}

func refillHand(p *game.Player) {
	for len(p.Hand) < game.HandSize && len(p.DrawPile) > 0 {
		p.Hand = append(p.Hand, p.DrawPile[0])
		p.DrawPile = p.DrawPile[1:]
	}
}

// playingTurnCheck bundles the guards shared by every in-turn command.
func (m *Machine) playingTurnCheck(playerID string) (*game.Player, error) {
	gs := m.State
	if gs.Phase != game.PhasePlaying {
		return nil, game.Fail(game.ReasonInvalidPhase, "not playing now")
	}
	if gs.Paused {
		return nil, game.Fail(game.ReasonInvalidPhase, "game is paused")
	}
	current := gs.CurrentPlayer()
	if current == nil || current.ID != playerID {
		return nil, game.Fail(game.ReasonNotYourTurn, "it is not %s's turn", playerID)
	}
	return current, nil
}

// ensureUndo opens the turn's undo slot on first mutation. It snapshots
// every player, because objective checks after a placement can award gold
// and bonuses to opponents too.
func (m *Machine) ensureUndo(p *game.Player) *game.UndoRecord {
	gs := m.State
	if gs.Undo != nil {
		return gs.Undo
	}
	rec := &game.UndoRecord{
		Player:     p.ID,
		Before:     map[string]game.PlayerSnapshot{},
		HistoryLen: len(gs.History),
	}
	for _, id := range gs.Order {
		rec.Before[id] = gs.Players[id].Snapshot()
	}
	gs.Undo = rec
	return rec
}

// PlayMove places a card from the active player's hand. One regular card
// per turn; the extra-play wildcard is exempt from the limit.
func (m *Machine) PlayMove(playerID, cardID string, placement game.Placement) (*MoveResult, error) {
	gs := m.State
	p, err := m.playingTurnCheck(playerID)
	if err != nil {
		return nil, err
	}
	handIndex, card := p.HandCard(cardID)
	if card == nil {
		return nil, game.Fail(game.ReasonNotFound, "card %s is not in hand", cardID)
	}
	if gs.CardPlayed && card.Color != game.ColorPrism {
		return nil, game.Fail(game.ReasonAlreadyDone, "already played a card this turn")
	}
	zone, ok := gs.Board.Zone(placement.Zone, placement.SubgridID)
	if !ok {
		return nil, game.Fail(game.ReasonNotFound, "no %s zone %d", placement.Zone, placement.SubgridID)
	}
	if !card.Color.Wildcard() && card.Color != game.ZoneColor(zone.Kind) {
		return nil, game.Fail(game.ReasonIllegalPlacement, "%s card cannot play on the %s zone", card.Color, zone.Kind)
	}
	shape := game.Orient(card.Shape, placement.Rotation, placement.Mirrored)
	cells, err := gs.Board.Validate(zone, shape, placement.X, placement.Y)
	if err != nil {
		return nil, err
	}

	rec := m.ensureUndo(p)
	ap := gs.Board.Apply(zone, cells, p.ID, card.Color, card.Stone)
	rec.Placements = append(rec.Placements, ap)
	rec.Cards = append(rec.Cards, game.UndoCard{Card: card, HandIndex: handIndex})

	p.Hand = append(p.Hand[:handIndex], p.Hand[handIndex+1:]...)
	m.collectRewards(p, ap.Rewards)
	p.Stats.CardsPlayed++
	if card.Color != game.ColorPrism {
		gs.CardPlayed = true
	}
	gs.LogMove(game.HistoryEntry{
		Player: p.ID, CardID: card.ID,
		Zone: zone.Kind, SubgridID: zone.ID,
		X: placement.X, Y: placement.Y, Turn: gs.TurnCount,
	})
	game.CheckObjectives(gs)
	return &MoveResult{Cells: ap.Cells, Rewards: ap.Rewards}, nil
}

// PlayBonus spends one bonus charge to activate a single cell of the
// charge's color in its own zone. Any number may be played per turn.
func (m *Machine) PlayBonus(playerID string, color game.Color, placement game.Placement) (*MoveResult, error) {
	gs := m.State
	p, err := m.playingTurnCheck(playerID)
	if err != nil {
		return nil, err
	}
	if p.BonusInventory[color] <= 0 {
		return nil, game.Fail(game.ReasonInsufficientResource, "no %s bonus charge", color)
	}
	zone, ok := gs.Board.Zone(placement.Zone, placement.SubgridID)
	if !ok {
		return nil, game.Fail(game.ReasonNotFound, "no %s zone %d", placement.Zone, placement.SubgridID)
	}
	if color != game.ZoneColor(zone.Kind) {
		return nil, game.Fail(game.ReasonIllegalPlacement, "%s bonus cannot play on the %s zone", color, zone.Kind)
	}
	single := [][]bool{{true}}
	cells, err := gs.Board.Validate(zone, single, placement.X, placement.Y)
	if err != nil {
		return nil, err
	}

	rec := m.ensureUndo(p)
	ap := gs.Board.Apply(zone, cells, p.ID, color, false)
	rec.Placements = append(rec.Placements, ap)

	p.BonusInventory[color]--
	m.collectRewards(p, ap.Rewards)
	gs.LogMove(game.HistoryEntry{
		Player: p.ID, Bonus: color,
		Zone: zone.Kind, SubgridID: zone.ID,
		X: placement.X, Y: placement.Y, Turn: gs.TurnCount,
	})
	game.CheckObjectives(gs)
	return &MoveResult{Cells: ap.Cells, Rewards: ap.Rewards}, nil
}

func (m *Machine) collectRewards(p *game.Player, rw game.Rewards) {
	p.Gold += rw.Gold
	p.Stats.GoldCollected += rw.Gold
	for color, n := range rw.Bonuses {
		p.BonusInventory[color] += n
		p.Stats.BonusCollected += n
	}
}

// UndoMove reverses everything the active turn did so far. Valid only for
// the active player and only once per turn.
func (m *Machine) UndoMove(playerID string) error {
	gs := m.State
	p, err := m.playingTurnCheck(playerID)
	if err != nil {
		return err
	}
	rec := gs.Undo
	if rec == nil || rec.Player != playerID {
		return game.Fail(game.ReasonNotFound, "nothing to undo")
	}

	for i := len(rec.Placements) - 1; i >= 0; i-- {
		gs.Board.Revert(rec.Placements[i])
	}
	for i := len(rec.Cards) - 1; i >= 0; i-- {
		uc := rec.Cards[i]
		idx := uc.HandIndex
		if idx > len(p.Hand) {
			idx = len(p.Hand)
		}
		p.Hand = append(p.Hand[:idx], append([]*game.Card{uc.Card}, p.Hand[idx:]...)...)
	}
	for id, snap := range rec.Before {
		gs.Players[id].Restore(snap)
	}
	if len(gs.History) > rec.HistoryLen {
		gs.History = gs.History[:rec.HistoryLen]
	}
	gs.CardPlayed = false
	gs.Undo = nil
	return nil
}

// PassMove ends the turn without having played a card; the forced discard
// of endTurn applies.
func (m *Machine) PassMove(playerID, discardCardID string) error {
	return m.EndTurn(playerID, discardCardID)
}

// EndTurn closes the active turn: if no card was played one non-wildcard
// hand card is discarded, the hand refills to three, and the turn advances
// to the next connected player with anything left to play.
func (m *Machine) EndTurn(playerID, discardCardID string) error {
	gs := m.State
	p, err := m.playingTurnCheck(playerID)
	if err != nil {
		return err
	}
	if !gs.CardPlayed && len(p.Hand) > 0 {
		if err := discardOne(p, discardCardID); err != nil {
			return err
		}
	}
	m.finishTurn(p)
	return nil
}

// discardOne applies the pass semantics: one non-wildcard card leaves the
// hand for the discard pile.
func discardOne(p *game.Player, cardID string) error {
	idx := -1
	if cardID != "" {
		i, card := p.HandCard(cardID)
		if card == nil {
			return game.Fail(game.ReasonNotFound, "card %s is not in hand", cardID)
		}
		if card.Color.Wildcard() {
			return game.Fail(game.ReasonInsufficientResource, "cannot discard a wildcard card")
		}
		idx = i
	} else {
		for i, card := range p.Hand {
			if !card.Color.Wildcard() {
				idx = i
				break
			}
		}
		if idx == -1 {
			// Hand is all wildcards; nothing is discardable.
			return nil
		}
	}
	card := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	p.Discard = append(p.Discard, card)
	return nil
}

func (m *Machine) finishTurn(p *game.Player) {
	gs := m.State
	placed := gs.Undo != nil && len(gs.Undo.Placements) > 0
	if !placed && len(p.Hand) == 0 && len(p.DrawPile) == 0 {
		// Out of cards and placed nothing: leftover bonus charges have
		// no legal cell. A full round of these ends the level.
		gs.PassStreak++
	} else {
		gs.PassStreak = 0
	}
	refillHand(p)
	gs.Undo = nil
	gs.CardPlayed = false
	if gs.PassStreak >= m.activeCount() {
		m.finishLevel()
		return
	}
	m.advanceTurn()
}

// activeCount is how many players can still receive the turn.
func (m *Machine) activeCount() int {
	n := 0
	for _, id := range m.State.Order {
		q := m.State.Players[id]
		if q.Connected && !q.Exhausted() {
			n++
		}
	}
	return n
}

// advanceTurn hands the turn to the next connected player who still has
// cards or bonus charges. If nobody qualifies the level is over. Wrapping
// past the end of the order is a round boundary.
func (m *Machine) advanceTurn() {
	gs := m.State
	n := len(gs.Order)
	for step := 1; step <= n; step++ {
		idx := (gs.TurnIndex + step) % n
		wrapped := gs.TurnIndex+step >= n
		q := gs.Players[gs.Order[idx]]
		if !q.Connected || q.Exhausted() {
			continue
		}
		gs.TurnIndex = idx
		gs.TurnSerial++
		if wrapped {
			gs.TurnCount++
			m.maybeInjectBonuses()
		}
		return
	}
	m.finishLevel()
}

// maybeInjectBonuses runs the one-shot mid-level bonus symbol drop once
// round 5 begins.
func (m *Machine) maybeInjectBonuses() {
	gs := m.State
	if gs.BonusInjected || gs.TurnCount < 5 {
		return
	}
	r := game.NewRNG(game.SubSeed(gs.Seed, gs.Level, "midgame"))
	game.InjectBonusSymbols(r, gs.Board, 4)
	gs.BonusInjected = true
}

// finishLevel settles objectives and scores, pays out the level winner and
// runner-up, and moves to the level-complete phase.
func (m *Machine) finishLevel() {
	gs := m.State
	game.ResolveLevelObjectives(gs)

	scores := gs.Board.PlayerScores(gs.PlayerIDs())
	totals := map[string]int{}
	for _, id := range gs.Order {
		total := scores[id].Total
		if o := gs.Players[id].Objective; o != nil {
			total += o.AwardedPoints
		}
		totals[id] = total
	}

	winner, runnerUp := "", ""
	for _, id := range gs.Order {
		if winner == "" || totals[id] > totals[winner] {
			runnerUp = winner
			winner = id
		} else if runnerUp == "" || totals[id] > totals[runnerUp] {
			runnerUp = id
		}
	}
	if winner != "" {
		gs.Players[winner].Gold += 3
		gs.Players[winner].MatchWins++
	}
	if runnerUp != "" {
		gs.Players[runnerUp].Gold++
	}
	gs.LastLevel = &game.LevelResult{
		Level:    gs.Level,
		Winner:   winner,
		RunnerUp: runnerUp,
		Totals:   totals,
	}
	gs.Undo = nil
	gs.Phase = game.PhaseLevelComplete
}

// StartShopPhase opens the between-level shop. Host only.
func (m *Machine) StartShopPhase(callerID string) error {
	gs := m.State
	if gs.Phase != game.PhaseLevelComplete {
		return game.Fail(game.ReasonInvalidPhase, "level is not complete")
	}
	if callerID != gs.HostID {
		return game.Fail(game.ReasonPermissionDenied, "only the host can open the shop")
	}
	gs.Shop = game.NewShop(gs)
	gs.Phase = game.PhaseShopping
	return nil
}

// BuyShopItem spends gold on a catalog item or one of the player's card
// offers. One-shot items are limited to one purchase per shopping round;
// unlock purchases additionally grant a three-option free pick.
func (m *Machine) BuyShopItem(playerID, itemID, extra string) error {
	gs := m.State
	if gs.Phase != game.PhaseShopping {
		return game.Fail(game.ReasonInvalidPhase, "shop is closed")
	}
	p, ok := gs.Players[playerID]
	if !ok {
		return game.Fail(game.ReasonNotFound, "unknown player %s", playerID)
	}
	item := gs.Shop.Item(playerID, itemID)
	if item == nil {
		return game.Fail(game.ReasonNotFound, "no shop item %s", itemID)
	}
	if gs.Shop.AlreadyBought(playerID, item.Kind) && item.Kind != game.ItemCardOffer {
		return game.Fail(game.ReasonAlreadyDone, "%s already bought this round", item.Kind)
	}
	var chargeColor game.Color
	switch item.Kind {
	case game.ItemBonusCharge:
		chargeColor = game.Color(extra)
		if utils.FindIndex(game.PlayColors, chargeColor) == -1 {
			return game.Fail(game.ReasonNotFound, "unknown bonus color %q", extra)
		}
	case game.ItemUnlockWild:
		if p.Unlocks.Wild {
			return game.Fail(game.ReasonAlreadyDone, "wildcard already unlocked")
		}
	case game.ItemUnlockPrism:
		if p.Unlocks.Prism {
			return game.Fail(game.ReasonAlreadyDone, "prism already unlocked")
		}
	case game.ItemUnlockStone:
		if p.Unlocks.Stone {
			return game.Fail(game.ReasonAlreadyDone, "stone shapes already unlocked")
		}
	}
	if p.Gold < item.Cost {
		return game.Fail(game.ReasonInsufficientResource, "need %d gold", item.Cost)
	}

	p.Gold -= item.Cost
	switch item.Kind {
	case game.ItemBonusCharge:
		p.BonusInventory[chargeColor]++
	case game.ItemRandomCard:
		p.PendingCards = append(p.PendingCards, game.RandomShopCard(gs, p))
	case game.ItemTimeBomb:
		p.TimeBombs++
	case game.ItemUnlockWild:
		p.Unlocks.Wild = true
		gs.Shop.FreePick[playerID] = game.GenerateFreePick(gs.Seed, gs.Level, playerID, item.Kind)
	case game.ItemUnlockPrism:
		p.Unlocks.Prism = true
		gs.Shop.FreePick[playerID] = game.GenerateFreePick(gs.Seed, gs.Level, playerID, item.Kind)
	case game.ItemUnlockStone:
		p.Unlocks.Stone = true
		gs.Shop.FreePick[playerID] = game.GenerateFreePick(gs.Seed, gs.Level, playerID, item.Kind)
	case game.ItemCardOffer:
		p.PendingCards = append(p.PendingCards, item.Card)
		gs.Shop.RemoveOffer(playerID, itemID)
	}
	if item.Kind != game.ItemCardOffer {
		gs.Shop.MarkBought(playerID, item.Kind)
	}
	return nil
}

// ClaimFreeCard resolves a pending unlock free pick.
func (m *Machine) ClaimFreeCard(playerID, cardID string) error {
	gs := m.State
	if gs.Phase != game.PhaseShopping {
		return game.Fail(game.ReasonInvalidPhase, "shop is closed")
	}
	p, ok := gs.Players[playerID]
	if !ok {
		return game.Fail(game.ReasonNotFound, "unknown player %s", playerID)
	}
	picks := gs.Shop.FreePick[playerID]
	if len(picks) == 0 {
		return game.Fail(game.ReasonNotFound, "no free pick pending")
	}
	idx := -1
	for i, c := range picks {
		if c.ID == cardID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return game.Fail(game.ReasonNotFound, "card %s is not a pick option", cardID)
	}
	p.PendingCards = append(p.PendingCards, picks[idx])
	delete(gs.Shop.FreePick, playerID)
	return nil
}

// ShopReady marks a player done shopping. When every connected player is
// ready the match either ends (win target or level cap reached) or the next
// level starts. Returns whether the phase advanced.
func (m *Machine) ShopReady(playerID string) (bool, error) {
	gs := m.State
	if gs.Phase != game.PhaseShopping {
		return false, game.Fail(game.ReasonInvalidPhase, "shop is closed")
	}
	if _, ok := gs.Players[playerID]; !ok {
		return false, game.Fail(game.ReasonNotFound, "unknown player %s", playerID)
	}
	if gs.Shop.Ready[playerID] {
		return false, game.Fail(game.ReasonAlreadyDone, "already ready")
	}
	gs.Shop.Ready[playerID] = true
	return m.maybeLeaveShop(), nil
}

// maybeLeaveShop advances past the shop once every connected player is
// ready: either the next level or, at the win target / level cap, the end
// of the match.
func (m *Machine) maybeLeaveShop() bool {
	gs := m.State
	anyConnected := false
	for _, id := range gs.Order {
		q := gs.Players[id]
		if !q.Connected {
			continue
		}
		anyConnected = true
		if !gs.Shop.Ready[id] {
			return false
		}
	}
	if !anyConnected {
		return false
	}
	if m.matchOver() {
		gs.Phase = game.PhaseEnded
		return true
	}
	m.startLevel(gs.Level + 1)
	return true
}

func (m *Machine) matchOver() bool {
	gs := m.State
	if gs.Level >= gs.MaxLevels {
		return true
	}
	for _, p := range gs.Players {
		if p.MatchWins >= gs.WinTarget {
			return true
		}
	}
	return false
}

// UseTimeBomb spends a time bomb to force-end the current opponent's turn.
func (m *Machine) UseTimeBomb(playerID string) error {
	gs := m.State
	if gs.Phase != game.PhasePlaying {
		return game.Fail(game.ReasonInvalidPhase, "not playing now")
	}
	if gs.Paused {
		return game.Fail(game.ReasonInvalidPhase, "game is paused")
	}
	p, ok := gs.Players[playerID]
	if !ok {
		return game.Fail(game.ReasonNotFound, "unknown player %s", playerID)
	}
	current := gs.CurrentPlayer()
	if current == nil || current.ID == playerID {
		return game.Fail(game.ReasonPermissionDenied, "cannot bomb your own turn")
	}
	if p.TimeBombs <= 0 {
		return game.Fail(game.ReasonInsufficientResource, "no time bombs left")
	}
	p.TimeBombs--
	if !gs.CardPlayed && len(current.Hand) > 0 {
		// Forced pass on the victim's behalf.
		_ = discardOne(current, "")
	}
	m.finishTurn(current)
	return nil
}

// TogglePause freezes or resumes play. Host only.
func (m *Machine) TogglePause(callerID string) error {
	gs := m.State
	if callerID != gs.HostID {
		return game.Fail(game.ReasonPermissionDenied, "only the host can pause")
	}
	if gs.Phase != game.PhasePlaying {
		return game.Fail(game.ReasonInvalidPhase, "nothing to pause")
	}
	gs.Paused = !gs.Paused
	if gs.Paused {
		gs.PausedBy = callerID
	} else {
		gs.PausedBy = ""
	}
	return nil
}

// SetConnected flips a player's connectivity flag. Reconnection restores
// the flag only; missed commands are never replayed. The hosting layer is
// responsible for auto-passing a disconnected player's outstanding turn via
// an ordinary EndTurn command. A disconnect re-evaluates the waiting
// phases, since the leaver may have been the last undecided player.
func (m *Machine) SetConnected(playerID string, connected bool) error {
	gs := m.State
	p, ok := gs.Players[playerID]
	if !ok {
		return game.Fail(game.ReasonNotFound, "unknown player %s", playerID)
	}
	p.Connected = connected
	if !connected {
		switch gs.Phase {
		case game.PhaseChoosingStartDeck:
			m.maybeFinishDeckChoice()
		case game.PhaseChoosingGoals:
			m.maybeBeginPlaying()
		case game.PhaseShopping:
			m.maybeLeaveShop()
		}
	}
	return nil
}

// CurrentPlayerID is a convenience for the hosting layer's timer logic.
func (m *Machine) CurrentPlayerID() string {
	p := m.State.CurrentPlayer()
	if p == nil {
		return ""
	}
	return p.ID
}

// PlayerIndex locates a player in the turn order.
func (m *Machine) PlayerIndex(playerID string) int {
	return utils.FindIndex(m.State.Order, playerID)
}
