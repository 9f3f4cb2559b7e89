package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"terra/engine"
	"terra/game"
)

type joinRequest struct {
	conn     *websocket.Conn
	name     string
	playerID string // non-empty on reconnect
}

type command struct {
	c   *client
	msg ClientMessage
}

// Room hosts one game. A single goroutine owns the machine and the client
// map; everything reaches it through channels, so no state needs a lock.
type Room struct {
	Code string

	hub     *Hub
	cfg     Config
	machine *engine.Machine

	joins      chan joinRequest
	commands   chan command
	drops      chan *client
	timerFired chan int

	// loop-owned
	clients     map[string]*client
	turnTimer   *time.Timer
	armedSerial int
	deadline    time.Time
	frozen      time.Duration
}

func newRoom(h *Hub, code string, seed uint32, cfg Config) *Room {
	return &Room{
		Code:       code,
		hub:        h,
		cfg:        cfg,
		machine:    engine.New(code, seed, cfg.MaxLevels, cfg.WinTarget),
		joins:      make(chan joinRequest),
		commands:   make(chan command, 16),
		drops:      make(chan *client, 16),
		timerFired: make(chan int, 1),
		clients:    map[string]*client{},
	}
}

// connect hands an upgraded socket to the room loop.
func (r *Room) connect(conn *websocket.Conn, name, playerID string) {
	r.joins <- joinRequest{conn: conn, name: name, playerID: playerID}
}

func (r *Room) run() {
	defer func() {
		if r.turnTimer != nil {
			r.turnTimer.Stop()
		}
	}()
	for {
		select {
		case req := <-r.joins:
			r.handleJoin(req)
		case cmd := <-r.commands:
			r.dispatch(cmd)
		case c := <-r.drops:
			if r.handleDrop(c) {
				return
			}
		case serial := <-r.timerFired:
			r.handleTimeout(serial)
		}
	}
}

func (r *Room) handleJoin(req joinRequest) {
	gs := r.machine.State

	id := req.playerID
	if _, known := gs.Players[id]; id != "" && !known {
		id = ""
	}
	if id == "" {
		id = uuid.NewString()
		if err := r.machine.Join(id, req.name); err != nil {
			msg, _ := marshalMessage(ServerMessage{
				Type: MsgError, Reason: game.ReasonOf(err), Detail: err.Error(),
			})
			_ = req.conn.WriteMessage(websocket.TextMessage, msg)
			_ = req.conn.Close()
			return
		}
	} else {
		_ = r.machine.SetConnected(id, true)
	}

	if old, ok := r.clients[id]; ok {
		old.shutdown()
	}
	c := newClient(r, id, req.conn)
	r.clients[id] = c
	c.start()

	log.Info().Msgf("room %s: player %s (%s) connected", r.Code, gs.Players[id].Name, id)
	c.sendMessage(ServerMessage{Type: MsgWelcome, RoomCode: r.Code, PlayerID: id})
	r.broadcast()
}

// handleDrop marks the player disconnected and auto-passes their turn. A
// room with no sockets left shuts down.
func (r *Room) handleDrop(c *client) bool {
	if r.clients[c.playerID] != c {
		// a reconnect already replaced this socket
		return false
	}
	delete(r.clients, c.playerID)
	_ = r.machine.SetConnected(c.playerID, false)
	log.Info().Msgf("room %s: player %s disconnected", r.Code, c.playerID)

	gs := r.machine.State
	phaseBefore := gs.Phase
	autoPassed := false
	if gs.Phase == game.PhasePlaying && !gs.Paused && r.machine.CurrentPlayerID() == c.playerID {
		if err := r.machine.EndTurn(c.playerID, ""); err != nil {
			log.Warn().Msgf("room %s: auto-pass for %s failed: %v", r.Code, c.playerID, err)
		} else {
			autoPassed = true
		}
	}
	r.broadcast()
	if autoPassed {
		r.announce(c.playerID, CmdEndTurn, phaseBefore)
	}

	if len(r.clients) == 0 {
		r.hub.removeRoom(r.Code)
		return true
	}
	return false
}

// handleTimeout force-ends the turn the timer was armed for. A stale
// serial means the turn already changed and the timer is void.
func (r *Room) handleTimeout(serial int) {
	gs := r.machine.State
	if serial != gs.TurnSerial || gs.Phase != game.PhasePlaying || gs.Paused {
		return
	}
	id := r.machine.CurrentPlayerID()
	if id == "" {
		return
	}
	log.Info().Msgf("room %s: turn clock expired for %s", r.Code, id)
	if err := r.machine.EndTurn(id, ""); err != nil {
		log.Warn().Msgf("room %s: timeout pass for %s failed: %v", r.Code, id, err)
		return
	}
	r.broadcast()
	r.announce(id, CmdEndTurn, game.PhasePlaying)
}

func (r *Room) dispatch(cmd command) {
	c, msg := cmd.c, cmd.msg

	if msg.Type == CmdTaunt {
		r.relayTaunt(c, msg.TauntID)
		return
	}
	if msg.Type == CmdInteract {
		r.relayInteraction(c, msg.Interaction)
		return
	}

	phaseBefore := r.machine.State.Phase

	var err error
	switch msg.Type {
	case CmdStart:
		err = r.machine.Start(c.playerID)
	case CmdChooseDeck:
		err = r.machine.ChooseStartingDeck(c.playerID, game.DeckArchetype(msg.Archetype))
	case CmdChooseGoal:
		err = r.machine.ChooseGoal(c.playerID, msg.Index)
	case CmdPlay:
		if msg.Placement == nil {
			c.sendMessage(ServerMessage{Type: MsgError, Reason: game.ReasonNotFound, Detail: "placement missing"})
			return
		}
		_, err = r.machine.PlayMove(c.playerID, msg.CardID, *msg.Placement)
	case CmdPlayBonus:
		if msg.Placement == nil {
			c.sendMessage(ServerMessage{Type: MsgError, Reason: game.ReasonNotFound, Detail: "placement missing"})
			return
		}
		_, err = r.machine.PlayBonus(c.playerID, game.Color(msg.Color), *msg.Placement)
	case CmdEndTurn, CmdPass:
		err = r.machine.EndTurn(c.playerID, msg.CardID)
	case CmdUndo:
		err = r.machine.UndoMove(c.playerID)
	case CmdOpenShop:
		err = r.machine.StartShopPhase(c.playerID)
	case CmdBuy:
		err = r.machine.BuyShopItem(c.playerID, msg.ItemID, msg.Color)
	case CmdClaimFree:
		err = r.machine.ClaimFreeCard(c.playerID, msg.CardID)
	case CmdShopReady:
		_, err = r.machine.ShopReady(c.playerID)
	case CmdTimeBomb:
		err = r.machine.UseTimeBomb(c.playerID)
	case CmdPause:
		err = r.machine.TogglePause(c.playerID)
	default:
		c.sendMessage(ServerMessage{Type: MsgError, Reason: game.ReasonNotFound, Detail: "unknown command " + msg.Type})
		return
	}

	if err != nil {
		c.sendMessage(ServerMessage{Type: MsgError, Reason: game.ReasonOf(err), Detail: err.Error()})
		return
	}
	r.broadcast()
	r.announce(c.playerID, msg.Type, phaseBefore)
	if msg.Type == CmdPlay || msg.Type == CmdPlayBonus {
		r.extendTurnTimer()
	}
}

// announce pushes the discrete notifications a command produced so clients
// can react without diffing snapshots.
func (r *Room) announce(from, cmdType string, phaseBefore game.Phase) {
	var events []string
	switch cmdType {
	case CmdPlay, CmdPlayBonus:
		events = append(events, EventMovePlayed)
	case CmdTimeBomb:
		events = append(events, EventTimeBombUsed)
	case CmdPause:
		events = append(events, EventPauseChanged)
	}

	gs := r.machine.State
	if phaseBefore != gs.Phase {
		switch gs.Phase {
		case game.PhaseLevelComplete:
			events = append(events, EventLevelComplete)
		case game.PhaseChoosingGoals:
			if phaseBefore == game.PhaseShopping {
				events = append(events, EventNextLevelStarted)
			}
		}
	}

	for _, ev := range events {
		out := ServerMessage{Type: MsgEvent, Event: ev, From: from}
		for _, cl := range r.clients {
			cl.sendMessage(out)
		}
	}
}

func (r *Room) relayTaunt(c *client, id string) {
	if !ValidTaunt(id) {
		c.sendMessage(ServerMessage{Type: MsgError, Reason: game.ReasonNotFound, Detail: "unknown taunt"})
		return
	}
	if !c.taunts.Allow() {
		c.sendMessage(ServerMessage{Type: MsgError, Reason: game.ReasonPermissionDenied, Detail: "taunting too fast"})
		return
	}
	out := ServerMessage{Type: MsgTaunt, From: c.playerID, TauntID: id}
	for _, cl := range r.clients {
		cl.sendMessage(out)
	}
}

// relayInteraction forwards an ephemeral drag preview to the other players.
// Canonical state is never touched and nothing is persisted.
func (r *Room) relayInteraction(c *client, payload []byte) {
	if len(payload) == 0 {
		return
	}
	out := ServerMessage{Type: MsgInteraction, From: c.playerID, Interaction: payload}
	for id, cl := range r.clients {
		if id == c.playerID {
			continue
		}
		cl.sendMessage(out)
	}
}

// broadcast pushes each viewer their sanitized state, then re-arms the
// turn clock if the active turn changed.
func (r *Room) broadcast() {
	gs := r.machine.State
	for id, c := range r.clients {
		c.sendMessage(ServerMessage{Type: MsgState, State: game.SanitizedFor(gs, id)})
	}
	r.armTurnTimer()
}

func (r *Room) armTurnTimer() {
	gs := r.machine.State
	if r.cfg.TurnSeconds <= 0 {
		return
	}
	if gs.Phase != game.PhasePlaying {
		r.stopTurnTimer()
		r.armedSerial = 0
		r.frozen = 0
		return
	}
	if gs.Paused {
		// freeze whatever is left on the clock for the unpause
		if r.turnTimer != nil && r.armedSerial != 0 {
			if r.turnTimer.Stop() {
				r.frozen = time.Until(r.deadline)
			}
			if r.frozen <= 0 {
				r.frozen = time.Second
			}
		}
		return
	}
	if gs.TurnSerial == r.armedSerial {
		if r.frozen > 0 {
			r.armFor(r.frozen)
			r.frozen = 0
		}
		return
	}
	r.frozen = 0
	r.armedSerial = gs.TurnSerial
	r.armFor(time.Duration(r.cfg.TurnSeconds) * time.Second)
}

// extendTurnTimer grants extra clock time after a successful placement.
func (r *Room) extendTurnTimer() {
	gs := r.machine.State
	if r.cfg.ExtendSeconds <= 0 || gs.Phase != game.PhasePlaying || gs.Paused {
		return
	}
	if r.turnTimer == nil || gs.TurnSerial != r.armedSerial {
		return
	}
	remaining := time.Until(r.deadline)
	if remaining < 0 {
		remaining = 0
	}
	r.armFor(remaining + time.Duration(r.cfg.ExtendSeconds)*time.Second)
}

func (r *Room) armFor(d time.Duration) {
	r.stopTurnTimer()
	serial := r.armedSerial
	r.deadline = time.Now().Add(d)
	r.turnTimer = time.AfterFunc(d, func() {
		select {
		case r.timerFired <- serial:
		default:
		}
	})
}

func (r *Room) stopTurnTimer() {
	if r.turnTimer != nil {
		r.turnTimer.Stop()
	}
}
