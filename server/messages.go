package server

import (
	"encoding/json"

	"terra/game"
)

// ClientMessage is the single envelope for everything a player sends over
// the socket. Type selects the command; unused fields stay empty.
type ClientMessage struct {
	Type string `json:"type"`

	Archetype   string          `json:"archetype,omitempty"`   // chooseDeck
	Index       int             `json:"index,omitempty"`       // chooseGoal
	CardID      string          `json:"cardId,omitempty"`      // play, claimFree, discard on pass
	Color       string          `json:"color,omitempty"`       // playBonus, buy extra
	Placement   *game.Placement `json:"placement,omitempty"`   // play, playBonus
	ItemID      string          `json:"itemId,omitempty"`      // buy
	TauntID     string          `json:"tauntId,omitempty"`     // taunt
	Interaction json.RawMessage `json:"interaction,omitempty"` // interaction
}

// Client command types.
const (
	CmdStart      = "start"
	CmdChooseDeck = "chooseDeck"
	CmdChooseGoal = "chooseGoal"
	CmdPlay       = "play"
	CmdPlayBonus  = "playBonus"
	CmdEndTurn    = "endTurn"
	CmdPass       = "pass"
	CmdUndo       = "undo"
	CmdOpenShop   = "openShop"
	CmdBuy        = "buy"
	CmdClaimFree  = "claimFree"
	CmdShopReady  = "shopReady"
	CmdTimeBomb   = "timeBomb"
	CmdPause      = "pause"
	CmdTaunt      = "taunt"
	CmdInteract   = "interaction"
)

// ServerMessage is what the room pushes back: a full sanitized state after
// every accepted command, a categorical error after a rejected one, a
// discrete event notification, or a relayed taunt.
type ServerMessage struct {
	Type string `json:"type"`

	// welcome
	RoomCode string `json:"roomCode,omitempty"`
	PlayerID string `json:"playerId,omitempty"`

	// state
	State *game.StateView `json:"state,omitempty"`

	// error
	Reason game.Reason `json:"reason,omitempty"`
	Detail string      `json:"detail,omitempty"`

	// event, taunt, interaction
	Event       string          `json:"event,omitempty"`
	From        string          `json:"from,omitempty"`
	TauntID     string          `json:"tauntId,omitempty"`
	Interaction json.RawMessage `json:"interaction,omitempty"`
}

const (
	MsgWelcome     = "welcome"
	MsgState       = "state"
	MsgError       = "error"
	MsgEvent       = "event"
	MsgTaunt       = "taunt"
	MsgInteraction = "interaction"
)

// Event names pushed alongside state snapshots so clients can react
// without diffing two states.
const (
	EventMovePlayed       = "movePlayed"
	EventLevelComplete    = "levelComplete"
	EventNextLevelStarted = "nextLevelStarted"
	EventTimeBombUsed     = "timeBombUsed"
	EventPauseChanged     = "pauseChanged"
)
