package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"terra/engine"
)

func testRoom(t *testing.T, players ...string) *Room {
	t.Helper()
	cfg := DefaultConfig()
	cfg.TurnSeconds = 0
	r := &Room{
		Code:    "TEST42",
		cfg:     cfg,
		machine: engine.New("TEST42", 1, 3, 2),
		clients: map[string]*client{},
	}
	for _, id := range players {
		require.NoError(t, r.machine.Join(id, "player "+id))
		r.clients[id] = &client{playerID: id, send: make(chan []byte, 16)}
	}
	return r
}

func drain(t *testing.T, c *client) []ServerMessage {
	t.Helper()
	out := []ServerMessage{}
	for len(c.send) > 0 {
		var msg ServerMessage
		require.NoError(t, json.Unmarshal(<-c.send, &msg))
		out = append(out, msg)
	}
	return out
}

func TestInteractionRelay(t *testing.T) {
	r := testRoom(t, "alice", "bob")
	alice, bob := r.clients["alice"], r.clients["bob"]

	r.relayInteraction(alice, []byte(`{"cardId":"c1","x":3,"y":4}`))

	require.Empty(t, alice.send, "the sender does not get their own preview back")
	msgs := drain(t, bob)
	require.Len(t, msgs, 1)
	require.Equal(t, MsgInteraction, msgs[0].Type)
	require.Equal(t, "alice", msgs[0].From)
	require.JSONEq(t, `{"cardId":"c1","x":3,"y":4}`, string(msgs[0].Interaction))

	t.Run("empty payload dropped", func(t *testing.T) {
		r.relayInteraction(alice, nil)
		require.Empty(t, bob.send)
	})
}

func TestDropOutsideTurnEmitsNoEvent(t *testing.T) {
	r := testRoom(t, "alice", "bob")
	alice, bob := r.clients["alice"], r.clients["bob"]

	require.False(t, r.handleDrop(alice))

	for _, msg := range drain(t, bob) {
		require.NotEqual(t, MsgEvent, msg.Type, "a lobby drop announces nothing")
	}
	require.False(t, r.machine.State.Players["alice"].Connected)
}
