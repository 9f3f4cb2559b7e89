package server

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInviteCodes(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code := newInviteCode()
		require.Len(t, code, inviteLength)
		for _, ch := range code {
			require.True(t, strings.ContainsRune(inviteAlphabet, ch),
				"code %q uses a character outside the alphabet", code)
		}
		seen[code] = true
	}
	require.Greater(t, len(seen), 190, "codes should almost never collide")
}

func TestCreateAndResolveRoom(t *testing.T) {
	h := NewHub(DefaultConfig())
	room := h.CreateRoom()
	require.NotNil(t, room)
	require.Same(t, room, h.Room(room.Code))
	require.Nil(t, h.Room("NOPE42"))

	h.removeRoom(room.Code)
	require.Nil(t, h.Room(room.Code))
}

func TestTokenBucket(t *testing.T) {
	tb := newTokenBucket(10, 2)
	require.True(t, tb.Allow())
	require.True(t, tb.Allow())
	require.False(t, tb.Allow(), "the burst is spent")

	time.Sleep(150 * time.Millisecond)
	require.True(t, tb.Allow(), "tokens refill over time")
}

func TestTauntAllowList(t *testing.T) {
	require.True(t, ValidTaunt("gg"))
	require.False(t, ValidTaunt("free text is not a taunt"))
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, 60, cfg.TurnSeconds)

	_, err = LoadConfig("/does/not/exist.yaml")
	require.Error(t, err)
}
