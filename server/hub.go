package server

import (
	crand "crypto/rand"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// inviteAlphabet deliberately drops 0/O/1/I so codes survive being read
// aloud.
const inviteAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const inviteLength = 6

// Hub owns the room registry and the HTTP surface. Rooms run their own
// goroutine; the hub only creates, resolves and removes them.
type Hub struct {
	cfg Config

	mu    sync.Mutex
	rooms map[string]*Room

	upgrader websocket.Upgrader
}

func NewHub(cfg Config) *Hub {
	h := &Hub{
		cfg:   cfg,
		rooms: map[string]*Room{},
	}
	allowed := map[string]bool{}
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = true
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || len(allowed) == 0 || allowed[origin]
		},
	}
	return h
}

// Routes mounts the hub's HTTP surface onto a mux.
func (h *Hub) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/rooms", h.handleCreateRoom)
	mux.HandleFunc("/ws", h.handleWS)
}

// CreateRoom makes a new game room with a fresh invite code and seed.
func (h *Hub) CreateRoom() *Room {
	h.mu.Lock()
	defer h.mu.Unlock()

	var code string
	for {
		code = newInviteCode()
		if _, taken := h.rooms[code]; !taken {
			break
		}
	}
	room := newRoom(h, code, randSeed(), h.cfg)
	h.rooms[code] = room
	go room.run()
	log.Info().Msgf("room %s created", code)
	return room
}

// Room resolves an invite code.
func (h *Hub) Room(code string) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rooms[code]
}

func (h *Hub) removeRoom(code string) {
	h.mu.Lock()
	delete(h.rooms, code)
	h.mu.Unlock()
	log.Info().Msgf("room %s closed", code)
}

func (h *Hub) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	room := h.CreateRoom()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"code": room.Code})
}

// handleWS upgrades the connection and hands it to the room. Query params:
// code (required), name (first join), player (reconnect with a prior id).
func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	room := h.Room(code)
	if room == nil {
		http.Error(w, "no such room", http.StatusNotFound)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Msgf("room %s upgrade failed: %v", code, err)
		return
	}
	room.connect(conn, r.URL.Query().Get("name"), r.URL.Query().Get("player"))
}

func newInviteCode() string {
	b := make([]byte, inviteLength)
	_, _ = crand.Read(b)
	for i := range b {
		b[i] = inviteAlphabet[int(b[i])%len(inviteAlphabet)]
	}
	return string(b)
}

func randSeed() uint32 {
	var b [4]byte
	_, _ = crand.Read(b[:])
	return binary.BigEndian.Uint32(b[:])
}
