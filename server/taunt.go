package server

// Taunts are sent by id and rendered client-side; the server only relays
// ids on this list. Free-text chat is deliberately not supported.
var tauntIDs = map[string]bool{
	"well-played":  true,
	"nice-try":     true,
	"too-slow":     true,
	"lucky-draw":   true,
	"my-territory": true,
	"watch-this":   true,
	"ouch":         true,
	"gg":           true,
}

func ValidTaunt(id string) bool {
	return tauntIDs[id]
}
