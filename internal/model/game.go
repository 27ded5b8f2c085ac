package model

import "strings"

// GameModeID identifies one of the fixed mini-games
type GameModeID string

const (
	GameDance  GameModeID = "dance"
	GameRhythm GameModeID = "rhythm"
	GamePuzzle GameModeID = "puzzle"
	GameRaid   GameModeID = "raid"
)

// GameMode pairs a mode with its display label.
// The label doubles as the remote column name (game1..game4).
type GameMode struct {
	ID    GameModeID
	Label string
}

// GameModes is the fixed, ordered list of game modes.
// Order matters: it defines the 1:1 mapping onto the remote columns.
var GameModes = [4]GameMode{
	{ID: GameDance, Label: "game1"},
	{ID: GameRhythm, Label: "game2"},
	{ID: GamePuzzle, Label: "game3"},
	{ID: GameRaid, Label: "game4"},
}

// Valid reports whether the id is one of the enumerated game modes
func (id GameModeID) Valid() bool {
	for _, m := range GameModes {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Column returns the remote column name for the mode, or "" if unknown
func (id GameModeID) Column() string {
	for _, m := range GameModes {
		if m.ID == id {
			return m.Label
		}
	}
	return ""
}

// ParseGameModeID accepts either a mode id ("dance") or its column label ("game1")
func ParseGameModeID(s string) (GameModeID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range GameModes {
		if string(m.ID) == s || m.Label == s {
			return m.ID, nil
		}
	}
	return "", ErrUnknownGameMode
}

// GameModeForColumn maps a remote column name back to its mode
func GameModeForColumn(column string) (GameModeID, bool) {
	for _, m := range GameModes {
		if m.Label == column {
			return m.ID, true
		}
	}
	return "", false
}

// GameScores holds one score per game mode
type GameScores map[GameModeID]int

// Get returns the score for a mode, 0 if absent
func (g GameScores) Get(id GameModeID) int {
	if g == nil {
		return 0
	}
	return g[id]
}

// Clone returns a copy with every enumerated mode present
func (g GameScores) Clone() GameScores {
	out := make(GameScores, len(GameModes))
	for _, m := range GameModes {
		out[m.ID] = g.Get(m.ID)
	}
	return out
}
