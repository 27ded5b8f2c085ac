// Package leaderboard ranks players from a snapshot of the session store.
// Nothing is cached: every call recomputes from the snapshot it is given.
package leaderboard

import (
	"slices"

	"github.com/mcoot/festivalboard/internal/model"
)

// Entry is one ranked player
type Entry struct {
	Rank      int // competition rank: ties share a rank, the next rank skips
	Username  string
	Character *model.Character
	Score     int // the value the board is ordered by
}

// AllRanked orders every user with a character by total score, descending.
// Ties keep snapshot order.
func AllRanked(users []*model.User) []Entry {
	return rank(users, func(c *model.Character) int {
		return c.TotalScore
	})
}

// ByGame orders every user with a character by one mode's score, descending.
// A missing score counts as 0.
func ByGame(users []*model.User, gameID model.GameModeID) []Entry {
	return rank(users, func(c *model.Character) int {
		return c.GameScores.Get(gameID)
	})
}

// Top returns at most n leading entries
func Top(entries []Entry, n int) []Entry {
	if n < 0 {
		n = 0
	}
	if n >= len(entries) {
		return entries
	}
	return entries[:n]
}

// Find returns the entry for a username, matched case-insensitively
func Find(entries []Entry, username string) (Entry, bool) {
	key := model.CanonicalUsername(username)
	if key == "" {
		return Entry{}, false
	}
	for _, e := range entries {
		if model.CanonicalUsername(e.Username) == key {
			return e, true
		}
	}
	return Entry{}, false
}

func rank(users []*model.User, score func(*model.Character) int) []Entry {
	entries := make([]Entry, 0, len(users))
	for _, u := range users {
		if !u.HasCharacter() {
			continue
		}
		entries = append(entries, Entry{
			Username:  u.Username,
			Character: u.Character,
			Score:     score(u.Character),
		})
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return b.Score - a.Score
	})

	for i := range entries {
		if i > 0 && entries[i].Score == entries[i-1].Score {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}
	return entries
}
