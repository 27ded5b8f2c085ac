package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/festivalboard/internal/model"
	"github.com/mcoot/festivalboard/internal/services/leaderboard"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case SessionView:
		o.printSession(v)
	case CharacterView:
		o.printCharacter(v)
	case LeaderboardView:
		o.printLeaderboard(v)
	case ScoreResult:
		o.printScoreResult(v)
	case PageView:
		fmt.Fprintf(o.w, "Page: %s (%s)\n", v.Page, v.Path)
	case StatusView:
		o.printStatus(v)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// SessionView is the current session
type SessionView struct {
	Username     string `json:"username,omitempty"`
	Page         string `json:"page"`
	HasCharacter bool   `json:"has_character"`
}

// CharacterView is a user's character with scores
type CharacterView struct {
	Username    string         `json:"username"`
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Avatar      string         `json:"avatar"`
	Color       string         `json:"color"`
	Accessories []string       `json:"accessories,omitempty"`
	Personality string         `json:"personality,omitempty"`
	Scores      map[string]int `json:"scores"`
	TotalScore  int            `json:"total_score"`
	CreatedAt   int64          `json:"created_at"`
}

// EntryView is one leaderboard row
type EntryView struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Score    int    `json:"score"`
}

// LeaderboardView is a ranked board
type LeaderboardView struct {
	Title   string      `json:"title"`
	Entries []EntryView `json:"entries"`
}

// ScoreResult is the outcome of a score submission
type ScoreResult struct {
	Game  string    `json:"game"`
	Entry EntryView `json:"entry"`
}

// PageView is the current page
type PageView struct {
	Page string `json:"page"`
	Path string `json:"path"`
}

// StatusView reports the client's load state
type StatusView struct {
	Loaded  bool   `json:"loaded"`
	Backend string `json:"backend"`
	Users   int    `json:"users"`
	Error   string `json:"error,omitempty"`
}

// HealthResult is the players service health
type HealthResult struct {
	Status string `json:"status"`
}

// CharacterFromUser converts a user with a character
func CharacterFromUser(u *model.User) CharacterView {
	c := u.Character
	scores := make(map[string]int, len(model.GameModes))
	for _, m := range model.GameModes {
		scores[string(m.ID)] = c.GameScores.Get(m.ID)
	}
	return CharacterView{
		Username:    u.Username,
		ID:          c.ID,
		Name:        c.Name,
		Avatar:      c.Avatar,
		Color:       c.Color,
		Accessories: c.Decoration.Accessories,
		Personality: string(c.Decoration.Personality),
		Scores:      scores,
		TotalScore:  c.TotalScore,
		CreatedAt:   c.CreatedAt,
	}
}

// EntryFromModel converts a leaderboard entry
func EntryFromModel(e leaderboard.Entry) EntryView {
	return EntryView{
		Rank:     e.Rank,
		Username: e.Username,
		Name:     e.Character.Name,
		Avatar:   e.Character.Avatar,
		Score:    e.Score,
	}
}

func (o *Output) printSession(s SessionView) {
	if s.Username == "" {
		fmt.Fprintln(o.w, "Not logged in")
	} else {
		fmt.Fprintf(o.w, "User: %s\n", s.Username)
		if !s.HasCharacter {
			fmt.Fprintln(o.w, "Character: none yet")
		}
	}
	fmt.Fprintf(o.w, "Page: %s\n", s.Page)
}

func (o *Output) printCharacter(c CharacterView) {
	fmt.Fprintf(o.w, "%s %s (%s)\n", c.Avatar, c.Name, c.Username)
	fmt.Fprintf(o.w, "Color: %s\n", c.Color)
	switch {
	case c.Personality != "":
		fmt.Fprintf(o.w, "Personality: %s\n", c.Personality)
	case len(c.Accessories) > 0:
		fmt.Fprintf(o.w, "Accessories: %s\n", strings.Join(c.Accessories, ", "))
	}
	fmt.Fprintln(o.w, "Scores:")
	for _, m := range model.GameModes {
		fmt.Fprintf(o.w, "  %-8s %d\n", m.ID, c.Scores[string(m.ID)])
	}
	fmt.Fprintf(o.w, "Total: %d\n", c.TotalScore)
}

func (o *Output) printLeaderboard(l LeaderboardView) {
	fmt.Fprintf(o.w, "%s\n", l.Title)
	if len(l.Entries) == 0 {
		fmt.Fprintln(o.w, "  (no characters yet)")
		return
	}
	for _, e := range l.Entries {
		fmt.Fprintf(o.w, "%3d. %s %-20s %-12s %d\n", e.Rank, e.Avatar, e.Name, e.Username, e.Score)
	}
}

func (o *Output) printScoreResult(r ScoreResult) {
	fmt.Fprintf(o.w, "Recorded %s score for %s\n", r.Game, r.Entry.Username)
	fmt.Fprintf(o.w, "Total: %d (rank %d)\n", r.Entry.Score, r.Entry.Rank)
}

func (o *Output) printStatus(s StatusView) {
	state := "loaded"
	if !s.Loaded {
		state = "not loaded"
	}
	fmt.Fprintf(o.w, "Backend: %s\n", s.Backend)
	fmt.Fprintf(o.w, "Players: %s (%d users)\n", state, s.Users)
	if s.Error != "" {
		fmt.Fprintf(o.w, "Error: %s\n", s.Error)
	}
}
