// Package scoregate is the access-code protected score entry workflow.
// Anyone holding the code can record a score for any registered player.
package scoregate

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/mcoot/festivalboard/internal/model"
	"github.com/mcoot/festivalboard/internal/services/leaderboard"
	"github.com/mcoot/festivalboard/internal/services/scoring"
)

// DefaultAccessCode is used when no code is configured
const DefaultAccessCode = "1234"

// Errors
var (
	ErrAccessRequired    = errors.New("enter the access code first")
	ErrInvalidAccessCode = errors.New("invalid access code")
	ErrNotRegistered     = errors.New("no registered character with that username")
	ErrSubmitFailed      = errors.New("score submission failed")
)

// Store is the part of the session store the gate uses
type Store interface {
	Snapshot() []*model.User
	SubmitScore(ctx context.Context, username string, gameID model.GameModeID, score float64) (bool, error)
}

// Gate holds the per-session unlock state. It is never persisted.
type Gate struct {
	store  Store
	code   string
	logger *slog.Logger

	mu       sync.Mutex
	unlocked bool
}

// New creates a locked Gate
func New(store Store, code string, logger *slog.Logger) *Gate {
	if code == "" {
		code = DefaultAccessCode
	}
	return &Gate{store: store, code: code, logger: logger}
}

// Unlock opens the gate when code matches
func (g *Gate) Unlock(code string) error {
	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(code)), []byte(g.code)) != 1 {
		g.logger.Warn("score gate unlock rejected")
		return ErrInvalidAccessCode
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.unlocked = true
	return nil
}

// Lock closes the gate again
func (g *Gate) Lock() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.unlocked = false
}

// Unlocked reports whether submissions are accepted
func (g *Gate) Unlocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.unlocked
}

// Submit validates and records a score typed in by an operator. It returns
// the player's updated leaderboard entry.
func (g *Gate) Submit(ctx context.Context, username string, gameID model.GameModeID, scoreText string) (leaderboard.Entry, error) {
	if !g.Unlocked() {
		return leaderboard.Entry{}, ErrAccessRequired
	}
	if strings.TrimSpace(username) == "" {
		return leaderboard.Entry{}, model.ErrUsernameRequired
	}
	if !gameID.Valid() {
		return leaderboard.Entry{}, model.ErrUnknownGameMode
	}
	score, err := ParseScore(scoreText)
	if err != nil {
		return leaderboard.Entry{}, err
	}

	entry, ok := leaderboard.Find(leaderboard.AllRanked(g.store.Snapshot()), username)
	if !ok {
		return leaderboard.Entry{}, ErrNotRegistered
	}

	if _, err := g.store.SubmitScore(ctx, entry.Username, gameID, score); err != nil {
		return leaderboard.Entry{}, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	updated, ok := leaderboard.Find(leaderboard.AllRanked(g.store.Snapshot()), entry.Username)
	if !ok {
		return leaderboard.Entry{}, ErrNotRegistered
	}
	g.logger.Info("score recorded",
		slog.String("username", updated.Username),
		slog.String("game", string(gameID)),
		slog.Float64("score", score))
	return updated, nil
}

// ParseScore accepts a finite non-negative decimal number up to
// scoring.MaxScore
func ParseScore(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, model.ErrInvalidScore
	}
	score, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(score) || math.IsInf(score, 0) || score < 0 || score > scoring.MaxScore {
		return 0, model.ErrInvalidScore
	}
	return score, nil
}
