// Package players is the reference implementation of the remote players
// service: it stores player records and applies score updates.
package players

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mcoot/festivalboard/internal/dependencies/clock"
	"github.com/mcoot/festivalboard/internal/model"
	"github.com/mcoot/festivalboard/internal/storage"
)

// DefaultScoreSecret is the shared secret accepted by UpdateScore
const DefaultScoreSecret = "1345"

// Errors
var (
	ErrInvalidScoreSecret = errors.New("invalid score secret")
)

// Config holds configuration for the players service
type Config struct {
	ScoreSecret string
}

// DefaultConfig returns default players configuration
func DefaultConfig() Config {
	return Config{ScoreSecret: DefaultScoreSecret}
}

// Service stores player records. Writes are last-write-wins.
type Service struct {
	repo   storage.PlayerRepository
	clock  clock.Clock
	logger *slog.Logger
	cfg    Config
}

// New creates a players Service
func New(repo storage.PlayerRepository, clk clock.Clock, logger *slog.Logger, cfg Config) *Service {
	if cfg.ScoreSecret == "" {
		cfg.ScoreSecret = DefaultConfig().ScoreSecret
	}
	return &Service{repo: repo, clock: clk, logger: logger, cfg: cfg}
}

// List returns every player with an up-to-date total
func (s *Service) List(ctx context.Context) ([]*model.PlayerRecord, error) {
	recs, err := s.repo.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	for _, r := range recs {
		r.RecomputeTotal()
	}
	return recs, nil
}

// Upsert creates or replaces a player. An existing player keeps its id and
// creation time.
func (s *Service) Upsert(ctx context.Context, p model.PlayerPayload) (*model.PlayerRecord, error) {
	username := strings.TrimSpace(p.Username)
	if username == "" {
		return nil, model.ErrUsernameRequired
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, model.ErrNameRequired
	}
	for _, v := range p.Columns() {
		if v < 0 {
			return nil, model.ErrInvalidScore
		}
	}

	rec := &model.PlayerRecord{
		Username:    username,
		Password:    p.Password,
		Name:        strings.TrimSpace(p.Name),
		Avatar:      p.Avatar,
		Color:       p.Color,
		Accessories: append([]string(nil), p.Accessories...),
		MBTI:        p.MBTI,
		CreatedAt:   p.CreatedAt,
	}
	for i, m := range model.GameModes {
		rec.SetColumn(m.Label, p.Columns()[i])
	}
	rec.RecomputeTotal()

	existing, err := s.repo.GetPlayer(ctx, username)
	switch {
	case err == nil:
		rec.ID = existing.ID
		if existing.CreatedAt != 0 {
			rec.CreatedAt = existing.CreatedAt
		}
	case errors.Is(err, model.ErrPlayerNotFound):
		if rec.CreatedAt <= 0 {
			rec.CreatedAt = clock.Millis(s.clock)
		}
		rec.ID = strconv.FormatInt(rec.CreatedAt, 10)
	default:
		return nil, fmt.Errorf("get player: %w", err)
	}

	if err := s.repo.SavePlayer(ctx, rec); err != nil {
		return nil, fmt.Errorf("save player: %w", err)
	}
	s.logger.Info("player saved", slog.String("username", rec.Username), slog.Int("total", *rec.TotalScore))
	return rec, nil
}

// UpdateScore sets one score column of an existing player
func (s *Service) UpdateScore(ctx context.Context, u model.ScoreUpdate) (*model.PlayerRecord, error) {
	if u.Password != s.cfg.ScoreSecret {
		return nil, ErrInvalidScoreSecret
	}
	if _, ok := model.GameModeForColumn(u.GameColumn); !ok {
		return nil, model.ErrUnknownGameMode
	}
	if u.Score < 0 {
		return nil, model.ErrInvalidScore
	}

	rec, err := s.repo.GetPlayer(ctx, u.Username)
	if err != nil {
		return nil, err
	}
	rec.SetColumn(u.GameColumn, u.Score)
	rec.RecomputeTotal()

	if err := s.repo.SavePlayer(ctx, rec); err != nil {
		return nil, fmt.Errorf("save player: %w", err)
	}
	s.logger.Info("score updated",
		slog.String("username", rec.Username),
		slog.String("column", u.GameColumn),
		slog.Int("score", u.Score))
	return rec, nil
}
