package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/festivalboard/internal/model"
	"github.com/mcoot/festivalboard/internal/services/normalizer"
	"github.com/mcoot/festivalboard/internal/storage"
)

// Endpoint paths on the players service
const (
	PlayersPath = "/players"
	ScoresPath  = "/scores"
)

// DefaultScoreSecret is the shared secret the score endpoint expects
const DefaultScoreSecret = "1345"

// Backend loads users from GET /players and upserts them with POST /players
type Backend struct {
	client      *Client
	normalizer  *normalizer.Normalizer
	logger      *slog.Logger
	scoreSecret string
}

// NewBackend creates a remote Backend. An empty scoreSecret uses
// DefaultScoreSecret.
func NewBackend(client *Client, n *normalizer.Normalizer, logger *slog.Logger, scoreSecret string) *Backend {
	if scoreSecret == "" {
		scoreSecret = DefaultScoreSecret
	}
	return &Backend{
		client:      client,
		normalizer:  n,
		logger:      logger,
		scoreSecret: scoreSecret,
	}
}

var (
	_ storage.Backend       = (*Backend)(nil)
	_ storage.ScoreReporter = (*Backend)(nil)
)

// Load fetches and normalizes every player. A response that is not a JSON
// array is a load failure.
func (b *Backend) Load(ctx context.Context) ([]*model.User, error) {
	body, err := b.client.Get(ctx, PlayersPath)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	users, err := b.normalizer.PlayerRecordsBytes(body)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return users, nil
}

// Persist upserts the user's full record. Users without a character have
// nothing the service can store yet and are skipped.
func (b *Backend) Persist(ctx context.Context, user *model.User) error {
	payload, err := normalizer.ToPlayerPayload(user)
	if errors.Is(err, model.ErrNoCharacter) {
		b.logger.Debug("skipping remote persist for user without character",
			slog.String("username", user.Username))
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := b.client.Post(ctx, PlayersPath, payload); err != nil {
		return fmt.Errorf("save player %q: %w", user.Username, err)
	}
	return nil
}

// ReportScore sends one mode's score through the narrower score endpoint,
// authenticated with the shared score secret rather than the user's password
func (b *Backend) ReportScore(ctx context.Context, user *model.User, gameID model.GameModeID) error {
	if !user.HasCharacter() {
		return model.ErrNoCharacter
	}
	update := model.ScoreUpdate{
		Username:   user.Username,
		GameColumn: gameID.Column(),
		Score:      user.Character.GameScores.Get(gameID),
		Password:   b.scoreSecret,
	}
	if _, err := b.client.Post(ctx, ScoresPath, update); err != nil {
		return fmt.Errorf("report %s score for %q: %w", gameID, user.Username, err)
	}
	return nil
}
