package storage

import (
	"context"

	"github.com/mcoot/festivalboard/internal/model"
)

// Durable slot keys
const (
	SlotCurrentUsername   = "session-current-username"
	SlotUsersSnapshot     = "users-snapshot"
	SlotNavigationHistory = "navigation-history"
)

// Slots is durable string key/value storage for client state
type Slots interface {
	// Get returns the slot value and whether it was present
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Backend is where the session store loads users from and persists them to.
// Implementations: a local users snapshot in Slots, or the remote service.
type Backend interface {
	Load(ctx context.Context) ([]*model.User, error)
	Persist(ctx context.Context, user *model.User) error
}

// ScoreReporter is implemented by backends with a narrower score endpoint
type ScoreReporter interface {
	ReportScore(ctx context.Context, user *model.User, gameID model.GameModeID) error
}

// PlayerRepository stores remote player records for the players API
type PlayerRepository interface {
	ListPlayers(ctx context.Context) ([]*model.PlayerRecord, error)
	GetPlayer(ctx context.Context, username string) (*model.PlayerRecord, error)
	SavePlayer(ctx context.Context, rec *model.PlayerRecord) error
}
