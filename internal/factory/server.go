package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/festivalboard/internal/dependencies/clock"
	"github.com/mcoot/festivalboard/internal/services/players"
	"github.com/mcoot/festivalboard/internal/storage"
	"github.com/mcoot/festivalboard/internal/storage/memory"
	redisstorage "github.com/mcoot/festivalboard/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// ServerApp contains the wired components of the players server
type ServerApp struct {
	Repository     storage.PlayerRepository
	Clock          clock.Clock
	PlayersService *players.Service

	closer io.Closer
}

// ServerConfig holds configuration for the server factory
type ServerConfig struct {
	// PlayersConfig holds configuration for the players service (optional)
	// If zero value, defaults to players.DefaultConfig()
	PlayersConfig players.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// NewServer creates the players server application
func NewServer(cfg ServerConfig) (*ServerApp, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var repo storage.PlayerRepository
	var closer io.Closer
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		repo = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		repo = redisStore
		closer = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	playersCfg := cfg.PlayersConfig
	if playersCfg.ScoreSecret == "" {
		playersCfg = players.DefaultConfig()
	}

	app := newServerWithDependencies(repo, clock.New(), playersCfg, logger)
	app.closer = closer
	return app, nil
}

// newServerWithDependencies creates a ServerApp with the given dependencies (useful for testing)
func newServerWithDependencies(repo storage.PlayerRepository, clk clock.Clock, cfg players.Config, logger *slog.Logger) *ServerApp {
	return &ServerApp{
		Repository:     repo,
		Clock:          clk,
		PlayersService: players.New(repo, clk, logger, cfg),
	}
}

// Close releases the storage connection, if any
func (a *ServerApp) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
