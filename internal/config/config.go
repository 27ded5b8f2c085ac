// Package config loads client and server settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Backend kinds for the session store
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Slot store kinds for durable client state
const (
	SlotStoreMemory = "memory"
	SlotStoreSQLite = "sqlite"
	SlotStoreRedis  = "redis"
)

// Storage kinds for the players server
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Client configures the festival client engine and CLI
type Client struct {
	Backend       string        `env:"FESTIVAL_BACKEND" envDefault:"remote"`
	APIBaseURL    string        `env:"FESTIVAL_API_BASE_URL" envDefault:"https://broad-bad-9cd25.rtioalb2250.workers.dev"`
	APITimeout    time.Duration `env:"FESTIVAL_API_TIMEOUT" envDefault:"30s"`
	ScorePageCode string        `env:"FESTIVAL_SCORE_PAGE_CODE" envDefault:"1234"`
	ScoreSecret   string        `env:"FESTIVAL_SCORE_SECRET" envDefault:"1345"`
	SeedDemo      bool          `env:"FESTIVAL_SEED_DEMO" envDefault:"true"`

	SlotStore   string `env:"FESTIVAL_SLOT_STORE" envDefault:"sqlite"`
	ProfilePath string `env:"FESTIVAL_PROFILE"`
	RedisURL    string `env:"FESTIVAL_REDIS_URL" envDefault:"redis://localhost:6379"`
	RedisPrefix string `env:"FESTIVAL_REDIS_PREFIX" envDefault:"festival"`

	Output  string `env:"FESTIVAL_OUTPUT" envDefault:"text"`
	Verbose bool   `env:"FESTIVAL_VERBOSE"`
}

// Server configures the reference players server
type Server struct {
	Host        string `env:"FESTIVAL_SERVER_HOST"`
	Port        int    `env:"FESTIVAL_SERVER_PORT" envDefault:"8080"`
	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL"`
	ScoreSecret string `env:"FESTIVAL_SCORE_SECRET" envDefault:"1345"`
	LogLevel    string `env:"FESTIVAL_LOG_LEVEL" envDefault:"info"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadClient reads and validates client configuration
func LoadClient() (Client, error) {
	var cfg Client
	if err := ParseEnv(&cfg); err != nil {
		return Client{}, err
	}
	if cfg.ProfilePath == "" {
		cfg.ProfilePath = DefaultProfilePath()
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated settings
func (c Client) Validate() error {
	switch c.Backend {
	case BackendLocal, BackendRemote:
	default:
		return fmt.Errorf("invalid FESTIVAL_BACKEND %q: must be %q or %q", c.Backend, BackendLocal, BackendRemote)
	}
	switch c.SlotStore {
	case SlotStoreMemory, SlotStoreSQLite, SlotStoreRedis:
	default:
		return fmt.Errorf("invalid FESTIVAL_SLOT_STORE %q", c.SlotStore)
	}
	if c.Backend == BackendRemote && strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("FESTIVAL_API_BASE_URL is required for the remote backend")
	}
	if strings.TrimSpace(c.ScorePageCode) == "" {
		return fmt.Errorf("FESTIVAL_SCORE_PAGE_CODE must not be empty")
	}
	switch c.Output {
	case "text", "json":
	default:
		return fmt.Errorf("invalid FESTIVAL_OUTPUT %q: must be text or json", c.Output)
	}
	return nil
}

// LoadServer reads and validates server configuration
func LoadServer() (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated settings
func (s Server) Validate() error {
	switch s.StorageType {
	case StorageTypeMemory:
	case StorageTypeRedis:
		if s.RedisURL == "" {
			return fmt.Errorf("REDIS_URL required when STORAGE_TYPE=redis")
		}
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q: must be 'memory' or 'redis'", s.StorageType)
	}
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("invalid FESTIVAL_SERVER_PORT %d", s.Port)
	}
	return nil
}

// DefaultProfilePath is the sqlite profile under the user's home directory
func DefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".festival", "profile.db")
	}
	return filepath.Join(home, ".festival", "profile.db")
}
