package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/festivalboard/internal/model"
	"github.com/mcoot/festivalboard/internal/storage"
)

// Storage is a Redis-backed implementation of the slot and player stores
type Storage struct {
	client *redis.Client
	cfg    Config
	keys   keys
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		cfg:    cfg,
		keys:   keys{prefix: cfg.KeyPrefix},
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interfaces
var (
	_ storage.Slots            = (*Storage)(nil)
	_ storage.PlayerRepository = (*Storage)(nil)
)

// Slot operations

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.keys.slotKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.keys.slotKey(key), value, s.cfg.SlotTTL).Err()
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.keys.slotKey(key)).Err()
}

// Player operations

// ListPlayers returns players in first-registration order
func (s *Storage) ListPlayers(ctx context.Context) ([]*model.PlayerRecord, error) {
	members, err := s.client.ZRange(ctx, s.keys.playerIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []*model.PlayerRecord{}, nil
	}

	playerKeys := make([]string, len(members))
	for i, m := range members {
		playerKeys[i] = s.keys.playerKey(m)
	}

	values, err := s.client.MGet(ctx, playerKeys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.PlayerRecord, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue // index entry outlived its record
		}
		str, ok := v.(string)
		if !ok {
			continue
		}
		var rec model.PlayerRecord
		if err := json.Unmarshal([]byte(str), &rec); err != nil {
			return nil, fmt.Errorf("decode player record: %w", err)
		}
		players = append(players, &rec)
	}
	return players, nil
}

func (s *Storage) GetPlayer(ctx context.Context, username string) (*model.PlayerRecord, error) {
	data, err := s.client.Get(ctx, s.keys.playerKey(model.CanonicalUsername(username))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var rec model.PlayerRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Storage) SavePlayer(ctx context.Context, rec *model.PlayerRecord) error {
	canonical := model.CanonicalUsername(rec.Username)
	if canonical == "" {
		return model.ErrUsernameRequired
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	seq, err := s.client.Incr(ctx, s.keys.playerSeqKey()).Result()
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update.
	// ZADD NX keeps the original registration position on upsert.
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keys.playerKey(canonical), data, 0)
	pipe.ZAddNX(ctx, s.keys.playerIndexKey(), redis.Z{Score: float64(seq), Member: canonical})
	_, err = pipe.Exec(ctx)
	return err
}
