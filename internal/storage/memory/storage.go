package memory

import (
	"context"
	"sync"

	"github.com/mcoot/festivalboard/internal/model"
	"github.com/mcoot/festivalboard/internal/storage"
)

// Storage is an in-memory implementation of the slot and player stores
type Storage struct {
	mu sync.RWMutex

	slots   map[string]string
	players map[string]*model.PlayerRecord
	order   []string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		slots:   make(map[string]string),
		players: make(map[string]*model.PlayerRecord),
	}
}

// Ensure Storage implements the interfaces
var (
	_ storage.Slots            = (*Storage)(nil)
	_ storage.PlayerRepository = (*Storage)(nil)
)

// Slot operations

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.slots[key]
	return value, ok, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = value
	return nil
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key)
	return nil
}

// Player operations

// ListPlayers returns players in first-registration order
func (s *Storage) ListPlayers(ctx context.Context) ([]*model.PlayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.PlayerRecord, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.players[key].Clone())
	}
	return out, nil
}

func (s *Storage) GetPlayer(ctx context.Context, username string) (*model.PlayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.players[model.CanonicalUsername(username)]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rec.Clone(), nil
}

func (s *Storage) SavePlayer(ctx context.Context, rec *model.PlayerRecord) error {
	key := model.CanonicalUsername(rec.Username)
	if key == "" {
		return model.ErrUsernameRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.players[key]; !exists {
		s.order = append(s.order, key)
	}
	s.players[key] = rec.Clone()
	return nil
}
