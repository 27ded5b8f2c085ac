package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/festivalboard/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func intPtr(v int) *int { return &v }

// Slot tests

func (s *StorageSuite) TestSetAndGetSlot() {
	s.Require().NoError(s.storage.Set(s.ctx, "session-current-username", "alice"))

	value, ok, err := s.storage.Get(s.ctx, "session-current-username")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("alice", value)

	s.True(s.mini.Exists("festival:slot:session-current-username"))
}

func (s *StorageSuite) TestGetMissingSlot() {
	_, ok, err := s.storage.Get(s.ctx, "missing")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *StorageSuite) TestRemoveSlot() {
	s.Require().NoError(s.storage.Set(s.ctx, "k", "v"))
	s.Require().NoError(s.storage.Remove(s.ctx, "k"))

	_, ok, err := s.storage.Get(s.ctx, "k")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *StorageSuite) TestSlotTTL() {
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	cfg := DefaultConfig()
	cfg.SlotTTL = time.Hour
	store := NewWithClient(client, cfg)
	defer func() { _ = store.Close() }()

	s.Require().NoError(store.Set(s.ctx, "k", "v"))
	s.Equal(time.Hour, s.mini.TTL("festival:slot:k"))
}

func (s *StorageSuite) TestKeyPrefixIsolatesProfiles() {
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	cfg := DefaultConfig()
	cfg.KeyPrefix = "other"
	other := NewWithClient(client, cfg)
	defer func() { _ = other.Close() }()

	s.Require().NoError(s.storage.Set(s.ctx, "k", "mine"))
	_, ok, err := other.Get(s.ctx, "k")
	s.Require().NoError(err)
	s.False(ok)
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	rec := &model.PlayerRecord{
		Username:    "Mystic",
		Name:        "신비한 용",
		Avatar:      "🐉",
		Accessories: []string{"마법지팡이"},
		Game1:       intPtr(3600),
	}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, rec))

	got, err := s.storage.GetPlayer(s.ctx, "mystic")
	s.Require().NoError(err)
	s.Equal("Mystic", got.Username)
	s.Equal("신비한 용", got.Name)
	s.Equal([]string{"마법지팡이"}, got.Accessories)
	s.Require().NotNil(got.Game1)
	s.Equal(3600, *got.Game1)
	s.Nil(got.Game2)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestSavePlayerRequiresUsername() {
	err := s.storage.SavePlayer(s.ctx, &model.PlayerRecord{})
	s.ErrorIs(err, model.ErrUsernameRequired)
}

func (s *StorageSuite) TestListPlayersKeepsRegistrationOrder() {
	for _, name := range []string{"charlie", "alice", "bob"} {
		s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.PlayerRecord{Username: name}))
	}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.PlayerRecord{Username: "charlie", Name: "C"}))

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal("charlie", players[0].Username)
	s.Equal("C", players[0].Name)
	s.Equal("alice", players[1].Username)
	s.Equal("bob", players[2].Username)
}

func (s *StorageSuite) TestListPlayersEmpty() {
	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *StorageSuite) TestListPlayersSkipsDanglingIndex() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.PlayerRecord{Username: "a"}))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.PlayerRecord{Username: "b"}))
	s.mini.Del("festival:player:a")

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 1)
	s.Equal("b", players[0].Username)
}
