package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"

	"github.com/mcoot/festivalboard/internal/dependencies/mocks"
	"github.com/mcoot/festivalboard/internal/model"
	"github.com/mcoot/festivalboard/internal/services/normalizer"
	"github.com/mcoot/festivalboard/internal/services/scoring"
	"github.com/mcoot/festivalboard/internal/storage"
	"github.com/mcoot/festivalboard/internal/storage/memory"
	"github.com/mcoot/festivalboard/internal/testutil"
)

type BackendSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	slots   *memory.Storage
	backend *Backend
	ctx     context.Context
}

func TestBackendSuite(t *testing.T) {
	suite.Run(t, new(BackendSuite))
}

func (s *BackendSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.UnixMilli(1700000000000))
	s.slots = memory.New()
	n := normalizer.New(s.clock, scoring.New(mocks.NewMockRandom()))
	s.backend = New(s.slots, n, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *BackendSuite) snapshot() string {
	raw, ok, err := s.slots.Get(s.ctx, storage.SlotUsersSnapshot)
	s.Require().NoError(err)
	s.Require().True(ok)
	return raw
}

func (s *BackendSuite) TestLoadWithoutSnapshotIsEmpty() {
	users, err := s.backend.Load(s.ctx)
	s.Require().NoError(err)
	s.Empty(users)
	s.Equal(`{}`, s.snapshot())
}

func (s *BackendSuite) TestLoadSeedsDemoUsers() {
	n := normalizer.New(s.clock, scoring.New(mocks.NewMockRandom()))
	backend := New(s.slots, n, testutil.NopLogger(), WithSeed(DemoUsers(s.clock)))

	users, err := backend.Load(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 3)
	s.Equal("1", users[0].Username)
	s.Equal(14800, users[0].Character.TotalScore)
	s.Equal(14800, users[1].Character.TotalScore)
	s.Equal(12800, users[2].Character.TotalScore)
	s.Equal(int64(1700000000000-24*3600*1000), users[0].Character.CreatedAt)

	// a second load reads the snapshot rather than reseeding
	again, err := backend.Load(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(again, 3)
	s.Equal("불타는 호랑이", again[0].Character.Name)
	s.Equal([]string{"왕관", "목걸이"}, again[0].Character.Decoration.Accessories)
}

func (s *BackendSuite) TestLoadRepairsAndRewritesSnapshot() {
	s.Require().NoError(s.slots.Set(s.ctx, storage.SlotUsersSnapshot,
		`{"legacy": {"password": "pw", "character": {"name": "Old", "score": 400}}}`))

	users, err := s.backend.Load(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 1)
	s.Equal(400, users[0].Character.TotalScore)

	doc := s.snapshot()
	s.Equal("legacy", gjson.Get(doc, "legacy.username").String())
	s.Equal(int64(400), gjson.Get(doc, "legacy.character.totalScore").Int())
	s.True(gjson.Get(doc, "legacy.character.gameScores.dance").Exists())
	s.False(gjson.Get(doc, "legacy.character.score").Exists())
}

func (s *BackendSuite) TestLoadCorruptSnapshotYieldsNoUsers() {
	s.Require().NoError(s.slots.Set(s.ctx, storage.SlotUsersSnapshot, `not json`))

	users, err := s.backend.Load(s.ctx)
	s.Require().NoError(err)
	s.Empty(users)
	s.Equal(`{}`, s.snapshot())
}

func (s *BackendSuite) TestPersistUpsertsOneUser() {
	_, err := s.backend.Load(s.ctx)
	s.Require().NoError(err)

	s.Require().NoError(s.backend.Persist(s.ctx, &model.User{Username: "alice", Password: "a"}))
	s.Require().NoError(s.backend.Persist(s.ctx, &model.User{Username: "bob"}))
	s.Require().NoError(s.backend.Persist(s.ctx, &model.User{Username: "alice", Password: "changed"}))

	doc := s.snapshot()
	s.Equal("changed", gjson.Get(doc, "alice.password").String())
	s.Equal("", gjson.Get(doc, "bob.password").String())

	users, err := s.backend.Load(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 2)
	s.Equal("alice", users[0].Username)
	s.Equal("bob", users[1].Username)
}

func (s *BackendSuite) TestPersistEscapesUsernamePaths() {
	s.Require().NoError(s.backend.Persist(s.ctx, &model.User{Username: "a.b*c"}))

	users, err := s.backend.Load(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 1)
	s.Equal("a.b*c", users[0].Username)
}

func (s *BackendSuite) TestPersistRoundTripsCharacter() {
	user := DemoUsers(s.clock)()[1]
	s.Require().NoError(s.backend.Persist(s.ctx, user))

	users, err := s.backend.Load(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 1)
	s.Equal(user.Character, users[0].Character)
}
