package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/festivalboard/internal/dependencies/mocks"
	"github.com/mcoot/festivalboard/internal/model"
	"github.com/mcoot/festivalboard/internal/services/leaderboard"
	"github.com/mcoot/festivalboard/internal/services/navigation"
	"github.com/mcoot/festivalboard/internal/services/scoring"
	"github.com/mcoot/festivalboard/internal/storage"
	"github.com/mcoot/festivalboard/internal/storage/memory"
	"github.com/mcoot/festivalboard/internal/testutil"
)

var errBackendDown = errors.New("backend down")

type fakeBackend struct {
	mu         sync.Mutex
	users      []*model.User
	loadErr    error
	persistErr error
	persisted  []*model.User
}

func (f *fakeBackend) Load(ctx context.Context) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make([]*model.User, len(f.users))
	for i, u := range f.users {
		out[i] = u.Clone()
	}
	return out, nil
}

func (f *fakeBackend) Persist(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.persistErr != nil {
		return f.persistErr
	}
	f.persisted = append(f.persisted, user.Clone())
	return nil
}

type reportingBackend struct {
	*fakeBackend
	reports []model.GameModeID
}

func (r *reportingBackend) ReportScore(ctx context.Context, user *model.User, gameID model.GameModeID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.persistErr != nil {
		return r.persistErr
	}
	r.reports = append(r.reports, gameID)
	return nil
}

// blockingBackend holds every score report until release is closed, then
// fails it with err
type blockingBackend struct {
	*fakeBackend
	started chan struct{}
	release chan struct{}
	err     error
}

func (b *blockingBackend) ReportScore(ctx context.Context, user *model.User, gameID model.GameModeID) error {
	close(b.started)
	<-b.release
	return b.err
}

func characterWith(total int) *model.Character {
	return &model.Character{
		ID:         "1",
		Appearance: model.Appearance{Name: "Tiger", Avatar: "🐯", Color: "#FF6B35", Decoration: model.AccessoryDecoration()},
		CreatedAt:  1,
		GameScores: model.GameScores{
			model.GameDance: total, model.GameRhythm: 0, model.GamePuzzle: 0, model.GameRaid: 0,
		},
		TotalScore: total,
	}
}

type StoreSuite struct {
	suite.Suite
	backend *fakeBackend
	slots   *memory.Storage
	clock   *mocks.MockClock
	store   *Store
	history *navigation.MemoryHistory
	binder  *navigation.Binder
	ctx     context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.backend = &fakeBackend{
		users: []*model.User{
			{Username: "Tiger", Password: "1", Character: characterWith(100)},
			{Username: "open", Password: ""},
		},
	}
	s.slots = memory.New()
	s.clock = mocks.NewMockClock(time.UnixMilli(1700000000000))
	s.newStore(s.backend)
}

func (s *StoreSuite) newStore(backend storage.Backend) {
	s.store = New(backend, s.slots, s.clock, testutil.NopLogger())
	s.history = navigation.NewMemoryHistory("/")
	s.binder = navigation.NewBinder(s.history, s.store, testutil.NopLogger())
	s.store.Attach(s.binder)
}

func (s *StoreSuite) load() {
	s.Require().NoError(s.store.Load(s.ctx))
	s.Require().NoError(s.binder.Start())
}

func (s *StoreSuite) sessionSlot() (string, bool) {
	v, ok, err := s.slots.Get(s.ctx, storage.SlotCurrentUsername)
	s.Require().NoError(err)
	return v, ok
}

// Load tests

func (s *StoreSuite) TestLoadFailureLeavesStoreUnloaded() {
	s.backend.loadErr = errBackendDown

	err := s.store.Load(s.ctx)
	s.ErrorIs(err, model.ErrNotLoaded)
	s.ErrorIs(err, errBackendDown)
	s.False(s.store.Loaded())
	s.Empty(s.store.Snapshot())

	_, err = s.store.Login(s.ctx, "Tiger", "1")
	s.ErrorIs(err, model.ErrNotLoaded)
	_, err = s.store.Signup(s.ctx, "new", "")
	s.ErrorIs(err, model.ErrNotLoaded)
	_, err = s.store.SubmitScore(s.ctx, "Tiger", model.GameDance, 1)
	s.ErrorIs(err, model.ErrNotLoaded)
	_, err = s.store.CreateCharacter(s.ctx, model.Appearance{Name: "Al"})
	s.ErrorIs(err, model.ErrNotLoaded)
	s.ErrorIs(s.store.Logout(s.ctx), model.ErrNotLoaded)
	s.ErrorIs(s.binder.Start(), model.ErrNotLoaded)
	_, err = s.binder.Navigate(model.PageScore)
	s.ErrorIs(err, model.ErrNotLoaded)
}

func (s *StoreSuite) TestRetryAfterFailure() {
	s.backend.loadErr = errBackendDown
	s.Require().Error(s.store.Load(s.ctx))

	s.backend.loadErr = nil
	s.Require().NoError(s.store.Retry(s.ctx))
	s.True(s.store.Loaded())
	s.Len(s.store.Snapshot(), 2)
}

func (s *StoreSuite) TestLoadRestoresSession() {
	s.Require().NoError(s.slots.Set(s.ctx, storage.SlotCurrentUsername, "tiger"))
	s.load()

	sess := s.store.Session()
	s.Equal("Tiger", sess.CurrentUser)
	s.Equal(model.PageHome, sess.CurrentPage)
	s.Equal("/home", s.history.Path())
}

func (s *StoreSuite) TestLoadDropsStaleSession() {
	s.Require().NoError(s.slots.Set(s.ctx, storage.SlotCurrentUsername, "ghost"))
	s.load()

	s.False(s.store.Session().Authenticated())
	_, ok := s.sessionSlot()
	s.False(ok)
}

func (s *StoreSuite) TestLoadFirstDuplicateWins() {
	s.backend.users = append(s.backend.users, &model.User{Username: "TIGER", Password: "other"})
	s.load()

	users := s.store.Snapshot()
	s.Len(users, 2)
	u, ok := s.store.Lookup("tiger")
	s.Require().True(ok)
	s.Equal("1", u.Password)
}

// Login tests

func (s *StoreSuite) TestLoginSucceeds() {
	s.load()

	ok, err := s.store.Login(s.ctx, "  tiger ", "1")
	s.Require().NoError(err)
	s.True(ok)

	slot, present := s.sessionSlot()
	s.True(present)
	s.Equal("Tiger", slot)
	s.Equal(model.PageHome, s.binder.Current())
}

func (s *StoreSuite) TestLoginWithoutCharacterGoesToCreate() {
	s.load()
	ok, err := s.store.Login(s.ctx, "open", "anything")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(model.PageCreate, s.binder.Current())
}

func (s *StoreSuite) TestLoginFailures() {
	s.load()

	ok, err := s.store.Login(s.ctx, "Tiger", "wrong")
	s.False(ok)
	s.ErrorIs(err, model.ErrInvalidCredentials)

	ok, err = s.store.Login(s.ctx, "nobody", "1")
	s.False(ok)
	s.ErrorIs(err, model.ErrInvalidCredentials)

	_, err = s.store.Login(s.ctx, "   ", "1")
	s.ErrorIs(err, model.ErrUsernameRequired)

	s.False(s.store.Session().Authenticated())
	s.Equal(model.PageLogin, s.binder.Current())
}

// Signup tests

func (s *StoreSuite) TestSignupCreatesBareUser() {
	s.load()

	ok, err := s.store.Signup(s.ctx, " alice ", "pw")
	s.Require().NoError(err)
	s.True(ok)

	u, found := s.store.CurrentUser()
	s.Require().True(found)
	s.Equal("alice", u.Username)
	s.Equal("pw", u.Password)
	s.False(u.HasCharacter())
	s.Equal(model.PageCreate, s.binder.Current())

	s.Require().Len(s.backend.persisted, 1)
	s.Equal("alice", s.backend.persisted[0].Username)
}

func (s *StoreSuite) TestSignupRejectsExistingUsername() {
	s.load()
	before := s.store.Snapshot()

	ok, err := s.store.Signup(s.ctx, "TIGER", "x")
	s.False(ok)
	s.ErrorIs(err, model.ErrUsernameExists)
	s.Equal(before, s.store.Snapshot())
	s.False(s.store.Session().Authenticated())
}

func (s *StoreSuite) TestSignupKeptWhenPersistFails() {
	s.load()
	s.backend.persistErr = errBackendDown

	ok, err := s.store.Signup(s.ctx, "alice", "")
	s.Require().NoError(err)
	s.True(ok)
	_, found := s.store.Lookup("alice")
	s.True(found)
}

// CreateCharacter tests

func (s *StoreSuite) TestCreateCharacterRequiresLogin() {
	s.load()
	_, err := s.store.CreateCharacter(s.ctx, model.Appearance{Name: "Al"})
	s.ErrorIs(err, model.ErrNotAuthenticated)
}

func (s *StoreSuite) TestCreateCharacterValidates() {
	s.load()
	_, err := s.store.Signup(s.ctx, "alice", "")
	s.Require().NoError(err)

	_, err = s.store.CreateCharacter(s.ctx, model.Appearance{Name: "  A  "})
	s.ErrorIs(err, model.ErrNameTooShort)
	_, err = s.store.CreateCharacter(s.ctx, model.Appearance{Name: "", Avatar: "x"})
	s.ErrorIs(err, model.ErrNameRequired)
	_, err = s.store.CreateCharacter(s.ctx, model.Appearance{
		Name:       "Al",
		Decoration: model.AccessoryDecoration("a", "b", "c", "d"),
	})
	s.ErrorIs(err, model.ErrTooManyAccessories)

	u, _ := s.store.CurrentUser()
	s.False(u.HasCharacter())
}

func (s *StoreSuite) TestCreateCharacterSucceeds() {
	s.load()
	_, err := s.store.Signup(s.ctx, "alice", "pw")
	s.Require().NoError(err)

	c, err := s.store.CreateCharacter(s.ctx, model.Appearance{
		Name: " Al ", Avatar: "🦊", Color: "#fff",
		Decoration: model.PersonalityDecoration("enfp"),
	})
	s.Require().NoError(err)
	s.Equal("1700000000000", c.ID)
	s.Equal(int64(1700000000000), c.CreatedAt)
	s.Equal("Al", c.Name)
	s.Equal(model.Personality("ENFP"), c.Decoration.Personality)
	s.Equal(0, c.TotalScore)
	s.Len(c.GameScores, 4)
	s.Equal(model.PageHome, s.binder.Current())

	_, err = s.store.CreateCharacter(s.ctx, model.Appearance{Name: "Again"})
	s.ErrorIs(err, model.ErrCharacterExists)
}

func (s *StoreSuite) TestCreateCharacterKeptWhenPersistFails() {
	s.load()
	_, err := s.store.Signup(s.ctx, "alice", "")
	s.Require().NoError(err)
	s.backend.persistErr = errBackendDown

	_, err = s.store.CreateCharacter(s.ctx, model.Appearance{Name: "Al"})
	s.Require().NoError(err)
	u, _ := s.store.CurrentUser()
	s.True(u.HasCharacter())
}

// UpdateCharacter tests

func (s *StoreSuite) TestUpdateCharacterMergesAppearance() {
	s.load()
	_, err := s.store.Login(s.ctx, "Tiger", "1")
	s.Require().NoError(err)

	name := "Blazing Tiger"
	c, err := s.store.UpdateCharacter(s.ctx, model.AppearanceUpdate{Name: &name})
	s.Require().NoError(err)
	s.Equal("Blazing Tiger", c.Name)
	s.Equal("🐯", c.Avatar)
	s.Equal("1", c.ID)
	s.Equal(100, c.TotalScore)
	s.Equal(100, c.GameScores[model.GameDance])
}

func (s *StoreSuite) TestUpdateCharacterErrors() {
	s.load()
	_, err := s.store.UpdateCharacter(s.ctx, model.AppearanceUpdate{})
	s.ErrorIs(err, model.ErrNotAuthenticated)

	_, err = s.store.Login(s.ctx, "open", "")
	s.Require().NoError(err)
	_, err = s.store.UpdateCharacter(s.ctx, model.AppearanceUpdate{})
	s.ErrorIs(err, model.ErrNoCharacter)

	_, err = s.store.Login(s.ctx, "Tiger", "1")
	s.Require().NoError(err)
	short := "x"
	_, err = s.store.UpdateCharacter(s.ctx, model.AppearanceUpdate{Name: &short})
	s.ErrorIs(err, model.ErrNameTooShort)
	u, _ := s.store.CurrentUser()
	s.Equal("Tiger", u.Character.Name)
}

// SubmitScore tests

func (s *StoreSuite) TestSubmitScoreUpdatesTotals() {
	s.load()

	ok, err := s.store.SubmitScore(s.ctx, "tiger", model.GamePuzzle, 42.9)
	s.Require().NoError(err)
	s.True(ok)

	u, _ := s.store.Lookup("Tiger")
	s.Equal(42, u.Character.GameScores[model.GamePuzzle])
	s.Equal(142, u.Character.TotalScore)
}

func (s *StoreSuite) TestSubmitScoreReplacesModeScore() {
	s.load()
	_, err := s.store.SubmitScore(s.ctx, "Tiger", model.GameDance, 7)
	s.Require().NoError(err)

	u, _ := s.store.Lookup("Tiger")
	s.Equal(7, u.Character.TotalScore)
}

func (s *StoreSuite) TestSubmitScoreValidation() {
	s.load()

	for _, bad := range []float64{-1, nanValue(), infValue()} {
		ok, err := s.store.SubmitScore(s.ctx, "Tiger", model.GameDance, bad)
		s.False(ok)
		s.ErrorIs(err, model.ErrInvalidScore)
	}

	_, err := s.store.SubmitScore(s.ctx, "Tiger", "bogus", 1)
	s.ErrorIs(err, model.ErrUnknownGameMode)
	_, err = s.store.SubmitScore(s.ctx, "ghost", model.GameDance, 1)
	s.ErrorIs(err, model.ErrPlayerNotFound)
	_, err = s.store.SubmitScore(s.ctx, "open", model.GameDance, 1)
	s.ErrorIs(err, model.ErrNoCharacter)
	_, err = s.store.SubmitScore(s.ctx, "", model.GameDance, 1)
	s.ErrorIs(err, model.ErrUsernameRequired)
}

func (s *StoreSuite) TestSubmitScoreRollsBackOnFailure() {
	s.load()
	before := s.store.Snapshot()
	s.backend.persistErr = errBackendDown

	ok, err := s.store.SubmitScore(s.ctx, "Tiger", model.GameRaid, 5000)
	s.False(ok)
	s.ErrorIs(err, model.ErrSyncFailed)
	s.ErrorIs(err, errBackendDown)
	s.Equal(before, s.store.Snapshot())
}

func (s *StoreSuite) TestSubmitScoreRollbackKeepsConcurrentUpdate() {
	blocking := &blockingBackend{
		fakeBackend: s.backend,
		started:     make(chan struct{}),
		release:     make(chan struct{}),
		err:         errBackendDown,
	}
	s.newStore(blocking)
	s.load()
	_, err := s.store.Login(s.ctx, "Tiger", "1")
	s.Require().NoError(err)

	done := make(chan error, 1)
	go func() {
		_, err := s.store.SubmitScore(s.ctx, "Tiger", model.GameRhythm, 500)
		done <- err
	}()
	<-blocking.started

	name := "Renamed"
	_, err = s.store.UpdateCharacter(s.ctx, model.AppearanceUpdate{Name: &name})
	s.Require().NoError(err)

	close(blocking.release)
	s.ErrorIs(<-done, model.ErrSyncFailed)

	u, ok := s.store.Lookup("Tiger")
	s.Require().True(ok)
	s.Equal("Renamed", u.Character.Name)
	s.Equal(0, u.Character.GameScores[model.GameRhythm])
	s.Equal(100, u.Character.TotalScore)
}

func (s *StoreSuite) TestSubmitScoreRejectsOutOfRange() {
	s.load()

	ok, err := s.store.SubmitScore(s.ctx, "Tiger", model.GameDance, float64(scoring.MaxScore)+1)
	s.False(ok)
	s.ErrorIs(err, model.ErrInvalidScore)

	ok, err = s.store.SubmitScore(s.ctx, "Tiger", model.GameDance, scoring.MaxScore)
	s.Require().NoError(err)
	s.True(ok)
}

func (s *StoreSuite) TestSubmitScoreUsesScoreReporter() {
	reporter := &reportingBackend{fakeBackend: s.backend}
	s.newStore(reporter)
	s.load()

	ok, err := s.store.SubmitScore(s.ctx, "Tiger", model.GameRhythm, 10)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal([]model.GameModeID{model.GameRhythm}, reporter.reports)
	s.Empty(s.backend.persisted)
}

// Logout tests

func (s *StoreSuite) TestLogout() {
	s.load()
	_, err := s.store.Login(s.ctx, "Tiger", "1")
	s.Require().NoError(err)

	s.Require().NoError(s.store.Logout(s.ctx))
	s.False(s.store.Session().Authenticated())
	_, present := s.sessionSlot()
	s.False(present)
	s.Equal(model.PageLogin, s.binder.Current())
	s.Equal("/login", s.history.Path())
}

// Access state

func (s *StoreSuite) TestAccessState() {
	s.load()
	s.False(s.store.AccessState().HasUser)

	_, err := s.store.Login(s.ctx, "open", "")
	s.Require().NoError(err)
	st := s.store.AccessState()
	s.True(st.HasUser)
	s.False(st.HasCharacter)
}

func (s *StoreSuite) TestSnapshotIsACopy() {
	s.load()
	users := s.store.Snapshot()
	users[0].Character.TotalScore = 999

	u, _ := s.store.Lookup("Tiger")
	s.Equal(100, u.Character.TotalScore)
}

// End to end

func (s *StoreSuite) TestSignupCreateSubmitRank() {
	s.load()

	ok, err := s.store.Signup(s.ctx, "alice", "pw")
	s.Require().NoError(err)
	s.True(ok)

	c, err := s.store.CreateCharacter(s.ctx, model.Appearance{Name: "Al", Avatar: "🦊", Color: "#fff"})
	s.Require().NoError(err)
	s.Equal(0, c.TotalScore)

	ok, err = s.store.SubmitScore(s.ctx, "alice", model.GameDance, 4200)
	s.Require().NoError(err)
	s.True(ok)

	u, _ := s.store.Lookup("alice")
	s.Equal(4200, u.Character.TotalScore)

	board := leaderboard.ByGame(s.store.Snapshot(), model.GameDance)
	s.Require().NotEmpty(board)
	s.Equal("alice", board[0].Username)
	s.Equal(4200, board[0].Score)
	s.Equal(1, board[0].Rank)
}
