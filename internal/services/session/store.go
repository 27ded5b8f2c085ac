// Package session holds the client's users and session state, and keeps
// them synchronized with the configured backend.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/mcoot/festivalboard/internal/dependencies/clock"
	"github.com/mcoot/festivalboard/internal/model"
	"github.com/mcoot/festivalboard/internal/services/access"
	"github.com/mcoot/festivalboard/internal/services/scoring"
	"github.com/mcoot/festivalboard/internal/storage"
)

// Navigator moves the client between pages. The store calls it after
// login, signup, character creation and logout.
type Navigator interface {
	Navigate(page model.Page) (model.Page, error)
	Current() model.Page
}

// Store is the single writer of user and session state
type Store struct {
	backend storage.Backend
	slots   storage.Slots
	clock   clock.Clock
	logger  *slog.Logger

	mu      sync.Mutex
	users   map[string]*model.User // keyed by canonical username
	order   []string
	current string // canonical key of the logged-in user
	loaded  bool
	nav     Navigator
}

// New creates an empty, unloaded Store
func New(backend storage.Backend, slots storage.Slots, clk clock.Clock, logger *slog.Logger) *Store {
	return &Store{
		backend: backend,
		slots:   slots,
		clock:   clk,
		logger:  logger,
		users:   make(map[string]*model.User),
	}
}

// Attach sets the navigator used after session transitions
func (s *Store) Attach(nav Navigator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav = nav
}

// Load replaces the store contents from the backend and restores the
// logged-in user from the session slot. On failure the store is left empty
// and unloaded; calling Load again retries.
func (s *Store) Load(ctx context.Context) error {
	users, err := s.backend.Load(ctx)
	if err != nil {
		s.mu.Lock()
		s.users = make(map[string]*model.User)
		s.order = nil
		s.current = ""
		s.loaded = false
		s.mu.Unlock()
		s.logger.Error("failed to load users", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", model.ErrNotLoaded, err)
	}

	byKey := make(map[string]*model.User, len(users))
	order := make([]string, 0, len(users))
	for _, u := range users {
		key := model.CanonicalUsername(u.Username)
		if key == "" {
			continue
		}
		if _, dup := byKey[key]; dup {
			s.logger.Warn("ignoring duplicate username", slog.String("username", u.Username))
			continue
		}
		byKey[key] = u.Clone()
		order = append(order, key)
	}

	current := s.restoreSession(ctx, byKey)

	s.mu.Lock()
	s.users = byKey
	s.order = order
	s.current = current
	s.loaded = true
	s.mu.Unlock()

	s.logger.Info("users loaded", slog.Int("users", len(order)), slog.Bool("session_restored", current != ""))
	return nil
}

// Retry is Load again, after a failed bootstrap
func (s *Store) Retry(ctx context.Context) error {
	return s.Load(ctx)
}

func (s *Store) restoreSession(ctx context.Context, users map[string]*model.User) string {
	name, ok, err := s.slots.Get(ctx, storage.SlotCurrentUsername)
	if err != nil {
		s.logger.Warn("failed to read session slot", slog.String("error", err.Error()))
		return ""
	}
	if !ok {
		return ""
	}
	key := model.CanonicalUsername(name)
	if _, exists := users[key]; exists {
		return key
	}
	if err := s.slots.Remove(ctx, storage.SlotCurrentUsername); err != nil {
		s.logger.Warn("failed to clear stale session slot", slog.String("error", err.Error()))
	}
	return ""
}

// Loaded reports whether the last Load succeeded
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Login authenticates an existing user. A user stored with an empty
// password accepts any password.
func (s *Store) Login(ctx context.Context, username, password string) (bool, error) {
	key := model.CanonicalUsername(username)
	if key == "" {
		return false, model.ErrUsernameRequired
	}

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return false, model.ErrNotLoaded
	}
	user, ok := s.users[key]
	if !ok || (user.Password != "" && user.Password != password) {
		s.mu.Unlock()
		return false, model.ErrInvalidCredentials
	}
	s.current = key
	display := user.Username
	landing := access.Landing(s.accessStateLocked())
	s.mu.Unlock()

	s.logger.Info("user logged in", slog.String("username", display))
	s.writeSessionSlot(ctx, display)
	s.navigate(landing)
	return true, nil
}

// Signup registers a new user without a character and logs them in
func (s *Store) Signup(ctx context.Context, username, password string) (bool, error) {
	key := model.CanonicalUsername(username)
	if key == "" {
		return false, model.ErrUsernameRequired
	}

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return false, model.ErrNotLoaded
	}
	if _, exists := s.users[key]; exists {
		s.mu.Unlock()
		return false, model.ErrUsernameExists
	}
	m := s.beginLocked(key)
	user := &model.User{Username: strings.TrimSpace(username), Password: password}
	m.apply(user)
	s.current = key
	pushed := user.Clone()
	s.mu.Unlock()

	if err := s.backend.Persist(ctx, pushed); err != nil {
		s.logger.Warn("failed to persist new user", slog.String("username", pushed.Username), slog.String("error", err.Error()))
	}
	m.commit()

	s.logger.Info("user signed up", slog.String("username", pushed.Username))
	s.writeSessionSlot(ctx, pushed.Username)
	s.navigate(model.PageCreate)
	return true, nil
}

// CreateCharacter gives the logged-in user a character with zeroed scores.
// The character is kept locally even if the backend push fails.
func (s *Store) CreateCharacter(ctx context.Context, appearance model.Appearance) (*model.Character, error) {
	appearance = appearance.Normalized()
	if err := appearance.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	user, err := s.currentUserLocked()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if user.HasCharacter() {
		s.mu.Unlock()
		return nil, model.ErrCharacterExists
	}

	m := s.beginLocked(s.current)
	now := s.clock.Now().UnixMilli()
	updated := user.Clone()
	updated.Character = &model.Character{
		ID:         strconv.FormatInt(now, 10),
		Appearance: appearance,
		CreatedAt:  now,
		GameScores: scoring.EmptyScores(),
	}
	updated.Character.TotalScore = scoring.TotalScore(updated.Character.GameScores)
	m.apply(updated)
	pushed := updated.Clone()
	s.mu.Unlock()

	if err := s.backend.Persist(ctx, pushed); err != nil {
		s.logger.Warn("failed to persist new character", slog.String("username", pushed.Username), slog.String("error", err.Error()))
	}
	m.commit()

	s.logger.Info("character created", slog.String("username", pushed.Username), slog.String("character_id", pushed.Character.ID))
	s.navigate(model.PageHome)
	return pushed.Character, nil
}

// UpdateCharacter merges changed appearance fields into the logged-in
// user's character. Identity and scores are preserved. A failed backend
// push is logged and the local edit kept.
func (s *Store) UpdateCharacter(ctx context.Context, update model.AppearanceUpdate) (*model.Character, error) {
	s.mu.Lock()
	user, err := s.currentUserLocked()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if !user.HasCharacter() {
		s.mu.Unlock()
		return nil, model.ErrNoCharacter
	}

	appearance := update.Apply(user.Character.Appearance)
	if err := appearance.Validate(); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	m := s.beginLocked(s.current)
	updated := user.Clone()
	updated.Character.Appearance = appearance
	m.apply(updated)
	pushed := updated.Clone()
	s.mu.Unlock()

	if err := s.backend.Persist(ctx, pushed); err != nil {
		s.logger.Warn("failed to persist character update", slog.String("username", pushed.Username), slog.String("error", err.Error()))
	}
	m.commit()
	return pushed.Character, nil
}

// SubmitScore records a score for any registered user with a character.
// The update is applied optimistically and reverted if the backend rejects it.
func (s *Store) SubmitScore(ctx context.Context, username string, gameID model.GameModeID, score float64) (bool, error) {
	if !gameID.Valid() {
		return false, model.ErrUnknownGameMode
	}
	if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 || score > scoring.MaxScore {
		return false, model.ErrInvalidScore
	}
	key := model.CanonicalUsername(username)
	if key == "" {
		return false, model.ErrUsernameRequired
	}

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return false, model.ErrNotLoaded
	}
	user, ok := s.users[key]
	if !ok {
		s.mu.Unlock()
		return false, model.ErrPlayerNotFound
	}
	if !user.HasCharacter() {
		s.mu.Unlock()
		return false, model.ErrNoCharacter
	}

	value := int(math.Floor(score))
	m := s.beginLocked(key)
	m.undo = func(current, before *model.User) {
		if !current.HasCharacter() || !before.HasCharacter() {
			return
		}
		previous := before.Character.GameScores.Get(gameID)
		current.Character.GameScores = scoring.WithScore(current.Character.GameScores, gameID, previous)
		current.Character.TotalScore = scoring.TotalScore(current.Character.GameScores)
	}
	updated := user.Clone()
	updated.Character.GameScores = scoring.WithScore(updated.Character.GameScores, gameID, value)
	updated.Character.TotalScore = scoring.TotalScore(updated.Character.GameScores)
	m.apply(updated)
	pushed := updated.Clone()
	s.mu.Unlock()

	var err error
	if reporter, ok := s.backend.(storage.ScoreReporter); ok {
		err = reporter.ReportScore(ctx, pushed, gameID)
	} else {
		err = s.backend.Persist(ctx, pushed)
	}
	if err != nil {
		m.revert()
		s.logger.Error("score submission rolled back",
			slog.String("username", pushed.Username),
			slog.String("game", string(gameID)),
			slog.String("error", err.Error()))
		if !errors.Is(err, model.ErrSyncFailed) {
			err = fmt.Errorf("%w: %w", model.ErrSyncFailed, err)
		}
		return false, err
	}
	m.commit()

	s.logger.Info("score submitted",
		slog.String("username", pushed.Username),
		slog.String("game", string(gameID)),
		slog.Int("score", value),
		slog.Int("total", pushed.Character.TotalScore))
	return true, nil
}

// Logout ends the session
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return model.ErrNotLoaded
	}
	s.current = ""
	s.mu.Unlock()

	if err := s.slots.Remove(ctx, storage.SlotCurrentUsername); err != nil {
		s.logger.Warn("failed to clear session slot", slog.String("error", err.Error()))
	}
	s.navigate(model.PageLogin)
	return nil
}

// Snapshot returns copies of every user in load/registration order
func (s *Store) Snapshot() []*model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.User, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.users[key].Clone())
	}
	return out
}

// Lookup finds a user by username, case-insensitively
func (s *Store) Lookup(username string) (*model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[model.CanonicalUsername(username)]
	return user.Clone(), ok
}

// CurrentUser returns the logged-in user
func (s *Store) CurrentUser() (*model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, err := s.currentUserLocked()
	if err != nil {
		return nil, false
	}
	return user.Clone(), true
}

// Session returns the current session context
func (s *Store) Session() model.Session {
	s.mu.Lock()
	var sess model.Session
	if user, ok := s.users[s.current]; ok {
		sess.CurrentUser = user.Username
	}
	nav := s.nav
	s.mu.Unlock()

	sess.CurrentPage = model.PageLogin
	if nav != nil {
		sess.CurrentPage = nav.Current()
	}
	return sess
}

// AccessState reports whether a user is logged in and has a character
func (s *Store) AccessState() access.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessStateLocked()
}

func (s *Store) accessStateLocked() access.State {
	user, ok := s.users[s.current]
	return access.State{
		HasUser:      ok,
		HasCharacter: ok && user.HasCharacter(),
	}
}

func (s *Store) currentUserLocked() (*model.User, error) {
	if !s.loaded {
		return nil, model.ErrNotLoaded
	}
	user, ok := s.users[s.current]
	if !ok {
		return nil, model.ErrNotAuthenticated
	}
	return user, nil
}

func (s *Store) writeSessionSlot(ctx context.Context, username string) {
	if err := s.slots.Set(ctx, storage.SlotCurrentUsername, username); err != nil {
		s.logger.Warn("failed to write session slot", slog.String("error", err.Error()))
	}
}

// navigate must be called without holding mu: the navigator reads access
// state back from the store.
func (s *Store) navigate(page model.Page) {
	s.mu.Lock()
	nav := s.nav
	s.mu.Unlock()
	if nav == nil {
		return
	}
	if _, err := nav.Navigate(page); err != nil {
		s.logger.Warn("navigation failed", slog.String("page", string(page)), slog.String("error", err.Error()))
	}
}
