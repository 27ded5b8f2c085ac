package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mcoot/festivalboard/internal/config"
	"github.com/mcoot/festivalboard/internal/dependencies/clock"
	"github.com/mcoot/festivalboard/internal/dependencies/random"
	"github.com/mcoot/festivalboard/internal/services/navigation"
	"github.com/mcoot/festivalboard/internal/services/normalizer"
	"github.com/mcoot/festivalboard/internal/services/scoregate"
	"github.com/mcoot/festivalboard/internal/services/scoring"
	"github.com/mcoot/festivalboard/internal/services/session"
	"github.com/mcoot/festivalboard/internal/storage"
	"github.com/mcoot/festivalboard/internal/storage/local"
	"github.com/mcoot/festivalboard/internal/storage/memory"
	redisstorage "github.com/mcoot/festivalboard/internal/storage/redis"
	"github.com/mcoot/festivalboard/internal/storage/remote"
	"github.com/mcoot/festivalboard/internal/storage/sqlite"
)

// DefaultAPIBaseURL is the hosted players service
const DefaultAPIBaseURL = "https://broad-bad-9cd25.rtioalb2250.workers.dev"

// App contains all wired client components
type App struct {
	// Storage
	Slots   storage.Slots
	Backend storage.Backend

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	ScoringService *scoring.Service
	Normalizer     *normalizer.Normalizer
	Session        *session.Store
	History        *navigation.MemoryHistory
	Navigator      *navigation.Binder
	ScoreGate      *scoregate.Gate

	logger  *slog.Logger
	closers []io.Closer
}

// Config holds configuration for the client factory
type Config struct {
	// Settings selects backend, slot store and secrets.
	// Zero values fall back to the documented defaults.
	Settings config.Client
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a client application with all dependencies wired. Players are
// not loaded yet: call Start.
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	settings := withDefaults(cfg.Settings)

	slots, closer, err := openSlots(settings)
	if err != nil {
		return nil, err
	}
	var closers []io.Closer
	if closer != nil {
		closers = append(closers, closer)
	}

	deps := newDependencies(slots, clock.New(), random.New())

	var backend storage.Backend
	switch settings.Backend {
	case config.BackendLocal:
		var opts []local.Option
		if settings.SeedDemo {
			opts = append(opts, local.WithSeed(local.DemoUsers(deps.clock)))
		}
		backend = local.New(slots, deps.normalizer, logger, opts...)
	case config.BackendRemote:
		client := remote.NewClient(settings.APIBaseURL, settings.APITimeout)
		backend = remote.NewBackend(client, deps.normalizer, logger, settings.ScoreSecret)
	default:
		closeAll(closers)
		return nil, fmt.Errorf("invalid backend %q: must be %q or %q", settings.Backend, config.BackendLocal, config.BackendRemote)
	}

	app, err := newWithDependencies(ctx, deps, backend, settings.ScorePageCode, logger)
	if err != nil {
		closeAll(closers)
		return nil, err
	}
	app.closers = closers
	return app, nil
}

// dependencies are the components shared by every backend
type dependencies struct {
	slots      storage.Slots
	clock      clock.Clock
	random     random.Random
	scoring    *scoring.Service
	normalizer *normalizer.Normalizer
}

func newDependencies(slots storage.Slots, clk clock.Clock, rnd random.Random) dependencies {
	scoringService := scoring.New(rnd)
	return dependencies{
		slots:      slots,
		clock:      clk,
		random:     rnd,
		scoring:    scoringService,
		normalizer: normalizer.New(clk, scoringService),
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(ctx context.Context, d dependencies, backend storage.Backend, accessCode string, logger *slog.Logger) (*App, error) {
	store := session.New(backend, d.slots, d.clock, logger)
	history, err := navigation.LoadHistory(ctx, d.slots, logger)
	if err != nil {
		return nil, err
	}
	binder := navigation.NewBinder(history, store, logger)
	store.Attach(binder)

	gate := scoregate.New(store, accessCode, logger)

	return &App{
		Slots:          d.slots,
		Backend:        backend,
		Clock:          d.clock,
		Random:         d.random,
		ScoringService: d.scoring,
		Normalizer:     d.normalizer,
		Session:        store,
		History:        history,
		Navigator:      binder,
		ScoreGate:      gate,
		logger:         logger,
	}, nil
}

// Start loads players from the backend and begins enforcing page access.
// On a load failure the app stays usable: Session.Retry can be called later.
func (a *App) Start(ctx context.Context) error {
	if err := a.Session.Load(ctx); err != nil {
		return err
	}
	return a.Navigator.Start()
}

// Retry repeats a failed Start
func (a *App) Retry(ctx context.Context) error {
	if err := a.Session.Retry(ctx); err != nil {
		return err
	}
	return a.Navigator.Start()
}

// Close persists the navigation history and releases storage handles
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := navigation.SaveHistory(ctx, a.Slots, a.History); err != nil {
		errs = append(errs, err)
	}
	a.Navigator.Stop()
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func openSlots(settings config.Client) (storage.Slots, io.Closer, error) {
	switch settings.SlotStore {
	case config.SlotStoreMemory:
		return memory.New(), nil, nil
	case config.SlotStoreSQLite:
		if dir := filepath.Dir(settings.ProfilePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create profile dir: %w", err)
			}
		}
		store, err := sqlite.Open(settings.ProfilePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case config.SlotStoreRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = settings.RedisURL
		if settings.RedisPrefix != "" {
			redisCfg.KeyPrefix = settings.RedisPrefix
		}
		store, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("invalid slot store %q", settings.SlotStore)
	}
}

func withDefaults(s config.Client) config.Client {
	if s.Backend == "" {
		s.Backend = config.BackendRemote
	}
	if s.SlotStore == "" {
		s.SlotStore = config.SlotStoreMemory
	}
	if s.ProfilePath == "" {
		s.ProfilePath = config.DefaultProfilePath()
	}
	if s.APIBaseURL == "" {
		s.APIBaseURL = DefaultAPIBaseURL
	}
	if s.ScorePageCode == "" {
		s.ScorePageCode = scoregate.DefaultAccessCode
	}
	if s.ScoreSecret == "" {
		s.ScoreSecret = remote.DefaultScoreSecret
	}
	if s.APITimeout <= 0 {
		s.APITimeout = remote.DefaultTimeout
	}
	return s
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}
