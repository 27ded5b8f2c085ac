package factory

import (
	"context"
	"time"

	"github.com/mcoot/festivalboard/internal/dependencies/mocks"
	"github.com/mcoot/festivalboard/internal/services/players"
	"github.com/mcoot/festivalboard/internal/services/scoregate"
	"github.com/mcoot/festivalboard/internal/storage/local"
	"github.com/mcoot/festivalboard/internal/storage/memory"
	"github.com/mcoot/festivalboard/internal/storage/remote"
	"github.com/mcoot/festivalboard/internal/testutil"
)

// testEpoch is the mocked "now" of every test app
var testEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Storage is the in-memory slot store behind the app
	Storage *memory.Storage

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates a client App on the local backend with in-memory
// slots and mocked clock and random. The demo users are seeded.
func NewTestApp() *TestApp {
	return newTestApp(memory.New(), true)
}

// NewEmptyTestApp is NewTestApp without the demo seed
func NewEmptyTestApp() *TestApp {
	return newTestApp(memory.New(), false)
}

// NewTestAppWithStorage reopens a test app over existing slots, the way a
// restarted client would
func NewTestAppWithStorage(store *memory.Storage) *TestApp {
	return newTestApp(store, false)
}

func newTestApp(store *memory.Storage, seed bool) *TestApp {
	mockClock := mocks.NewMockClock(testEpoch)
	mockRandom := mocks.NewMockRandom()
	d := newDependencies(store, mockClock, mockRandom)

	var opts []local.Option
	if seed {
		opts = append(opts, local.WithSeed(local.DemoUsers(mockClock)))
	}
	backend := local.New(store, d.normalizer, testutil.NopLogger(), opts...)

	app, err := newWithDependencies(context.Background(), d, backend, scoregate.DefaultAccessCode, testutil.NopLogger())
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:        app,
		Storage:    store,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// NewRemoteTestApp creates a client App that talks to the players service
// at baseURL, with in-memory slots
func NewRemoteTestApp(baseURL string) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(testEpoch)
	mockRandom := mocks.NewMockRandom()
	d := newDependencies(store, mockClock, mockRandom)

	client := remote.NewClient(baseURL, 5*time.Second)
	backend := remote.NewBackend(client, d.normalizer, testutil.NopLogger(), players.DefaultScoreSecret)

	app, err := newWithDependencies(context.Background(), d, backend, scoregate.DefaultAccessCode, testutil.NopLogger())
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:        app,
		Storage:    store,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// TestServerApp extends ServerApp with test-specific helpers
type TestServerApp struct {
	*ServerApp

	Storage   *memory.Storage
	MockClock *mocks.MockClock
}

// NewTestServerApp creates a players server over in-memory storage with a mocked clock
func NewTestServerApp() *TestServerApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(testEpoch)

	return &TestServerApp{
		ServerApp: newServerWithDependencies(store, mockClock, players.DefaultConfig(), testutil.NopLogger()),
		Storage:   store,
		MockClock: mockClock,
	}
}
