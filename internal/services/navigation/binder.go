package navigation

import (
	"log/slog"
	"sync"

	"github.com/mcoot/festivalboard/internal/model"
	"github.com/mcoot/festivalboard/internal/services/access"
)

// StateSource is what the binder needs from the session store
type StateSource interface {
	access.StateSource
	Loaded() bool
}

// Binder owns the current page. Every change is resolved through the access
// rules: explicit navigation pushes a history entry, corrections replace it.
type Binder struct {
	mu      sync.Mutex
	history History
	state   StateSource
	logger  *slog.Logger
	current model.Page
	stop    func()
}

// NewBinder creates a Binder. It does nothing until Start is called.
func NewBinder(history History, state StateSource, logger *slog.Logger) *Binder {
	return &Binder{
		history: history,
		state:   state,
		logger:  logger,
		current: model.PageLogin,
	}
}

// Start derives the initial page from the current path, normalizes the path
// with a replace and begins listening for history moves.
func (b *Binder) Start() error {
	if !b.state.Loaded() {
		return model.ErrNotLoaded
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stop == nil {
		b.stop = b.history.Listen(b.PopState)
	}
	b.current = PathToPage(b.history.Path())
	b.enforceLocked()
	return nil
}

// Stop detaches from the history
func (b *Binder) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stop != nil {
		b.stop()
		b.stop = nil
	}
}

// Current returns the page being shown
func (b *Binder) Current() model.Page {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Navigate requests a page and returns the page actually shown
func (b *Binder) Navigate(page model.Page) (model.Page, error) {
	if !page.Valid() {
		return "", model.ErrUnknownPage
	}
	if !b.state.Loaded() {
		return "", model.ErrNotLoaded
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if path := PageToPath(page); path != b.history.Path() {
		b.history.Push(path)
	}
	b.current = page
	b.enforceLocked()
	return b.current, nil
}

// PopState handles a user-initiated history move to path
func (b *Binder) PopState(path string) {
	if !b.state.Loaded() {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = PathToPage(path)
	b.enforceLocked()
}

// enforceLocked resolves the current page and replaces the history entry
// when it does not match.
func (b *Binder) enforceLocked() {
	resolved := access.ResolveFor(b.state, b.current)
	if resolved != b.current {
		b.logger.Debug("redirecting page",
			slog.String("requested", string(b.current)),
			slog.String("resolved", string(resolved)))
		b.current = resolved
	}
	if path := PageToPath(b.current); path != b.history.Path() {
		b.history.Replace(path)
	}
}
