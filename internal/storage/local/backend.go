// Package local implements the session store backend on top of a users
// snapshot kept in a durable slot.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/mcoot/festivalboard/internal/model"
	"github.com/mcoot/festivalboard/internal/services/normalizer"
	"github.com/mcoot/festivalboard/internal/storage"
)

const emptySnapshot = `{}`

// Backend stores every user in one JSON object keyed by username
type Backend struct {
	slots      storage.Slots
	normalizer *normalizer.Normalizer
	logger     *slog.Logger
	seed       func() []*model.User
}

// Option configures a Backend
type Option func(*Backend)

// WithSeed installs users to write when no snapshot exists yet
func WithSeed(seed func() []*model.User) Option {
	return func(b *Backend) {
		b.seed = seed
	}
}

// New creates a local Backend
func New(slots storage.Slots, n *normalizer.Normalizer, logger *slog.Logger, opts ...Option) *Backend {
	b := &Backend{
		slots:      slots,
		normalizer: n,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var _ storage.Backend = (*Backend)(nil)

// Load reads and normalizes the snapshot, then writes the normalized form
// back so repaired records are durable.
func (b *Backend) Load(ctx context.Context) ([]*model.User, error) {
	raw, ok, err := b.slots.Get(ctx, storage.SlotUsersSnapshot)
	if err != nil {
		return nil, fmt.Errorf("read users snapshot: %w", err)
	}

	var users []*model.User
	if ok {
		users = b.normalizer.UsersBytes([]byte(raw))
	} else if b.seed != nil {
		users = b.seed()
		b.logger.Info("seeding users snapshot", slog.Int("users", len(users)))
	}

	doc, err := encodeSnapshot(users)
	if err != nil {
		return nil, err
	}
	if !ok || string(doc) != raw {
		if err := b.slots.Set(ctx, storage.SlotUsersSnapshot, string(doc)); err != nil {
			return nil, fmt.Errorf("write users snapshot: %w", err)
		}
	}
	return users, nil
}

// Persist upserts one user into the snapshot
func (b *Backend) Persist(ctx context.Context, user *model.User) error {
	raw, ok, err := b.slots.Get(ctx, storage.SlotUsersSnapshot)
	if err != nil {
		return fmt.Errorf("read users snapshot: %w", err)
	}
	doc := []byte(raw)
	if !ok || !gjson.ValidBytes(doc) || !gjson.ParseBytes(doc).IsObject() {
		doc = []byte(emptySnapshot)
	}

	doc, err = setUser(doc, user)
	if err != nil {
		return err
	}
	if err := b.slots.Set(ctx, storage.SlotUsersSnapshot, string(doc)); err != nil {
		return fmt.Errorf("write users snapshot: %w", err)
	}
	return nil
}

func encodeSnapshot(users []*model.User) ([]byte, error) {
	doc := []byte(emptySnapshot)
	for _, u := range users {
		var err error
		if doc, err = setUser(doc, u); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func setUser(doc []byte, user *model.User) ([]byte, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("encode user %q: %w", user.Username, err)
	}
	out, err := sjson.SetRawBytes(doc, gjson.Escape(user.Username), data)
	if err != nil {
		return nil, fmt.Errorf("update users snapshot: %w", err)
	}
	return out, nil
}
