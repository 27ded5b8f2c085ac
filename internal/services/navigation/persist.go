package navigation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mcoot/festivalboard/internal/model"
	"github.com/mcoot/festivalboard/internal/storage"
)

// LoadHistory restores a MemoryHistory from its durable slot. A missing or
// corrupt slot starts a fresh history at the login path.
func LoadHistory(ctx context.Context, slots storage.Slots, logger *slog.Logger) (*MemoryHistory, error) {
	h := NewMemoryHistory(PageToPath(model.PageLogin))
	raw, ok, err := slots.Get(ctx, storage.SlotNavigationHistory)
	if err != nil {
		return nil, fmt.Errorf("read navigation history: %w", err)
	}
	if !ok {
		return h, nil
	}
	if err := json.Unmarshal([]byte(raw), h); err != nil {
		logger.Warn("discarding corrupt navigation history", slog.String("error", err.Error()))
		return NewMemoryHistory(PageToPath(model.PageLogin)), nil
	}
	return h, nil
}

// SaveHistory writes the history to its durable slot
func SaveHistory(ctx context.Context, slots storage.Slots, h *MemoryHistory) error {
	data, err := json.Marshal(h)
	if err != nil {
		return err
	}
	if err := slots.Set(ctx, storage.SlotNavigationHistory, string(data)); err != nil {
		return fmt.Errorf("write navigation history: %w", err)
	}
	return nil
}
