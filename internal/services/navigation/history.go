package navigation

import (
	"encoding/json"
	"fmt"
	"sync"
)

// History is the location history the binder drives.
// Push and Replace never notify listeners; Listen callbacks fire only for
// user-initiated moves such as Back and Forward.
type History interface {
	Path() string
	Push(path string)
	Replace(path string)
	Listen(fn func(path string)) (unsubscribe func())
}

// MemoryHistory is an in-process History with back/forward support
type MemoryHistory struct {
	mu        sync.Mutex
	entries   []string
	index     int
	listeners map[int]func(string)
	nextID    int
}

// NewMemoryHistory creates a history positioned at initial
func NewMemoryHistory(initial string) *MemoryHistory {
	return &MemoryHistory{
		entries:   []string{initial},
		listeners: make(map[int]func(string)),
	}
}

var _ History = (*MemoryHistory)(nil)

func (h *MemoryHistory) Path() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Push adds an entry after the current one, discarding any forward entries
func (h *MemoryHistory) Push(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], path)
	h.index++
}

func (h *MemoryHistory) Replace(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.index] = path
}

func (h *MemoryHistory) Listen(fn func(path string)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

// Back moves one entry back and notifies listeners. It reports false at
// the start of history.
func (h *MemoryHistory) Back() bool {
	return h.move(-1)
}

// Forward moves one entry forward and notifies listeners
func (h *MemoryHistory) Forward() bool {
	return h.move(1)
}

// Len returns the number of entries
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

func (h *MemoryHistory) move(delta int) bool {
	h.mu.Lock()
	next := h.index + delta
	if next < 0 || next >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = next
	path := h.entries[next]
	fns := make([]func(string), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(path)
	}
	return true
}

type historyState struct {
	Entries []string `json:"entries"`
	Index   int      `json:"index"`
}

// MarshalJSON encodes the entries and position
func (h *MemoryHistory) MarshalJSON() ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return json.Marshal(historyState{Entries: h.entries, Index: h.index})
}

// UnmarshalJSON restores entries and position, keeping listeners
func (h *MemoryHistory) UnmarshalJSON(data []byte) error {
	var st historyState
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}
	if len(st.Entries) == 0 || st.Index < 0 || st.Index >= len(st.Entries) {
		return fmt.Errorf("invalid history state: %d entries, index %d", len(st.Entries), st.Index)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = st.Entries
	h.index = st.Index
	if h.listeners == nil {
		h.listeners = make(map[int]func(string))
	}
	return nil
}
