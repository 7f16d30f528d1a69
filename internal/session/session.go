package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

const shortIDLen = 8

var ErrEmptyID = errors.New("session id must not be empty")

// Store persists the single document identifier across restarts.
type Store interface {
	// Get returns the stored identifier, or "" when none was ever set.
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, id string) error
}

// Session correlates this client with the document the backend holds.
type Session struct {
	ID string
}

// Active reports whether a document has been uploaded.
func (s Session) Active() bool {
	return s.ID != ""
}

// Short returns at most the first eight characters of the identifier
// followed by "...", or "" when there is no session.
func (s Session) Short() string {
	if s.ID == "" {
		return ""
	}
	r := []rune(s.ID)
	if len(r) > shortIDLen {
		r = r[:shortIDLen]
	}
	return string(r) + "..."
}

// Holder keeps the in-memory Session in step with its Store. The store is
// read once by Load; afterwards reads are served from memory.
type Holder struct {
	mu      sync.RWMutex
	store   Store
	current Session
}

func NewHolder(store Store) *Holder {
	return &Holder{store: store}
}

func (h *Holder) Load(ctx context.Context) error {
	id, err := h.store.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	h.mu.Lock()
	h.current = Session{ID: id}
	h.mu.Unlock()

	slog.Debug("session loaded",
		slog.String("id", id),
	)
	return nil
}

func (h *Holder) Current() Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Set persists id and then makes it current. On a store failure the
// current session is left untouched.
func (h *Holder) Set(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}
	if err := h.store.Set(ctx, id); err != nil {
		return fmt.Errorf("failed to save session %s: %w", id, err)
	}

	h.mu.Lock()
	h.current = Session{ID: id}
	h.mu.Unlock()

	slog.Info("session updated",
		slog.String("id", id),
	)
	return nil
}

// MemoryStore is a Store that lives only as long as the process.
type MemoryStore struct {
	mu sync.Mutex
	id string
}

func NewMemoryStore(id string) *MemoryStore {
	return &MemoryStore{id: id}
}

func (m *MemoryStore) Get(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id, nil
}

func (m *MemoryStore) Set(_ context.Context, id string) error {
	m.mu.Lock()
	m.id = id
	m.mu.Unlock()
	return nil
}
