package cart

import (
	"context"
	"sync"

	"meal_storefront/internal/domain/repository"
	"meal_storefront/pkg/logger"
)

// Manager opens one Store per session and keeps it for the process lifetime.
type Manager struct {
	mu      sync.Mutex
	backend repository.KeyValueStore
	stores  map[string]*Store
	logger  logger.Logger
}

func NewManager(backend repository.KeyValueStore, log logger.Logger) *Manager {
	return &Manager{
		backend: backend,
		stores:  make(map[string]*Store),
		logger:  log,
	}
}

// Session returns the store of sessionID, rehydrating it on first use.
func (m *Manager) Session(ctx context.Context, sessionID string) (*Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[sessionID]; ok {
		return s, nil
	}
	s, err := Open(ctx, Scope(m.backend, sessionID), m.logger.WithFields(logger.String("session_id", sessionID)))
	if err != nil {
		return nil, err
	}
	m.stores[sessionID] = s
	return s, nil
}

// ClearSession empties the cart of sessionID.
func (m *Manager) ClearSession(ctx context.Context, sessionID string) error {
	s, err := m.Session(ctx, sessionID)
	if err != nil {
		return err
	}
	return s.Clear(ctx)
}

// scopedStore prefixes keys with the session id.
type scopedStore struct {
	inner  repository.KeyValueStore
	prefix string
}

// Scope restricts store to the keys of one session.
func Scope(store repository.KeyValueStore, sessionID string) repository.KeyValueStore {
	return &scopedStore{inner: store, prefix: "session:" + sessionID + ":"}
}

func (s *scopedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scopedStore) Set(ctx context.Context, key string, value []byte) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}
