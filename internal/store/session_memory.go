package store

import (
	"sync"

	"github.com/Vika-svg/project1/internal/util"
)

// MemorySessionStore keeps token -> user ID mappings in-process.
// Used by handler tests.
type MemorySessionStore struct {
	mu   sync.RWMutex
	sess map[string]int64
}

// NewMemorySessionStore initializes an empty session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sess: make(map[string]int64)}
}

// NewSession creates a session token for a user.
func (m *MemorySessionStore) NewSession(userID int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token := util.NewToken()
	m.sess[token] = userID
	return token, nil
}

// GetUserIDByToken returns the user ID bound to a token.
func (m *MemorySessionStore) GetUserIDByToken(token string) (int64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.sess[token]
	return id, ok, nil
}

// DeleteSession removes a token mapping.
func (m *MemorySessionStore) DeleteSession(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sess, token)
	return nil
}
