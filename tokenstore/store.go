// Package tokenstore persists the API bearer token between runs so a session
// survives a restart until an explicit logout.
package tokenstore

import (
	"context"
	"sync"
)

// Key is the fixed name the token is stored under.
const Key = "auth_token"

// Store is persisted storage for the bearer token. Load returns "" with a nil
// error when no token has been saved.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Memory keeps the token for the lifetime of the process only.
type Memory struct {
	mu    sync.RWMutex
	token string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *Memory) Save(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
