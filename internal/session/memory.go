package session

import (
	"context"
	"sync"
	"time"

	"github.com/tennis-web/internal/domain"
)

type memoryRecord struct {
	token     string
	user      string
	updatedAt time.Time
}

// MemoryStorage keeps sessions in process memory
type MemoryStorage struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
}

// NewMemoryStorage creates an empty in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{records: make(map[string]memoryRecord)}
}

// Load implements Storage
func (m *MemoryStorage) Load(_ context.Context, id string) (Snapshot, error) {
	m.mu.RLock()
	rec, ok := m.records[id]
	m.mu.RUnlock()
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	return Snapshot{Token: rec.token, User: DecodeUser(rec.user), UpdatedAt: rec.updatedAt}, nil
}

// Save implements Storage
func (m *MemoryStorage) Save(_ context.Context, id string, snap Snapshot) error {
	user, err := EncodeUser(snap.User)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.records[id] = memoryRecord{token: snap.Token, user: user, updatedAt: snap.UpdatedAt}
	m.mu.Unlock()
	return nil
}

// Delete implements Storage
func (m *MemoryStorage) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.records, id)
	m.mu.Unlock()
	return nil
}

// DeleteIdle implements Sweeper
func (m *MemoryStorage) DeleteIdle(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, rec := range m.records {
		if rec.updatedAt.Before(before) {
			delete(m.records, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
