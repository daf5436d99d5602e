package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound marks a session that was never created or already expired.
var ErrNotFound = errors.New("session not found")

// Record is the only durable client state the portal keeps for a provider:
// the two platform tokens plus the cached role string.
type Record struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Role         string `json:"role"`
}

// Store persists session records with an idle TTL. Touch resets the TTL and
// reports whether the session still existed, which is how inactivity expiry
// is enforced.
type Store interface {
	Save(ctx context.Context, sessionID string, record Record, ttl time.Duration) error
	Load(ctx context.Context, sessionID string) (Record, error)
	Touch(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	record   Record
	deadline time.Time
}

// MemoryStore keeps sessions in process memory. The default for single
// instance deployments and tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: map[string]memoryEntry{},
		now:     time.Now,
	}
}

func (m *MemoryStore) Save(_ context.Context, sessionID string, record Record, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[sessionID] = memoryEntry{record: record, deadline: m.now().Add(ttl)}
	return nil
}

func (m *MemoryStore) Load(_ context.Context, sessionID string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[sessionID]
	if !ok || m.now().After(entry.deadline) {
		delete(m.entries, sessionID)
		return Record{}, ErrNotFound
	}
	return entry.record, nil
}

func (m *MemoryStore) Touch(_ context.Context, sessionID string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[sessionID]
	if !ok || m.now().After(entry.deadline) {
		delete(m.entries, sessionID)
		return false, nil
	}
	entry.deadline = m.now().Add(ttl)
	m.entries[sessionID] = entry
	return true, nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	return nil
}

// Sweep drops expired entries; redis handles this via key TTLs, the memory
// store needs a periodic call from the owning process.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	now := m.now()
	for id, entry := range m.entries {
		if now.After(entry.deadline) {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}
