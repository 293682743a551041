package data

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSnapshotNotFound is returned by SnapshotStore.Load for unknown keys.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore persists the last successfully fetched payload per cache key.
type SnapshotStore interface {
	Save(ctx context.Context, key string, payload []byte) error
	Load(ctx context.Context, key string) ([]byte, time.Time, error)
}

type snapshot struct {
	payload []byte
	savedAt time.Time
}

// MemorySnapshots keeps snapshots for the lifetime of the process.
type MemorySnapshots struct {
	mu sync.RWMutex
	m  map[string]snapshot
}

func NewMemorySnapshots() *MemorySnapshots {
	return &MemorySnapshots{m: make(map[string]snapshot)}
}

func (s *MemorySnapshots) Save(_ context.Context, key string, payload []byte) error {
	cp := append([]byte(nil), payload...)
	s.mu.Lock()
	s.m[key] = snapshot{payload: cp, savedAt: time.Now().UTC()}
	s.mu.Unlock()
	return nil
}

func (s *MemorySnapshots) Load(_ context.Context, key string) ([]byte, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.m[key]
	if !ok {
		return nil, time.Time{}, ErrSnapshotNotFound
	}
	return append([]byte(nil), snap.payload...), snap.savedAt, nil
}
