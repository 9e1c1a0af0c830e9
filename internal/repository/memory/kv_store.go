package memory

import (
	"context"
	"sync"

	"go-candidate-scout/internal/domain"
)

type kvStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewKVStore returns a process-local store. Contents are lost on restart.
func NewKVStore() domain.KeyValueStore {
	return &kvStore{values: make(map[string]string)}
}

func (s *kvStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *kvStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *kvStore) Ping(ctx context.Context) error {
	return nil
}
