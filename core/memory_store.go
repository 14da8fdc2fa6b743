package core

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps entries in process memory. Get may delete, so every
// operation takes the same exclusive lock.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]Entry
	ttl  time.Duration
	now  Clock
}

func NewMemoryStore(ttl time.Duration, now Clock) *MemoryStore {
	return &MemoryStore{
		data: make(map[string]Entry),
		ttl:  ttl,
		now:  clockOrDefault(now),
	}
}

func (s *MemoryStore) Set(_ context.Context, token, code string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := Entry{Code: code, RecordedAt: s.now()}
	s.data[token] = e
	return e, nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[token]
	if !ok {
		return Entry{}, false, nil
	}
	if IsExpired(&e, s.ttl, s.now()) {
		delete(s.data, token)
		return Entry{}, false, nil
	}
	return e, true, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, token)
	return nil
}

// Len returns the number of held entries, including stale ones no Get has
// touched yet.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}
