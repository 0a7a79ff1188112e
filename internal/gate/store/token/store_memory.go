package tokenstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"guardiangate/internal/gate"
	"guardiangate/internal/gate/token"
	"guardiangate/pkg/platform/sentinel"
)

type entry struct {
	payload   gate.ConsentPayload
	expiresAt time.Time
}

// InMemoryStore keeps token payloads in a map for single-instance and test
// deployments. Expiry is enforced lazily on read; DeleteExpired reclaims
// space when a caller wants a sweep.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	clock   func() time.Time
}

// Option configures an InMemoryStore.
type Option func(*InMemoryStore)

// WithClock sets the clock function for testability.
func WithClock(clock func() time.Time) Option {
	return func(s *InMemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewInMemoryStore constructs an empty in-memory token store.
func NewInMemoryStore(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{
		entries: make(map[string]entry),
		clock:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *InMemoryStore) Put(_ context.Context, tok string, payload gate.ConsentPayload, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token.Key(tok)] = entry{payload: payload, expiresAt: s.clock().Add(ttl)}
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, tok string) (gate.ConsentPayload, error) {
	s.mu.RLock()
	e, ok := s.entries[token.Key(tok)]
	s.mu.RUnlock()
	if !ok || s.clock().After(e.expiresAt) {
		return gate.ConsentPayload{}, fmt.Errorf("consent token not found: %w", sentinel.ErrNotFound)
	}
	return e.payload, nil
}

func (s *InMemoryStore) Delete(_ context.Context, tok string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token.Key(tok))
	return nil
}

// DeleteExpired removes all entries past their TTL as of now and reports how
// many were removed. Correctness does not depend on this; it only reclaims
// space. The time is injected for testability.
func (s *InMemoryStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
			deleted++
		}
	}
	return deleted, nil
}
