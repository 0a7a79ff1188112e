package recordstore

import (
	"context"
	"fmt"
	"sync"

	"guardiangate/internal/gate"
	"guardiangate/pkg/platform/sentinel"
)

// InMemoryStore keeps consent records in a map for single-instance and test
// deployments.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]gate.ConsentRecord
}

// NewInMemoryStore constructs an empty in-memory record store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]gate.ConsentRecord)}
}

func (s *InMemoryStore) Save(_ context.Context, record gate.ConsentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.AccountID]; ok {
		return fmt.Errorf("consent record already exists for account %s: %w", record.AccountID, sentinel.ErrConflict)
	}
	s.records[record.AccountID] = record
	return nil
}

func (s *InMemoryStore) FindByAccount(_ context.Context, accountID string) (gate.ConsentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[accountID]
	if !ok {
		return gate.ConsentRecord{}, fmt.Errorf("consent record not found: %w", sentinel.ErrNotFound)
	}
	return record, nil
}
