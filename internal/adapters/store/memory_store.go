package store

import (
	"context"
	"sync"

	"github.com/mikey/icp-outreach/internal/core"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory implementation of the DeliveryStore
// interface. Claim is atomic under the store mutex, which gives the
// per-key compare-and-swap discipline the delivery pipeline relies on.
type MemoryStore struct {
	records map[string]core.DeliveryRecord
	mu      sync.Mutex
	logger  *zap.Logger
}

// NewMemoryStore creates a new in-memory delivery record store.
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		records: make(map[string]core.DeliveryRecord),
		logger:  logger,
	}
}

// Claim returns the record for key, creating rec when none exists.
// The returned record is a copy; callers persist changes with Update.
func (s *MemoryStore) Claim(ctx context.Context, key string, rec *core.DeliveryRecord) (*core.DeliveryRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.records[key]; ok {
		out := existing
		return &out, false, nil
	}

	s.records[key] = *rec
	out := *rec
	return &out, true, nil
}

// Update persists the current state of a record.
func (s *MemoryStore) Update(ctx context.Context, rec *core.DeliveryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.Key] = *rec
	return nil
}

// Get returns the record for key, or nil when absent.
func (s *MemoryStore) Get(ctx context.Context, key string) (*core.DeliveryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	out := existing
	return &out, nil
}
