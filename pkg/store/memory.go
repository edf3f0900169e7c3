package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pathforge/pathforge/pkg/errors"
)

// MemoryStore is an in-memory Store for development and testing.
// Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

// Get retrieves a record by ID.
func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

// Put upserts a record by ID.
func (s *MemoryStore) Put(_ context.Context, rec *Record) error {
	if rec.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "record has no id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(rec, s.records[rec.ID], time.Now())
	s.records[rec.ID] = rec.Clone()
	return nil
}

// Delete removes a record.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// List returns all records, most recently updated first.
func (s *MemoryStore) List(_ context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close(context.Context) error { return nil }
