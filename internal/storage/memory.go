package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"proant/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	specs       map[string]model.SpecRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.specs = make(map[string]model.SpecRecord)
	return nil
}

func (s *MemoryStore) SaveSpec(_ context.Context, spec model.SpecRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	spec.Collides = append([]string(nil), spec.Collides...)
	spec.Observers = append([]string(nil), spec.Observers...)
	s.specs[spec.ID] = spec
	return nil
}

func (s *MemoryStore) GetSpec(_ context.Context, id string) (model.SpecRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spec, ok := s.specs[id]
	return spec, ok, nil
}

func (s *MemoryStore) ListSpecs(_ context.Context, limit int) ([]model.SpecSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.SpecSummary, 0, len(s.specs))
	for _, spec := range s.specs {
		out = append(out, spec.Summary())
	}
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) DeleteSpec(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.specs, id)
	return nil
}

func sortNewestFirst(items []model.SpecSummary) {
	sort.SliceStable(items, func(i, j int) bool {
		ki, kj := createdAtKey(items[i].CreatedAtUTC), createdAtKey(items[j].CreatedAtUTC)
		if ki != kj {
			return ki > kj
		}
		return items[i].ID < items[j].ID
	})
}
