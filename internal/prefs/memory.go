package prefs

import (
	"context"
	"sync"

	"github.com/AngelCh415/wb-ads-analytics/internal/models"
)

type MemoryStore struct {
	mu      sync.RWMutex
	filters *models.Filters
	config  *models.AnalyticsConfig
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) LoadFilters(context.Context) (models.Filters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.filters == nil {
		return models.Filters{}, ErrNotFound
	}
	return *s.filters, nil
}

func (s *MemoryStore) SaveFilters(_ context.Context, f models.Filters) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = &f
	return nil
}

func (s *MemoryStore) LoadConfig(context.Context) (models.AnalyticsConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.config == nil {
		return models.AnalyticsConfig{}, ErrNotFound
	}
	return *s.config, nil
}

func (s *MemoryStore) SaveConfig(_ context.Context, c models.AnalyticsConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = &c
	return nil
}
